package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Kilat-Pet-Delivery/service-adoption/internal/application"
	"github.com/Kilat-Pet-Delivery/service-adoption/internal/platform/health"
	"github.com/Kilat-Pet-Delivery/service-adoption/internal/platform/metrics"
	"github.com/Kilat-Pet-Delivery/service-adoption/internal/platform/middleware"
)

// Services groups the application services exposed over HTTP.
type Services struct {
	Credentials *application.CredentialService
	Pets        *application.PetService
	Statuses    *application.StatusService
}

// RouterOptions configures NewRouter. Metrics, Health and UploadsDir are optional.
type RouterOptions struct {
	Logger     *zap.Logger
	Verifier   middleware.TokenVerifier
	Metrics    *metrics.Metrics
	Health     *health.Handler
	UploadsDir string
}

// NewRouter builds the gin engine with global middleware and every route.
func NewRouter(svc Services, opts RouterOptions) *gin.Engine {
	router := gin.New()

	router.Use(middleware.RecoveryMiddleware(opts.Logger))
	router.Use(middleware.LoggerMiddleware(opts.Logger))
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.CORSMiddleware())
	router.Use(middleware.SecurityHeadersMiddleware())
	if opts.Metrics != nil {
		router.Use(opts.Metrics.Middleware())
		router.GET("/metrics", opts.Metrics.Handler())
	}
	if opts.Health != nil {
		opts.Health.RegisterRoutes(router)
	}
	if opts.UploadsDir != "" {
		router.Static("/uploads", opts.UploadsDir)
	}

	router.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "Welcome to the pet adoption API"})
	})

	api := &router.RouterGroup
	NewAccountHandler(svc.Credentials).RegisterRoutes(api)
	NewPetHandler(svc.Pets).RegisterRoutes(api, opts.Verifier)
	NewStatusHandler(svc.Statuses).RegisterRoutes(api, opts.Verifier)
	NewDashboardHandler(svc.Pets).RegisterRoutes(api, opts.Verifier)

	return router
}
