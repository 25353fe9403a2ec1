package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/Kilat-Pet-Delivery/service-adoption/internal/application"
	"github.com/Kilat-Pet-Delivery/service-adoption/internal/platform/middleware"
	"github.com/Kilat-Pet-Delivery/service-adoption/internal/platform/response"
)

// DashboardHandler serves an institution's view of its own listings.
type DashboardHandler struct {
	service *application.PetService
}

// NewDashboardHandler creates a new DashboardHandler.
func NewDashboardHandler(service *application.PetService) *DashboardHandler {
	return &DashboardHandler{service: service}
}

// RegisterRoutes registers the dashboard routes.
func (h *DashboardHandler) RegisterRoutes(r *gin.RouterGroup, verifier middleware.TokenVerifier) {
	me := r.Group("/institutions/me")
	me.Use(middleware.AuthMiddleware(verifier))
	{
		me.GET("/pets", h.MyPets)
		me.GET("/stats", h.MyStats)
	}
}

// MyPets handles GET /institutions/me/pets.
func (h *DashboardHandler) MyPets(c *gin.Context) {
	p, ok := mustPrincipal(c)
	if !ok {
		return
	}

	result, err := h.service.ListMine(c.Request.Context(), p, parseListQuery(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// MyStats handles GET /institutions/me/stats.
func (h *DashboardHandler) MyStats(c *gin.Context) {
	p, ok := mustPrincipal(c)
	if !ok {
		return
	}

	stats, err := h.service.Stats(c.Request.Context(), p)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, stats)
}
