package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/Kilat-Pet-Delivery/service-adoption/internal/application"
	"github.com/Kilat-Pet-Delivery/service-adoption/internal/platform/middleware"
	"github.com/Kilat-Pet-Delivery/service-adoption/internal/platform/response"
)

// StatusHandler handles HTTP requests for the status ledger.
type StatusHandler struct {
	service *application.StatusService
}

// NewStatusHandler creates a new StatusHandler.
func NewStatusHandler(service *application.StatusService) *StatusHandler {
	return &StatusHandler{service: service}
}

// RegisterRoutes registers the ledger routes.
func (h *StatusHandler) RegisterRoutes(r *gin.RouterGroup, verifier middleware.TokenVerifier) {
	r.GET("/pets/:id/history", h.History)
	r.GET("/pets/:id/current", h.Current)
	r.POST("/pet-status/:petId", middleware.AuthMiddleware(verifier), h.RecordEvent)
}

// RecordEvent handles POST /pet-status/:petId.
func (h *StatusHandler) RecordEvent(c *gin.Context) {
	p, ok := mustPrincipal(c)
	if !ok {
		return
	}
	petID, ok := parseID(c, "petId")
	if !ok {
		return
	}

	var req application.RecordStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.service.RecordEvent(c.Request.Context(), p, petID, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, result)
}

// History handles GET /pets/:id/history.
func (h *StatusHandler) History(c *gin.Context) {
	petID, ok := parseID(c, "id")
	if !ok {
		return
	}

	result, err := h.service.History(c.Request.Context(), petID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// Current handles GET /pets/:id/current.
func (h *StatusHandler) Current(c *gin.Context) {
	petID, ok := parseID(c, "id")
	if !ok {
		return
	}

	result, err := h.service.Current(c.Request.Context(), petID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}
