package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/Kilat-Pet-Delivery/service-adoption/internal/application"
	"github.com/Kilat-Pet-Delivery/service-adoption/internal/platform/response"
)

// AccountHandler handles registration and login for users and institutions.
type AccountHandler struct {
	service *application.CredentialService
}

// NewAccountHandler creates a new AccountHandler.
func NewAccountHandler(service *application.CredentialService) *AccountHandler {
	return &AccountHandler{service: service}
}

// RegisterRoutes registers the public account routes.
func (h *AccountHandler) RegisterRoutes(r *gin.RouterGroup) {
	r.POST("/users", h.RegisterUser)
	r.POST("/institutions", h.RegisterInstitution)

	sessions := r.Group("/sessions")
	{
		sessions.POST("/users", h.AuthenticateUser)
		sessions.POST("/institutions", h.AuthenticateInstitution)
	}
}

// RegisterUser handles POST /users.
func (h *AccountHandler) RegisterUser(c *gin.Context) {
	var req application.RegisterUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.service.RegisterUser(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, result)
}

// RegisterInstitution handles POST /institutions.
func (h *AccountHandler) RegisterInstitution(c *gin.Context) {
	var req application.RegisterInstitutionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.service.RegisterInstitution(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, result)
}

// AuthenticateUser handles POST /sessions/users.
func (h *AccountHandler) AuthenticateUser(c *gin.Context) {
	var req application.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "email and password are required")
		return
	}

	result, err := h.service.AuthenticateUser(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// AuthenticateInstitution handles POST /sessions/institutions.
func (h *AccountHandler) AuthenticateInstitution(c *gin.Context) {
	var req application.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "email and password are required")
		return
	}

	result, err := h.service.AuthenticateInstitution(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}
