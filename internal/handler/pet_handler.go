package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/Kilat-Pet-Delivery/service-adoption/internal/application"
	"github.com/Kilat-Pet-Delivery/service-adoption/internal/platform/middleware"
	"github.com/Kilat-Pet-Delivery/service-adoption/internal/platform/response"
)

// PetHandler handles HTTP requests for the pet registry.
type PetHandler struct {
	service *application.PetService
}

// NewPetHandler creates a new PetHandler.
func NewPetHandler(service *application.PetService) *PetHandler {
	return &PetHandler{service: service}
}

// RegisterRoutes registers all pet routes. Reads are public.
func (h *PetHandler) RegisterRoutes(r *gin.RouterGroup, verifier middleware.TokenVerifier) {
	authMW := middleware.AuthMiddleware(verifier)

	pets := r.Group("/pets")
	{
		pets.GET("", h.ListPets)
		pets.GET("/:id", h.GetPet)
		pets.POST("", authMW, h.CreatePet)
		pets.PUT("/:id", authMW, h.UpdatePet)
		pets.DELETE("/:id", authMW, h.DeletePet)
	}
}

// ListPets handles GET /pets.
func (h *PetHandler) ListPets(c *gin.Context) {
	result, err := h.service.List(c.Request.Context(), parseListQuery(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// GetPet handles GET /pets/:id.
func (h *PetHandler) GetPet(c *gin.Context) {
	petID, ok := parseID(c, "id")
	if !ok {
		return
	}

	result, err := h.service.GetByID(c.Request.Context(), petID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// CreatePet handles POST /pets with a JSON or multipart body.
func (h *PetHandler) CreatePet(c *gin.Context) {
	p, ok := mustPrincipal(c)
	if !ok {
		return
	}

	var req application.CreatePetRequest
	uploads, ok := bindPetRequest(c, &req)
	if !ok {
		return
	}

	result, err := h.service.Create(c.Request.Context(), p, req, uploads)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, result)
}

// UpdatePet handles PUT /pets/:id.
func (h *PetHandler) UpdatePet(c *gin.Context) {
	p, ok := mustPrincipal(c)
	if !ok {
		return
	}
	petID, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req application.UpdatePetRequest
	uploads, ok := bindPetRequest(c, &req)
	if !ok {
		return
	}

	result, err := h.service.Update(c.Request.Context(), p, petID, req, uploads)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// DeletePet handles DELETE /pets/:id.
func (h *PetHandler) DeletePet(c *gin.Context) {
	p, ok := mustPrincipal(c)
	if !ok {
		return
	}
	petID, ok := parseID(c, "id")
	if !ok {
		return
	}

	if err := h.service.Delete(c.Request.Context(), p, petID); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
