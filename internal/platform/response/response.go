// Package response writes JSON bodies and the error envelope used by every handler.
package response

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Kilat-Pet-Delivery/service-adoption/internal/domain"
)

// ErrorBody is the envelope returned on failure.
type ErrorBody struct {
	Error string `json:"error"`
}

// Success writes a 200 response.
func Success(c *gin.Context, data any) {
	c.JSON(http.StatusOK, data)
}

// Created writes a 201 response.
func Created(c *gin.Context, data any) {
	c.JSON(http.StatusCreated, data)
}

// NoContent writes a 204 response.
func NoContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}

// BadRequest writes a 400 with the given message.
func BadRequest(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusBadRequest, ErrorBody{Error: message})
}

// Unauthorized writes a 401 with the given message.
func Unauthorized(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, ErrorBody{Error: message})
}

// Error maps err to a status code and writes the envelope. Unexpected errors
// are attached to the gin context for the access log and hidden from clients.
func Error(c *gin.Context, err error) {
	status := StatusFor(err)
	message := "internal server error"

	var de *domain.Error
	if errors.As(err, &de) && status != http.StatusInternalServerError {
		message = de.Message
	} else {
		_ = c.Error(err)
	}
	c.AbortWithStatusJSON(status, ErrorBody{Error: message})
}

// StatusFor returns the HTTP status for an error's kind.
func StatusFor(err error) int {
	switch domain.KindOf(err) {
	case domain.KindInvalidCredentials, domain.KindInvalidToken, domain.KindUnknownPrincipal:
		return http.StatusUnauthorized
	case domain.KindForbidden:
		return http.StatusForbidden
	case domain.KindNotFound:
		return http.StatusNotFound
	case domain.KindConflict:
		return http.StatusConflict
	case domain.KindValidation, domain.KindDuplicateIdentity, domain.KindInvalidKind, domain.KindNoStatus:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
