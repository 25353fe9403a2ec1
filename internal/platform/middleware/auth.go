package middleware

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/Kilat-Pet-Delivery/service-adoption/internal/domain/principal"
	"github.com/Kilat-Pet-Delivery/service-adoption/internal/platform/response"
)

const principalKey = "principal"

// TokenVerifier resolves a bearer token to a principal.
type TokenVerifier interface {
	Verify(ctx context.Context, token string) (principal.Principal, error)
}

// AuthMiddleware requires a valid "Authorization: Bearer <token>" header and
// stores the verified principal on the context.
func AuthMiddleware(verifier TokenVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			response.Unauthorized(c, "missing authorization header")
			return
		}
		scheme, token, ok := strings.Cut(header, " ")
		token = strings.TrimSpace(token)
		if !ok || !strings.EqualFold(scheme, "Bearer") || token == "" {
			response.Unauthorized(c, "authorization header must be a bearer token")
			return
		}

		p, err := verifier.Verify(c.Request.Context(), token)
		if err != nil {
			response.Error(c, err)
			return
		}

		c.Set(principalKey, p)
		c.Next()
	}
}

// GetPrincipal returns the principal stored by AuthMiddleware.
func GetPrincipal(c *gin.Context) (principal.Principal, bool) {
	v, ok := c.Get(principalKey)
	if !ok {
		return principal.Principal{}, false
	}
	p, ok := v.(principal.Principal)
	return p, ok
}
