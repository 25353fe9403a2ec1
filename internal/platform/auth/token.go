// Package auth issues and verifies the signed session tokens that carry a
// principal's identity between requests.
package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/Kilat-Pet-Delivery/service-adoption/internal/domain"
	"github.com/Kilat-Pet-Delivery/service-adoption/internal/domain/principal"
)

// DefaultTokenTTL is the session lifetime when none is configured.
const DefaultTokenTTL = 7 * 24 * time.Hour

const issuer = "service-adoption"

// Claims is the payload of a session token.
type Claims struct {
	jwt.RegisteredClaims
	Kind principal.Kind `json:"kind"`
}

// InstitutionChecker confirms that an institution still exists.
type InstitutionChecker interface {
	ExistsByID(ctx context.Context, id uuid.UUID) (bool, error)
}

// TokenManager signs and verifies HS256 session tokens.
type TokenManager struct {
	secret       []byte
	ttl          time.Duration
	institutions InstitutionChecker
	now          func() time.Time
}

// NewTokenManager creates a TokenManager. A non-positive ttl falls back to DefaultTokenTTL.
func NewTokenManager(secret string, ttl time.Duration, institutions InstitutionChecker) *TokenManager {
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}
	return &TokenManager{
		secret:       []byte(secret),
		ttl:          ttl,
		institutions: institutions,
		now:          time.Now,
	}
}

// TTL returns the configured token lifetime.
func (m *TokenManager) TTL() time.Duration { return m.ttl }

// Issue signs a token binding subject and kind, valid for the configured TTL.
func (m *TokenManager) Issue(subject uuid.UUID, kind principal.Kind) (string, error) {
	if subject == uuid.Nil {
		return "", fmt.Errorf("token subject is required")
	}
	if !kind.IsValid() {
		return "", fmt.Errorf("invalid principal kind: %s", kind)
	}

	now := m.now().UTC()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   subject.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
			ID:        uuid.NewString(),
		},
		Kind: kind,
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// Verify checks signature and expiry and returns the principal the token
// names. Institution tokens are re-checked against the registry so that a
// token outliving its institution is rejected.
func (m *TokenManager) Verify(ctx context.Context, tokenString string) (principal.Principal, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return m.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(m.now),
	)
	if err != nil {
		return principal.Principal{}, domain.NewInvalidTokenError(err)
	}
	if !token.Valid {
		return principal.Principal{}, domain.NewInvalidTokenError(errors.New("token is not valid"))
	}

	subject, err := uuid.Parse(claims.Subject)
	if err != nil {
		return principal.Principal{}, domain.NewInvalidTokenError(fmt.Errorf("malformed subject: %w", err))
	}
	if !claims.Kind.IsValid() {
		return principal.Principal{}, domain.NewInvalidTokenError(fmt.Errorf("invalid principal kind: %q", claims.Kind))
	}

	p := principal.New(subject, claims.Kind)
	if p.IsInstitution() && m.institutions != nil {
		exists, err := m.institutions.ExistsByID(ctx, subject)
		if err != nil {
			return principal.Principal{}, fmt.Errorf("failed to check institution: %w", err)
		}
		if !exists {
			return principal.Principal{}, domain.NewUnknownPrincipalError("institution", subject.String())
		}
	}
	return p, nil
}
