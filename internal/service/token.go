// Package service contains the application services: token issuing and
// verification, quota enforcement, access control, and the per-resource
// business logic built on top of them.
package service

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/taskhive/taskhive/internal/config"
	"github.com/taskhive/taskhive/internal/domain"
	"github.com/taskhive/taskhive/internal/domain/access"
	"github.com/taskhive/taskhive/internal/domain/user"
)

const tokenIssuer = "taskhive"

// TokenService issues and verifies signed bearer tokens. Tokens are
// stateless: there is no revocation list, expiry is the only way a token
// dies.
type TokenService struct {
	secret []byte
	ttl    time.Duration
}

// NewTokenService builds a TokenService from the auth configuration.
func NewTokenService(cfg *config.Auth) *TokenService {
	return &TokenService{
		secret: []byte(cfg.JWTSecret),
		ttl:    cfg.TokenTTL,
	}
}

// TTL returns the configured token lifetime.
func (s *TokenService) TTL() time.Duration {
	return s.ttl
}

type tokenClaims struct {
	TenantID string    `json:"tid,omitempty"`
	Role     user.Role `json:"role"`
	jwt.RegisteredClaims
}

// Issue signs a token for the given identity. tenantID is empty only for
// super_admin.
func (s *TokenService) Issue(actorID, tenantID string, role user.Role, now time.Time) (string, error) {
	claims := tokenClaims{
		TenantID: tenantID,
		Role:     role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   actorID,
			Issuer:    tokenIssuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := tok.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Verify parses and validates a raw token and returns the actor identity
// it encodes. Any failure, whether malformed input, a bad signature, a
// wrong algorithm, or an expired claim, collapses to ErrInvalidToken so
// callers cannot distinguish them.
func (s *TokenService) Verify(raw string, now time.Time) (*access.Actor, error) {
	claims := &tokenClaims{}
	_, err := jwt.ParseWithClaims(raw, claims,
		func(t *jwt.Token) (any, error) { return s.secret, nil },
		jwt.WithValidMethods([]string{"HS256"}),
		jwt.WithTimeFunc(func() time.Time { return now }),
		jwt.WithIssuer(tokenIssuer),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return nil, domain.ErrInvalidToken
	}
	if claims.Subject == "" || !user.ValidRoles[claims.Role] {
		return nil, domain.ErrInvalidToken
	}
	if claims.Role != user.RoleSuperAdmin && claims.TenantID == "" {
		return nil, domain.ErrInvalidToken
	}
	return &access.Actor{
		ID:       claims.Subject,
		TenantID: claims.TenantID,
		Role:     claims.Role,
	}, nil
}
