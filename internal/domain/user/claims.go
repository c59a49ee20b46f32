package user

import (
	"context"
	"credit-engine/internal/pkg/apperrors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Claims is the bearer token payload. Subject holds the username.
type Claims struct {
	jwt.RegisteredClaims
	Role       Role       `json:"role"`
	CustomerID *uuid.UUID `json:"customerId,omitempty"`
}

func (c *Claims) IsAdmin() bool {
	return c.Role == RoleAdmin
}

// CanAccessCustomer reports whether the caller may act on data owned by customerID.
func (c *Claims) CanAccessCustomer(customerID uuid.UUID) bool {
	if c.IsAdmin() {
		return true
	}
	return c.Role == RoleCustomer && c.CustomerID != nil && *c.CustomerID == customerID
}

func IssueToken(u *AppUser, secret string, ttl time.Duration, now time.Time) (string, error) {
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   u.Username,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		Role:       u.Role,
		CustomerID: u.CustomerID,
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		return "", fmt.Errorf("%w: signing token: %w", apperrors.ErrInternalServer, err)
	}
	return signed, nil
}

func ParseToken(tokenString, secret string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (any, error) {
		return []byte(secret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired())
	if err != nil {
		return nil, fmt.Errorf("%w: %w", apperrors.ErrUnauthorized, err)
	}
	if !token.Valid || !claims.Role.Valid() {
		return nil, fmt.Errorf("%w: invalid token claims", apperrors.ErrUnauthorized)
	}
	return claims, nil
}

type principalKey struct{}

func WithPrincipal(ctx context.Context, c *Claims) context.Context {
	return context.WithValue(ctx, principalKey{}, c)
}

func PrincipalFrom(ctx context.Context) (*Claims, bool) {
	c, ok := ctx.Value(principalKey{}).(*Claims)
	return c, ok && c != nil
}
