package auth

import (
	"context"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/artograd/backend/internal/models"
)

// LocalIssuerName is the iss claim of locally issued tokens.
const LocalIssuerName = "artograd-local"

// tokenClaims uses the same claim names as user pool id tokens.
type tokenClaims struct {
	Username string   `json:"cognito:username"`
	Groups   []string `json:"cognito:groups,omitempty"`
	jwt.RegisteredClaims
}

// LocalIssuer issues and validates HS256 tokens for running without a user pool.
type LocalIssuer struct {
	secret      []byte
	expireHours int
}

// NewLocalIssuer creates a local token issuer.
func NewLocalIssuer(secret string, expireHours int) *LocalIssuer {
	if expireHours <= 0 {
		expireHours = 24
	}
	return &LocalIssuer{
		secret:      []byte(secret),
		expireHours: expireHours,
	}
}

// Generate creates a token for username. Citizens carry no group.
func (s *LocalIssuer) Generate(username string, role models.UserRole) (string, error) {
	now := time.Now()
	claims := tokenClaims{
		Username: username,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    LocalIssuerName,
			Subject:   username,
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Duration(s.expireHours) * time.Hour)),
			IssuedAt:  jwt.NewNumericDate(now),
			ID:        uuid.New().String(),
		},
	}
	if role != "" && role != models.RoleAnonymousOrCitizen {
		claims.Groups = []string{string(role)}
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

// Resolve validates a token and returns its claims.
func (s *LocalIssuer) Resolve(_ context.Context, tokenString string) (Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &tokenClaims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return s.secret, nil
	}, jwt.WithIssuer(LocalIssuerName))
	if err != nil {
		return Claims{}, ErrInvalidToken
	}
	tc, ok := token.Claims.(*tokenClaims)
	if !ok || !token.Valid {
		return Claims{}, ErrInvalidToken
	}
	return NewClaims(tc.Username, tc.Groups)
}
