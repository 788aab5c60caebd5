// Package auth resolves bearer tokens into caller claims.
package auth

import (
	"context"
	"errors"
	"strings"

	"github.com/artograd/backend/internal/authz"
	"github.com/artograd/backend/internal/models"
)

var (
	ErrInvalidToken = errors.New("invalid token")
)

// Claims is what a request knows about its caller. The zero value is anonymous.
type Claims struct {
	Username  string
	Role      models.UserRole
	IsOfficer bool
	IsArtist  bool
}

// Resolver turns a raw bearer token into claims.
type Resolver interface {
	Resolve(ctx context.Context, token string) (Claims, error)
}

// NewClaims builds claims from a username and the token's group list.
// A token may carry at most one group.
func NewClaims(username string, groups []string) (Claims, error) {
	if len(groups) > 1 {
		return Claims{}, ErrInvalidToken
	}
	role := models.RoleAnonymousOrCitizen
	if len(groups) == 1 {
		role = models.ParseUserRole(groups[0])
	}
	return Claims{
		Username:  strings.TrimSpace(username),
		Role:      role,
		IsOfficer: role == models.RoleOfficial,
		IsArtist:  role == models.RoleArtist,
	}, nil
}

// Anonymous reports whether no user is attached.
func (c Claims) Anonymous() bool {
	return c.Username == ""
}

// Principal converts the claims for policy evaluation.
func (c Claims) Principal() authz.Principal {
	role := c.Role
	if role == "" {
		role = models.RoleAnonymousOrCitizen
	}
	return authz.Principal{Username: c.Username, Role: role}
}

// BearerToken extracts the token from an Authorization header value.
func BearerToken(header string) (string, bool) {
	parts := strings.SplitN(strings.TrimSpace(header), " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}
	token := strings.TrimSpace(parts[1])
	return token, token != ""
}
