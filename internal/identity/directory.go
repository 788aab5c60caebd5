// Package identity reads and writes user profiles held by the identity provider.
package identity

import (
	"context"
	"errors"
	"strings"

	"github.com/artograd/backend/internal/models"
)

var (
	// ErrUserNotFound is returned when the provider has no such user.
	ErrUserNotFound = errors.New("user not found")
	// ErrUserExists is returned when registering a taken username.
	ErrUserExists = errors.New("user already exists")
)

// Directory is the identity provider's user store.
type Directory interface {
	GetUser(ctx context.Context, username string) (*models.User, error)
	UpdateUserAttributes(ctx context.Context, username string, attrs []models.UserAttribute) error
	DeleteUser(ctx context.Context, username string) error
}

// MergeAttributes overlays updates onto existing by case-insensitive name,
// appending attributes that were not present.
func MergeAttributes(existing, updates []models.UserAttribute) []models.UserAttribute {
	out := append([]models.UserAttribute(nil), existing...)
	for _, u := range updates {
		replaced := false
		for i := range out {
			if strings.EqualFold(out[i].Name, u.Name) {
				out[i].Value = u.Value
				replaced = true
				break
			}
		}
		if !replaced {
			out = append(out, u)
		}
	}
	return out
}
