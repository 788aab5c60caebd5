package testutil

import (
	"context"
	"sync"

	"github.com/artograd/backend/internal/identity"
	"github.com/artograd/backend/internal/models"
)

// Directory is an in-memory identity.Directory.
type Directory struct {
	mu    sync.Mutex
	users map[string][]models.UserAttribute
}

// NewDirectory creates an empty directory.
func NewDirectory() *Directory {
	return &Directory{users: map[string][]models.UserAttribute{}}
}

// Add registers a user with a role and attributes given as name/value pairs.
func (d *Directory) Add(username string, role models.UserRole, pairs ...string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	attrs := []models.UserAttribute{}
	if role != "" && role != models.RoleAnonymousOrCitizen {
		attrs = append(attrs, models.UserAttribute{Name: models.AttrGroups.String(), Value: string(role)})
	}
	for i := 0; i+1 < len(pairs); i += 2 {
		attrs = append(attrs, models.UserAttribute{Name: pairs[i], Value: pairs[i+1]})
	}
	d.users[username] = attrs
}

func (d *Directory) GetUser(_ context.Context, username string) (*models.User, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	attrs, ok := d.users[username]
	if !ok {
		return nil, identity.ErrUserNotFound
	}
	out := append([]models.UserAttribute(nil), attrs...)
	out = append(out, models.UserAttribute{Name: models.AttrUsername.String(), Value: username})
	return &models.User{Username: username, Attributes: out}, nil
}

func (d *Directory) UpdateUserAttributes(_ context.Context, username string, attrs []models.UserAttribute) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	existing, ok := d.users[username]
	if !ok {
		return identity.ErrUserNotFound
	}
	d.users[username] = identity.MergeAttributes(existing, attrs)
	return nil
}

func (d *Directory) DeleteUser(_ context.Context, username string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if _, ok := d.users[username]; !ok {
		return identity.ErrUserNotFound
	}
	delete(d.users, username)
	return nil
}
