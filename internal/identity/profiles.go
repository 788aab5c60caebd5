package identity

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/artograd/backend/internal/models"
)

// Profiles enriches entities with display fields. Lookup failures are logged
// and reported as a miss so the owning write still goes through.
type Profiles struct {
	dir    Directory
	logger *zap.Logger
}

// NewProfiles creates a profile enricher over dir.
func NewProfiles(dir Directory, logger *zap.Logger) *Profiles {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Profiles{dir: dir, logger: logger}
}

// User fetches a user, reporting false when unavailable.
func (p *Profiles) User(ctx context.Context, username string) (*models.User, bool) {
	if username == "" {
		return nil, false
	}
	u, err := p.dir.GetUser(ctx, username)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			p.logger.Debug("profile not found", zap.String("username", username))
		} else {
			p.logger.Warn("profile lookup failed", zap.String("username", username), zap.Error(err))
		}
		return nil, false
	}
	return u, true
}

// Lookup returns the display projection of a user.
func (p *Profiles) Lookup(ctx context.Context, username string) (models.UserInfo, bool) {
	u, ok := p.User(ctx, username)
	if !ok {
		return models.UserInfo{ID: username}, false
	}
	return u.DisplayInfo(), true
}
