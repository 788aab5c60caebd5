package auth

import (
	"context"
	"errors"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/artograd/backend/internal/identity"
	"github.com/artograd/backend/internal/models"
	"github.com/artograd/backend/pkg/response"
	"github.com/artograd/backend/pkg/utils"
)

// Accounts stores local credentials.
type Accounts interface {
	Create(ctx context.Context, username, passwordHash string, attrs []models.UserAttribute) error
	PasswordHash(ctx context.Context, username string) (string, error)
	GetUser(ctx context.Context, username string) (*models.User, error)
}

// Whitelist decides which addresses may register as officers.
type Whitelist interface {
	Allowed(ctx context.Context, email string) (bool, error)
}

// RegisterRequest is the body for POST /auth/register.
type RegisterRequest struct {
	Username   string                 `json:"username" binding:"required"`
	Password   string                 `json:"password" binding:"required"`
	Group      string                 `json:"group"`
	Attributes []models.UserAttribute `json:"attributes"`
}

// LoginRequest is the body for POST /auth/login.
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// TokenResponse is the auth response with a bearer token.
type TokenResponse struct {
	Token    string          `json:"token"`
	Username string          `json:"username"`
	Role     models.UserRole `json:"role"`
}

// Handler serves register and login when tokens are issued locally.
type Handler struct {
	accounts  Accounts
	issuer    *LocalIssuer
	whitelist Whitelist
	logger    *zap.Logger
}

// NewHandler creates an auth handler.
func NewHandler(accounts Accounts, issuer *LocalIssuer, logger *zap.Logger) *Handler {
	return &Handler{accounts: accounts, issuer: issuer, logger: logger}
}

// WithWhitelist makes officer registration require a whitelisted email attribute.
func (h *Handler) WithWhitelist(w Whitelist) *Handler {
	h.whitelist = w
	return h
}

// Register handles POST /auth/register.
func (h *Handler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}
	username := strings.TrimSpace(req.Username)
	if username == "" {
		response.BadRequest(c, "username is required")
		return
	}

	role := models.RoleAnonymousOrCitizen
	if req.Group != "" {
		role = models.ParseUserRole(req.Group)
		if !strings.EqualFold(string(role), strings.TrimSpace(req.Group)) {
			response.BadRequest(c, "invalid group")
			return
		}
	}

	attrs := make([]models.UserAttribute, 0, len(req.Attributes)+1)
	email := ""
	for _, a := range req.Attributes {
		key := models.ParseAttributeKey(a.Name)
		if key == models.AttrUnrecognized || key.IsReadOnly() {
			response.BadRequest(c, "attribute not allowed: "+a.Name)
			return
		}
		if key == models.AttrEmail {
			email = a.Value
		}
		attrs = append(attrs, models.UserAttribute{Name: key.String(), Value: a.Value})
	}
	// The email is taken as submitted. Local mode is refused in release builds.
	if role == models.RoleOfficial && h.whitelist != nil {
		ok, err := h.whitelist.Allowed(c.Request.Context(), email)
		if err != nil || !ok {
			response.Forbidden(c, "email is not whitelisted for officer accounts")
			return
		}
	}
	if role != models.RoleAnonymousOrCitizen {
		attrs = append(attrs, models.UserAttribute{Name: models.AttrGroups.String(), Value: string(role)})
	}

	hash, err := utils.HashPassword(req.Password)
	if errors.Is(err, utils.ErrPasswordTooShort) {
		response.BadRequest(c, err.Error())
		return
	}
	if err != nil {
		response.Internal(c, "failed to hash password")
		return
	}

	if err := h.accounts.Create(c.Request.Context(), username, hash, attrs); err != nil {
		if errors.Is(err, identity.ErrUserExists) {
			response.Conflict(c, "username already registered")
			return
		}
		h.logger.Error("register failed", zap.String("username", username), zap.Error(err))
		response.Internal(c, "failed to create user")
		return
	}

	token, err := h.issuer.Generate(username, role)
	if err != nil {
		response.Internal(c, "failed to generate token")
		return
	}
	response.Created(c, TokenResponse{Token: token, Username: username, Role: role})
}

// Login handles POST /auth/login.
func (h *Handler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}
	ctx := c.Request.Context()

	hash, err := h.accounts.PasswordHash(ctx, req.Username)
	if err != nil || !utils.CheckPassword(req.Password, hash) {
		response.Unauthorized(c, "invalid username or password")
		return
	}
	user, err := h.accounts.GetUser(ctx, req.Username)
	if err != nil {
		h.logger.Error("login profile lookup failed", zap.String("username", req.Username), zap.Error(err))
		response.Internal(c, "failed to load user")
		return
	}

	token, err := h.issuer.Generate(user.Username, user.Role())
	if err != nil {
		response.Internal(c, "failed to generate token")
		return
	}
	response.OK(c, TokenResponse{Token: token, Username: user.Username, Role: user.Role()})
}

// RegisterRoutes mounts register and login on r.
func (h *Handler) RegisterRoutes(r gin.IRoutes) {
	r.POST("/auth/register", h.Register)
	r.POST("/auth/login", h.Login)
}
