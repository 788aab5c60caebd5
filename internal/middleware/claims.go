package middleware

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/artograd/backend/internal/auth"
	"github.com/artograd/backend/pkg/response"
)

// ContextClaims is the gin context key holding the caller's auth.Claims.
const ContextClaims = "claims"

// Identify resolves the bearer token into claims. A request without a token is
// anonymous and handlers decide what it may do. A token that fails to resolve
// is rejected with 401.
func Identify(resolver auth.Resolver, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var claims auth.Claims
		if token, ok := auth.BearerToken(c.GetHeader("Authorization")); ok {
			resolved, err := resolver.Resolve(c.Request.Context(), token)
			if err != nil {
				logger.Debug("rejecting invalid bearer token", zap.String("path", c.Request.URL.Path), zap.Error(err))
				response.Unauthorized(c, "invalid or expired token")
				c.Abort()
				return
			}
			claims = resolved
		}
		c.Set(ContextClaims, claims)
		c.Next()
	}
}

// ClaimsFrom returns the claims set by Identify, or anonymous claims.
func ClaimsFrom(c *gin.Context) auth.Claims {
	v, ok := c.Get(ContextClaims)
	if !ok {
		return auth.Claims{}
	}
	claims, _ := v.(auth.Claims)
	return claims
}

// RequireUser rejects anonymous callers with 401.
func RequireUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		if ClaimsFrom(c).Anonymous() {
			response.Unauthorized(c, "authentication required")
			c.Abort()
			return
		}
		c.Next()
	}
}
