package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/artograd/backend/internal/auth"
	"github.com/artograd/backend/internal/models"
)

func newRouter(issuer *auth.LocalIssuer) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(CORS("http://localhost:3000"), Identify(issuer, zap.NewNop()), Logger(zap.NewNop()))
	r.GET("/whoami", func(c *gin.Context) {
		c.String(http.StatusOK, ClaimsFrom(c).Username)
	})
	r.GET("/private", RequireUser(), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	return r
}

func get(r http.Handler, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestIdentifyResolvesToken(t *testing.T) {
	issuer := auth.NewLocalIssuer("secret", 1)
	token, err := issuer.Generate("artist1", models.RoleArtist)
	require.NoError(t, err)
	r := newRouter(issuer)

	w := get(r, "/whoami", token)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "artist1", w.Body.String())
}

func TestIdentifyWithoutTokenIsAnonymous(t *testing.T) {
	r := newRouter(auth.NewLocalIssuer("secret", 1))

	w := get(r, "/whoami", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, w.Body.String())

	w = get(r, "/private", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestIdentifyRejectsInvalidToken(t *testing.T) {
	r := newRouter(auth.NewLocalIssuer("secret", 1))

	w := get(r, "/whoami", "garbage")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "invalid or expired token")

	foreign, err := auth.NewLocalIssuer("other-secret", 1).Generate("artist1", models.RoleArtist)
	require.NoError(t, err)
	w = get(r, "/whoami", foreign)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.NotContains(t, w.Body.String(), "artist1")
}

func TestRequireUserAllowsAuthenticated(t *testing.T) {
	issuer := auth.NewLocalIssuer("secret", 1)
	token, err := issuer.Generate("citizen1", models.RoleAnonymousOrCitizen)
	require.NoError(t, err)

	w := get(newRouter(issuer), "/private", token)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestCORS(t *testing.T) {
	r := newRouter(auth.NewLocalIssuer("secret", 1))

	req := httptest.NewRequest(http.MethodOptions, "/whoami", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "http://localhost:3000", w.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.Header.Set("Origin", "http://evil.example.com")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
}
