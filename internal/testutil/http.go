package testutil

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/artograd/backend/internal/auth"
	"github.com/artograd/backend/internal/authz"
	"github.com/artograd/backend/internal/middleware"
	"github.com/artograd/backend/internal/models"
)

// Issuer signs the tokens handler tests send.
var Issuer = auth.NewLocalIssuer("test-secret", 1)

// Token mints a bearer token for username with role.
func Token(t *testing.T, username string, role models.UserRole) string {
	t.Helper()
	token, err := Issuer.Generate(username, role)
	require.NoError(t, err)
	return token
}

// Authorizer returns the real policy evaluator.
func Authorizer(t *testing.T) *authz.Authorizer {
	t.Helper()
	a, err := authz.NewAuthorizer(zap.NewNop())
	require.NoError(t, err)
	return a
}

// Router builds a gin engine with claims resolution, then lets register add routes.
func Router(register func(r gin.IRoutes)) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(middleware.Identify(Issuer, zap.NewNop()))
	register(r)
	return r
}

// Do sends a JSON request. body may be nil; token may be empty.
func Do(r http.Handler, method, path, token string, body any) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			panic(err)
		}
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

// Decode unmarshals the data field of a response envelope into dst.
func Decode(t *testing.T, w *httptest.ResponseRecorder, dst any) {
	t.Helper()
	var body struct {
		Success bool            `json:"success"`
		Data    json.RawMessage `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body), w.Body.String())
	require.True(t, body.Success, w.Body.String())
	require.NoError(t, json.Unmarshal(body.Data, dst))
}
