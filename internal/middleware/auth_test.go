package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/lshigami/bizcoach/internal/auth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newRouter(tokens *auth.TokenManager, allowAnonymous bool, extra ...gin.HandlerFunc) *gin.Engine {
	r := gin.New()
	handlers := append([]gin.HandlerFunc{Authenticate(tokens, allowAnonymous)}, extra...)
	handlers = append(handlers, func(c *gin.Context) {
		fromCtx, _ := auth.UserFromContext(c.Request.Context())
		c.JSON(http.StatusOK, gin.H{"user_id": UserID(c), "ctx_user_id": fromCtx})
	})
	r.GET("/whoami", handlers...)
	return r
}

func get(r http.Handler, header string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuthenticate(t *testing.T) {
	tokens, err := auth.NewTokenManager("test-secret", time.Hour)
	require.NoError(t, err)
	valid, err := tokens.Issue("user-42", "user42@example.com")
	require.NoError(t, err)

	other, err := auth.NewTokenManager("other-secret", time.Hour)
	require.NoError(t, err)
	forged, err := other.Issue("user-42", "")
	require.NoError(t, err)

	tests := []struct {
		name           string
		tokens         *auth.TokenManager
		allowAnonymous bool
		header         string
		wantStatus     int
		wantUser       string
	}{
		{"valid token", tokens, false, "Bearer " + valid, http.StatusOK, "user-42"},
		{"lowercase scheme", tokens, false, "bearer " + valid, http.StatusOK, "user-42"},
		{"missing token", tokens, false, "", http.StatusUnauthorized, ""},
		{"anonymous allowed", tokens, true, "", http.StatusOK, auth.AnonymousUserID},
		{"wrong signing key", tokens, true, "Bearer " + forged, http.StatusUnauthorized, ""},
		{"basic auth is ignored", tokens, false, "Basic dXNlcjpwYXNz", http.StatusUnauthorized, ""},
		{"no secret configured", nil, true, "Bearer " + valid, http.StatusUnauthorized, ""},
		{"no secret anonymous", nil, true, "", http.StatusOK, auth.AnonymousUserID},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := get(newRouter(tt.tokens, tt.allowAnonymous), tt.header)
			assert.Equal(t, tt.wantStatus, w.Code)
			if tt.wantUser != "" {
				assert.JSONEq(t, `{"user_id":"`+tt.wantUser+`","ctx_user_id":"`+tt.wantUser+`"}`, w.Body.String())
			}
		})
	}
}

func TestRequireUser(t *testing.T) {
	tokens, err := auth.NewTokenManager("test-secret", time.Hour)
	require.NoError(t, err)
	valid, err := tokens.Issue("user-42", "")
	require.NoError(t, err)
	r := newRouter(tokens, true, RequireUser())

	assert.Equal(t, http.StatusUnauthorized, get(r, "").Code)
	assert.Equal(t, http.StatusOK, get(r, "Bearer "+valid).Code)
}
