package admin

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/lshigami/bizcoach/internal/auth"
	"github.com/lshigami/bizcoach/internal/dto"
	"github.com/lshigami/bizcoach/internal/llm"
	"github.com/lshigami/bizcoach/internal/middleware"
	"github.com/lshigami/bizcoach/internal/scene"
	"github.com/lshigami/bizcoach/internal/service"
	"github.com/lshigami/bizcoach/internal/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubGateway struct {
	service.GenerationGateway
	status service.ConnectionStatus
	checks *int
}

func (s stubGateway) CheckConnection(context.Context) service.ConnectionStatus {
	if s.checks != nil {
		*s.checks++
	}
	return s.status
}

var testTokens = func() *auth.TokenManager {
	m, err := auth.NewTokenManager("admin-test-secret", time.Hour)
	if err != nil {
		panic(err)
	}
	return m
}()

func serveAs(t *testing.T, ctrl *AdminController, path, userID string) *httptest.ResponseRecorder {
	t.Helper()
	gin.SetMode(gin.TestMode)
	r := gin.New()
	ctrl.RegisterRoutes(r.Group("/api/v1", middleware.Authenticate(testTokens, true)))

	req := httptest.NewRequest(http.MethodGet, path, nil)
	if userID != "" {
		token, err := testTokens.Issue(userID, "")
		require.NoError(t, err)
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func serve(t *testing.T, ctrl *AdminController, path string) *httptest.ResponseRecorder {
	t.Helper()
	return serveAs(t, ctrl, path, "admin-1")
}

func TestAIStatus(t *testing.T) {
	up := stubGateway{status: service.ConnectionStatus{Connected: true, Message: "ok", Latency: 120 * time.Millisecond}}
	w := serve(t, NewAdminController(up, scene.Default(), 3), "/api/v1/admin/ai/status")
	require.Equal(t, http.StatusOK, w.Code)
	var resp dto.AIStatusResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Connected)
	assert.EqualValues(t, 120, resp.LatencyMS)

	down := stubGateway{status: service.ConnectionStatus{Code: llm.CodeUpstreamAuthFailure, Message: "invalid api key"}}
	w = serve(t, NewAdminController(down, scene.Default(), 3), "/api/v1/admin/ai/status")
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Contains(t, w.Body.String(), string(llm.CodeUpstreamAuthFailure))
}

func TestValidateScenes(t *testing.T) {
	w := serve(t, NewAdminController(stubGateway{}, scene.Default(), 3), "/api/v1/admin/scenes/validate")
	require.Equal(t, http.StatusOK, w.Code)
	var resp dto.SceneValidationResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Valid)
	assert.Equal(t, 4, resp.Scenes)

	broken := scene.NewCatalog(
		[]scene.Scene{{ID: "standup", Name: "朝会", FixedQuestion: "昨日の作業は？"}},
		map[string][]string{scene.GenericQuestionSceneID: {"一つ目"}},
		nil,
		session.Feedback{},
	)
	w = serve(t, NewAdminController(stubGateway{}, broken, 3), "/api/v1/admin/scenes/validate")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.False(t, resp.Valid)
	assert.GreaterOrEqual(t, len(resp.Errors), 3)
}

func TestAdminRoutesRequireSignedInUser(t *testing.T) {
	checks := 0
	ctrl := NewAdminController(stubGateway{status: service.ConnectionStatus{Connected: true}, checks: &checks}, scene.Default(), 3)

	for _, path := range []string{"/api/v1/admin/ai/status", "/api/v1/admin/scenes/validate"} {
		w := serveAs(t, ctrl, path, "")
		assert.Equal(t, http.StatusUnauthorized, w.Code, path)
	}
	assert.Zero(t, checks)

	w := serveAs(t, ctrl, "/api/v1/admin/ai/status", "admin-1")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 1, checks)
}
