package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"campus_club_backend/internal/config"
	"campus_club_backend/internal/model"
	"campus_club_backend/internal/util"
	"campus_club_backend/pkg/ratelimit"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type brokenStore struct{}

func (brokenStore) Update(context.Context, string, ratelimit.UpdateFunc) (ratelimit.Entry, error) {
	return ratelimit.Entry{}, errors.New("connection refused")
}

func newRouter(handlers ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	handlers = append(handlers, func(c *gin.Context) { c.Status(http.StatusNoContent) })
	r.GET("/x", handlers...)
	return r
}

func get(r *gin.Engine, ip, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	req.RemoteAddr = ip + ":5555"
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestIngestionGate_RejectsAfterLimit(t *testing.T) {
	gate := ratelimit.NewFixedWindow(ratelimit.NewMemoryStore(), 2, time.Hour)
	r := newRouter(IngestionGate(gate))

	assert.Equal(t, http.StatusNoContent, get(r, "203.0.113.1", "").Code)
	assert.Equal(t, http.StatusNoContent, get(r, "203.0.113.1", "").Code)

	w := get(r, "203.0.113.1", "")
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "0", w.Header().Get("X-RateLimit-Remaining"))
	assert.JSONEq(t, `{"error":"`+util.TooManyRequestsMessage+`"}`, w.Body.String())

	assert.Equal(t, http.StatusNoContent, get(r, "203.0.113.2", "").Code)
}

func TestIngestionGate_FailsOpenOnStoreError(t *testing.T) {
	gate := ratelimit.NewFixedWindow(brokenStore{}, 1, time.Hour)
	r := newRouter(IngestionGate(gate))

	for i := 0; i < 3; i++ {
		w := get(r, "203.0.113.1", "")
		assert.Equal(t, http.StatusNoContent, w.Code)
		assert.Empty(t, w.Header().Get("X-RateLimit-Limit"))
	}
}

func TestAuthAndRole(t *testing.T) {
	cfg := &config.Config{JWT: config.JWTConfig{Secret: "middleware-secret"}}
	sign := func(role model.UserRole, secret string) string {
		user := &model.User{Name: "n", Role: role}
		user.ID = 5
		tok, err := util.GenerateJWT(user, secret, time.Hour)
		require.NoError(t, err)
		return tok
	}

	r := newRouter(AuthMiddleware(cfg), RoleMiddleware(model.RoleTeacher))

	tests := []struct {
		name   string
		token  string
		status int
	}{
		{"missing token", "", http.StatusUnauthorized},
		{"bad signature", sign(model.RoleTeacher, "other-secret"), http.StatusUnauthorized},
		{"student", sign(model.RoleStudent, "middleware-secret"), http.StatusForbidden},
		{"teacher", sign(model.RoleTeacher, "middleware-secret"), http.StatusNoContent},
		{"admin passes every role", sign(model.RoleAdmin, "middleware-secret"), http.StatusNoContent},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.status, get(r, "203.0.113.9", tt.token).Code)
		})
	}
}

func TestAuthMiddleware_QueryToken(t *testing.T) {
	cfg := &config.Config{JWT: config.JWTConfig{Secret: "middleware-secret"}}
	user := &model.User{Name: "n", Role: model.RoleTeacher}
	tok, err := util.GenerateJWT(user, cfg.JWT.Secret, time.Hour)
	require.NoError(t, err)

	r := newRouter(AuthMiddleware(cfg))
	req := httptest.NewRequest(http.MethodGet, "/x?token="+tok, nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNoContent, w.Code)
}

func TestOptionalAuth(t *testing.T) {
	cfg := &config.Config{JWT: config.JWTConfig{Secret: "middleware-secret"}}
	var seen *util.Claims
	r := newRouter(OptionalAuth(cfg), func(c *gin.Context) { seen = util.GetUserFromContext(c) })

	assert.Equal(t, http.StatusNoContent, get(r, "203.0.113.9", "garbage").Code)
	assert.Nil(t, seen)

	user := &model.User{Name: "n", Role: model.RoleAdmin}
	user.ID = 3
	tok, err := util.GenerateJWT(user, cfg.JWT.Secret, time.Hour)
	require.NoError(t, err)
	get(r, "203.0.113.9", tok)
	require.NotNil(t, seen)
	assert.Equal(t, uint(3), seen.UserID)
	assert.True(t, seen.IsAdmin())
}
