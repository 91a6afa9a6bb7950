package router

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"go.uber.org/zap"

	"alpimi-planner/backend/config"
	"alpimi-planner/backend/internal/api/handler"
	"alpimi-planner/backend/pkg/jwt"
)

func setupTestEngine() http.Handler {
	cfg := &config.Config{
		Server: config.ServerConfig{MaxBodyBytes: 1 << 20},
		Auth:   config.AuthConfig{JWTSecret: "test-secret-key-for-router", AccessTokenTTL: time.Minute},
		Pagination: config.PaginationConfig{
			DefaultPageSize: 20,
			MaxPageSize:     100,
		},
	}
	h := &handler.Handler{
		LessonBlock: handler.NewLessonBlockHandler(nil, cfg.Pagination),
		Export:      handler.NewExportHandler(nil),
	}
	return Setup(cfg, h, jwt.NewManager(&cfg.Auth), nil, zap.NewNop())
}

func TestSetup_PublicRoutes(t *testing.T) {
	engine := setupTestEngine()

	for _, path := range []string{"/health", "/metrics"} {
		w := httptest.NewRecorder()
		engine.ServeHTTP(w, httptest.NewRequest("GET", path, nil))
		if w.Code != http.StatusOK {
			t.Errorf("%s 期望 200，实际=%d", path, w.Code)
		}
	}
}

func TestSetup_LessonBlockRoutesRequireAuth(t *testing.T) {
	engine := setupTestEngine()

	routes := []struct{ method, path string }{
		{"GET", "/api/v1/lesson-blocks"},
		{"GET", "/api/v1/lesson-blocks/export"},
		{"GET", "/api/v1/lesson-blocks/blk-1"},
		{"POST", "/api/v1/lesson-blocks"},
		{"PATCH", "/api/v1/lesson-blocks/blk-1"},
		{"DELETE", "/api/v1/lesson-blocks/blk-1"},
	}

	for _, rt := range routes {
		w := httptest.NewRecorder()
		engine.ServeHTTP(w, httptest.NewRequest(rt.method, rt.path, nil))
		if w.Code != http.StatusUnauthorized {
			t.Errorf("%s %s 未认证期望 401，实际=%d", rt.method, rt.path, w.Code)
		}
	}
}
