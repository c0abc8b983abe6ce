package server

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/pageza/alchemorsel-v2/discovery/config"
	"github.com/pageza/alchemorsel-v2/discovery/internal/api"
	"github.com/pageza/alchemorsel-v2/discovery/internal/service"
)

func newTestServer(checks map[string]HealthCheck) *Server {
	gin.SetMode(gin.TestMode)
	cfg := &config.Config{
		ServerHost:  "localhost",
		ServerPort:  "8080",
		CORSOrigins: []string{"http://localhost:5173"},
	}
	return New(cfg, api.Dependencies{Auth: service.NewAuthService("test-secret")}, checks)
}

func TestHealth(t *testing.T) {
	t.Run("should report ok when every check passes", func(t *testing.T) {
		s := newTestServer(map[string]HealthCheck{
			"redis": func(context.Context) error { return nil },
		})

		w := httptest.NewRecorder()
		s.router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"status":"ok","checks":{"redis":"ok"}}`, w.Body.String())
	})

	t.Run("should report degraded when a check fails", func(t *testing.T) {
		s := newTestServer(map[string]HealthCheck{
			"redis":    func(context.Context) error { return nil },
			"database": func(context.Context) error { return errors.New("connection refused") },
		})

		w := httptest.NewRecorder()
		s.router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
		assert.Contains(t, w.Body.String(), "connection refused")
	})
}

func TestMetricsEndpoint(t *testing.T) {
	s := newTestServer(nil)

	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, strings.Contains(w.Body.String(), "go_goroutines"))
}

func TestAPIRequiresAuth(t *testing.T) {
	s := newTestServer(nil)

	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/discover/home", nil))

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestShutdownBeforeStart(t *testing.T) {
	s := newTestServer(nil)
	assert.NoError(t, s.Shutdown(context.Background()))
}
