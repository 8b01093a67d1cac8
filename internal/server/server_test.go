package server

import (
	"context"
	"encoding/base64"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sanosuguru/go-event-listing/internal/config"
)

func memoryConfig(t *testing.T) *config.Config {
	t.Helper()
	t.Setenv("STORAGE_DRIVER", "memory")
	t.Setenv("REDIS_ENABLED", "false")
	t.Setenv("VIEWS_BACKEND", "memory")
	t.Setenv("METRICS_USER", "scraper")
	t.Setenv("METRICS_PASSWORD", "s3cret")
	cfg, err := config.Load(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)
	return cfg
}

func get(s *Server, target string, header ...string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, target, nil)
	for i := 0; i+1 < len(header); i += 2 {
		req.Header.Set(header[i], header[i+1])
	}
	rec := httptest.NewRecorder()
	s.Echo.ServeHTTP(rec, req)
	return rec
}

func TestNew_MemoryBackend(t *testing.T) {
	srv, err := New(context.Background(), memoryConfig(t), prometheus.NewRegistry())
	require.NoError(t, err)
	t.Cleanup(func() { assert.NoError(t, srv.Close()) })

	assert.NotNil(t, srv.Completer)

	t.Run("health without external checks", func(t *testing.T) {
		rec := get(srv, "/health")
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("empty public listing", func(t *testing.T) {
		rec := get(srv, "/events")
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, "[]", rec.Body.String())
	})

	t.Run("metrics require credentials", func(t *testing.T) {
		assert.Equal(t, http.StatusUnauthorized, get(srv, "/metrics").Code)

		auth := "Basic " + base64.StdEncoding.EncodeToString([]byte("scraper:s3cret"))
		rec := get(srv, "/metrics", "Authorization", auth)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "http_requests_total")
	})

	t.Run("unknown route", func(t *testing.T) {
		rec := get(srv, "/nowhere")
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestNew_AdminRoutesGuardedWithSecret(t *testing.T) {
	cfg := memoryConfig(t)
	cfg.Auth.AdminJWTSecret = "secret"

	srv, err := New(context.Background(), cfg, prometheus.NewRegistry())
	require.NoError(t, err)
	t.Cleanup(func() { _ = srv.Close() })

	assert.Equal(t, http.StatusUnauthorized, get(srv, "/admin/events").Code)
	assert.Equal(t, http.StatusOK, get(srv, "/events").Code)
}

func TestNew_RedisViewsWithoutClient(t *testing.T) {
	cfg := memoryConfig(t)
	cfg.Views.Backend = "redis"

	_, err := New(context.Background(), cfg, prometheus.NewRegistry())
	assert.Error(t, err)
}

func TestRun_StopsOnCancel(t *testing.T) {
	cfg := memoryConfig(t)
	cfg.Server.Port = "0"

	srv, err := New(context.Background(), cfg, prometheus.NewRegistry())
	require.NoError(t, err)
	t.Cleanup(func() { _ = srv.Close() })

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Run(ctx) }()

	cancel()
	assert.NoError(t, <-done)
}
