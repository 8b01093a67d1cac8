package e2e

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"

	"github.com/sanosuguru/go-event-listing/internal/application"
	"github.com/sanosuguru/go-event-listing/internal/config"
	"github.com/sanosuguru/go-event-listing/internal/server"
)

const timeLayout = "2006-01-02 15:04:05"

// clock is a settable time source shared by all services of a test server
type clock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *clock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// TestServer drives the full HTTP stack over the in-memory store
type TestServer struct {
	t     *testing.T
	Echo  *echo.Echo
	Clock *clock
}

// NewTestServer builds an isolated application. Each call gets its own store.
func NewTestServer(t *testing.T) *TestServer {
	t.Helper()
	t.Setenv("STORAGE_DRIVER", "memory")
	t.Setenv("REDIS_ENABLED", "false")
	t.Setenv("VIEWS_BACKEND", "memory")
	t.Setenv("WORKER_COMPLETION_ENABLED", "false")

	cfg, err := config.Load(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)

	clk := &clock{now: time.Now().Truncate(time.Second)}
	srv, err := server.New(context.Background(), cfg, prometheus.NewRegistry(), application.WithClock(clk.Now))
	require.NoError(t, err)
	t.Cleanup(func() { _ = srv.Close() })

	return &TestServer{t: t, Echo: srv.Echo, Clock: clk}
}

// Do sends a request and decodes a JSON reply into out when out is non-nil
func (s *TestServer) Do(method, path string, body any, out any, headers ...string) int {
	s.t.Helper()

	var reader *bytes.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(s.t, err)
		reader = bytes.NewReader(b)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	rec := httptest.NewRecorder()
	s.Echo.ServeHTTP(rec, req)

	if out != nil && rec.Code < http.StatusBadRequest && rec.Body.Len() > 0 {
		require.NoError(s.t, json.Unmarshal(rec.Body.Bytes(), out), rec.Body.String())
	}
	return rec.Code
}

// ErrorCode sends a request that is expected to fail and returns the
// taxonomy code from the error body
func (s *TestServer) ErrorCode(method, path string, body any) (int, string) {
	s.t.Helper()

	var b []byte
	if body != nil {
		var err error
		b, err = json.Marshal(body)
		require.NoError(s.t, err)
	}
	req := httptest.NewRequest(method, path, bytes.NewReader(b))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	s.Echo.ServeHTTP(rec, req)

	var resp struct {
		Code string `json:"code"`
	}
	_ = json.Unmarshal(rec.Body.Bytes(), &resp)
	return rec.Code, resp.Code
}

func (s *TestServer) CreateUser(name, email string) string {
	s.t.Helper()
	var u struct {
		ID string `json:"id"`
	}
	code := s.Do(http.MethodPost, "/admin/users", map[string]string{"name": name, "email": email}, &u)
	require.Equal(s.t, http.StatusCreated, code)
	return u.ID
}

func (s *TestServer) CreateCategory(name string) string {
	s.t.Helper()
	var c struct {
		ID string `json:"id"`
	}
	code := s.Do(http.MethodPost, "/admin/categories", map[string]string{"name": name}, &c)
	require.Equal(s.t, http.StatusCreated, code)
	return c.ID
}
