package stats

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sanosuguru/go-event-listing/internal/domain/view"
)

func TestClient_RecordHit(t *testing.T) {
	var got endpointHit
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/hit", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusCreated)
	}))
	defer srv.Close()

	c := NewClient(srv.URL+"/", time.Second)
	err := c.RecordHit(context.Background(), view.Hit{
		App:       "ewm-main-service",
		Path:      "/events/1",
		IP:        "192.0.2.1",
		Timestamp: time.Date(2026, 4, 10, 9, 30, 0, 0, time.UTC),
	})

	require.NoError(t, err)
	assert.Equal(t, endpointHit{App: "ewm-main-service", URI: "/events/1", IP: "192.0.2.1", Timestamp: "2026-04-10 09:30:00"}, got)
}

func TestClient_UniqueHits(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/stats", r.URL.Path)
		q := r.URL.Query()
		assert.Equal(t, "2026-04-01 00:00:00", q.Get("start"))
		assert.Equal(t, "2026-04-10 09:00:00", q.Get("end"))
		assert.Equal(t, []string{"/events/1"}, q["uris"])
		assert.Equal(t, "true", q.Get("unique"))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[{"app":"ewm-main-service","uri":"/events/1","hits":4},{"app":"other","uri":"/events/1","hits":1}]`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, time.Second)
	n, err := c.UniqueHits(context.Background(), "/events/1",
		time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2026, 4, 10, 9, 0, 0, 0, time.UTC))

	require.NoError(t, err)
	assert.Equal(t, int64(5), n)
}

func TestClient_UniqueHits_NoRows(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	n, err := NewClient(srv.URL, time.Second).UniqueHits(context.Background(), "/events/1", time.Now().Add(-time.Hour), time.Now())
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestClient_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, time.Second)
	_, err := c.UniqueHits(context.Background(), "/events/1", time.Now().Add(-time.Hour), time.Now())
	assert.ErrorContains(t, err, "500")

	err = c.RecordHit(context.Background(), view.Hit{Path: "/events/1"})
	assert.Error(t, err)
}
