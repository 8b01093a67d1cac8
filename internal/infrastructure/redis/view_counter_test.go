package redis

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sanosuguru/go-event-listing/internal/domain/view"
)

func TestViewCounter(t *testing.T) {
	client := newTestClient(t)
	ctx := context.Background()
	counter := NewViewCounter(client)

	base := time.Date(2026, 4, 10, 9, 0, 0, 0, time.UTC)
	hits := []view.Hit{
		{Path: "/events/1", IP: "192.0.2.1", Timestamp: base},
		{Path: "/events/1", IP: "192.0.2.1", Timestamp: base.Add(time.Minute)},
		{Path: "/events/1", IP: "192.0.2.2", Timestamp: base.Add(2 * time.Minute)},
		{Path: "/events/2", IP: "192.0.2.3", Timestamp: base},
	}
	for _, h := range hits {
		require.NoError(t, counter.RecordHit(ctx, h))
	}

	n, err := counter.UniqueHits(ctx, "/events/1", base.Add(-time.Hour), base.Add(time.Hour))
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	// an older hit does not move the latest timestamp back
	require.NoError(t, counter.RecordHit(ctx, view.Hit{Path: "/events/1", IP: "192.0.2.2", Timestamp: base.Add(-time.Hour)}))
	n, err = counter.UniqueHits(ctx, "/events/1", base.Add(90*time.Second), base.Add(time.Hour))
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	n, err = counter.UniqueHits(ctx, "/events/unknown", base, base.Add(time.Hour))
	require.NoError(t, err)
	assert.Zero(t, n)
}
