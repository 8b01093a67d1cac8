package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sanosuguru/go-event-listing/internal/domain/view"
)

func TestViewCounter_UniqueHits(t *testing.T) {
	ctx := context.Background()
	c := NewViewCounter()
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	for _, h := range []view.Hit{
		{Path: "/events/1", IP: "10.0.0.1", Timestamp: base},
		{Path: "/events/1", IP: "10.0.0.1", Timestamp: base.Add(time.Minute)},
		{Path: "/events/1", IP: "10.0.0.2", Timestamp: base.Add(2 * time.Minute)},
		{Path: "/events/2", IP: "10.0.0.3", Timestamp: base},
	} {
		require.NoError(t, c.RecordHit(ctx, h))
	}

	n, err := c.UniqueHits(ctx, "/events/1", base, base.Add(time.Hour))
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	// same window, same answer
	n, err = c.UniqueHits(ctx, "/events/1", base, base.Add(time.Hour))
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	n, err = c.UniqueHits(ctx, "/events/1", base.Add(90*time.Second), base.Add(time.Hour))
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}
