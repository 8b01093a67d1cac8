package view

import (
	"context"
	"fmt"
	"time"
)

// Hit is a single read of a public resource
type Hit struct {
	App       string
	Path      string
	IP        string
	Timestamp time.Time
}

// Counter is the external view-count collaborator. UniqueHits must be
// idempotent for a given path and window; callers overwrite the stored
// views with its result.
type Counter interface {
	RecordHit(ctx context.Context, hit Hit) error
	UniqueHits(ctx context.Context, path string, from, to time.Time) (int64, error)
}

// EventPath is the canonical public path of an event.
func EventPath(eventID string) string {
	return fmt.Sprintf("/events/%s", eventID)
}
