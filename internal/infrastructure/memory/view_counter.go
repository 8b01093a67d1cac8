package memory

import (
	"context"
	"sync"
	"time"

	"github.com/sanosuguru/go-event-listing/internal/domain/view"
)

// ViewCounter keeps the last hit time per caller address for each path
type ViewCounter struct {
	mu   sync.Mutex
	hits map[string]map[string]time.Time
}

func NewViewCounter() *ViewCounter {
	return &ViewCounter{hits: map[string]map[string]time.Time{}}
}

func (c *ViewCounter) RecordHit(_ context.Context, hit view.Hit) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	byIP, ok := c.hits[hit.Path]
	if !ok {
		byIP = map[string]time.Time{}
		c.hits[hit.Path] = byIP
	}
	if last, seen := byIP[hit.IP]; !seen || hit.Timestamp.After(last) {
		byIP[hit.IP] = hit.Timestamp
	}
	return nil
}

func (c *ViewCounter) UniqueHits(_ context.Context, path string, from, to time.Time) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	var n int64
	for _, ts := range c.hits[path] {
		if !ts.Before(from) && !ts.After(to) {
			n++
		}
	}
	return n, nil
}
