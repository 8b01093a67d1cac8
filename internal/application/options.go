package application

import (
	"context"
	"fmt"
	"time"

	"github.com/sanosuguru/go-event-listing/internal/domain/guard"
	"github.com/sanosuguru/go-event-listing/internal/domain/transaction"
	"github.com/sanosuguru/go-event-listing/internal/pkg/metrics"
)

// Locker serializes work on a key across service instances
type Locker interface {
	WithLock(ctx context.Context, key string, fn func(ctx context.Context) error) error
}

// Option customizes a service
type Option func(*settings)

type settings struct {
	now     func() time.Time
	metrics *metrics.Metrics
	locker  Locker
	lead    guard.LeadTimes
	batch   int
}

func newSettings(opts []Option) settings {
	s := settings{
		now:   time.Now,
		lead:  guard.DefaultLeadTimes,
		batch: 100,
	}
	for _, opt := range opts {
		opt(&s)
	}
	return s
}

// WithClock replaces time.Now
func WithClock(now func() time.Time) Option {
	return func(s *settings) { s.now = now }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *settings) { s.metrics = m }
}

// WithLocker adds a distributed lock around per-event admission work
func WithLocker(l Locker) Option {
	return func(s *settings) { s.locker = l }
}

func WithLeadTimes(lead guard.LeadTimes) Option {
	return func(s *settings) { s.lead = lead }
}

// WithBatchSize limits how many events one completion sweep handles
func WithBatchSize(n int) Option {
	return func(s *settings) {
		if n > 0 {
			s.batch = n
		}
	}
}

// runInTx runs fn in a transaction and commits when fn succeeds.
func runInTx(ctx context.Context, txm transaction.Manager, fn func(tx transaction.Tx) error) error {
	tx, err := txm.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

func (s settings) withLock(ctx context.Context, key string, fn func(ctx context.Context) error) error {
	if s.locker == nil {
		return fn(ctx)
	}
	return s.locker.WithLock(ctx, key, fn)
}
