package worker

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/sanosuguru/go-event-listing/internal/pkg/logger"
)

// DueEventCompleter moves published events whose date has passed to
// COMPLETED
type DueEventCompleter interface {
	CompleteDue(ctx context.Context) (int, error)
}

// EventCompleter periodically completes past events so that their
// participants can rate them
type EventCompleter struct {
	events   DueEventCompleter
	interval time.Duration
	stopCh   chan struct{}
	doneCh   chan struct{}
	stopOnce sync.Once
}

func NewEventCompleter(events DueEventCompleter, interval time.Duration) *EventCompleter {
	return &EventCompleter{
		events:   events,
		interval: interval,
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}
}

// Start runs one sweep immediately and then one per interval until ctx is
// canceled or Stop is called. It blocks.
func (w *EventCompleter) Start(ctx context.Context) {
	logger.Info("event completer started", zap.Duration("interval", w.interval))

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()
	defer close(w.doneCh)

	w.sweep(ctx)
	for {
		select {
		case <-ctx.Done():
			logger.Info("event completer stopped", zap.String("reason", "context canceled"))
			return
		case <-w.stopCh:
			logger.Info("event completer stopped", zap.String("reason", "stop requested"))
			return
		case <-ticker.C:
			w.sweep(ctx)
		}
	}
}

// Stop signals Start to return and waits for it. Safe to call more than once.
func (w *EventCompleter) Stop() {
	w.stopOnce.Do(func() { close(w.stopCh) })
	<-w.doneCh
}

func (w *EventCompleter) sweep(ctx context.Context) {
	log := logger.FromContext(ctx)

	n, err := w.events.CompleteDue(ctx)
	if err != nil {
		// partial progress is still reported
		log.Error("event completion sweep failed", zap.Int("completed", n), zap.Error(err))
		return
	}
	if n > 0 {
		log.Info("completed past events", zap.Int("count", n))
	} else {
		log.Debug("no events due for completion")
	}
}
