package application

import (
	"cmp"
	"context"
	"slices"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/sanosuguru/go-event-listing/internal/domain/event"
	"github.com/sanosuguru/go-event-listing/internal/domain/view"
	"github.com/sanosuguru/go-event-listing/internal/pkg/logger"
	"github.com/sanosuguru/go-event-listing/internal/pkg/tracing"
)

const viewFanOut = 8

// Visit describes the public read being served
type Visit struct {
	Path string
	IP   string
}

// ViewService serves public event reads and stamps each event with the
// unique-visitor count reported by the view counter. Counter failures are
// logged and the stored count is served instead.
type ViewService struct {
	events  event.Repository
	counter view.Counter
	app     string
	s       settings
}

func NewViewService(er event.Repository, counter view.Counter, app string, opts ...Option) *ViewService {
	return &ViewService{events: er, counter: counter, app: app, s: newSettings(opts)}
}

// GetPublished returns a PUBLISHED event. Other states are reported as not found.
func (s *ViewService) GetPublished(ctx context.Context, eventID string, visit Visit) (_ *event.Event, err error) {
	ctx, span := tracing.Start(ctx, "ViewService.GetPublished")
	defer func() { tracing.End(span, err) }()

	e, err := s.events.GetByID(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if !e.IsPublished() {
		return nil, event.ErrEventNotFound
	}

	now := s.s.now()
	s.recordHit(ctx, visit, now)
	s.refreshViews(ctx, e, now)
	return e, nil
}

// ListPublished searches PUBLISHED events and refreshes the views of each
// one in the page. Without a range the search starts from now.
func (s *ViewService) ListPublished(ctx context.Context, filter event.PublicFilter, visit Visit) (_ []*event.Event, err error) {
	ctx, span := tracing.Start(ctx, "ViewService.ListPublished")
	defer func() { tracing.End(span, err) }()

	if err := filter.Validate(); err != nil {
		return nil, err
	}
	now := s.s.now()
	if filter.RangeStart == nil && filter.RangeEnd == nil {
		filter.RangeStart = &now
	}
	filter.Page = filter.Page.Normalize()

	events, err := s.events.ListPublished(ctx, filter)
	if err != nil {
		return nil, err
	}

	s.recordHit(ctx, visit, now)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(viewFanOut)
	for _, e := range events {
		g.Go(func() error {
			s.refreshViews(gctx, e, now)
			return nil
		})
	}
	_ = g.Wait()

	if filter.Sort == event.SortViews {
		slices.SortStableFunc(events, func(a, b *event.Event) int {
			return cmp.Compare(b.Views, a.Views)
		})
	}
	return events, nil
}

func (s *ViewService) recordHit(ctx context.Context, visit Visit, now time.Time) {
	hit := view.Hit{App: s.app, Path: visit.Path, IP: visit.IP, Timestamp: now}
	if err := s.counter.RecordHit(ctx, hit); err != nil {
		logger.FromContext(ctx).Warn("failed to record hit",
			zap.String("path", visit.Path),
			zap.Error(err),
		)
	}
}

// refreshViews overwrites e.Views with the counter's unique hits over
// [createdOn, now] and stores the result.
func (s *ViewService) refreshViews(ctx context.Context, e *event.Event, now time.Time) {
	n, err := s.counter.UniqueHits(ctx, view.EventPath(e.ID), e.CreatedOn, now)
	if err != nil {
		logger.FromContext(ctx).Warn("failed to fetch views",
			zap.String("event_id", e.ID),
			zap.Error(err),
		)
		return
	}
	e.Views = n
	if err := s.events.UpdateViews(ctx, e.ID, n); err != nil {
		logger.FromContext(ctx).Warn("failed to store views",
			zap.String("event_id", e.ID),
			zap.Error(err),
		)
	}
}
