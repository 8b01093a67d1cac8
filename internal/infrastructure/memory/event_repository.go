package memory

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/sanosuguru/go-event-listing/internal/domain/event"
	"github.com/sanosuguru/go-event-listing/internal/domain/transaction"
)

type EventRepository struct {
	s *Store
}

func NewEventRepository(s *Store) *EventRepository {
	return &EventRepository{s: s}
}

func cloneEvent(e event.Event) *event.Event {
	e.PublishedOn = ptrCopy(e.PublishedOn)
	e.Rating = ptrCopy(e.Rating)
	return &e
}

func (r *EventRepository) Create(_ context.Context, tx transaction.Tx, e *event.Event) error {
	return r.s.write(tx, func(d *dataset) error {
		e.ID = uuid.NewString()
		e.Version = 1
		d.events[e.ID] = *cloneEvent(*e)
		return nil
	})
}

func (r *EventRepository) GetByID(_ context.Context, id string) (*event.Event, error) {
	return r.get(nil, id)
}

func (r *EventRepository) GetByIDForUpdate(_ context.Context, tx transaction.Tx, id string) (*event.Event, error) {
	return r.get(tx, id)
}

func (r *EventRepository) get(tx transaction.Tx, id string) (*event.Event, error) {
	var out *event.Event
	err := r.s.read(tx, func(d *dataset) error {
		e, ok := d.events[id]
		if !ok {
			return event.ErrEventNotFound
		}
		out = cloneEvent(e)
		return nil
	})
	return out, err
}

func (r *EventRepository) ListByInitiator(_ context.Context, initiatorID string, p event.Page) ([]*event.Event, error) {
	return r.list(func(e *event.Event) bool { return e.InitiatorID == initiatorID }, byCreated, p), nil
}

func (r *EventRepository) ListPublished(_ context.Context, f event.PublicFilter) ([]*event.Event, error) {
	text := strings.ToLower(f.Text)
	match := func(e *event.Event) bool {
		if e.State != event.StatePublished {
			return false
		}
		if text != "" && !strings.Contains(strings.ToLower(e.Annotation), text) &&
			!strings.Contains(strings.ToLower(e.Description), text) {
			return false
		}
		if len(f.Categories) > 0 && !slices.Contains(f.Categories, e.CategoryID) {
			return false
		}
		if f.Paid != nil && e.Paid != *f.Paid {
			return false
		}
		if f.OnlyAvailable && e.HasReachedLimit() {
			return false
		}
		return inWindow(e.EventDate, f.RangeStart, f.RangeEnd)
	}
	order := byEventDate
	if f.Sort == event.SortViews {
		order = byViews
	}
	return r.list(match, order, f.Page), nil
}

func (r *EventRepository) Search(_ context.Context, f event.AdminFilter) ([]*event.Event, error) {
	match := func(e *event.Event) bool {
		if len(f.Users) > 0 && !slices.Contains(f.Users, e.InitiatorID) {
			return false
		}
		if len(f.States) > 0 && !slices.Contains(f.States, e.State) {
			return false
		}
		if len(f.Categories) > 0 && !slices.Contains(f.Categories, e.CategoryID) {
			return false
		}
		return inWindow(e.EventDate, f.RangeStart, f.RangeEnd)
	}
	return r.list(match, byCreated, f.Page), nil
}

func (r *EventRepository) ListDueForCompletion(_ context.Context, now time.Time, limit int) ([]*event.Event, error) {
	match := func(e *event.Event) bool {
		return e.State == event.StatePublished && e.EventDate.Before(now)
	}
	return r.list(match, byEventDate, event.Page{Size: limit}), nil
}

func (r *EventRepository) Update(_ context.Context, tx transaction.Tx, e *event.Event) error {
	return r.s.write(tx, func(d *dataset) error {
		cur, ok := d.events[e.ID]
		if !ok {
			return event.ErrEventNotFound
		}
		if cur.Version != e.Version {
			return transaction.ErrConflict
		}
		// counters are owned by their dedicated operations
		next := *cloneEvent(*e)
		next.ConfirmedRequests = cur.ConfirmedRequests
		next.Views = cur.Views
		next.Rating = cur.Rating
		if next.ParticipantLimit > 0 && next.ConfirmedRequests > next.ParticipantLimit {
			return fmt.Errorf("%w: limit %d below %d confirmed", transaction.ErrConflict, next.ParticipantLimit, next.ConfirmedRequests)
		}
		e.Version++
		next.Version = e.Version
		d.events[e.ID] = next
		return nil
	})
}

func (r *EventRepository) AddConfirmed(_ context.Context, tx transaction.Tx, id string, delta int64) error {
	return r.s.write(tx, func(d *dataset) error {
		e, ok := d.events[id]
		if !ok {
			return event.ErrEventNotFound
		}
		next := e.ConfirmedRequests + delta
		if next < 0 || (e.ParticipantLimit > 0 && next > e.ParticipantLimit) {
			return event.ErrParticipantLimitReached
		}
		e.ConfirmedRequests = next
		d.events[id] = e
		return nil
	})
}

func (r *EventRepository) UpdateRating(_ context.Context, tx transaction.Tx, id string, v *float64) error {
	return r.s.write(tx, func(d *dataset) error {
		e, ok := d.events[id]
		if !ok {
			return event.ErrEventNotFound
		}
		e.Rating = ptrCopy(v)
		d.events[id] = e
		return nil
	})
}

func (r *EventRepository) UpdateViews(_ context.Context, id string, views int64) error {
	return r.s.write(nil, func(d *dataset) error {
		e, ok := d.events[id]
		if !ok {
			return event.ErrEventNotFound
		}
		e.Views = views
		d.events[id] = e
		return nil
	})
}

func byCreated(a, b *event.Event) int {
	if c := a.CreatedOn.Compare(b.CreatedOn); c != 0 {
		return c
	}
	return cmp.Compare(a.ID, b.ID)
}

func byEventDate(a, b *event.Event) int {
	if c := a.EventDate.Compare(b.EventDate); c != 0 {
		return c
	}
	return cmp.Compare(a.ID, b.ID)
}

func byViews(a, b *event.Event) int {
	if c := cmp.Compare(b.Views, a.Views); c != 0 {
		return c
	}
	return byEventDate(a, b)
}

func (r *EventRepository) list(match func(*event.Event) bool, order func(a, b *event.Event) int, p event.Page) []*event.Event {
	var out []*event.Event
	_ = r.s.read(nil, func(d *dataset) error {
		for _, e := range d.events {
			if c := cloneEvent(e); match(c) {
				out = append(out, c)
			}
		}
		return nil
	})
	slices.SortFunc(out, order)
	return page(out, p.From, p.Size)
}
