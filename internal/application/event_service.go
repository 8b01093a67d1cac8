package application

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/sanosuguru/go-event-listing/internal/domain/category"
	"github.com/sanosuguru/go-event-listing/internal/domain/event"
	"github.com/sanosuguru/go-event-listing/internal/domain/guard"
	"github.com/sanosuguru/go-event-listing/internal/domain/transaction"
	"github.com/sanosuguru/go-event-listing/internal/domain/user"
	"github.com/sanosuguru/go-event-listing/internal/pkg/logger"
	"github.com/sanosuguru/go-event-listing/internal/pkg/tracing"
)

type EventService struct {
	txm        transaction.Manager
	events     event.Repository
	categories category.Repository
	users      user.Repository
	s          settings
}

func NewEventService(txm transaction.Manager, er event.Repository, cr category.Repository, ur user.Repository, opts ...Option) *EventService {
	return &EventService{txm: txm, events: er, categories: cr, users: ur, s: newSettings(opts)}
}

type CreateEventInput struct {
	Title            string
	Annotation       string
	Description      string
	CategoryID       string
	Location         event.Location
	EventDate        time.Time
	Paid             bool
	ParticipantLimit int64
	// nil means moderation on
	RequestModeration *bool
}

// Create registers a new PENDING event for userID.
func (s *EventService) Create(ctx context.Context, userID string, input CreateEventInput) (_ *event.Event, err error) {
	ctx, span := tracing.Start(ctx, "EventService.Create")
	defer func() { tracing.End(span, err) }()

	if _, err := s.users.GetByID(ctx, userID); err != nil {
		return nil, err
	}
	if _, err := s.categories.GetByID(ctx, input.CategoryID); err != nil {
		return nil, err
	}

	moderation := true
	if input.RequestModeration != nil {
		moderation = *input.RequestModeration
	}
	now := s.s.now()
	e := event.NewEvent(userID, input.CategoryID, input.Title, input.Annotation, input.Description,
		input.Location, input.EventDate, input.Paid, input.ParticipantLimit, moderation, now)
	if err := e.Validate(); err != nil {
		return nil, err
	}
	if err := guard.CheckEventDate(e, e.EventDate, now, s.s.lead); err != nil {
		return nil, err
	}
	if err := s.events.Create(ctx, nil, e); err != nil {
		return nil, fmt.Errorf("create event: %w", err)
	}

	logger.FromContext(ctx).Info("event created",
		zap.String("event_id", e.ID),
		zap.String("user_id", userID),
	)
	return e, nil
}

// GetForInitiator returns an event in any state to its owner.
func (s *EventService) GetForInitiator(ctx context.Context, userID, eventID string) (*event.Event, error) {
	if _, err := s.users.GetByID(ctx, userID); err != nil {
		return nil, err
	}
	e, err := s.events.GetByID(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if err := guard.RequireInitiator(e, userID); err != nil {
		return nil, err
	}
	return e, nil
}

func (s *EventService) ListByInitiator(ctx context.Context, userID string, page event.Page) ([]*event.Event, error) {
	if _, err := s.users.GetByID(ctx, userID); err != nil {
		return nil, err
	}
	return s.events.ListByInitiator(ctx, userID, page.Normalize())
}

// UpdateByInitiator applies an owner edit. Only PENDING and CANCELED events
// can be changed and only SEND_TO_REVIEW or CANCEL_REVIEW actions are allowed.
func (s *EventService) UpdateByInitiator(ctx context.Context, userID, eventID string, patch event.Patch) (_ *event.Event, err error) {
	ctx, span := tracing.Start(ctx, "EventService.UpdateByInitiator")
	defer func() { tracing.End(span, err) }()

	if _, err := s.users.GetByID(ctx, userID); err != nil {
		return nil, err
	}

	var updated *event.Event
	err = runInTx(ctx, s.txm, func(tx transaction.Tx) error {
		e, err := s.events.GetByIDForUpdate(ctx, tx, eventID)
		if err != nil {
			return err
		}
		if err := guard.RequireInitiator(e, userID); err != nil {
			return err
		}
		if err := guard.CanEditAsInitiator(e); err != nil {
			return err
		}
		if err := s.apply(ctx, e, patch, event.RoleInitiator); err != nil {
			return err
		}
		if err := s.events.Update(ctx, tx, e); err != nil {
			return err
		}
		updated = e
		return nil
	})
	s.observeAction(patch.StateAction, err)
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// UpdateByAdmin applies a moderator edit. Any state may be edited; state
// actions are limited to PUBLISH_EVENT, REJECT_EVENT and COMPLETE_EVENT.
func (s *EventService) UpdateByAdmin(ctx context.Context, eventID string, patch event.Patch) (_ *event.Event, err error) {
	ctx, span := tracing.Start(ctx, "EventService.UpdateByAdmin")
	defer func() { tracing.End(span, err) }()

	var updated *event.Event
	err = runInTx(ctx, s.txm, func(tx transaction.Tx) error {
		e, err := s.events.GetByIDForUpdate(ctx, tx, eventID)
		if err != nil {
			return err
		}
		if err := s.apply(ctx, e, patch, event.RoleAdmin); err != nil {
			return err
		}
		if err := s.events.Update(ctx, tx, e); err != nil {
			return err
		}
		updated = e
		return nil
	})
	s.observeAction(patch.StateAction, err)
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (s *EventService) Publish(ctx context.Context, eventID string) (*event.Event, error) {
	return s.UpdateByAdmin(ctx, eventID, actionPatch(event.ActionPublish))
}

func (s *EventService) Reject(ctx context.Context, eventID string) (*event.Event, error) {
	return s.UpdateByAdmin(ctx, eventID, actionPatch(event.ActionReject))
}

func (s *EventService) Cancel(ctx context.Context, userID, eventID string) (*event.Event, error) {
	return s.UpdateByInitiator(ctx, userID, eventID, actionPatch(event.ActionCancelReview))
}

func (s *EventService) Resubmit(ctx context.Context, userID, eventID string) (*event.Event, error) {
	return s.UpdateByInitiator(ctx, userID, eventID, actionPatch(event.ActionSendToReview))
}

// SearchAdmin lists events in any state.
func (s *EventService) SearchAdmin(ctx context.Context, filter event.AdminFilter) ([]*event.Event, error) {
	if err := filter.Validate(); err != nil {
		return nil, err
	}
	filter.Page = filter.Page.Normalize()
	return s.events.Search(ctx, filter)
}

// CompleteDue moves PUBLISHED events whose date has passed to COMPLETED and
// returns how many were completed. A failure on one event does not stop the
// sweep; failures are joined into the returned error.
func (s *EventService) CompleteDue(ctx context.Context) (int, error) {
	now := s.s.now()
	due, err := s.events.ListDueForCompletion(ctx, now, s.s.batch)
	if err != nil {
		return 0, fmt.Errorf("list events due for completion: %w", err)
	}

	var (
		completed int
		errs      []error
	)
	for _, d := range due {
		err := runInTx(ctx, s.txm, func(tx transaction.Tx) error {
			e, err := s.events.GetByIDForUpdate(ctx, tx, d.ID)
			if err != nil {
				return err
			}
			if e.State != event.StatePublished {
				return nil
			}
			if err := e.ApplyAction(event.ActionComplete, event.RoleAdmin, now); err != nil {
				return err
			}
			if err := s.events.Update(ctx, tx, e); err != nil {
				return err
			}
			completed++
			return nil
		})
		if err != nil {
			errs = append(errs, fmt.Errorf("complete event %s: %w", d.ID, err))
		}
	}
	s.s.metrics.AddCompleted(completed)
	return completed, errors.Join(errs...)
}

// apply runs an edit in order: plain fields, state action, then the
// scheduling check against the resulting publishedOn. Nothing is persisted
// here, so a failure leaves storage untouched.
func (s *EventService) apply(ctx context.Context, e *event.Event, patch event.Patch, role event.Role) error {
	if patch.CategoryID != nil {
		if _, err := s.categories.GetByID(ctx, *patch.CategoryID); err != nil {
			return err
		}
	}

	now := s.s.now()
	from := e.State
	changed := e.ApplyFields(patch)

	if patch.StateAction != nil {
		if err := e.ApplyAction(*patch.StateAction, role, now); err != nil {
			return err
		}
	}

	if patch.EventDate != nil || (e.State != from && e.State == event.StatePublished) {
		date := e.EventDate
		if patch.EventDate != nil {
			date = *patch.EventDate
			changed = append(changed, "eventDate")
		}
		if err := guard.CheckEventDate(e, date, now, s.s.lead); err != nil {
			return err
		}
		e.EventDate = date
	}

	if err := e.Validate(); err != nil {
		return err
	}

	fields := []zap.Field{
		zap.String("event_id", e.ID),
		zap.String("role", string(role)),
		zap.Strings("fields", changed),
	}
	if e.State != from {
		fields = append(fields, zap.String("from", string(from)), zap.String("to", string(e.State)))
	}
	logger.FromContext(ctx).Info("event updated", fields...)
	return nil
}

func (s *EventService) observeAction(action *event.Action, err error) {
	if action == nil {
		return
	}
	result := "success"
	if err != nil {
		result = "rejected"
	}
	s.s.metrics.ObserveTransition(string(*action), result)
}

func actionPatch(a event.Action) event.Patch {
	return event.Patch{StateAction: &a}
}
