package application

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/sanosuguru/go-event-listing/internal/domain/event"
	"github.com/sanosuguru/go-event-listing/internal/domain/guard"
	"github.com/sanosuguru/go-event-listing/internal/domain/rating"
	"github.com/sanosuguru/go-event-listing/internal/domain/transaction"
	"github.com/sanosuguru/go-event-listing/internal/domain/user"
	"github.com/sanosuguru/go-event-listing/internal/pkg/logger"
	"github.com/sanosuguru/go-event-listing/internal/pkg/tracing"
)

// RatingService stores ratings and keeps the event and organizer averages
// in step with them. Averages are recomputed from all ratings on every change.
type RatingService struct {
	txm     transaction.Manager
	events  event.Repository
	ratings rating.Repository
	users   user.Repository
	s       settings
}

func NewRatingService(txm transaction.Manager, er event.Repository, rr rating.Repository, ur user.Repository, opts ...Option) *RatingService {
	return &RatingService{txm: txm, events: er, ratings: rr, users: ur, s: newSettings(opts)}
}

type RateInput struct {
	Score   float64
	Comment string
}

func (s *RatingService) Rate(ctx context.Context, userID, eventID string, input RateInput) (_ *rating.Rating, err error) {
	ctx, span := tracing.Start(ctx, "RatingService.Rate")
	defer func() {
		tracing.End(span, err)
		s.s.metrics.ObserveRating(ratingResult(err))
	}()

	if _, err := s.users.GetByID(ctx, userID); err != nil {
		return nil, err
	}
	r := rating.NewRating(eventID, userID, input.Score, input.Comment, s.s.now())
	if err := r.Validate(); err != nil {
		return nil, err
	}

	err = runInTx(ctx, s.txm, func(tx transaction.Tx) error {
		e, err := s.events.GetByIDForUpdate(ctx, tx, eventID)
		if err != nil {
			return err
		}
		if err := guard.CanRate(e, userID); err != nil {
			return err
		}
		exists, err := s.ratings.ExistsByEventAndUser(ctx, tx, eventID, userID)
		if err != nil {
			return err
		}
		if exists {
			return rating.ErrDuplicateRating
		}
		if err := s.ratings.Create(ctx, tx, r); err != nil {
			return err
		}
		return s.recompute(ctx, tx, e)
	})
	if err != nil {
		return nil, err
	}

	logger.FromContext(ctx).Info("event rated",
		zap.String("rating_id", r.ID),
		zap.String("event_id", eventID),
		zap.String("user_id", userID),
		zap.Float64("score", r.Score),
	)
	return r, nil
}

// DeleteByID removes the caller's own rating and recomputes the averages.
func (s *RatingService) DeleteByID(ctx context.Context, userID, ratingID string) (err error) {
	ctx, span := tracing.Start(ctx, "RatingService.DeleteByID")
	defer func() { tracing.End(span, err) }()

	if _, err := s.users.GetByID(ctx, userID); err != nil {
		return err
	}
	r, err := s.ratings.GetByID(ctx, ratingID)
	if err != nil {
		return err
	}
	if err := guard.RequireRater(r, userID); err != nil {
		return err
	}

	err = runInTx(ctx, s.txm, func(tx transaction.Tx) error {
		e, err := s.events.GetByIDForUpdate(ctx, tx, r.EventID)
		if err != nil {
			return err
		}
		if err := s.ratings.Delete(ctx, tx, ratingID); err != nil {
			return err
		}
		return s.recompute(ctx, tx, e)
	})
	if err != nil {
		return err
	}

	logger.FromContext(ctx).Info("rating deleted",
		zap.String("rating_id", ratingID),
		zap.String("event_id", r.EventID),
		zap.String("user_id", userID),
	)
	return nil
}

func (s *RatingService) GetByID(ctx context.Context, ratingID string) (*rating.Rating, error) {
	return s.ratings.GetByID(ctx, ratingID)
}

// ListByUser returns the user's ratings newest first.
func (s *RatingService) ListByUser(ctx context.Context, userID string, page event.Page) ([]*rating.Rating, error) {
	if _, err := s.users.GetByID(ctx, userID); err != nil {
		return nil, err
	}
	page = page.Normalize()
	return s.ratings.ListByUser(ctx, userID, page.From, page.Size)
}

// ListByEvent sorts all ratings of the event and then cuts the page.
func (s *RatingService) ListByEvent(ctx context.Context, eventID string, sortType rating.SortType, page event.Page) ([]*rating.Rating, error) {
	if _, err := s.events.GetByID(ctx, eventID); err != nil {
		return nil, err
	}
	all, err := s.ratings.ListByEvent(ctx, eventID)
	if err != nil {
		return nil, err
	}
	rating.Sort(all, sortType)

	page = page.Normalize()
	if page.From >= len(all) {
		return []*rating.Rating{}, nil
	}
	end := min(page.From+page.Size, len(all))
	return all[page.From:end], nil
}

// recompute refreshes the event and organizer averages. The organizer row is
// locked after the event row so concurrent ratings of different events by
// the same organizer serialize on it.
func (s *RatingService) recompute(ctx context.Context, tx transaction.Tx, e *event.Event) error {
	if _, err := s.users.GetByIDForUpdate(ctx, tx, e.InitiatorID); err != nil {
		return fmt.Errorf("lock initiator: %w", err)
	}

	eventAvg, err := s.ratings.AverageByEvent(ctx, tx, e.ID)
	if err != nil {
		return err
	}
	if err := s.events.UpdateRating(ctx, tx, e.ID, eventAvg); err != nil {
		return err
	}

	userAvg, err := s.ratings.AverageByInitiator(ctx, tx, e.InitiatorID)
	if err != nil {
		return err
	}
	if err := s.users.UpdateRating(ctx, tx, e.InitiatorID, userAvg); err != nil {
		return err
	}

	e.Rating = eventAvg
	logger.FromContext(ctx).Debug("ratings recomputed",
		zap.String("event_id", e.ID),
		zap.String("user_id", e.InitiatorID),
		zap.Float64p("event_rating", eventAvg),
		zap.Float64p("user_rating", userAvg),
	)
	return nil
}

func ratingResult(err error) string {
	switch {
	case err == nil:
		return "success"
	case errors.Is(err, rating.ErrDuplicateRating):
		return "duplicate"
	case errors.Is(err, rating.ErrSelfRating), errors.Is(err, rating.ErrEventNotCompleted):
		return "denied"
	default:
		return "error"
	}
}
