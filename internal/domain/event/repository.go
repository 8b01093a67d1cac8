package event

import (
	"context"
	"time"

	"github.com/sanosuguru/go-event-listing/internal/domain/transaction"
)

// Repository is the persistence port for events. A nil tx runs the statement
// outside any transaction.
type Repository interface {
	// Create stores a new event and assigns its ID
	Create(ctx context.Context, tx transaction.Tx, e *Event) error

	GetByID(ctx context.Context, id string) (*Event, error)

	// GetByIDForUpdate loads the event and holds its row lock until tx ends
	GetByIDForUpdate(ctx context.Context, tx transaction.Tx, id string) (*Event, error)

	ListByInitiator(ctx context.Context, initiatorID string, page Page) ([]*Event, error)

	// ListPublished returns PUBLISHED events matching the public filter
	ListPublished(ctx context.Context, filter PublicFilter) ([]*Event, error)

	// Search returns events in any state matching the admin filter
	Search(ctx context.Context, filter AdminFilter) ([]*Event, error)

	// ListDueForCompletion returns PUBLISHED events whose date is before now
	ListDueForCompletion(ctx context.Context, now time.Time, limit int) ([]*Event, error)

	// Update persists the editable attributes and state (optimistic lock on Version)
	Update(ctx context.Context, tx transaction.Tx, e *Event) error

	// AddConfirmed atomically adds delta to the confirmed counter. It fails
	// with ErrParticipantLimitReached when the result would exceed a
	// non-zero participant limit.
	AddConfirmed(ctx context.Context, tx transaction.Tx, id string, delta int64) error

	UpdateRating(ctx context.Context, tx transaction.Tx, id string, rating *float64) error

	UpdateViews(ctx context.Context, id string, views int64) error
}
