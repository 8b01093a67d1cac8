package rating

import (
	"context"

	"github.com/sanosuguru/go-event-listing/internal/domain/transaction"
)

// Repository is the persistence port for ratings
type Repository interface {
	// Create fails with ErrDuplicateRating when (event, user) is already rated
	Create(ctx context.Context, tx transaction.Tx, r *Rating) error

	GetByID(ctx context.Context, id string) (*Rating, error)

	ExistsByEventAndUser(ctx context.Context, tx transaction.Tx, eventID, userID string) (bool, error)

	Delete(ctx context.Context, tx transaction.Tx, id string) error

	// AverageByEvent is the rounded mean over all ratings of the event, nil when unrated
	AverageByEvent(ctx context.Context, tx transaction.Tx, eventID string) (*float64, error)

	// AverageByInitiator is the rounded mean over all ratings of events the
	// user initiated, nil when unrated
	AverageByInitiator(ctx context.Context, tx transaction.Tx, initiatorID string) (*float64, error)

	// ListByUser returns the user's ratings newest first
	ListByUser(ctx context.Context, userID string, from, size int) ([]*Rating, error)

	// ListByEvent returns every rating of the event, unordered
	ListByEvent(ctx context.Context, eventID string) ([]*Rating, error)
}
