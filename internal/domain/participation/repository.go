package participation

import (
	"context"

	"github.com/sanosuguru/go-event-listing/internal/domain/transaction"
)

// Repository is the persistence port for participation requests. Listings
// by event come back in persist order (created, then id).
type Repository interface {
	Create(ctx context.Context, tx transaction.Tx, r *Request) error

	GetByID(ctx context.Context, id string) (*Request, error)

	// GetByIDForUpdate loads the request and holds its row lock until tx ends
	GetByIDForUpdate(ctx context.Context, tx transaction.Tx, id string) (*Request, error)

	// ExistsActive reports whether the requester holds a non-canceled
	// request for the event
	ExistsActive(ctx context.Context, tx transaction.Tx, eventID, requesterID string) (bool, error)

	ListByRequester(ctx context.Context, requesterID string) ([]*Request, error)

	// ListByEvent returns every request of the event. tx may be nil.
	ListByEvent(ctx context.Context, tx transaction.Tx, eventID string) ([]*Request, error)

	ListByEventAndStatus(ctx context.Context, tx transaction.Tx, eventID string, status Status) ([]*Request, error)

	// UpdateStatus sets status on all listed requests
	UpdateStatus(ctx context.Context, tx transaction.Tx, ids []string, status Status) error
}
