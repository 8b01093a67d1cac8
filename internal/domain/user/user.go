package user

import (
	"context"
	"errors"

	"github.com/sanosuguru/go-event-listing/internal/domain/transaction"
)

var ErrUserNotFound = errors.New("user not found")

// User is an account known to the identity store. Rating is the organizer
// reputation derived from ratings of the events the user initiated.
type User struct {
	ID     string
	Name   string
	Email  string
	Rating *float64
}

// Repository is the identity store port
type Repository interface {
	Create(ctx context.Context, u *User) error

	GetByID(ctx context.Context, id string) (*User, error)

	// GetByIDForUpdate loads the user and holds its row lock until tx ends
	GetByIDForUpdate(ctx context.Context, tx transaction.Tx, id string) (*User, error)

	UpdateRating(ctx context.Context, tx transaction.Tx, id string, rating *float64) error
}
