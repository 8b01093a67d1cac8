package transaction

import (
	"context"
	"errors"
)

// ErrConflict is returned when a write lost an optimistic-lock race or a
// concurrent transaction changed the rows it depended on. Callers may retry.
var ErrConflict = errors.New("concurrent modification detected")

// Tx is a unit of work. It keeps the domain layer independent of the
// storage driver.
type Tx interface {
	Commit() error
	// Rollback after a successful Commit is a no-op
	Rollback() error
}

// Manager starts transactions
type Manager interface {
	Begin(ctx context.Context) (Tx, error)
}
