// Package memory is an in-process implementation of the repository ports.
// Transactions are serialized and work on a private copy of the data that
// replaces the committed data on Commit. Reads outside a transaction only
// ever see committed data.
package memory

import (
	"context"
	"errors"
	"maps"
	"sync"
	"time"

	"github.com/sanosuguru/go-event-listing/internal/domain/category"
	"github.com/sanosuguru/go-event-listing/internal/domain/event"
	"github.com/sanosuguru/go-event-listing/internal/domain/participation"
	"github.com/sanosuguru/go-event-listing/internal/domain/rating"
	"github.com/sanosuguru/go-event-listing/internal/domain/transaction"
	"github.com/sanosuguru/go-event-listing/internal/domain/user"
)

var errForeignTx = errors.New("transaction does not belong to this store")

type dataset struct {
	events       map[string]event.Event
	requests     map[string]participation.Request
	requestOrder []string
	ratings      map[string]rating.Rating
	users        map[string]user.User
	categories   map[string]category.Category
}

func newDataset() *dataset {
	return &dataset{
		events:     map[string]event.Event{},
		requests:   map[string]participation.Request{},
		ratings:    map[string]rating.Rating{},
		users:      map[string]user.User{},
		categories: map[string]category.Category{},
	}
}

// clone copies the maps. Entity values are copied too; the pointer fields
// they hold are never mutated in place.
func (d *dataset) clone() *dataset {
	return &dataset{
		events:       maps.Clone(d.events),
		requests:     maps.Clone(d.requests),
		requestOrder: append([]string(nil), d.requestOrder...),
		ratings:      maps.Clone(d.ratings),
		users:        maps.Clone(d.users),
		categories:   maps.Clone(d.categories),
	}
}

// Store holds every aggregate in memory
type Store struct {
	txMu sync.Mutex // held for the lifetime of a transaction
	mu   sync.RWMutex
	data *dataset
}

func NewStore() *Store {
	return &Store{data: newDataset()}
}

type memTx struct {
	store *Store
	work  *dataset
	done  bool
}

// Begin starts a transaction. Only one transaction runs at a time.
func (s *Store) Begin(_ context.Context) (transaction.Tx, error) {
	s.txMu.Lock()
	s.mu.RLock()
	work := s.data.clone()
	s.mu.RUnlock()
	return &memTx{store: s, work: work}, nil
}

func (t *memTx) Commit() error {
	if t.done {
		return errors.New("transaction already finished")
	}
	t.store.mu.Lock()
	t.store.data = t.work
	t.store.mu.Unlock()
	t.done = true
	t.store.txMu.Unlock()
	return nil
}

func (t *memTx) Rollback() error {
	if t.done {
		return nil
	}
	t.done = true
	t.store.txMu.Unlock()
	return nil
}

// own returns the working copy of tx, or nil when tx is nil.
func (s *Store) own(tx transaction.Tx) (*dataset, error) {
	if tx == nil {
		return nil, nil
	}
	mt, ok := tx.(*memTx)
	if !ok || mt.store != s {
		return nil, errForeignTx
	}
	if mt.done {
		return nil, errors.New("transaction already finished")
	}
	return mt.work, nil
}

// write runs fn against the working copy of tx. Outside a transaction it
// takes the transaction lock and writes the committed data directly.
func (s *Store) write(tx transaction.Tx, fn func(d *dataset) error) error {
	work, err := s.own(tx)
	if err != nil {
		return err
	}
	if work != nil {
		return fn(work)
	}
	s.txMu.Lock()
	defer s.txMu.Unlock()
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(s.data)
}

// read runs fn against the working copy of tx, or the committed data when
// tx is nil.
func (s *Store) read(tx transaction.Tx, fn func(d *dataset) error) error {
	work, err := s.own(tx)
	if err != nil {
		return err
	}
	if work != nil {
		return fn(work)
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return fn(s.data)
}

func page[T any](items []T, from, size int) []T {
	if from >= len(items) {
		return []T{}
	}
	end := min(from+size, len(items))
	return items[from:end]
}

func ptrCopy[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

func inWindow(t time.Time, start, end *time.Time) bool {
	if start != nil && t.Before(*start) {
		return false
	}
	if end != nil && t.After(*end) {
		return false
	}
	return true
}
