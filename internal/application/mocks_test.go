package application

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/sanosuguru/go-event-listing/internal/domain/category"
	"github.com/sanosuguru/go-event-listing/internal/domain/event"
	"github.com/sanosuguru/go-event-listing/internal/domain/participation"
	"github.com/sanosuguru/go-event-listing/internal/domain/rating"
	"github.com/sanosuguru/go-event-listing/internal/domain/transaction"
	"github.com/sanosuguru/go-event-listing/internal/domain/user"
	"github.com/sanosuguru/go-event-listing/internal/domain/view"
)

// === Mock implementations ===

// MockTxManager implements transaction.Manager
type MockTxManager struct {
	mock.Mock
}

func (m *MockTxManager) Begin(ctx context.Context) (transaction.Tx, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(transaction.Tx), args.Error(1)
}

// MockTx implements transaction.Tx
type MockTx struct {
	mock.Mock
}

func (m *MockTx) Commit() error {
	args := m.Called()
	return args.Error(0)
}

func (m *MockTx) Rollback() error {
	args := m.Called()
	return args.Error(0)
}

// MockEventRepository implements event.Repository
type MockEventRepository struct {
	mock.Mock
}

func (m *MockEventRepository) Create(ctx context.Context, tx transaction.Tx, e *event.Event) error {
	args := m.Called(ctx, tx, e)
	return args.Error(0)
}

func (m *MockEventRepository) GetByID(ctx context.Context, id string) (*event.Event, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*event.Event), args.Error(1)
}

func (m *MockEventRepository) GetByIDForUpdate(ctx context.Context, tx transaction.Tx, id string) (*event.Event, error) {
	args := m.Called(ctx, tx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*event.Event), args.Error(1)
}

func (m *MockEventRepository) ListByInitiator(ctx context.Context, initiatorID string, page event.Page) ([]*event.Event, error) {
	args := m.Called(ctx, initiatorID, page)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*event.Event), args.Error(1)
}

func (m *MockEventRepository) ListPublished(ctx context.Context, filter event.PublicFilter) ([]*event.Event, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*event.Event), args.Error(1)
}

func (m *MockEventRepository) Search(ctx context.Context, filter event.AdminFilter) ([]*event.Event, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*event.Event), args.Error(1)
}

func (m *MockEventRepository) ListDueForCompletion(ctx context.Context, now time.Time, limit int) ([]*event.Event, error) {
	args := m.Called(ctx, now, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*event.Event), args.Error(1)
}

func (m *MockEventRepository) Update(ctx context.Context, tx transaction.Tx, e *event.Event) error {
	args := m.Called(ctx, tx, e)
	return args.Error(0)
}

func (m *MockEventRepository) AddConfirmed(ctx context.Context, tx transaction.Tx, id string, delta int64) error {
	args := m.Called(ctx, tx, id, delta)
	return args.Error(0)
}

func (m *MockEventRepository) UpdateRating(ctx context.Context, tx transaction.Tx, id string, r *float64) error {
	args := m.Called(ctx, tx, id, r)
	return args.Error(0)
}

func (m *MockEventRepository) UpdateViews(ctx context.Context, id string, views int64) error {
	args := m.Called(ctx, id, views)
	return args.Error(0)
}

// MockParticipationRepository implements participation.Repository
type MockParticipationRepository struct {
	mock.Mock
}

func (m *MockParticipationRepository) Create(ctx context.Context, tx transaction.Tx, r *participation.Request) error {
	args := m.Called(ctx, tx, r)
	return args.Error(0)
}

func (m *MockParticipationRepository) GetByID(ctx context.Context, id string) (*participation.Request, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*participation.Request), args.Error(1)
}

func (m *MockParticipationRepository) GetByIDForUpdate(ctx context.Context, tx transaction.Tx, id string) (*participation.Request, error) {
	args := m.Called(ctx, tx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*participation.Request), args.Error(1)
}

func (m *MockParticipationRepository) ExistsActive(ctx context.Context, tx transaction.Tx, eventID, requesterID string) (bool, error) {
	args := m.Called(ctx, tx, eventID, requesterID)
	return args.Bool(0), args.Error(1)
}

func (m *MockParticipationRepository) ListByRequester(ctx context.Context, requesterID string) ([]*participation.Request, error) {
	args := m.Called(ctx, requesterID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*participation.Request), args.Error(1)
}

func (m *MockParticipationRepository) ListByEvent(ctx context.Context, tx transaction.Tx, eventID string) ([]*participation.Request, error) {
	args := m.Called(ctx, tx, eventID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*participation.Request), args.Error(1)
}

func (m *MockParticipationRepository) ListByEventAndStatus(ctx context.Context, tx transaction.Tx, eventID string, status participation.Status) ([]*participation.Request, error) {
	args := m.Called(ctx, tx, eventID, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*participation.Request), args.Error(1)
}

func (m *MockParticipationRepository) UpdateStatus(ctx context.Context, tx transaction.Tx, ids []string, status participation.Status) error {
	args := m.Called(ctx, tx, ids, status)
	return args.Error(0)
}

// MockRatingRepository implements rating.Repository
type MockRatingRepository struct {
	mock.Mock
}

func (m *MockRatingRepository) Create(ctx context.Context, tx transaction.Tx, r *rating.Rating) error {
	args := m.Called(ctx, tx, r)
	return args.Error(0)
}

func (m *MockRatingRepository) GetByID(ctx context.Context, id string) (*rating.Rating, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*rating.Rating), args.Error(1)
}

func (m *MockRatingRepository) ExistsByEventAndUser(ctx context.Context, tx transaction.Tx, eventID, userID string) (bool, error) {
	args := m.Called(ctx, tx, eventID, userID)
	return args.Bool(0), args.Error(1)
}

func (m *MockRatingRepository) Delete(ctx context.Context, tx transaction.Tx, id string) error {
	args := m.Called(ctx, tx, id)
	return args.Error(0)
}

func (m *MockRatingRepository) AverageByEvent(ctx context.Context, tx transaction.Tx, eventID string) (*float64, error) {
	args := m.Called(ctx, tx, eventID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*float64), args.Error(1)
}

func (m *MockRatingRepository) AverageByInitiator(ctx context.Context, tx transaction.Tx, initiatorID string) (*float64, error) {
	args := m.Called(ctx, tx, initiatorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*float64), args.Error(1)
}

func (m *MockRatingRepository) ListByUser(ctx context.Context, userID string, from, size int) ([]*rating.Rating, error) {
	args := m.Called(ctx, userID, from, size)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*rating.Rating), args.Error(1)
}

func (m *MockRatingRepository) ListByEvent(ctx context.Context, eventID string) ([]*rating.Rating, error) {
	args := m.Called(ctx, eventID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*rating.Rating), args.Error(1)
}

// MockUserRepository implements user.Repository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, u *user.User) error {
	args := m.Called(ctx, u)
	return args.Error(0)
}

func (m *MockUserRepository) GetByID(ctx context.Context, id string) (*user.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*user.User), args.Error(1)
}

func (m *MockUserRepository) GetByIDForUpdate(ctx context.Context, tx transaction.Tx, id string) (*user.User, error) {
	args := m.Called(ctx, tx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*user.User), args.Error(1)
}

func (m *MockUserRepository) UpdateRating(ctx context.Context, tx transaction.Tx, id string, r *float64) error {
	args := m.Called(ctx, tx, id, r)
	return args.Error(0)
}

// MockCategoryRepository implements category.Repository
type MockCategoryRepository struct {
	mock.Mock
}

func (m *MockCategoryRepository) Create(ctx context.Context, c *category.Category) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}

func (m *MockCategoryRepository) GetByID(ctx context.Context, id string) (*category.Category, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*category.Category), args.Error(1)
}

// MockViewCounter implements view.Counter
type MockViewCounter struct {
	mock.Mock
}

func (m *MockViewCounter) RecordHit(ctx context.Context, hit view.Hit) error {
	args := m.Called(ctx, hit)
	return args.Error(0)
}

func (m *MockViewCounter) UniqueHits(ctx context.Context, path string, from, to time.Time) (int64, error) {
	args := m.Called(ctx, path, from, to)
	return args.Get(0).(int64), args.Error(1)
}

// MockLocker implements Locker by running fn inline
type MockLocker struct {
	mock.Mock
}

func (m *MockLocker) WithLock(ctx context.Context, key string, fn func(ctx context.Context) error) error {
	args := m.Called(ctx, key)
	if err := args.Error(0); err != nil {
		return err
	}
	return fn(ctx)
}

func newMockTx() (*MockTxManager, *MockTx) {
	txm := new(MockTxManager)
	tx := new(MockTx)
	txm.On("Begin", mock.Anything).Return(tx, nil)
	tx.On("Rollback").Return(nil).Maybe()
	return txm, tx
}
