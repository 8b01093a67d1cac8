package application

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/sanosuguru/go-event-listing/internal/domain/event"
	"github.com/sanosuguru/go-event-listing/internal/domain/rating"
	"github.com/sanosuguru/go-event-listing/internal/domain/user"
)

type ratingFixture struct {
	txm     *MockTxManager
	tx      *MockTx
	events  *MockEventRepository
	ratings *MockRatingRepository
	users   *MockUserRepository
	svc     *RatingService
}

func newRatingFixture() *ratingFixture {
	f := &ratingFixture{
		events:  new(MockEventRepository),
		ratings: new(MockRatingRepository),
		users:   new(MockUserRepository),
	}
	f.txm, f.tx = newMockTx()
	f.svc = NewRatingService(f.txm, f.events, f.ratings, f.users, WithClock(clock))
	return f
}

func completedEvent() *event.Event {
	e := pendingEvent()
	e.State = event.StateCompleted
	return e
}

func TestRatingService_Rate_RecomputesBothAverages(t *testing.T) {
	f := newRatingFixture()
	eventAvg, userAvg := 4.5, 3.75

	f.users.On("GetByID", mock.Anything, "fan").Return(&user.User{ID: "fan"}, nil)
	f.events.On("GetByIDForUpdate", mock.Anything, f.tx, "event-1").Return(completedEvent(), nil)
	f.ratings.On("ExistsByEventAndUser", mock.Anything, f.tx, "event-1", "fan").Return(false, nil)
	f.ratings.On("Create", mock.Anything, f.tx, mock.AnythingOfType("*rating.Rating")).Return(nil)
	f.users.On("GetByIDForUpdate", mock.Anything, f.tx, "owner").Return(&user.User{ID: "owner"}, nil)
	f.ratings.On("AverageByEvent", mock.Anything, f.tx, "event-1").Return(&eventAvg, nil)
	f.events.On("UpdateRating", mock.Anything, f.tx, "event-1", &eventAvg).Return(nil)
	f.ratings.On("AverageByInitiator", mock.Anything, f.tx, "owner").Return(&userAvg, nil)
	f.users.On("UpdateRating", mock.Anything, f.tx, "owner", &userAvg).Return(nil)
	f.tx.On("Commit").Return(nil)

	r, err := f.svc.Rate(context.Background(), "fan", "event-1", RateInput{Score: 5, Comment: " great "})

	require.NoError(t, err)
	assert.Equal(t, "great", r.Comment)
	assert.Equal(t, fixedNow, r.Created)
	f.events.AssertExpectations(t)
	f.users.AssertExpectations(t)
	f.tx.AssertExpectations(t)
}

func TestRatingService_Rate_InvalidScore(t *testing.T) {
	f := newRatingFixture()
	f.users.On("GetByID", mock.Anything, "fan").Return(&user.User{ID: "fan"}, nil)

	_, err := f.svc.Rate(context.Background(), "fan", "event-1", RateInput{Score: 6})

	assert.ErrorIs(t, err, rating.ErrInvalidScore)
	f.txm.AssertNotCalled(t, "Begin", mock.Anything)
}

func TestRatingService_Rate_Duplicate(t *testing.T) {
	f := newRatingFixture()
	f.users.On("GetByID", mock.Anything, "fan").Return(&user.User{ID: "fan"}, nil)
	f.events.On("GetByIDForUpdate", mock.Anything, f.tx, "event-1").Return(completedEvent(), nil)
	f.ratings.On("ExistsByEventAndUser", mock.Anything, f.tx, "event-1", "fan").Return(true, nil)

	_, err := f.svc.Rate(context.Background(), "fan", "event-1", RateInput{Score: 3})

	assert.ErrorIs(t, err, rating.ErrDuplicateRating)
	f.ratings.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything)
}

func TestRatingService_Rate_UnknownEvent(t *testing.T) {
	f := newRatingFixture()
	f.users.On("GetByID", mock.Anything, "fan").Return(&user.User{ID: "fan"}, nil)
	f.events.On("GetByIDForUpdate", mock.Anything, f.tx, "missing").Return(nil, event.ErrEventNotFound)

	_, err := f.svc.Rate(context.Background(), "fan", "missing", RateInput{Score: 3})
	assert.ErrorIs(t, err, event.ErrEventNotFound)
}

func TestRatingService_ListByEvent_PagesAfterSorting(t *testing.T) {
	f := newRatingFixture()
	f.events.On("GetByID", mock.Anything, "event-1").Return(completedEvent(), nil)
	f.ratings.On("ListByEvent", mock.Anything, "event-1").Return([]*rating.Rating{
		{ID: "a", Score: 1},
		{ID: "b", Score: 5},
		{ID: "c", Score: 3},
	}, nil)

	got, err := f.svc.ListByEvent(context.Background(), "event-1", rating.SortHighRating, event.Page{From: 1, Size: 5})

	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "c", got[0].ID)
	assert.Equal(t, "a", got[1].ID)

	got, err = f.svc.ListByEvent(context.Background(), "event-1", rating.SortHighRating, event.Page{From: 10, Size: 5})
	require.NoError(t, err)
	assert.Empty(t, got)
}
