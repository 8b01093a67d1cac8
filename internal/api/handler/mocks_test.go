package handler

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/sanosuguru/go-event-listing/internal/application"
	"github.com/sanosuguru/go-event-listing/internal/domain/category"
	"github.com/sanosuguru/go-event-listing/internal/domain/event"
	"github.com/sanosuguru/go-event-listing/internal/domain/participation"
	"github.com/sanosuguru/go-event-listing/internal/domain/rating"
	"github.com/sanosuguru/go-event-listing/internal/domain/user"
)

type MockEventService struct {
	mock.Mock
}

func (m *MockEventService) Create(ctx context.Context, userID string, input application.CreateEventInput) (*event.Event, error) {
	args := m.Called(ctx, userID, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*event.Event), args.Error(1)
}

func (m *MockEventService) GetForInitiator(ctx context.Context, userID, eventID string) (*event.Event, error) {
	args := m.Called(ctx, userID, eventID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*event.Event), args.Error(1)
}

func (m *MockEventService) ListByInitiator(ctx context.Context, userID string, page event.Page) ([]*event.Event, error) {
	args := m.Called(ctx, userID, page)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*event.Event), args.Error(1)
}

func (m *MockEventService) UpdateByInitiator(ctx context.Context, userID, eventID string, patch event.Patch) (*event.Event, error) {
	args := m.Called(ctx, userID, eventID, patch)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*event.Event), args.Error(1)
}

func (m *MockEventService) UpdateByAdmin(ctx context.Context, eventID string, patch event.Patch) (*event.Event, error) {
	args := m.Called(ctx, eventID, patch)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*event.Event), args.Error(1)
}

func (m *MockEventService) SearchAdmin(ctx context.Context, filter event.AdminFilter) ([]*event.Event, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*event.Event), args.Error(1)
}

type MockAdmissionService struct {
	mock.Mock
}

func (m *MockAdmissionService) Submit(ctx context.Context, requesterID, eventID string) (*participation.Request, error) {
	args := m.Called(ctx, requesterID, eventID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*participation.Request), args.Error(1)
}

func (m *MockAdmissionService) Cancel(ctx context.Context, requesterID, requestID string) (*participation.Request, error) {
	args := m.Called(ctx, requesterID, requestID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*participation.Request), args.Error(1)
}

func (m *MockAdmissionService) BulkUpdateStatus(ctx context.Context, ownerID, eventID string, input application.BulkUpdateInput) (*application.BulkUpdateResult, error) {
	args := m.Called(ctx, ownerID, eventID, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*application.BulkUpdateResult), args.Error(1)
}

func (m *MockAdmissionService) ListByRequester(ctx context.Context, requesterID string) ([]*participation.Request, error) {
	args := m.Called(ctx, requesterID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*participation.Request), args.Error(1)
}

func (m *MockAdmissionService) ListForEvent(ctx context.Context, ownerID, eventID string) ([]*participation.Request, error) {
	args := m.Called(ctx, ownerID, eventID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*participation.Request), args.Error(1)
}

type MockRatingService struct {
	mock.Mock
}

func (m *MockRatingService) Rate(ctx context.Context, userID, eventID string, input application.RateInput) (*rating.Rating, error) {
	args := m.Called(ctx, userID, eventID, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*rating.Rating), args.Error(1)
}

func (m *MockRatingService) DeleteByID(ctx context.Context, userID, ratingID string) error {
	args := m.Called(ctx, userID, ratingID)
	return args.Error(0)
}

func (m *MockRatingService) GetByID(ctx context.Context, ratingID string) (*rating.Rating, error) {
	args := m.Called(ctx, ratingID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*rating.Rating), args.Error(1)
}

func (m *MockRatingService) ListByUser(ctx context.Context, userID string, page event.Page) ([]*rating.Rating, error) {
	args := m.Called(ctx, userID, page)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*rating.Rating), args.Error(1)
}

func (m *MockRatingService) ListByEvent(ctx context.Context, eventID string, sortType rating.SortType, page event.Page) ([]*rating.Rating, error) {
	args := m.Called(ctx, eventID, sortType, page)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*rating.Rating), args.Error(1)
}

type MockViewService struct {
	mock.Mock
}

func (m *MockViewService) GetPublished(ctx context.Context, eventID string, visit application.Visit) (*event.Event, error) {
	args := m.Called(ctx, eventID, visit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*event.Event), args.Error(1)
}

func (m *MockViewService) ListPublished(ctx context.Context, filter event.PublicFilter, visit application.Visit) ([]*event.Event, error) {
	args := m.Called(ctx, filter, visit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*event.Event), args.Error(1)
}

type MockDirectoryService struct {
	mock.Mock
}

func (m *MockDirectoryService) CreateUser(ctx context.Context, name, email string) (*user.User, error) {
	args := m.Called(ctx, name, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*user.User), args.Error(1)
}

func (m *MockDirectoryService) CreateCategory(ctx context.Context, name string) (*category.Category, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*category.Category), args.Error(1)
}

func (m *MockDirectoryService) GetCategory(ctx context.Context, id string) (*category.Category, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*category.Category), args.Error(1)
}
