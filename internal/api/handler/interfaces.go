package handler

import (
	"context"

	"github.com/sanosuguru/go-event-listing/internal/application"
	"github.com/sanosuguru/go-event-listing/internal/domain/category"
	"github.com/sanosuguru/go-event-listing/internal/domain/event"
	"github.com/sanosuguru/go-event-listing/internal/domain/participation"
	"github.com/sanosuguru/go-event-listing/internal/domain/rating"
	"github.com/sanosuguru/go-event-listing/internal/domain/user"
)

// EventServiceInterface is the event lifecycle surface used by handlers
type EventServiceInterface interface {
	Create(ctx context.Context, userID string, input application.CreateEventInput) (*event.Event, error)
	GetForInitiator(ctx context.Context, userID, eventID string) (*event.Event, error)
	ListByInitiator(ctx context.Context, userID string, page event.Page) ([]*event.Event, error)
	UpdateByInitiator(ctx context.Context, userID, eventID string, patch event.Patch) (*event.Event, error)
	UpdateByAdmin(ctx context.Context, eventID string, patch event.Patch) (*event.Event, error)
	SearchAdmin(ctx context.Context, filter event.AdminFilter) ([]*event.Event, error)
}

// AdmissionServiceInterface is the participation request surface
type AdmissionServiceInterface interface {
	Submit(ctx context.Context, requesterID, eventID string) (*participation.Request, error)
	Cancel(ctx context.Context, requesterID, requestID string) (*participation.Request, error)
	BulkUpdateStatus(ctx context.Context, ownerID, eventID string, input application.BulkUpdateInput) (*application.BulkUpdateResult, error)
	ListByRequester(ctx context.Context, requesterID string) ([]*participation.Request, error)
	ListForEvent(ctx context.Context, ownerID, eventID string) ([]*participation.Request, error)
}

type RatingServiceInterface interface {
	Rate(ctx context.Context, userID, eventID string, input application.RateInput) (*rating.Rating, error)
	DeleteByID(ctx context.Context, userID, ratingID string) error
	GetByID(ctx context.Context, ratingID string) (*rating.Rating, error)
	ListByUser(ctx context.Context, userID string, page event.Page) ([]*rating.Rating, error)
	ListByEvent(ctx context.Context, eventID string, sortType rating.SortType, page event.Page) ([]*rating.Rating, error)
}

// ViewServiceInterface serves anonymous event reads
type ViewServiceInterface interface {
	GetPublished(ctx context.Context, eventID string, visit application.Visit) (*event.Event, error)
	ListPublished(ctx context.Context, filter event.PublicFilter, visit application.Visit) ([]*event.Event, error)
}

type DirectoryServiceInterface interface {
	CreateUser(ctx context.Context, name, email string) (*user.User, error)
	CreateCategory(ctx context.Context, name string) (*category.Category, error)
	GetCategory(ctx context.Context, id string) (*category.Category, error)
}
