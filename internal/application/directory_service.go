package application

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"

	"github.com/sanosuguru/go-event-listing/internal/domain/category"
	"github.com/sanosuguru/go-event-listing/internal/domain/user"
	"github.com/sanosuguru/go-event-listing/internal/pkg/logger"
)

var (
	ErrNameRequired  = errors.New("name is required")
	ErrEmailRequired = errors.New("email is required")
)

// DirectoryService registers the users and categories events refer to
type DirectoryService struct {
	users      user.Repository
	categories category.Repository
}

func NewDirectoryService(ur user.Repository, cr category.Repository) *DirectoryService {
	return &DirectoryService{users: ur, categories: cr}
}

func (s *DirectoryService) CreateUser(ctx context.Context, name, email string) (*user.User, error) {
	u := &user.User{Name: strings.TrimSpace(name), Email: strings.TrimSpace(email)}
	if u.Name == "" {
		return nil, ErrNameRequired
	}
	if u.Email == "" {
		return nil, ErrEmailRequired
	}
	if err := s.users.Create(ctx, u); err != nil {
		return nil, err
	}
	logger.FromContext(ctx).Info("user created", zap.String("user_id", u.ID))
	return u, nil
}

func (s *DirectoryService) GetUser(ctx context.Context, id string) (*user.User, error) {
	return s.users.GetByID(ctx, id)
}

func (s *DirectoryService) CreateCategory(ctx context.Context, name string) (*category.Category, error) {
	c := &category.Category{Name: strings.TrimSpace(name)}
	if c.Name == "" {
		return nil, ErrNameRequired
	}
	if err := s.categories.Create(ctx, c); err != nil {
		return nil, err
	}
	logger.FromContext(ctx).Info("category created", zap.String("category_id", c.ID), zap.String("name", c.Name))
	return c, nil
}

func (s *DirectoryService) GetCategory(ctx context.Context, id string) (*category.Category, error) {
	return s.categories.GetByID(ctx, id)
}
