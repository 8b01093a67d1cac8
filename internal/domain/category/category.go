package category

import (
	"context"
	"errors"
)

var ErrCategoryNotFound = errors.New("category not found")

type Category struct {
	ID   string
	Name string
}

// Repository is the category store port
type Repository interface {
	Create(ctx context.Context, c *Category) error
	GetByID(ctx context.Context, id string) (*Category, error)
}
