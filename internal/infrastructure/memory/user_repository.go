package memory

import (
	"context"

	"github.com/google/uuid"

	"github.com/sanosuguru/go-event-listing/internal/domain/category"
	"github.com/sanosuguru/go-event-listing/internal/domain/transaction"
	"github.com/sanosuguru/go-event-listing/internal/domain/user"
)

type UserRepository struct {
	s *Store
}

func NewUserRepository(s *Store) *UserRepository {
	return &UserRepository{s: s}
}

func (r *UserRepository) Create(_ context.Context, u *user.User) error {
	return r.s.write(nil, func(d *dataset) error {
		if u.ID == "" {
			u.ID = uuid.NewString()
		}
		v := *u
		v.Rating = ptrCopy(u.Rating)
		d.users[u.ID] = v
		return nil
	})
}

func (r *UserRepository) GetByID(_ context.Context, id string) (*user.User, error) {
	return r.get(nil, id)
}

func (r *UserRepository) GetByIDForUpdate(_ context.Context, tx transaction.Tx, id string) (*user.User, error) {
	return r.get(tx, id)
}

func (r *UserRepository) get(tx transaction.Tx, id string) (*user.User, error) {
	var out *user.User
	err := r.s.read(tx, func(d *dataset) error {
		u, ok := d.users[id]
		if !ok {
			return user.ErrUserNotFound
		}
		u.Rating = ptrCopy(u.Rating)
		out = &u
		return nil
	})
	return out, err
}

func (r *UserRepository) UpdateRating(_ context.Context, tx transaction.Tx, id string, v *float64) error {
	return r.s.write(tx, func(d *dataset) error {
		u, ok := d.users[id]
		if !ok {
			return user.ErrUserNotFound
		}
		u.Rating = ptrCopy(v)
		d.users[id] = u
		return nil
	})
}

type CategoryRepository struct {
	s *Store
}

func NewCategoryRepository(s *Store) *CategoryRepository {
	return &CategoryRepository{s: s}
}

func (r *CategoryRepository) Create(_ context.Context, c *category.Category) error {
	return r.s.write(nil, func(d *dataset) error {
		if c.ID == "" {
			c.ID = uuid.NewString()
		}
		d.categories[c.ID] = *c
		return nil
	})
}

func (r *CategoryRepository) GetByID(_ context.Context, id string) (*category.Category, error) {
	var out *category.Category
	err := r.s.read(nil, func(d *dataset) error {
		c, ok := d.categories[id]
		if !ok {
			return category.ErrCategoryNotFound
		}
		out = &c
		return nil
	})
	return out, err
}
