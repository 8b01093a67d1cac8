package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/sanosuguru/go-event-listing/internal/domain/category"
	"github.com/sanosuguru/go-event-listing/internal/domain/transaction"
	"github.com/sanosuguru/go-event-listing/internal/domain/user"
)

type userRow struct {
	ID     string   `db:"id"`
	Name   string   `db:"name"`
	Email  string   `db:"email"`
	Rating *float64 `db:"rating"`
}

type UserRepository struct{ db *sqlx.DB }

func NewUserRepository(db *sqlx.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) Create(ctx context.Context, u *user.User) error {
	err := r.db.QueryRowxContext(ctx,
		`INSERT INTO users (name, email) VALUES ($1, $2) RETURNING id`, u.Name, u.Email,
	).Scan(&u.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: email already registered", transaction.ErrConflict)
		}
		return fmt.Errorf("create user: %w", err)
	}
	return nil
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (*user.User, error) {
	return r.get(ctx, r.db, `SELECT id, name, email, rating FROM users WHERE id = $1`, id)
}

func (r *UserRepository) GetByIDForUpdate(ctx context.Context, tx transaction.Tx, id string) (*user.User, error) {
	return r.get(ctx, conn(r.db, tx), `SELECT id, name, email, rating FROM users WHERE id = $1 FOR UPDATE`, id)
}

func (r *UserRepository) get(ctx context.Context, q sqlx.QueryerContext, query, id string) (*user.User, error) {
	var row userRow
	if err := sqlx.GetContext(ctx, q, &row, query, id); err != nil {
		if isNoRows(err) {
			return nil, user.ErrUserNotFound
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	return &user.User{ID: row.ID, Name: row.Name, Email: row.Email, Rating: row.Rating}, nil
}

func (r *UserRepository) UpdateRating(ctx context.Context, tx transaction.Tx, id string, rating *float64) error {
	result, err := conn(r.db, tx).ExecContext(ctx, `UPDATE users SET rating = $2 WHERE id = $1`, id, rating)
	if err != nil {
		return fmt.Errorf("update user rating: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("update user rating: %w", err)
	}
	if n == 0 {
		return user.ErrUserNotFound
	}
	return nil
}

type CategoryRepository struct{ db *sqlx.DB }

func NewCategoryRepository(db *sqlx.DB) *CategoryRepository {
	return &CategoryRepository{db: db}
}

func (r *CategoryRepository) Create(ctx context.Context, c *category.Category) error {
	if err := r.db.QueryRowxContext(ctx, `INSERT INTO categories (name) VALUES ($1) RETURNING id`, c.Name).Scan(&c.ID); err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: category name already used", transaction.ErrConflict)
		}
		return fmt.Errorf("create category: %w", err)
	}
	return nil
}

func (r *CategoryRepository) GetByID(ctx context.Context, id string) (*category.Category, error) {
	var c category.Category
	err := r.db.QueryRowxContext(ctx, `SELECT id, name FROM categories WHERE id = $1`, id).Scan(&c.ID, &c.Name)
	if err != nil {
		if isNoRows(err) {
			return nil, category.ErrCategoryNotFound
		}
		return nil, fmt.Errorf("get category: %w", err)
	}
	return &c, nil
}

var (
	_ user.Repository     = (*UserRepository)(nil)
	_ category.Repository = (*CategoryRepository)(nil)
)
