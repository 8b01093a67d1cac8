package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/sanosuguru/go-event-listing/internal/domain/rating"
	"github.com/sanosuguru/go-event-listing/internal/domain/transaction"
)

const ratingColumns = `id, event_id, user_id, score, comment, created`

type ratingRow struct {
	ID      string    `db:"id"`
	EventID string    `db:"event_id"`
	UserID  string    `db:"user_id"`
	Score   float64   `db:"score"`
	Comment string    `db:"comment"`
	Created time.Time `db:"created"`
}

func (r *ratingRow) toEntity() *rating.Rating {
	return &rating.Rating{
		ID:      r.ID,
		EventID: r.EventID,
		UserID:  r.UserID,
		Score:   r.Score,
		Comment: r.Comment,
		Created: r.Created,
	}
}

type RatingRepository struct{ db *sqlx.DB }

func NewRatingRepository(db *sqlx.DB) *RatingRepository {
	return &RatingRepository{db: db}
}

func (r *RatingRepository) Create(ctx context.Context, tx transaction.Tx, rt *rating.Rating) error {
	query := `INSERT INTO ratings (event_id, user_id, score, comment, created) VALUES ($1, $2, $3, $4, $5) RETURNING id`
	err := conn(r.db, tx).QueryRowxContext(ctx, query, rt.EventID, rt.UserID, rt.Score, rt.Comment, rt.Created).Scan(&rt.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return rating.ErrDuplicateRating
		}
		return fmt.Errorf("create rating: %w", err)
	}
	return nil
}

func (r *RatingRepository) GetByID(ctx context.Context, id string) (*rating.Rating, error) {
	var row ratingRow
	if err := r.db.GetContext(ctx, &row, `SELECT `+ratingColumns+` FROM ratings WHERE id = $1`, id); err != nil {
		if isNoRows(err) {
			return nil, rating.ErrRatingNotFound
		}
		return nil, fmt.Errorf("get rating: %w", err)
	}
	return row.toEntity(), nil
}

func (r *RatingRepository) ExistsByEventAndUser(ctx context.Context, tx transaction.Tx, eventID, userID string) (bool, error) {
	var exists bool
	query := `SELECT EXISTS (SELECT 1 FROM ratings WHERE event_id = $1 AND user_id = $2)`
	if err := sqlx.GetContext(ctx, conn(r.db, tx), &exists, query, eventID, userID); err != nil {
		return false, fmt.Errorf("check rating: %w", err)
	}
	return exists, nil
}

func (r *RatingRepository) Delete(ctx context.Context, tx transaction.Tx, id string) error {
	result, err := conn(r.db, tx).ExecContext(ctx, `DELETE FROM ratings WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete rating: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete rating: %w", err)
	}
	if n == 0 {
		return rating.ErrRatingNotFound
	}
	return nil
}

func (r *RatingRepository) AverageByEvent(ctx context.Context, tx transaction.Tx, eventID string) (*float64, error) {
	return r.average(ctx, tx, `SELECT ROUND(AVG(score)::numeric, 2) FROM ratings WHERE event_id = $1`, eventID)
}

func (r *RatingRepository) AverageByInitiator(ctx context.Context, tx transaction.Tx, initiatorID string) (*float64, error) {
	query := `
		SELECT ROUND(AVG(r.score)::numeric, 2)
		FROM ratings r
		JOIN events e ON e.id = r.event_id
		WHERE e.initiator_id = $1
	`
	return r.average(ctx, tx, query, initiatorID)
}

// average returns nil when there is nothing to average.
func (r *RatingRepository) average(ctx context.Context, tx transaction.Tx, query, id string) (*float64, error) {
	var avg sql.NullFloat64
	if err := sqlx.GetContext(ctx, conn(r.db, tx), &avg, query, id); err != nil {
		return nil, fmt.Errorf("average rating: %w", err)
	}
	if !avg.Valid {
		return nil, nil
	}
	return &avg.Float64, nil
}

func (r *RatingRepository) ListByUser(ctx context.Context, userID string, from, size int) ([]*rating.Rating, error) {
	query := `SELECT ` + ratingColumns + ` FROM ratings WHERE user_id = $1 ORDER BY created DESC, id LIMIT $2 OFFSET $3`
	return r.list(ctx, query, userID, size, from)
}

func (r *RatingRepository) ListByEvent(ctx context.Context, eventID string) ([]*rating.Rating, error) {
	return r.list(ctx, `SELECT `+ratingColumns+` FROM ratings WHERE event_id = $1`, eventID)
}

func (r *RatingRepository) list(ctx context.Context, query string, args ...any) ([]*rating.Rating, error) {
	var rows []ratingRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list ratings: %w", err)
	}
	out := make([]*rating.Rating, len(rows))
	for i := range rows {
		out[i] = rows[i].toEntity()
	}
	return out, nil
}

var _ rating.Repository = (*RatingRepository)(nil)
