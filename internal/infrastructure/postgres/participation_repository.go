package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/sanosuguru/go-event-listing/internal/domain/participation"
	"github.com/sanosuguru/go-event-listing/internal/domain/transaction"
)

const requestColumns = `id, event_id, requester_id, status, created`

type requestRow struct {
	ID          string    `db:"id"`
	EventID     string    `db:"event_id"`
	RequesterID string    `db:"requester_id"`
	Status      string    `db:"status"`
	Created     time.Time `db:"created"`
}

func (r *requestRow) toEntity() *participation.Request {
	return &participation.Request{
		ID:          r.ID,
		EventID:     r.EventID,
		RequesterID: r.RequesterID,
		Status:      participation.Status(r.Status),
		Created:     r.Created,
	}
}

type ParticipationRepository struct{ db *sqlx.DB }

func NewParticipationRepository(db *sqlx.DB) *ParticipationRepository {
	return &ParticipationRepository{db: db}
}

func (r *ParticipationRepository) Create(ctx context.Context, tx transaction.Tx, req *participation.Request) error {
	query := `INSERT INTO participation_requests (event_id, requester_id, status, created) VALUES ($1, $2, $3, $4) RETURNING id`
	err := conn(r.db, tx).QueryRowxContext(ctx, query, req.EventID, req.RequesterID, string(req.Status), req.Created).Scan(&req.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return participation.ErrDuplicateRequest
		}
		return fmt.Errorf("create participation request: %w", err)
	}
	return nil
}

func (r *ParticipationRepository) GetByID(ctx context.Context, id string) (*participation.Request, error) {
	return r.get(ctx, r.db, `SELECT `+requestColumns+` FROM participation_requests WHERE id = $1`, id)
}

func (r *ParticipationRepository) GetByIDForUpdate(ctx context.Context, tx transaction.Tx, id string) (*participation.Request, error) {
	return r.get(ctx, conn(r.db, tx), `SELECT `+requestColumns+` FROM participation_requests WHERE id = $1 FOR UPDATE`, id)
}

func (r *ParticipationRepository) get(ctx context.Context, q sqlx.QueryerContext, query, id string) (*participation.Request, error) {
	var row requestRow
	if err := sqlx.GetContext(ctx, q, &row, query, id); err != nil {
		if isNoRows(err) {
			return nil, participation.ErrRequestNotFound
		}
		return nil, fmt.Errorf("get participation request: %w", err)
	}
	return row.toEntity(), nil
}

func (r *ParticipationRepository) ExistsActive(ctx context.Context, tx transaction.Tx, eventID, requesterID string) (bool, error) {
	query := `SELECT EXISTS (
		SELECT 1 FROM participation_requests
		WHERE event_id = $1 AND requester_id = $2 AND status <> $3
	)`
	var exists bool
	if err := sqlx.GetContext(ctx, conn(r.db, tx), &exists, query, eventID, requesterID, string(participation.StatusCanceled)); err != nil {
		return false, fmt.Errorf("check participation request: %w", err)
	}
	return exists, nil
}

func (r *ParticipationRepository) ListByRequester(ctx context.Context, requesterID string) ([]*participation.Request, error) {
	return r.list(ctx, r.db, `SELECT `+requestColumns+` FROM participation_requests WHERE requester_id = $1 ORDER BY seq`, requesterID)
}

func (r *ParticipationRepository) ListByEvent(ctx context.Context, tx transaction.Tx, eventID string) ([]*participation.Request, error) {
	return r.list(ctx, conn(r.db, tx), `SELECT `+requestColumns+` FROM participation_requests WHERE event_id = $1 ORDER BY seq`, eventID)
}

func (r *ParticipationRepository) ListByEventAndStatus(ctx context.Context, tx transaction.Tx, eventID string, status participation.Status) ([]*participation.Request, error) {
	query := `SELECT ` + requestColumns + ` FROM participation_requests WHERE event_id = $1 AND status = $2 ORDER BY seq`
	return r.list(ctx, conn(r.db, tx), query, eventID, string(status))
}

func (r *ParticipationRepository) list(ctx context.Context, q sqlx.QueryerContext, query string, args ...any) ([]*participation.Request, error) {
	var rows []requestRow
	if err := sqlx.SelectContext(ctx, q, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list participation requests: %w", err)
	}
	out := make([]*participation.Request, len(rows))
	for i := range rows {
		out[i] = rows[i].toEntity()
	}
	return out, nil
}

func (r *ParticipationRepository) UpdateStatus(ctx context.Context, tx transaction.Tx, ids []string, status participation.Status) error {
	if len(ids) == 0 {
		return nil
	}
	result, err := conn(r.db, tx).ExecContext(ctx,
		`UPDATE participation_requests SET status = $1 WHERE id = ANY($2)`, string(status), pq.Array(ids))
	if err != nil {
		return fmt.Errorf("update participation status: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("update participation status: %w", err)
	}
	if n != int64(len(ids)) {
		return participation.ErrRequestNotFound
	}
	return nil
}

var _ participation.Repository = (*ParticipationRepository)(nil)
