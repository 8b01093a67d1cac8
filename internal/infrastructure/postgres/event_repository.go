package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/sanosuguru/go-event-listing/internal/domain/event"
	"github.com/sanosuguru/go-event-listing/internal/domain/transaction"
)

const eventColumns = `id, title, annotation, description, category_id, initiator_id, lat, lon, paid,
	event_date, created_on, published_on, participant_limit, request_moderation,
	confirmed_requests, state, views, rating, version`

type eventRow struct {
	ID                string     `db:"id"`
	Title             string     `db:"title"`
	Annotation        string     `db:"annotation"`
	Description       string     `db:"description"`
	CategoryID        string     `db:"category_id"`
	InitiatorID       string     `db:"initiator_id"`
	Lat               float64    `db:"lat"`
	Lon               float64    `db:"lon"`
	Paid              bool       `db:"paid"`
	EventDate         time.Time  `db:"event_date"`
	CreatedOn         time.Time  `db:"created_on"`
	PublishedOn       *time.Time `db:"published_on"`
	ParticipantLimit  int64      `db:"participant_limit"`
	RequestModeration bool       `db:"request_moderation"`
	ConfirmedRequests int64      `db:"confirmed_requests"`
	State             string     `db:"state"`
	Views             int64      `db:"views"`
	Rating            *float64   `db:"rating"`
	Version           int        `db:"version"`
}

func (r *eventRow) toEntity() *event.Event {
	return &event.Event{
		ID:                r.ID,
		Title:             r.Title,
		Annotation:        r.Annotation,
		Description:       r.Description,
		CategoryID:        r.CategoryID,
		InitiatorID:       r.InitiatorID,
		Location:          event.Location{Lat: r.Lat, Lon: r.Lon},
		Paid:              r.Paid,
		EventDate:         r.EventDate,
		CreatedOn:         r.CreatedOn,
		PublishedOn:       r.PublishedOn,
		ParticipantLimit:  r.ParticipantLimit,
		RequestModeration: r.RequestModeration,
		ConfirmedRequests: r.ConfirmedRequests,
		State:             event.State(r.State),
		Views:             r.Views,
		Rating:            r.Rating,
		Version:           r.Version,
	}
}

// EventRepository is the PostgreSQL implementation of event.Repository
type EventRepository struct {
	db *sqlx.DB
}

func NewEventRepository(db *sqlx.DB) *EventRepository {
	return &EventRepository{db: db}
}

func (r *EventRepository) Create(ctx context.Context, tx transaction.Tx, e *event.Event) error {
	query := `
		INSERT INTO events (title, annotation, description, category_id, initiator_id, lat, lon, paid,
			event_date, created_on, participant_limit, request_moderation, state, version)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, 1)
		RETURNING id
	`
	err := conn(r.db, tx).QueryRowxContext(ctx, query,
		e.Title, e.Annotation, e.Description, e.CategoryID, e.InitiatorID, e.Location.Lat, e.Location.Lon, e.Paid,
		e.EventDate, e.CreatedOn, e.ParticipantLimit, e.RequestModeration, string(e.State),
	).Scan(&e.ID)
	if err != nil {
		if isIntegrityViolation(err) {
			return fmt.Errorf("%w: %v", transaction.ErrConflict, err)
		}
		return fmt.Errorf("create event: %w", err)
	}
	e.Version = 1
	return nil
}

func (r *EventRepository) GetByID(ctx context.Context, id string) (*event.Event, error) {
	return r.get(ctx, r.db, `SELECT `+eventColumns+` FROM events WHERE id = $1`, id)
}

func (r *EventRepository) GetByIDForUpdate(ctx context.Context, tx transaction.Tx, id string) (*event.Event, error) {
	return r.get(ctx, conn(r.db, tx), `SELECT `+eventColumns+` FROM events WHERE id = $1 FOR UPDATE`, id)
}

func (r *EventRepository) get(ctx context.Context, q sqlx.QueryerContext, query, id string) (*event.Event, error) {
	var row eventRow
	if err := sqlx.GetContext(ctx, q, &row, query, id); err != nil {
		if isNoRows(err) {
			return nil, event.ErrEventNotFound
		}
		return nil, fmt.Errorf("get event: %w", err)
	}
	return row.toEntity(), nil
}

func (r *EventRepository) ListByInitiator(ctx context.Context, initiatorID string, p event.Page) ([]*event.Event, error) {
	var w where
	w.add("initiator_id = ?", initiatorID)
	return r.list(ctx, &w, "created_on, id", p)
}

func (r *EventRepository) ListPublished(ctx context.Context, f event.PublicFilter) ([]*event.Event, error) {
	var w where
	w.add("state = ?", string(event.StatePublished))
	if f.Text != "" {
		w.add("(annotation ILIKE ? OR description ILIKE ?)", "%"+f.Text+"%", "%"+f.Text+"%")
	}
	if len(f.Categories) > 0 {
		w.add("category_id = ANY(?)", pq.Array(f.Categories))
	}
	if f.Paid != nil {
		w.add("paid = ?", *f.Paid)
	}
	if f.OnlyAvailable {
		w.add("(participant_limit = 0 OR confirmed_requests < participant_limit)")
	}
	addRange(&w, f.RangeStart, f.RangeEnd)

	order := "event_date, id"
	if f.Sort == event.SortViews {
		order = "views DESC, event_date, id"
	}
	return r.list(ctx, &w, order, f.Page)
}

func (r *EventRepository) Search(ctx context.Context, f event.AdminFilter) ([]*event.Event, error) {
	var w where
	if len(f.Users) > 0 {
		w.add("initiator_id = ANY(?)", pq.Array(f.Users))
	}
	if len(f.States) > 0 {
		states := make([]string, len(f.States))
		for i, s := range f.States {
			states[i] = string(s)
		}
		w.add("state = ANY(?)", pq.Array(states))
	}
	if len(f.Categories) > 0 {
		w.add("category_id = ANY(?)", pq.Array(f.Categories))
	}
	addRange(&w, f.RangeStart, f.RangeEnd)
	return r.list(ctx, &w, "created_on, id", f.Page)
}

func (r *EventRepository) ListDueForCompletion(ctx context.Context, now time.Time, limit int) ([]*event.Event, error) {
	var w where
	w.add("state = ?", string(event.StatePublished))
	w.add("event_date < ?", now)
	return r.list(ctx, &w, "event_date, id", event.Page{Size: limit})
}

func addRange(w *where, start, end *time.Time) {
	if start != nil {
		w.add("event_date >= ?", *start)
	}
	if end != nil {
		w.add("event_date <= ?", *end)
	}
}

func (r *EventRepository) list(ctx context.Context, w *where, order string, p event.Page) ([]*event.Event, error) {
	query, args := w.page(`SELECT `+eventColumns+` FROM events`+w.String()+` ORDER BY `+order, p.From, p.Size)

	var rows []eventRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}

	events := make([]*event.Event, len(rows))
	for i := range rows {
		events[i] = rows[i].toEntity()
	}
	return events, nil
}

// Update writes the editable attributes and state. Counters are owned by
// AddConfirmed, UpdateRating and UpdateViews and are left untouched.
func (r *EventRepository) Update(ctx context.Context, tx transaction.Tx, e *event.Event) error {
	query := `
		UPDATE events
		SET title = $1, annotation = $2, description = $3, category_id = $4, lat = $5, lon = $6,
		    paid = $7, event_date = $8, published_on = $9, participant_limit = $10,
		    request_moderation = $11, state = $12, version = version + 1
		WHERE id = $13 AND version = $14
	`
	result, err := conn(r.db, tx).ExecContext(ctx, query,
		e.Title, e.Annotation, e.Description, e.CategoryID, e.Location.Lat, e.Location.Lon,
		e.Paid, e.EventDate, e.PublishedOn, e.ParticipantLimit,
		e.RequestModeration, string(e.State), e.ID, e.Version,
	)
	if err != nil {
		if isIntegrityViolation(err) {
			return fmt.Errorf("%w: %v", transaction.ErrConflict, err)
		}
		return fmt.Errorf("update event: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("update event: %w", err)
	}
	if rowsAffected == 0 {
		return transaction.ErrConflict
	}

	e.Version++
	return nil
}

// AddConfirmed moves the counter only while the result stays within the limit.
func (r *EventRepository) AddConfirmed(ctx context.Context, tx transaction.Tx, id string, delta int64) error {
	query := `
		UPDATE events
		SET confirmed_requests = confirmed_requests + $2
		WHERE id = $1
		  AND confirmed_requests + $2 >= 0
		  AND (participant_limit = 0 OR confirmed_requests + $2 <= participant_limit)
	`
	return r.execOne(ctx, tx, "add confirmed", event.ErrParticipantLimitReached, query, id, delta)
}

func (r *EventRepository) UpdateRating(ctx context.Context, tx transaction.Tx, id string, rating *float64) error {
	return r.execOne(ctx, tx, "update event rating", event.ErrEventNotFound,
		`UPDATE events SET rating = $2 WHERE id = $1`, id, rating)
}

func (r *EventRepository) UpdateViews(ctx context.Context, id string, views int64) error {
	return r.execOne(ctx, nil, "update event views", event.ErrEventNotFound,
		`UPDATE events SET views = $2 WHERE id = $1`, id, views)
}

// execOne runs an UPDATE and maps "no row affected" to noRows.
func (r *EventRepository) execOne(ctx context.Context, tx transaction.Tx, op string, noRows error, query string, args ...any) error {
	result, err := conn(r.db, tx).ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if n == 0 {
		return noRows
	}
	return nil
}

var _ event.Repository = (*EventRepository)(nil)
