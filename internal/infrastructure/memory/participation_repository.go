package memory

import (
	"context"

	"github.com/google/uuid"

	"github.com/sanosuguru/go-event-listing/internal/domain/participation"
	"github.com/sanosuguru/go-event-listing/internal/domain/transaction"
)

type ParticipationRepository struct {
	s *Store
}

func NewParticipationRepository(s *Store) *ParticipationRepository {
	return &ParticipationRepository{s: s}
}

func (r *ParticipationRepository) Create(_ context.Context, tx transaction.Tx, req *participation.Request) error {
	return r.s.write(tx, func(d *dataset) error {
		for _, id := range d.requestOrder {
			cur := d.requests[id]
			if cur.EventID == req.EventID && cur.RequesterID == req.RequesterID && cur.IsActive() {
				return participation.ErrDuplicateRequest
			}
		}
		req.ID = uuid.NewString()
		d.requests[req.ID] = *req
		d.requestOrder = append(d.requestOrder, req.ID)
		return nil
	})
}

func (r *ParticipationRepository) GetByID(_ context.Context, id string) (*participation.Request, error) {
	return r.get(nil, id)
}

func (r *ParticipationRepository) GetByIDForUpdate(_ context.Context, tx transaction.Tx, id string) (*participation.Request, error) {
	return r.get(tx, id)
}

func (r *ParticipationRepository) get(tx transaction.Tx, id string) (*participation.Request, error) {
	var out *participation.Request
	err := r.s.read(tx, func(d *dataset) error {
		req, ok := d.requests[id]
		if !ok {
			return participation.ErrRequestNotFound
		}
		out = &req
		return nil
	})
	return out, err
}

func (r *ParticipationRepository) ExistsActive(_ context.Context, tx transaction.Tx, eventID, requesterID string) (bool, error) {
	found := r.filter(tx, func(req *participation.Request) bool {
		return req.EventID == eventID && req.RequesterID == requesterID && req.IsActive()
	})
	return len(found) > 0, nil
}

func (r *ParticipationRepository) ListByRequester(_ context.Context, requesterID string) ([]*participation.Request, error) {
	return r.filter(nil, func(req *participation.Request) bool { return req.RequesterID == requesterID }), nil
}

func (r *ParticipationRepository) ListByEvent(_ context.Context, tx transaction.Tx, eventID string) ([]*participation.Request, error) {
	return r.filter(tx, func(req *participation.Request) bool { return req.EventID == eventID }), nil
}

func (r *ParticipationRepository) ListByEventAndStatus(_ context.Context, tx transaction.Tx, eventID string, status participation.Status) ([]*participation.Request, error) {
	return r.filter(tx, func(req *participation.Request) bool {
		return req.EventID == eventID && req.Status == status
	}), nil
}

func (r *ParticipationRepository) UpdateStatus(_ context.Context, tx transaction.Tx, ids []string, status participation.Status) error {
	return r.s.write(tx, func(d *dataset) error {
		for _, id := range ids {
			if _, ok := d.requests[id]; !ok {
				return participation.ErrRequestNotFound
			}
		}
		for _, id := range ids {
			req := d.requests[id]
			req.Status = status
			d.requests[id] = req
		}
		return nil
	})
}

// filter returns matches in persist order
func (r *ParticipationRepository) filter(tx transaction.Tx, match func(*participation.Request) bool) []*participation.Request {
	out := []*participation.Request{}
	_ = r.s.read(tx, func(d *dataset) error {
		for _, id := range d.requestOrder {
			req := d.requests[id]
			if match(&req) {
				out = append(out, &req)
			}
		}
		return nil
	})
	return out
}
