package memory

import (
	"context"
	"slices"

	"github.com/google/uuid"

	"github.com/sanosuguru/go-event-listing/internal/domain/rating"
	"github.com/sanosuguru/go-event-listing/internal/domain/transaction"
)

type RatingRepository struct {
	s *Store
}

func NewRatingRepository(s *Store) *RatingRepository {
	return &RatingRepository{s: s}
}

func (r *RatingRepository) Create(_ context.Context, tx transaction.Tx, rt *rating.Rating) error {
	return r.s.write(tx, func(d *dataset) error {
		for _, cur := range d.ratings {
			if cur.EventID == rt.EventID && cur.UserID == rt.UserID {
				return rating.ErrDuplicateRating
			}
		}
		rt.ID = uuid.NewString()
		d.ratings[rt.ID] = *rt
		return nil
	})
}

func (r *RatingRepository) GetByID(_ context.Context, id string) (*rating.Rating, error) {
	var out *rating.Rating
	err := r.s.read(nil, func(d *dataset) error {
		rt, ok := d.ratings[id]
		if !ok {
			return rating.ErrRatingNotFound
		}
		out = &rt
		return nil
	})
	return out, err
}

func (r *RatingRepository) ExistsByEventAndUser(_ context.Context, tx transaction.Tx, eventID, userID string) (bool, error) {
	found := r.filter(tx, func(rt *rating.Rating) bool { return rt.EventID == eventID && rt.UserID == userID })
	return len(found) > 0, nil
}

func (r *RatingRepository) Delete(_ context.Context, tx transaction.Tx, id string) error {
	return r.s.write(tx, func(d *dataset) error {
		if _, ok := d.ratings[id]; !ok {
			return rating.ErrRatingNotFound
		}
		delete(d.ratings, id)
		return nil
	})
}

func (r *RatingRepository) AverageByEvent(_ context.Context, tx transaction.Tx, eventID string) (*float64, error) {
	var scores []float64
	for _, rt := range r.filter(tx, func(rt *rating.Rating) bool { return rt.EventID == eventID }) {
		scores = append(scores, rt.Score)
	}
	return rating.Average(scores), nil
}

func (r *RatingRepository) AverageByInitiator(_ context.Context, tx transaction.Tx, initiatorID string) (*float64, error) {
	var scores []float64
	_ = r.s.read(tx, func(d *dataset) error {
		for _, rt := range d.ratings {
			if e, ok := d.events[rt.EventID]; ok && e.InitiatorID == initiatorID {
				scores = append(scores, rt.Score)
			}
		}
		return nil
	})
	return rating.Average(scores), nil
}

func (r *RatingRepository) ListByUser(_ context.Context, userID string, from, size int) ([]*rating.Rating, error) {
	out := r.filter(nil, func(rt *rating.Rating) bool { return rt.UserID == userID })
	slices.SortFunc(out, func(a, b *rating.Rating) int { return b.Created.Compare(a.Created) })
	return page(out, from, size), nil
}

func (r *RatingRepository) ListByEvent(_ context.Context, eventID string) ([]*rating.Rating, error) {
	return r.filter(nil, func(rt *rating.Rating) bool { return rt.EventID == eventID }), nil
}

func (r *RatingRepository) filter(tx transaction.Tx, match func(*rating.Rating) bool) []*rating.Rating {
	out := []*rating.Rating{}
	_ = r.s.read(tx, func(d *dataset) error {
		for _, rt := range d.ratings {
			if match(&rt) {
				out = append(out, &rt)
			}
		}
		return nil
	})
	return out
}
