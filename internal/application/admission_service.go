package application

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/sanosuguru/go-event-listing/internal/domain/event"
	"github.com/sanosuguru/go-event-listing/internal/domain/guard"
	"github.com/sanosuguru/go-event-listing/internal/domain/participation"
	"github.com/sanosuguru/go-event-listing/internal/domain/transaction"
	"github.com/sanosuguru/go-event-listing/internal/domain/user"
	"github.com/sanosuguru/go-event-listing/internal/pkg/logger"
	"github.com/sanosuguru/go-event-listing/internal/pkg/tracing"
)

// AdmissionService decides which participation requests are confirmed.
// Every change to an event's confirmed counter runs under the event row
// lock, and optionally a distributed lock on the event id.
type AdmissionService struct {
	txm      transaction.Manager
	events   event.Repository
	requests participation.Repository
	users    user.Repository
	s        settings
}

func NewAdmissionService(txm transaction.Manager, er event.Repository, pr participation.Repository, ur user.Repository, opts ...Option) *AdmissionService {
	return &AdmissionService{txm: txm, events: er, requests: pr, users: ur, s: newSettings(opts)}
}

type BulkUpdateInput struct {
	// Names the requests the owner reviewed; every pending request is processed
	RequestIDs []string
	Status     participation.Status
}

type BulkUpdateResult struct {
	Confirmed []*participation.Request
	Rejected  []*participation.Request
}

func eventLockKey(eventID string) string {
	return "admission:event:" + eventID
}

// Submit files a participation request. The request is confirmed at once
// when the event is unlimited or unmoderated.
func (s *AdmissionService) Submit(ctx context.Context, requesterID, eventID string) (_ *participation.Request, err error) {
	ctx, span := tracing.Start(ctx, "AdmissionService.Submit")
	defer func() {
		tracing.End(span, err)
		if err != nil {
			s.s.metrics.ObserveParticipation("denied")
		}
	}()

	if _, err := s.users.GetByID(ctx, requesterID); err != nil {
		return nil, err
	}

	var req *participation.Request
	err = s.s.withLock(ctx, eventLockKey(eventID), func(ctx context.Context) error {
		return runInTx(ctx, s.txm, func(tx transaction.Tx) error {
			e, err := s.events.GetByIDForUpdate(ctx, tx, eventID)
			if err != nil {
				return err
			}
			if err := guard.CanSubmitRequest(e, requesterID); err != nil {
				return err
			}
			exists, err := s.requests.ExistsActive(ctx, tx, eventID, requesterID)
			if err != nil {
				return err
			}
			if exists {
				return participation.ErrDuplicateRequest
			}

			status := participation.StatusConfirmed
			if e.RequiresModeration() {
				status = participation.StatusPending
			}
			req = participation.NewRequest(eventID, requesterID, status, s.s.now())
			if err := s.requests.Create(ctx, tx, req); err != nil {
				return err
			}
			if status == participation.StatusConfirmed {
				if err := s.events.AddConfirmed(ctx, tx, eventID, 1); err != nil {
					return capacityErr(err)
				}
			}
			return nil
		})
	})
	if err != nil {
		return nil, err
	}

	s.s.metrics.ObserveParticipation(string(req.Status))
	logger.FromContext(ctx).Info("participation request submitted",
		zap.String("request_id", req.ID),
		zap.String("event_id", eventID),
		zap.String("user_id", requesterID),
		zap.String("status", string(req.Status)),
	)
	return req, nil
}

// Cancel withdraws the requester's own request. A confirmed place is
// released back to the event.
func (s *AdmissionService) Cancel(ctx context.Context, requesterID, requestID string) (_ *participation.Request, err error) {
	ctx, span := tracing.Start(ctx, "AdmissionService.Cancel")
	defer func() { tracing.End(span, err) }()

	if _, err := s.users.GetByID(ctx, requesterID); err != nil {
		return nil, err
	}
	req, err := s.requests.GetByID(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if err := guard.RequireRequester(req, requesterID); err != nil {
		return nil, err
	}

	err = s.s.withLock(ctx, eventLockKey(req.EventID), func(ctx context.Context) error {
		return runInTx(ctx, s.txm, func(tx transaction.Tx) error {
			// event row first, same order as Submit and BulkUpdateStatus
			if _, err := s.events.GetByIDForUpdate(ctx, tx, req.EventID); err != nil {
				return err
			}
			locked, err := s.requests.GetByIDForUpdate(ctx, tx, requestID)
			if err != nil {
				return err
			}
			released := locked.Cancel()
			if err := s.requests.UpdateStatus(ctx, tx, []string{locked.ID}, locked.Status); err != nil {
				return err
			}
			if released {
				if err := s.events.AddConfirmed(ctx, tx, locked.EventID, -1); err != nil {
					return err
				}
			}
			req = locked
			return nil
		})
	})
	if err != nil {
		return nil, err
	}

	s.s.metrics.ObserveParticipation(string(participation.StatusCanceled))
	logger.FromContext(ctx).Info("participation request canceled",
		zap.String("request_id", req.ID),
		zap.String("event_id", req.EventID),
		zap.String("user_id", requesterID),
	)
	return req, nil
}

// BulkUpdateStatus lets the event owner confirm or reject pending requests.
// Every pending request of the event is handled in the order it was filed;
// input.RequestIDs is only logged. Once the limit is reached every remaining
// pending request is rejected.
func (s *AdmissionService) BulkUpdateStatus(ctx context.Context, ownerID, eventID string, input BulkUpdateInput) (_ *BulkUpdateResult, err error) {
	ctx, span := tracing.Start(ctx, "AdmissionService.BulkUpdateStatus")
	defer func() { tracing.End(span, err) }()

	if !participation.ValidTarget(input.Status) {
		return nil, participation.ErrInvalidTarget
	}
	if _, err := s.users.GetByID(ctx, ownerID); err != nil {
		return nil, err
	}

	var result *BulkUpdateResult
	err = s.s.withLock(ctx, eventLockKey(eventID), func(ctx context.Context) error {
		return runInTx(ctx, s.txm, func(tx transaction.Tx) error {
			e, err := s.events.GetByIDForUpdate(ctx, tx, eventID)
			if err != nil {
				return err
			}
			if err := guard.RequireInitiator(e, ownerID); err != nil {
				return err
			}

			if !e.RequiresModeration() {
				all, err := s.requests.ListByEvent(ctx, tx, eventID)
				if err != nil {
					return err
				}
				result = &BulkUpdateResult{Confirmed: all, Rejected: []*participation.Request{}}
				return nil
			}

			pending, err := s.requests.ListByEventAndStatus(ctx, tx, eventID, participation.StatusPending)
			if err != nil {
				return err
			}
			if len(pending) == 0 {
				return participation.ErrNoPendingRequests
			}
			if input.Status == participation.StatusConfirmed && e.HasReachedLimit() {
				return participation.ErrCapacityExceeded
			}

			toTarget, toReject, delta := admit(e, pending, input.Status)

			if len(toTarget) > 0 {
				if err := s.requests.UpdateStatus(ctx, tx, toTarget, input.Status); err != nil {
					return err
				}
			}
			if len(toReject) > 0 {
				if err := s.requests.UpdateStatus(ctx, tx, toReject, participation.StatusRejected); err != nil {
					return err
				}
			}
			if delta > 0 {
				if err := s.events.AddConfirmed(ctx, tx, eventID, delta); err != nil {
					return capacityErr(err)
				}
			}

			result, err = s.resultFor(ctx, tx, eventID)
			if err != nil {
				return err
			}
			logger.FromContext(ctx).Info("participation requests updated",
				zap.String("event_id", eventID),
				zap.String("status", string(input.Status)),
				zap.Strings("requested", input.RequestIDs),
				zap.Int("updated", len(toTarget)),
				zap.Int("rejected", len(toReject)),
			)
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// ListByRequester returns the requester's own requests.
func (s *AdmissionService) ListByRequester(ctx context.Context, requesterID string) ([]*participation.Request, error) {
	if _, err := s.users.GetByID(ctx, requesterID); err != nil {
		return nil, err
	}
	return s.requests.ListByRequester(ctx, requesterID)
}

// ListForEvent returns all requests of an event to its owner.
func (s *AdmissionService) ListForEvent(ctx context.Context, ownerID, eventID string) ([]*participation.Request, error) {
	if _, err := s.users.GetByID(ctx, ownerID); err != nil {
		return nil, err
	}
	e, err := s.events.GetByID(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if err := guard.RequireInitiator(e, ownerID); err != nil {
		return nil, err
	}
	return s.requests.ListByEvent(ctx, nil, eventID)
}

func (s *AdmissionService) resultFor(ctx context.Context, tx transaction.Tx, eventID string) (*BulkUpdateResult, error) {
	all, err := s.requests.ListByEvent(ctx, tx, eventID)
	if err != nil {
		return nil, err
	}
	result := &BulkUpdateResult{
		Confirmed: []*participation.Request{},
		Rejected:  []*participation.Request{},
	}
	for _, r := range all {
		switch r.Status {
		case participation.StatusConfirmed:
			result.Confirmed = append(result.Confirmed, r)
		case participation.StatusRejected:
			result.Rejected = append(result.Rejected, r)
		}
	}
	return result, nil
}

// admit walks pending in order, granting target while the event has room.
// It returns the ids moved to target, the ids forced to REJECTED and the
// number of newly confirmed places.
func admit(e *event.Event, pending []*participation.Request, target participation.Status) (toTarget, toReject []string, delta int64) {
	confirmed := e.ConfirmedRequests
	for _, r := range pending {
		if confirmed < e.ParticipantLimit {
			r.Status = target
			toTarget = append(toTarget, r.ID)
			if target == participation.StatusConfirmed {
				confirmed++
			}
			continue
		}
		r.Status = participation.StatusRejected
		toReject = append(toReject, r.ID)
	}
	return toTarget, toReject, confirmed - e.ConfirmedRequests
}
