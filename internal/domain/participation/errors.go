package participation

import "errors"

var (
	ErrRequestNotFound   = errors.New("participation request not found")
	ErrSelfParticipation = errors.New("initiator cannot request participation in own event")
	ErrDuplicateRequest  = errors.New("participation request already exists")
	ErrCapacityExceeded  = errors.New("participant limit reached")
	ErrNoPendingRequests = errors.New("no pending participation requests")
	ErrInvalidTarget     = errors.New("target status must be CONFIRMED or REJECTED")
)
