package participation

import "time"

// Status is the admission state of a participation request
type Status string

const (
	StatusPending   Status = "PENDING"
	StatusConfirmed Status = "CONFIRMED"
	StatusRejected  Status = "REJECTED"
	StatusCanceled  Status = "CANCELED"
)

// Request is a user's application to take part in an event
type Request struct {
	ID          string
	EventID     string
	RequesterID string
	Status      Status
	Created     time.Time
}

// NewRequest creates a request with the given initial status
func NewRequest(eventID, requesterID string, status Status, now time.Time) *Request {
	return &Request{
		EventID:     eventID,
		RequesterID: requesterID,
		Status:      status,
		Created:     now,
	}
}

// IsActive reports whether the request still counts against the
// one-request-per-event rule.
func (r *Request) IsActive() bool {
	return r.Status != StatusCanceled
}

// Cancel withdraws the request. It returns true when a confirmed place was
// released.
func (r *Request) Cancel() bool {
	released := r.Status == StatusConfirmed
	r.Status = StatusCanceled
	return released
}

// ValidTarget reports whether s may be requested by the event owner in a
// bulk status update.
func ValidTarget(s Status) bool {
	return s == StatusConfirmed || s == StatusRejected
}
