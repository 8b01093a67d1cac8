// Package guard holds the authorization and scheduling predicates shared by
// the application services. Every function works on already-loaded entities
// and performs no I/O.
package guard

import (
	"time"

	"github.com/sanosuguru/go-event-listing/internal/domain/event"
	"github.com/sanosuguru/go-event-listing/internal/domain/participation"
	"github.com/sanosuguru/go-event-listing/internal/domain/rating"
)

// LeadTimes are the minimum gaps between a reference instant and the event date
type LeadTimes struct {
	// Create applies to unpublished events, measured from now
	Create time.Duration
	// Published applies once publishedOn is set, measured from publishedOn
	Published time.Duration
}

// DefaultLeadTimes are the platform scheduling rules
var DefaultLeadTimes = LeadTimes{Create: 2 * time.Hour, Published: time.Hour}

// IsInitiator reports whether userID owns the event
func IsInitiator(e *event.Event, userID string) bool {
	return e.InitiatorID == userID
}

// IsRequester reports whether userID submitted the request
func IsRequester(r *participation.Request, userID string) bool {
	return r.RequesterID == userID
}

// IsRater reports whether userID left the rating
func IsRater(r *rating.Rating, userID string) bool {
	return r.UserID == userID
}

// RequireInitiator hides events of other users behind NotFound.
func RequireInitiator(e *event.Event, userID string) error {
	if !IsInitiator(e, userID) {
		return event.ErrEventNotFound
	}
	return nil
}

// RequireRequester hides requests of other users behind NotFound.
func RequireRequester(r *participation.Request, userID string) error {
	if !IsRequester(r, userID) {
		return participation.ErrRequestNotFound
	}
	return nil
}

// RequireRater hides ratings of other users behind NotFound.
func RequireRater(r *rating.Rating, userID string) error {
	if !IsRater(r, userID) {
		return rating.ErrRatingNotFound
	}
	return nil
}

// CanEditAsInitiator checks that the owner path may still change the event.
func CanEditAsInitiator(e *event.Event) error {
	if !e.IsEditableByInitiator() {
		return event.ErrIllegalStateForEdit
	}
	return nil
}

// CanSubmitRequest checks the admission preconditions that do not depend on
// other requests.
func CanSubmitRequest(e *event.Event, requesterID string) error {
	if IsInitiator(e, requesterID) {
		return participation.ErrSelfParticipation
	}
	if !e.IsPublished() {
		return event.ErrEventNotOpen
	}
	if e.HasReachedLimit() {
		return participation.ErrCapacityExceeded
	}
	return nil
}

// CanRate checks that userID may rate the event.
func CanRate(e *event.Event, userID string) error {
	if IsInitiator(e, userID) {
		return rating.ErrSelfRating
	}
	if e.State != event.StateCompleted {
		return rating.ErrEventNotCompleted
	}
	return nil
}

// CheckEventDate enforces the lead time for an event date. Once the event
// has been published the gap is measured from publishedOn, otherwise from now.
func CheckEventDate(e *event.Event, eventDate time.Time, now time.Time, lead LeadTimes) error {
	earliest := now.Add(lead.Create)
	if e.PublishedOn != nil {
		earliest = e.PublishedOn.Add(lead.Published)
	}
	if eventDate.Before(earliest) {
		return event.ErrSchedulingConstraint
	}
	return nil
}
