package event

import (
	"time"
	"unicode/utf8"
)

// Location is the venue coordinates of an event
type Location struct {
	Lat float64
	Lon float64
}

// Event is the aggregate owned by the lifecycle state machine
type Event struct {
	ID                string
	Title             string
	Annotation        string
	Description       string
	CategoryID        string
	InitiatorID       string
	Location          Location
	Paid              bool
	EventDate         time.Time
	CreatedOn         time.Time
	PublishedOn       *time.Time
	ParticipantLimit  int64 // 0 means unlimited
	RequestModeration bool
	ConfirmedRequests int64
	State             State
	Views             int64
	Rating            *float64
	Version           int // optimistic lock
}

// NewEvent creates a PENDING event owned by initiatorID
func NewEvent(initiatorID, categoryID, title, annotation, description string, location Location,
	eventDate time.Time, paid bool, participantLimit int64, requestModeration bool, now time.Time) *Event {
	return &Event{
		Title:             title,
		Annotation:        annotation,
		Description:       description,
		CategoryID:        categoryID,
		InitiatorID:       initiatorID,
		Location:          location,
		Paid:              paid,
		EventDate:         eventDate,
		CreatedOn:         now,
		ParticipantLimit:  participantLimit,
		RequestModeration: requestModeration,
		State:             StatePending,
	}
}

// Validate checks the event attributes
func (e *Event) Validate() error {
	if n := utf8.RuneCountInString(e.Title); n < 3 || n > 120 {
		return ErrTitleRequired
	}
	if n := utf8.RuneCountInString(e.Annotation); n < 20 || n > 2000 {
		return ErrAnnotationRequired
	}
	if n := utf8.RuneCountInString(e.Description); n < 20 || n > 7000 {
		return ErrDescriptionRequired
	}
	if e.CategoryID == "" {
		return ErrCategoryRequired
	}
	if e.ParticipantLimit < 0 {
		return ErrInvalidParticipantLimit
	}
	if e.ParticipantLimit > 0 && e.ParticipantLimit < e.ConfirmedRequests {
		return ErrLimitBelowConfirmed
	}
	return nil
}

// IsPublished reports whether the event accepts participation requests
func (e *Event) IsPublished() bool {
	return e.State == StatePublished
}

// IsEditableByInitiator reports whether the owner path may change fields
func (e *Event) IsEditableByInitiator() bool {
	return e.State == StatePending || e.State == StateCanceled
}

// IsUnlimited reports whether the event has no participant ceiling
func (e *Event) IsUnlimited() bool {
	return e.ParticipantLimit == 0
}

// RequiresModeration reports whether new requests wait for the initiator
func (e *Event) RequiresModeration() bool {
	return !e.IsUnlimited() && e.RequestModeration
}

// HasReachedLimit reports whether no further request can be confirmed
func (e *Event) HasReachedLimit() bool {
	return !e.IsUnlimited() && e.ConfirmedRequests >= e.ParticipantLimit
}

// FreeSlots returns the remaining confirmable places, or -1 when unlimited
func (e *Event) FreeSlots() int64 {
	if e.IsUnlimited() {
		return -1
	}
	if free := e.ParticipantLimit - e.ConfirmedRequests; free > 0 {
		return free
	}
	return 0
}

// ApplyAction moves the event through the transition table. publishedOn is
// stamped exactly once, on the first move into PUBLISHED.
func (e *Event) ApplyAction(action Action, role Role, now time.Time) error {
	next, err := Transition(e.State, action, role)
	if err != nil {
		return err
	}
	if action == ActionComplete && now.Before(e.EventDate) {
		return ErrEventNotFinished
	}
	if next == StatePublished && e.PublishedOn == nil {
		e.PublishedOn = &now
	}
	e.State = next
	return nil
}
