package event

import "errors"

// Event domain errors
var (
	ErrEventNotFound           = errors.New("event not found")
	ErrTitleRequired           = errors.New("title must be between 3 and 120 characters")
	ErrAnnotationRequired      = errors.New("annotation must be between 20 and 2000 characters")
	ErrDescriptionRequired     = errors.New("description must be between 20 and 7000 characters")
	ErrCategoryRequired        = errors.New("category is required")
	ErrInvalidParticipantLimit = errors.New("participant limit must not be negative")
	ErrEventNotOpen            = errors.New("event is not open for participation requests")
	ErrInvalidTransition       = errors.New("state transition is not allowed")
	ErrUnknownAction           = errors.New("unknown state action")
	ErrIllegalStateForEdit     = errors.New("only pending or canceled events can be changed")
	ErrSchedulingConstraint    = errors.New("event date violates the scheduling lead time")
	ErrEventNotFinished        = errors.New("event date has not passed yet")
	ErrInvalidDateRange        = errors.New("range end cannot be before range start")
	ErrInvalidFilter           = errors.New("invalid event filter")
	ErrParticipantLimitReached = errors.New("participant limit reached")
	ErrLimitBelowConfirmed     = errors.New("participant limit is below the confirmed requests")
)
