package event

import "time"

// Patch carries a partial event update. Nil fields are left untouched.
type Patch struct {
	Title             *string
	Annotation        *string
	Description       *string
	CategoryID        *string
	Location          *Location
	Paid              *bool
	EventDate         *time.Time
	ParticipantLimit  *int64
	RequestModeration *bool
	StateAction       *Action
}

// ApplyFields copies the plain attribute changes onto e and returns the names
// of the fields it touched. EventDate and StateAction are left to the caller,
// which must run the scheduling and transition checks first.
func (e *Event) ApplyFields(p Patch) []string {
	var changed []string
	if p.Annotation != nil {
		e.Annotation = *p.Annotation
		changed = append(changed, "annotation")
	}
	if p.CategoryID != nil {
		e.CategoryID = *p.CategoryID
		changed = append(changed, "category")
	}
	if p.Description != nil {
		e.Description = *p.Description
		changed = append(changed, "description")
	}
	if p.Location != nil {
		e.Location = *p.Location
		changed = append(changed, "location")
	}
	if p.Paid != nil {
		e.Paid = *p.Paid
		changed = append(changed, "paid")
	}
	if p.ParticipantLimit != nil {
		e.ParticipantLimit = *p.ParticipantLimit
		changed = append(changed, "participantLimit")
	}
	if p.RequestModeration != nil {
		e.RequestModeration = *p.RequestModeration
		changed = append(changed, "requestModeration")
	}
	if p.Title != nil {
		e.Title = *p.Title
		changed = append(changed, "title")
	}
	return changed
}
