package event

import "time"

// SortType orders the public listing
type SortType string

const (
	SortEventDate SortType = "EVENT_DATE"
	SortViews     SortType = "VIEWS"
)

// Page is an offset window over a listing
type Page struct {
	From int
	Size int
}

// DefaultPage is used when the caller supplies no window
var DefaultPage = Page{From: 0, Size: 10}

// Normalize replaces out-of-range values with the defaults.
func (p Page) Normalize() Page {
	if p.From < 0 {
		p.From = DefaultPage.From
	}
	if p.Size <= 0 {
		p.Size = DefaultPage.Size
	}
	return p
}

// PublicFilter selects PUBLISHED events for anonymous readers
type PublicFilter struct {
	Text          string
	Categories    []string
	Paid          *bool
	RangeStart    *time.Time
	RangeEnd      *time.Time
	OnlyAvailable bool
	Sort          SortType
	Page          Page
}

// Validate checks the date range.
func (f PublicFilter) Validate() error {
	return validateRange(f.RangeStart, f.RangeEnd)
}

// AdminFilter selects events in any state
type AdminFilter struct {
	Users      []string
	States     []State
	Categories []string
	RangeStart *time.Time
	RangeEnd   *time.Time
	Page       Page
}

// Validate checks the date range and the requested states.
func (f AdminFilter) Validate() error {
	for _, s := range f.States {
		if !s.Valid() {
			return ErrInvalidFilter
		}
	}
	return validateRange(f.RangeStart, f.RangeEnd)
}

func validateRange(start, end *time.Time) error {
	if start != nil && end != nil && end.Before(*start) {
		return ErrInvalidDateRange
	}
	return nil
}
