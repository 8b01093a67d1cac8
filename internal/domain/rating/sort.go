package rating

import (
	"cmp"
	"slices"
)

// SortType selects the order of an event's rating list
type SortType string

const (
	SortNewAndUseful SortType = "NEW_AND_USEFUL"
	SortHighRating   SortType = "HIGH_RATING"
	SortLowRating    SortType = "LOW_RATING"
)

// ParseSortType maps an empty value to the default order.
func ParseSortType(s string) (SortType, error) {
	switch SortType(s) {
	case "":
		return SortNewAndUseful, nil
	case SortNewAndUseful, SortHighRating, SortLowRating:
		return SortType(s), nil
	}
	return "", ErrInvalidSortType
}

// Sort orders ratings in place. Commented ratings always come first. Within
// each group NEW_AND_USEFUL puts the newest first and the score modes order
// by score, newest first on ties.
func Sort(ratings []*Rating, sortType SortType) {
	slices.SortStableFunc(ratings, func(a, b *Rating) int {
		if c := compareCommented(a, b); c != 0 {
			return c
		}
		switch sortType {
		case SortHighRating:
			if c := cmp.Compare(b.Score, a.Score); c != 0 {
				return c
			}
		case SortLowRating:
			if c := cmp.Compare(a.Score, b.Score); c != 0 {
				return c
			}
		}
		if c := b.Created.Compare(a.Created); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})
}

func compareCommented(a, b *Rating) int {
	switch {
	case a.HasComment() == b.HasComment():
		return 0
	case a.HasComment():
		return -1
	default:
		return 1
	}
}
