package rating

import (
	"math"
	"strings"
	"time"
	"unicode/utf8"
)

const (
	MinScore         = 1.0
	MaxScore         = 5.0
	MaxCommentLength = 2000
)

// Rating is a score left by a participant of a completed event
type Rating struct {
	ID      string
	EventID string
	UserID  string
	Score   float64
	Comment string
	Created time.Time
}

// NewRating creates a rating
func NewRating(eventID, userID string, score float64, comment string, now time.Time) *Rating {
	return &Rating{
		EventID: eventID,
		UserID:  userID,
		Score:   score,
		Comment: strings.TrimSpace(comment),
		Created: now,
	}
}

// Validate checks the score range and comment length
func (r *Rating) Validate() error {
	if math.IsNaN(r.Score) || r.Score < MinScore || r.Score > MaxScore {
		return ErrInvalidScore
	}
	if utf8.RuneCountInString(r.Comment) > MaxCommentLength {
		return ErrCommentTooLong
	}
	return nil
}

// HasComment reports whether the rating carries a non-blank comment
func (r *Rating) HasComment() bool {
	return r.Comment != ""
}

// RoundScore rounds an average to 2 decimal places.
func RoundScore(v float64) float64 {
	return math.Round(v*100) / 100
}

// Average returns the rounded mean of scores, or nil when there are none.
func Average(scores []float64) *float64 {
	if len(scores) == 0 {
		return nil
	}
	var sum float64
	for _, s := range scores {
		sum += s
	}
	avg := RoundScore(sum / float64(len(scores)))
	return &avg
}
