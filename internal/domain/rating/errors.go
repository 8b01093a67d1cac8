package rating

import "errors"

var (
	ErrRatingNotFound    = errors.New("rating not found")
	ErrSelfRating        = errors.New("initiator cannot rate own event")
	ErrEventNotCompleted = errors.New("only completed events can be rated")
	ErrDuplicateRating   = errors.New("event already rated by this user")
	ErrInvalidScore      = errors.New("score must be between 1 and 5")
	ErrCommentTooLong    = errors.New("comment must not exceed 2000 characters")
	ErrInvalidSortType   = errors.New("unknown rating sort type")
)
