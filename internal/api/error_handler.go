package api

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/sanosuguru/go-event-listing/internal/application"
	"github.com/sanosuguru/go-event-listing/internal/domain/category"
	"github.com/sanosuguru/go-event-listing/internal/domain/event"
	"github.com/sanosuguru/go-event-listing/internal/domain/participation"
	"github.com/sanosuguru/go-event-listing/internal/domain/rating"
	"github.com/sanosuguru/go-event-listing/internal/domain/transaction"
	"github.com/sanosuguru/go-event-listing/internal/domain/user"
	"github.com/sanosuguru/go-event-listing/internal/pkg/logger"
)

// TimeLayout is the date format used on the wire
const TimeLayout = "2006-01-02 15:04:05"

const (
	reasonNotFound    = "The required object was not found."
	reasonBadRequest  = "Incorrectly made request."
	reasonConditions  = "For the requested operation the conditions are not met."
	reasonEditing     = "Restriction of editing in the event."
	reasonParticipate = "Restriction of participation in the event."
	reasonIntegrity   = "Integrity constraint has been violated."
	reasonInternal    = "Unexpected server error."
)

// ErrorResponse is the body of every error reply
type ErrorResponse struct {
	Status    string `json:"status"`
	Code      string `json:"code"`
	Reason    string `json:"reason"`
	Message   string `json:"message"`
	Timestamp string `json:"timestamp"`
}

// Classification is how a domain failure is presented to callers
type Classification struct {
	HTTPStatus int
	Code       string
	Reason     string
}

type rule struct {
	err error
	Classification
}

func notFound(err error) rule {
	return rule{err, Classification{http.StatusNotFound, "NotFound", reasonNotFound}}
}

func badRequest(err error) rule {
	return rule{err, Classification{http.StatusBadRequest, "ValidationFailed", reasonBadRequest}}
}

func conflict(err error, code, reason string) rule {
	return rule{err, Classification{http.StatusConflict, code, reason}}
}

// rules is checked in order with errors.Is; the first match wins.
var rules = []rule{
	notFound(event.ErrEventNotFound),
	notFound(participation.ErrRequestNotFound),
	notFound(rating.ErrRatingNotFound),
	notFound(user.ErrUserNotFound),
	notFound(category.ErrCategoryNotFound),

	badRequest(event.ErrTitleRequired),
	badRequest(event.ErrAnnotationRequired),
	badRequest(event.ErrDescriptionRequired),
	badRequest(event.ErrCategoryRequired),
	badRequest(event.ErrInvalidParticipantLimit),
	badRequest(event.ErrUnknownAction),
	badRequest(event.ErrInvalidDateRange),
	badRequest(event.ErrInvalidFilter),
	badRequest(rating.ErrInvalidScore),
	badRequest(rating.ErrCommentTooLong),
	badRequest(rating.ErrInvalidSortType),
	badRequest(participation.ErrInvalidTarget),
	badRequest(application.ErrNameRequired),
	badRequest(application.ErrEmailRequired),

	conflict(event.ErrInvalidTransition, "InvalidTransition", reasonEditing),
	conflict(event.ErrIllegalStateForEdit, "IllegalStateForEdit", reasonEditing),
	conflict(event.ErrSchedulingConstraint, "SchedulingConstraintViolation", reasonConditions),
	conflict(event.ErrEventNotFinished, "EventNotFinished", reasonConditions),
	conflict(event.ErrEventNotOpen, "EventNotOpen", reasonParticipate),
	conflict(event.ErrParticipantLimitReached, "CapacityExceeded", reasonParticipate),
	conflict(event.ErrLimitBelowConfirmed, "Conflict", reasonIntegrity),
	conflict(participation.ErrCapacityExceeded, "CapacityExceeded", reasonParticipate),
	conflict(participation.ErrSelfParticipation, "SelfParticipationDenied", reasonParticipate),
	conflict(participation.ErrDuplicateRequest, "DuplicateRequest", reasonParticipate),
	conflict(participation.ErrNoPendingRequests, "NoPendingRequests", reasonParticipate),
	conflict(rating.ErrSelfRating, "SelfRatingDenied", reasonConditions),
	conflict(rating.ErrEventNotCompleted, "EventNotCompleted", reasonConditions),
	conflict(rating.ErrDuplicateRating, "DuplicateRating", reasonConditions),
	conflict(transaction.ErrConflict, "Conflict", reasonIntegrity),
}

var internalError = Classification{http.StatusInternalServerError, "Internal", reasonInternal}

// Classify maps err to its presentation. Unknown errors are internal.
func Classify(err error) Classification {
	for _, r := range rules {
		if errors.Is(err, r.err) {
			return r.Classification
		}
	}
	var he *echo.HTTPError
	if errors.As(err, &he) {
		c := Classification{HTTPStatus: he.Code, Code: strings.ReplaceAll(http.StatusText(he.Code), " ", ""), Reason: reasonBadRequest}
		switch {
		case he.Code == http.StatusNotFound:
			c.Reason = reasonNotFound
		case he.Code >= 500:
			c.Reason = reasonInternal
		case he.Code == http.StatusUnauthorized || he.Code == http.StatusForbidden:
			c.Reason = http.StatusText(he.Code)
		}
		return c
	}
	return internalError
}

// CustomHTTPErrorHandler writes every error as an ErrorResponse
func CustomHTTPErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	cl := Classify(err)
	message := err.Error()
	var he *echo.HTTPError
	if errors.As(err, &he) {
		if m, ok := he.Message.(string); ok {
			message = m
		} else {
			message = http.StatusText(he.Code)
		}
	}

	if cl.HTTPStatus >= 500 {
		logger.FromContext(c.Request().Context()).Error("server error",
			zap.Int("status", cl.HTTPStatus),
			zap.String("path", c.Request().URL.Path),
			zap.Error(err),
		)
		// storage errors stay in the log
		message = http.StatusText(cl.HTTPStatus)
	}

	resp := ErrorResponse{
		Status:    strings.ToUpper(strings.ReplaceAll(http.StatusText(cl.HTTPStatus), " ", "_")),
		Code:      cl.Code,
		Reason:    cl.Reason,
		Message:   message,
		Timestamp: time.Now().Format(TimeLayout),
	}
	if err := c.JSON(cl.HTTPStatus, resp); err != nil {
		logger.Error("failed to write error response", zap.Error(err))
	}
}
