package handler

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/sanosuguru/go-event-listing/internal/api"
	"github.com/sanosuguru/go-event-listing/internal/domain/event"
	"github.com/sanosuguru/go-event-listing/internal/domain/participation"
	"github.com/sanosuguru/go-event-listing/internal/domain/rating"
)

// Timestamp is a time in the wire layout "2006-01-02 15:04:05"
type Timestamp struct {
	time.Time
}

func (t *Timestamp) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), `"`)
	if s == "" || s == "null" {
		return nil
	}
	parsed, err := time.ParseInLocation(api.TimeLayout, s, time.Local)
	if err != nil {
		return err
	}
	t.Time = parsed
	return nil
}

func (t Timestamp) MarshalJSON() ([]byte, error) {
	return []byte(`"` + t.Format(api.TimeLayout) + `"`), nil
}

func formatTime(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format(api.TimeLayout)
	return &s
}

type LocationDTO struct {
	Lat float64 `json:"lat" validate:"gte=-90,lte=90"`
	Lon float64 `json:"lon" validate:"gte=-180,lte=180"`
}

type EventResponse struct {
	ID                string      `json:"id"`
	Title             string      `json:"title"`
	Annotation        string      `json:"annotation"`
	Description       string      `json:"description"`
	Category          string      `json:"category"`
	Initiator         string      `json:"initiator"`
	Location          LocationDTO `json:"location"`
	Paid              bool        `json:"paid"`
	EventDate         string      `json:"eventDate"`
	CreatedOn         string      `json:"createdOn"`
	PublishedOn       *string     `json:"publishedOn,omitempty"`
	ParticipantLimit  int64       `json:"participantLimit"`
	RequestModeration bool        `json:"requestModeration"`
	ConfirmedRequests int64       `json:"confirmedRequests"`
	State             string      `json:"state"`
	Views             int64       `json:"views"`
	Rating            *float64    `json:"rating"`
}

func toEventResponse(e *event.Event) *EventResponse {
	return &EventResponse{
		ID:                e.ID,
		Title:             e.Title,
		Annotation:        e.Annotation,
		Description:       e.Description,
		Category:          e.CategoryID,
		Initiator:         e.InitiatorID,
		Location:          LocationDTO{Lat: e.Location.Lat, Lon: e.Location.Lon},
		Paid:              e.Paid,
		EventDate:         e.EventDate.Format(api.TimeLayout),
		CreatedOn:         e.CreatedOn.Format(api.TimeLayout),
		PublishedOn:       formatTime(e.PublishedOn),
		ParticipantLimit:  e.ParticipantLimit,
		RequestModeration: e.RequestModeration,
		ConfirmedRequests: e.ConfirmedRequests,
		State:             string(e.State),
		Views:             e.Views,
		Rating:            e.Rating,
	}
}

func toEventResponses(events []*event.Event) []*EventResponse {
	out := make([]*EventResponse, len(events))
	for i, e := range events {
		out[i] = toEventResponse(e)
	}
	return out
}

type RequestResponse struct {
	ID        string `json:"id"`
	Event     string `json:"event"`
	Requester string `json:"requester"`
	Status    string `json:"status"`
	Created   string `json:"created"`
}

func toRequestResponse(r *participation.Request) *RequestResponse {
	return &RequestResponse{
		ID:        r.ID,
		Event:     r.EventID,
		Requester: r.RequesterID,
		Status:    string(r.Status),
		Created:   r.Created.Format(api.TimeLayout),
	}
}

func toRequestResponses(rs []*participation.Request) []*RequestResponse {
	out := make([]*RequestResponse, len(rs))
	for i, r := range rs {
		out[i] = toRequestResponse(r)
	}
	return out
}

type RatingResponse struct {
	ID      string  `json:"id"`
	Event   string  `json:"event"`
	User    string  `json:"user"`
	Score   float64 `json:"score"`
	Comment string  `json:"comment,omitempty"`
	Created string  `json:"created"`
}

func toRatingResponse(r *rating.Rating) *RatingResponse {
	return &RatingResponse{
		ID:      r.ID,
		Event:   r.EventID,
		User:    r.UserID,
		Score:   r.Score,
		Comment: r.Comment,
		Created: r.Created.Format(api.TimeLayout),
	}
}

func toRatingResponses(rs []*rating.Rating) []*RatingResponse {
	out := make([]*RatingResponse, len(rs))
	for i, r := range rs {
		out[i] = toRatingResponse(r)
	}
	return out
}

// parsePage reads from/size with defaults 0/10
func parsePage(c echo.Context) (event.Page, error) {
	p := event.DefaultPage
	if v := c.QueryParam("from"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return p, echo.NewHTTPError(http.StatusBadRequest, "from must be a non-negative integer")
		}
		p.From = n
	}
	if v := c.QueryParam("size"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			return p, echo.NewHTTPError(http.StatusBadRequest, "size must be a positive integer")
		}
		p.Size = n
	}
	return p, nil
}

func parseTimeParam(c echo.Context, name string) (*time.Time, error) {
	v := c.QueryParam(name)
	if v == "" {
		return nil, nil
	}
	t, err := time.ParseInLocation(api.TimeLayout, v, time.Local)
	if err != nil {
		return nil, echo.NewHTTPError(http.StatusBadRequest, name+" must use the layout "+api.TimeLayout)
	}
	return &t, nil
}

func parseBoolParam(c echo.Context, name string) (*bool, error) {
	v := c.QueryParam(name)
	if v == "" {
		return nil, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return nil, echo.NewHTTPError(http.StatusBadRequest, name+" must be a boolean")
	}
	return &b, nil
}

// parseListParam accepts both repeated parameters and comma-separated values.
func parseListParam(c echo.Context, name string) []string {
	var out []string
	for _, v := range c.QueryParams()[name] {
		for _, part := range strings.Split(v, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}

// bindAndValidate binds the body into req and runs the validator
func bindAndValidate(c echo.Context, req any) error {
	if err := c.Bind(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "malformed request body")
	}
	return c.Validate(req)
}
