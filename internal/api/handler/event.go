package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/sanosuguru/go-event-listing/internal/application"
	"github.com/sanosuguru/go-event-listing/internal/domain/event"
)

// EventHandler serves the initiator and admin event routes
type EventHandler struct {
	eventService EventServiceInterface
}

func NewEventHandler(eventService EventServiceInterface) *EventHandler {
	return &EventHandler{eventService: eventService}
}

type NewEventRequest struct {
	Title             string      `json:"title" validate:"required,min=3,max=120"`
	Annotation        string      `json:"annotation" validate:"required,min=20,max=2000"`
	Description       string      `json:"description" validate:"required,min=20,max=7000"`
	Category          string      `json:"category" validate:"required"`
	Location          LocationDTO `json:"location"`
	Paid              bool        `json:"paid"`
	EventDate         Timestamp   `json:"eventDate"`
	ParticipantLimit  int64       `json:"participantLimit" validate:"gte=0"`
	RequestModeration *bool       `json:"requestModeration"`
}

// UpdateEventRequest is shared by the initiator and admin edit routes
type UpdateEventRequest struct {
	Title             *string      `json:"title" validate:"omitempty,min=3,max=120"`
	Annotation        *string      `json:"annotation" validate:"omitempty,min=20,max=2000"`
	Description       *string      `json:"description" validate:"omitempty,min=20,max=7000"`
	Category          *string      `json:"category" validate:"omitempty,min=1"`
	Location          *LocationDTO `json:"location"`
	Paid              *bool        `json:"paid"`
	EventDate         *Timestamp   `json:"eventDate"`
	ParticipantLimit  *int64       `json:"participantLimit" validate:"omitempty,gte=0"`
	RequestModeration *bool        `json:"requestModeration"`
	StateAction       *string      `json:"stateAction"`
}

func (r *UpdateEventRequest) toPatch() event.Patch {
	p := event.Patch{
		Title:             r.Title,
		Annotation:        r.Annotation,
		Description:       r.Description,
		CategoryID:        r.Category,
		Paid:              r.Paid,
		ParticipantLimit:  r.ParticipantLimit,
		RequestModeration: r.RequestModeration,
	}
	if r.Location != nil {
		p.Location = &event.Location{Lat: r.Location.Lat, Lon: r.Location.Lon}
	}
	if r.EventDate != nil {
		t := r.EventDate.Time
		p.EventDate = &t
	}
	if r.StateAction != nil {
		a := event.Action(*r.StateAction)
		p.StateAction = &a
	}
	return p
}

// Create godoc
// @Summary Create an event
// @Description Creates a PENDING event owned by the user
// @Tags events
// @Accept json
// @Produce json
// @Param userId path string true "User ID"
// @Param request body NewEventRequest true "Event"
// @Success 201 {object} EventResponse
// @Failure 400 {object} api.ErrorResponse
// @Failure 409 {object} api.ErrorResponse
// @Router /users/{userId}/events [post]
func (h *EventHandler) Create(c echo.Context) error {
	var req NewEventRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	if req.EventDate.IsZero() {
		return echo.NewHTTPError(http.StatusBadRequest, "eventDate is required")
	}

	e, err := h.eventService.Create(c.Request().Context(), c.Param("userId"), application.CreateEventInput{
		Title:             req.Title,
		Annotation:        req.Annotation,
		Description:       req.Description,
		CategoryID:        req.Category,
		Location:          event.Location{Lat: req.Location.Lat, Lon: req.Location.Lon},
		EventDate:         req.EventDate.Time,
		Paid:              req.Paid,
		ParticipantLimit:  req.ParticipantLimit,
		RequestModeration: req.RequestModeration,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, toEventResponse(e))
}

// ListOwn godoc
// @Summary List the user's events
// @Tags events
// @Produce json
// @Param userId path string true "User ID"
// @Param from query int false "Offset" default(0)
// @Param size query int false "Page size" default(10)
// @Success 200 {array} EventResponse
// @Router /users/{userId}/events [get]
func (h *EventHandler) ListOwn(c echo.Context) error {
	page, err := parsePage(c)
	if err != nil {
		return err
	}
	events, err := h.eventService.ListByInitiator(c.Request().Context(), c.Param("userId"), page)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toEventResponses(events))
}

// GetOwn godoc
// @Summary Get one of the user's events
// @Tags events
// @Produce json
// @Success 200 {object} EventResponse
// @Failure 404 {object} api.ErrorResponse
// @Router /users/{userId}/events/{eventId} [get]
func (h *EventHandler) GetOwn(c echo.Context) error {
	e, err := h.eventService.GetForInitiator(c.Request().Context(), c.Param("userId"), c.Param("eventId"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toEventResponse(e))
}

// UpdateOwn godoc
// @Summary Edit, cancel or resubmit one of the user's events
// @Tags events
// @Accept json
// @Produce json
// @Param request body UpdateEventRequest true "Changes"
// @Success 200 {object} EventResponse
// @Failure 409 {object} api.ErrorResponse
// @Router /users/{userId}/events/{eventId} [patch]
func (h *EventHandler) UpdateOwn(c echo.Context) error {
	var req UpdateEventRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	e, err := h.eventService.UpdateByInitiator(c.Request().Context(), c.Param("userId"), c.Param("eventId"), req.toPatch())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toEventResponse(e))
}

// UpdateAdmin godoc
// @Summary Edit, publish or reject an event
// @Tags admin
// @Accept json
// @Produce json
// @Param request body UpdateEventRequest true "Changes"
// @Success 200 {object} EventResponse
// @Failure 409 {object} api.ErrorResponse
// @Router /admin/events/{eventId} [patch]
func (h *EventHandler) UpdateAdmin(c echo.Context) error {
	var req UpdateEventRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	e, err := h.eventService.UpdateByAdmin(c.Request().Context(), c.Param("eventId"), req.toPatch())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toEventResponse(e))
}

// Search godoc
// @Summary Search events in any state
// @Tags admin
// @Produce json
// @Param users query []string false "Initiator IDs"
// @Param states query []string false "States"
// @Param categories query []string false "Category IDs"
// @Param rangeStart query string false "yyyy-MM-dd HH:mm:ss"
// @Param rangeEnd query string false "yyyy-MM-dd HH:mm:ss"
// @Success 200 {array} EventResponse
// @Router /admin/events [get]
func (h *EventHandler) Search(c echo.Context) error {
	page, err := parsePage(c)
	if err != nil {
		return err
	}
	start, err := parseTimeParam(c, "rangeStart")
	if err != nil {
		return err
	}
	end, err := parseTimeParam(c, "rangeEnd")
	if err != nil {
		return err
	}

	var states []event.State
	for _, s := range parseListParam(c, "states") {
		states = append(states, event.State(s))
	}

	events, err := h.eventService.SearchAdmin(c.Request().Context(), event.AdminFilter{
		Users:      parseListParam(c, "users"),
		States:     states,
		Categories: parseListParam(c, "categories"),
		RangeStart: start,
		RangeEnd:   end,
		Page:       page,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toEventResponses(events))
}
