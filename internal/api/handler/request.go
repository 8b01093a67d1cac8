package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/sanosuguru/go-event-listing/internal/application"
	"github.com/sanosuguru/go-event-listing/internal/domain/participation"
)

// RequestHandler serves participation requests
type RequestHandler struct {
	service AdmissionServiceInterface
}

func NewRequestHandler(s AdmissionServiceInterface) *RequestHandler {
	return &RequestHandler{service: s}
}

type BulkUpdateRequest struct {
	RequestIDs []string `json:"requestIds"`
	Status     string   `json:"status" validate:"required,oneof=CONFIRMED REJECTED"`
}

type BulkUpdateResponse struct {
	ConfirmedRequests []*RequestResponse `json:"confirmedRequests"`
	RejectedRequests  []*RequestResponse `json:"rejectedRequests"`
}

// Submit godoc
// @Summary Ask to take part in an event
// @Tags requests
// @Produce json
// @Param userId path string true "User ID"
// @Param eventId query string true "Event ID"
// @Success 201 {object} RequestResponse
// @Failure 409 {object} api.ErrorResponse
// @Router /users/{userId}/requests [post]
func (h *RequestHandler) Submit(c echo.Context) error {
	eventID := c.QueryParam("eventId")
	if eventID == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "eventId is required")
	}
	r, err := h.service.Submit(c.Request().Context(), c.Param("userId"), eventID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, toRequestResponse(r))
}

// ListOwn godoc
// @Summary List the user's participation requests
// @Tags requests
// @Produce json
// @Success 200 {array} RequestResponse
// @Router /users/{userId}/requests [get]
func (h *RequestHandler) ListOwn(c echo.Context) error {
	rs, err := h.service.ListByRequester(c.Request().Context(), c.Param("userId"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toRequestResponses(rs))
}

// Cancel godoc
// @Summary Withdraw a participation request
// @Tags requests
// @Produce json
// @Success 200 {object} RequestResponse
// @Failure 404 {object} api.ErrorResponse
// @Router /users/{userId}/requests/{requestId}/cancel [patch]
func (h *RequestHandler) Cancel(c echo.Context) error {
	r, err := h.service.Cancel(c.Request().Context(), c.Param("userId"), c.Param("requestId"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toRequestResponse(r))
}

// ListForEvent godoc
// @Summary List the requests of one of the user's events
// @Tags requests
// @Produce json
// @Success 200 {array} RequestResponse
// @Router /users/{userId}/events/{eventId}/requests [get]
func (h *RequestHandler) ListForEvent(c echo.Context) error {
	rs, err := h.service.ListForEvent(c.Request().Context(), c.Param("userId"), c.Param("eventId"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toRequestResponses(rs))
}

// UpdateStatus godoc
// @Summary Confirm or reject pending requests of an event
// @Tags requests
// @Accept json
// @Produce json
// @Param request body BulkUpdateRequest true "Target status and request IDs"
// @Success 200 {object} BulkUpdateResponse
// @Failure 409 {object} api.ErrorResponse
// @Router /users/{userId}/events/{eventId}/requests [patch]
func (h *RequestHandler) UpdateStatus(c echo.Context) error {
	var req BulkUpdateRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	res, err := h.service.BulkUpdateStatus(c.Request().Context(), c.Param("userId"), c.Param("eventId"), application.BulkUpdateInput{
		RequestIDs: req.RequestIDs,
		Status:     participation.Status(req.Status),
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, BulkUpdateResponse{
		ConfirmedRequests: toRequestResponses(res.Confirmed),
		RejectedRequests:  toRequestResponses(res.Rejected),
	})
}
