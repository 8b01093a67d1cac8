package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/sanosuguru/go-event-listing/internal/application"
	"github.com/sanosuguru/go-event-listing/internal/domain/rating"
)

type RatingHandler struct {
	service RatingServiceInterface
}

func NewRatingHandler(s RatingServiceInterface) *RatingHandler {
	return &RatingHandler{service: s}
}

type RateRequest struct {
	Score   float64 `json:"score" validate:"gte=1,lte=5"`
	Comment string  `json:"comment" validate:"max=2000"`
}

// Rate godoc
// @Summary Rate a completed event
// @Tags ratings
// @Accept json
// @Produce json
// @Param request body RateRequest true "Score 1 to 5 and optional comment"
// @Success 201 {object} RatingResponse
// @Failure 409 {object} api.ErrorResponse
// @Router /users/{userId}/events/{eventId}/ratings [post]
func (h *RatingHandler) Rate(c echo.Context) error {
	var req RateRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	r, err := h.service.Rate(c.Request().Context(), c.Param("userId"), c.Param("eventId"), application.RateInput{
		Score:   req.Score,
		Comment: req.Comment,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, toRatingResponse(r))
}

// Delete godoc
// @Summary Delete one of the user's ratings
// @Tags ratings
// @Success 204
// @Failure 404 {object} api.ErrorResponse
// @Router /users/{userId}/ratings/{ratingId} [delete]
func (h *RatingHandler) Delete(c echo.Context) error {
	if err := h.service.DeleteByID(c.Request().Context(), c.Param("userId"), c.Param("ratingId")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// ListOwn godoc
// @Summary List the user's ratings, newest first
// @Tags ratings
// @Produce json
// @Success 200 {array} RatingResponse
// @Router /users/{userId}/ratings [get]
func (h *RatingHandler) ListOwn(c echo.Context) error {
	page, err := parsePage(c)
	if err != nil {
		return err
	}
	rs, err := h.service.ListByUser(c.Request().Context(), c.Param("userId"), page)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toRatingResponses(rs))
}

// Get godoc
// @Summary Get a rating
// @Tags ratings
// @Produce json
// @Success 200 {object} RatingResponse
// @Failure 404 {object} api.ErrorResponse
// @Router /ratings/{ratingId} [get]
func (h *RatingHandler) Get(c echo.Context) error {
	r, err := h.service.GetByID(c.Request().Context(), c.Param("ratingId"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toRatingResponse(r))
}

// ListForEvent godoc
// @Summary List the ratings of an event
// @Tags ratings
// @Produce json
// @Param sortType query string false "NEW_AND_USEFUL, HIGH_RATING or LOW_RATING" default(NEW_AND_USEFUL)
// @Success 200 {array} RatingResponse
// @Router /ratings/events/{eventId} [get]
func (h *RatingHandler) ListForEvent(c echo.Context) error {
	page, err := parsePage(c)
	if err != nil {
		return err
	}
	sortType, err := rating.ParseSortType(c.QueryParam("sortType"))
	if err != nil {
		return err
	}
	rs, err := h.service.ListByEvent(c.Request().Context(), c.Param("eventId"), sortType, page)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toRatingResponses(rs))
}
