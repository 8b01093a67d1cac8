package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/sanosuguru/go-event-listing/internal/application"
	"github.com/sanosuguru/go-event-listing/internal/domain/event"
)

// PublicEventHandler serves anonymous reads of published events
type PublicEventHandler struct {
	viewService ViewServiceInterface
}

func NewPublicEventHandler(s ViewServiceInterface) *PublicEventHandler {
	return &PublicEventHandler{viewService: s}
}

func visitOf(c echo.Context) application.Visit {
	return application.Visit{Path: c.Request().URL.Path, IP: c.RealIP()}
}

// List godoc
// @Summary Search published events
// @Tags public
// @Produce json
// @Param text query string false "Text in annotation or description"
// @Param categories query []string false "Category IDs"
// @Param paid query bool false "Paid only or free only"
// @Param rangeStart query string false "yyyy-MM-dd HH:mm:ss"
// @Param rangeEnd query string false "yyyy-MM-dd HH:mm:ss"
// @Param onlyAvailable query bool false "Hide events without free places" default(false)
// @Param sort query string false "EVENT_DATE or VIEWS"
// @Success 200 {array} EventResponse
// @Router /events [get]
func (h *PublicEventHandler) List(c echo.Context) error {
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
	paid, err := parseBoolParam(c, "paid")
	if err != nil {
		return err
	}
	onlyAvailable, err := parseBoolParam(c, "onlyAvailable")
	if err != nil {
		return err
	}

	filter := event.PublicFilter{
		Text:       c.QueryParam("text"),
		Categories: parseListParam(c, "categories"),
		Paid:       paid,
		RangeStart: start,
		RangeEnd:   end,
		Page:       page,
	}
	if onlyAvailable != nil {
		filter.OnlyAvailable = *onlyAvailable
	}
	switch s := event.SortType(c.QueryParam("sort")); s {
	case "":
	case event.SortEventDate, event.SortViews:
		filter.Sort = s
	default:
		return echo.NewHTTPError(http.StatusBadRequest, "sort must be EVENT_DATE or VIEWS")
	}

	events, err := h.viewService.ListPublished(c.Request().Context(), filter, visitOf(c))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toEventResponses(events))
}

// Get godoc
// @Summary Get a published event
// @Tags public
// @Produce json
// @Param id path string true "Event ID"
// @Success 200 {object} EventResponse
// @Failure 404 {object} api.ErrorResponse
// @Router /events/{id} [get]
func (h *PublicEventHandler) Get(c echo.Context) error {
	e, err := h.viewService.GetPublished(c.Request().Context(), c.Param("id"), visitOf(c))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toEventResponse(e))
}
