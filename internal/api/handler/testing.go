package handler

import (
	"github.com/labstack/echo/v4"

	"github.com/sanosuguru/go-event-listing/internal/api"
)

// NewTestEcho creates an echo instance with the production validator and
// error handler
func NewTestEcho() *echo.Echo {
	e := echo.New()
	e.Validator = api.NewValidator()
	e.HTTPErrorHandler = api.CustomHTTPErrorHandler
	return e
}
