package handler

import "github.com/labstack/echo/v4"

// Handlers groups everything Register mounts
type Handlers struct {
	Events    *EventHandler
	Public    *PublicEventHandler
	Requests  *RequestHandler
	Ratings   *RatingHandler
	Directory *DirectoryHandler
	Health    *HealthHandler
}

// Register mounts the public, private and admin routes. adminAuth guards
// /admin and may be nil.
func Register(e *echo.Echo, h Handlers, adminAuth echo.MiddlewareFunc) {
	e.GET("/health", h.Health.Check)

	e.GET("/events", h.Public.List)
	e.GET("/events/:id", h.Public.Get)
	e.GET("/categories/:catId", h.Directory.GetCategory)
	e.GET("/ratings/:ratingId", h.Ratings.Get)
	e.GET("/ratings/events/:eventId", h.Ratings.ListForEvent)

	users := e.Group("/users/:userId")
	users.GET("/events", h.Events.ListOwn)
	users.POST("/events", h.Events.Create)
	users.GET("/events/:eventId", h.Events.GetOwn)
	users.PATCH("/events/:eventId", h.Events.UpdateOwn)
	users.GET("/events/:eventId/requests", h.Requests.ListForEvent)
	users.PATCH("/events/:eventId/requests", h.Requests.UpdateStatus)
	users.POST("/events/:eventId/ratings", h.Ratings.Rate)
	users.GET("/requests", h.Requests.ListOwn)
	users.POST("/requests", h.Requests.Submit)
	users.PATCH("/requests/:requestId/cancel", h.Requests.Cancel)
	users.GET("/ratings", h.Ratings.ListOwn)
	users.DELETE("/ratings/:ratingId", h.Ratings.Delete)

	var mw []echo.MiddlewareFunc
	if adminAuth != nil {
		mw = append(mw, adminAuth)
	}
	admin := e.Group("/admin", mw...)
	admin.GET("/events", h.Events.Search)
	admin.PATCH("/events/:eventId", h.Events.UpdateAdmin)
	admin.POST("/users", h.Directory.CreateUser)
	admin.POST("/categories", h.Directory.CreateCategory)
}
