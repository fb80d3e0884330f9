package router // router defines how HTTP routes are registered for the API

import (
    "github.com/labstack/echo/v4"

    "github.com/larsholm/event-ticketing/internal/handler"
    "github.com/larsholm/event-ticketing/internal/middleware"
)

// RegisterOrganizer registers ORGANIZER-scoped endpoints under
// /v1/organizer.  All routes require a valid JWT and the ORGANIZER role;
// per-event ownership is enforced in the repository layer.
func RegisterOrganizer(e *echo.Echo, ev *handler.EventHandler, jwtSecret string) {
    g := e.Group(
        "/v1/organizer",
        middleware.JWTAuth(jwtSecret),
        middleware.RequireRole("ORGANIZER"),
    )

    g.POST("/events", ev.Create)
    g.GET("/events", ev.ListMine)
    g.PUT("/events/:id", ev.Update)
    g.POST("/events/:id/publish", ev.Publish)
    g.DELETE("/events/:id", ev.Delete)
}
