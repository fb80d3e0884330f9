package router

import (
    "github.com/labstack/echo/v4"

    "github.com/larsholm/event-ticketing/internal/handler"
    "github.com/larsholm/event-ticketing/internal/middleware"
)

// RegisterAttendee registers attendee-scoped endpoints under /v1.  All
// routes require a valid JWT and the ATTENDEE role.  Attendees check out
// events, view their orders and cancel bookings.  limiter guards the
// mutating endpoints against bursts; pass nil to skip it.
func RegisterAttendee(e *echo.Echo, b *handler.BookingHandler, o *handler.OrderHandler, jwtSecret string, limiter echo.MiddlewareFunc) {
    g := e.Group(
        "/v1",
        middleware.JWTAuth(jwtSecret),
        middleware.RequireRole("ATTENDEE"),
    )

    // Event discovery and availability are on the public router; the
    // attendee surface starts at checkout.
    if limiter != nil {
        g.POST("/events/:id/checkout", b.Checkout, limiter)
        g.DELETE("/orders/:id", b.Cancel, limiter)
    } else {
        g.POST("/events/:id/checkout", b.Checkout)
        g.DELETE("/orders/:id", b.Cancel)
    }

    g.GET("/my-orders", o.ListMine)
    g.GET("/orders/:id", o.Get)
}
