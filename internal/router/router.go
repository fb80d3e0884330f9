package router // package router defines how HTTP routes are registered for the API

import (
    "github.com/labstack/echo/v4"
    "github.com/prometheus/client_golang/prometheus/promhttp"

    "github.com/larsholm/event-ticketing/internal/handler"
    "github.com/larsholm/event-ticketing/internal/middleware"
)

// RegisterRoutes registers routes that do not require authentication:
// the health check and the Prometheus scrape endpoint.
func RegisterRoutes(e *echo.Echo) {
    e.GET("/healthz", handler.Health)
    e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
}

// RegisterAuth registers authentication routes.  Unauthenticated
// operations live under /v1/auth; /v1/me requires a valid access token.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, jwtSecret string) {
    g := e.Group("/v1/auth")
    g.POST("/register", a.Register)
    g.POST("/login", a.Login)
    g.POST("/refresh", a.Refresh)
    // Logout accepts either a refresh token in the body or a bearer token;
    // it is registered without JWT middleware so an expired access token
    // still allows ending the session by refresh token.
    g.POST("/logout", a.Logout)

    auth := e.Group("/v1", middleware.JWTAuth(jwtSecret))
    auth.GET("/me", a.Me)
    auth.POST("/logout", a.Logout)
}

// RegisterPublic registers unauthenticated discovery endpoints: event
// listings, event detail, ticket availability and seat state.  cache may
// be nil when the response cache is disabled.
func RegisterPublic(e *echo.Echo, ev *handler.EventHandler, av *handler.AvailabilityHandler, cache echo.MiddlewareFunc) {
    mws := []echo.MiddlewareFunc{}
    if cache != nil {
        mws = append(mws, cache)
    }
    e.GET("/v1/events", ev.List, mws...)
    e.GET("/v1/events/:id", ev.Get, mws...)
    e.GET("/v1/events/:id/tickets", av.GetTickets, mws...)
    e.GET("/v1/events/:id/seats", av.GetSeats, mws...)
}
