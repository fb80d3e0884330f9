package middleware

import (
    "strconv"
    "time"

    "github.com/labstack/echo/v4"

    "github.com/larsholm/event-ticketing/internal/metrics"
)

// Prometheus records request counts and latency for every route.
func Prometheus(m *metrics.Metrics) echo.MiddlewareFunc {
    return func(next echo.HandlerFunc) echo.HandlerFunc {
        return func(c echo.Context) error {
            start := time.Now()

            err := next(c)

            duration := time.Since(start).Seconds()
            status := c.Response().Status
            if err != nil {
                if he, ok := err.(*echo.HTTPError); ok {
                    status = he.Code
                }
            }

            path := c.Path()
            if path == "" {
                path = c.Request().URL.Path
            }

            method := c.Request().Method
            m.HTTPRequestsTotal.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
            m.HTTPRequestDuration.WithLabelValues(method, path).Observe(duration)

            return err
        }
    }
}
