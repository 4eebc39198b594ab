package middleware

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"
)

// Limiter abstracts the fixed-window counter (Redis in production).
type Limiter interface {
	Allow(ctx context.Context, key string) (bool, error)
}

// RateLimit rejects requests exceeding the limiter's window with 429. Clients
// are keyed by IP within the given scope, so the auth endpoints can carry a
// much stricter budget than the rest of the API. A nil limiter disables
// limiting entirely.
func RateLimit(l Limiter, scope string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if l == nil {
				return next(c)
			}

			ok, err := l.Allow(c.Request().Context(), scope+":"+c.RealIP())
			if err != nil || ok {
				return next(c)
			}
			return c.JSON(http.StatusTooManyRequests, map[string]string{
				"error": "too many requests, try again later",
			})
		}
	}
}
