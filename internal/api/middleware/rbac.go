package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// RequireRole gates an endpoint on exact membership of the named role. Roles
// do not inherit: a super-administrator without the admin role fails an admin
// gate just like anyone else.
func RequireRole(role string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			roles, _ := c.Get("roles").([]string)
			for _, r := range roles {
				if r == role {
					return next(c)
				}
			}
			return c.JSON(http.StatusForbidden, map[string]string{"error": "forbidden"})
		}
	}
}
