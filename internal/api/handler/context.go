package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// ctxCaller extracts the identity injected by the Auth middleware. An absent
// or zero user_id means the middleware did not run (or the token carried no
// identity): reject with 401 before touching any service.
func ctxCaller(c echo.Context) (int64, error) {
	id, _ := c.Get("user_id").(int64)
	if id == 0 {
		return 0, echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
	}
	return id, nil
}
