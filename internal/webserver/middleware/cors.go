package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/whatever-dev-ws/p5-tool-uploader/internal/webserver/weberror"
)

// CORS enforces the single-origin contract of the gallery. Every response
// carries the CORS headers, preflights short-circuit to 204, non-POST methods
// are rejected before routing, and a mismatched or missing Origin is rejected
// before any form parsing happens.
func CORS(origin string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) (err error) {
			h := c.Response().Header()
			h.Set(echo.HeaderAccessControlAllowOrigin, origin)
			h.Set(echo.HeaderAccessControlAllowMethods, "POST, OPTIONS")
			h.Set(echo.HeaderAccessControlAllowHeaders, "Content-Type")

			switch {
			case c.Request().Method == http.MethodOptions:
				return c.NoContent(http.StatusNoContent)
			case c.Request().Method != http.MethodPost:
				return weberror.New(http.StatusMethodNotAllowed, "Method not allowed")
			case c.Request().Header.Get("Origin") != origin:
				return weberror.New(http.StatusForbidden, "Origin not allowed")
			}

			return next(c)
		}
	}
}
