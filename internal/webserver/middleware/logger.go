package middleware

import (
	"time"

	"github.com/gofrs/uuid"
	"github.com/labstack/echo/v4"
	"github.com/mdouchement/logger"
	"github.com/whatever-dev-ws/p5-tool-uploader/internal/webserver/weberror"
)

// Logger logs one line per request, prefixed with a short request id.
func Logger(log logger.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) (err error) {
			l := log.WithPrefix("[" + uuid.Must(uuid.NewV4()).String()[:8] + "]")

			start := time.Now()
			err = next(c)

			status := c.Response().Status
			if err != nil {
				if he, ok := err.(*echo.HTTPError); ok {
					status = he.Code
				} else {
					status = weberror.StatusCode(err)
				}
			}

			l.Infof("%s %s [%d] (%s)", c.Request().Method, c.Request().RequestURI, status, time.Since(start))
			return err
		}
	}
}
