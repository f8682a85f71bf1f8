package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/mdouchement/logger"
	"github.com/whatever-dev-ws/p5-tool-uploader/internal/webserver/weberror"
)

// NewHTTPErrorHandler is a middleware that formats rendered errors. Unknown
// errors are collapsed into a generic 500 payload; the cause is only logged
// so remote-store details never reach the client.
func NewHTTPErrorHandler(log logger.Logger) func(err error, c echo.Context) {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		var payload *weberror.Error

		switch err := err.(type) {
		case *echo.HTTPError:
			payload = &weberror.Error{Code: err.Code, Message: messageFor(err.Code)}
		case *weberror.Error:
			payload = err
		default:
			payload = &weberror.Error{Code: http.StatusInternalServerError, Message: "Internal server error"}
		}

		log.Error(err)

		err2 := c.JSON(payload.Code, echo.Map{
			"success": false,
			"error":   payload,
		})
		if err2 != nil {
			log.Errorf("HTTPErrorHandler: %s", err2)
		}
	}
}

func messageFor(code int) string {
	switch code {
	case http.StatusNotFound:
		return "Not found"
	case http.StatusMethodNotAllowed:
		return "Method not allowed"
	}
	return http.StatusText(code)
}
