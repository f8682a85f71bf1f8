package webserver

import (
	"io"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/mdouchement/logger"
	"github.com/pkg/errors"
	"github.com/whatever-dev-ws/p5-tool-uploader/internal/webserver/service"
)

type upload struct {
	logger  logger.Logger
	tools   *service.ToolUploader
	outputs *service.OutputUploader
}

func (h *upload) Tool(c echo.Context) error {
	c.Set("handler_method", "upload.Tool")

	in := service.ToolInput{
		Name:        strings.TrimSpace(c.FormValue("toolName")),
		Description: strings.TrimSpace(c.FormValue("toolDescription")),
		Nickname:    strings.TrimSpace(c.FormValue("nickname")),
		Model:       strings.TrimSpace(c.FormValue("modelUsed")),
	}

	// A missing part is a validation issue for the service to report, not an
	// internal error.
	if file, err := c.FormFile("toolFile"); err == nil {
		in.Filename = file.Filename
		if in.Payload, err = formBytes(file); err != nil {
			return err
		}
	}

	result, err := h.tools.Upload(c.Request().Context(), in)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, result)
}

func (h *upload) Output(c echo.Context) error {
	c.Set("handler_method", "upload.Output")

	in := service.OutputInput{
		ToolID: strings.TrimSpace(c.FormValue("toolId")),
	}

	if file, err := c.FormFile("outputFile"); err == nil {
		in.Filename = file.Filename
		in.ContentType = file.Header.Get("Content-Type")
		if in.Payload, err = formBytes(file); err != nil {
			return err
		}
	}

	result, err := h.outputs.Upload(c.Request().Context(), in)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, result)
}

func formBytes(file *multipart.FileHeader) ([]byte, error) {
	src, err := file.Open()
	if err != nil {
		return nil, errors.Wrap(err, "could not open uploaded file")
	}
	defer src.Close()

	payload, err := io.ReadAll(src)
	return payload, errors.Wrap(err, "could not read uploaded file")
}
