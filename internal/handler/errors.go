package handler

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/nileshswami544-code/freelancerpayment/internal/apperr"
)

// ErrorHandler renders every error as {"error": message}.  Storage faults
// are logged with their cause and shown to the caller as a generic message.
func ErrorHandler(log *zap.SugaredLogger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		var (
			status int
			msg    string
			he     *echo.HTTPError
		)
		if errors.As(err, &he) {
			status = he.Code
			if m, ok := he.Message.(string); ok {
				msg = m
			} else {
				msg = fmt.Sprint(he.Message)
			}
			if status >= http.StatusInternalServerError {
				log.Errorw("request failed", "method", c.Request().Method, "path", c.Path(), "error", err)
				msg = http.StatusText(status)
			}
		} else {
			status = apperr.HTTPStatus(err)
			msg = apperr.PublicMessage(err)
			if status >= http.StatusInternalServerError {
				log.Errorw("request failed", "method", c.Request().Method, "path", c.Path(), "error", err)
			}
		}

		if c.Request().Method == http.MethodHead {
			err = c.NoContent(status)
		} else {
			err = c.JSON(status, echo.Map{"error": msg})
		}
		if err != nil {
			log.Warnw("write error response failed", "error", err)
		}
	}
}
