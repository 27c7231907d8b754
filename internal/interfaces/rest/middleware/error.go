package middleware

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pot-code/coursecert/internal/infrastructure/logging"
	"go.uber.org/zap"
)

// ErrorHandlingOption options for error handling
type ErrorHandlingOption struct {
	Handler func(c echo.Context, err error)
}

// ErrorHandling turn errors and panics returned from handlers into responses.
// echo.HTTPError (routing misses, bind failures) keeps its own status,
// everything else goes to Handler. The middleware itself never returns an error.
func ErrorHandling(options ...*ErrorHandlingOption) echo.MiddlewareFunc {
	handler := func(c echo.Context, err error) {
		c.JSON(http.StatusInternalServerError, httpErrorBody(http.StatusInternalServerError, ""))
	}
	if len(options) > 0 && options[0].Handler != nil {
		handler = options[0].Handler
	}
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			defer func() {
				if v := recover(); v != nil {
					err, ok := v.(error)
					if !ok {
						err = fmt.Errorf("%v", v)
					}
					logging.ExtractLoggerFromContext(c.Request().Context()).
						Error("Recovered from panic", zap.Error(err), zap.Stack("error.stack_trace"))
					respond(c, handler, err)
				}
			}()
			if err := next(c); err != nil {
				respond(c, handler, err)
			}
			return nil
		}
	}
}

func respond(c echo.Context, handler func(echo.Context, error), err error) {
	// handler already wrote a response, nothing sensible left to send
	if c.Response().Committed {
		return
	}
	if he, ok := err.(*echo.HTTPError); ok {
		c.JSON(he.Code, httpErrorBody(he.Code, fmt.Sprint(he.Message)))
		return
	}
	handler(c, err)
}

func httpErrorBody(code int, detail string) map[string]interface{} {
	body := map[string]interface{}{"code": code, "title": http.StatusText(code)}
	if detail != "" {
		body["detail"] = detail
	}
	return body
}
