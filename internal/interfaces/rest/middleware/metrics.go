package middleware

import (
	"time"

	"github.com/labstack/echo/v4"
	"github.com/pot-code/coursecert/internal/infrastructure/metrics"
)

// Metrics observe request latency by route template
func Metrics(recorder *metrics.Recorder) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)
			recorder.ObserveHTTP(c.Request().Method, c.Path(), c.Response().Status, time.Since(start).Seconds())
			return err
		}
	}
}
