package middleware

import (
	"time"

	"NewsPull/pkg/logger"

	"github.com/labstack/echo/v4"
)

// RequestLogging logs one line per request with method, path, status, and
// latency.
func RequestLogging(log *logger.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)
			log.Info("http request",
				logger.String("method", c.Request().Method),
				logger.String("path", c.Request().RequestURI),
				logger.String("remote", c.Request().RemoteAddr),
				logger.Int("status", c.Response().Status),
				logger.Duration("latency", time.Since(start)))
			return err
		}
	}
}
