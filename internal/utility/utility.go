package utility

import (
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Echo context keys set by the request logger middleware.
const (
	ContextKeyRequestID = "request_id"
	ContextKeyLogger    = "logger"
)

// GetLoggerFromContext returns the request-scoped logger, or the global one
// when the middleware did not run.
func GetLoggerFromContext(c echo.Context) *zerolog.Logger {
	if logger, ok := c.Get(ContextKeyLogger).(*zerolog.Logger); ok && logger != nil {
		return logger
	}
	return &log.Logger
}
