package server

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"SustainAI_Tips/internal/tips"
	"SustainAI_Tips/internal/utility"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"
)

// MsgTooManyRequests is returned when a client exceeds the configured rate.
const MsgTooManyRequests = "Too many requests"

// HealthResponse is served by GET /health.
type HealthResponse struct {
	Status string `json:"status"`
	Model  string `json:"model"`
}

func (s *Server) RegisterRoutes() http.Handler {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = httpErrorHandler

	// c.RealIP() only honours X-Forwarded-For from trusted proxies.
	if s.cfg.TrustProxy {
		e.IPExtractor = echo.ExtractIPFromXFFHeader()
	} else {
		e.IPExtractor = echo.ExtractIPDirect()
	}

	e.Use(LoggerMiddleware)
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:  true,
		LogURI:     true,
		LogStatus:  true,
		LogLatency: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			utility.GetLoggerFromContext(c).Info().
				Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Str("ip", c.RealIP()).
				Msg("request")
			return nil
		},
	}))
	e.Use(middleware.Recover())
	e.Use(middleware.BodyLimit(s.cfg.BodyLimit))

	// CORS applies to /api/* only; preflights never reach a route handler.
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		Skipper: func(c echo.Context) bool {
			return !strings.HasPrefix(c.Request().URL.Path, "/api/")
		},
		AllowOrigins: s.cfg.AllowedOrigins,
		AllowMethods: []string{http.MethodPost, http.MethodOptions},
		AllowHeaders: []string{echo.HeaderContentType},
	}))

	e.GET("/health", s.healthHandler)

	api := e.Group("/api")
	if s.cfg.RateLimit > 0 {
		api.Use(s.rateLimiter())
	}
	api.POST("/tips", s.tips.GenerateTipsHandler)

	return e
}

func (s *Server) healthHandler(c echo.Context) error {
	return c.JSON(http.StatusOK, HealthResponse{Status: "ok", Model: s.cfg.Model})
}

// rateLimiter throttles each client IP to cfg.RateLimit requests per second.
func (s *Server) rateLimiter() echo.MiddlewareFunc {
	store := middleware.NewRateLimiterMemoryStoreWithConfig(middleware.RateLimiterMemoryStoreConfig{
		Rate:      rate.Limit(s.cfg.RateLimit),
		ExpiresIn: 3 * time.Minute,
	})

	return middleware.RateLimiterWithConfig(middleware.RateLimiterConfig{
		Store: store,
		IdentifierExtractor: func(c echo.Context) (string, error) {
			return c.RealIP(), nil
		},
		DenyHandler: func(c echo.Context, identifier string, err error) error {
			utility.GetLoggerFromContext(c).Warn().Str("ip", identifier).Msg("Rate limit exceeded")
			return c.JSON(http.StatusTooManyRequests, tips.ErrorResponse{Error: MsgTooManyRequests})
		},
	})
}

// httpErrorHandler renders framework errors (404, 405, 413, panics) in the
// same {"error": ...} shape the handlers use.
func httpErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	code := http.StatusInternalServerError
	msg := http.StatusText(code)

	var he *echo.HTTPError
	if errors.As(err, &he) {
		code = he.Code
		msg = http.StatusText(code)
		if m, ok := he.Message.(string); ok && m != "" {
			msg = m
		}
	}

	logger := utility.GetLoggerFromContext(c)
	if code >= http.StatusInternalServerError {
		logger.Error().Err(err).Int("status", code).Msg("Unhandled error")
	} else {
		logger.Debug().Err(err).Int("status", code).Msg("Request rejected")
	}

	if c.Request().Method == http.MethodHead {
		err = c.NoContent(code)
	} else {
		err = c.JSON(code, tips.ErrorResponse{Error: msg})
	}
	if err != nil {
		logger.Error().Err(err).Msg("Failed to write error response")
	}
}

// LoggerMiddleware attaches a request id and a logger carrying it to every request.
func LoggerMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		requestID := c.Request().Header.Get(echo.HeaderXRequestID)
		if requestID == "" {
			requestID = uuid.New().String()
		}
		c.Set(utility.ContextKeyRequestID, requestID)
		c.Response().Header().Set(echo.HeaderXRequestID, requestID)

		logger := log.With().Str("request_id", requestID).Logger()
		c.Set(utility.ContextKeyLogger, &logger)

		return next(c)
	}
}
