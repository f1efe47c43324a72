package middleware

import (
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
)

// Skipper decides whether a request bypasses the request logger.
type Skipper func(c echo.Context) bool

// SkipHealth skips the load-balancer health check, which would otherwise dominate the log.
func SkipHealth(c echo.Context) bool {
	return c.Path() == "/health"
}

// RequestLogger returns middleware that logs HTTP requests.
// It logs on request completion with method, path, status, duration, and client info.
func RequestLogger(log zerolog.Logger) echo.MiddlewareFunc {
	return RequestLoggerWithSkipper(log, nil)
}

// RequestLoggerWithSkipper is RequestLogger with a skip predicate.
func RequestLoggerWithSkipper(log zerolog.Logger, skip Skipper) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if skip != nil && skip(c) {
				return next(c)
			}

			start := time.Now()

			err := next(c)
			if err != nil {
				// Let Echo's error handler process the error
				c.Error(err)
			}

			duration := time.Since(start)
			req := c.Request()
			res := c.Response()

			var event *zerolog.Event
			status := res.Status
			switch {
			case status >= 500:
				event = log.Error()
			case status >= 400:
				event = log.Warn()
			default:
				event = log.Info()
			}

			event.
				Str("request_id", GetRequestID(c)).
				Str("method", req.Method).
				Str("path", req.URL.Path).
				Str("query", req.URL.RawQuery).
				Int("status", status).
				Int64("duration_ms", duration.Milliseconds()).
				Int64("bytes_out", res.Size).
				Bool("stream", isEventStream(res)).
				Str("client_ip", c.RealIP()).
				Str("user_agent", req.UserAgent()).
				Msg("HTTP request")

			// Return nil since we already handled the error via c.Error()
			return nil
		}
	}
}

func isEventStream(res *echo.Response) bool {
	return strings.HasPrefix(res.Header().Get(echo.HeaderContentType), "text/event-stream")
}
