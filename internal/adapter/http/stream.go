package http

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
)

// Status handles GET /api/v1/status
//
// Each progress message is sent as one server-sent event. Idle streams get a
// comment frame every keepalive interval. Messages published before the client
// connected are not replayed.
//
// @Summary Stream search progress
// @Description Server-sent events carrying progress messages for running searches
// @Tags search
// @Produce text/event-stream
// @Success 200 {string} string "data: Progress: 50%"
// @Router /status [get]
func (h *SearchHandler) Status(c echo.Context) error {
	clearWriteDeadline(c)

	// Subscribed before the headers go out, so a client that saw them misses nothing.
	sub := h.progress.Subscribe()
	defer h.progress.Unsubscribe(sub)

	res := c.Response()
	res.Header().Set(echo.HeaderContentType, "text/event-stream")
	res.Header().Set(echo.HeaderCacheControl, "no-cache")
	res.Header().Set(echo.HeaderConnection, "keep-alive")
	res.Header().Set("X-Accel-Buffering", "no")
	res.WriteHeader(http.StatusOK)
	res.Flush()

	log := h.log.With().Str("subscription", sub.ID).Logger()
	log.Debug().Msg("Progress stream opened")
	defer log.Debug().Msg("Progress stream closed")

	ticker := time.NewTicker(h.keepalive)
	defer ticker.Stop()

	ctx := c.Request().Context()
	for {
		select {
		case <-ctx.Done():
			return nil
		case msg, ok := <-sub.Messages:
			if !ok {
				return nil
			}
			if err := writeEvent(res, msg); err != nil {
				log.Debug().Err(err).Msg("Progress stream write failed")
				return nil
			}
		case <-ticker.C:
			if _, err := fmt.Fprint(res, ": keepalive\n\n"); err != nil {
				return nil
			}
			res.Flush()
		}
	}
}

// writeEvent frames msg as a server-sent event and flushes it.
func writeEvent(res *echo.Response, msg string) error {
	var b strings.Builder
	for _, line := range strings.Split(msg, "\n") {
		b.WriteString("data: ")
		b.WriteString(line)
		b.WriteByte('\n')
	}
	b.WriteByte('\n')

	if _, err := res.Write([]byte(b.String())); err != nil {
		return err
	}
	res.Flush()
	return nil
}
