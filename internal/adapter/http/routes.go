package http

import (
	"github.com/labstack/echo/v4"
)

// router is the subset of *echo.Echo and *echo.Group used to attach routes.
type router interface {
	GET(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) *echo.Route
	POST(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) *echo.Route
}

// RegisterRoutes registers all airfare matrix API routes.
// The versioned group is the primary surface; the root-level aliases serve the bundled UI.
func RegisterRoutes(e *echo.Echo, h *SearchHandler) {
	RegisterRoutesWithMiddleware(e, h)
}

// RegisterRoutesWithMiddleware registers routes with custom per-route middleware.
// This allows for endpoint-specific middleware configuration.
func RegisterRoutesWithMiddleware(e *echo.Echo, h *SearchHandler, middleware ...echo.MiddlewareFunc) {
	// Health check endpoint (no version prefix, no middleware)
	e.GET("/health", h.Health)

	// API v1 group
	register(e.Group("/api/v1"), h, middleware...)

	// Root aliases used by the static UI
	register(e, h, middleware...)
}

func register(r router, h *SearchHandler, m ...echo.MiddlewareFunc) {
	r.POST("/search", h.Search, m...)
	r.GET("/status", h.Status, m...)
	r.GET("/history", h.History, m...)
	r.GET("/history/:id", h.HistoryDetail, m...)
	r.GET("/history/:id/export", h.ExportHistory, m...)
}

// RegisterStatic serves the UI from dir at "/".
func RegisterStatic(e *echo.Echo, dir string) {
	if dir == "" {
		return
	}
	e.Static("/", dir)
}
