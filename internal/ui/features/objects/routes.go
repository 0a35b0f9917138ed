package objects

import (
	"log/slog"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/sessions"

	"github.com/leapstack-labs/vconsole/internal/connection"
)

// SetupRoutes registers the objects feature routes.
func SetupRoutes(
	router chi.Router,
	conn *connection.Connection,
	sessionStore sessions.Store,
	logger *slog.Logger,
) error {
	handlers := NewHandlers(conn, sessionStore, logger)

	router.Get("/api/objects", handlers.BrowseSSE)
	router.Post("/api/objects", handlers.CreateSSE)

	return nil
}
