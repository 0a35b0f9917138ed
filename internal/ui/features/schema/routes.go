package schema

import (
	"log/slog"

	"github.com/go-chi/chi/v5"

	"github.com/leapstack-labs/vconsole/internal/connection"
	"github.com/leapstack-labs/vconsole/internal/ui/notifier"
)

// SetupRoutes registers the schema feature routes.
func SetupRoutes(
	router chi.Router,
	conn *connection.Connection,
	notify *notifier.Notifier,
	logger *slog.Logger,
) error {
	handlers := NewHandlers(conn, notify, logger)

	router.Post("/api/schema", handlers.CreateSSE)

	return nil
}
