// Package home provides the console page and its live update stream.
package home

import (
	"log/slog"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/sessions"

	"github.com/leapstack-labs/vconsole/internal/connection"
	"github.com/leapstack-labs/vconsole/internal/ui/notifier"
)

// SetupRoutes configures routes for the home feature.
func SetupRoutes(
	router chi.Router,
	conn *connection.Connection,
	sessionStore sessions.Store,
	notify *notifier.Notifier,
	logger *slog.Logger,
	isDev bool,
) error {
	handlers := NewHandlers(conn, sessionStore, notify, logger, isDev)

	router.Get("/", handlers.HomePage)
	router.Get("/updates", handlers.Updates)
	router.Get("/healthz", handlers.Health)

	return nil
}
