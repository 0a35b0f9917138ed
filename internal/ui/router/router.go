// Package router sets up HTTP routes for the console server.
package router

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/sessions"

	"github.com/leapstack-labs/vconsole/internal/connection"
	homeFeature "github.com/leapstack-labs/vconsole/internal/ui/features/home"
	objectsFeature "github.com/leapstack-labs/vconsole/internal/ui/features/objects"
	schemaFeature "github.com/leapstack-labs/vconsole/internal/ui/features/schema"
	"github.com/leapstack-labs/vconsole/internal/ui/notifier"
	"github.com/leapstack-labs/vconsole/internal/ui/resources"
)

// Deps are the shared dependencies handed to every feature.
type Deps struct {
	Conn         *connection.Connection
	SessionStore sessions.Store
	Notifier     *notifier.Notifier
	Logger       *slog.Logger
	// Reloader is non-nil in dev mode.
	Reloader *Reloader
}

// SetupRoutes configures all routes for the console server.
func SetupRoutes(router chi.Router, deps Deps) error {
	isDev := deps.Reloader != nil

	// Hot reload endpoints for dev mode
	if isDev {
		router.Get("/reload", deps.Reloader.ServeReload)
		router.Get("/hotreload", deps.Reloader.ServeTrigger)
	}

	// Static assets
	router.Handle("/static/*", resources.Handler())

	// Feature routes
	if err := homeFeature.SetupRoutes(router, deps.Conn, deps.SessionStore, deps.Notifier, deps.Logger, isDev); err != nil {
		return err
	}

	if err := schemaFeature.SetupRoutes(router, deps.Conn, deps.Notifier, deps.Logger); err != nil {
		return err
	}

	if err := objectsFeature.SetupRoutes(router, deps.Conn, deps.SessionStore, deps.Logger); err != nil {
		return err
	}

	router.NotFound(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "not found", http.StatusNotFound)
	})

	return nil
}
