package home

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/gorilla/sessions"
	"github.com/starfederation/datastar-go/datastar"

	"github.com/leapstack-labs/vconsole/internal/connection"
	"github.com/leapstack-labs/vconsole/internal/ui/features/common"
	"github.com/leapstack-labs/vconsole/internal/ui/features/common/components"
	"github.com/leapstack-labs/vconsole/internal/ui/notifier"
)

// Handlers provides HTTP handlers for the console page.
type Handlers struct {
	conn         *connection.Connection
	sessionStore sessions.Store
	notifier     *notifier.Notifier
	logger       *slog.Logger
	isDev        bool
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(conn *connection.Connection, sessionStore sessions.Store, notify *notifier.Notifier, logger *slog.Logger, isDev bool) *Handlers {
	return &Handlers{
		conn:         conn,
		sessionStore: sessionStore,
		notifier:     notify,
		logger:       logger,
		isDev:        isDev,
	}
}

// HomePage renders the console with every panel's content server-side.
func (h *Handlers) HomePage(w http.ResponseWriter, r *http.Request) {
	data := h.buildPageData(r)

	if err := components.Page(data).Render(r.Context(), w); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

// buildPageData assembles the initial state of all four panels.
func (h *Handlers) buildPageData(r *http.Request) components.PageData {
	ctx := r.Context()

	schema, classes := common.LoadSchema(ctx, h.conn, h.logger)
	data := components.PageData{
		Title:       "Console",
		IsDev:       h.isDev,
		Ready:       h.conn.IsReady(ctx),
		Schema:      schema,
		ClassNames:  classes,
		CreateClass: common.PickClass(classes, ""),
		BrowseClass: common.PickClass(classes, common.BrowseClass(h.sessionStore, r)),
	}

	objects, err := common.LoadObjects(ctx, h.conn, data.BrowseClass, h.logger)
	if err != nil {
		objects = components.JSONView{Error: common.MsgObjectsFetchFailed}
	}
	data.Objects = objects

	return data
}

// Updates is the long-lived SSE endpoint of the console page. It sends
// nothing initially and re-sends the schema-derived panels on each change.
func (h *Handlers) Updates(w http.ResponseWriter, r *http.Request) {
	sse := datastar.NewSSE(w, r)

	updates := h.notifier.Subscribe()
	defer h.notifier.Unsubscribe(updates)

	ctx := r.Context()
	for {
		select {
		case <-ctx.Done():
			return
		case _, ok := <-updates:
			if !ok {
				return
			}
			if err := h.sendSchemaViews(sse, r); err != nil {
				_ = sse.ConsoleError(err)
			}
		}
	}
}

// sendSchemaViews patches the status banner, schema viewer and class selectors.
func (h *Handlers) sendSchemaViews(sse *datastar.ServerSentEventGenerator, r *http.Request) error {
	ctx := r.Context()
	schema, classes := common.LoadSchema(ctx, h.conn, h.logger)

	if err := sse.PatchElementTempl(components.Status(h.conn.IsReady(ctx))); err != nil {
		return err
	}
	if err := sse.PatchElementTempl(components.SchemaViewer(schema)); err != nil {
		return err
	}
	if err := sse.PatchElementTempl(components.ClassSelect(
		components.CreateClassSelectID, "objclass", classes, common.PickClass(classes, ""), "",
	)); err != nil {
		return err
	}
	return sse.PatchElementTempl(components.ClassSelect(
		components.BrowseClassSelectID, "browseclass", classes,
		common.PickClass(classes, common.BrowseClass(h.sessionStore, r)), "@get('/api/objects')",
	))
}

// healthStatus is the body of the health endpoint.
type healthStatus struct {
	Ready bool   `json:"ready"`
	URL   string `json:"url"`
}

// Health reports remote readiness as JSON; 503 when not ready.
func (h *Handlers) Health(w http.ResponseWriter, r *http.Request) {
	status := healthStatus{
		Ready: h.conn.IsReady(r.Context()),
		URL:   h.conn.Settings().URL,
	}

	w.Header().Set("Content-Type", "application/json")
	if !status.Ready {
		w.WriteHeader(http.StatusServiceUnavailable)
	}
	if err := json.NewEncoder(w).Encode(status); err != nil {
		h.logger.Error("failed to write health response", "error", err)
	}
}
