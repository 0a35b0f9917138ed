// Package objects provides the data object creation and browsing handlers.
package objects

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gorilla/sessions"
	"github.com/starfederation/datastar-go/datastar"

	"github.com/leapstack-labs/vconsole/internal/connection"
	"github.com/leapstack-labs/vconsole/internal/ui/features/common"
	"github.com/leapstack-labs/vconsole/internal/ui/features/common/components"
)

// CreateSignals represents the signals sent by the object creation form.
type CreateSignals struct {
	Class string `json:"objclass"`
	Body  string `json:"objbody"`
}

// BrowseSignals represents the signals sent by the object browser.
type BrowseSignals struct {
	Class string `json:"browseclass"`
}

// Handlers provides HTTP handlers for the objects feature.
type Handlers struct {
	conn         *connection.Connection
	sessionStore sessions.Store
	logger       *slog.Logger
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(conn *connection.Connection, sessionStore sessions.Store, logger *slog.Logger) *Handlers {
	return &Handlers{
		conn:         conn,
		sessionStore: sessionStore,
		logger:       logger,
	}
}

// CreateSSE validates the object definition and stores it in the chosen class.
func (h *Handlers) CreateSSE(w http.ResponseWriter, r *http.Request) {
	// Read signals BEFORE creating SSE (SSE consumes the request body)
	var signals CreateSignals
	readErr := datastar.ReadSignals(r, &signals)

	sse := datastar.NewSSE(w, r)

	if readErr != nil {
		h.logger.Error("failed to read object signals", "error", readErr)
		_ = common.SendToast(sse, components.ToastError, common.MsgObjectFailed)
		return
	}

	if signals.Class == "" {
		_ = common.SendToast(sse, components.ToastError, common.MsgSelectClass)
		return
	}
	if strings.TrimSpace(signals.Body) == "" {
		_ = common.SendToast(sse, components.ToastError, common.MsgMissingObjectBody)
		return
	}
	if !common.ValidJSON(signals.Body) {
		_ = common.SendToast(sse, components.ToastError, common.MsgObjectInvalidJSON)
		return
	}

	// null decodes into a nil map without error.
	var properties map[string]any
	err := json.Unmarshal([]byte(signals.Body), &properties)
	if err == nil && properties == nil {
		err = errors.New("object definition is null")
	}
	if err != nil {
		h.logger.Error("object definition is not a JSON object", "class", signals.Class, "error", err)
		_ = common.SendToast(sse, components.ToastError, common.MsgObjectFailed)
		return
	}

	id, err := h.conn.Create(r.Context(), properties, signals.Class)
	if err != nil {
		h.logger.Error("failed adding object", "class", signals.Class, "error", err)
		_ = common.SendToast(sse, components.ToastError, common.MsgObjectFailed)
		return
	}

	h.logger.Info("object added", "class", signals.Class, "id", id)
	if err := common.SendToast(sse, components.ToastSuccess, fmt.Sprintf(common.MsgObjectAdded, id)); err != nil {
		_ = sse.ConsoleError(err)
	}
}

// BrowseSSE remembers the selected class and patches in its objects.
func (h *Handlers) BrowseSSE(w http.ResponseWriter, r *http.Request) {
	var signals BrowseSignals
	readErr := datastar.ReadSignals(r, &signals)

	// The session cookie has to be written before the SSE headers.
	if readErr == nil {
		if err := common.SaveBrowseClass(h.sessionStore, w, r, signals.Class); err != nil {
			h.logger.Warn("failed to save browse class", "error", err)
		}
	}

	sse := datastar.NewSSE(w, r)

	if readErr != nil {
		_ = sse.ConsoleError(readErr)
		return
	}

	objects, err := common.LoadObjects(r.Context(), h.conn, signals.Class, h.logger)
	if err != nil {
		_ = common.SendToast(sse, components.ToastError, common.MsgObjectsFetchFailed)
	}

	if err := sse.PatchElementTempl(components.ObjectResults(objects)); err != nil {
		_ = sse.ConsoleError(err)
	}
}
