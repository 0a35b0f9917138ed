// Package schema provides the schema creation handler.
package schema

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/starfederation/datastar-go/datastar"

	"github.com/leapstack-labs/vconsole/internal/connection"
	"github.com/leapstack-labs/vconsole/internal/ui/features/common"
	"github.com/leapstack-labs/vconsole/internal/ui/features/common/components"
	"github.com/leapstack-labs/vconsole/internal/ui/notifier"
)

// CreateSignals represents the signals sent by the schema creation form.
type CreateSignals struct {
	Schema string `json:"schema"`
}

// Handlers provides HTTP handlers for the schema feature.
type Handlers struct {
	conn     *connection.Connection
	notifier *notifier.Notifier
	logger   *slog.Logger
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(conn *connection.Connection, notify *notifier.Notifier, logger *slog.Logger) *Handlers {
	return &Handlers{
		conn:     conn,
		notifier: notify,
		logger:   logger,
	}
}

// CreateSSE validates the submitted definition and forwards it to the remote.
func (h *Handlers) CreateSSE(w http.ResponseWriter, r *http.Request) {
	// Read signals BEFORE creating SSE (SSE consumes the request body)
	var signals CreateSignals
	if err := datastar.ReadSignals(r, &signals); err != nil {
		h.logger.Error("failed to read schema signals", "error", err)
		sse := datastar.NewSSE(w, r)
		_ = common.SendToast(sse, components.ToastError, common.MsgSchemaFailed)
		return
	}

	sse := datastar.NewSSE(w, r)

	if !common.ValidJSON(signals.Schema) {
		_ = common.SendToast(sse, components.ToastError, common.MsgSchemaInvalidJSON)
		return
	}

	if err := h.conn.Schema().Create(r.Context(), json.RawMessage(signals.Schema)); err != nil {
		h.logger.Error("failed creating schema", "error", err)
		_ = common.SendToast(sse, components.ToastError, common.MsgSchemaFailed)
		return
	}

	h.logger.Info("schema created")
	if err := common.SendToast(sse, components.ToastSuccess, common.MsgSchemaCreated); err != nil {
		_ = sse.ConsoleError(err)
	}
	h.notifier.Broadcast()
}
