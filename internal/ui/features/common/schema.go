package common

import (
	"context"
	"log/slog"

	"github.com/leapstack-labs/vconsole/internal/connection"
	"github.com/leapstack-labs/vconsole/internal/ui/features/common/components"
)

// LoadSchema fetches the schema for display and extracts its class names.
// A failure is logged and rendered in place so other panels still work.
func LoadSchema(ctx context.Context, conn *connection.Connection, logger *slog.Logger) (components.JSONView, []string) {
	raw, err := conn.Schema().Get(ctx)
	if err != nil {
		logger.Error("failed to load schema", "error", err)
		return components.JSONView{Error: "Schema is unavailable"}, nil
	}

	classes, err := ClassNames(raw)
	if err != nil {
		logger.Warn("schema has unexpected shape", "error", err)
	}
	return components.JSONView{JSON: Indent(raw)}, classes
}

// LoadObjects fetches the objects of className for display. An empty class
// yields an empty view.
func LoadObjects(ctx context.Context, conn *connection.Connection, className string, logger *slog.Logger) (components.JSONView, error) {
	if className == "" {
		return components.JSONView{}, nil
	}
	raw, err := conn.FetchAll(ctx, className)
	if err != nil {
		logger.Error("failed to fetch objects", "class", className, "error", err)
		return components.JSONView{}, err
	}
	return components.JSONView{JSON: Indent(raw)}, nil
}
