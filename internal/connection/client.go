package connection

import (
	"context"
	"encoding/json"
)

// ConsistencyAll requires every replica to acknowledge a write.
const ConsistencyAll = "ALL"

// Client is the remote database service as seen by the console.
type Client interface {
	IsReady(ctx context.Context) (bool, error)
	Schema() SchemaAPI
	Query() QueryAPI
	DataObject() DataObjectAPI
}

// SchemaAPI covers schema operations.
type SchemaAPI interface {
	// Get returns the full schema document.
	Get(ctx context.Context) (json.RawMessage, error)
	// Create creates a whole schema ({"classes": [...]}) or a single class.
	Create(ctx context.Context, schema json.RawMessage) error
}

// QueryAPI covers query operations.
type QueryAPI interface {
	// Raw runs a raw GraphQL query and returns the response document.
	Raw(ctx context.Context, query string) (json.RawMessage, error)
}

// DataObjectAPI covers data object CRUD.
type DataObjectAPI interface {
	// Create stores properties as a new object of className and returns its id.
	Create(ctx context.Context, properties map[string]any, className, consistency string) (string, error)
	// List returns at most limit objects of className.
	List(ctx context.Context, className string, limit int) (json.RawMessage, error)
}

// Dialer builds a Client from resolved settings.
type Dialer func(ctx context.Context, s Settings) (Client, error)
