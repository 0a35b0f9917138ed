// Package connection resolves the console's connection parameters and wraps
// the remote vector database client with a few typed pass-through operations.
package connection

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"
)

const (
	// FetchLimit caps the number of objects returned by FetchAll.
	FetchLimit = 100
	// FetchTTL is how long a FetchAll result is served from cache.
	FetchTTL = 30 * time.Second
)

// Connection is the process-wide handle to the remote service.
// It is created once by Connect and shared by every console panel.
type Connection struct {
	client   Client
	settings Settings
	cache    *fetchCache
	logger   *slog.Logger
}

// Option configures a Connection.
type Option func(*options)

type options struct {
	logger *slog.Logger
	now    func() time.Time
}

// WithLogger sets the logger used for diagnostics.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) { o.logger = l }
}

// WithClock replaces time.Now for cache expiry.
func WithClock(now func() time.Time) Option {
	return func(o *options) { o.now = now }
}

// Connect resolves params and dials the remote service.
func Connect(ctx context.Context, params Params, dial Dialer, opts ...Option) (*Connection, error) {
	if dial == nil {
		return nil, errors.New("connection: nil dialer")
	}

	settings, err := Resolve(params)
	if err != nil {
		return nil, err
	}

	client, err := dial(ctx, settings)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to %s: %w", settings.URL, err)
	}

	return New(client, settings, opts...), nil
}

// New wraps an already constructed client.
func New(client Client, settings Settings, opts ...Option) *Connection {
	o := options{}
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = slog.New(slog.DiscardHandler)
	}

	return &Connection{
		client:   client,
		settings: settings,
		cache:    newFetchCache(FetchTTL, o.now),
		logger:   o.logger,
	}
}

// Settings returns the resolved settings the connection was built with.
func (c *Connection) Settings() Settings {
	return c.settings
}

// Client returns the underlying remote client.
func (c *Connection) Client() Client {
	return c.client
}

// IsReady reports whether the remote service accepts requests.
func (c *Connection) IsReady(ctx context.Context) bool {
	ready, err := c.client.IsReady(ctx)
	if err != nil {
		c.logger.Warn("readiness probe failed", "url", c.settings.URL, "error", err)
		return false
	}
	return ready
}

// Schema returns the schema API.
func (c *Connection) Schema() SchemaAPI {
	return c.client.Schema()
}

// Query returns the query API.
func (c *Connection) Query() QueryAPI {
	return c.client.Query()
}

// DataObject returns the data object API.
func (c *Connection) DataObject() DataObjectAPI {
	return c.client.DataObject()
}

// FetchAll returns up to FetchLimit objects of className. Results are cached
// per class for FetchTTL; errors are not cached.
func (c *Connection) FetchAll(ctx context.Context, className string) (json.RawMessage, error) {
	if cached, ok := c.cache.get(className); ok {
		return cached, nil
	}

	c.logger.Debug("fetching objects", "class", className, "limit", FetchLimit)
	objects, err := c.client.DataObject().List(ctx, className, FetchLimit)
	if err != nil {
		return nil, fmt.Errorf("list objects of %s: %w", className, err)
	}

	c.cache.put(className, objects)
	return objects, nil
}

// Create stores properties as a new object of className and returns the id
// assigned by the remote service. The write must reach every replica.
func (c *Connection) Create(ctx context.Context, properties map[string]any, className string) (string, error) {
	id, err := c.client.DataObject().Create(ctx, properties, className, ConsistencyAll)
	if err != nil {
		return "", fmt.Errorf("create object of %s: %w", className, err)
	}
	return id, nil
}
