package commands

import (
	"context"
	"errors"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/vconsole/internal/cli/config"
	"github.com/leapstack-labs/vconsole/internal/cli/output"
	"github.com/leapstack-labs/vconsole/internal/connection"
	"github.com/leapstack-labs/vconsole/internal/connection/weaviate"
)

// dial opens the remote client. Tests replace it with an in-memory fake.
var dial connection.Dialer = weaviate.Dial

// CommandContext holds common dependencies for CLI commands.
type CommandContext struct {
	Cfg      *config.Config
	Logger   *slog.Logger
	Renderer *output.Renderer
}

// NewCommandContext collects the config, logger and renderer placed in the
// command context by the root command.
func NewCommandContext(cmd *cobra.Command) (*CommandContext, error) {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	cfg := config.FromContext(ctx)
	if cfg == nil {
		return nil, errors.New("configuration not loaded")
	}

	return &CommandContext{
		Cfg:      cfg,
		Logger:   config.GetLogger(ctx),
		Renderer: output.NewRenderer(cmd.OutOrStdout(), cmd.ErrOrStderr(), output.Mode(cfg.OutputFormat)),
	}, nil
}

// Connect opens the connection described by the "connection" config section.
func (c *CommandContext) Connect(ctx context.Context) (*connection.Connection, error) {
	return connection.Connect(ctx, c.Cfg.ConnectionParams(), dial, connection.WithLogger(c.Logger))
}
