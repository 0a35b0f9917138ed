package config

import (
	"fmt"
	"slices"
	"strings"

	"github.com/leapstack-labs/vconsole/internal/cli/output"
)

var logLevels = []string{"debug", "info", "warn", "error"}

// Validate checks the settings that do not belong to the connection; those
// are validated when the connection is resolved.
func (c *Config) Validate() error {
	if c.Server.Port < 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be between 0 and 65535, got %d", c.Server.Port)
	}
	if !slices.Contains(logLevels, strings.ToLower(c.LogLevel)) {
		return fmt.Errorf("invalid log_level %q (expected one of %s)", c.LogLevel, strings.Join(logLevels, ", "))
	}
	if _, err := output.ParseMode(c.OutputFormat); err != nil {
		return err
	}
	return nil
}
