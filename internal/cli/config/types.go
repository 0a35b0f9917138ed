// Package config loads the console's configuration from defaults, a YAML
// file, VCONSOLE_ environment variables and command-line flags.
package config

import (
	"time"

	"github.com/leapstack-labs/vconsole/internal/connection"
)

// Default configuration values.
const (
	DefaultHost            = "127.0.0.1"
	DefaultPort            = 8501
	DefaultLogLevel        = "info"
	DefaultOutput          = "auto" // Auto-detect: TTY=text, non-TTY=markdown
	DefaultRefreshInterval = 30 * time.Second
	EnvPrefix              = "VCONSOLE_"
)

// ConfigFileNames are searched for, in order, when --config is not given.
var ConfigFileNames = []string{"vconsole.yaml", "vconsole.yml"}

// Config holds all CLI configuration options.
type Config struct {
	Connection   ConnectionConfig `koanf:"connection"`
	Server       ServerConfig     `koanf:"server"`
	LogLevel     string           `koanf:"log_level"`
	OutputFormat string           `koanf:"output"`

	// FileUsed is the config file that was loaded, if any.
	FileUsed string `koanf:"-"`

	params connection.Params
}

// ConnectionConfig mirrors the connection parameters. Values stay strings
// so malformed input is reported by the connection layer with the
// parameter name.
type ConnectionConfig struct {
	URL          string `koanf:"url"`
	AuthType     string `koanf:"auth_type"`
	APIKey       string `koanf:"api_key"`
	Username     string `koanf:"username"`
	Password     string `koanf:"password"`
	Scope        string `koanf:"scope"`
	ClientSecret string `koanf:"client_secret"`
	AccessToken  string `koanf:"access_token"`
	ExpiresIn    string `koanf:"expires_in"`
	RefreshToken string `koanf:"refresh_token"`
}

// ServerConfig holds configuration for the console server.
type ServerConfig struct {
	Host            string        `koanf:"host"`
	Port            int           `koanf:"port"`
	AutoOpen        bool          `koanf:"auto_open"`
	Dev             bool          `koanf:"dev"`
	SessionSecret   string        `koanf:"session_secret"`
	RefreshInterval time.Duration `koanf:"refresh_interval"`
}

// ConnectionParams returns the "connection" section as a parameter source.
func (c *Config) ConnectionParams() connection.Params {
	if c.params == nil {
		return connection.Args{}
	}
	return c.params
}
