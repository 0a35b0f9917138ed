package commands

import (
	"bytes"
	"context"
	"encoding/base64"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/vconsole/internal/cli/config"
	"github.com/leapstack-labs/vconsole/internal/cli/testutil"
	"github.com/leapstack-labs/vconsole/internal/connection/connectiontest"
)

func TestServe_StartsAndStops(t *testing.T) {
	remote := connectiontest.NewFake("Article")
	useFake(t, remote)

	testutil.WriteConfig(t, `
connection:
  url: http://localhost:8080
server:
  port: 0
  auto_open: false
  refresh_interval: -1s
`)
	cfg, err := config.Load("", nil)
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()

	cmd := NewServeCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs([]string{})
	cmd.SetContext(config.WithConfig(ctx, cfg))

	require.NoError(t, cmd.Execute())
	assert.Contains(t, out.String(), "Weaviate console on http://127.0.0.1:0")
}

func TestServe_WarnsWhenNotReady(t *testing.T) {
	remote := connectiontest.NewFake("Article")
	remote.SetReady(false, nil)
	useFake(t, remote)

	testutil.WriteConfig(t, `
connection:
  url: http://localhost:8080
server:
  port: 0
  auto_open: false
  refresh_interval: -1s
`)
	cfg, err := config.Load("", nil)
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()

	cmd := NewServeCommand()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs([]string{})
	cmd.SetContext(config.WithConfig(ctx, cfg))

	require.NoError(t, cmd.Execute())
	assert.Contains(t, errOut.String(), "Weaviate at http://localhost:8080 is not ready")
	assert.Contains(t, out.String(), "Weaviate console on")
}

func TestServe_MissingAPIKey(t *testing.T) {
	remote := connectiontest.NewFake()
	useFake(t, remote)

	_, err := runCommand(t, NewServeCommand(), localConfig+"  auth_type: API_KEY\n")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing connection param: api_key")
}

func TestSessionSecret(t *testing.T) {
	assert.Equal(t, "configured", sessionSecret("configured"))

	a, b := sessionSecret(""), sessionSecret("")
	assert.NotEqual(t, a, b)
	raw, err := base64.StdEncoding.DecodeString(a)
	require.NoError(t, err)
	assert.Len(t, raw, 32)
}

func TestNewServeCommand(t *testing.T) {
	cmd := NewServeCommand()

	assert.Equal(t, "serve", cmd.Use)
	assert.NotEmpty(t, cmd.Short)
	for _, flag := range []string{"host", "port", "no-browser", "dev", "refresh-interval"} {
		assert.NotNil(t, cmd.Flags().Lookup(flag), "flag %q should exist", flag)
	}
}
