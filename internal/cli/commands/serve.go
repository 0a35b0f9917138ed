package commands

import (
	"encoding/base64"
	"fmt"
	"os/exec"
	"runtime"

	"github.com/gorilla/securecookie"
	"github.com/spf13/cobra"

	"github.com/leapstack-labs/vconsole/internal/ui"
)

// NewServeCommand creates the serve command.
func NewServeCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the browser console",
		Long: `Connect to Weaviate and start a local web server with the console.

The console provides:
- Schema viewer
- Schema creator
- Data object creator
- Data object browser`,
		Example: `  # Start the console for the configured instance
  vconsole serve

  # Start on a custom port without opening a browser
  vconsole serve --port 3000 --no-browser

  # Point at another instance with an API key from the environment
  VCONSOLE_CONNECTION__API_KEY=secret vconsole serve --url https://demo.weaviate.network --auth-type API_KEY`,
		RunE: runServe,
	}

	cmd.Flags().String("host", "", "Interface to listen on (default: 127.0.0.1)")
	cmd.Flags().IntP("port", "p", 0, "Port to serve on (default: 8501)")
	cmd.Flags().Bool("no-browser", false, "Don't auto-open browser")
	cmd.Flags().Bool("dev", false, "Reload open pages when static assets change")
	cmd.Flags().Duration("refresh-interval", 0, "How often open pages re-read the schema (negative disables)")

	return cmd
}

func runServe(cmd *cobra.Command, _ []string) error {
	cmdCtx, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}
	cfg := cmdCtx.Cfg
	logger := cmdCtx.Logger
	r := cmdCtx.Renderer

	conn, err := cmdCtx.Connect(cmd.Context())
	if err != nil {
		return err
	}
	if !conn.IsReady(cmd.Context()) {
		r.Warning(fmt.Sprintf("Weaviate at %s is not ready; the console will show it as disconnected", conn.Settings().URL))
	}

	server := ui.NewServer(ui.Config{
		Conn:            conn,
		Host:            cfg.Server.Host,
		Port:            cfg.Server.Port,
		Dev:             cfg.Server.Dev,
		SessionSecret:   sessionSecret(cfg.Server.SessionSecret),
		RefreshInterval: cfg.Server.RefreshInterval,
		Logger:          logger,
	})

	if cfg.Server.AutoOpen {
		go openBrowser(server.URL())
	}

	r.Printf("Weaviate console on %s\n", server.URL())
	r.Muted("Press Ctrl+C to stop")

	return server.Serve(cmd.Context())
}

// sessionSecret returns the configured secret, or a random one. A random
// secret only lives as long as the process, so remembered selections reset
// on restart.
func sessionSecret(configured string) string {
	if configured != "" {
		return configured
	}
	return base64.StdEncoding.EncodeToString(securecookie.GenerateRandomKey(32))
}

// openBrowser opens the default browser to the specified URL.
func openBrowser(url string) {
	var cmd *exec.Cmd

	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", url) //nolint:noctx
	case "linux":
		cmd = exec.Command("xdg-open", url) //nolint:noctx
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", url) //nolint:noctx
	default:
		return
	}

	_ = cmd.Start()
}
