package commands

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/vconsole/internal/cli/output"
	"github.com/leapstack-labs/vconsole/internal/connection"
)

// errNotReady makes doctor exit non-zero after printing its report.
var errNotReady = errors.New("weaviate is not ready")

// DoctorOptions holds options for the doctor command.
type DoctorOptions struct {
	Format string // Output format: auto, text, markdown, json
}

// NewDoctorCommand creates the doctor command.
func NewDoctorCommand() *cobra.Command {
	opts := &DoctorOptions{}
	cmd := &cobra.Command{
		Use:   "doctor",
		Short: "Check the connection to Weaviate",
		Long: `Connect with the configured parameters and report on the remote service.

The report includes:
- Endpoint and authentication mode in use
- Readiness probe result
- Classes in the schema with their property and object counts

Output adapts to environment:
  - Terminal: Styled output with colors
  - Piped/Scripted: Markdown format
  - JSON: Machine-readable format`,
		Example: `  # Check the configured instance
  vconsole doctor

  # Check another instance and print JSON
  vconsole doctor --url http://localhost:8080 --format json`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runDoctor(cmd, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.Format, "format", "f", "", "Output format: "+strings.Join(output.Modes, ", "))

	return cmd
}

// DoctorOutput is the JSON output for the doctor command.
type DoctorOutput struct {
	URL      string         `json:"url"`
	AuthType string         `json:"auth_type"`
	Ready    bool           `json:"ready"`
	Classes  []ClassSummary `json:"classes"`
	Error    string         `json:"error,omitempty"`
}

// ClassSummary describes one class of the remote schema.
type ClassSummary struct {
	Name       string `json:"name"`
	Properties int    `json:"properties"`
	// Objects is -1 when the count could not be read.
	Objects int64 `json:"objects"`
}

func runDoctor(cmd *cobra.Command, opts *DoctorOptions) error {
	cmdCtx, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}

	r := cmdCtx.Renderer
	// Override renderer if format flag is set
	if opts.Format != "" {
		mode, err := output.ParseMode(opts.Format)
		if err != nil {
			return err
		}
		r = output.NewRenderer(cmd.OutOrStdout(), cmd.ErrOrStderr(), mode)
	}

	conn, err := cmdCtx.Connect(cmd.Context())
	if err != nil {
		return err
	}

	report := buildDoctorOutput(cmd.Context(), conn)

	var renderErr error
	switch r.EffectiveMode() {
	case output.ModeJSON:
		renderErr = r.JSON(report)
	case output.ModeMarkdown:
		renderDoctorMarkdown(r, report)
	default:
		renderDoctorText(r, report)
	}
	if renderErr != nil {
		return renderErr
	}

	if !report.Ready {
		return errNotReady
	}
	return nil
}

func buildDoctorOutput(ctx context.Context, conn *connection.Connection) *DoctorOutput {
	settings := conn.Settings()
	out := &DoctorOutput{
		URL:      settings.URL,
		AuthType: authTypeName(settings.Auth),
		Ready:    conn.IsReady(ctx),
		Classes:  []ClassSummary{},
	}
	if !out.Ready {
		return out
	}

	raw, err := conn.Schema().Get(ctx)
	if err != nil {
		out.Error = fmt.Sprintf("failed to read schema: %v", err)
		return out
	}

	classes, err := summarizeSchema(raw)
	if err != nil {
		out.Error = err.Error()
		return out
	}
	for i := range classes {
		classes[i].Objects = countObjects(ctx, conn, classes[i].Name)
	}
	out.Classes = classes

	return out
}

func authTypeName(a connection.Auth) string {
	if a == nil {
		return "none"
	}
	return string(a.Type())
}

// summarizeSchema lists the classes of a schema document in schema order.
func summarizeSchema(raw json.RawMessage) ([]ClassSummary, error) {
	var doc struct {
		Classes []struct {
			Class      string            `json:"class"`
			Properties []json.RawMessage `json:"properties"`
		} `json:"classes"`
	}
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("unexpected schema document: %w", err)
	}

	classes := make([]ClassSummary, 0, len(doc.Classes))
	for _, c := range doc.Classes {
		classes = append(classes, ClassSummary{Name: c.Class, Properties: len(c.Properties)})
	}
	return classes, nil
}

// countObjects reads a class's object count with an Aggregate query, or -1.
func countObjects(ctx context.Context, conn *connection.Connection, className string) int64 {
	query := fmt.Sprintf("{ Aggregate { %s { meta { count } } } }", className)
	raw, err := conn.Query().Raw(ctx, query)
	if err != nil {
		return -1
	}

	var resp struct {
		Data struct {
			Aggregate map[string][]struct {
				Meta struct {
					Count int64 `json:"count"`
				} `json:"meta"`
			} `json:"Aggregate"`
		} `json:"data"`
		Errors []json.RawMessage `json:"errors"`
	}
	if err := json.Unmarshal(raw, &resp); err != nil || len(resp.Errors) > 0 {
		return -1
	}
	groups := resp.Data.Aggregate[className]
	if len(groups) == 0 {
		return -1
	}
	return groups[0].Meta.Count
}

func formatCount(n int64) string {
	if n < 0 {
		return "?"
	}
	return strconv.FormatInt(n, 10)
}

func classRows(classes []ClassSummary) [][]string {
	rows := make([][]string, 0, len(classes))
	for _, c := range classes {
		rows = append(rows, []string{c.Name, strconv.Itoa(c.Properties), formatCount(c.Objects)})
	}
	return rows
}

// unknownCounts reports how many classes have no object count.
func unknownCounts(classes []ClassSummary) int {
	n := 0
	for _, c := range classes {
		if c.Objects < 0 {
			n++
		}
	}
	return n
}

func renderDoctorText(r *output.Renderer, out *DoctorOutput) {
	styles := r.Styles()

	r.Println("")
	r.Println(styles.Header1.Render("Weaviate Connection Report"))
	r.Muted(strings.Repeat("=", 40))
	r.Printf("   Endpoint: %s\n", out.URL)
	r.Printf("   Auth:     %s\n", out.AuthType)
	r.Println("")

	if !out.Ready {
		r.Error("Not connected to Weaviate")
		return
	}
	r.Success("Connected to Weaviate")
	r.Println("")

	if out.Error != "" {
		r.Error(out.Error)
		return
	}

	r.Header("Schema")
	if len(out.Classes) == 0 {
		r.Muted("   No classes in schema")
		r.Println("")
		return
	}
	r.Table([]string{"Class", "Properties", "Objects"}, classRows(out.Classes))
	r.Println("")
	if n := unknownCounts(out.Classes); n > 0 {
		r.Warning(fmt.Sprintf("object count unavailable for %d class(es)", n))
	}
}

func renderDoctorMarkdown(r *output.Renderer, out *DoctorOutput) {
	r.Println("# Weaviate Connection Report")
	r.Println("")
	r.Printf("- **Endpoint**: %s\n", out.URL)
	r.Printf("- **Auth**: %s\n", out.AuthType)

	status := "connected"
	if !out.Ready {
		status = "not connected"
	}
	r.Printf("- **Status**: %s\n", status)
	r.Println("")

	if !out.Ready {
		return
	}
	if out.Error != "" {
		r.Printf("**Error**: %s\n", out.Error)
		return
	}

	r.Header("Schema")
	if len(out.Classes) == 0 {
		r.Println("No classes in schema")
		return
	}
	r.Table([]string{"Class", "Properties", "Objects"}, classRows(out.Classes))
}
