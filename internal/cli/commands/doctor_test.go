package commands

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/vconsole/internal/cli/config"
	"github.com/leapstack-labs/vconsole/internal/cli/testutil"
	"github.com/leapstack-labs/vconsole/internal/connection"
	"github.com/leapstack-labs/vconsole/internal/connection/connectiontest"
)

// useFake routes dial to remote for the duration of the test.
func useFake(t *testing.T, remote *connectiontest.Fake) {
	t.Helper()
	orig := dial
	dial = remote.Dialer()
	t.Cleanup(func() { dial = orig })
}

// runCommand executes cmd with config loaded from yaml.
func runCommand(t *testing.T, cmd *cobra.Command, yaml string, args ...string) (string, error) {
	t.Helper()
	testutil.WriteConfig(t, yaml)
	cfg, err := config.Load("", nil)
	require.NoError(t, err)

	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	cmd.SetContext(config.WithConfig(context.Background(), cfg))

	err = cmd.Execute()
	return out.String(), err
}

const localConfig = "connection:\n  url: http://localhost:8080\n"

func TestDoctor_JSON(t *testing.T) {
	remote := connectiontest.NewFake("Article", "Author")
	useFake(t, remote)
	seed := connection.New(remote, connection.Settings{})
	_, err := seed.Create(context.Background(), map[string]any{"title": "a"}, "Article")
	require.NoError(t, err)

	out, err := runCommand(t, NewDoctorCommand(), localConfig, "--format", "json")
	require.NoError(t, err)

	var report DoctorOutput
	require.NoError(t, json.Unmarshal([]byte(out), &report))
	assert.Equal(t, "http://localhost:8080", report.URL)
	assert.Equal(t, "none", report.AuthType)
	assert.True(t, report.Ready)
	assert.Equal(t, []ClassSummary{
		{Name: "Article", Properties: 0, Objects: 1},
		{Name: "Author", Properties: 0, Objects: 0},
	}, report.Classes)
}

func TestDoctor_Markdown(t *testing.T) {
	useFake(t, connectiontest.NewFake("Article"))

	out, err := runCommand(t, NewDoctorCommand(), localConfig+"  auth_type: API_KEY\n  api_key: k\n", "--format", "markdown")
	require.NoError(t, err)

	assert.Contains(t, out, "# Weaviate Connection Report")
	assert.Contains(t, out, "- **Auth**: API_KEY")
	assert.Contains(t, out, "- **Status**: connected")
	assert.Contains(t, out, "| Article | 0 | 0 |")
	testutil.AssertNoANSI(t, out)
	testutil.AssertValidMarkdown(t, out)
}

func TestDoctor_NotReady(t *testing.T) {
	remote := connectiontest.NewFake("Article")
	remote.SetReady(false, errors.New("connection refused"))
	useFake(t, remote)

	out, err := runCommand(t, NewDoctorCommand(), localConfig, "--format", "markdown")
	require.ErrorIs(t, err, errNotReady)
	assert.Contains(t, out, "- **Status**: not connected")
	assert.NotContains(t, out, "## Schema")

	gets, _, _, _ := remote.Counts()
	assert.Zero(t, gets)
}

func TestDoctor_MissingURL(t *testing.T) {
	useFake(t, connectiontest.NewFake())

	_, err := runCommand(t, NewDoctorCommand(), "log_level: info\n")
	require.Error(t, err)
	assert.ErrorIs(t, err, connection.ErrMissingParameter)
	assert.Contains(t, err.Error(), "url")
}

func TestDoctor_SchemaFailure(t *testing.T) {
	remote := connectiontest.NewFake("Article")
	remote.SetErr(errors.New("403 forbidden"))
	useFake(t, remote)

	out, err := runCommand(t, NewDoctorCommand(), localConfig, "--format", "json")
	require.NoError(t, err)

	var report DoctorOutput
	require.NoError(t, json.Unmarshal([]byte(out), &report))
	assert.Contains(t, report.Error, "403 forbidden")
	assert.Empty(t, report.Classes)
}

func TestSummarizeSchema(t *testing.T) {
	classes, err := summarizeSchema(json.RawMessage(`{"classes":[
		{"class":"Article","properties":[{"name":"title"},{"name":"body"}]},
		{"class":"Author"}
	]}`))
	require.NoError(t, err)
	assert.Equal(t, []ClassSummary{
		{Name: "Article", Properties: 2},
		{Name: "Author", Properties: 0},
	}, classes)

	_, err = summarizeSchema(json.RawMessage(`[]`))
	assert.Error(t, err)
}

func TestRenderDoctorText(t *testing.T) {
	tr := testutil.NewTestRendererText()
	renderDoctorText(tr.Renderer, &DoctorOutput{
		URL:      "http://localhost:8080",
		AuthType: "none",
		Ready:    true,
		Classes:  []ClassSummary{{Name: "Article", Properties: 2, Objects: -1}},
	})

	out := tr.Output()
	assert.Contains(t, out, "Weaviate Connection Report")
	assert.Contains(t, out, "Connected to Weaviate")
	assert.Contains(t, out, "Schema")
	assert.Contains(t, out, "Article")
	assert.Contains(t, out, "?", "unknown counts are shown as ?")
	assert.Contains(t, tr.ErrorOutput(), "object count unavailable for 1 class(es)")
}

func TestRenderDoctorText_NotReady(t *testing.T) {
	tr := testutil.NewTestRendererText()
	renderDoctorText(tr.Renderer, &DoctorOutput{URL: "http://localhost:8080", AuthType: "none"})

	assert.NotContains(t, tr.Output(), "Connected to Weaviate")
	assert.NotContains(t, tr.Output(), "Schema")
	assert.Contains(t, tr.ErrorOutput(), "Not connected to Weaviate")
}

func TestRenderDoctorText_SchemaError(t *testing.T) {
	tr := testutil.NewTestRendererText()
	renderDoctorText(tr.Renderer, &DoctorOutput{
		URL:   "http://localhost:8080",
		Ready: true,
		Error: "failed to read schema: 403 forbidden",
	})

	assert.Contains(t, tr.Output(), "Connected to Weaviate")
	assert.Contains(t, tr.ErrorOutput(), "403 forbidden")
}

func TestRenderDoctorMarkdown_NoClasses(t *testing.T) {
	tr := testutil.NewTestRendererMarkdown()
	renderDoctorMarkdown(tr.Renderer, &DoctorOutput{URL: "http://localhost:8080", AuthType: "none", Ready: true})

	out := tr.Output()
	assert.Contains(t, out, "## Schema\n\nNo classes in schema")
	testutil.AssertNoANSI(t, out)
	testutil.AssertValidMarkdown(t, out)
}

func TestDoctor_InvalidFormat(t *testing.T) {
	remote := connectiontest.NewFake("Article")
	useFake(t, remote)

	out, err := runCommand(t, NewDoctorCommand(), localConfig, "--format", "xml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `invalid output format "xml"`)
	assert.NotContains(t, out, "Weaviate Connection Report")

	gets, _, _, _ := remote.Counts()
	assert.Zero(t, gets, "nothing is fetched for a bad format")
}

func TestNewDoctorCommand(t *testing.T) {
	cmd := NewDoctorCommand()

	assert.Equal(t, "doctor", cmd.Use)
	assert.NotEmpty(t, cmd.Short)
	assert.NotEmpty(t, cmd.Example)
	assert.NotNil(t, cmd.Flags().Lookup("format"))
}
