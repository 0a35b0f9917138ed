package schema

import (
	"errors"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/leapstack-labs/vconsole/internal/testutil"
	"github.com/leapstack-labs/vconsole/internal/ui/features"
	"github.com/leapstack-labs/vconsole/internal/ui/features/common"
)

func setupTestHandlers(t *testing.T, classes ...string) (*Handlers, *features.TestFixture) {
	t.Helper()
	fixture := features.SetupTestFixture(t, classes...)
	return NewHandlers(fixture.Conn, fixture.Notifier, testutil.NewTestLogger(t)), fixture
}

func TestCreateSSE(t *testing.T) {
	tests := []struct {
		name        string
		input       string
		remoteErr   error
		wantMessage string
		wantCreates int
		wantPing    bool
	}{
		{
			name:        "malformed json never reaches the remote",
			input:       "{not valid json",
			wantMessage: common.MsgSchemaInvalidJSON,
			wantCreates: 0,
		},
		{
			name:        "empty input is malformed",
			input:       "",
			wantMessage: common.MsgSchemaInvalidJSON,
			wantCreates: 0,
		},
		{
			name:        "whole schema",
			input:       `{"classes":[{"class":"Article"}]}`,
			wantMessage: common.MsgSchemaCreated,
			wantCreates: 1,
			wantPing:    true,
		},
		{
			name:        "single class",
			input:       `{"class":"Author"}`,
			wantMessage: common.MsgSchemaCreated,
			wantCreates: 1,
			wantPing:    true,
		},
		{
			name:        "remote rejects valid json",
			input:       `[1,2,3]`,
			wantMessage: common.MsgSchemaFailed,
			wantCreates: 1,
		},
		{
			name:        "remote failure hides detail",
			input:       `{"class":"Article"}`,
			remoteErr:   errors.New("401 unauthorized: token expired"),
			wantMessage: common.MsgSchemaFailed,
			wantCreates: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, fixture := setupTestHandlers(t)
			fixture.Remote.SetErr(tt.remoteErr)

			updates := fixture.Notifier.Subscribe()
			defer fixture.Notifier.Unsubscribe(updates)

			req := features.SignalsPost(t, "/api/schema", map[string]any{"schema": tt.input})
			rec := httptest.NewRecorder()
			h.CreateSSE(rec, req)

			body := rec.Body.String()
			assert.Contains(t, body, tt.wantMessage)
			assert.Contains(t, body, "toasts")
			if tt.remoteErr != nil {
				assert.NotContains(t, body, tt.remoteErr.Error())
			}

			_, creates, _, _ := fixture.Remote.Counts()
			assert.Equal(t, tt.wantCreates, creates)

			select {
			case <-updates:
				assert.True(t, tt.wantPing, "unexpected schema broadcast")
			case <-time.After(20 * time.Millisecond):
				assert.False(t, tt.wantPing, "expected a schema broadcast")
			}
		})
	}
}

func TestCreateSSE_NewClassVisibleInSchema(t *testing.T) {
	h, fixture := setupTestHandlers(t)

	req := features.SignalsPost(t, "/api/schema", map[string]any{"schema": `{"classes":[{"class":"Article"}]}`})
	h.CreateSSE(httptest.NewRecorder(), req)

	raw, err := fixture.Conn.Schema().Get(t.Context())
	assert.NoError(t, err)
	names, err := common.ClassNames(raw)
	assert.NoError(t, err)
	assert.Equal(t, []string{"Article"}, names)
}

func TestCreateSSE_LogsRemoteDetail(t *testing.T) {
	fixture := features.SetupTestFixture(t)
	logger, logs := testutil.NewCapturingLogger()
	h := NewHandlers(fixture.Conn, fixture.Notifier, logger)
	fixture.Remote.SetErr(errors.New("422 class name must start with a capital letter"))

	req := features.SignalsPost(t, "/api/schema", map[string]any{"schema": `{"class":"article"}`})
	h.CreateSSE(httptest.NewRecorder(), req)

	assert.Contains(t, logs.String(), "level=ERROR")
	assert.Contains(t, logs.String(), "class name must start with a capital letter")
}
