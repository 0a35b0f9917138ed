// Package features provides shared test utilities for UI feature tests.
package features

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/gorilla/sessions"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/vconsole/internal/connection"
	"github.com/leapstack-labs/vconsole/internal/connection/connectiontest"
	"github.com/leapstack-labs/vconsole/internal/testutil"
	"github.com/leapstack-labs/vconsole/internal/ui/notifier"
)

// TestFixture holds all dependencies needed for UI handler tests.
type TestFixture struct {
	Remote       *connectiontest.Fake
	Conn         *connection.Connection
	Notifier     *notifier.Notifier
	SessionStore *sessions.CookieStore
}

// SetupTestFixture connects to an in-memory remote that knows classNames.
func SetupTestFixture(t *testing.T, classNames ...string) *TestFixture {
	t.Helper()

	remote := connectiontest.NewFake(classNames...)
	conn, err := connection.Connect(t.Context(),
		connection.Args{connection.ParamURL: "http://localhost:8080"},
		remote.Dialer(),
		connection.WithLogger(testutil.NewTestLogger(t)),
	)
	require.NoError(t, err)

	n := notifier.New()
	t.Cleanup(n.Close)

	return &TestFixture{
		Remote:       remote,
		Conn:         conn,
		Notifier:     n,
		SessionStore: NewTestSessionStore(),
	}
}

// NewTestSessionStore creates a session store for testing.
func NewTestSessionStore() *sessions.CookieStore {
	return sessions.NewCookieStore([]byte("test-secret-key-32-bytes-long!!"))
}

// SignalsPost builds a datastar POST request carrying signals as its body.
func SignalsPost(t *testing.T, target string, signals map[string]any) *http.Request {
	t.Helper()
	body, err := json.Marshal(signals)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, target, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Datastar-Request", "true")
	return req
}

// SignalsGet builds a datastar GET request carrying signals in the query.
func SignalsGet(t *testing.T, target string, signals map[string]any) *http.Request {
	t.Helper()
	body, err := json.Marshal(signals)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodGet, target+"?datastar="+url.QueryEscape(string(body)), nil)
	req.Header.Set("Datastar-Request", "true")
	return req
}
