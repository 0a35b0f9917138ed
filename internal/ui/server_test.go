package ui

import (
	"context"
	"io"
	"net"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/vconsole/internal/connection"
	"github.com/leapstack-labs/vconsole/internal/connection/connectiontest"
	"github.com/leapstack-labs/vconsole/internal/testutil"
)

func newTestServer(t *testing.T, cfg Config) *Server {
	t.Helper()
	remote := connectiontest.NewFake("Article")
	conn, err := connection.Connect(t.Context(),
		connection.Args{connection.ParamURL: "http://weaviate:8080"},
		remote.Dialer(),
	)
	require.NoError(t, err)

	cfg.Conn = conn
	cfg.SessionSecret = "test-secret-key-32-bytes-long!!"
	cfg.Logger = testutil.NewTestLogger(t)
	return NewServer(cfg)
}

func TestServer_URL(t *testing.T) {
	tests := []struct {
		host string
		want string
	}{
		{"", "http://localhost:8501"},
		{"0.0.0.0", "http://localhost:8501"},
		{"127.0.0.1", "http://127.0.0.1:8501"},
		{"::1", "http://[::1]:8501"},
	}
	for _, tt := range tests {
		s := newTestServer(t, Config{Host: tt.host, Port: 8501})
		assert.Equal(t, tt.want, s.URL(), "host %q", tt.host)
	}
}

func TestServer_ServeAndShutdown(t *testing.T) {
	s := newTestServer(t, Config{RefreshInterval: -1})

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	base := "http://" + ln.Addr().String()

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- s.ServeListener(ctx, ln) }()

	resp, err := http.Get(base + "/healthz")
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"ready":true,"url":"http://weaviate:8080"}`, string(body))

	// Hold an update stream open; shutdown must still complete.
	streamReq, err := http.NewRequest(http.MethodGet, base+"/updates", nil)
	require.NoError(t, err)
	stream, err := http.DefaultClient.Do(streamReq)
	require.NoError(t, err)
	defer func() { _ = stream.Body.Close() }()
	require.Eventually(t, func() bool { return s.Notifier().Len() == 1 }, time.Second, 5*time.Millisecond)

	cancel()
	select {
	case err := <-errCh:
		assert.NoError(t, err)
	case <-time.After(3 * time.Second):
		t.Fatal("server did not shut down")
	}
}

func TestServer_RefreshLoopPingsStreams(t *testing.T) {
	s := newTestServer(t, Config{RefreshInterval: 10 * time.Millisecond})

	ch := s.Notifier().Subscribe()
	defer s.Notifier().Unsubscribe(ch)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go s.refreshLoop(ctx)

	select {
	case <-ch:
	case <-time.After(time.Second):
		t.Fatal("expected a refresh ping")
	}
}

func TestServer_DevMode(t *testing.T) {
	assert.True(t, newTestServer(t, Config{Dev: true}).IsDev())
	assert.False(t, newTestServer(t, Config{}).IsDev())
}
