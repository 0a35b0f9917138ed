package router

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/vconsole/internal/testutil"
	"github.com/leapstack-labs/vconsole/internal/ui/features"
)

func newRouter(t *testing.T, reloader *Reloader) (chi.Router, *features.TestFixture) {
	t.Helper()
	fixture := features.SetupTestFixture(t, "Article")
	r := chi.NewRouter()
	require.NoError(t, SetupRoutes(r, Deps{
		Conn:         fixture.Conn,
		SessionStore: fixture.SessionStore,
		Notifier:     fixture.Notifier,
		Logger:       testutil.NewTestLogger(t),
		Reloader:     reloader,
	}))
	return r, fixture
}

func TestSetupRoutes(t *testing.T) {
	r, _ := newRouter(t, nil)

	tests := []struct {
		method string
		path   string
		want   int
	}{
		{http.MethodGet, "/", http.StatusOK},
		{http.MethodGet, "/healthz", http.StatusOK},
		{http.MethodGet, "/api/objects", http.StatusOK},
		{http.MethodPost, "/api/objects", http.StatusOK},
		{http.MethodPost, "/api/schema", http.StatusOK},
		{http.MethodGet, "/reload", http.StatusNotFound},
		{http.MethodGet, "/nope", http.StatusNotFound},
		{http.MethodDelete, "/api/schema", http.StatusMethodNotAllowed},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, httptest.NewRequest(tt.method, tt.path, nil))
			assert.Equal(t, tt.want, rec.Code)
		})
	}
}

func TestSetupRoutes_PageRendersDevReloadHook(t *testing.T) {
	r, _ := newRouter(t, NewReloader())

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Contains(t, rec.Body.String(), "@get('/reload')")
}

func TestReloader_FirstStreamReloadsImmediately(t *testing.T) {
	rl := NewReloader()

	rec := httptest.NewRecorder()
	rl.ServeReload(rec, httptest.NewRequest(http.MethodGet, "/reload", nil))

	assert.Contains(t, rec.Body.String(), "window.location.reload()")
}

func TestReloader_TriggerReleasesWaiters(t *testing.T) {
	rl := NewReloader()
	rl.ServeReload(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/reload", nil))

	rec := httptest.NewRecorder()
	done := make(chan struct{})
	go func() {
		rl.ServeReload(rec, httptest.NewRequest(http.MethodGet, "/reload", nil))
		close(done)
	}()

	require.Eventually(t, func() bool { return rl.Waiting() == 1 }, time.Second, 5*time.Millisecond)

	trigger := httptest.NewRecorder()
	rl.ServeTrigger(trigger, httptest.NewRequest(http.MethodGet, "/hotreload", nil))
	assert.Equal(t, http.StatusOK, trigger.Code)

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("reload stream did not end after trigger")
	}
	assert.Contains(t, rec.Body.String(), "window.location.reload()")
	assert.Zero(t, rl.Waiting())
}

func TestReloader_ClientGoneUnregisters(t *testing.T) {
	rl := NewReloader()
	rl.ServeReload(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/reload", nil))

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
	defer cancel()
	req := httptest.NewRequest(http.MethodGet, "/reload", nil).WithContext(ctx)

	rl.ServeReload(httptest.NewRecorder(), req)

	assert.Zero(t, rl.Waiting())
}
