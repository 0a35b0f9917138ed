package router

import (
	"net/http"
	"sync"

	"github.com/starfederation/datastar-go/datastar"
)

// Reloader tells open dev pages to reload. The first /reload stream after
// a server start reloads immediately, so a restarted binary refreshes its
// pages; later ones wait for Trigger.
type Reloader struct {
	mu      sync.Mutex
	waiters map[chan struct{}]struct{}
	once    sync.Once
}

// NewReloader creates a Reloader.
func NewReloader() *Reloader {
	return &Reloader{waiters: make(map[chan struct{}]struct{})}
}

// Trigger reloads every page currently waiting on /reload.
func (rl *Reloader) Trigger() {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	for ch := range rl.waiters {
		close(ch)
		delete(rl.waiters, ch)
	}
}

// Waiting returns the number of pages waiting for a reload.
func (rl *Reloader) Waiting() int {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	return len(rl.waiters)
}

// ServeReload holds an SSE stream open until the next Trigger.
func (rl *Reloader) ServeReload(w http.ResponseWriter, r *http.Request) {
	sse := datastar.NewSSE(w, r)
	reload := func() { _ = sse.ExecuteScript("window.location.reload()") }

	first := false
	rl.once.Do(func() { first = true })
	if first {
		reload()
		return
	}

	ch := make(chan struct{})
	rl.mu.Lock()
	rl.waiters[ch] = struct{}{}
	rl.mu.Unlock()

	select {
	case <-ch:
		reload()
	case <-r.Context().Done():
		rl.mu.Lock()
		delete(rl.waiters, ch)
		rl.mu.Unlock()
	}
}

// ServeTrigger lets external tooling request a reload.
func (rl *Reloader) ServeTrigger(w http.ResponseWriter, _ *http.Request) {
	rl.Trigger()
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK"))
}
