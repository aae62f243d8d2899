// Copyright © 2024 The ELPS authors

package lsp

import (
	"sync"
	"time"

	"github.com/tliron/glsp"
)

// debouncer runs at most one pending callback per document URI.
type debouncer struct {
	mu     sync.Mutex
	delay  time.Duration
	timers map[string]*time.Timer
}

func newDebouncer(delay time.Duration) *debouncer {
	return &debouncer{delay: delay, timers: make(map[string]*time.Timer)}
}

// schedule replaces any pending callback for uri with fn.
func (d *debouncer) schedule(uri string, fn func()) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if t, ok := d.timers[uri]; ok {
		t.Stop()
	}
	var t *time.Timer
	t = time.AfterFunc(d.delay, func() {
		d.mu.Lock()
		if d.timers[uri] == t {
			delete(d.timers, uri)
		}
		d.mu.Unlock()
		fn()
	})
	d.timers[uri] = t
}

func (d *debouncer) cancel(uri string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if t, ok := d.timers[uri]; ok {
		t.Stop()
		delete(d.timers, uri)
	}
}

func (d *debouncer) stopAll() {
	d.mu.Lock()
	defer d.mu.Unlock()
	for uri, t := range d.timers {
		t.Stop()
		delete(d.timers, uri)
	}
}

// notifier remembers the most recent client connection so diagnostics can
// be published outside of a request handler.
type notifier struct {
	mu sync.Mutex
	fn glsp.NotifyFunc
}

func (n *notifier) capture(ctx *glsp.Context) {
	if ctx == nil {
		return
	}
	n.mu.Lock()
	n.fn = ctx.Notify
	n.mu.Unlock()
}

func (n *notifier) send(method string, params any) {
	n.mu.Lock()
	fn := n.fn
	n.mu.Unlock()
	if fn != nil {
		fn(method, params)
	}
}
