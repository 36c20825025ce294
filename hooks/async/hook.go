// usage:
//
//	raw := sloghooks.New(slog.Default(), sloghooks.Options{FailureEvery: 10})
//	hooks := asynchook.New(raw, 1, 1000) // 1 worker; queue 1000 events
//	defer hooks.Close()
//
//	client, _ := momentoredis.New(momentoredis.Options{
//	    Provider: provider,
//	    Hooks:    hooks, // or `raw` if you don't want async
//	})
package asynchook

import (
	"sync"
	"sync/atomic"

	momentoredis "github.com/momentohq/momento-redis-go"
)

// Hooks forwards events to inner on a worker pool. Events are dropped when
// the queue is full.
type Hooks struct {
	inner   momentoredis.Hooks
	q       chan func()
	wg      sync.WaitGroup
	once    sync.Once
	mu      sync.RWMutex
	closed  bool
	dropped atomic.Uint64
}

var _ momentoredis.Hooks = (*Hooks)(nil)

func New(inner momentoredis.Hooks, workers, qlen int) *Hooks {
	if workers <= 0 {
		workers = 1
	}
	if qlen <= 0 {
		qlen = 1024
	}

	h := &Hooks{inner: inner, q: make(chan func(), qlen)}
	h.wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer h.wg.Done()
			for f := range h.q {
				f()
			}
		}()
	}
	return h
}

// Close drains queued events and stops the workers. Events after Close are dropped.
func (h *Hooks) Close() {
	h.once.Do(func() {
		h.mu.Lock()
		h.closed = true
		close(h.q)
		h.mu.Unlock()
		h.wg.Wait()
	})
}

// Dropped is the number of events lost to a full queue or a closed pool.
func (h *Hooks) Dropped() uint64 { return h.dropped.Load() }

func (h *Hooks) try(f func()) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if h.closed {
		h.dropped.Add(1)
		return
	}
	select {
	case h.q <- f:
	default: // drop
		h.dropped.Add(1)
	}
}

func (h *Hooks) CommandFailed(err *momentoredis.CommandError) {
	h.try(func() { h.inner.CommandFailed(err) })
}
func (h *Hooks) PartialDelete(cache string, requested, deleted int) {
	h.try(func() { h.inner.PartialDelete(cache, requested, deleted) })
}
func (h *Hooks) OpenChanged(cache string, open bool) {
	h.try(func() { h.inner.OpenChanged(cache, open) })
}
