package momentoredis

import (
	"sync"
	"sync/atomic"
)

// Hooks receives the client's out-of-band events. Backend failures are
// reported here instead of being returned from the command.
// Implementations MUST be cheap, non-blocking and safe for concurrent use.
// They run on the calling goroutine, and a multi-key DEL reports its per-key
// failures from several goroutines at once. Wrap slow observers with
// hooks/async.
type Hooks interface {
	// A command failed in the backend or got a response the client did not
	// recognise. The command itself returned its fallback value.
	CommandFailed(err *CommandError)

	// A multi-key DEL had per-key failures; deleted < requested.
	PartialDelete(cacheName string, requested, deleted int)

	// Connect or Disconnect flipped the open flag.
	OpenChanged(cacheName string, open bool)
}

// NopHooks is the default no-op
type NopHooks struct{}

func (NopHooks) CommandFailed(*CommandError)    {}
func (NopHooks) PartialDelete(string, int, int) {}
func (NopHooks) OpenChanged(string, bool)       {}

// ErrorHook adapts a function to Hooks, observing command failures only.
type ErrorHook func(err *CommandError)

func (f ErrorHook) CommandFailed(err *CommandError) { f(err) }
func (ErrorHook) PartialDelete(string, int, int)    {}
func (ErrorHook) OpenChanged(string, bool)          {}

type hookEntry struct {
	id uint64
	h  Hooks
}

// observers is a copy-on-write list; publishing never takes the lock.
type observers struct {
	mu   sync.Mutex
	next uint64
	list atomic.Pointer[[]hookEntry]
}

func (o *observers) add(h Hooks) func() {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.next++
	id := o.next
	var cur []hookEntry
	if p := o.list.Load(); p != nil {
		cur = *p
	}
	nl := make([]hookEntry, 0, len(cur)+1)
	nl = append(nl, cur...)
	nl = append(nl, hookEntry{id: id, h: h})
	o.list.Store(&nl)

	var once sync.Once
	return func() { once.Do(func() { o.remove(id) }) }
}

func (o *observers) remove(id uint64) {
	o.mu.Lock()
	defer o.mu.Unlock()
	p := o.list.Load()
	if p == nil {
		return
	}
	nl := make([]hookEntry, 0, len(*p))
	for _, e := range *p {
		if e.id != id {
			nl = append(nl, e)
		}
	}
	o.list.Store(&nl)
}

func (o *observers) each(fn func(Hooks)) {
	p := o.list.Load()
	if p == nil {
		return
	}
	for _, e := range *p {
		fn(e.h)
	}
}
