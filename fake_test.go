package momentoredis

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/momentohq/momento-redis-go/internal/store"
	pr "github.com/momentohq/momento-redis-go/provider"
)

type memKV struct {
	mu sync.Mutex
	m  map[string][]byte
}

func (k *memKV) Get(key string) ([]byte, bool) {
	k.mu.Lock()
	defer k.mu.Unlock()
	b, ok := k.m[key]
	return b, ok
}

func (k *memKV) Set(key string, value []byte, _ time.Duration) bool {
	k.mu.Lock()
	k.m[key] = value
	k.mu.Unlock()
	return true
}

func (k *memKV) Del(key string) {
	k.mu.Lock()
	delete(k.m, key)
	k.mu.Unlock()
}

func (k *memKV) Close() error { return nil }

type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.t = c.t.Add(d)
	c.mu.Unlock()
}

// fakeProvider is an in-memory provider with error injection. fail is asked
// before every call; a non-nil error is returned instead of running it.
type fakeProvider struct {
	*store.Store
	mu     sync.Mutex
	fail   func(op, key string) error
	calls  atomic.Int64
	closed atomic.Bool
}

var _ pr.Provider = (*fakeProvider)(nil)

func newFakeProvider(clk *fakeClock) *fakeProvider {
	return &fakeProvider{Store: store.New(&memKV{m: map[string][]byte{}}, store.Options{Now: clk.Now})}
}

func (f *fakeProvider) failWith(fn func(op, key string) error) {
	f.mu.Lock()
	f.fail = fn
	f.mu.Unlock()
}

func (f *fakeProvider) check(op, key string) error {
	f.calls.Add(1)
	f.mu.Lock()
	fn := f.fail
	f.mu.Unlock()
	if fn == nil {
		return nil
	}
	return fn(op, key)
}

func (f *fakeProvider) Get(ctx context.Context, cache, key string) ([]byte, bool, error) {
	if err := f.check("get", key); err != nil {
		return nil, false, err
	}
	return f.Store.Get(ctx, cache, key)
}

func (f *fakeProvider) Set(ctx context.Context, cache, key string, v []byte, ttl time.Duration) error {
	if err := f.check("set", key); err != nil {
		return err
	}
	return f.Store.Set(ctx, cache, key, v, ttl)
}

func (f *fakeProvider) SetIfNotExists(ctx context.Context, cache, key string, v []byte, ttl time.Duration) (bool, error) {
	if err := f.check("setIfNotExists", key); err != nil {
		return false, err
	}
	return f.Store.SetIfNotExists(ctx, cache, key, v, ttl)
}

func (f *fakeProvider) Delete(ctx context.Context, cache, key string) error {
	if err := f.check("delete", key); err != nil {
		return err
	}
	return f.Store.Delete(ctx, cache, key)
}

func (f *fakeProvider) Increment(ctx context.Context, cache, key string, n int64) (int64, error) {
	if err := f.check("increment", key); err != nil {
		return 0, err
	}
	return f.Store.Increment(ctx, cache, key, n)
}

func (f *fakeProvider) DictionaryFetch(ctx context.Context, cache, name string) (map[string][]byte, bool, error) {
	if err := f.check("dictionaryFetch", name); err != nil {
		return nil, false, err
	}
	return f.Store.DictionaryFetch(ctx, cache, name)
}

func (f *fakeProvider) DictionarySetFields(ctx context.Context, cache, name string, fields map[string][]byte) error {
	if err := f.check("dictionarySetFields", name); err != nil {
		return err
	}
	return f.Store.DictionarySetFields(ctx, cache, name, fields)
}

func (f *fakeProvider) Close(context.Context) error {
	f.closed.Store(true)
	return nil
}

// recorder collects published events.
type recorder struct {
	mu      sync.Mutex
	errs    []*CommandError
	partial [][2]int
	opens   []bool
}

func (r *recorder) CommandFailed(err *CommandError) {
	r.mu.Lock()
	r.errs = append(r.errs, err)
	r.mu.Unlock()
}

func (r *recorder) PartialDelete(_ string, requested, deleted int) {
	r.mu.Lock()
	r.partial = append(r.partial, [2]int{requested, deleted})
	r.mu.Unlock()
}

func (r *recorder) OpenChanged(_ string, open bool) {
	r.mu.Lock()
	r.opens = append(r.opens, open)
	r.mu.Unlock()
}

func (r *recorder) failures() []*CommandError {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]*CommandError(nil), r.errs...)
}

type harness struct {
	c   *Client
	p   *fakeProvider
	clk *fakeClock
	rec *recorder
}

func newHarness(t *testing.T, mutate ...func(*Options)) harness {
	t.Helper()
	clk := &fakeClock{t: time.Unix(1700000000, 0)}
	p := newFakeProvider(clk)
	rec := &recorder{}
	opts := Options{Provider: p, CacheName: "test-cache", Hooks: rec, Now: clk.Now}
	for _, m := range mutate {
		m(&opts)
	}
	c, err := New(opts)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return harness{c: c, p: p, clk: clk, rec: rec}
}
