// Package ristretto backs momentoredis with an in-process ristretto cache.
package ristretto

import (
	"errors"
	"time"

	rc "github.com/dgraph-io/ristretto"

	"github.com/momentohq/momento-redis-go/codec"
	"github.com/momentohq/momento-redis-go/internal/store"
)

type Config struct {
	NumCounters int64
	MaxCost     int64 // bytes; each entry costs its framed length
	BufferItems int64
	Metrics     bool

	Codec codec.Codec[codec.Dictionary] // dictionary encoding; nil => msgpack
	Now   func() time.Time
}

// Provider is a provider.Provider over ristretto. Admission may drop writes
// under pressure; those surface as provider.ErrRejected.
type Provider struct {
	*store.Store
	c *rc.Cache
}

func New(cfg Config) (*Provider, error) {
	if cfg.NumCounters <= 0 || cfg.MaxCost <= 0 || cfg.BufferItems <= 0 {
		return nil, errors.New("ristretto: invalid config")
	}
	c, err := rc.NewCache(&rc.Config{
		NumCounters: cfg.NumCounters,
		MaxCost:     cfg.MaxCost,
		BufferItems: cfg.BufferItems,
		Metrics:     cfg.Metrics,
	})
	if err != nil {
		return nil, err
	}
	return &Provider{
		Store: store.New(kv{c: c}, store.Options{Codec: cfg.Codec, Now: cfg.Now}),
		c:     c,
	}, nil
}

// Metrics exposes ristretto counters (nil unless Config.Metrics).
func (p *Provider) Metrics() *rc.Metrics { return p.c.Metrics }

type kv struct{ c *rc.Cache }

func (k kv) Get(key string) ([]byte, bool) {
	v, ok := k.c.Get(key)
	if !ok {
		return nil, false
	}
	b, _ := v.([]byte)
	if b == nil {
		// self-heal: drop unexpected entry shape
		k.c.Del(key)
		return nil, false
	}
	return b, true
}

func (k kv) Set(key string, value []byte, ttl time.Duration) bool {
	if !k.c.SetWithTTL(key, value, int64(len(value)), ttl) {
		return false
	}
	// make the write visible to the next Get
	k.c.Wait()
	return true
}

func (k kv) Del(key string) { k.c.Del(key) }

func (k kv) Close() error {
	k.c.Wait()
	k.c.Close()
	return nil
}
