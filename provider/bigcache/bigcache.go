// Package bigcache backs momentoredis with an in-process bigcache.
//
// BigCache has no per-entry TTL, only a global LifeWindow. Per-key expiry is
// kept in the entry frame and enforced on read; LifeWindow must therefore be
// at least as long as the longest TTL callers use, or entries are evicted early.
package bigcache

import (
	"context"
	"errors"
	"time"

	bc "github.com/allegro/bigcache/v3"

	"github.com/momentohq/momento-redis-go/codec"
	"github.com/momentohq/momento-redis-go/internal/store"
)

type Config struct {
	LifeWindow         time.Duration
	CleanWindow        time.Duration
	MaxEntriesInWindow int
	MaxEntrySize       int
	HardMaxCacheSizeMB int // ~ memory limit; 0 = unlimited

	Codec codec.Codec[codec.Dictionary] // dictionary encoding; nil => msgpack
	Now   func() time.Time
}

type Provider struct {
	*store.Store
}

func New(ctx context.Context, cfg Config) (*Provider, error) {
	if cfg.LifeWindow <= 0 {
		return nil, errors.New("bigcache: LifeWindow must be positive")
	}
	conf := bc.DefaultConfig(cfg.LifeWindow)
	conf.Verbose = false
	if cfg.CleanWindow > 0 {
		conf.CleanWindow = cfg.CleanWindow
	}
	if cfg.MaxEntriesInWindow > 0 {
		conf.MaxEntriesInWindow = cfg.MaxEntriesInWindow
	}
	if cfg.MaxEntrySize > 0 {
		conf.MaxEntrySize = cfg.MaxEntrySize
	}
	if cfg.HardMaxCacheSizeMB > 0 {
		conf.HardMaxCacheSize = cfg.HardMaxCacheSizeMB
	}
	c, err := bc.New(ctx, conf)
	if err != nil {
		return nil, err
	}

	dc := cfg.Codec
	if dc == nil {
		dc = codec.Msgpack[codec.Dictionary]{}
	}
	if cfg.HardMaxCacheSizeMB > 0 {
		// a dictionary larger than the whole cache cannot have been stored by us
		dc = codec.Limit[codec.Dictionary]{Inner: dc, MaxDecode: cfg.HardMaxCacheSizeMB << 20}
	}
	return &Provider{Store: store.New(kv{c: c}, store.Options{Codec: dc, Now: cfg.Now})}, nil
}

type kv struct{ c *bc.BigCache }

func (k kv) Get(key string) ([]byte, bool) {
	b, err := k.c.Get(key)
	if err != nil {
		return nil, false
	}
	return b, true
}

// bigcache applies its global LifeWindow; the frame carries the real expiry.
func (k kv) Set(key string, value []byte, _ time.Duration) bool {
	return k.c.Set(key, value) == nil
}

func (k kv) Del(key string) { _ = k.c.Delete(key) }

func (k kv) Close() error { return k.c.Close() }
