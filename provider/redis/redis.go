// Package redis backs momentoredis with a Redis server reached through
// go-redis. Keys are scoped as "<cache>:<key>".
package redis

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/momentohq/momento-redis-go/internal/util"
	pr "github.com/momentohq/momento-redis-go/provider"
)

type Redis struct {
	rdb         goredis.UniversalClient
	closeClient bool
}

var _ pr.Provider = (*Redis)(nil)

type Config struct {
	Client      goredis.UniversalClient
	CloseClient bool // set true only if this provider exclusively owns the client
}

func New(cfg Config) (*Redis, error) {
	if cfg.Client == nil {
		return nil, pr.ErrNilClient
	}
	return &Redis{rdb: cfg.Client, closeClient: cfg.CloseClient}, nil
}

// NewFromURL parses a redis:// URL, pings the server and returns a provider
// that owns the client.
func NewFromURL(ctx context.Context, url string) (*Redis, error) {
	opts, err := goredis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("redis provider: parse url: %w", err)
	}
	client := goredis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis provider: ping: %w", err)
	}
	return &Redis{rdb: client, closeClient: true}, nil
}

func (p *Redis) Get(ctx context.Context, cacheName, key string) ([]byte, bool, error) {
	b, err := p.rdb.Get(ctx, util.StorageKey(cacheName, key)).Bytes()
	if err == goredis.Nil {
		return nil, false, nil // miss
	}
	if err != nil {
		return nil, false, mapErr(err) // transport/server error
	}
	return b, true, nil
}

func (p *Redis) Set(ctx context.Context, cacheName, key string, value []byte, ttl time.Duration) error {
	if ttl < 0 {
		ttl = 0 // negative would mean KEEPTTL to go-redis; the contract says "default"
	}
	return mapErr(p.rdb.Set(ctx, util.StorageKey(cacheName, key), value, ttl).Err())
}

func (p *Redis) SetIfNotExists(ctx context.Context, cacheName, key string, value []byte, ttl time.Duration) (bool, error) {
	if ttl < 0 {
		ttl = 0
	}
	ok, err := p.rdb.SetNX(ctx, util.StorageKey(cacheName, key), value, ttl).Result()
	if err != nil {
		return false, mapErr(err)
	}
	return ok, nil
}

func (p *Redis) Delete(ctx context.Context, cacheName, key string) error {
	return mapErr(p.rdb.Del(ctx, util.StorageKey(cacheName, key)).Err())
}

func (p *Redis) Increment(ctx context.Context, cacheName, key string, amount int64) (int64, error) {
	n, err := p.rdb.IncrBy(ctx, util.StorageKey(cacheName, key), amount).Result()
	if err != nil {
		return 0, mapErr(err)
	}
	return n, nil
}

func (p *Redis) DictionaryFetch(ctx context.Context, cacheName, name string) (map[string][]byte, bool, error) {
	m, err := p.rdb.HGetAll(ctx, util.StorageKey(cacheName, name)).Result()
	if err != nil {
		return nil, false, mapErr(err)
	}
	if len(m) == 0 {
		return nil, false, nil // redis has no empty hashes
	}
	out := make(map[string][]byte, len(m))
	for f, v := range m {
		out[f] = []byte(v)
	}
	return out, true, nil
}

func (p *Redis) DictionarySetFields(ctx context.Context, cacheName, name string, fields map[string][]byte) error {
	if len(fields) == 0 {
		return nil
	}
	values := make(map[string]any, len(fields))
	for f, v := range fields {
		values[f] = v
	}
	return mapErr(p.rdb.HSet(ctx, util.StorageKey(cacheName, name), values).Err())
}

// Close releases the underlying redis client only when this provider owns it.
// Safe to call multiple times; repeated calls become no-ops.
func (p *Redis) Close(context.Context) error {
	if p.closeClient {
		if err := p.rdb.Close(); err != nil && !errors.Is(err, goredis.ErrClosed) {
			return err
		}
	}
	return nil
}

// mapErr folds server replies that have a provider sentinel into it, keeping
// the server text.
func mapErr(err error) error {
	if err == nil {
		return nil
	}
	msg := err.Error()
	switch {
	case strings.HasPrefix(msg, "WRONGTYPE"):
		return fmt.Errorf("%w: %s", pr.ErrWrongType, msg)
	case strings.Contains(msg, "not an integer") || strings.Contains(msg, "overflow"):
		return fmt.Errorf("%w: %s", pr.ErrNotInteger, msg)
	}
	return err
}
