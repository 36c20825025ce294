package momentoredis

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	pr "github.com/momentohq/momento-redis-go/provider"
)

// Commander is the slice of the go-redis command surface this package
// translates. Both *redis.Client and *Client satisfy it, so code written
// against Commander runs on either.
type Commander interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	SetArgs(ctx context.Context, key string, value interface{}, a redis.SetArgs) *redis.StatusCmd
	SetEx(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	SetNX(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.BoolCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd

	HSet(ctx context.Context, key string, values ...interface{}) *redis.IntCmd
	HMSet(ctx context.Context, key string, values ...interface{}) *redis.BoolCmd
	HGetAll(ctx context.Context, key string) *redis.MapStringStringCmd
	HGet(ctx context.Context, key, field string) *redis.StringCmd
	HMGet(ctx context.Context, key string, fields ...string) *redis.SliceCmd

	Incr(ctx context.Context, key string) *redis.IntCmd
	IncrBy(ctx context.Context, key string, value int64) *redis.IntCmd
	Decr(ctx context.Context, key string) *redis.IntCmd
	DecrBy(ctx context.Context, key string, decrement int64) *redis.IntCmd

	Do(ctx context.Context, args ...interface{}) *redis.Cmd
}

var (
	_ Commander = (*redis.Client)(nil)
	_ Commander = (*Client)(nil)
)

// Options configure a Client. Only Provider is required.
type Options struct {
	Provider  pr.Provider
	CacheName string // "" => "cache"

	Logger Logger // nil => NopLogger
	Hooks  Hooks  // registered before any command; more via Client.Subscribe

	// ReturnRemoteErrors also sets the published *CommandError on the
	// returned go-redis Cmd. By default a backend failure only reaches Hooks
	// and the Cmd carries the fallback value.
	ReturnRemoteErrors bool

	DeleteConcurrency int              // parallel per-key deletes in DEL; 0 => 16
	CloseProvider     bool             // Close also closes Provider
	Now               func() time.Time // clock for EXAT/PXAT; nil => time.Now
}

func New(opts Options) (*Client, error) {
	return newClient(opts)
}
