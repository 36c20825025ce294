package momentoredis

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// cmdErr is the error a go-redis Cmd carries for r: the usage error, the
// remote error when Options.ReturnRemoteErrors is set, or redis.Nil for an
// absent value.
func cmdErr[T any](c *Client, r Result[T]) error {
	switch {
	case r.outcome == UsageViolation:
		return r.err
	case r.outcome == RemoteFailure && c.returnRemoteErrors:
		return r.err
	case r.absent:
		return redis.Nil
	}
	return nil
}

func (c *Client) Get(ctx context.Context, key string) *redis.StringCmd {
	r := c.get(ctx, "GET", key)
	return redis.NewStringResult(string(r.val), cmdErr(c, r))
}

// Set follows go-redis: expiration > 0 sets a TTL (millisecond precision
// when it is not whole seconds), redis.KeepTTL asks for KEEPTTL and is
// rejected, zero means no expiry.
func (c *Client) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd {
	r := c.set(ctx, "SET", key, value, expirationOptions(expiration))
	return redis.NewStatusResult(r.val, cmdErr(c, r))
}

func (c *Client) SetArgs(ctx context.Context, key string, value interface{}, a redis.SetArgs) *redis.StatusCmd {
	o, err := setArgsOptions(a)
	if err != nil {
		return redis.NewStatusResult("", c.usage(err))
	}
	r := c.set(ctx, "SET", key, value, o)
	return redis.NewStatusResult(r.val, cmdErr(c, r))
}

// SetWithOptions takes the SET modifiers by their Redis names.
func (c *Client) SetWithOptions(ctx context.Context, key string, value interface{}, o SetOptions) *redis.StatusCmd {
	r := c.set(ctx, "SET", key, value, o)
	return redis.NewStatusResult(r.val, cmdErr(c, r))
}

func (c *Client) SetEx(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd {
	secs := formatSec(expiration)
	if secs <= 0 {
		return redis.NewStatusResult("", c.usage(argErr("SETEX", "invalid expire time in 'setex' command")))
	}
	r := c.set(ctx, "SETEX", key, value, SetOptions{EX: secs})
	return redis.NewStatusResult(r.val, cmdErr(c, r))
}

// SetNX stores value only if key is absent. expiration <= 0 stores without
// a TTL; redis.KeepTTL is rejected.
func (c *Client) SetNX(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.BoolCmd {
	if expiration == redis.KeepTTL {
		return redis.NewBoolResult(false, c.usage(&UnsupportedOptionError{Command: "SETNX", Option: "KEEPTTL"}))
	}
	if expiration < 0 {
		expiration = 0
	}
	r := c.setNX(ctx, key, value, expiration)
	return redis.NewBoolResult(r.val, cmdErr(c, r))
}

func (c *Client) Del(ctx context.Context, keys ...string) *redis.IntCmd {
	r := c.del(ctx, keys)
	return redis.NewIntResult(r.val, cmdErr(c, r))
}

// HSet accepts field/value pairs, a []string or []any of pairs, a map, a
// struct with `redis` tags, or a map-like value with a Range method.
// The reply counts every field written, not only new ones.
func (c *Client) HSet(ctx context.Context, key string, values ...interface{}) *redis.IntCmd {
	r := c.hset(ctx, "HSET", key, values)
	return redis.NewIntResult(r.val, cmdErr(c, r))
}

func (c *Client) HMSet(ctx context.Context, key string, values ...interface{}) *redis.BoolCmd {
	r := c.hset(ctx, "HMSET", key, values)
	return redis.NewBoolResult(r.outcome == Success, cmdErr(c, r))
}

func (c *Client) HGetAll(ctx context.Context, key string) *redis.MapStringStringCmd {
	r := c.hgetall(ctx, key)
	return redis.NewMapStringStringResult(stringMap(r.val), cmdErr(c, r))
}

func (c *Client) HGet(ctx context.Context, key, field string) *redis.StringCmd {
	r := c.hget(ctx, key, field)
	return redis.NewStringResult(string(r.val), cmdErr(c, r))
}

func (c *Client) HMGet(ctx context.Context, key string, fields ...string) *redis.SliceCmd {
	r := c.hmget(ctx, key, fields)
	return redis.NewSliceResult(textSlots(r.val), cmdErr(c, r))
}

func (c *Client) Incr(ctx context.Context, key string) *redis.IntCmd {
	return c.intCmd(c.incrBy(ctx, "INCR", key, 1))
}

func (c *Client) IncrBy(ctx context.Context, key string, value int64) *redis.IntCmd {
	return c.intCmd(c.incrBy(ctx, "INCRBY", key, value))
}

func (c *Client) Decr(ctx context.Context, key string) *redis.IntCmd {
	return c.intCmd(c.incrBy(ctx, "DECR", key, -1))
}

func (c *Client) DecrBy(ctx context.Context, key string, decrement int64) *redis.IntCmd {
	return c.intCmd(c.incrBy(ctx, "DECRBY", key, -decrement))
}

func (c *Client) intCmd(r Result[int64]) *redis.IntCmd {
	return redis.NewIntResult(r.val, cmdErr(c, r))
}
