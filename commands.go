package momentoredis

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"
)

const statusOK = "OK"

func (c *Client) get(ctx context.Context, cmd, key string) Result[[]byte] {
	v, found, err := c.p.Get(ctx, c.cacheName, key)
	if err != nil {
		return remoteResult[[]byte](nil, true, c.remote(cmd, key, err))
	}
	if !found {
		return absentResult[[]byte]()
	}
	return okResult(v)
}

// set stores value under key. With NX the reply is absent when the key
// already existed.
func (c *Client) set(ctx context.Context, cmd, key string, value any, o SetOptions) Result[string] {
	if opt := o.unsupported(); opt != "" {
		return usageResult[string](c.usage(&UnsupportedOptionError{Command: cmd, Option: opt}))
	}
	b, good := valueBytes(value)
	if !good {
		return usageResult[string](c.usage(argErr(cmd, "can't marshal %T", value)))
	}
	ttl, expired, err := o.ttl(cmd, c.now())
	if err != nil {
		return usageResult[string](c.usage(err))
	}

	if expired {
		return c.setExpired(ctx, cmd, key, o.NX)
	}
	if o.NX {
		stored, err := c.p.SetIfNotExists(ctx, c.cacheName, key, b, ttl)
		if err != nil {
			return remoteResult("", true, c.remote(cmd, key, err))
		}
		if !stored {
			return absentResult[string]()
		}
		return okResult(statusOK)
	}
	if err := c.p.Set(ctx, c.cacheName, key, b, ttl); err != nil {
		return remoteResult("", true, c.remote(cmd, key, err))
	}
	return okResult(statusOK)
}

// setExpired handles an absolute expiry already in the past: the write is
// observable only as the key being gone.
func (c *Client) setExpired(ctx context.Context, cmd, key string, nx bool) Result[string] {
	if nx {
		_, found, err := c.p.Get(ctx, c.cacheName, key)
		if err != nil {
			return remoteResult("", true, c.remote(cmd, key, err))
		}
		if found {
			return absentResult[string]()
		}
		return okResult(statusOK)
	}
	if err := c.p.Delete(ctx, c.cacheName, key); err != nil {
		return remoteResult("", true, c.remote(cmd, key, err))
	}
	return okResult(statusOK)
}

func (c *Client) setNX(ctx context.Context, key string, value any, ttl time.Duration) Result[bool] {
	b, good := valueBytes(value)
	if !good {
		return usageResult[bool](c.usage(argErr("SETNX", "can't marshal %T", value)))
	}
	stored, err := c.p.SetIfNotExists(ctx, c.cacheName, key, b, ttl)
	if err != nil {
		return remoteResult(false, false, c.remote("SETNX", key, err))
	}
	return okResult(stored)
}

// del removes keys one request per key, concurrently when there are several.
// Each acknowledged delete counts 1, absent keys included; failures count 0
// and do not stop the others.
func (c *Client) del(ctx context.Context, keys []string) Result[int64] {
	if len(keys) == 0 {
		return usageResult[int64](c.usage(argErr("DEL", "wrong number of arguments")))
	}
	if len(keys) == 1 {
		if err := c.p.Delete(ctx, c.cacheName, keys[0]); err != nil {
			return remoteResult(int64(0), false, c.remote("DEL", keys[0], err))
		}
		return okResult(int64(1))
	}

	errs := make([]*CommandError, len(keys))
	var g errgroup.Group
	g.SetLimit(c.deleteConcurrency)
	for i, key := range keys {
		g.Go(func() error {
			if err := c.p.Delete(ctx, c.cacheName, key); err != nil {
				errs[i] = c.remote("DEL", key, err)
			}
			return nil
		})
	}
	_ = g.Wait()

	var deleted int64
	var first *CommandError
	for _, e := range errs {
		if e == nil {
			deleted++
		} else if first == nil {
			first = e
		}
	}
	if first == nil {
		return okResult(deleted)
	}
	c.obs.each(func(h Hooks) { h.PartialDelete(c.cacheName, len(keys), int(deleted)) })
	return remoteResult(deleted, false, first)
}

// hset writes every normalized field and replies with the number of distinct
// fields in the call. Redis counts only newly created fields; the backend
// does not report that.
func (c *Client) hset(ctx context.Context, cmd, key string, values []any) Result[int64] {
	fields, err := hashFields(cmd, values)
	if err != nil {
		return usageResult[int64](c.usage(err))
	}
	if err := c.p.DictionarySetFields(ctx, c.cacheName, key, fields); err != nil {
		return remoteResult(int64(0), false, c.remote(cmd, key, err))
	}
	return okResult(int64(len(fields)))
}

// hgetall never reports absent: a missing hash is an empty mapping.
func (c *Client) hgetall(ctx context.Context, key string) Result[map[string][]byte] {
	m, found, err := c.p.DictionaryFetch(ctx, c.cacheName, key)
	if err != nil {
		return remoteResult(map[string][]byte{}, false, c.remote("HGETALL", key, err))
	}
	if !found || m == nil {
		return okResult(map[string][]byte{})
	}
	return okResult(m)
}

func (c *Client) hget(ctx context.Context, key, field string) Result[[]byte] {
	m, found, err := c.p.DictionaryFetch(ctx, c.cacheName, key)
	if err != nil {
		return remoteResult[[]byte](nil, true, c.remote("HGET", key, err))
	}
	if !found {
		return absentResult[[]byte]()
	}
	v, ok := m[field]
	if !ok {
		return absentResult[[]byte]()
	}
	return okResult(v)
}

// hmget replies positionally with []byte values; a missing field or hash
// gives a nil slot.
func (c *Client) hmget(ctx context.Context, key string, fields []string) Result[[]any] {
	if len(fields) == 0 {
		return usageResult[[]any](c.usage(argErr("HMGET", "wrong number of arguments")))
	}
	out := make([]any, len(fields))
	m, _, err := c.p.DictionaryFetch(ctx, c.cacheName, key)
	if err != nil {
		return remoteResult(out, false, c.remote("HMGET", key, err))
	}
	for i, f := range fields {
		if v, ok := m[f]; ok {
			if v == nil {
				v = []byte{}
			}
			out[i] = v
		}
	}
	return okResult(out)
}

func (c *Client) incrBy(ctx context.Context, cmd, key string, amount int64) Result[int64] {
	n, err := c.p.Increment(ctx, c.cacheName, key, amount)
	if err != nil {
		return remoteResult(int64(0), false, c.remote(cmd, key, err))
	}
	return okResult(n)
}
