package momentoredis

import (
	"context"

	"github.com/redis/go-redis/v9"
)

// Exec runs a command given in Redis form, e.g.
//
//	c.Exec(ctx, "SET", "k", "v", "EX", 10, "NX")
//	c.Exec(ctx, momentoredis.CommandOptions{ReturnBuffers: true}, "GET", "k")
//
// Commands outside the translated set fail with *UnsupportedCommandError
// before anything is sent.
func (c *Client) Exec(ctx context.Context, args ...any) Result[any] {
	rb, args := extractCommandOptions(args)
	if len(args) == 0 {
		return usageResult[any](c.usage(argErr("", "empty command")))
	}
	name, good := valueString(args[0])
	if !good {
		return usageResult[any](c.usage(argErr("", "command name must be a string, got %T", args[0])))
	}
	h, err := lookup(name)
	if err != nil {
		return usageResult[any](c.usage(err))
	}
	return h(c, ctx, rb, args[1:])
}

// Do is Exec shaped like go-redis Client.Do.
func (c *Client) Do(ctx context.Context, args ...interface{}) *redis.Cmd {
	r := c.Exec(ctx, args...)
	return redis.NewCmdResult(r.val, cmdErr(c, r))
}

func keyArg(cmd string, v any) (string, error) {
	s, good := valueString(v)
	if !good {
		return "", argErr(cmd, "invalid key type %T", v)
	}
	return s, nil
}

func arity(cmd string, args []any, n int) error {
	if len(args) != n {
		return argErr(cmd, "wrong number of arguments")
	}
	return nil
}

func execGet(c *Client, ctx context.Context, rb bool, args []any) Result[any] {
	if err := arity("GET", args, 1); err != nil {
		return usageResult[any](c.usage(err))
	}
	key, err := keyArg("GET", args[0])
	if err != nil {
		return usageResult[any](c.usage(err))
	}
	r := c.get(ctx, "GET", key)
	out := anyResult(r)
	if !out.absent && out.outcome == Success {
		out.val = reply(r.val, rb)
	}
	return out
}

func execSet(c *Client, ctx context.Context, _ bool, args []any) Result[any] {
	if len(args) < 2 {
		return usageResult[any](c.usage(argErr("SET", "wrong number of arguments")))
	}
	key, err := keyArg("SET", args[0])
	if err != nil {
		return usageResult[any](c.usage(err))
	}
	var o SetOptions
	if len(args) == 3 {
		switch so := args[2].(type) {
		case SetOptions:
			o = so
		case *SetOptions:
			if so != nil {
				o = *so
			}
		default:
			o, err = parseSetTokens(args[2:])
		}
	} else {
		o, err = parseSetTokens(args[2:])
	}
	if err != nil {
		return usageResult[any](c.usage(err))
	}
	return anyResult(c.set(ctx, "SET", key, args[1], o))
}

func execSetNX(c *Client, ctx context.Context, _ bool, args []any) Result[any] {
	if err := arity("SETNX", args, 2); err != nil {
		return usageResult[any](c.usage(err))
	}
	key, err := keyArg("SETNX", args[0])
	if err != nil {
		return usageResult[any](c.usage(err))
	}
	r := c.setNX(ctx, key, args[1], 0)
	out := anyResult(r)
	if out.outcome != UsageViolation {
		var n int64
		if r.val {
			n = 1
		}
		out.val = n
	}
	return out
}

// execSetEx handles SETEX key seconds value and PSETEX key ms value.
func execSetEx(cmd string, millis bool) handler {
	return func(c *Client, ctx context.Context, _ bool, args []any) Result[any] {
		if err := arity(cmd, args, 3); err != nil {
			return usageResult[any](c.usage(err))
		}
		key, err := keyArg(cmd, args[0])
		if err != nil {
			return usageResult[any](c.usage(err))
		}
		n, good := argInt(args[1])
		if !good {
			return usageResult[any](c.usage(argErr(cmd, "value is not an integer or out of range")))
		}
		if n <= 0 {
			return usageResult[any](c.usage(argErr(cmd, "invalid expire time in '%s' command", cmd)))
		}
		o := SetOptions{EX: n}
		if millis {
			o = SetOptions{PX: n}
		}
		return anyResult(c.set(ctx, cmd, key, args[2], o))
	}
}

func execDel(c *Client, ctx context.Context, _ bool, args []any) Result[any] {
	keys := make([]string, 0, len(args))
	for _, a := range args {
		if ks, isSlice := a.([]string); isSlice {
			keys = append(keys, ks...)
			continue
		}
		k, err := keyArg("DEL", a)
		if err != nil {
			return usageResult[any](c.usage(err))
		}
		keys = append(keys, k)
	}
	return anyResult(c.del(ctx, keys))
}

func execHSet(cmd string) handler {
	return func(c *Client, ctx context.Context, _ bool, args []any) Result[any] {
		if len(args) < 2 {
			return usageResult[any](c.usage(argErr(cmd, "wrong number of arguments")))
		}
		key, err := keyArg(cmd, args[0])
		if err != nil {
			return usageResult[any](c.usage(err))
		}
		r := anyResult(c.hset(ctx, cmd, key, args[1:]))
		if cmd == "HMSET" && r.outcome == Success {
			r.val = statusOK
		}
		return r
	}
}

func execHGetAll(c *Client, ctx context.Context, rb bool, args []any) Result[any] {
	if err := arity("HGETALL", args, 1); err != nil {
		return usageResult[any](c.usage(err))
	}
	key, err := keyArg("HGETALL", args[0])
	if err != nil {
		return usageResult[any](c.usage(err))
	}
	r := c.hgetall(ctx, key)
	out := anyResult(r)
	if rb {
		out.val = r.val
	} else {
		out.val = stringMap(r.val)
	}
	return out
}

func execHGet(c *Client, ctx context.Context, rb bool, args []any) Result[any] {
	if err := arity("HGET", args, 2); err != nil {
		return usageResult[any](c.usage(err))
	}
	key, err := keyArg("HGET", args[0])
	if err != nil {
		return usageResult[any](c.usage(err))
	}
	field, err := keyArg("HGET", args[1])
	if err != nil {
		return usageResult[any](c.usage(err))
	}
	r := c.hget(ctx, key, field)
	out := anyResult(r)
	if !out.absent && out.outcome == Success {
		out.val = reply(r.val, rb)
	}
	return out
}

func execHMGet(c *Client, ctx context.Context, rb bool, args []any) Result[any] {
	if len(args) < 2 {
		return usageResult[any](c.usage(argErr("HMGET", "wrong number of arguments")))
	}
	key, err := keyArg("HMGET", args[0])
	if err != nil {
		return usageResult[any](c.usage(err))
	}
	fields := make([]string, 0, len(args)-1)
	for _, a := range args[1:] {
		f, err := keyArg("HMGET", a)
		if err != nil {
			return usageResult[any](c.usage(err))
		}
		fields = append(fields, f)
	}
	r := c.hmget(ctx, key, fields)
	out := anyResult(r)
	if out.outcome != UsageViolation && !rb {
		out.val = textSlots(r.val)
	}
	return out
}

func execIncr(cmd string, sign int64) handler {
	return func(c *Client, ctx context.Context, _ bool, args []any) Result[any] {
		if err := arity(cmd, args, 1); err != nil {
			return usageResult[any](c.usage(err))
		}
		key, err := keyArg(cmd, args[0])
		if err != nil {
			return usageResult[any](c.usage(err))
		}
		return anyResult(c.incrBy(ctx, cmd, key, sign))
	}
}

func execIncrBy(cmd string, sign int64) handler {
	return func(c *Client, ctx context.Context, _ bool, args []any) Result[any] {
		if err := arity(cmd, args, 2); err != nil {
			return usageResult[any](c.usage(err))
		}
		key, err := keyArg(cmd, args[0])
		if err != nil {
			return usageResult[any](c.usage(err))
		}
		n, good := argInt(args[1])
		if !good {
			return usageResult[any](c.usage(argErr(cmd, "value is not an integer or out of range")))
		}
		return anyResult(c.incrBy(ctx, cmd, key, sign*n))
	}
}

func stringMap(m map[string][]byte) map[string]string {
	out := make(map[string]string, len(m))
	for k, v := range m {
		out[k] = string(v)
	}
	return out
}

// textSlots turns the []byte slots of an HMGET reply into strings, keeping nils.
func textSlots(slots []any) []any {
	out := make([]any, len(slots))
	for i, s := range slots {
		if b, isBytes := s.([]byte); isBytes {
			out[i] = string(b)
		}
	}
	return out
}
