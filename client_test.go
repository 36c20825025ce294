package momentoredis

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	pr "github.com/momentohq/momento-redis-go/provider"
)

var ctx = context.Background()

func TestNewRequiresProvider(t *testing.T) {
	if _, err := New(Options{}); !errors.Is(err, ErrNilProvider) {
		t.Fatalf("expected ErrNilProvider, got %v", err)
	}
	c, err := New(Options{Provider: newFakeProvider(&fakeClock{})})
	if err != nil {
		t.Fatal(err)
	}
	if c.CacheName() != "cache" {
		t.Fatalf("default cache name: %q", c.CacheName())
	}
}

func TestGetUnwrittenKeyIsAbsent(t *testing.T) {
	h := newHarness(t)
	key := uuid.NewString()

	if _, err := h.c.Get(ctx, key).Result(); err != redis.Nil {
		t.Fatalf("expected redis.Nil, got %v", err)
	}
	r := h.c.Exec(ctx, "GET", key)
	if !r.Absent() || r.Outcome() != Success || r.Val() != nil {
		t.Fatalf("exec: absent=%v outcome=%v val=%v", r.Absent(), r.Outcome(), r.Val())
	}
}

func TestSetGetRoundTripTextAndBuffers(t *testing.T) {
	h := newHarness(t)
	key := uuid.NewString()

	if err := h.c.Set(ctx, key, "value", 0).Err(); err != nil {
		t.Fatal(err)
	}
	if v, err := h.c.Get(ctx, key).Result(); err != nil || v != "value" {
		t.Fatalf("got %q err=%v", v, err)
	}
	if v := h.c.Exec(ctx, "GET", key).Val(); v != "value" {
		t.Fatalf("text reply: %#v", v)
	}
	buf := h.c.Exec(ctx, CommandOptions{ReturnBuffers: true}, "GET", key).Val()
	if b, isBytes := buf.([]byte); !isBytes || string(b) != "value" {
		t.Fatalf("buffer reply: %#v", buf)
	}
	if v := h.c.Exec(ctx, &CommandOptions{}, "GET", key).Val(); v != "value" {
		t.Fatalf("pointer options without ReturnBuffers: %#v", v)
	}

	raw := []byte{0, 0xff, 'x'}
	_ = h.c.Set(ctx, key, raw, 0)
	b, err := h.c.Get(ctx, key).Bytes()
	if err != nil || string(b) != string(raw) {
		t.Fatalf("raw bytes: %v err=%v", b, err)
	}
}

func TestSetCoercesNumbers(t *testing.T) {
	h := newHarness(t)
	_ = h.c.Set(ctx, "n", 42, 0)
	if v, _ := h.c.Get(ctx, "n").Result(); v != "42" {
		t.Fatalf("got %q", v)
	}
	_ = h.c.Set(ctx, "f", 1.5, 0)
	if v, _ := h.c.Get(ctx, "f").Result(); v != "1.5" {
		t.Fatalf("got %q", v)
	}
	if err := h.c.Set(ctx, "bad", struct{}{}, 0).Err(); !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("expected ArgumentError, got %v", err)
	}
}

func TestSetNXOncePerKey(t *testing.T) {
	h := newHarness(t)
	key := uuid.NewString()

	if ok, err := h.c.SetNX(ctx, key, "first", 0).Result(); err != nil || !ok {
		t.Fatalf("first: ok=%v err=%v", ok, err)
	}
	if ok, _ := h.c.SetNX(ctx, key, "second", 0).Result(); ok {
		t.Fatalf("second SetNX must not store")
	}
	if v, _ := h.c.Get(ctx, key).Result(); v != "first" {
		t.Fatalf("value overwritten: %q", v)
	}
	_ = h.c.Del(ctx, key)
	if ok, _ := h.c.SetNX(ctx, key, "third", 0).Result(); !ok {
		t.Fatalf("SetNX after delete must store")
	}

	if n := h.c.Exec(ctx, "SETNX", key, "x").Val(); n != int64(0) {
		t.Fatalf("exec SETNX on existing key: %#v", n)
	}
	if n := h.c.Exec(ctx, "SETNX", uuid.NewString(), "x").Val(); n != int64(1) {
		t.Fatalf("exec SETNX on new key: %#v", n)
	}

	if err := h.c.SetNX(ctx, key, "v", redis.KeepTTL).Err(); !errors.Is(err, ErrUnsupported) {
		t.Fatalf("KeepTTL: %v", err)
	}
}

func TestSetNXExpiryAllowsNewWriter(t *testing.T) {
	h := newHarness(t)
	if ok, _ := h.c.SetNX(ctx, "lock", "a", 2*time.Second).Result(); !ok {
		t.Fatal("first SetNX")
	}
	h.clk.Advance(2 * time.Second)
	if ok, _ := h.c.SetNX(ctx, "lock", "b", 0).Result(); !ok {
		t.Fatal("SetNX after expiry must store")
	}
}

func TestSetWithNXOption(t *testing.T) {
	h := newHarness(t)
	if v, err := h.c.SetWithOptions(ctx, "k", "a", SetOptions{NX: true}).Result(); err != nil || v != "OK" {
		t.Fatalf("v=%q err=%v", v, err)
	}
	if _, err := h.c.SetWithOptions(ctx, "k", "b", SetOptions{NX: true}).Result(); err != redis.Nil {
		t.Fatalf("expected redis.Nil when not stored, got %v", err)
	}
	r := h.c.Exec(ctx, "SET", "k", "c", "NX")
	if !r.Absent() {
		t.Fatalf("exec SET NX on existing key should be absent, got %#v", r.Val())
	}
	if v, _ := h.c.Get(ctx, "k").Result(); v != "a" {
		t.Fatalf("got %q", v)
	}
}

func TestExpiryVariants(t *testing.T) {
	cases := []struct {
		name  string
		set   func(h harness, key string) error
		alive time.Duration
	}{
		{"EX", func(h harness, k string) error {
			return h.c.SetWithOptions(ctx, k, "v", SetOptions{EX: 10}).Err()
		}, 10 * time.Second},
		{"PX", func(h harness, k string) error {
			return h.c.SetWithOptions(ctx, k, "v", SetOptions{PX: 1500}).Err()
		}, 1500 * time.Millisecond},
		{"EXAT", func(h harness, k string) error {
			return h.c.SetWithOptions(ctx, k, "v", SetOptions{EXAT: h.clk.Now().Unix() + 5}).Err()
		}, 5 * time.Second},
		{"PXAT", func(h harness, k string) error {
			return h.c.SetWithOptions(ctx, k, "v", SetOptions{PXAT: h.clk.Now().UnixMilli() + 3000}).Err()
		}, 3 * time.Second},
		{"go-redis expiration", func(h harness, k string) error {
			return h.c.Set(ctx, k, "v", 250*time.Millisecond).Err()
		}, 250 * time.Millisecond},
		{"SetArgs TTL", func(h harness, k string) error {
			return h.c.SetArgs(ctx, k, "v", redis.SetArgs{TTL: 7 * time.Second}).Err()
		}, 7 * time.Second},
		{"SetArgs ExpireAt", func(h harness, k string) error {
			return h.c.SetArgs(ctx, k, "v", redis.SetArgs{ExpireAt: h.clk.Now().Add(4 * time.Second)}).Err()
		}, 4 * time.Second},
		{"SetEx", func(h harness, k string) error {
			return h.c.SetEx(ctx, k, "v", 3*time.Second).Err()
		}, 3 * time.Second},
		{"token EX", func(h harness, k string) error {
			return h.c.Exec(ctx, "SET", k, "v", "ex", "6").Err()
		}, 6 * time.Second},
		{"PSETEX", func(h harness, k string) error {
			return h.c.Exec(ctx, "PSETEX", k, 800, "v").Err()
		}, 800 * time.Millisecond},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			h := newHarness(t)
			key := uuid.NewString()
			if err := tc.set(h, key); err != nil {
				t.Fatalf("set: %v", err)
			}
			if v, err := h.c.Get(ctx, key).Result(); err != nil || v != "v" {
				t.Fatalf("immediately after set: %q err=%v", v, err)
			}
			h.clk.Advance(tc.alive - time.Millisecond)
			if _, err := h.c.Get(ctx, key).Result(); err != nil {
				t.Fatalf("before expiry: %v", err)
			}
			h.clk.Advance(time.Millisecond)
			if _, err := h.c.Get(ctx, key).Result(); err != redis.Nil {
				t.Fatalf("after expiry: %v", err)
			}
		})
	}
}

func TestAbsoluteExpiryInThePastDeletes(t *testing.T) {
	h := newHarness(t)
	_ = h.c.Set(ctx, "k", "v", 0)
	v, err := h.c.SetWithOptions(ctx, "k", "new", SetOptions{EXAT: h.clk.Now().Unix() - 1}).Result()
	if err != nil || v != "OK" {
		t.Fatalf("v=%q err=%v", v, err)
	}
	if _, err := h.c.Get(ctx, "k").Result(); err != redis.Nil {
		t.Fatalf("expected key gone, got %v", err)
	}
}

func TestInvalidExpire(t *testing.T) {
	h := newHarness(t)
	for _, args := range [][]any{
		{"SET", "k", "v", "EX", 0},
		{"SET", "k", "v", "PX", -5},
		{"SET", "k", "v", "EX"},
		{"SET", "k", "v", "EX", "ten"},
		{"SET", "k", "v", "EX", 1, "PX", 1},
		{"SET", "k", "v", "NX", "XX"},
		{"SET", "k", "v", "BOGUS"},
		{"SETEX", "k", 0, "v"},
	} {
		if err := h.c.Exec(ctx, args...).Err(); !errors.Is(err, ErrInvalidArgument) {
			t.Fatalf("%v: expected ArgumentError, got %v", args, err)
		}
	}
	if err := h.c.SetWithOptions(ctx, "k", "v", SetOptions{EX: -1}).Err(); !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("negative EX: %v", err)
	}
	if err := h.c.SetEx(ctx, "k", "v", 0).Err(); !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("SetEx zero: %v", err)
	}
	if h.p.calls.Load() != 0 {
		t.Fatalf("invalid calls must not reach the provider")
	}
}

func TestUnsupportedSetOptions(t *testing.T) {
	h := newHarness(t)
	cases := map[string]func() error{
		"KEEPTTL": func() error { return h.c.SetWithOptions(ctx, "k", "v", SetOptions{KEEPTTL: true, EX: 5}).Err() },
		"XX":      func() error { return h.c.SetArgs(ctx, "k", "v", redis.SetArgs{Mode: "xx"}).Err() },
		"GET":     func() error { return h.c.Exec(ctx, "SET", "k", "v", "GET").Err() },
	}
	cases["KEEPTTL via Set"] = func() error { return h.c.Set(ctx, "k", "v", redis.KeepTTL).Err() }
	for name, call := range cases {
		err := call()
		var uo *UnsupportedOptionError
		if !errors.As(err, &uo) {
			t.Fatalf("%s: expected UnsupportedOptionError, got %v", name, err)
		}
		if !strings.HasPrefix(name, uo.Option) || !strings.Contains(err.Error(), uo.Option) {
			t.Fatalf("%s: error should name the option: %v", name, err)
		}
	}
	if h.p.calls.Load() != 0 {
		t.Fatalf("unsupported options must be rejected before any backend call")
	}
	if len(h.rec.failures()) != 0 {
		t.Fatalf("usage errors must not be published")
	}
}

func TestDelCountsPerKey(t *testing.T) {
	h := newHarness(t)
	for _, k := range []string{"a", "b", "c"} {
		_ = h.c.Set(ctx, k, "v", 0)
	}
	if n, err := h.c.Del(ctx, "a", "b", "c").Result(); err != nil || n != 3 {
		t.Fatalf("n=%d err=%v", n, err)
	}
	for _, k := range []string{"a", "b", "c"} {
		if _, err := h.c.Get(ctx, k).Result(); err != redis.Nil {
			t.Fatalf("%s still present", k)
		}
	}
	// parity gap: absent keys count as deleted
	if n := h.c.Del(ctx, uuid.NewString()).Val(); n != 1 {
		t.Fatalf("absent key: n=%d", n)
	}
	if n := h.c.Exec(ctx, "DEL", "x", "y").Val(); n != int64(2) {
		t.Fatalf("exec DEL: %#v", n)
	}
	if err := h.c.Del(ctx).Err(); !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("DEL without keys: %v", err)
	}
}

func TestDelPartialFailure(t *testing.T) {
	h := newHarness(t, func(o *Options) { o.DeleteConcurrency = 2 })
	boom := errors.New("backend down")
	h.p.failWith(func(op, key string) error {
		if op == "delete" && key == "b" {
			return boom
		}
		return nil
	})
	n, err := h.c.Del(ctx, "a", "b", "c", "d").Result()
	if err != nil || n != 3 {
		t.Fatalf("n=%d err=%v", n, err)
	}
	errs := h.rec.failures()
	if len(errs) != 1 || errs[0].Key != "b" || !errors.Is(errs[0], boom) {
		t.Fatalf("published: %v", errs)
	}
	if len(h.rec.partial) != 1 || h.rec.partial[0] != [2]int{4, 3} {
		t.Fatalf("partial: %v", h.rec.partial)
	}
}

func TestDelPublishesEveryFailureConcurrently(t *testing.T) {
	h := newHarness(t, func(o *Options) { o.DeleteConcurrency = 8 })
	boom := errors.New("backend down")
	h.p.failWith(func(op, _ string) error {
		if op == "delete" {
			return boom
		}
		return nil
	})

	keys := make([]string, 32)
	for i := range keys {
		keys[i] = fmt.Sprintf("k%d", i)
	}
	n, err := h.c.Del(ctx, keys...).Result()
	if err != nil || n != 0 {
		t.Fatalf("n=%d err=%v", n, err)
	}

	seen := make(map[string]bool)
	for _, e := range h.rec.failures() {
		seen[e.Key] = true
	}
	if len(h.rec.failures()) != len(keys) || len(seen) != len(keys) {
		t.Fatalf("published %d failures for %d distinct keys, want %d", len(h.rec.failures()), len(seen), len(keys))
	}
	if len(h.rec.partial) != 1 || h.rec.partial[0] != [2]int{len(keys), 0} {
		t.Fatalf("partial: %v", h.rec.partial)
	}
}

type profile struct {
	Name    string  `redis:"name"`
	Age     int     `redis:"age"`
	Email   string  `redis:"email,omitempty"`
	Secret  string  `redis:"-"`
	Score   float64 `redis:"score"`
	Ignored string
}

func TestHSetShapesThenHGetAll(t *testing.T) {
	var sm sync.Map
	sm.Store("name", "ann")
	sm.Store("age", 7)

	want := map[string]string{"name": "ann", "age": "7"}
	cases := map[string][]any{
		"pairs":     {"name", "ann", "age", 7},
		"slice":     {[]string{"name", "ann", "age", "7"}},
		"any slice": {[]any{"name", "ann", "age", 7}},
		"map any":   {map[string]any{"name": "ann", "age": 7}},
		"map str":   {map[string]string{"name": "ann", "age": "7"}},
		"map bytes": {map[string][]byte{"name": []byte("ann"), "age": []byte("7")}},
		"sync.Map":  {&sm},
	}
	for name, values := range cases {
		t.Run(name, func(t *testing.T) {
			h := newHarness(t)
			key := uuid.NewString()
			if n, err := h.c.HSet(ctx, key, values...).Result(); err != nil || n != 2 {
				t.Fatalf("n=%d err=%v", n, err)
			}
			got, err := h.c.HGetAll(ctx, key).Result()
			if err != nil || len(got) != len(want) {
				t.Fatalf("got %v err=%v", got, err)
			}
			for f, v := range want {
				if got[f] != v {
					t.Fatalf("field %s: got %q want %q", f, got[f], v)
				}
			}
		})
	}
}

func TestHSetStruct(t *testing.T) {
	h := newHarness(t)
	if n, err := h.c.HSet(ctx, "p", &profile{Name: "bo", Age: 3, Secret: "x", Score: 2.5}).Result(); err != nil || n != 3 {
		t.Fatalf("n=%d err=%v", n, err)
	}
	got := h.c.HGetAll(ctx, "p").Val()
	if len(got) != 3 || got["name"] != "bo" || got["age"] != "3" || got["score"] != "2.5" {
		t.Fatalf("got %v", got)
	}
}

func TestHashReads(t *testing.T) {
	h := newHarness(t)

	if got, err := h.c.HGetAll(ctx, "missing").Result(); err != nil || len(got) != 0 || got == nil {
		t.Fatalf("missing hash: %v err=%v", got, err)
	}
	if m, isMap := h.c.Exec(ctx, "HGETALL", "missing").Val().(map[string]string); !isMap || len(m) != 0 {
		t.Fatalf("exec missing hash: %#v", m)
	}

	if ok, err := h.c.HMSet(ctx, "h", "a", "1", "b", "2").Result(); err != nil || !ok {
		t.Fatalf("HMSet ok=%v err=%v", ok, err)
	}
	if v, err := h.c.HGet(ctx, "h", "a").Result(); err != nil || v != "1" {
		t.Fatalf("HGet: %q err=%v", v, err)
	}
	if _, err := h.c.HGet(ctx, "h", "zz").Result(); err != redis.Nil {
		t.Fatalf("HGet missing field: %v", err)
	}
	vals, err := h.c.HMGet(ctx, "h", "b", "zz", "a").Result()
	if err != nil || len(vals) != 3 || vals[0] != "2" || vals[1] != nil || vals[2] != "1" {
		t.Fatalf("HMGet: %#v err=%v", vals, err)
	}

	bufs, isMap := h.c.Exec(ctx, CommandOptions{ReturnBuffers: true}, "HGETALL", "h").Val().(map[string][]byte)
	if !isMap || string(bufs["a"]) != "1" {
		t.Fatalf("buffer map: %#v", bufs)
	}
	if v := h.c.Exec(ctx, "HMSET", "h", "c", "3").Val(); v != "OK" {
		t.Fatalf("exec HMSET: %#v", v)
	}
}

func TestHSetArgumentErrors(t *testing.T) {
	h := newHarness(t)
	for name, values := range map[string][]any{
		"odd":       {"a", "1", "b"},
		"empty map": {map[string]string{}},
		"bad value": {"a", struct{}{}},
		"no tags":   {struct{ A string }{"x"}},
	} {
		if err := h.c.HSet(ctx, "h", values...).Err(); !errors.Is(err, ErrInvalidArgument) {
			t.Fatalf("%s: expected ArgumentError, got %v", name, err)
		}
	}
}

func TestCounters(t *testing.T) {
	h := newHarness(t)
	if n := h.c.Incr(ctx, "n").Val(); n != 1 {
		t.Fatalf("incr: %d", n)
	}
	if n := h.c.IncrBy(ctx, "n", 10).Val(); n != 11 {
		t.Fatalf("incrby: %d", n)
	}
	if n := h.c.Decr(ctx, "n").Val(); n != 10 {
		t.Fatalf("decr: %d", n)
	}
	if n := h.c.DecrBy(ctx, "n", 4).Val(); n != 6 {
		t.Fatalf("decrby: %d", n)
	}
	if n := h.c.Exec(ctx, "INCRBY", "n", "4").Val(); n != int64(10) {
		t.Fatalf("exec incrby: %#v", n)
	}
	if v, _ := h.c.Get(ctx, "n").Result(); v != "10" {
		t.Fatalf("stored counter: %q", v)
	}

	_ = h.c.Set(ctx, "word", "monkey", 0)
	n, err := h.c.Incr(ctx, "word").Result()
	if err != nil || n != 0 {
		t.Fatalf("non-integer should fall back to 0 silently: n=%d err=%v", n, err)
	}
	errs := h.rec.failures()
	if len(errs) != 1 || !errors.Is(errs[0], pr.ErrNotInteger) {
		t.Fatalf("published: %v", errs)
	}
}

func TestRemoteFailureIsPublishedNotReturned(t *testing.T) {
	h := newHarness(t)
	boom := errors.New("unavailable")
	h.p.failWith(func(string, string) error { return boom })

	if _, err := h.c.Get(ctx, "k").Result(); err != redis.Nil {
		t.Fatalf("get fallback: %v", err)
	}
	if err := h.c.Set(ctx, "k", "v", 0).Err(); err != redis.Nil {
		t.Fatalf("set fallback: %v", err)
	}
	if ok, err := h.c.SetNX(ctx, "k", "v", 0).Result(); ok || err != nil {
		t.Fatalf("setnx fallback: %v %v", ok, err)
	}
	if n, err := h.c.Del(ctx, "k").Result(); n != 0 || err != nil {
		t.Fatalf("del fallback: %d %v", n, err)
	}
	if m, err := h.c.HGetAll(ctx, "h").Result(); len(m) != 0 || err != nil {
		t.Fatalf("hgetall fallback: %v %v", m, err)
	}
	if n, err := h.c.HSet(ctx, "h", "f", "v").Result(); n != 0 || err != nil {
		t.Fatalf("hset fallback: %d %v", n, err)
	}
	r := h.c.Exec(ctx, "GET", "k")
	if r.Outcome() != RemoteFailure || !errors.Is(r.Err(), boom) {
		t.Fatalf("exec outcome=%v err=%v", r.Outcome(), r.Err())
	}
	if _, err := r.Result(); err != redis.Nil {
		t.Fatalf("exec Result on a failed GET: %v", err)
	}

	errs := h.rec.failures()
	if len(errs) != 7 {
		t.Fatalf("published %d errors, want 7", len(errs))
	}
	wantCmds := []string{"GET", "SET", "SETNX", "DEL", "HGETALL", "HSET", "GET"}
	for i, e := range errs {
		if e.Command != wantCmds[i] {
			t.Fatalf("error %d: command %q want %q", i, e.Command, wantCmds[i])
		}
		var re redis.Error
		if !errors.As(e, &re) {
			t.Fatalf("CommandError should satisfy redis.Error")
		}
	}
}

func TestUnexpectedResponseIsPublished(t *testing.T) {
	h := newHarness(t)
	h.p.failWith(func(op, _ string) error {
		if op == "get" {
			return pr.ErrUnexpectedResponse
		}
		return nil
	})
	_ = h.c.Get(ctx, "k")
	errs := h.rec.failures()
	if len(errs) != 1 || !errors.Is(errs[0], pr.ErrUnexpectedResponse) {
		t.Fatalf("published: %v", errs)
	}
}

func TestReturnRemoteErrors(t *testing.T) {
	h := newHarness(t, func(o *Options) { o.ReturnRemoteErrors = true })
	boom := errors.New("unavailable")
	h.p.failWith(func(string, string) error { return boom })

	err := h.c.Get(ctx, "k").Err()
	var ce *CommandError
	if !errors.As(err, &ce) || ce.Command != "GET" || !errors.Is(err, boom) {
		t.Fatalf("got %v", err)
	}
	if err := h.c.Do(ctx, "INCR", "n").Err(); !errors.Is(err, boom) {
		t.Fatalf("Do: %v", err)
	}
	if len(h.rec.failures()) != 2 {
		t.Fatalf("remote errors are still published")
	}
}

func TestUnsupportedCommands(t *testing.T) {
	h := newHarness(t)

	err := h.c.Exec(ctx, "lpush", "list", "x").Err()
	var uc *UnsupportedCommandError
	if !errors.As(err, &uc) || uc.Command != "LPUSH" || uc.Unknown {
		t.Fatalf("got %v", err)
	}
	if !strings.Contains(err.Error(), "LPUSH") || !errors.Is(err, ErrUnsupported) {
		t.Fatalf("error must name the command: %v", err)
	}

	for _, name := range unsupported {
		if _, dup := translated[name]; dup {
			t.Fatalf("%s is both translated and unsupported", name)
		}
		err := h.c.Exec(ctx, strings.ToLower(name), "k").Err()
		var uc *UnsupportedCommandError
		if !errors.As(err, &uc) || uc.Unknown || uc.Command != name {
			t.Fatalf("%s: got %v", name, err)
		}
		if !strings.Contains(err.Error(), name) || !errors.Is(err, ErrUnsupported) {
			t.Fatalf("%s: error must name the command: %v", name, err)
		}
		if err := h.c.Do(ctx, name).Err(); !errors.As(err, &uc) || uc.Command != name {
			t.Fatalf("%s via Do: %v", name, err)
		}
		if Supports(name) {
			t.Fatalf("%s reported as supported", name)
		}
	}

	err = h.c.Do(ctx, "NOTACOMMAND").Err()
	if !errors.As(err, &uc) || !uc.Unknown {
		t.Fatalf("unknown command: %v", err)
	}
	if err := h.c.Exec(ctx).Err(); !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("empty command: %v", err)
	}
	if h.p.calls.Load() != 0 || len(h.rec.failures()) != 0 {
		t.Fatalf("unsupported commands must not reach the backend or the hooks")
	}

	for _, name := range []string{"get", "SET", "SetNX", "DEL", "HSET", "HGETALL", "INCR"} {
		if !Supports(name) {
			t.Fatalf("%s should be supported", name)
		}
	}
	for _, name := range []string{"LPUSH", "SUBSCRIBE", "EXPIRE", "FOO"} {
		if Supports(name) {
			t.Fatalf("%s should not be supported", name)
		}
	}
}

func TestDoMatchesGoRedisShapes(t *testing.T) {
	h := newHarness(t)
	if v, err := h.c.Do(ctx, "SET", "k", "v").Text(); err != nil || v != "OK" {
		t.Fatalf("SET: %q %v", v, err)
	}
	if v, err := h.c.Do(ctx, "GET", "k").Text(); err != nil || v != "v" {
		t.Fatalf("GET: %q %v", v, err)
	}
	if err := h.c.Do(ctx, "GET", "missing").Err(); err != redis.Nil {
		t.Fatalf("GET missing: %v", err)
	}
	if n, err := h.c.Do(ctx, "DEL", "k").Int64(); err != nil || n != 1 {
		t.Fatalf("DEL: %d %v", n, err)
	}
}

func TestConnectDisconnect(t *testing.T) {
	h := newHarness(t)
	if h.c.IsOpen() {
		t.Fatalf("new client must not be open")
	}
	if err := h.c.Connect(ctx); err != nil || !h.c.IsOpen() {
		t.Fatalf("connect: %v open=%v", err, h.c.IsOpen())
	}
	if err := h.c.Disconnect(ctx); err != nil || h.c.IsOpen() {
		t.Fatalf("disconnect: %v open=%v", err, h.c.IsOpen())
	}
	_ = h.c.Connect(ctx)
	if got := h.rec.opens; len(got) != 3 || !got[0] || got[1] || !got[2] {
		t.Fatalf("open events: %v", got)
	}

	// a failing probe is published but does not fail Connect
	h2 := newHarness(t)
	h2.p.failWith(func(string, string) error { return errors.New("down") })
	if err := h2.c.Connect(ctx); err != nil || !h2.c.IsOpen() {
		t.Fatalf("connect with failing backend: %v", err)
	}
	if len(h2.rec.failures()) != 1 {
		t.Fatalf("probe failure should be published")
	}

	h3 := newHarness(t)
	cctx, cancel := context.WithCancel(ctx)
	cancel()
	if err := h3.c.Connect(cctx); !errors.Is(err, context.Canceled) || h3.c.IsOpen() {
		t.Fatalf("cancelled connect: %v", err)
	}
}

func TestCloseOwnsProviderOnlyWhenAsked(t *testing.T) {
	h := newHarness(t)
	_ = h.c.Close(ctx)
	if h.p.closed.Load() {
		t.Fatalf("provider closed without CloseProvider")
	}
	h2 := newHarness(t, func(o *Options) { o.CloseProvider = true })
	_ = h2.c.Close(ctx)
	if !h2.p.closed.Load() {
		t.Fatalf("provider not closed")
	}
}

func TestSubscribe(t *testing.T) {
	h := newHarness(t)
	var mu sync.Mutex
	var seen []string
	unsub := h.c.Subscribe(ErrorHook(func(err *CommandError) {
		mu.Lock()
		seen = append(seen, err.Command)
		mu.Unlock()
	}))
	h.p.failWith(func(string, string) error { return errors.New("x") })

	_ = h.c.Get(ctx, "k")
	unsub()
	unsub()
	_ = h.c.Get(ctx, "k")

	if len(seen) != 1 {
		t.Fatalf("seen=%v", seen)
	}
	if len(h.rec.failures()) != 2 {
		t.Fatalf("Options.Hooks must stay registered")
	}
}
