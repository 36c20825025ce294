// Package momentoredis lets code written against the go-redis command
// surface run on a Momento cache (or any provider.Provider).
//
// Components:
//   - Client: go-redis shaped methods (Get, Set, SetArgs, SetNX, Del, HSet,
//     HGetAll, ...) plus Do/Exec for commands in Redis form.
//   - Provider: the backing service primitives (provider/momento,
//     provider/redis, provider/ristretto, provider/bigcache).
//   - Hooks: where backend failures go. A command that fails remotely
//     returns its fallback (redis.Nil, 0, false, empty map) and the
//     *CommandError is published to every registered observer.
//
// Calls that are wrong or unsupported fail synchronously and are never
// published: *UnsupportedCommandError, *UnsupportedOptionError (KEEPTTL, XX,
// GET on SET) and *ArgumentError.
//
// Usage:
//
//	p, _ := momento.New(momento.Config{DefaultTTL: time.Hour})
//	c, _ := momentoredis.New(momentoredis.Options{Provider: p, CacheName: "sessions"})
//	c.Subscribe(momentoredis.ErrorHook(func(err *momentoredis.CommandError) { log.Print(err) }))
//	_ = c.Connect(ctx)
//
//	var rdb momentoredis.Commander = c
//	rdb.Set(ctx, "k", "v", time.Minute)
//	v, err := rdb.Get(ctx, "k").Result() // err == redis.Nil on a miss
//
// Known gaps: DEL counts absent keys as deleted, and HSET counts every
// field written rather than only new ones; the backend reports neither.
// A PXAT deadline at least one second away is floored to whole seconds, so
// the key can expire up to 999ms early. PX keeps millisecond precision.
package momentoredis
