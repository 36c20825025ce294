package momentoredis

import (
	"context"
	"strings"
)

// handler runs one translated command. args excludes the command name.
type handler func(c *Client, ctx context.Context, rb bool, args []any) Result[any]

// translated are the commands the client maps onto the provider.
var translated = map[string]handler{
	"GET":     execGet,
	"SET":     execSet,
	"SETNX":   execSetNX,
	"SETEX":   execSetEx("SETEX", false),
	"PSETEX":  execSetEx("PSETEX", true),
	"DEL":     execDel,
	"HSET":    execHSet("HSET"),
	"HMSET":   execHSet("HMSET"),
	"HGETALL": execHGetAll,
	"HGET":    execHGet,
	"HMGET":   execHMGet,
	"INCR":    execIncr("INCR", 1),
	"DECR":    execIncr("DECR", -1),
	"INCRBY":  execIncrBy("INCRBY", 1),
	"DECRBY":  execIncrBy("DECRBY", -1),
}

// unsupported are Redis commands reachable through go-redis that the client
// answers with UnsupportedCommandError.
var unsupported = [...]string{
	"ACL", "APPEND", "AUTH", "BGREWRITEAOF", "BGSAVE", "BITCOUNT", "BITFIELD",
	"BITFIELD_RO", "BITOP", "BITPOS", "BLMOVE", "BLMPOP", "BLPOP", "BRPOP",
	"BRPOPLPUSH", "BZMPOP", "BZPOPMAX", "BZPOPMIN", "CLIENT", "CLUSTER",
	"COMMAND", "CONFIG", "COPY", "DBSIZE", "DEBUG", "DISCARD", "DUMP", "ECHO",
	"EVAL", "EVAL_RO", "EVALSHA", "EVALSHA_RO", "EXEC", "EXISTS", "EXPIRE",
	"EXPIREAT", "EXPIRETIME", "FAILOVER", "FCALL", "FCALL_RO", "FLUSHALL",
	"FLUSHDB", "FUNCTION", "GEOADD", "GEODIST", "GEOHASH", "GEOPOS", "GEORADIUS",
	"GEORADIUS_RO", "GEORADIUSBYMEMBER", "GEORADIUSBYMEMBER_RO", "GEOSEARCH",
	"GEOSEARCHSTORE", "GETBIT", "GETDEL", "GETEX", "GETRANGE", "GETSET", "HDEL",
	"HELLO", "HEXISTS", "HINCRBY", "HINCRBYFLOAT", "HKEYS", "HLEN", "HRANDFIELD",
	"HSCAN", "HSETNX", "HSTRLEN", "HVALS", "INCRBYFLOAT", "INFO", "KEYS",
	"LASTSAVE", "LATENCY", "LCS", "LINDEX", "LINSERT", "LLEN", "LMOVE", "LMPOP",
	"LOLWUT", "LPOP", "LPOS", "LPUSH", "LPUSHX", "LRANGE", "LREM", "LSET",
	"LTRIM", "MEMORY", "MGET", "MIGRATE", "MODULE", "MONITOR", "MOVE", "MSET",
	"MSETNX", "MULTI", "OBJECT", "PERSIST", "PEXPIRE", "PEXPIREAT",
	"PEXPIRETIME", "PFADD", "PFCOUNT", "PFMERGE", "PING", "PSUBSCRIBE", "PTTL",
	"PUBLISH", "PUBSUB", "PUNSUBSCRIBE", "QUIT", "RANDOMKEY", "READONLY",
	"READWRITE", "RENAME", "RENAMENX", "REPLICAOF", "RESET", "RESTORE", "ROLE",
	"RPOP", "RPOPLPUSH", "RPUSH", "RPUSHX", "SADD", "SAVE", "SCAN", "SCARD",
	"SCRIPT", "SDIFF", "SDIFFSTORE", "SELECT", "SETBIT", "SETRANGE", "SHUTDOWN",
	"SINTER", "SINTERCARD", "SINTERSTORE", "SISMEMBER", "SLAVEOF", "SLOWLOG",
	"SMEMBERS", "SMISMEMBER", "SMOVE", "SORT", "SORT_RO", "SPOP", "SPUBLISH",
	"SRANDMEMBER", "SREM", "SSCAN", "SSUBSCRIBE", "STRLEN", "SUBSCRIBE",
	"SUNION", "SUNIONSTORE", "SUNSUBSCRIBE", "SWAPDB", "TIME", "TOUCH", "TTL",
	"TYPE", "UNLINK", "UNSUBSCRIBE", "UNWATCH", "WAIT", "WAITAOF", "WATCH",
	"XACK", "XADD", "XAUTOCLAIM", "XCLAIM", "XDEL", "XGROUP", "XINFO", "XLEN",
	"XPENDING", "XRANGE", "XREAD", "XREADGROUP", "XREVRANGE", "XTRIM", "ZADD",
	"ZCARD", "ZCOUNT", "ZDIFF", "ZDIFFSTORE", "ZINCRBY", "ZINTER", "ZINTERCARD",
	"ZINTERSTORE", "ZLEXCOUNT", "ZMPOP", "ZMSCORE", "ZPOPMAX", "ZPOPMIN",
	"ZRANDMEMBER", "ZRANGE", "ZRANGEBYLEX", "ZRANGEBYSCORE", "ZRANGESTORE",
	"ZRANK", "ZREM", "ZREMRANGEBYLEX", "ZREMRANGEBYRANK", "ZREMRANGEBYSCORE",
	"ZREVRANGE", "ZREVRANGEBYLEX", "ZREVRANGEBYSCORE", "ZREVRANK", "ZSCAN",
	"ZSCORE", "ZUNION", "ZUNIONSTORE",
}

// catalog maps every known command name to its handler; nil marks a known
// but untranslated command.
var catalog = func() map[string]handler {
	m := make(map[string]handler, len(translated)+len(unsupported))
	for _, name := range unsupported {
		m[name] = nil
	}
	for name, h := range translated {
		m[name] = h
	}
	return m
}()

// Supports reports whether the client translates the named command.
// Case-insensitive.
func Supports(name string) bool {
	return catalog[strings.ToUpper(name)] != nil
}

// lookup resolves a command name to its handler or the usage error for it.
func lookup(name string) (handler, error) {
	up := strings.ToUpper(name)
	h, known := catalog[up]
	if !known {
		return nil, &UnsupportedCommandError{Command: up, Unknown: true}
	}
	if h == nil {
		return nil, &UnsupportedCommandError{Command: up}
	}
	return h, nil
}
