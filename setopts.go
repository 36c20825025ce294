package momentoredis

import (
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// SetOptions carries the SET modifiers under their Redis names. Zero numeric
// fields are unset. When several expiry fields are set the first of EX, PX,
// EXAT, PXAT wins.
type SetOptions struct {
	EX   int64 // seconds
	PX   int64 // milliseconds
	EXAT int64 // unix seconds
	PXAT int64 // unix milliseconds

	NX      bool
	XX      bool
	KEEPTTL bool
	GET     bool
}

// unsupported returns the first modifier the client refuses to emulate.
func (o SetOptions) unsupported() string {
	switch {
	case o.KEEPTTL:
		return "KEEPTTL"
	case o.XX:
		return "XX"
	case o.GET:
		return "GET"
	}
	return ""
}

// ttl resolves the expiry against now. expired is true for an absolute
// deadline that has already passed; Redis stores and immediately expires
// such a key, so the caller deletes it instead.
func (o SetOptions) ttl(cmd string, now time.Time) (ttl time.Duration, expired bool, err error) {
	switch {
	case o.EX != 0:
		if o.EX < 0 {
			return 0, false, argErr(cmd, "invalid expire time")
		}
		return time.Duration(o.EX) * time.Second, false, nil
	case o.PX != 0:
		if o.PX < 0 {
			return 0, false, argErr(cmd, "invalid expire time")
		}
		return time.Duration(o.PX) * time.Millisecond, false, nil
	case o.EXAT != 0:
		if o.EXAT < 0 {
			return 0, false, argErr(cmd, "invalid expire time")
		}
		secs := o.EXAT - now.Unix()
		if secs <= 0 {
			return 0, true, nil
		}
		return time.Duration(secs) * time.Second, false, nil
	case o.PXAT != 0:
		if o.PXAT < 0 {
			return 0, false, argErr(cmd, "invalid expire time")
		}
		ms := o.PXAT - now.UnixMilli()
		if ms <= 0 {
			return 0, true, nil
		}
		if secs := ms / 1000; secs > 0 {
			return time.Duration(secs) * time.Second, false, nil
		}
		// under a second left: keep it rather than truncate to "no expiry"
		return time.Duration(ms) * time.Millisecond, false, nil
	}
	return 0, false, nil
}

// expirationOptions maps a go-redis expiration argument the way go-redis
// encodes it: whole seconds as EX, anything finer as PX, redis.KeepTTL as
// KEEPTTL. Zero and other negatives mean no expiry.
func expirationOptions(d time.Duration) SetOptions {
	switch {
	case d > 0 && (d < time.Second || d%time.Second != 0):
		return SetOptions{PX: formatMs(d)}
	case d > 0:
		return SetOptions{EX: int64(d / time.Second)}
	case d == redis.KeepTTL:
		return SetOptions{KEEPTTL: true}
	}
	return SetOptions{}
}

func setArgsOptions(a redis.SetArgs) (SetOptions, error) {
	var o SetOptions
	switch strings.ToUpper(a.Mode) {
	case "":
	case "NX":
		o.NX = true
	case "XX":
		o.XX = true
	default:
		return o, argErr("SET", "syntax error")
	}
	o.KEEPTTL = a.KeepTTL
	o.GET = a.Get
	if !a.ExpireAt.IsZero() {
		o.EXAT = a.ExpireAt.Unix()
	} else if a.TTL > 0 {
		e := expirationOptions(a.TTL)
		o.EX, o.PX = e.EX, e.PX
	}
	return o, nil
}

// parseSetTokens reads the trailing SET tokens: EX n | PX n | EXAT n | PXAT n
// | KEEPTTL, NX | XX, GET. Case-insensitive; repeats and conflicts are a
// syntax error, as in Redis.
func parseSetTokens(args []any) (SetOptions, error) {
	var o SetOptions
	expiry := false
	for i := 0; i < len(args); i++ {
		tok, ok := valueString(args[i])
		if !ok {
			return o, argErr("SET", "syntax error")
		}
		switch up := strings.ToUpper(tok); up {
		case "NX", "XX":
			if o.NX || o.XX {
				return o, argErr("SET", "syntax error")
			}
			o.NX, o.XX = up == "NX", up == "XX"
		case "GET":
			o.GET = true
		case "KEEPTTL":
			if expiry {
				return o, argErr("SET", "syntax error")
			}
			expiry = true
			o.KEEPTTL = true
		case "EX", "PX", "EXAT", "PXAT":
			if expiry || i+1 >= len(args) {
				return o, argErr("SET", "syntax error")
			}
			i++
			n, ok := argInt(args[i])
			if !ok {
				return o, argErr("SET", "value is not an integer or out of range")
			}
			if n <= 0 {
				return o, argErr("SET", "invalid expire time in 'set' command")
			}
			expiry = true
			switch up {
			case "EX":
				o.EX = n
			case "PX":
				o.PX = n
			case "EXAT":
				o.EXAT = n
			default:
				o.PXAT = n
			}
		default:
			return o, argErr("SET", "syntax error")
		}
	}
	return o, nil
}

// formatSec and formatMs round a positive sub-unit duration up to one unit,
// as go-redis does when it writes SETEX/PSETEX arguments.
func formatSec(d time.Duration) int64 {
	if d > 0 && d < time.Second {
		return 1
	}
	return int64(d / time.Second)
}

func formatMs(d time.Duration) int64 {
	if d > 0 && d < time.Millisecond {
		return 1
	}
	return int64(d / time.Millisecond)
}
