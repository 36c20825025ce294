package momentoredis

import (
	"encoding"
	"strconv"
	"time"
)

// CommandOptions may lead the argument list of Exec and Do.
type CommandOptions struct {
	// ReturnBuffers makes string-valued replies come back as []byte.
	ReturnBuffers bool
}

// extractCommandOptions strips a leading CommandOptions (value or pointer)
// from args. A nil pointer counts as options with every flag unset.
func extractCommandOptions(args []any) (returnBuffers bool, rest []any) {
	if len(args) == 0 {
		return false, args
	}
	switch o := args[0].(type) {
	case CommandOptions:
		return o.ReturnBuffers, args[1:]
	case *CommandOptions:
		if o == nil {
			return false, args[1:]
		}
		return o.ReturnBuffers, args[1:]
	}
	return false, args
}

// valueBytes renders a command argument the way go-redis writes it on the
// wire. ok is false for types go-redis would refuse to marshal.
func valueBytes(v any) ([]byte, bool) {
	switch v := v.(type) {
	case nil:
		return []byte{}, true
	case string:
		return []byte(v), true
	case []byte:
		return v, true
	case int:
		return strconv.AppendInt(nil, int64(v), 10), true
	case int8:
		return strconv.AppendInt(nil, int64(v), 10), true
	case int16:
		return strconv.AppendInt(nil, int64(v), 10), true
	case int32:
		return strconv.AppendInt(nil, int64(v), 10), true
	case int64:
		return strconv.AppendInt(nil, v, 10), true
	case uint:
		return strconv.AppendUint(nil, uint64(v), 10), true
	case uint8:
		return strconv.AppendUint(nil, uint64(v), 10), true
	case uint16:
		return strconv.AppendUint(nil, uint64(v), 10), true
	case uint32:
		return strconv.AppendUint(nil, uint64(v), 10), true
	case uint64:
		return strconv.AppendUint(nil, v, 10), true
	case float32:
		return strconv.AppendFloat(nil, float64(v), 'f', -1, 32), true
	case float64:
		return strconv.AppendFloat(nil, v, 'f', -1, 64), true
	case bool:
		if v {
			return []byte("1"), true
		}
		return []byte("0"), true
	case time.Time:
		return v.AppendFormat(nil, time.RFC3339Nano), true
	case time.Duration:
		return strconv.AppendInt(nil, v.Nanoseconds(), 10), true
	case encoding.BinaryMarshaler:
		b, err := v.MarshalBinary()
		if err != nil {
			return nil, false
		}
		return b, true
	}
	return nil, false
}

func valueString(v any) (string, bool) {
	if s, ok := v.(string); ok {
		return s, true
	}
	b, ok := valueBytes(v)
	return string(b), ok
}

// argInt parses an integer argument given as a Go integer or decimal text.
func argInt(v any) (int64, bool) {
	switch n := v.(type) {
	case int:
		return int64(n), true
	case int32:
		return int64(n), true
	case int64:
		return n, true
	case uint32:
		return int64(n), true
	}
	s, ok := valueString(v)
	if !ok {
		return 0, false
	}
	n, err := strconv.ParseInt(s, 10, 64)
	return n, err == nil
}

// reply renders stored bytes as text or raw bytes.
func reply(b []byte, returnBuffers bool) any {
	if returnBuffers {
		if b == nil {
			return []byte{}
		}
		return b
	}
	return string(b)
}
