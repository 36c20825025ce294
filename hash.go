package momentoredis

import (
	"reflect"
	"strings"
)

type rangeable interface {
	Range(f func(k, v any) bool)
}

// hashFields normalizes the accepted HSET argument shapes into one
// field -> bytes mapping:
//
//	"f1", v1, "f2", v2            flat pairs
//	[]string / []any              flat pairs in a slice
//	map[string]any|string|[]byte  a mapping
//	struct or *struct             fields tagged `redis:"name[,omitempty]"`
//	Range(func(k, v any) bool)    map-like values such as *sync.Map
func hashFields(cmd string, values []any) (map[string][]byte, error) {
	if len(values) == 1 {
		switch v := values[0].(type) {
		case []string:
			pairs := make([]any, len(v))
			for i := range v {
				pairs[i] = v[i]
			}
			return hashPairs(cmd, pairs)
		case []any:
			return hashPairs(cmd, v)
		case map[string]any:
			out := make(map[string][]byte, len(v))
			for f, val := range v {
				b, ok := valueBytes(val)
				if !ok {
					return nil, argErr(cmd, "can't marshal %T", val)
				}
				out[f] = b
			}
			return nonEmpty(cmd, out)
		case map[string]string:
			out := make(map[string][]byte, len(v))
			for f, val := range v {
				out[f] = []byte(val)
			}
			return nonEmpty(cmd, out)
		case map[string][]byte:
			out := make(map[string][]byte, len(v))
			for f, val := range v {
				out[f] = val
			}
			return nonEmpty(cmd, out)
		case rangeable:
			return hashRange(cmd, v)
		}
		if m, ok, err := structFields(cmd, values[0]); ok || err != nil {
			if err != nil {
				return nil, err
			}
			return nonEmpty(cmd, m)
		}
	}
	return hashPairs(cmd, values)
}

func hashPairs(cmd string, pairs []any) (map[string][]byte, error) {
	if len(pairs) == 0 || len(pairs)%2 != 0 {
		return nil, argErr(cmd, "wrong number of arguments")
	}
	out := make(map[string][]byte, len(pairs)/2)
	for i := 0; i < len(pairs); i += 2 {
		f, ok := valueString(pairs[i])
		if !ok {
			return nil, argErr(cmd, "can't marshal field %T", pairs[i])
		}
		b, ok := valueBytes(pairs[i+1])
		if !ok {
			return nil, argErr(cmd, "can't marshal %T", pairs[i+1])
		}
		out[f] = b
	}
	return out, nil
}

func hashRange(cmd string, r rangeable) (map[string][]byte, error) {
	out := make(map[string][]byte)
	var err error
	r.Range(func(k, v any) bool {
		f, ok := valueString(k)
		if !ok {
			err = argErr(cmd, "can't marshal field %T", k)
			return false
		}
		b, ok := valueBytes(v)
		if !ok {
			err = argErr(cmd, "can't marshal %T", v)
			return false
		}
		out[f] = b
		return true
	})
	if err != nil {
		return nil, err
	}
	return nonEmpty(cmd, out)
}

// structFields reads `redis` tagged fields. ok is false when v is not a
// struct or pointer to one.
func structFields(cmd string, v any) (map[string][]byte, bool, error) {
	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return nil, false, nil
		}
		rv = rv.Elem()
	}
	if rv.Kind() != reflect.Struct {
		return nil, false, nil
	}
	typ := rv.Type()
	out := make(map[string][]byte)
	for i := 0; i < typ.NumField(); i++ {
		sf := typ.Field(i)
		tag := sf.Tag.Get("redis")
		if tag == "" || tag == "-" || !sf.IsExported() {
			continue
		}
		name, opt, _ := strings.Cut(tag, ",")
		fv := rv.Field(i)
		if opt == "omitempty" && fv.IsZero() {
			continue
		}
		if fv.Kind() == reflect.Pointer {
			if fv.IsNil() {
				out[name] = []byte{}
				continue
			}
			fv = fv.Elem()
		}
		b, ok := valueBytes(fv.Interface())
		if !ok {
			return nil, true, argErr(cmd, "can't marshal field %s of type %s", sf.Name, fv.Type())
		}
		out[name] = b
	}
	return out, true, nil
}

func nonEmpty(cmd string, m map[string][]byte) (map[string][]byte, error) {
	if len(m) == 0 {
		return nil, argErr(cmd, "wrong number of arguments")
	}
	return m, nil
}
