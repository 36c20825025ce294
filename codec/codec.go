// Package codec serializes the dictionaries (hash values) that in-process
// backing stores keep as a single framed byte entry.
package codec

import "fmt"

// Codec encodes/decodes values V to []byte for storage.
type Codec[V any] interface {
	Encode(V) ([]byte, error)
	Decode([]byte) (V, error)
}

// Dictionary is the field -> raw value shape of a hash entry.
type Dictionary = map[string][]byte

// ForDictionary returns the dictionary codec registered under name.
// "" selects msgpack.
func ForDictionary(name string) (Codec[Dictionary], error) {
	switch name {
	case "", "msgpack":
		return Msgpack[Dictionary]{}, nil
	case "cbor":
		// deterministic so equal dictionaries frame to equal bytes
		return NewCBOR[Dictionary](true)
	case "json":
		return JSON[Dictionary]{}, nil
	default:
		return nil, fmt.Errorf("codec: unknown dictionary codec %q", name)
	}
}
