package codec

import "encoding/json"

// JSON encodes with encoding/json. []byte values travel as base64 strings,
// which makes JSON the largest of the dictionary encodings.
type JSON[V any] struct{}

func (JSON[V]) Encode(v V) ([]byte, error) { return json.Marshal(v) }
func (JSON[V]) Decode(b []byte) (V, error) {
	var v V
	err := json.Unmarshal(b, &v)
	return v, err
}
