package codec

import "encoding/json"

// JSON encodes/decodes any JSON-marshalable T via the standard library.
// It is the simplest way to wire a struct-shaped key or value that doesn't
// need compact wire size.
type JSON[T any] struct{}

func (JSON[T]) Encode(item T) ([]byte, error) {
	return json.Marshal(item)
}

func (JSON[T]) Decode(data []byte) (T, error) {
	var out T
	if data == nil {
		return out, nil
	}
	err := json.Unmarshal(data, &out)
	return out, err
}
