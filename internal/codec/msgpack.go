package codec

import "github.com/vmihailenco/msgpack/v5"

// Msgpack encodes/decodes any T via msgpack, a more compact wire form than
// JSON for large batches of struct-shaped keys or values.
type Msgpack[T any] struct{}

func (Msgpack[T]) Encode(item T) ([]byte, error) {
	return msgpack.Marshal(item)
}

func (Msgpack[T]) Decode(data []byte) (T, error) {
	var out T
	if data == nil {
		return out, nil
	}
	err := msgpack.Unmarshal(data, &out)
	return out, err
}
