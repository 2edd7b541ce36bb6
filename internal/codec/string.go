package codec

// String encodes a string value as its raw UTF-8 bytes, with no framing or
// escaping. Useful for string keys/values where the metric or caller
// already treats the byte form as canonical.
type String struct{}

func (String) Encode(item string) ([]byte, error) {
	if item == "" {
		return nil, nil
	}
	return []byte(item), nil
}

func (String) Decode(data []byte) (string, error) {
	return string(data), nil
}
