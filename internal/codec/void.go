package codec

// Void is the codec for V when an index stores keys with no associated
// payload: Encode always produces an absent (nil) byte slice and Decode
// ignores its input.
type Void struct{}

func (Void) Encode(struct{}) ([]byte, error) {
	return nil, nil
}

func (Void) Decode([]byte) (struct{}, error) {
	return struct{}{}, nil
}
