package engine

// Codec is the external key/value encoding contract. The engine applies a
// Codec pair at the DataStore boundary, converting user types to and from
// the opaque bytes DataStore actually persists.
//
// Absent values round-trip as a nil byte slice on the wire and whatever
// zero-or-documented-sentinel the codec's T uses in memory; a codec that
// doesn't support absent values should reject a nil input to Encode and
// never produce one from Decode.
type Codec[T any] interface {
	// Encode converts an item to bytes, or (nil, nil) if the item is
	// documented as absent-representable and is in fact absent.
	Encode(item T) ([]byte, error)
	// Decode converts bytes back to T. A nil input must mirror whatever
	// Encode does for an absent item.
	Decode(data []byte) (T, error)
}
