package engine

// snapshotReader is the read-through view over the committed tree that a
// DiffTracker stages on top of. It is implemented by tree.go's Tree type,
// which decodes raw DataStore records through the configured codecs.
type snapshotReader[K any, V any] interface {
	// transactionID returns the last committed transaction id.
	transactionID() ID
	// rootID returns the committed root's id, or ZeroID if empty.
	rootID() ID
	// node returns the committed header at id, decoded into K.
	node(id ID) (NodeHeader[K], bool, error)
	// page returns the committed page at id, decoded into K/V.
	page(id ID) (*DataPage[K, V], bool, error)
}
