package engine

// Transaction is the typed form of an atomic changeset, before encoding to
// the DataStore's raw byte form. TransactionBuilder
// produces one per compile_batch / compile_repack_all call; Tree.commit
// encodes it via the configured codecs and hands a RawTransaction to the
// DataStore.
type Transaction[K any, V any] struct {
	ExpectedTreeID ID
	TransactionID  ID

	CreatedNodes []NodeHeader[K]
	UpdatedNodes []NodeHeader[K]

	CreatedTuples []stagedTuple[K, V]
	UpdatedTuples []stagedTuple[K, V]

	DeletedPages       []ID
	DeletedNodeHeaders []ID

	// NewRootID is ZeroID unless this transaction stages a new root.
	NewRootID ID
}
