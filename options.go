package vantage

import (
	"math/rand/v2"

	"github.com/rs/zerolog"

	"vantage/internal/engine"
)

// RepackingMode selects the incremental leaf-maintenance policy applied
// after every AddBatch.
type RepackingMode = engine.RepackingMode

const (
	// RepackingNone disables incremental repacking; only the repack seeds
	// created directly by splits are rebuilt.
	RepackingNone = engine.RepackingNone
	// RepackingIncrementalLN additionally rebuilds floor(ln(leaf_count))+1
	// of the oldest leaves after every batch.
	RepackingIncrementalLN = engine.RepackingIncrementalLN
)

// ReadWriteMode gates which Index methods are permitted.
type ReadWriteMode = engine.ReadWriteMode

const (
	// ReadAndWrite permits both search and AddBatch.
	ReadAndWrite = engine.ReadAndWrite
	// ReadOnly rejects AddBatch with ErrReadOnlyMode.
	ReadOnly = engine.ReadOnly
	// WriteOnly rejects search operations with ErrWriteOnlyMode.
	WriteOnly = engine.WriteOnly
)

// DistanceFunc computes the distance between two keys in a metric space. It
// must be non-negative and symmetric and satisfy the triangle inequality;
// the index verifies non-negativity and non-NaN-ness on every call but
// cannot verify the triangle inequality without exhaustive sampling.
type DistanceFunc[K any] = engine.DistanceFunc[K]

// Codec converts a key or value type to and from the opaque bytes a
// DataStore persists.
type Codec[T any] = engine.Codec[T]

// DataStore is the byte-oriented persistence backend an Index is built on.
// See vantage/internal/engine/memstore for a reference in-memory
// implementation.
type DataStore = engine.DataStore

// Options configures an Index. BranchingFactor and MaxTuplesPerPage take
// documented defaults when left zero; Distance, Store, KeyCodec, and
// ValueCodec are required.
type Options[K any, V any] struct {
	BranchingFactor  int
	MaxTuplesPerPage int
	RepackingMode    RepackingMode
	ReadWriteMode    ReadWriteMode
	Distance         DistanceFunc[K]
	Store            DataStore
	KeyCodec         Codec[K]
	ValueCodec       Codec[V]
	Logger           zerolog.Logger
	Rand             *rand.Rand
}

func (o Options[K, V]) toEngine() engine.Options[K, V] {
	return engine.Options[K, V]{
		BranchingFactor:  o.BranchingFactor,
		MaxTuplesPerPage: o.MaxTuplesPerPage,
		RepackingMode:    o.RepackingMode,
		ReadWriteMode:    o.ReadWriteMode,
		Distance:         o.Distance,
		Store:            o.Store,
		KeyCodec:         o.KeyCodec,
		ValueCodec:       o.ValueCodec,
		Logger:           o.Logger,
		Rand:             o.Rand,
	}
}
