package engine

import (
	"math/rand/v2"

	"github.com/rs/zerolog"
)

// RepackingMode selects the incremental leaf-maintenance policy.
type RepackingMode int

const (
	// RepackingNone disables incremental repacking entirely; only the
	// repack seeds created directly by splits are rebuilt.
	RepackingNone RepackingMode = iota

	// RepackingIncrementalLN rebuilds floor(ln(leaf_count))+1 of the
	// oldest leaves after every batch, in addition to repack seeds.
	RepackingIncrementalLN
)

// ReadWriteMode gates which façade operations are permitted. Enforcement
// happens at the façade boundary, not inside the engine's write/read paths
// themselves.
type ReadWriteMode int

const (
	// ReadAndWrite permits both search and batch-add operations.
	ReadAndWrite ReadWriteMode = iota
	// ReadOnly rejects AddBatch with ErrReadOnlyMode.
	ReadOnly
	// WriteOnly rejects search operations with ErrWriteOnlyMode.
	WriteOnly
)

const (
	// DefaultBranchingFactor is the maximum child count per inner node
	// when Options.BranchingFactor is left at zero.
	DefaultBranchingFactor = 64

	// DefaultMaxTuplesPerPage is the maximum tuple count per leaf when
	// Options.MaxTuplesPerPage is left at zero.
	DefaultMaxTuplesPerPage = 50
)

// DistanceFunc computes the distance between two keys in a metric space.
// It must be non-negative, symmetric, and satisfy the triangle inequality;
// the engine does not verify the triangle inequality (that would require
// exhaustive sampling) but does verify non-negativity and non-NaN-ness on
// every call via a wrapping counter (see metric.go).
type DistanceFunc[K any] func(a, b K) float64

// Options configures a Tree. Zero-value fields take the defaults
// documented below, following garland's LibraryOptions/Init pattern: a
// plain struct, defaulted once at construction, never a builder type.
type Options[K any, V any] struct {
	// BranchingFactor is the max child count per inner node. Must be >= 2
	// if set explicitly; zero means DefaultBranchingFactor.
	BranchingFactor int

	// MaxTuplesPerPage is the max tuple count per leaf. Must be >= 5 if
	// set explicitly; zero means DefaultMaxTuplesPerPage.
	MaxTuplesPerPage int

	// RepackingMode selects the incremental leaf-maintenance policy.
	RepackingMode RepackingMode

	// ReadWriteMode gates which façade operations are permitted.
	ReadWriteMode ReadWriteMode

	// Distance is the user-supplied metric. Required.
	Distance DistanceFunc[K]

	// Store is the byte-oriented persistence backend. Required.
	Store DataStore

	// KeyCodec converts K to and from bytes at the DataStore boundary.
	// Required.
	KeyCodec Codec[K]

	// ValueCodec converts V to and from bytes at the DataStore boundary.
	// Required.
	ValueCodec Codec[V]

	// Logger receives structured engine events: a warning on reused
	// Searcher execution and an info-level event on root push-down.
	// Transactions, repack passes and oldest-leaf rebuilds are not logged.
	// The zero value is zerolog's nop logger, which discards everything.
	Logger zerolog.Logger

	// Rand seeds center-selection randomness for reproducible
	// benchmarking. Nil means a fresh generator seeded from the global
	// process source.
	Rand *rand.Rand
}

// resolved holds the defaulted, validated form of Options used internally.
type resolved[K any, V any] struct {
	branchingFactor  int
	maxTuplesPerPage int
	repackingMode    RepackingMode
	readWriteMode    ReadWriteMode
	metric           *verifyingMetric[K]
	store            DataStore
	keyCodec         Codec[K]
	valueCodec       Codec[V]
	logger           zerolog.Logger
	rnd              *rand.Rand
}

func resolveOptions[K any, V any](opts Options[K, V]) (resolved[K, V], error) {
	bf := opts.BranchingFactor
	if bf == 0 {
		bf = DefaultBranchingFactor
	}
	if bf < 2 {
		return resolved[K, V]{}, ErrInvalidBranching
	}

	mt := opts.MaxTuplesPerPage
	if mt == 0 {
		mt = DefaultMaxTuplesPerPage
	}
	if mt < 5 {
		return resolved[K, V]{}, ErrInvalidMaxTuples
	}

	if opts.Distance == nil || opts.Store == nil || opts.KeyCodec == nil || opts.ValueCodec == nil {
		return resolved[K, V]{}, ErrInvalidArgument
	}

	r := opts.Rand
	if r == nil {
		r = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}

	return resolved[K, V]{
		branchingFactor:  bf,
		maxTuplesPerPage: mt,
		repackingMode:    opts.RepackingMode,
		readWriteMode:    opts.ReadWriteMode,
		metric:           newVerifyingMetric(opts.Distance),
		store:            opts.Store,
		keyCodec:         opts.KeyCodec,
		valueCodec:       opts.ValueCodec,
		logger:           opts.Logger,
		rnd:              r,
	}, nil
}

// numLeavesToRebuild implements the rebuild-count policy for this mode.
func (m RepackingMode) numLeavesToRebuild(leafCount int) int {
	switch m {
	case RepackingIncrementalLN:
		if leafCount < 1 {
			return 0
		}
		return lnFloor(leafCount) + 1
	default:
		return 0
	}
}
