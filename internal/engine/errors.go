package engine

import "errors"

// ErrorKind classifies an engine error by category. Callers that want to
// branch on category rather than sentinel identity can use KindOf.
type ErrorKind int

const (
	// KindUnknown is returned by KindOf for a nil error.
	KindUnknown ErrorKind = iota

	// KindMisuse covers illegal arguments: non-positive range, k<1, a nil
	// probe, branching_factor<2, max_tuples_per_page<5, and similar.
	KindMisuse

	// KindModeViolation covers a read/write operation disallowed by the
	// configured read_write_mode.
	KindModeViolation

	// KindInvariant covers a metric returning NaN or a negative distance,
	// or a structural invariant being violated (two staged roots, a leaf
	// being asked to list children, and so on).
	KindInvariant

	// KindConcurrentModification covers a transaction whose
	// expected_tree_id no longer matches the backend, or an iterator that
	// observed the tree change underneath it.
	KindConcurrentModification

	// KindState covers operations requested out of order, such as reading
	// a Search's results before Execute has run.
	KindState

	// KindBackend covers errors raised by the DataStore itself (I/O
	// failures); these are opaque to the engine and propagated unchanged.
	KindBackend
)

// Sentinel errors, grouped by kind.

// Misuse errors.
var (
	ErrInvalidArgument     = errors.New("engine: invalid argument")
	ErrNilProbe            = errors.New("engine: probe key must not be nil")
	ErrNonPositiveRadius   = errors.New("engine: range search radius must be > 0")
	ErrNonPositiveK        = errors.New("engine: kNN search k must be >= 1")
	ErrInvalidBranching    = errors.New("engine: branching_factor must be >= 2")
	ErrInvalidMaxTuples    = errors.New("engine: max_tuples_per_page must be >= 5")
	ErrInvalidChildRemoval = errors.New("engine: cannot remove a child that is not present")
)

// Mode-violation errors.
var (
	ErrReadOnlyMode  = errors.New("engine: operation not permitted in read-only mode")
	ErrWriteOnlyMode = errors.New("engine: operation not permitted in write-only mode")
)

// Invariant errors.
var (
	ErrMetricNaN         = errors.New("engine: distance metric returned NaN")
	ErrMetricNegative    = errors.New("engine: distance metric returned a negative distance")
	ErrMultipleRoots     = errors.New("engine: more than one staged node has no parent")
	ErrLeafHasChildren   = errors.New("engine: leaf node cannot list children")
	ErrInnerHasTupleData = errors.New("engine: inner node cannot carry a tuple count")
	ErrCorruptTree       = errors.New("engine: tree structure is inconsistent")
)

// Concurrent-modification errors.
var (
	ErrConcurrentModification = errors.New("engine: concurrent modification detected")
)

// State errors.
var (
	ErrSearchNotExecuted = errors.New("engine: search results requested before execution")
	ErrSearchReused      = errors.New("engine: search object reused after execution")
)

// Backend errors are returned by the DataStore implementation and
// propagated unchanged; the engine does not define sentinels for them.

// KindOf classifies err by category. It recognizes every sentinel declared
// in this file via errors.Is and falls back to KindBackend for any other
// non-nil error (on the assumption that anything reaching this point which
// isn't one of ours came from the DataStore), and KindUnknown for nil.
func KindOf(err error) ErrorKind {
	switch {
	case err == nil:
		return KindUnknown
	case errors.Is(err, ErrInvalidArgument), errors.Is(err, ErrNilProbe),
		errors.Is(err, ErrNonPositiveRadius), errors.Is(err, ErrNonPositiveK),
		errors.Is(err, ErrInvalidBranching), errors.Is(err, ErrInvalidMaxTuples),
		errors.Is(err, ErrInvalidChildRemoval):
		return KindMisuse
	case errors.Is(err, ErrReadOnlyMode), errors.Is(err, ErrWriteOnlyMode):
		return KindModeViolation
	case errors.Is(err, ErrMetricNaN), errors.Is(err, ErrMetricNegative),
		errors.Is(err, ErrMultipleRoots), errors.Is(err, ErrLeafHasChildren),
		errors.Is(err, ErrInnerHasTupleData), errors.Is(err, ErrCorruptTree):
		return KindInvariant
	case errors.Is(err, ErrConcurrentModification):
		return KindConcurrentModification
	case errors.Is(err, ErrSearchNotExecuted), errors.Is(err, ErrSearchReused):
		return KindState
	default:
		return KindBackend
	}
}
