package vantage

import "vantage/internal/engine"

// Sentinel errors re-exported from the engine so callers never need to
// import the internal package directly.
var (
	ErrInvalidArgument        = engine.ErrInvalidArgument
	ErrNilProbe               = engine.ErrNilProbe
	ErrNonPositiveRadius      = engine.ErrNonPositiveRadius
	ErrNonPositiveK           = engine.ErrNonPositiveK
	ErrInvalidBranching       = engine.ErrInvalidBranching
	ErrInvalidMaxTuples       = engine.ErrInvalidMaxTuples
	ErrReadOnlyMode           = engine.ErrReadOnlyMode
	ErrWriteOnlyMode          = engine.ErrWriteOnlyMode
	ErrConcurrentModification = engine.ErrConcurrentModification
	ErrSearchNotExecuted      = engine.ErrSearchNotExecuted
	ErrSearchReused           = engine.ErrSearchReused
)

// ErrorKind classifies an error returned from this package. See
// vantage/internal/engine.ErrorKind for the full taxonomy.
type ErrorKind = engine.ErrorKind

const (
	KindUnknown                = engine.KindUnknown
	KindMisuse                 = engine.KindMisuse
	KindModeViolation          = engine.KindModeViolation
	KindInvariant              = engine.KindInvariant
	KindConcurrentModification = engine.KindConcurrentModification
	KindState                  = engine.KindState
	KindBackend                = engine.KindBackend
)

// KindOf classifies err per the package's error taxonomy.
func KindOf(err error) ErrorKind {
	return engine.KindOf(err)
}
