package engine

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindOfClassifiesEverySentinel(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want ErrorKind
	}{
		{"nil", nil, KindUnknown},
		{"invalid argument", ErrInvalidArgument, KindMisuse},
		{"nil probe", ErrNilProbe, KindMisuse},
		{"non-positive radius", ErrNonPositiveRadius, KindMisuse},
		{"non-positive k", ErrNonPositiveK, KindMisuse},
		{"invalid branching", ErrInvalidBranching, KindMisuse},
		{"invalid max tuples", ErrInvalidMaxTuples, KindMisuse},
		{"invalid child removal", ErrInvalidChildRemoval, KindMisuse},
		{"read-only mode", ErrReadOnlyMode, KindModeViolation},
		{"write-only mode", ErrWriteOnlyMode, KindModeViolation},
		{"metric NaN", ErrMetricNaN, KindInvariant},
		{"metric negative", ErrMetricNegative, KindInvariant},
		{"multiple roots", ErrMultipleRoots, KindInvariant},
		{"leaf has children", ErrLeafHasChildren, KindInvariant},
		{"inner has tuple data", ErrInnerHasTupleData, KindInvariant},
		{"corrupt tree", ErrCorruptTree, KindInvariant},
		{"concurrent modification", ErrConcurrentModification, KindConcurrentModification},
		{"search not executed", ErrSearchNotExecuted, KindState},
		{"search reused", ErrSearchReused, KindState},
		{"unrecognized backend error", errors.New("disk on fire"), KindBackend},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, KindOf(tt.err))
		})
	}
}

func TestKindOfRecognizesWrappedErrors(t *testing.T) {
	wrapped := errors.Join(errors.New("context"), ErrReadOnlyMode)
	assert.Equal(t, KindModeViolation, KindOf(wrapped))
}
