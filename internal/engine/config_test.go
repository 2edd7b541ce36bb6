package engine

import (
	"testing"

	"github.com/stretchr/testify/require"
)

type fakeStore struct{}

func (fakeStore) LastTransactionID() ID               { return ZeroID }
func (fakeStore) RootID() ID                          { return ZeroID }
func (fakeStore) NodeAt(ID) (RawNodeHeader, bool)     { return RawNodeHeader{}, false }
func (fakeStore) DataPageAt(ID) (RawDataPage, bool)   { return RawDataPage{}, false }
func (fakeStore) ApplyTransaction(RawTransaction) error { return nil }

type fakeCodec[T any] struct{}

func (fakeCodec[T]) Encode(T) ([]byte, error)      { return nil, nil }
func (fakeCodec[T]) Decode([]byte) (T, error)      { var z T; return z, nil }

func validOptions() Options[float64, string] {
	return Options[float64, string]{
		Distance:   absDist,
		Store:      fakeStore{},
		KeyCodec:   fakeCodec[float64]{},
		ValueCodec: fakeCodec[string]{},
	}
}

func TestResolveOptionsAppliesDefaults(t *testing.T) {
	cfg, err := resolveOptions(validOptions())
	require.NoError(t, err)
	require.Equal(t, DefaultBranchingFactor, cfg.branchingFactor)
	require.Equal(t, DefaultMaxTuplesPerPage, cfg.maxTuplesPerPage)
	require.NotNil(t, cfg.rnd)
}

func TestResolveOptionsRejectsLowBranchingFactor(t *testing.T) {
	opts := validOptions()
	opts.BranchingFactor = 1
	_, err := resolveOptions(opts)
	require.ErrorIs(t, err, ErrInvalidBranching)
}

func TestResolveOptionsRejectsLowMaxTuples(t *testing.T) {
	opts := validOptions()
	opts.MaxTuplesPerPage = 2
	_, err := resolveOptions(opts)
	require.ErrorIs(t, err, ErrInvalidMaxTuples)
}

func TestResolveOptionsRejectsMissingRequiredFields(t *testing.T) {
	tests := []func(Options[float64, string]) Options[float64, string]{
		func(o Options[float64, string]) Options[float64, string] { o.Distance = nil; return o },
		func(o Options[float64, string]) Options[float64, string] { o.Store = nil; return o },
		func(o Options[float64, string]) Options[float64, string] { o.KeyCodec = nil; return o },
		func(o Options[float64, string]) Options[float64, string] { o.ValueCodec = nil; return o },
	}
	for _, mutate := range tests {
		_, err := resolveOptions(mutate(validOptions()))
		require.ErrorIs(t, err, ErrInvalidArgument)
	}
}

func TestNumLeavesToRebuild(t *testing.T) {
	require.Equal(t, 0, RepackingNone.numLeavesToRebuild(100))
	require.Equal(t, 0, RepackingIncrementalLN.numLeavesToRebuild(0))
	require.Equal(t, 1, RepackingIncrementalLN.numLeavesToRebuild(2))
	require.Equal(t, 3, RepackingIncrementalLN.numLeavesToRebuild(20))
}
