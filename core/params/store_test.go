package params

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/YuminosukeSato/phenogo/pkg/errors"
)

func declared() []Parameter {
	return []Parameter{
		{Name: "t1", Bounds: Bounds{Lower: -67, Upper: 298}},
		{Name: "T", Bounds: Bounds{Lower: -25, Upper: 25}},
		{Name: "F", Bounds: Bounds{Lower: 0, Upper: 1000}},
	}
}

func TestNewStore(t *testing.T) {
	tests := []struct {
		name     string
		settings map[string]Setting
		wantErr  bool
	}{
		{
			name:     "no settings",
			settings: nil,
			wantErr:  false,
		},
		{
			name: "fixed and bounds override",
			settings: map[string]Setting{
				"T": Fixed(0),
				"F": Range(100, 500),
			},
			wantErr: false,
		},
		{
			name: "unknown parameter",
			settings: map[string]Setting{
				"t2": Fixed(1),
			},
			wantErr: true,
		},
		{
			name: "non-finite fixed value",
			settings: map[string]Setting{
				"T": Fixed(math.NaN()),
			},
			wantErr: true,
		},
		{
			name: "inverted bounds",
			settings: map[string]Setting{
				"F": Range(500, 100),
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := NewStore(declared(), tt.settings)
			if tt.wantErr {
				require.Error(t, err)
				var cfgErr *errors.ConfigurationError
				assert.True(t, errors.As(err, &cfgErr),
					"error should be a ConfigurationError, got %T", err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, []string{"t1", "T", "F"}, s.Names())
		})
	}
}

func TestStoreFreeNamesOrder(t *testing.T) {
	s, err := NewStore(declared(), map[string]Setting{"T": Fixed(0)})
	require.NoError(t, err)

	// Declaration order defines the optimizer vector layout.
	assert.Equal(t, []string{"t1", "F"}, s.FreeNames())
	assert.Equal(t, 2, s.FreeCount())
	assert.True(t, s.IsFixed("T"))
	assert.False(t, s.IsFixed("t1"))

	bounds := s.FreeBounds()
	require.Len(t, bounds, 2)
	assert.Equal(t, Bounds{Lower: -67, Upper: 298}, bounds[0])
	assert.Equal(t, Bounds{Lower: 0, Upper: 1000}, bounds[1])
}

func TestStoreBoundsOverride(t *testing.T) {
	s, err := NewStore(declared(), map[string]Setting{"F": Range(100, 500)})
	require.NoError(t, err)

	bounds := s.FreeBounds()
	require.Len(t, bounds, 3)
	assert.Equal(t, Bounds{Lower: 100, Upper: 500}, bounds[2])
}

func TestStoreSetParams(t *testing.T) {
	s, err := NewStore(declared(), map[string]Setting{"T": Fixed(0)})
	require.NoError(t, err)

	t.Run("assigns free parameters", func(t *testing.T) {
		err := s.SetParams(map[string]float64{"t1": 5, "F": 250})
		require.NoError(t, err)
		assert.True(t, s.AllSet())
		assert.Equal(t, map[string]float64{"t1": 5, "T": 0, "F": 250}, s.GetParams())
	})

	t.Run("rejects fixed parameter", func(t *testing.T) {
		err := s.SetParams(map[string]float64{"T": 7})
		require.Error(t, err)
		var cfgErr *errors.ConfigurationError
		assert.True(t, errors.As(err, &cfgErr))
		// The store is unchanged.
		v, ok := s.Get("T")
		assert.True(t, ok)
		assert.Equal(t, 0.0, v)
	})

	t.Run("rejects unknown parameter and leaves store unchanged", func(t *testing.T) {
		err := s.SetParams(map[string]float64{"t1": 99, "bogus": 1})
		require.Error(t, err)
		v, _ := s.Get("t1")
		assert.Equal(t, 5.0, v)
	})
}

func TestStoreAssignFree(t *testing.T) {
	s, err := NewStore(declared(), map[string]Setting{"T": Fixed(0)})
	require.NoError(t, err)

	require.NoError(t, s.AssignFree([]float64{10, 300}))
	assert.Equal(t, map[string]float64{"t1": 10, "T": 0, "F": 300}, s.GetParams())

	err = s.AssignFree([]float64{1, 2, 3})
	require.Error(t, err)
	var dimErr *errors.DimensionError
	assert.True(t, errors.As(err, &dimErr))
}

func TestStoreAllSet(t *testing.T) {
	t.Run("all fixed is set from the start", func(t *testing.T) {
		s, err := NewStore(declared(), map[string]Setting{
			"t1": Fixed(1), "T": Fixed(0), "F": Fixed(273),
		})
		require.NoError(t, err)
		assert.True(t, s.AllSet())
		assert.Equal(t, 0, s.FreeCount())
	})

	t.Run("free parameters start unset", func(t *testing.T) {
		s, err := NewStore(declared(), nil)
		require.NoError(t, err)
		assert.False(t, s.AllSet())
		_, ok := s.Get("F")
		assert.False(t, ok)
	})
}

func TestStoreMerged(t *testing.T) {
	s, err := NewStore(declared(), map[string]Setting{"T": Fixed(0)})
	require.NoError(t, err)
	require.NoError(t, s.AssignFree([]float64{1, 100}))

	merged := s.Merged([]float64{50, 999})
	assert.Equal(t, map[string]float64{"t1": 50, "T": 0, "F": 999}, merged)

	// Merged never mutates the store.
	assert.Equal(t, map[string]float64{"t1": 1, "T": 0, "F": 100}, s.GetParams())
}

func TestStoreClone(t *testing.T) {
	s, err := NewStore(declared(), map[string]Setting{"T": Fixed(0)})
	require.NoError(t, err)
	require.NoError(t, s.AssignFree([]float64{1, 100}))

	c := s.Clone()
	require.NoError(t, c.AssignFree([]float64{2, 200}))

	v, _ := s.Get("F")
	assert.Equal(t, 100.0, v, "mutating the clone must not touch the original")
	v, _ = c.Get("F")
	assert.Equal(t, 200.0, v)
}
