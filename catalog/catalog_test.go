package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSnapshot_FootprintFor(t *testing.T) {
	s := &Snapshot{Footprints: []Footprint{
		{SatelliteID: "KA-EAST"},
		{SatelliteID: "KA-WEST"},
	}}

	fp, ok := s.FootprintFor("KA-WEST")
	require.True(t, ok)
	assert.Equal(t, "KA-WEST", fp.SatelliteID)

	_, ok = s.FootprintFor("KA-NOPE")
	assert.False(t, ok)
}

func TestStore_SwapPublishesNewSnapshot(t *testing.T) {
	first := &Snapshot{DefaultXSatellite: "X-1"}
	store := NewStore(first)
	assert.Same(t, first, store.Current())

	second := &Snapshot{DefaultXSatellite: "X-2"}
	prev, err := store.Swap(second)
	require.NoError(t, err)
	assert.Same(t, first, prev)
	assert.Same(t, second, store.Current())
}

func TestStore_RejectsNilSwap(t *testing.T) {
	store := NewStore(&Snapshot{})
	_, err := store.Swap(nil)
	require.Error(t, err)
	assert.NotNil(t, store.Current(), "failed swap must not clear the snapshot")
}

func TestNewStore_NilSeedsEmptySnapshot(t *testing.T) {
	store := NewStore(nil)
	require.NotNil(t, store.Current())
	assert.Empty(t, store.Current().Footprints)
}
