// Package catalog holds the process-wide satellite catalog: Ka coverage
// footprints plus default satellite identifiers. The catalog is loaded once
// and treated as immutable; a reload swaps in a fresh snapshot atomically
// while in-flight computations keep the snapshot they started with.
package catalog

import (
	"fmt"
	"sync/atomic"
)

// Vertex is one polygon ring vertex in degrees.
type Vertex struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// Footprint is one satellite's coverage polygon. Rings follow the GeoJSON
// convention: the first ring is the outer boundary, any further rings are
// holes. Ring vertices do not repeat the first vertex at the end.
type Footprint struct {
	SatelliteID string
	CentroidLon float64
	Rings       [][]Vertex
}

// Snapshot is an immutable view of the catalog. Callers must never mutate a
// snapshot after handing it to a Store.
type Snapshot struct {
	Footprints          []Footprint
	DefaultXSatellite   string
	DefaultKaSatellites []string
}

// FootprintFor returns the footprint for the given satellite id, if known.
func (s *Snapshot) FootprintFor(satelliteID string) (Footprint, bool) {
	for _, fp := range s.Footprints {
		if fp.SatelliteID == satelliteID {
			return fp, true
		}
	}
	return Footprint{}, false
}

// Store publishes the current catalog snapshot to timeline computations.
type Store struct {
	current atomic.Pointer[Snapshot]
}

// NewStore creates a store seeded with the given snapshot.
func NewStore(s *Snapshot) *Store {
	store := &Store{}
	if s == nil {
		s = &Snapshot{}
	}
	store.current.Store(s)
	return store
}

// Current returns the snapshot new computations should use.
func (s *Store) Current() *Snapshot {
	return s.current.Load()
}

// Swap publishes a new snapshot and returns the previous one. Computations
// already running keep reading the snapshot they captured.
func (s *Store) Swap(next *Snapshot) (*Snapshot, error) {
	if next == nil {
		return nil, fmt.Errorf("catalog: refusing to swap in a nil snapshot")
	}
	return s.current.Swap(next), nil
}
