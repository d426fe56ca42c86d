package catalog

import "fmt"

// Error reports a missing or malformed coverage polygon. The affected
// satellite is treated as providing no coverage; loading never aborts over a
// single bad feature.
type Error struct {
	SatelliteID string
	Err         error
}

func (e *Error) Error() string {
	if e.SatelliteID == "" {
		return fmt.Sprintf("catalog: %v", e.Err)
	}
	return fmt.Sprintf("catalog: satellite %s: %v", e.SatelliteID, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }
