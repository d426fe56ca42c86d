package core

import "fmt"

// GeometryError reports coordinate input outside the valid range. It is fatal
// to the single calculation that received the bad input, never to the whole
// pipeline.
type GeometryError struct {
	Field string
	Value float64
}

func (e *GeometryError) Error() string {
	return fmt.Sprintf("geometry: %s out of range: %v", e.Field, e.Value)
}

// ProjectionError reports that a transition or AAR point could not be placed
// on the route. The evaluator downgrades it to a recorded diagnostic and
// continues without the affected event.
type ProjectionError struct {
	Subject string // id of the transition/window that failed
	Err     error
}

func (e *ProjectionError) Error() string {
	return fmt.Sprintf("projection: %s: %v", e.Subject, e.Err)
}

func (e *ProjectionError) Unwrap() error { return e.Err }

// InvariantViolation signals a structural bug inside the engine, such as
// unsorted intervals reaching the segmenter. It is fatal and surfaced to the
// caller, never silently corrected.
type InvariantViolation struct {
	Msg string
}

func (e *InvariantViolation) Error() string {
	return "invariant violation: " + e.Msg
}
