package engine

import "fmt"

// ValidationError reports an invalid query parameter, named by the
// offending field. Validation runs before any table is touched, so these
// errors are always cheap and always the user's to fix.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}

// RadiusError reports a search radius outside (0, MaxRadiusMiles].
type RadiusError struct {
	Radius float64
}

func (e *RadiusError) Error() string {
	return fmt.Sprintf("radius %.1f miles out of bounds: must be greater than 0 and at most %d miles",
		e.Radius, MaxRadiusMiles)
}

// RangeError reports a numeric filter whose minimum bound exceeds its
// maximum bound.
type RangeError struct {
	Field string
	Min   int
	Max   int
}

func (e *RangeError) Error() string {
	return fmt.Sprintf("invalid %s range: minimum %d exceeds maximum %d", e.Field, e.Min, e.Max)
}
