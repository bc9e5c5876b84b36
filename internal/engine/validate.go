package engine

import (
	"fmt"
	"strings"

	"github.com/ch-finder/internal/postcode"
)

// Parameter bounds. The age and tenure windows come from the data itself:
// a PSC must be a natural person of at least 16, and the company register
// reaches back about two centuries.
const (
	MaxRadiusMiles   = 500
	MinPSCAgeBound   = 16
	MaxPSCAgeBound   = 120
	MinTenureBound   = 1
	MaxTenureBound   = 100
	MaxCompanyAgeCap = 200
)

// Validate checks a QuerySpec before anything touches the database. The
// first problem found is returned; errors name the offending field.
func (s QuerySpec) Validate() error {
	if strings.TrimSpace(s.Postcode) == "" {
		return &ValidationError{Field: "postcode", Message: "postcode is required"}
	}
	if !postcode.ValidFormat(s.Postcode) {
		return &ValidationError{
			Field:   "postcode",
			Message: fmt.Sprintf("%q is not a valid UK postcode format", s.Postcode),
		}
	}

	if s.RadiusMiles <= 0 || s.RadiusMiles > MaxRadiusMiles {
		return &RadiusError{Radius: s.RadiusMiles}
	}

	if !ValidStatus(s.Status()) {
		return &ValidationError{
			Field:   "status",
			Message: fmt.Sprintf("%q is not a recognised company status (valid: %s)", s.CompanyStatus, strings.Join(ValidStatuses, ", ")),
		}
	}

	for _, code := range s.SICCodes {
		if code < 10000 || code > 99999 {
			return &ValidationError{
				Field:   "sic",
				Message: fmt.Sprintf("SIC code %d must be a 5-digit code", code),
			}
		}
	}

	for _, cat := range s.AccountCategories {
		if !ValidAccountCategory(cat) {
			return &ValidationError{
				Field:   "categories",
				Message: fmt.Sprintf("%q is not a recognised account category", cat),
			}
		}
	}

	if err := validateBounds("psc-age", s.MinPSCAge, s.MaxPSCAge, MinPSCAgeBound, MaxPSCAgeBound); err != nil {
		return err
	}
	if err := validateBounds("psc-tenure", s.MinTenure, s.MaxTenure, MinTenureBound, MaxTenureBound); err != nil {
		return err
	}
	if err := validateBounds("company-age", s.MinCompanyAge, s.MaxCompanyAge, 0, MaxCompanyAgeCap); err != nil {
		return err
	}

	if s.MaxResults < 0 {
		return &ValidationError{Field: "max-results", Message: "cannot be negative"}
	}

	return nil
}

// validateBounds checks an optional [min, max] filter against its hard
// limits and rejects inverted ranges.
func validateBounds(field string, min, max *int, lo, hi int) error {
	if min != nil && (*min < lo || *min > hi) {
		return &ValidationError{
			Field:   field,
			Message: fmt.Sprintf("minimum %d outside allowed range %d-%d", *min, lo, hi),
		}
	}
	if max != nil && (*max < lo || *max > hi) {
		return &ValidationError{
			Field:   field,
			Message: fmt.Sprintf("maximum %d outside allowed range %d-%d", *max, lo, hi),
		}
	}
	if min != nil && max != nil && *min > *max {
		return &RangeError{Field: field, Min: *min, Max: *max}
	}
	return nil
}
