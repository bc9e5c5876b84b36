// Package engine implements the multi-criteria company search: postcode
// geocoding, radius filtering, industry and size predicates, and ownership
// demographics derived at query time. All heavy filtering and joining is
// pushed into the database as one composed set-oriented statement.
package engine

// QuerySpec is the caller's filter bundle. Postcode and RadiusMiles are
// required; every other filter is optional. Optional numeric bounds are
// pointers so that "unset" is distinct from any real value - absence means
// no constraint, never a default.
type QuerySpec struct {
	Postcode    string
	RadiusMiles float64

	// Company filters.
	CompanyStatus     string // empty defaults to "Active"
	AccountCategories []string
	SICCodes          []int
	MinCompanyAge     *int
	MaxCompanyAge     *int

	// Owner (PSC) demographic filters. When any of these is set, a company
	// matches if at least one current PSC satisfies every set bound.
	MinPSCAge *int
	MaxPSCAge *int
	MinTenure *int
	MaxTenure *int

	// StrictTenure flips the tenure policy from "at least one PSC in
	// range" to "no PSC outside the range". Extension point; the default
	// any-qualifying-owner policy is what acquisition search wants.
	StrictTenure bool

	MaxResults int // 0 means unlimited
}

// Status returns the effective company status filter.
func (s QuerySpec) Status() string {
	if s.CompanyStatus == "" {
		return "Active"
	}
	return s.CompanyStatus
}

// HasDemographicFilter reports whether any PSC age or tenure bound is set.
func (s QuerySpec) HasDemographicFilter() bool {
	return s.MinPSCAge != nil || s.MaxPSCAge != nil || s.MinTenure != nil || s.MaxTenure != nil
}

// HasTenureFilter reports whether any tenure bound is set.
func (s QuerySpec) HasTenureFilter() bool {
	return s.MinTenure != nil || s.MaxTenure != nil
}
