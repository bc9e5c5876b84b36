// Package derive computes age and tenure attributes that are not stored
// columns: they depend on the reference date, so they are recomputed for
// every query as pure functions of the stored fields.
package derive

import "time"

// Age returns the approximate age in whole years of a person born in
// (birthYear, birthMonth) at the reference date. Companies House publishes
// birth year and month only, so the result is accurate to within 12 months.
// The year is decremented when the reference month precedes the birth
// month. ok is false when the birth year is missing or in the future.
func Age(birthYear, birthMonth int, ref time.Time) (int, bool) {
	if birthYear <= 0 {
		return 0, false
	}

	age := ref.Year() - birthYear
	if birthMonth >= 1 && birthMonth <= 12 && int(ref.Month()) < birthMonth {
		age--
	}
	if age < 0 {
		return 0, false
	}

	return age, true
}

// TenureYears returns the whole years elapsed from start to the reference
// date, month-corrected and floored at zero.
func TenureYears(start, ref time.Time) int {
	years := ref.Year() - start.Year()
	if ref.Month() < start.Month() {
		years--
	}
	if years < 0 {
		years = 0
	}
	return years
}

// EffectiveTenure derives a PSC's tenure, preferring an earlier officer
// appointment when one exists for the same person and company. The PSC
// register only opened in 2016, so notification dates right-censor the real
// tenure of long-standing owners; director appointments reach further back.
func EffectiveTenure(notified time.Time, officerAppointed *time.Time, ref time.Time) int {
	start := notified
	if officerAppointed != nil && officerAppointed.Before(start) {
		start = *officerAppointed
	}
	return TenureYears(start, ref)
}

// CompanyAgeYears returns the company's age in whole years at the reference
// date, month-corrected.
func CompanyAgeYears(incorporated, ref time.Time) int {
	return TenureYears(incorporated, ref)
}
