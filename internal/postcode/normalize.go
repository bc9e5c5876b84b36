package postcode

import (
	"regexp"
	"strings"
)

// UK postcode shape: outward code (area + district), inward code (sector +
// unit). Matched against the compact form, e.g. "SW1A1AA".
var compactPattern = regexp.MustCompile(`^[A-Z]{1,2}[0-9][A-Z0-9]?[0-9][A-Z]{2}$`)

// CompactKey reduces a postcode to its space-free uppercase lookup key
// ("sw1a 1aa" -> "SW1A1AA"). Both sides of the postcode join must be
// reduced to this form before comparison.
func CompactKey(raw string) string {
	return strings.ToUpper(strings.Join(strings.Fields(raw), ""))
}

// Normalize returns the canonical display form: uppercase with a single
// space before the three-character inward code ("sw1a1aa" -> "SW1A 1AA").
func Normalize(raw string) string {
	compact := CompactKey(raw)
	if len(compact) < 5 {
		return compact
	}
	return compact[:len(compact)-3] + " " + compact[len(compact)-3:]
}

// ValidFormat reports whether the string looks like a UK postcode. This is
// a shape check only; existence is decided by the ONSPD lookup.
func ValidFormat(raw string) bool {
	compact := CompactKey(raw)
	if len(compact) < 5 || len(compact) > 7 {
		return false
	}
	return compactPattern.MatchString(compact)
}
