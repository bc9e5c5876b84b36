package engine

// AccountCategory pairs a Companies House account category with a short
// description for the introspection listing.
type AccountCategory struct {
	Name        string
	Description string
}

// AccountCategories lists every account category that appears in the
// Companies House snapshot, with rough population sizes for orientation.
var AccountCategories = []AccountCategory{
	{"MICRO ENTITY", "Turnover <= £632k, ~1.6M companies"},
	{"SMALL", "Turnover <= £10.2M, ~63k companies"},
	{"MEDIUM", "Turnover <= £36M, ~5k companies"},
	{"FULL", "Large companies, ~80k companies"},
	{"TOTAL EXEMPTION FULL", "Small companies filing full accounts, ~1.3M"},
	{"TOTAL EXEMPTION SMALL", "Small companies, ~9k"},
	{"DORMANT", "No trading activity, ~603k companies"},
	{"NO ACCOUNTS FILED", "~1.5M companies"},
	{"UNAUDITED ABRIDGED", "~165k companies"},
	{"AUDITED ABRIDGED", "Smaller set"},
	{"AUDIT EXEMPTION SUBSIDIARY", "~31k companies"},
	{"FILING EXEMPTION SUBSIDIARY", "Various"},
	{"GROUP", "~28k companies"},
	{"PARTIAL EXEMPTION", "Various"},
	{"ACCOUNTS TYPE NOT AVAILABLE", "Various"},
}

// ValidStatuses is the company status whitelist.
var ValidStatuses = []string{"Active", "Dissolved", "Liquidation", "Administration"}

// ValidAccountCategory reports whether name is a known account category.
func ValidAccountCategory(name string) bool {
	for _, c := range AccountCategories {
		if c.Name == name {
			return true
		}
	}
	return false
}

// ValidStatus reports whether name is a known company status.
func ValidStatus(name string) bool {
	for _, s := range ValidStatuses {
		if s == name {
			return true
		}
	}
	return false
}
