// Package inspect reports on the loaded data release: row counts, join
// coverage and coordinate sanity. Run it after an ingest to see what a
// search can actually reach.
package inspect

import (
	"fmt"
	"io"

	"github.com/ch-finder/internal/db"
)

// Report is a snapshot of the loaded tables.
type Report struct {
	Companies       int64 `json:"companies"`
	ActiveCompanies int64 `json:"active_companies"`
	NullPostcodes   int64 `json:"null_postcodes"`
	SICRows         int64 `json:"sic_rows"`
	PSCRows         int64 `json:"psc_rows"`
	CurrentPSCs     int64 `json:"current_pscs"`
	Postcodes       int64 `json:"postcodes"`
	OfficersLoaded  bool  `json:"officers_loaded"`
	OfficerRows     int64 `json:"officer_rows"`

	// MatchedCompanies counts active companies whose postcode joins to the
	// ONSPD table. The gap to ActiveCompanies is unreachable by any
	// geographic search: retired postcodes, foreign addresses and typos in
	// the registered address.
	MatchedCompanies int64 `json:"matched_companies"`

	OutOfBoundsPoints int64 `json:"out_of_bounds_points"`
}

// Inspector builds reports over a live connection.
type Inspector struct {
	conn *db.Connection
}

func NewInspector(conn *db.Connection) *Inspector {
	return &Inspector{conn: conn}
}

// Run gathers the report. It validates table presence first so a missing
// table surfaces as one clear error instead of a string of query failures.
func (i *Inspector) Run() (*Report, error) {
	if err := i.conn.ValidateTables(); err != nil {
		return nil, err
	}

	r := &Report{OfficersLoaded: i.conn.HasOfficers()}

	counts := []struct {
		dest  *int64
		query string
	}{
		{&r.Companies, "SELECT COUNT(*) FROM companies"},
		{&r.ActiveCompanies, "SELECT COUNT(*) FROM companies WHERE company_status = 'Active'"},
		{&r.NullPostcodes, "SELECT COUNT(*) FROM companies WHERE postcode IS NULL OR TRIM(postcode) = ''"},
		{&r.SICRows, "SELECT COUNT(*) FROM company_sic"},
		{&r.PSCRows, "SELECT COUNT(*) FROM psc"},
		{&r.CurrentPSCs, "SELECT COUNT(*) FROM psc WHERE ceased_on IS NULL"},
		{&r.Postcodes, "SELECT COUNT(*) FROM postcodes"},
		{&r.MatchedCompanies, `SELECT COUNT(*)
			FROM companies c
			WHERE c.company_status = 'Active'
			  AND EXISTS (
				SELECT 1 FROM postcodes p
				WHERE REPLACE(UPPER(p.pcds), ' ', '') = REPLACE(UPPER(c.postcode), ' ', '')
			)`},
		// Great Britain plus Northern Ireland fits inside this box; points
		// outside it are bad ONSPD rows or unit conversion mistakes.
		{&r.OutOfBoundsPoints, `SELECT COUNT(*) FROM postcodes
			WHERE lat NOT BETWEEN 49.0 AND 61.0
			   OR long NOT BETWEEN -8.7 AND 2.0`},
	}

	for _, c := range counts {
		if err := i.conn.DB.QueryRow(c.query).Scan(c.dest); err != nil {
			return nil, fmt.Errorf("inspection query failed: %w", err)
		}
	}

	if r.OfficersLoaded {
		if err := i.conn.DB.QueryRow("SELECT COUNT(*) FROM officers").Scan(&r.OfficerRows); err != nil {
			return nil, fmt.Errorf("inspection query failed: %w", err)
		}
	}

	return r, nil
}

// Print renders the report as an aligned text summary.
func (r *Report) Print(w io.Writer) {
	fmt.Fprintf(w, "Data release summary\n")
	fmt.Fprintf(w, "====================\n\n")
	fmt.Fprintf(w, "  %-28s %12d\n", "Companies:", r.Companies)
	fmt.Fprintf(w, "  %-28s %12d\n", "Active companies:", r.ActiveCompanies)
	fmt.Fprintf(w, "  %-28s %12d\n", "Missing postcodes:", r.NullPostcodes)
	fmt.Fprintf(w, "  %-28s %12d\n", "SIC code rows:", r.SICRows)
	fmt.Fprintf(w, "  %-28s %12d\n", "PSC records:", r.PSCRows)
	fmt.Fprintf(w, "  %-28s %12d\n", "Current PSCs:", r.CurrentPSCs)
	fmt.Fprintf(w, "  %-28s %12d\n", "ONSPD postcodes:", r.Postcodes)

	if r.OfficersLoaded {
		fmt.Fprintf(w, "  %-28s %12d\n", "Officer appointments:", r.OfficerRows)
	} else {
		fmt.Fprintf(w, "  %-28s %12s\n", "Officer appointments:", "not loaded")
	}

	fmt.Fprintf(w, "\nGeographic coverage\n")
	fmt.Fprintf(w, "  %-28s %12d  (%.1f%% of active)\n",
		"Searchable companies:", r.MatchedCompanies, r.MatchedRate()*100)
	if r.OutOfBoundsPoints > 0 {
		fmt.Fprintf(w, "  %-28s %12d\n", "Points outside UK bounds:", r.OutOfBoundsPoints)
	}
}

// MatchedRate is the share of active companies a geographic search can
// reach, 0 when there are no active companies.
func (r *Report) MatchedRate() float64 {
	if r.ActiveCompanies == 0 {
		return 0
	}
	return float64(r.MatchedCompanies) / float64(r.ActiveCompanies)
}
