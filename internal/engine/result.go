package engine

import (
	"database/sql"
	"fmt"
	"strconv"
	"time"
)

// CompanyResult is one matched company. The column set is fixed: fields
// that did not apply to the query are nil rather than omitted, so the
// export schema never changes shape between queries.
type CompanyResult struct {
	CompanyNumber     string     `json:"company_number"`
	CompanyName       string     `json:"company_name"`
	Postcode          string     `json:"postcode"`
	DistanceMiles     float64    `json:"distance_miles"`
	CompanyStatus     string     `json:"company_status"`
	CompanyCategory   *string    `json:"company_category"`
	AccountCategory   *string    `json:"account_category"`
	IncorporationDate *time.Time `json:"incorporation_date"`
	CompanyAgeYears   *int       `json:"company_age_years"`
	LastAccountsDate  *time.Time `json:"last_accounts_date"`
	SICCount          int        `json:"sic_count"`
	SICCodes          *string    `json:"sic_codes"`
	PrimarySICCode    *int       `json:"primary_sic_code"`
	PrimarySICDesc    *string    `json:"primary_sic_description"`
	PSCCount          int        `json:"psc_count"`
	YoungestPSCAge    *int       `json:"youngest_psc_age"`
	OldestPSCAge      *int       `json:"oldest_psc_age"`
	QualifyingName    *string    `json:"qualifying_psc_name"`
	QualifyingAge     *int       `json:"qualifying_psc_age"`
	QualifyingTenure  *int       `json:"qualifying_psc_tenure_years"`
}

// ResultColumns is the fixed output header, in the order Row emits values.
var ResultColumns = []string{
	"CompanyNumber",
	"CompanyName",
	"Postcode",
	"DistanceMiles",
	"CompanyStatus",
	"CompanyCategory",
	"AccountCategory",
	"IncorporationDate",
	"CompanyAgeYears",
	"LastAccountsDate",
	"SicCodeCount",
	"SicCodes",
	"PrimarySicCode",
	"PrimarySicDescription",
	"PscCount",
	"YoungestPscAge",
	"OldestPscAge",
	"QualifyingPscName",
	"QualifyingPscAge",
	"QualifyingPscTenureYears",
}

// Row renders the result as strings in ResultColumns order. Nil fields
// become empty strings.
func (r *CompanyResult) Row() []string {
	return []string{
		r.CompanyNumber,
		r.CompanyName,
		r.Postcode,
		strconv.FormatFloat(r.DistanceMiles, 'f', 2, 64),
		r.CompanyStatus,
		strOrEmpty(r.CompanyCategory),
		strOrEmpty(r.AccountCategory),
		dateOrEmpty(r.IncorporationDate),
		intOrEmpty(r.CompanyAgeYears),
		dateOrEmpty(r.LastAccountsDate),
		strconv.Itoa(r.SICCount),
		strOrEmpty(r.SICCodes),
		intOrEmpty(r.PrimarySICCode),
		strOrEmpty(r.PrimarySICDesc),
		strconv.Itoa(r.PSCCount),
		intOrEmpty(r.YoungestPSCAge),
		intOrEmpty(r.OldestPSCAge),
		strOrEmpty(r.QualifyingName),
		intOrEmpty(r.QualifyingAge),
		intOrEmpty(r.QualifyingTenure),
	}
}

// scanResults assembles the final row set. The statement already
// deduplicates to one row per company and orders by ascending distance;
// scanning preserves that order. The returned slice is non-nil even when
// empty: zero matches is a valid outcome, not an error.
func scanResults(rows *sql.Rows) ([]CompanyResult, error) {
	results := make([]CompanyResult, 0)

	for rows.Next() {
		var r CompanyResult
		var companyCategory, accountCategory, sicCodes, primaryDesc, qName sql.NullString
		var incorporation, lastAccounts sql.NullTime
		var companyAge, primaryCode, youngest, oldest, qAge, qTenure sql.NullInt64

		err := rows.Scan(
			&r.CompanyNumber,
			&r.CompanyName,
			&r.Postcode,
			&r.DistanceMiles,
			&r.CompanyStatus,
			&companyCategory,
			&accountCategory,
			&incorporation,
			&companyAge,
			&lastAccounts,
			&r.SICCount,
			&sicCodes,
			&primaryCode,
			&primaryDesc,
			&r.PSCCount,
			&youngest,
			&oldest,
			&qName,
			&qAge,
			&qTenure,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan result row: %w", err)
		}

		r.CompanyCategory = nullString(companyCategory)
		r.AccountCategory = nullString(accountCategory)
		r.IncorporationDate = nullTime(incorporation)
		r.CompanyAgeYears = nullInt(companyAge)
		r.LastAccountsDate = nullTime(lastAccounts)
		r.SICCodes = nullString(sicCodes)
		r.PrimarySICCode = nullInt(primaryCode)
		r.PrimarySICDesc = nullString(primaryDesc)
		r.YoungestPSCAge = nullInt(youngest)
		r.OldestPSCAge = nullInt(oldest)
		r.QualifyingName = nullString(qName)
		r.QualifyingAge = nullInt(qAge)
		r.QualifyingTenure = nullInt(qTenure)

		results = append(results, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("result iteration failed: %w", err)
	}

	return results, nil
}

func nullString(v sql.NullString) *string {
	if !v.Valid {
		return nil
	}
	s := v.String
	return &s
}

func nullTime(v sql.NullTime) *time.Time {
	if !v.Valid {
		return nil
	}
	t := v.Time
	return &t
}

func nullInt(v sql.NullInt64) *int {
	if !v.Valid {
		return nil
	}
	n := int(v.Int64)
	return &n
}

func strOrEmpty(v *string) string {
	if v == nil {
		return ""
	}
	return *v
}

func intOrEmpty(v *int) string {
	if v == nil {
		return ""
	}
	return strconv.Itoa(*v)
}

func dateOrEmpty(v *time.Time) string {
	if v == nil {
		return ""
	}
	return v.Format("2006-01-02")
}
