package engine

import (
	"fmt"
	"strings"
	"time"

	"github.com/lib/pq"

	"github.com/ch-finder/internal/geo"
)

// builder accumulates SQL fragments and positional arguments for one
// composed search statement.
type builder struct {
	parts []string
	args  []interface{}
}

func (b *builder) bind(v interface{}) string {
	b.args = append(b.args, v)
	return fmt.Sprintf("$%d", len(b.args))
}

func (b *builder) add(part string) {
	b.parts = append(b.parts, part)
}

func (b *builder) sql() string {
	return strings.Join(b.parts, "\n")
}

// haversineExpr is the great-circle distance in miles between the bound
// center parameters and the lat/long columns in scope.
func haversineExpr(latParam, longParam string) string {
	return fmt.Sprintf(`%.1f * 2 * ASIN(SQRT(
			POWER(SIN(RADIANS(%s - lat) / 2), 2) +
			COS(RADIANS(%s)) * COS(RADIANS(lat)) *
			POWER(SIN(RADIANS(%s - long) / 2), 2)))`,
		geo.EarthRadiusMiles, latParam, latParam, longParam)
}

// pscAgeExpr derives a PSC's approximate age at the as-of date from birth
// year and month. The year difference is decremented when the as-of month
// precedes the birth month; with only month precision the result is
// accurate to within 12 months. NULL birth years propagate to NULL.
func pscAgeExpr(asOfParam string) string {
	return fmt.Sprintf(`(EXTRACT(YEAR FROM %[1]s::date)::int - p.birth_year
			- CASE WHEN p.birth_month BETWEEN 1 AND 12
			        AND EXTRACT(MONTH FROM %[1]s::date)::int < p.birth_month
			  THEN 1 ELSE 0 END)`, asOfParam)
}

// pscTenureExpr derives whole years of tenure at the as-of date, floored at
// zero. With officer data available the start date is the earlier of the
// PSC notification and the person's first officer appointment, which
// mitigates the PSC register's 2016 start-date censoring.
func pscTenureExpr(asOfParam string, withOfficers bool) string {
	start := "p.notified_on"
	if withOfficers {
		start = `(CASE WHEN o.first_appointed IS NOT NULL AND o.first_appointed < p.notified_on
			THEN o.first_appointed ELSE p.notified_on END)`
	}
	return yearsSinceExpr(asOfParam, start)
}

// companyAgeExpr derives company age in whole years at the as-of date.
func companyAgeExpr(asOfParam, column string) string {
	return yearsSinceExpr(asOfParam, column)
}

func yearsSinceExpr(asOfParam, start string) string {
	return fmt.Sprintf(`GREATEST(0, EXTRACT(YEAR FROM %[1]s::date)::int - EXTRACT(YEAR FROM %[2]s)::int
			- CASE WHEN EXTRACT(MONTH FROM %[1]s::date)::int < EXTRACT(MONTH FROM %[2]s)::int
			  THEN 1 ELSE 0 END)`, asOfParam, start)
}

// currentPSCExpr keeps only PSCs whose control had not ceased at the as-of
// date.
func currentPSCExpr(asOfParam string) string {
	return fmt.Sprintf("(p.ceased_on IS NULL OR p.ceased_on > %s::date)", asOfParam)
}

// buildSearchQuery composes the full search statement for a validated spec.
//
// The pipeline evaluates the smallest table first: the candidate postcode
// set within the radius is computed once (bounding-box prefilter, then the
// exact Haversine test) and pushed down as a join-reducing predicate before
// the company, SIC and PSC tables are touched.
func buildSearchQuery(center geo.Coordinate, spec QuerySpec, asOf time.Time, withOfficers bool) (string, []interface{}) {
	b := &builder{}

	latP := b.bind(center.Lat)
	longP := b.bind(center.Long)
	radiusP := b.bind(spec.RadiusMiles)
	asOfP := b.bind(asOf.Format("2006-01-02"))

	hav := haversineExpr(latP, longP)
	box := geo.BoxAround(center, spec.RadiusMiles)

	b.add(fmt.Sprintf(`WITH postcodes_in_radius AS (
	SELECT
		pcds,
		REPLACE(UPPER(pcds), ' ', '') AS pcd_key,
		%s AS distance_miles
	FROM postcodes
	WHERE lat BETWEEN %s AND %s
	  AND long BETWEEN %s AND %s
	  AND %s <= %s
),`,
		hav,
		b.bind(box.MinLat), b.bind(box.MaxLat),
		b.bind(box.MinLong), b.bind(box.MaxLong),
		hav, radiusP))

	b.add(buildCompaniesCTE(b, spec, asOfP))
	current := "companies_in_radius"

	if len(spec.SICCodes) > 0 {
		b.add(buildSICFilterCTE(b, spec.SICCodes))
		current = "companies_with_sic"
	}

	demographic := spec.HasDemographicFilter()
	joinOfficers := demographic && withOfficers

	if joinOfficers {
		b.add(`officer_earliest AS (
	SELECT
		company_number,
		UPPER(TRIM(name)) AS person_key,
		MIN(appointment_date) AS first_appointed
	FROM officers
	WHERE appointment_date IS NOT NULL
	GROUP BY company_number, UPPER(TRIM(name))
),`)
	}

	if demographic {
		b.add(buildOwnerFilterCTE(b, spec, current, asOfP, joinOfficers))
		current = "companies_with_owners"
	}

	b.add(buildSummaryCTEs(asOfP))
	b.add(buildFinalSelect(b, spec, current, asOfP, joinOfficers))

	return b.sql(), b.args
}

// buildCompaniesCTE joins companies against the candidate postcode set and
// applies the status, account-category and company-age predicates.
func buildCompaniesCTE(b *builder, spec QuerySpec, asOfP string) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf(`companies_in_radius AS (
	SELECT
		c.company_number,
		c.company_name,
		c.postcode,
		c.company_status,
		c.company_category,
		c.account_category,
		c.incorporation_date,
		c.accounts_last_made_up_date,
		p.distance_miles
	FROM companies c
	JOIN postcodes_in_radius p
	  ON REPLACE(UPPER(c.postcode), ' ', '') = p.pcd_key
	WHERE c.company_status = %s`, b.bind(spec.Status())))

	if len(spec.AccountCategories) > 0 {
		sb.WriteString(fmt.Sprintf("\n	  AND c.account_category = ANY(%s)",
			b.bind(pq.Array(spec.AccountCategories))))
	} else {
		// Snapshot quirk: Active companies can still carry a DORMANT
		// account category. Exclude them unless dormant accounts were
		// asked for explicitly.
		sb.WriteString("\n	  AND (c.account_category IS NULL OR c.account_category <> 'DORMANT')")
	}

	if spec.MinCompanyAge != nil || spec.MaxCompanyAge != nil {
		age := companyAgeExpr(asOfP, "c.incorporation_date")
		sb.WriteString("\n	  AND c.incorporation_date IS NOT NULL")
		if spec.MinCompanyAge != nil {
			sb.WriteString(fmt.Sprintf("\n	  AND %s >= %s", age, b.bind(*spec.MinCompanyAge)))
		}
		if spec.MaxCompanyAge != nil {
			sb.WriteString(fmt.Sprintf("\n	  AND %s <= %s", age, b.bind(*spec.MaxCompanyAge)))
		}
	}

	sb.WriteString("\n),")
	return sb.String()
}

// buildSICFilterCTE keeps companies with at least one SIC code in the
// requested set. DISTINCT guards against companies listing several
// matching codes.
func buildSICFilterCTE(b *builder, codes []int) string {
	sicCodes := make([]int64, len(codes))
	for i, c := range codes {
		sicCodes[i] = int64(c)
	}
	return fmt.Sprintf(`companies_with_sic AS (
	SELECT DISTINCT c.*
	FROM companies_in_radius c
	JOIN company_sic s ON s.company_number = c.company_number
	WHERE s.sic_code = ANY(%s)
),`, b.bind(pq.Array(sicCodes)))
}

// ownerConds builds the person-level predicate list: a PSC row satisfies it
// when the control is current at the as-of date and every set demographic
// bound holds for that same person.
func ownerConds(b *builder, spec QuerySpec, asOfP string, withOfficers bool, includeTenure bool) []string {
	conds := []string{currentPSCExpr(asOfP)}

	if spec.MinPSCAge != nil || spec.MaxPSCAge != nil {
		age := pscAgeExpr(asOfP)
		conds = append(conds, "p.birth_year IS NOT NULL")
		if spec.MinPSCAge != nil {
			conds = append(conds, fmt.Sprintf("%s >= %s", age, b.bind(*spec.MinPSCAge)))
		}
		if spec.MaxPSCAge != nil {
			conds = append(conds, fmt.Sprintf("%s <= %s", age, b.bind(*spec.MaxPSCAge)))
		}
	}

	if includeTenure && spec.HasTenureFilter() {
		tenure := pscTenureExpr(asOfP, withOfficers)
		conds = append(conds, "p.notified_on IS NOT NULL")
		if spec.MinTenure != nil {
			conds = append(conds, fmt.Sprintf("%s >= %s", tenure, b.bind(*spec.MinTenure)))
		}
		if spec.MaxTenure != nil {
			conds = append(conds, fmt.Sprintf("%s <= %s", tenure, b.bind(*spec.MaxTenure)))
		}
	}

	return conds
}

func pscFromClause(withOfficers bool) string {
	if withOfficers {
		return `FROM psc p
		LEFT JOIN officer_earliest o
		  ON o.company_number = p.company_number
		 AND o.person_key = UPPER(TRIM(p.name))`
	}
	return "FROM psc p"
}

// buildOwnerFilterCTE applies the demographic filter. Default policy: a
// company matches when at least one current PSC satisfies every set bound
// simultaneously - acquisition search asks "does this company have a
// retirement-age owner", not "are all owners retirement-age". Strict
// tenure mode additionally rejects companies with any current PSC outside
// the tenure range.
func buildOwnerFilterCTE(b *builder, spec QuerySpec, current, asOfP string, withOfficers bool) string {
	strict := spec.StrictTenure && spec.HasTenureFilter()

	conds := ownerConds(b, spec, asOfP, withOfficers, !strict)
	from := pscFromClause(withOfficers)

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf(`companies_with_owners AS (
	SELECT c.*
	FROM %s c
	WHERE EXISTS (
		SELECT 1
		%s
		WHERE p.company_number = c.company_number
		  AND %s
	)`, current, from, strings.Join(conds, "\n		  AND ")))

	if strict {
		violation := []string{currentPSCExpr(asOfP), "p.notified_on IS NOT NULL"}
		tenure := pscTenureExpr(asOfP, withOfficers)
		var outside []string
		if spec.MinTenure != nil {
			outside = append(outside, fmt.Sprintf("%s < %s", tenure, b.bind(*spec.MinTenure)))
		}
		if spec.MaxTenure != nil {
			outside = append(outside, fmt.Sprintf("%s > %s", tenure, b.bind(*spec.MaxTenure)))
		}
		violation = append(violation, "("+strings.Join(outside, " OR ")+")")

		sb.WriteString(fmt.Sprintf(`
	  AND NOT EXISTS (
		SELECT 1
		%s
		WHERE p.company_number = c.company_number
		  AND %s
	)`, from, strings.Join(violation, "\n		  AND ")))
	}

	sb.WriteString("\n),")
	return sb.String()
}

// buildSummaryCTEs aggregates per-company SIC and PSC context columns,
// restricted to the radius candidates so the aggregates never scan rows the
// geographic filter already excluded.
func buildSummaryCTEs(asOfP string) string {
	age := pscAgeExpr(asOfP)
	return fmt.Sprintf(`sic_summary AS (
	SELECT
		company_number,
		COUNT(*) AS sic_count,
		MAX(CASE WHEN sic_position = 1 THEN sic_code END) AS primary_sic_code,
		MAX(CASE WHEN sic_position = 1 THEN sic_description END) AS primary_sic_description,
		STRING_AGG(sic_code::text, ';' ORDER BY sic_position) AS sic_codes
	FROM company_sic
	WHERE company_number IN (SELECT company_number FROM companies_in_radius)
	GROUP BY company_number
),
psc_summary AS (
	SELECT
		p.company_number,
		COUNT(*) AS psc_count,
		MIN(%s) AS youngest_psc_age,
		MAX(%s) AS oldest_psc_age
	FROM psc p
	WHERE %s
	  AND p.company_number IN (SELECT company_number FROM companies_in_radius)
	GROUP BY p.company_number
)`, age, age, currentPSCExpr(asOfP))
}

// buildFinalSelect assembles one row per company with the fixed result
// schema, ordered nearest-first with the company number as a deterministic
// tie-break.
func buildFinalSelect(b *builder, spec QuerySpec, current, asOfP string, withOfficers bool) string {
	var sb strings.Builder

	qualifying := `NULL::text AS qualifying_name,
	NULL::int AS qualifying_age,
	NULL::int AS qualifying_tenure`
	var lateral string

	if spec.HasDemographicFilter() {
		qualifying = `q.qualifying_name,
	q.qualifying_age,
	q.qualifying_tenure`
		conds := ownerConds(b, spec, asOfP, withOfficers, !spec.StrictTenure || !spec.HasTenureFilter())
		lateral = fmt.Sprintf(`
LEFT JOIN LATERAL (
	SELECT
		p.name AS qualifying_name,
		%s AS qualifying_age,
		CASE WHEN p.notified_on IS NULL THEN NULL ELSE %s END AS qualifying_tenure
	%s
	WHERE p.company_number = c.company_number
	  AND %s
	ORDER BY p.notified_on NULLS LAST, p.name
	LIMIT 1
) q ON TRUE`,
			pscAgeExpr(asOfP),
			pscTenureExpr(asOfP, withOfficers),
			pscFromClause(withOfficers),
			strings.Join(conds, "\n	  AND "))
	}

	sb.WriteString(fmt.Sprintf(`SELECT
	c.company_number,
	c.company_name,
	c.postcode,
	ROUND(c.distance_miles::numeric, 2) AS distance_miles,
	c.company_status,
	c.company_category,
	c.account_category,
	c.incorporation_date,
	CASE WHEN c.incorporation_date IS NULL THEN NULL ELSE %s END AS company_age_years,
	c.accounts_last_made_up_date,
	COALESCE(s.sic_count, 0) AS sic_count,
	s.sic_codes,
	s.primary_sic_code,
	s.primary_sic_description,
	COALESCE(ps.psc_count, 0) AS psc_count,
	ps.youngest_psc_age,
	ps.oldest_psc_age,
	%s
FROM %s c
LEFT JOIN sic_summary s ON s.company_number = c.company_number
LEFT JOIN psc_summary ps ON ps.company_number = c.company_number%s
ORDER BY c.distance_miles ASC, c.company_number ASC`,
		companyAgeExpr(asOfP, "c.incorporation_date"),
		qualifying,
		current,
		lateral))

	if spec.MaxResults > 0 {
		sb.WriteString(fmt.Sprintf("\nLIMIT %s", b.bind(spec.MaxResults)))
	}

	return sb.String()
}
