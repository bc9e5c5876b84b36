package engine

import (
	"fmt"
	"time"

	"github.com/ch-finder/internal/db"
	"github.com/ch-finder/internal/debug"
	"github.com/ch-finder/internal/geo"
	"github.com/ch-finder/internal/postcode"
)

// Searcher executes multi-criteria company searches against the normalized
// tables. It is stateless and deterministic per (spec, asOf): derived ages
// and tenures are recomputed every call, never cached.
type Searcher struct {
	conn  *db.Connection
	Debug bool
}

// NewSearcher creates a searcher over the shared connection.
func NewSearcher(conn *db.Connection) *Searcher {
	return &Searcher{conn: conn}
}

// Search runs the full pipeline for one query. Cheap validation runs
// first, then the table-availability check and the postcode lookup, so bad
// input never reaches the large tables. A query matching zero companies
// returns an empty, non-nil slice - that is a valid outcome, distinct from
// an unknown postcode.
func (s *Searcher) Search(spec QuerySpec, asOf time.Time) ([]CompanyResult, error) {
	if err := spec.Validate(); err != nil {
		return nil, err
	}

	if err := s.conn.ValidateTables(); err != nil {
		return nil, err
	}

	center, formatted, err := postcode.NewResolver(s.conn.DB).Resolve(spec.Postcode)
	if err != nil {
		return nil, err
	}
	debug.Output(s.Debug, "resolved %s to (%.6f, %.6f)", formatted, center.Lat, center.Long)

	return s.searchFrom(center, spec, asOf)
}

// searchFrom runs the set-oriented part of the pipeline from a resolved
// center coordinate.
func (s *Searcher) searchFrom(center geo.Coordinate, spec QuerySpec, asOf time.Time) ([]CompanyResult, error) {
	withOfficers := s.conn.HasOfficers()
	if spec.HasTenureFilter() && !withOfficers {
		debug.Output(s.Debug, "officers table not loaded; tenure derives from PSC notification dates only")
	}

	query, args := buildSearchQuery(center, spec, asOf, withOfficers)

	done := debug.Timing(s.Debug, "search query")
	rows, err := s.conn.DB.Query(query, args...)
	done()
	if err != nil {
		return nil, fmt.Errorf("search query failed: %w", err)
	}
	defer rows.Close()

	return scanResults(rows)
}
