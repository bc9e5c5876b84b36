package postcode

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/ch-finder/internal/geo"
)

// NotFoundError reports a postcode that has no entry in the ONSPD postcode
// table. It is a user-input error, distinct from a search that matches
// zero companies.
type NotFoundError struct {
	Postcode string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("postcode %q not found in the ONSPD postcode table - check the postcode is correct and currently in use", e.Postcode)
}

// Resolver maps postcode strings to WGS84 coordinates using the postcodes
// reference table. Pure lookup, no side effects.
type Resolver struct {
	db *sql.DB
}

// NewResolver creates a resolver over the shared database handle.
func NewResolver(db *sql.DB) *Resolver {
	return &Resolver{db: db}
}

// Resolve returns the coordinate and the formatted ONSPD postcode for a raw
// postcode string. The lookup is a keyed point query on the normalized
// postcode; sql/schema.sql defines the supporting expression index.
func (r *Resolver) Resolve(raw string) (geo.Coordinate, string, error) {
	key := CompactKey(raw)

	var coord geo.Coordinate
	var formatted string
	err := r.db.QueryRow(`
		SELECT pcds, lat, long
		FROM postcodes
		WHERE REPLACE(UPPER(pcds), ' ', '') = $1
		LIMIT 1
	`, key).Scan(&formatted, &coord.Lat, &coord.Long)

	if errors.Is(err, sql.ErrNoRows) {
		return geo.Coordinate{}, "", &NotFoundError{Postcode: Normalize(raw)}
	}
	if err != nil {
		return geo.Coordinate{}, "", fmt.Errorf("postcode lookup failed: %w", err)
	}

	return coord, formatted, nil
}
