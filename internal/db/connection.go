package db

import (
	"database/sql"
	"fmt"
	"strings"

	_ "github.com/lib/pq"

	"github.com/ch-finder/internal/config"
)

// Connection holds the database connection
type Connection struct {
	DB *sql.DB
}

// RequiredTables are the normalized tables the ingestion pipeline must load
// before any query can run. The officers table is optional; without it
// tenure falls back to PSC notification dates alone.
var RequiredTables = []string{"companies", "company_sic", "psc", "postcodes"}

// MissingTablesError means a required table has not been loaded. It is
// fatal for the query: the operator must run the ingestion pipeline.
type MissingTablesError struct {
	Tables []string
}

func (e *MissingTablesError) Error() string {
	return fmt.Sprintf("missing required tables: %s - run the ingestion pipeline to load a data release",
		strings.Join(e.Tables, ", "))
}

// NewConnection creates a new database connection
func NewConnection() (*Connection, error) {
	host := config.GetEnv("PGHOST", "localhost")
	port := config.GetEnv("PGPORT", "5432")
	user := config.GetEnv("PGUSER", "chfinder")
	password := config.GetEnv("PGPASSWORD", "chfinder")
	dbname := config.GetEnv("PGDATABASE", "companies_house")

	dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		host, port, user, password, dbname)

	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	// The dataset is read-only per release; a small pool is plenty for one
	// interactive query at a time.
	db.SetMaxOpenConns(config.GetEnvInt("PGMAXCONNS", 10))
	db.SetMaxIdleConns(5)

	return &Connection{DB: db}, nil
}

// ValidateTables checks that every required table exists, reporting all
// missing tables at once.
func (c *Connection) ValidateTables() error {
	var missing []string

	for _, table := range RequiredTables {
		exists, err := c.tableExists(table)
		if err != nil {
			return fmt.Errorf("table check failed for %s: %w", table, err)
		}
		if !exists {
			missing = append(missing, table)
		}
	}

	if len(missing) > 0 {
		return &MissingTablesError{Tables: missing}
	}
	return nil
}

// HasOfficers reports whether the optional officers table is loaded.
func (c *Connection) HasOfficers() bool {
	exists, err := c.tableExists("officers")
	return err == nil && exists
}

func (c *Connection) tableExists(table string) (bool, error) {
	var reg sql.NullString
	if err := c.DB.QueryRow(`SELECT to_regclass($1)::text`, table).Scan(&reg); err != nil {
		return false, err
	}
	return reg.Valid, nil
}

// Close closes the database connection
func (c *Connection) Close() error {
	return c.DB.Close()
}
