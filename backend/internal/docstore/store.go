// Package docstore is the primary store: one JSON document per node and
// per edge, keyed by the record's natural key, in SQLite or Postgres.
package docstore

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"strings"

	_ "github.com/jackc/pgx/v5/stdlib"
	"go.uber.org/zap"
	_ "modernc.org/sqlite"

	"hetio-cli/backend/pkg/logger"
)

// Supported drivers
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS nodes (
		id   TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		kind TEXT NOT NULL,
		doc  TEXT NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_nodes_kind_name ON nodes (kind, name)`,
	`CREATE TABLE IF NOT EXISTS edges (
		source   TEXT NOT NULL,
		target   TEXT NOT NULL,
		metaedge TEXT NOT NULL,
		doc      TEXT NOT NULL,
		PRIMARY KEY (source, target, metaedge)
	)`,
	`CREATE INDEX IF NOT EXISTS idx_edges_metaedge_source ON edges (metaedge, source)`,
	`CREATE INDEX IF NOT EXISTS idx_edges_metaedge_target ON edges (metaedge, target)`,
}

// Store wraps the primary database connection
type Store struct {
	db     *sql.DB
	driver string
	logger *zap.Logger
}

// Open connects to the primary store and creates the schema if needed
func Open(ctx context.Context, driver, dsn string) (*Store, error) {
	var sqlDriver string
	switch driver {
	case DriverSQLite:
		sqlDriver = "sqlite"
	case DriverPostgres:
		sqlDriver = "pgx"
	default:
		return nil, fmt.Errorf("unsupported primary driver %q", driver)
	}

	db, err := sql.Open(sqlDriver, dsn)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	if driver == DriverSQLite {
		// one connection: ":memory:" databases are per connection
		db.SetMaxOpenConns(1)
		if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL"); err != nil {
			db.Close()
			return nil, fmt.Errorf("setting WAL mode: %w", err)
		}
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping: %w", err)
	}

	s := &Store{db: db, driver: driver, logger: logger.Get()}
	if err := s.bootstrap(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) bootstrap(ctx context.Context) error {
	for _, stmt := range schemaStatements {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("creating schema: %w", err)
		}
	}
	return nil
}

// Close closes the database connection
func (s *Store) Close() error {
	return s.db.Close()
}

// Driver returns the configured driver name
func (s *Store) Driver() string {
	return s.driver
}

// rebind rewrites ? placeholders to $n for Postgres
func (s *Store) rebind(query string) string {
	if s.driver != DriverPostgres {
		return query
	}
	var b strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteString("$" + strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// placeholders returns "?, ?, ?" for n arguments
func placeholders(n int) string {
	if n <= 0 {
		return ""
	}
	return strings.TrimSuffix(strings.Repeat("?, ", n), ", ")
}
