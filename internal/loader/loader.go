// Package loader bulk-inserts normalized records into the destination table.
package loader

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	// Database drivers selected via config.
	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"

	"primesquare/internal/models"
)

func init() {
	// modernc registers as "sqlite", a driver name sqlx does not know.
	sqlx.BindDriver("sqlite", sqlx.QUESTION)
}

// LoadError reports a failed load into the destination table.
type LoadError struct {
	Table string
	Mode  models.WriteMode
	Err   error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("failed to load table %s (%s): %v", e.Table, e.Mode, e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// Loader writes record batches into one destination table.
type Loader struct {
	db     *sqlx.DB
	driver string
	table  string
}

// Open connects to the destination database and verifies it with a ping.
func Open(driver, dsn, table string) (*Loader, error) {
	db, err := sqlx.Connect(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to %s: %w", driver, err)
	}

	return &Loader{db: db, driver: driver, table: table}, nil
}

// Close releases the database connection.
func (l *Loader) Close() error {
	return l.db.Close()
}

// Load inserts the records with the given write mode. Replace drops and
// recreates the table first; Append creates it only when missing and never
// deduplicates, so the same id loaded across runs yields duplicate rows.
// Records go through one prepared statement; nil values bind as NULL.
func (l *Loader) Load(ctx context.Context, records []models.Record, mode models.WriteMode) error {
	if err := l.prepareTable(ctx, mode); err != nil {
		return &LoadError{Table: l.table, Mode: mode, Err: err}
	}

	if len(records) == 0 {
		return nil
	}

	stmt, err := l.db.PrepareNamedContext(ctx, insertStatement(l.table))
	if err != nil {
		return &LoadError{Table: l.table, Mode: mode, Err: fmt.Errorf("failed to prepare insert: %w", err)}
	}
	defer stmt.Close()

	for i, rec := range records {
		if _, err := stmt.ExecContext(ctx, map[string]any(rec)); err != nil {
			return &LoadError{Table: l.table, Mode: mode, Err: fmt.Errorf("failed to insert record %d: %w", i, err)}
		}
	}

	return nil
}

func (l *Loader) prepareTable(ctx context.Context, mode models.WriteMode) error {
	if mode == models.Replace {
		if _, err := l.db.ExecContext(ctx, "DROP TABLE IF EXISTS "+l.table); err != nil {
			return fmt.Errorf("failed to drop table: %w", err)
		}
	}

	if _, err := l.db.ExecContext(ctx, l.createStatement()); err != nil {
		return fmt.Errorf("failed to create table: %w", err)
	}

	return nil
}

// createStatement builds the CREATE TABLE DDL from the canonical column set.
// Text is the default; numeric columns map to the driver's float type.
func (l *Loader) createStatement() string {
	floatType := "DOUBLE PRECISION"
	if l.driver == "sqlite" {
		floatType = "REAL"
	}

	numeric := make(map[string]bool, len(models.NumericColumns()))
	for _, col := range models.NumericColumns() {
		numeric[col] = true
	}

	cols := models.Columns()
	defs := make([]string, 0, len(cols))

	for _, col := range cols {
		typ := "TEXT"
		if numeric[col] {
			typ = floatType
		}

		defs = append(defs, col+" "+typ)
	}

	return "CREATE TABLE IF NOT EXISTS " + l.table + " (" + strings.Join(defs, ", ") + ")"
}

func insertStatement(table string) string {
	cols := models.Columns()
	named := make([]string, len(cols))

	for i, col := range cols {
		named[i] = ":" + col
	}

	return "INSERT INTO " + table + " (" + strings.Join(cols, ", ") + ") VALUES (" + strings.Join(named, ", ") + ")"
}
