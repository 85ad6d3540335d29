// Package sqlite opens the organism database with whichever SQLite driver
// the build selected: modernc.org/sqlite by default, mattn/go-sqlite3 with
// -tags cgo_sqlite (CGO_ENABLED=1).
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
)

// Driver describes the SQLite driver compiled in.
type Driver struct {
	Name    string // database/sql driver name
	Type    string // "purego" or "cgo"
	Package string
}

// CGO reports whether the driver is mattn/go-sqlite3.
func (d Driver) CGO() bool { return d.Type == "cgo" }

// Current returns the compiled-in driver.
func Current() Driver {
	return Driver{Name: driverName, Type: driverType, Package: driverPackage}
}

// Open opens path for reading and writing, creating the file if needed.
// The connection is checked before returning.
func Open(ctx context.Context, path string) (*sql.DB, error) {
	return open(ctx, path)
}

// OpenReadOnly opens an existing database without write access.
func OpenReadOnly(ctx context.Context, path string) (*sql.DB, error) {
	return open(ctx, "file:"+path+"?mode=ro")
}

func open(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := sql.Open(driverName, dsn)
	if err != nil {
		return nil, err
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

// WithTx runs fn inside a transaction. It commits when fn returns nil and
// rolls back otherwise.
func WithTx(ctx context.Context, db *sql.DB, fn func(*sql.Tx) error) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return fmt.Errorf("%w (rollback failed: %v)", err, rbErr)
		}
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// Exec runs stmts in order, stopping at the first failure.
func Exec(ctx context.Context, tx *sql.Tx, stmts ...string) error {
	for i, stmt := range stmts {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("statement %d: %w", i+1, err)
		}
	}
	return nil
}
