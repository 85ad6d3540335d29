package orgtable

import (
	"context"
	"database/sql"

	"github.com/FocuswithJustin/seqmod/core/errors"
	"github.com/FocuswithJustin/seqmod/core/sqlite"
)

var schema = []string{
	`CREATE TABLE IF NOT EXISTS organisms (
		id           INTEGER PRIMARY KEY,
		name         TEXT NOT NULL,
		common_name  TEXT NOT NULL DEFAULT '',
		nuclear_code INTEGER NOT NULL DEFAULT 0,
		mito_code    INTEGER NOT NULL DEFAULT 0,
		division     TEXT NOT NULL DEFAULT '',
		tax_id       INTEGER NOT NULL DEFAULT 0,
		lineage      TEXT NOT NULL DEFAULT ''
	)`,
	`CREATE INDEX IF NOT EXISTS organisms_name ON organisms (name COLLATE NOCASE)`,
	`CREATE TABLE IF NOT EXISTS meta (
		key   TEXT PRIMARY KEY,
		value TEXT NOT NULL
	)`,
}

const metaFingerprint = "fingerprint"

// SaveSQLite writes t to the database at path, replacing any table stored
// there before. Load order and the fingerprint are preserved.
func SaveSQLite(ctx context.Context, path string, t *Table) error {
	db, err := sqlite.Open(ctx, path)
	if err != nil {
		return errors.NewIO("open", path, err)
	}
	defer db.Close()

	err = sqlite.WithTx(ctx, db, func(tx *sql.Tx) error {
		if err := sqlite.Exec(ctx, tx, schema...); err != nil {
			return errors.Wrap(err, "create schema")
		}
		if err := sqlite.Exec(ctx, tx, `DELETE FROM organisms`, `DELETE FROM meta`); err != nil {
			return errors.Wrap(err, "clear table")
		}

		ins, err := tx.PrepareContext(ctx, `INSERT INTO organisms
			(id, name, common_name, nuclear_code, mito_code, division, tax_id, lineage)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
		if err != nil {
			return errors.Wrap(err, "prepare insert")
		}
		defer ins.Close()

		for i, e := range t.entries {
			if _, err := ins.ExecContext(ctx, i+1, e.Name, e.CommonName, e.NuclearCode, e.MitoCode, e.Division, e.TaxID, e.Lineage); err != nil {
				return errors.Wrapf(err, "insert %q", e.Name)
			}
		}

		_, err = tx.ExecContext(ctx, `INSERT INTO meta (key, value) VALUES (?, ?)`, metaFingerprint, t.fingerprint)
		return errors.Wrap(err, "write fingerprint")
	})
	if err != nil {
		return errors.NewIO("write", path, err)
	}
	return nil
}

// LoadSQLite reads a table written by SaveSQLite.
func LoadSQLite(ctx context.Context, path string) (*Table, error) {
	db, err := sqlite.OpenReadOnly(ctx, path)
	if err != nil {
		return nil, errors.NewIO("open", path, err)
	}
	defer db.Close()

	rows, err := db.QueryContext(ctx, `SELECT name, common_name, nuclear_code, mito_code, division, tax_id, lineage
		FROM organisms ORDER BY id`)
	if err != nil {
		return nil, errors.NewIO("query", path, err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.Name, &e.CommonName, &e.NuclearCode, &e.MitoCode, &e.Division, &e.TaxID, &e.Lineage); err != nil {
			return nil, errors.NewIO("scan", path, err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.NewIO("query", path, err)
	}

	var fingerprint string
	err = db.QueryRowContext(ctx, `SELECT value FROM meta WHERE key = ?`, metaFingerprint).Scan(&fingerprint)
	if err != nil && err != sql.ErrNoRows {
		return nil, errors.NewIO("query", path, err)
	}
	return NewTable(entries, fingerprint), nil
}
