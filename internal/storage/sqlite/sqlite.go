// Package sqlite implements storage.Storage on SQLite using database/sql.
//
// SQLite keeps the whole database in one file, which is all the reference
// backend needs: no server process and no setup beyond the driver.
//
// Every statement is parameterised. Table and column names cannot be bound
// as parameters, so they only ever come from the whitelist in schema.go;
// names supplied by callers are looked up there and never concatenated.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/mattn/go-sqlite3"

	"github.com/aanand-mishra/theater-records/internal/config"
	"github.com/aanand-mishra/theater-records/internal/storage"
	"github.com/aanand-mishra/theater-records/internal/types"
)

// SQLite is the concrete implementation of storage.Storage. *sql.DB is a
// connection pool and is safe for concurrent use.
type SQLite struct {
	Db *sql.DB
}

var _ storage.Storage = (*SQLite)(nil)

// New opens the database at cfg.StoragePath with foreign keys enforced and
// creates the schema if it does not exist yet.
func New(cfg *config.Config) (*SQLite, error) {
	return Open(cfg.StoragePath)
}

// Open is New for a bare file path.
func Open(path string) (*SQLite, error) {
	db, err := sql.Open("sqlite3", path+"?_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("sqlite.New: open db: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("sqlite.New: create schema: %w", err)
	}

	return &SQLite{Db: db}, nil
}

// Close releases the connection pool.
func (s *SQLite) Close() error { return s.Db.Close() }

// ─────────────────────────────────────────────────────────────────────────────
// List returns every row of an entity in display order.
// ─────────────────────────────────────────────────────────────────────────────
func (s *SQLite) List(ctx context.Context, e storage.Entity) ([]types.Record, error) {
	t, err := lookup(e)
	if err != nil {
		return nil, err
	}
	return s.query(ctx, t.query+" ORDER BY "+t.order)
}

// ─────────────────────────────────────────────────────────────────────────────
// FilterBy returns the rows whose column contains the filter value.
//
// The column is matched case-insensitively against the entity's filter
// whitelist for the requested alias, so "netid" and "netID" are the same
// column. The value is bound as "%value%".
// ─────────────────────────────────────────────────────────────────────────────
func (s *SQLite) FilterBy(ctx context.Context, e storage.Entity, f storage.Filter) ([]types.Record, error) {
	t, err := lookup(e)
	if err != nil {
		return nil, err
	}

	cond, ok := t.filters[f.Alias][strings.ToLower(f.Column)]
	if !ok {
		return nil, fmt.Errorf("FilterBy %s: %w: %q", e, storage.ErrUnknownColumn, f.Column)
	}

	q := t.query + " WHERE " + cond + " ORDER BY " + t.order
	return s.query(ctx, q, "%"+f.Value+"%")
}

// ─────────────────────────────────────────────────────────────────────────────
// Find returns the rows matching every key column exactly.
// ─────────────────────────────────────────────────────────────────────────────
func (s *SQLite) Find(ctx context.Context, e storage.Entity, key storage.Key) ([]types.Record, error) {
	t, err := lookup(e)
	if err != nil {
		return nil, err
	}

	where, args, err := t.where(t.alias+".", key)
	if err != nil {
		return nil, fmt.Errorf("Find %s: %w", e, err)
	}
	return s.query(ctx, t.query+" WHERE "+where+" ORDER BY "+t.order, args...)
}

// Report runs one of the named join queries.
func (s *SQLite) Report(ctx context.Context, d storage.Detail, arg string) ([]types.Record, error) {
	q, ok := reports[d]
	if !ok {
		return nil, fmt.Errorf("Report: %w: %q", storage.ErrUnknownEntity, d)
	}
	return s.query(ctx, q, arg)
}

// ─────────────────────────────────────────────────────────────────────────────
// Insert adds one row. Columns are written in sorted order so the
// generated statement is stable for a given set of columns.
// ─────────────────────────────────────────────────────────────────────────────
func (s *SQLite) Insert(ctx context.Context, e storage.Entity, row storage.Row) error {
	t, err := lookup(e)
	if err != nil {
		return err
	}

	cols, args, err := t.assignments(row)
	if err != nil {
		return fmt.Errorf("Insert %s: %w", e, err)
	}
	if len(cols) == 0 {
		return fmt.Errorf("Insert %s: no columns", e)
	}

	marks := strings.TrimSuffix(strings.Repeat("?, ", len(cols)), ", ")
	q := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)", t.name, strings.Join(cols, ", "), marks)
	if _, err := s.Db.ExecContext(ctx, q, args...); err != nil {
		return fmt.Errorf("Insert %s: %w", e, classify(err))
	}
	return nil
}

// ─────────────────────────────────────────────────────────────────────────────
// Update sets the given columns on the rows matching key.
// ─────────────────────────────────────────────────────────────────────────────
func (s *SQLite) Update(ctx context.Context, e storage.Entity, key storage.Key, row storage.Row) error {
	t, err := lookup(e)
	if err != nil {
		return err
	}

	cols, args, err := t.assignments(row)
	if err != nil {
		return fmt.Errorf("Update %s: %w", e, err)
	}
	if len(cols) == 0 {
		return fmt.Errorf("Update %s: no columns", e)
	}
	where, keyArgs, err := t.where("", key)
	if err != nil {
		return fmt.Errorf("Update %s: %w", e, err)
	}

	sets := make([]string, len(cols))
	for i, c := range cols {
		sets[i] = c + " = ?"
	}
	q := fmt.Sprintf("UPDATE %s SET %s WHERE %s", t.name, strings.Join(sets, ", "), where)
	return s.exec(ctx, "Update "+string(e), q, append(args, keyArgs...)...)
}

// ─────────────────────────────────────────────────────────────────────────────
// Delete removes the rows matching key.
// ─────────────────────────────────────────────────────────────────────────────
func (s *SQLite) Delete(ctx context.Context, e storage.Entity, key storage.Key) error {
	t, err := lookup(e)
	if err != nil {
		return err
	}

	where, args, err := t.where("", key)
	if err != nil {
		return fmt.Errorf("Delete %s: %w", e, err)
	}
	return s.exec(ctx, "Delete "+string(e), "DELETE FROM "+t.name+" WHERE "+where, args...)
}

// exec runs a statement that must affect at least one row.
func (s *SQLite) exec(ctx context.Context, op, q string, args ...any) error {
	res, err := s.Db.ExecContext(ctx, q, args...)
	if err != nil {
		return fmt.Errorf("%s: %w", op, classify(err))
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: rows affected: %w", op, err)
	}
	if n == 0 {
		return fmt.Errorf("%s: %w", op, storage.ErrNotFound)
	}
	return nil
}

// query runs q and returns the rows as records keyed by column name.
// []byte values become strings so records encode as JSON text.
func (s *SQLite) query(ctx context.Context, q string, args ...any) ([]types.Record, error) {
	rows, err := s.Db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("query: %w", err)
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("query: columns: %w", err)
	}

	out := make([]types.Record, 0)
	for rows.Next() {
		vals := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range vals {
			ptrs[i] = &vals[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, fmt.Errorf("query: scan row: %w", err)
		}

		rec := make(types.Record, len(cols))
		for i, c := range cols {
			if b, ok := vals[i].([]byte); ok {
				rec[c] = string(b)
				continue
			}
			rec[c] = vals[i]
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("query: rows iteration: %w", err)
	}
	return out, nil
}

func lookup(e storage.Entity) (*table, error) {
	t, ok := tables[e]
	if !ok {
		return nil, fmt.Errorf("%w: %q", storage.ErrUnknownEntity, e)
	}
	return t, nil
}

// assignments validates row's columns and returns them sorted with their
// values.
func (t *table) assignments(row storage.Row) ([]string, []any, error) {
	cols := make([]string, 0, len(row))
	byName := make(map[string]any, len(row))
	for name, v := range row {
		c, ok := t.column(name)
		if !ok {
			return nil, nil, fmt.Errorf("%w: %q", storage.ErrUnknownColumn, name)
		}
		cols = append(cols, c)
		byName[c] = v
	}
	sort.Strings(cols)

	args := make([]any, len(cols))
	for i, c := range cols {
		args[i] = byName[c]
	}
	return cols, args, nil
}

// where builds an AND of equality conditions for key. prefix qualifies
// the columns when the statement joins other tables.
func (t *table) where(prefix string, key storage.Key) (string, []any, error) {
	if len(key) == 0 {
		return "", nil, errors.New("empty key")
	}
	names := make([]string, 0, len(key))
	for name := range key {
		names = append(names, name)
	}
	sort.Strings(names)

	conds := make([]string, len(names))
	args := make([]any, len(names))
	for i, name := range names {
		c, ok := t.column(name)
		if !ok {
			return "", nil, fmt.Errorf("%w: %q", storage.ErrUnknownColumn, name)
		}
		conds[i] = prefix + c + " = ?"
		args[i] = key[name]
	}
	return strings.Join(conds, " AND "), args, nil
}

// classify maps constraint failures onto the storage sentinels while
// keeping the driver error in the chain.
func classify(err error) error {
	var se sqlite3.Error
	if !errors.As(err, &se) {
		return err
	}
	switch se.ExtendedCode {
	case sqlite3.ErrConstraintForeignKey:
		return fmt.Errorf("%w: %w", storage.ErrForeignKey, err)
	case sqlite3.ErrConstraintPrimaryKey, sqlite3.ErrConstraintUnique:
		return fmt.Errorf("%w: %w", storage.ErrDuplicate, err)
	}
	return err
}
