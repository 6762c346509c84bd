package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"reflect"

	"job-insight/internal/database"
)

type execCall struct {
	query string
	args  []any
}

// fakeDB serves canned rows and records every statement it receives.
type fakeDB struct {
	rows      [][]any
	row       []any
	rowErr    error
	queryErr  error
	execErr   error
	execs     []execCall
	queries   []execCall
	committed bool
	rolled    bool
}

func (f *fakeDB) Ping(context.Context) error { return nil }
func (f *fakeDB) Close() error { return nil }
func (f *fakeDB) SQLDB() *sql.DB { return nil }

func (f *fakeDB) Exec(_ context.Context, q string, args ...any) (int64, error) {
	f.execs = append(f.execs, execCall{query: q, args: args})
	if f.execErr != nil {
		return 0, f.execErr
	}
	return 1, nil
}

func (f *fakeDB) Query(_ context.Context, q string, args ...any) (database.Rows, error) {
	f.queries = append(f.queries, execCall{query: q, args: args})
	if f.queryErr != nil {
		return nil, f.queryErr
	}
	return &fakeRows{data: f.rows, idx: -1}, nil
}

func (f *fakeDB) QueryRow(_ context.Context, q string, args ...any) database.Row {
	f.queries = append(f.queries, execCall{query: q, args: args})
	if f.rowErr != nil {
		return fakeRow{err: f.rowErr}
	}
	return fakeRow{vals: f.row}
}

func (f *fakeDB) Begin(context.Context) (database.Tx, error) { return fakeTx{db: f}, nil }

type fakeTx struct{ db *fakeDB }

func (t fakeTx) Exec(ctx context.Context, q string, args ...any) (int64, error) {
	return t.db.Exec(ctx, q, args...)
}

func (t fakeTx) Query(ctx context.Context, q string, args ...any) (database.Rows, error) {
	return t.db.Query(ctx, q, args...)
}

func (t fakeTx) QueryRow(ctx context.Context, q string, args ...any) database.Row {
	return t.db.QueryRow(ctx, q, args...)
}

func (t fakeTx) Commit(context.Context) error {
	t.db.committed = true
	return nil
}

func (t fakeTx) Rollback(context.Context) error {
	t.db.rolled = true
	return nil
}

type fakeRows struct {
	data [][]any
	idx  int
}

func (r *fakeRows) Close() {}
func (r *fakeRows) Err() error { return nil }
func (r *fakeRows) Next() bool {
	r.idx++
	return r.idx < len(r.data)
}
func (r *fakeRows) Scan(dest ...any) error { return assign(r.data[r.idx], dest) }

type fakeRow struct {
	vals []any
	err  error
}

func (r fakeRow) Scan(dest ...any) error {
	if r.err != nil {
		return r.err
	}
	return assign(r.vals, dest)
}

func assign(vals []any, dest []any) error {
	if len(vals) != len(dest) {
		return fmt.Errorf("scan: %d values into %d targets", len(vals), len(dest))
	}
	for i, v := range vals {
		if s, ok := dest[i].(sql.Scanner); ok {
			if err := s.Scan(v); err != nil {
				return err
			}
			continue
		}
		if v == nil {
			continue
		}
		dv := reflect.ValueOf(dest[i])
		if dv.Kind() != reflect.Pointer {
			return errors.New("scan: non-pointer target")
		}
		dv.Elem().Set(reflect.ValueOf(v))
	}
	return nil
}
