package detect

import (
	"context"
	"errors"
	"fmt"

	"github.com/koustreak/relgraph/internal/database"
)

const (
	fakeTableSQL = "-- table scan"
	fakeFKSQL    = "-- fk scan"
)

// fakeCatalog serves canned rows per statement and records what was run.
type fakeCatalog struct {
	results   map[string][][]any
	failOn    map[string]error
	queries   []string
	snapshots int
}

func newFakeCatalog(tableRows, fkRows [][]any) *fakeCatalog {
	return &fakeCatalog{
		results: map[string][][]any{
			fakeTableSQL: tableRows,
			fakeFKSQL:    fkRows,
		},
		failOn: map[string]error{},
	}
}

func (f *fakeCatalog) TableScanSQL() string { return fakeTableSQL }
func (f *fakeCatalog) FKScanSQL() string    { return fakeFKSQL }

func (f *fakeCatalog) Query(ctx context.Context, sql string, _ ...any) (database.Rows, error) {
	f.queries = append(f.queries, sql)
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err, ok := f.failOn[sql]; ok {
		return nil, err
	}
	rows, ok := f.results[sql]
	if !ok {
		return nil, errors.New("unexpected statement")
	}
	return &fakeRows{rows: rows, pos: -1}, nil
}

func (f *fakeCatalog) Snapshot(_ context.Context, fn func(q database.Querier) error) error {
	f.snapshots++
	return fn(f)
}

type fakeRows struct {
	rows   [][]any
	pos    int
	closed bool
}

func (r *fakeRows) Next() bool {
	r.pos++
	return r.pos < len(r.rows)
}

func (r *fakeRows) Scan(dest ...any) error {
	row := r.rows[r.pos]
	if len(dest) > len(row) {
		return fmt.Errorf("scan: %d targets for %d values", len(dest), len(row))
	}
	for i, d := range dest {
		*(d.(*any)) = row[i]
	}
	return nil
}

// Columns reports the width of the first row; the fake result sets are rectangular.
func (r *fakeRows) Columns() ([]string, error) {
	if len(r.rows) == 0 {
		return nil, nil
	}
	return make([]string, len(r.rows[0])), nil
}

func (r *fakeRows) Close()     { r.closed = true }
func (r *fakeRows) Err() error { return nil }

func colRow(schema, table string, kind int64, column, typ string, nullable, pk, updatable int64) []any {
	return []any{schema, table, kind, column, typ, nullable, pk, updatable}
}

func fkRow(meSchema, meTable, meCol, otherSchema, otherTable, otherCol string) []any {
	return []any{meSchema, meTable, meCol, otherSchema, otherTable, otherCol}
}

func records(rows ...[]any) []database.Record {
	out := make([]database.Record, len(rows))
	for i, r := range rows {
		out[i] = database.Record(r)
	}
	return out
}
