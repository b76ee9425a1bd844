package database

import (
	"context"
	"errors"
	"testing"

	"github.com/koustreak/relgraph/internal/errs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sliceRows struct {
	cols    []string
	data    [][]any
	pos     int
	scanErr error
	iterErr error
	closed  bool
}

func (r *sliceRows) Next() bool {
	if r.pos >= len(r.data) {
		return false
	}
	r.pos++
	return true
}

func (r *sliceRows) Scan(dest ...any) error {
	if r.scanErr != nil {
		return r.scanErr
	}
	for i, v := range r.data[r.pos-1] {
		*dest[i].(*any) = v
	}
	return nil
}

func (r *sliceRows) Columns() ([]string, error) { return r.cols, nil }
func (r *sliceRows) Close()                     { r.closed = true }
func (r *sliceRows) Err() error                 { return r.iterErr }

type stubQuerier struct {
	rows Rows
	sql  string
}

func (q *stubQuerier) Query(_ context.Context, sql string, _ ...any) (Rows, error) {
	q.sql = sql
	return q.rows, nil
}

func TestScanRecords(t *testing.T) {
	rows := &sliceRows{
		cols: []string{"schema", "name"},
		data: [][]any{{"public", "users"}, {"public", int64(7)}},
	}

	got, err := ScanRecords(rows)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, 2, got[0].Len())
	assert.Equal(t, "users", got[0].Value(1))
	assert.Equal(t, int64(7), got[1].Value(1))
	assert.True(t, rows.closed)
}

func TestScanRecords_Empty(t *testing.T) {
	got, err := ScanRecords(&sliceRows{cols: []string{"a"}})
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestScanRecords_Errors(t *testing.T) {
	t.Run("plain scan error becomes decode failure", func(t *testing.T) {
		rows := &sliceRows{cols: []string{"a"}, data: [][]any{{1}}, scanErr: errors.New("boom")}
		_, err := ScanRecords(rows)
		assert.True(t, errs.IsDecodeFailed(err))
		assert.True(t, rows.closed)
	})

	t.Run("classified iteration error keeps its kind", func(t *testing.T) {
		rows := &sliceRows{cols: []string{"a"}, iterErr: errs.New(errs.ErrKindTimeout, "canceled")}
		_, err := ScanRecords(rows)
		assert.True(t, errs.IsTimeout(err))
	})
}

func TestFetchRecords(t *testing.T) {
	q := &stubQuerier{rows: &sliceRows{cols: []string{"n"}, data: [][]any{{true}}}}

	got, err := FetchRecords(context.Background(), q, "SELECT 1")
	require.NoError(t, err)
	assert.Equal(t, "SELECT 1", q.sql)
	assert.Equal(t, []Record{{true}}, got)
}
