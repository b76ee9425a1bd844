package database

import (
	"context"
	"fmt"

	"github.com/koustreak/relgraph/internal/errs"
)

// Record is one result row addressed purely by ordinal position.
// Values hold whatever Go-native representation the driver produced.
type Record []any

// Len returns the number of values in the row.
func (r Record) Len() int { return len(r) }

// Value returns the value at ordinal i. The caller is expected to bounds-check
// against Len first.
func (r Record) Value(i int) any { return r[i] }

// ScanRecords reads all rows from the result set positionally.
//
// The returned slice is always non-nil (empty slice on zero rows).
// ScanRecords always closes rows.
func ScanRecords(rows Rows) ([]Record, error) {
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return nil, errs.Wrap(errs.ErrKindQueryFailed, "failed to read result shape", err)
	}

	result := make([]Record, 0)

	for rows.Next() {
		// Allocate scan targets as *any so the driver can write any type.
		dest := make(Record, len(columns))
		destPtrs := make([]any, len(columns))
		for i := range dest {
			destPtrs[i] = &dest[i]
		}

		if err := rows.Scan(destPtrs...); err != nil {
			return nil, wrapIfPlain(errs.ErrKindDecodeFailed, fmt.Sprintf("failed to scan row %d", len(result)), err)
		}
		result = append(result, dest)
	}

	if err := rows.Err(); err != nil {
		return nil, wrapIfPlain(errs.ErrKindQueryFailed, "error during row iteration", err)
	}

	return result, nil
}

// FetchRecords runs a parameterless statement and collects every row.
func FetchRecords(ctx context.Context, q Querier, sql string) ([]Record, error) {
	rows, err := q.Query(ctx, sql)
	if err != nil {
		return nil, err
	}
	return ScanRecords(rows)
}

// wrapIfPlain keeps an already classified *errs.Error intact and wraps anything else.
func wrapIfPlain(kind errs.ErrKind, msg string, err error) error {
	if errs.KindOf(err) != errs.ErrKindUnknown {
		return fmt.Errorf("%s: %w", msg, err)
	}
	return errs.Wrap(kind, msg, err)
}
