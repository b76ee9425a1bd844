package detect

import (
	"fmt"
	"strconv"

	"github.com/koustreak/relgraph/internal/errs"
)

// Table/column scan ordinals. Rows are read by position only.
const (
	OrdSchema     = iota // text: schema of the table
	OrdTable             // text: table name
	OrdKind              // counter: > 0 for a base table, otherwise a view
	OrdColumn            // text: column name
	OrdColumnType        // text: backend type name
	OrdNullable          // counter: > 0 when the column accepts NULL
	OrdPrimaryKey        // counter: > 0 when the column is part of the primary key
	OrdUpdatable         // counter: > 0 unless the column is identity / generated

	TableScanWidth
)

// FK scan ordinals: three per endpoint, "me" (referencing) first.
const (
	OrdMeSchema = iota
	OrdMeTable
	OrdMeColumn
	OrdOtherSchema
	OrdOtherTable
	OrdOtherColumn

	FKScanWidth
)

// OrdinalRow is a result row that can only be addressed by position.
// database.Record satisfies it.
type OrdinalRow interface {
	Len() int
	Value(i int) any
}

// TableScanRecord is one decoded (table, column) row. The flag fields keep
// the raw driver counters; they are normalised by a "> 0" test.
type TableScanRecord struct {
	Schema     string
	TableName  string
	Kind       int64
	ColumnName string
	ColumnType string
	Nullable   int64
	PrimaryKey int64
	Updatable  int64
}

// Ident returns the identity of the table this row belongs to.
func (r TableScanRecord) Ident() TableIdent {
	return TableIdent{Schema: r.Schema, Name: r.TableName}
}

// TableKind normalises the kind classifier.
func (r TableScanRecord) TableKind() Kind {
	if r.Kind > 0 {
		return KindTable
	}
	return KindView
}

// ColumnDef converts the row into its column definition.
func (r TableScanRecord) ColumnDef() ColumnDef {
	return ColumnDef{
		Name:       r.ColumnName,
		Type:       r.ColumnType,
		Nullable:   r.Nullable > 0,
		PrimaryKey: r.PrimaryKey > 0,
		Updatable:  r.Updatable > 0,
	}
}

// FKEndpoint is one side of a foreign-key column pair.
type FKEndpoint struct {
	Ident  TableIdent
	Column string
}

// FKScanRecord is one decoded foreign-key row. Me holds the referencing
// column, Other the referenced one.
type FKScanRecord struct {
	Me    FKEndpoint
	Other FKEndpoint
}

// DecodeTableRecords decodes every table/column scan row. The first row that
// does not honour the ordinal contract fails the whole call.
func DecodeTableRecords[R OrdinalRow](rows []R) ([]TableScanRecord, error) {
	out := make([]TableScanRecord, 0, len(rows))
	for i, row := range rows {
		d := rowDecoder{scan: "table scan", index: i, row: row}
		if !d.width(TableScanWidth) {
			return nil, d.err
		}
		rec := TableScanRecord{
			Schema:     d.text(OrdSchema),
			TableName:  d.text(OrdTable),
			Kind:       d.counter(OrdKind),
			ColumnName: d.text(OrdColumn),
			ColumnType: d.text(OrdColumnType),
			Nullable:   d.counter(OrdNullable),
			PrimaryKey: d.counter(OrdPrimaryKey),
			Updatable:  d.counter(OrdUpdatable),
		}
		if d.err != nil {
			return nil, d.err
		}
		out = append(out, rec)
	}
	return out, nil
}

// DecodeFKRecords decodes every FK scan row, failing fast like DecodeTableRecords.
func DecodeFKRecords[R OrdinalRow](rows []R) ([]FKScanRecord, error) {
	out := make([]FKScanRecord, 0, len(rows))
	for i, row := range rows {
		d := rowDecoder{scan: "fk scan", index: i, row: row}
		if !d.width(FKScanWidth) {
			return nil, d.err
		}
		rec := FKScanRecord{
			Me: FKEndpoint{
				Ident:  TableIdent{Schema: d.text(OrdMeSchema), Name: d.text(OrdMeTable)},
				Column: d.text(OrdMeColumn),
			},
			Other: FKEndpoint{
				Ident:  TableIdent{Schema: d.text(OrdOtherSchema), Name: d.text(OrdOtherTable)},
				Column: d.text(OrdOtherColumn),
			},
		}
		if d.err != nil {
			return nil, d.err
		}
		out = append(out, rec)
	}
	return out, nil
}

// rowDecoder reads typed values out of one row. The first failure sticks;
// later reads return zero values.
type rowDecoder struct {
	scan  string
	index int
	row   OrdinalRow
	err   error
}

func (d *rowDecoder) width(n int) bool {
	if got := d.row.Len(); got < n {
		d.fail(got, fmt.Sprintf("row has %d values, want %d", got, n))
		return false
	}
	return true
}

func (d *rowDecoder) fail(ord int, reason string) {
	if d.err == nil {
		d.err = errs.New(errs.ErrKindDecodeFailed,
			fmt.Sprintf("%s row %d ordinal %d: %s", d.scan, d.index, ord, reason))
	}
}

func (d *rowDecoder) value(ord int) (any, bool) {
	if d.err != nil {
		return nil, false
	}
	if ord < 0 || ord >= d.row.Len() {
		d.fail(ord, "out of range")
		return nil, false
	}
	v := d.row.Value(ord)
	if v == nil {
		d.fail(ord, "unexpected NULL")
		return nil, false
	}
	return v, true
}

func (d *rowDecoder) text(ord int) string {
	v, ok := d.value(ord)
	if !ok {
		return ""
	}
	switch s := v.(type) {
	case string:
		return s
	case []byte:
		return string(s)
	default:
		d.fail(ord, fmt.Sprintf("want text, got %T", v))
		return ""
	}
}

// counter accepts any integer, a bool, or a decimal integer rendered as text
// (MySQL's text protocol).
func (d *rowDecoder) counter(ord int) int64 {
	v, ok := d.value(ord)
	if !ok {
		return 0
	}
	switch n := v.(type) {
	case int64:
		return n
	case int32:
		return int64(n)
	case int16:
		return int64(n)
	case int8:
		return int64(n)
	case int:
		return int64(n)
	case uint64:
		// Only the sign is consumed; clamp instead of overflowing.
		if n > 0 {
			return 1
		}
		return 0
	case uint32:
		return int64(n)
	case uint16:
		return int64(n)
	case uint8:
		return int64(n)
	case uint:
		if n > 0 {
			return 1
		}
		return 0
	case bool:
		if n {
			return 1
		}
		return 0
	case []byte:
		return d.parseCounter(ord, string(n))
	case string:
		return d.parseCounter(ord, n)
	default:
		d.fail(ord, fmt.Sprintf("want integer flag, got %T", v))
		return 0
	}
}

func (d *rowDecoder) parseCounter(ord int, s string) int64 {
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		d.fail(ord, fmt.Sprintf("want integer flag, got %q", s))
		return 0
	}
	return n
}
