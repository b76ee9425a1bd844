package detect

import (
	"testing"

	"github.com/koustreak/relgraph/internal/errs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeTableRecords(t *testing.T) {
	recs, err := DecodeTableRecords(records(
		colRow("public", "orders", 1, "id", "int4", 0, 1, 0),
	))
	require.NoError(t, err)
	require.Len(t, recs, 1)

	r := recs[0]
	assert.Equal(t, NewTableIdent("public", "orders"), r.Ident())
	assert.Equal(t, KindTable, r.TableKind())
	assert.Equal(t, ColumnDef{
		Name:       "id",
		Type:       "int4",
		Nullable:   false,
		PrimaryKey: true,
		Updatable:  false,
	}, r.ColumnDef())
}

func TestDecodeTableRecords_FlagEncodings(t *testing.T) {
	tests := []struct {
		name string
		flag any
		want bool
	}{
		{"int32 one", int32(1), true},
		{"int64 zero", int64(0), false},
		{"count above one", int64(2), true},
		{"negative", int64(-1), false},
		{"uint8", uint8(1), true},
		{"uint64", uint64(7), true},
		{"native bool true", true, true},
		{"native bool false", false, false},
		{"mysql text protocol", []byte("1"), true},
		{"text zero", "0", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			row := []any{"s", "t", int64(1), "c", "text", tt.flag, tt.flag, tt.flag}
			recs, err := DecodeTableRecords(records(row))
			require.NoError(t, err)

			col := recs[0].ColumnDef()
			assert.Equal(t, tt.want, col.Nullable)
			assert.Equal(t, tt.want, col.PrimaryKey)
			assert.Equal(t, tt.want, col.Updatable)
		})
	}
}

func TestDecodeTableRecords_KindClassifier(t *testing.T) {
	recs, err := DecodeTableRecords(records(
		colRow("public", "orders", 1, "id", "int4", 0, 1, 1),
		colRow("public", "order_totals", 0, "total", "numeric", 1, 0, 0),
	))
	require.NoError(t, err)
	assert.Equal(t, KindTable, recs[0].TableKind())
	assert.Equal(t, KindView, recs[1].TableKind())
}

func TestDecodeTableRecords_TextAsBytes(t *testing.T) {
	row := []any{[]byte("app"), []byte("users"), int64(1), []byte("email"), []byte("varchar(255)"), int64(1), int64(0), int64(1)}
	recs, err := DecodeTableRecords(records(row))
	require.NoError(t, err)
	assert.Equal(t, "app", recs[0].Schema)
	assert.Equal(t, "varchar(255)", recs[0].ColumnType)
}

func TestDecodeTableRecords_Failures(t *testing.T) {
	tests := []struct {
		name    string
		row     []any
		wantMsg string
	}{
		{
			name:    "missing ordinal",
			row:     []any{"public", "orders", int64(1), "id", "int4", int64(0), int64(1)},
			wantMsg: "ordinal 7",
		},
		{
			name:    "null text",
			row:     []any{"public", nil, int64(1), "id", "int4", int64(0), int64(1), int64(1)},
			wantMsg: "ordinal 1: unexpected NULL",
		},
		{
			name:    "text where counter expected",
			row:     []any{"public", "orders", int64(1), "id", "int4", "yes", int64(1), int64(1)},
			wantMsg: "ordinal 5",
		},
		{
			name:    "counter where text expected",
			row:     []any{"public", "orders", int64(1), int64(3), "int4", int64(0), int64(1), int64(1)},
			wantMsg: "ordinal 3: want text",
		},
		{
			name:    "float flag",
			row:     []any{"public", "orders", int64(1), "id", "int4", 1.0, int64(1), int64(1)},
			wantMsg: "ordinal 5: want integer flag",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			good := colRow("public", "customers", 1, "id", "int4", 0, 1, 1)
			recs, err := DecodeTableRecords(records(good, tt.row))

			require.Error(t, err)
			assert.Nil(t, recs, "no partial result")
			assert.True(t, errs.IsDecodeFailed(err))
			assert.Contains(t, err.Error(), "table scan row 1")
			assert.Contains(t, err.Error(), tt.wantMsg)
		})
	}
}

func TestDecodeFKRecords(t *testing.T) {
	recs, err := DecodeFKRecords(records(
		fkRow("public", "orders", "customer_id", "public", "customers", "id"),
	))
	require.NoError(t, err)
	require.Len(t, recs, 1)

	assert.Equal(t, FKEndpoint{Ident: NewTableIdent("public", "orders"), Column: "customer_id"}, recs[0].Me)
	assert.Equal(t, FKEndpoint{Ident: NewTableIdent("public", "customers"), Column: "id"}, recs[0].Other)
}

func TestDecodeFKRecords_ShortRow(t *testing.T) {
	recs, err := DecodeFKRecords(records(
		[]any{"public", "orders", "customer_id", "public", "customers"},
	))
	require.Error(t, err)
	assert.Nil(t, recs)
	assert.True(t, errs.IsDecodeFailed(err))
	assert.Contains(t, err.Error(), "fk scan row 0")
}

func TestDecode_EmptyInput(t *testing.T) {
	tables, err := DecodeTableRecords(records())
	require.NoError(t, err)
	assert.Empty(t, tables)

	fks, err := DecodeFKRecords(records())
	require.NoError(t, err)
	assert.Empty(t, fks)
}
