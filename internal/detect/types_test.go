package detect

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTableIdent(t *testing.T) {
	tests := []struct {
		in   string
		want TableIdent
	}{
		{"public.orders", NewTableIdent("public", "orders")},
		{"orders", TableIdent{Name: "orders"}},
		{"a.b.c", NewTableIdent("a", "b.c")},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseTableIdent(tt.in))
		})
	}
}

func TestTableIdent_String(t *testing.T) {
	assert.Equal(t, "public.orders", NewTableIdent("public", "orders").String())
	assert.Equal(t, "orders", TableIdent{Name: "orders"}.String())
}

func TestSort(t *testing.T) {
	tables := []TableDef{
		{Ident: NewTableIdent("public", "orders")},
		{Ident: NewTableIdent("audit", "zeta")},
		{Ident: NewTableIdent("public", "customers")},
	}
	Sort(tables)

	assert.Equal(t, "audit.zeta", tables[0].Ident.String())
	assert.Equal(t, "public.customers", tables[1].Ident.String())
	assert.Equal(t, "public.orders", tables[2].Ident.String())
}

func TestFilterSchema(t *testing.T) {
	tables := []TableDef{
		{Ident: NewTableIdent("public", "orders")},
		{Ident: NewTableIdent("audit", "log")},
	}
	assert.Len(t, FilterSchema(tables, ""), 2)

	only := FilterSchema(tables, "audit")
	require.Len(t, only, 1)
	assert.Equal(t, "log", only[0].Ident.Name)
}

func TestKind_JSON(t *testing.T) {
	b, err := json.Marshal(TableDef{Ident: NewTableIdent("public", "v"), Kind: KindView})
	require.NoError(t, err)
	assert.Contains(t, string(b), `"kind":"view"`)

	var back TableDef
	require.NoError(t, json.Unmarshal(b, &back))
	assert.Equal(t, KindView, back.Kind)

	var k Kind
	assert.Error(t, k.UnmarshalText([]byte("sequence")))
}
