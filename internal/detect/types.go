package detect

import (
	"cmp"
	"fmt"
	"slices"
	"strings"
)

// TableIdent is the (schema, name) identity of a table or view.
// It is comparable and used directly as a map key.
type TableIdent struct {
	Schema string `json:"schema" yaml:"schema"`
	Name   string `json:"name" yaml:"name"`
}

// NewTableIdent returns the identity for schema.name.
func NewTableIdent(schema, name string) TableIdent {
	return TableIdent{Schema: schema, Name: name}
}

// ParseTableIdent splits "schema.table" on the first dot.
// A name without a dot yields an empty schema.
func ParseTableIdent(s string) TableIdent {
	schema, name, ok := strings.Cut(s, ".")
	if !ok {
		return TableIdent{Name: s}
	}
	return TableIdent{Schema: schema, Name: name}
}

func (t TableIdent) String() string {
	if t.Schema == "" {
		return t.Name
	}
	return t.Schema + "." + t.Name
}

// Compare orders identities by schema, then name.
func (t TableIdent) Compare(o TableIdent) int {
	if c := cmp.Compare(t.Schema, o.Schema); c != 0 {
		return c
	}
	return cmp.Compare(t.Name, o.Name)
}

// Kind tells tables and views apart.
type Kind int

const (
	KindTable Kind = iota
	KindView
)

func (k Kind) String() string {
	switch k {
	case KindTable:
		return "table"
	case KindView:
		return "view"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// MarshalText renders the kind as "table" or "view" in JSON and YAML.
func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// UnmarshalText accepts the strings produced by MarshalText.
func (k *Kind) UnmarshalText(b []byte) error {
	switch string(b) {
	case "table":
		*k = KindTable
	case "view":
		*k = KindView
	default:
		return fmt.Errorf("unknown table kind %q", b)
	}
	return nil
}

// ColumnDef describes one column of a table.
type ColumnDef struct {
	Name       string `json:"name" yaml:"name"`
	Type       string `json:"type" yaml:"type"` // backend type name: int4, varchar(255), …
	Nullable   bool   `json:"nullable" yaml:"nullable"`
	PrimaryKey bool   `json:"primary_key" yaml:"primary_key"`
	Updatable  bool   `json:"updatable" yaml:"updatable"` // false for identity / generated columns
}

// RelationDef is one directed foreign-key edge seen from the owning table.
// Other may name a table that is absent from the introspected set.
type RelationDef struct {
	Other      TableIdent `json:"other" yaml:"other"`
	ForeignKey string     `json:"foreign_key" yaml:"foreign_key"` // column holding the reference
	PrimaryKey string     `json:"primary_key" yaml:"primary_key"` // referenced column
}

// TableDef is the introspected model of one table or view.
type TableDef struct {
	Ident     TableIdent    `json:"ident" yaml:"ident"`
	Kind      Kind          `json:"kind" yaml:"kind"`
	Columns   []ColumnDef   `json:"columns" yaml:"columns"`
	BelongsTo []RelationDef `json:"belongs_to" yaml:"belongs_to"`
	HasMany   []RelationDef `json:"has_many" yaml:"has_many"`
}

// IsView reports whether the definition describes a view.
func (t *TableDef) IsView() bool { return t.Kind == KindView }

// Column returns the column with the given name.
func (t *TableDef) Column(name string) (ColumnDef, bool) {
	for _, c := range t.Columns {
		if c.Name == name {
			return c, true
		}
	}
	return ColumnDef{}, false
}

// PrimaryKeys returns the primary-key columns in column order.
func (t *TableDef) PrimaryKeys() []ColumnDef {
	var pks []ColumnDef
	for _, c := range t.Columns {
		if c.PrimaryKey {
			pks = append(pks, c)
		}
	}
	return pks
}

// Sort orders tables by identity. FindTables leaves order unspecified.
func Sort(tables []TableDef) {
	slices.SortFunc(tables, func(a, b TableDef) int {
		return a.Ident.Compare(b.Ident)
	})
}

// Find returns the table with the given identity.
func Find(tables []TableDef, ident TableIdent) (*TableDef, bool) {
	for i := range tables {
		if tables[i].Ident == ident {
			return &tables[i], true
		}
	}
	return nil, false
}

// FilterSchema returns the tables that live in schema. An empty schema
// returns tables unchanged.
func FilterSchema(tables []TableDef, schema string) []TableDef {
	if schema == "" {
		return tables
	}
	out := make([]TableDef, 0, len(tables))
	for _, t := range tables {
		if t.Ident.Schema == schema {
			out = append(out, t)
		}
	}
	return out
}
