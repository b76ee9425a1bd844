// Package render writes an introspected model in a human or machine format.
package render

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/koustreak/relgraph/internal/detect"
	"github.com/koustreak/relgraph/internal/errs"
	"github.com/olekukonko/tablewriter"
	"go.yaml.in/yaml/v3"
)

// Format selects the output encoding.
type Format string

const (
	FormatJSON  Format = "json"
	FormatYAML  Format = "yaml"
	FormatTable Format = "table"
)

// ParseFormat accepts the Format names case-insensitively.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(s)); f {
	case FormatJSON, FormatYAML, FormatTable:
		return f, nil
	default:
		return "", errs.New(errs.ErrKindInvalidInput, fmt.Sprintf("unknown output format %q", s))
	}
}

// ContentType returns the MIME type for encoded output.
func (f Format) ContentType() string {
	switch f {
	case FormatJSON:
		return "application/json"
	case FormatYAML:
		return "application/yaml"
	default:
		return "text/plain; charset=utf-8"
	}
}

// Document is the envelope written by the JSON and YAML formats.
type Document struct {
	Tables []detect.TableDef `json:"tables" yaml:"tables"`
}

// Write encodes tables to w.
func Write(w io.Writer, tables []detect.TableDef, f Format) error {
	switch f {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(Document{Tables: tables})
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(Document{Tables: tables}); err != nil {
			return err
		}
		return enc.Close()
	case FormatTable:
		writeTable(w, tables)
		return nil
	default:
		return errs.New(errs.ErrKindInvalidInput, fmt.Sprintf("unknown output format %q", f))
	}
}

func writeTable(w io.Writer, tables []detect.TableDef) {
	cols := tablewriter.NewWriter(w)
	cols.SetHeader([]string{"Table", "Kind", "Column", "Type", "Null", "PK", "Updatable"})
	cols.SetAutoMergeCells(true)
	cols.SetAutoWrapText(false)
	cols.SetBorder(false)

	rels := tablewriter.NewWriter(w)
	rels.SetHeader([]string{"Table", "Relation", "Other", "Foreign Key", "Primary Key"})
	rels.SetAutoMergeCells(true)
	rels.SetBorder(false)
	hasRels := false

	for _, t := range tables {
		name := t.Ident.String()
		for _, c := range t.Columns {
			cols.Append([]string{name, t.Kind.String(), c.Name, c.Type, mark(c.Nullable), mark(c.PrimaryKey), mark(c.Updatable)})
		}
		for _, r := range t.BelongsTo {
			rels.Append([]string{name, "belongs to", r.Other.String(), r.ForeignKey, r.PrimaryKey})
			hasRels = true
		}
		for _, r := range t.HasMany {
			rels.Append([]string{name, "has many", r.Other.String(), r.ForeignKey, r.PrimaryKey})
			hasRels = true
		}
	}

	cols.Render()
	if hasRels {
		fmt.Fprintln(w)
		rels.Render()
	}
}

func mark(b bool) string {
	if b {
		return "yes"
	}
	return ""
}
