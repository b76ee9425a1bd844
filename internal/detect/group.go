package detect

// GroupTables buckets table/column rows by table identity and turns each
// bucket into a TableDef. Table order is unspecified. A table's kind comes
// from the first row in its bucket; columns keep row order.
func GroupTables(records []TableScanRecord) []TableDef {
	buckets := GroupBy(records, TableScanRecord.Ident)

	tables := make([]TableDef, 0, buckets.Len())
	for ident, bucket := range buckets.All() {
		tables = append(tables, TableDef{
			Ident:     ident,
			Kind:      bucket[0].TableKind(),
			Columns:   buildColumns(bucket),
			BelongsTo: []RelationDef{},
			HasMany:   []RelationDef{},
		})
	}
	return tables
}

func buildColumns(rows []TableScanRecord) []ColumnDef {
	cols := make([]ColumnDef, len(rows))
	for i, r := range rows {
		cols[i] = r.ColumnDef()
	}
	return cols
}
