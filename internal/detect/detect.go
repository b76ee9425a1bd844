package detect

import (
	"context"
	"fmt"

	"github.com/koustreak/relgraph/internal/database"
	"github.com/koustreak/relgraph/internal/logger"
)

// FindTables runs the table/column scan and then the FK scan on q, and
// returns every table and view with its relations resolved. Either the full
// model is returned or an error with no tables.
func FindTables(ctx context.Context, q database.Querier, cat database.Catalog) ([]TableDef, error) {
	log := logger.FromContext(ctx)

	rows, err := database.FetchRecords(ctx, q, cat.TableScanSQL())
	if err != nil {
		return nil, fmt.Errorf("table scan: %w", err)
	}
	records, err := DecodeTableRecords(rows)
	if err != nil {
		return nil, err
	}
	tables := GroupTables(records)

	fkRows, err := database.FetchRecords(ctx, q, cat.FKScanSQL())
	if err != nil {
		return nil, fmt.Errorf("fk scan: %w", err)
	}
	fks, err := DecodeFKRecords(fkRows)
	if err != nil {
		return nil, err
	}

	belongsTo, hasMany := BuildLookups(fks)
	ResolveRelations(tables, belongsTo, hasMany)

	// Leftover buckets reference tables outside the scanned set.
	for ident := range belongsTo.All() {
		log.Debugf("unresolved belongs-to source %s", ident)
	}
	for ident := range hasMany.All() {
		log.Debugf("unresolved has-many target %s", ident)
	}

	log.With().
		Int("columns", len(records)).
		Int("tables", len(tables)).
		Int("fk_edges", len(fks)).
		Logger().
		Debug("catalog introspected")

	return tables, nil
}

// FindTablesSnapshot is FindTables with both scans running inside one
// read-only transaction supplied by s.
func FindTablesSnapshot(ctx context.Context, s database.Snapshotter, cat database.Catalog) ([]TableDef, error) {
	var tables []TableDef
	err := s.Snapshot(ctx, func(q database.Querier) error {
		var err error
		tables, err = FindTables(ctx, q, cat)
		return err
	})
	if err != nil {
		return nil, err
	}
	return tables, nil
}
