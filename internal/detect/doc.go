// Package detect builds an in-memory model of a relational schema from two
// catalog scans: tables with their columns, and foreign-key column pairs.
//
// The model is meant to feed code generation. Each table carries its
// belongs-to relations (foreign keys it holds) and has-many relations
// (foreign keys pointing at it).
//
// Usage:
//
//	db, err := postgres.New(ctx, cfg)
//	if err != nil { ... }
//	defer db.Close()
//
//	tables, err := detect.FindTables(ctx, db, db)
//	if err != nil { ... }
//	detect.Sort(tables)
//
// Introspection issues exactly two statements, one after the other, on the
// supplied connection. A schema change landing between them can leave a
// relation pointing at a table that is not in the result; callers that need
// a consistent view use FindTablesSnapshot on a backend that supports it.
package detect
