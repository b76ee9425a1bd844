package database

import "context"

// Querier is the only capability the catalog scans need from a connection:
// run a parameterless statement and hand back its rows.
type Querier interface {
	// Query executes a SQL statement that returns multiple rows.
	Query(ctx context.Context, sql string, args ...any) (Rows, error)
}

// Snapshotter runs fn against a single read-only transaction so that every
// statement fn issues observes the same catalog state. The transaction is
// always rolled back; nothing fn does is committed.
type Snapshotter interface {
	Snapshot(ctx context.Context, fn func(q Querier) error) error
}

// Catalog supplies the backend-specific catalog scan statements.
// Each statement must produce the fixed ordinal shape documented in
// package detect; column names are never consulted.
type Catalog interface {
	// TableScanSQL lists one row per (table, column) pair.
	TableScanSQL() string

	// FKScanSQL lists one row per foreign-key column pair.
	FKScanSQL() string
}

// DB is the central contract implemented by every backend package.
// Only the command wiring imports a backend package; everything else sees DB.
type DB interface {
	Querier
	Snapshotter
	Catalog

	// Ping verifies the database is reachable.
	Ping(ctx context.Context) error

	// Close releases all resources held by the connection pool.
	Close()
}

// Rows is an abstraction over a database result set.
// Callers must always call Close() when done, even on error.
type Rows interface {
	// Next advances to the next row.
	// Returns false when no more rows exist or on error.
	Next() bool

	// Scan copies the current row's columns into the provided destinations.
	Scan(dest ...any) error

	// Columns returns the column names of the result set.
	// Only its length is relied upon.
	Columns() ([]string, error)

	// Close releases resources held by the result set.
	Close()

	// Err returns any error encountered during iteration.
	Err() error
}
