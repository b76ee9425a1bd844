// Package sqldb adapts a database/sql pool to database.DB.
//
// Backends built on database/sql (MySQL, lib/pq) share this adapter and only
// contribute their driver name, error mapping and catalog statements.
package sqldb

import (
	"context"
	"database/sql"

	"github.com/koustreak/relgraph/internal/database"
	"github.com/koustreak/relgraph/internal/errs"
)

const (
	defaultMaxOpenConns = 4
	defaultMaxIdleConns = 1
)

// ErrorMapper translates a driver-native error into *errs.Error.
type ErrorMapper func(err error, msg string) *errs.Error

// DB wraps *sql.DB. It is safe for concurrent use by multiple goroutines.
type DB struct {
	db     *sql.DB
	mapErr ErrorMapper
}

// Open opens a pool for driverName and validates it with a ping bounded by
// cfg.ConnectTimeout.
func Open(ctx context.Context, driverName string, cfg *database.Config, mapErr ErrorMapper) (*DB, error) {
	db, err := sql.Open(driverName, cfg.DSN)
	if err != nil {
		return nil, errs.Wrap(errs.ErrKindInvalidInput, "invalid DSN", err)
	}

	maxOpen := int(cfg.MaxConns)
	if maxOpen == 0 {
		maxOpen = defaultMaxOpenConns
	}
	maxIdle := int(cfg.MinConns)
	if maxIdle == 0 {
		maxIdle = defaultMaxIdleConns
	}
	db.SetMaxOpenConns(maxOpen)
	db.SetMaxIdleConns(maxIdle)
	db.SetConnMaxLifetime(cfg.MaxConnLifetime)
	db.SetConnMaxIdleTime(cfg.MaxConnIdleTime)

	d := &DB{db: db, mapErr: mapErr}

	pingCtx := ctx
	if cfg.ConnectTimeout > 0 {
		var cancel context.CancelFunc
		pingCtx, cancel = context.WithTimeout(ctx, cfg.ConnectTimeout)
		defer cancel()
	}

	if err := d.Ping(pingCtx); err != nil {
		_ = db.Close()
		return nil, err
	}

	return d, nil
}

// Ping verifies the database is reachable.
func (d *DB) Ping(ctx context.Context) error {
	if err := d.db.PingContext(ctx); err != nil {
		return d.mapErr(err, "ping failed")
	}
	return nil
}

// Close releases the pool.
func (d *DB) Close() {
	_ = d.db.Close()
}

// Query executes a SQL statement that returns multiple rows.
func (d *DB) Query(ctx context.Context, query string, args ...any) (database.Rows, error) {
	rows, err := d.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, d.mapErr(err, "query failed")
	}
	return &sqlRows{rows: rows, mapErr: d.mapErr}, nil
}

// Snapshot runs fn inside a read-only REPEATABLE READ transaction.
func (d *DB) Snapshot(ctx context.Context, fn func(q database.Querier) error) error {
	tx, err := d.db.BeginTx(ctx, &sql.TxOptions{
		Isolation: sql.LevelRepeatableRead,
		ReadOnly:  true,
	})
	if err != nil {
		return d.mapErr(err, "failed to begin snapshot")
	}
	defer func() { _ = tx.Rollback() }()

	return fn(&txQuerier{tx: tx, mapErr: d.mapErr})
}

// --- sql type wrappers ---

type txQuerier struct {
	tx     *sql.Tx
	mapErr ErrorMapper
}

func (q *txQuerier) Query(ctx context.Context, query string, args ...any) (database.Rows, error) {
	rows, err := q.tx.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, q.mapErr(err, "query failed")
	}
	return &sqlRows{rows: rows, mapErr: q.mapErr}, nil
}

type sqlRows struct {
	rows   *sql.Rows
	mapErr ErrorMapper
}

func (r *sqlRows) Next() bool                 { return r.rows.Next() }
func (r *sqlRows) Columns() ([]string, error) { return r.rows.Columns() }
func (r *sqlRows) Close()                     { _ = r.rows.Close() }

func (r *sqlRows) Scan(dest ...any) error {
	if err := r.rows.Scan(dest...); err != nil {
		return r.mapErr(err, "scan failed")
	}
	return nil
}

func (r *sqlRows) Err() error {
	if err := r.rows.Err(); err != nil {
		return r.mapErr(err, "row iteration failed")
	}
	return nil
}
