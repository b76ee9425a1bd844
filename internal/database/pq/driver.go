// Package pq provides a lib/pq implementation of database.DB.
//
// It is an alternative to package postgres for environments that standardise
// on database/sql. Both issue the same catalog scans.
package pq

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/koustreak/relgraph/internal/database"
	"github.com/koustreak/relgraph/internal/database/postgres"
	"github.com/koustreak/relgraph/internal/database/sqldb"
	"github.com/koustreak/relgraph/internal/errs"
	"github.com/lib/pq"
)

// Driver is a PostgreSQL implementation of database.DB backed by lib/pq.
type Driver struct {
	*sqldb.DB
}

var _ database.DB = (*Driver)(nil)

// New opens a lib/pq connection pool and pings it.
func New(ctx context.Context, cfg *database.Config) (*Driver, error) {
	db, err := sqldb.Open(ctx, "postgres", cfg, mapError)
	if err != nil {
		return nil, err
	}
	return &Driver{DB: db}, nil
}

// TableScanSQL implements database.Catalog.
func (d *Driver) TableScanSQL() string { return postgres.TableScanSQL }

// FKScanSQL implements database.Catalog.
func (d *Driver) FKScanSQL() string { return postgres.FKScanSQL }

// mapError translates lib/pq errors into *errs.Error.
func mapError(err error, msg string) *errs.Error {
	if err == nil {
		return nil
	}

	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return errs.Wrap(errs.ErrKindTimeout, msg, err)
	}

	if errors.Is(err, sql.ErrNoRows) {
		return errs.Wrap(errs.ErrKindNotFound, msg, err)
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		var kind errs.ErrKind
		switch pqErr.Code.Class() {
		case "08":
			kind = errs.ErrKindConnectionFailed
		case "28":
			kind = errs.ErrKindPermissionDenied
		case "22":
			kind = errs.ErrKindDecodeFailed
		default:
			kind = errs.ErrKindQueryFailed
		}
		switch pqErr.Code {
		case "42501":
			kind = errs.ErrKindPermissionDenied
		case "57014":
			kind = errs.ErrKindTimeout
		}
		return errs.Wrap(kind, fmt.Sprintf("%s: %s", msg, pqErr.Message), err)
	}

	return errs.Wrap(errs.ErrKindConnectionFailed, msg, err)
}
