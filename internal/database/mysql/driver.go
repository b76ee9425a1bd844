package mysql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/go-sql-driver/mysql"
	"github.com/koustreak/relgraph/internal/database"
	"github.com/koustreak/relgraph/internal/database/sqldb"
	"github.com/koustreak/relgraph/internal/errs"
)

// Driver is a MySQL implementation of database.DB backed by database/sql.
// It is safe for concurrent use by multiple goroutines.
type Driver struct {
	*sqldb.DB
}

var _ database.DB = (*Driver)(nil)

// New opens a MySQL connection pool using the provided Config and returns a Driver.
// It calls Ping to validate the connection before returning.
func New(ctx context.Context, cfg *database.Config) (*Driver, error) {
	dsn, err := normalizeDSN(cfg.DSN)
	if err != nil {
		return nil, err
	}

	c := *cfg
	c.DSN = dsn

	db, err := sqldb.Open(ctx, "mysql", &c, mapError)
	if err != nil {
		return nil, err
	}
	return &Driver{DB: db}, nil
}

// TableScanSQL implements database.Catalog.
func (d *Driver) TableScanSQL() string { return TableScanSQL }

// FKScanSQL implements database.Catalog.
func (d *Driver) FKScanSQL() string { return FKScanSQL }

// normalizeDSN validates the DSN and makes sure a database is selected,
// since the catalog scans are scoped to DATABASE().
func normalizeDSN(dsn string) (string, error) {
	mc, err := mysql.ParseDSN(dsn)
	if err != nil {
		return "", errs.Wrap(errs.ErrKindInvalidInput, "invalid DSN", err)
	}
	if mc.DBName == "" {
		return "", errs.New(errs.ErrKindInvalidInput, "mysql DSN must name a database")
	}
	return mc.FormatDSN(), nil
}

// --- error mapping ---

// mapError translates go-sql-driver/mysql errors into *errs.Error.
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

	var mysqlErr *mysql.MySQLError
	if errors.As(err, &mysqlErr) {
		return errs.Wrap(
			classifyMySQLCode(mysqlErr.Number),
			fmt.Sprintf("%s: %s", msg, mysqlErr.Message),
			err,
		)
	}

	return errs.Wrap(errs.ErrKindConnectionFailed, msg, err)
}

// MySQL error numbers
// Full list: https://dev.mysql.com/doc/mysql-errors/8.0/en/server-error-reference.html
func classifyMySQLCode(code uint16) errs.ErrKind {
	switch code {
	case 1044, 1045, 1142, 1143: // access denied (db, user, table, column)
		return errs.ErrKindPermissionDenied
	case 1040, 1046, 1049, 1203, 2003: // too many connections, no/unknown db, refused
		return errs.ErrKindConnectionFailed
	case 3024: // max_execution_time exceeded
		return errs.ErrKindTimeout
	default:
		return errs.ErrKindQueryFailed
	}
}
