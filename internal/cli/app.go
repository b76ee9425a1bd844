// Package cli holds relgraph's commands.
package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/koustreak/relgraph/internal/config"
	"github.com/koustreak/relgraph/internal/database"
	"github.com/koustreak/relgraph/internal/database/mysql"
	"github.com/koustreak/relgraph/internal/database/postgres"
	"github.com/koustreak/relgraph/internal/database/pq"
	"github.com/koustreak/relgraph/internal/detect"
	"github.com/koustreak/relgraph/internal/errs"
	"github.com/koustreak/relgraph/internal/filestore"
	"github.com/koustreak/relgraph/internal/filestore/minio"
	"github.com/koustreak/relgraph/internal/logger"
	"github.com/urfave/cli/v2"
	"golang.org/x/term"
)

// NewApp returns the relgraph command tree.
func NewApp() *cli.App {
	return &cli.App{
		Name:  "relgraph",
		Usage: "Describe the tables, columns and foreign keys of a database",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to a relgraph.yaml file",
				EnvVars: []string{"RELGRAPH_CONFIG"},
			},
			&cli.StringFlag{
				Name:  "dsn",
				Usage: "Database connection string (overrides config and " + config.EnvDSN + ")",
			},
			&cli.StringFlag{
				Name:  "driver",
				Usage: "Database driver: postgres, pq or mysql",
			},
			&cli.StringFlag{
				Name:  "log-level",
				Usage: "debug, info, warn or error",
			},
			&cli.BoolFlag{
				Name:  "snapshot",
				Usage: "Run both catalog scans in one read-only transaction",
			},
		},
		Commands: []*cli.Command{
			InspectCommand(),
			ExportCommand(),
			SnapshotsCommand(),
			ServeCommand(),
		},
	}
}

// env is what every command needs once flags are resolved.
type env struct {
	cfg *config.Config
	log *logger.Logger
}

// loadEnv resolves settings for commands that talk to the database.
func loadEnv(c *cli.Context) (*env, error) {
	e, err := loadBaseEnv(c)
	if err != nil {
		return nil, err
	}
	if err := e.cfg.Validate(); err != nil {
		return nil, err
	}
	return e, nil
}

// loadBaseEnv merges the config file, RELGRAPH_* variables and global flags
// and installs the logger. The database section is not validated.
func loadBaseEnv(c *cli.Context) (*env, error) {
	cfg := config.Default()
	if path := c.String("config"); path != "" {
		var err error
		if cfg, err = config.Load(path); err != nil {
			return nil, err
		}
	}
	cfg.ApplyEnv()

	if v := c.String("dsn"); v != "" {
		cfg.Database.DSN = v
	}
	if v := c.String("driver"); v != "" {
		cfg.Database.Driver = v
	}
	if v := c.String("log-level"); v != "" {
		cfg.Log.Level = v
	}
	if c.IsSet("snapshot") {
		cfg.Database.Snapshot = c.Bool("snapshot")
	}

	format := "json"
	if isTerminal(os.Stderr) {
		format = "console"
	}
	log := logger.New(cfg.LoggerConfig(format))
	logger.SetGlobal(log)

	return &env{cfg: cfg, log: log}, nil
}

// openDB connects the configured backend.
func openDB(ctx context.Context, cfg *database.Config) (database.DB, error) {
	switch cfg.Driver {
	case database.DriverPostgres:
		return postgres.New(ctx, cfg)
	case database.DriverPQ:
		return pq.New(ctx, cfg)
	case database.DriverMySQL:
		return mysql.New(ctx, cfg)
	default:
		return nil, errs.New(errs.ErrKindInvalidInput, fmt.Sprintf("unsupported database driver %q", cfg.Driver))
	}
}

// openStore connects the configured object store.
func openStore(ctx context.Context, cfg *filestore.Config) (filestore.Store, error) {
	switch cfg.Provider {
	case filestore.ProviderMinIO:
		return minio.New(ctx, cfg)
	default:
		return nil, errs.New(errs.ErrKindInvalidInput, fmt.Sprintf("unsupported filestore provider %q", cfg.Provider))
	}
}

// introspector picks the plain or the snapshot scan.
func introspector(db database.DB, snapshot bool) func(ctx context.Context) ([]detect.TableDef, error) {
	return func(ctx context.Context) ([]detect.TableDef, error) {
		if snapshot {
			return detect.FindTablesSnapshot(ctx, db, db)
		}
		return detect.FindTables(ctx, db, db)
	}
}

// introspectOnce opens the database, runs one introspection bounded by
// query_timeout and closes the database again. The result is sorted.
func (e *env) introspectOnce(ctx context.Context) ([]detect.TableDef, error) {
	dbCfg := e.cfg.DatabaseConfig()
	db, err := openDB(ctx, dbCfg)
	if err != nil {
		return nil, err
	}
	defer db.Close()

	if dbCfg.QueryTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, dbCfg.QueryTimeout)
		defer cancel()
	}

	start := time.Now()
	tables, err := introspector(db, e.cfg.Database.Snapshot)(e.log.WithContext(ctx))
	if err != nil {
		return nil, err
	}
	detect.Sort(tables)

	e.log.With().
		Str("driver", string(dbCfg.Driver)).
		Int("tables", len(tables)).
		Dur("elapsed", time.Since(start)).
		Logger().
		Debug("introspection finished")
	return tables, nil
}

func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}
