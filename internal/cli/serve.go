package cli

import (
	"os/signal"
	"syscall"

	"github.com/koustreak/relgraph/internal/server"
	"github.com/urfave/cli/v2"
)

func ServeCommand() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Serve the table model over HTTP",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "addr",
				Usage: "Listen address (overrides server.addr)",
			},
		},
		Action: func(c *cli.Context) error {
			e, err := loadEnv(c)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(c.Context, syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			dbCfg := e.cfg.DatabaseConfig()
			db, err := openDB(ctx, dbCfg)
			if err != nil {
				return err
			}
			defer db.Close()

			opts := server.Options{
				Addr:         e.cfg.Server.Addr,
				ReadTimeout:  e.cfg.Server.ReadTimeout,
				WriteTimeout: e.cfg.Server.WriteTimeout,
				QueryTimeout: dbCfg.QueryTimeout,
			}
			if v := c.String("addr"); v != "" {
				opts.Addr = v
			}

			srv := server.New(introspector(db, e.cfg.Database.Snapshot), db, e.log, opts)
			return srv.ListenAndServe(ctx)
		},
	}
}
