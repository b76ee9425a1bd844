package cli

import (
	"fmt"

	"github.com/koustreak/relgraph/internal/publish"
	"github.com/koustreak/relgraph/internal/render"
	"github.com/urfave/cli/v2"
)

func ExportCommand() *cli.Command {
	return &cli.Command{
		Name:  "export",
		Usage: "Upload the table model to object storage",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "name",
				Required: true,
				Usage:    "Snapshot name, usually the database name",
			},
			&cli.StringFlag{
				Name:  "format",
				Value: string(render.FormatJSON),
				Usage: "json or yaml",
			},
			&cli.DurationFlag{
				Name:  "presign",
				Usage: "Also print a download URL valid for this long",
			},
		},
		Action: func(c *cli.Context) error {
			e, err := loadEnv(c)
			if err != nil {
				return err
			}
			if err := e.cfg.ValidateFilestore(); err != nil {
				return err
			}
			f, err := render.ParseFormat(c.String("format"))
			if err != nil {
				return err
			}

			tables, err := e.introspectOnce(c.Context)
			if err != nil {
				return err
			}

			fc := e.cfg.FilestoreConfig()
			store, err := openStore(c.Context, fc)
			if err != nil {
				return err
			}
			defer store.Close()

			p := publish.New(store, fc.DefaultBucket, e.cfg.Filestore.Prefix)
			snap, err := p.Publish(c.Context, c.String("name"), tables, f)
			if err != nil {
				return err
			}

			e.log.With().
				Str("bucket", snap.Bucket).
				Str("key", snap.Object.Key).
				Int("tables", len(tables)).
				Logger().
				Info("snapshot published")
			fmt.Fprintf(c.App.Writer, "%s/%s\n", snap.Bucket, snap.Object.Key)

			if ttl := c.Duration("presign"); ttl > 0 {
				url, err := p.PresignURL(c.Context, snap, ttl)
				if err != nil {
					return err
				}
				fmt.Fprintln(c.App.Writer, url)
			}
			return nil
		},
	}
}
