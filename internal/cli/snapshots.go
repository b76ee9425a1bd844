package cli

import (
	"strconv"
	"time"

	"github.com/koustreak/relgraph/internal/publish"
	"github.com/olekukonko/tablewriter"
	"github.com/urfave/cli/v2"
)

func SnapshotsCommand() *cli.Command {
	return &cli.Command{
		Name:  "snapshots",
		Usage: "List published snapshots",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "name",
				Required: true,
				Usage:    "Snapshot name given to export",
			},
			&cli.IntFlag{
				Name:  "limit",
				Usage: "Show at most this many snapshots, oldest first (0 for all)",
			},
		},
		Action: func(c *cli.Context) error {
			// Listing needs no database, so only the filestore section is checked.
			e, err := loadBaseEnv(c)
			if err != nil {
				return err
			}
			cfg := e.cfg
			if err := cfg.ValidateFilestore(); err != nil {
				return err
			}

			fc := cfg.FilestoreConfig()
			store, err := openStore(c.Context, fc)
			if err != nil {
				return err
			}
			defer store.Close()

			objs, err := publish.New(store, fc.DefaultBucket, cfg.Filestore.Prefix).List(c.Context, c.String("name"), c.Int("limit"))
			if err != nil {
				return err
			}
			e.log.With().
				Str("name", c.String("name")).
				Int("snapshots", len(objs)).
				Logger().
				Debug("snapshots listed")

			table := tablewriter.NewWriter(c.App.Writer)
			table.SetHeader([]string{"Key", "Size", "Last Modified"})
			for _, o := range objs {
				table.Append([]string{o.Key, strconv.FormatInt(o.Size, 10), o.LastModified.UTC().Format(time.RFC3339)})
			}
			table.Render()
			return nil
		},
	}
}
