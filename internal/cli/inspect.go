package cli

import (
	"bytes"
	"io"
	"os"

	"github.com/koustreak/relgraph/internal/detect"
	"github.com/koustreak/relgraph/internal/render"
	"github.com/urfave/cli/v2"
)

func InspectCommand() *cli.Command {
	return &cli.Command{
		Name:  "inspect",
		Usage: "Print the table model of the database",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "format",
				Aliases: []string{"f"},
				Usage:   "table, json or yaml (default: table on a terminal, json otherwise)",
			},
			&cli.StringFlag{
				Name:  "schema",
				Usage: "Only print tables of this schema",
			},
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "Write to this file instead of stdout",
			},
		},
		Action: func(c *cli.Context) error {
			e, err := loadEnv(c)
			if err != nil {
				return err
			}

			path := c.String("output")
			f, err := inspectFormat(c.String("format"), path == "" && isTerminal(os.Stdout))
			if err != nil {
				return err
			}

			tables, err := e.introspectOnce(c.Context)
			if err != nil {
				return err
			}
			return writeModel(c.App.Writer, path, detect.FilterSchema(tables, c.String("schema")), f)
		},
	}
}

// inspectFormat resolves --format; without it a terminal gets the table view.
func inspectFormat(flag string, interactive bool) (render.Format, error) {
	if flag != "" {
		return render.ParseFormat(flag)
	}
	if interactive {
		return render.FormatTable, nil
	}
	return render.FormatJSON, nil
}

// writeModel renders tables fully before touching path, so a failure never
// leaves a truncated file behind. An empty path writes to stdout.
func writeModel(stdout io.Writer, path string, tables []detect.TableDef, f render.Format) error {
	var buf bytes.Buffer
	if err := render.Write(&buf, tables, f); err != nil {
		return err
	}
	if path == "" {
		_, err := stdout.Write(buf.Bytes())
		return err
	}
	return os.WriteFile(path, buf.Bytes(), 0o644)
}
