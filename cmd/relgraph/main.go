package main

import (
	"context"
	"os"

	"github.com/koustreak/relgraph/internal/cli"
	"github.com/koustreak/relgraph/internal/logger"
)

func main() {
	if err := cli.NewApp().RunContext(context.Background(), os.Args); err != nil {
		logger.Global().With().Err(err).Logger().Error("relgraph failed")
		os.Exit(1)
	}
}
