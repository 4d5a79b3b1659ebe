package main

import (
	"context"
	"log"
	"log/slog"
	"os"

	"github.com/dmitrijs2005/sitepass/internal/buildinfo"
	"github.com/dmitrijs2005/sitepass/internal/cli"
	"github.com/dmitrijs2005/sitepass/internal/config"
	"github.com/dmitrijs2005/sitepass/internal/logging"
)

func main() {

	buildinfo.PrintBuildData(os.Stdout)

	ctx := context.Background()
	cfg := config.LoadConfig()

	logger := logging.NewSlogLogger(slog.New(slog.NewTextHandler(os.Stderr, nil)))

	app, err := cli.NewApp(ctx, cfg, logger)
	if err != nil {
		log.Fatalf("%v", err)
		return
	}
	defer func() { _ = app.Close(ctx) }()

	app.Run(ctx)
}
