package main

import (
	"fmt"
	"os"

	"github.com/mrlokans/imgpdf/internal/cli"
	"github.com/mrlokans/imgpdf/internal/config"
	"github.com/mrlokans/imgpdf/internal/entrypoint"
	"github.com/mrlokans/imgpdf/internal/logging"
)

// Version information - set at build time via ldflags
var (
	Version = "dev"
	Commit  = "unknown"
)

func main() {
	cfg := config.NewConfig()
	logger := logging.New(cfg.Log.Level, cfg.Log.Format, os.Stderr)

	app := cli.NewApp(cli.Options{
		Config:  cfg,
		Logger:  logger,
		Version: fmt.Sprintf("%s (%s)", Version, Commit),
		Serve:   entrypoint.Run,
	})

	// Exit codes carried by cli.Exit are handled inside Run
	if err := app.Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
