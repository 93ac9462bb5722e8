// Package cli exposes the service and one-shot conversions as subcommands.
package cli

import (
	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"

	"github.com/mrlokans/imgpdf/internal/config"
	"github.com/mrlokans/imgpdf/internal/converter"
	"github.com/mrlokans/imgpdf/internal/logging"
)

// ServeFunc runs the HTTP service until it is interrupted.
type ServeFunc func(cfg *config.Config, logger *logrus.Logger, version string) error

// EncoderFactory builds the PDF encoder from a pdfcpu import description.
type EncoderFactory func(description string) (converter.Encoder, error)

// Options carries the process-wide dependencies shared by all commands.
type Options struct {
	Config  *config.Config
	Logger  *logrus.Logger
	Version string
	Serve   ServeFunc
	// NewEncoder defaults to the pdfcpu encoder.
	NewEncoder EncoderFactory
}

func NewApp(opts Options) *cli.App {
	if opts.NewEncoder == nil {
		opts.NewEncoder = func(description string) (converter.Encoder, error) {
			return converter.NewPDFCPUEncoder(description)
		}
	}

	serve := &ServeCommand{opts: opts}
	convert := &ConvertCommand{opts: opts}

	return &cli.App{
		Name:    "imgpdf",
		Usage:   "Convert directories or uploaded batches of images into a single PDF",
		Version: opts.Version,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "log-level",
				Usage: "trace, debug, info, warn or error",
				Value: opts.Config.Log.Level,
			},
		},
		Before: func(c *cli.Context) error {
			if c.IsSet("log-level") {
				opts.Logger.SetLevel(logging.ParseLevel(c.String("log-level")))
			}
			return nil
		},
		// No subcommand starts the service
		Action: serve.Run,
		Commands: []*cli.Command{
			serve.Command(),
			convert.Command(),
		},
	}
}
