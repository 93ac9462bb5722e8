package cli

import (
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v2"

	"github.com/mrlokans/imgpdf/internal/converter"
)

// Exit codes for a one-shot conversion.
const (
	ExitFailure      = 1 // nothing to convert, or encoding/IO failure
	ExitInvalidInput = 2
)

// ConvertCommand runs a single directory conversion and reports the outcome
// through its exit code.
type ConvertCommand struct {
	opts Options
}

func (cmd *ConvertCommand) Command() *cli.Command {
	return &cli.Command{
		Name:      "convert",
		Usage:     "Convert the images in a directory into one PDF",
		UsageText: "imgpdf convert --input-dir <dir> --output-pdf <file> [--formats png,jpg] [--sort name|modified]",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "input-dir",
				Aliases:  []string{"i"},
				Usage:    "Directory containing the images (not searched recursively)",
				Required: true,
			},
			&cli.StringFlag{
				Name:     "output-pdf",
				Aliases:  []string{"o"},
				Usage:    "Path of the PDF to write; parent directories are created",
				Required: true,
			},
			&cli.StringSliceFlag{
				Name:    "formats",
				Aliases: []string{"f"},
				Usage:   "Image extensions to include, e.g. png,jpg (default: all supported)",
			},
			&cli.StringFlag{
				Name:  "sort",
				Usage: "Page order: name or modified",
				Value: string(converter.SortByName),
			},
			&cli.StringFlag{
				Name:  "pdf-import",
				Usage: "pdfcpu import description, e.g. \"form:A4, pos:c\"",
				Value: cmd.opts.Config.PDF.ImportDescription,
			},
		},
		Action: cmd.Run,
	}
}

func (cmd *ConvertCommand) Run(c *cli.Context) error {
	order, err := converter.ParseSortOrder(c.String("sort"))
	if err != nil {
		return cli.Exit(fmt.Sprintf("Error: %v", err), ExitInvalidInput)
	}

	encoder, err := cmd.opts.NewEncoder(c.String("pdf-import"))
	if err != nil {
		return cli.Exit(fmt.Sprintf("Error: %v", err), ExitInvalidInput)
	}

	ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
	defer stop()

	conv := converter.NewConverter(encoder, cmd.opts.Logger)
	result, err := conv.Convert(ctx, converter.ConversionRequest{
		InputDir:   c.String("input-dir"),
		OutputPath: c.String("output-pdf"),
		Formats:    c.StringSlice("formats"),
		SortOrder:  order,
	})
	if err != nil {
		code := ExitFailure
		if errors.Is(err, converter.ErrInvalidInput) {
			code = ExitInvalidInput
		}
		return cli.Exit(fmt.Sprintf("Error: %v", err), code)
	}

	if !result.Success {
		return cli.Exit(result.Message, ExitFailure)
	}

	fmt.Fprintln(c.App.Writer, result.Message)
	return nil
}
