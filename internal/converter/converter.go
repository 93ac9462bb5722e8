// Package converter collects images from a directory or an upload batch and
// turns them into a single PDF through a pluggable Encoder.
package converter

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"
)

// Encoder turns an ordered list of image files into PDF bytes.
// Implementations must fail when an input is not a decodable image.
type Encoder interface {
	Encode(ctx context.Context, paths []string) ([]byte, error)
}

// ConversionRequest describes a directory-based conversion.
type ConversionRequest struct {
	InputDir   string
	OutputPath string
	Formats    []string
	SortOrder  SortOrder
}

// ConversionResult is the outcome reported to callers. Success is false with
// ImagesConverted == 0 when the directory holds no matching images.
type ConversionResult struct {
	Success         bool   `json:"success"`
	Message         string `json:"message"`
	OutputPath      string `json:"output_path,omitempty"`
	ImagesConverted int    `json:"images_converted"`
}

type Converter struct {
	encoder Encoder
	logger  logrus.FieldLogger
}

func NewConverter(encoder Encoder, logger logrus.FieldLogger) *Converter {
	if logger == nil {
		discard := logrus.New()
		discard.SetOutput(io.Discard)
		logger = discard
	}
	return &Converter{
		encoder: encoder,
		logger:  logger,
	}
}

// Collect validates the input directory and returns the ordered image list.
// Unsupported requested formats are dropped with a warning.
func (c *Converter) Collect(req ConversionRequest) ([]string, error) {
	dir, err := ValidateDirectory(req.InputDir)
	if err != nil {
		return nil, err
	}

	formats, rejected := EffectiveFormats(req.Formats)
	if len(rejected) > 0 {
		c.logger.WithFields(logrus.Fields{
			"rejected":  rejected,
			"effective": formats.Sorted(),
		}).Warn("Unsupported formats will be skipped")
	}

	order := req.SortOrder
	if order == "" {
		order = SortByName
	}

	paths, err := DiscoverImages(dir, formats, order)
	if err != nil {
		return nil, c.fail(conversionFailed("reading input directory", err))
	}
	return paths, nil
}

// Convert runs a full directory conversion. An empty image list is reported
// through the result, not as an error, and writes nothing.
func (c *Converter) Convert(ctx context.Context, req ConversionRequest) (*ConversionResult, error) {
	if strings.TrimSpace(req.OutputPath) == "" {
		return nil, invalidInputf("output PDF path is required")
	}

	paths, err := c.Collect(req)
	if err != nil {
		return nil, err
	}

	if len(paths) == 0 {
		message := fmt.Sprintf("No images found in '%s' with formats: %s", req.InputDir, describeFormats(req.Formats))
		c.logger.Warn(message)
		return &ConversionResult{
			Success:         false,
			Message:         message,
			ImagesConverted: 0,
		}, nil
	}

	outputPath, err := filepath.Abs(req.OutputPath)
	if err != nil {
		return nil, c.fail(conversionFailed("resolving output path", err))
	}

	data, err := c.ConvertFiles(ctx, paths)
	if err != nil {
		return nil, err
	}

	if err := writeFileAtomic(ctx, outputPath, data); err != nil {
		return nil, c.fail(conversionFailed("writing output", err))
	}

	message := fmt.Sprintf("Successfully converted %d images to '%s'", len(paths), req.OutputPath)
	c.logger.WithFields(logrus.Fields{
		"output": outputPath,
		"images": len(paths),
		"bytes":  len(data),
	}).Info(message)

	return &ConversionResult{
		Success:         true,
		Message:         message,
		OutputPath:      outputPath,
		ImagesConverted: len(paths),
	}, nil
}

// ConvertFiles encodes an already ordered list of images.
func (c *Converter) ConvertFiles(ctx context.Context, paths []string) ([]byte, error) {
	if len(paths) == 0 {
		return nil, invalidInputf("no images to convert")
	}
	if err := ctx.Err(); err != nil {
		return nil, c.fail(conversionFailed("encoding images", err))
	}

	data, err := c.encoder.Encode(ctx, paths)
	if err != nil {
		return nil, c.fail(conversionFailed("encoding images", err))
	}
	return data, nil
}

func (c *Converter) fail(err error) error {
	c.logger.WithError(err).Error("Error during conversion")
	return err
}

// writeFileAtomic writes data next to path under a temporary name and renames
// it into place, so readers never observe a partially written PDF.
func writeFileAtomic(ctx context.Context, path string, data []byte) (err error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temporary file: %w", err)
	}
	tmpName := tmp.Name()
	defer func() {
		if err != nil {
			tmp.Close()
			os.Remove(tmpName)
		}
	}()

	if _, err = tmp.Write(data); err != nil {
		return fmt.Errorf("write %s: %w", tmpName, err)
	}
	if err = tmp.Sync(); err != nil {
		return fmt.Errorf("sync %s: %w", tmpName, err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("close %s: %w", tmpName, err)
	}
	if err = os.Chmod(tmpName, 0644); err != nil {
		return fmt.Errorf("chmod %s: %w", tmpName, err)
	}
	if err = ctx.Err(); err != nil {
		return err
	}
	if err = os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("rename to %s: %w", path, err)
	}
	return nil
}
