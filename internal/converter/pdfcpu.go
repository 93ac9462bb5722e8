package converter

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"

	// Decoders for formats the standard library does not register.
	_ "image/gif"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"
)

var disableConfigDir sync.Once

// PDFCPUEncoder places one image per page using pdfcpu's image import.
type PDFCPUEncoder struct {
	description string
}

// NewPDFCPUEncoder builds an encoder. description is a pdfcpu import
// description such as "form:A4, pos:c"; empty uses pdfcpu's defaults.
func NewPDFCPUEncoder(description string) (*PDFCPUEncoder, error) {
	// pdfcpu would otherwise create a config directory under the user's home.
	disableConfigDir.Do(api.DisableConfigDir)

	e := &PDFCPUEncoder{description: description}
	if _, err := e.importConfig(); err != nil {
		return nil, fmt.Errorf("invalid pdf import description %q: %w", description, err)
	}
	return e, nil
}

// importConfig returns a fresh import configuration per call; pdfcpu mutates it.
func (e *PDFCPUEncoder) importConfig() (*pdfcpu.Import, error) {
	if e.description == "" {
		return pdfcpu.DefaultImportConfig(), nil
	}
	return api.Import(e.description, types.POINTS)
}

func (e *PDFCPUEncoder) Encode(ctx context.Context, paths []string) ([]byte, error) {
	if len(paths) == 0 {
		return nil, errors.New("no images to encode")
	}

	files := make([]*os.File, 0, len(paths))
	defer func() {
		for _, f := range files {
			f.Close()
		}
	}()

	readers := make([]io.Reader, 0, len(paths))
	for _, p := range paths {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		f, err := os.Open(p)
		if err != nil {
			return nil, fmt.Errorf("open image: %w", err)
		}
		files = append(files, f)
		readers = append(readers, f)
	}

	imp, err := e.importConfig()
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := api.ImportImages(nil, &buf, readers, imp, model.NewDefaultConfiguration()); err != nil {
		return nil, fmt.Errorf("pdfcpu import images: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
