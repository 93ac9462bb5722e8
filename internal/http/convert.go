package http

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/mrlokans/imgpdf/internal/audit"
	"github.com/mrlokans/imgpdf/internal/config"
	"github.com/mrlokans/imgpdf/internal/converter"
)

// DirectoryConverter is the conversion surface the controllers need.
type DirectoryConverter interface {
	Convert(ctx context.Context, req converter.ConversionRequest) (*converter.ConversionResult, error)
	ConvertFiles(ctx context.Context, paths []string) ([]byte, error)
}

// uploadFormField is the multipart field carrying the images, in page order.
const uploadFormField = "files"

type ConvertController struct {
	converter DirectoryConverter
	stager    *converter.Stager
	auditor   *audit.Auditor
	logger    logrus.FieldLogger
	// maxBody bounds the upload request body; 0 leaves it unbounded
	maxBody   int64
}

func NewConvertController(conv DirectoryConverter, stager *converter.Stager, auditor *audit.Auditor, logger logrus.FieldLogger, maxBody int64) *ConvertController {
	if logger == nil {
		discard := logrus.New()
		discard.SetOutput(io.Discard)
		logger = discard
	}
	return &ConvertController{
		converter: conv,
		stager:    stager,
		auditor:   auditor,
		logger:    logger,
		maxBody:   maxBody,
	}
}

// ConvertDirectoryRequest is the JSON body of POST /convert.
type ConvertDirectoryRequest struct {
	InputDir      string   `json:"input_dir" binding:"required"`
	OutputPDFPath string   `json:"output_pdf_path" binding:"required"`
	ImageFormats  []string `json:"image_formats"`
	SortOrder     string   `json:"sort_order"`
}

func (c *ConvertController) ConvertDirectory(ctx *gin.Context) {
	var req ConvertDirectoryRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		respondBadRequest(ctx, fmt.Sprintf("invalid request body: %v", err))
		return
	}

	order, err := converter.ParseSortOrder(req.SortOrder)
	if err != nil {
		respondBadRequest(ctx, err.Error())
		return
	}

	result, err := c.converter.Convert(ctx.Request.Context(), converter.ConversionRequest{
		InputDir:   req.InputDir,
		OutputPath: req.OutputPDFPath,
		Formats:    req.ImageFormats,
		SortOrder:  order,
	})

	c.record(audit.Record{
		Kind:     audit.KindDirectory,
		ClientIP: ctx.ClientIP(),
		Request:  req,
		Result:   result,
	}, err)

	if err != nil {
		respondConversionError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, result)
}

func (c *ConvertController) ConvertUpload(ctx *gin.Context) {
	if c.maxBody > 0 {
		if ctx.Request.ContentLength > c.maxBody {
			respondTooLarge(ctx, c.maxBody)
			return
		}
		// Chunked or mislabelled bodies are cut off while the form is parsed
		ctx.Request.Body = http.MaxBytesReader(ctx.Writer, ctx.Request.Body, c.maxBody)
	}

	form, err := ctx.MultipartForm()
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			respondTooLarge(ctx, c.maxBody)
			return
		}
		respondBadRequest(ctx, fmt.Sprintf("expected multipart form with '%s' field: %v", uploadFormField, err))
		return
	}
	// Parts spilled to disk by the multipart reader are request-scoped too
	defer form.RemoveAll()

	headers := form.File[uploadFormField]
	if len(headers) == 0 {
		respondBadRequest(ctx, "No files provided")
		return
	}

	uploads, closeAll, err := openUploads(headers)
	defer closeAll()
	if err != nil {
		respondError(ctx, http.StatusInternalServerError, fmt.Sprintf("failed to read upload: %v", err))
		return
	}

	filenames := make([]string, len(headers))
	for i, h := range headers {
		filenames[i] = h.Filename
	}

	batch, err := c.stager.Stage(ctx.Request.Context(), uploads)
	if err != nil {
		if !errors.Is(err, converter.ErrInvalidInput) {
			c.logger.WithError(err).WithField("files", len(uploads)).Error("Error staging uploaded images")
		}
		c.record(audit.Record{Kind: audit.KindUpload, ClientIP: ctx.ClientIP(), Files: filenames}, err)
		respondConversionError(ctx, err)
		return
	}
	defer batch.Close()

	data, err := c.converter.ConvertFiles(ctx.Request.Context(), batch.Paths)
	if err != nil {
		c.record(audit.Record{Kind: audit.KindUpload, ClientIP: ctx.ClientIP(), Files: filenames}, err)
		respondConversionError(ctx, err)
		return
	}

	c.logger.WithField("images", len(batch.Paths)).Info("Successfully converted uploaded images to PDF")
	c.record(audit.Record{
		Kind:     audit.KindUpload,
		ClientIP: ctx.ClientIP(),
		Files:    filenames,
		Result: &converter.ConversionResult{
			Success:         true,
			Message:         fmt.Sprintf("Successfully converted %d images to PDF", len(batch.Paths)),
			ImagesConverted: len(batch.Paths),
		},
	}, nil)

	ctx.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, config.UploadPDFFilename))
	ctx.Data(http.StatusOK, "application/pdf", data)
}

// openUploads opens every part in order. closeAll is always safe to call.
func openUploads(headers []*multipart.FileHeader) ([]converter.Upload, func(), error) {
	var files []multipart.File
	closeAll := func() {
		for _, f := range files {
			f.Close()
		}
	}

	uploads := make([]converter.Upload, 0, len(headers))
	for _, h := range headers {
		f, err := h.Open()
		if err != nil {
			return nil, closeAll, fmt.Errorf("open %s: %w", h.Filename, err)
		}
		files = append(files, f)
		uploads = append(uploads, converter.Upload{
			Filename: h.Filename,
			Size:     h.Size,
			Content:  f,
		})
	}
	return uploads, closeAll, nil
}

func (c *ConvertController) record(rec audit.Record, err error) {
	if c.auditor == nil {
		return
	}
	if err != nil {
		rec.Error = err.Error()
	}
	c.auditor.RecordConversion(rec)
}
