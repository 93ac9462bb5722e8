package converter

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/mrlokans/imgpdf/internal/utils"
)

// scratchPattern names per-request scratch directories under TempDir.
const scratchPattern = "imgpdf-upload-*"

// Upload is one client-supplied file. Size may be -1 when unknown.
type Upload struct {
	Filename string
	Size     int64
	Content  io.Reader
}

// StagerConfig bounds what a single upload batch may contain.
type StagerConfig struct {
	// TempDir is the parent of per-request scratch directories. Empty uses os.TempDir().
	TempDir string
	// MaxFileSize is the per-file byte limit; 0 disables it.
	MaxFileSize int64
	// MaxFiles is the per-batch file limit; 0 disables it.
	MaxFiles int
}

// Stager persists upload batches into request-scoped scratch directories.
type Stager struct {
	config StagerConfig
	logger logrus.FieldLogger
}

func NewStager(cfg StagerConfig, logger logrus.FieldLogger) *Stager {
	if logger == nil {
		discard := logrus.New()
		discard.SetOutput(io.Discard)
		logger = discard
	}
	return &Stager{config: cfg, logger: logger}
}

// Batch is a staged upload set. Close removes its scratch directory and must
// be called on every exit path; it is safe to call more than once.
type Batch struct {
	Dir   string
	Paths []string

	once     sync.Once
	closeErr error
	logger   logrus.FieldLogger
}

func (b *Batch) Close() error {
	if b == nil {
		return nil
	}
	b.once.Do(func() {
		b.closeErr = os.RemoveAll(b.Dir)
		if b.closeErr != nil {
			b.logger.WithError(b.closeErr).WithField("dir", b.Dir).Error("Error cleaning up temporary files")
		}
	})
	return b.closeErr
}

// Validate checks the whole batch without touching the filesystem.
func (s *Stager) Validate(uploads []Upload) error {
	if len(uploads) == 0 {
		return invalidInputf("no files provided")
	}
	if s.config.MaxFiles > 0 && len(uploads) > s.config.MaxFiles {
		return invalidInputf("too many files: %d (max %d)", len(uploads), s.config.MaxFiles)
	}

	for _, u := range uploads {
		if u.Content == nil {
			return invalidInputf("file '%s' has no content", u.Filename)
		}
		ext := filepath.Ext(u.Filename)
		if !IsSupportedExtension(ext) {
			return invalidInputf("unsupported format: '%s' in file '%s'. Supported formats: %s",
				ext, u.Filename, supportedFormatsList())
		}
		if s.config.MaxFileSize > 0 && u.Size > s.config.MaxFileSize {
			return invalidInputf("file '%s' is too large (max %d bytes)", u.Filename, s.config.MaxFileSize)
		}
	}
	return nil
}

// Stage validates the batch and then writes every upload, in received order,
// to a fresh scratch directory as NNN_<name>. On failure the scratch
// directory is already removed and the returned batch is nil.
func (s *Stager) Stage(ctx context.Context, uploads []Upload) (*Batch, error) {
	if err := s.Validate(uploads); err != nil {
		return nil, err
	}

	dir, err := os.MkdirTemp(s.config.TempDir, scratchPattern)
	if err != nil {
		return nil, conversionFailed("creating temporary directory", err)
	}

	batch := &Batch{Dir: dir, logger: s.logger}
	for idx, u := range uploads {
		if err := ctx.Err(); err != nil {
			batch.Close()
			return nil, conversionFailed("staging uploads", err)
		}

		path := filepath.Join(dir, fmt.Sprintf("%03d_%s", idx, utils.SanitizeFilename(u.Filename)))
		if err := s.writeUpload(path, u); err != nil {
			batch.Close()
			return nil, err
		}
		batch.Paths = append(batch.Paths, path)
	}

	s.logger.WithFields(logrus.Fields{
		"dir":   dir,
		"files": len(batch.Paths),
	}).Info("Saved files to temporary directory")

	return batch, nil
}

func (s *Stager) writeUpload(path string, u Upload) error {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0600)
	if err != nil {
		return conversionFailed("staging upload", err)
	}
	defer f.Close()

	src := u.Content
	if s.config.MaxFileSize > 0 {
		src = io.LimitReader(src, s.config.MaxFileSize+1)
	}

	n, err := io.Copy(f, src)
	if err != nil {
		return conversionFailed("staging upload", err)
	}
	if s.config.MaxFileSize > 0 && n > s.config.MaxFileSize {
		return invalidInputf("file '%s' is too large (max %d bytes)", u.Filename, s.config.MaxFileSize)
	}
	if err := f.Close(); err != nil {
		return conversionFailed("staging upload", err)
	}
	return nil
}

// SweepStale removes scratch directories under TempDir last modified more
// than maxAge ago. They are left behind only when the process dies
// mid-request, so maxAge must exceed the longest expected request.
func (s *Stager) SweepStale(maxAge time.Duration) (int, error) {
	parent := s.config.TempDir
	if parent == "" {
		parent = os.TempDir()
	}

	matches, err := filepath.Glob(filepath.Join(parent, scratchPattern))
	if err != nil {
		return 0, err
	}

	cutoff := time.Now().Add(-maxAge)
	removed := 0
	for _, dir := range matches {
		info, err := os.Lstat(dir)
		if err != nil || !info.IsDir() || info.ModTime().After(cutoff) {
			continue
		}
		if err := os.RemoveAll(dir); err != nil {
			s.logger.WithError(err).WithField("dir", dir).Warn("Failed to remove stale scratch directory")
			continue
		}
		removed++
	}
	return removed, nil
}
