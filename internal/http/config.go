package http

import (
	"github.com/sirupsen/logrus"

	"github.com/mrlokans/imgpdf/internal/audit"
	"github.com/mrlokans/imgpdf/internal/converter"
)

// RouterConfig contains all dependencies and configuration needed
// to create the HTTP router.
type RouterConfig struct {
	// Core dependencies
	Converter DirectoryConverter
	Stager    *converter.Stager
	Auditor   *audit.Auditor // optional
	Logger    logrus.FieldLogger

	// Application info
	Version string

	// Upper bound on a multipart upload body in bytes; 0 leaves it unbounded
	MaxUploadBytes int64

	// Directory checked by the health endpoint
	TempDir string

	// Per-client throttling of conversion endpoints; zero rate disables it
	RateLimit RateLimitConfig
}
