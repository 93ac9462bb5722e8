package interfaces

// Compile-time interface implementation checks.

import (
	"github.com/mrlokans/imgpdf/internal/audit"
	"github.com/mrlokans/imgpdf/internal/cli"
	"github.com/mrlokans/imgpdf/internal/converter"
	"github.com/mrlokans/imgpdf/internal/entrypoint"
	"github.com/mrlokans/imgpdf/internal/http"
	"github.com/mrlokans/imgpdf/internal/scheduler"
)

// =============================================================================
// Conversion
// =============================================================================

// Encoder implementations
var _ converter.Encoder = (*converter.PDFCPUEncoder)(nil)

// DirectoryConverter implementations
var _ http.DirectoryConverter = (*converter.Converter)(nil)

// =============================================================================
// Housekeeping
// =============================================================================

// ScratchSweeper implementations
var _ scheduler.ScratchSweeper = (*converter.Stager)(nil)

// AuditPruner implementations
var _ scheduler.AuditPruner = (*audit.Auditor)(nil)

// =============================================================================
// Process wiring
// =============================================================================

var _ cli.ServeFunc = entrypoint.Run
