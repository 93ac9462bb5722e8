package audit

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/mrlokans/imgpdf/internal/converter"
)

// Conversion kinds recorded by the auditor.
const (
	KindDirectory = "directory"
	KindUpload    = "upload"
)

// Record is one conversion attempt as written to the audit directory.
type Record struct {
	ID        string                      `json:"id"`
	Kind      string                      `json:"kind"`
	Timestamp time.Time                   `json:"timestamp"`
	ClientIP  string                      `json:"client_ip,omitempty"`
	Request   any                         `json:"request,omitempty"`
	Files     []string                    `json:"files,omitempty"`
	Result    *converter.ConversionResult `json:"result,omitempty"`
	Error     string                      `json:"error,omitempty"`
}

type Auditor struct {
	AuditDir string
	logger   logrus.FieldLogger
}

func NewAuditor(auditDir string, logger logrus.FieldLogger) *Auditor {
	return &Auditor{
		AuditDir: auditDir,
		logger:   logger,
	}
}

// SaveJSON saves the provided data as JSON to a file with UUID4 filename
func (a *Auditor) SaveJSON(data any) (string, error) {
	auditID := uuid.New()
	return a.save(auditID.String(), data)
}

// RecordConversion stamps rec with an ID and timestamp and persists it.
// Failures are logged and returned; callers treat auditing as best effort.
func (a *Auditor) RecordConversion(rec Record) (string, error) {
	rec.ID = uuid.New().String()
	if rec.Timestamp.IsZero() {
		rec.Timestamp = time.Now().UTC()
	}

	filename, err := a.save(rec.ID, rec)
	if err != nil && a.logger != nil {
		a.logger.WithError(err).WithField("kind", rec.Kind).Warn("Failed to save audit record")
	}
	return filename, err
}

func (a *Auditor) save(id string, data any) (string, error) {
	// Ensure audit directory exists
	if err := a.ensureAuditDir(); err != nil {
		return "", fmt.Errorf("failed to ensure audit directory: %w", err)
	}

	filename := fmt.Sprintf("%s.json", id)
	path := filepath.Join(a.AuditDir, filename)

	jsonData, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal data to JSON: %w", err)
	}

	if err := os.WriteFile(path, jsonData, 0644); err != nil {
		return "", fmt.Errorf("failed to write audit file: %w", err)
	}

	if a.logger != nil {
		a.logger.WithField("file", path).Debug("Saved audit file")
	}
	return filename, nil
}

// ensureAuditDir creates the audit directory if it doesn't exist
func (a *Auditor) ensureAuditDir() error {
	if _, err := os.Stat(a.AuditDir); os.IsNotExist(err) {
		if err := os.MkdirAll(a.AuditDir, 0755); err != nil {
			return fmt.Errorf("failed to create audit directory: %w", err)
		}
	}
	return nil
}

// DeleteOlderThan removes audit records written more than retention ago and
// returns how many were deleted. A missing audit directory is not an error.
func (a *Auditor) DeleteOlderThan(retention time.Duration) (int64, error) {
	entries, err := os.ReadDir(a.AuditDir)
	if os.IsNotExist(err) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to read audit directory: %w", err)
	}

	cutoff := time.Now().Add(-retention)
	var deleted int64
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".json" {
			continue
		}
		info, err := entry.Info()
		if err != nil || info.ModTime().After(cutoff) {
			continue
		}
		if err := os.Remove(filepath.Join(a.AuditDir, entry.Name())); err != nil {
			return deleted, fmt.Errorf("failed to delete audit file: %w", err)
		}
		deleted++
	}
	return deleted, nil
}
