package config

import (
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type (
	Config struct {
		HTTP
		Global
		Upload
		PDF
		Audit
		Log
		RateLimit
		Janitor
	}

	HTTP struct {
		Port int32
		Host string
	}
	Global struct {
		ShutdownTimeoutInSeconds int
	}
	Upload struct {
		TempDir       string // Parent of per-request scratch directories; empty means os.TempDir()
		MaxFileSizeMB int64
		MaxFiles      int
	}
	PDF struct {
		ImportDescription string // pdfcpu import description, e.g. "form:A4, pos:c"
	}
	Audit struct {
		Dir string // Empty disables conversion audit records
	}
	Log struct {
		Level  string
		Format string // "text" or "json"
	}
	RateLimit struct {
		RequestsPerSecond float64 // 0 disables rate limiting
		Burst             int
	}
	Janitor struct {
		Schedule             string // Cron expression; empty disables periodic cleanup
		ScratchMaxAgeMinutes int
		AuditRetentionDays   int // 0 keeps audit records forever
	}
)

// MaxFileSizeBytes converts the configured upload limit to bytes.
func (u Upload) MaxFileSizeBytes() int64 {
	if u.MaxFileSizeMB <= 0 {
		return 0
	}
	return u.MaxFileSizeMB * 1024 * 1024
}

// MaxRequestBytes is the largest multipart upload body accepted: every file
// at its size limit plus room for part headers and boundaries. It is 0, and
// the body unlimited, when either limit is disabled.
func (u Upload) MaxRequestBytes() int64 {
	perFile := u.MaxFileSizeBytes()
	if perFile == 0 || u.MaxFiles <= 0 {
		return 0
	}
	return int64(u.MaxFiles)*(perFile+multipartPartOverhead) + multipartFormOverhead
}

// NewConfig reads configuration from the environment, after loading a .env
// file from the working directory when one exists.
func NewConfig() *Config {
	_ = godotenv.Load()
	return newConfig(viper.New())
}

func newConfig(v *viper.Viper) *Config {
	v.AutomaticEnv()
	v.SetDefault("port", DefaultPort)
	v.SetDefault("host", "0.0.0.0")
	v.SetDefault("shutdown_timeout_in_seconds", 5)
	v.SetDefault("temp_dir", "")
	v.SetDefault("max_upload_file_size_mb", DefaultMaxUploadFileSizeMB)
	v.SetDefault("max_upload_files", DefaultMaxUploadFiles)
	v.SetDefault("pdf_import_description", "")
	v.SetDefault("audit_dir", "")
	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "text")
	v.SetDefault("rate_limit_rps", 0)
	v.SetDefault("rate_limit_burst", 5)
	v.SetDefault("janitor_schedule", DefaultJanitorSchedule)
	v.SetDefault("scratch_max_age_minutes", DefaultScratchMaxAgeMinutes)
	v.SetDefault("audit_retention_days", DefaultAuditRetentionDays)

	return &Config{
		HTTP: HTTP{
			Port: v.GetInt32("PORT"),
			Host: v.GetString("HOST"),
		},
		Global: Global{
			ShutdownTimeoutInSeconds: v.GetInt("SHUTDOWN_TIMEOUT_IN_SECONDS"),
		},
		Upload: Upload{
			TempDir:       v.GetString("TEMP_DIR"),
			MaxFileSizeMB: v.GetInt64("MAX_UPLOAD_FILE_SIZE_MB"),
			MaxFiles:      v.GetInt("MAX_UPLOAD_FILES"),
		},
		PDF: PDF{
			ImportDescription: v.GetString("PDF_IMPORT_DESCRIPTION"),
		},
		Audit: Audit{
			Dir: v.GetString("AUDIT_DIR"),
		},
		Log: Log{
			Level:  v.GetString("LOG_LEVEL"),
			Format: v.GetString("LOG_FORMAT"),
		},
		RateLimit: RateLimit{
			RequestsPerSecond: v.GetFloat64("RATE_LIMIT_RPS"),
			Burst:             v.GetInt("RATE_LIMIT_BURST"),
		},
		Janitor: Janitor{
			Schedule:             v.GetString("JANITOR_SCHEDULE"),
			ScratchMaxAgeMinutes: v.GetInt("SCRATCH_MAX_AGE_MINUTES"),
			AuditRetentionDays:   v.GetInt("AUDIT_RETENTION_DAYS"),
		},
	}
}
