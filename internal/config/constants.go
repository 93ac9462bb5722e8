package config

const (
	// DefaultPort is the HTTP port used when PORT is unset
	DefaultPort = 8000

	// DefaultMaxUploadFileSizeMB caps a single uploaded image
	DefaultMaxUploadFileSizeMB = 20

	// DefaultMaxUploadFiles caps the number of images in one upload batch
	DefaultMaxUploadFiles = 200

	// DefaultJanitorSchedule runs housekeeping every 15 minutes; "off" disables it
	DefaultJanitorSchedule = "*/15 * * * *"

	// DefaultScratchMaxAgeMinutes marks upload scratch directories as orphaned
	DefaultScratchMaxAgeMinutes = 60

	// DefaultAuditRetentionDays bounds how long audit records are kept
	DefaultAuditRetentionDays = 30

	// multipartPartOverhead covers one part's headers and boundary line
	multipartPartOverhead = 4 << 10

	// multipartFormOverhead covers the closing boundary and any non-file fields
	multipartFormOverhead = 1 << 20

	// UploadPDFFilename is the suggested download name for upload conversions
	UploadPDFFilename = "converted.pdf"
)
