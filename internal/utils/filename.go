package utils

import (
	"path"
	"regexp"
	"strings"
)

const maxFilenameLength = 200

var (
	// Characters invalid in filenames on most filesystems
	invalidFilenameChars = regexp.MustCompile(`[<>:"/\\|?*\x00-\x1f]`)
	// Multiple spaces to collapse
	multipleSpaces = regexp.MustCompile(`\s+`)
)

// SanitizeFilename reduces a client-supplied file name to a safe base name.
// Directory components (either slash style) are dropped, invalid characters
// removed and whitespace collapsed. The extension is kept, lowercased, even
// when the stem has to be truncated.
func SanitizeFilename(filename string) string {
	// Browsers on Windows may send full paths with backslashes
	filename = strings.ReplaceAll(filename, `\`, "/")
	filename = path.Base(filename)
	if filename == "." || filename == "/" {
		filename = ""
	}

	ext := strings.ToLower(path.Ext(filename))
	stem := strings.TrimSuffix(filename, path.Ext(filename))

	ext = invalidFilenameChars.ReplaceAllString(ext, "")
	stem = multipleSpaces.ReplaceAllString(stem, " ")
	stem = invalidFilenameChars.ReplaceAllString(stem, "")
	stem = strings.Trim(stem, " .")

	if limit := maxFilenameLength - len(ext); len(stem) > limit {
		stem = strings.TrimSpace(stem[:limit])
	}

	if stem == "" {
		stem = "image"
	}

	return stem + ext
}
