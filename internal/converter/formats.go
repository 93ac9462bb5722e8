package converter

import (
	"path/filepath"
	"sort"
	"strings"
)

// SupportedFormats lists the image extensions the encoder accepts.
var SupportedFormats = []string{".png", ".jpg", ".jpeg", ".bmp", ".tiff", ".tif", ".gif"}

// FormatSet is a set of lowercase extensions with a leading dot.
type FormatSet map[string]struct{}

// AllFormats returns a set containing every supported extension.
func AllFormats() FormatSet {
	set := make(FormatSet, len(SupportedFormats))
	for _, ext := range SupportedFormats {
		set[ext] = struct{}{}
	}
	return set
}

func (s FormatSet) Contains(ext string) bool {
	_, ok := s[strings.ToLower(ext)]
	return ok
}

// Matches reports whether the file name carries an extension in the set.
func (s FormatSet) Matches(name string) bool {
	return s.Contains(filepath.Ext(name))
}

// Sorted returns the extensions in lexical order, mostly for log output.
func (s FormatSet) Sorted() []string {
	out := make([]string, 0, len(s))
	for ext := range s {
		out = append(out, ext)
	}
	sort.Strings(out)
	return out
}

// NormalizeFormat turns "PNG", ".png" or "..Png" into ".png".
func NormalizeFormat(format string) string {
	trimmed := strings.TrimLeft(strings.TrimSpace(format), ".")
	if trimmed == "" {
		return ""
	}
	return "." + strings.ToLower(trimmed)
}

// IsSupportedExtension reports whether ext (with or without the dot) is supported.
func IsSupportedExtension(ext string) bool {
	return AllFormats().Contains(NormalizeFormat(ext))
}

// EffectiveFormats intersects the requested formats with SupportedFormats.
// An empty request selects every supported format. Requested formats that are
// not supported are returned in rejected, in request order, so the caller can
// report them; they are never an error.
func EffectiveFormats(requested []string) (FormatSet, []string) {
	supported := AllFormats()

	effective := make(FormatSet)
	var rejected []string
	seen := make(map[string]bool)

	for _, raw := range requested {
		ext := NormalizeFormat(raw)
		if ext == "" || seen[ext] {
			continue
		}
		seen[ext] = true

		if supported.Contains(ext) {
			effective[ext] = struct{}{}
		} else {
			rejected = append(rejected, ext)
		}
	}

	if len(seen) == 0 {
		return supported, nil
	}
	return effective, rejected
}

// describeFormats renders the caller's format list for user-facing messages.
func describeFormats(requested []string) string {
	var parts []string
	for _, f := range requested {
		if f = strings.TrimSpace(f); f != "" {
			parts = append(parts, f)
		}
	}
	if len(parts) == 0 {
		return "all supported formats"
	}
	return strings.Join(parts, ", ")
}

func supportedFormatsList() string {
	return strings.Join(SupportedFormats, ", ")
}
