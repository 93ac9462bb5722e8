package converter

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// SortOrder selects how discovered images are ordered into pages.
type SortOrder string

const (
	SortByName     SortOrder = "name"
	SortByModified SortOrder = "modified"
)

// ParseSortOrder accepts "name", "modified" or an empty string (name).
func ParseSortOrder(s string) (SortOrder, error) {
	switch SortOrder(strings.ToLower(strings.TrimSpace(s))) {
	case "", SortByName:
		return SortByName, nil
	case SortByModified:
		return SortByModified, nil
	default:
		return "", invalidInputf("unknown sort order %q (expected %q or %q)", s, SortByName, SortByModified)
	}
}

// ValidateDirectory confirms path exists and is a directory.
func ValidateDirectory(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return "", invalidInputf("input directory is required")
	}

	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return "", invalidInputf("directory '%s' does not exist", path)
	}
	if err != nil {
		return "", invalidInputf("directory '%s' is not accessible: %v", path, err)
	}
	if !info.IsDir() {
		return "", invalidInputf("'%s' is not a directory", path)
	}

	return filepath.Clean(path), nil
}

type imageFile struct {
	path    string
	name    string
	lower   string
	modTime time.Time
}

// DiscoverImages lists regular files directly inside dir whose extension is in
// formats, ordered by order. Symlinks are followed; subdirectories and broken
// links are skipped. The result may be empty.
func DiscoverImages(dir string, formats FormatSet, order SortOrder) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	var files []imageFile
	for _, entry := range entries {
		name := entry.Name()
		if !formats.Matches(name) {
			continue
		}

		full := filepath.Join(dir, name)
		info, err := os.Stat(full)
		if err != nil || !info.Mode().IsRegular() {
			continue
		}

		files = append(files, imageFile{
			path:    full,
			name:    name,
			lower:   strings.ToLower(name),
			modTime: info.ModTime(),
		})
	}

	sortImages(files, order)

	paths := make([]string, len(files))
	for i, f := range files {
		paths[i] = f.path
	}
	return paths, nil
}

// sortImages orders by lowercase name, or by modification time with the
// lowercase name as tie-breaker. The raw name is the final key so the order
// never depends on directory enumeration.
func sortImages(files []imageFile, order SortOrder) {
	byName := func(a, b imageFile) bool {
		if a.lower != b.lower {
			return a.lower < b.lower
		}
		return a.name < b.name
	}

	sort.SliceStable(files, func(i, j int) bool {
		a, b := files[i], files[j]
		if order == SortByModified && !a.modTime.Equal(b.modTime) {
			return a.modTime.Before(b.modTime)
		}
		return byName(a, b)
	})
}
