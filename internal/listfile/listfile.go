// Package listfile reads the newline-delimited photo list files that feed a
// slideshow session.
package listfile

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// DefaultExt is appended to list file names given without an extension.
const DefaultExt = "lst"

// EnsureExt returns name with the default extension appended when it has
// none. Empty or blank names return "".
func EnsureExt(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return ""
	}
	if strings.HasSuffix(name, ".") {
		return name + DefaultExt
	}
	if filepath.Ext(name) != "" {
		return name
	}
	return name + "." + DefaultExt
}

// Read loads the image paths from a list file, one per line. Blank lines are
// skipped.
func Read(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read list file: %w", err)
	}

	var paths []string
	for line := range strings.Lines(string(data)) {
		line = strings.TrimRight(line, "\r\n")
		if line == "" {
			continue
		}
		paths = append(paths, line)
	}
	return paths, nil
}
