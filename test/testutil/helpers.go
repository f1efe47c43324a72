// Package testutil provides test helper functions for unit and integration tests.
package testutil

import (
	"bufio"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

// MustParseTime parses a time string in RFC3339 format.
// It fails the test if parsing fails.
func MustParseTime(t *testing.T, dateStr string) time.Time {
	t.Helper()
	parsed, err := time.Parse(time.RFC3339, dateStr)
	if err != nil {
		t.Fatalf("Failed to parse time %s: %v", dateStr, err)
	}
	return parsed
}

// MustParseDate parses a date string in YYYY-MM-DD format.
// It fails the test if parsing fails.
func MustParseDate(t *testing.T, dateStr string) time.Time {
	t.Helper()
	parsed, err := time.Parse("2006-01-02", dateStr)
	if err != nil {
		t.Fatalf("Failed to parse date %s: %v", dateStr, err)
	}
	return parsed
}

// Ptr returns a pointer to the given value.
// Useful for creating pointers to literals in tests.
func Ptr[T any](v T) *T {
	return &v
}

// WriteLines writes one line per value to dir/name and returns the path.
// Used to build airport-list files for batch runs.
func WriteLines(t *testing.T, dir, name string, lines ...string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	content := strings.Join(lines, "\n")
	if len(lines) > 0 {
		content += "\n"
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("Failed to write %s: %v", path, err)
	}
	return path
}

// ReadEvent reads one server-sent event frame and returns its data lines joined by "\n".
// Comment frames (keepalives) are skipped.
func ReadEvent(t *testing.T, r *bufio.Reader) string {
	t.Helper()

	var data []string
	for {
		line, err := r.ReadString('\n')
		if err != nil {
			t.Fatalf("Failed to read event: %v", err)
		}
		line = strings.TrimRight(line, "\n")

		switch {
		case line == "":
			if len(data) > 0 {
				return strings.Join(data, "\n")
			}
		case strings.HasPrefix(line, ":"):
			// comment frame
		case strings.HasPrefix(line, "data: "):
			data = append(data, strings.TrimPrefix(line, "data: "))
		}
	}
}
