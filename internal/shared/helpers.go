// Package shared provides small helpers used by more than one adapter.
package shared

import (
	"fmt"
	"strings"
)

// HTTPStatusError creates a formatted error for unexpected HTTP responses.
func HTTPStatusError(status int, url string) error {
	return fmt.Errorf("status=%d url=%s", status, url)
}

// FirstLine returns the first line of content with surrounding
// whitespace removed.
func FirstLine(content string) string {
	line, _, _ := strings.Cut(content, "\n")
	return strings.TrimSpace(line)
}
