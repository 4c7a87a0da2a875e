// Package validation checks user-supplied paths and formats before a
// command touches them.
package validation

import (
	"fmt"
	"os"
	"strings"
)

// OutputFormats lists the formats reports can be rendered in.
var OutputFormats = []string{"csv", "json", "yaml"}

// IsValidDataDirectory checks that path exists and is a directory.
func IsValidDataDirectory(path string) error {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return fmt.Errorf("data directory does not exist: %s", path)
	}
	if err != nil {
		return fmt.Errorf("error checking data directory %s: %w", path, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("data directory %s is not a directory", path)
	}
	return nil
}

// IsValidOutputFormat checks if the given format is supported, ignoring case.
func IsValidOutputFormat(format string) error {
	for _, f := range OutputFormats {
		if strings.EqualFold(format, f) {
			return nil
		}
	}
	return fmt.Errorf("unsupported output format: %s. Supported formats are 'csv', 'json', 'yaml'", format)
}
