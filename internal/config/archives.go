package config

import (
	"fmt"
	"strings"
)

// validateArchives ensures archive paths are non-empty and listed only once
func validateArchives(archives []string) error {
	seen := make(map[string]bool, len(archives))
	for i, path := range archives {
		if strings.TrimSpace(path) == "" {
			return fmt.Errorf("archive path %d cannot be empty", i)
		}
		if seen[path] {
			return fmt.Errorf("archive '%s' is listed more than once", path)
		}
		seen[path] = true
	}
	return nil
}
