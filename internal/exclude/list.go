// file: internal/exclude/list.go
// version: 1.0.0
// guid: 7d2b9c40-1f5e-4a8d-b6e3-92c4f0a1d855

package exclude

import (
	"bufio"
	"fmt"
	"os"
	"strings"
)

// LoadList reads a supplementary exclude-list file: one entry per
// line, blank lines and `#` comments skipped. Entries from the file
// are unioned with the configured rules by the caller.
func LoadList(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open exclude list %s: %w", path, err)
	}
	defer f.Close()

	var entries []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		entries = append(entries, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read exclude list %s: %w", path, err)
	}
	return entries, nil
}
