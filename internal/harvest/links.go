package harvest

import (
	"fmt"

	"github.com/jonathan/pmc-harvester/internal/output"
)

// ReadLinks returns the URLs listed in path, one per line, trimmed and in file
// order. Blank lines are skipped.
func ReadLinks(path string) ([]string, error) {
	var links []string
	err := output.ScanLines(path, func(_ int, line []byte) error {
		links = append(links, string(line))
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to read links file %s: %w", path, err)
	}
	return links, nil
}
