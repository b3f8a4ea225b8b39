package recon

import (
	"bufio"
	"os"
	"strings"

	"instarecon/pkg/errors"
)

// LoadTargets reads one username per line. Blank lines and lines starting
// with # are skipped.
func LoadTargets(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrorTypeInput, err, "the file '%s' was not found", path)
		}
		return nil, errors.Wrap(errors.ErrorTypeInput, err, "failed to open %s", path)
	}
	defer f.Close()

	var targets []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		targets = append(targets, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrap(errors.ErrorTypeInput, err, "failed to read %s", path)
	}
	return targets, nil
}
