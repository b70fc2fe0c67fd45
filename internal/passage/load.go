package passage

import (
	"bufio"
	"fmt"
	"os"
	"strings"
)

// LoadPassages reads one passage per line. Blank lines and lines starting with # are skipped.
func LoadPassages(path string) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := file.Close(); cerr != nil {
			// Best-effort close for read-only passage file.
			_ = cerr
		}
	}()

	var passages []string
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		passages = append(passages, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	if len(passages) == 0 {
		return nil, fmt.Errorf("passage file is empty")
	}
	return passages, nil
}
