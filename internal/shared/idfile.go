package shared

import (
	"bufio"
	"os"
	"strings"

	"github.com/charmbracelet/log"
)

// ReadIDFile reads a newline-delimited list of entity ids from path.
// Blank lines and surrounding whitespace are discarded. A missing file
// is not an error: it yields an empty set with a warning, so one absent
// id list never aborts a run.
func ReadIDFile(path string, logger *log.Logger) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			logger.Warn("id file not found", "path", path)
			return nil, nil
		}
		return nil, err
	}
	defer f.Close()

	var ids []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		id := strings.TrimSpace(scanner.Text())
		if id != "" {
			ids = append(ids, id)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	logger.Info("read id file", "path", path, "count", len(ids))
	return ids, nil
}
