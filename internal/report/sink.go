package report

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
)

var reportFilePattern = regexp.MustCompile(`^part\d+test\d+\.txt$`)

// FileSink writes one report file per failing test into Dir.
type FileSink struct {
	Dir       string
	Formatter *Formatter
}

func NewFileSink(dir string, formatter *Formatter) *FileSink {
	if formatter == nil {
		formatter = NewFormatter(LayoutStacked)
	}
	return &FileSink{Dir: dir, Formatter: formatter}
}

// Init creates the output directory and removes reports left over from a
// previous run. Other files in the directory are not touched.
func (s *FileSink) Init() error {
	if err := os.MkdirAll(s.Dir, 0o755); err != nil {
		return fmt.Errorf("failed to create output directory %s: %w", s.Dir, err)
	}

	entries, err := os.ReadDir(s.Dir)
	if err != nil {
		return fmt.Errorf("failed to list output directory %s: %w", s.Dir, err)
	}
	for _, e := range entries {
		if e.IsDir() || !reportFilePattern.MatchString(e.Name()) {
			continue
		}
		if err := os.Remove(filepath.Join(s.Dir, e.Name())); err != nil {
			return fmt.Errorf("failed to remove stale report %s: %w", e.Name(), err)
		}
	}
	return nil
}

// Path returns where the report for o is written.
func (s *FileSink) Path(o Outcome) string {
	return filepath.Join(s.Dir, o.Record.Name()+".txt")
}

// Write renders o and writes it, returning the file path.
func (s *FileSink) Write(o Outcome) (string, error) {
	path := s.Path(o)
	if err := os.WriteFile(path, []byte(s.Formatter.Format(o)), 0o644); err != nil {
		return "", fmt.Errorf("failed to write report %s: %w", path, err)
	}
	return path, nil
}
