package watermark

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Layout is the on-disk timestamp format
const Layout = "2006-01-02 15:04:05"

// DefaultPath is the default watermark location
const DefaultPath = "/var/lib/raidcheck/last_check"

// Store persists the event-log cutoff timestamp across runs
type Store interface {
	Load() (time.Time, error)
	Save(time.Time) error
}

// FileStore keeps the watermark in a plain text file
type FileStore struct {
	path string
}

// NewFileStore creates a file-backed store at the given path
func NewFileStore(path string) *FileStore {
	if path == "" {
		path = DefaultPath
	}
	return &FileStore{path: path}
}

// Load returns the persisted timestamp. A missing file means no prior
// run and yields the epoch start; a corrupt file is treated the same
// way so one bad write cannot wedge the checker forever.
func (s *FileStore) Load() (time.Time, error) {
	epoch := time.Unix(0, 0).UTC()

	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return epoch, nil
	}
	if err != nil {
		return epoch, fmt.Errorf("failed to read watermark: %w", err)
	}

	ts, err := time.Parse(Layout, strings.TrimSpace(string(data)))
	if err != nil {
		slog.Warn("corrupt watermark file, treating as first run",
			"path", s.path, "error", err)
		return epoch, nil
	}
	return ts, nil
}

// Save overwrites the watermark unconditionally
func (s *FileStore) Save(t time.Time) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return fmt.Errorf("failed to create watermark directory: %w", err)
	}
	if err := os.WriteFile(s.path, []byte(t.UTC().Format(Layout)+"\n"), 0644); err != nil {
		return fmt.Errorf("failed to write watermark: %w", err)
	}
	return nil
}
