package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"

	"github.com/nhle/mailwatch/internal/model"
)

// FileStore keeps the report of one job as a JSON document on disk.
type FileStore struct {
	path   string
	logger *log.Logger
}

// NewFileStore creates a store for the report at path.
func NewFileStore(path string, logger *log.Logger) *FileStore {
	return &FileStore{path: path, logger: logger}
}

// Path returns the location of the report document.
func (s *FileStore) Path() string {
	return s.path
}

// Load reads the previous report. A missing or unreadable document yields
// an empty report; every message then counts as new on the next run.
func (s *FileStore) Load() *model.Report {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			s.logger.Debug("no previous state", "path", s.path)
		} else {
			s.logger.Warn("reading state failed, starting fresh", "path", s.path, "error", err)
		}
		return emptyReport()
	}

	var report model.Report
	if err := json.Unmarshal(data, &report); err != nil {
		s.logger.Warn("state is corrupt, starting fresh", "path", s.path, "error", err)
		return emptyReport()
	}
	if report.ImportantNew == nil {
		report.ImportantNew = []model.Message{}
	}
	if report.Latest == nil {
		report.Latest = []model.Message{}
	}

	return &report
}

// Save writes report to a temporary file next to the target and renames
// it into place, creating the parent directory when needed. Readers see
// either the old or the new document, never a partial one.
func (s *FileStore) Save(report *model.Report) error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating state directory %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("creating temporary state file: %w", err)
	}
	tmpPath := tmp.Name()
	renamed := false
	defer func() {
		if !renamed {
			_ = os.Remove(tmpPath)
		}
	}()

	if err := Encode(tmp, report); err != nil {
		tmp.Close()
		return fmt.Errorf("encoding state: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("syncing state: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing temporary state file: %w", err)
	}
	if err := os.Chmod(tmpPath, 0o644); err != nil {
		return fmt.Errorf("setting state permissions: %w", err)
	}

	if err := os.Rename(tmpPath, s.path); err != nil {
		return fmt.Errorf("replacing state %s: %w", s.path, err)
	}
	renamed = true

	return nil
}

// Encode writes report as two-space indented JSON. HTML escaping is off so
// addresses like <jan@example.com> stay readable.
func Encode(w io.Writer, report *model.Report) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	return enc.Encode(report)
}

func emptyReport() *model.Report {
	return &model.Report{
		ImportantNew: []model.Message{},
		Latest:       []model.Message{},
	}
}
