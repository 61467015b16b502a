// Package artifact owns the physical report files on disk. The job
// record remains the source of truth; the store tolerates stale or
// missing paths.
package artifact

import (
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// Dataset is an ordered, flat result set ready for serialization. Every
// row has one value per column, already rendered as text.
type Dataset struct {
	Columns []string
	Rows    [][]string
}

// Store writes report datasets beneath a single directory.
type Store struct {
	dir string
}

// NewStore constructs a store rooted at dir.
func NewStore(dir string) *Store {
	return &Store{dir: dir}
}

// Write serializes the dataset in the requested format and returns the
// artifact path. The filename embeds report type, job id and a
// timestamp, so concurrent jobs can never collide.
func (s *Store) Write(ds Dataset, format, reportType string, jobID int64) (string, error) {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return "", fmt.Errorf("artifact: create storage dir: %w", err)
	}

	name := fmt.Sprintf("%s_%d_%s.%s", reportType, jobID, time.Now().Format("20060102_150405"), format)
	path := filepath.Join(s.dir, name)

	var err error
	switch format {
	case "xlsx":
		err = writeXLSX(path, ds)
	case "pdf":
		err = writePDF(path, ds, reportType)
	default:
		err = writeCSV(path, ds)
	}
	if err != nil {
		// Half-written artifacts are useless; drop them.
		_ = os.Remove(path)
		return "", err
	}
	return path, nil
}

// Exists reports whether the artifact is present. Missing paths are not
// an error.
func (s *Store) Exists(path string) bool {
	if path == "" {
		return false
	}
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

// Size returns the artifact size in bytes, zero when missing.
func (s *Store) Size(path string) int64 {
	info, err := os.Stat(path)
	if err != nil {
		return 0
	}
	return info.Size()
}

// Remove deletes the artifact, treating an already absent path as done.
func (s *Store) Remove(path string) error {
	if path == "" {
		return nil
	}
	err := os.Remove(path)
	if os.IsNotExist(err) {
		return nil
	}
	return err
}
