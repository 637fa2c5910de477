// Package sink persists the rendered snapshot.
package sink

import (
	"fmt"
	"os"
	"path/filepath"

	"btcfeed/internal/report"

	"github.com/spf13/afero"
)

// FileSink overwrites a single file with each new document.
type FileSink struct {
	fs   afero.Fs
	path string
}

// NewFileSink writes to path on fs. Use afero.NewOsFs() for the real disk.
func NewFileSink(fs afero.Fs, path string) *FileSink {
	return &FileSink{fs: fs, path: path}
}

func (s *FileSink) Path() string { return s.path }

// Write replaces the target with doc. The directory is created if missing and
// the content lands through a rename, so readers never see a half-written file.
func (s *FileSink) Write(doc report.Document) error {
	dir := filepath.Dir(s.path)
	if err := s.fs.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create output directory %s: %w", dir, err)
	}

	tmp, err := afero.TempFile(s.fs, dir, "."+filepath.Base(s.path)+".*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(doc.Bytes()); err != nil {
		tmp.Close()
		_ = s.fs.Remove(tmpName)
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = s.fs.Remove(tmpName)
		return fmt.Errorf("close temp file: %w", err)
	}

	if err := s.fs.Chmod(tmpName, 0o644); err != nil && !os.IsNotExist(err) {
		_ = s.fs.Remove(tmpName)
		return fmt.Errorf("chmod temp file: %w", err)
	}

	if err := s.fs.Rename(tmpName, s.path); err != nil {
		_ = s.fs.Remove(tmpName)
		return fmt.Errorf("replace %s: %w", s.path, err)
	}
	return nil
}
