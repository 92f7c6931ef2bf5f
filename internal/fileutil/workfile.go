package fileutil

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// WorkFile is a temporary sibling of a target file. Data written to it only
// reaches the target when Commit renames it into place; Rollback removes it.
type WorkFile struct {
	target string
	path   string
	file   *os.File
	done   bool
}

// CreateWorkFile creates <target>.<uuid>.work in the target's directory.
func CreateWorkFile(target string) (*WorkFile, error) {
	path := fmt.Sprintf("%s.%s.work", target, uuid.NewString())
	file, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, err
	}
	return &WorkFile{target: target, path: path, file: file}, nil
}

// Path returns the temporary file path.
func (w *WorkFile) Path() string {
	return w.path
}

// Target returns the path the work file replaces on commit.
func (w *WorkFile) Target() string {
	return w.target
}

func (w *WorkFile) Write(p []byte) (int, error) {
	if w.done {
		return 0, errors.New("work file already closed")
	}
	return w.file.Write(p)
}

// Commit flushes the work file and renames it over the target.
func (w *WorkFile) Commit() error {
	if w.done {
		return errors.New("work file already closed")
	}
	w.done = true

	if err := w.file.Sync(); err != nil {
		w.file.Close()
		os.Remove(w.path)
		return fmt.Errorf("sync work file: %w", err)
	}
	if err := w.file.Close(); err != nil {
		os.Remove(w.path)
		return fmt.Errorf("close work file: %w", err)
	}
	if err := os.Rename(w.path, w.target); err != nil {
		os.Remove(w.path) // cleanup on failure
		return fmt.Errorf("rename work file: %w", err)
	}
	syncDir(filepath.Dir(w.target))
	return nil
}

// Rollback closes and deletes the work file. It is a no-op after Commit, so
// callers can defer it unconditionally.
func (w *WorkFile) Rollback() error {
	if w.done {
		return nil
	}
	w.done = true
	w.file.Close()
	if err := os.Remove(w.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove work file: %w", err)
	}
	return nil
}

// best effort, some platforms cannot fsync directories
func syncDir(dir string) {
	d, err := os.Open(dir)
	if err != nil {
		return
	}
	_ = d.Sync()
	_ = d.Close()
}
