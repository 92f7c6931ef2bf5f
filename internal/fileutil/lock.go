package fileutil

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"
	"github.com/google/uuid"
)

// ErrLocked reports that another process holds the lock.
var ErrLocked = errors.New("file is locked by another process")

// FileLock is an advisory lock tied to one file path. The lock file lives in
// the system temp directory so nothing is left next to the locked file.
type FileLock struct {
	lock *flock.Flock
}

// LockPath returns the lock file used for path.
func LockPath(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	id := uuid.NewSHA1(uuid.NameSpaceURL, []byte("file://"+abs))
	return filepath.Join(os.TempDir(), "fixsrt-"+id.String()+".lock"), nil
}

// Lock acquires the lock for path without blocking.
func Lock(path string) (*FileLock, error) {
	lockPath, err := LockPath(path)
	if err != nil {
		return nil, fmt.Errorf("resolve lock path: %w", err)
	}
	lock := flock.New(lockPath)
	ok, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrLocked, path)
	}
	return &FileLock{lock: lock}, nil
}

// Unlock releases the lock.
func (l *FileLock) Unlock() error {
	if err := l.lock.Unlock(); err != nil {
		return fmt.Errorf("release lock: %w", err)
	}
	return nil
}
