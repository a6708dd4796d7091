package orchestrator

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/gofrs/flock"
)

// ErrPlatformLocked means another curateur run already holds the lock
// for this platform's catalog directory.
var ErrPlatformLocked = errors.New("platform catalog is locked by another run")

// platformLock guards one platform's catalog directory against two
// concurrent runs writing the same gamelist and provenance sidecar.
type platformLock struct {
	path string
	lock *flock.Flock
}

func newPlatformLock(catalogDir string) *platformLock {
	path := filepath.Join(catalogDir, ".curateur.lock")
	return &platformLock{path: path, lock: flock.New(path)}
}

// acquire takes the exclusive lock, failing immediately (no blocking
// wait) if another process already holds it.
func (l *platformLock) acquire() error {
	ok, err := l.lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire platform lock %s: %w", l.path, err)
	}
	if !ok {
		return ErrPlatformLocked
	}
	return nil
}

func (l *platformLock) release() error {
	return l.lock.Unlock()
}
