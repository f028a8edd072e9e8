package batch

import (
	"fmt"
	"path/filepath"

	"github.com/gofrs/flock"
)

// LockFileName is the per-output-directory run lock. It does not match the
// record naming convention, so clearing never removes it.
const LockFileName = ".labelgen.lock"

// DirLock is an exclusive advisory lock on an output directory.
type DirLock struct {
	lock *flock.Flock
}

// LockOutputDir takes the output directory lock without blocking. It fails
// with ErrSetup when another process holds it. The directory must exist.
func LockOutputDir(dir string) (*DirLock, error) {
	lock := flock.New(filepath.Join(dir, LockFileName))
	locked, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("%w: acquire output directory lock: %w", ErrSetup, err)
	}
	if !locked {
		return nil, fmt.Errorf("%w: another labelgen run is using %s", ErrSetup, dir)
	}
	return &DirLock{lock: lock}, nil
}

// Path returns the lock file location.
func (l *DirLock) Path() string {
	return l.lock.Path()
}

// Unlock releases the lock. The lock file itself stays in place.
func (l *DirLock) Unlock() error {
	return l.lock.Unlock()
}
