package util

import (
	"github.com/gofrs/flock"

	"github.com/openshift-eng/ci-monitor/internal/errors"
)

// Lockfile is a file-based lock used to serialize access to shared files
// across processes.
type Lockfile struct {
	*flock.Flock
}

func NewLockfile(filename string) *Lockfile {
	return &Lockfile{
		flock.New(filename),
	}
}

// TryLock attempts to acquire the lock, returning an error if it is already held elsewhere.
func (lockfile *Lockfile) TryLock() error {
	locked, err := lockfile.Flock.TryLock()
	if err != nil {
		return errors.New(err)
	}

	if !locked {
		return errors.Errorf("file %q is already locked", lockfile.Path())
	}

	return nil
}

// Unlock releases the lock if held.
func (lockfile *Lockfile) Unlock() error {
	if !lockfile.Locked() {
		return nil
	}

	return errors.New(lockfile.Flock.Unlock())
}
