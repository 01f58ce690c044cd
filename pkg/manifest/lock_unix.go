//go:build unix

package manifest

import (
	"os"

	"golang.org/x/sys/unix"
)

// FlockLocker locks with flock(2) on a dedicated lock file
type FlockLocker struct{}

// NewFlockLocker returns a Locker backed by flock(2)
func NewFlockLocker() Locker {
	return FlockLocker{}
}

// Lock implements Locker. It blocks until the lock is available.
func (FlockLocker) Lock(path string) (func(), error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_RDWR, 0644)
	if err != nil {
		return nil, err
	}
	if err := unix.Flock(int(f.Fd()), unix.LOCK_EX); err != nil {
		_ = f.Close()
		return nil, err
	}
	return func() {
		_ = unix.Flock(int(f.Fd()), unix.LOCK_UN)
		_ = f.Close()
	}, nil
}
