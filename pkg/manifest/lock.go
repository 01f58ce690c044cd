package manifest

// Locker takes an exclusive advisory lock on path and returns the
// function releasing it
type Locker interface {
	Lock(path string) (unlock func(), err error)
}

// NopLocker does not lock. Used with in-memory filesystems.
type NopLocker struct{}

// Lock implements Locker
func (NopLocker) Lock(string) (func(), error) {
	return func() {}, nil
}
