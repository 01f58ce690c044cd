//go:build !unix

package manifest

// NewFlockLocker returns a no-op Locker where flock(2) is unavailable
func NewFlockLocker() Locker {
	return NopLocker{}
}
