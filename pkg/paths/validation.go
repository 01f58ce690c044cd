package paths

import (
	"path/filepath"
	"strings"

	"github.com/arthur-debert/homesick/pkg/errors"
)

// ValidatePath performs basic validation on a user supplied path
func ValidatePath(path string) error {
	if path == "" {
		return errors.New(errors.ErrInvalidInput, "path cannot be empty")
	}

	if strings.Contains(path, "\x00") {
		return errors.New(errors.ErrInvalidInput, "path contains null bytes")
	}

	// Common filesystem limit
	if len(path) > 4096 {
		return errors.New(errors.ErrInvalidInput, "path exceeds maximum length")
	}

	return nil
}

// ValidateCastleName ensures a castle name is a relative path below the
// repositories root. Names may be nested (user/dotfiles).
func ValidateCastleName(name string) error {
	if name == "" {
		return errors.New(errors.ErrInvalidInput, "castle name cannot be empty")
	}

	if filepath.IsAbs(name) {
		return errors.Newf(errors.ErrInvalidInput, "castle name cannot be absolute: %s", name)
	}

	for _, part := range strings.Split(filepath.ToSlash(name), "/") {
		if part == ".." {
			return errors.Newf(errors.ErrInvalidInput, "castle name cannot leave the repos directory: %s", name)
		}
	}

	for _, r := range name {
		if r < 32 {
			return errors.New(errors.ErrInvalidInput, "castle name contains control characters")
		}
	}

	return nil
}

// CleanRelative normalizes a path relative to a castle home subtree into
// the slash separated form stored in the manifest
func CleanRelative(path string) string {
	cleaned := filepath.ToSlash(filepath.Clean(path))
	return strings.TrimSuffix(cleaned, "/")
}
