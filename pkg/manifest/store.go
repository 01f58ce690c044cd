package manifest

import (
	"context"
	"os"
	"strings"

	"github.com/arthur-debert/homesick/pkg/errors"
	"github.com/arthur-debert/homesick/pkg/logging"
	"github.com/arthur-debert/homesick/pkg/paths"
	"github.com/arthur-debert/homesick/pkg/types"
	"github.com/rs/zerolog"
)

// Store reads and rewrites castle manifests. Every mutation stages the
// manifest file with the castle's version control.
type Store struct {
	fs      types.FS
	paths   *paths.Paths
	openVCS types.VCSOpener
	locker  Locker
	logger  zerolog.Logger
}

// Option configures a Store
type Option func(*Store)

// WithLocker serializes manifest rewrites through locker
func WithLocker(locker Locker) Option {
	return func(s *Store) {
		s.locker = locker
	}
}

// NewStore creates a manifest store
func NewStore(fs types.FS, p *paths.Paths, openVCS types.VCSOpener, opts ...Option) *Store {
	s := &Store{
		fs:      fs,
		paths:   p,
		openVCS: openVCS,
		locker:  NopLocker{},
		logger:  logging.GetLogger("manifest"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Read returns the manifest entries of a castle in file order. A missing
// manifest is an empty manifest.
func (s *Store) Read(castle string) ([]string, error) {
	lines, exists, err := s.readLines(castle)
	if err != nil || !exists {
		return []string{}, err
	}

	entries := make([]string, 0, len(lines))
	for _, line := range lines {
		if line == "" {
			continue
		}
		entries = append(entries, line)
	}
	return entries, nil
}

// Contains reports whether path is listed in the castle's manifest
func (s *Store) Contains(castle, path string) (bool, error) {
	entries, err := s.Read(castle)
	if err != nil {
		return false, err
	}
	path = paths.CleanRelative(path)
	for _, entry := range entries {
		if entry == path {
			return true, nil
		}
	}
	return false, nil
}

// Add appends path unless an identical line is already present
func (s *Store) Add(ctx context.Context, castle, path string) error {
	path = paths.CleanRelative(path)

	err := s.withLock(castle, func() error {
		lines, _, err := s.readLines(castle)
		if err != nil {
			return err
		}
		for _, line := range lines {
			if line == path {
				s.logger.Debug().Str("castle", castle).Str("path", path).Msg("Manifest already lists path")
				return nil
			}
		}

		lines = append(nonEmpty(lines), path)
		s.logger.Info().Str("castle", castle).Str("path", path).Msg("Adding merge point to manifest")
		return s.writeLines(castle, lines)
	})
	if err != nil {
		return err
	}

	return s.stage(ctx, castle)
}

// Remove rewrites the manifest without any line equal to path. The
// manifest is staged even when it does not exist.
func (s *Store) Remove(ctx context.Context, castle, path string) error {
	path = paths.CleanRelative(path)

	err := s.withLock(castle, func() error {
		lines, exists, err := s.readLines(castle)
		if err != nil {
			return err
		}
		if !exists {
			s.logger.Debug().Str("castle", castle).Msg("No manifest to remove from")
			return nil
		}

		kept := make([]string, 0, len(lines))
		for _, line := range nonEmpty(lines) {
			if line != path {
				kept = append(kept, line)
			}
		}
		if len(kept) == len(nonEmpty(lines)) {
			return nil
		}

		s.logger.Info().Str("castle", castle).Str("path", path).Msg("Removing merge point from manifest")
		return s.writeLines(castle, kept)
	})
	if err != nil {
		return err
	}

	return s.stage(ctx, castle)
}

func (s *Store) readLines(castle string) ([]string, bool, error) {
	manifestPath := s.paths.ManifestPath(castle)
	data, err := s.fs.ReadFile(manifestPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, false, nil
		}
		return nil, false, errors.Wrapf(err, errors.ErrManifestRead, "failed to read manifest %s", manifestPath)
	}

	content := strings.TrimSuffix(string(data), "\n")
	if content == "" {
		return []string{}, true, nil
	}
	lines := strings.Split(content, "\n")
	for i, line := range lines {
		// entries compare in the same form Add writes them
		if line = strings.TrimSpace(line); line != "" {
			line = paths.CleanRelative(line)
		}
		lines[i] = line
	}
	return lines, true, nil
}

func (s *Store) writeLines(castle string, lines []string) error {
	var b strings.Builder
	for _, line := range lines {
		b.WriteString(line)
		b.WriteString("\n")
	}

	manifestPath := s.paths.ManifestPath(castle)
	if err := s.fs.WriteFileAtomic(manifestPath, []byte(b.String()), 0644); err != nil {
		return errors.Wrapf(err, errors.ErrManifestWrite, "failed to write manifest %s", manifestPath)
	}
	return nil
}

func (s *Store) withLock(castle string, fn func() error) error {
	unlock, err := s.locker.Lock(s.paths.ManifestLockPath(castle))
	if err != nil {
		return errors.Wrapf(err, errors.ErrManifestWrite, "failed to lock manifest of %s", castle)
	}
	defer unlock()
	return fn()
}

func (s *Store) stage(ctx context.Context, castle string) error {
	if s.openVCS == nil {
		return nil
	}
	manifestPath := s.paths.ManifestPath(castle)
	if err := s.openVCS(s.paths.CastleDir(castle)).Add(ctx, manifestPath); err != nil {
		return errors.Wrapf(err, errors.ErrVCS, "failed to stage %s", manifestPath)
	}
	return nil
}

func nonEmpty(lines []string) []string {
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		if line != "" {
			out = append(out, line)
		}
	}
	return out
}
