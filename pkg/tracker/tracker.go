// Package tracker moves live files from the home directory into a castle
// and links them back.
package tracker

import (
	"context"
	stderrors "errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"

	"github.com/arthur-debert/homesick/pkg/errors"
	"github.com/arthur-debert/homesick/pkg/linker"
	"github.com/arthur-debert/homesick/pkg/logging"
	"github.com/arthur-debert/homesick/pkg/manifest"
	"github.com/arthur-debert/homesick/pkg/paths"
	"github.com/arthur-debert/homesick/pkg/types"
	"github.com/rs/zerolog"
)

// Outcome of tracking one path
type Outcome int

const (
	// Moved into the castle, nothing was there before
	Moved Outcome = iota
	// Merged a live directory into an existing castle directory
	Merged
	// Replaced an older castle file with the live one
	Replaced
	// Stale left everything in place, the castle copy is at least as recent
	Stale
	// AlreadyTracked means the live path already links into the castle
	AlreadyTracked
	// Pretended reports what would have been tracked
	Pretended
)

func (o Outcome) String() string {
	switch o {
	case Moved:
		return "moved"
	case Merged:
		return "merged"
	case Replaced:
		return "replaced"
	case Stale:
		return "stale"
	case AlreadyTracked:
		return "already tracked"
	default:
		return "pretended"
	}
}

// UnmergedSuffix names the sibling directory that keeps live children a
// directory merge could not move into the castle
const UnmergedSuffix = ".homesick-unmerged"

// Result describes a tracked path
type Result struct {
	Castle string
	// Live is the path in the home directory
	Live string
	// Target is the castle-side location
	Target  string
	Outcome Outcome
	// Dropped are where live children left unmerged were moved to
	Dropped []string
}

// Options for a Tracker
type Options struct {
	Pretend bool
}

// Tracker relocates home files into castles
type Tracker struct {
	fs       types.FS
	paths    *paths.Paths
	manifest *manifest.Store
	linker   *linker.Linker
	openVCS  types.VCSOpener
	reporter types.Reporter
	opts     Options
	logger   zerolog.Logger
}

// New creates a Tracker. The linker is used to link tracked paths back
// into the home directory.
func New(fsys types.FS, p *paths.Paths, store *manifest.Store, l *linker.Linker,
	openVCS types.VCSOpener, reporter types.Reporter, opts Options) *Tracker {
	return &Tracker{
		fs:       fsys,
		paths:    p,
		manifest: store,
		linker:   l,
		openVCS:  openVCS,
		reporter: reporter,
		opts:     opts,
		logger:   logging.GetLogger("tracker"),
	}
}

// Track moves file into castle and replaces it with a link. Tracking a
// path below a subdirectory of home marks that subdirectory as a merge
// point of the castle.
func (t *Tracker) Track(ctx context.Context, file, castle string) (*Result, error) {
	if err := t.paths.CheckCastle(t.fs, castle, "track"); err != nil {
		return nil, err
	}

	live, err := t.paths.NormalizePath(file)
	if err != nil {
		return nil, err
	}
	if t.paths.IsInRepos(live) {
		return nil, errors.Newf(errors.ErrInvalidInput, "%s is inside the repositories directory", live).
			WithDetail("path", live)
	}
	rel, err := t.paths.HomeRelative(live)
	if err != nil {
		return nil, err
	}
	rel = filepath.ToSlash(rel)
	relDir := path.Dir(rel)

	liveInfo, err := t.fs.Lstat(live)
	if err != nil {
		if stderrors.Is(err, fs.ErrNotExist) {
			return nil, errors.Newf(errors.ErrNotFound, "%s does not exist", live).WithDetail("path", live)
		}
		return nil, errors.Wrapf(err, errors.ErrFileAccess, "failed to inspect %s", live)
	}

	castleParent := filepath.Join(t.paths.CastleHome(castle), filepath.FromSlash(relDir))
	target := filepath.Join(castleParent, path.Base(rel))
	result := &Result{Castle: castle, Live: live, Target: target}

	logger := t.logger.With().Str("castle", castle).Str("live", live).Str("target", target).Logger()
	logger.Info().Msg("Tracking path")

	if liveInfo.Mode()&os.ModeSymlink != 0 {
		if dest, err := t.fs.Readlink(live); err == nil && dest == target {
			t.say(types.StatusIdentical, live+" is already tracked in "+castle)
			result.Outcome = AlreadyTracked
			return result, nil
		}
	}

	if t.opts.Pretend {
		t.say(types.StatusTrack, fmt.Sprintf("%s into %s (pretend)", live, target))
		result.Outcome = Pretended
		return result, nil
	}

	if err := t.fs.MkdirAll(castleParent, 0755); err != nil {
		return nil, errors.Wrapf(err, errors.ErrDirCreate, "failed to create %s", castleParent)
	}

	targetInfo, err := t.fs.Lstat(target)
	switch {
	case err != nil && !stderrors.Is(err, fs.ErrNotExist):
		return nil, errors.Wrapf(err, errors.ErrFileAccess, "failed to inspect %s", target)

	case err != nil:
		if err := t.move(live, target); err != nil {
			return nil, err
		}
		result.Outcome = Moved

	case liveInfo.IsDir():
		if !targetInfo.IsDir() {
			return nil, errors.Newf(errors.ErrLinkConflict, "cannot merge directory %s into non-directory %s", live, target)
		}
		dropped, err := t.mergeInto(target, live)
		if err != nil {
			return nil, err
		}
		kept, err := t.keepUnmerged(live, dropped)
		if err != nil {
			return nil, err
		}
		for i, d := range dropped {
			t.say(types.StatusSkip, fmt.Sprintf("%s left unmerged, moved to %s; %s kept",
				d, kept[i], filepath.Join(target, filepath.Base(d))))
		}
		if err := t.fs.RemoveAll(live); err != nil {
			return nil, errors.Wrapf(err, errors.ErrFileMove, "failed to remove merged directory %s", live)
		}
		if err := t.manifest.Remove(ctx, castle, rel); err != nil {
			return nil, err
		}
		result.Dropped = kept
		result.Outcome = Merged

	case isNewer(liveInfo, targetInfo):
		if targetInfo.IsDir() {
			return nil, errors.Newf(errors.ErrLinkConflict, "cannot replace directory %s with file %s", target, live)
		}
		if err := t.fs.Remove(target); err != nil {
			return nil, errors.Wrapf(err, errors.ErrFileMove, "failed to remove %s", target)
		}
		if err := t.move(live, target); err != nil {
			return nil, err
		}
		result.Outcome = Replaced

	default:
		t.say(types.StatusTrack, fmt.Sprintf(
			"%s already exists, and is more recent than %s. Run 'homesick symlink %s' to create symlinks.",
			target, live, castle))
		logger.Warn().Msg("Castle copy is at least as recent, nothing tracked")
		result.Outcome = Stale
		if relDir != "." {
			if err := t.manifest.Add(ctx, castle, relDir); err != nil {
				return result, err
			}
		}
		return result, nil
	}

	if _, err := t.linker.Link(target, rel, true); err != nil {
		return result, err
	}

	t.say(types.StatusGit, "add "+target)
	if err := t.openVCS(t.paths.CastleDir(castle)).Add(ctx, target); err != nil {
		return result, errors.Wrapf(err, errors.ErrVCS, "failed to stage %s", target)
	}

	if relDir != "." {
		if err := t.manifest.Add(ctx, castle, relDir); err != nil {
			return result, err
		}
	}

	logger.Info().Int("outcome", int(result.Outcome)).Msg("Path tracked")
	return result, nil
}

// mergeInto moves the immediate children of incoming into existing. A
// child already present in existing is replaced only by a newer regular
// file; otherwise the incoming child is dropped and returned.
func (t *Tracker) mergeInto(existing, incoming string) ([]string, error) {
	children, err := t.fs.ReadDir(incoming)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrFileAccess, "failed to list %s", incoming)
	}

	var dropped []string
	for _, child := range children {
		src := filepath.Join(incoming, child.Name())
		dst := filepath.Join(existing, child.Name())

		srcInfo, err := t.fs.Lstat(src)
		if err != nil {
			return dropped, errors.Wrapf(err, errors.ErrFileAccess, "failed to inspect %s", src)
		}
		dstInfo, err := t.fs.Lstat(dst)
		if err != nil {
			if !stderrors.Is(err, fs.ErrNotExist) {
				return dropped, errors.Wrapf(err, errors.ErrFileAccess, "failed to inspect %s", dst)
			}
			if err := t.move(src, dst); err != nil {
				return dropped, err
			}
			continue
		}

		if srcInfo.Mode().IsRegular() && !dstInfo.IsDir() && isNewer(srcInfo, dstInfo) {
			if err := t.fs.Remove(dst); err != nil {
				return dropped, errors.Wrapf(err, errors.ErrFileMove, "failed to remove %s", dst)
			}
			if err := t.move(src, dst); err != nil {
				return dropped, err
			}
			continue
		}

		// a link back to the castle copy is what an earlier track left behind
		if srcInfo.Mode()&os.ModeSymlink != 0 {
			if dest, err := t.fs.Readlink(src); err == nil && dest == dst {
				continue
			}
		}
		dropped = append(dropped, src)
	}
	return dropped, nil
}

// keepUnmerged moves dropped children of live into a sibling backup
// directory and returns their new locations, in order.
func (t *Tracker) keepUnmerged(live string, dropped []string) ([]string, error) {
	if len(dropped) == 0 {
		return nil, nil
	}

	backup, err := t.unusedPath(live + UnmergedSuffix)
	if err != nil {
		return nil, err
	}
	if err := t.fs.MkdirAll(backup, 0755); err != nil {
		return nil, errors.Wrapf(err, errors.ErrDirCreate, "failed to create %s", backup)
	}

	kept := make([]string, 0, len(dropped))
	for _, d := range dropped {
		dst := filepath.Join(backup, filepath.Base(d))
		if err := t.move(d, dst); err != nil {
			return kept, err
		}
		kept = append(kept, dst)
	}
	return kept, nil
}

func (t *Tracker) unusedPath(base string) (string, error) {
	candidate := base
	for i := 1; ; i++ {
		_, err := t.fs.Lstat(candidate)
		if stderrors.Is(err, fs.ErrNotExist) {
			return candidate, nil
		}
		if err != nil {
			return "", errors.Wrapf(err, errors.ErrFileAccess, "failed to inspect %s", candidate)
		}
		candidate = fmt.Sprintf("%s.%d", base, i)
	}
}

func (t *Tracker) move(from, to string) error {
	t.say(types.StatusMove, fmt.Sprintf("%s to %s", from, to))
	if err := t.fs.Rename(from, to); err != nil {
		return errors.Wrapf(err, errors.ErrFileMove, "failed to move %s to %s", from, to).
			WithDetail("from", from).
			WithDetail("to", to)
	}
	return nil
}

func (t *Tracker) say(status types.Status, msg string) {
	if t.reporter != nil {
		t.reporter.Say(status, msg)
	}
}

// isNewer reports whether first was modified strictly after second and is
// not a symlink
func isNewer(first, second fs.FileInfo) bool {
	return first.Mode()&os.ModeSymlink == 0 && first.ModTime().After(second.ModTime())
}
