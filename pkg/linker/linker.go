package linker

import (
	stderrors "errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/arthur-debert/homesick/pkg/errors"
	"github.com/arthur-debert/homesick/pkg/logging"
	"github.com/arthur-debert/homesick/pkg/overlay"
	"github.com/arthur-debert/homesick/pkg/types"
	"github.com/rs/zerolog"
)

// Options control conflict handling
type Options struct {
	// Force replaces conflicting destinations without asking
	Force bool
	// Pretend reports what would happen without touching the filesystem
	Pretend bool
}

// Outcome of a single link
type Outcome int

const (
	// Created a new link
	Created Outcome = iota
	// Identical means the destination already links to the source
	Identical
	// Replaced an existing destination with the link
	Replaced
	// Skipped a conflicting destination the user declined to replace
	Skipped
	// Failed to create the link
	Failed
)

func (o Outcome) String() string {
	switch o {
	case Created:
		return "created"
	case Identical:
		return "identical"
	case Replaced:
		return "replaced"
	case Skipped:
		return "skipped"
	default:
		return "failed"
	}
}

// Result describes one link
type Result struct {
	Source      string
	Destination string
	Outcome     Outcome
}

// Report collects the results of applying a plan
type Report struct {
	Results []Result
}

// Count returns how many links ended with outcome
func (r *Report) Count(outcome Outcome) int {
	n := 0
	for _, res := range r.Results {
		if res.Outcome == outcome {
			n++
		}
	}
	return n
}

// Linker creates symlinks from the home directory into castles
type Linker struct {
	fs       types.FS
	homeDir  string
	prompter types.Prompter
	reporter types.Reporter
	opts     Options
	logger   zerolog.Logger
}

// New creates a Linker projecting into homeDir. A nil prompter declines
// every conflict.
func New(fsys types.FS, homeDir string, prompter types.Prompter, reporter types.Reporter, opts Options) *Linker {
	return &Linker{
		fs:       fsys,
		homeDir:  homeDir,
		prompter: prompter,
		reporter: reporter,
		opts:     opts,
		logger:   logging.GetLogger("linker"),
	}
}

// Apply materializes the plan's merge points and creates its links.
// Failures are collected per item; remaining items are still processed.
func (l *Linker) Apply(plan *overlay.Plan) (*Report, error) {
	report := &Report{}
	var errs []error
	var blocked []string

	for _, entry := range plan.Missing {
		l.say(types.StatusSkip, entry+" is listed in the manifest but missing from the castle")
	}

	for _, dir := range plan.Dirs {
		if isUnder(dir, blocked) {
			continue
		}
		ok, err := l.EnsureDir(dir)
		if err != nil {
			errs = append(errs, err)
			l.say(types.StatusError, err.Error())
		}
		if err != nil || !ok {
			blocked = append(blocked, dir)
		}
	}

	for _, c := range plan.Links() {
		source := plan.Source(c)
		if isUnder(c.RelPath, blocked) {
			dest := l.destination(c.RelPath)
			l.say(types.StatusSkip, dest)
			report.Results = append(report.Results, Result{Source: source, Destination: dest, Outcome: Skipped})
			continue
		}

		res, err := l.Link(source, c.RelPath, l.opts.Force)
		if err != nil {
			errs = append(errs, err)
			l.say(types.StatusError, err.Error())
		}
		report.Results = append(report.Results, res)
	}

	l.logger.Info().
		Int("created", report.Count(Created)).
		Int("identical", report.Count(Identical)).
		Int("replaced", report.Count(Replaced)).
		Int("skipped", report.Count(Skipped)).
		Int("failed", report.Count(Failed)).
		Msg("Overlay applied")

	return report, stderrors.Join(errs...)
}

// Link creates a symlink at homeRel pointing at source. After success the
// destination is a symlink whose target is source.
func (l *Linker) Link(source, homeRel string, force bool) (Result, error) {
	dest := l.destination(homeRel)
	res := Result{Source: source, Destination: dest}

	logger := l.logger.With().Str("source", source).Str("destination", dest).Logger()

	info, err := l.fs.Lstat(dest)
	if err != nil && !isNotExist(err) {
		res.Outcome = Failed
		return res, errors.Wrapf(err, errors.ErrFileAccess, "failed to inspect %s", dest)
	}

	if err != nil {
		if err := l.createLink(source, dest); err != nil {
			res.Outcome = Failed
			return res, err
		}
		logger.Debug().Msg("Link created")
		l.say(types.StatusCreate, dest)
		res.Outcome = Created
		return res, nil
	}

	if info.Mode()&os.ModeSymlink != 0 {
		if target, err := l.fs.Readlink(dest); err == nil && target == source {
			l.say(types.StatusIdentical, dest)
			res.Outcome = Identical
			return res, nil
		}
	}

	if !force {
		l.say(types.StatusConflict, dest)
		if l.opts.Pretend {
			res.Outcome = Skipped
			return res, nil
		}
		ok, err := l.confirm(source, dest, info)
		if err != nil {
			res.Outcome = Failed
			return res, errors.Wrapf(err, errors.ErrLinkConflict, "failed to resolve conflict at %s", dest)
		}
		if !ok {
			logger.Info().Msg("Conflict declined, link skipped")
			l.say(types.StatusSkip, dest)
			res.Outcome = Skipped
			return res, nil
		}
	}

	l.say(types.StatusForce, dest)
	if !l.opts.Pretend {
		if err := l.fs.RemoveAll(dest); err != nil {
			res.Outcome = Failed
			return res, errors.Wrapf(err, errors.ErrLinkConflict, "failed to remove %s", dest)
		}
		if err := l.createLink(source, dest); err != nil {
			res.Outcome = Failed
			return res, err
		}
	}
	logger.Debug().Msg("Conflict replaced with link")
	res.Outcome = Replaced
	return res, nil
}

// EnsureDir materializes the merge point homeRel as a real directory. An
// ancestor or the directory itself that exists as anything but a real
// directory is a conflict. It returns false when the user declined.
func (l *Linker) EnsureDir(homeRel string) (bool, error) {
	current := l.homeDir
	for _, part := range strings.Split(filepath.ToSlash(homeRel), "/") {
		current = filepath.Join(current, part)

		info, err := l.fs.Lstat(current)
		if err != nil {
			if !isNotExist(err) {
				return false, errors.Wrapf(err, errors.ErrFileAccess, "failed to inspect %s", current)
			}
			break
		}
		if info.IsDir() {
			continue
		}

		// a symlinked directory here would make links land inside the castle
		if !l.opts.Force {
			l.say(types.StatusConflict, current)
			if l.opts.Pretend {
				return false, nil
			}
			ok, err := l.confirm("", current, info)
			if err != nil {
				return false, errors.Wrapf(err, errors.ErrLinkConflict, "failed to resolve conflict at %s", current)
			}
			if !ok {
				l.say(types.StatusSkip, current)
				return false, nil
			}
		}
		l.say(types.StatusForce, current)
		if !l.opts.Pretend {
			if err := l.fs.Remove(current); err != nil {
				return false, errors.Wrapf(err, errors.ErrLinkConflict, "failed to remove %s", current)
			}
		}
		break
	}

	if l.opts.Pretend {
		return true, nil
	}
	dir := l.destination(homeRel)
	if err := l.fs.MkdirAll(dir, 0755); err != nil {
		return false, errors.Wrapf(err, errors.ErrDirCreate, "failed to create %s", dir)
	}
	return true, nil
}

func (l *Linker) createLink(source, dest string) error {
	if l.opts.Pretend {
		return nil
	}
	if err := l.fs.MkdirAll(filepath.Dir(dest), 0755); err != nil {
		return errors.Wrapf(err, errors.ErrDirCreate, "failed to create parent of %s", dest)
	}
	if err := l.fs.Symlink(source, dest); err != nil {
		return errors.Wrapf(err, errors.ErrSymlinkCreate, "failed to link %s to %s", dest, source).
			WithDetail("source", source).
			WithDetail("destination", dest)
	}
	return nil
}

func (l *Linker) destination(homeRel string) string {
	return filepath.Join(l.homeDir, filepath.FromSlash(homeRel))
}

func (l *Linker) say(status types.Status, msg string) {
	if l.reporter == nil {
		return
	}
	if l.opts.Pretend && status != types.StatusError {
		msg += " (pretend)"
	}
	l.reporter.Say(status, msg)
}

func isUnder(rel string, dirs []string) bool {
	for _, dir := range dirs {
		if rel == dir || strings.HasPrefix(rel, dir+"/") {
			return true
		}
	}
	return false
}

func isNotExist(err error) bool {
	return stderrors.Is(err, fs.ErrNotExist)
}
