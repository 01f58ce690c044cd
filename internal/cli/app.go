package cli

import (
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/arthur-debert/homesick/pkg/castle"
	"github.com/arthur-debert/homesick/pkg/config"
	"github.com/arthur-debert/homesick/pkg/errors"
	"github.com/arthur-debert/homesick/pkg/filesystem"
	"github.com/arthur-debert/homesick/pkg/linker"
	"github.com/arthur-debert/homesick/pkg/manifest"
	"github.com/arthur-debert/homesick/pkg/paths"
	"github.com/arthur-debert/homesick/pkg/tracker"
	"github.com/arthur-debert/homesick/pkg/types"
	"github.com/arthur-debert/homesick/pkg/ui"
	"github.com/arthur-debert/homesick/pkg/vcs"
)

// Option replaces one of the dependencies commands are built from
type Option func(*deps)

type deps struct {
	fs        types.FS
	openVCS   types.VCSOpener
	prompter  types.Prompter
	runRC     castle.RCRunner
	locker    manifest.Locker
	stdin     *os.File
	stdout    io.Writer
	stderr    io.Writer
	configDir string
}

// WithFS sets the filesystem
func WithFS(fsys types.FS) Option {
	return func(d *deps) { d.fs = fsys }
}

// WithVCS sets how castle repositories are opened
func WithVCS(open types.VCSOpener) Option {
	return func(d *deps) { d.openVCS = open }
}

// WithPrompter sets the confirmation source
func WithPrompter(p types.Prompter) Option {
	return func(d *deps) { d.prompter = p }
}

// WithRCRunner sets how .homesickrc scripts are run
func WithRCRunner(run castle.RCRunner) Option {
	return func(d *deps) { d.runRC = run }
}

// WithOutput sets where status lines and errors are written
func WithOutput(stdout, stderr io.Writer) Option {
	return func(d *deps) {
		d.stdout = stdout
		d.stderr = stderr
	}
}

// WithConfigDir sets the directory config.toml and env are read from
func WithConfigDir(dir string) Option {
	return func(d *deps) { d.configDir = dir }
}

func newDeps(opts []Option) *deps {
	d := &deps{
		stdin:  os.Stdin,
		stdout: os.Stdout,
		stderr: os.Stderr,
	}
	for _, opt := range opts {
		opt(d)
	}
	if d.fs == nil {
		d.fs = filesystem.NewOS()
	}
	if d.openVCS == nil {
		d.openVCS = vcs.Open
	}
	if d.locker == nil {
		d.locker = manifest.NewFlockLocker()
	}
	return d
}

// app holds what a command needs once configuration is resolved
type app struct {
	deps     *deps
	cfg      *config.Config
	paths    *paths.Paths
	format   ui.Format
	reporter types.Reporter
	prompter types.Prompter
}

// flagKeys maps flags to the configuration keys they override
var flagKeys = map[string]string{
	"quiet":     "quiet",
	"pretend":   "pretend",
	"force":     "force",
	"format":    "output.format",
	"repos-dir": "repos_dir",
}

// changedFlags collects the flags set on the command line, keyed like the
// configuration
func changedFlags(cmd *cobra.Command) map[string]interface{} {
	values := make(map[string]interface{})
	for name, key := range flagKeys {
		flag := cmd.Flags().Lookup(name)
		if flag == nil || !flag.Changed {
			continue
		}
		switch name {
		case "quiet", "pretend", "force":
			v, _ := cmd.Flags().GetBool(name)
			values[key] = v
		default:
			values[key] = flag.Value.String()
		}
	}
	return values
}

func (d *deps) newApp(cmd *cobra.Command) (*app, error) {
	cfg, err := config.Load(config.LoadOptions{
		ConfigDir: d.configDir,
		Flags:     changedFlags(cmd),
	})
	if err != nil {
		return nil, err
	}

	p, err := paths.New(cfg.HomeDir, cfg.ReposDir)
	if err != nil {
		return nil, err
	}

	format, err := ui.ParseFormat(cfg.Output.Format)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrInvalidInput, MsgErrFormat, cfg.Output.Format)
	}

	a := &app{
		deps:     d,
		cfg:      cfg,
		paths:    p,
		format:   format,
		reporter: ui.NewStatusReporter(d.stdout, format, cfg.Quiet),
		prompter: d.prompter,
	}
	if a.prompter == nil {
		a.prompter = ui.NewPrompter(d.stdin, d.stderr)
	}
	return a, nil
}

func (a *app) castles() *castle.Manager {
	return castle.NewManager(a.deps.fs, a.paths, a.deps.openVCS, a.prompter, a.reporter, castle.Options{
		GithubHost: a.cfg.GithubHost,
		Pretend:    a.cfg.Pretend,
		RunRC:      a.deps.runRC,
	})
}

func (a *app) manifests() *manifest.Store {
	return manifest.NewStore(a.deps.fs, a.paths, a.deps.openVCS, manifest.WithLocker(a.deps.locker))
}

func (a *app) linker() *linker.Linker {
	return linker.New(a.deps.fs, a.paths.HomeDir(), a.prompter, a.reporter, linker.Options{
		Force:   a.cfg.Force,
		Pretend: a.cfg.Pretend,
	})
}

func (a *app) tracker() *tracker.Tracker {
	return tracker.New(a.deps.fs, a.paths, a.manifests(), a.linker(), a.deps.openVCS, a.reporter,
		tracker.Options{Pretend: a.cfg.Pretend})
}
