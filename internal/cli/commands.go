package cli

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/arthur-debert/homesick/internal/version"
	"github.com/arthur-debert/homesick/pkg/config"
	"github.com/arthur-debert/homesick/pkg/errors"
	"github.com/arthur-debert/homesick/pkg/linker"
	"github.com/arthur-debert/homesick/pkg/logging"
	"github.com/arthur-debert/homesick/pkg/overlay"
	"github.com/arthur-debert/homesick/pkg/paths"
	"github.com/arthur-debert/homesick/pkg/types"
	"github.com/arthur-debert/homesick/pkg/ui"
)

func newCloneCmd(appFn func() *app) *cobra.Command {
	return &cobra.Command{
		Use:     "clone URI",
		Short:   MsgCloneShort,
		Long:    MsgCloneLong,
		Example: MsgCloneExample,
		GroupID: "castle",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := appFn().castles().Clone(cmd.Context(), args[0])
			return err
		},
	}
}

func newPullCmd(appFn func() *app) *cobra.Command {
	var all bool

	cmd := &cobra.Command{
		Use:               "pull [CASTLE]",
		Short:             MsgPullShort,
		GroupID:           "castle",
		Args:              cobra.MaximumNArgs(1),
		ValidArgsFunction: castleNamesCompletion(appFn),
		RunE: func(cmd *cobra.Command, args []string) error {
			manager := appFn().castles()
			if all {
				return manager.PullAll(cmd.Context())
			}
			if len(args) == 0 {
				return errors.New(errors.ErrInvalidInput, MsgErrPullTarget)
			}
			return manager.Pull(cmd.Context(), args[0])
		},
	}

	cmd.Flags().BoolVar(&all, "all", false, MsgFlagAll)
	return cmd
}

func newCommitCmd(appFn func() *app) *cobra.Command {
	var message string

	cmd := &cobra.Command{
		Use:               "commit CASTLE",
		Short:             MsgCommitShort,
		GroupID:           "castle",
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: castleNamesCompletion(appFn),
		RunE: func(cmd *cobra.Command, args []string) error {
			return appFn().castles().Commit(cmd.Context(), args[0], message)
		},
	}

	cmd.Flags().StringVarP(&message, "message", "m", "", MsgFlagMessage)
	return cmd
}

func newPushCmd(appFn func() *app) *cobra.Command {
	return &cobra.Command{
		Use:               "push CASTLE",
		Short:             MsgPushShort,
		GroupID:           "castle",
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: castleNamesCompletion(appFn),
		RunE: func(cmd *cobra.Command, args []string) error {
			return appFn().castles().Push(cmd.Context(), args[0])
		},
	}
}

func newListCmd(appFn func() *app) *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Short:   MsgListShort,
		GroupID: "castle",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a := appFn()
			entries, err := a.castles().List(cmd.Context())
			if err != nil {
				return err
			}
			return ui.RenderCastles(a.deps.stdout, a.format, entries)
		},
	}
}

func newGenerateCmd(appFn func() *app) *cobra.Command {
	return &cobra.Command{
		Use:     "generate PATH",
		Short:   MsgGenerateShort,
		Long:    MsgGenerateLong,
		GroupID: "castle",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a := appFn()
			dir, err := a.castles().Generate(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			a.reporter.Say(types.StatusCastle, fmt.Sprintf(MsgGenerated, dir, filepath.Join(dir, paths.CastleHomeDir)))
			return nil
		},
	}
}

func newSymlinkCmd(appFn func() *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:               "symlink CASTLE",
		Short:             MsgSymlinkShort,
		Long:              MsgSymlinkLong,
		Example:           MsgSymlinkExample,
		GroupID:           "dotfiles",
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: castleNamesCompletion(appFn),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := symlinkCastle(appFn(), args[0])
			return err
		},
	}

	cmd.Flags().BoolP("force", "f", false, MsgFlagForce)
	return cmd
}

// symlinkCastle links every dotfile of a castle into the home directory.
// Link failures do not stop the remaining links; they are joined into the
// returned error.
func symlinkCastle(a *app, name string) (*linker.Report, error) {
	logger := logging.GetLogger("cli.symlink")
	defer logging.LogOperationStart(logger, "symlink")()

	if err := a.paths.CheckCastle(a.deps.fs, name, "symlink"); err != nil {
		return nil, err
	}

	entries, err := a.manifests().Read(name)
	if err != nil {
		return nil, err
	}

	plan, err := overlay.NewPlanner(a.deps.fs).Plan(a.paths.CastleHome(name), entries)
	if err != nil {
		return nil, err
	}
	logger.Debug().
		Str("castle", name).
		Strs("merge_points", plan.Dirs).
		Int("links", len(plan.Links())).
		Msg("Overlay planned")

	report, err := a.linker().Apply(plan)
	if report != nil {
		a.reporter.Say(types.StatusCastle, fmt.Sprintf(MsgSymlinkSummary, name,
			report.Count(linker.Created), report.Count(linker.Identical), report.Count(linker.Replaced),
			report.Count(linker.Skipped), report.Count(linker.Failed)))
	}
	return report, err
}

func newTrackCmd(appFn func() *app) *cobra.Command {
	return &cobra.Command{
		Use:     "track FILE CASTLE",
		Short:   MsgTrackShort,
		Long:    MsgTrackLong,
		Example: MsgTrackExample,
		GroupID: "dotfiles",
		Args:    cobra.ExactArgs(2),
		ValidArgsFunction: func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
			if len(args) == 1 {
				return castleNamesCompletion(appFn)(cmd, nil, toComplete)
			}
			return nil, cobra.ShellCompDirectiveDefault
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			a := appFn()
			res, err := a.tracker().Track(cmd.Context(), args[0], args[1])
			if err != nil {
				return err
			}
			logger := logging.GetLogger("cli.track")
			logger.Info().
				Str("live", res.Live).
				Str("target", res.Target).
				Str("outcome", res.Outcome.String()).
				Msg(fmt.Sprintf(MsgTracked, res.Live, res.Castle))
			return nil
		},
	}
}

func newConfigCmd(appFn func() *app) *cobra.Command {
	var defaults, write, force bool

	cmd := &cobra.Command{
		Use:     "config",
		Short:   MsgConfigShort,
		Long:    MsgConfigLong,
		GroupID: "misc",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a := appFn()
			out := a.deps.stdout

			if write {
				return writeDefaultConfig(a, force)
			}
			if defaults {
				_, err := fmt.Fprint(out, config.GenerateConfigContent())
				return err
			}

			content, err := config.Dump(a.cfg)
			if err != nil {
				return err
			}
			_, err = fmt.Fprint(out, content)
			return err
		},
	}

	cmd.Flags().BoolVar(&defaults, "defaults", false, MsgFlagDefaults)
	cmd.Flags().BoolVarP(&write, "write", "w", false, MsgFlagWrite)
	cmd.Flags().BoolVarP(&force, "force", "f", false, MsgFlagForce)
	return cmd
}

func writeDefaultConfig(a *app, force bool) error {
	dir := a.deps.configDir
	if dir == "" {
		dir = config.ConfigDir()
	}
	target := filepath.Join(dir, config.FileName)

	if _, err := a.deps.fs.Lstat(target); err == nil && !force {
		return errors.Newf(errors.ErrInvalidInput, MsgErrConfigExists, target).WithDetail("path", target)
	}
	if a.cfg.Pretend {
		a.reporter.Say(types.StatusCreate, target+" (pretend)")
		return nil
	}

	if err := a.deps.fs.MkdirAll(dir, 0755); err != nil {
		return errors.Wrapf(err, errors.ErrDirCreate, "failed to create %s", dir)
	}
	if err := a.deps.fs.WriteFileAtomic(target, []byte(config.GenerateConfigContent()), 0644); err != nil {
		return errors.Wrapf(err, errors.ErrFileAccess, "failed to write %s", target)
	}
	a.reporter.Say(types.StatusCreate, fmt.Sprintf(MsgConfigWritten, target))
	return nil
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "version",
		Short:   MsgVersionShort,
		GroupID: "misc",
		Args:    cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			_, _ = fmt.Fprint(cmd.OutOrStdout(), version.String())
		},
	}
}

func newCompletionCmd() *cobra.Command {
	return &cobra.Command{
		Use:                   "completion [bash|zsh|fish|powershell]",
		Short:                 MsgCompletionShort,
		Long:                  MsgCompletionLong,
		GroupID:               "misc",
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletionV2(out, true)
			case "zsh":
				return cmd.Root().GenZshCompletion(out)
			case "fish":
				return cmd.Root().GenFishCompletion(out, true)
			default:
				return cmd.Root().GenPowerShellCompletionWithDesc(out)
			}
		},
	}
}

// castleNamesCompletion completes the names of cloned castles
func castleNamesCompletion(appFn func() *app) func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
	return func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		if len(args) > 0 {
			return nil, cobra.ShellCompDirectiveNoFileComp
		}
		a := appFn()
		if a == nil {
			return nil, cobra.ShellCompDirectiveError
		}

		castles, err := a.castles().Discover()
		if err != nil {
			return nil, cobra.ShellCompDirectiveError
		}
		names := make([]string, 0, len(castles))
		for _, c := range castles {
			names = append(names, c.Name)
		}
		return names, cobra.ShellCompDirectiveNoFileComp
	}
}
