package cli

import (
	"embed"
	stderrors "errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/arthur-debert/homesick/internal/version"
	"github.com/arthur-debert/homesick/pkg/cobrax/topics"
	"github.com/arthur-debert/homesick/pkg/errors"
	"github.com/arthur-debert/homesick/pkg/logging"
	"github.com/arthur-debert/homesick/pkg/types"
	"github.com/arthur-debert/homesick/pkg/ui"
)

//go:embed topics
var topicFiles embed.FS

// Execute runs homesick with the process arguments and returns the exit code
func Execute() int {
	return Run(os.Args[1:])
}

// Run executes one invocation and returns its exit code
func Run(args []string, opts ...Option) int {
	d := newDeps(opts)
	state := &rootState{}
	rootCmd := newRootCmd(d, state)
	rootCmd.SetArgs(args)
	rootCmd.SetOut(d.stdout)
	rootCmd.SetErr(d.stderr)

	err := rootCmd.Execute()
	if err == nil {
		return 0
	}

	format := ui.FormatAuto
	if state.app != nil {
		format = state.app.format
	}
	ui.NewStatusReporter(d.stderr, format, false).Say(types.StatusError, errorMessage(err))
	log.Debug().Err(err).Str("code", string(errors.GetErrorCode(err))).Msg("Command failed")
	return 1
}

// errorMessage is what the user sees for err. Castle validation failures
// print their message alone.
func errorMessage(err error) string {
	var homesickErr *errors.HomesickError
	if stderrors.As(err, &homesickErr) && homesickErr.Code == errors.ErrCastleNotFound {
		return homesickErr.Message
	}
	return err.Error()
}

// rootState carries the resolved app from PersistentPreRunE to commands
type rootState struct {
	verbosity int
	app       *app
}

// NewRootCmd creates the root command with default dependencies
func NewRootCmd(opts ...Option) *cobra.Command {
	return newRootCmd(newDeps(opts), &rootState{})
}

func newRootCmd(d *deps, state *rootState) *cobra.Command {
	initTemplateFormatting()

	rootCmd := &cobra.Command{
		Use:     "homesick",
		Short:   MsgRootShort,
		Long:    MsgRootLong,
		Version: version.Version,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// Config loading logs before the log file is known
			zerolog.SetGlobalLevel(logging.Level(state.verbosity))

			a, err := d.newApp(cmd)
			if err != nil {
				return err
			}
			state.app = a

			logging.SetupLogger(state.verbosity, a.cfg.Log.File)
			log.Debug().Str("command", cmd.CommandPath()).Msg("Command started")
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			_ = cmd.Help()
			return fmt.Errorf("no command specified")
		},
		SilenceUsage:  true,
		SilenceErrors: true,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		DisableAutoGenTag: true,
	}

	flags := rootCmd.PersistentFlags()
	flags.CountVarP(&state.verbosity, "verbose", "v", MsgFlagVerbose)
	flags.BoolP("quiet", "q", false, MsgFlagQuiet)
	flags.BoolP("pretend", "p", false, MsgFlagPretend)
	flags.StringP("format", "o", "auto", MsgFlagFormat)
	flags.String("repos-dir", "", MsgFlagReposDir)
	_ = rootCmd.RegisterFlagCompletionFunc("format", func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
		return []string{"auto", "term", "text", "json", "yaml"}, cobra.ShellCompDirectiveNoFileComp
	})

	rootCmd.AddGroup(&cobra.Group{ID: "castle", Title: "CASTLES:"})
	rootCmd.AddGroup(&cobra.Group{ID: "dotfiles", Title: "DOTFILES:"})
	rootCmd.AddGroup(&cobra.Group{ID: "misc", Title: "MISC:"})

	rootCmd.SetUsageTemplate(MsgUsageTemplate)

	appFn := func() *app { return state.app }
	rootCmd.AddCommand(newCloneCmd(appFn))
	rootCmd.AddCommand(newPullCmd(appFn))
	rootCmd.AddCommand(newCommitCmd(appFn))
	rootCmd.AddCommand(newPushCmd(appFn))
	rootCmd.AddCommand(newListCmd(appFn))
	rootCmd.AddCommand(newGenerateCmd(appFn))
	rootCmd.AddCommand(newSymlinkCmd(appFn))
	rootCmd.AddCommand(newTrackCmd(appFn))
	rootCmd.AddCommand(newConfigCmd(appFn))
	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newCompletionCmd())

	topicFS, err := fs.Sub(topicFiles, "topics")
	if err == nil {
		_, err = topics.InitializeWithOptions(rootCmd, topicFS, topics.Options{
			Extensions: []string{".txt", ".md"},
			Renderer:   topics.NewGlamourRenderer(),
		})
	}
	if err != nil {
		log.Warn().Err(err).Msg("Help topics unavailable")
	}
	rootCmd.SetHelpCommandGroupID("misc")

	return rootCmd
}
