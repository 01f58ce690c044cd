package cli

import (
	_ "embed"
	"strings"
)

// Short messages (one-liners)
const (
	// Command descriptions
	MsgRootShort       = "Your home directory is your castle"
	MsgCloneShort      = "Clone a castle"
	MsgPullShort       = "Update a castle"
	MsgCommitShort     = "Commit a castle's changes"
	MsgPushShort       = "Push a castle"
	MsgSymlinkShort    = "Link all dotfiles of a castle into the home directory"
	MsgTrackShort      = "Move a file into a castle and link it back"
	MsgListShort       = "List cloned castles"
	MsgGenerateShort   = "Generate a homesick-ready git repository"
	MsgConfigShort     = "Show the effective configuration"
	MsgVersionShort    = "Print version information"
	MsgCompletionShort = "Generate shell completion script"

	// Status messages
	MsgSymlinkSummary = "%s: %d created, %d identical, %d replaced, %d skipped, %d failed"
	MsgTracked        = "%s is now tracked by %s"
	MsgGenerated      = "%s is ready, add dotfiles under %s"
	MsgConfigWritten  = "wrote %s"

	// Error messages
	MsgErrPullTarget   = "pull needs a castle name or --all"
	MsgErrConfigExists = "%s already exists, use --force to overwrite it"
	MsgErrFormat       = "invalid output format %q"

	// Flag descriptions
	MsgFlagVerbose  = "Increase verbosity (-v INFO, -vv DEBUG, -vvv TRACE)"
	MsgFlagQuiet    = "Only print errors"
	MsgFlagPretend  = "Report what would happen without changing anything"
	MsgFlagForce    = "Overwrite existing conflicting files without prompting"
	MsgFlagFormat   = "Output format: auto, term, text, json or yaml"
	MsgFlagReposDir = "Directory castles are cloned into"
	MsgFlagAll      = "Update all cloned castles"
	MsgFlagMessage  = "Commit message, the editor opens when empty"
	MsgFlagDefaults = "Print the commented default configuration"
	MsgFlagWrite    = "Write the default configuration to the user config file"
)

// Long messages from embedded files
var (
	//go:embed msgs/root-long.txt
	msgRootLongRaw string
	MsgRootLong    = strings.TrimSpace(msgRootLongRaw)

	//go:embed msgs/clone-long.txt
	msgCloneLongRaw string
	MsgCloneLong    = strings.TrimSpace(msgCloneLongRaw)

	//go:embed msgs/clone-example.txt
	msgCloneExampleRaw string
	MsgCloneExample    = strings.TrimRight(msgCloneExampleRaw, "\n")

	//go:embed msgs/symlink-long.txt
	msgSymlinkLongRaw string
	MsgSymlinkLong    = strings.TrimSpace(msgSymlinkLongRaw)

	//go:embed msgs/symlink-example.txt
	msgSymlinkExampleRaw string
	MsgSymlinkExample    = strings.TrimRight(msgSymlinkExampleRaw, "\n")

	//go:embed msgs/track-long.txt
	msgTrackLongRaw string
	MsgTrackLong    = strings.TrimSpace(msgTrackLongRaw)

	//go:embed msgs/track-example.txt
	msgTrackExampleRaw string
	MsgTrackExample    = strings.TrimRight(msgTrackExampleRaw, "\n")

	//go:embed msgs/generate-long.txt
	msgGenerateLongRaw string
	MsgGenerateLong    = strings.TrimSpace(msgGenerateLongRaw)

	//go:embed msgs/config-long.txt
	msgConfigLongRaw string
	MsgConfigLong    = strings.TrimSpace(msgConfigLongRaw)

	//go:embed msgs/completion-long.txt
	msgCompletionLongRaw string
	MsgCompletionLong    = strings.TrimSpace(msgCompletionLongRaw)

	//go:embed msgs/usage-template.txt
	msgUsageTemplateRaw string
	MsgUsageTemplate    = strings.TrimSpace(msgUsageTemplateRaw)
)
