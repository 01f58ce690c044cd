package config

// Config is the resolved homesick configuration
type Config struct {
	HomeDir    string `koanf:"home_dir" toml:"home_dir"`
	ReposDir   string `koanf:"repos_dir" toml:"repos_dir"`
	GithubHost string `koanf:"github_host" toml:"github_host"`
	Force      bool   `koanf:"force" toml:"force"`
	Pretend    bool   `koanf:"pretend" toml:"pretend"`
	Quiet      bool   `koanf:"quiet" toml:"quiet"`
	Output     Output `koanf:"output" toml:"output"`
	Log        Log    `koanf:"log" toml:"log"`
}

// Output controls how results are rendered
type Output struct {
	// Format is auto, term, text, json or yaml
	Format string `koanf:"format" toml:"format"`
}

// Log controls the log file
type Log struct {
	File string `koanf:"file" toml:"file"`
}

// Output formats
const (
	FormatAuto = "auto"
	FormatTerm = "term"
	FormatText = "text"
	FormatJSON = "json"
	FormatYAML = "yaml"
)
