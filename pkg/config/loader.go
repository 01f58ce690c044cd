package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
	"github.com/go-viper/mapstructure/v2"
	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	pelletier "github.com/pelletier/go-toml/v2"

	"github.com/arthur-debert/homesick/pkg/errors"
	"github.com/arthur-debert/homesick/pkg/logging"
)

const (
	// EnvPrefix prefixes every configuration environment variable
	EnvPrefix = "HOMESICK_"

	// EnvConfigDir overrides the configuration directory
	EnvConfigDir = "HOMESICK_CONFIG_DIR"

	// DirName is the directory below the XDG config home
	DirName = "homesick"

	// FileName is the user config file
	FileName = "config.toml"

	// EnvFileName is the user env file, in dotenv format
	EnvFileName = "env"
)

// LoadOptions select the sources of a load
type LoadOptions struct {
	// ConfigDir holds config.toml and env. Empty means ConfigDir().
	ConfigDir string
	// Flags are explicitly set command-line values keyed like the config
	Flags map[string]interface{}
}

// ConfigDir returns the user configuration directory
func ConfigDir() string {
	if dir := os.Getenv(EnvConfigDir); dir != "" {
		return dir
	}
	return filepath.Join(xdg.ConfigHome, DirName)
}

// Load resolves the configuration from every layer
func Load(opts LoadOptions) (*Config, error) {
	logger := logging.GetLogger("config")
	k := koanf.New(".")

	// 1. Embedded defaults
	if err := k.Load(&rawBytesProvider{bytes: defaultConfig}, toml.Parser()); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigLoad, "failed to load defaults")
	}

	dir := opts.ConfigDir
	if dir == "" {
		dir = ConfigDir()
	}

	// 2. User config file
	configPath := filepath.Join(dir, FileName)
	if _, err := os.Stat(configPath); err == nil {
		if err := k.Load(file.Provider(configPath), toml.Parser()); err != nil {
			return nil, errors.Wrapf(err, errors.ErrConfigLoad, "failed to load config from %s", configPath)
		}
		logger.Debug().Str("path", configPath).Msg("Loaded config file")
	}

	// 3. User env file
	envPath := filepath.Join(dir, EnvFileName)
	if _, err := os.Stat(envPath); err == nil {
		values, err := godotenv.Read(envPath)
		if err != nil {
			return nil, errors.Wrapf(err, errors.ErrConfigLoad, "failed to read env file %s", envPath)
		}
		if err := k.Load(confmap.Provider(envValues(values), "."), nil); err != nil {
			return nil, errors.Wrapf(err, errors.ErrConfigLoad, "failed to load env file %s", envPath)
		}
		logger.Debug().Str("path", envPath).Msg("Loaded env file")
	}

	// 4. Environment variables
	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigLoad, "failed to load environment")
	}

	// 5. Flags
	if len(opts.Flags) > 0 {
		if err := k.Load(confmap.Provider(opts.Flags, "."), nil); err != nil {
			return nil, errors.Wrap(err, errors.ErrConfigLoad, "failed to load flags")
		}
	}

	var cfg Config
	unmarshalConf := koanf.UnmarshalConf{
		Tag: "koanf",
		DecoderConfig: &mapstructure.DecoderConfig{
			Result:           &cfg,
			WeaklyTypedInput: true,
			DecodeHook:       mapstructure.StringToSliceHookFunc(","),
		},
	}
	if err := k.UnmarshalWithConf("", &cfg, unmarshalConf); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigLoad, "failed to unmarshal configuration")
	}

	if err := validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// envKey maps HOMESICK_OUTPUT__FORMAT to output.format. A single
// underscore stays part of the key.
func envKey(name string) string {
	key := strings.ToLower(strings.TrimPrefix(name, EnvPrefix))
	return strings.ReplaceAll(key, "__", ".")
}

func envValues(values map[string]string) map[string]interface{} {
	out := make(map[string]interface{}, len(values))
	for name, value := range values {
		if !strings.HasPrefix(name, EnvPrefix) || name == EnvConfigDir {
			continue
		}
		out[envKey(name)] = value
	}
	return out
}

func validate(cfg *Config) error {
	switch cfg.Output.Format {
	case FormatAuto, FormatTerm, FormatText, FormatJSON, FormatYAML:
	default:
		return errors.Newf(errors.ErrConfigLoad, "unknown output format %q (want auto, term, text, json or yaml)", cfg.Output.Format)
	}
	if cfg.GithubHost == "" {
		return errors.New(errors.ErrConfigLoad, "github_host cannot be empty")
	}
	return nil
}

// Dump renders the configuration as TOML
func Dump(cfg *Config) (string, error) {
	data, err := pelletier.Marshal(cfg)
	if err != nil {
		return "", fmt.Errorf("failed to render configuration: %w", err)
	}
	return string(data), nil
}
