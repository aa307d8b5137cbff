// Package config loads parser settings from defaults, an optional TOML file,
// MCFG_* environment variables and command-line flags, in increasing order
// of precedence.
package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// FileName is the project configuration file searched for upward from the
// working directory.
const FileName = "mcfg.toml"

// EnvPrefix prefixes environment variable overrides, e.g. MCFG_START.
const EnvPrefix = "MCFG"

// Config holds the settings shared by the CLI commands.
type Config struct {
	// Grammar is a grammar file path, or empty for the bundled grammar.
	Grammar string `mapstructure:"grammar"`
	// Start overrides the grammar's start symbol when non-empty.
	Start string `mapstructure:"start"`
	// Lexical is the lexical match mode: exact, fold or any.
	Lexical string `mapstructure:"lexical"`
	// MaxChart bounds the chart size; zero is unbounded.
	MaxChart int `mapstructure:"max_chart"`
	// Format selects the tree encoder: tree, bracket or json.
	Format string `mapstructure:"format"`
	// Verbosity is passed to commonlog.Configure.
	Verbosity int `mapstructure:"verbosity"`
}

// SetDefaults registers default values on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("grammar", "")
	v.SetDefault("start", "")
	v.SetDefault("lexical", "exact")
	v.SetDefault("max_chart", 0)
	v.SetDefault("format", "tree")
	v.SetDefault("verbosity", 0)
}

// New returns a viper instance with defaults and environment binding. When
// path is empty the nearest mcfg.toml above the working directory is used,
// if any.
func New(path string) (*viper.Viper, error) {
	v := viper.New()
	SetDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	if path == "" {
		path = findProjectConfig()
	}
	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("toml")
		if err := v.ReadInConfig(); err != nil {
			return nil, errors.Wrapf(err, "read config file %s", path)
		}
	}
	return v, nil
}

// BindFlags lets set command-line flags override file and environment
// values. Flags are matched by name with dashes turned into underscores.
func BindFlags(v *viper.Viper, flags *pflag.FlagSet) error {
	var err error
	flags.VisitAll(func(f *pflag.Flag) {
		if err != nil {
			return
		}
		key := strings.ReplaceAll(f.Name, "-", "_")
		err = v.BindPFlag(key, f)
	})
	return err
}

// Unmarshal decodes v into a Config.
func Unmarshal(v *viper.Viper) (*Config, error) {
	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return nil, errors.Wrap(err, "unmarshal config")
	}
	if c.MaxChart < 0 {
		return nil, errors.Newf("max_chart must not be negative, got %d", c.MaxChart)
	}
	return &c, nil
}

// Load is New followed by Unmarshal.
func Load(path string) (*Config, error) {
	v, err := New(path)
	if err != nil {
		return nil, err
	}
	return Unmarshal(v)
}

// findProjectConfig walks up from the working directory looking for
// FileName and returns its path, or "" if there is none.
func findProjectConfig() string {
	dir, err := os.Getwd()
	if err != nil {
		return ""
	}
	for {
		candidate := filepath.Join(dir, FileName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return ""
		}
		dir = parent
	}
}
