// Package config resolves firlower settings from defaults, an optional
// config file, FIRLOWER_* environment variables and command line flags.
package config

import (
	"runtime"
	"strings"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/stellaraccident/circt/colors"
)

// Keys of the settings store. Flag names are the same.
const (
	KeyParallel     = "parallel"
	KeyWorkers      = "workers"
	KeyLogLevel     = "log-level"
	KeyVerify       = "verify"
	KeyCheckLowered = "check-lowered"
	KeyOutput       = "output"
	KeyColor        = "color"
	KeyDebug        = "debug"
)

// EnvPrefix prefixes environment overrides, e.g. FIRLOWER_WORKERS=4.
const EnvPrefix = "FIRLOWER"

// FileName is the config file looked up in the working directory when no
// explicit file is given.
const FileName = "firlower"

// Config holds the resolved settings of one run.
type Config struct {
	Parallel     bool
	Workers      int
	LogLevel     zerolog.Level
	Verify       bool
	CheckLowered bool
	Output       string
	Color        colors.Mode
	Debug        bool
}

// Default returns the settings used when nothing overrides them.
func Default() *Config {
	return &Config{
		Parallel:     true,
		LogLevel:     zerolog.InfoLevel,
		Verify:       true,
		CheckLowered: true,
		Output:       "-",
		Color:        colors.Auto,
	}
}

// WorkerLimit returns the number of concurrent lowering tasks to allow.
func (c *Config) WorkerLimit() int {
	if c.Workers > 0 {
		return c.Workers
	}
	return runtime.GOMAXPROCS(0)
}

// New returns a settings store with every default registered and environment
// overrides enabled.
func New() *viper.Viper {
	v := viper.New()
	d := Default()
	v.SetDefault(KeyParallel, d.Parallel)
	v.SetDefault(KeyWorkers, d.Workers)
	v.SetDefault(KeyLogLevel, d.LogLevel.String())
	v.SetDefault(KeyVerify, d.Verify)
	v.SetDefault(KeyCheckLowered, d.CheckLowered)
	v.SetDefault(KeyOutput, d.Output)
	v.SetDefault(KeyColor, "auto")
	v.SetDefault(KeyDebug, false)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	return v
}

// InitializeFlags registers one flag per setting on flags.
func InitializeFlags(flags *pflag.FlagSet) {
	d := Default()
	flags.Bool(KeyParallel, d.Parallel, "lower declarations concurrently")
	flags.Int(KeyWorkers, d.Workers, "maximum concurrent lowering tasks (0 uses GOMAXPROCS)")
	flags.String(KeyLogLevel, d.LogLevel.String(), "log level: trace, debug, info, warn, error")
	flags.Bool(KeyVerify, d.Verify, "verify the circuit before lowering")
	flags.Bool(KeyCheckLowered, d.CheckLowered, "check that no aggregate types remain after lowering")
	flags.StringP(KeyOutput, "o", d.Output, "output file for the lowered circuit, - for stdout")
	flags.String(KeyColor, "auto", "colored output: auto, always, never")
	flags.BoolP(KeyDebug, "d", false, "print pass banners and debug logs")
}

// Load reads the config file, if any, binds flags and resolves the settings.
// An empty file name looks for firlower.yaml in the working directory and
// tolerates its absence.
func Load(v *viper.Viper, file string, flags *pflag.FlagSet) (*Config, error) {
	if flags != nil {
		if err := v.BindPFlags(flags); err != nil {
			return nil, errors.Wrap(err, "binding flags")
		}
	}

	if file != "" {
		v.SetConfigFile(file)
	} else {
		v.SetConfigName(FileName)
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if file != "" || !errors.As(err, &notFound) {
			return nil, errors.Wrap(err, "reading config")
		}
	}

	return decode(v)
}

func decode(v *viper.Viper) (*Config, error) {
	level, err := zerolog.ParseLevel(v.GetString(KeyLogLevel))
	if err != nil {
		return nil, errors.Wrapf(err, "invalid %s", KeyLogLevel)
	}
	mode, err := colors.ParseMode(v.GetString(KeyColor))
	if err != nil {
		return nil, errors.Wrapf(err, "invalid %s", KeyColor)
	}
	workers := v.GetInt(KeyWorkers)
	if workers < 0 {
		return nil, errors.Errorf("invalid %s: %d is negative", KeyWorkers, workers)
	}

	cfg := &Config{
		Parallel:     v.GetBool(KeyParallel),
		Workers:      workers,
		LogLevel:     level,
		Verify:       v.GetBool(KeyVerify),
		CheckLowered: v.GetBool(KeyCheckLowered),
		Output:       v.GetString(KeyOutput),
		Color:        mode,
		Debug:        v.GetBool(KeyDebug),
	}
	if cfg.Debug && cfg.LogLevel > zerolog.DebugLevel {
		cfg.LogLevel = zerolog.DebugLevel
	}
	return cfg, nil
}
