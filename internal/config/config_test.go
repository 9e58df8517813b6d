package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stellaraccident/circt/colors"
)

func flagSet(t *testing.T, args ...string) *pflag.FlagSet {
	t.Helper()
	flags := pflag.NewFlagSet("firlower", pflag.ContinueOnError)
	InitializeFlags(flags)
	require.NoError(t, flags.Parse(args))
	return flags
}

// chdir changes the working directory for the duration of the test, like
// testing.T.Chdir in newer Go releases.
func chdir(t *testing.T, dir string) {
	t.Helper()
	old, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(old) })
}

func TestDefaults(t *testing.T) {
	chdir(t, t.TempDir())

	cfg, err := Load(New(), "", flagSet(t))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
	assert.Positive(t, cfg.WorkerLimit())
}

func TestFlagsOverrideFileAndEnvironment(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "settings.yaml")
	require.NoError(t, os.WriteFile(file, []byte("workers: 3\nverify: false\nlog-level: warn\n"), 0o644))
	t.Setenv("FIRLOWER_CHECK_LOWERED", "false")

	cfg, err := Load(New(), file, flagSet(t, "--workers=7", "--color=never", "-o", "out.fir"))
	require.NoError(t, err)

	assert.Equal(t, 7, cfg.Workers)
	assert.Equal(t, 7, cfg.WorkerLimit())
	assert.False(t, cfg.Verify)
	assert.False(t, cfg.CheckLowered)
	assert.Equal(t, zerolog.WarnLevel, cfg.LogLevel)
	assert.Equal(t, colors.Never, cfg.Color)
	assert.Equal(t, "out.fir", cfg.Output)
	assert.True(t, cfg.Parallel)
}

func TestDebugLowersLogLevel(t *testing.T) {
	chdir(t, t.TempDir())

	cfg, err := Load(New(), "", flagSet(t, "-d"))
	require.NoError(t, err)
	assert.Equal(t, zerolog.DebugLevel, cfg.LogLevel)
}

func TestInvalidSettings(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"log level", []string{"--log-level=loud"}},
		{"color", []string{"--color=sometimes"}},
		{"workers", []string{"--workers=-2"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			chdir(t, t.TempDir())
			_, err := Load(New(), "", flagSet(t, tt.args...))
			assert.Error(t, err)
		})
	}

	_, err := Load(New(), filepath.Join(t.TempDir(), "missing.yaml"), nil)
	assert.Error(t, err)
}
