package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xvierd/repostat/internal/config"
)

// isolate points the config lookup at an empty directory.
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	t.Setenv("HOME", dir)
	for _, key := range []string{"NO_COLOR", "REPOSTAT_SYNC_ENGINE", "REPOSTAT_OUTPUT_COLOR", "REPOSTAT_SYNC_TIMEOUT"} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
	return dir
}

// executeRun is a helper to run the CLI in-process.
func executeRun(args ...string) (code int, stdout, stderr string) {
	var bufOut, bufErr bytes.Buffer
	code = Run(append([]string{"repostat"}, args...), strings.NewReader(""), &bufOut, &bufErr)
	return code, bufOut.String(), bufErr.String()
}

func TestRootCmd_Use(t *testing.T) {
	rootCmd := newRootCmd(&bytes.Buffer{}, &bytes.Buffer{})
	assert.Equal(t, "repostat [target_dir]", rootCmd.Use)
}

func TestRootCmd_Help(t *testing.T) {
	isolate(t)

	code, stdout, _ := executeRun("--help")
	assert.Equal(t, 0, code)
	assert.Contains(t, stdout, "repostat")
	assert.Contains(t, stdout, "--sync-engine")
}

func TestRootCmd_Version(t *testing.T) {
	isolate(t)

	code, stdout, _ := executeRun("--version")
	assert.Equal(t, 0, code)
	assert.Equal(t, "repostat\nVersion: "+Version+"\n", stdout)
}

func TestRootCmd_Flags(t *testing.T) {
	rootCmd := newRootCmd(&bytes.Buffer{}, &bytes.Buffer{})

	for _, name := range []string{"config", "verbose", "sync-engine", "timeout"} {
		assert.NotNil(t, rootCmd.PersistentFlags().Lookup(name), "--%s should be a persistent flag", name)
	}
	for _, name := range []string{"json", "color", "sort", "match", "notify"} {
		assert.NotNil(t, rootCmd.Flags().Lookup(name), "--%s should be registered", name)
	}
}

func TestRootCmd_TooManyArgs(t *testing.T) {
	isolate(t)

	code, stdout, stderr := executeRun("a", "b")
	assert.Equal(t, 1, code)
	assert.Empty(t, stdout)
	assert.True(t, strings.HasPrefix(stderr, "Error: "), "stderr = %q", stderr)
}

func TestRootCmd_InvalidColor(t *testing.T) {
	isolate(t)

	code, stdout, stderr := executeRun("--color", "rainbow", t.TempDir())
	assert.Equal(t, 1, code)
	assert.Empty(t, stdout)
	assert.Contains(t, stderr, "invalid color mode")
}

func TestRootCmd_InvalidEngine(t *testing.T) {
	isolate(t)

	code, _, stderr := executeRun("--sync-engine", "svn", t.TempDir())
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, "invalid sync engine")
}

func TestRootCmd_MissingExplicitConfig(t *testing.T) {
	dir := isolate(t)

	code, _, stderr := executeRun("--config", filepath.Join(dir, "nope.toml"), t.TempDir())
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, "Error: ")
}

func TestRootCmd_NotADirectory(t *testing.T) {
	isolate(t)
	file := filepath.Join(t.TempDir(), "file.txt")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0o644))

	code, stdout, stderr := executeRun(file)
	assert.Equal(t, 1, code)
	assert.Empty(t, stdout)
	assert.Contains(t, stderr, "not a directory")
}

// overrideCmd binds the override flags to opts the way newRootCmd does.
func overrideCmd(opts *options) *cobra.Command {
	c := &cobra.Command{Use: "repostat"}
	c.Flags().StringVar(&opts.color, "color", "", "")
	c.Flags().BoolVar(&opts.sort, "sort", false, "")
	c.Flags().BoolVar(&opts.notify, "notify", false, "")
	c.Flags().StringVar(&opts.syncEngine, "sync-engine", "", "")
	c.Flags().DurationVar(&opts.timeout, "timeout", 0, "")
	return c
}

func TestLoadConfig_FlagOverrides(t *testing.T) {
	isolate(t)

	opts := &options{}
	c := overrideCmd(opts)
	require.NoError(t, c.ParseFlags([]string{"--color", "never", "--sync-engine", "native", "--timeout", "5s", "--sort"}))

	cfg, err := loadConfig(c, opts)
	require.NoError(t, err)
	assert.Equal(t, config.ColorNever, cfg.Output.Color)
	assert.Equal(t, config.EngineNative, cfg.Sync.Engine)
	assert.Equal(t, 5*time.Second, cfg.Sync.Timeout)
	assert.True(t, cfg.Output.Sort)
	assert.False(t, cfg.Notifications.Enabled)
}

func TestLoadConfig_UnsetFlagsKeepFile(t *testing.T) {
	dir := isolate(t)
	path := filepath.Join(dir, "custom.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
[sync]
engine = "native"

[output]
color = "always"
sort = true
`), 0o644))

	opts := &options{configPath: path}
	c := overrideCmd(opts)
	require.NoError(t, c.ParseFlags([]string{"--color", "never"}))

	cfg, err := loadConfig(c, opts)
	require.NoError(t, err)
	assert.Equal(t, config.EngineNative, cfg.Sync.Engine)
	assert.Equal(t, config.ColorNever, cfg.Output.Color)
	assert.True(t, cfg.Output.Sort)
	assert.Equal(t, path, cfg.Source)
}

func TestConfigCmd(t *testing.T) {
	isolate(t)

	code, stdout, stderr := executeRun("config", "--sync-engine", "native")
	require.Equal(t, 0, code, stderr)
	assert.Contains(t, stdout, "source                 (defaults)\n")
	assert.Contains(t, stdout, "sync.engine            native\n")
	assert.Contains(t, stdout, "labels.dirty           Commit!\n")
	assert.Contains(t, stdout, "output.column_width    10\n")
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer

	log := newLogger(&buf, &options{})
	log.Debug("hidden")
	log.Warn("shown")
	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "shown")

	buf.Reset()
	log = newLogger(&buf, &options{jsonOutput: true})
	log.Warn("silenced")
	assert.Empty(t, buf.String())

	buf.Reset()
	log = newLogger(&buf, &options{jsonOutput: true, verbose: true})
	log.Debug("verbose")
	assert.Contains(t, buf.String(), "verbose")
}
