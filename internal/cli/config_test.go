package cli_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/greenledger/meatprint/internal/cli"
	"github.com/greenledger/meatprint/internal/config"
)

func TestConfigInit_CreatesUserConfig(t *testing.T) {
	home := setupCLITest(t)

	out, _, err := executeCmd(t, "", "config", "init")
	require.NoError(t, err)

	path := filepath.Join(home, "config.yaml")
	assert.Contains(t, out, "Configuration initialized at "+path)

	cfg, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, config.Defaults().Output, cfg.Output)
}

func TestConfigInit_RefusesOverwrite(t *testing.T) {
	home := setupCLITest(t)
	path := filepath.Join(home, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("output:\n  locale: fr\n"), 0o600))

	_, _, err := executeCmd(t, "", "config", "init")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--force")

	_, _, err = executeCmd(t, "", "config", "init", "--force")
	require.NoError(t, err)
	cfg, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, "en", cfg.Output.Locale)
}

func TestConfigInit_Project(t *testing.T) {
	setupCLITest(t)
	dir := t.TempDir()
	t.Chdir(dir)

	_, _, err := executeCmd(t, "", "config", "init", "--project")
	require.NoError(t, err)

	_, err = os.Stat(filepath.Join(dir, config.ProjectConfigName))
	require.NoError(t, err)
}

func TestConfigValidate(t *testing.T) {
	setupCLITest(t)

	out, _, err := executeCmd(t, "", "config", "validate", "--verbose")
	require.NoError(t, err)
	assert.Contains(t, out, "Configuration is valid")
	assert.Contains(t, out, "Rules: <embedded>")
}

func TestConfigValidate_InvalidValues(t *testing.T) {
	home := setupCLITest(t)
	require.NoError(t, os.WriteFile(filepath.Join(home, "config.yaml"),
		[]byte("pipeline:\n  concurrency: 999\n"), 0o600))

	_, _, err := executeCmd(t, "", "config", "validate")
	require.Error(t, err)
	assert.True(t, config.IsConfigError(err))
	assert.Equal(t, cli.ExitFailure, cli.ExitCode(err))
}

func TestConfigValidate_BrokenFile(t *testing.T) {
	home := setupCLITest(t)
	require.NoError(t, os.WriteFile(filepath.Join(home, "config.yaml"), []byte("output: [\n"), 0o600))

	_, _, err := executeCmd(t, "", "config", "validate")
	require.Error(t, err)
	assert.True(t, config.IsConfigError(err))
}

func TestRoot_InvalidEnvIsConfigError(t *testing.T) {
	setupCLITest(t)
	t.Setenv(config.EnvConcurrency, "lots")

	_, _, err := executeCmd(t, "", "rules", "validate")
	require.Error(t, err)
	assert.True(t, config.IsConfigError(err))
}

func TestRoot_ExplicitConfigFlag(t *testing.T) {
	setupCLITest(t)
	path := filepath.Join(t.TempDir(), "alt.yaml")
	require.NoError(t, os.WriteFile(path, []byte("output:\n  default_format: ndjson\n"), 0o600))
	a, _ := sampleInvoices(t)

	out, _, err := executeCmd(t, "", "--config", path, "analyze", a)
	require.NoError(t, err)
	assert.Contains(t, out, `"type":"totals"`)

	_, _, err = executeCmd(t, "", "--config", filepath.Join(t.TempDir(), "nope.yaml"), "rules", "validate")
	require.Error(t, err)
}

func TestExitCode(t *testing.T) {
	assert.Equal(t, cli.ExitOK, cli.ExitCode(nil))
	assert.Equal(t, cli.ExitFailure, cli.ExitCode(assert.AnError))
	assert.Equal(t, 7, cli.ExitCode(&cli.ExitError{Code: 7, Reason: "x"}))
}

func TestRoot_Version(t *testing.T) {
	setupCLITest(t)
	out, _, err := executeCmd(t, "", "--version")
	require.NoError(t, err)
	assert.Contains(t, out, "test")
}
