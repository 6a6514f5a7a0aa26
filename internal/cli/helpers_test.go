package cli_test

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/greenledger/meatprint/internal/cli"
	"github.com/greenledger/meatprint/internal/config"
)

// setupCLITest isolates the config directory and environment and returns
// the temporary MEATPRINT_HOME.
func setupCLITest(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv(config.EnvHome, home)
	t.Setenv(config.EnvLogLevel, "error")
	for _, key := range []string{
		config.EnvRules, config.EnvOutput, config.EnvConcurrency,
		config.EnvCacheEnabled, config.EnvLogFormat, config.EnvMetricsFile,
	} {
		t.Setenv(key, "")
	}
	t.Setenv("NO_COLOR", "1")
	t.Cleanup(config.ResetGlobalConfigForTest)
	return home
}

// executeCmd runs the root command with args and returns stdout and stderr.
func executeCmd(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	cmd := cli.NewRootCmd("test")
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

// writeInvoice writes a plain-text invoice and returns its path.
func writeInvoice(t *testing.T, dir, name string, lines ...string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(strings.Join(lines, "\n")+"\n"), 0o600))
	return path
}

// sampleInvoices writes the two reference invoices.
func sampleInvoices(t *testing.T) (string, string) {
	t.Helper()
	dir := t.TempDir()
	a := writeInvoice(t, dir, "a.txt", "Intermarché", "Jambon 300g", "Côte de porc 1kg")
	b := writeInvoice(t, dir, "b.txt", "Steak haché 2.5 kg", "Filet de poulet 500 g", "Pain complet 1 kg")
	return a, b
}
