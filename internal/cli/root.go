// Package cli implements the meatprint command line.
package cli

import (
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/greenledger/meatprint/internal/config"
	"github.com/greenledger/meatprint/internal/logging"
)

// isTerminal checks if the given file is a terminal.
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

// logger is the package-level logger for CLI operations.
var logger zerolog.Logger //nolint:gochecknoglobals // Required for zerolog context integration

// NewRootCmd creates the root command. Every subcommand runs after the
// configuration has been resolved and logging set up.
func NewRootCmd(ver string) *cobra.Command {
	var logResult *logging.LogPathResult

	cmd := &cobra.Command{
		Use:          "meatprint",
		Short:        "Estimate the carbon footprint of meat purchases from invoices",
		Long:         "meatprint reads invoices, finds meat, fish and seafood lines, converts their quantities to kilograms and estimates kg CO2e per category.",
		Version:      ver,
		Example:      rootCmdExample,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := resolveConfig(cmd)
			if err != nil {
				return err
			}
			config.SetGlobalConfig(cfg)

			result := setupLogging(cmd)
			logResult = &result
			return nil
		},
		PersistentPostRunE: func(cmd *cobra.Command, _ []string) error {
			return cleanupLogging(cmd, logResult)
		},
	}

	cmd.PersistentFlags().Bool("debug", false, "enable debug logging")
	cmd.PersistentFlags().String("config", "", "config file (default $MEATPRINT_HOME/config.yaml)")
	cmd.AddCommand(NewAnalyzeCmd(), NewExplainCmd(), newRulesCmd(), newConfigCmd())

	return cmd
}

// resolveConfig layers the user config (or --config), the project overlay
// of the working directory and the environment.
func resolveConfig(cmd *cobra.Command) (*config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	wd, err := os.Getwd()
	if err != nil {
		wd = ""
	}
	return config.NewWithProject(cmd.Context(), path, wd)
}

const rootCmdExample = `  # Analyze a batch of invoices
  meatprint analyze invoices/*.pdf

  # Machine-readable output
  meatprint analyze --output json invoice.pdf

  # Read extracted text from stdin
  pdftotext invoice.pdf - | meatprint analyze -

  # See why a line was (not) counted
  meatprint explain "Steak haché 2.5 kg"

  # Show the active rules
  meatprint rules show

  # Initialize configuration
  meatprint config init`

// newRulesCmd creates the rules command group.
func newRulesCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "rules", Short: "Inspect and validate classification rules"}
	cmd.AddCommand(NewRulesShowCmd(), NewRulesValidateCmd())
	return cmd
}

// newConfigCmd creates the config command group with configuration subcommands.
func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "config", Short: "Configuration management commands"}
	cmd.AddCommand(NewConfigInitCmd(), NewConfigValidateCmd())
	return cmd
}
