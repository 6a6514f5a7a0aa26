package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/greenledger/meatprint/internal/config"
)

// NewConfigValidateCmd creates the config validate command.
func NewConfigValidateCmd() *cobra.Command {
	var verbose bool
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate configuration and the rules it points to",
		Long: `Validates the effective configuration: the user config file (or --config),
the project .meatprint.yaml overlay and MEATPRINT_* environment variables.
The configured rules file is validated as well.`,
		Example: `  meatprint config validate
  meatprint config validate --verbose`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runConfigValidate(cmd, verbose)
		},
	}

	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "show detailed validation information")

	return cmd
}

func runConfigValidate(cmd *cobra.Command, verbose bool) error {
	cfg := config.GetGlobalConfig()

	// The resolved config skips an unreadable user file; report it here.
	if cfg.Path() != "" {
		if _, err := config.Load(cfg.Path()); err != nil {
			return fmt.Errorf("configuration validation failed: %w", err)
		}
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration validation failed: %w", err)
	}
	_, rules, err := loadRuleset(cfg.Rules.File)
	if err != nil {
		return fmt.Errorf("configuration validation failed: %w", err)
	}

	cmd.Println("Configuration is valid")

	if verbose {
		printVerboseDetails(cmd, cfg, rules)
	}
	return nil
}

// printVerboseDetails prints the effective configuration.
func printVerboseDetails(cmd *cobra.Command, cfg *config.Config, rules *config.Rules) {
	cmd.Println()
	cmd.Println("Configuration details:")
	cmd.Printf("  Config file: %s\n", cfg.Path())
	cmd.Printf("  Output format: %s\n", cfg.Output.DefaultFormat)
	cmd.Printf("  Locale: %s\n", cfg.Output.Locale)
	cmd.Printf("  Logging level: %s\n", cfg.Logging.Level)
	cmd.Printf("  Log file: %s\n", cfg.Logging.File)
	cmd.Printf("  Concurrency: %d\n", cfg.Pipeline.EffectiveConcurrency())
	if cfg.Cache.Enabled {
		dir, _ := cfg.Cache.ResolveDirectory()
		cmd.Printf("  Cache: %s (ttl %s)\n", dir, cfg.Cache.TTL)
	} else {
		cmd.Println("  Cache: disabled")
	}
	cmd.Printf("  Rules: %s\n", rules.Source())
	if cfg.Metrics.Textfile != "" {
		cmd.Printf("  Metrics textfile: %s\n", cfg.Metrics.Textfile)
	}
}
