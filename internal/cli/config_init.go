package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/greenledger/meatprint/internal/config"
)

// NewConfigInitCmd creates the config init command.
func NewConfigInitCmd() *cobra.Command {
	var (
		force   bool
		project bool
	)

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize configuration file with default values",
		Long: `Creates $MEATPRINT_HOME/config.yaml (default ~/.meatprint/config.yaml) with
default values. With --project, writes .meatprint.yaml in the current
directory instead; it overrides the user configuration section by section
for every command run below that directory.`,
		Example: `  # Create user configuration
  meatprint config init

  # Create a per-directory overlay
  meatprint config init --project

  # Overwrite an existing file
  meatprint config init --force`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if project {
				wd, err := os.Getwd()
				if err != nil {
					return fmt.Errorf("cannot determine working directory: %w", err)
				}
				return initConfigAt(cmd, filepath.Join(wd, config.ProjectConfigName), force)
			}
			path, err := config.ConfigPath()
			if err != nil {
				return err
			}
			return initConfigAt(cmd, path, force)
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "overwrite existing configuration file")
	cmd.Flags().BoolVar(&project, "project", false, "write .meatprint.yaml in the current directory")

	return cmd
}

func initConfigAt(cmd *cobra.Command, path string, force bool) error {
	if !force {
		_, err := os.Stat(path)
		if err == nil {
			return errors.New("configuration file already exists, use --force to overwrite")
		}
		if !os.IsNotExist(err) {
			return fmt.Errorf("cannot access config path %s: %w", path, err)
		}
	}

	cfg := config.Defaults()
	cfg.SetPath(path)
	if err := cfg.Save(); err != nil {
		return fmt.Errorf("failed to save configuration: %w", err)
	}

	cmd.Printf("Configuration initialized at %s\n", path)
	return nil
}
