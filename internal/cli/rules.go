package cli

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/greenledger/meatprint/internal/category"
	"github.com/greenledger/meatprint/internal/config"
	"github.com/greenledger/meatprint/internal/greenops"
)

// NewRulesShowCmd creates the rules show command.
func NewRulesShowCmd() *cobra.Command {
	var (
		rules   string
		factors bool
		locale  string
	)

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Print the active rules file",
		Example: `  # Start a custom rules file from the built-in one
  meatprint rules show > my-rules.yaml

  # Emission factors only
  meatprint rules show --factors`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			path := rulesPath(rules)
			rs, loaded, err := loadRuleset(path)
			if err != nil {
				return err
			}

			if factors {
				return printFactors(cmd, rs.Estimator, resolveLocale(locale))
			}

			data := config.DefaultRulesYAML()
			if path != "" {
				if data, err = os.ReadFile(path); err != nil {
					return fmt.Errorf("reading rules: %w", err)
				}
			}
			cmd.Printf("# source: %s\n", loaded.Source())
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}

	cmd.Flags().StringVar(&rules, "rules", "", "rules file (default from config, else built-in rules)")
	cmd.Flags().BoolVar(&factors, "factors", false, "print only the emission factor table")
	cmd.Flags().StringVar(&locale, "locale", "", "category labels: en or fr (default from config)")

	return cmd
}

func printFactors(cmd *cobra.Command, est *greenops.Estimator, locale string) error {
	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "CATEGORY\tKG CO2E PER KG")
	for _, c := range category.All() {
		fmt.Fprintf(tw, "%s\t%s\n", c.Label(locale), greenops.FormatFloat(est.Factor(c), 2))
	}
	return tw.Flush()
}

// NewRulesValidateCmd creates the rules validate command.
func NewRulesValidateCmd() *cobra.Command {
	var verbose bool

	cmd := &cobra.Command{
		Use:   "validate [FILE]",
		Short: "Validate a rules file",
		Long: `Checks a rules file: schema version, category names, keyword lists,
meat vocabulary, vendor registry and a factor for every category.
Without FILE the configured rules (or the built-in rules) are checked.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := rulesPath("")
			if len(args) == 1 {
				path = args[0]
			}
			rs, loaded, err := loadRuleset(path)
			if err != nil {
				return err
			}

			cmd.Printf("Rules are valid: %s\n", loaded.Source())
			if verbose {
				cmd.Printf("  Schema version: %s\n", loaded.SchemaVersion)
				cmd.Printf("  Categories with keywords: %d\n", len(rs.Classifier.Categories()))
				cmd.Printf("  Meat vocabulary entries: %d\n", len(loaded.MeatVocabulary))
				cmd.Printf("  Vendors: %d\n", len(loaded.Vendors))
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "show details")

	return cmd
}
