package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/greenledger/meatprint/internal/engine"
)

// NewExplainCmd creates the explain command.
func NewExplainCmd() *cobra.Command {
	var (
		rules  string
		locale string
		asJSON bool
	)

	cmd := &cobra.Command{
		Use:   "explain LINE...",
		Short: "Show how invoice lines are classified and weighed",
		Example: `  meatprint explain "Steak haché 2.5 kg" "Pain complet 1 kg"
  meatprint explain --json "Filet de poulet 500 g"`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			analyzer, _, err := newAnalyzer(rulesPath(rules))
			if err != nil {
				return err
			}

			traces := make([]engine.LineTrace, 0, len(args))
			for _, line := range args {
				traces = append(traces, analyzer.Explain(line))
			}

			out := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				if err = enc.Encode(traces); err != nil {
					return fmt.Errorf("encoding JSON: %w", err)
				}
				return nil
			}

			loc := resolveLocale(locale)
			for i, t := range traces {
				if i > 0 {
					if _, err = fmt.Fprintln(out); err != nil {
						return err
					}
				}
				if err = engine.RenderTrace(out, t, loc); err != nil {
					return err
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&rules, "rules", "", "rules file (default from config, else built-in rules)")
	cmd.Flags().StringVar(&locale, "locale", "", "category labels: en or fr (default from config)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print traces as JSON")

	return cmd
}
