package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/greenledger/meatprint/internal/config"
	"github.com/greenledger/meatprint/internal/engine"
)

// rulesPath returns the --rules flag value or the configured rules file.
func rulesPath(flagValue string) string {
	if flagValue != "" {
		return flagValue
	}
	return config.GetGlobalConfig().Rules.File
}

// loadRuleset reads and validates the rules at path ("" for the embedded
// rules).
func loadRuleset(path string) (*config.Ruleset, *config.Rules, error) {
	rules, err := config.LoadRules(path)
	if err != nil {
		return nil, nil, fmt.Errorf("loading rules: %w", err)
	}
	rs, err := rules.Build()
	if err != nil {
		return nil, nil, fmt.Errorf("loading rules: %w", err)
	}
	return rs, rules, nil
}

// newAnalyzer builds an Analyzer over the rules at path.
func newAnalyzer(path string) (*engine.Analyzer, *config.Rules, error) {
	rs, rules, err := loadRuleset(path)
	if err != nil {
		return nil, nil, err
	}
	a, err := engine.NewAnalyzer(rs.Classifier, rs.Vendors, rs.Estimator)
	if err != nil {
		return nil, nil, err
	}
	return a, rules, nil
}

// resolveLocale returns the flag value or the configured locale.
func resolveLocale(flagValue string) string {
	if flagValue != "" {
		return flagValue
	}
	return config.GetGlobalConfig().Output.Locale
}

// useStyling decides whether table output is styled.
func useStyling(colorMode string, w io.Writer) bool {
	switch strings.ToLower(colorMode) {
	case "always":
		return true
	case "never":
		return false
	}
	if _, noColor := os.LookupEnv("NO_COLOR"); noColor {
		return false
	}
	f, ok := w.(*os.File)
	return ok && isTerminal(f)
}
