package config

import (
	_ "embed"
	"fmt"
	"os"

	"github.com/Masterminds/semver/v3"
	"gopkg.in/yaml.v3"

	"github.com/greenledger/meatprint/internal/category"
	"github.com/greenledger/meatprint/internal/classify"
	"github.com/greenledger/meatprint/internal/greenops"
	"github.com/greenledger/meatprint/internal/vendor"
)

//go:embed rules.yaml
var defaultRulesYAML []byte

// SupportedRulesSchema is the range of schema_version values this build reads.
const SupportedRulesSchema = "^1.0.0"

// EmbeddedRulesSource names the built-in rules in messages.
const EmbeddedRulesSource = "<embedded>"

// Rules is the on-disk form of the classification and emissions data.
type Rules struct {
	SchemaVersion   string              `yaml:"schema_version"`
	VendorScanLines int                 `yaml:"vendor_scan_lines,omitempty"`
	Categories      map[string][]string `yaml:"categories"`
	MeatVocabulary  []string            `yaml:"meat_vocabulary"`
	Vendors         []string            `yaml:"vendors,omitempty"`
	Factors         map[string]float64  `yaml:"factors"`

	source string
}

// Ruleset is a validated, ready-to-use Rules.
type Ruleset struct {
	Classifier *classify.Classifier

	// Vendors is nil when the rules list no vendors.
	Vendors *vendor.Identifier

	Estimator *greenops.Estimator
}

// DefaultRulesYAML returns the embedded rules file.
func DefaultRulesYAML() []byte {
	out := make([]byte, len(defaultRulesYAML))
	copy(out, defaultRulesYAML)
	return out
}

// DefaultRules parses the embedded rules.
func DefaultRules() (*Rules, error) {
	return ParseRules(defaultRulesYAML, EmbeddedRulesSource)
}

// LoadRules reads a rules file. An empty path selects the embedded rules.
func LoadRules(path string) (*Rules, error) {
	if path == "" {
		return DefaultRules()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &ConfigError{Source: path, Err: err}
	}
	return ParseRules(data, path)
}

// ParseRules decodes rules and checks the schema version. It does not
// validate the content; call Build for that.
func ParseRules(data []byte, source string) (*Rules, error) {
	var r Rules
	if err := yaml.Unmarshal(data, &r); err != nil {
		return nil, &ConfigError{Source: source, Err: fmt.Errorf("parsing YAML: %w", err)}
	}
	r.source = source
	if err := checkSchemaVersion(r.SchemaVersion); err != nil {
		return nil, &ConfigError{Source: source, Err: err}
	}
	return &r, nil
}

func checkSchemaVersion(v string) error {
	if v == "" {
		return fmt.Errorf("%w: schema_version is required", ErrUnsupportedSchema)
	}
	version, err := semver.NewVersion(v)
	if err != nil {
		return fmt.Errorf("%w: %q: %w", ErrUnsupportedSchema, v, err)
	}
	constraint, err := semver.NewConstraint(SupportedRulesSchema)
	if err != nil {
		return err
	}
	if !constraint.Check(version) {
		return fmt.Errorf("%w: %s does not satisfy %s", ErrUnsupportedSchema, v, SupportedRulesSchema)
	}
	return nil
}

// Source returns the file the rules were read from.
func (r *Rules) Source() string {
	return r.source
}

// Build validates the rules and constructs the classifier, vendor
// identifier and estimator. Every category keyword is added to the meat
// vocabulary so that a line with a category never fails the meat check.
func (r *Rules) Build() (*Ruleset, error) {
	byCategory, err := parseCategoryKeys(r.Categories)
	if err != nil {
		return nil, &ConfigError{Source: r.source, Err: fmt.Errorf("categories: %w", err)}
	}

	var rules []classify.Rule
	vocabulary := append([]string(nil), r.MeatVocabulary...)
	for _, c := range category.All() {
		keywords, ok := byCategory[c]
		if !ok {
			continue
		}
		rules = append(rules, classify.Rule{Category: c, Keywords: keywords})
		vocabulary = append(vocabulary, keywords...)
	}

	classifier, err := classify.New(rules, dedupe(vocabulary))
	if err != nil {
		return nil, &ConfigError{Source: r.source, Err: err}
	}

	factors, err := parseFactorKeys(r.Factors)
	if err != nil {
		return nil, &ConfigError{Source: r.source, Err: fmt.Errorf("factors: %w", err)}
	}
	estimator, err := greenops.NewEstimator(factors)
	if err != nil {
		return nil, &ConfigError{Source: r.source, Err: fmt.Errorf("factors: %w", err)}
	}

	rs := &Ruleset{Classifier: classifier, Estimator: estimator}
	if len(r.Vendors) > 0 {
		rs.Vendors, err = vendor.New(r.Vendors, r.VendorScanLines)
		if err != nil {
			return nil, &ConfigError{Source: r.source, Err: fmt.Errorf("vendors: %w", err)}
		}
	}
	return rs, nil
}

// Validate reports whether Build would succeed.
func (r *Rules) Validate() error {
	_, err := r.Build()
	return err
}

func parseCategoryKeys(in map[string][]string) (map[category.Category][]string, error) {
	out := make(map[category.Category][]string, len(in))
	for key, keywords := range in {
		c, err := category.Parse(key)
		if err != nil {
			return nil, err
		}
		if _, dup := out[c]; dup {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateCategory, c)
		}
		out[c] = keywords
	}
	return out, nil
}

func parseFactorKeys(in map[string]float64) (greenops.Factors, error) {
	out := make(greenops.Factors, len(in))
	for key, v := range in {
		c, err := category.Parse(key)
		if err != nil {
			return nil, err
		}
		if _, dup := out[c]; dup {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateCategory, c)
		}
		out[c] = v
	}
	return out, nil
}

func dedupe(in []string) []string {
	seen := make(map[string]bool, len(in))
	out := make([]string, 0, len(in))
	for _, s := range in {
		if seen[s] {
			continue
		}
		seen[s] = true
		out = append(out, s)
	}
	return out
}
