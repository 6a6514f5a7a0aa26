// Package classify assigns invoice lines to animal-product categories using
// ordered keyword rules.
//
// Matching is case-insensitive substring containment. It is not tokenized
// and not word-boundary aware, so a keyword can match inside a longer word.
// Rules are tried in category priority order and the first hit wins; there
// is no scoring by specificity or match count.
package classify

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/greenledger/meatprint/internal/category"
)

// Rule validation errors.
var (
	ErrNoRules           = errors.New("no category rules configured")
	ErrEmptyKeywords     = errors.New("category rule has no keywords")
	ErrBlankKeyword      = errors.New("blank keyword")
	ErrDuplicateCategory = errors.New("duplicate category rule")
	ErrFallbackRule      = errors.New("the fallback category cannot carry keywords")
	ErrInvalidCategory   = errors.New("invalid category")
	ErrEmptyVocabulary   = errors.New("meat vocabulary is empty")
)

// Rule binds a category to the keywords that select it.
type Rule struct {
	Category category.Category
	Keywords []string
}

// Match describes how a line was classified.
type Match struct {
	Category category.Category `json:"category"`

	// Keyword is the configured keyword that matched, empty for the fallback.
	Keyword string `json:"keyword,omitempty"`
}

// Classifier maps lines to categories. It is immutable after New and safe
// for concurrent use.
type Classifier struct {
	rules      []Rule
	vocabulary []string
}

// New validates the rules and meat vocabulary and builds a Classifier.
// Rules are reordered into category priority order; keywords are lower-cased
// and trimmed.
func New(rules []Rule, vocabulary []string) (*Classifier, error) {
	if len(rules) == 0 {
		return nil, ErrNoRules
	}

	seen := make(map[category.Category]bool, len(rules))
	normalized := make([]Rule, 0, len(rules))
	for i, r := range rules {
		if !r.Category.Valid() {
			return nil, fmt.Errorf("rule %d: %w: %d", i, ErrInvalidCategory, int(r.Category))
		}
		if r.Category == category.Other {
			return nil, fmt.Errorf("rule %d: %w", i, ErrFallbackRule)
		}
		if seen[r.Category] {
			return nil, fmt.Errorf("rule %d: %w: %s", i, ErrDuplicateCategory, r.Category)
		}
		seen[r.Category] = true

		keywords, err := normalizeKeywords(r.Keywords)
		if err != nil {
			return nil, fmt.Errorf("rule %s: %w", r.Category, err)
		}
		normalized = append(normalized, Rule{Category: r.Category, Keywords: keywords})
	}

	sort.SliceStable(normalized, func(i, j int) bool {
		return normalized[i].Category.Rank() < normalized[j].Category.Rank()
	})

	vocab, err := normalizeKeywords(vocabulary)
	if err != nil {
		if errors.Is(err, ErrEmptyKeywords) {
			return nil, ErrEmptyVocabulary
		}
		return nil, fmt.Errorf("meat vocabulary: %w", err)
	}

	return &Classifier{rules: normalized, vocabulary: vocab}, nil
}

func normalizeKeywords(in []string) ([]string, error) {
	if len(in) == 0 {
		return nil, ErrEmptyKeywords
	}
	out := make([]string, 0, len(in))
	for i, kw := range in {
		kw = strings.ToLower(strings.TrimSpace(kw))
		if kw == "" {
			return nil, fmt.Errorf("%w at index %d", ErrBlankKeyword, i)
		}
		out = append(out, kw)
	}
	return out, nil
}

// Match returns the category of line and the keyword that selected it.
func (c *Classifier) Match(line string) Match {
	lower := strings.ToLower(line)
	for _, r := range c.rules {
		for _, kw := range r.Keywords {
			if strings.Contains(lower, kw) {
				return Match{Category: r.Category, Keyword: kw}
			}
		}
	}
	return Match{Category: category.Other}
}

// Classify returns the category of line, category.Other when no rule matches.
func (c *Classifier) Classify(line string) category.Category {
	return c.Match(line).Category
}

// IsMeat reports whether line mentions anything from the meat vocabulary.
// It is coarser than Classify: a meat line may still classify as Other.
func (c *Classifier) IsMeat(line string) bool {
	return c.MeatKeyword(line) != ""
}

// MeatKeyword returns the first vocabulary entry found in line, or "".
func (c *Classifier) MeatKeyword(line string) string {
	lower := strings.ToLower(line)
	for _, kw := range c.vocabulary {
		if strings.Contains(lower, kw) {
			return kw
		}
	}
	return ""
}

// Categories returns the categories that have a rule, in evaluation order.
func (c *Classifier) Categories() []category.Category {
	out := make([]category.Category, len(c.rules))
	for i, r := range c.rules {
		out[i] = r.Category
	}
	return out
}
