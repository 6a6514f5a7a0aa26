package classify

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/greenledger/meatprint/internal/category"
)

// testRules mirrors the shape of the shipped rules with a reduced vocabulary.
func testRules() []Rule {
	return []Rule{
		{Category: category.Beef, Keywords: []string{"boeuf", "bœuf", "veau", "steak", "entrecôte", "rundvlees"}},
		{Category: category.Pork, Keywords: []string{"porc", "jambon", "lard", "saucisse", "varkensvlees"}},
		{Category: category.Poultry, Keywords: []string{"poulet", "dinde", "canard", "chicken", "kip"}},
		{Category: category.Fish, Keywords: []string{"poisson", "saumon", "cabillaud", "bar", "zalm"}},
		{Category: category.Seafood, Keywords: []string{"crevette", "moule", "huître", "shrimp"}},
	}
}

func testVocabulary() []string {
	return []string{
		"boeuf", "bœuf", "veau", "steak", "entrecôte", "rundvlees",
		"porc", "jambon", "lard", "saucisse", "varkensvlees",
		"poulet", "dinde", "canard", "chicken", "kip",
		"poisson", "saumon", "cabillaud", "bar", "zalm",
		"crevette", "moule", "huître", "shrimp",
		"viande", "meat", "vlees", "charcuterie",
	}
}

func newTestClassifier(t *testing.T) *Classifier {
	t.Helper()
	c, err := New(testRules(), testVocabulary())
	require.NoError(t, err)
	return c
}

func TestClassify(t *testing.T) {
	c := newTestClassifier(t)

	tests := []struct {
		name string
		line string
		want category.Category
	}{
		{name: "minced steak", line: "Steak haché 2.5 kg", want: category.Beef},
		{name: "chicken fillet", line: "Filet de poulet 500 g", want: category.Poultry},
		{name: "ham", line: "Jambon 300g", want: category.Pork},
		{name: "pork chop", line: "Côte de porc 1kg", want: category.Pork},
		{name: "salmon", line: "SAUMON FUMÉ 200 G", want: category.Fish},
		{name: "shrimp", line: "Crevettes roses 1 kg", want: category.Seafood},
		{name: "dutch beef", line: "Rundvlees gehakt 1 kg", want: category.Beef},
		{name: "english chicken", line: "Chicken thighs 2kg", want: category.Poultry},
		{name: "ligature", line: "BŒUF BOURGUIGNON", want: category.Beef},
		{name: "generic meat", line: "Viande 1 kg", want: category.Other},
		{name: "unrelated", line: "Pain complet 1 kg", want: category.Other},
		{name: "empty line", line: "", want: category.Other},
		// Substring matching is not word-aware: "bar" matches inside "barquette".
		{name: "substring inside longer word", line: "Barquette 250 g", want: category.Fish},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, c.Classify(tt.line))
		})
	}
}

func TestClassify_PriorityOrder(t *testing.T) {
	c := newTestClassifier(t)

	// Beef and pork keywords on the same line: beef wins.
	assert.Equal(t, category.Beef, c.Classify("Saucisse de porc et bœuf 1 kg"))
	assert.Equal(t, category.Beef, c.Classify("jambon / steak"))
	// Poultry beats fish and seafood.
	assert.Equal(t, category.Poultry, c.Classify("Poulet et crevettes"))
	// Fish beats seafood.
	assert.Equal(t, category.Fish, c.Classify("Poisson aux moules"))
}

func TestNew_ReordersRulesByPriority(t *testing.T) {
	rules := []Rule{
		{Category: category.Seafood, Keywords: []string{"moule"}},
		{Category: category.Pork, Keywords: []string{"porc"}},
		{Category: category.Beef, Keywords: []string{"boeuf"}},
	}
	c, err := New(rules, []string{"viande"})
	require.NoError(t, err)

	assert.Equal(t, []category.Category{category.Beef, category.Pork, category.Seafood}, c.Categories())
	assert.Equal(t, category.Beef, c.Classify("moules, porc et boeuf"))
}

func TestClassify_Deterministic(t *testing.T) {
	lines := []string{
		"Steak haché 2.5 kg",
		"Jambon et poulet",
		"Crevettes 1 kg",
		"Pain complet",
	}

	first := newTestClassifier(t)
	second := newTestClassifier(t)
	for _, line := range lines {
		want := first.Classify(line)
		for range 5 {
			assert.Equal(t, want, first.Classify(line), line)
			assert.Equal(t, want, second.Classify(line), line)
		}
	}
}

func TestMatch(t *testing.T) {
	c := newTestClassifier(t)

	m := c.Match("Entrecôte 400 g")
	assert.Equal(t, category.Beef, m.Category)
	assert.Equal(t, "entrecôte", m.Keyword)

	m = c.Match("Riz basmati")
	assert.Equal(t, category.Other, m.Category)
	assert.Empty(t, m.Keyword)
}

func TestIsMeat(t *testing.T) {
	c := newTestClassifier(t)

	assert.True(t, c.IsMeat("Steak haché 2.5 kg"))
	assert.True(t, c.IsMeat("Viande hachée"))
	assert.True(t, c.IsMeat("CHARCUTERIE ASSORTIE"))
	assert.False(t, c.IsMeat("Pain complet 1 kg"))
	assert.False(t, c.IsMeat(""))

	assert.Equal(t, "viande", c.MeatKeyword("Viande 1 kg"))
	assert.Empty(t, c.MeatKeyword("Lait demi-écrémé"))
}

func TestIsMeat_IndependentOfRules(t *testing.T) {
	c, err := New(
		[]Rule{{Category: category.Beef, Keywords: []string{"boeuf"}}},
		[]string{"viande"},
	)
	require.NoError(t, err)

	// A rule keyword outside the vocabulary does not make a line meat-related.
	assert.False(t, c.IsMeat("Boeuf 1 kg"))
	assert.Equal(t, category.Beef, c.Classify("Boeuf 1 kg"))

	// A vocabulary hit without a rule hit classifies as Other.
	assert.True(t, c.IsMeat("Viande 1 kg"))
	assert.Equal(t, category.Other, c.Classify("Viande 1 kg"))
}

func TestNew_Validation(t *testing.T) {
	vocab := []string{"viande"}

	tests := []struct {
		name    string
		rules   []Rule
		vocab   []string
		wantErr error
	}{
		{
			name:    "no rules",
			rules:   nil,
			vocab:   vocab,
			wantErr: ErrNoRules,
		},
		{
			name:    "empty keyword list",
			rules:   []Rule{{Category: category.Beef}},
			vocab:   vocab,
			wantErr: ErrEmptyKeywords,
		},
		{
			name:    "blank keyword",
			rules:   []Rule{{Category: category.Beef, Keywords: []string{"boeuf", "  "}}},
			vocab:   vocab,
			wantErr: ErrBlankKeyword,
		},
		{
			name: "duplicate category",
			rules: []Rule{
				{Category: category.Pork, Keywords: []string{"porc"}},
				{Category: category.Pork, Keywords: []string{"jambon"}},
			},
			vocab:   vocab,
			wantErr: ErrDuplicateCategory,
		},
		{
			name:    "rule for the fallback category",
			rules:   []Rule{{Category: category.Other, Keywords: []string{"viande"}}},
			vocab:   vocab,
			wantErr: ErrFallbackRule,
		},
		{
			name:    "invalid category",
			rules:   []Rule{{Category: category.Category(99), Keywords: []string{"x"}}},
			vocab:   vocab,
			wantErr: ErrInvalidCategory,
		},
		{
			name:    "empty vocabulary",
			rules:   []Rule{{Category: category.Beef, Keywords: []string{"boeuf"}}},
			vocab:   nil,
			wantErr: ErrEmptyVocabulary,
		},
		{
			name:    "blank vocabulary entry",
			rules:   []Rule{{Category: category.Beef, Keywords: []string{"boeuf"}}},
			vocab:   []string{""},
			wantErr: ErrBlankKeyword,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := New(tt.rules, tt.vocab)
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Nil(t, c)
		})
	}
}

func TestNew_NormalizesKeywords(t *testing.T) {
	c, err := New(
		[]Rule{{Category: category.Beef, Keywords: []string{"  BOEUF  "}}},
		[]string{" VIANDE"},
	)
	require.NoError(t, err)

	assert.Equal(t, "boeuf", c.Match("un boeuf").Keyword)
	assert.True(t, c.IsMeat("la viande"))
}
