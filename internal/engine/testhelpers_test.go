package engine

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/greenledger/meatprint/internal/category"
	"github.com/greenledger/meatprint/internal/classify"
	"github.com/greenledger/meatprint/internal/greenops"
	"github.com/greenledger/meatprint/internal/vendor"
)

func testClassifier(t *testing.T) *classify.Classifier {
	t.Helper()
	c, err := classify.New(
		[]classify.Rule{
			{Category: category.Beef, Keywords: []string{"boeuf", "bœuf", "steak", "entrecôte"}},
			{Category: category.Pork, Keywords: []string{"porc", "jambon", "saucisse"}},
			{Category: category.Poultry, Keywords: []string{"poulet", "dinde"}},
			{Category: category.Fish, Keywords: []string{"saumon", "cabillaud"}},
			{Category: category.Seafood, Keywords: []string{"crevette", "moule"}},
		},
		[]string{
			"boeuf", "bœuf", "steak", "entrecôte",
			"porc", "jambon", "saucisse",
			"poulet", "dinde",
			"saumon", "cabillaud",
			"crevette", "moule",
			"viande",
		},
	)
	require.NoError(t, err)
	return c
}

func testAnalyzerWithFactors(t *testing.T, f greenops.Factors) *Analyzer {
	t.Helper()
	est, err := greenops.NewEstimator(f)
	require.NoError(t, err)
	vendors, err := vendor.New([]string{"intermarché", "carrefour", "metro"}, 0)
	require.NoError(t, err)
	a, err := NewAnalyzer(testClassifier(t), vendors, est)
	require.NoError(t, err)
	return a
}

func testAnalyzer(t *testing.T) *Analyzer {
	t.Helper()
	return testAnalyzerWithFactors(t, greenops.DefaultFactors())
}
