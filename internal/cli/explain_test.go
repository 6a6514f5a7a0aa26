package cli_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/greenledger/meatprint/internal/category"
	"github.com/greenledger/meatprint/internal/engine"
)

func TestExplain_Text(t *testing.T) {
	setupCLITest(t)

	out, _, err := executeCmd(t, "", "explain", "Steak haché 2.5 kg", "Pain complet 1 kg")
	require.NoError(t, err)

	assert.Contains(t, out, `line:       "Steak haché 2.5 kg"`)
	assert.Contains(t, out, `meat:       yes ("steak")`)
	assert.Contains(t, out, `category:   beef ("steak")`)
	assert.Contains(t, out, `quantity:   "2.5 kg" = 2.500 kg`)
	assert.Contains(t, out, "emissions:  67.50 kg CO2e")

	assert.Contains(t, out, `line:       "Pain complet 1 kg"`)
	assert.Contains(t, out, "meat:       no")
	assert.Contains(t, out, "emissions:  not counted")
}

func TestExplain_JSON(t *testing.T) {
	setupCLITest(t)

	out, _, err := executeCmd(t, "", "explain", "--json", "Filet de poulet 500 g")
	require.NoError(t, err)

	var traces []engine.LineTrace
	require.NoError(t, json.Unmarshal([]byte(out), &traces))
	require.Len(t, traces, 1)
	assert.True(t, traces[0].IsMeat)
	assert.Equal(t, category.Poultry, traces[0].Category)
	assert.Equal(t, "poulet", traces[0].Keyword)
	assert.InDelta(t, 0.5, traces[0].MassKg, 1e-9)
	assert.InDelta(t, 2.5, traces[0].EmissionsKg, 1e-9)
	assert.True(t, traces[0].Counted)
}

func TestExplain_French(t *testing.T) {
	setupCLITest(t)

	out, _, err := executeCmd(t, "", "explain", "--locale", "fr", "Côte de porc 1kg")
	require.NoError(t, err)
	assert.Contains(t, out, `category:   porc ("porc")`)
}

func TestExplain_RequiresLine(t *testing.T) {
	setupCLITest(t)
	_, _, err := executeCmd(t, "", "explain")
	require.Error(t, err)
}
