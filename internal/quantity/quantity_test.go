package quantity

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/greenledger/meatprint/internal/logging"
)

const tolerance = 1e-9

func TestParseKg(t *testing.T) {
	tests := []struct {
		name   string
		line   string
		wantKg float64
	}{
		{name: "kilograms with space", line: "Steak haché 2.5 kg", wantKg: 2.5},
		{name: "grams with space", line: "Filet de poulet 500 g", wantKg: 0.5},
		{name: "grams glued to number", line: "Jambon 300g", wantKg: 0.3},
		{name: "kilograms glued to number", line: "Côte de porc 1kg", wantKg: 1.0},
		{name: "comma decimal separator", line: "Saumon 1,25 kg", wantKg: 1.25},
		{name: "no-break space", line: "Steak haché 2,5\u00a0kg", wantKg: 2.5},
		{name: "narrow no-break space", line: "Steak haché 2,5\u202fkg", wantKg: 2.5},
		{name: "no-break space before grams", line: "Jambon 250\u00a0g", wantKg: 0.25},
		{name: "upper case unit", line: "DINDE 750 G", wantKg: 0.75},
		{name: "mixed case unit", line: "Veau 2 Kg", wantKg: 2.0},
		{name: "multiple mentions are summed", line: "Colis 5 kg dont 4 x 250 g", wantKg: 5.25},
		{name: "trailing separator", line: "Lard 12. kg", wantKg: 12.0},
		{name: "unit prefix of longer word", line: "Poulet 500 grammes", wantKg: 0.5},
		{name: "no unit", line: "2 steaks", wantKg: 0},
		{name: "empty", line: "", wantKg: 0},
		{name: "unit without number", line: "prix au kg", wantKg: 0},
		{name: "two spaces break the match", line: "Boeuf 3  kg", wantKg: 0},
		{name: "two no-break spaces break the match", line: "Boeuf 3\u00a0\u00a0kg", wantKg: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.wantKg, ParseKg(tt.line), tolerance)
		})
	}
}

func TestParseKg_NoUnitAlwaysZero(t *testing.T) {
	lines := []string{
		"Pain complet",
		"Total TTC 45,90 EUR",
		"Quantité: 12",
		"Facture n° 2024-118",
		"Livraison le 12/03",
	}
	for _, line := range lines {
		assert.Zero(t, ParseKg(line), line)
	}
}

func TestParseKg_GramsEqualKilograms(t *testing.T) {
	pairs := [][2]string{
		{"2.5 kg", "2500 g"},
		{"0,75kg", "750g"},
		{"1 KG", "1000 G"},
		{"12.125 kg", "12125 g"},
	}
	for _, p := range pairs {
		assert.InDelta(t, ParseKg(p[0]), ParseKg(p[1]), tolerance, "%s vs %s", p[0], p[1])
	}
}

func TestParseKg_NeverNegative(t *testing.T) {
	assert.InDelta(t, 2.0, ParseKg("Remise -2 kg"), tolerance)
}

func TestFind(t *testing.T) {
	got := Find("Carton 10kg, sachets de 250 g")
	require.Len(t, got, 2)

	assert.Equal(t, "10kg", got[0].Raw)
	assert.Equal(t, "kg", got[0].Unit)
	assert.InDelta(t, 10.0, got[0].Kg, tolerance)

	assert.Equal(t, "250 g", got[1].Raw)
	assert.Equal(t, "g", got[1].Unit)
	assert.InDelta(t, 250.0, got[1].Value, tolerance)
	assert.InDelta(t, 0.25, got[1].Kg, tolerance)

	assert.Nil(t, Find("aucune quantité"))
}

func TestToKg(t *testing.T) {
	kg, ok := ToKg(1500, "g")
	require.True(t, ok)
	assert.InDelta(t, 1.5, kg, tolerance)

	kg, ok = ToKg(3, "KG")
	require.True(t, ok)
	assert.InDelta(t, 3.0, kg, tolerance)

	_, ok = ToKg(1, "lb")
	assert.False(t, ok)

	_, ok = ToKg(-1, "kg")
	assert.False(t, ok)
}

func TestFind_NoBreakSpaceRaw(t *testing.T) {
	got := Find("Cabillaud 1,2\u202fkg")
	require.Len(t, got, 1)
	assert.Equal(t, "1,2\u202fkg", got[0].Raw)
	assert.InDelta(t, 1.2, got[0].Kg, tolerance)
}

func TestParseKgContext_LogsSkippedTokenWithTraceID(t *testing.T) {
	var buf bytes.Buffer
	logger := zerolog.New(&buf).Level(zerolog.DebugLevel).Hook(logging.TraceHook{})
	ctx := logging.ContextWithTraceID(context.Background(), "01J0000000000000000000QNTY")
	ctx = logger.WithContext(ctx)

	// Overflows float64, so the token matches but cannot be parsed.
	huge := strings.Repeat("9", 400) + " kg"

	assert.InDelta(t, 1.0, ParseKgContext(ctx, "Boeuf "+huge+" et 1 kg"), tolerance)

	var event map[string]any
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &event))
	assert.Equal(t, "skipping malformed quantity token", event["message"])
	assert.Equal(t, "quantity", event["component"])
	assert.Equal(t, "01J0000000000000000000QNTY", event[logging.FieldTraceID])
}
