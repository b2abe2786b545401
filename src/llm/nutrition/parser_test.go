package nutrition

import (
	"errors"
	"testing"

	"nutrition_tracker/pkg"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInterpretFencedBlock(t *testing.T) {
	raw := "Here you go:\n```json\n{\"item_name\":\"apple\",\"nutrients\":{\"carbs_g\":25,\"calories_kcal\":95,\"protein_g\":0.5,\"fat_g\":0.3}}\n```"

	got, err := Interpret(raw, "an apple")
	require.NoError(t, err)
	assert.Equal(t, pkg.MacroEstimate{
		ItemName:  "apple",
		Nutrients: pkg.Nutrients{CarbsG: 25, CaloriesKcal: 95, ProteinG: 0.5, FatG: 0.3},
	}, got)
}

func TestInterpretEmptyOutput(t *testing.T) {
	for _, raw := range []string{"", "   \n\t"} {
		_, err := Interpret(raw, "anything")
		assert.ErrorIs(t, err, pkg.ErrEmptyOutput)
	}
}

func TestInterpretProseWrappedObject(t *testing.T) {
	raw := `Sure! {"item_name":"rice","nutrients":{"carbs_g":"45"}} hope this helps`

	got, err := Interpret(raw, "a bowl of rice")
	require.NoError(t, err)
	assert.Equal(t, "rice", got.ItemName)
	assert.Equal(t, pkg.Nutrients{CarbsG: 45}, got.Nutrients)
}

func TestInterpretProseWrappedNumericObject(t *testing.T) {
	raw := `Sure! Here you go: {"item_name":"rice","nutrients":{"carbs_g":45}}`

	got, err := Interpret(raw, "rice")
	require.NoError(t, err)
	assert.Equal(t, pkg.MacroEstimate{ItemName: "rice", Nutrients: pkg.Nutrients{CarbsG: 45}}, got)
}

func TestInterpretOutOfRangeNutrientFallsBackToZero(t *testing.T) {
	raw := `{"item_name":"cake","nutrients":{"carbs_g":1e400,"calories_kcal":350}}`

	got, err := Interpret(raw, "cake")
	require.NoError(t, err)
	assert.Equal(t, pkg.Nutrients{CarbsG: 0, CaloriesKcal: 350}, got.Nutrients)
}

func TestInterpretUnparseable(t *testing.T) {
	_, err := Interpret("I cannot estimate that, sorry.", "mystery")

	var perr *pkg.ParseError
	require.True(t, errors.As(err, &perr))
	assert.Equal(t, "I cannot estimate that, sorry.", perr.Content)
}

func TestInterpretNonObjectJSON(t *testing.T) {
	for _, raw := range []string{"null", "[1, 2]", `"apple"`} {
		_, err := Interpret(raw, "apple")
		var perr *pkg.ParseError
		assert.True(t, errors.As(err, &perr), raw)
	}
}

func TestInterpretItemNameFallback(t *testing.T) {
	cases := []struct {
		name  string
		raw   string
		query string
		want  string
	}{
		{"missing uses query", `{"nutrients":{"carbs_g":10}}`, " toast ", "toast"},
		{"blank uses query", `{"item_name":"  ","nutrients":{}}`, "toast", "toast"},
		{"non-string uses query", `{"item_name":42,"nutrients":{}}`, "toast", "toast"},
		{"no query", `{"nutrients":{}}`, "", "unknown"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := Interpret(tc.raw, tc.query)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got.ItemName)
		})
	}
}

func TestInterpretCoercesBadNutrients(t *testing.T) {
	raw := `{"item_name":"soup","nutrients":{"carbs_g":"lots","calories_kcal":-20,"protein_g":true,"fat_g":null}}`

	got, err := Interpret(raw, "soup")
	require.NoError(t, err)
	assert.Equal(t, pkg.Nutrients{ProteinG: 1}, got.Nutrients)
}

func TestInterpretNutrientsNotAnObject(t *testing.T) {
	got, err := Interpret(`{"item_name":"tea","nutrients":"none"}`, "tea")
	require.NoError(t, err)
	assert.Equal(t, pkg.Nutrients{}, got.Nutrients)
}

func TestExtractJSON(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"fenced uppercase label", "```JSON\n{\"a\":1}\n```", `{"a":1}`},
		{"fenced wins over earlier braces", "{\"x\":0} then ```json {\"a\":1}```", `{"a":1}`},
		{"greedy span", "pre {\"a\":{\"b\":1}} post", `{"a":{"b":1}}`},
		{"span across lines", "pre {\n\"a\": 1\n} post", "{\n\"a\": 1\n}"},
		{"whole text", "  not json  ", "not json"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, ExtractJSON(tc.in))
		})
	}
}
