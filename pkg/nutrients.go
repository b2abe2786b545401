package pkg

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ParseNutrient converts a loosely typed JSON value into a nutrient amount.
// Numbers, numeric strings and booleans are accepted; everything else fails.
func ParseNutrient(v any) (float64, error) {
	var f float64
	switch val := v.(type) {
	case nil:
		return 0, fmt.Errorf("missing value")
	case float64:
		f = val
	case float32:
		f = float64(val)
	case int:
		f = float64(val)
	case int64:
		f = float64(val)
	case bool:
		if val {
			f = 1
		}
	case string:
		s := strings.TrimSpace(val)
		if s == "" {
			return 0, fmt.Errorf("empty string")
		}
		parsed, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, fmt.Errorf("not a number: %q", val)
		}
		f = parsed
	case fmt.Stringer:
		return ParseNutrient(val.String())
	default:
		return 0, fmt.Errorf("unsupported type %T", v)
	}

	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("not finite: %v", f)
	}
	if f < 0 {
		return 0, fmt.Errorf("negative amount: %v", f)
	}
	return f, nil
}

// NutrientOrZero coerces v with ParseNutrient and falls back to 0, so a bad
// field contributes nothing instead of failing the whole record.
func NutrientOrZero(v any) float64 {
	f, err := ParseNutrient(v)
	if err != nil {
		return 0
	}
	return f
}

// NutrientsFromMap builds Nutrients from a decoded JSON object
func NutrientsFromMap(m map[string]any) Nutrients {
	if m == nil {
		return Nutrients{}
	}
	return Nutrients{
		CarbsG:       NutrientOrZero(m["carbs_g"]),
		CaloriesKcal: NutrientOrZero(m["calories_kcal"]),
		ProteinG:     NutrientOrZero(m["protein_g"]),
		FatG:         NutrientOrZero(m["fat_g"]),
	}
}
