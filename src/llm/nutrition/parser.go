package nutrition

import (
	"fmt"
	"regexp"
	"strings"

	"nutrition_tracker/pkg"

	"github.com/bytedance/sonic"
)

const unknownItem = "unknown"

// numbers stay json.Number so one out-of-range field does not sink the reply
var replyAPI = sonic.Config{UseNumber: true}.Froze()

var (
	fencedJSON = regexp.MustCompile("(?is)```json\\s*(\\{.*?\\})\\s*```")
	braceSpan  = regexp.MustCompile(`(?s)\{.*\}`)
)

// ExtractJSON picks the JSON candidate out of free model text. In order: a
// ```json fenced block, the widest {...} span, the whole trimmed text.
func ExtractJSON(text string) string {
	if m := fencedJSON.FindStringSubmatch(text); m != nil {
		return m[1]
	}
	if m := braceSpan.FindString(text); m != "" {
		return m
	}
	return strings.TrimSpace(text)
}

// Interpret turns a raw model reply into a normalized MacroEstimate. query is
// the food description the reply answers and names the item when the model
// leaves it out.
func Interpret(raw, query string) (pkg.MacroEstimate, error) {
	if strings.TrimSpace(raw) == "" {
		return pkg.MacroEstimate{}, pkg.ErrEmptyOutput
	}

	candidate := ExtractJSON(raw)
	var obj map[string]any
	if err := replyAPI.UnmarshalFromString(candidate, &obj); err != nil {
		return pkg.MacroEstimate{}, pkg.NewParseError("model output", candidate, err)
	}
	if obj == nil {
		return pkg.MacroEstimate{}, pkg.NewParseError("model output", candidate, fmt.Errorf("expected a JSON object"))
	}

	nutrients, _ := obj["nutrients"].(map[string]any)
	return pkg.MacroEstimate{
		ItemName:  itemName(obj["item_name"], query),
		Nutrients: pkg.NutrientsFromMap(nutrients),
	}, nil
}

func itemName(v any, query string) string {
	if s, ok := v.(string); ok && strings.TrimSpace(s) != "" {
		return strings.TrimSpace(s)
	}
	if q := strings.TrimSpace(query); q != "" {
		return q
	}
	return unknownItem
}
