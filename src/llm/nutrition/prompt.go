package nutrition

import (
	"context"
	"fmt"

	"github.com/cloudwego/eino/components/prompt"
	"github.com/cloudwego/eino/schema"
)

// The template is FString, so literal braces in the JSON shape are doubled
const estimatorTemplate = `You are a nutrition estimator.

Food: {food}

Return ONLY valid JSON (no markdown, no commentary), exactly in this shape:
{{"item_name": "string", "nutrients": {{"carbs_g": number, "calories_kcal": number, "protein_g": number, "fat_g": number}}}}`

func newEstimatorTemplate() prompt.ChatTemplate {
	return prompt.FromMessages(schema.FString, schema.UserMessage(estimatorTemplate))
}

// BuildPrompt renders the estimation prompt for one food description
func BuildPrompt(ctx context.Context, food string) ([]*schema.Message, error) {
	msgs, err := newEstimatorTemplate().Format(ctx, map[string]any{"food": food})
	if err != nil {
		return nil, fmt.Errorf("failed to format estimation prompt: %w", err)
	}
	return msgs, nil
}
