package nutrition

import (
	"context"
	"fmt"
	"strings"
	"time"

	"nutrition_tracker/pkg"
	"nutrition_tracker/src/logger"

	"github.com/cloudwego/eino/components/model"
)

const slowEstimate = 10 * time.Second

// Estimator asks a chat model for the macros of a food description
type Estimator struct {
	model model.BaseChatModel
}

func NewEstimator(cm model.BaseChatModel) *Estimator {
	return &Estimator{model: cm}
}

// Estimate makes exactly one model call and interprets the reply. Nothing is
// persisted here; any failure comes back as a single wrapped error.
func (e *Estimator) Estimate(ctx context.Context, description string) (pkg.MacroEstimate, error) {
	description = strings.TrimSpace(description)
	if description == "" {
		return pkg.MacroEstimate{}, &pkg.ValidationError{Field: "description", Reason: "must not be empty"}
	}

	messages, err := BuildPrompt(ctx, description)
	if err != nil {
		return pkg.MacroEstimate{}, err
	}

	start := time.Now()
	out, err := e.model.Generate(ctx, messages)
	elapsed := time.Since(start)
	if err != nil {
		return pkg.MacroEstimate{}, fmt.Errorf("error generating estimate: %w", err)
	}

	var content string
	if out != nil {
		content = out.Content
	}
	estimate, err := Interpret(content, description)
	if err != nil {
		logger.Warn().Err(err).Str("description", description).Msg("Could not interpret model reply")
		return pkg.MacroEstimate{}, fmt.Errorf("error interpreting estimate: %w", err)
	}

	event := logger.Debug()
	if elapsed > slowEstimate {
		event = logger.Warn()
	}
	event.Str("item", estimate.ItemName).
		Float64("carbs_g", estimate.Nutrients.CarbsG).
		Dur("elapsed", elapsed).
		Msg("Estimate completed")

	return estimate, nil
}
