package services

import (
	"context"
	"testing"

	"nutrition_tracker/pkg"

	"github.com/stretchr/testify/assert"
)

func TestFormatUserContext(t *testing.T) {
	a1c := 7.1
	p := pkg.UserProfile{
		UserID:     "sam",
		Diabetes:   pkg.Type2{Medication: "metformin", A1C: &a1c},
		Goals:      []pkg.Goal{pkg.GoalAvoidSpikes, pkg.GoalWeightLoss},
		CarbBudget: 130,
	}

	ctx := FormatUserContext(p)
	assert.Contains(t, ctx, "- User ID: sam")
	assert.Contains(t, ctx, "- Diabetes Type: T2")
	assert.Contains(t, ctx, "- Health Goals: Avoid spikes, Weight loss")
	assert.Contains(t, ctx, "- Daily Carb Budget: 130g")
	assert.Contains(t, ctx, `"medication":"metformin"`)
}

func TestFormatUserContextNoDetails(t *testing.T) {
	ctx := FormatUserContext(pkg.UserProfile{UserID: "sam", Diabetes: pkg.NoDiabetes{}, CarbBudget: 200})
	assert.Contains(t, ctx, "- Health Goals: none set")
	assert.NotContains(t, ctx, "Details")

	ctx = FormatUserContext(pkg.UserProfile{UserID: "sam", Diabetes: pkg.Type1{}, CarbBudget: 200})
	assert.NotContains(t, ctx, "Details")
}

func TestTipsFallBackToNone(t *testing.T) {
	assert.NotEmpty(t, Tips(pkg.CategoryT1))
	assert.Equal(t, Tips(pkg.CategoryNone), Tips("Gestational"))
}

func TestSystemPrompt(t *testing.T) {
	p := pkg.UserProfile{UserID: "sam", Diabetes: pkg.Prediabetes{}, CarbBudget: 150}
	prompt := SystemPrompt(p, 42, NewFoodService().Names())

	assert.Contains(t, prompt, "DIABETES MANAGEMENT TIPS FOR Prediabetes")
	assert.Contains(t, prompt, "Carbs Remaining Today: 42.0g")
	assert.Contains(t, prompt, "Lentils, Chickpeas")
}

func TestFoodSearch(t *testing.T) {
	fs := NewFoodService()
	assert.Len(t, fs.Search(context.Background(), ""), len(fs.Names()))

	legumes := fs.Search(context.Background(), "LEGUMES")
	assert.Len(t, legumes, 3)
	assert.Empty(t, fs.Search(context.Background(), "doughnut"))
}
