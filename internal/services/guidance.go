package services

import (
	"encoding/json"
	"fmt"
	"strings"

	"nutrition_tracker/pkg"
)

var tipsByCategory = map[pkg.DiabetesCategory][]string{
	pkg.CategoryT1: {
		"Count carbs at every meal and match them to your insulin-to-carb ratio",
		"Check blood sugar before meals, before exercise and at bedtime",
		"Keep fast-acting glucose on hand for lows",
		"Pair carbs with protein or fat to slow absorption",
	},
	pkg.CategoryT2: {
		"Fill half the plate with non-starchy vegetables",
		"Prefer whole grains and legumes over refined carbs",
		"A short walk after meals helps blunt glucose spikes",
		"Keep meal times regular and portions consistent",
	},
	pkg.CategoryPrediabetes: {
		"Modest weight loss meaningfully lowers the risk of progression",
		"Aim for 150 minutes of moderate activity per week",
		"Swap sugary drinks for water or unsweetened tea",
		"Choose high-fibre foods to stay full and steady",
	},
	pkg.CategoryNone: {
		"Build meals around vegetables, lean protein and whole grains",
		"Limit added sugars and refined snacks",
		"Stay hydrated and keep active most days",
	},
}

// Tips returns the health tips for a diabetes category
func Tips(c pkg.DiabetesCategory) []string {
	if tips, ok := tipsByCategory[c]; ok {
		return tips
	}
	return tipsByCategory[pkg.CategoryNone]
}

// FormatUserContext renders the profile as context text for the assistant
func FormatUserContext(p pkg.UserProfile) string {
	goals := make([]string, len(p.Goals))
	for i, g := range p.Goals {
		goals[i] = string(g)
	}
	if len(goals) == 0 {
		goals = []string{"none set"}
	}

	var b strings.Builder
	b.WriteString("User Profile Information:\n")
	fmt.Fprintf(&b, "- User ID: %s\n", p.UserID)
	fmt.Fprintf(&b, "- Diabetes Type: %s\n", p.Category())
	fmt.Fprintf(&b, "- Health Goals: %s\n", strings.Join(goals, ", "))
	fmt.Fprintf(&b, "- Daily Carb Budget: %gg\n", p.CarbBudget)

	if details := diabetesDetails(p.Diabetes); details != "" {
		fmt.Fprintf(&b, "- Diabetes Type Details: %s\n", details)
	}
	return b.String()
}

func diabetesDetails(d pkg.DiabetesType) string {
	switch d.(type) {
	case nil, pkg.NoDiabetes:
		return ""
	}
	data, err := json.Marshal(d)
	if err != nil || string(data) == "{}" {
		return ""
	}
	return string(data)
}

// SystemPrompt is the assistant's standing instruction for this user
func SystemPrompt(p pkg.UserProfile, carbsRemaining float64, lowGI []string) string {
	var b strings.Builder
	b.WriteString("You are a knowledgeable and compassionate health and nutrition assistant specializing in diabetes management.\n\n")
	b.WriteString(FormatUserContext(p))
	fmt.Fprintf(&b, "- Carbs Remaining Today: %.1fg\n\n", carbsRemaining)

	fmt.Fprintf(&b, "DIABETES MANAGEMENT TIPS FOR %s:\n", p.Category())
	for _, tip := range Tips(p.Category()) {
		fmt.Fprintf(&b, "  - %s\n", tip)
	}

	b.WriteString("\nLOW GLYCEMIC INDEX FOODS TO SUGGEST:\n")
	b.WriteString(strings.Join(lowGI, ", "))
	b.WriteString("\n\nWHEN RESPONDING:\n")
	b.WriteString("- Personalize advice to the user's diabetes type and profile\n")
	b.WriteString("- Give evidence-based nutrition recommendations\n")
	b.WriteString("- Help with carb counting and meal planning\n")
	b.WriteString("- Be supportive and encouraging\n")
	b.WriteString("- Remind the user to consult their healthcare provider for medical decisions\n")
	b.WriteString("- Ask clarifying questions when needed")
	return b.String()
}
