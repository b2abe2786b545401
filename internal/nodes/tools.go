package nodes

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"nutrition_tracker/internal/core"
	"nutrition_tracker/internal/services"
	"nutrition_tracker/pkg"
	"nutrition_tracker/src/logger"

	"github.com/cloudwego/eino/components/tool"
	"github.com/cloudwego/eino/components/tool/utils"
)

// Tool names, shared by the MCP endpoint and the chat assistant
const (
	ToolEstimateMacros    = "estimate_macros"
	ToolLogMeal           = "log_meal"
	ToolTodayTotals       = "get_today_totals"
	ToolGetMeals          = "get_meals"
	ToolLogBloodSugar     = "log_blood_sugar"
	ToolAverageGlucose    = "get_average_glucose"
	ToolBudgetStatus      = "budget_status"
	ToolSuggestLowGIFoods = "suggest_low_gi_foods"
	ToolLogStats          = "get_log_stats"
)

type DescriptionInput struct {
	Description string `json:"description" jsonschema:"description=Free-text description of the food or meal"`
}

type LogMealInput struct {
	Description string `json:"description" jsonschema:"description=Free-text description of the food or meal"`
	UserID      string `json:"user_id,omitempty" jsonschema:"description=User to log for; defaults to the profile user"`
}

type UserInput struct {
	UserID string `json:"user_id,omitempty" jsonschema:"description=User id; defaults to the profile user"`
}

// BudgetInput is empty: the budget belongs to the profile user
type BudgetInput struct{}

type MealsInput struct {
	UserID    string `json:"user_id,omitempty" jsonschema:"description=User id; defaults to the profile user"`
	TodayOnly bool   `json:"today_only,omitempty" jsonschema:"description=Only return today's meals"`
}

type BloodSugarInput struct {
	GlucoseLevel float64 `json:"glucose_level" jsonschema:"description=Reading in mg/dL"`
	MealType     string  `json:"meal_type,omitempty" jsonschema:"description=e.g. Fasting or After meal"`
	Notes        string  `json:"notes,omitempty"`
}

type DayInput struct {
	Day string `json:"day,omitempty" jsonschema:"description=Calendar day YYYY-MM-DD; empty for all readings"`
}

type FoodQueryInput struct {
	Query string `json:"query,omitempty" jsonschema:"description=Name or food group to filter by"`
}

type MealsOutput struct {
	UserID string             `json:"user_id"`
	Meals  []pkg.MealLogEntry `json:"meals"`
}

type AverageGlucoseOutput struct {
	Day     string  `json:"day,omitempty"`
	Average float64 `json:"average"`
	Found   bool    `json:"found"`
}

type BudgetOutput struct {
	core.BudgetStatus
	Message string `json:"message"`
}

// Toolset exposes tracker operations as eino tools
type Toolset struct {
	tracker *core.Tracker
	foods   *services.FoodService
}

func NewToolset(tracker *core.Tracker, foods *services.FoodService) *Toolset {
	return &Toolset{tracker: tracker, foods: foods}
}

// userID falls back to the stored profile's user
func (ts *Toolset) userID(id string) (string, error) {
	if id = strings.TrimSpace(id); id != "" {
		return id, nil
	}
	p, err := ts.tracker.Profile()
	if err != nil {
		if errors.Is(err, pkg.ErrProfileNotFound) {
			return "", fmt.Errorf("user_id is required when no profile exists")
		}
		return "", err
	}
	return p.UserID, nil
}

// Tools builds every tool. Construction only fails on a schema inference bug.
func (ts *Toolset) Tools() ([]tool.InvokableTool, error) {
	var (
		tools []tool.InvokableTool
		errs  []error
	)
	add := func(t tool.InvokableTool, err error) {
		if err != nil {
			errs = append(errs, err)
			return
		}
		tools = append(tools, t)
	}

	add(utils.InferTool(ToolEstimateMacros, "Estimate carbs, calories, protein and fat of a food description without logging it",
		func(ctx context.Context, in DescriptionInput) (pkg.MacroEstimate, error) {
			return ts.tracker.Estimate(ctx, in.Description)
		}))

	add(utils.InferTool(ToolLogMeal, "Estimate a food description and append it to the meal log",
		func(ctx context.Context, in LogMealInput) (pkg.MealLogEntry, error) {
			userID, err := ts.userID(in.UserID)
			if err != nil {
				return pkg.MealLogEntry{}, err
			}
			return ts.tracker.LogMeal(ctx, userID, in.Description)
		}))

	add(utils.InferTool(ToolTodayTotals, "Sum today's logged nutrients for a user",
		func(ctx context.Context, in UserInput) (pkg.DailyTotals, error) {
			userID, err := ts.userID(in.UserID)
			if err != nil {
				return pkg.DailyTotals{}, err
			}
			return ts.tracker.TodayTotals(userID), nil
		}))

	add(utils.InferTool(ToolGetMeals, "List a user's logged meals, most recent first",
		func(ctx context.Context, in MealsInput) (MealsOutput, error) {
			userID, err := ts.userID(in.UserID)
			if err != nil {
				return MealsOutput{}, err
			}
			meals := ts.tracker.History(userID, in.TodayOnly)
			if meals == nil {
				meals = []pkg.MealLogEntry{}
			}
			return MealsOutput{UserID: userID, Meals: meals}, nil
		}))

	add(utils.InferTool(ToolLogBloodSugar, "Record a blood glucose reading in mg/dL",
		func(ctx context.Context, in BloodSugarInput) (pkg.BloodSugarEntry, error) {
			return ts.tracker.LogBloodSugar(in.GlucoseLevel, in.MealType, in.Notes)
		}))

	add(utils.InferTool(ToolAverageGlucose, "Average blood glucose, for one day or overall",
		func(ctx context.Context, in DayInput) (AverageGlucoseOutput, error) {
			avg, ok := ts.tracker.AverageGlucose(in.Day)
			return AverageGlucoseOutput{Day: in.Day, Average: avg, Found: ok}, nil
		}))

	add(utils.InferTool(ToolBudgetStatus, "Compare today's carbs with the profile's daily carb budget",
		func(ctx context.Context, _ BudgetInput) (BudgetOutput, error) {
			p, err := ts.tracker.Profile()
			if err != nil {
				return BudgetOutput{}, err
			}
			status := ts.tracker.Budget(p)
			return BudgetOutput{BudgetStatus: status, Message: status.String()}, nil
		}))

	add(utils.InferTool(ToolLogStats, "Count a user's logged meals and the days they span",
		func(ctx context.Context, in UserInput) (pkg.LogStats, error) {
			userID, err := ts.userID(in.UserID)
			if err != nil {
				return pkg.LogStats{}, err
			}
			return ts.tracker.Stats(userID), nil
		}))

	add(utils.InferTool(ToolSuggestLowGIFoods, "Suggest low glycemic index foods",
		func(ctx context.Context, in FoodQueryInput) ([]services.Food, error) {
			foods := ts.foods.Search(ctx, in.Query)
			if foods == nil {
				foods = []services.Food{}
			}
			return foods, nil
		}))

	if err := errors.Join(errs...); err != nil {
		return nil, fmt.Errorf("failed to build tools: %w", err)
	}
	logger.Debug().Int("count", len(tools)).Msg("Tools ready")
	return tools, nil
}

// ToolMap indexes tools by name
func ToolMap(ctx context.Context, tools []tool.InvokableTool) (map[string]tool.InvokableTool, error) {
	m := make(map[string]tool.InvokableTool, len(tools))
	for _, t := range tools {
		info, err := t.Info(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to read tool info: %w", err)
		}
		m[info.Name] = t
	}
	return m, nil
}
