package pkg

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/tidwall/gjson"
)

// DiabetesCategory names one variant of DiabetesType
type DiabetesCategory string

const (
	CategoryT1          DiabetesCategory = "T1"
	CategoryT2          DiabetesCategory = "T2"
	CategoryPrediabetes DiabetesCategory = "Prediabetes"
	CategoryNone        DiabetesCategory = "None"
)

// DiabetesCategories lists the categories in display order
var DiabetesCategories = []DiabetesCategory{CategoryT1, CategoryT2, CategoryPrediabetes, CategoryNone}

// ParseCategory matches s against the known categories, ignoring case
func ParseCategory(s string) (DiabetesCategory, bool) {
	s = strings.TrimSpace(s)
	for _, c := range DiabetesCategories {
		if strings.EqualFold(string(c), s) {
			return c, true
		}
	}
	return "", false
}

// DiabetesType is the tagged union of category-specific profile details
type DiabetesType interface {
	Category() DiabetesCategory
}

// Type1 details
type Type1 struct {
	InsulinType     string   `json:"insulin_type,omitempty"`
	DailyInjections *int     `json:"daily_injections,omitempty"`
	A1C             *float64 `json:"a1c,omitempty"`
}

// Type2 details
type Type2 struct {
	Medication    string   `json:"medication,omitempty"`
	A1C           *float64 `json:"a1c,omitempty"`
	Comorbidities string   `json:"comorbidities,omitempty"`
}

// Prediabetes details
type Prediabetes struct {
	FastingGlucose *float64 `json:"fasting_glucose,omitempty"`
	A1C            *float64 `json:"a1c,omitempty"`
	RiskFactors    string   `json:"risk_factors,omitempty"`
}

// NoDiabetes carries no details
type NoDiabetes struct{}

func (Type1) Category() DiabetesCategory       { return CategoryT1 }
func (Type2) Category() DiabetesCategory       { return CategoryT2 }
func (Prediabetes) Category() DiabetesCategory { return CategoryPrediabetes }
func (NoDiabetes) Category() DiabetesCategory  { return CategoryNone }

// NewDiabetesType returns the empty variant for a category
func NewDiabetesType(c DiabetesCategory) (DiabetesType, error) {
	switch c {
	case CategoryT1:
		return Type1{}, nil
	case CategoryT2:
		return Type2{}, nil
	case CategoryPrediabetes:
		return Prediabetes{}, nil
	case CategoryNone:
		return NoDiabetes{}, nil
	}
	return nil, &ValidationError{Field: "diabetes_type", Reason: fmt.Sprintf("unknown category %q", c)}
}

// Goal is one tag from the fixed goal vocabulary
type Goal string

const (
	GoalAvoidSpikes Goal = "Avoid spikes"
	GoalWeightLoss  Goal = "Weight loss"
)

// GeneralGoals is the goal vocabulary
var GeneralGoals = []Goal{GoalAvoidSpikes, GoalWeightLoss}

// ParseGoal matches s against the vocabulary, ignoring case
func ParseGoal(s string) (Goal, bool) {
	s = strings.TrimSpace(s)
	for _, g := range GeneralGoals {
		if strings.EqualFold(string(g), s) {
			return g, true
		}
	}
	return "", false
}

// NormalizeGoals trims, drops empties and duplicates, keeping first-seen order
func NormalizeGoals(goals []Goal) []Goal {
	seen := make(map[Goal]bool, len(goals))
	out := make([]Goal, 0, len(goals))
	for _, g := range goals {
		g = Goal(strings.TrimSpace(string(g)))
		if g == "" || seen[g] {
			continue
		}
		seen[g] = true
		out = append(out, g)
	}
	return out
}

// UserProfile is the single installation profile
type UserProfile struct {
	UserID     string
	Diabetes   DiabetesType
	Goals      []Goal
	CarbBudget float64
}

// Category returns the profile's diabetes category, None when unset
func (p UserProfile) Category() DiabetesCategory {
	if p.Diabetes == nil {
		return CategoryNone
	}
	return p.Diabetes.Category()
}

// Validate enforces the profile invariants checked before every save
func (p UserProfile) Validate() error {
	if strings.TrimSpace(p.UserID) == "" {
		return &ValidationError{Field: "user_id", Reason: "must not be empty"}
	}
	if !(p.CarbBudget > 0) {
		return &ValidationError{Field: "carb_budget", Reason: fmt.Sprintf("must be positive, got %v", p.CarbBudget)}
	}
	if p.Diabetes != nil {
		if _, err := NewDiabetesType(p.Diabetes.Category()); err != nil {
			return err
		}
	}
	for _, g := range p.Goals {
		if _, ok := ParseGoal(string(g)); !ok {
			return &ValidationError{Field: "general_goals", Reason: fmt.Sprintf("unknown goal %q", g)}
		}
	}
	return nil
}

type profileFile struct {
	UserID       string                            `json:"user_id"`
	DiabetesType map[DiabetesCategory]DiabetesType `json:"diabetes_type"`
	GeneralGoals []Goal                            `json:"general_goals"`
	CarbBudget   float64                           `json:"carb_budget"`
}

// MarshalJSON writes {"user_id", "diabetes_type": {<category>: {...}}, "general_goals", "carb_budget"}
func (p UserProfile) MarshalJSON() ([]byte, error) {
	diabetes := p.Diabetes
	if diabetes == nil {
		diabetes = NoDiabetes{}
	}
	goals := p.Goals
	if goals == nil {
		goals = []Goal{}
	}
	return json.Marshal(profileFile{
		UserID:       p.UserID,
		DiabetesType: map[DiabetesCategory]DiabetesType{diabetes.Category(): diabetes},
		GeneralGoals: goals,
		CarbBudget:   p.CarbBudget,
	})
}

// UnmarshalJSON reads the profile file format. Only structurally invalid JSON
// is an error; loosely typed fields written by older tools are coerced.
func (p *UserProfile) UnmarshalJSON(data []byte) error {
	if !gjson.ValidBytes(data) {
		return fmt.Errorf("invalid JSON")
	}
	root := gjson.ParseBytes(data)
	if !root.IsObject() {
		return fmt.Errorf("profile must be a JSON object")
	}

	p.UserID = root.Get("user_id").String()
	p.CarbBudget = NutrientOrZero(root.Get("carb_budget").Value())

	p.Goals = nil
	root.Get("general_goals").ForEach(func(_, g gjson.Result) bool {
		p.Goals = append(p.Goals, Goal(g.String()))
		return true
	})
	p.Goals = NormalizeGoals(p.Goals)

	p.Diabetes = NoDiabetes{}
	root.Get("diabetes_type").ForEach(func(key, details gjson.Result) bool {
		if c, ok := ParseCategory(key.String()); ok {
			p.Diabetes = diabetesFromJSON(c, details)
		}
		return false // first key wins
	})
	return nil
}

func diabetesFromJSON(c DiabetesCategory, r gjson.Result) DiabetesType {
	switch c {
	case CategoryT1:
		return Type1{
			InsulinType:     r.Get("insulin_type").String(),
			DailyInjections: optionalInt(r.Get("daily_injections")),
			A1C:             optionalFloat(r.Get("a1c")),
		}
	case CategoryT2:
		return Type2{
			Medication:    r.Get("medication").String(),
			A1C:           optionalFloat(r.Get("a1c")),
			Comorbidities: r.Get("comorbidities").String(),
		}
	case CategoryPrediabetes:
		return Prediabetes{
			FastingGlucose: optionalFloat(r.Get("fasting_glucose")),
			A1C:            optionalFloat(r.Get("a1c")),
			RiskFactors:    r.Get("risk_factors").String(),
		}
	}
	return NoDiabetes{}
}

func optionalFloat(r gjson.Result) *float64 {
	switch r.Type {
	case gjson.Number:
		f := r.Num
		return &f
	case gjson.String:
		f, err := strconv.ParseFloat(strings.TrimSpace(r.Str), 64)
		if err != nil {
			return nil
		}
		return &f
	}
	return nil
}

func optionalInt(r gjson.Result) *int {
	f := optionalFloat(r)
	if f == nil {
		return nil
	}
	n := int(*f)
	return &n
}
