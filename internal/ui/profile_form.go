package ui

import (
	"fmt"
	"strconv"
	"strings"

	"nutrition_tracker/internal/storage"
	"nutrition_tracker/pkg"

	"github.com/charmbracelet/huh"
)

// ProfileAnswers holds raw form values before they are parsed into a profile
type ProfileAnswers struct {
	UserID     string
	Category   string
	Goals      []string
	CarbBudget string

	InsulinType     string
	DailyInjections string
	A1C             string
	Medication      string
	Comorbidities   string
	FastingGlucose  string
	RiskFactors     string
}

// AnswersFromProfile pre-fills the form from an existing profile
func AnswersFromProfile(p pkg.UserProfile) ProfileAnswers {
	a := ProfileAnswers{
		UserID:   p.UserID,
		Category: string(p.Category()),
	}
	if p.CarbBudget > 0 {
		a.CarbBudget = strconv.FormatFloat(p.CarbBudget, 'f', -1, 64)
	}
	for _, g := range p.Goals {
		a.Goals = append(a.Goals, string(g))
	}

	switch d := p.Diabetes.(type) {
	case pkg.Type1:
		a.InsulinType = d.InsulinType
		a.DailyInjections = intText(d.DailyInjections)
		a.A1C = floatText(d.A1C)
	case pkg.Type2:
		a.Medication = d.Medication
		a.A1C = floatText(d.A1C)
		a.Comorbidities = d.Comorbidities
	case pkg.Prediabetes:
		a.FastingGlucose = floatText(d.FastingGlucose)
		a.A1C = floatText(d.A1C)
		a.RiskFactors = d.RiskFactors
	}
	return a
}

// Profile parses the answers. Optional numeric fields may be blank.
func (a ProfileAnswers) Profile() (pkg.UserProfile, error) {
	category, ok := pkg.ParseCategory(a.Category)
	if !ok {
		return pkg.UserProfile{}, &pkg.ValidationError{Field: "diabetes_type", Reason: fmt.Sprintf("unknown category %q", a.Category)}
	}

	budget, err := strconv.ParseFloat(strings.TrimSpace(a.CarbBudget), 64)
	if err != nil {
		return pkg.UserProfile{}, &pkg.ValidationError{Field: "carb_budget", Reason: fmt.Sprintf("not a number: %q", a.CarbBudget)}
	}

	a1c, err := optionalNumber("a1c", a.A1C)
	if err != nil {
		return pkg.UserProfile{}, err
	}

	var diabetes pkg.DiabetesType
	switch category {
	case pkg.CategoryT1:
		injections, err := optionalNumber("daily_injections", a.DailyInjections)
		if err != nil {
			return pkg.UserProfile{}, err
		}
		var n *int
		if injections != nil {
			v := int(*injections)
			n = &v
		}
		diabetes = pkg.Type1{InsulinType: strings.TrimSpace(a.InsulinType), DailyInjections: n, A1C: a1c}
	case pkg.CategoryT2:
		diabetes = pkg.Type2{Medication: strings.TrimSpace(a.Medication), A1C: a1c, Comorbidities: strings.TrimSpace(a.Comorbidities)}
	case pkg.CategoryPrediabetes:
		fasting, err := optionalNumber("fasting_glucose", a.FastingGlucose)
		if err != nil {
			return pkg.UserProfile{}, err
		}
		diabetes = pkg.Prediabetes{FastingGlucose: fasting, A1C: a1c, RiskFactors: strings.TrimSpace(a.RiskFactors)}
	default:
		diabetes = pkg.NoDiabetes{}
	}

	goals := make([]pkg.Goal, 0, len(a.Goals))
	for _, g := range a.Goals {
		goals = append(goals, pkg.Goal(g))
	}

	p := pkg.UserProfile{
		UserID:     strings.TrimSpace(a.UserID),
		Diabetes:   diabetes,
		Goals:      pkg.NormalizeGoals(goals),
		CarbBudget: budget,
	}
	if err := p.Validate(); err != nil {
		return pkg.UserProfile{}, err
	}
	return p, nil
}

// RunProfileForm shows the interactive profile form seeded with initial
func RunProfileForm(initial ProfileAnswers) (pkg.UserProfile, error) {
	a := initial
	if a.Category == "" {
		a.Category = string(pkg.CategoryNone)
	}

	categoryOptions := make([]huh.Option[string], 0, len(pkg.DiabetesCategories))
	for _, c := range pkg.DiabetesCategories {
		categoryOptions = append(categoryOptions, huh.NewOption(string(c), string(c)))
	}
	goalOptions := make([]huh.Option[string], 0, len(pkg.GeneralGoals))
	for _, g := range pkg.GeneralGoals {
		goalOptions = append(goalOptions, huh.NewOption(string(g), string(g)))
	}

	is := func(c pkg.DiabetesCategory) func() bool {
		return func() bool { return a.Category != string(c) }
	}

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("User ID").
				Value(&a.UserID).
				Validate(required("user ID")),
			huh.NewSelect[string]().
				Title("Diabetes type").
				Options(categoryOptions...).
				Value(&a.Category),
			huh.NewMultiSelect[string]().
				Title("Goals").
				Options(goalOptions...).
				Value(&a.Goals),
			huh.NewInput().
				Title("Daily carb budget (g)").
				Value(&a.CarbBudget).
				Validate(positiveNumber),
		),
		huh.NewGroup(
			huh.NewInput().Title("Insulin type").Value(&a.InsulinType),
			huh.NewInput().Title("Daily injections").Value(&a.DailyInjections).Validate(blankOrNumber),
			huh.NewInput().Title("A1C (%)").Value(&a.A1C).Validate(blankOrNumber),
		).WithHideFunc(is(pkg.CategoryT1)),
		huh.NewGroup(
			huh.NewInput().Title("Medication").Value(&a.Medication),
			huh.NewInput().Title("A1C (%)").Value(&a.A1C).Validate(blankOrNumber),
			huh.NewInput().Title("Comorbidities").Value(&a.Comorbidities),
		).WithHideFunc(is(pkg.CategoryT2)),
		huh.NewGroup(
			huh.NewInput().Title("Fasting glucose (mg/dL)").Value(&a.FastingGlucose).Validate(blankOrNumber),
			huh.NewInput().Title("A1C (%)").Value(&a.A1C).Validate(blankOrNumber),
			huh.NewInput().Title("Risk factors").Value(&a.RiskFactors),
		).WithHideFunc(is(pkg.CategoryPrediabetes)),
	)

	if err := form.Run(); err != nil {
		return pkg.UserProfile{}, err
	}
	return a.Profile()
}

// ProfileCreator adapts the form for storage.ProfileStore.GetOrCreate
func ProfileCreator() storage.ProfileCreator {
	return func() (pkg.UserProfile, error) {
		fmt.Println(titleStyle.Render("No profile found, let's create one"))
		return RunProfileForm(ProfileAnswers{})
	}
}

func required(name string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return fmt.Errorf("%s is required", name)
		}
		return nil
	}
}

func positiveNumber(s string) error {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || !(f > 0) {
		return fmt.Errorf("enter a positive number")
	}
	return nil
}

func blankOrNumber(s string) error {
	_, err := optionalNumber("value", s)
	return err
}

func optionalNumber(field, s string) (*float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || f < 0 {
		return nil, &pkg.ValidationError{Field: field, Reason: fmt.Sprintf("not a non-negative number: %q", s)}
	}
	return &f, nil
}

func floatText(f *float64) string {
	if f == nil {
		return ""
	}
	return strconv.FormatFloat(*f, 'f', -1, 64)
}

func intText(n *int) string {
	if n == nil {
		return ""
	}
	return strconv.Itoa(*n)
}
