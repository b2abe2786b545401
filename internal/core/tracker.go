package core

import (
	"context"
	"fmt"

	"nutrition_tracker/pkg"
	"nutrition_tracker/src/logger"
)

// Estimator turns a food description into a macro estimate
type Estimator interface {
	Estimate(ctx context.Context, description string) (pkg.MacroEstimate, error)
}

// MealStore is the meal log as the tracker uses it
type MealStore interface {
	Today() string
	Append(userID, itemName string, nutrients pkg.Nutrients, source string) (pkg.MealLogEntry, error)
	Totals(userID, day string) pkg.DailyTotals
	History(userID, day string) []pkg.MealLogEntry
	RecentSeries(userID string, days int) []pkg.DailyTotals
	Stats(userID string) pkg.LogStats
}

// GlucoseStore is the blood sugar log as the tracker uses it
type GlucoseStore interface {
	Add(level float64, mealType, notes string) (pkg.BloodSugarEntry, error)
	List(day string) []pkg.BloodSugarEntry
	Average(day string) (float64, bool)
}

// ProfileStore loads and saves the single profile
type ProfileStore interface {
	Load() (pkg.UserProfile, bool, error)
	Save(p pkg.UserProfile) error
}

// Tracker ties estimation to the logs. Every presentation surface goes through it.
type Tracker struct {
	estimator Estimator
	meals     MealStore
	glucose   GlucoseStore
	profiles  ProfileStore
}

func NewTracker(estimator Estimator, meals MealStore, glucose GlucoseStore, profiles ProfileStore) *Tracker {
	return &Tracker{
		estimator: estimator,
		meals:     meals,
		glucose:   glucose,
		profiles:  profiles,
	}
}

// Profile returns the stored profile or pkg.ErrProfileNotFound
func (t *Tracker) Profile() (pkg.UserProfile, error) {
	p, found, err := t.profiles.Load()
	if err != nil {
		return pkg.UserProfile{}, err
	}
	if !found {
		return pkg.UserProfile{}, pkg.ErrProfileNotFound
	}
	return p, nil
}

func (t *Tracker) SaveProfile(p pkg.UserProfile) error {
	return t.profiles.Save(p)
}

// Estimate asks the model without logging anything
func (t *Tracker) Estimate(ctx context.Context, description string) (pkg.MacroEstimate, error) {
	if t.estimator == nil {
		return pkg.MacroEstimate{}, fmt.Errorf("no estimator configured")
	}
	return t.estimator.Estimate(ctx, description)
}

// LogMeal estimates description and appends the result for userID. Nothing is
// written when the estimate fails.
func (t *Tracker) LogMeal(ctx context.Context, userID, description string) (pkg.MealLogEntry, error) {
	estimate, err := t.Estimate(ctx, description)
	if err != nil {
		return pkg.MealLogEntry{}, err
	}
	return t.LogEstimate(userID, estimate)
}

// LogEstimate appends an estimate that was already obtained, e.g. after the user confirmed it
func (t *Tracker) LogEstimate(userID string, estimate pkg.MacroEstimate) (pkg.MealLogEntry, error) {
	entry, err := t.meals.Append(userID, estimate.ItemName, estimate.Nutrients, pkg.SourceText)
	if err != nil {
		return pkg.MealLogEntry{}, fmt.Errorf("failed to log meal: %w", err)
	}
	logger.Info().
		Str("user_id", userID).
		Str("item", entry.ItemName).
		Float64("carbs_g", entry.Nutrients.CarbsG).
		Msg("Meal logged")
	return entry, nil
}

func (t *Tracker) Today() string {
	return t.meals.Today()
}

func (t *Tracker) TodayTotals(userID string) pkg.DailyTotals {
	return t.meals.Totals(userID, t.meals.Today())
}

func (t *Tracker) Totals(userID, day string) pkg.DailyTotals {
	return t.meals.Totals(userID, day)
}

// Budget compares today's carbs with the profile budget
func (t *Tracker) Budget(p pkg.UserProfile) BudgetStatus {
	return NewBudgetStatus(p.CarbBudget, t.TodayTotals(p.UserID).Nutrients.CarbsG)
}

// CarbsRemaining is today's unused budget, never negative
func (t *Tracker) CarbsRemaining(p pkg.UserProfile) float64 {
	return t.Budget(p).Remaining
}

// History lists a user's meals most recent first, for today only or all time
func (t *Tracker) History(userID string, todayOnly bool) []pkg.MealLogEntry {
	day := ""
	if todayOnly {
		day = t.meals.Today()
	}
	return t.meals.History(userID, day)
}

// Week is the daily series for the last seven days, oldest first
func (t *Tracker) Week(userID string) []pkg.DailyTotals {
	return t.meals.RecentSeries(userID, 7)
}

// Stats summarizes everything a user has logged
func (t *Tracker) Stats(userID string) pkg.LogStats {
	return t.meals.Stats(userID)
}

func (t *Tracker) LogBloodSugar(level float64, mealType, notes string) (pkg.BloodSugarEntry, error) {
	entry, err := t.glucose.Add(level, mealType, notes)
	if err != nil {
		return pkg.BloodSugarEntry{}, fmt.Errorf("failed to log blood sugar: %w", err)
	}
	return entry, nil
}

func (t *Tracker) BloodSugar(day string) []pkg.BloodSugarEntry {
	return t.glucose.List(day)
}

func (t *Tracker) AverageGlucose(day string) (float64, bool) {
	return t.glucose.Average(day)
}
