package core

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"nutrition_tracker/internal/storage"
	"nutrition_tracker/pkg"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubEstimator struct {
	estimates map[string]pkg.MacroEstimate
	err       error
}

func (s stubEstimator) Estimate(_ context.Context, description string) (pkg.MacroEstimate, error) {
	if s.err != nil {
		return pkg.MacroEstimate{}, s.err
	}
	return s.estimates[description], nil
}

func newTestTracker(t *testing.T, est Estimator) (*Tracker, string) {
	t.Helper()
	dir := t.TempDir()
	tr := NewTracker(
		est,
		storage.NewMealLog(filepath.Join(dir, "meal_log.json")),
		storage.NewBloodSugarLog(filepath.Join(dir, "blood_sugar_log.json")),
		storage.NewProfileStore(filepath.Join(dir, "user_profile.json")),
	)
	return tr, dir
}

func TestTrackerLogMealAndBudget(t *testing.T) {
	est := stubEstimator{estimates: map[string]pkg.MacroEstimate{
		"toast":  {ItemName: "toast", Nutrients: pkg.Nutrients{CarbsG: 15}},
		"banana": {ItemName: "banana", Nutrients: pkg.Nutrients{CarbsG: 27}},
	}}
	tr, _ := newTestTracker(t, est)
	profile := pkg.UserProfile{UserID: "me", Diabetes: pkg.Type2{}, CarbBudget: 50}
	require.NoError(t, tr.SaveProfile(profile))

	_, err := tr.LogMeal(context.Background(), "me", "toast")
	require.NoError(t, err)
	_, err = tr.LogMeal(context.Background(), "me", "banana")
	require.NoError(t, err)

	assert.Equal(t, 42.0, tr.TodayTotals("me").Nutrients.CarbsG)
	assert.Equal(t, 8.0, tr.CarbsRemaining(profile))
	assert.False(t, tr.Budget(profile).Reached)

	history := tr.History("me", true)
	require.Len(t, history, 2)
	assert.Len(t, tr.Week("me"), 7)
	assert.Equal(t, 42.0, tr.Week("me")[6].Nutrients.CarbsG)
}

func TestTrackerLogMealEstimateFailureWritesNothing(t *testing.T) {
	tr, dir := newTestTracker(t, stubEstimator{err: pkg.ErrEmptyOutput})

	_, err := tr.LogMeal(context.Background(), "me", "mystery")
	assert.ErrorIs(t, err, pkg.ErrEmptyOutput)

	_, statErr := os.Stat(filepath.Join(dir, "meal_log.json"))
	assert.True(t, errors.Is(statErr, os.ErrNotExist))
}

func TestTrackerProfileNotFound(t *testing.T) {
	tr, _ := newTestTracker(t, nil)
	_, err := tr.Profile()
	assert.ErrorIs(t, err, pkg.ErrProfileNotFound)

	_, err = tr.Estimate(context.Background(), "anything")
	assert.Error(t, err)
}

func TestTrackerBloodSugar(t *testing.T) {
	tr, _ := newTestTracker(t, nil)

	_, err := tr.LogBloodSugar(0, "", "")
	var verr *pkg.ValidationError
	assert.ErrorAs(t, err, &verr)

	_, err = tr.LogBloodSugar(100, "Fasting", "")
	require.NoError(t, err)
	_, err = tr.LogBloodSugar(140, "After meal", "")
	require.NoError(t, err)

	avg, ok := tr.AverageGlucose("")
	require.True(t, ok)
	assert.Equal(t, 120.0, avg)
	assert.Len(t, tr.BloodSugar(tr.Today()), 2)
}
