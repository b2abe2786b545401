package storage

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"nutrition_tracker/pkg"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProfileLoadMissing(t *testing.T) {
	store := NewProfileStore(filepath.Join(t.TempDir(), "user_profile.json"))

	_, found, err := store.Load()
	require.NoError(t, err)
	assert.False(t, found)
}

func TestProfileLoadInvalidJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "user_profile.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"user_id": "me",`), 0644))

	_, found, err := NewProfileStore(path).Load()
	assert.False(t, found)
	var perr *pkg.ParseError
	require.True(t, errors.As(err, &perr))
	assert.Equal(t, path, perr.Source)
}

func TestProfileSaveAndLoad(t *testing.T) {
	store := NewProfileStore(filepath.Join(t.TempDir(), "nested", "user_profile.json"))
	injections := 4
	want := pkg.UserProfile{
		UserID:     "me",
		Diabetes:   pkg.Type1{InsulinType: "rapid", DailyInjections: &injections},
		Goals:      []pkg.Goal{pkg.GoalAvoidSpikes, pkg.GoalAvoidSpikes},
		CarbBudget: 140,
	}
	require.NoError(t, store.Save(want))

	got, found, err := store.Load()
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "me", got.UserID)
	assert.Equal(t, 140.0, got.CarbBudget)
	assert.Equal(t, []pkg.Goal{pkg.GoalAvoidSpikes}, got.Goals)
	assert.Equal(t, pkg.Type1{InsulinType: "rapid", DailyInjections: &injections}, got.Diabetes)
}

func TestProfileSaveRejectsInvalid(t *testing.T) {
	store := NewProfileStore(filepath.Join(t.TempDir(), "user_profile.json"))

	err := store.Save(pkg.UserProfile{UserID: "me", CarbBudget: -1})
	var verr *pkg.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "carb_budget", verr.Field)

	_, found, _ := store.Load()
	assert.False(t, found)
}

func TestProfileGetOrCreate(t *testing.T) {
	store := NewProfileStore(filepath.Join(t.TempDir(), "user_profile.json"))
	calls := 0
	create := func() (pkg.UserProfile, error) {
		calls++
		return pkg.UserProfile{UserID: "me", Diabetes: pkg.NoDiabetes{}, CarbBudget: 200}, nil
	}

	first, err := store.GetOrCreate(create)
	require.NoError(t, err)
	second, err := store.GetOrCreate(create)
	require.NoError(t, err)

	assert.Equal(t, 1, calls)
	assert.Equal(t, first.UserID, second.UserID)
	assert.Equal(t, pkg.CategoryNone, second.Category())
}

func TestProfileGetOrCreateWithoutCreator(t *testing.T) {
	store := NewProfileStore(filepath.Join(t.TempDir(), "user_profile.json"))
	_, err := store.GetOrCreate(nil)
	assert.ErrorIs(t, err, pkg.ErrProfileNotFound)
}

func TestProfileGetOrCreateKeepsCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "user_profile.json")
	require.NoError(t, os.WriteFile(path, []byte("not json"), 0644))

	_, err := NewProfileStore(path).GetOrCreate(func() (pkg.UserProfile, error) {
		t.Fatal("creator must not run")
		return pkg.UserProfile{}, nil
	})
	require.Error(t, err)

	data, _ := os.ReadFile(path)
	assert.Equal(t, "not json", string(data))
}
