package storage

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"nutrition_tracker/pkg"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBloodSugarAddAndList(t *testing.T) {
	log := NewBloodSugarLog(filepath.Join(t.TempDir(), "blood_sugar_log.json"))
	log.now = fixedClock(at("2024-05-01", 7), at("2024-05-01", 13), at("2024-05-02", 7))

	_, err := log.Add(95, "Fasting", "")
	require.NoError(t, err)
	_, err = log.Add(160, "After meal", "pasta")
	require.NoError(t, err)
	_, err = log.Add(101, "", "")
	require.NoError(t, err)

	day := log.List("2024-05-01")
	require.Len(t, day, 2)
	assert.Equal(t, 160.0, day[0].GlucoseLevel)
	assert.Equal(t, "pasta", day[0].Notes)
	assert.Len(t, log.List(""), 3)

	avg, ok := log.Average("2024-05-01")
	require.True(t, ok)
	assert.InDelta(t, 127.5, avg, 1e-9)

	_, ok = log.Average("2024-06-01")
	assert.False(t, ok)
}

func TestBloodSugarAddRejectsBadLevel(t *testing.T) {
	log := NewBloodSugarLog(filepath.Join(t.TempDir(), "blood_sugar_log.json"))
	for _, level := range []float64{0, -10, math.NaN()} {
		_, err := log.Add(level, "", "")
		var verr *pkg.ValidationError
		assert.ErrorAs(t, err, &verr)
	}
	assert.Empty(t, log.List(""))
}

func TestBloodSugarSkipsUnusableReadings(t *testing.T) {
	path := filepath.Join(t.TempDir(), "blood_sugar_log.json")
	raw := `[
		{"timestamp":"2024-05-01T07:00:00.000000+00:00","glucose_level":"110"},
		{"timestamp":"2024-05-01T08:00:00.000000+00:00","glucose_level":"high"},
		{"timestamp":"2024-05-01T09:00:00.000000+00:00"},
		null
	]`
	require.NoError(t, os.WriteFile(path, []byte(raw), 0644))

	readings := NewBloodSugarLog(path).List("")
	require.Len(t, readings, 1)
	assert.Equal(t, 110.0, readings[0].GlucoseLevel)
}
