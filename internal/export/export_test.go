package export

import (
	"database/sql"
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"

	"nutrition_tracker/pkg"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
)

func sampleMeals() []pkg.MealLogEntry {
	return []pkg.MealLogEntry{
		{Timestamp: "2024-05-02T08:00:00.000000+00:00", UserID: "u1", ItemName: "oatmeal, plain", Source: pkg.SourceText, Nutrients: pkg.Nutrients{CarbsG: 27, CaloriesKcal: 150}},
		{Timestamp: "2024-05-01T19:00:00.000000+00:00", UserID: "u1", ItemName: "salmon", Source: pkg.SourceText, Nutrients: pkg.Nutrients{ProteinG: 25, FatG: 12.5}},
		{Timestamp: "2024-05-01T12:00:00.000000+00:00", UserID: "u1", ItemName: "rice", Source: pkg.SourceText, Nutrients: pkg.Nutrients{CarbsG: 45}},
		{Timestamp: "garbled", UserID: "u1", ItemName: "mystery", Source: pkg.SourceText},
	}
}

func TestToCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "meals.csv")
	require.NoError(t, ToCSV(sampleMeals(), path))

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 5)
	assert.Equal(t, csvHeader, records[0])
	assert.Equal(t, "oatmeal, plain", records[1][3])
	assert.Equal(t, "2024-05-02", records[1][1])
	assert.Equal(t, "12.5", records[2][8])
	assert.Equal(t, "", records[4][1])
}

func TestToJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "meals.json")
	require.NoError(t, ToJSON(sampleMeals(), path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	assert.Equal(t, int64(4), gjson.GetBytes(data, "count").Int())
	assert.Equal(t, 72.0, gjson.GetBytes(data, "totals.carbs_g").Float())

	days := gjson.GetBytes(data, "days").Array()
	require.Len(t, days, 2)
	assert.Equal(t, "2024-05-01", days[0].Get("day").String())
	assert.Equal(t, 45.0, days[0].Get("nutrients.carbs_g").Float())
	assert.Equal(t, int64(2), days[0].Get("entry_count").Int())
}

func TestToJSONEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "meals.json")
	require.NoError(t, ToJSON(nil, path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, gjson.GetBytes(data, "meals").IsArray())
}

func TestToSQLite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "meals.db")
	require.NoError(t, ToSQLite(sampleMeals(), path))
	// a second export replaces the first
	require.NoError(t, ToSQLite(sampleMeals(), path))

	db, err := sql.Open("sqlite", path)
	require.NoError(t, err)
	defer db.Close()

	var count int
	require.NoError(t, db.QueryRow("SELECT COUNT(*) FROM meals").Scan(&count))
	assert.Equal(t, 4, count)

	var carbs float64
	var entries int
	require.NoError(t, db.QueryRow("SELECT carbs_g, entry_count FROM daily_totals WHERE day = ?", "2024-05-01").Scan(&carbs, &entries))
	assert.Equal(t, 45.0, carbs)
	assert.Equal(t, 2, entries)
}

func TestWriteUnknownFormat(t *testing.T) {
	err := Write("xml", nil, filepath.Join(t.TempDir(), "x"))
	assert.ErrorContains(t, err, "unknown export format")
}
