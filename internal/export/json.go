package export

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"nutrition_tracker/pkg"
)

type jsonExport struct {
	ExportedAt string             `json:"exported_at"`
	Count      int                `json:"count"`
	Totals     pkg.Nutrients      `json:"totals"`
	Days       []pkg.DailyTotals  `json:"days"`
	Meals      []pkg.MealLogEntry `json:"meals"`
}

// ToJSON writes the meals plus overall and per-day totals
func ToJSON(meals []pkg.MealLogEntry, path string) error {
	export := jsonExport{
		ExportedAt: time.Now().UTC().Format(time.RFC3339),
		Count:      len(meals),
		Days:       dailyTotals(meals),
		Meals:      meals,
	}
	if export.Meals == nil {
		export.Meals = []pkg.MealLogEntry{}
	}
	for _, m := range meals {
		export.Totals = export.Totals.Add(m.Nutrients)
	}

	data, err := json.MarshalIndent(export, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal json: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write json file: %w", err)
	}
	return nil
}

// dailyTotals groups meals by calendar day, oldest day first.
// Meals with a malformed timestamp are left out.
func dailyTotals(meals []pkg.MealLogEntry) []pkg.DailyTotals {
	index := make(map[string]int)
	days := []pkg.DailyTotals{}
	for _, m := range meals {
		day := m.Day()
		if day == "" {
			continue
		}
		i, ok := index[day]
		if !ok {
			i = len(days)
			index[day] = i
			days = append(days, pkg.DailyTotals{Day: day, UserID: m.UserID})
		}
		days[i].Nutrients = days[i].Nutrients.Add(m.Nutrients)
		days[i].EntryCount++
	}
	sortDays(days)
	return days
}
