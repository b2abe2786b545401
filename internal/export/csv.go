package export

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"

	"nutrition_tracker/pkg"
)

var csvHeader = []string{"Timestamp", "Day", "User", "Item", "Source", "Carbs (g)", "Calories (kcal)", "Protein (g)", "Fat (g)"}

// ToCSV writes meals as one row each, in the order given
func ToCSV(meals []pkg.MealLogEntry, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create csv file: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(csvHeader); err != nil {
		return err
	}

	for _, m := range meals {
		row := []string{
			m.Timestamp,
			m.Day(),
			m.UserID,
			m.ItemName,
			m.Source,
			formatAmount(m.Nutrients.CarbsG),
			formatAmount(m.Nutrients.CaloriesKcal),
			formatAmount(m.Nutrients.ProteinG),
			formatAmount(m.Nutrients.FatG),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	w.Flush()
	return w.Error()
}

func formatAmount(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
