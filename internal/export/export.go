package export

import (
	"fmt"
	"sort"
	"strings"

	"nutrition_tracker/pkg"
)

// Formats accepted by Write
const (
	FormatCSV    = "csv"
	FormatJSON   = "json"
	FormatSQLite = "sqlite"
)

// Write dispatches to the exporter for format
func Write(format string, meals []pkg.MealLogEntry, path string) error {
	switch strings.ToLower(format) {
	case FormatCSV:
		return ToCSV(meals, path)
	case FormatJSON:
		return ToJSON(meals, path)
	case FormatSQLite, "db":
		return ToSQLite(meals, path)
	}
	return fmt.Errorf("unknown export format %q (want csv, json or sqlite)", format)
}

func sortDays(days []pkg.DailyTotals) {
	sort.Slice(days, func(i, j int) bool { return days[i].Day < days[j].Day })
}
