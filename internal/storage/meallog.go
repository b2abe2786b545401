package storage

import (
	"os"
	"sort"
	"strings"
	"time"

	"nutrition_tracker/pkg"
	"nutrition_tracker/src/logger"

	"github.com/tidwall/gjson"
)

// MealLog is the append-only meal log kept as one JSON array file.
// Reads never fail: unreadable files and malformed entries degrade to empty or zero.
type MealLog struct {
	path string
	now  func() time.Time
}

func NewMealLog(path string) *MealLog {
	return &MealLog{path: path, now: time.Now}
}

func (m *MealLog) Path() string { return m.path }

// Today is the current calendar day in DayLayout
func (m *MealLog) Today() string {
	return m.now().Format(pkg.DayLayout)
}

// Append stamps a new entry with the current time and writes the whole log back
func (m *MealLog) Append(userID, itemName string, nutrients pkg.Nutrients, source string) (pkg.MealLogEntry, error) {
	if strings.TrimSpace(userID) == "" {
		return pkg.MealLogEntry{}, &pkg.ValidationError{Field: "user_id", Reason: "must not be empty"}
	}
	if source == "" {
		source = pkg.SourceText
	}

	entry := pkg.MealLogEntry{
		Timestamp: m.now().Format(pkg.TimestampLayout),
		UserID:    userID,
		ItemName:  itemName,
		Source:    source,
		Nutrients: nutrients.Normalized(),
	}
	if err := appendRecord(m.path, entry); err != nil {
		return pkg.MealLogEntry{}, err
	}

	logger.Debug().Str("path", m.path).Str("user_id", userID).Str("item", itemName).Msg("Meal logged")
	return entry, nil
}

// Entries returns every object entry in file order, fields coerced
func (m *MealLog) Entries() []pkg.MealLogEntry {
	var entries []pkg.MealLogEntry
	for _, r := range readArray(m.path) {
		if !r.IsObject() {
			continue
		}
		entries = append(entries, mealEntryOf(r))
	}
	return entries
}

func mealEntryOf(r gjson.Result) pkg.MealLogEntry {
	return pkg.MealLogEntry{
		Timestamp: r.Get("ts").String(),
		UserID:    r.Get("user_id").String(),
		ItemName:  r.Get("item_name").String(),
		Source:    r.Get("source").String(),
		Nutrients: nutrientsOf(r),
	}
}

// Totals sums a user's entries on day. Entries with a malformed timestamp never match.
func (m *MealLog) Totals(userID, day string) pkg.DailyTotals {
	totals := pkg.DailyTotals{Day: day, UserID: userID}
	for _, e := range m.Entries() {
		if e.UserID != userID || e.Day() == "" || e.Day() != day {
			continue
		}
		totals.Nutrients = totals.Nutrients.Add(e.Nutrients)
		totals.EntryCount++
	}
	return totals
}

func (m *MealLog) TodayTotals(userID string) pkg.DailyTotals {
	return m.Totals(userID, m.Today())
}

// History returns a user's entries most recent first. An empty day means all time.
func (m *MealLog) History(userID, day string) []pkg.MealLogEntry {
	var out []pkg.MealLogEntry
	for _, e := range m.Entries() {
		if e.UserID != userID {
			continue
		}
		if day != "" && (e.Day() == "" || e.Day() != day) {
			continue
		}
		out = append(out, e)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Timestamp > out[j].Timestamp
	})
	return out
}

// DailySeries returns one DailyTotals per calendar day starting at from, oldest first
func (m *MealLog) DailySeries(userID string, from time.Time, days int) []pkg.DailyTotals {
	if days <= 0 {
		return nil
	}
	series := make([]pkg.DailyTotals, days)
	index := make(map[string]int, days)
	for i := range series {
		day := from.AddDate(0, 0, i).Format(pkg.DayLayout)
		series[i] = pkg.DailyTotals{Day: day, UserID: userID}
		index[day] = i
	}

	for _, e := range m.Entries() {
		if e.UserID != userID {
			continue
		}
		i, ok := index[e.Day()]
		if !ok {
			continue
		}
		series[i].Nutrients = series[i].Nutrients.Add(e.Nutrients)
		series[i].EntryCount++
	}
	return series
}

// RecentSeries is DailySeries over the last days calendar days, ending today
func (m *MealLog) RecentSeries(userID string, days int) []pkg.DailyTotals {
	now := m.now()
	start := time.Date(now.Year(), now.Month(), now.Day()-(days-1), 0, 0, 0, 0, now.Location())
	return m.DailySeries(userID, start, days)
}

// Stats counts a user's entries and the distinct days they span
func (m *MealLog) Stats(userID string) pkg.LogStats {
	stats := pkg.LogStats{UserID: userID}
	days := make(map[string]bool)
	for _, e := range m.Entries() {
		if e.UserID != userID {
			continue
		}
		stats.TotalEntries++
		if d := e.Day(); d != "" {
			days[d] = true
		}
		if stats.OldestEntry == "" || e.Timestamp < stats.OldestEntry {
			stats.OldestEntry = e.Timestamp
		}
		if e.Timestamp > stats.NewestEntry {
			stats.NewestEntry = e.Timestamp
		}
	}
	stats.DaysLogged = len(days)

	if info, err := os.Stat(m.path); err == nil {
		stats.FileSizeBytes = info.Size()
	}
	return stats
}
