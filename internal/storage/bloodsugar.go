package storage

import (
	"math"
	"sort"
	"time"

	"nutrition_tracker/pkg"
	"nutrition_tracker/src/logger"

	"github.com/tidwall/gjson"
)

// BloodSugarLog is the append-only glucose reading log
type BloodSugarLog struct {
	path string
	now  func() time.Time
}

func NewBloodSugarLog(path string) *BloodSugarLog {
	return &BloodSugarLog{path: path, now: time.Now}
}

func (b *BloodSugarLog) Path() string { return b.path }

// Add records a reading in mg/dL
func (b *BloodSugarLog) Add(level float64, mealType, notes string) (pkg.BloodSugarEntry, error) {
	if math.IsNaN(level) || math.IsInf(level, 0) || level <= 0 {
		return pkg.BloodSugarEntry{}, &pkg.ValidationError{Field: "glucose_level", Reason: "must be a positive number"}
	}

	entry := pkg.BloodSugarEntry{
		Timestamp:    b.now().Format(pkg.TimestampLayout),
		GlucoseLevel: level,
		MealType:     mealType,
		Notes:        notes,
	}
	if err := appendRecord(b.path, entry); err != nil {
		return pkg.BloodSugarEntry{}, err
	}

	logger.Debug().Str("path", b.path).Float64("glucose_level", level).Msg("Blood sugar logged")
	return entry, nil
}

// List returns readings most recent first, optionally limited to one day.
// Entries without a positive level are skipped.
func (b *BloodSugarLog) List(day string) []pkg.BloodSugarEntry {
	var out []pkg.BloodSugarEntry
	for _, r := range readArray(b.path) {
		e, ok := readingOf(r)
		if !ok {
			continue
		}
		if day != "" && pkg.DayOf(e.Timestamp) != day {
			continue
		}
		out = append(out, e)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Timestamp > out[j].Timestamp
	})
	return out
}

// Average is the mean reading, ok is false when there are none
func (b *BloodSugarLog) Average(day string) (avg float64, ok bool) {
	readings := b.List(day)
	if len(readings) == 0 {
		return 0, false
	}
	var sum float64
	for _, r := range readings {
		sum += r.GlucoseLevel
	}
	return sum / float64(len(readings)), true
}

func readingOf(r gjson.Result) (pkg.BloodSugarEntry, bool) {
	if !r.IsObject() {
		return pkg.BloodSugarEntry{}, false
	}
	level := pkg.NutrientOrZero(r.Get("glucose_level").Value())
	if level <= 0 {
		return pkg.BloodSugarEntry{}, false
	}
	return pkg.BloodSugarEntry{
		Timestamp:    r.Get("timestamp").String(),
		GlucoseLevel: level,
		MealType:     r.Get("meal_type").String(),
		Notes:        r.Get("notes").String(),
	}, true
}
