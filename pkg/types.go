package pkg

// Nutrition tracking core types

// Source tags for meal entries
const (
	SourceText = "text" // free-text description estimated by the model
)

// Nutrients holds the macro estimate for one meal, grams and kcal
type Nutrients struct {
	CarbsG       float64 `json:"carbs_g"`
	CaloriesKcal float64 `json:"calories_kcal"`
	ProteinG     float64 `json:"protein_g"`
	FatG         float64 `json:"fat_g"`
}

// Add returns the field-wise sum of n and o
func (n Nutrients) Add(o Nutrients) Nutrients {
	return Nutrients{
		CarbsG:       n.CarbsG + o.CarbsG,
		CaloriesKcal: n.CaloriesKcal + o.CaloriesKcal,
		ProteinG:     n.ProteinG + o.ProteinG,
		FatG:         n.FatG + o.FatG,
	}
}

// Normalized clamps every field to a non-negative finite number
func (n Nutrients) Normalized() Nutrients {
	return Nutrients{
		CarbsG:       NutrientOrZero(n.CarbsG),
		CaloriesKcal: NutrientOrZero(n.CaloriesKcal),
		ProteinG:     NutrientOrZero(n.ProteinG),
		FatG:         NutrientOrZero(n.FatG),
	}
}

// MacroEstimate is the normalized record produced from a model reply
type MacroEstimate struct {
	ItemName  string    `json:"item_name"`
	Nutrients Nutrients `json:"nutrients"`
}

// MealLogEntry is one immutable record in the meal log file
type MealLogEntry struct {
	Timestamp string    `json:"ts"`
	UserID    string    `json:"user_id"`
	ItemName  string    `json:"item_name"`
	Source    string    `json:"source"`
	Nutrients Nutrients `json:"nutrients"`
}

// Day returns the calendar-day prefix of the timestamp, or "" when malformed
func (e MealLogEntry) Day() string {
	return DayOf(e.Timestamp)
}

// BloodSugarEntry is one glucose reading in mg/dL
type BloodSugarEntry struct {
	Timestamp    string  `json:"timestamp"`
	GlucoseLevel float64 `json:"glucose_level"`
	MealType     string  `json:"meal_type,omitempty"`
	Notes        string  `json:"notes,omitempty"`
}

// DailyTotals is the derived per-day sum of a user's meal nutrients
type DailyTotals struct {
	Day        string    `json:"day"`
	UserID     string    `json:"user_id"`
	Nutrients  Nutrients `json:"nutrients"`
	EntryCount int       `json:"entry_count"`
}

// LogStats summarizes a user's meal log
type LogStats struct {
	UserID        string `json:"user_id"`
	TotalEntries  int    `json:"total_entries"`
	DaysLogged    int    `json:"days_logged"`
	OldestEntry   string `json:"oldest_entry,omitempty"`
	NewestEntry   string `json:"newest_entry,omitempty"`
	FileSizeBytes int64  `json:"file_size_bytes"`
}

// TimestampLayout is the on-disk timestamp format. The fixed-width fraction keeps
// lexical order equal to chronological order for a single UTC offset.
const TimestampLayout = "2006-01-02T15:04:05.000000-07:00"

// DayLayout is the calendar-day prefix of TimestampLayout
const DayLayout = "2006-01-02"

// DayOf returns the first ten characters of ts when they look like a date
func DayOf(ts string) string {
	if len(ts) < len(DayLayout) {
		return ""
	}
	day := ts[:len(DayLayout)]
	for i, c := range day {
		switch i {
		case 4, 7:
			if c != '-' {
				return ""
			}
		default:
			if c < '0' || c > '9' {
				return ""
			}
		}
	}
	return day
}
