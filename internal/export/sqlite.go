package export

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	"nutrition_tracker/pkg"

	_ "modernc.org/sqlite"
)

const schemaV1 = `
CREATE TABLE IF NOT EXISTS meals (
	id            INTEGER PRIMARY KEY AUTOINCREMENT,
	ts            TEXT NOT NULL,
	day           TEXT NOT NULL,
	user_id       TEXT NOT NULL,
	item_name     TEXT NOT NULL,
	source        TEXT NOT NULL,
	carbs_g       REAL NOT NULL DEFAULT 0,
	calories_kcal REAL NOT NULL DEFAULT 0,
	protein_g     REAL NOT NULL DEFAULT 0,
	fat_g         REAL NOT NULL DEFAULT 0
);
CREATE INDEX IF NOT EXISTS idx_meals_user_day ON meals(user_id, day);
CREATE VIEW IF NOT EXISTS daily_totals AS
	SELECT user_id, day,
		COUNT(*) AS entry_count,
		SUM(carbs_g) AS carbs_g,
		SUM(calories_kcal) AS calories_kcal,
		SUM(protein_g) AS protein_g,
		SUM(fat_g) AS fat_g
	FROM meals GROUP BY user_id, day;
`

// ToSQLite writes meals into a fresh SQLite database at path, replacing any
// file already there. A daily_totals view is created for ad-hoc queries.
func ToSQLite(meals []pkg.MealLogEntry, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create export directory: %w", err)
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove old export: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schemaV1); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`INSERT INTO meals (ts, day, user_id, item_name, source, carbs_g, calories_kcal, protein_g, fat_g)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, m := range meals {
		n := m.Nutrients
		if _, err := stmt.Exec(m.Timestamp, m.Day(), m.UserID, m.ItemName, m.Source, n.CarbsG, n.CaloriesKcal, n.ProteinG, n.FatG); err != nil {
			return fmt.Errorf("insert meal: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	if _, err := db.Exec("PRAGMA user_version = 1"); err != nil {
		return fmt.Errorf("set user_version: %w", err)
	}
	return nil
}
