package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"nutrition_tracker/pkg"
	"nutrition_tracker/src/logger"

	"github.com/tidwall/gjson"
)

// readArray returns the elements of the JSON array stored at path. A missing
// file is an empty log. A file that is not a JSON array is logged and also
// treated as empty; elements are returned as-is, well-formed or not.
func readArray(path string) []gjson.Result {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		logger.Warn().Err(err).Str("path", path).Msg("Failed to read log file, treating as empty")
		return nil
	}
	if !gjson.ValidBytes(data) {
		logger.Warn().Str("path", path).Msg("Log file is not valid JSON, treating as empty")
		return nil
	}
	root := gjson.ParseBytes(data)
	if !root.IsArray() {
		logger.Warn().Str("path", path).Msg("Log file is not a JSON array, treating as empty")
		return nil
	}
	return root.Array()
}

// appendRecord rewrites the array at path with record added at the end.
// Existing elements are carried over byte for byte.
func appendRecord(path string, record any) error {
	existing := readArray(path)

	encoded, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("failed to marshal log entry: %w", err)
	}

	records := make([]json.RawMessage, 0, len(existing)+1)
	for _, r := range existing {
		records = append(records, json.RawMessage(r.Raw))
	}
	records = append(records, encoded)

	return writeJSON(path, records)
}

// writeJSON overwrites path with the indented encoding of v, creating the
// parent directory if needed.
func writeJSON(path string, v any) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create data directory: %w", err)
		}
	}

	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal %s: %w", filepath.Base(path), err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

// nutrientsOf coerces the nutrients object of a log element field by field
func nutrientsOf(r gjson.Result) pkg.Nutrients {
	n := r.Get("nutrients")
	return pkg.Nutrients{
		CarbsG:       pkg.NutrientOrZero(n.Get("carbs_g").Value()),
		CaloriesKcal: pkg.NutrientOrZero(n.Get("calories_kcal").Value()),
		ProteinG:     pkg.NutrientOrZero(n.Get("protein_g").Value()),
		FatG:         pkg.NutrientOrZero(n.Get("fat_g").Value()),
	}
}
