package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"gopkg.in/yaml.v3"
)

// LoadYAML decodes the YAML file at path into out, leaving fields the file
// does not mention untouched. A missing file is not an error; found reports
// whether the file existed.
func LoadYAML(path string, out any) (found bool, err error) {
	if path == "" {
		return false, nil
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("error reading config file: %w", err)
	}

	if err := yaml.Unmarshal(data, out); err != nil {
		return true, fmt.Errorf("error parsing YAML %s: %w", path, err)
	}
	return true, nil
}
