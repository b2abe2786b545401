package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"nutrition_tracker/pkg"
	"nutrition_tracker/src/logger"
)

// ProfileCreator collects a new profile when none is stored yet
type ProfileCreator func() (pkg.UserProfile, error)

// ProfileStore holds the single installation profile in a JSON file
type ProfileStore struct {
	path string
}

func NewProfileStore(path string) *ProfileStore {
	return &ProfileStore{path: path}
}

func (s *ProfileStore) Path() string { return s.path }

// Load reads the profile. A missing file is not an error: found is false.
func (s *ProfileStore) Load() (profile pkg.UserProfile, found bool, err error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return pkg.UserProfile{}, false, nil
	}
	if err != nil {
		return pkg.UserProfile{}, false, fmt.Errorf("failed to read profile: %w", err)
	}

	if err := json.Unmarshal(data, &profile); err != nil {
		return pkg.UserProfile{}, false, pkg.NewParseError(s.path, string(data), err)
	}
	return profile, true, nil
}

// Save validates p and overwrites the profile file
func (s *ProfileStore) Save(p pkg.UserProfile) error {
	p.Goals = pkg.NormalizeGoals(p.Goals)
	if err := p.Validate(); err != nil {
		return err
	}
	if err := writeJSON(s.path, p); err != nil {
		return err
	}
	logger.Info().Str("path", s.path).Str("user_id", p.UserID).Msg("Profile saved")
	return nil
}

// GetOrCreate loads the profile, running create and saving its result when
// nothing is stored yet. A corrupt profile file is returned as an error rather
// than replaced.
func (s *ProfileStore) GetOrCreate(create ProfileCreator) (pkg.UserProfile, error) {
	profile, found, err := s.Load()
	if err != nil {
		return pkg.UserProfile{}, err
	}
	if found {
		return profile, nil
	}
	if create == nil {
		return pkg.UserProfile{}, pkg.ErrProfileNotFound
	}

	logger.Info().Str("path", s.path).Msg("No profile found, creating one")
	profile, err = create()
	if err != nil {
		return pkg.UserProfile{}, fmt.Errorf("profile creation failed: %w", err)
	}
	if err := s.Save(profile); err != nil {
		return pkg.UserProfile{}, err
	}
	return profile, nil
}
