package project

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/piwi3910/MeshSlicer/internal/model"
)

// DefaultProfilesPath returns the default file path for custom profiles.
func DefaultProfilesPath() string {
	return filepath.Join(DefaultConfigDir(), "profiles.json")
}

// SaveCustomProfiles saves custom profiles to a JSON file.
func SaveCustomProfiles(path string, profiles []model.PrinterProfile) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(profiles, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// LoadCustomProfiles loads custom profiles from a JSON file.
// Returns an empty slice if the file does not exist.
func LoadCustomProfiles(path string) ([]model.PrinterProfile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return []model.PrinterProfile{}, nil
		}
		return nil, err
	}

	var profiles []model.PrinterProfile
	if err := json.Unmarshal(data, &profiles); err != nil {
		return nil, fmt.Errorf("failed to parse profiles: %w", err)
	}

	// Ensure loaded profiles are not marked as built-in
	for i := range profiles {
		profiles[i].IsBuiltIn = false
	}
	return profiles, nil
}

// InstallCustomProfiles loads the profiles at path into model.CustomProfiles,
// skipping any whose name clashes with a built-in profile. It returns the
// names that were skipped.
func InstallCustomProfiles(path string) ([]string, error) {
	profiles, err := LoadCustomProfiles(path)
	if err != nil {
		return nil, err
	}

	builtIn := make(map[string]bool, len(model.PrinterProfiles))
	for _, p := range model.PrinterProfiles {
		builtIn[p.Name] = true
	}

	var skipped []string
	custom := make([]model.PrinterProfile, 0, len(profiles))
	for _, p := range profiles {
		if builtIn[p.Name] || p.Name == "" {
			skipped = append(skipped, p.Name)
			continue
		}
		custom = append(custom, p)
	}
	model.CustomProfiles = custom
	return skipped, nil
}

// ExportProfile exports a single profile to a JSON file (for sharing).
func ExportProfile(path string, profile model.PrinterProfile) error {
	profile.IsBuiltIn = false
	data, err := json.MarshalIndent(profile, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// ImportProfile imports a single profile from a JSON file.
func ImportProfile(path string) (model.PrinterProfile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return model.PrinterProfile{}, err
	}

	var profile model.PrinterProfile
	if err := json.Unmarshal(data, &profile); err != nil {
		return model.PrinterProfile{}, err
	}

	profile.IsBuiltIn = false
	if profile.Name == "" {
		return model.PrinterProfile{}, errors.New("imported profile has no name")
	}
	return profile, nil
}
