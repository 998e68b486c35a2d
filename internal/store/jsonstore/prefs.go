package jsonstore

import (
	"path/filepath"
)

const prefsFileName = "prefs.json"

// Prefs are the UI choices that survive restarts.
// Mini hides the detail line under each row; Flat lists rows without the
// status groups.
type Prefs struct {
	Mini          bool   `json:"mini"`
	Flat          bool   `json:"flat"`
	HelpCollapsed bool   `json:"help_collapsed"`
	StatusFilter  string `json:"status_filter,omitempty"`
	Query         string `json:"query,omitempty"`
	Category      string `json:"category,omitempty"`
}

// PrefsPath is the preferences file inside the cusrr directory.
func PrefsPath(dir string) string { return filepath.Join(dir, prefsFileName) }

// LoadPrefs reads the preferences. A missing file yields the zero value.
func LoadPrefs(dir string) (Prefs, error) {
	var p Prefs
	if _, err := Load(PrefsPath(dir), &p); err != nil {
		return Prefs{}, err
	}
	return p, nil
}

// SavePrefs writes the preferences.
func SavePrefs(dir string, p Prefs) error {
	return Save(PrefsPath(dir), p, 0o644)
}
