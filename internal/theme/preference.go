package theme

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"gopkg.in/yaml.v3"
)

// PreferenceStore persists the user's dark mode choice.
type PreferenceStore interface {
	// Load returns the stored value and whether one was stored at all.
	Load() (darkMode bool, ok bool, err error)
	Save(darkMode bool) error
}

type preferenceFile struct {
	DarkMode bool `yaml:"darkMode"`
}

// FilePreference stores the preference as a small YAML document.
type FilePreference struct {
	mu   sync.Mutex
	path string
}

func NewFilePreference(path string) *FilePreference {
	return &FilePreference{path: path}
}

func (p *FilePreference) Load() (bool, bool, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	data, err := os.ReadFile(p.path)
	if errors.Is(err, fs.ErrNotExist) {
		return false, false, nil
	}
	if err != nil {
		return false, false, fmt.Errorf("failed to read theme preference %s: %w", p.path, err)
	}
	var pf preferenceFile
	if err := yaml.Unmarshal(data, &pf); err != nil {
		return false, false, fmt.Errorf("failed to parse theme preference %s: %w", p.path, err)
	}
	return pf.DarkMode, true, nil
}

// Save writes the preference atomically through a temporary file in the same directory.
func (p *FilePreference) Save(darkMode bool) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	data, err := yaml.Marshal(preferenceFile{DarkMode: darkMode})
	if err != nil {
		return fmt.Errorf("failed to encode theme preference: %w", err)
	}
	dir := filepath.Dir(p.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create preference directory %s: %w", dir, err)
	}
	tmp, err := os.CreateTemp(dir, ".theme-*.yaml")
	if err != nil {
		return fmt.Errorf("failed to create temporary preference file: %w", err)
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("failed to write theme preference: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write theme preference: %w", err)
	}
	if err := os.Rename(tmp.Name(), p.path); err != nil {
		return fmt.Errorf("failed to replace theme preference %s: %w", p.path, err)
	}
	return nil
}

// InitialDarkMode returns the stored preference, or systemDefault when nothing
// is stored or the preference cannot be read.
func InitialDarkMode(pref PreferenceStore, systemDefault bool, logger *slog.Logger) bool {
	if pref == nil {
		return systemDefault
	}
	darkMode, ok, err := pref.Load()
	if err != nil {
		logger.Warn("failed to load theme preference, using system default", "error", err, "dark_mode", systemDefault)
		return systemDefault
	}
	if !ok {
		return systemDefault
	}
	return darkMode
}

// PersistOnChange saves every new theme state to pref.
// The returned function stops persisting.
func PersistOnChange(store *Store, pref PreferenceStore, logger *slog.Logger) func() {
	return store.Subscribe(func(s State) {
		if err := pref.Save(s.DarkMode); err != nil {
			logger.Error("failed to save theme preference", "error", err, "dark_mode", s.DarkMode)
		}
	})
}
