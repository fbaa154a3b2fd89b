package storage

import (
	"fmt"
	"path/filepath"

	"fyne.io/fyne/v2"
)

// Backend names a KeyValue implementation.
type Backend string

const (
	BackendPreferences Backend = "prefs"
	BackendYAML        Backend = "yaml"
	BackendMemory      Backend = "memory"
)

const (
	presetsFileName  = "presets.yaml"
	settingsFileName = "settings.yaml"
)

// Stores groups the two persisted records of the application.
type Stores struct {
	Presets  *PresetStore
	Settings *SettingsStore
}

// Open builds the stores on the selected backend. configDir is only used by
// the YAML backend, app only by the preferences backend.
func Open(backend Backend, app fyne.App, configDir string) (Stores, error) {
	switch backend {
	case BackendPreferences:
		if app == nil {
			return Stores{}, fmt.Errorf("open preferences store: no application")
		}
		kv := NewPreferencesKV(app.Preferences())
		return Stores{Presets: NewPresetStore(kv), Settings: NewSettingsStore(kv)}, nil
	case BackendYAML:
		presetsKV, err := OpenYAML(filepath.Join(configDir, presetsFileName))
		if err != nil {
			return Stores{}, fmt.Errorf("open presets: %w", err)
		}
		settingsKV, err := OpenYAML(filepath.Join(configDir, settingsFileName))
		if err != nil {
			return Stores{}, fmt.Errorf("open settings: %w", err)
		}
		return Stores{Presets: NewPresetStore(presetsKV), Settings: NewSettingsStore(settingsKV)}, nil
	case BackendMemory:
		return Stores{Presets: NewPresetStore(NewMemoryKV()), Settings: NewSettingsStore(NewMemoryKV())}, nil
	default:
		return Stores{}, fmt.Errorf("unknown store backend %q", backend)
	}
}
