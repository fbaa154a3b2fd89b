package model

const (
	DefaultStartGong       = Gong1
	DefaultEndGong         = Gong2
	DefaultLastWarmupSec   = 60
	DefaultLastMeditateSec = 25 * 60
)

// Settings is the process-wide configuration record.
type Settings struct {
	StartGong        Gong
	EndGong          Gong
	Fullscreen       bool
	KeepAwake        bool
	ForceAlarmStream bool
	CountUp          bool

	UseCustomStart bool
	UseCustomEnd   bool
	StartURI       string
	EndURI         string

	// Last used simple durations, shown as defaults on the timer view.
	LastWarmupSec   int
	LastMeditateSec int
}

// DefaultSettings returns the values used for keys that were never saved.
func DefaultSettings() Settings {
	return Settings{
		StartGong:        DefaultStartGong,
		EndGong:          DefaultEndGong,
		ForceAlarmStream: true,
		LastWarmupSec:    DefaultLastWarmupSec,
		LastMeditateSec:  DefaultLastMeditateSec,
	}
}

// SettingsGong maps a persisted start or end gong id. These sounds are
// always one of Gong1..Gong3, so anything else yields fallback.
func SettingsGong(id int, fallback Gong) Gong {
	gong := GongFromID(id)
	if gong.IsNone() {
		return fallback
	}
	return gong
}

// Normalize replaces out of range start and end gongs with the defaults.
func (settings Settings) Normalize() Settings {
	settings.StartGong = SettingsGong(settings.StartGong.ID(), DefaultStartGong)
	settings.EndGong = SettingsGong(settings.EndGong.ID(), DefaultEndGong)
	return settings
}

// StartSound returns the custom URI to play when meditation begins, or the
// built-in gong when no custom sound is active.
func (settings Settings) StartSound() (string, Gong) {
	if settings.UseCustomStart && settings.StartURI != "" {
		return settings.StartURI, GongNone
	}
	return "", settings.StartGong
}

// EndSound is the counterpart of StartSound for the end of a run.
func (settings Settings) EndSound() (string, Gong) {
	if settings.UseCustomEnd && settings.EndURI != "" {
		return settings.EndURI, GongNone
	}
	return "", settings.EndGong
}
