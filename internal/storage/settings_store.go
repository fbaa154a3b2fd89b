package storage

import (
	"context"
	"fmt"

	"meditimer/internal/core/model"
)

const (
	keyStartGong      = "start_gong"
	keyEndGong        = "end_gong"
	keyFullscreen     = "fullscreen"
	keyKeepAwake      = "keep_awake"
	keyForceAlarm     = "force_alarm_stream"
	keyCountUp        = "count_up"
	keyUseCustomStart = "use_custom_start"
	keyUseCustomEnd   = "use_custom_end"
	keyStartURI       = "start_uri"
	keyEndURI         = "end_uri"
	keyLastWarmup     = "last_warmup_sec"
	keyLastMeditate   = "last_meditate_sec"
)

// SettingsStore persists the single settings record.
type SettingsStore struct {
	kv       KeyValue
	watchers watchers[model.Settings]
	writes   writeQueue
}

// NewSettingsStore binds a store to kv.
func NewSettingsStore(kv KeyValue) *SettingsStore {
	store := &SettingsStore{kv: kv}
	kv.OnChange(func() {
		store.watchers.publish(store.Settings())
	})
	return store
}

// Settings returns the persisted record with defaults for absent keys.
func (store *SettingsStore) Settings() model.Settings {
	defaults := model.DefaultSettings()
	kv := store.kv
	settings := model.Settings{
		StartGong:        model.SettingsGong(kv.IntWithFallback(keyStartGong, defaults.StartGong.ID()), defaults.StartGong),
		EndGong:          model.SettingsGong(kv.IntWithFallback(keyEndGong, defaults.EndGong.ID()), defaults.EndGong),
		Fullscreen:       kv.BoolWithFallback(keyFullscreen, defaults.Fullscreen),
		KeepAwake:        kv.BoolWithFallback(keyKeepAwake, defaults.KeepAwake),
		ForceAlarmStream: kv.BoolWithFallback(keyForceAlarm, defaults.ForceAlarmStream),
		CountUp:          kv.BoolWithFallback(keyCountUp, defaults.CountUp),
		UseCustomStart:   kv.BoolWithFallback(keyUseCustomStart, defaults.UseCustomStart),
		UseCustomEnd:     kv.BoolWithFallback(keyUseCustomEnd, defaults.UseCustomEnd),
		LastWarmupSec:    kv.IntWithFallback(keyLastWarmup, defaults.LastWarmupSec),
		LastMeditateSec:  kv.IntWithFallback(keyLastMeditate, defaults.LastMeditateSec),
	}
	settings.StartURI, _ = kv.LookupString(keyStartURI)
	settings.EndURI, _ = kv.LookupString(keyEndURI)
	return settings
}

// Watch delivers the current settings and then every change until ctx ends.
func (store *SettingsStore) Watch(ctx context.Context, buffer int) <-chan model.Settings {
	return store.watchers.subscribe(ctx, buffer, store.Settings())
}

// Save replaces every settings field. Empty URIs remove their keys and
// out of range gongs are stored as the defaults.
func (store *SettingsStore) Save(ctx context.Context, settings model.Settings) error {
	settings = settings.Normalize()
	err := store.kv.Edit(ctx, func(editor Editor) {
		editor.SetInt(keyStartGong, settings.StartGong.ID())
		editor.SetInt(keyEndGong, settings.EndGong.ID())
		editor.SetBool(keyFullscreen, settings.Fullscreen)
		editor.SetBool(keyKeepAwake, settings.KeepAwake)
		editor.SetBool(keyForceAlarm, settings.ForceAlarmStream)
		editor.SetBool(keyCountUp, settings.CountUp)
		editor.SetBool(keyUseCustomStart, settings.UseCustomStart)
		editor.SetBool(keyUseCustomEnd, settings.UseCustomEnd)
		setOrRemove(editor, keyStartURI, settings.StartURI)
		setOrRemove(editor, keyEndURI, settings.EndURI)
		editor.SetInt(keyLastWarmup, settings.LastWarmupSec)
		editor.SetInt(keyLastMeditate, settings.LastMeditateSec)
	})
	if err != nil {
		return fmt.Errorf("save settings: %w", err)
	}
	return nil
}

// SaveLastUsed updates only the last used warm-up and meditation pair.
func (store *SettingsStore) SaveLastUsed(ctx context.Context, warmupSec, meditateSec int) error {
	err := store.kv.Edit(ctx, func(editor Editor) {
		editor.SetInt(keyLastWarmup, warmupSec)
		editor.SetInt(keyLastMeditate, meditateSec)
	})
	if err != nil {
		return fmt.Errorf("save last used: %w", err)
	}
	return nil
}

// SaveAsync saves in the background and logs failures. Background saves
// apply in call order.
func (store *SettingsStore) SaveAsync(settings model.Settings) {
	store.writes.enqueue("settings", func(ctx context.Context) error {
		return store.Save(ctx, settings)
	})
}

// SaveLastUsedAsync is the background variant of SaveLastUsed.
func (store *SettingsStore) SaveLastUsedAsync(warmupSec, meditateSec int) {
	store.writes.enqueue("settings", func(ctx context.Context) error {
		return store.SaveLastUsed(ctx, warmupSec, meditateSec)
	})
}

// Flush waits for pending background saves.
func (store *SettingsStore) Flush(ctx context.Context) error {
	return store.writes.flush(ctx)
}

func setOrRemove(editor Editor, key, value string) {
	if value == "" {
		editor.Remove(key)
		return
	}
	editor.SetString(key, value)
}
