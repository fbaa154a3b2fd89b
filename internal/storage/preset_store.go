package storage

import (
	"context"
	"fmt"

	"meditimer/internal/core/model"
)

// Presets holds one entry per slot; nil marks an empty slot.
type Presets [model.PresetSlots]*model.Preset

// PresetStore persists the fixed preset slots.
type PresetStore struct {
	kv       KeyValue
	watchers watchers[Presets]
	writes   writeQueue
}

// NewPresetStore binds a store to kv.
func NewPresetStore(kv KeyValue) *PresetStore {
	store := &PresetStore{kv: kv}
	kv.OnChange(func() {
		store.watchers.publish(store.Presets())
	})
	return store
}

func nameKey(slot int) string     { return fmt.Sprintf("p%d_name", slot) }
func warmupKey(slot int) string   { return fmt.Sprintf("p%d_warm", slot) }
func meditateKey(slot int) string { return fmt.Sprintf("p%d_medit", slot) }
func programKey(slot int) string  { return fmt.Sprintf("p%d_prog", slot) }

// ClampSlot bounds slot to the valid slot range.
func ClampSlot(slot int) int {
	return model.ClampInt(slot, 0, model.PresetSlots-1)
}

// Presets returns the current slot contents.
func (store *PresetStore) Presets() Presets {
	var presets Presets
	for slot := range presets {
		presets[slot] = store.load(slot)
	}
	return presets
}

// Preset returns one slot, or nil when it is empty.
func (store *PresetStore) Preset(slot int) *model.Preset {
	return store.load(ClampSlot(slot))
}

// Watch delivers the current presets and then every change until ctx ends.
func (store *PresetStore) Watch(ctx context.Context, buffer int) <-chan Presets {
	return store.watchers.subscribe(ctx, buffer, store.Presets())
}

// SavePreset replaces the slot contents. Out of range slots are clamped.
func (store *PresetStore) SavePreset(ctx context.Context, slot int, preset model.Preset) error {
	slot = ClampSlot(slot)
	err := store.kv.Edit(ctx, func(editor Editor) {
		editor.SetString(nameKey(slot), preset.Name)
		editor.SetInt(warmupKey(slot), preset.WarmupSec)
		editor.SetInt(meditateKey(slot), preset.MeditateSec)
		if preset.Program != nil {
			editor.SetString(programKey(slot), EncodeProgram(*preset.Program))
		} else {
			editor.Remove(programKey(slot))
		}
	})
	if err != nil {
		return fmt.Errorf("save preset %d: %w", slot, err)
	}
	return nil
}

// ClearPreset empties the slot.
func (store *PresetStore) ClearPreset(ctx context.Context, slot int) error {
	slot = ClampSlot(slot)
	err := store.kv.Edit(ctx, func(editor Editor) {
		editor.Remove(nameKey(slot))
		editor.Remove(warmupKey(slot))
		editor.Remove(meditateKey(slot))
		editor.Remove(programKey(slot))
	})
	if err != nil {
		return fmt.Errorf("clear preset %d: %w", slot, err)
	}
	return nil
}

// SavePresetAsync saves in the background and logs failures. Background
// saves apply in call order.
func (store *PresetStore) SavePresetAsync(slot int, preset model.Preset) {
	store.writes.enqueue("presets", func(ctx context.Context) error {
		return store.SavePreset(ctx, slot, preset)
	})
}

// Flush waits for pending background saves.
func (store *PresetStore) Flush(ctx context.Context) error {
	return store.writes.flush(ctx)
}

func (store *PresetStore) load(slot int) *model.Preset {
	name, ok := store.kv.LookupString(nameKey(slot))
	if !ok {
		return nil
	}
	preset := &model.Preset{
		Name:        name,
		WarmupSec:   store.kv.IntWithFallback(warmupKey(slot), 0),
		MeditateSec: store.kv.IntWithFallback(meditateKey(slot), 0),
	}
	if encoded, ok := store.kv.LookupString(programKey(slot)); ok {
		preset.Program = DecodeProgram(encoded)
	}
	return preset
}
