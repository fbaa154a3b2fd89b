package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"meditimer/internal/core/model"

	"fyne.io/fyne/v2/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func backends(t *testing.T) map[string]KeyValue {
	t.Helper()
	yamlKV, err := OpenYAML(filepath.Join(t.TempDir(), "store.yaml"))
	require.NoError(t, err)
	return map[string]KeyValue{
		"memory": NewMemoryKV(),
		"yaml":   yamlKV,
		"prefs":  NewPreferencesKV(test.NewTempApp(t).Preferences()),
	}
}

func samplePreset() model.Preset {
	return model.Preset{
		Name:        "Morning",
		WarmupSec:   30,
		MeditateSec: 900,
		Program: &model.Program{
			Intervals: []model.IntervalSpec{
				{DurationSec: 600, StartGong: model.Gong1, EndGong: model.GongNone},
				{DurationSec: 300, EndGong: model.Gong2},
			},
			RepeatCount: 1,
		},
	}
}

func TestPresetStoreEmptySlots(t *testing.T) {
	for name, kv := range backends(t) {
		t.Run(name, func(t *testing.T) {
			store := NewPresetStore(kv)
			for slot, preset := range store.Presets() {
				assert.Nil(t, preset, "slot %d", slot)
			}
		})
	}
}

func TestPresetStoreSaveAndClear(t *testing.T) {
	ctx := context.Background()
	for name, kv := range backends(t) {
		t.Run(name, func(t *testing.T) {
			store := NewPresetStore(kv)

			require.NoError(t, store.SavePreset(ctx, 2, samplePreset()))
			simple := model.Preset{Name: "", WarmupSec: 0, MeditateSec: 600}
			require.NoError(t, store.SavePreset(ctx, 9, simple))

			presets := store.Presets()
			require.NotNil(t, presets[2])
			assert.Equal(t, samplePreset(), *presets[2])
			require.NotNil(t, presets[4])
			assert.Equal(t, simple, *presets[4])
			assert.Nil(t, presets[0])

			withoutProgram := samplePreset()
			withoutProgram.Program = nil
			require.NoError(t, store.SavePreset(ctx, 2, withoutProgram))
			_, hasProgram := kv.LookupString(programKey(2))
			assert.False(t, hasProgram)
			assert.Nil(t, store.Preset(2).Program)

			require.NoError(t, store.ClearPreset(ctx, 2))
			assert.Nil(t, store.Preset(2))
		})
	}
}

func TestPresetStoreMalformedProgramIsSimple(t *testing.T) {
	kv := NewMemoryKV()
	require.NoError(t, kv.Edit(context.Background(), func(editor Editor) {
		editor.SetString(nameKey(0), "Broken")
		editor.SetString(programKey(0), "not a program")
	}))

	preset := NewPresetStore(kv).Preset(0)
	require.NotNil(t, preset)
	assert.Equal(t, model.Preset{Name: "Broken"}, *preset)
}

func TestSettingsStoreDefaults(t *testing.T) {
	for name, kv := range backends(t) {
		t.Run(name, func(t *testing.T) {
			settings := NewSettingsStore(kv).Settings()
			assert.Equal(t, model.DefaultSettings(), settings)
			assert.Equal(t, model.Gong1, settings.StartGong)
			assert.Equal(t, model.Gong2, settings.EndGong)
			assert.True(t, settings.ForceAlarmStream)
			assert.Equal(t, 60, settings.LastWarmupSec)
			assert.Equal(t, 1500, settings.LastMeditateSec)
		})
	}
}

func TestSettingsStoreSave(t *testing.T) {
	ctx := context.Background()
	for name, kv := range backends(t) {
		t.Run(name, func(t *testing.T) {
			store := NewSettingsStore(kv)
			want := model.Settings{
				StartGong:        model.Gong3,
				EndGong:          model.Gong1,
				Fullscreen:       true,
				KeepAwake:        true,
				ForceAlarmStream: false,
				CountUp:          true,
				UseCustomStart:   true,
				StartURI:         "file:///tmp/start.wav",
				LastWarmupSec:    0,
				LastMeditateSec:  1200,
			}
			require.NoError(t, store.Save(ctx, want))
			assert.Equal(t, want, store.Settings())

			want.StartURI = ""
			require.NoError(t, store.Save(ctx, want))
			_, ok := kv.LookupString(keyStartURI)
			assert.False(t, ok)

			require.NoError(t, store.SaveLastUsed(ctx, 45, 600))
			got := store.Settings()
			assert.Equal(t, 45, got.LastWarmupSec)
			assert.Equal(t, 600, got.LastMeditateSec)
			assert.True(t, got.CountUp)
		})
	}
}

func TestSettingsStoreClampsSoundGongs(t *testing.T) {
	ctx := context.Background()
	for name, kv := range backends(t) {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, kv.Edit(ctx, func(editor Editor) {
				editor.SetInt(keyStartGong, 0)
				editor.SetInt(keyEndGong, 9)
			}))
			store := NewSettingsStore(kv)
			got := store.Settings()
			assert.Equal(t, model.Gong1, got.StartGong)
			assert.Equal(t, model.Gong2, got.EndGong)

			settings := model.DefaultSettings()
			settings.StartGong = model.GongNone
			settings.EndGong = model.Gong3
			require.NoError(t, store.Save(ctx, settings))
			assert.Equal(t, model.Gong1.ID(), kv.IntWithFallback(keyStartGong, -1))
			assert.Equal(t, model.Gong3, store.Settings().EndGong)
		})
	}
}

func TestYAMLKVPersistsAcrossOpen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "settings.yaml")
	kv, err := OpenYAML(path)
	require.NoError(t, err)

	store := NewSettingsStore(kv)
	require.NoError(t, store.SaveLastUsed(context.Background(), 90, 1800))

	reopened, err := OpenYAML(path)
	require.NoError(t, err)
	settings := NewSettingsStore(reopened).Settings()
	assert.Equal(t, 90, settings.LastWarmupSec)
	assert.Equal(t, 1800, settings.LastMeditateSec)
	assert.Equal(t, model.Gong1, settings.StartGong)

	_, err = os.Stat(path + ".tmp")
	assert.True(t, os.IsNotExist(err))
}

func TestOpenYAMLRejectsInvalidFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.yaml")
	require.NoError(t, os.WriteFile(path, []byte("key: [unclosed"), 0o644))

	_, err := OpenYAML(path)
	assert.Error(t, err)
}

func TestEditHonoursCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	for name, kv := range backends(t) {
		t.Run(name, func(t *testing.T) {
			err := NewSettingsStore(kv).SaveLastUsed(ctx, 1, 1)
			assert.ErrorIs(t, err, context.Canceled)
		})
	}
}

func TestSettingsWatchDeliversUpdates(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	store := NewSettingsStore(NewMemoryKV())
	updates := store.Watch(ctx, 1)

	first := <-updates
	assert.Equal(t, model.DefaultSettings(), first)

	require.NoError(t, store.SaveLastUsed(ctx, 10, 20))
	require.NoError(t, store.SaveLastUsed(ctx, 11, 21))

	select {
	case latest := <-updates:
		assert.Equal(t, 11, latest.LastWarmupSec)
		assert.Equal(t, 21, latest.LastMeditateSec)
	case <-time.After(time.Second):
		t.Fatal("no settings update")
	}

	cancel()
	require.Eventually(t, func() bool {
		select {
		case _, ok := <-updates:
			return !ok
		default:
			return false
		}
	}, time.Second, 5*time.Millisecond)
}

func TestPresetWatchAndAsyncSave(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	store := NewPresetStore(NewMemoryKV())
	updates := store.Watch(ctx, 4)
	<-updates

	store.SavePresetAsync(1, model.Preset{Name: "Evening", MeditateSec: 1200})
	select {
	case presets := <-updates:
		require.NotNil(t, presets[1])
		assert.Equal(t, "Evening", presets[1].Name)
	case <-time.After(time.Second):
		t.Fatal("no preset update")
	}
}

func TestAsyncSavesApplyInCallOrder(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	for name, kv := range backends(t) {
		t.Run(name, func(t *testing.T) {
			settings := NewSettingsStore(kv)
			presets := NewPresetStore(kv)
			for i := 1; i <= 50; i++ {
				settings.SaveLastUsedAsync(i, i*60)
				presets.SavePresetAsync(0, model.Preset{Name: fmt.Sprintf("Run %d", i), MeditateSec: i})
			}
			require.NoError(t, settings.Flush(ctx))
			require.NoError(t, presets.Flush(ctx))

			got := settings.Settings()
			assert.Equal(t, 50, got.LastWarmupSec)
			assert.Equal(t, 3000, got.LastMeditateSec)
			require.NotNil(t, presets.Preset(0))
			assert.Equal(t, "Run 50", presets.Preset(0).Name)
		})
	}
}

func TestFlushHonoursContext(t *testing.T) {
	store := NewSettingsStore(NewMemoryKV())
	release := make(chan struct{})
	store.writes.enqueue("settings", func(context.Context) error {
		<-release
		return nil
	})
	defer close(release)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, store.Flush(ctx), context.DeadlineExceeded)
}

func TestPreferencesKVReadersSeeWholeBatch(t *testing.T) {
	kv := NewPreferencesKV(test.NewTempApp(t).Preferences())
	type pair struct{ first, second int }
	seen := make(chan pair, 1)

	require.NoError(t, kv.Edit(context.Background(), func(editor Editor) {
		editor.SetInt("first", 1)
		started := make(chan struct{})
		go func() {
			close(started)
			seen <- pair{kv.IntWithFallback("first", 0), kv.IntWithFallback("second", 0)}
		}()
		<-started
		time.Sleep(20 * time.Millisecond)
		editor.SetInt("second", 1)
	}))

	select {
	case got := <-seen:
		assert.Equal(t, pair{1, 1}, got)
	case <-time.After(time.Second):
		t.Fatal("reader never finished")
	}
}

func TestOpenBackends(t *testing.T) {
	stores, err := Open(BackendYAML, nil, t.TempDir())
	require.NoError(t, err)
	assert.NotNil(t, stores.Presets)
	assert.NotNil(t, stores.Settings)

	stores, err = Open(BackendPreferences, test.NewTempApp(t), "")
	require.NoError(t, err)
	assert.Equal(t, model.DefaultSettings(), stores.Settings.Settings())

	_, err = Open(BackendPreferences, nil, "")
	assert.Error(t, err)

	_, err = Open("sqlite", nil, "")
	assert.Error(t, err)
}
