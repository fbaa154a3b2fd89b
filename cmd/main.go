package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"time"

	"meditimer/internal/audio"
	"meditimer/internal/core/model"
	"meditimer/internal/core/session"
	"meditimer/internal/core/timerengine"
	"meditimer/internal/notify"
	"meditimer/internal/platform"
	"meditimer/internal/storage"
	"meditimer/internal/ui/preferences"
	"meditimer/internal/ui/presets"
	"meditimer/internal/ui/timerview"
	"meditimer/internal/ui/tray"
	"meditimer/resources"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/driver/desktop"
)

const (
	appName = "Meditimer"
	appID   = "dev.meditimer.app"
)

func main() {
	storeFlag := flag.String("store", string(storage.BackendPreferences), "settings backend: prefs, yaml or memory")
	configDirFlag := flag.String("config-dir", "", "directory for the yaml backend (default: user config dir)")
	tickFlag := flag.Duration("tick", time.Second, "timer tick period")
	flag.Parse()

	var activate func()
	guard, err := platform.AcquireSingleInstance(appName, func() {
		fyne.Do(func() {
			if activate != nil {
				activate()
			}
		})
	})
	if errors.Is(err, platform.ErrAlreadyRunning) {
		if err := platform.SignalRunningInstance(appName); err != nil {
			log.Printf("single instance: %v", err)
		}
		return
	}
	if err != nil {
		log.Printf("single instance: %v", err)
		return
	}
	defer func() {
		_ = guard.Release()
	}()

	fyneApp := app.NewWithID(appID)
	fyneApp.SetIcon(resources.AppIcon())

	configDir := *configDirFlag
	if configDir == "" && storage.Backend(*storeFlag) == storage.BackendYAML {
		configDir, err = platform.ConfigDir(appName)
		if err != nil {
			log.Printf("config dir: %v", err)
			return
		}
	}
	stores, err := storage.Open(storage.Backend(*storeFlag), fyneApp, configDir)
	if err != nil {
		log.Printf("storage: %v", err)
		return
	}

	controller := session.New(session.Dependencies{
		Presets:   stores.Presets,
		Settings:  stores.Settings,
		Player:    audio.New(audio.Config{}),
		KeepAwake: platform.NewKeepAwake(),
		Notifier:  notify.NewDispatcher(true),
	}, timerengine.Config{TickInterval: *tickFlag})
	defer controller.Close()

	settings := stores.Settings.Settings()
	timerWindow := timerview.New(fyneApp, controller, settings)
	presetsWindow := presets.New(fyneApp, stores.Presets)
	prefsWindow := preferences.New(fyneApp, settings, func(updated model.Settings) {
		current := stores.Settings.Settings()
		updated.LastWarmupSec = current.LastWarmupSec
		updated.LastMeditateSec = current.LastMeditateSec
		stores.Settings.SaveAsync(updated)
	})
	prefsWindow.SetOnPreview(controller.Preview)

	timerWindow.SetOnEditPresets(func() {
		presetsWindow.Show(max(controller.State().Slot, 0))
	})
	timerWindow.SetOnPreferences(prefsWindow.Show)
	activate = timerWindow.Show

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	quit := func() {
		cancel()
		controller.Close()
		fyneApp.Quit()
	}

	var trayManager *tray.Manager
	if desktopApp, ok := fyneApp.(desktop.App); ok {
		trayManager = tray.New(desktopApp, tray.Callbacks{
			OnShowTimer:   timerWindow.Show,
			OnStart:       controller.Start,
			OnTogglePause: controller.TogglePause,
			OnReset:       controller.Reset,
			OnSelect: func(slot int) {
				if err := controller.SelectPreset(slot); err != nil {
					log.Printf("select preset: %v", err)
				}
			},
			OnPresets: func() {
				presetsWindow.Show(max(controller.State().Slot, 0))
			},
			OnPreferences: prefsWindow.Show,
			OnQuit:        quit,
		})
		timerWindow.SetCloseIntercept(timerWindow.Hide)
	} else {
		log.Printf("system tray unsupported on this platform")
		timerWindow.SetCloseIntercept(quit)
	}

	controller.SetOnChange(func(state session.State) {
		fyne.Do(func() {
			timerWindow.RefreshControls()
			if trayManager != nil {
				trayManager.SetRunState(state.Running, state.Paused)
			}
		})
	})

	snapshots := controller.Engine().Subscribe(8)
	go func() {
		for snapshot := range snapshots {
			fyne.Do(func() {
				timerWindow.Render(snapshot)
				if trayManager != nil {
					trayManager.SetStatus(statusText(snapshot))
				}
			})
		}
	}()

	settingsUpdates := stores.Settings.Watch(ctx, 1)
	go func() {
		for updated := range settingsUpdates {
			fyne.Do(func() {
				timerWindow.ApplySettings(updated)
				prefsWindow.UpdateSettings(updated)
			})
		}
	}()

	presetUpdates := stores.Presets.Watch(ctx, 1)
	go func() {
		for slots := range presetUpdates {
			fyne.Do(func() {
				timerWindow.SetPresets(slots)
				if trayManager != nil {
					trayManager.SetPresets(slots)
				}
			})
		}
	}()

	timerWindow.Show()
	fyneApp.Run()

	flushCtx, flushCancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer flushCancel()
	if err := stores.Settings.Flush(flushCtx); err != nil {
		log.Printf("settings: flush: %v", err)
	}
	if err := stores.Presets.Flush(flushCtx); err != nil {
		log.Printf("presets: flush: %v", err)
	}
}

func statusText(snapshot timerengine.Snapshot) string {
	if snapshot.IsIdle() {
		return "idle"
	}
	return fmt.Sprintf("%s %s", snapshot.Label, timerview.FormatClock(snapshot.RemainingSec))
}
