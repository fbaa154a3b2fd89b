package tray

import (
	"fmt"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/driver/desktop"

	"meditimer/internal/core/model"
	"meditimer/resources"
)

// Callbacks defines tray action handlers.
type Callbacks struct {
	OnShowTimer   func()
	OnStart       func()
	OnTogglePause func()
	OnReset       func()
	OnSelect      func(slot int)
	OnPresets     func()
	OnPreferences func()
	OnQuit        func()
}

// Manager handles system tray state.
type Manager struct {
	app         desktop.App
	statusItem  *fyne.MenuItem
	startItem   *fyne.MenuItem
	pauseItem   *fyne.MenuItem
	resetItem   *fyne.MenuItem
	presetsItem *fyne.MenuItem
	callbacks   Callbacks
	running     bool
	paused      bool
	statusLabel string
	presets     [model.PresetSlots]*model.Preset
	icon        resources.IconState
}

// New creates a tray manager with the provided callbacks.
func New(app desktop.App, callbacks Callbacks) *Manager {
	manager := &Manager{
		app:         app,
		callbacks:   callbacks,
		statusLabel: "idle",
		icon:        -1,
	}

	manager.statusItem = fyne.NewMenuItem("", nil)
	manager.statusItem.Disabled = true
	manager.startItem = fyne.NewMenuItem("Start", call(callbacks.OnStart))
	manager.pauseItem = fyne.NewMenuItem("Pause", call(callbacks.OnTogglePause))
	manager.resetItem = fyne.NewMenuItem("Reset", call(callbacks.OnReset))
	manager.presetsItem = fyne.NewMenuItem("Presets", nil)

	manager.refreshStatus()
	return manager
}

// SetStatus updates the status label.
func (manager *Manager) SetStatus(status string) {
	if manager.statusLabel == status {
		return
	}
	manager.statusLabel = status
	manager.refreshStatus()
}

// SetRunState updates the run dependent menu items and the tray icon.
func (manager *Manager) SetRunState(running, paused bool) {
	if manager.running == running && manager.paused == paused {
		return
	}
	manager.running = running
	manager.paused = paused
	manager.refreshStatus()
}

// SetPresets rebuilds the preset submenu.
func (manager *Manager) SetPresets(presets [model.PresetSlots]*model.Preset) {
	manager.presets = presets
	manager.refreshMenu()
}

// Menu builds the tray menu for the current state.
func (manager *Manager) Menu() *fyne.Menu {
	return manager.buildMenu()
}

func (manager *Manager) refreshStatus() {
	status := manager.statusLabel
	if manager.paused {
		status = fmt.Sprintf("%s (paused)", status)
	}
	manager.statusItem.Label = fmt.Sprintf("Status: %s", status)

	manager.startItem.Disabled = manager.running
	manager.pauseItem.Disabled = !manager.running
	if manager.paused {
		manager.pauseItem.Label = "Resume"
	} else {
		manager.pauseItem.Label = "Pause"
	}
	manager.refreshIcon()
	manager.refreshMenu()
}

func (manager *Manager) refreshIcon() {
	state := resources.IconIdle
	switch {
	case manager.paused:
		state = resources.IconPaused
	case manager.running:
		state = resources.IconRunning
	}
	if state == manager.icon {
		return
	}
	manager.icon = state
	if manager.app != nil {
		manager.app.SetSystemTrayIcon(resources.Icon(state))
	}
}

func (manager *Manager) refreshMenu() {
	if manager.app != nil {
		manager.app.SetSystemTrayMenu(manager.buildMenu())
	}
}

func (manager *Manager) buildMenu() *fyne.Menu {
	items := make([]*fyne.MenuItem, 0, model.PresetSlots)
	for slot, preset := range manager.presets {
		if preset == nil {
			continue
		}
		item := fyne.NewMenuItem(presetLabel(slot, *preset), func() {
			if manager.callbacks.OnSelect != nil {
				manager.callbacks.OnSelect(slot)
			}
		})
		item.Disabled = manager.running
		items = append(items, item)
	}
	if len(items) == 0 {
		empty := fyne.NewMenuItem("No presets saved", nil)
		empty.Disabled = true
		items = append(items, empty)
	}
	manager.presetsItem.ChildMenu = fyne.NewMenu("", items...)

	quit := fyne.NewMenuItem("Quit", call(manager.callbacks.OnQuit))
	quit.IsQuit = true

	return fyne.NewMenu("Meditimer",
		manager.statusItem,
		fyne.NewMenuItem("Show timer", call(manager.callbacks.OnShowTimer)),
		fyne.NewMenuItemSeparator(),
		manager.startItem,
		manager.pauseItem,
		manager.resetItem,
		manager.presetsItem,
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Edit presets...", call(manager.callbacks.OnPresets)),
		fyne.NewMenuItem("Preferences", call(manager.callbacks.OnPreferences)),
		quit,
	)
}

func presetLabel(slot int, preset model.Preset) string {
	name := preset.Name
	if name == "" {
		name = fmt.Sprintf("Preset %d", slot+1)
	}
	if preset.IsProgram() {
		return fmt.Sprintf("%s (%d intervals)", name, len(preset.Program.Intervals))
	}
	return fmt.Sprintf("%s (%d min)", name, (preset.MeditateSec+59)/60)
}

func call(handler func()) func() {
	return func() {
		if handler != nil {
			handler()
		}
	}
}
