package timerview

import (
	"fmt"
	"image/color"

	"meditimer/internal/core/model"
	"meditimer/internal/core/session"
	"meditimer/internal/core/timerengine"
	"meditimer/internal/storage"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/widget"
)

// Controller is the subset of the session controller the view drives.
type Controller interface {
	State() session.State
	Start()
	TogglePause()
	Reset()
	SelectPreset(slot int) error
	DisplayTimes(snapshot timerengine.Snapshot) (warmupSec, meditateSec int)
}

var (
	accentColor = color.NRGBA{R: 217, G: 164, B: 65, A: 255}
	mutedColor  = color.NRGBA{R: 140, G: 140, B: 140, A: 255}
)

// Window is the main timer screen.
type Window struct {
	window     fyne.Window
	controller Controller
	settings   model.Settings
	snapshot   timerengine.Snapshot
	presets    storage.Presets

	phaseLabel    *canvas.Text
	remainingText *canvas.Text
	warmupText    *canvas.Text
	meditateText  *canvas.Text
	completedBox  *fyne.Container
	simpleBox     *fyne.Container
	programBox    *fyne.Container

	startButton   *widget.Button
	pauseButton   *widget.Button
	resetButton   *widget.Button
	presetButtons [model.PresetSlots]*widget.Button

	onEditPresets func()
	onPreferences func()
}

// New creates the timer window.
func New(app fyne.App, controller Controller, settings model.Settings) *Window {
	window := app.NewWindow("Meditimer")
	if app.Icon() != nil {
		window.SetIcon(app.Icon())
	}

	view := &Window{
		window:     window,
		controller: controller,
		settings:   settings,
		snapshot:   timerengine.Snapshot{Phase: timerengine.PhaseIdle},
	}

	view.phaseLabel = canvas.NewText("", mutedColor)
	view.phaseLabel.Alignment = fyne.TextAlignCenter
	view.phaseLabel.TextSize = 14

	view.remainingText = canvas.NewText("00:00", accentColor)
	view.remainingText.Alignment = fyne.TextAlignCenter
	view.remainingText.TextStyle = fyne.TextStyle{Bold: true}
	view.remainingText.TextSize = 32

	view.warmupText = newTimeText()
	view.meditateText = newTimeText()
	view.simpleBox = container.NewVBox(
		newCaption("Warm-up"), view.warmupText,
		newCaption("Meditation"), view.meditateText,
	)

	view.completedBox = container.NewVBox()
	view.programBox = container.NewVBox(view.completedBox, view.phaseLabel, view.remainingText)

	view.startButton = widget.NewButton("Start", controller.Start)
	view.pauseButton = widget.NewButton("Pause", controller.TogglePause)
	view.resetButton = widget.NewButton("Reset", controller.Reset)
	controls := container.NewHBox(layout.NewSpacer(), view.startButton, view.pauseButton, view.resetButton, layout.NewSpacer())

	presetRow := container.NewGridWithColumns(model.PresetSlots)
	for slot := range view.presetButtons {
		button := widget.NewButton("-", func() {
			view.selectPreset(slot)
		})
		view.presetButtons[slot] = button
		presetRow.Add(button)
	}

	timesButton := widget.NewButton("Times & presets", func() {
		if view.onEditPresets != nil {
			view.onEditPresets()
		}
	})
	settingsButton := widget.NewButton("Settings", func() {
		if view.onPreferences != nil {
			view.onPreferences()
		}
	})

	content := container.NewVBox(
		container.NewHBox(layout.NewSpacer(), timesButton, settingsButton),
		view.simpleBox,
		view.programBox,
		controls,
		widget.NewLabelWithStyle("Presets", fyne.TextAlignLeading, fyne.TextStyle{Italic: true}),
		presetRow,
	)
	window.SetContent(container.NewPadded(content))
	window.Resize(fyne.NewSize(360, 420))

	view.render()
	return view
}

// Show displays the window.
func (view *Window) Show() {
	view.applyWindowMode()
	view.window.Show()
	view.window.RequestFocus()
}

// SetOnEditPresets sets the handler of the presets button.
func (view *Window) SetOnEditPresets(handler func()) {
	view.onEditPresets = handler
}

// SetOnPreferences sets the handler of the settings button.
func (view *Window) SetOnPreferences(handler func()) {
	view.onPreferences = handler
}

// SetCloseIntercept forwards to the underlying window.
func (view *Window) SetCloseIntercept(handler func()) {
	view.window.SetCloseIntercept(handler)
}

// Hide hides the window.
func (view *Window) Hide() {
	view.window.Hide()
}

// Render shows an engine snapshot. Must run on the UI goroutine.
func (view *Window) Render(snapshot timerengine.Snapshot) {
	view.snapshot = snapshot
	view.render()
}

// SetPresets updates the preset buttons. Must run on the UI goroutine.
func (view *Window) SetPresets(presets storage.Presets) {
	view.presets = presets
	view.render()
}

// ApplySettings updates display options. Must run on the UI goroutine.
func (view *Window) ApplySettings(settings model.Settings) {
	view.settings = settings
	view.applyWindowMode()
	view.render()
}

// RefreshControls updates the buttons after a session state change.
func (view *Window) RefreshControls() {
	view.render()
}

func (view *Window) selectPreset(slot int) {
	if err := view.controller.SelectPreset(slot); err != nil {
		return
	}
	view.render()
}

func (view *Window) render() {
	state := view.controller.State()
	snapshot := view.snapshot

	if snapshot.Phase == timerengine.PhaseProgram && snapshot.Program != nil {
		view.simpleBox.Hide()
		view.programBox.Show()
		view.renderProgram(snapshot)
	} else {
		view.programBox.Hide()
		view.simpleBox.Show()
		warmup, meditate := view.controller.DisplayTimes(snapshot)
		if view.settings.CountUp && snapshot.Phase == timerengine.PhaseWarmup {
			warmup = snapshot.ElapsedSec()
		}
		if view.settings.CountUp && snapshot.Phase == timerengine.PhaseMeditate {
			meditate = snapshot.ElapsedSec()
		}
		setText(view.warmupText, FormatClock(warmup))
		setText(view.meditateText, FormatClock(meditate))
	}

	view.renderControls(state)
	view.renderPresets(state)
}

func (view *Window) renderProgram(snapshot timerengine.Snapshot) {
	progress := snapshot.Program
	view.completedBox.RemoveAll()
	for index, duration := range progress.CompletedDurations {
		line := canvas.NewText(fmt.Sprintf("Interval %d - elapsed: %s", index+1, FormatClock(duration)), mutedColor)
		line.TextSize = 11
		view.completedBox.Add(line)
	}

	label := snapshot.Label
	if label == "" {
		label = fmt.Sprintf("Interval %d/%d", progress.CurrentIndex, progress.Total)
	}
	setText(view.phaseLabel, label)

	seconds := snapshot.RemainingSec
	if view.settings.CountUp {
		seconds = snapshot.ElapsedSec()
	}
	setText(view.remainingText, FormatClock(seconds))
}

func (view *Window) renderControls(state session.State) {
	if state.Running {
		view.startButton.Disable()
		view.pauseButton.Enable()
	} else {
		view.startButton.Enable()
		view.pauseButton.Disable()
	}
	if state.Paused {
		view.pauseButton.SetText("Resume")
	} else {
		view.pauseButton.SetText("Pause")
	}
}

func (view *Window) renderPresets(state session.State) {
	for slot, button := range view.presetButtons {
		preset := view.presets[slot]
		if preset == nil {
			button.SetText("-")
			button.Disable()
			continue
		}
		button.SetText(PresetCaption(*preset))
		if state.Running {
			button.Disable()
		} else {
			button.Enable()
		}
		if state.Slot == slot {
			button.Importance = widget.HighImportance
		} else {
			button.Importance = widget.MediumImportance
		}
		button.Refresh()
	}
}

func (view *Window) applyWindowMode() {
	view.window.SetFullScreen(view.settings.Fullscreen)
}

func newTimeText() *canvas.Text {
	text := canvas.NewText("00:00", color.White)
	text.Alignment = fyne.TextAlignCenter
	text.TextStyle = fyne.TextStyle{Bold: true}
	text.TextSize = 28
	return text
}

func newCaption(caption string) *canvas.Text {
	text := canvas.NewText(caption, mutedColor)
	text.Alignment = fyne.TextAlignCenter
	text.TextSize = 14
	return text
}

func setText(text *canvas.Text, value string) {
	if text.Text == value {
		return
	}
	text.Text = value
	text.Refresh()
}
