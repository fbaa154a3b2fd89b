package presets

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/widget"

	"meditimer/internal/core/model"
	"meditimer/internal/storage"
	"meditimer/internal/ui/preferences"
)

var (
	errNoMeditation = errors.New("meditation time must be at least one second")
	errNoIntervals  = errors.New("enable at least one interval longer than zero")
)

// Store is the preset persistence used by the editor.
type Store interface {
	Presets() storage.Presets
	SavePreset(ctx context.Context, slot int, preset model.Preset) error
	ClearPreset(ctx context.Context, slot int) error
}

type intervalRow struct {
	enabled   *widget.Check
	duration  *widget.Entry
	startGong *widget.Select
	endGong   *widget.Select
}

// Window edits the preset slots.
type Window struct {
	window fyne.Window
	store  Store
	slot   int

	slotSelect *widget.Select
	name       *widget.Entry
	warmup     *widget.Entry
	meditate   *widget.Entry
	advanced   *widget.Check
	repeat     *widget.Select
	intervals  [model.MaxIntervals]intervalRow

	simpleBox  *fyne.Container
	programBox *fyne.Container
	status     *widget.Label
}

// New creates the preset editor.
func New(app fyne.App, store Store) *Window {
	window := app.NewWindow("Meditimer Presets")

	editor := &Window{
		window:   window,
		store:    store,
		name:     widget.NewEntry(),
		warmup:   widget.NewEntry(),
		meditate: widget.NewEntry(),
		advanced: widget.NewCheck("Interval program", nil),
		repeat:   widget.NewSelect(repeatOptions(), nil),
		status:   widget.NewLabel(""),
	}
	editor.name.SetPlaceHolder("Name")
	editor.warmup.SetPlaceHolder("mm:ss")
	editor.meditate.SetPlaceHolder("mm:ss")

	slots := make([]string, model.PresetSlots)
	for slot := range slots {
		slots[slot] = slotLabel(slot)
	}
	editor.slotSelect = widget.NewSelect(slots, func(option string) {
		for slot, label := range slots {
			if label == option {
				editor.LoadSlot(slot)
				return
			}
		}
	})

	rows := container.NewVBox()
	for index := range editor.intervals {
		row := intervalRow{
			enabled:   widget.NewCheck(fmt.Sprintf("Interval %d", index+1), nil),
			duration:  widget.NewEntry(),
			startGong: widget.NewSelect(preferences.GongOptions(), nil),
			endGong:   widget.NewSelect(preferences.GongOptions(), nil),
		}
		row.duration.SetPlaceHolder("mm:ss")
		editor.intervals[index] = row
		rows.Add(container.NewGridWithColumns(4, row.enabled, row.duration, row.startGong, row.endGong))
	}

	editor.simpleBox = container.NewVBox(
		container.NewGridWithColumns(2, widget.NewLabel("Warm-up"), editor.warmup),
		container.NewGridWithColumns(2, widget.NewLabel("Meditation"), editor.meditate),
	)
	editor.programBox = container.NewVBox(
		container.NewGridWithColumns(4,
			widget.NewLabel(""), widget.NewLabel("Duration"), widget.NewLabel("Start"), widget.NewLabel("End")),
		rows,
		container.NewGridWithColumns(2, widget.NewLabel("Repeat"), editor.repeat),
	)
	editor.advanced.OnChanged = func(bool) { editor.syncMode() }

	saveButton := widget.NewButton("Save", editor.handleSave)
	clearButton := widget.NewButton("Clear slot", editor.handleClear)
	closeButton := widget.NewButton("Close", window.Hide)

	form := container.NewVBox(
		container.NewGridWithColumns(2, widget.NewLabel("Slot"), editor.slotSelect),
		editor.name,
		editor.advanced,
		editor.simpleBox,
		editor.programBox,
		editor.status,
	)
	buttons := container.NewHBox(saveButton, clearButton, layout.NewSpacer(), closeButton)
	window.SetContent(container.NewBorder(nil, buttons, nil, nil, container.NewVScroll(form)))
	window.Resize(fyne.NewSize(520, 520))

	editor.slotSelect.SetSelected(slots[0])
	return editor
}

// Show displays the editor on slot.
func (editor *Window) Show(slot int) {
	slot = storage.ClampSlot(slot)
	if label := slotLabel(slot); editor.slotSelect.Selected != label {
		editor.slotSelect.SetSelected(label)
	} else {
		editor.LoadSlot(slot)
	}
	editor.window.Show()
	editor.window.RequestFocus()
}

// LoadSlot fills the form from the stored preset, or with blanks.
func (editor *Window) LoadSlot(slot int) {
	editor.slot = storage.ClampSlot(slot)
	editor.status.SetText("")

	preset := editor.store.Presets()[editor.slot]
	if preset == nil {
		preset = &model.Preset{
			WarmupSec:   model.DefaultLastWarmupSec,
			MeditateSec: model.DefaultLastMeditateSec,
		}
	}
	editor.name.SetText(preset.Name)
	editor.warmup.SetText(FormatDuration(preset.WarmupSec))
	editor.meditate.SetText(FormatDuration(preset.MeditateSec))

	program := model.Program{}
	if preset.Program != nil {
		program = *preset.Program
	}
	editor.advanced.SetChecked(preset.IsProgram())
	editor.repeat.SetSelected(strconv.Itoa(program.RepeatCount))
	for index, row := range editor.intervals {
		interval := model.IntervalSpec{DurationSec: 60, StartGong: model.Gong1}
		enabled := index < len(program.Intervals)
		if enabled {
			interval = program.Intervals[index]
		}
		row.enabled.SetChecked(enabled)
		row.duration.SetText(FormatDuration(interval.DurationSec))
		row.startGong.SetSelected(interval.StartGong.String())
		row.endGong.SetSelected(interval.EndGong.String())
	}
	editor.syncMode()
}

// Preset reads the form. The name defaults to the slot label.
func (editor *Window) Preset() (model.Preset, error) {
	preset := model.Preset{Name: editor.name.Text}
	if preset.Name == "" {
		preset.Name = slotLabel(editor.slot)
	}

	warmup, err := ParseDuration(editor.warmup.Text)
	if err != nil {
		return model.Preset{}, fmt.Errorf("warm-up: %w", err)
	}
	meditate, err := ParseDuration(editor.meditate.Text)
	if err != nil {
		return model.Preset{}, fmt.Errorf("meditation: %w", err)
	}
	preset.WarmupSec = warmup
	preset.MeditateSec = meditate

	if !editor.advanced.Checked {
		if meditate < 1 {
			return model.Preset{}, errNoMeditation
		}
		return preset, nil
	}

	repeat, _ := strconv.Atoi(editor.repeat.Selected)
	program := model.Program{RepeatCount: repeat}
	for index, row := range editor.intervals {
		if !row.enabled.Checked {
			continue
		}
		duration, err := ParseDuration(row.duration.Text)
		if err != nil {
			return model.Preset{}, fmt.Errorf("interval %d: %w", index+1, err)
		}
		if duration < 1 {
			continue
		}
		program.Intervals = append(program.Intervals, model.IntervalSpec{
			DurationSec: duration,
			StartGong:   preferences.ParseGong(row.startGong.Selected),
			EndGong:     preferences.ParseGong(row.endGong.Selected),
		})
	}
	if len(program.Intervals) == 0 {
		return model.Preset{}, errNoIntervals
	}
	program = program.Normalize()
	preset.Program = &program
	return preset, nil
}

func (editor *Window) handleSave() {
	preset, err := editor.Preset()
	if err != nil {
		dialog.ShowError(err, editor.window)
		return
	}
	if err := editor.store.SavePreset(context.Background(), editor.slot, preset); err != nil {
		dialog.ShowError(err, editor.window)
		return
	}
	editor.status.SetText(fmt.Sprintf("Saved %s", preset.Name))
}

func (editor *Window) handleClear() {
	if err := editor.store.ClearPreset(context.Background(), editor.slot); err != nil {
		dialog.ShowError(err, editor.window)
		return
	}
	editor.LoadSlot(editor.slot)
	editor.status.SetText("Slot cleared")
}

func (editor *Window) syncMode() {
	if editor.advanced.Checked {
		editor.simpleBox.Hide()
		editor.programBox.Show()
		return
	}
	editor.programBox.Hide()
	editor.simpleBox.Show()
}

func slotLabel(slot int) string {
	return fmt.Sprintf("Preset %d", slot+1)
}

func repeatOptions() []string {
	options := make([]string, model.MaxRepeat+1)
	for count := range options {
		options[count] = strconv.Itoa(count)
	}
	return options
}
