package timerview

import (
	"testing"

	"meditimer/internal/core/model"
	"meditimer/internal/core/session"
	"meditimer/internal/core/timerengine"
	"meditimer/internal/storage"

	"fyne.io/fyne/v2/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeController struct {
	state    session.State
	starts   int
	toggles  int
	resets   int
	selected []int
}

func (controller *fakeController) State() session.State { return controller.state }
func (controller *fakeController) Start()                { controller.starts++ }
func (controller *fakeController) TogglePause()          { controller.toggles++ }
func (controller *fakeController) Reset()                { controller.resets++ }

func (controller *fakeController) SelectPreset(slot int) error {
	controller.selected = append(controller.selected, slot)
	controller.state.Slot = slot
	return nil
}

func (controller *fakeController) DisplayTimes(snapshot timerengine.Snapshot) (int, int) {
	switch snapshot.Phase {
	case timerengine.PhaseWarmup:
		return snapshot.RemainingSec, controller.state.MeditateSec
	case timerengine.PhaseMeditate:
		return 0, snapshot.RemainingSec
	}
	return controller.state.WarmupSec, controller.state.MeditateSec
}

func newTestWindow(t *testing.T, controller *fakeController, settings model.Settings) *Window {
	t.Helper()
	app := test.NewTempApp(t)
	return New(app, controller, settings)
}

func TestFormatClock(t *testing.T) {
	cases := map[int]string{
		-5:   "00:00",
		0:    "00:00",
		59:   "00:59",
		60:   "01:00",
		1500: "25:00",
		3600: "1:00:00",
		3725: "1:02:05",
	}
	for seconds, want := range cases {
		assert.Equal(t, want, FormatClock(seconds), "seconds=%d", seconds)
	}
}

func TestPresetCaption(t *testing.T) {
	assert.Equal(t, "Morning", PresetCaption(model.Preset{Name: "Morning", MeditateSec: 600}))
	assert.Equal(t, "10:00", PresetCaption(model.Preset{MeditateSec: 600}))

	program := &model.Program{Intervals: []model.IntervalSpec{{DurationSec: 10}, {DurationSec: 20}}}
	assert.Equal(t, "2 intervals", PresetCaption(model.Preset{Program: program}))
}

func TestIdleShowsSelectedDurations(t *testing.T) {
	controller := &fakeController{state: session.State{Slot: -1, WarmupSec: 60, MeditateSec: 1500}}
	view := newTestWindow(t, controller, model.DefaultSettings())

	assert.Equal(t, "01:00", view.warmupText.Text)
	assert.Equal(t, "25:00", view.meditateText.Text)
	assert.True(t, view.simpleBox.Visible())
	assert.False(t, view.programBox.Visible())
	assert.False(t, view.startButton.Disabled())
	assert.True(t, view.pauseButton.Disabled())
}

func TestRenderSimpleCountUp(t *testing.T) {
	controller := &fakeController{state: session.State{Slot: -1, WarmupSec: 10, MeditateSec: 300, Running: true}}
	settings := model.DefaultSettings()
	view := newTestWindow(t, controller, settings)

	view.Render(timerengine.Snapshot{Phase: timerengine.PhaseMeditate, Label: "Meditation", RemainingSec: 240, TotalSec: 300})
	assert.Equal(t, "00:00", view.warmupText.Text)
	assert.Equal(t, "04:00", view.meditateText.Text)
	assert.True(t, view.startButton.Disabled())

	settings.CountUp = true
	view.ApplySettings(settings)
	assert.Equal(t, "01:00", view.meditateText.Text)
}

func TestRenderProgramProgress(t *testing.T) {
	controller := &fakeController{state: session.State{Slot: 0, Running: true}}
	view := newTestWindow(t, controller, model.DefaultSettings())

	view.Render(timerengine.Snapshot{
		Phase:        timerengine.PhaseProgram,
		Label:        "Interval 2/3",
		RemainingSec: 7,
		TotalSec:     20,
		Program: &timerengine.ProgramProgress{
			CurrentIndex:       2,
			Total:              3,
			CompletedDurations: []int{10},
		},
	})

	assert.False(t, view.simpleBox.Visible())
	assert.True(t, view.programBox.Visible())
	assert.Equal(t, "Interval 2/3", view.phaseLabel.Text)
	assert.Equal(t, "00:07", view.remainingText.Text)
	require.Len(t, view.completedBox.Objects, 1)
}

func TestButtonsDriveController(t *testing.T) {
	controller := &fakeController{state: session.State{Slot: -1, MeditateSec: 60}}
	view := newTestWindow(t, controller, model.DefaultSettings())

	var presets storage.Presets
	presets[2] = &model.Preset{Name: "Evening", MeditateSec: 900}
	view.SetPresets(presets)

	assert.True(t, view.presetButtons[0].Disabled())
	assert.Equal(t, "Evening", view.presetButtons[2].Text)

	test.Tap(view.presetButtons[2])
	assert.Equal(t, []int{2}, controller.selected)

	test.Tap(view.startButton)
	assert.Equal(t, 1, controller.starts)

	controller.state.Running = true
	controller.state.Paused = true
	view.RefreshControls()
	assert.Equal(t, "Resume", view.pauseButton.Text)
	assert.True(t, view.presetButtons[2].Disabled())

	test.Tap(view.pauseButton)
	test.Tap(view.resetButton)
	assert.Equal(t, 1, controller.toggles)
	assert.Equal(t, 1, controller.resets)
}
