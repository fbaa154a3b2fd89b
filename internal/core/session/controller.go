package session

import (
	"errors"
	"log"
	"sync"

	"meditimer/internal/core/model"
	"meditimer/internal/core/timerengine"
	"meditimer/internal/storage"
)

var (
	// ErrSlotEmpty is returned when selecting a preset slot with no preset.
	ErrSlotEmpty = errors.New("preset slot is empty")
	// ErrRunning is returned when the selection changes during a run.
	ErrRunning = errors.New("timer is running")
)

const keepAwakeReason = "Meditation in progress"

// Player plays gong sounds.
type Player interface {
	PlayBuiltin(gong model.Gong) error
	PlayURI(uri string) error
	Stop()
	SetAlarmVolume(enabled bool)
}

// Inhibitor keeps the machine awake while held.
type Inhibitor interface {
	Acquire(reason string) error
	Release() error
}

// Notifier posts user visible notifications.
type Notifier interface {
	Notify(title, message string) error
}

// Dependencies are the collaborators of a Controller. KeepAwake and
// Notifier are optional.
type Dependencies struct {
	Presets   *storage.PresetStore
	Settings  *storage.SettingsStore
	Player    Player
	KeepAwake Inhibitor
	Notifier  Notifier
}

// State is the selection and run status shown by the timer view.
type State struct {
	Running     bool
	Paused      bool
	Slot        int
	WarmupSec   int
	MeditateSec int
	Program     *model.Program
}

// Controller drives the timer engine on behalf of the UI: it owns the
// current selection, plays the simple-mode gongs and persists last used
// durations.
type Controller struct {
	mu     sync.Mutex
	deps   Dependencies
	engine *timerengine.Engine
	state  State

	onChange func(State)
}

// New creates a Controller and its engine.
func New(deps Dependencies, engineConfig timerengine.Config) *Controller {
	settings := deps.Settings.Settings()
	controller := &Controller{
		deps: deps,
		state: State{
			Slot:        -1,
			WarmupSec:   settings.LastWarmupSec,
			MeditateSec: settings.LastMeditateSec,
		},
	}
	controller.engine = timerengine.New(timerengine.Callbacks{
		OnPhaseStart: controller.handlePhaseStart,
		OnFinish:     controller.handleFinish,
		PlayBuiltin:  controller.handleIntervalGong,
	}, engineConfig)
	return controller
}

// Engine exposes the engine for snapshot subscriptions.
func (controller *Controller) Engine() *timerengine.Engine {
	return controller.engine
}

// SetOnChange registers a handler fired after every state change.
func (controller *Controller) SetOnChange(handler func(State)) {
	controller.mu.Lock()
	defer controller.mu.Unlock()
	controller.onChange = handler
}

// State returns the current selection and run status.
func (controller *Controller) State() State {
	controller.mu.Lock()
	defer controller.mu.Unlock()
	return controller.state
}

// SelectPreset preselects the preset in slot without starting it.
func (controller *Controller) SelectPreset(slot int) error {
	preset := controller.deps.Presets.Preset(slot)
	if preset == nil {
		return ErrSlotEmpty
	}

	err := controller.update(func(state *State) error {
		if state.Running {
			return ErrRunning
		}
		state.Slot = storage.ClampSlot(slot)
		state.WarmupSec = preset.WarmupSec
		state.MeditateSec = preset.MeditateSec
		state.Program = nil
		if preset.Program != nil {
			program := preset.Program.Clone()
			state.Program = &program
		}
		return nil
	})
	if err != nil {
		return err
	}
	controller.deps.Settings.SaveLastUsedAsync(preset.WarmupSec, preset.MeditateSec)
	return nil
}

// SetDurations selects a simple run and drops any selected program.
func (controller *Controller) SetDurations(warmupSec, meditateSec int) error {
	return controller.update(func(state *State) error {
		if state.Running {
			return ErrRunning
		}
		state.Slot = -1
		state.WarmupSec = max(warmupSec, 0)
		state.MeditateSec = max(meditateSec, 1)
		state.Program = nil
		return nil
	})
}

// Start begins the selected run. A running timer is restarted.
func (controller *Controller) Start() {
	var selection State
	_ = controller.update(func(state *State) error {
		state.Running = true
		state.Paused = false
		selection = *state
		return nil
	})

	settings := controller.deps.Settings.Settings()
	controller.deps.Player.SetAlarmVolume(settings.ForceAlarmStream)
	if settings.KeepAwake && controller.deps.KeepAwake != nil {
		if err := controller.deps.KeepAwake.Acquire(keepAwakeReason); err != nil {
			log.Printf("session: %v", err)
		}
	}

	if selection.Program != nil {
		controller.engine.StartProgram(*selection.Program)
		return
	}
	controller.engine.Start(selection.WarmupSec, selection.MeditateSec)
	controller.deps.Settings.SaveLastUsedAsync(selection.WarmupSec, selection.MeditateSec)
}

// Pause freezes a running timer.
func (controller *Controller) Pause() {
	paused := false
	_ = controller.update(func(state *State) error {
		if !state.Running || state.Paused {
			return errNoChange
		}
		state.Paused = true
		paused = true
		return nil
	})
	if paused {
		controller.engine.Pause()
	}
}

// Resume continues a paused timer.
func (controller *Controller) Resume() {
	resumed := false
	_ = controller.update(func(state *State) error {
		if !state.Paused {
			return errNoChange
		}
		state.Paused = false
		resumed = true
		return nil
	})
	if resumed {
		controller.engine.Resume()
	}
}

// TogglePause pauses a running timer or resumes a paused one.
func (controller *Controller) TogglePause() {
	if controller.State().Paused {
		controller.Resume()
		return
	}
	controller.Pause()
}

// Reset stops the run and silences any gong.
func (controller *Controller) Reset() {
	controller.engine.Stop()
	controller.deps.Player.Stop()
	controller.releaseKeepAwake()
	_ = controller.update(func(state *State) error {
		state.Running = false
		state.Paused = false
		return nil
	})
}

// Close stops the engine and releases system resources.
func (controller *Controller) Close() {
	controller.engine.Close()
	controller.deps.Player.Stop()
	controller.releaseKeepAwake()
}

// DisplayTimes returns the warm-up and meditation values the timer view
// shows for a simple run in the given snapshot.
func (controller *Controller) DisplayTimes(snapshot timerengine.Snapshot) (warmupSec, meditateSec int) {
	state := controller.State()
	switch snapshot.Phase {
	case timerengine.PhaseWarmup:
		return snapshot.RemainingSec, state.MeditateSec
	case timerengine.PhaseMeditate:
		return 0, snapshot.RemainingSec
	default:
		return state.WarmupSec, state.MeditateSec
	}
}

// Preview plays a sound outside of a run, for the settings Test buttons.
func (controller *Controller) Preview(uri string, gong model.Gong) {
	controller.play(uri, gong)
}

func (controller *Controller) handlePhaseStart(phase timerengine.Phase) {
	if phase != timerengine.PhaseMeditate {
		return
	}
	uri, gong := controller.deps.Settings.Settings().StartSound()
	controller.play(uri, gong)
}

func (controller *Controller) handleFinish() {
	_ = controller.update(func(state *State) error {
		state.Running = false
		state.Paused = false
		return nil
	})

	uri, gong := controller.deps.Settings.Settings().EndSound()
	controller.play(uri, gong)
	controller.releaseKeepAwake()

	if controller.deps.Notifier != nil {
		if err := controller.deps.Notifier.Notify("", "Meditation complete"); err != nil {
			log.Printf("session: notify: %v", err)
		}
	}
}

func (controller *Controller) handleIntervalGong(gong model.Gong) {
	controller.play("", gong)
}

func (controller *Controller) play(uri string, gong model.Gong) {
	player := controller.deps.Player
	if uri != "" {
		if err := player.PlayURI(uri); err != nil {
			log.Printf("session: play %s: %v", uri, err)
		}
		return
	}
	if gong.IsNone() {
		return
	}
	if err := player.PlayBuiltin(gong); err != nil {
		log.Printf("session: play gong %d: %v", gong.ID(), err)
	}
}

func (controller *Controller) releaseKeepAwake() {
	if controller.deps.KeepAwake == nil {
		return
	}
	if err := controller.deps.KeepAwake.Release(); err != nil {
		log.Printf("session: %v", err)
	}
}

var errNoChange = errors.New("no change")

// update mutates the state under lock and reports the new state to the
// change handler when fn succeeds.
func (controller *Controller) update(fn func(*State) error) error {
	controller.mu.Lock()
	if err := fn(&controller.state); err != nil {
		controller.mu.Unlock()
		return err
	}
	state := controller.state
	handler := controller.onChange
	controller.mu.Unlock()

	if handler != nil {
		handler(state)
	}
	return nil
}
