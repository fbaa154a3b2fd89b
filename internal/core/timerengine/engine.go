package timerengine

import (
	"sync"
	"time"

	"meditimer/internal/core/model"
)

// Callbacks are invoked by the engine outside of its lock, in the order the
// triggering events happened.
type Callbacks struct {
	// OnPhaseStart fires when a warm-up, meditation or program interval begins.
	OnPhaseStart func(Phase)
	// OnFinish fires exactly once when a run completes. Stop never fires it.
	OnFinish func()
	// PlayBuiltin receives program interval gongs. GongNone is never passed.
	PlayBuiltin func(model.Gong)
}

// Config contains runtime options for Engine.
type Config struct {
	TickInterval time.Duration
	Ticker       TickSource
}

// Engine is the meditation timer state machine. It sequences either a
// warm-up plus meditation run or a looping interval program.
type Engine struct {
	mu        sync.Mutex
	callbacks Callbacks
	options   Config

	phase     Phase
	paused    bool
	remaining int
	total     int
	snapshot  Snapshot

	// simple mode
	meditateSec int

	// program mode
	program       *model.Program
	repIndex      int
	intervalIndex int
	completed     []int

	cancelTick func()
	generation uint64

	events  []chan Snapshot
	pending []func()
	closed  bool
}

// New creates an idle Engine.
func New(callbacks Callbacks, options Config) *Engine {
	if options.TickInterval <= 0 {
		options.TickInterval = time.Second
	}
	if options.Ticker == nil {
		options.Ticker = ClockTicker{}
	}
	return &Engine{
		callbacks: callbacks,
		options:   options,
		phase:     PhaseIdle,
		snapshot:  idleSnapshot(),
	}
}

// Subscribe registers a new observer channel. The current snapshot is
// delivered first.
func (engine *Engine) Subscribe(buffer int) <-chan Snapshot {
	if buffer <= 0 {
		buffer = 1
	}
	ch := make(chan Snapshot, buffer)
	engine.mu.Lock()
	defer engine.mu.Unlock()
	if engine.closed {
		close(ch)
		return ch
	}
	ch <- engine.snapshot
	engine.events = append(engine.events, ch)
	return ch
}

// Snapshot returns the latest emitted state.
func (engine *Engine) Snapshot() Snapshot {
	engine.mu.Lock()
	defer engine.mu.Unlock()
	return engine.snapshot
}

// Paused reports whether the active run is paused.
func (engine *Engine) Paused() bool {
	engine.mu.Lock()
	defer engine.mu.Unlock()
	return engine.paused
}

// Start begins a simple run. A zero warm-up skips straight to meditation.
func (engine *Engine) Start(warmupSec, meditateSec int) {
	engine.withLock(func() {
		engine.stopLocked()
		engine.meditateSec = max(meditateSec, 1)
		if warmupSec > 0 {
			engine.enterWarmupLocked(warmupSec)
			return
		}
		engine.enterMeditateLocked()
	})
}

// StartProgram begins an interval program. A program without intervals
// finishes immediately.
func (engine *Engine) StartProgram(program model.Program) {
	engine.withLock(func() {
		engine.stopLocked()
		if len(program.Intervals) == 0 {
			engine.queueLocked(engine.callbacks.OnFinish)
			return
		}
		cloned := program.Clone()
		engine.program = &cloned
		engine.repIndex = 0
		engine.intervalIndex = 0
		engine.completed = nil
		engine.enterIntervalLocked()
	})
}

// Pause freezes the countdown without touching the remaining time.
func (engine *Engine) Pause() {
	engine.withLock(func() {
		if engine.phase == PhaseIdle || engine.paused {
			return
		}
		engine.cancelTickLocked()
		engine.paused = true
	})
}

// Resume restarts ticking from the current remaining value. It is a no-op
// unless the engine is paused.
func (engine *Engine) Resume() {
	engine.withLock(func() {
		if !engine.paused {
			return
		}
		engine.paused = false
		if engine.phase == PhaseIdle {
			return
		}
		engine.scheduleLocked()
	})
}

// Stop cancels any run and resets to Idle. Safe to call at any time.
func (engine *Engine) Stop() {
	engine.withLock(engine.stopLocked)
}

// Close stops the engine and closes all observer channels.
func (engine *Engine) Close() {
	engine.mu.Lock()
	if engine.closed {
		engine.mu.Unlock()
		return
	}
	engine.cancelTickLocked()
	engine.closed = true
	events := engine.events
	engine.events = nil
	engine.pending = nil
	engine.mu.Unlock()

	for _, ch := range events {
		close(ch)
	}
}

func (engine *Engine) tick(generation uint64) {
	engine.withLock(func() {
		if generation != engine.generation || engine.paused || engine.phase == PhaseIdle {
			return
		}
		engine.remaining = max(engine.remaining-1, 0)
		if engine.remaining > 0 {
			engine.emitCurrentLocked()
			return
		}

		switch engine.phase {
		case PhaseWarmup:
			engine.emitCurrentLocked()
			engine.enterMeditateLocked()
		case PhaseMeditate:
			engine.emitCurrentLocked()
			engine.stopLocked()
			engine.queueLocked(engine.callbacks.OnFinish)
		case PhaseProgram:
			engine.finishIntervalLocked()
		}
	})
}

func (engine *Engine) enterWarmupLocked(warmupSec int) {
	engine.phase = PhaseWarmup
	engine.remaining = warmupSec
	engine.total = warmupSec
	engine.notifyPhaseStartLocked(PhaseWarmup)
	engine.emitCurrentLocked()
	engine.scheduleLocked()
}

func (engine *Engine) enterMeditateLocked() {
	engine.phase = PhaseMeditate
	engine.remaining = engine.meditateSec
	engine.total = engine.meditateSec
	engine.notifyPhaseStartLocked(PhaseMeditate)
	engine.emitCurrentLocked()
	engine.scheduleLocked()
}

func (engine *Engine) enterIntervalLocked() {
	interval := engine.program.Intervals[engine.intervalIndex]
	engine.phase = PhaseProgram
	engine.remaining = max(interval.DurationSec, 1)
	engine.total = engine.remaining

	engine.playLocked(interval.StartGong)
	engine.notifyPhaseStartLocked(PhaseProgram)
	engine.emitCurrentLocked()
	engine.scheduleLocked()
}

func (engine *Engine) finishIntervalLocked() {
	program := engine.program
	finished := engine.intervalIndex
	interval := program.Intervals[finished]

	engine.playLocked(interval.EndGong)
	engine.completed = append(engine.completed, engine.total)
	engine.intervalIndex++
	engine.emitLocked(engine.programSnapshotLocked(finished, 0))

	if engine.intervalIndex < len(program.Intervals) {
		engine.enterIntervalLocked()
		return
	}
	if engine.repIndex < program.RepeatCount {
		engine.repIndex++
		engine.intervalIndex = 0
		engine.completed = nil
		engine.enterIntervalLocked()
		return
	}
	engine.stopLocked()
	engine.queueLocked(engine.callbacks.OnFinish)
}

func (engine *Engine) stopLocked() {
	engine.cancelTickLocked()
	engine.paused = false
	engine.phase = PhaseIdle
	engine.remaining = 0
	engine.total = 0
	engine.program = nil
	engine.repIndex = 0
	engine.intervalIndex = 0
	engine.completed = nil
	engine.emitLocked(idleSnapshot())
}

func (engine *Engine) scheduleLocked() {
	engine.cancelTickLocked()
	if engine.closed {
		return
	}
	generation := engine.generation
	engine.cancelTick = engine.options.Ticker.Start(engine.options.TickInterval, func() {
		engine.tick(generation)
	})
}

func (engine *Engine) cancelTickLocked() {
	engine.generation++
	if engine.cancelTick != nil {
		engine.cancelTick()
		engine.cancelTick = nil
	}
}

func (engine *Engine) emitCurrentLocked() {
	switch engine.phase {
	case PhaseWarmup:
		engine.emitLocked(Snapshot{Phase: PhaseWarmup, Label: labelWarmup, RemainingSec: engine.remaining, TotalSec: engine.total})
	case PhaseMeditate:
		engine.emitLocked(Snapshot{Phase: PhaseMeditate, Label: labelMeditate, RemainingSec: engine.remaining, TotalSec: engine.total})
	case PhaseProgram:
		engine.emitLocked(engine.programSnapshotLocked(engine.intervalIndex, engine.remaining))
	default:
		engine.emitLocked(idleSnapshot())
	}
}

// programSnapshotLocked reports the interval at index with the given
// remaining seconds; total is always the current interval total.
func (engine *Engine) programSnapshotLocked(index, remaining int) Snapshot {
	count := len(engine.program.Intervals)
	progress := &ProgramProgress{
		CurrentIndex:       index + 1,
		Total:              count,
		CompletedDurations: append([]int{}, engine.completed...),
	}
	return Snapshot{
		Phase:        PhaseProgram,
		Label:        intervalLabel(progress.CurrentIndex, count),
		RemainingSec: remaining,
		TotalSec:     engine.total,
		Program:      progress,
	}
}

func (engine *Engine) notifyPhaseStartLocked(phase Phase) {
	if handler := engine.callbacks.OnPhaseStart; handler != nil {
		engine.pending = append(engine.pending, func() { handler(phase) })
	}
}

func (engine *Engine) playLocked(gong model.Gong) {
	if gong.IsNone() {
		return
	}
	if play := engine.callbacks.PlayBuiltin; play != nil {
		engine.pending = append(engine.pending, func() { play(gong) })
	}
}

func (engine *Engine) queueLocked(call func()) {
	if call != nil {
		engine.pending = append(engine.pending, call)
	}
}

// emitLocked records the snapshot and queues delivery to observers so that
// snapshots and callbacks reach the outside in one consistent order.
func (engine *Engine) emitLocked(snapshot Snapshot) {
	engine.snapshot = snapshot
	engine.pending = append(engine.pending, func() { engine.broadcast(snapshot) })
}

func (engine *Engine) broadcast(snapshot Snapshot) {
	engine.mu.Lock()
	defer engine.mu.Unlock()
	for _, ch := range engine.events {
		select {
		case ch <- snapshot:
		default:
		}
	}
}

// withLock runs fn under the engine lock and then flushes the queued
// callbacks and snapshots without holding it.
func (engine *Engine) withLock(fn func()) {
	engine.mu.Lock()
	if engine.closed {
		engine.mu.Unlock()
		return
	}
	fn()
	pending := engine.pending
	engine.pending = nil
	engine.mu.Unlock()

	for _, call := range pending {
		call()
	}
}
