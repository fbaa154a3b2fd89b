package timerengine

import "fmt"

// Phase represents the current engine mode.
type Phase string

const (
	PhaseIdle     Phase = "idle"
	PhaseWarmup   Phase = "warmup"
	PhaseMeditate Phase = "meditate"
	PhaseProgram  Phase = "program"
)

const (
	labelWarmup   = "Warm-up"
	labelMeditate = "Meditation"
)

// ProgramProgress describes the position inside a running program.
type ProgramProgress struct {
	// CurrentIndex is 1-based for display.
	CurrentIndex int
	Total        int
	// CompletedDurations holds the totals of intervals already finished in
	// the current pass, in order.
	CompletedDurations []int
}

// Snapshot is the externally observable engine state.
type Snapshot struct {
	Phase        Phase
	Label        string
	RemainingSec int
	TotalSec     int
	Program      *ProgramProgress
}

// ElapsedSec returns the seconds already counted in the current phase.
func (snapshot Snapshot) ElapsedSec() int {
	elapsed := snapshot.TotalSec - snapshot.RemainingSec
	if elapsed < 0 {
		return 0
	}
	return elapsed
}

// IsIdle reports whether no run is active.
func (snapshot Snapshot) IsIdle() bool {
	return snapshot.Phase == PhaseIdle || snapshot.Phase == ""
}

func idleSnapshot() Snapshot {
	return Snapshot{Phase: PhaseIdle}
}

func intervalLabel(current, total int) string {
	return fmt.Sprintf("Interval %d/%d", current, total)
}
