package model

// PresetSlots is the fixed number of preset storage positions.
const PresetSlots = 5

// Preset is a named timer configuration stored in a slot.
// A nil Program means a simple warm-up plus meditation run.
type Preset struct {
	Name        string
	WarmupSec   int
	MeditateSec int
	Program     *Program
}

// IsProgram reports whether the preset carries an interval program.
func (preset Preset) IsProgram() bool {
	return preset.Program != nil && len(preset.Program.Intervals) > 0
}

// ProgramSeconds returns the total running time of the program over all passes.
func (preset Preset) ProgramSeconds() int {
	if !preset.IsProgram() {
		return 0
	}
	total := 0
	for _, interval := range preset.Program.Intervals {
		total += max(interval.DurationSec, 1)
	}
	return total * preset.Program.Passes()
}
