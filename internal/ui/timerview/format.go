package timerview

import (
	"fmt"

	"meditimer/internal/core/model"
)

// FormatClock renders seconds as mm:ss, or h:mm:ss from one hour up.
func FormatClock(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	hours := seconds / 3600
	minutes := (seconds % 3600) / 60
	secs := seconds % 60
	if hours > 0 {
		return fmt.Sprintf("%d:%02d:%02d", hours, minutes, secs)
	}
	return fmt.Sprintf("%02d:%02d", minutes, secs)
}

// PresetCaption is the short text shown on a preset button.
func PresetCaption(preset model.Preset) string {
	if preset.Name != "" {
		return preset.Name
	}
	if preset.IsProgram() {
		return fmt.Sprintf("%d intervals", len(preset.Program.Intervals))
	}
	return FormatClock(preset.MeditateSec)
}
