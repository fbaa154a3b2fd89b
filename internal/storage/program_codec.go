package storage

import (
	"fmt"
	"strconv"
	"strings"

	"meditimer/internal/core/model"
)

const (
	repeatPrefix    = "repeat="
	intervalsPrefix = "intervals="
)

// EncodeProgram serializes a program into the single-string slot format:
//
//	repeat=<int>;intervals=<dur>-<start>-<end>|<dur>-<start>-<end>|...
func EncodeProgram(program model.Program) string {
	segments := make([]string, 0, len(program.Intervals))
	for _, interval := range program.Intervals {
		segments = append(segments, fmt.Sprintf("%d-%d-%d",
			interval.DurationSec, interval.StartGong.ID(), interval.EndGong.ID()))
	}
	return repeatPrefix + strconv.Itoa(program.RepeatCount) + ";" + intervalsPrefix + strings.Join(segments, "|")
}

// DecodeProgram parses a persisted program. Malformed segments are dropped,
// unparsable numbers default to zero and out of range values are clamped.
// It returns nil when nothing usable remains.
func DecodeProgram(value string) *model.Program {
	parts := strings.Split(value, ";")
	if len(parts) != 2 {
		return nil
	}
	repeat := atoiOrZero(strings.TrimPrefix(parts[0], repeatPrefix))
	rawIntervals := strings.TrimPrefix(parts[1], intervalsPrefix)
	if strings.TrimSpace(rawIntervals) == "" {
		return nil
	}

	var intervals []model.IntervalSpec
	for _, segment := range strings.Split(rawIntervals, "|") {
		interval, ok := decodeInterval(segment)
		if !ok {
			continue
		}
		intervals = append(intervals, interval)
	}
	if len(intervals) == 0 {
		return nil
	}
	if len(intervals) > model.MaxIntervals {
		intervals = intervals[:model.MaxIntervals]
	}
	return &model.Program{
		Intervals:   intervals,
		RepeatCount: model.ClampInt(repeat, 0, model.MaxRepeat),
	}
}

func decodeInterval(segment string) (model.IntervalSpec, bool) {
	fields := strings.Split(segment, "-")
	if len(fields) != 3 {
		return model.IntervalSpec{}, false
	}
	duration, err := strconv.Atoi(fields[0])
	if err != nil {
		return model.IntervalSpec{}, false
	}
	return model.IntervalSpec{
		DurationSec: duration,
		StartGong:   model.GongFromID(atoiOrZero(fields[1])),
		EndGong:     model.GongFromID(atoiOrZero(fields[2])),
	}, true
}

func atoiOrZero(value string) int {
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return 0
	}
	return parsed
}
