package model

// Gong identifies a built-in gong sound. Zero means no gong.
type Gong int

const (
	GongNone Gong = iota
	Gong1
	Gong2
	Gong3
)

const (
	// MaxIntervals is the number of intervals a program may hold.
	MaxIntervals = 5
	// MaxRepeat is the highest repeat count a program may carry.
	MaxRepeat = 20
)

// GongFromID maps a persisted id to a gong. Unknown ids map to GongNone.
func GongFromID(id int) Gong {
	switch Gong(id) {
	case Gong1, Gong2, Gong3:
		return Gong(id)
	default:
		return GongNone
	}
}

// ID returns the persisted id of the gong.
func (gong Gong) ID() int {
	return int(gong)
}

// IsNone reports whether no sound is selected.
func (gong Gong) IsNone() bool {
	return gong == GongNone
}

func (gong Gong) String() string {
	switch gong {
	case Gong1:
		return "Gong 1"
	case Gong2:
		return "Gong 2"
	case Gong3:
		return "Gong 3"
	default:
		return "None"
	}
}

// IntervalSpec is one timed step of a program.
type IntervalSpec struct {
	DurationSec int
	StartGong   Gong
	EndGong     Gong
}

// Program is an ordered, optionally repeating sequence of intervals.
// RepeatCount zero runs the sequence once; n runs it n additional times.
type Program struct {
	Intervals   []IntervalSpec
	RepeatCount int
}

// Passes returns how many times the interval sequence runs.
func (program Program) Passes() int {
	return program.RepeatCount + 1
}

// Normalize returns a copy clamped to the persisted bounds.
func (program Program) Normalize() Program {
	intervals := program.Intervals
	if len(intervals) > MaxIntervals {
		intervals = intervals[:MaxIntervals]
	}
	normalized := Program{
		Intervals:   make([]IntervalSpec, len(intervals)),
		RepeatCount: ClampInt(program.RepeatCount, 0, MaxRepeat),
	}
	for index, interval := range intervals {
		if interval.DurationSec < 0 {
			interval.DurationSec = 0
		}
		interval.StartGong = GongFromID(interval.StartGong.ID())
		interval.EndGong = GongFromID(interval.EndGong.ID())
		normalized.Intervals[index] = interval
	}
	return normalized
}

// Clone returns a deep copy.
func (program Program) Clone() Program {
	return Program{
		Intervals:   append([]IntervalSpec(nil), program.Intervals...),
		RepeatCount: program.RepeatCount,
	}
}

// ClampInt bounds value to [low, high].
func ClampInt(value, low, high int) int {
	if value < low {
		return low
	}
	if value > high {
		return high
	}
	return value
}
