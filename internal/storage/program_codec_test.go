package storage

import (
	"testing"

	"meditimer/internal/core/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeProgram(t *testing.T) {
	program := model.Program{
		Intervals: []model.IntervalSpec{
			{DurationSec: 300, StartGong: model.Gong1, EndGong: model.GongNone},
			{DurationSec: 60, StartGong: model.GongNone, EndGong: model.Gong3},
		},
		RepeatCount: 2,
	}
	assert.Equal(t, "repeat=2;intervals=300-1-0|60-0-3", EncodeProgram(program))
}

func TestProgramRoundTrip(t *testing.T) {
	programs := []model.Program{
		{Intervals: []model.IntervalSpec{{DurationSec: 10, EndGong: model.Gong1}}, RepeatCount: 1},
		{Intervals: []model.IntervalSpec{{DurationSec: 0}}, RepeatCount: 0},
		{
			Intervals: []model.IntervalSpec{
				{DurationSec: 1, StartGong: model.Gong1, EndGong: model.Gong2},
				{DurationSec: 2, StartGong: model.Gong2, EndGong: model.Gong3},
				{DurationSec: 3, StartGong: model.Gong3, EndGong: model.GongNone},
				{DurationSec: 4, StartGong: model.GongNone, EndGong: model.Gong1},
				{DurationSec: 3600, StartGong: model.Gong1, EndGong: model.Gong1},
			},
			RepeatCount: model.MaxRepeat,
		},
	}

	for _, program := range programs {
		decoded := DecodeProgram(EncodeProgram(program))
		require.NotNil(t, decoded)
		assert.Equal(t, program, *decoded)
	}
}

func TestDecodeProgramRejectsGarbage(t *testing.T) {
	for _, value := range []string{
		"",
		"garbage",
		"repeat=1",
		"repeat=1;intervals=",
		"repeat=1;intervals=   ",
		"repeat=1;intervals=a-b-c|10-1|1-2-3-4",
		"a;b;c",
	} {
		assert.Nil(t, DecodeProgram(value), "value %q", value)
	}
}

func TestDecodeProgramIsLenient(t *testing.T) {
	decoded := DecodeProgram("repeat=x;intervals=10-1-2|oops|20-x-9|30-3-3")
	require.NotNil(t, decoded)
	assert.Equal(t, model.Program{
		Intervals: []model.IntervalSpec{
			{DurationSec: 10, StartGong: model.Gong1, EndGong: model.Gong2},
			{DurationSec: 20, StartGong: model.GongNone, EndGong: model.GongNone},
			{DurationSec: 30, StartGong: model.Gong3, EndGong: model.Gong3},
		},
	}, *decoded)
}

func TestDecodeProgramClamps(t *testing.T) {
	decoded := DecodeProgram("repeat=99;intervals=1-0-0|2-0-0|3-0-0|4-0-0|5-0-0|6-0-0|7-0-0")
	require.NotNil(t, decoded)
	assert.Len(t, decoded.Intervals, model.MaxIntervals)
	assert.Equal(t, 5, decoded.Intervals[4].DurationSec)
	assert.Equal(t, model.MaxRepeat, decoded.RepeatCount)

	decoded = DecodeProgram("repeat=-3;intervals=1-0-0")
	require.NotNil(t, decoded)
	assert.Zero(t, decoded.RepeatCount)
}

func TestDecodeProgramWithoutPrefixes(t *testing.T) {
	decoded := DecodeProgram("2;15-1-1")
	require.NotNil(t, decoded)
	assert.Equal(t, 2, decoded.RepeatCount)
	assert.Equal(t, 15, decoded.Intervals[0].DurationSec)
}
