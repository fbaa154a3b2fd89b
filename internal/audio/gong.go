package audio

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"math"
	"os"
	"path/filepath"

	"meditimer/internal/core/model"
)

const (
	sampleRate   = 22050
	gongSeconds  = 5
	gongFileName = "gong%d.wav"
)

// gongVoice describes the partials of one built-in gong.
type gongVoice struct {
	base     float64
	partials []float64
	decay    float64
}

var gongVoices = map[model.Gong]gongVoice{
	model.Gong1: {base: 110, partials: []float64{1, 2.76, 5.40, 8.93}, decay: 0.9},
	model.Gong2: {base: 196, partials: []float64{1, 2.0, 3.01, 4.17}, decay: 1.2},
	model.Gong3: {base: 330, partials: []float64{1, 2.32, 4.25, 6.63}, decay: 1.6},
}

// beepFrequency is used when no audio player is installed.
func beepFrequency(gong model.Gong) float64 {
	if voice, ok := gongVoices[gong]; ok {
		return voice.base * 4
	}
	return 440
}

// ensureGongFile writes the synthesized gong to dir once and returns its path.
func ensureGongFile(dir string, gong model.Gong) (string, error) {
	voice, ok := gongVoices[gong]
	if !ok {
		return "", fmt.Errorf("unknown gong %d", gong.ID())
	}
	path := filepath.Join(dir, fmt.Sprintf(gongFileName, gong.ID()))
	if _, err := os.Stat(path); err == nil {
		return path, nil
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create sound cache: %w", err)
	}
	if err := os.WriteFile(path, synthesize(voice), 0o644); err != nil {
		return "", fmt.Errorf("write gong file: %w", err)
	}
	return path, nil
}

// synthesize renders a mono 16-bit PCM WAV of decaying inharmonic partials.
func synthesize(voice gongVoice) []byte {
	samples := sampleRate * gongSeconds
	pcm := make([]int16, samples)
	for index := range pcm {
		t := float64(index) / sampleRate
		var value float64
		for order, ratio := range voice.partials {
			amplitude := 1 / float64(order+1)
			decay := math.Exp(-voice.decay * t * float64(order+1) * 0.6)
			value += amplitude * decay * math.Sin(2*math.Pi*voice.base*ratio*t)
		}
		attack := math.Min(t/0.01, 1)
		pcm[index] = int16(value * attack * 0.45 * math.MaxInt16)
	}

	var buffer bytes.Buffer
	dataSize := uint32(len(pcm) * 2)
	buffer.WriteString("RIFF")
	_ = binary.Write(&buffer, binary.LittleEndian, 36+dataSize)
	buffer.WriteString("WAVE")
	buffer.WriteString("fmt ")
	_ = binary.Write(&buffer, binary.LittleEndian, uint32(16))
	_ = binary.Write(&buffer, binary.LittleEndian, uint16(1))
	_ = binary.Write(&buffer, binary.LittleEndian, uint16(1))
	_ = binary.Write(&buffer, binary.LittleEndian, uint32(sampleRate))
	_ = binary.Write(&buffer, binary.LittleEndian, uint32(sampleRate*2))
	_ = binary.Write(&buffer, binary.LittleEndian, uint16(2))
	_ = binary.Write(&buffer, binary.LittleEndian, uint16(16))
	buffer.WriteString("data")
	_ = binary.Write(&buffer, binary.LittleEndian, dataSize)
	_ = binary.Write(&buffer, binary.LittleEndian, pcm)
	return buffer.Bytes()
}
