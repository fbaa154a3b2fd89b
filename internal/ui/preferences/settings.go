package preferences

import (
	"net/url"
	"strings"

	"meditimer/internal/core/model"
)

// GongOptions lists the interval gong choices, silence included.
func GongOptions() []string {
	return append([]string{model.GongNone.String()}, SoundGongOptions()...)
}

// SoundGongOptions lists the start and end gong choices. These sounds always
// play, so silence is not offered.
func SoundGongOptions() []string {
	return []string{
		model.Gong1.String(),
		model.Gong2.String(),
		model.Gong3.String(),
	}
}

// ParseGong maps a selector option back to its gong.
func ParseGong(option string) model.Gong {
	for id := model.GongNone.ID(); id <= model.Gong3.ID(); id++ {
		gong := model.GongFromID(id)
		if gong.String() == option {
			return gong
		}
	}
	return model.GongNone
}

// NormalizeSoundURI accepts a file URI or a plain path and returns a file
// URI. Empty input stays empty.
func NormalizeSoundURI(value string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return ""
	}
	if strings.Contains(value, "://") {
		return value
	}
	return (&url.URL{Scheme: "file", Path: value}).String()
}
