package presets

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var errBadDuration = errors.New("use minutes, mm:ss or h:mm:ss")

// ParseDuration reads a duration entry. A bare number is minutes.
func ParseDuration(value string) (int, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0, nil
	}
	parts := strings.Split(value, ":")
	if len(parts) > 3 {
		return 0, fmt.Errorf("%q: %w", value, errBadDuration)
	}
	numbers := make([]int, len(parts))
	for index, part := range parts {
		number, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil || number < 0 {
			return 0, fmt.Errorf("%q: %w", value, errBadDuration)
		}
		numbers[index] = number
	}
	switch len(numbers) {
	case 1:
		return numbers[0] * 60, nil
	case 2:
		return numbers[0]*60 + numbers[1], nil
	default:
		return numbers[0]*3600 + numbers[1]*60 + numbers[2], nil
	}
}

// FormatDuration is the inverse of ParseDuration.
func FormatDuration(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	if seconds >= 3600 {
		return fmt.Sprintf("%d:%02d:%02d", seconds/3600, (seconds%3600)/60, seconds%60)
	}
	return fmt.Sprintf("%d:%02d", seconds/60, seconds%60)
}
