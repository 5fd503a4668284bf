package util

import (
	"fmt"
	"strconv"
)

// FormatSeconds renders a duration in seconds as "XmYYs" for log output
func FormatSeconds(seconds float64) string {
	if seconds < 0 {
		seconds = 0
	}
	whole := int(seconds)
	return fmt.Sprintf("%dm%02ds", whole/60, whole%60)
}

// FormatTimestamp converts seconds to the decimal form ffmpeg accepts for -ss/-t
func FormatTimestamp(seconds float64) string {
	return strconv.FormatFloat(seconds, 'f', 3, 64)
}

// ParseSeconds parses a plain decimal seconds value, as printed by ffprobe
func ParseSeconds(s string) (float64, error) {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid seconds value %q: %w", s, err)
	}
	return v, nil
}
