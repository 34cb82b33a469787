package model

import (
	"fmt"
	"strconv"
	"strings"
)

// ParseField converts user input into a field value in [0, limit].
// Text that is not an integer is treated as zero.
func ParseField(text string, limit int) int {
	value, err := strconv.Atoi(strings.TrimSpace(text))
	if err != nil {
		return 0
	}
	return ClampField(value, limit)
}

// ClampField limits value to [0, limit].
func ClampField(value, limit int) int {
	if value < 0 {
		return 0
	}
	if value > limit {
		return limit
	}
	return value
}

// ClampVolume limits a volume level to [0, 1].
func ClampVolume(volume float64) float64 {
	if volume < 0 || volume != volume {
		return 0
	}
	if volume > 1 {
		return 1
	}
	return volume
}

// TotalSeconds returns the countdown length for clamped minutes and seconds.
func TotalSeconds(minutes, seconds int) int {
	return ClampField(minutes, MaxMinutes)*60 + ClampField(seconds, MaxSeconds)
}

// FormatClock splits seconds into zero-padded minute and second digits.
func FormatClock(seconds int) (string, string) {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%02d", seconds/60), fmt.Sprintf("%02d", seconds%60)
}

// FormatRemaining renders seconds as "mm:ss".
func FormatRemaining(seconds int) string {
	minutes, secs := FormatClock(seconds)
	return minutes + ":" + secs
}
