package model

import "time"

const (
	// MaxMinutes is the largest value accepted by the minutes field.
	MaxMinutes = 60
	// MaxSeconds is the largest value accepted by the seconds field.
	MaxSeconds = 59
)

// Settings contains the runtime options of the countdown window.
type Settings struct {
	TickInterval   time.Duration
	DefaultMinutes int
	DefaultSeconds int
	Presets        []int
	Volume         float64

	WindowWidth  float32
	WindowHeight float32
}

// DefaultSettings returns default settings for Countdown.
func DefaultSettings() Settings {
	return Settings{
		TickInterval:   time.Second,
		DefaultMinutes: 3,
		DefaultSeconds: 0,
		Presets:        []int{1, 3, 5, 10, 15, 30},
		Volume:         0.3,
		WindowWidth:    360,
		WindowHeight:   320,
	}
}

// Normalize clamps every field into its accepted range.
func (settings Settings) Normalize() Settings {
	if settings.TickInterval <= 0 {
		settings.TickInterval = time.Second
	}
	settings.DefaultMinutes = ClampField(settings.DefaultMinutes, MaxMinutes)
	settings.DefaultSeconds = ClampField(settings.DefaultSeconds, MaxSeconds)
	settings.Volume = ClampVolume(settings.Volume)

	presets := make([]int, 0, len(settings.Presets))
	for _, minutes := range settings.Presets {
		if minutes > 0 && minutes <= MaxMinutes {
			presets = append(presets, minutes)
		}
	}
	settings.Presets = presets
	return settings
}
