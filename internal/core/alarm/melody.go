package alarm

import (
	"time"

	"countdown/internal/core/model"
)

// Attack is how long a note takes to ramp from silence to its peak.
const Attack = 10 * time.Millisecond

// Note is one tone of the alarm melody.
type Note struct {
	Frequency float64
	Duration  time.Duration
}

var melody = [...]Note{
	{Frequency: 440, Duration: 200 * time.Millisecond},    // A4
	{Frequency: 523.25, Duration: 200 * time.Millisecond}, // C5
	{Frequency: 587.33, Duration: 200 * time.Millisecond}, // D5
	{Frequency: 659.25, Duration: 200 * time.Millisecond}, // E5
	{Frequency: 783.99, Duration: 200 * time.Millisecond}, // G5
	{Frequency: 880, Duration: 400 * time.Millisecond},    // A5
}

// Melody returns a copy of the alarm notes in playing order.
func Melody() []Note {
	return append([]Note(nil), melody[:]...)
}

// Cue is a note placed on the alarm timeline.
type Cue struct {
	Start time.Duration
	Note  Note
	Peak  float64
}

// End returns the offset at which the cue falls silent.
func (cue Cue) End() time.Duration {
	return cue.Start + cue.Note.Duration
}

// Gain returns the envelope level at offset from the start of the note.
// The level rises linearly to Peak over Attack and falls linearly back to
// zero at the end of the note.
func (cue Cue) Gain(offset time.Duration) float64 {
	return cue.Peak * shape(offset, cue.Note.Duration)
}

// Schedule lays the melody out back to back, each note peaking at volume.
func Schedule(volume float64) []Cue {
	peak := model.ClampVolume(volume)
	cues := make([]Cue, 0, len(melody))
	var start time.Duration
	for _, note := range melody {
		cues = append(cues, Cue{Start: start, Note: note, Peak: peak})
		start += note.Duration
	}
	return cues
}

// Length returns the total duration of a schedule.
func Length(cues []Cue) time.Duration {
	if len(cues) == 0 {
		return 0
	}
	return cues[len(cues)-1].End()
}

func shape(offset, duration time.Duration) float64 {
	if offset <= 0 || offset >= duration {
		return 0
	}
	attack := Attack
	if attack > duration {
		attack = duration
	}
	if offset < attack {
		return float64(offset) / float64(attack)
	}
	release := duration - attack
	if release <= 0 {
		return 1
	}
	return float64(duration-offset) / float64(release)
}
