package alarm

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/effects"
	"github.com/gopxl/beep/v2/generators"
	"github.com/gopxl/beep/v2/speaker"
	"github.com/gopxl/beep/v2/wav"
)

// SampleRate is the rate the alarm is synthesized at.
const SampleRate = beep.SampleRate(44100)

// ErrUnsupportedNote indicates a note cannot be synthesized at SampleRate.
var ErrUnsupportedNote = errors.New("note frequency not supported")

// Output plays a streamer without blocking the caller.
type Output interface {
	Play(streamer beep.Streamer) error
}

// Player synthesizes the alarm melody and hands it to an Output.
type Player struct {
	output     Output
	sampleRate beep.SampleRate
	tone       func(beep.SampleRate, float64) (beep.Streamer, error)
}

// NewPlayer creates a player. A nil output plays through the system speaker.
func NewPlayer(output Output) *Player {
	if output == nil {
		output = NewSpeakerOutput(SampleRate)
	}
	return &Player{output: output, sampleRate: SampleRate, tone: generators.SineTone}
}

// Play schedules the whole melody at the given volume and returns immediately.
// The volume is read once; later changes only affect later calls.
func (player *Player) Play(volume float64) error {
	streamer, err := player.Streamer(volume)
	if err != nil {
		return err
	}
	return player.output.Play(streamer)
}

// PlayAndWait plays the melody and blocks until it has finished or ctx is done.
func (player *Player) PlayAndWait(ctx context.Context, volume float64) error {
	streamer, err := player.Streamer(volume)
	if err != nil {
		return err
	}
	done := make(chan struct{})
	var once sync.Once
	finished := beep.Callback(func() {
		once.Do(func() { close(done) })
	})
	if err := player.output.Play(beep.Seq(streamer, finished)); err != nil {
		return err
	}
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Export renders the melody as a 16-bit stereo WAV.
func (player *Player) Export(w io.WriteSeeker, volume float64) error {
	streamer, err := player.Streamer(volume)
	if err != nil {
		return err
	}
	format := beep.Format{SampleRate: player.sampleRate, NumChannels: 2, Precision: 2}
	if err := wav.Encode(w, streamer, format); err != nil {
		return fmt.Errorf("encode alarm wav: %w", err)
	}
	return nil
}

// Streamer builds the melody as one sequential streamer.
func (player *Player) Streamer(volume float64) (beep.Streamer, error) {
	cues := Schedule(volume)
	notes := make([]beep.Streamer, 0, len(cues))
	for _, cue := range cues {
		tone, err := player.tone(player.sampleRate, cue.Note.Frequency)
		if err != nil {
			return nil, fmt.Errorf("%w: %.2f Hz: %v", ErrUnsupportedNote, cue.Note.Frequency, err)
		}
		samples := player.sampleRate.N(cue.Note.Duration)
		shaped := &envelope{
			streamer:   beep.Take(samples, tone),
			duration:   cue.Note.Duration,
			sampleRate: player.sampleRate,
		}
		notes = append(notes, &effects.Gain{Streamer: shaped, Gain: cue.Peak - 1})
	}
	return beep.Seq(notes...), nil
}

// envelope applies the unit-peak note shape to a tone.
type envelope struct {
	streamer   beep.Streamer
	duration   time.Duration
	sampleRate beep.SampleRate
	position   int
}

func (env *envelope) Stream(samples [][2]float64) (int, bool) {
	n, ok := env.streamer.Stream(samples)
	for i := 0; i < n; i++ {
		gain := shape(env.sampleRate.D(env.position+i), env.duration)
		samples[i][0] *= gain
		samples[i][1] *= gain
	}
	env.position += n
	return n, ok
}

func (env *envelope) Err() error {
	return env.streamer.Err()
}

// SpeakerOutput plays through the system speaker, opened on first use.
type SpeakerOutput struct {
	once       sync.Once
	initErr    error
	sampleRate beep.SampleRate
}

// NewSpeakerOutput creates a speaker output at the given sample rate.
func NewSpeakerOutput(sampleRate beep.SampleRate) *SpeakerOutput {
	return &SpeakerOutput{sampleRate: sampleRate}
}

// Play queues the streamer on the speaker mixer.
func (output *SpeakerOutput) Play(streamer beep.Streamer) error {
	output.once.Do(func() {
		output.initErr = speaker.Init(output.sampleRate, output.sampleRate.N(time.Second/10))
	})
	if output.initErr != nil {
		return fmt.Errorf("init speaker: %w", output.initErr)
	}
	speaker.Play(streamer)
	return nil
}
