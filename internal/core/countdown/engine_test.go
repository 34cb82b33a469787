package countdown

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type manualSchedule struct {
	task      func()
	cancelled bool
}

// manualScheduler fires ticks only when the test asks for them.
type manualScheduler struct {
	mu        sync.Mutex
	schedules []*manualSchedule
}

func (scheduler *manualScheduler) Every(_ time.Duration, task func()) func() {
	scheduler.mu.Lock()
	defer scheduler.mu.Unlock()
	schedule := &manualSchedule{task: task}
	scheduler.schedules = append(scheduler.schedules, schedule)
	return func() {
		scheduler.mu.Lock()
		defer scheduler.mu.Unlock()
		schedule.cancelled = true
	}
}

func (scheduler *manualScheduler) active() []*manualSchedule {
	scheduler.mu.Lock()
	defer scheduler.mu.Unlock()
	var active []*manualSchedule
	for _, schedule := range scheduler.schedules {
		if !schedule.cancelled {
			active = append(active, schedule)
		}
	}
	return active
}

func (scheduler *manualScheduler) fire(t *testing.T, count int) {
	t.Helper()
	for i := 0; i < count; i++ {
		active := scheduler.active()
		require.Len(t, active, 1, "tick %d", i)
		active[0].task()
	}
}

func newTestEngine() (*Engine, *manualScheduler, <-chan Event) {
	scheduler := &manualScheduler{}
	engine := New(Config{TickInterval: time.Second, Scheduler: scheduler})
	return engine, scheduler, engine.Subscribe(256)
}

func drain(events <-chan Event) []Event {
	var collected []Event
	for {
		select {
		case event := <-events:
			collected = append(collected, event)
		default:
			return collected
		}
	}
}

func countType(events []Event, eventType EventType) int {
	count := 0
	for _, event := range events {
		if event.Type == eventType {
			count++
		}
	}
	return count
}

func TestNewEngineIsIdle(t *testing.T) {
	engine, _, _ := newTestEngine()
	assert.Equal(t, State{Remaining: 0, Running: false}, engine.Snapshot())
}

func TestStartThenStopKeepsRequestedDuration(t *testing.T) {
	for minutes := 0; minutes <= 60; minutes++ {
		for seconds := 0; seconds <= 59; seconds++ {
			total := minutes*60 + seconds
			if total == 0 {
				continue
			}
			engine := New(Config{Scheduler: &manualScheduler{}})
			require.NoError(t, engine.Start(total))
			engine.Stop()
			assert.Equal(t, State{Remaining: total, Running: false}, engine.Snapshot())
		}
	}
}

func TestStartWithZeroDurationIsRejected(t *testing.T) {
	engine, scheduler, events := newTestEngine()

	err := engine.Start(0)
	assert.ErrorIs(t, err, ErrInvalidDuration)
	assert.ErrorIs(t, engine.Start(-5), ErrInvalidDuration)

	assert.Equal(t, State{}, engine.Snapshot())
	assert.Empty(t, scheduler.active())
	assert.Empty(t, drain(events))
}

func TestDoubleStartKeepsOneSchedule(t *testing.T) {
	engine, scheduler, events := newTestEngine()

	require.NoError(t, engine.Start(10))
	require.NoError(t, engine.Start(10))
	require.NoError(t, engine.Start(99))

	assert.Len(t, scheduler.active(), 1)
	assert.Len(t, scheduler.schedules, 1)
	assert.Equal(t, 1, countType(drain(events), EventStarted))
	assert.Equal(t, State{Remaining: 10, Running: true}, engine.Snapshot())
}

func TestTicksDecrementRemaining(t *testing.T) {
	engine, scheduler, events := newTestEngine()
	require.NoError(t, engine.Start(30))

	scheduler.fire(t, 7)

	assert.Equal(t, State{Remaining: 23, Running: true}, engine.Snapshot())
	ticks := drain(events)
	require.Equal(t, 7, countType(ticks, EventTick))
	assert.Equal(t, 23, ticks[len(ticks)-1].Remaining)
}

func TestFinalTickCompletesOnce(t *testing.T) {
	engine, scheduler, events := newTestEngine()
	require.NoError(t, engine.Start(5))

	scheduler.fire(t, 5)

	assert.Equal(t, State{Remaining: 0, Running: false}, engine.Snapshot())
	assert.Empty(t, scheduler.active())

	collected := drain(events)
	assert.Equal(t, 4, countType(collected, EventTick))
	assert.Equal(t, 1, countType(collected, EventComplete))
	last := collected[len(collected)-1]
	assert.Equal(t, EventComplete, last.Type)
	assert.Equal(t, 0, last.Remaining)
	assert.False(t, last.Running)
}

func TestStopResumesFromRemaining(t *testing.T) {
	engine, scheduler, _ := newTestEngine()
	require.NoError(t, engine.Start(90))
	scheduler.fire(t, 10)
	engine.Stop()

	assert.Equal(t, State{Remaining: 80, Running: false}, engine.Snapshot())

	require.NoError(t, engine.Start(5))
	assert.Equal(t, State{Remaining: 80, Running: true}, engine.Snapshot())
	scheduler.fire(t, 1)
	assert.Equal(t, 79, engine.Snapshot().Remaining)
}

func TestStopWhenIdleDoesNothing(t *testing.T) {
	engine, _, events := newTestEngine()
	engine.Stop()
	assert.Equal(t, State{}, engine.Snapshot())
	assert.Empty(t, drain(events))
}

func TestStaleTickAfterStopIsIgnored(t *testing.T) {
	engine, scheduler, _ := newTestEngine()
	require.NoError(t, engine.Start(10))
	stale := scheduler.active()[0].task

	engine.Stop()
	stale()
	assert.Equal(t, State{Remaining: 10, Running: false}, engine.Snapshot())

	require.NoError(t, engine.Start(0))
	stale()
	assert.Equal(t, State{Remaining: 10, Running: true}, engine.Snapshot())
}

func TestResetAlwaysClears(t *testing.T) {
	engine, scheduler, _ := newTestEngine()

	engine.Reset()
	assert.Equal(t, State{}, engine.Snapshot())

	require.NoError(t, engine.Start(42))
	scheduler.fire(t, 2)
	engine.Reset()
	assert.Equal(t, State{}, engine.Snapshot())
	assert.Empty(t, scheduler.active())

	require.NoError(t, engine.Start(42))
	engine.Stop()
	engine.Reset()
	assert.Equal(t, State{}, engine.Snapshot())

	assert.ErrorIs(t, engine.Start(0), ErrInvalidDuration)
}

func TestCloseClosesSubscribers(t *testing.T) {
	engine, scheduler, events := newTestEngine()
	require.NoError(t, engine.Start(3))
	engine.Close()

	assert.Empty(t, scheduler.active())
	for range events {
	}
	_, open := <-engine.Subscribe(1)
	assert.False(t, open)
	assert.NoError(t, engine.Start(3))
	assert.False(t, engine.Snapshot().Running)
}

func TestTickerSchedulerDrivesEngine(t *testing.T) {
	engine := New(Config{TickInterval: 5 * time.Millisecond})
	events := engine.Subscribe(16)
	require.NoError(t, engine.Start(3))

	deadline := time.After(2 * time.Second)
	for {
		select {
		case event := <-events:
			if event.Type == EventComplete {
				assert.Equal(t, State{}, engine.Snapshot())
				return
			}
		case <-deadline:
			t.Fatal("countdown did not complete")
		}
	}
}
