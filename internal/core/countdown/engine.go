package countdown

import (
	"errors"
	"sync"
	"time"
)

// ErrInvalidDuration indicates a start was requested with nothing to count down.
var ErrInvalidDuration = errors.New("countdown duration must be at least one second")

// Config contains runtime options for Engine.
type Config struct {
	TickInterval time.Duration
	Scheduler    Scheduler
}

// Engine is the countdown state machine. It is Idle or Running; Running
// always has a positive remaining time and exactly one active tick schedule.
type Engine struct {
	mu         sync.Mutex
	options    Config
	remaining  int
	running    bool
	generation uint64
	cancelTick func()
	events     []chan Event
	closed     bool
}

// New creates an idle Engine with nothing remaining.
func New(options Config) *Engine {
	if options.TickInterval <= 0 {
		options.TickInterval = time.Second
	}
	if options.Scheduler == nil {
		options.Scheduler = TickerScheduler{}
	}
	return &Engine{options: options}
}

// Subscribe registers a new observer channel.
func (engine *Engine) Subscribe(buffer int) <-chan Event {
	if buffer <= 0 {
		buffer = 1
	}
	ch := make(chan Event, buffer)
	engine.mu.Lock()
	defer engine.mu.Unlock()
	if engine.closed {
		close(ch)
		return ch
	}
	engine.events = append(engine.events, ch)
	return ch
}

// Snapshot returns the current state.
func (engine *Engine) Snapshot() State {
	engine.mu.Lock()
	defer engine.mu.Unlock()
	return State{Remaining: engine.remaining, Running: engine.running}
}

// Start begins or resumes the countdown. A paused countdown resumes from its
// remaining time and requestedSeconds is ignored. Starting a running engine
// does nothing.
func (engine *Engine) Start(requestedSeconds int) error {
	engine.mu.Lock()
	defer engine.mu.Unlock()

	if engine.running || engine.closed {
		return nil
	}
	if engine.remaining == 0 {
		if requestedSeconds <= 0 {
			return ErrInvalidDuration
		}
		engine.remaining = requestedSeconds
	}

	engine.running = true
	engine.generation++
	generation := engine.generation
	engine.cancelTick = engine.options.Scheduler.Every(engine.options.TickInterval, func() {
		engine.tick(generation)
	})

	engine.emitLocked(EventStarted)
	return nil
}

// Stop pauses the countdown and keeps the remaining time.
func (engine *Engine) Stop() {
	engine.mu.Lock()
	defer engine.mu.Unlock()
	if !engine.running {
		return
	}
	engine.haltLocked()
	engine.emitLocked(EventStopped)
}

// Reset stops the countdown and clears the remaining time.
func (engine *Engine) Reset() {
	engine.mu.Lock()
	defer engine.mu.Unlock()
	if engine.running {
		engine.haltLocked()
	}
	engine.remaining = 0
	engine.emitLocked(EventReset)
}

// Close halts the engine and closes all observer channels.
func (engine *Engine) Close() {
	engine.mu.Lock()
	if engine.closed {
		engine.mu.Unlock()
		return
	}
	if engine.running {
		engine.haltLocked()
	}
	engine.closed = true
	events := engine.events
	engine.events = nil
	engine.mu.Unlock()

	for _, ch := range events {
		close(ch)
	}
}

func (engine *Engine) tick(generation uint64) {
	engine.mu.Lock()
	defer engine.mu.Unlock()

	// A tick from a cancelled schedule may still be in flight.
	if !engine.running || generation != engine.generation {
		return
	}

	engine.remaining--
	if engine.remaining > 0 {
		engine.emitLocked(EventTick)
		return
	}

	engine.remaining = 0
	engine.haltLocked()
	engine.emitLocked(EventComplete)
}

func (engine *Engine) haltLocked() {
	engine.running = false
	engine.generation++
	if engine.cancelTick != nil {
		engine.cancelTick()
		engine.cancelTick = nil
	}
}

func (engine *Engine) emitLocked(eventType EventType) {
	event := Event{
		Type:      eventType,
		Remaining: engine.remaining,
		Running:   engine.running,
		At:        time.Now(),
	}
	for _, ch := range engine.events {
		select {
		case ch <- event:
		default:
		}
	}
}
