package countdown

import (
	"sync"
	"time"
)

// Scheduler runs a task repeatedly until the returned cancel function is called.
// Implementations must not invoke task synchronously from Every.
type Scheduler interface {
	Every(interval time.Duration, task func()) (cancel func())
}

// TickerScheduler drives tasks from a time.Ticker goroutine.
type TickerScheduler struct{}

// Every starts a ticker loop calling task on each tick.
func (TickerScheduler) Every(interval time.Duration, task func()) func() {
	stopCh := make(chan struct{})
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-stopCh:
				return
			case <-ticker.C:
				task()
			}
		}
	}()

	var once sync.Once
	return func() {
		once.Do(func() {
			close(stopCh)
		})
	}
}
