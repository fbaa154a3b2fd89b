package timerengine

import (
	"sync"
	"time"
)

// TickSource fires onTick once per period until the returned cancel func is
// called. Cancel must be safe to call more than once.
type TickSource interface {
	Start(period time.Duration, onTick func()) (cancel func())
}

// ClockTicker is the wall-clock TickSource backed by time.Ticker.
type ClockTicker struct{}

// Start launches a ticking goroutine. The first tick fires one period after
// Start returns.
func (ClockTicker) Start(period time.Duration, onTick func()) func() {
	stopCh := make(chan struct{})
	var once sync.Once

	go func() {
		ticker := time.NewTicker(period)
		defer ticker.Stop()

		for {
			select {
			case <-stopCh:
				return
			case <-ticker.C:
				select {
				case <-stopCh:
					return
				default:
				}
				onTick()
			}
		}
	}()

	return func() {
		once.Do(func() {
			close(stopCh)
		})
	}
}
