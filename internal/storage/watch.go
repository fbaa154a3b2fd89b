package storage

import (
	"context"
	"sync"
)

// watchers fans the latest value out to subscribers. A slow subscriber only
// ever misses intermediate values, never the most recent one.
type watchers[T any] struct {
	mu    sync.Mutex
	chans map[chan T]struct{}
}

func (set *watchers[T]) subscribe(ctx context.Context, buffer int, current T) <-chan T {
	if buffer <= 0 {
		buffer = 1
	}
	ch := make(chan T, buffer)
	ch <- current

	set.mu.Lock()
	if set.chans == nil {
		set.chans = make(map[chan T]struct{})
	}
	set.chans[ch] = struct{}{}
	set.mu.Unlock()

	go func() {
		<-ctx.Done()
		set.mu.Lock()
		delete(set.chans, ch)
		close(ch)
		set.mu.Unlock()
	}()
	return ch
}

func (set *watchers[T]) publish(value T) {
	set.mu.Lock()
	defer set.mu.Unlock()
	for ch := range set.chans {
		pushLatest(ch, value)
	}
}

func pushLatest[T any](ch chan T, value T) {
	for {
		select {
		case ch <- value:
			return
		default:
		}
		select {
		case <-ch:
		default:
		}
	}
}
