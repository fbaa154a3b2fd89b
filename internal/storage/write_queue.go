package storage

import (
	"context"
	"log"
	"sync"
)

// writeQueue runs background writes one at a time in submission order.
// The zero value is ready to use.
type writeQueue struct {
	mu      sync.Mutex
	pending []queuedWrite
	running bool
}

type queuedWrite struct {
	name  string
	write func(context.Context) error
}

func (queue *writeQueue) enqueue(name string, write func(context.Context) error) {
	queue.mu.Lock()
	queue.pending = append(queue.pending, queuedWrite{name: name, write: write})
	if queue.running {
		queue.mu.Unlock()
		return
	}
	queue.running = true
	queue.mu.Unlock()

	go queue.drain()
}

func (queue *writeQueue) drain() {
	for {
		queue.mu.Lock()
		if len(queue.pending) == 0 {
			queue.running = false
			queue.mu.Unlock()
			return
		}
		next := queue.pending[0]
		queue.pending = queue.pending[1:]
		queue.mu.Unlock()

		if err := next.write(context.Background()); err != nil {
			log.Printf("%s: %v", next.name, err)
		}
	}
}

// flush waits until every write queued before the call has run.
func (queue *writeQueue) flush(ctx context.Context) error {
	done := make(chan struct{})
	queue.enqueue("flush", func(context.Context) error {
		close(done)
		return nil
	})
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
