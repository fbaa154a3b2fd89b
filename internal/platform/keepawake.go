package platform

import (
	"errors"
	"fmt"
	"sync"
)

// ErrInhibitUnsupported indicates the system offers no sleep inhibitor.
var ErrInhibitUnsupported = errors.New("sleep inhibit unsupported")

// KeepAwake holds a system sleep/screen-off inhibitor while acquired.
type KeepAwake struct {
	mu      sync.Mutex
	release func() error
	acquire func(reason string) (func() error, error)
}

// NewKeepAwake returns a platform-specific inhibitor.
func NewKeepAwake() *KeepAwake {
	return &KeepAwake{acquire: acquireInhibitor}
}

// Acquire starts inhibiting sleep. Calling it while held is a no-op.
func (keeper *KeepAwake) Acquire(reason string) error {
	keeper.mu.Lock()
	defer keeper.mu.Unlock()
	if keeper.release != nil {
		return nil
	}
	release, err := keeper.acquire(reason)
	if err != nil {
		return fmt.Errorf("keep awake: %w", err)
	}
	keeper.release = release
	return nil
}

// Release stops inhibiting sleep. Calling it while not held is a no-op.
func (keeper *KeepAwake) Release() error {
	keeper.mu.Lock()
	release := keeper.release
	keeper.release = nil
	keeper.mu.Unlock()

	if release == nil {
		return nil
	}
	if err := release(); err != nil {
		return fmt.Errorf("release keep awake: %w", err)
	}
	return nil
}

// Held reports whether the inhibitor is active.
func (keeper *KeepAwake) Held() bool {
	keeper.mu.Lock()
	defer keeper.mu.Unlock()
	return keeper.release != nil
}
