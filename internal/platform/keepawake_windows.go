//go:build windows

package platform

import (
	"fmt"
	"runtime"
	"syscall"
)

const (
	esContinuous      = 0x80000000
	esSystemRequired  = 0x00000001
	esDisplayRequired = 0x00000002
)

var procSetThreadExecutionState = syscall.NewLazyDLL("kernel32.dll").NewProc("SetThreadExecutionState")

// The execution state belongs to the calling thread, so it is set and
// cleared from one locked goroutine.
func acquireInhibitor(string) (func() error, error) {
	started := make(chan error, 1)
	stop := make(chan struct{})
	stopped := make(chan error, 1)

	go func() {
		runtime.LockOSThread()
		defer runtime.UnlockOSThread()

		if err := setExecutionState(esContinuous | esSystemRequired | esDisplayRequired); err != nil {
			started <- err
			return
		}
		started <- nil
		<-stop
		stopped <- setExecutionState(esContinuous)
	}()

	if err := <-started; err != nil {
		return nil, err
	}
	return func() error {
		close(stop)
		return <-stopped
	}, nil
}

func setExecutionState(flags uintptr) error {
	result, _, err := procSetThreadExecutionState.Call(flags)
	if result == 0 {
		return fmt.Errorf("set thread execution state: %w", err)
	}
	return nil
}
