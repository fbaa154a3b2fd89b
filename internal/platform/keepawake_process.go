//go:build linux || darwin

package platform

import (
	"os/exec"
)

// holdProcess keeps an inhibitor command running until release is called.
func holdProcess(name string, args ...string) (func() error, error) {
	path, err := exec.LookPath(name)
	if err != nil {
		return nil, ErrInhibitUnsupported
	}
	cmd := exec.Command(path, args...)
	if err := cmd.Start(); err != nil {
		return nil, err
	}
	return func() error {
		if err := cmd.Process.Kill(); err != nil {
			return err
		}
		_ = cmd.Wait()
		return nil
	}, nil
}
