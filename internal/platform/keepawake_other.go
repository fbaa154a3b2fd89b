//go:build !linux && !darwin && !windows

package platform

func acquireInhibitor(string) (func() error, error) {
	return nil, ErrInhibitUnsupported
}
