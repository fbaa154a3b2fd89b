//go:build darwin

package platform

func acquireInhibitor(string) (func() error, error) {
	return holdProcess("caffeinate", "-di")
}
