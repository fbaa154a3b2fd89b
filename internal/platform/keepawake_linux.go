//go:build linux

package platform

func acquireInhibitor(reason string) (func() error, error) {
	return holdProcess("systemd-inhibit",
		"--what=idle:sleep",
		"--who=Meditimer",
		"--why="+reason,
		"--mode=block",
		"sleep", "infinity",
	)
}
