//go:build !windows && !darwin

package platform

import "path/filepath"

func fallbackConfigDir(homeDir string) string {
	return filepath.Join(homeDir, ".config")
}
