//go:build !windows

package instance

import (
	"os"
	"syscall"
)

// IsProcessAlive sends signal 0 to pid. Any error, including a permission
// error for a process owned by another user, counts as not running.
func IsProcessAlive(pid int) bool {
	if pid <= 0 {
		return false
	}
	process, err := os.FindProcess(pid)
	if err != nil {
		return false
	}
	return process.Signal(syscall.Signal(0)) == nil
}
