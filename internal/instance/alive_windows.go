//go:build windows

package instance

import (
	"github.com/shirou/gopsutil/v3/process"
)

// IsProcessAlive reports whether pid appears in the system process table.
func IsProcessAlive(pid int) bool {
	if pid <= 0 {
		return false
	}
	pids, err := process.Pids()
	if err != nil {
		return false
	}
	for _, p := range pids {
		if int(p) == pid {
			return true
		}
	}
	return false
}
