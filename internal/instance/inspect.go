package instance

import (
	"os"
	"strings"
	"time"

	"github.com/shirou/gopsutil/v3/process"

	"github.com/Iron-Ham/shortcuts/internal/logging"
)

// Owner describes what a lock file currently says.
type Owner struct {
	Path      string    `json:"path" yaml:"path"`
	Exists    bool      `json:"exists" yaml:"exists"`
	Raw       string    `json:"raw,omitempty" yaml:"raw,omitempty"`
	PID       int       `json:"pid,omitempty" yaml:"pid,omitempty"`
	Valid     bool      `json:"valid" yaml:"valid"`
	Alive     bool      `json:"alive" yaml:"alive"`
	Name      string    `json:"name,omitempty" yaml:"name,omitempty"`
	StartedAt time.Time `json:"started_at,omitempty" yaml:"started_at,omitempty"`
}

// Stale reports whether an existing lock would be replaced by Acquire.
func (o Owner) Stale() bool {
	return o.Exists && !(o.Valid && o.Alive)
}

// Inspect reads the lock at path without modifying it. Process details are
// filled in on a best-effort basis.
func Inspect(path string) (Owner, error) {
	return inspect(path, IsProcessAlive)
}

func inspect(path string, alive LivenessFunc) (Owner, error) {
	owner := Owner{Path: path}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return owner, nil
		}
		return owner, err
	}
	owner.Exists = true
	owner.Raw = strings.TrimSpace(string(data))

	pid, ok := ParsePID(owner.Raw)
	if !ok {
		return owner, nil
	}
	owner.PID = pid
	owner.Valid = true
	owner.Alive = alive(pid)

	if owner.Alive {
		if p, err := process.NewProcess(int32(pid)); err == nil {
			if name, err := p.Name(); err == nil {
				owner.Name = name
			}
			if ms, err := p.CreateTime(); err == nil {
				owner.StartedAt = time.UnixMilli(ms)
			}
		}
	}
	return owner, nil
}

// CleanStale removes the lock at path when it is stale.
// Returns true if a file was removed. A live lock is left alone.
func CleanStale(path string, logger *logging.Logger) (bool, error) {
	return cleanStale(path, IsProcessAlive, logger)
}

func cleanStale(path string, alive LivenessFunc, logger *logging.Logger) (bool, error) {
	owner, err := inspect(path, alive)
	if err != nil {
		return false, err
	}
	if !owner.Stale() {
		return false, nil
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return false, err
	}
	if logger != nil {
		logger.WithComponent("guard").Warn("stale lock cleaned", "path", path, "old_content", owner.Raw)
	}
	return true, nil
}
