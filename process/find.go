package process

import (
	"errors"
	"fmt"
	"strings"

	ps "github.com/shirou/gopsutil/v3/process"
)

var (
	ErrNotRunning  = errors.New("process not running")
	ErrUnsupported = errors.New("reading another process is only supported on windows")
)

// Find returns the pid of the first process whose executable name matches,
// ignoring case.
func Find(name string) (uint32, error) {
	processes, err := ps.Processes()
	if err != nil {
		return 0, err
	}
	for _, p := range processes {
		procName, err := p.Name()
		if err == nil && strings.EqualFold(procName, name) {
			return uint32(p.Pid), nil
		}
	}
	return 0, fmt.Errorf("%w: %s", ErrNotRunning, name)
}
