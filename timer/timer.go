// Package timer defines what the auto-splitter drives and the sinks that
// implement it: the LiveSplit Server component, LiveSplit One, and a local
// timer.
package timer

type State int

const (
	NotRunning State = iota
	Running
	Paused
	Ended
)

// String returns the phase name used by LiveSplit.
func (s State) String() string {
	switch s {
	case Running:
		return "Running"
	case Paused:
		return "Paused"
	case Ended:
		return "Ended"
	}
	return "NotRunning"
}

func ParseState(s string) (State, bool) {
	switch s {
	case "NotRunning":
		return NotRunning, true
	case "Running":
		return Running, true
	case "Paused":
		return Paused, true
	case "Ended":
		return Ended, true
	}
	return NotRunning, false
}

// Timer is the sink for run events. Failures stay inside the sink; the
// splitter never stops because a timer went away.
type Timer interface {
	Start()
	Split()
	Reset()
	State() State
	SetGameTime(seconds float64)
	PauseGameTime()
	SetVariable(name, value string)
}
