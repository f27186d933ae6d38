package timer

import (
	"fmt"
	"strconv"
	"time"
)

// Local is an in-process timer. It keeps a log of the commands it received.
type Local struct {
	now func() time.Time

	state      State
	started    time.Time
	stopped    time.Duration
	gameTime   float64
	gamePaused bool
	splits     int
	commands   []string
}

func NewLocal() *Local {
	return &Local{now: time.Now}
}

func (l *Local) record(format string, args ...any) {
	l.commands = append(l.commands, fmt.Sprintf(format, args...))
}

func (l *Local) Start() {
	l.record("start")
	if l.state != NotRunning {
		return
	}
	l.state = Running
	l.started = l.now()
	l.stopped = 0
	l.splits = 0
	l.gameTime = 0
	l.gamePaused = false
}

func (l *Local) Split() {
	l.record("split")
	if l.state != Running {
		return
	}
	l.splits++
}

func (l *Local) Reset() {
	l.record("reset")
	l.state = NotRunning
}

// End finishes the run as a user would after the last split.
func (l *Local) End() {
	if l.state == Running || l.state == Paused {
		l.stopped = l.Elapsed()
		l.state = Ended
	}
}

// Pause and Resume are the user's hotkeys.
func (l *Local) Pause() {
	if l.state == Running {
		l.stopped = l.Elapsed()
		l.state = Paused
	}
}

func (l *Local) Resume() {
	if l.state == Paused {
		l.started = l.now().Add(-l.stopped)
		l.state = Running
	}
}

func (l *Local) State() State {
	return l.state
}

func (l *Local) SetGameTime(seconds float64) {
	l.record("setgametime %s", strconv.FormatFloat(seconds, 'f', -1, 64))
	l.gameTime = seconds
}

func (l *Local) PauseGameTime() {
	l.record("pausegametime")
	l.gamePaused = true
}

// SetVariable is not recorded; the board keeps variables.
func (l *Local) SetVariable(name, value string) {}

// Elapsed is the real time of the current run.
func (l *Local) Elapsed() time.Duration {
	switch l.state {
	case Running:
		return l.now().Sub(l.started)
	case Paused, Ended:
		return l.stopped
	}
	return 0
}

func (l *Local) GameTime() float64 {
	return l.gameTime
}

func (l *Local) GameTimePaused() bool {
	return l.gamePaused
}

func (l *Local) Splits() int {
	return l.splits
}

// Commands returns the received commands in order.
func (l *Local) Commands() []string {
	return append([]string(nil), l.commands...)
}

// Count returns how many times a command was received.
func (l *Local) Count(command string) int {
	n := 0
	for _, c := range l.commands {
		if c == command {
			n++
		}
	}
	return n
}
