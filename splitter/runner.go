// Package splitter drives the attach, resolve and monitor cycle one tick at
// a time.
package splitter

import (
	"errors"

	"towersplit/autosplit"
	"towersplit/config"
	"towersplit/logger"
	"towersplit/memory"
	"towersplit/process"
	"towersplit/resolver"
	"towersplit/snapshot"
	"towersplit/timer"
)

type Phase int

const (
	Searching Phase = iota
	Resolving
	Monitoring
)

func (p Phase) String() string {
	switch p {
	case Resolving:
		return "Resolving"
	case Monitoring:
		return "Monitoring"
	}
	return "Searching"
}

// Target is an attached game.
type Target interface {
	memory.Source
	Module() memory.Address
	Exited() bool
	Close() error
}

// clearer is a timer that keeps published variables, such as timer.Board.
type clearer interface {
	Clear()
}

// Attacher opens the game, or fails when it is not running.
type Attacher func() (Target, error)

// SettingsSource is reloaded once per tick.
type SettingsSource interface {
	Refresh() bool
	Settings() config.Settings
}

type Runner struct {
	attach   Attacher
	settings SettingsSource
	timer    timer.Timer
	setTPS   func(int)

	phase   Phase
	target  Target
	addrs   resolver.Addresses
	values  *snapshot.Values
	session *autosplit.Session

	waiting       bool
	lastAttachErr string
}

func NewRunner(attach Attacher, settings SettingsSource, t timer.Timer, setTPS func(int)) *Runner {
	if setTPS == nil {
		setTPS = func(int) {}
	}
	r := &Runner{
		attach:   attach,
		settings: settings,
		timer:    t,
		setTPS:   setTPS,
	}
	r.setTPS(config.TPS_SLOW)
	return r
}

func (r *Runner) Phase() Phase {
	return r.phase
}

func (r *Runner) Addresses() resolver.Addresses {
	return r.addrs
}

// Session is nil outside Monitoring.
func (r *Runner) Session() *autosplit.Session {
	return r.session
}

// Tick refreshes the settings and advances the current phase by one step.
func (r *Runner) Tick() {
	r.settings.Refresh()

	switch r.phase {
	case Searching:
		r.search()
	case Resolving:
		r.resolve()
	case Monitoring:
		r.monitor()
	}
}

func (r *Runner) search() {
	target, err := r.attach()
	if err != nil {
		// attach is retried every tick, log only when the reason changes
		if msg := err.Error(); msg != r.lastAttachErr {
			r.lastAttachErr = msg
			if errors.Is(err, process.ErrNotRunning) {
				logger.Logf("splitter", "waiting for %s", config.MAIN_MODULE)
			} else {
				logger.Logf("splitter", "attach: %v", err)
			}
		}
		return
	}

	r.lastAttachErr = ""
	r.target = target
	r.addrs = resolver.Addresses{Module: target.Module()}
	r.waiting = false
	logger.Logf("splitter", "connected to %s (module %v)", config.MAIN_MODULE, r.addrs.Module)
	r.phase = Resolving
}

func (r *Runner) resolve() {
	if r.target.Exited() {
		r.detach("game closed while resolving")
		return
	}

	regions, err := r.target.Regions()
	if err != nil {
		logger.Logf("splitter", "listing memory regions: %v", err)
		return
	}

	if !r.addrs.RoomID.IsSet() {
		offset, err := resolver.RoomID(r.target, regions, r.addrs.Module, r.timer)
		if err != nil {
			return
		}
		r.addrs.RoomID = memory.Some(offset)
	}

	offset, _ := r.addrs.RoomID.Get()
	id, err := memory.ReadI32(r.target, r.addrs.Module+offset)
	if err != nil {
		logger.Log("splitter", "could not read the room id before the game opened, continuing")
	} else if id == 0 {
		if !r.waiting {
			logger.Log("splitter", "waiting for the game to start...")
			r.waiting = true
		}
		return
	}

	if !r.addrs.Buffer.IsSet() {
		if buf, err := resolver.Buffer(r.target, regions, r.timer); err == nil {
			r.addrs.Buffer = memory.Some(buf)
		}
	}
	if !r.addrs.Buffer.IsSet() && !r.addrs.RoomNames.IsSet() {
		table, err := resolver.RoomNames(r.target, regions, r.timer)
		if err != nil {
			logger.Logf("splitter", "%v, retrying", err)
		} else {
			r.addrs.RoomNames = memory.Some(table)
		}
	}

	if !r.addrs.Usable() {
		return
	}

	r.values = snapshot.New()
	r.session = autosplit.NewSession()
	r.phase = Monitoring
	r.setTPS(config.TPS_FAST)
	logger.Log("splitter", "monitoring")
}

func (r *Runner) monitor() {
	if r.target.Exited() {
		r.detach("game closed")
		return
	}

	if err := r.values.Refresh(r.target, r.addrs, r.timer); err != nil {
		r.detach(err.Error())
		return
	}

	r.session.Update(r.values, r.addrs.Buffer.IsSet(), r.settings.Settings(), r.timer)
}

// detach drops everything learned about the process; the next attach starts
// from scratch.
func (r *Runner) detach(reason string) {
	logger.Logf("splitter", "%s, searching again", reason)
	if r.target != nil {
		r.target.Close()
	}
	r.target = nil
	r.addrs = resolver.Addresses{}
	r.values = nil
	r.session = nil
	if c, ok := r.timer.(clearer); ok {
		c.Clear()
	}
	if r.phase == Monitoring {
		r.setTPS(config.TPS_SLOW)
	}
	r.phase = Searching
}

// Close releases the attached process, if any.
func (r *Runner) Close() {
	if r.target != nil {
		r.target.Close()
		r.target = nil
	}
}

// OpenProcess attaches to the game by executable name.
func OpenProcess(name string) Attacher {
	return func() (Target, error) {
		p, err := process.Open(name)
		if err != nil {
			return nil, err
		}
		return p, nil
	}
}
