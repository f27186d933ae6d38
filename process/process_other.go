//go:build !windows

package process

import "towersplit/memory"

// Process exists on every platform so the splitter builds everywhere; only
// the windows build can open one.
type Process struct{}

func Open(name string) (*Process, error) {
	return nil, ErrUnsupported
}

func (p *Process) Pid() uint32 { return 0 }

func (p *Process) Module() memory.Address { return 0 }

func (p *Process) Regions() ([]memory.Region, error) { return nil, ErrUnsupported }

func (p *Process) ReadAt(addr memory.Address, buf []byte) error { return ErrUnsupported }

func (p *Process) Exited() bool { return true }

func (p *Process) Close() error { return nil }
