//go:build windows

package process

import (
	"errors"
	"fmt"
	"strings"
	"unsafe"

	"golang.org/x/sys/windows"

	"towersplit/memory"
)

const (
	accessRights = windows.PROCESS_QUERY_INFORMATION | windows.PROCESS_VM_READ | windows.SYNCHRONIZE
	maxAddress   = 0x7FFFFFFFFFFF
	readable     = windows.PAGE_READONLY | windows.PAGE_READWRITE | windows.PAGE_WRITECOPY |
		windows.PAGE_EXECUTE_READ | windows.PAGE_EXECUTE_READWRITE | windows.PAGE_EXECUTE_WRITECOPY
)

// Process is an open, read-only handle to a running game.
type Process struct {
	pid    uint32
	handle windows.Handle
	module memory.Address
}

// Open attaches to the first process named name and resolves the base of
// its main module.
func Open(name string) (*Process, error) {
	pid, err := Find(name)
	if err != nil {
		return nil, err
	}

	handle, err := windows.OpenProcess(accessRights, false, pid)
	if err != nil {
		return nil, fmt.Errorf("open %s (pid %d): %w", name, pid, err)
	}

	base, err := moduleBase(pid, name)
	if err != nil {
		windows.CloseHandle(handle)
		return nil, err
	}

	return &Process{pid: pid, handle: handle, module: base}, nil
}

func moduleBase(pid uint32, name string) (memory.Address, error) {
	snap, err := windows.CreateToolhelp32Snapshot(windows.TH32CS_SNAPMODULE|windows.TH32CS_SNAPMODULE32, pid)
	if err != nil {
		return 0, fmt.Errorf("module snapshot: %w", err)
	}
	defer windows.CloseHandle(snap)

	var me windows.ModuleEntry32
	me.Size = uint32(unsafe.Sizeof(me))
	for err = windows.Module32First(snap, &me); err == nil; err = windows.Module32Next(snap, &me) {
		if strings.EqualFold(windows.UTF16ToString(me.Module[:]), name) {
			return memory.Address(me.ModBaseAddr), nil
		}
	}
	return 0, fmt.Errorf("module %s not loaded in pid %d", name, pid)
}

func (p *Process) Pid() uint32 {
	return p.pid
}

func (p *Process) Module() memory.Address {
	return p.module
}

// Regions lists committed, readable pages that are not guard pages.
func (p *Process) Regions() ([]memory.Region, error) {
	var regions []memory.Region
	var info windows.MemoryBasicInformation

	for addr := uintptr(0); addr < maxAddress; {
		if err := windows.VirtualQueryEx(p.handle, addr, &info, unsafe.Sizeof(info)); err != nil {
			if len(regions) == 0 {
				return nil, fmt.Errorf("query 0x%X: %w", addr, err)
			}
			break
		}
		if info.RegionSize == 0 {
			break
		}

		if info.State == windows.MEM_COMMIT &&
			info.Protect&windows.PAGE_GUARD == 0 &&
			info.Protect&readable != 0 {
			regions = append(regions, memory.Region{
				Base: memory.Address(info.BaseAddress),
				Size: uint64(info.RegionSize),
			})
		}
		addr = info.BaseAddress + info.RegionSize
	}
	return regions, nil
}

func (p *Process) ReadAt(addr memory.Address, buf []byte) error {
	if len(buf) == 0 {
		return nil
	}

	var n uintptr
	err := windows.ReadProcessMemory(p.handle, uintptr(addr), &buf[0], uintptr(len(buf)), &n)
	switch {
	case err == nil && n == uintptr(len(buf)):
		return nil
	case err == nil, errors.Is(err, windows.ERROR_PARTIAL_COPY) && n > 0:
		return fmt.Errorf("%w: %d of %d bytes at %v", memory.ErrPartialRead, n, len(buf), addr)
	}
	return fmt.Errorf("%w: %v: %v", memory.ErrUnmapped, addr, err)
}

// Exited reports whether the process has ended.
func (p *Process) Exited() bool {
	event, err := windows.WaitForSingleObject(p.handle, 0)
	return err != nil || event == windows.WAIT_OBJECT_0
}

func (p *Process) Close() error {
	if p.handle == 0 {
		return nil
	}
	err := windows.CloseHandle(p.handle)
	p.handle = 0
	return err
}
