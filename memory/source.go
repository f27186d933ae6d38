package memory

import (
	"errors"
	"fmt"
)

var (
	ErrUnmapped    = errors.New("address not mapped")
	ErrPartialRead = errors.New("partial read")
)

// Address is an absolute address in the target's address space.
type Address uint64

func (a Address) Add(off int64) Address {
	return Address(int64(a) + off)
}

func (a Address) String() string {
	return fmt.Sprintf("0x%X", uint64(a))
}

// Region is one mapped, readable range of the target's memory.
type Region struct {
	Base Address
	Size uint64
}

func (r Region) End() Address {
	return r.Base + Address(r.Size)
}

func (r Region) Contains(addr Address) bool {
	return addr >= r.Base && addr < r.End()
}

// Source is read-only access to another process's memory. ReadAt fills buf
// completely or fails with an error wrapping ErrUnmapped or ErrPartialRead.
type Source interface {
	Regions() ([]Region, error)
	ReadAt(addr Address, buf []byte) error
}

// Optional is an address that may not have been found. The zero value is
// unset and Get never hands out a value for it.
type Optional struct {
	addr Address
	ok   bool
}

func Some(addr Address) Optional {
	return Optional{addr: addr, ok: true}
}

func (o Optional) Get() (Address, bool) {
	return o.addr, o.ok
}

func (o Optional) IsSet() bool {
	return o.ok
}

func (o Optional) String() string {
	if !o.ok {
		return "none"
	}
	return o.addr.String()
}
