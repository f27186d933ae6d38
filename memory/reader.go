package memory

import (
	"bytes"
	"encoding/binary"
	"math"
)

func ReadBytes(src Source, addr Address, n int) ([]byte, error) {
	buf := make([]byte, n)
	if err := src.ReadAt(addr, buf); err != nil {
		return nil, err
	}
	return buf, nil
}

func ReadU8(src Source, addr Address) (uint8, error) {
	var b [1]byte
	if err := src.ReadAt(addr, b[:]); err != nil {
		return 0, err
	}
	return b[0], nil
}

func ReadU32(src Source, addr Address) (uint32, error) {
	var b [4]byte
	if err := src.ReadAt(addr, b[:]); err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(b[:]), nil
}

func ReadI32(src Source, addr Address) (int32, error) {
	v, err := ReadU32(src, addr)
	return int32(v), err
}

func ReadU64(src Source, addr Address) (uint64, error) {
	var b [8]byte
	if err := src.ReadAt(addr, b[:]); err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint64(b[:]), nil
}

func ReadF64(src Source, addr Address) (float64, error) {
	v, err := ReadU64(src, addr)
	if err != nil {
		return 0, err
	}
	return math.Float64frombits(v), nil
}

// ReadPointer reads a 64-bit pointer stored at addr.
func ReadPointer(src Source, addr Address) (Address, error) {
	v, err := ReadU64(src, addr)
	return Address(v), err
}

// ReadCString reads at most capacity bytes and returns the text up to the
// first NUL. A buffer without a terminator is returned whole.
func ReadCString(src Source, addr Address, capacity int) (string, error) {
	buf, err := ReadBytes(src, addr, capacity)
	if err != nil {
		return "", err
	}
	if i := bytes.IndexByte(buf, 0); i >= 0 {
		buf = buf[:i]
	}
	return string(buf), nil
}
