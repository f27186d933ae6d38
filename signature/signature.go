// Package signature finds byte patterns with wildcards in another process's
// memory.
package signature

import (
	"encoding/hex"
	"errors"
	"fmt"
	"strings"

	"towersplit/memory"
)

var ErrSyntax = errors.New("invalid signature")

// chunkSize bounds a single read from the target.
const chunkSize = 4 * 1024 * 1024

type Direction int

const (
	Forward Direction = iota
	Reverse
)

// Signature is a byte pattern in which some positions match any value.
type Signature struct {
	bytes []byte
	mask  []bool
}

// Parse reads a pattern like "48 8B 05 ?? ?? ?? ??". Tokens are separated by
// spaces; "?" and "??" are wildcards.
func Parse(s string) (Signature, error) {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return Signature{}, fmt.Errorf("%w: empty pattern", ErrSyntax)
	}

	sig := Signature{
		bytes: make([]byte, len(fields)),
		mask:  make([]bool, len(fields)),
	}
	for i, f := range fields {
		if f == "?" || f == "??" {
			continue
		}
		if len(f) != 2 {
			return Signature{}, fmt.Errorf("%w: token %q", ErrSyntax, f)
		}
		b, err := hex.DecodeString(f)
		if err != nil {
			return Signature{}, fmt.Errorf("%w: token %q", ErrSyntax, f)
		}
		sig.bytes[i] = b[0]
		sig.mask[i] = true
	}
	return sig, nil
}

// MustParse is Parse for package level patterns.
func MustParse(s string) Signature {
	sig, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return sig
}

func (s Signature) Len() int {
	return len(s.bytes)
}

func (s Signature) String() string {
	parts := make([]string, len(s.bytes))
	for i, b := range s.bytes {
		if s.mask[i] {
			parts[i] = fmt.Sprintf("%02X", b)
		} else {
			parts[i] = "??"
		}
	}
	return strings.Join(parts, " ")
}

func (s Signature) matchAt(data []byte, i int) bool {
	for j, b := range s.bytes {
		if s.mask[j] && data[i+j] != b {
			return false
		}
	}
	return true
}

// Index returns the offset of the first match in data or -1.
func (s Signature) Index(data []byte) int {
	for i := 0; i+len(s.bytes) <= len(data); i++ {
		if s.matchAt(data, i) {
			return i
		}
	}
	return -1
}

// FindAll returns the offsets of every non-overlapping match, lowest first.
func (s Signature) FindAll(data []byte) []int {
	var found []int
	for i := 0; i+len(s.bytes) <= len(data); {
		if s.matchAt(data, i) {
			found = append(found, i)
			i += len(s.bytes)
			continue
		}
		i++
	}
	return found
}

// Scan visits regions in the given order and returns the lowest match inside
// the first region that has one. Chunks that cannot be read are skipped.
func (s Signature) Scan(src memory.Source, regions []memory.Region, dir Direction) (memory.Address, bool) {
	if dir == Reverse {
		for i := len(regions) - 1; i >= 0; i-- {
			if addr, ok := s.scanRegion(src, regions[i]); ok {
				return addr, true
			}
		}
		return 0, false
	}

	for _, r := range regions {
		if addr, ok := s.scanRegion(src, r); ok {
			return addr, true
		}
	}
	return 0, false
}

// chunks splits a region into reads that overlap by Len()-1 bytes so a match
// straddling two reads is still seen.
func (s Signature) chunks(r memory.Region) []memory.Region {
	if r.Size < uint64(len(s.bytes)) {
		return nil
	}
	step := uint64(chunkSize - (len(s.bytes) - 1))

	var out []memory.Region
	for off := uint64(0); off < r.Size; off += step {
		size := uint64(chunkSize)
		if off+size > r.Size {
			size = r.Size - off
		}
		if size < uint64(len(s.bytes)) {
			break
		}
		out = append(out, memory.Region{Base: r.Base + memory.Address(off), Size: size})
		if off+size == r.Size {
			break
		}
	}
	return out
}

func (s Signature) scanRegion(src memory.Source, r memory.Region) (memory.Address, bool) {
	chunks := s.chunks(r)
	if len(chunks) == 0 {
		return 0, false
	}
	buf := make([]byte, 0, chunks[0].Size)

	for _, c := range chunks {
		buf = buf[:c.Size]
		if err := src.ReadAt(c.Base, buf); err != nil {
			continue
		}

		if i := s.Index(buf); i >= 0 {
			return c.Base + memory.Address(i), true
		}
	}
	return 0, false
}
