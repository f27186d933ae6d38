package memory

import (
	"fmt"
	"sort"
)

// Image is a Source backed by byte slices. Segments never overlap; a later
// Map over an existing range replaces the bytes it covers.
type Image struct {
	segments []segment
}

type segment struct {
	base Address
	data []byte
}

func NewImage() *Image {
	return &Image{}
}

// Map places data at base. The slice is kept, not copied, so tests can mutate
// it between ticks to simulate a running game.
func (m *Image) Map(base Address, data []byte) {
	end := base + Address(len(data))
	kept := make([]segment, 0, len(m.segments)+1)
	for _, s := range m.segments {
		sEnd := s.base + Address(len(s.data))
		if sEnd <= base || s.base >= end {
			kept = append(kept, s)
			continue
		}
		if s.base < base {
			kept = append(kept, segment{base: s.base, data: s.data[:base-s.base]})
		}
		if sEnd > end {
			kept = append(kept, segment{base: end, data: s.data[end-s.base:]})
		}
	}
	m.segments = append(kept, segment{base: base, data: data})
	sort.Slice(m.segments, func(i, j int) bool {
		return m.segments[i].base < m.segments[j].base
	})
}

func (m *Image) Regions() ([]Region, error) {
	regions := make([]Region, 0, len(m.segments))
	for _, s := range m.segments {
		regions = append(regions, Region{Base: s.base, Size: uint64(len(s.data))})
	}
	return regions, nil
}

func (m *Image) ReadAt(addr Address, buf []byte) error {
	n := 0
	for n < len(buf) {
		s, ok := m.find(addr + Address(n))
		if !ok {
			break
		}
		off := addr + Address(n) - s.base
		n += copy(buf[n:], s.data[off:])
	}
	switch {
	case n == len(buf):
		return nil
	case n == 0:
		return fmt.Errorf("read %d bytes at %v: %w", len(buf), addr, ErrUnmapped)
	default:
		return fmt.Errorf("read %d of %d bytes at %v: %w", n, len(buf), addr, ErrPartialRead)
	}
}

func (m *Image) find(addr Address) (segment, bool) {
	i := sort.Search(len(m.segments), func(i int) bool {
		s := m.segments[i]
		return s.base+Address(len(s.data)) > addr
	})
	if i < len(m.segments) && m.segments[i].base <= addr {
		return m.segments[i], true
	}
	return segment{}, false
}
