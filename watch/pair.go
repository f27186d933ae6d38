// Package watch keeps the current and previous reading of a value that is
// polled once per tick.
package watch

import "cmp"

type Pair[T comparable] struct {
	Old     T
	Current T
}

// Update shifts Current into Old and stores v.
func (p *Pair[T]) Update(v T) {
	p.Old = p.Current
	p.Current = v
}

// Set overwrites both readings, so the next Update compares against v.
func (p *Pair[T]) Set(v T) {
	p.Old = v
	p.Current = v
}

func (p Pair[T]) Changed() bool {
	return p.Old != p.Current
}

func (p Pair[T]) ChangedTo(v T) bool {
	return p.Changed() && p.Current == v
}

func (p Pair[T]) ChangedFrom(v T) bool {
	return p.Changed() && p.Old == v
}

func Decreased[T cmp.Ordered](p Pair[T]) bool {
	return p.Current < p.Old
}
