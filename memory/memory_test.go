package memory

import (
	"errors"
	"math"
	"testing"
)

func TestImageReads(t *testing.T) {
	img := NewImage()
	data := make([]byte, 0x20)
	data[0] = 0x2A
	data[4] = 0xFE
	data[5] = 0xFF
	data[6] = 0xFF
	data[7] = 0xFF
	bits := math.Float64bits(12.5)
	for i := 0; i < 8; i++ {
		data[8+i] = byte(bits >> (8 * i))
	}
	copy(data[0x10:], "tower_1\x00garbage")
	img.Map(0x1000, data)

	if v, err := ReadU8(img, 0x1000); err != nil || v != 0x2A {
		t.Errorf("ReadU8 = %d, %v", v, err)
	}
	if v, err := ReadI32(img, 0x1004); err != nil || v != -2 {
		t.Errorf("ReadI32 = %d, %v", v, err)
	}
	if v, err := ReadF64(img, 0x1008); err != nil || v != 12.5 {
		t.Errorf("ReadF64 = %v, %v", v, err)
	}
	if v, err := ReadCString(img, 0x1010, 0x10); err != nil || v != "tower_1" {
		t.Errorf("ReadCString = %q, %v", v, err)
	}
}

func TestImageReadFailures(t *testing.T) {
	img := NewImage()
	img.Map(0x1000, make([]byte, 8))

	if _, err := ReadU64(img, 0x2000); !errors.Is(err, ErrUnmapped) {
		t.Errorf("unmapped read: got %v", err)
	}
	if _, err := ReadU64(img, 0x1004); !errors.Is(err, ErrPartialRead) {
		t.Errorf("read across the end: got %v", err)
	}
}

func TestImageReadSpansAdjacentSegments(t *testing.T) {
	img := NewImage()
	img.Map(0x1000, []byte{1, 2})
	img.Map(0x1002, []byte{3, 4})

	got, err := ReadBytes(img, 0x1000, 4)
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != "\x01\x02\x03\x04" {
		t.Errorf("got % x", got)
	}
}

func TestImageMapReplacesOverlap(t *testing.T) {
	img := NewImage()
	img.Map(0x1000, []byte{1, 1, 1, 1, 1, 1})
	img.Map(0x1002, []byte{9, 9})

	got, err := ReadBytes(img, 0x1000, 6)
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != "\x01\x01\x09\x09\x01\x01" {
		t.Errorf("got % x", got)
	}
	regions, _ := img.Regions()
	if len(regions) != 3 {
		t.Errorf("expected 3 regions, got %d", len(regions))
	}
}

func TestOptional(t *testing.T) {
	var o Optional
	if _, ok := o.Get(); ok || o.IsSet() {
		t.Error("zero Optional must be unset")
	}
	if o.String() != "none" {
		t.Errorf("String() = %q", o.String())
	}
	o = Some(0)
	if a, ok := o.Get(); !ok || a != 0 {
		t.Error("Some(0) must be set")
	}
}
