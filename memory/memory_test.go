package memory

import (
	"testing"

	"github.com/davecgh/go-spew/spew"
	"github.com/go-test/deep"
)

func TestRAMPowerOnDeterministic(t *testing.T) {
	a, err := NewRAM(32768, 42)
	if err != nil {
		t.Fatalf("NewRAM: %v", err)
	}
	b, err := NewRAM(32768, 42)
	if err != nil {
		t.Fatalf("NewRAM: %v", err)
	}
	a.PowerOn()
	b.PowerOn()
	for i := 0; i < 32768; i++ {
		got := a.Read(uint16(i))
		want := b.Read(uint16(i))
		if got != want {
			t.Fatalf("seed %d mismatch at %d: got %#v\nwant %#v", 42, i, spew.Sdump(got), spew.Sdump(want))
		}
	}
}

func TestRAMReadWrite(t *testing.T) {
	r, err := NewRAM(256, 1)
	if err != nil {
		t.Fatalf("NewRAM: %v", err)
	}
	r.Write(0x10, 0xAB)
	if got, want := r.Read(0x10), uint8(0xAB); got != want {
		t.Errorf("Read(0x10) = %#x, want %#x", got, want)
	}
}

func TestROMMirrorAndReadOnly(t *testing.T) {
	image := make([]uint8, 8192)
	image[0] = 0x11
	image[0x1FFF] = 0x22
	r, err := NewROM(8192, image)
	if err != nil {
		t.Fatalf("NewROM: %v", err)
	}
	if got, want := r.Read(0x0000), uint8(0x11); got != want {
		t.Errorf("Read(0x0000) = %#x, want %#x", got, want)
	}
	// Mirrors: 0x2000 aliases to 0x0000 within an 8192 byte window.
	if got, want := r.Read(0x2000), uint8(0x11); got != want {
		t.Errorf("Read(0x2000) (mirrored) = %#x, want %#x", got, want)
	}
	r.Write(0x0000, 0x99)
	if got, want := r.Read(0x0000), uint8(0x11); got != want {
		t.Errorf("Write to ROM observably mutated state: got %#x, want %#x", got, want)
	}
}

func TestROMShorterImageZeroFilled(t *testing.T) {
	r, err := NewROM(8192, []uint8{0xAA, 0xBB})
	if err != nil {
		t.Fatalf("NewROM: %v", err)
	}
	if got, want := r.Read(2), uint8(0); got != want {
		t.Errorf("Read(2) = %#x, want %#x (zero filled tail)", got, want)
	}
}

func TestInertSlot(t *testing.T) {
	s := NewInertSlot(0x00)
	s.Write(0x8000, 0xFF)
	if diff := deep.Equal(s.Read(0x8000), uint8(0x00)); diff != nil {
		t.Errorf("inert slot diff: %v", diff)
	}
}
