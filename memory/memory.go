// Package memory defines the basic interfaces for working
// with a 6502 family memory map and provides the bank implementations
// (RAM, ROM, inert device slot) that the Odin32K bus decodes addresses
// into. Since each implementation that is emulated has specific mappings
// (including mirrored regions) this is defined as an interface.
package memory

import (
	"fmt"
	"math/rand"
)

// Bank defines a single memory-mapped region of the address space.
type Bank interface {
	// Read returns the data byte stored at addr.
	Read(addr uint16) uint8
	// Write updates addr with the new value. For ROM or inert addresses this
	// is simply a no-op without any error.
	Write(addr uint16, val uint8)
	// PowerOn performs power-on initialization of the bank. This is
	// implementation specific as to whether it's randomized or preset.
	PowerOn()
}

// ram implements a standard R/W interface to an address space for 8 bit
// systems. Read and Write wrap addr modulo the buffer length themselves, so
// the parent (the bus) passes the full address unmasked.
type ram struct {
	mem  []uint8
	seed int64
}

// NewRAM creates a R/W RAM bank of the given size seeded from seed so the
// power-on fill is deterministic given that seed (the exact byte sequence
// is otherwise unspecified, per spec).
func NewRAM(size int, seed int64) (Bank, error) {
	if size <= 0 {
		return nil, fmt.Errorf("invalid size: %d must be positive", size)
	}
	r := &ram{
		mem:  make([]uint8, size),
		seed: seed,
	}
	return r, nil
}

// Read implements Bank. Address is masked to fit the backing buffer.
func (r *ram) Read(addr uint16) uint8 {
	return r.mem[int(addr)%len(r.mem)]
}

// Write implements Bank. Address is masked to fit the backing buffer.
func (r *ram) Write(addr uint16, val uint8) {
	r.mem[int(addr)%len(r.mem)] = val
}

// PowerOn fills RAM with pseudo-random bytes derived from the bank's seed
// so firmware can't depend on zero-init, but two banks built from the same
// seed power on identically.
func (r *ram) PowerOn() {
	rnd := rand.New(rand.NewSource(r.seed))
	for i := range r.mem {
		r.mem[i] = uint8(rnd.Intn(256))
	}
}

// rom implements a read-only bank backed by firmware bytes. Writes are
// silently dropped. Reads mirror addr into the bank's window, matching the
// ROM1 8KiB-mirrored-in-lower-bits behavior from spec.md §3.
type rom struct {
	mem  []uint8
	mask uint16
}

// NewROM creates a read-only bank of exactly size bytes, size must be a
// power of 2. image is copied in; if shorter than size the remainder is
// left zero-filled, if longer it is truncated, per spec.md §6's ROM file
// format.
func NewROM(size int, image []uint8) (Bank, error) {
	if size <= 0 || size&(size-1) != 0 {
		return nil, fmt.Errorf("invalid size: %d must be a power of 2", size)
	}
	b := &rom{
		mem:  make([]uint8, size),
		mask: uint16(size - 1),
	}
	copy(b.mem, image)
	return b, nil
}

// Read implements Bank, mirroring addr into the ROM window.
func (r *rom) Read(addr uint16) uint8 {
	return r.mem[addr&r.mask]
}

// Write implements Bank as a no-op; ROM contents never observably mutate.
func (r *rom) Write(addr uint16, val uint8) {}

// PowerOn is a no-op; ROM contents are exactly the loaded firmware bytes.
func (r *rom) PowerOn() {}

// slot implements an inert memory-mapped device region (I/O controller,
// serial ports, or any unmapped range). Reads always return a fixed,
// deterministic value; writes are ignored. This matches the reference
// prototype's device stubs, which return 0x00 for every slot that has no
// device installed yet.
type slot struct {
	ret uint8
}

// NewInertSlot returns a Bank that always reads as ret and discards writes.
// Used for the I/O controller slot, the two serial slots, and the unmapped
// $B000-$BFFF range until real peripherals are wired in.
func NewInertSlot(ret uint8) Bank {
	return &slot{ret: ret}
}

// Read implements Bank, always returning the slot's fixed value.
func (s *slot) Read(addr uint16) uint8 {
	return s.ret
}

// Write implements Bank as a no-op.
func (s *slot) Write(addr uint16, val uint8) {}

// PowerOn is a no-op; an inert slot has no state.
func (s *slot) PowerOn() {}
