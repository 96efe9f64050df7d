// Package bus implements the Odin32K address-decoded memory bus: it maps
// 16-bit addresses to RAM, ROM banks, and device slots with cycle-accurate
// read/write timing (spec.md §3, §4.2). It follows the same "decode on the
// masked top bits, dispatch to a sub-bank" shape as the teacher's
// atari2600.controller, generalized to the Odin32K memory map and wired to
// a clock.Pacer so every access costs exactly one cycle.
package bus

import (
	"github.com/jchacon-labs/poppyemu/clock"
	"github.com/jchacon-labs/poppyemu/memory"
	"github.com/jchacon-labs/poppyemu/trace"
)

// Region boundaries from spec.md §3, keyed on addr>>12.
const (
	ramTop    = 0x7 // $0000-$7FFF, 8 nibbles -> top nibble 0x0-0x7
	ioNibble  = 0x8 // $8000-$8FFF
	ser0      = 0x9 // $9000-$9FFF
	ser1      = 0xA // $A000-$AFFF
	unmapped  = 0xB // $B000-$BFFF
	rom1Lo    = 0xC // $C000-$DFFF (2 nibbles)
	rom1Hi    = 0xD
	rom0Lo    = 0xE // $E000-$FFFF (2 nibbles)
	rom0Hi    = 0xF
)

// Bus decodes the 16-bit Odin32K address space across RAM, two ROM banks,
// and three inert device slots, charging one pacer cycle per access
// regardless of which region is hit.
type Bus struct {
	ram    memory.Bank
	io     memory.Bank
	serial [2]memory.Bank
	none   memory.Bank
	rom1   memory.Bank
	rom0   memory.Bank

	pacer *clock.Pacer
	hook  trace.Hook
}

// New builds a Bus over the given banks. ram, rom0, and rom1 must be
// non-nil; the I/O slot, both serial slots, and the unmapped range are
// created here as inert slots that read as 0x00. pacer must be non-nil:
// every access charges one cycle through it.
func New(ram, rom0, rom1 memory.Bank, pacer *clock.Pacer) *Bus {
	b := &Bus{
		ram:  ram,
		rom0: rom0,
		rom1: rom1,
		io:   memory.NewInertSlot(0x00),
		none: memory.NewInertSlot(0x00),
		pacer: pacer,
		hook: trace.Discard{},
	}
	b.serial[0] = memory.NewInertSlot(0x00)
	b.serial[1] = memory.NewInertSlot(0x00)
	return b
}

// SetHook installs the trace/step harness. A nil hook is replaced with
// trace.Discard so callers never need a nil check.
func (b *Bus) SetHook(h trace.Hook) {
	if h == nil {
		h = trace.Discard{}
	}
	b.hook = h
}

// bankFor returns the bank addr decodes to, per spec.md §3's table.
func (b *Bus) bankFor(addr uint16) memory.Bank {
	switch addr >> 12 {
	case 0x0, 0x1, 0x2, 0x3, 0x4, 0x5, 0x6, ramTop:
		return b.ram
	case ioNibble:
		return b.io
	case ser0:
		return b.serial[0]
	case ser1:
		return b.serial[1]
	case unmapped:
		return b.none
	case rom1Lo, rom1Hi:
		return b.rom1
	case rom0Lo, rom0Hi:
		return b.rom0
	}
	return b.none
}

// Read charges one cycle and returns the byte at addr from whichever
// region it decodes to.
func (b *Bus) Read(addr uint16) uint8 {
	val := b.bankFor(addr).Read(addr)
	b.pacer.WaitForCycles(1)
	b.hook.OnAccess(trace.Access{Kind: trace.Read, Addr: addr, Val: val})
	return val
}

// Write charges one cycle and stores val at addr if the decoded region is
// writable (ROM- and slot-backed ranges silently drop the write but still
// cost the cycle).
func (b *Bus) Write(addr uint16, val uint8) {
	b.bankFor(addr).Write(addr, val)
	b.pacer.WaitForCycles(1)
	b.hook.OnAccess(trace.Access{Kind: trace.Write, Addr: addr, Val: val})
}

// Peek returns the byte at addr the same way Read decodes it, without
// charging a pacer cycle or emitting a trace.Hook access record. It
// exists for the disassembler, which must describe an instruction
// without perturbing the timing or trace of the instruction it
// describes.
func (b *Bus) Peek(addr uint16) uint8 {
	return b.bankFor(addr).Read(addr)
}

// PowerOn initializes every bank in the map (randomizing RAM, loading ROM
// contents is the caller's job before New is ever called).
func (b *Bus) PowerOn() {
	b.ram.PowerOn()
	b.rom0.PowerOn()
	b.rom1.PowerOn()
	b.io.PowerOn()
	b.serial[0].PowerOn()
	b.serial[1].PowerOn()
	b.none.PowerOn()
}
