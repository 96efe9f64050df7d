// Package cpu implements the Odin32K instruction-interpretation engine: a
// 6502/65C02-family dispatcher that fetches, decodes, and executes opcodes
// against a memory-mapped bus, reproducing per-addressing-mode timing and
// flag side effects (spec.md §4.4). The register file and flag layout
// follow jmchacon/6502/cpu.Chip's naming; the dispatch loop itself is
// restructured as a single blocking Step() per instruction rather than a
// resumable per-tick state machine, since this design has no IRQ line to
// poll between instructions (spec.md §5) — BRK/RTI are the only entry/exit
// to the interrupt stack frame.
package cpu

import (
	"fmt"

	"github.com/jchacon-labs/poppyemu/trace"
)

// Flag bit layout, bit-exact so PHP/PLP/BRK round-trip P on the stack
// without losing fidelity (spec.md §9: "treat as a bitfield with named
// mask constants, not a composite of booleans").
const (
	PNegative  = uint8(0x80)
	POverflow  = uint8(0x40)
	PAlwaysOne = uint8(0x20)
	PBreak     = uint8(0x10)
	PDecimal   = uint8(0x08)
	PInterrupt = uint8(0x04)
	PZero      = uint8(0x02)
	PCarry     = uint8(0x01)
)

// Vector addresses (spec.md §3, §4.5).
const (
	NMIVector   = uint16(0xFFFA)
	ResetVector = uint16(0xFFFC)
	IRQVector   = uint16(0xFFFE)
)

// StackPage is the fixed page the stack pointer addresses, $0100-$01FF.
const StackPage = uint16(0x0100)

// Bus is the interface the dispatcher issues all reads/writes through. It
// is satisfied by *bus.Bus; kept as an interface here so cpu has no import
// dependency on bus, matching how jmchacon/6502/cpu depends only on the
// memory.Ram interface rather than a concrete bus type.
type Bus interface {
	Read(addr uint16) uint8
	Write(addr uint16, val uint8)

	// Peek reads a byte the same way Read decodes its address, but without
	// charging a pacer cycle or emitting a trace.Hook access record. Only
	// the disassembler uses it, to describe an instruction without
	// perturbing the timing or trace of the instruction it describes.
	Peek(addr uint16) uint8
}

// Chip is the Odin32K 6502/65C02-family register file plus the dispatcher
// state needed to run it. There is exactly one CPU per machine (spec.md
// §3): callers own a single *Chip and pass it by reference through Step.
type Chip struct {
	A  uint8  // Accumulator register.
	X  uint8  // X index register.
	Y  uint8  // Y index register.
	S  uint8  // Stack pointer, addresses page 1.
	P  uint8  // Status register.
	PC uint16 // Program counter.

	bus Bus

	halted     bool
	haltOpcode uint8

	instrCycles int // Bus accesses charged so far in the instruction currently executing.

	hook trace.Hook // Instruction-level trace/step harness (spec.md §4.6); never nil.
}

// HaltOpcode represents an opcode, or an external halt request, that
// stopped the CPU. Step keeps returning it on every subsequent call once
// the chip is halted.
type HaltOpcode struct {
	Opcode uint8
}

// Error implements the error interface.
func (e HaltOpcode) Error() string {
	return fmt.Sprintf("HALT(0x%.2X) executed", e.Opcode)
}

// SetHook installs the trace/step harness consumed after every completed
// instruction. A nil hook is replaced with trace.Discard.
func (p *Chip) SetHook(h trace.Hook) {
	if h == nil {
		h = trace.Discard{}
	}
	p.hook = h
}

// setP assigns the status register, forcing bit 5 on: on real 65C02
// silicon that bit is hardwired high and can never be observed clear, even
// immediately after a PLP/RTI pulls a stack byte with it unset (spec.md §3
// invariant, §8 quantified invariant).
func (p *Chip) setP(v uint8) {
	p.P = v | PAlwaysOne
}

// read issues a bus read and counts it toward the current instruction's
// cycle total (spec.md §8: "bus accesses plus explicit idle cycles equals
// the documented cycle count").
func (p *Chip) read(addr uint16) uint8 {
	p.instrCycles++
	return p.bus.Read(addr)
}

// write issues a bus write and counts it toward the current instruction's
// cycle total.
func (p *Chip) write(addr uint16, val uint8) {
	p.instrCycles++
	p.bus.Write(addr, val)
}

// InvalidState represents a precondition violation in the dispatcher. No
// documented opcode or addressing mode can trigger this path (spec.md
// §4.4: "no instruction fails") — it exists only to catch a nil Bus or a
// similar programmer error before it corrupts register state silently.
type InvalidState struct {
	Reason string
}

// Error implements the error interface.
func (e InvalidState) Error() string {
	return fmt.Sprintf("invalid CPU state: %s", e.Reason)
}

// New creates an Odin32K CPU wired to bus. Registers are left zeroed;
// call PowerOn to bring the chip to its power-on state and load PC from
// the reset vector.
func New(bus Bus) (*Chip, error) {
	if bus == nil {
		return nil, InvalidState{"bus must not be nil"}
	}
	return &Chip{bus: bus, hook: trace.Discard{}}, nil
}

// Halted reports whether Halt has been called. This implementation
// reserves no halt opcode, so Halted never becomes true through normal
// dispatch; only a caller of Halt can set it.
func (p *Chip) Halted() bool {
	return p.halted
}

// Halt stops the CPU cleanly, the way spec.md §6 allows an implementation
// to expose via a side channel without violating the spec. Once halted,
// Step returns immediately every time it's called again.
func (p *Chip) Halt() {
	p.halted = true
}
