package cpu

import "github.com/jchacon-labs/poppyemu/trace"

// Step executes exactly one instruction: fetch the opcode at PC, dispatch
// it, and report the bus-access count it cost plus a trace record to the
// installed Hook. It never returns a non-nil error for a documented
// opcode (spec.md §4.4: "no instruction fails") — the only error path is
// a CPU already Halt()ed through the out-of-band side channel.
func (p *Chip) Step() (int, error) {
	if p.halted {
		return 0, HaltOpcode{p.haltOpcode}
	}

	pcBefore := p.PC
	p.instrCycles = 0

	op := p.read(p.PC)
	p.PC++

	disasm, _ := trace.Disassemble(pcBefore, peekReader{p.bus})

	p.execute(op)

	p.hook.OnInstruction(trace.Instruction{
		PCBefore:    pcBefore,
		Opcode:      op,
		Disassembly: disasm,
		RegsAfter: trace.Registers{
			A: p.A, X: p.X, Y: p.Y, S: p.S, P: p.P, PC: p.PC,
		},
		CyclesCosted: p.instrCycles,
	})

	return p.instrCycles, nil
}

// peekReader adapts a Bus to trace.Reader via Peek, so disassembly never
// charges pacer cycles or trace-hook bus-access records of its own —
// those belong to the instruction that already executed, not to the
// debug text describing it.
type peekReader struct {
	bus Bus
}

func (r peekReader) Read(addr uint16) uint8 {
	return r.bus.Peek(addr)
}

// execute dispatches a single opcode byte. The case list covers the
// opcode groups spec.md §4.4 requires; everything else falls into the
// illegal-opcode equivalence classes at the bottom, timed per their
// documented byte-length and cycle count but otherwise inert.
func (p *Chip) execute(op uint8) {
	switch op {

	// --- Loads ---
	case 0xA9: // LDA #
		p.A = p.fetchOperand()
		p.setZN(p.A)
	case 0xA5: // LDA zp
		p.loadA(p.addrZeroPage())
	case 0xB5: // LDA zp,X
		p.loadA(p.addrZeroPageIndexed(p.X))
	case 0xAD: // LDA abs
		p.loadA(p.addrAbsolute())
	case 0xBD: // LDA abs,X
		p.loadA(p.addrAbsoluteIndexed(p.X, false))
	case 0xB9: // LDA abs,Y
		p.loadA(p.addrAbsoluteIndexed(p.Y, false))
	case 0xA1: // LDA (zp,X)
		p.loadA(p.addrIndirectX())
	case 0xB1: // LDA (zp),Y
		p.loadA(p.addrIndirectY(false))
	case 0xB2: // LDA (zp) — 65C02
		p.loadA(p.addrZeroPageIndirect())

	case 0xA2: // LDX #
		p.X = p.fetchOperand()
		p.setZN(p.X)
	case 0xA6: // LDX zp
		p.loadX(p.addrZeroPage())
	case 0xB6: // LDX zp,Y
		p.loadX(p.addrZeroPageIndexed(p.Y))
	case 0xAE: // LDX abs
		p.loadX(p.addrAbsolute())
	case 0xBE: // LDX abs,Y
		p.loadX(p.addrAbsoluteIndexed(p.Y, false))

	case 0xA0: // LDY #
		p.Y = p.fetchOperand()
		p.setZN(p.Y)
	case 0xA4: // LDY zp
		p.loadY(p.addrZeroPage())
	case 0xB4: // LDY zp,X
		p.loadY(p.addrZeroPageIndexed(p.X))
	case 0xAC: // LDY abs
		p.loadY(p.addrAbsolute())
	case 0xBC: // LDY abs,X
		p.loadY(p.addrAbsoluteIndexed(p.X, false))

	// --- Stores ---
	case 0x85: // STA zp
		p.write(p.addrZeroPage(), p.A)
	case 0x95: // STA zp,X
		p.write(p.addrZeroPageIndexed(p.X), p.A)
	case 0x8D: // STA abs
		p.write(p.addrAbsolute(), p.A)
	case 0x9D: // STA abs,X
		p.write(p.addrAbsoluteIndexed(p.X, true), p.A)
	case 0x99: // STA abs,Y
		p.write(p.addrAbsoluteIndexed(p.Y, true), p.A)
	case 0x81: // STA (zp,X)
		p.write(p.addrIndirectX(), p.A)
	case 0x91: // STA (zp),Y
		p.write(p.addrIndirectY(true), p.A)
	case 0x92: // STA (zp) — 65C02
		p.write(p.addrZeroPageIndirect(), p.A)

	case 0x86: // STX zp
		p.write(p.addrZeroPage(), p.X)
	case 0x96: // STX zp,Y
		p.write(p.addrZeroPageIndexed(p.Y), p.X)
	case 0x8E: // STX abs
		p.write(p.addrAbsolute(), p.X)

	case 0x84: // STY zp
		p.write(p.addrZeroPage(), p.Y)
	case 0x94: // STY zp,X
		p.write(p.addrZeroPageIndexed(p.X), p.Y)
	case 0x8C: // STY abs
		p.write(p.addrAbsolute(), p.Y)

	// --- Transfers ---
	case 0xAA: // TAX
		p.addrImplied()
		p.X = p.A
		p.setZN(p.X)
	case 0xA8: // TAY
		p.addrImplied()
		p.Y = p.A
		p.setZN(p.Y)
	case 0xBA: // TSX
		p.addrImplied()
		p.X = p.S
		p.setZN(p.X)
	case 0x8A: // TXA
		p.addrImplied()
		p.A = p.X
		p.setZN(p.A)
	case 0x9A: // TXS
		p.addrImplied()
		p.S = p.X // does not affect flags: the stack pointer isn't a data register.
	case 0x98: // TYA
		p.addrImplied()
		p.A = p.Y
		p.setZN(p.A)

	// --- Stack ---
	case 0x48: // PHA
		p.addrImplied()
		p.push(p.A)
	case 0x08: // PHP
		p.addrImplied()
		p.push(p.P | PBreak)
	case 0x68: // PLA
		p.addrImplied()
		p.read(StackPage | uint16(p.S))
		p.A = p.pop()
		p.setZN(p.A)
	case 0x28: // PLP
		p.addrImplied()
		p.read(StackPage | uint16(p.S))
		p.setP(p.pop())

	// --- Increments/decrements ---
	case 0xE6: // INC zp
		p.rmwDelta(p.addrZeroPage(), 1)
	case 0xF6: // INC zp,X
		p.rmwDelta(p.addrZeroPageIndexed(p.X), 1)
	case 0xEE: // INC abs
		p.rmwDelta(p.addrAbsolute(), 1)
	case 0xFE: // INC abs,X
		p.rmwDelta(p.addrAbsoluteIndexed(p.X, true), 1)
	case 0xC6: // DEC zp
		p.rmwDelta(p.addrZeroPage(), -1)
	case 0xD6: // DEC zp,X
		p.rmwDelta(p.addrZeroPageIndexed(p.X), -1)
	case 0xCE: // DEC abs
		p.rmwDelta(p.addrAbsolute(), -1)
	case 0xDE: // DEC abs,X
		p.rmwDelta(p.addrAbsoluteIndexed(p.X, true), -1)
	case 0xE8: // INX
		p.addrImplied()
		p.X++
		p.setZN(p.X)
	case 0xC8: // INY
		p.addrImplied()
		p.Y++
		p.setZN(p.Y)
	case 0xCA: // DEX
		p.addrImplied()
		p.X--
		p.setZN(p.X)
	case 0x88: // DEY
		p.addrImplied()
		p.Y--
		p.setZN(p.Y)

	// --- Arithmetic ---
	case 0x69: // ADC #
		p.A = p.adc(p.A, p.fetchOperand())
	case 0x65: // ADC zp
		p.adcAt(p.addrZeroPage())
	case 0x75: // ADC zp,X
		p.adcAt(p.addrZeroPageIndexed(p.X))
	case 0x6D: // ADC abs
		p.adcAt(p.addrAbsolute())
	case 0x7D: // ADC abs,X
		p.adcAt(p.addrAbsoluteIndexed(p.X, false))
	case 0x79: // ADC abs,Y
		p.adcAt(p.addrAbsoluteIndexed(p.Y, false))
	case 0x61: // ADC (zp,X)
		p.adcAt(p.addrIndirectX())
	case 0x71: // ADC (zp),Y
		p.adcAt(p.addrIndirectY(false))
	case 0x72: // ADC (zp) — 65C02
		p.adcAt(p.addrZeroPageIndirect())

	case 0xE9: // SBC #
		p.A = p.sbc(p.A, p.fetchOperand())
	case 0xE5: // SBC zp
		p.sbcAt(p.addrZeroPage())
	case 0xF5: // SBC zp,X
		p.sbcAt(p.addrZeroPageIndexed(p.X))
	case 0xED: // SBC abs
		p.sbcAt(p.addrAbsolute())
	case 0xFD: // SBC abs,X
		p.sbcAt(p.addrAbsoluteIndexed(p.X, false))
	case 0xF9: // SBC abs,Y
		p.sbcAt(p.addrAbsoluteIndexed(p.Y, false))
	case 0xE1: // SBC (zp,X)
		p.sbcAt(p.addrIndirectX())
	case 0xF1: // SBC (zp),Y
		p.sbcAt(p.addrIndirectY(false))
	case 0xF2: // SBC (zp) — 65C02
		p.sbcAt(p.addrZeroPageIndirect())

	// --- Flags ---
	case 0x18: // CLC
		p.addrImplied()
		p.P &^= PCarry
	case 0x38: // SEC
		p.addrImplied()
		p.P |= PCarry
	case 0xD8: // CLD
		p.addrImplied()
		p.P &^= PDecimal
	case 0xF8: // SED
		p.addrImplied()
		p.P |= PDecimal // the flag sets normally even though arithmetic ignores it.
	case 0x58: // CLI
		p.addrImplied()
		p.P &^= PInterrupt
	case 0x78: // SEI
		p.addrImplied()
		p.P |= PInterrupt
	case 0xB8: // CLV
		p.addrImplied()
		p.P &^= POverflow

	// --- Control flow ---
	case 0x4C: // JMP abs
		p.PC = p.addrAbsolute()
	case 0x6C: // JMP (abs)
		p.PC = p.addrAbsoluteIndirect()
	case 0x7C: // JMP (abs,X) — 65C02
		p.PC = p.addrAbsoluteXIndirect()
	case 0x20: // JSR abs
		p.jsr()
	case 0x60: // RTS
		p.rts()
	case 0x00: // BRK
		p.brk()
	case 0x40: // RTI
		p.rti()

	case 0xEA: // NOP
		p.addrImplied()

	// --- Illegal-opcode equivalence classes (spec.md §4.4) ---
	// 2-byte, 2-cycle NOP: reads and discards one operand byte.
	case 0x02, 0x22, 0x42, 0x62, 0x82, 0xC2, 0xE2:
		p.fetchOperand()
	// 2-byte, 3-cycle NOP: operand byte plus a dummy zero-page read.
	case 0x44:
		zp := p.fetchOperand()
		p.read(uint16(zp))
	// 2-byte, 4-cycle NOP: zero-page,X addressing, value discarded.
	case 0x54, 0xD4, 0xF4:
		p.read(p.addrZeroPageIndexed(p.X))
	// 3-byte, 4/5-cycle NOP: absolute,X addressing, value discarded.
	case 0xDC, 0xFC:
		p.read(p.addrAbsoluteIndexed(p.X, false))
	// 3-byte, 8-cycle NOP.
	case 0x5C:
		addr := p.fetch16()
		for i := 0; i < 5; i++ {
			p.read(addr)
		}

	default:
		// 1-byte, 1-cycle NOP: every other unlisted opcode. The opcode
		// fetch in Step already charged its one cycle.
	}
}

func (p *Chip) loadA(addr uint16) {
	p.A = p.read(addr)
	p.setZN(p.A)
}

func (p *Chip) loadX(addr uint16) {
	p.X = p.read(addr)
	p.setZN(p.X)
}

func (p *Chip) loadY(addr uint16) {
	p.Y = p.read(addr)
	p.setZN(p.Y)
}

func (p *Chip) adcAt(addr uint16) {
	p.A = p.adc(p.A, p.read(addr))
}

func (p *Chip) sbcAt(addr uint16) {
	p.A = p.sbc(p.A, p.read(addr))
}

// rmwDelta implements the read-modify-write instructions (INC/DEC): the
// chip writes back the unmodified value before the modified one, so the
// effective address always sees two writes (spec.md §4.4).
func (p *Chip) rmwDelta(addr uint16, delta int8) {
	v := p.read(addr)
	p.write(addr, v)
	v += uint8(delta)
	p.write(addr, v)
	p.setZN(v)
}

// jsr pushes the address of the last byte of the JSR instruction, which
// RTS pulls and increments past.
func (p *Chip) jsr() {
	lo := p.fetchOperand()
	p.read(StackPage | uint16(p.S)) // internal operation: stack peek before push.
	ret := p.PC
	p.push(uint8(ret >> 8))
	p.push(uint8(ret))
	hi := p.fetchOperand()
	p.PC = uint16(lo) | uint16(hi)<<8
}

func (p *Chip) rts() {
	p.addrImplied()
	p.read(StackPage | uint16(p.S))
	lo := p.pop()
	hi := p.pop()
	p.PC = uint16(lo) | uint16(hi)<<8
	p.read(p.PC)
	p.PC++
}

func (p *Chip) rti() {
	p.addrImplied()
	p.read(StackPage | uint16(p.S))
	p.setP(p.pop())
	lo := p.pop()
	hi := p.pop()
	p.PC = uint16(lo) | uint16(hi)<<8
}

// brk pushes the return address (past the signature byte following the
// opcode), then P with the break bit forced on, and loads PC from the
// IRQ/BRK vector. spec.md §4.5: BRK/RTI are the only interrupt-stack
// entry/exit this chip implements.
func (p *Chip) brk() {
	p.fetchOperand() // signature byte, discarded.
	p.push(uint8(p.PC >> 8))
	p.push(uint8(p.PC))
	p.push(p.P | PBreak)
	p.P |= PInterrupt
	lo := p.read(IRQVector)
	hi := p.read(IRQVector + 1)
	p.PC = uint16(lo) | uint16(hi)<<8
}
