package cpu

// This file computes effective addresses for each addressing mode in
// spec.md §4.4, issuing the bus reads (including "dummy" reads solely for
// cycle-timing fidelity) in the exact order the real chip would. Every
// every p.read/p.write call here also costs a pacer cycle underneath,
// since that's wired into the bus itself (spec.md §4.2, §9) — this file
// only tallies the per-instruction count, not wall-clock time.

// fetchOperand reads the byte at PC and advances PC, the "fetch one
// operand byte" step every non-implied addressing mode starts with.
func (p *Chip) fetchOperand() uint8 {
	v := p.read(p.PC)
	p.PC++
	return v
}

// fetch16 reads two little-endian operand bytes starting at PC and
// advances PC by 2.
func (p *Chip) fetch16() uint16 {
	lo := p.fetchOperand()
	hi := p.fetchOperand()
	return uint16(lo) | uint16(hi)<<8
}

// addrImplied issues the one dummy read implied-mode instructions use to
// consume their second cycle without touching PC (spec.md §4.4).
func (p *Chip) addrImplied() {
	p.read(p.PC)
}

// addrZeroPage implements zero-page mode - d.
func (p *Chip) addrZeroPage() uint16 {
	return uint16(p.fetchOperand())
}

// addrZeroPageIndexed implements zero-page,X and zero-page,Y, wrapping in
// 8 bits and issuing the dummy read at the un-indexed operand before
// indexing, per spec.md §4.4.
func (p *Chip) addrZeroPageIndexed(reg uint8) uint16 {
	base := p.fetchOperand()
	p.read(uint16(base))
	return uint16(base + reg)
}

// addrAbsolute implements absolute mode - a.
func (p *Chip) addrAbsolute() uint16 {
	return p.fetch16()
}

// crossesPage reports whether base and eff have different high bytes.
func crossesPage(base, eff uint16) bool {
	return base&0xFF00 != eff&0xFF00
}

// indexedDummyRead issues the extra dummy read a page-crossing indexed
// access takes. forceAlways is set for store/RMW instructions, which
// always pay the extra cycle regardless of whether the page actually
// crossed (the real chip always recomputes before it knows the write is
// safe); load instructions only pay it when the page genuinely crossed.
func (p *Chip) indexedDummyRead(base, eff uint16, forceAlways bool) {
	crossed := crossesPage(base, eff)
	if !crossed && !forceAlways {
		return
	}
	// The dummy read happens at the uncorrected address: same low byte as
	// the effective address, but the original (pre-carry) high byte.
	addr := (base & 0xFF00) | (eff & 0x00FF)
	if !crossed {
		addr = eff
	}
	p.read(addr)
}

// addrAbsoluteIndexed implements absolute,X and absolute,Y.
func (p *Chip) addrAbsoluteIndexed(reg uint8, forceAlways bool) uint16 {
	base := p.fetch16()
	eff := base + uint16(reg)
	p.indexedDummyRead(base, eff, forceAlways)
	return eff
}

// addrIndirectX implements (indirect,X): operand + X (8-bit wrap) points
// into zero-page to a 16-bit pointer.
func (p *Chip) addrIndirectX() uint16 {
	zp := p.fetchOperand()
	p.read(uint16(zp))
	ptr := zp + p.X
	lo := p.read(uint16(ptr))
	hi := p.read(uint16(ptr + 1))
	return uint16(lo) | uint16(hi)<<8
}

// addrIndirectY implements (indirect),Y: operand points into zero-page to
// a 16-bit pointer; Y is then added, with the same page-cross dummy-read
// rule as absolute,X/Y.
func (p *Chip) addrIndirectY(forceAlways bool) uint16 {
	zp := p.fetchOperand()
	lo := p.read(uint16(zp))
	hi := p.read(uint16(zp + 1))
	base := uint16(lo) | uint16(hi)<<8
	eff := base + uint16(p.Y)
	p.indexedDummyRead(base, eff, forceAlways)
	return eff
}

// addrZeroPageIndirect implements the 65C02 (zp) extension: the operand
// points to a 16-bit pointer in zero page, which is the effective address
// directly (no index register involved).
func (p *Chip) addrZeroPageIndirect() uint16 {
	zp := p.fetchOperand()
	lo := p.read(uint16(zp))
	hi := p.read(uint16(zp + 1))
	return uint16(lo) | uint16(hi)<<8
}

// addrAbsoluteIndirect implements JMP (a): the 16-bit operand points to a
// 16-bit destination. The CMOS chip this spec targets fixes the famous
// NMOS page-wrap bug, so the high byte is read from ptr+1 without
// wrapping within the page.
func (p *Chip) addrAbsoluteIndirect() uint16 {
	ptr := p.fetch16()
	lo := p.read(ptr)
	hi := p.read(ptr + 1)
	return uint16(lo) | uint16(hi)<<8
}

// addrAbsoluteXIndirect implements JMP (a,X), a 65C02 extension: the
// operand plus X, after a dummy read, points to the destination.
func (p *Chip) addrAbsoluteXIndirect() uint16 {
	base := p.fetch16()
	p.read(p.PC - 1)
	ptr := base + uint16(p.X)
	lo := p.read(ptr)
	hi := p.read(ptr + 1)
	return uint16(lo) | uint16(hi)<<8
}
