package cpu

// PowerOn brings the chip to its documented reset state (spec.md §4.5):
// A/X/Y cleared, S pinned to $FD (a fixed value chosen to match common
// NMOS/CMOS convention, since original_source sets none), P with only the
// always-one bit set, and PC loaded from the
// reset vector at $FFFC/$FFFD. It costs no simulated bus cycles of its
// own beyond the two vector reads — there is no power-on pacer deadline
// to respect before the first instruction runs.
func (p *Chip) PowerOn() {
	p.A = 0
	p.X = 0
	p.Y = 0
	p.S = 0xFD
	p.setP(0)
	p.halted = false

	lo := p.bus.Read(ResetVector)
	hi := p.bus.Read(ResetVector + 1)
	p.PC = uint16(lo) | uint16(hi)<<8
}
