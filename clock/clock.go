// Package clock paces emulated cycles against wall-clock time. It's the
// Odin32K analog of the timing loop jmchacon/6502/cpu.SetClock builds (an
// average-delay-per-Tick estimate), but restructured around a monotonic
// deadline the way the PoppyEMU prototype's time.h does it: accumulate a
// target in seconds plus a nanosecond remainder and block until reached,
// so a long run doesn't drift from rounding every single cycle.
package clock

import "time"

// Default clock rates. Production Odin32K hardware runs at 4MHz; debug
// builds can override to a human-watchable rate via NewPacer.
const (
	HzProduction = 4_000_000
	HzDebug      = 2
)

// Pacer converts cycle counts into real-time deadlines and blocks the
// caller until monotonic time reaches them. It is single-threaded and
// carries no cancellation: once WaitForCycles is called it always returns,
// it just may do so immediately if the caller is already behind.
type Pacer struct {
	hz         int
	period     time.Duration
	targetSec  int64
	targetNsec int64
	started    bool
}

// NewPacer creates a Pacer ticking at hz cycles per second. The deadline is
// not initialized until the first call to WaitForCycles, which seeds it
// from the current monotonic time.
func NewPacer(hz int) *Pacer {
	if hz <= 0 {
		hz = HzProduction
	}
	return &Pacer{
		hz:     hz,
		period: time.Second / time.Duration(hz),
	}
}

// Reset reseeds the internal deadline to now, discarding any accumulated
// catch-up debt. WaitForCycles calls it on first use if it has not been
// called yet; the boot path in cmd/poppyemu relies on that.
func (p *Pacer) Reset() {
	now := time.Now()
	p.targetSec = now.Unix()
	p.targetNsec = now.UnixNano() % int64(time.Second)
	p.started = true
}

// WaitForCycles advances the pacer's target deadline by n cycles worth of
// time and blocks until monotonic time reaches that deadline. If the
// caller is already past the target (an overrun from a slow host, or from
// catch-up after a burst of cheap instructions) it returns immediately;
// the target is never pushed forward past "now", so subsequent calls
// naturally compress until the deficit is gone.
func (p *Pacer) WaitForCycles(n int) {
	if !p.started {
		p.Reset()
	}
	add := p.period * time.Duration(n)
	p.targetNsec += add.Nanoseconds()
	if over := p.targetNsec / int64(time.Second); over != 0 {
		p.targetSec += over
		p.targetNsec %= int64(time.Second)
	}

	target := time.Unix(p.targetSec, p.targetNsec)
	now := time.Now()
	if now.After(target) {
		return
	}
	time.Sleep(target.Sub(now))
}

// Hz returns the configured cycle rate.
func (p *Pacer) Hz() int {
	return p.hz
}
