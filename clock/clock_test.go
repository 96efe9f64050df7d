package clock

import (
	"testing"
	"time"
)

func TestWaitForCyclesAdvancesTime(t *testing.T) {
	p := NewPacer(1000) // 1000 Hz, 1ms per cycle.
	p.Reset()
	start := time.Now()
	p.WaitForCycles(5)
	if elapsed := time.Since(start); elapsed < 4*time.Millisecond {
		t.Errorf("WaitForCycles(5) at 1000Hz returned too early: elapsed %s", elapsed)
	}
}

func TestWaitForCyclesCatchesUpWithoutReset(t *testing.T) {
	p := NewPacer(HzProduction)
	p.Reset()
	// Backdate the target so the pacer believes it's already behind.
	p.targetSec -= 10
	start := time.Now()
	p.WaitForCycles(1)
	if elapsed := time.Since(start); elapsed > 50*time.Millisecond {
		t.Errorf("WaitForCycles should return immediately on overrun, took %s", elapsed)
	}
}

func TestHz(t *testing.T) {
	p := NewPacer(HzDebug)
	if got, want := p.Hz(), HzDebug; got != want {
		t.Errorf("Hz() = %d, want %d", got, want)
	}
	p2 := NewPacer(0)
	if got, want := p2.Hz(), HzProduction; got != want {
		t.Errorf("Hz() with invalid input = %d, want default %d", got, want)
	}
}
