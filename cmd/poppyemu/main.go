// poppyemu boots an Odin32K image and runs it at (approximately) real
// hardware speed, optionally emitting a per-instruction trace. Usage
// follows the original prototype's CLI contract exactly (spec.md §6,
// §7): a missing or extra ROM argument, or a ROM file that can't be
// read, is a Configuration or I/O error and exits before a single
// opcode dispatches.
package main

import (
	"flag"
	"fmt"
	"io/ioutil"
	"log"
	"os"

	"github.com/jchacon-labs/poppyemu/bus"
	"github.com/jchacon-labs/poppyemu/clock"
	"github.com/jchacon-labs/poppyemu/cpu"
	"github.com/jchacon-labs/poppyemu/memory"
	"github.com/jchacon-labs/poppyemu/trace"
)

const (
	ramSize = 32768
	romSize = 8192
)

var (
	debugClock = flag.Bool("debug-clock", false, "If true runs the clock at a slow debug rate instead of production speed")
	traceFlag  = flag.Bool("trace", false, "If true prints a per-instruction and per-bus-access trace to stdout")
	step       = flag.Bool("step", false, "If true waits for a newline on stdin between instructions")
	seed       = flag.Int64("ram-seed", 1, "Seed for the pseudo-random RAM power-on fill")
)

func loadROM(path string) (memory.Bank, error) {
	image, err := ioutil.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return memory.NewROM(romSize, image)
}

func main() {
	flag.Parse()
	fmt.Fprintln(os.Stdout, "PoppyEMU - A research emulator for the Odin32K.")

	args := flag.Args()
	if len(args) < 1 || len(args) > 2 {
		log.Fatalf("Usage: %s ROM0 [ROM1]", os.Args[0])
	}

	rom0, err := loadROM(args[0])
	if err != nil {
		log.Fatalf("Can't load ROM0 %q: %v", args[0], err)
	}

	var rom1 memory.Bank
	if len(args) == 2 {
		rom1, err = loadROM(args[1])
		if err != nil {
			log.Fatalf("Can't load ROM1 %q: %v", args[1], err)
		}
	} else {
		rom1, err = memory.NewROM(romSize, nil)
		if err != nil {
			log.Fatalf("Can't create empty ROM1: %v", err)
		}
	}

	ram, err := memory.NewRAM(ramSize, *seed)
	if err != nil {
		log.Fatalf("Can't create RAM: %v", err)
	}

	hz := clock.HzProduction
	if *debugClock {
		hz = clock.HzDebug
	}
	pacer := clock.NewPacer(hz)

	b := bus.New(ram, rom0, rom1, pacer)
	b.PowerOn()

	if *traceFlag {
		b.SetHook(trace.NewWriter(os.Stdout))
	}

	chip, err := cpu.New(b)
	if err != nil {
		log.Fatalf("Can't create CPU: %v", err)
	}
	if *traceFlag {
		chip.SetHook(trace.NewWriter(os.Stdout))
	}
	chip.PowerOn()

	var stepReader *stepGate
	if *step {
		stepReader = newStepGate(os.Stdin)
	}

	for !chip.Halted() {
		if stepReader != nil {
			stepReader.wait()
		}
		if _, err := chip.Step(); err != nil {
			log.Fatalf("CPU halted: %v", err)
		}
	}
}
