// poppyasm turns a hand-written listing into an Odin32K ROM image. The
// input format is a plain listing of lines:
//
//	XXXX OP A1 A2 ...
//
// where XXXX is a 4-digit hex address and every other token is a hex byte
// to emit. The address is parsed and quoted in error messages but not
// checked against the output position: bytes are emitted one after another
// starting at -offset. This is adapted from the teacher's own hand_asm
// tool; the output is zero-padded to the 8192-byte ROM window Odin32K
// expects, and a listing that runs past that window is an error.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
)

const romSize = 8192

var offset = flag.Int("offset", 0x0000, "Offset into the ROM image to start writing assembled bytes. Everything prior is zero filled.")

func assemble(in *os.File) ([]byte, error) {
	output := make([]byte, romSize)
	pos := *offset

	scanner := bufio.NewScanner(in)
	line := 0
	for scanner.Scan() {
		line++
		t := strings.TrimSpace(scanner.Text())
		if t == "" || strings.HasPrefix(t, "*") || strings.HasPrefix(t, ";") {
			continue
		}
		toks := strings.Fields(t)
		if len(toks) < 2 {
			return nil, fmt.Errorf("line %d: want an address plus at least one byte, got %q", line, t)
		}
		addr, err := strconv.ParseUint(toks[0], 16, 16)
		if err != nil {
			return nil, fmt.Errorf("line %d: bad address %q: %w", line, toks[0], err)
		}
		for _, v := range toks[1:] {
			b, err := strconv.ParseUint(v, 16, 8)
			if err != nil {
				return nil, fmt.Errorf("line %d: bad byte %q: %w", line, v, err)
			}
			if pos >= romSize {
				return nil, fmt.Errorf("line %d: address %04X writes past the %d-byte ROM window", line, addr, romSize)
			}
			output[pos] = byte(b)
			pos++
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return output, nil
}

func main() {
	flag.Parse()
	if len(flag.Args()) != 2 {
		log.Fatalf("Usage: %s [-offset N] <input> <output>", os.Args[0])
	}
	fn := flag.Args()[0]
	out := flag.Args()[1]

	in, err := os.Open(fn)
	if err != nil {
		log.Fatalf("Can't open %q for input: %v", fn, err)
	}
	defer in.Close()

	output, err := assemble(in)
	if err != nil {
		log.Fatalf("Can't assemble %q: %v", fn, err)
	}

	if err := os.WriteFile(out, output, 0644); err != nil {
		log.Fatalf("Can't write %q: %v", out, err)
	}
}
