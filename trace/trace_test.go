package trace

import (
	"bytes"
	"strings"
	"testing"
)

func TestDiscardIsANoOp(t *testing.T) {
	var h Hook = Discard{}
	h.OnAccess(Access{Kind: Write, Addr: 0x1234, Val: 0x42})
	h.OnInstruction(Instruction{})
}

func TestWriterEmitsAccessLine(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf)
	w.OnAccess(Access{Kind: Read, Addr: 0xC000, Val: 0xA9})
	if got := buf.String(); !strings.Contains(got, "R $C000 = $A9") {
		t.Errorf("OnAccess output = %q, want it to contain %q", got, "R $C000 = $A9")
	}
}

func TestWriterEmitsInstructionLine(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf)
	w.OnInstruction(Instruction{
		PCBefore:     0x8000,
		Opcode:       0xA9,
		Disassembly:  "LDA #$01",
		RegsAfter:    Registers{A: 1, PC: 0x8002},
		CyclesCosted: 2,
	})
	got := buf.String()
	for _, want := range []string{"8000", "A9", "LDA #$01", "A=01", "2 cycles"} {
		if !strings.Contains(got, want) {
			t.Errorf("OnInstruction output = %q, want it to contain %q", got, want)
		}
	}
}

type fakeBank struct {
	mem [4]uint8
}

func (f *fakeBank) Read(addr uint16) uint8 { return f.mem[addr] }

func TestDisassembleImmediateAndAbsolute(t *testing.T) {
	b := &fakeBank{mem: [4]uint8{0xA9, 0x42, 0x00, 0x00}}
	out, count := Disassemble(0, b)
	if count != 2 {
		t.Errorf("count = %d, want 2", count)
	}
	if !strings.Contains(out, "LDA") || !strings.Contains(out, "#$42") {
		t.Errorf("out = %q, want LDA immediate of $42", out)
	}

	b = &fakeBank{mem: [4]uint8{0xAD, 0x34, 0x12, 0x00}}
	out, count = Disassemble(0, b)
	if count != 3 {
		t.Errorf("count = %d, want 3", count)
	}
	if !strings.Contains(out, "LDA $1234") {
		t.Errorf("out = %q, want LDA absolute of $1234", out)
	}
}

func TestDisassembleUnknownOpcodeIsNOP(t *testing.T) {
	b := &fakeBank{mem: [4]uint8{0x03, 0, 0, 0}}
	out, count := Disassemble(0, b)
	if count != 1 {
		t.Errorf("count = %d, want 1", count)
	}
	if !strings.Contains(out, "NOP") {
		t.Errorf("out = %q, want NOP", out)
	}
}
