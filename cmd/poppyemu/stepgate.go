package main

import (
	"bufio"
	"io"
)

// stepGate blocks Step() until the operator presses return, the
// single-step debugging mode spec.md §4.6 describes as a thin wrapper
// around the trace harness rather than a feature of the CPU itself.
type stepGate struct {
	r *bufio.Reader
}

func newStepGate(r io.Reader) *stepGate {
	return &stepGate{r: bufio.NewReader(r)}
}

func (s *stepGate) wait() {
	s.r.ReadString('\n')
}
