/*
   regvm: interpreter loop tests.

   Copyright (c) 2024, Richard Cornwell
   Copyright (c) 2026, regvm contributors

   Permission is hereby granted, free of charge, to any person obtaining a
   copy of this software and associated documentation files (the "Software"),
   to deal in the Software without restriction, including without limitation
   the rights to use, copy, modify, merge, publish, distribute, sublicense,
   and/or sell copies of the Software, and to permit persons to whom the
   Software is furnished to do so, subject to the following conditions:

   The above copyright notice and this permission notice shall be included in
   all copies or substantial portions of the Software.

   THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
   IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
   FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT.  IN NO EVENT SHALL
   THE AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
   LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING
   FROM, OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER
   DEALINGS IN THE SOFTWARE.

*/

package vm

import (
	"testing"

	"github.com/cormacvm/regvm/emu/asmtest"
	"github.com/cormacvm/regvm/emu/opcodemap"
	"github.com/cormacvm/regvm/emu/stack"
	"github.com/cormacvm/regvm/emu/value"
)

// newTestState builds a State with one stack and one pushed frame of
// nLocals slots, return_pc set to stack.ExitReturn so a RETURN at top level
// cleanly stops Run.
func newTestState(t *testing.T, instructions []byte, nLocals uint32) *State {
	t.Helper()
	s := NewState(1<<16, 256, 256)
	s.Instructions = instructions
	st := stack.New(4096)
	s.AddStack(1, st)
	s.SetCurrentStack(1)
	s.PushFrame(nLocals, stack.ExitReturn)
	return s
}

func TestRunSetWideImmAndIntAdd(t *testing.T) {
	var p asmtest.Program
	p.Append(asmtest.D(opcodemap.OpSetWideImm, 0, value.TagInt32(5)))
	p.Append(asmtest.D(opcodemap.OpSetWideImm, 1, value.TagInt32(7)))
	p.Append(asmtest.E(opcodemap.OpIntAdd, 2, 0, 1, 0))
	p.Append(asmtest.A(opcodemap.OpReturn, 0))

	s := newTestState(t, p.Bytes(), 3)
	base := s.TopFrameBase()

	if err := Run(s); err != nil {
		t.Fatalf("Run: %v", err)
	}

	got := s.CurrentStackPtr().GetLocal(base, 2)
	if value.DetagInt32(got) != 12 {
		t.Errorf("local 2 = %d, want 12", value.DetagInt32(got))
	}
}

func TestRunGotoSkipsInstruction(t *testing.T) {
	var p asmtest.Program
	gotoOff := p.Append(make([]byte, 4)) // placeholder, filled below once we know the skip target
	skipped := p.Append(asmtest.D(opcodemap.OpSetWideImm, 0, value.TagInt32(999)))
	landing := p.Append(asmtest.D(opcodemap.OpSetWideImm, 0, value.TagInt32(1)))
	p.Append(asmtest.A(opcodemap.OpReturn, 0))

	wordOffset := (int32(landing) - int32(gotoOff)) / 4
	full := append([]byte{}, p.Bytes()...)
	copy(full[gotoOff:], asmtest.A(opcodemap.OpGoto, wordOffset))
	_ = skipped

	s := newTestState(t, full, 1)
	base := s.TopFrameBase()

	if err := Run(s); err != nil {
		t.Fatalf("Run: %v", err)
	}

	got := value.DetagInt32(s.CurrentStackPtr().GetLocal(base, 0))
	if got != 1 {
		t.Errorf("local 0 = %d, want 1 (GOTO should have skipped the 999 write)", got)
	}
}

func TestRunCallAndReturn(t *testing.T) {
	// main: CALL_CODE fn#1 with 1 local slot for the callee's frame, then RETURN.
	// fn#1 (at word offset 3): SET_WIDE_IMM local0 <- 42; RETURN.
	var p asmtest.Program
	p.Append(asmtest.C(opcodemap.OpCallCode, 0, 1, 1)) // x=local to receive nothing meaningful, y=1 local, imm=fn id 1
	p.Append(asmtest.A(opcodemap.OpReturn, 0))
	fnStart := p.Append(asmtest.D(opcodemap.OpSetWideImm, 0, value.TagInt32(42)))
	p.Append(asmtest.A(opcodemap.OpReturn, 0))

	s := newTestState(t, p.Bytes(), 1)
	s.CodeOffsets = []uint32{0, fnStart / 4}

	if err := Run(s); err != nil {
		t.Fatalf("Run: %v", err)
	}
}

func TestRunUnknownOpcodeReturnsError(t *testing.T) {
	// Spec §7.1: an unknown opcode is fatal and reported, not silently
	// skipped or resumed — Run surfaces it as an error for the caller
	// (emu/core) to log and abort on.
	buf := []byte{0xfe, 0, 0, 0}
	s := newTestState(t, buf, 0)
	if err := Run(s); err == nil {
		t.Errorf("expected an error on an unrecognized opcode")
	}
}
