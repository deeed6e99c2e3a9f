/*
   regvm: test-only instruction-word assembler tests.

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

package asmtest

import (
	"testing"

	"github.com/cormacvm/regvm/emu/disassemble"
	"github.com/cormacvm/regvm/emu/inst"
	"github.com/cormacvm/regvm/emu/opcodemap"
)

func TestEncodeDecodeRoundTrip(t *testing.T) {
	cases := []struct {
		name string
		word []byte
		want string
		len  int
	}{
		{"A", A(opcodemap.OpGoto, 7), "GOTO               7", 4},
		{"B", B(opcodemap.OpSetUImm, 2, 5), "SET_UIMM           x2, 5", 4},
		{"C", C(opcodemap.OpCallCode, 3, 4, 42), "CALL_CODE          x3, y4, 42", 8},
		{"D", D(opcodemap.OpSetWideImm, 1, 0x1122334455), "SET_WIDE_IMM       x1, 0x1122334455", 12},
		{"E", E(opcodemap.OpIntAdd, 1, 2, 3, 0), "INT_ADD            x1, y2, z3, 0", 8},
		{"F", F(opcodemap.OpJumpEqInt, 5, 6, 3, -1), "JUMP_EQ_INT        x5, y6, +3/-1", 8},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			text, length := disassembler.Disassemble(c.word, 0)
			if length != c.len {
				t.Errorf("length = %d, want %d", length, c.len)
			}
			if text != c.want {
				t.Errorf("text = %q, want %q", text, c.want)
			}
		})
	}
}

func TestDispatchEncode(t *testing.T) {
	word := Dispatch(opcodemap.OpDispatch, 0, 1, []int32{10, 20})
	text, length := disassembler.Disassemble(word, 0)
	if length != 16 {
		t.Errorf("length = %d, want 16", length)
	}
	if text != "DISPATCH           x0, fmt=1, [2 targets]" {
		t.Errorf("text = %q", text)
	}
}

func TestProgramAppendTracksOffsets(t *testing.T) {
	var p Program
	off1 := p.Append(A(opcodemap.OpGoto, 0))
	off2 := p.Append(B(opcodemap.OpSetUImm, 1, 9))
	if off1 != 0 {
		t.Errorf("off1 = %d, want 0", off1)
	}
	if off2 != 4 {
		t.Errorf("off2 = %d, want 4", off2)
	}
	if p.Len() != 8 {
		t.Errorf("Len() = %d, want 8", p.Len())
	}
	if len(p.Bytes()) != 8 {
		t.Errorf("Bytes() len = %d, want 8", len(p.Bytes()))
	}
}

func TestDecodeBFieldsRoundTrip(t *testing.T) {
	word := B(opcodemap.OpSetUImm, 2, 5)
	d := inst.DecodeB(word, 0)
	if d.X != 2 || d.UValue != 5 {
		t.Errorf("DecodeB = %+v", d)
	}
}
