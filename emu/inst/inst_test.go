/*
   regvm: instruction decode template tests.

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

package inst

import (
	"encoding/binary"
	"testing"
)

func putWord(buf []byte, off uint32, w uint32) {
	binary.LittleEndian.PutUint32(buf[off:], w)
}

func TestWordAndOpcode(t *testing.T) {
	buf := make([]byte, 4)
	putWord(buf, 0, 0xaabbcc42)
	if got := Word(buf, 0); got != 0xaabbcc42 {
		t.Errorf("Word = %#x", got)
	}
	if got := Opcode(Word(buf, 0)); got != 0x42 {
		t.Errorf("Opcode = %#x, want 0x42", got)
	}
}

func TestLong(t *testing.T) {
	buf := make([]byte, 8)
	binary.LittleEndian.PutUint64(buf, 0x1122334455667788)
	if got := Long(buf, 0); got != 0x1122334455667788 {
		t.Errorf("Long = %#x", got)
	}
}

func TestDecodeA(t *testing.T) {
	buf := make([]byte, 4)
	minus7 := int32(-7)
	putWord(buf, 0, uint32(9)|uint32(minus7)<<8)
	d := DecodeA(buf, 0)
	if d.Opcode != 9 {
		t.Errorf("Opcode = %d, want 9", d.Opcode)
	}
	if d.Value != -7 {
		t.Errorf("Value = %d, want -7", d.Value)
	}
}

func TestDecodeB(t *testing.T) {
	buf := make([]byte, 4)
	var x uint32 = 5
	var val uint32 = 100
	putWord(buf, 0, uint32(1)|(x<<8)|(val<<18))
	d := DecodeB(buf, 0)
	if d.X != 5 {
		t.Errorf("X = %d, want 5", d.X)
	}
	if d.UValue != 100 {
		t.Errorf("UValue = %d, want 100", d.UValue)
	}
}

func TestDecodeC(t *testing.T) {
	buf := make([]byte, 8)
	putWord(buf, 0, uint32(2)|(uint32(3)<<8)|(uint32(4)<<22))
	putWord(buf, 4, 777)
	d := DecodeC(buf, 0)
	if d.X != 3 || d.Y != 4 {
		t.Errorf("X/Y = %d/%d, want 3/4", d.X, d.Y)
	}
	if d.Value != 777 {
		t.Errorf("Value = %d, want 777", d.Value)
	}
}

func TestDecodeD(t *testing.T) {
	buf := make([]byte, 12)
	putWord(buf, 0, uint32(3)|(uint32(7)<<22))
	binary.LittleEndian.PutUint64(buf[4:], 0xdeadbeefcafebabe)
	d := DecodeD(buf, 0)
	if d.X != 7 {
		t.Errorf("X = %d, want 7", d.X)
	}
	if d.UValue != 0xdeadbeefcafebabe {
		t.Errorf("UValue = %#x", d.UValue)
	}
}

func TestDecodeE(t *testing.T) {
	buf := make([]byte, 8)
	w12 := uint64(4) | uint64(1)<<8 | uint64(2)<<18 | uint64(3)<<28 | (uint64(0xff) << 38)
	putWord(buf, 0, uint32(w12))
	putWord(buf, 4, uint32(w12>>32))
	d := DecodeE(buf, 0)
	if d.X != 1 || d.Y != 2 || d.Z != 3 {
		t.Errorf("X/Y/Z = %d/%d/%d", d.X, d.Y, d.Z)
	}
	if d.Value != 0xff {
		t.Errorf("Value = %d, want 255", d.Value)
	}
}

func TestDecodeF(t *testing.T) {
	buf := make([]byte, 8)
	n1 := uint64(5) & 0x3ffff
	n2 := uint64(0x3fffe) // -2 in 18-bit two's complement
	w12 := uint64(5) | uint64(1)<<8 | uint64(2)<<18 | n1<<28
	putWord(buf, 0, uint32(w12))
	putWord(buf, 4, uint32(w12>>32)|uint32(n2<<14))
	d := DecodeF(buf, 0)
	if d.X != 1 || d.Y != 2 {
		t.Errorf("X/Y = %d/%d", d.X, d.Y)
	}
	if d.N1 != 5 {
		t.Errorf("N1 = %d, want 5", d.N1)
	}
	if d.N2 != -2 {
		t.Errorf("N2 = %d, want -2", d.N2)
	}
}

func TestBranchTarget(t *testing.T) {
	if got := BranchTarget(100, 3); got != 112 {
		t.Errorf("BranchTarget(100, 3) = %d, want 112", got)
	}
	if got := BranchTarget(100, -5); got != 80 {
		t.Errorf("BranchTarget(100, -5) = %d, want 80", got)
	}
}

func TestDispatchTable(t *testing.T) {
	buf := make([]byte, 16)
	putWord(buf, 0, 2)
	putWord(buf, 4, 1)
	minus1 := int32(-1)
	putWord(buf, 8, uint32(minus1))
	targets := DispatchTable(buf, 20, 0)
	if len(targets) != 2 {
		t.Fatalf("len(targets) = %d, want 2", len(targets))
	}
	if targets[0] != 24 {
		t.Errorf("targets[0] = %d, want 24", targets[0])
	}
	if targets[1] != 16 {
		t.Errorf("targets[1] = %d, want 16", targets[1])
	}
}
