/*
   regvm: test-only instruction-word assembler.

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

// Package asmtest builds raw instruction words for the six decode templates
// of spec §4.1, so _test.go files across this module can construct tiny
// bytecode programs without a real compiler (out of scope per spec §1).
// Mirrors the teacher's emu/assemble (a mnemonic -> encoded-word table), but
// keyed by opcode + template rather than parsed mnemonic text, since this
// ISA's compiler-side syntax does not exist. Never imported outside _test.go
// files.
package asmtest

import "encoding/binary"

func putWord(buf []byte, off int, w uint32) {
	binary.LittleEndian.PutUint32(buf[off:], w)
}

// A encodes template A: one operand in W1>>8 (spec §4.1).
func A(op uint8, value int32) []byte {
	buf := make([]byte, 4)
	putWord(buf, 0, uint32(op)|uint32(value)<<8)
	return buf
}

// B encodes template B: a 10-bit slot index plus a 14-bit immediate.
func B(op uint8, x uint32, value int32) []byte {
	buf := make([]byte, 4)
	w := uint32(op) | (x&0x3ff)<<8 | (uint32(value)&0x3fff)<<18
	putWord(buf, 0, w)
	return buf
}

// C encodes template C: two 10-bit slot indices plus a 32-bit immediate in
// the following word.
func C(op uint8, x, y uint32, value int32) []byte {
	buf := make([]byte, 8)
	w1 := uint32(op) | (x&0x3ff)<<8 | (y&0x3ff)<<22
	putWord(buf, 0, w1)
	putWord(buf, 4, uint32(value))
	return buf
}

// D encodes template D: one 10-bit slot index plus a 64-bit immediate
// spanning the two following words.
func D(op uint8, x uint32, value uint64) []byte {
	buf := make([]byte, 12)
	w1 := uint32(op) | (x&0x3ff)<<22
	putWord(buf, 0, w1)
	binary.LittleEndian.PutUint64(buf[4:], value)
	return buf
}

// E encodes template E: three 10-bit slot indices plus a ~26-bit signed
// immediate, packed into W1+W2 as a single 64-bit W12 (spec §4.1).
func E(op uint8, x, y, z uint32, value int64) []byte {
	w12 := uint64(op) | uint64(x&0x3ff)<<8 | uint64(y&0x3ff)<<18 |
		uint64(z&0x3ff)<<28 | (uint64(value)&0x3ffffff)<<38
	buf := make([]byte, 8)
	putWord(buf, 0, uint32(w12))
	putWord(buf, 4, uint32(w12>>32))
	return buf
}

// F encodes template F: two 10-bit slot indices plus two sign-extended
// 18-bit branch offsets (taken/not-taken), packed the same way as E.
func F(op uint8, x, y uint32, n1, n2 int32) []byte {
	w12 := uint64(op) | uint64(x&0x3ff)<<8 | uint64(y&0x3ff)<<18 |
		(uint64(n1)&0x3ffff)<<28 | (uint64(n2)&0x3ffff)<<46
	buf := make([]byte, 8)
	putWord(buf, 0, uint32(w12))
	putWord(buf, 4, uint32(w12>>32))
	return buf
}

// Dispatch encodes a DISPATCH/DISPATCH_METHOD instruction: a template-B word
// (x, format) followed by the inline target table emu/inst.DispatchTable
// expects — a count then that many word offsets, each relative to this
// instruction's own pc0.
func Dispatch(op uint8, x uint32, format int32, targets []int32) []byte {
	buf := B(op, x, format)
	tbl := make([]byte, 4+4*len(targets))
	binary.LittleEndian.PutUint32(tbl, uint32(len(targets)))
	for i, t := range targets {
		putWord(tbl, 4+4*i, uint32(t))
	}
	return append(buf, tbl...)
}

// Program accumulates a sequence of encoded instructions, tracking byte
// offsets so callers can compute branch targets as they go, the same role
// the teacher's line-by-line assembler output buffer plays.
type Program struct {
	buf []byte
}

// Len returns the current byte length, i.e. the pc0 the next Append'd
// instruction will land at.
func (p *Program) Len() uint32 {
	return uint32(len(p.buf))
}

// Append adds an encoded instruction (as returned by A-F or Dispatch) to the
// program and returns the byte offset it was placed at.
func (p *Program) Append(word []byte) uint32 {
	off := p.Len()
	p.buf = append(p.buf, word...)
	return off
}

// Bytes returns the assembled instruction buffer, always a multiple of 4
// bytes since every template's length is.
func (p *Program) Bytes() []byte {
	return p.buf
}
