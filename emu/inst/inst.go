/*
   regvm: instruction decode templates.

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

// Package inst decodes the six fixed operand layouts (templates A-F) packed
// into the low 24 bits of the first instruction word, plus the wider
// operand forms that consume a second word, a 64-bit immediate, or an
// inline branch table.
package inst

// Decoded holds the fields pulled out of one instruction, populated
// according to the opcode's template. Not every field applies to every
// template; callers know which fields their opcode's template fills in.
type Decoded struct {
	PC0    uint32 // Byte address of W1 — the pre-decode PC (§4.1, branches relative to this).
	Opcode uint8
	X      uint32 // First 10-bit slot index (templates B-F; template D takes it from W1>>22).
	Y      uint32 // Second 10-bit slot index (templates C, E, F).
	Z      uint32 // Third 10-bit slot index (template E).
	Value  int64  // Signed immediate/operand value, meaning depends on template.
	UValue uint64 // Unsigned view of Value, for opcodes that want it raw.
	N1     int32  // Template F: first (taken) branch offset in words.
	N2     int32  // Template F: second (not-taken) branch offset in words.
}

const slotMask = 0x3FF // 10-bit slot index mask.

// Word reads a little-endian 32-bit word from the instruction buffer at a
// given byte offset.
func Word(buf []byte, byteOff uint32) uint32 {
	return uint32(buf[byteOff]) | uint32(buf[byteOff+1])<<8 |
		uint32(buf[byteOff+2])<<16 | uint32(buf[byteOff+3])<<24
}

// Long reads a little-endian 64-bit immediate from the instruction buffer.
func Long(buf []byte, byteOff uint32) uint64 {
	lo := uint64(Word(buf, byteOff))
	hi := uint64(Word(buf, byteOff+4))
	return lo | hi<<32
}

// Opcode extracts the low-8-bit opcode from W1.
func Opcode(w1 uint32) uint8 {
	return uint8(w1 & 0xff)
}

// DecodeA decodes template A: value = W1>>8, one operand, sign controlled
// by the caller (unsigned opcodes use UValue, signed opcodes use Value).
func DecodeA(buf []byte, pc0 uint32) Decoded {
	w1 := Word(buf, pc0)
	d := Decoded{PC0: pc0, Opcode: Opcode(w1)}
	d.UValue = uint64(w1 >> 8)
	d.Value = int64(int32(w1) >> 8)
	return d
}

// DecodeB decodes template B: x = (W1>>8)&0x3FF (10-bit slot), value =
// W1>>18 (14-bit immediate).
func DecodeB(buf []byte, pc0 uint32) Decoded {
	w1 := Word(buf, pc0)
	d := Decoded{PC0: pc0, Opcode: Opcode(w1)}
	d.X = (w1 >> 8) & slotMask
	d.UValue = uint64(w1 >> 18)
	d.Value = int64(int32(w1) >> 18)
	return d
}

// DecodeC decodes template C: two 10-bit slot indices plus a 32-bit
// immediate taken from the word following W1 (PC_INT()).
func DecodeC(buf []byte, pc0 uint32) Decoded {
	w1 := Word(buf, pc0)
	d := Decoded{PC0: pc0, Opcode: Opcode(w1)}
	d.X = (w1 >> 8) & slotMask
	d.Y = (w1 >> 22) & slotMask
	imm := Word(buf, pc0+4)
	d.UValue = uint64(imm)
	d.Value = int64(int32(imm))
	return d
}

// DecodeD decodes template D: one 10-bit slot index plus a 64-bit immediate
// taken from the two words following W1 (PC_LONG()).
func DecodeD(buf []byte, pc0 uint32) Decoded {
	w1 := Word(buf, pc0)
	d := Decoded{PC0: pc0, Opcode: Opcode(w1)}
	d.X = (w1 >> 22) & slotMask
	d.UValue = Long(buf, pc0+4)
	d.Value = int64(d.UValue)
	return d
}

// DecodeE decodes template E: W1+W2 concatenated into a 64-bit W12, three
// 10-bit slot indices, and a ~26-bit signed immediate.
func DecodeE(buf []byte, pc0 uint32) Decoded {
	w1 := Word(buf, pc0)
	w2 := Word(buf, pc0+4)
	w12 := uint64(w1) | uint64(w2)<<32
	d := Decoded{PC0: pc0, Opcode: Opcode(w1)}
	d.X = uint32((w12 >> 8) & slotMask)
	d.Y = uint32((w12 >> 18) & slotMask)
	d.Z = uint32((w12 >> 28) & slotMask)
	d.Value = int64(w12) >> 38
	d.UValue = w12 >> 38
	return d
}

// DecodeF decodes template F: W1+W2 concatenated into W12, two 10-bit slot
// indices, and two sign-extended 18-bit branch offsets (n1 from the low
// half, n2 from the upper half of W2).
func DecodeF(buf []byte, pc0 uint32) Decoded {
	w1 := Word(buf, pc0)
	w2 := Word(buf, pc0+4)
	w12 := uint64(w1) | uint64(w2)<<32
	d := Decoded{PC0: pc0, Opcode: Opcode(w1)}
	d.X = uint32((w12 >> 8) & slotMask)
	d.Y = uint32((w12 >> 18) & slotMask)
	n1 := int32(w12>>28) << 14 >> 14 // sign-extend 18 bits
	d.N1 = n1
	n2 := int32(w2>>14) << 14 >> 14
	d.N2 = n2
	return d
}

// BranchTarget computes the pre-decode-relative byte address for a branch
// offset measured in 32-bit instruction words (§P3: pc = B + 4k).
func BranchTarget(pc0 uint32, wordOffset int64) uint32 {
	return uint32(int64(pc0) + wordOffset*4)
}

// DispatchTable reads the inline target table following a DISPATCH or
// DISPATCH_METHOD opcode: a 32-bit count n followed by n word-offset
// targets, each relative to pc0. tableStart is the byte offset immediately
// after the opcode's own fixed fields.
func DispatchTable(buf []byte, pc0, tableStart uint32) []uint32 {
	n := Word(buf, tableStart)
	targets := make([]uint32, n)
	for i := uint32(0); i < n; i++ {
		off := int32(Word(buf, tableStart+4+4*i))
		targets[i] = BranchTarget(pc0, int64(off))
	}
	return targets
}
