/*
   regvm: byte-addressable memory regions.

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

// Package memory implements the flat byte-addressable regions the
// interpreter reads and writes directly: the heap (bump-allocated, spec
// §4.2.4), global memory, and data memory. Unlike the teacher's 32-bit-word
// S/370 memory, every region here is addressed at byte granularity because
// LOAD/STORE (§4.2.6) support 1, 4, and 8-byte widths and ALLOC writes
// unaligned object headers.
package memory

import "encoding/binary"

// Region is a flat, growable byte arena with no bounds checking — spec §7
// places correctness of addresses entirely on the compiled bytecode.
type Region struct {
	buf []byte
}

// NewRegion allocates a region of the given byte size.
func NewRegion(size uint64) *Region {
	return &Region{buf: make([]byte, size)}
}

// Len returns the current size of the region in bytes.
func (r *Region) Len() uint64 {
	return uint64(len(r.buf))
}

// Grow extends the region to at least newSize bytes, used by
// vm.State.SetHeapLimit when a collector (such as emu/trap's GrowCollector)
// raises the heap limit.
func (r *Region) Grow(newSize uint64) {
	if newSize <= uint64(len(r.buf)) {
		return
	}
	grown := make([]byte, newSize)
	copy(grown, r.buf)
	r.buf = grown
}

// Byte loads/stores an 8-bit value at addr.
func (r *Region) Byte(addr uint64) uint8 {
	return r.buf[addr]
}

func (r *Region) SetByte(addr uint64, v uint8) {
	r.buf[addr] = v
}

// Word32 loads/stores a little-endian 32-bit value at addr.
func (r *Region) Word32(addr uint64) uint32 {
	return binary.LittleEndian.Uint32(r.buf[addr : addr+4])
}

func (r *Region) SetWord32(addr uint64, v uint32) {
	binary.LittleEndian.PutUint32(r.buf[addr:addr+4], v)
}

// Word64 loads/stores a little-endian 64-bit value at addr.
func (r *Region) Word64(addr uint64) uint64 {
	return binary.LittleEndian.Uint64(r.buf[addr : addr+8])
}

func (r *Region) SetWord64(addr uint64, v uint64) {
	binary.LittleEndian.PutUint64(r.buf[addr:addr+8], v)
}

// Load reads a width-byte (1, 4, or 8) value at addr, zero-extended to
// uint64, for the LOAD family of opcodes (§4.2.6).
func (r *Region) Load(addr uint64, width int) uint64 {
	switch width {
	case 1:
		return uint64(r.Byte(addr))
	case 4:
		return uint64(r.Word32(addr))
	case 8:
		return r.Word64(addr)
	default:
		panic("memory: unsupported load width")
	}
}

// Store writes the low width bytes of v at addr, for the STORE family.
func (r *Region) Store(addr uint64, width int, v uint64) {
	switch width {
	case 1:
		r.SetByte(addr, uint8(v))
	case 4:
		r.SetWord32(addr, uint32(v))
	case 8:
		r.SetWord64(addr, v)
	default:
		panic("memory: unsupported store width")
	}
}

// Slice returns a direct view of n bytes starting at addr, used by
// vm.State.HeapBytes to hand heap contents to trap routines.
func (r *Region) Slice(addr, n uint64) []byte {
	return r.buf[addr : addr+n]
}
