/*
   regvm: segmented execution stacks and call frames.

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

// Package stack implements the downward-growing chain of call frames hosted
// in a byte arena, and the (stack_pointer, pc) pair a Stack persists across
// suspension (spec §3 Stack/Stack frame, §4.2.2-4.2.3).
package stack

import "encoding/binary"

// Sentinel return_pc values (spec §3 invariant I4).
const (
	SystemReturnStub int64 = -2 // RETURN through here swaps user/system stacks.
	ExitReturn       int64 = -1 // Any other negative value: exit the loop.
)

// FrameHeaderSize is sizeof(StackFrame) == return_pc (8) + liveness_map (8).
const FrameHeaderSize = 16

// Stack is a contiguous byte arena hosting frames, plus the saved resume
// state a suspended stack needs.
//
// Frames are created only by CALL-family opcodes and destroyed only by
// POP_FRAME (spec §3 Lifecycle). The PC field is overloaded: on cold entry
// via ENTER_STACK it names a function id; on warm resume via YIELD it holds
// a byte offset into Instructions. The two call sites that interpret it
// (ENTER_STACK vs YIELD in emu/vm) are the only place this overload leaks.
type Stack struct {
	Frames []byte // Backing arena, size bytes.
	SP     uint32 // Current stack pointer: byte offset into Frames of the active frame's header.
	PC     uint32 // Saved resume point — function id (cold) or byte offset (warm). See type doc.

	bases []uint32 // Base offset of every pushed frame, innermost last (Go-side only, not in the arena).
}

// New allocates a stack arena of the given byte size, with SP positioned at
// the base (no frames pushed yet).
func New(size uint32) *Stack {
	return &Stack{Frames: make([]byte, size), SP: 0}
}

// Size returns the total byte size of the arena.
func (s *Stack) Size() uint32 {
	return uint32(len(s.Frames))
}

// HasRoom reports whether `need` additional bytes fit before the arena end
// (invariant I2: stack_pointer always within [frames, frames+size)).
func (s *Stack) HasRoom(need uint32) bool {
	return uint64(s.SP)+uint64(need) <= uint64(len(s.Frames))
}

// PushFrame advances SP by sizeof(StackFrame) + 8*n bytes and stores
// return_pc at the new top (spec §4.2.2 frame arithmetic). n is the local
// count the caller of PUSH_FRAME encodes; correctness depends on the
// compiler emitting matched PUSH/POP pairs (no size field is stored).
func (s *Stack) PushFrame(n uint32, returnPC int64) {
	base := s.SP
	s.SP += FrameHeaderSize + 8*n
	binary.LittleEndian.PutUint64(s.Frames[base:base+8], uint64(returnPC))
	binary.LittleEndian.PutUint64(s.Frames[base+8:base+16], 0)
	s.bases = append(s.bases, base)
}

// PopFrame subtracts sizeof(StackFrame) + 8*n bytes, mirroring PushFrame.
// The caller (POP_FRAME opcode) carries the same n the matching PUSH used.
func (s *Stack) PopFrame(n uint32) {
	s.SP -= FrameHeaderSize + 8*n
	s.bases = s.bases[:len(s.bases)-1]
}

// topBase returns the base offset (header position) of the top frame.
func (s *Stack) topBase() uint32 {
	return s.bases[len(s.bases)-1]
}

// ReturnPC reads the return_pc field of the current top frame.
func (s *Stack) ReturnPC() int64 {
	base := s.topBase()
	return int64(binary.LittleEndian.Uint64(s.Frames[base : base+8]))
}

// SetReturnPC overwrites the return_pc field of the current top frame.
func (s *Stack) SetReturnPC(pc int64) {
	base := s.topBase()
	binary.LittleEndian.PutUint64(s.Frames[base:base+8], uint64(pc))
}

// SetLiveness writes the liveness bitmap of the current top frame (LIVE
// opcode, spec §4.2.9, consulted by the collector via frame liveness maps).
func (s *Stack) SetLiveness(bits uint64) {
	base := s.topBase()
	binary.LittleEndian.PutUint64(s.Frames[base+8:base+16], bits)
}

// Liveness reads the liveness bitmap of the current top frame.
func (s *Stack) Liveness() uint64 {
	base := s.topBase()
	return binary.LittleEndian.Uint64(s.Frames[base+8 : base+16])
}

// GetLocal reads local slot i (0-indexed, counted from the frame base,
// i.e. immediately after the header) of the current top frame. frameBase
// is the byte offset where this frame's locals begin (base of the frame,
// i.e. SP before this frame's header+locals were pushed, passed explicitly
// by the interpreter which tracks frame bases on its own call stack since
// StackFrame stores no size field).
func (s *Stack) GetLocal(frameBase uint32, i uint32) uint64 {
	off := frameBase + FrameHeaderSize + 8*i
	return binary.LittleEndian.Uint64(s.Frames[off : off+8])
}

// SetLocal writes local slot i of the frame based at frameBase.
func (s *Stack) SetLocal(frameBase uint32, i uint32, v uint64) {
	off := frameBase + FrameHeaderSize + 8*i
	binary.LittleEndian.PutUint64(s.Frames[off:off+8], v)
}
