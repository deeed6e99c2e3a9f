/*
   regvm: VM execution state.

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

// Package vm implements the execution core: VM state (spec §3) and the
// interpreter loop (spec §4.2). This mirrors the role the teacher's
// emu/cpu package plays for the S/370 CPU state and fetch/execute loop,
// generalized from a fixed architectural register set to the spec's
// tagged-slot register files and code/const/global/data tables.
package vm

import (
	"fmt"

	"github.com/cormacvm/regvm/emu/memory"
	"github.com/cormacvm/regvm/emu/stack"
	"github.com/cormacvm/regvm/emu/trap"
)

// NumRegisters is the size of each register file (user and system). The
// spec leaves the count unspecified beyond "a flat array"; this follows
// the teacher's 16-general-register convention doubled for headroom, since
// CALLC and FNENTRY argument marshalling here use more slots than S/370's
// instruction formats ever addressed directly.
const NumRegisters = 32

// NamedStack pairs a stack with the id the bytecode used to refer to it
// when entering/yielding, standing in for the loader/GC-provided stack
// registry that resolves a tagged current_stack reference back to a *Stack
// (out of scope per spec §1; only the resolution contract is needed here).
//
// Frames records this stack's own call chain as (base, local-count) pairs,
// Go-side bookkeeping that substitutes for the missing in-frame size field
// (spec §9 design note) — it travels with the stack across ENTER_STACK/
// YIELD/system-stack swaps since each stack has an independent chain.
type NamedStack struct {
	ID     uint64
	Stack  *stack.Stack
	Frames []FrameMeta
}

// FrameMeta is the Go-side shadow of one pushed StackFrame: where it starts
// and how many locals the compiler declared for it, recovered by CALL and
// consumed by RETURN/POP_FRAME since the wire format stores neither.
type FrameMeta struct {
	Base uint32
	N    uint32
}

// State is the VM state record of spec §3: immutable loader-provided
// tables plus the mutable execution pointers the interpreter advances
// every instruction.
type State struct {
	// Loader-provided tables (spec §6 bytecode file contents).
	Instructions []byte            // 4-byte-aligned instruction buffer.
	CodeOffsets  []uint32          // function id -> word offset.
	ConstTable   []uint64          // constant pool.
	GlobalOffsets []uint32         // local-register index -> byte offset into GlobalMem.
	GlobalMem    *memory.Region
	DataOffsets  []uint32          // index -> slot offset into DataMem (spec §4.2.1: data_mem + 8*data_offsets[i]).
	DataMem      *memory.Region
	ExternTable  []uint64          // extern-table entries (SET_EXTERN source).
	ExternDefnAddresses []uint64   // extern-defn addresses (SET_EXTERN_DEFN source).
	ExtendHeapID  uint64           // function id of the extend-heap routine.
	ExtendStackID uint64           // function id of the extend-stack routine.

	// Heap (spec §4.2.4).
	HeapBase  uint64
	HeapTopV  uint64
	HeapLimitV uint64
	Heap      *memory.Region

	// Free (from-space) region, maintained by the collector (spec §3).
	FreeBaseV  uint64
	FreeLimitV uint64

	// Stacks.
	Stacks        []*NamedStack // every stack known to the VM, resolved by tagged reference.
	CurrentStack  uint64        // tagged reference (I1: low bit set) naming the active entry in Stacks.
	SavedSystemStack uint64     // tagged reference to the system stack.

	// Register files, swapped atomically on system-stack transitions
	// (spec §5).
	UserRegs []uint64
	SysRegs  []uint64
	OnSystem bool // true when UserRegs/SysRegs are currently swapped (executing on the system stack).

	// active is the NamedStack backing CurrentStack, cached so the
	// interpreter doesn't re-scan Stacks every instruction; reassigned by
	// AddStack (first stack), SetCurrentStack and every stack switch.
	active *NamedStack

	// ClassNames records resolved names from CLASS_NAME/retrieve_class_name
	// lookups (spec §4.2.9), indexed by handle, since a Go string cannot be
	// boxed into a 64-bit slot the way a native `*const u8` can.
	ClassNames []string

	// Trap interface implementations (spec §4.3).
	Collector  trap.Collector
	Trampoline trap.Trampoline
	Launcher   trap.ExternLauncher
	Brancher   trap.DispatchBrancher
	Namer      trap.ClassNamer
	Tracer     trap.StackTracer

	// Flushed captures the last FLUSH_VM result — a stand-in for the raw
	// VMState pointer bytecode is allowed to squirrel away in a slot
	// (spec §4.2.9 FLUSH_VM); Go has no address-of-struct-as-integer, so
	// this is an opaque handle the interpreter alone interprets.
	Flushed uint64
}

// NewState constructs an empty VM state over already-sized heap/global/data
// regions; the loader (emu/loader) is responsible for populating the
// slices and tables below from a bytecode image.
func NewState(heapSize, globalSize, dataSize uint64) *State {
	return &State{
		GlobalMem: memory.NewRegion(globalSize),
		DataMem:   memory.NewRegion(dataSize),
		Heap:      memory.NewRegion(heapSize),
		HeapLimitV: heapSize,
		UserRegs:  make([]uint64, NumRegisters),
		SysRegs:   make([]uint64, NumRegisters),
	}
}

// AddStack registers a stack under a tagged reference so ENTER_STACK/YIELD
// can resolve it later; ref must carry the reference tag (invariant I1).
func (s *State) AddStack(ref uint64, st *stack.Stack) {
	s.Stacks = append(s.Stacks, &NamedStack{ID: ref, Stack: st})
	if s.active == nil {
		s.active = s.Stacks[len(s.Stacks)-1]
	}
}

// SetCurrentStack points current_stack at an already-registered stack and
// makes it the active chain (used by the loader to pick the boot stack).
func (s *State) SetCurrentStack(ref uint64) {
	s.CurrentStack = ref
	s.active = s.findNamed(ref)
}

// CurrentStackPtr resolves the tagged current_stack reference to its
// backing *stack.Stack via the Stacks registry.
func (s *State) CurrentStackPtr() *stack.Stack {
	return s.active.Stack
}

func (s *State) findNamed(ref uint64) *NamedStack {
	for _, ns := range s.Stacks {
		if ns.ID == ref {
			return ns
		}
	}
	panic(fmt.Sprintf("vm: unknown stack reference %#x", ref))
}

// PushFrame pushes a frame of n locals on the active stack with the given
// return_pc, recording (base, n) on that stack's own chain so GetLocal/
// SetLocal/RETURN/POP_FRAME can find it later.
func (s *State) PushFrame(n uint32, returnPC int64) {
	st := s.active.Stack
	base := st.SP
	st.PushFrame(n, returnPC)
	s.active.Frames = append(s.active.Frames, FrameMeta{Base: base, N: n})
}

// PopFrame pops the most recently pushed frame on the active stack and
// returns its metadata.
func (s *State) PopFrame() FrameMeta {
	chain := s.active.Frames
	fm := chain[len(chain)-1]
	s.active.Frames = chain[:len(chain)-1]
	s.active.Stack.PopFrame(fm.N)
	return fm
}

// TopFrameBase returns the base offset of the active stack's innermost
// frame, used to address GET_LOCAL/SET_LOCAL-family operands.
func (s *State) TopFrameBase() uint32 {
	chain := s.active.Frames
	return chain[len(chain)-1].Base
}

// Registers returns whichever register file is currently active — the
// user file unless a system-stack transition is in progress.
func (s *State) Registers() []uint64 {
	if s.OnSystem {
		return s.SysRegs
	}
	return s.UserRegs
}

// ActiveFrames returns the active stack's Go-side call chain, for console
// commands that display it (spec has no wire representation for this —
// see NamedStack's doc comment — so there is nothing to reconstruct from
// the stack bytes alone).
func (s *State) ActiveFrames() []FrameMeta {
	return s.active.Frames
}

// ActiveStackPointer returns the active stack's current SP, for console
// display.
func (s *State) ActiveStackPointer() uint32 {
	return s.active.Stack.SP
}

// SwapStacks exchanges the active/system register files and current/saved
// stack references, the atomic transition spec §5 requires around
// FNENTRY overflow and a RETURN through SYSTEM_RETURN_STUB.
func (s *State) SwapStacks() {
	s.CurrentStack, s.SavedSystemStack = s.SavedSystemStack, s.CurrentStack
	s.OnSystem = !s.OnSystem
	s.active = s.findNamed(s.CurrentStack)
}

// ResolveClassName resolves id through the configured ClassNamer (or a
// placeholder if none is wired), records the result, and returns its handle
// for storage in a slot (see ClassNames doc comment).
func (s *State) ResolveClassName(id uint64) uint64 {
	name := s.ClassName(id)
	s.ClassNames = append(s.ClassNames, name)
	return uint64(len(s.ClassNames) - 1)
}

// -- trap.VMStateView --

func (s *State) HeapTop() uint64        { return s.HeapTopV }
func (s *State) HeapLimit() uint64      { return s.HeapLimitV }
func (s *State) SetHeapTop(v uint64)    { s.HeapTopV = v }
func (s *State) SetHeapLimit(v uint64)  { s.HeapLimitV = v; s.Heap.Grow(v) }
func (s *State) FreeBase() uint64       { return s.FreeBaseV }
func (s *State) FreeLimit() uint64      { return s.FreeLimitV }
func (s *State) SetFreeBase(v uint64)   { s.FreeBaseV = v }
func (s *State) SetFreeLimit(v uint64)  { s.FreeLimitV = v }

func (s *State) HeapBytes(addr, n uint64) []byte {
	return s.Heap.Slice(addr, n)
}

func (s *State) UserRegisters() []uint64   { return s.UserRegs }
func (s *State) SystemRegisters() []uint64 { return s.SysRegs }

func (s *State) ClassName(id uint64) string {
	if s.Namer == nil {
		return fmt.Sprintf("<class#%d>", id)
	}
	return s.Namer.Name(s, id)
}
