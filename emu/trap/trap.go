/*
   regvm: trap interface — the boundary between the interpreter loop and its
   external collaborators (collector, C trampoline, dispatch helpers).

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

// Package trap defines the external-collaborator contracts named in spec
// §4.3 (collector, C trampoline, dispatch helpers, class names, stack
// trace), and supplies reference implementations so the interpreter is
// runnable without a production GC or compiler attached. The interpreter
// only ever calls through these interfaces, handing over its live *vm.State
// as a VMStateView: heap, stack and register state already live in that
// struct, so there is no separate save/restore step around a call. This
// mirrors the exclusive-access split the teacher's sys_channel/device pair
// used between CPU and channel program.
package trap

// Collector is the garbage collector's calling contract (spec §4.3
// call_garbage_collector). It may move every heap object and must update
// the heap/free region bookkeeping the VM state exposes; roots are every
// register in both register files plus every frame reachable through each
// stack's liveness maps. Returns remaining heap bytes after collection.
type Collector interface {
	Collect(vms VMStateView, requested int64) int64
}

// Trampoline is the unmarshalled raw foreign call (spec §4.3
// c_trampoline): argbuf and retbuf are shared buffers of register-file
// words, used directly by CALLC_LOCAL and CALLC_EXTERN.
type Trampoline interface {
	Call(fptr uint64, argbuf, retbuf []uint64)
}

// ExternLauncher marshals the user register file per a pre-registered
// calling-convention format and calls faddr, writing results back to
// registers (spec §4.3 call_c_launcher, used by CALLC_EXTERN_DEFN).
type ExternLauncher interface {
	Launch(vms VMStateView, format int32, faddr uint64)
}

// DispatchBrancher selects a branch index for DISPATCH/TYPEOF, consulting
// whatever arguments the calling convention places in registers (spec §4.3
// dispatch_branch).
type DispatchBrancher interface {
	Branch(vms VMStateView, format int32) int32
}

// ClassNamer resolves a class id to a static name string (spec §4.3
// retrieve_class_name), backing the CLASS_NAME opcode.
type ClassNamer interface {
	Name(vms VMStateView, id uint64) string
}

// StackTracer formats and emits a trace for a given tagged stack reference
// (spec §4.3 call_print_stack_trace), backing PRINT_STACK_TRACE.
type StackTracer interface {
	Print(vms VMStateView, stackRef uint64)
}

// VMStateView is the minimal slice of *vm.State the trap implementations in
// this package need, expressed here to avoid an import cycle between
// emu/trap and emu/vm (the interpreter depends on emu/trap; emu/trap must
// not depend back on emu/vm's concrete State).
type VMStateView interface {
	HeapTop() uint64
	HeapLimit() uint64
	SetHeapTop(uint64)
	SetHeapLimit(uint64)
	FreeBase() uint64
	FreeLimit() uint64
	SetFreeBase(uint64)
	SetFreeLimit(uint64)
	HeapBytes(addr, n uint64) []byte
	UserRegisters() []uint64
	SystemRegisters() []uint64
	ClassName(id uint64) string
}
