/*
   regvm: reference trap implementations.

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

package trap

import (
	"fmt"
	"log/slog"
)

// GrowCollector is a reference Collector stand-in. The real collector
// (out of scope per spec §1 — only its calling contract is specified here)
// would walk every reachable reference via the register files and frame
// liveness maps and evacuate live objects into a fresh region; this one
// simply grows the heap limit to satisfy `requested`, which is enough to
// exercise the RESERVE -> GC -> resume protocol end to end without
// claiming to be a production collector.
type GrowCollector struct {
	GrowBy uint64 // Minimum extra bytes to add beyond what's requested, for headroom.
}

func (c GrowCollector) Collect(vms VMStateView, requested int64) int64 {
	top := vms.HeapTop()
	limit := vms.HeapLimit()
	need := uint64(requested)
	if limit-top < need {
		grow := c.GrowBy
		if grow == 0 {
			grow = 4096
		}
		vms.SetHeapLimit(top + need + grow)
	}
	slog.Debug("gc: grew heap", "top", top, "limit", vms.HeapLimit(), "requested", requested)
	return int64(vms.HeapLimit() - top)
}

// DirectTrampoline is a reference Trampoline that looks up a registered Go
// function by address and calls it directly with the shared argument/
// return buffers — the c_trampoline contract (spec §4.3), minus any real
// foreign-function marshalling (out of scope: FFI marshalling tables).
type DirectTrampoline struct {
	Routines map[uint64]func(argbuf, retbuf []uint64)
}

func NewDirectTrampoline() *DirectTrampoline {
	return &DirectTrampoline{Routines: make(map[uint64]func(argbuf, retbuf []uint64))}
}

// Register binds a faddr to a native routine, the moral equivalent of a
// loader populating extern_defn_addresses with linkable symbols.
func (t *DirectTrampoline) Register(faddr uint64, fn func(argbuf, retbuf []uint64)) {
	t.Routines[faddr] = fn
}

func (t *DirectTrampoline) Call(fptr uint64, argbuf, retbuf []uint64) {
	fn, ok := t.Routines[fptr]
	if !ok {
		slog.Error("c_trampoline: no routine registered", "faddr", fptr)
		return
	}
	fn(argbuf, retbuf)
}

// FormatLauncher is a reference ExternLauncher: `format` selects one of a
// small set of pre-registered marshalling stubs (spec's "format is an index
// selecting a pre-generated marshalling stub"), each responsible for moving
// user registers to/from the stub's native signature.
type FormatLauncher struct {
	Stubs map[int32]func(vms VMStateView, faddr uint64)
}

func NewFormatLauncher() *FormatLauncher {
	return &FormatLauncher{Stubs: make(map[int32]func(vms VMStateView, faddr uint64))}
}

func (l *FormatLauncher) Launch(vms VMStateView, format int32, faddr uint64) {
	stub, ok := l.Stubs[format]
	if !ok {
		slog.Error("call_c_launcher: no stub registered", "format", format)
		return
	}
	stub(vms, faddr)
}

// TableBrancher is a reference DispatchBrancher driven by a caller-supplied
// function, letting tests and the loader install whatever class-id lookup
// the bytecode's dispatch tables expect without the real resolver spec §1
// keeps out of scope.
type TableBrancher struct {
	Fn func(vms VMStateView, format int32) int32
}

func (b TableBrancher) Branch(vms VMStateView, format int32) int32 {
	if b.Fn == nil {
		return 0
	}
	return b.Fn(vms, format)
}

// StaticClassNames is a reference ClassNamer backed by a simple id->name
// table, standing in for the loader-populated class table spec §1 keeps
// out of scope.
type StaticClassNames struct {
	Names map[uint64]string
}

func (c StaticClassNames) Name(vms VMStateView, id uint64) string {
	if n, ok := c.Names[id]; ok {
		return n
	}
	return fmt.Sprintf("<class#%d>", id)
}

// StderrTracer is a reference StackTracer that writes a minimal trace to
// the log, standing in for the stack-trace printer spec §1 keeps out of
// scope (its signature, not its body, is specified).
type StderrTracer struct{}

func (StderrTracer) Print(vms VMStateView, stackRef uint64) {
	slog.Error("stack trace requested", "stack_ref", stackRef)
}
