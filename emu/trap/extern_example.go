/*
   regvm: example extern routines for the C trampoline.

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
	"math"
)

// Faddr values a DirectTrampoline can be pre-populated with via
// RegisterStandardRoutines, standing in for whatever symbol table the
// loader's extern_defn_addresses would actually carry (spec §1: FFI
// marshalling tables are out of scope).
const (
	FaddrPrintInt    uint64 = 1
	FaddrPrintDouble uint64 = 2
	FaddrStrLen      uint64 = 3
)

// RegisterStandardRoutines wires a small set of example native routines
// into a DirectTrampoline, enough to exercise CALLC_LOCAL/CALLC_EXTERN end
// to end in tests and from the console without a real FFI layer: printing
// a raw 32-bit int (the low half of the argument word) or a double, and
// measuring a NUL-terminated heap string.
func RegisterStandardRoutines(tr *DirectTrampoline, heap VMStateView) {
	tr.Register(FaddrPrintInt, func(argbuf, retbuf []uint64) {
		fmt.Println(int32(argbuf[0]))
	})
	tr.Register(FaddrPrintDouble, func(argbuf, retbuf []uint64) {
		fmt.Println(math.Float64frombits(argbuf[0]))
	})
	tr.Register(FaddrStrLen, func(argbuf, retbuf []uint64) {
		addr := argbuf[0]
		var n uint64
		for {
			b := heap.HeapBytes(addr+n, 1)
			if b[0] == 0 {
				break
			}
			n++
		}
		retbuf[0] = n
	})
}
