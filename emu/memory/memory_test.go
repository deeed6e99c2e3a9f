/*
   regvm: byte-addressable memory region tests.

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

package memory

import "testing"

func TestByteLoadStore(t *testing.T) {
	r := NewRegion(16)
	r.SetByte(3, 0xab)
	if got := r.Byte(3); got != 0xab {
		t.Errorf("Byte(3) = %#x, want 0xab", got)
	}
}

func TestWord32LoadStore(t *testing.T) {
	r := NewRegion(16)
	r.SetWord32(4, 0xdeadbeef)
	if got := r.Word32(4); got != 0xdeadbeef {
		t.Errorf("Word32(4) = %#x, want 0xdeadbeef", got)
	}
}

func TestWord64LoadStore(t *testing.T) {
	r := NewRegion(16)
	r.SetWord64(0, 0x0102030405060708)
	if got := r.Word64(0); got != 0x0102030405060708 {
		t.Errorf("Word64(0) = %#x", got)
	}
}

func TestLoadStoreWidths(t *testing.T) {
	r := NewRegion(16)
	r.Store(0, 1, 0xff)
	if got := r.Load(0, 1); got != 0xff {
		t.Errorf("Load width 1 = %#x, want 0xff", got)
	}
	r.Store(4, 4, 0x12345678)
	if got := r.Load(4, 4); got != 0x12345678 {
		t.Errorf("Load width 4 = %#x, want 0x12345678", got)
	}
	r.Store(8, 8, 0xcafebabedeadbeef)
	if got := r.Load(8, 8); got != 0xcafebabedeadbeef {
		t.Errorf("Load width 8 = %#x", got)
	}
}

func TestLoadStoreUnsupportedWidthPanics(t *testing.T) {
	r := NewRegion(16)
	defer func() {
		if recover() == nil {
			t.Errorf("expected panic for unsupported width")
		}
	}()
	r.Load(0, 3)
}

func TestGrow(t *testing.T) {
	r := NewRegion(8)
	r.SetByte(4, 0x42)
	r.Grow(64)
	if r.Len() != 64 {
		t.Errorf("Len() = %d, want 64", r.Len())
	}
	if got := r.Byte(4); got != 0x42 {
		t.Errorf("Grow did not preserve existing bytes")
	}
	r.Grow(4) // shrink request is a no-op
	if r.Len() != 64 {
		t.Errorf("Grow shrank the region, Len() = %d", r.Len())
	}
}

func TestSlice(t *testing.T) {
	r := NewRegion(16)
	r.SetWord32(0, 0x11223344)
	s := r.Slice(0, 4)
	if len(s) != 4 {
		t.Errorf("Slice len = %d, want 4", len(s))
	}
	s[0] = 0xff
	if r.Byte(0) != 0xff {
		t.Errorf("Slice did not alias the underlying buffer")
	}
}
