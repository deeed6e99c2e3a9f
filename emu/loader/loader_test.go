/*
   regvm: bytecode image loader tests.

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

package loader

import (
	"bytes"
	"encoding/binary"
	"testing"
)

// buildImage writes one image with a single 2-function instructions buffer
// (8 bytes of padding instructions, not executed by this test) and small
// tables in every section, exercising every field Read/Boot must wire.
func buildImage(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	w := func(v any) {
		if err := binary.Write(&buf, binary.LittleEndian, v); err != nil {
			t.Fatalf("buildImage: %v", err)
		}
	}

	instructions := []byte{0, 0, 0, 0, 1, 0, 0, 0} // two 4-byte words, opcode irrelevant here
	w(uint64(len(instructions)))
	buf.Write(instructions)

	codeOffsets := []uint32{0, 2}
	w(uint64(len(codeOffsets)))
	for _, v := range codeOffsets {
		w(v)
	}

	constTable := []uint64{42, 7}
	w(uint64(len(constTable)))
	for _, v := range constTable {
		w(v)
	}

	w(uint64(4096)) // global mem size
	globalOffsets := []uint32{0, 8}
	w(uint64(len(globalOffsets)))
	for _, v := range globalOffsets {
		w(v)
	}

	w(uint64(2048)) // data mem size
	dataOffsets := []uint32{0, 1}
	w(uint64(len(dataOffsets)))
	for _, v := range dataOffsets {
		w(v)
	}

	externTable := []uint64{0xdead}
	w(uint64(len(externTable)))
	for _, v := range externTable {
		w(v)
	}

	externDefn := []uint64{0xbeef}
	w(uint64(len(externDefn)))
	for _, v := range externDefn {
		w(v)
	}

	w(uint64(1)) // extend_heap_id
	w(uint64(1)) // extend_stack_id
	w(uint64(1 << 20))
	w(uint64(1)) // entry func id
	w(uint64(4096))

	return buf.Bytes()
}

func TestReadImage(t *testing.T) {
	img, err := Read(bytes.NewReader(buildImage(t)))
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if len(img.Instructions) != 8 {
		t.Errorf("Instructions len = %d, want 8", len(img.Instructions))
	}
	if len(img.CodeOffsets) != 2 || img.CodeOffsets[1] != 2 {
		t.Errorf("CodeOffsets = %v", img.CodeOffsets)
	}
	if len(img.ConstTable) != 2 || img.ConstTable[0] != 42 {
		t.Errorf("ConstTable = %v", img.ConstTable)
	}
	if img.GlobalMemSize != 4096 || img.DataMemSize != 2048 {
		t.Errorf("region sizes = %d/%d", img.GlobalMemSize, img.DataMemSize)
	}
	if img.ExternTable[0] != 0xdead || img.ExternDefnAddresses[0] != 0xbeef {
		t.Errorf("extern tables = %v / %v", img.ExternTable, img.ExternDefnAddresses)
	}
	if img.ExtendHeapID != 1 || img.ExtendStackID != 1 {
		t.Errorf("extend ids = %d/%d", img.ExtendHeapID, img.ExtendStackID)
	}
	if img.EntryFuncID != 1 || img.EntryStackSize != 4096 {
		t.Errorf("entry = %d/%d", img.EntryFuncID, img.EntryStackSize)
	}
}

func TestReadImageTruncated(t *testing.T) {
	full := buildImage(t)
	if _, err := Read(bytes.NewReader(full[:10])); err == nil {
		t.Error("expected error decoding a truncated image")
	}
}

func TestReadImageMisalignedInstructions(t *testing.T) {
	var buf bytes.Buffer
	binary.Write(&buf, binary.LittleEndian, uint64(3))
	buf.Write([]byte{0, 0, 0})
	if _, err := Read(&buf); err == nil {
		t.Error("expected error on non-4-byte-aligned instructions buffer")
	}
}

func TestBoot(t *testing.T) {
	img, err := Read(bytes.NewReader(buildImage(t)))
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	s := Boot(img)

	if len(s.Instructions) != 8 {
		t.Errorf("State.Instructions not wired")
	}
	if s.ExtendHeapID != 1 || s.ExtendStackID != 1 {
		t.Errorf("extend ids not wired")
	}
	if s.HeapLimitV != 1<<20 {
		t.Errorf("HeapLimitV = %d, want %d", s.HeapLimitV, 1<<20)
	}

	wantPC := img.CodeOffsets[img.EntryFuncID] * 4
	if s.CurrentStackPtr().PC != wantPC {
		t.Errorf("boot stack PC = %d, want %d (entry function byte offset)", s.CurrentStackPtr().PC, wantPC)
	}
}
