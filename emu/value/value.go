/*
   regvm: tagged-slot value representation.

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

// Package value defines the uniform 64-bit tagged slot used by every
// register and stack local in the interpreter: the low 3 bits select the
// variant (integer, reference, marker, byte, character, float). Integer,
// byte, character and float payloads live in the upper 32 bits; a marker
// keeps its value above the tag bits, and a reference is the header address
// with the low bit set.
package value

// Slot is one 64-bit register or stack local.
type Slot = uint64

// Tag occupies the low 3 bits of a tagged Slot.
const (
	TagInt    uint64 = 0 // Integer: value in upper 32 bits, low 32 zero.
	TagRef    uint64 = 1 // Heap reference: header address + 1, payload at header + 8.
	TagMarker uint64 = 2 // Marker: booleans and sentinel types.
	TagByte   uint64 = 3 // Byte: value in bits 32..39.
	TagChar   uint64 = 4 // Character: value in bits 32..39.
	TagFloat  uint64 = 5 // IEEE-754 single in upper 32 bits.

	tagMask  uint64 = 0x7
	valShift uint64 = 32
)

// False and True are the canonical marker-tagged booleans: BOOLREF(b) =
// (b << 3) | MARKER_TAG_BITS.
const (
	False uint64 = (0 << 3) | TagMarker
	True  uint64 = (1 << 3) | TagMarker
)

// Tag returns the low-3-bit tag of a tagged slot.
func Tag(s Slot) uint64 {
	return s & tagMask
}

// BoolRef forms the canonical tagged boolean from a raw 0/1 value.
func BoolRef(b uint64) Slot {
	return (b << 3) | TagMarker
}

// BoolValue extracts 0/1 from a marker-tagged boolean produced by BoolRef.
func BoolValue(s Slot) uint64 {
	return s >> 3
}

// TagInt32 packs a raw int32 into upper-32-bits integer-tagged form.
func TagInt32(v int32) Slot {
	return uint64(uint32(v)) << valShift
}

// DetagInt32 extracts the sign-extended int32 held in a tagged slot's upper
// 32 bits. Valid for TagInt, TagByte, TagChar, TagFloat alike — DETAG just
// shifts right by 32 regardless of which of those four tags produced it.
func DetagInt32(s Slot) int32 {
	return int32(uint32(s >> valShift))
}

// TagByteValue packs a byte into upper-32-bit byte-tagged form.
func TagByteValue(b uint8) Slot {
	return (uint64(b) << valShift) | TagByte
}

// TagCharValue packs a character code point's low byte into a char-tagged
// slot, matching the source's single-byte character representation.
func TagCharValue(c uint8) Slot {
	return (uint64(c) << valShift) | TagChar
}

// TagFloatValue packs an IEEE-754 single-precision bit pattern into a
// float-tagged slot.
func TagFloatValue(bits uint32) Slot {
	return (uint64(bits) << valShift) | TagFloat
}

// Detag strips the tag, returning the raw upper-32-bits payload shifted down
// — the general form of DETAG for any of the four upper-word tags.
func Detag(s Slot) uint32 {
	return uint32(s >> valShift)
}

// PtrToRef converts a bare heap pointer (address of the object header) into
// the tagged reference stored in a slot: ref = header + 1.
func PtrToRef(headerAddr uint64) Slot {
	return (headerAddr << 0) | TagRef
}

// RefToHeader strips the reference tag and low-bit offset, returning the
// address of the object's type-id header word: header = ref - 1.
func RefToHeader(ref Slot) uint64 {
	return ref &^ tagMask
}

// RefPayload returns the address of the first payload byte following an
// object's header: payload = header + 8.
func RefPayload(ref Slot) uint64 {
	return RefToHeader(ref) + 8
}

// IsReference reports whether a tagged slot carries the reference tag,
// used to validate invariant I1 (low bit of current_stack is the ref tag).
func IsReference(s Slot) bool {
	return Tag(s) == TagRef
}

// RoundUp8 rounds n up to the next multiple of 8, used throughout for
// object and local-slot sizing (ALLOC_LOCAL, RESERVE_LOCAL).
func RoundUp8(n uint64) uint64 {
	return (n + 7) &^ 7
}

// -- small-integer (INT_*) arithmetic helpers --
//
// Tagged small integers keep their value in the upper 32 bits and zero in
// the low 3 bits (tag 0). INT_MUL pre-shifts only the left operand right by
// 32 before multiplying; INT_DIV shifts the quotient left by 32 back into
// result position. This must be preserved bit-for-bit per spec.

// IntMul implements INT_MUL's asymmetric shift: the left operand is
// arithmetically shifted right by 32 before the multiply, the right operand
// supplies its raw tagged bit pattern.
func IntMul(left, right Slot) Slot {
	l := int64(left) >> 32
	return uint64(l*int64(right)) &^ 0xffffffff
}

// IntDiv implements INT_DIV: divide, then shift the quotient back into
// upper-32-bit tagged-integer position.
func IntDiv(left, right Slot) Slot {
	l := int64(left) >> 32
	r := int64(right) >> 32
	q := l / r
	return uint64(q<<32) &^ 0xffffffff
}

// IntShiftAmount extracts the shift count for INT_SHL/SHR/ASHR: shift by
// value >> 32 of the right-hand tagged slot.
func IntShiftAmount(s Slot) uint64 {
	return s >> 32
}

// IntShl implements INT_SHL: left operand value shifted left, clamped back
// into upper-32-bit form.
func IntShl(left Slot, amount uint64) Slot {
	return (left << amount) &^ 0xffffffff
}

// IntShr implements INT_SHR (logical): result re-clamped to "value in upper
// 32 bits" via (r >> 32) << 32.
func IntShr(left Slot, amount uint64) Slot {
	r := left >> amount
	return (r >> 32) << 32
}

// IntAshr implements INT_ASHR (arithmetic): same clamp as IntShr, using a
// signed shift.
func IntAshr(left Slot, amount uint64) Slot {
	r := uint64(int64(left) >> amount)
	return (r >> 32) << 32
}
