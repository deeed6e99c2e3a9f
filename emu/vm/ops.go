/*
   regvm: typed arithmetic, comparison, and conversion opcode bodies.

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

package vm

import (
	"math"

	"github.com/cormacvm/regvm/emu/opcodemap"
	"github.com/cormacvm/regvm/emu/value"
)

// Raw (untagged) operand convention (spec §4.2.5): BYTE lives in the low 8
// bits, INT in the low 32 bits, LONG across the full 64 bits, FLOAT as an
// IEEE-754 single's bits in the low 32, DOUBLE across the full 64 bits as
// an IEEE-754 double's bits.

func asByte(v uint64) uint8     { return uint8(v) }
func asInt32(v uint64) int32    { return int32(uint32(v)) }
func asInt64(v uint64) int64    { return int64(v) }
func asFloat32(v uint64) float32 { return math.Float32frombits(uint32(v)) }
func asFloat64(v uint64) float64 { return math.Float64frombits(v) }

func rawBool(b bool) uint64 {
	if b {
		return 1
	}
	return 0
}

// evalIntOp implements the INT_* tagged small-integer family (spec
// §4.2.5), preserving the asymmetric shift rules of INT_MUL/INT_DIV and the
// upper-32-bits re-clamp of INT_SHR/INT_ASHR bit-for-bit.
func evalIntOp(op uint8, lhs, rhs uint64) uint64 {
	switch op {
	case opcodemap.OpIntAdd:
		return (lhs + rhs) &^ 0xffffffff
	case opcodemap.OpIntSub:
		return (lhs - rhs) &^ 0xffffffff
	case opcodemap.OpIntMul:
		return value.IntMul(lhs, rhs)
	case opcodemap.OpIntDiv:
		return value.IntDiv(lhs, rhs)
	case opcodemap.OpIntMod:
		l, r := int64(lhs)>>32, int64(rhs)>>32
		return uint64(l%r<<32) &^ 0xffffffff
	case opcodemap.OpIntAnd:
		return lhs & rhs
	case opcodemap.OpIntOr:
		return lhs | rhs
	case opcodemap.OpIntXor:
		return (lhs ^ rhs) &^ 0xffffffff
	case opcodemap.OpIntShl:
		return value.IntShl(lhs, value.IntShiftAmount(rhs))
	case opcodemap.OpIntShr:
		return value.IntShr(lhs, value.IntShiftAmount(rhs))
	case opcodemap.OpIntAshr:
		return value.IntAshr(lhs, value.IntShiftAmount(rhs))
	case opcodemap.OpIntEq:
		return value.BoolRef(rawBool(int64(lhs)>>32 == int64(rhs)>>32))
	case opcodemap.OpIntNe:
		return value.BoolRef(rawBool(int64(lhs)>>32 != int64(rhs)>>32))
	case opcodemap.OpIntLt:
		return value.BoolRef(rawBool(int64(lhs)>>32 < int64(rhs)>>32))
	case opcodemap.OpIntGe:
		return value.BoolRef(rawBool(int64(lhs)>>32 >= int64(rhs)>>32))
	default:
		panic("vm: evalIntOp: unhandled opcode")
	}
}

// evalTypedEq implements the width-specific EQ/NE family (spec §4.2.5),
// yielding a raw 0/1 byte (untagged, per the untyped-comparison rule).
func evalTypedEq(op uint8, lhs, rhs uint64) uint64 {
	switch op {
	case opcodemap.OpEqByte:
		return rawBool(asByte(lhs) == asByte(rhs))
	case opcodemap.OpNeByte:
		return rawBool(asByte(lhs) != asByte(rhs))
	case opcodemap.OpEqInt:
		return rawBool(asInt32(lhs) == asInt32(rhs))
	case opcodemap.OpNeInt:
		return rawBool(asInt32(lhs) != asInt32(rhs))
	case opcodemap.OpEqLong:
		return rawBool(lhs == rhs)
	case opcodemap.OpNeLong:
		return rawBool(lhs != rhs)
	case opcodemap.OpEqFloat:
		return rawBool(asFloat32(lhs) == asFloat32(rhs))
	case opcodemap.OpNeFloat:
		return rawBool(asFloat32(lhs) != asFloat32(rhs))
	case opcodemap.OpEqDouble:
		return rawBool(asFloat64(lhs) == asFloat64(rhs))
	case opcodemap.OpNeDouble:
		return rawBool(asFloat64(lhs) != asFloat64(rhs))
	case opcodemap.OpEqChar:
		return rawBool(asByte(lhs) == asByte(rhs))
	case opcodemap.OpNeChar:
		return rawBool(asByte(lhs) != asByte(rhs))
	case opcodemap.OpEqRef:
		return rawBool(lhs == rhs)
	case opcodemap.OpNeRef:
		return rawBool(lhs != rhs)
	default:
		panic("vm: evalTypedEq: unhandled opcode")
	}
}

// evalTypedBinary implements the per-width arithmetic/comparison families
// (spec §4.2.5 "Arithmetic is explicitly typed per operand width").
func evalTypedBinary(op uint8, lhs, rhs uint64) uint64 {
	switch op {
	case opcodemap.OpAddByte:
		return uint64(asByte(lhs) + asByte(rhs))
	case opcodemap.OpSubByte:
		return uint64(asByte(lhs) - asByte(rhs))
	case opcodemap.OpMulByte:
		return uint64(asByte(lhs) * asByte(rhs))
	case opcodemap.OpDivByte:
		return uint64(asByte(lhs) / asByte(rhs))
	case opcodemap.OpModByte:
		return uint64(asByte(lhs) % asByte(rhs))
	case opcodemap.OpAndByte:
		return uint64(asByte(lhs) & asByte(rhs))
	case opcodemap.OpOrByte:
		return uint64(asByte(lhs) | asByte(rhs))
	case opcodemap.OpXorByte:
		return uint64(asByte(lhs) ^ asByte(rhs))
	case opcodemap.OpLtByte:
		return rawBool(asByte(lhs) < asByte(rhs))
	case opcodemap.OpLeByte:
		return rawBool(asByte(lhs) <= asByte(rhs))
	case opcodemap.OpGtByte:
		return rawBool(asByte(lhs) > asByte(rhs))
	case opcodemap.OpGeByte:
		return rawBool(asByte(lhs) >= asByte(rhs))

	case opcodemap.OpAddInt:
		return uint64(uint32(asInt32(lhs) + asInt32(rhs)))
	case opcodemap.OpSubInt:
		return uint64(uint32(asInt32(lhs) - asInt32(rhs)))
	case opcodemap.OpMulInt:
		return uint64(uint32(asInt32(lhs) * asInt32(rhs)))
	case opcodemap.OpDivInt:
		return uint64(uint32(asInt32(lhs) / asInt32(rhs)))
	case opcodemap.OpModInt:
		return uint64(uint32(asInt32(lhs) % asInt32(rhs)))
	case opcodemap.OpAndInt:
		return uint64(uint32(lhs) & uint32(rhs))
	case opcodemap.OpOrInt:
		return uint64(uint32(lhs) | uint32(rhs))
	case opcodemap.OpXorInt:
		return uint64(uint32(lhs) ^ uint32(rhs))
	case opcodemap.OpShlInt:
		return uint64(uint32(asInt32(lhs) << uint(asInt32(rhs))))
	case opcodemap.OpShrInt:
		return uint64(uint32(lhs) >> uint(asInt32(rhs)))
	case opcodemap.OpAshrInt:
		return uint64(uint32(asInt32(lhs) >> uint(asInt32(rhs))))
	case opcodemap.OpLtInt:
		return rawBool(asInt32(lhs) < asInt32(rhs))
	case opcodemap.OpLeInt:
		return rawBool(asInt32(lhs) <= asInt32(rhs))
	case opcodemap.OpGtInt:
		return rawBool(asInt32(lhs) > asInt32(rhs))
	case opcodemap.OpGeInt:
		return rawBool(asInt32(lhs) >= asInt32(rhs))
	case opcodemap.OpAndNotInt:
		return uint64(uint32(lhs) &^ uint32(rhs))

	case opcodemap.OpAddLong:
		return uint64(asInt64(lhs) + asInt64(rhs))
	case opcodemap.OpSubLong:
		return uint64(asInt64(lhs) - asInt64(rhs))
	case opcodemap.OpMulLong:
		return uint64(asInt64(lhs) * asInt64(rhs))
	case opcodemap.OpDivLong:
		return uint64(asInt64(lhs) / asInt64(rhs))
	case opcodemap.OpModLong:
		return uint64(asInt64(lhs) % asInt64(rhs))
	case opcodemap.OpAndLong:
		return lhs & rhs
	case opcodemap.OpOrLong:
		return lhs | rhs
	case opcodemap.OpXorLong:
		return lhs ^ rhs
	case opcodemap.OpShlLong:
		return uint64(asInt64(lhs) << uint(asInt64(rhs)))
	case opcodemap.OpShrLong:
		return lhs >> uint(asInt64(rhs))
	case opcodemap.OpAshrLong:
		return uint64(asInt64(lhs) >> uint(asInt64(rhs)))
	case opcodemap.OpLtLong:
		return rawBool(asInt64(lhs) < asInt64(rhs))
	case opcodemap.OpLeLong:
		return rawBool(asInt64(lhs) <= asInt64(rhs))
	case opcodemap.OpGtLong:
		return rawBool(asInt64(lhs) > asInt64(rhs))
	case opcodemap.OpGeLong:
		return rawBool(asInt64(lhs) >= asInt64(rhs))
	case opcodemap.OpAndNotLong:
		return lhs &^ rhs

	case opcodemap.OpAddFloat:
		return uint64(math.Float32bits(asFloat32(lhs) + asFloat32(rhs)))
	case opcodemap.OpSubFloat:
		return uint64(math.Float32bits(asFloat32(lhs) - asFloat32(rhs)))
	case opcodemap.OpMulFloat:
		return uint64(math.Float32bits(asFloat32(lhs) * asFloat32(rhs)))
	case opcodemap.OpDivFloat:
		return uint64(math.Float32bits(asFloat32(lhs) / asFloat32(rhs)))
	case opcodemap.OpLtFloat:
		return rawBool(asFloat32(lhs) < asFloat32(rhs))
	case opcodemap.OpLeFloat:
		return rawBool(asFloat32(lhs) <= asFloat32(rhs))
	case opcodemap.OpGtFloat:
		return rawBool(asFloat32(lhs) > asFloat32(rhs))
	case opcodemap.OpGeFloat:
		return rawBool(asFloat32(lhs) >= asFloat32(rhs))

	case opcodemap.OpAddDouble:
		return math.Float64bits(asFloat64(lhs) + asFloat64(rhs))
	case opcodemap.OpSubDouble:
		return math.Float64bits(asFloat64(lhs) - asFloat64(rhs))
	case opcodemap.OpMulDouble:
		return math.Float64bits(asFloat64(lhs) * asFloat64(rhs))
	case opcodemap.OpDivDouble:
		return math.Float64bits(asFloat64(lhs) / asFloat64(rhs))
	case opcodemap.OpLtDouble:
		return rawBool(asFloat64(lhs) < asFloat64(rhs))
	case opcodemap.OpLeDouble:
		return rawBool(asFloat64(lhs) <= asFloat64(rhs))
	case opcodemap.OpGtDouble:
		return rawBool(asFloat64(lhs) > asFloat64(rhs))
	case opcodemap.OpGeDouble:
		return rawBool(asFloat64(lhs) >= asFloat64(rhs))

	default:
		panic("vm: evalTypedBinary: unhandled opcode")
	}
}

// evalTypedUnary implements NEG_*/NOT_* (spec §4.2.5 typed arithmetic
// family, unary members).
func evalTypedUnary(op uint8, v uint64) uint64 {
	switch op {
	case opcodemap.OpNegByte:
		return uint64(-asByte(v))
	case opcodemap.OpNegInt:
		return uint64(uint32(-asInt32(v)))
	case opcodemap.OpNegLong:
		return uint64(-asInt64(v))
	case opcodemap.OpNegFloat:
		return uint64(math.Float32bits(-asFloat32(v)))
	case opcodemap.OpNegDouble:
		return math.Float64bits(-asFloat64(v))
	case opcodemap.OpNotByte:
		return uint64(^asByte(v))
	case opcodemap.OpNotInt:
		return uint64(^uint32(v))
	case opcodemap.OpNotLong:
		return ^v
	default:
		panic("vm: evalTypedUnary: unhandled opcode")
	}
}

// evalConv implements the CONV_*_* cross-width conversions (spec §4.2.5)
// with C-style truncation/rounding.
func evalConv(op uint8, v uint64) uint64 {
	switch op {
	case opcodemap.OpConvByteInt:
		return uint64(uint32(int32(asByte(v))))
	case opcodemap.OpConvByteLong:
		return uint64(int64(asByte(v)))
	case opcodemap.OpConvByteFloat:
		return uint64(math.Float32bits(float32(asByte(v))))
	case opcodemap.OpConvByteDouble:
		return math.Float64bits(float64(asByte(v)))
	case opcodemap.OpConvIntByte:
		return uint64(uint8(asInt32(v)))
	case opcodemap.OpConvIntLong:
		return uint64(int64(asInt32(v)))
	case opcodemap.OpConvIntFloat:
		return uint64(math.Float32bits(float32(asInt32(v))))
	case opcodemap.OpConvIntDouble:
		return math.Float64bits(float64(asInt32(v)))
	case opcodemap.OpConvLongByte:
		return uint64(uint8(asInt64(v)))
	case opcodemap.OpConvLongInt:
		return uint64(uint32(asInt64(v)))
	case opcodemap.OpConvLongFloat:
		return uint64(math.Float32bits(float32(asInt64(v))))
	case opcodemap.OpConvLongDouble:
		return math.Float64bits(float64(asInt64(v)))
	case opcodemap.OpConvFloatInt:
		return uint64(uint32(int32(asFloat32(v))))
	case opcodemap.OpConvFloatLong:
		return uint64(int64(asFloat32(v)))
	case opcodemap.OpConvFloatDouble:
		return math.Float64bits(float64(asFloat32(v)))
	case opcodemap.OpConvDoubleInt:
		return uint64(uint32(int32(asFloat64(v))))
	case opcodemap.OpConvDoubleFloat:
		return uint64(math.Float32bits(float32(asFloat64(v))))
	default:
		panic("vm: evalConv: unhandled opcode")
	}
}

// evalTag implements TAG_BYTE/TAG_CHAR/TAG_INT/TAG_FLOAT (spec §4.2.5):
// pack a raw low-bits value into its upper-32-bit tagged form.
func evalTag(op uint8, v uint64) uint64 {
	switch op {
	case opcodemap.OpTagByte:
		return value.TagByteValue(asByte(v))
	case opcodemap.OpTagChar:
		return value.TagCharValue(asByte(v))
	case opcodemap.OpTagInt:
		return value.TagInt32(asInt32(v))
	case opcodemap.OpTagFloat:
		return value.TagFloatValue(uint32(v))
	default:
		panic("vm: evalTag: unhandled opcode")
	}
}

// evalTypedJump implements the typed JUMP_<rel>_<type> family (spec
// §4.2.7), returning whether the "taken" branch applies.
func evalTypedJump(op uint8, lhs, rhs uint64) bool {
	switch op {
	case opcodemap.OpJumpLtByte:
		return asByte(lhs) < asByte(rhs)
	case opcodemap.OpJumpLeByte:
		return asByte(lhs) <= asByte(rhs)
	case opcodemap.OpJumpGtByte:
		return asByte(lhs) > asByte(rhs)
	case opcodemap.OpJumpGeByte:
		return asByte(lhs) >= asByte(rhs)
	case opcodemap.OpJumpEqByte:
		return asByte(lhs) == asByte(rhs)
	case opcodemap.OpJumpNeByte:
		return asByte(lhs) != asByte(rhs)

	case opcodemap.OpJumpLtInt:
		return asInt32(lhs) < asInt32(rhs)
	case opcodemap.OpJumpLeInt:
		return asInt32(lhs) <= asInt32(rhs)
	case opcodemap.OpJumpGtInt:
		return asInt32(lhs) > asInt32(rhs)
	case opcodemap.OpJumpGeInt:
		return asInt32(lhs) >= asInt32(rhs)
	case opcodemap.OpJumpEqInt:
		return asInt32(lhs) == asInt32(rhs)
	case opcodemap.OpJumpNeInt:
		return asInt32(lhs) != asInt32(rhs)

	case opcodemap.OpJumpLtLong:
		return asInt64(lhs) < asInt64(rhs)
	case opcodemap.OpJumpLeLong:
		return asInt64(lhs) <= asInt64(rhs)
	case opcodemap.OpJumpGtLong:
		return asInt64(lhs) > asInt64(rhs)
	case opcodemap.OpJumpGeLong:
		return asInt64(lhs) >= asInt64(rhs)
	case opcodemap.OpJumpEqLong:
		return asInt64(lhs) == asInt64(rhs)
	case opcodemap.OpJumpNeLong:
		return asInt64(lhs) != asInt64(rhs)

	case opcodemap.OpJumpLtFloat:
		return asFloat32(lhs) < asFloat32(rhs)
	case opcodemap.OpJumpLeFloat:
		return asFloat32(lhs) <= asFloat32(rhs)
	case opcodemap.OpJumpGtFloat:
		return asFloat32(lhs) > asFloat32(rhs)
	case opcodemap.OpJumpGeFloat:
		return asFloat32(lhs) >= asFloat32(rhs)
	case opcodemap.OpJumpEqFloat:
		return asFloat32(lhs) == asFloat32(rhs)
	case opcodemap.OpJumpNeFloat:
		return asFloat32(lhs) != asFloat32(rhs)

	case opcodemap.OpJumpLtDouble:
		return asFloat64(lhs) < asFloat64(rhs)
	case opcodemap.OpJumpLeDouble:
		return asFloat64(lhs) <= asFloat64(rhs)
	case opcodemap.OpJumpGtDouble:
		return asFloat64(lhs) > asFloat64(rhs)
	case opcodemap.OpJumpGeDouble:
		return asFloat64(lhs) >= asFloat64(rhs)
	case opcodemap.OpJumpEqDouble:
		return asFloat64(lhs) == asFloat64(rhs)
	case opcodemap.OpJumpNeDouble:
		return asFloat64(lhs) != asFloat64(rhs)

	case opcodemap.OpJumpEqRef:
		return lhs == rhs
	case opcodemap.OpJumpNeRef:
		return lhs != rhs

	default:
		panic("vm: evalTypedJump: unhandled opcode")
	}
}
