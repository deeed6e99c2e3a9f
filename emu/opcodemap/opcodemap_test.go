/*
   regvm: opcode numbering tests.

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

package opcodemap

import "testing"

func TestNameKnownOpcodes(t *testing.T) {
	cases := map[uint8]string{
		OpSetLocal:   "SET_LOCAL",
		OpGoto:       "GOTO",
		OpIntAdd:     "INT_ADD",
		OpCallCode:   "CALL_CODE",
		OpDispatch:   "DISPATCH",
		OpJumpEqInt:  "JUMP_EQ_INT",
		OpSetWideImm: "SET_WIDE_IMM",
	}
	for op, want := range cases {
		if got := Name(op); got != want {
			t.Errorf("Name(%d) = %q, want %q", op, got, want)
		}
	}
}

func TestNameUnknownOpcode(t *testing.T) {
	if got := Name(255); got != "" {
		t.Errorf("Name(255) = %q, want empty string", got)
	}
}

func TestNoDuplicateOpcodeNumbers(t *testing.T) {
	seen := map[uint8]bool{}
	for op := range names {
		if seen[op] {
			t.Errorf("opcode %d appears more than once in names", op)
		}
		seen[op] = true
	}
}

func TestNameCoversEveryOpcodeConstant(t *testing.T) {
	// Every *opcode* constant this package declares must resolve through
	// Name() — a blind spot here is exactly the bug opcodemap.Name() exists
	// to prevent silently falling back to "?? opcode N" in the disassembler.
	opcodes := []uint8{
		OpSetLocal, OpSetUImm, OpSetSImm, OpSetCodeID, OpSetExtern, OpSetExternDef,
		OpSetGlobal, OpSetData, OpSetConst, OpSetWideImm,
		OpSetRegLocal, OpSetRegUImm, OpSetRegSImm, OpSetRegCodeID, OpSetRegExtern,
		OpSetRegExternDef, OpSetRegGlobal, OpSetRegData, OpSetRegConst, OpSetRegWideImm,
		OpGetReg, OpCallLocal, OpCallCode, OpCallClosure, OpTCallLocal, OpTCallCode, OpTCallClos,
		OpCallCLocal, OpCallCExtern, OpCallCExtDefn, OpPopFrame, OpLive, OpYield, OpReturn, OpDump,
		OpIntAdd, OpIntSub, OpIntMul, OpIntDiv, OpIntMod, OpIntAnd, OpIntOr, OpIntXor,
		OpIntShl, OpIntShr, OpIntAshr, OpIntEq, OpIntNe, OpIntLt, OpIntGe,
		OpEqByte, OpNeByte, OpEqInt, OpNeInt, OpEqLong, OpNeLong, OpEqFloat, OpNeFloat,
		OpEqDouble, OpNeDouble, OpEqChar, OpNeChar, OpEqRef, OpNeRef,
		OpAddByte, OpSubByte, OpMulByte, OpDivByte, OpModByte, OpAndByte, OpOrByte, OpXorByte,
		OpLtByte, OpLeByte, OpGtByte, OpGeByte,
		OpAddInt, OpSubInt, OpMulInt, OpDivInt, OpModInt, OpAndInt, OpOrInt, OpXorInt,
		OpShlInt, OpShrInt, OpAshrInt, OpLtInt, OpLeInt, OpGtInt, OpGeInt,
		OpAddLong, OpSubLong, OpMulLong, OpDivLong, OpModLong, OpAndLong, OpOrLong, OpXorLong,
		OpShlLong, OpShrLong, OpAshrLong, OpLtLong, OpLeLong, OpGtLong, OpGeLong,
		OpAddFloat, OpSubFloat, OpMulFloat, OpDivFloat, OpLtFloat, OpLeFloat, OpGtFloat, OpGeFloat,
		OpAddDouble, OpSubDouble, OpMulDouble, OpDivDouble, OpLtDouble, OpLeDouble, OpGtDouble, OpGeDouble,
		OpNegByte, OpNegInt, OpNegLong, OpNegFloat, OpNegDouble, OpNotByte, OpNotInt, OpNotLong,
		OpAndNotInt, OpAndNotLong, OpNot, OpNeg, OpDeref, OpTypeOf, OpGoto, OpJumpSet,
		OpConvByteInt, OpConvByteLong, OpConvByteFloat, OpConvByteDouble, OpConvIntByte,
		OpConvIntLong, OpConvIntFloat, OpConvIntDouble, OpConvLongByte, OpConvLongInt,
		OpConvLongFloat, OpConvLongDouble, OpConvFloatInt, OpConvFloatLong, OpConvFloatDouble,
		OpConvDoubleInt, OpConvDoubleFloat,
		OpTagByte, OpTagChar, OpTagInt, OpTagFloat, OpDetag,
		OpLoad1, OpLoad4, OpLoad8, OpStore1, OpStore4, OpStore8,
		OpLoadX1, OpLoadX4, OpLoadX8, OpStoreX1, OpStoreX4, OpStoreX8,
		OpReserveConst, OpReserveLocal, OpEnterStack, OpAllocConst, OpAllocLocal, OpGC,
		OpPrintStackTrace, OpFlushVM,
		OpJumpLtByte, OpJumpLeByte, OpJumpGtByte, OpJumpGeByte, OpJumpEqByte, OpJumpNeByte,
		OpJumpLtInt, OpJumpLeInt, OpJumpGtInt, OpJumpGeInt, OpJumpEqInt, OpJumpNeInt,
		OpJumpLtLong, OpJumpLeLong, OpJumpGtLong, OpJumpGeLong, OpJumpEqLong, OpJumpNeLong,
		OpJumpLtFloat, OpJumpLeFloat, OpJumpGtFloat, OpJumpGeFloat, OpJumpEqFloat, OpJumpNeFloat,
		OpJumpLtDouble, OpJumpLeDouble, OpJumpGtDouble, OpJumpGeDouble, OpJumpEqDouble, OpJumpNeDouble,
		OpJumpEqRef, OpJumpNeRef,
		OpDispatch, OpDispatchMethod, OpJumpReg, OpFnEntry, OpClassName,
	}
	for _, op := range opcodes {
		if Name(op) == "" {
			t.Errorf("opcode %d has no mnemonic in names", op)
		}
	}
}
