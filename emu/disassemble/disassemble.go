/*
   regvm: instruction disassembler.

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

// Package disassembler formats one instruction at a time for the trace/debug
// console (spec §9 design note on a textual trace), mirroring the teacher's
// emu/disassemble package but keyed off the six generic decode templates
// (emu/inst) instead of a fixed S/370 opcode table.
package disassembler

import (
	"fmt"

	"github.com/cormacvm/regvm/emu/inst"
	"github.com/cormacvm/regvm/emu/opcodemap"
)

const (
	tmplA = iota
	tmplB
	tmplC
	tmplD
	tmplE
	tmplF
)

// templates assigns each opcode to the decode template vm.Run uses for it;
// this must track the switch in emu/vm/vm.go's Run loop and the convention
// documented there, since there is no compiler-emitted template tag to read
// back from the wire (spec §1 excludes the compiler).
var templates = map[uint8]int{}

func init() {
	for _, o := range []uint8{
		opcodemap.OpPopFrame, opcodemap.OpGoto, opcodemap.OpFnEntry,
	} {
		templates[o] = tmplA
	}

	for _, o := range []uint8{
		opcodemap.OpSetLocal, opcodemap.OpSetUImm, opcodemap.OpSetSImm,
		opcodemap.OpSetCodeID, opcodemap.OpSetExtern, opcodemap.OpSetExternDef,
		opcodemap.OpSetGlobal, opcodemap.OpSetData, opcodemap.OpSetConst,
		opcodemap.OpSetRegLocal, opcodemap.OpSetRegUImm, opcodemap.OpSetRegSImm,
		opcodemap.OpSetRegCodeID, opcodemap.OpSetRegExtern, opcodemap.OpSetRegExternDef,
		opcodemap.OpSetRegGlobal, opcodemap.OpSetRegData, opcodemap.OpSetRegConst,
		opcodemap.OpGetReg, opcodemap.OpYield, opcodemap.OpDump,
		opcodemap.OpEnterStack, opcodemap.OpPrintStackTrace, opcodemap.OpFlushVM,
		opcodemap.OpDispatch, opcodemap.OpDispatchMethod,
	} {
		templates[o] = tmplB
	}

	for _, o := range []uint8{
		opcodemap.OpCallLocal, opcodemap.OpCallCode, opcodemap.OpCallClosure,
		opcodemap.OpTCallLocal, opcodemap.OpTCallCode, opcodemap.OpTCallClos,
		opcodemap.OpCallCLocal, opcodemap.OpCallCExtern, opcodemap.OpCallCExtDefn,
		opcodemap.OpNegByte, opcodemap.OpNegInt, opcodemap.OpNegLong,
		opcodemap.OpNegFloat, opcodemap.OpNegDouble,
		opcodemap.OpNotByte, opcodemap.OpNotInt, opcodemap.OpNotLong,
		opcodemap.OpNot, opcodemap.OpNeg, opcodemap.OpDeref, opcodemap.OpTypeOf,
		opcodemap.OpConvByteInt, opcodemap.OpConvByteLong, opcodemap.OpConvByteFloat,
		opcodemap.OpConvByteDouble, opcodemap.OpConvIntByte, opcodemap.OpConvIntLong,
		opcodemap.OpConvIntFloat, opcodemap.OpConvIntDouble, opcodemap.OpConvLongByte,
		opcodemap.OpConvLongInt, opcodemap.OpConvLongFloat, opcodemap.OpConvLongDouble,
		opcodemap.OpConvFloatInt, opcodemap.OpConvFloatLong, opcodemap.OpConvFloatDouble,
		opcodemap.OpConvDoubleInt, opcodemap.OpConvDoubleFloat,
		opcodemap.OpTagByte, opcodemap.OpTagChar, opcodemap.OpTagInt, opcodemap.OpTagFloat,
		opcodemap.OpDetag, opcodemap.OpClassName,
	} {
		templates[o] = tmplC
	}

	for _, o := range []uint8{
		opcodemap.OpSetWideImm, opcodemap.OpSetRegWideImm, opcodemap.OpLive,
		opcodemap.OpAllocConst, opcodemap.OpAllocLocal, opcodemap.OpGC,
	} {
		templates[o] = tmplD
	}

	for _, o := range []uint8{
		opcodemap.OpIntAdd, opcodemap.OpIntSub, opcodemap.OpIntMul, opcodemap.OpIntDiv,
		opcodemap.OpIntMod, opcodemap.OpIntAnd, opcodemap.OpIntOr, opcodemap.OpIntXor,
		opcodemap.OpIntShl, opcodemap.OpIntShr, opcodemap.OpIntAshr,
		opcodemap.OpIntEq, opcodemap.OpIntNe, opcodemap.OpIntLt, opcodemap.OpIntGe,
		opcodemap.OpEqByte, opcodemap.OpNeByte, opcodemap.OpEqInt, opcodemap.OpNeInt,
		opcodemap.OpEqLong, opcodemap.OpNeLong, opcodemap.OpEqFloat, opcodemap.OpNeFloat,
		opcodemap.OpEqDouble, opcodemap.OpNeDouble, opcodemap.OpEqChar, opcodemap.OpNeChar,
		opcodemap.OpEqRef, opcodemap.OpNeRef,
		opcodemap.OpAddByte, opcodemap.OpSubByte, opcodemap.OpMulByte, opcodemap.OpDivByte,
		opcodemap.OpModByte, opcodemap.OpAndByte, opcodemap.OpOrByte, opcodemap.OpXorByte,
		opcodemap.OpLtByte, opcodemap.OpLeByte, opcodemap.OpGtByte, opcodemap.OpGeByte,
		opcodemap.OpAddInt, opcodemap.OpSubInt, opcodemap.OpMulInt, opcodemap.OpDivInt,
		opcodemap.OpModInt, opcodemap.OpAndInt, opcodemap.OpOrInt, opcodemap.OpXorInt,
		opcodemap.OpShlInt, opcodemap.OpShrInt, opcodemap.OpAshrInt,
		opcodemap.OpLtInt, opcodemap.OpLeInt, opcodemap.OpGtInt, opcodemap.OpGeInt,
		opcodemap.OpAddLong, opcodemap.OpSubLong, opcodemap.OpMulLong, opcodemap.OpDivLong,
		opcodemap.OpModLong, opcodemap.OpAndLong, opcodemap.OpOrLong, opcodemap.OpXorLong,
		opcodemap.OpShlLong, opcodemap.OpShrLong, opcodemap.OpAshrLong,
		opcodemap.OpLtLong, opcodemap.OpLeLong, opcodemap.OpGtLong, opcodemap.OpGeLong,
		opcodemap.OpAddFloat, opcodemap.OpSubFloat, opcodemap.OpMulFloat, opcodemap.OpDivFloat,
		opcodemap.OpLtFloat, opcodemap.OpLeFloat, opcodemap.OpGtFloat, opcodemap.OpGeFloat,
		opcodemap.OpAddDouble, opcodemap.OpSubDouble, opcodemap.OpMulDouble, opcodemap.OpDivDouble,
		opcodemap.OpLtDouble, opcodemap.OpLeDouble, opcodemap.OpGtDouble, opcodemap.OpGeDouble,
		opcodemap.OpAndNotInt, opcodemap.OpAndNotLong,
		opcodemap.OpLoad1, opcodemap.OpLoad4, opcodemap.OpLoad8,
		opcodemap.OpStore1, opcodemap.OpStore4, opcodemap.OpStore8,
		opcodemap.OpLoadX1, opcodemap.OpLoadX4, opcodemap.OpLoadX8,
		opcodemap.OpStoreX1, opcodemap.OpStoreX4, opcodemap.OpStoreX8,
		opcodemap.OpReserveConst, opcodemap.OpReserveLocal, opcodemap.OpJumpReg,
	} {
		templates[o] = tmplE
	}

	for _, o := range []uint8{
		opcodemap.OpJumpSet,
		opcodemap.OpJumpLtByte, opcodemap.OpJumpLeByte, opcodemap.OpJumpGtByte, opcodemap.OpJumpGeByte,
		opcodemap.OpJumpEqByte, opcodemap.OpJumpNeByte,
		opcodemap.OpJumpLtInt, opcodemap.OpJumpLeInt, opcodemap.OpJumpGtInt, opcodemap.OpJumpGeInt,
		opcodemap.OpJumpEqInt, opcodemap.OpJumpNeInt,
		opcodemap.OpJumpLtLong, opcodemap.OpJumpLeLong, opcodemap.OpJumpGtLong, opcodemap.OpJumpGeLong,
		opcodemap.OpJumpEqLong, opcodemap.OpJumpNeLong,
		opcodemap.OpJumpLtFloat, opcodemap.OpJumpLeFloat, opcodemap.OpJumpGtFloat, opcodemap.OpJumpGeFloat,
		opcodemap.OpJumpEqFloat, opcodemap.OpJumpNeFloat,
		opcodemap.OpJumpLtDouble, opcodemap.OpJumpLeDouble, opcodemap.OpJumpGtDouble, opcodemap.OpJumpGeDouble,
		opcodemap.OpJumpEqDouble, opcodemap.OpJumpNeDouble,
		opcodemap.OpJumpEqRef, opcodemap.OpJumpNeRef,
	} {
		templates[o] = tmplF
	}
}

// Disassemble formats the instruction at byte offset pc0 and returns its
// text plus its length in bytes, the teacher's (string, int) convention.
func Disassemble(buf []byte, pc0 uint32) (string, int) {
	w1 := inst.Word(buf, pc0)
	opc := inst.Opcode(w1)
	name := opcodemap.Name(opc)
	if name == "" {
		return undefined(opc)
	}

	tmpl, ok := templates[opc]
	if !ok {
		return name, 4
	}

	switch tmpl {
	case tmplA:
		d := inst.DecodeA(buf, pc0)
		return fmt.Sprintf("%-18s %d", name, d.Value), 4

	case tmplB:
		d := inst.DecodeB(buf, pc0)
		if opc == opcodemap.OpDispatch || opc == opcodemap.OpDispatchMethod {
			n := inst.Word(buf, pc0+4)
			return fmt.Sprintf("%-18s x%d, fmt=%d, [%d targets]", name, d.X, d.UValue, n),
				int(8 + 4*n)
		}
		return fmt.Sprintf("%-18s x%d, %d", name, d.X, d.UValue), 4

	case tmplC:
		d := inst.DecodeC(buf, pc0)
		return fmt.Sprintf("%-18s x%d, y%d, %d", name, d.X, d.Y, d.Value), 8

	case tmplD:
		d := inst.DecodeD(buf, pc0)
		return fmt.Sprintf("%-18s x%d, %#x", name, d.X, d.UValue), 12

	case tmplE:
		d := inst.DecodeE(buf, pc0)
		return fmt.Sprintf("%-18s x%d, y%d, z%d, %d", name, d.X, d.Y, d.Z, d.Value), 8

	case tmplF:
		d := inst.DecodeF(buf, pc0)
		return fmt.Sprintf("%-18s x%d, y%d, %+d/%+d", name, d.X, d.Y, d.N1, d.N2), 8

	default:
		return undefined(opc)
	}
}

func undefined(opc uint8) (string, int) {
	return fmt.Sprintf("?? opcode %d", opc), 4
}
