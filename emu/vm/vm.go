/*
   regvm: the interpreter loop.

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

package vm

import (
	"fmt"
	"log/slog"
	"math"

	"github.com/cormacvm/regvm/emu/inst"
	"github.com/cormacvm/regvm/emu/memory"
	"github.com/cormacvm/regvm/emu/opcodemap"
	"github.com/cormacvm/regvm/emu/stack"
	"github.com/cormacvm/regvm/emu/value"
)

// Operand convention. The spec (§4.1) fixes six decode templates but leaves
// which opcode uses which operand for which purpose to the compiler; since
// that compiler is out of scope (spec §1), the convention below is this
// implementation's own, recorded here and in DESIGN.md rather than derived
// from a source file:
//
//   - SET_*/SET_REG_* (template B, wide forms template D): x = destination
//     local/register, value = source-specific index or immediate.
//   - CALL*/TCALL*/CALLC* (template C): x = function/faddr source local
//     (LOCAL/CLOSURE forms), y = num_locals or format, value = immediate
//     function id/faddr index (CODE/EXTERN forms).
//   - Binary typed ops, INT_*, typed EQ/NE (template E): x = dest, y = lhs,
//     z = rhs.
//   - Unary typed ops, CONV_*, TAG_*/DETAG (template C): x = dest, y = src.
//   - LOAD*/STORE* (template E): x = dest (LOAD) or base (STORE); y = base
//     (LOAD), source (STORE) or offset local (STOREX); z = offset local
//     (LOADX) or source (STOREX); value = constant offset.
//   - RESERVE_* (template E): x = success-branch word offset, y = num_locals
//     for the post-trap frame, z = local holding v (LOCAL form only),
//     value = constant size (CONST form only).
//   - ALLOC_* (template D): x = dest local, immediate = (type_id<<32)|size
//     (CONST) or (type_id<<32)|v-local-index (LOCAL).
//   - Typed jumps / JUMP_SET (template F): x, y = compared locals (JUMP_SET
//     uses only x), n1/n2 = taken/not-taken word offsets.
//   - JUMP_REG (template E): x = register index, y = target word offset,
//     value = arity immediate.
//   - DISPATCH/DISPATCH_METHOD (template B + inline table): value = format.
//   - Addresses handed out by SET_GLOBAL/SET_DATA are tagged with a region
//     selector in bits 60-61 (regionHeap/regionGlobal/regionData) so a
//     single "raw pointer" local can address any of the three regions, per
//     spec §4.2.6's assumption of one flat address space.

const (
	regionHeap uint64 = iota
	regionGlobal
	regionData
)

const regionShift = 60

func encodePtr(region, offset uint64) uint64 {
	return (region << regionShift) | offset
}

func decodePtr(ptr uint64) (region, offset uint64) {
	return ptr >> regionShift, ptr &^ (uint64(0x3) << regionShift)
}

func (s *State) regionAt(region uint64) *memory.Region {
	switch region {
	case regionGlobal:
		return s.GlobalMem
	case regionData:
		return s.DataMem
	default:
		return s.Heap
	}
}

// Run executes the interpreter loop (spec §4.2) starting from the active
// stack's saved pc until a frame with a negative, non-stub return_pc is
// returned from. It returns nil on a clean exit and an error on an unknown
// opcode (spec §7.1).
func Run(s *State) error {
	cur := s.CurrentStackPtr()
	pc := cur.PC

	for {
		pc0 := pc
		w1 := inst.Word(s.Instructions, pc0)
		op := inst.Opcode(w1)

		switch op {

		// -- SET_* / SET_REG_* / GET_REG --

		case opcodemap.OpSetLocal, opcodemap.OpSetUImm, opcodemap.OpSetSImm,
			opcodemap.OpSetCodeID, opcodemap.OpSetExtern, opcodemap.OpSetExternDef,
			opcodemap.OpSetGlobal, opcodemap.OpSetData, opcodemap.OpSetConst:
			d := inst.DecodeB(s.Instructions, pc0)
			v := s.resolveSetSource(op, d)
			s.setLocal(d.X, v)
			pc = pc0 + 4

		case opcodemap.OpSetWideImm:
			d := inst.DecodeD(s.Instructions, pc0)
			s.setLocal(d.X, d.UValue)
			pc = pc0 + 12

		case opcodemap.OpSetRegLocal, opcodemap.OpSetRegUImm, opcodemap.OpSetRegSImm,
			opcodemap.OpSetRegCodeID, opcodemap.OpSetRegExtern, opcodemap.OpSetRegExternDef,
			opcodemap.OpSetRegGlobal, opcodemap.OpSetRegData, opcodemap.OpSetRegConst:
			d := inst.DecodeB(s.Instructions, pc0)
			v := s.resolveSetSource(regOpToSetOp(op), d)
			s.Registers()[d.X] = v
			pc = pc0 + 4

		case opcodemap.OpSetRegWideImm:
			d := inst.DecodeD(s.Instructions, pc0)
			s.Registers()[d.X] = d.UValue
			pc = pc0 + 12

		case opcodemap.OpGetReg:
			d := inst.DecodeB(s.Instructions, pc0)
			s.setLocal(d.X, s.Registers()[d.UValue])
			pc = pc0 + 4

		// -- Calls --

		case opcodemap.OpCallLocal, opcodemap.OpCallCode, opcodemap.OpCallClosure:
			d := inst.DecodeC(s.Instructions, pc0)
			fnID := s.resolveFunctionID(op, d)
			target := s.CodeOffsets[fnID] * 4
			s.PushFrame(d.Y, int64(pc0+8))
			pc = target

		case opcodemap.OpTCallLocal, opcodemap.OpTCallCode, opcodemap.OpTCallClos:
			d := inst.DecodeC(s.Instructions, pc0)
			fnID := s.resolveFunctionID(tcallToCall(op), d)
			pc = s.CodeOffsets[fnID] * 4

		case opcodemap.OpCallCLocal, opcodemap.OpCallCExtern, opcodemap.OpCallCExtDefn:
			d := inst.DecodeC(s.Instructions, pc0)
			s.doCallC(op, d)
			pc = pc0 + 8

		case opcodemap.OpPopFrame:
			d := inst.DecodeA(s.Instructions, pc0)
			fm := s.PopFrame()
			if fm.N != uint32(d.UValue) {
				slog.Warn("POP_FRAME local count mismatch", "expected", d.UValue, "actual", fm.N)
			}
			pc = pc0 + 4

		case opcodemap.OpLive:
			d := inst.DecodeD(s.Instructions, pc0)
			s.CurrentStackPtr().SetLiveness(d.UValue)
			pc = pc0 + 12

		case opcodemap.OpYield:
			d := inst.DecodeB(s.Instructions, pc0)
			target := s.localRaw(d.X)
			pc = s.switchStack(pc0+4, target, false)

		case opcodemap.OpReturn:
			next, done := s.doReturn(pc0)
			if done {
				return nil
			}
			pc = next

		case opcodemap.OpDump:
			d := inst.DecodeB(s.Instructions, pc0)
			dumpSlot(s.localRaw(d.X), d.UValue)
			pc = pc0 + 4

		// -- INT_* tagged small-integer family --

		case opcodemap.OpIntAdd, opcodemap.OpIntSub, opcodemap.OpIntMul, opcodemap.OpIntDiv,
			opcodemap.OpIntMod, opcodemap.OpIntAnd, opcodemap.OpIntOr, opcodemap.OpIntXor,
			opcodemap.OpIntShl, opcodemap.OpIntShr, opcodemap.OpIntAshr,
			opcodemap.OpIntEq, opcodemap.OpIntNe, opcodemap.OpIntLt, opcodemap.OpIntGe:
			d := inst.DecodeE(s.Instructions, pc0)
			lhs, rhs := s.localRaw(d.Y), s.localRaw(d.Z)
			s.setLocal(d.X, evalIntOp(op, lhs, rhs))
			pc = pc0 + 8

		// -- Typed EQ/NE --

		case opcodemap.OpEqByte, opcodemap.OpNeByte, opcodemap.OpEqInt, opcodemap.OpNeInt,
			opcodemap.OpEqLong, opcodemap.OpNeLong, opcodemap.OpEqFloat, opcodemap.OpNeFloat,
			opcodemap.OpEqDouble, opcodemap.OpNeDouble, opcodemap.OpEqChar, opcodemap.OpNeChar,
			opcodemap.OpEqRef, opcodemap.OpNeRef:
			d := inst.DecodeE(s.Instructions, pc0)
			lhs, rhs := s.localRaw(d.Y), s.localRaw(d.Z)
			s.setLocal(d.X, evalTypedEq(op, lhs, rhs))
			pc = pc0 + 8

		// -- Typed binary arithmetic/comparison --

		case opcodemap.OpAddByte, opcodemap.OpSubByte, opcodemap.OpMulByte, opcodemap.OpDivByte,
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
			opcodemap.OpAndNotInt, opcodemap.OpAndNotLong:
			d := inst.DecodeE(s.Instructions, pc0)
			lhs, rhs := s.localRaw(d.Y), s.localRaw(d.Z)
			s.setLocal(d.X, evalTypedBinary(op, lhs, rhs))
			pc = pc0 + 8

		case opcodemap.OpNegByte, opcodemap.OpNegInt, opcodemap.OpNegLong, opcodemap.OpNegFloat,
			opcodemap.OpNegDouble, opcodemap.OpNotByte, opcodemap.OpNotInt, opcodemap.OpNotLong:
			d := inst.DecodeC(s.Instructions, pc0)
			s.setLocal(d.X, evalTypedUnary(op, s.localRaw(d.Y)))
			pc = pc0 + 8

		// -- Generic NOT/NEG/DEREF/TYPEOF --

		case opcodemap.OpNot:
			d := inst.DecodeC(s.Instructions, pc0)
			s.setLocal(d.X, ^s.localRaw(d.Y))
			pc = pc0 + 8

		case opcodemap.OpNeg:
			d := inst.DecodeC(s.Instructions, pc0)
			s.setLocal(d.X, uint64(-int64(s.localRaw(d.Y))))
			pc = pc0 + 8

		case opcodemap.OpDeref:
			d := inst.DecodeC(s.Instructions, pc0)
			ref := s.localRaw(d.Y)
			s.setLocal(d.X, s.Heap.Word64(value.RefPayload(ref)))
			pc = pc0 + 8

		case opcodemap.OpTypeOf:
			d := inst.DecodeC(s.Instructions, pc0)
			idx := s.branch(int32(d.Value))
			s.setLocal(d.X, uint64(idx))
			pc = pc0 + 8

		// -- GOTO / JUMP_SET --

		case opcodemap.OpGoto:
			d := inst.DecodeA(s.Instructions, pc0)
			pc = inst.BranchTarget(pc0, d.Value)

		case opcodemap.OpJumpSet:
			d := inst.DecodeF(s.Instructions, pc0)
			if s.localRaw(d.X) != 0 {
				pc = inst.BranchTarget(pc0, int64(d.N1))
			} else {
				pc = inst.BranchTarget(pc0, int64(d.N2))
			}

		// -- CONV_* / TAG_* / DETAG --

		case opcodemap.OpConvByteInt, opcodemap.OpConvByteLong, opcodemap.OpConvByteFloat,
			opcodemap.OpConvByteDouble, opcodemap.OpConvIntByte, opcodemap.OpConvIntLong,
			opcodemap.OpConvIntFloat, opcodemap.OpConvIntDouble, opcodemap.OpConvLongByte,
			opcodemap.OpConvLongInt, opcodemap.OpConvLongFloat, opcodemap.OpConvLongDouble,
			opcodemap.OpConvFloatInt, opcodemap.OpConvFloatLong, opcodemap.OpConvFloatDouble,
			opcodemap.OpConvDoubleInt, opcodemap.OpConvDoubleFloat:
			d := inst.DecodeC(s.Instructions, pc0)
			s.setLocal(d.X, evalConv(op, s.localRaw(d.Y)))
			pc = pc0 + 8

		case opcodemap.OpTagByte, opcodemap.OpTagChar, opcodemap.OpTagInt, opcodemap.OpTagFloat:
			d := inst.DecodeC(s.Instructions, pc0)
			s.setLocal(d.X, evalTag(op, s.localRaw(d.Y)))
			pc = pc0 + 8

		case opcodemap.OpDetag:
			d := inst.DecodeC(s.Instructions, pc0)
			s.setLocal(d.X, uint64(uint32(value.Detag(s.localRaw(d.Y)))))
			pc = pc0 + 8

		// -- LOAD/STORE --

		case opcodemap.OpLoad1, opcodemap.OpLoad4, opcodemap.OpLoad8:
			d := inst.DecodeE(s.Instructions, pc0)
			width := loadWidth(op)
			region, off := decodePtr(s.localRaw(d.Y))
			addr := off + uint64(d.Value)
			s.setLocal(d.X, s.regionAt(region).Load(addr, width))
			pc = pc0 + 8

		case opcodemap.OpStore1, opcodemap.OpStore4, opcodemap.OpStore8:
			d := inst.DecodeE(s.Instructions, pc0)
			width := storeWidth(op)
			region, off := decodePtr(s.localRaw(d.X))
			addr := off + uint64(d.Value)
			s.regionAt(region).Store(addr, width, s.localRaw(d.Y))
			pc = pc0 + 8

		case opcodemap.OpLoadX1, opcodemap.OpLoadX4, opcodemap.OpLoadX8:
			d := inst.DecodeE(s.Instructions, pc0)
			width := loadXWidth(op)
			region, off := decodePtr(s.localRaw(d.Y))
			addr := off + s.localRaw(d.Z)
			s.setLocal(d.X, s.regionAt(region).Load(addr, width))
			pc = pc0 + 8

		case opcodemap.OpStoreX1, opcodemap.OpStoreX4, opcodemap.OpStoreX8:
			d := inst.DecodeE(s.Instructions, pc0)
			width := storeXWidth(op)
			region, off := decodePtr(s.localRaw(d.X))
			addr := off + s.localRaw(d.Y)
			s.regionAt(region).Store(addr, width, s.localRaw(d.Z))
			pc = pc0 + 8

		// -- RESERVE/ENTER_STACK/ALLOC/GC --

		case opcodemap.OpReserveConst, opcodemap.OpReserveLocal:
			d := inst.DecodeE(s.Instructions, pc0)
			size := s.reserveSize(op, d)
			if s.HeapTopV+size <= s.HeapLimitV {
				pc = inst.BranchTarget(pc0, int64(d.X))
			} else {
				s.Registers()[0] = value.False
				s.Registers()[1] = 1
				s.Registers()[2] = size
				s.PushFrame(d.Y, int64(pc0+8))
				pc = s.CodeOffsets[s.ExtendHeapID] * 4
			}

		case opcodemap.OpEnterStack:
			d := inst.DecodeB(s.Instructions, pc0)
			target := s.localRaw(d.X)
			pc = s.switchStack(pc0+4, target, true)

		case opcodemap.OpAllocConst, opcodemap.OpAllocLocal:
			d := inst.DecodeD(s.Instructions, pc0)
			typeID := d.UValue >> 32
			size := s.allocSize(op, d.UValue&0xffffffff)
			header := s.HeapTopV
			s.Heap.SetWord64(header, typeID)
			s.setLocal(d.X, value.PtrToRef(header))
			s.HeapTopV += 8 + size
			pc = pc0 + 12

		case opcodemap.OpGC:
			d := inst.DecodeD(s.Instructions, pc0)
			remaining := uint64(0)
			if s.Collector != nil {
				remaining = uint64(s.Collector.Collect(s, int64(d.UValue)))
			}
			s.setLocal(d.X, remaining)
			pc = pc0 + 12

		// -- Introspection --

		case opcodemap.OpPrintStackTrace:
			d := inst.DecodeB(s.Instructions, pc0)
			if s.Tracer != nil {
				s.Tracer.Print(s, s.localRaw(d.X))
			}
			s.Registers()[d.UValue] = 0
			pc = pc0 + 4

		case opcodemap.OpFlushVM:
			d := inst.DecodeB(s.Instructions, pc0)
			s.Flushed++
			s.setLocal(d.X, s.Flushed)
			pc = pc0 + 4

		case opcodemap.OpClassName:
			d := inst.DecodeC(s.Instructions, pc0)
			id := s.localRaw(d.Y)
			s.setLocal(d.X, s.ResolveClassName(id))
			pc = pc0 + 8

		// -- Typed jumps --

		case opcodemap.OpJumpLtByte, opcodemap.OpJumpLeByte, opcodemap.OpJumpGtByte, opcodemap.OpJumpGeByte,
			opcodemap.OpJumpEqByte, opcodemap.OpJumpNeByte,
			opcodemap.OpJumpLtInt, opcodemap.OpJumpLeInt, opcodemap.OpJumpGtInt, opcodemap.OpJumpGeInt,
			opcodemap.OpJumpEqInt, opcodemap.OpJumpNeInt,
			opcodemap.OpJumpLtLong, opcodemap.OpJumpLeLong, opcodemap.OpJumpGtLong, opcodemap.OpJumpGeLong,
			opcodemap.OpJumpEqLong, opcodemap.OpJumpNeLong,
			opcodemap.OpJumpLtFloat, opcodemap.OpJumpLeFloat, opcodemap.OpJumpGtFloat, opcodemap.OpJumpGeFloat,
			opcodemap.OpJumpEqFloat, opcodemap.OpJumpNeFloat,
			opcodemap.OpJumpLtDouble, opcodemap.OpJumpLeDouble, opcodemap.OpJumpGtDouble, opcodemap.OpJumpGeDouble,
			opcodemap.OpJumpEqDouble, opcodemap.OpJumpNeDouble,
			opcodemap.OpJumpEqRef, opcodemap.OpJumpNeRef:
			d := inst.DecodeF(s.Instructions, pc0)
			lhs, rhs := s.localRaw(d.X), s.localRaw(d.Y)
			if evalTypedJump(op, lhs, rhs) {
				pc = inst.BranchTarget(pc0, int64(d.N1))
			} else {
				pc = inst.BranchTarget(pc0, int64(d.N2))
			}

		// -- DISPATCH / DISPATCH_METHOD / JUMP_REG / FNENTRY --

		case opcodemap.OpDispatch:
			d := inst.DecodeB(s.Instructions, pc0)
			tableStart := pc0 + 4
			targets := inst.DispatchTable(s.Instructions, pc0, tableStart)
			idx := s.branch(int32(d.Value))
			pc = targets[idx]

		case opcodemap.OpDispatchMethod:
			d := inst.DecodeB(s.Instructions, pc0)
			tableStart := pc0 + 4
			idx := s.branch(int32(d.Value))
			if idx < 2 {
				targets := inst.DispatchTable(s.Instructions, pc0, tableStart)
				pc = targets[idx]
			} else {
				fnID := uint32(idx) - 2
				pc = s.CodeOffsets[fnID] * 4
			}

		case opcodemap.OpJumpReg:
			d := inst.DecodeE(s.Instructions, pc0)
			if s.Registers()[d.X] == uint64(d.Value) {
				pc = inst.BranchTarget(pc0, int64(d.Y))
			} else {
				pc = pc0 + 8
			}

		case opcodemap.OpFnEntry:
			d := inst.DecodeA(s.Instructions, pc0)
			needed := uint32(d.UValue)*8 + 2*stack.FrameHeaderSize
			if s.CurrentStackPtr().HasRoom(needed) {
				pc = pc0 + 4
			} else {
				cur := s.CurrentStackPtr()
				cur.PC = pc0
				s.SwapStacks()
				s.Registers()[0] = value.False
				s.Registers()[1] = 1
				s.Registers()[2] = uint64(needed)
				s.PushFrame(0, stack.SystemReturnStub)
				pc = s.CodeOffsets[s.ExtendStackID] * 4
			}

		default:
			return fmt.Errorf("vm: unknown opcode %d at pc=%#x", op, pc0)
		}
	}
}

// resolveSetSource reads the source value for a SET_* (or the SET_REG_*
// equivalent passed through regOpToSetOp) decode, per the nine sources of
// spec §4.2.1.
func (s *State) resolveSetSource(op uint8, d inst.Decoded) uint64 {
	switch op {
	case opcodemap.OpSetLocal:
		return s.localRaw(uint32(d.UValue))
	case opcodemap.OpSetUImm:
		return d.UValue
	case opcodemap.OpSetSImm:
		return uint64(d.Value)
	case opcodemap.OpSetCodeID:
		return d.UValue
	case opcodemap.OpSetExtern:
		return s.ExternTable[d.UValue]
	case opcodemap.OpSetExternDef:
		return s.ExternDefnAddresses[d.UValue]
	case opcodemap.OpSetGlobal:
		return encodePtr(regionGlobal, uint64(s.GlobalOffsets[d.UValue]))
	case opcodemap.OpSetData:
		return encodePtr(regionData, 8*uint64(s.DataOffsets[d.UValue]))
	case opcodemap.OpSetConst:
		return s.ConstTable[d.UValue]
	default:
		panic("vm: resolveSetSource: not a SET opcode")
	}
}

// regOpToSetOp maps a SET_REG_* opcode back to its SET_* counterpart so
// resolveSetSource can be shared between the two families.
func regOpToSetOp(op uint8) uint8 {
	switch op {
	case opcodemap.OpSetRegLocal:
		return opcodemap.OpSetLocal
	case opcodemap.OpSetRegUImm:
		return opcodemap.OpSetUImm
	case opcodemap.OpSetRegSImm:
		return opcodemap.OpSetSImm
	case opcodemap.OpSetRegCodeID:
		return opcodemap.OpSetCodeID
	case opcodemap.OpSetRegExtern:
		return opcodemap.OpSetExtern
	case opcodemap.OpSetRegExternDef:
		return opcodemap.OpSetExternDef
	case opcodemap.OpSetRegGlobal:
		return opcodemap.OpSetGlobal
	case opcodemap.OpSetRegData:
		return opcodemap.OpSetData
	case opcodemap.OpSetRegConst:
		return opcodemap.OpSetConst
	default:
		panic("vm: regOpToSetOp: not a SET_REG opcode")
	}
}

// tcallToCall maps a TCALL_* opcode to its CALL_* counterpart so
// resolveFunctionID can be shared.
func tcallToCall(op uint8) uint8 {
	switch op {
	case opcodemap.OpTCallLocal:
		return opcodemap.OpCallLocal
	case opcodemap.OpTCallCode:
		return opcodemap.OpCallCode
	case opcodemap.OpTCallClos:
		return opcodemap.OpCallClosure
	default:
		panic("vm: tcallToCall: not a TCALL opcode")
	}
}

// resolveFunctionID finds the callee's function id per spec §4.2.2: a local
// slot for LOCAL/CLOSURE forms (dereferencing the Function object's first
// field for CLOSURE), or the decoded immediate for CODE.
func (s *State) resolveFunctionID(op uint8, d inst.Decoded) uint32 {
	switch op {
	case opcodemap.OpCallLocal:
		return uint32(s.localRaw(d.X))
	case opcodemap.OpCallCode:
		return uint32(d.Value)
	case opcodemap.OpCallClosure:
		ref := s.localRaw(d.X)
		return uint32(s.Heap.Word64(value.RefPayload(ref)))
	default:
		panic("vm: resolveFunctionID: not a CALL opcode")
	}
}

// doCallC executes the CALLC push/save/call/restore/pop protocol (spec
// §4.2.2): a frame is pushed purely so the collector sees a consistent
// frame chain if it runs during the foreign call, then immediately popped.
func (s *State) doCallC(op uint8, d inst.Decoded) {
	s.PushFrame(0, int64(0))
	switch op {
	case opcodemap.OpCallCLocal:
		faddr := s.localRaw(d.X)
		if s.Trampoline != nil {
			s.Trampoline.Call(faddr, s.Registers(), s.Registers())
		}
	case opcodemap.OpCallCExtern:
		faddr := s.ExternTable[d.Value]
		if s.Trampoline != nil {
			s.Trampoline.Call(faddr, s.Registers(), s.Registers())
		}
	case opcodemap.OpCallCExtDefn:
		faddr := s.ExternDefnAddresses[d.Value]
		if s.Launcher != nil {
			s.Launcher.Launch(s, int32(d.Y), faddr)
		}
	}
	s.PopFrame()
}

// doReturn implements spec §4.2.2 RETURN: examine the current frame's
// return_pc and either resume the caller, swap to the other stack via the
// SYSTEM_RETURN_STUB protocol, or exit the loop. It destroys the current
// frame as part of returning from it.
func (s *State) doReturn(pc0 uint32) (next uint32, exit bool) {
	rpc := s.CurrentStackPtr().ReturnPC()
	fm := s.PopFrame()
	_ = fm
	switch {
	case rpc == stack.SystemReturnStub:
		s.SwapStacks()
		resumed := s.CurrentStackPtr()
		return resumed.PC, false
	case rpc < 0:
		return 0, true
	default:
		return uint32(rpc), false
	}
}

// switchStack implements ENTER_STACK (cold=true) and YIELD (cold=false),
// spec §4.2.3: save the outgoing stack's resume point, then either jump to
// the incoming stack's entry function id (cold) or its own saved (sp, pc)
// (warm).
func (s *State) switchStack(savePC uint32, targetRef uint64, cold bool) uint32 {
	out := s.CurrentStackPtr()
	out.PC = savePC
	s.CurrentStack = targetRef
	s.active = s.findNamed(targetRef)
	in := s.active.Stack
	if cold {
		fnID := in.PC
		return s.CodeOffsets[fnID] * 4
	}
	return in.PC
}

// reserveSize computes the requested byte size for RESERVE_CONST/LOCAL
// (spec §4.2.4), rounded up to 8 bytes for the LOCAL form.
func (s *State) reserveSize(op uint8, d inst.Decoded) uint64 {
	if op == opcodemap.OpReserveConst {
		return d.UValue
	}
	v := s.localRaw(d.Z)
	return value.RoundUp8(8 + v)
}

// allocSize mirrors reserveSize for ALLOC_CONST/LOCAL, where the immediate
// packs either the literal size (CONST) or a local index holding v (LOCAL).
func (s *State) allocSize(op uint8, packed uint64) uint64 {
	if op == opcodemap.OpAllocConst {
		return packed
	}
	v := s.localRaw(uint32(packed))
	return value.RoundUp8(8 + v)
}

func (s *State) branch(format int32) int32 {
	if s.Brancher == nil {
		return 0
	}
	return s.Brancher.Branch(s, format)
}

func (s *State) localRaw(i uint32) uint64 {
	return s.CurrentStackPtr().GetLocal(s.TopFrameBase(), i)
}

func (s *State) setLocal(i uint32, v uint64) {
	s.CurrentStackPtr().SetLocal(s.TopFrameBase(), i, v)
}

func loadWidth(op uint8) int {
	switch op {
	case opcodemap.OpLoad1:
		return 1
	case opcodemap.OpLoad4:
		return 4
	default:
		return 8
	}
}

func storeWidth(op uint8) int {
	switch op {
	case opcodemap.OpStore1:
		return 1
	case opcodemap.OpStore4:
		return 4
	default:
		return 8
	}
}

func loadXWidth(op uint8) int {
	switch op {
	case opcodemap.OpLoadX1:
		return 1
	case opcodemap.OpLoadX4:
		return 4
	default:
		return 8
	}
}

func storeXWidth(op uint8) int {
	switch op {
	case opcodemap.OpStoreX1:
		return 1
	case opcodemap.OpStoreX4:
		return 4
	default:
		return 8
	}
}

func dumpSlot(raw uint64, kind uint64) {
	switch kind {
	case 0:
		fmt.Printf("byte: %d\n", uint8(raw))
	case 1:
		fmt.Printf("int: %d\n", int32(raw))
	case 2:
		fmt.Printf("long: %d\n", int64(raw))
	case 3:
		fmt.Printf("pointer: %#x\n", raw)
	case 4:
		fmt.Printf("float: %g\n", math.Float32frombits(uint32(raw)))
	case 5:
		fmt.Printf("double: %g\n", math.Float64frombits(raw))
	default:
		fmt.Printf("slot: %#x\n", raw)
	}
}
