/*
   regvm: opcode numbering.

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

// Package opcodemap holds the numeric opcode constants for the interpreter.
// Numbering is part of the bytecode ABI and must stay stable (spec §6.1).
package opcodemap

const (
	// SET_* — data movement into a local from nine sources (0-8, 21).
	OpSetLocal     = 0
	OpSetUImm      = 1
	OpSetSImm      = 2
	OpSetCodeID    = 3
	OpSetExtern    = 4
	OpSetExternDef = 5
	OpSetGlobal    = 6
	OpSetData      = 7
	OpSetConst     = 8
	OpSetWideImm   = 21

	// SET_REG_* — same nine sources, targeting a register (9-17, 25).
	OpSetRegLocal     = 9
	OpSetRegUImm      = 10
	OpSetRegSImm      = 11
	OpSetRegCodeID    = 12
	OpSetRegExtern    = 13
	OpSetRegExternDef = 14
	OpSetRegGlobal    = 15
	OpSetRegData      = 16
	OpSetRegConst     = 17
	OpSetRegWideImm   = 25

	OpGetReg = 18 // GET_REG: local <- register

	// CALL_* / TCALL_* (19-20, 22, 23-24, 26).
	OpCallLocal   = 19
	OpCallCode    = 20
	OpCallClosure = 22
	OpTCallLocal  = 23
	OpTCallCode   = 24
	OpTCallClos   = 26

	// CALLC_* — foreign-call trampoline (27-29).
	OpCallCLocal   = 27
	OpCallCExtern  = 28
	OpCallCExtDefn = 29

	OpPopFrame = 30 // POP_FRAME
	OpLive     = 31 // LIVE: write liveness bitmap

	OpYield  = 32
	OpReturn = 33
	OpDump   = 34

	// INT_* tagged small-integer arithmetic and comparison (35-49).
	OpIntAdd  = 35
	OpIntSub  = 36
	OpIntMul  = 37
	OpIntDiv  = 38
	OpIntMod  = 39
	OpIntAnd  = 40
	OpIntOr   = 41
	OpIntXor  = 42
	OpIntShl  = 43
	OpIntShr  = 44
	OpIntAshr = 45
	OpIntEq   = 46
	OpIntNe   = 47
	OpIntLt   = 48
	OpIntGe   = 49

	// Typed EQ/NE, one pair per width (50-63).
	OpEqByte   = 50
	OpNeByte   = 51
	OpEqInt    = 52
	OpNeInt    = 53
	OpEqLong   = 54
	OpNeLong   = 55
	OpEqFloat  = 56
	OpNeFloat  = 57
	OpEqDouble = 58
	OpNeDouble = 59
	OpEqChar   = 60
	OpNeChar   = 61
	OpEqRef    = 62
	OpNeRef    = 63

	// Typed arithmetic, BYTE/INT/LONG/FLOAT/DOUBLE families (64-132).
	OpAddByte = 64
	OpSubByte = 65
	OpMulByte = 66
	OpDivByte = 67
	OpModByte = 68
	OpAndByte = 69
	OpOrByte  = 70
	OpXorByte = 71
	OpLtByte  = 72
	OpLeByte  = 73
	OpGtByte  = 74
	OpGeByte  = 75

	OpAddInt  = 76
	OpSubInt  = 77
	OpMulInt  = 78
	OpDivInt  = 79
	OpModInt  = 80
	OpAndInt  = 81
	OpOrInt   = 82
	OpXorInt  = 83
	OpShlInt  = 84
	OpShrInt  = 85
	OpAshrInt = 86
	OpLtInt   = 87
	OpLeInt   = 88
	OpGtInt   = 89
	OpGeInt   = 90

	OpAddLong  = 91
	OpSubLong  = 92
	OpMulLong  = 93
	OpDivLong  = 94
	OpModLong  = 95
	OpAndLong  = 96
	OpOrLong   = 97
	OpXorLong  = 98
	OpShlLong  = 99
	OpShrLong  = 100
	OpAshrLong = 101
	OpLtLong   = 102
	OpLeLong   = 103
	OpGtLong   = 104
	OpGeLong   = 105

	OpAddFloat = 106
	OpSubFloat = 107
	OpMulFloat = 108
	OpDivFloat = 109
	OpLtFloat  = 110
	OpLeFloat  = 111
	OpGtFloat  = 112
	OpGeFloat  = 113

	OpAddDouble = 114
	OpSubDouble = 115
	OpMulDouble = 116
	OpDivDouble = 117
	OpLtDouble  = 118
	OpLeDouble  = 119
	OpGtDouble  = 120
	OpGeDouble  = 121

	OpNegByte    = 122
	OpNegInt     = 123
	OpNegLong    = 124
	OpNegFloat   = 125
	OpNegDouble  = 126
	OpNotByte    = 127
	OpNotInt     = 128
	OpNotLong    = 129
	OpAndNotInt  = 130
	OpAndNotLong = 131
	// 132 reserved.

	// NOT/NEG/DEREF/TYPEOF (133-143).
	OpNot    = 133
	OpNeg    = 134
	OpDeref  = 135
	OpTypeOf = 136
	// 137-143 reserved for future unary/deref variants.

	OpGoto    = 144 // GOTO: A-format unconditional signed word offset.
	OpJumpSet = 145 // JUMP_SET: F-format boolean branch.

	// CONV_* conversions (146-162).
	OpConvByteInt     = 146
	OpConvByteLong    = 147
	OpConvByteFloat   = 148
	OpConvByteDouble  = 149
	OpConvIntByte     = 150
	OpConvIntLong     = 151
	OpConvIntFloat    = 152
	OpConvIntDouble   = 153
	OpConvLongByte    = 154
	OpConvLongInt     = 155
	OpConvLongFloat   = 156
	OpConvLongDouble  = 157
	OpConvFloatInt    = 158
	OpConvFloatLong   = 159
	OpConvFloatDouble = 160
	OpConvDoubleInt   = 161
	OpConvDoubleFloat = 162

	// TAG/DETAG (163-167).
	OpTagByte  = 163
	OpTagChar  = 164
	OpTagInt   = 165
	OpTagFloat = 166
	OpDetag    = 167

	// STORE/LOAD, widths 1/4/8 bytes (168-179).
	OpLoad1   = 168
	OpLoad4   = 169
	OpLoad8   = 170
	OpStore1  = 171
	OpStore4  = 172
	OpStore8  = 173
	OpLoadX1  = 174 // variable-offset (second slot) forms
	OpLoadX4  = 175
	OpLoadX8  = 176
	OpStoreX1 = 177
	OpStoreX4 = 178
	OpStoreX8 = 179

	// RESERVE/ENTER_STACK/ALLOC/GC (180-185).
	OpReserveConst = 180
	OpReserveLocal = 181
	OpEnterStack   = 182
	OpAllocConst   = 183
	OpAllocLocal   = 184
	OpGC           = 185

	OpPrintStackTrace = 186
	// 187 reserved.
	OpFlushVM = 188
	// 189-191 reserved.

	// Typed jumps JUMP_<rel>_<type> (192-235), F-format two-target branches.
	OpJumpLtByte = 192
	OpJumpLeByte = 193
	OpJumpGtByte = 194
	OpJumpGeByte = 195
	OpJumpEqByte = 196
	OpJumpNeByte = 197

	OpJumpLtInt = 198
	OpJumpLeInt = 199
	OpJumpGtInt = 200
	OpJumpGeInt = 201
	OpJumpEqInt = 202
	OpJumpNeInt = 203

	OpJumpLtLong = 204
	OpJumpLeLong = 205
	OpJumpGtLong = 206
	OpJumpGeLong = 207
	OpJumpEqLong = 208
	OpJumpNeLong = 209

	OpJumpLtFloat = 210
	OpJumpLeFloat = 211
	OpJumpGtFloat = 212
	OpJumpGeFloat = 213
	OpJumpEqFloat = 214
	OpJumpNeFloat = 215

	OpJumpLtDouble = 216
	OpJumpLeDouble = 217
	OpJumpGtDouble = 218
	OpJumpGeDouble = 219
	OpJumpEqDouble = 220
	OpJumpNeDouble = 221

	OpJumpEqRef = 222
	OpJumpNeRef = 223
	// 224-235 reserved for additional typed jump variants.

	// DISPATCH/DISPATCH_METHOD/JUMP_REG/FNENTRY (236-239).
	OpDispatch       = 236
	OpDispatchMethod = 237
	OpJumpReg        = 238
	OpFnEntry        = 239
	// 240 reserved.

	OpClassName = 241
)

// Name returns the mnemonic for an opcode, used by the disassembler and by
// DUMP/diagnostic output. Unknown opcodes return "".
func Name(op uint8) string {
	if n, ok := names[op]; ok {
		return n
	}
	return ""
}

var names = map[uint8]string{
	OpSetLocal: "SET_LOCAL", OpSetUImm: "SET_UIMM", OpSetSImm: "SET_SIMM",
	OpSetCodeID: "SET_CODE_ID", OpSetExtern: "SET_EXTERN", OpSetExternDef: "SET_EXTERN_DEFN",
	OpSetGlobal: "SET_GLOBAL", OpSetData: "SET_DATA", OpSetConst: "SET_CONST",
	OpSetWideImm:  "SET_WIDE_IMM",
	OpSetRegLocal: "SET_REG_LOCAL", OpSetRegUImm: "SET_REG_UIMM", OpSetRegSImm: "SET_REG_SIMM",
	OpSetRegCodeID: "SET_REG_CODE_ID", OpSetRegExtern: "SET_REG_EXTERN",
	OpSetRegExternDef: "SET_REG_EXTERN_DEFN", OpSetRegGlobal: "SET_REG_GLOBAL",
	OpSetRegData: "SET_REG_DATA", OpSetRegConst: "SET_REG_CONST", OpSetRegWideImm: "SET_REG_WIDE_IMM",
	OpGetReg:      "GET_REG",
	OpCallLocal:   "CALL_LOCAL", OpCallCode: "CALL_CODE", OpCallClosure: "CALL_CLOSURE",
	OpTCallLocal:  "TCALL_LOCAL", OpTCallCode: "TCALL_CODE", OpTCallClos: "TCALL_CLOSURE",
	OpCallCLocal:  "CALLC_LOCAL", OpCallCExtern: "CALLC_EXTERN", OpCallCExtDefn: "CALLC_EXTERN_DEFN",
	OpPopFrame:    "POP_FRAME", OpLive: "LIVE",
	OpYield:       "YIELD", OpReturn: "RETURN", OpDump: "DUMP",
	OpIntAdd: "INT_ADD", OpIntSub: "INT_SUB", OpIntMul: "INT_MUL", OpIntDiv: "INT_DIV",
	OpIntMod: "INT_MOD", OpIntAnd: "INT_AND", OpIntOr: "INT_OR", OpIntXor: "INT_XOR",
	OpIntShl: "INT_SHL", OpIntShr: "INT_SHR", OpIntAshr: "INT_ASHR",
	OpIntEq: "INT_EQ", OpIntNe: "INT_NE", OpIntLt: "INT_LT", OpIntGe: "INT_GE",
	OpGoto:    "GOTO", OpJumpSet: "JUMP_SET",
	OpDetag:   "DETAG", OpTagByte: "TAG_BYTE", OpTagChar: "TAG_CHAR", OpTagInt: "TAG_INT", OpTagFloat: "TAG_FLOAT",
	OpLoad1:   "LOAD1", OpLoad4: "LOAD4", OpLoad8: "LOAD8",
	OpStore1:  "STORE1", OpStore4: "STORE4", OpStore8: "STORE8",
	OpLoadX1:  "LOADX1", OpLoadX4: "LOADX4", OpLoadX8: "LOADX8",
	OpStoreX1: "STOREX1", OpStoreX4: "STOREX4", OpStoreX8: "STOREX8",
	OpReserveConst: "RESERVE_CONST", OpReserveLocal: "RESERVE_LOCAL",
	OpEnterStack: "ENTER_STACK", OpAllocConst: "ALLOC_CONST", OpAllocLocal: "ALLOC_LOCAL", OpGC: "GC",
	OpPrintStackTrace: "PRINT_STACK_TRACE", OpFlushVM: "FLUSH_VM",
	OpDispatch: "DISPATCH", OpDispatchMethod: "DISPATCH_METHOD", OpJumpReg: "JUMP_REG", OpFnEntry: "FNENTRY",
	OpClassName: "CLASS_NAME",
	OpNot:       "NOT", OpNeg: "NEG", OpDeref: "DEREF", OpTypeOf: "TYPEOF",

	OpEqByte: "EQ_BYTE", OpNeByte: "NE_BYTE", OpEqInt: "EQ_INT", OpNeInt: "NE_INT",
	OpEqLong: "EQ_LONG", OpNeLong: "NE_LONG", OpEqFloat: "EQ_FLOAT", OpNeFloat: "NE_FLOAT",
	OpEqDouble: "EQ_DOUBLE", OpNeDouble: "NE_DOUBLE", OpEqChar: "EQ_CHAR", OpNeChar: "NE_CHAR",
	OpEqRef: "EQ_REF", OpNeRef: "NE_REF",

	OpAddByte: "ADD_BYTE", OpSubByte: "SUB_BYTE", OpMulByte: "MUL_BYTE", OpDivByte: "DIV_BYTE",
	OpModByte: "MOD_BYTE", OpAndByte: "AND_BYTE", OpOrByte: "OR_BYTE", OpXorByte: "XOR_BYTE",
	OpLtByte: "LT_BYTE", OpLeByte: "LE_BYTE", OpGtByte: "GT_BYTE", OpGeByte: "GE_BYTE",

	OpAddInt: "ADD_INT", OpSubInt: "SUB_INT", OpMulInt: "MUL_INT", OpDivInt: "DIV_INT",
	OpModInt: "MOD_INT", OpAndInt: "AND_INT", OpOrInt: "OR_INT", OpXorInt: "XOR_INT",
	OpShlInt: "SHL_INT", OpShrInt: "SHR_INT", OpAshrInt: "ASHR_INT",
	OpLtInt: "LT_INT", OpLeInt: "LE_INT", OpGtInt: "GT_INT", OpGeInt: "GE_INT",

	OpAddLong: "ADD_LONG", OpSubLong: "SUB_LONG", OpMulLong: "MUL_LONG", OpDivLong: "DIV_LONG",
	OpModLong: "MOD_LONG", OpAndLong: "AND_LONG", OpOrLong: "OR_LONG", OpXorLong: "XOR_LONG",
	OpShlLong: "SHL_LONG", OpShrLong: "SHR_LONG", OpAshrLong: "ASHR_LONG",
	OpLtLong: "LT_LONG", OpLeLong: "LE_LONG", OpGtLong: "GT_LONG", OpGeLong: "GE_LONG",

	OpAddFloat: "ADD_FLOAT", OpSubFloat: "SUB_FLOAT", OpMulFloat: "MUL_FLOAT", OpDivFloat: "DIV_FLOAT",
	OpLtFloat: "LT_FLOAT", OpLeFloat: "LE_FLOAT", OpGtFloat: "GT_FLOAT", OpGeFloat: "GE_FLOAT",

	OpAddDouble: "ADD_DOUBLE", OpSubDouble: "SUB_DOUBLE", OpMulDouble: "MUL_DOUBLE", OpDivDouble: "DIV_DOUBLE",
	OpLtDouble: "LT_DOUBLE", OpLeDouble: "LE_DOUBLE", OpGtDouble: "GT_DOUBLE", OpGeDouble: "GE_DOUBLE",

	OpNegByte: "NEG_BYTE", OpNegInt: "NEG_INT", OpNegLong: "NEG_LONG", OpNegFloat: "NEG_FLOAT",
	OpNegDouble: "NEG_DOUBLE", OpNotByte: "NOT_BYTE", OpNotInt: "NOT_INT", OpNotLong: "NOT_LONG",
	OpAndNotInt: "AND_NOT_INT", OpAndNotLong: "AND_NOT_LONG",

	OpConvByteInt: "CONV_BYTE_INT", OpConvByteLong: "CONV_BYTE_LONG", OpConvByteFloat: "CONV_BYTE_FLOAT",
	OpConvByteDouble: "CONV_BYTE_DOUBLE", OpConvIntByte: "CONV_INT_BYTE", OpConvIntLong: "CONV_INT_LONG",
	OpConvIntFloat: "CONV_INT_FLOAT", OpConvIntDouble: "CONV_INT_DOUBLE", OpConvLongByte: "CONV_LONG_BYTE",
	OpConvLongInt: "CONV_LONG_INT", OpConvLongFloat: "CONV_LONG_FLOAT", OpConvLongDouble: "CONV_LONG_DOUBLE",
	OpConvFloatInt: "CONV_FLOAT_INT", OpConvFloatLong: "CONV_FLOAT_LONG", OpConvFloatDouble: "CONV_FLOAT_DOUBLE",
	OpConvDoubleInt: "CONV_DOUBLE_INT", OpConvDoubleFloat: "CONV_DOUBLE_FLOAT",

	OpJumpLtByte: "JUMP_LT_BYTE", OpJumpLeByte: "JUMP_LE_BYTE", OpJumpGtByte: "JUMP_GT_BYTE",
	OpJumpGeByte: "JUMP_GE_BYTE", OpJumpEqByte: "JUMP_EQ_BYTE", OpJumpNeByte: "JUMP_NE_BYTE",

	OpJumpLtInt: "JUMP_LT_INT", OpJumpLeInt: "JUMP_LE_INT", OpJumpGtInt: "JUMP_GT_INT",
	OpJumpGeInt: "JUMP_GE_INT", OpJumpEqInt: "JUMP_EQ_INT", OpJumpNeInt: "JUMP_NE_INT",

	OpJumpLtLong: "JUMP_LT_LONG", OpJumpLeLong: "JUMP_LE_LONG", OpJumpGtLong: "JUMP_GT_LONG",
	OpJumpGeLong: "JUMP_GE_LONG", OpJumpEqLong: "JUMP_EQ_LONG", OpJumpNeLong: "JUMP_NE_LONG",

	OpJumpLtFloat: "JUMP_LT_FLOAT", OpJumpLeFloat: "JUMP_LE_FLOAT", OpJumpGtFloat: "JUMP_GT_FLOAT",
	OpJumpGeFloat: "JUMP_GE_FLOAT", OpJumpEqFloat: "JUMP_EQ_FLOAT", OpJumpNeFloat: "JUMP_NE_FLOAT",

	OpJumpLtDouble: "JUMP_LT_DOUBLE", OpJumpLeDouble: "JUMP_LE_DOUBLE", OpJumpGtDouble: "JUMP_GT_DOUBLE",
	OpJumpGeDouble: "JUMP_GE_DOUBLE", OpJumpEqDouble: "JUMP_EQ_DOUBLE", OpJumpNeDouble: "JUMP_NE_DOUBLE",

	OpJumpEqRef: "JUMP_EQ_REF", OpJumpNeRef: "JUMP_NE_REF",
}
