// Copyright (c) 2025, The Garble Authors.
// See LICENSE for licensing information.

package luacode

// OpCode identifies one of the 40 operations recognized by the paired
// runtime's virtual machine. The first 38 values reproduce the canonical
// Lua 5.1 opcode order from lopcodes.c (OP_MOVE through OP_VARARG); the
// remaining two are vendor extensions appended to round the domain out to
// 40 opcodes (see DESIGN.md).
type OpCode uint8

const (
	OpMove OpCode = iota
	OpLoadK
	OpLoadBool
	OpLoadNil
	OpGetUpval
	OpGetGlobal
	OpGetTable
	OpSetGlobal
	OpSetUpval
	OpSetTable
	OpNewTable
	OpSelf
	OpAdd
	OpSub
	OpMul
	OpDiv
	OpMod
	OpPow
	OpUnm
	OpNot
	OpLen
	OpConcat
	OpJmp
	OpEq
	OpLt
	OpLe
	OpTest
	OpTestSet
	OpCall
	OpTailCall
	OpReturn
	OpForLoop
	OpForPrep
	OpTForLoop
	OpSetList
	OpClose
	OpClosure
	OpVararg
	OpNop
	OpBreak

	NumOpCodes = 40
)

var opCodeNames = [NumOpCodes]string{
	OpMove:      "MOVE",
	OpLoadK:     "LOADK",
	OpLoadBool:  "LOADBOOL",
	OpLoadNil:   "LOADNIL",
	OpGetUpval:  "GETUPVAL",
	OpGetGlobal: "GETGLOBAL",
	OpGetTable:  "GETTABLE",
	OpSetGlobal: "SETGLOBAL",
	OpSetUpval:  "SETUPVAL",
	OpSetTable:  "SETTABLE",
	OpNewTable:  "NEWTABLE",
	OpSelf:      "SELF",
	OpAdd:       "ADD",
	OpSub:       "SUB",
	OpMul:       "MUL",
	OpDiv:       "DIV",
	OpMod:       "MOD",
	OpPow:       "POW",
	OpUnm:       "UNM",
	OpNot:       "NOT",
	OpLen:       "LEN",
	OpConcat:    "CONCAT",
	OpJmp:       "JMP",
	OpEq:        "EQ",
	OpLt:        "LT",
	OpLe:        "LE",
	OpTest:      "TEST",
	OpTestSet:   "TESTSET",
	OpCall:      "CALL",
	OpTailCall:  "TAILCALL",
	OpReturn:    "RETURN",
	OpForLoop:   "FORLOOP",
	OpForPrep:   "FORPREP",
	OpTForLoop:  "TFORLOOP",
	OpSetList:   "SETLIST",
	OpClose:     "CLOSE",
	OpClosure:   "CLOSURE",
	OpVararg:    "VARARG",
	OpNop:       "NOP",
	OpBreak:     "BREAK",
}

// String returns the opcode's canonical mnemonic, or "OP(?)" for a value
// outside the recognized domain.
func (op OpCode) String() string {
	if int(op) < len(opCodeNames) {
		return opCodeNames[op]
	}
	return "OP(?)"
}

// Valid reports whether op is one of the 40 recognized opcodes.
func (op OpCode) Valid() bool {
	return int(op) < NumOpCodes
}

// instructionTypes gives the ABC/ABx/AsBx layout for every recognized
// opcode, matching the standard Lua 5.1 opmode table (lopcodes.c) for the
// first 38 entries; the two vendor opcodes use the plain ABC layout.
var instructionTypes = [NumOpCodes]InstructionType{
	OpMove:      TypeABC,
	OpLoadK:     TypeABx,
	OpLoadBool:  TypeABC,
	OpLoadNil:   TypeABC,
	OpGetUpval:  TypeABC,
	OpGetGlobal: TypeABx,
	OpGetTable:  TypeABC,
	OpSetGlobal: TypeABx,
	OpSetUpval:  TypeABC,
	OpSetTable:  TypeABC,
	OpNewTable:  TypeABC,
	OpSelf:      TypeABC,
	OpAdd:       TypeABC,
	OpSub:       TypeABC,
	OpMul:       TypeABC,
	OpDiv:       TypeABC,
	OpMod:       TypeABC,
	OpPow:       TypeABC,
	OpUnm:       TypeABC,
	OpNot:       TypeABC,
	OpLen:       TypeABC,
	OpConcat:    TypeABC,
	OpJmp:       TypeAsBx,
	OpEq:        TypeABC,
	OpLt:        TypeABC,
	OpLe:        TypeABC,
	OpTest:      TypeABC,
	OpTestSet:   TypeABC,
	OpCall:      TypeABC,
	OpTailCall:  TypeABC,
	OpReturn:    TypeABC,
	OpForLoop:   TypeAsBx,
	OpForPrep:   TypeAsBx,
	OpTForLoop:  TypeABC,
	OpSetList:   TypeABC,
	OpClose:     TypeABC,
	OpClosure:   TypeABx,
	OpVararg:    TypeABC,
	OpNop:       TypeABC,
	OpBreak:     TypeABC,
}

// Type returns the operand layout for op. Callers should have already
// checked op.Valid(); an invalid opcode reports TypeABC.
func (op OpCode) Type() InstructionType {
	if !op.Valid() {
		return TypeABC
	}
	return instructionTypes[op]
}

// AllOpCodes returns the 40 opcodes in canonical order, the enumeration
// the opcode permutation is built over.
func AllOpCodes() [NumOpCodes]OpCode {
	var all [NumOpCodes]OpCode
	for i := range all {
		all[i] = OpCode(i)
	}
	return all
}
