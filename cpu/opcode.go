package cpu

import (
	"fmt"
)

// Opcode is the 8-bit operation code in bits 31:24 of an instruction word.
type Opcode uint8

const (
	// System
	OP_NOP  = Opcode(0x00)
	OP_HALT = Opcode(0x01)
	OP_CLC  = Opcode(0x02)
	OP_STC  = Opcode(0x03)

	// Data movement
	OP_MOV_REG = Opcode(0x10)
	OP_MOV_IMM = Opcode(0x11)
	OP_LOAD    = Opcode(0x12)
	OP_STORE   = Opcode(0x13)

	// Arithmetic
	OP_ADD_REG  = Opcode(0x20)
	OP_ADD_IMM  = Opcode(0x21)
	OP_SUB_REG  = Opcode(0x22)
	OP_SUB_IMM  = Opcode(0x23)
	OP_MUL_REG  = Opcode(0x24)
	OP_MUL_IMM  = Opcode(0x25)
	OP_DIV_REG  = Opcode(0x26)
	OP_DIV_IMM  = Opcode(0x27)
	OP_ADDC_REG = Opcode(0x28)
	OP_ADDC_IMM = Opcode(0x29)
	OP_SUBC_REG = Opcode(0x2a)
	OP_SUBC_IMM = Opcode(0x2b)

	// Logic
	OP_AND_REG = Opcode(0x30)
	OP_AND_IMM = Opcode(0x31)
	OP_OR_REG  = Opcode(0x32)
	OP_OR_IMM  = Opcode(0x33)
	OP_XOR_REG = Opcode(0x34)
	OP_XOR_IMM = Opcode(0x35)
	OP_NOT     = Opcode(0x36)

	// Shift and rotate
	OP_SHL_REG = Opcode(0x40)
	OP_SHL_IMM = Opcode(0x41)
	OP_SHR_REG = Opcode(0x42)
	OP_SHR_IMM = Opcode(0x43)
	OP_SAR_REG = Opcode(0x44)
	OP_SAR_IMM = Opcode(0x45)
	OP_ROL_REG = Opcode(0x46)
	OP_ROL_IMM = Opcode(0x47)
	OP_ROR_REG = Opcode(0x48)
	OP_ROR_IMM = Opcode(0x49)

	// Compare
	OP_CMP_REG = Opcode(0x50)
	OP_CMP_IMM = Opcode(0x51)

	// Jumps
	OP_JMP = Opcode(0x60)
	OP_JZ  = Opcode(0x61)
	OP_JNZ = Opcode(0x62)
	OP_JC  = Opcode(0x63)
	OP_JNC = Opcode(0x64)
	OP_JS  = Opcode(0x65)
	OP_JNS = Opcode(0x66)
)

// Shape is the operand layout of an opcode.
type Shape int

//go:generate go tool stringer -linecomment -type=Shape
const (
	SHAPE_NO_OPERANDS = Shape(0) // none
	SHAPE_REG_REG     = Shape(1) // reg,reg
	SHAPE_REG_IMM     = Shape(2) // reg,imm
	SHAPE_REG_UNARY   = Shape(3) // reg
	SHAPE_LOAD        = Shape(4) // load
	SHAPE_STORE       = Shape(5) // store
	SHAPE_JUMP        = Shape(6) // jump
)

// opcodeInfo describes a single opcode table entry.
type opcodeInfo struct {
	valid    bool
	name     string // Unique name, ie ADD_IMM
	mnemonic string // Assembler mnemonic, ie ADD
	shape    Shape
}

// opcodeTable is indexed by opcode value.
var opcodeTable = [256]opcodeInfo{
	OP_NOP:  {true, "NOP", "NOP", SHAPE_NO_OPERANDS},
	OP_HALT: {true, "HALT", "HALT", SHAPE_NO_OPERANDS},
	OP_CLC:  {true, "CLC", "CLC", SHAPE_NO_OPERANDS},
	OP_STC:  {true, "STC", "STC", SHAPE_NO_OPERANDS},

	OP_MOV_REG: {true, "MOV_REG", "MOV", SHAPE_REG_REG},
	OP_MOV_IMM: {true, "MOV_IMM", "MOV", SHAPE_REG_IMM},
	OP_LOAD:    {true, "LOAD", "LOAD", SHAPE_LOAD},
	OP_STORE:   {true, "STORE", "STORE", SHAPE_STORE},

	OP_ADD_REG:  {true, "ADD_REG", "ADD", SHAPE_REG_REG},
	OP_ADD_IMM:  {true, "ADD_IMM", "ADD", SHAPE_REG_IMM},
	OP_SUB_REG:  {true, "SUB_REG", "SUB", SHAPE_REG_REG},
	OP_SUB_IMM:  {true, "SUB_IMM", "SUB", SHAPE_REG_IMM},
	OP_MUL_REG:  {true, "MUL_REG", "MUL", SHAPE_REG_REG},
	OP_MUL_IMM:  {true, "MUL_IMM", "MUL", SHAPE_REG_IMM},
	OP_DIV_REG:  {true, "DIV_REG", "DIV", SHAPE_REG_REG},
	OP_DIV_IMM:  {true, "DIV_IMM", "DIV", SHAPE_REG_IMM},
	OP_ADDC_REG: {true, "ADDC_REG", "ADDC", SHAPE_REG_REG},
	OP_ADDC_IMM: {true, "ADDC_IMM", "ADDC", SHAPE_REG_IMM},
	OP_SUBC_REG: {true, "SUBC_REG", "SUBC", SHAPE_REG_REG},
	OP_SUBC_IMM: {true, "SUBC_IMM", "SUBC", SHAPE_REG_IMM},

	OP_AND_REG: {true, "AND_REG", "AND", SHAPE_REG_REG},
	OP_AND_IMM: {true, "AND_IMM", "AND", SHAPE_REG_IMM},
	OP_OR_REG:  {true, "OR_REG", "OR", SHAPE_REG_REG},
	OP_OR_IMM:  {true, "OR_IMM", "OR", SHAPE_REG_IMM},
	OP_XOR_REG: {true, "XOR_REG", "XOR", SHAPE_REG_REG},
	OP_XOR_IMM: {true, "XOR_IMM", "XOR", SHAPE_REG_IMM},
	OP_NOT:     {true, "NOT", "NOT", SHAPE_REG_UNARY},

	OP_SHL_REG: {true, "SHL_REG", "SHL", SHAPE_REG_REG},
	OP_SHL_IMM: {true, "SHL_IMM", "SHL", SHAPE_REG_IMM},
	OP_SHR_REG: {true, "SHR_REG", "SHR", SHAPE_REG_REG},
	OP_SHR_IMM: {true, "SHR_IMM", "SHR", SHAPE_REG_IMM},
	OP_SAR_REG: {true, "SAR_REG", "SAR", SHAPE_REG_REG},
	OP_SAR_IMM: {true, "SAR_IMM", "SAR", SHAPE_REG_IMM},
	OP_ROL_REG: {true, "ROL_REG", "ROL", SHAPE_REG_REG},
	OP_ROL_IMM: {true, "ROL_IMM", "ROL", SHAPE_REG_IMM},
	OP_ROR_REG: {true, "ROR_REG", "ROR", SHAPE_REG_REG},
	OP_ROR_IMM: {true, "ROR_IMM", "ROR", SHAPE_REG_IMM},

	OP_CMP_REG: {true, "CMP_REG", "CMP", SHAPE_REG_REG},
	OP_CMP_IMM: {true, "CMP_IMM", "CMP", SHAPE_REG_IMM},

	OP_JMP: {true, "JMP", "JMP", SHAPE_JUMP},
	OP_JZ:  {true, "JZ", "JZ", SHAPE_JUMP},
	OP_JNZ: {true, "JNZ", "JNZ", SHAPE_JUMP},
	OP_JC:  {true, "JC", "JC", SHAPE_JUMP},
	OP_JNC: {true, "JNC", "JNC", SHAPE_JUMP},
	OP_JS:  {true, "JS", "JS", SHAPE_JUMP},
	OP_JNS: {true, "JNS", "JNS", SHAPE_JUMP},
}

// Valid returns true if the opcode is in the opcode table.
func (op Opcode) Valid() bool {
	return opcodeTable[op].valid
}

// Shape returns the operand shape of the opcode.
func (op Opcode) Shape() Shape {
	return opcodeTable[op].shape
}

// Mnemonic returns the assembler mnemonic, shared by the REG and IMM forms.
func (op Opcode) Mnemonic() string {
	return opcodeTable[op].mnemonic
}

// String returns the unique opcode name.
func (op Opcode) String() string {
	info := &opcodeTable[op]
	if !info.valid {
		return fmt.Sprintf("OP_0x%02X", uint8(op))
	}
	return info.name
}

// Opcodes returns every valid opcode, in numeric order.
func Opcodes() (ops []Opcode) {
	for n := range opcodeTable {
		if opcodeTable[n].valid {
			ops = append(ops, Opcode(n))
		}
	}
	return
}

type mnemonicShape struct {
	mnemonic string
	shape    Shape
}

var opcodeByMnemonic = func() map[mnemonicShape]Opcode {
	m := map[mnemonicShape]Opcode{}
	for _, op := range Opcodes() {
		info := &opcodeTable[op]
		m[mnemonicShape{info.mnemonic, info.shape}] = op
	}
	return m
}()

// Lookup returns the opcode for an upper-case mnemonic and operand shape.
func Lookup(mnemonic string, shape Shape) (op Opcode, ok bool) {
	op, ok = opcodeByMnemonic[mnemonicShape{mnemonic, shape}]
	return
}
