package cpu

import (
	"fmt"
)

// Register indices.
const (
	REG_COUNT = 8  // General purpose registers r0-r7.
	REG_SP    = 8  // Stack pointer alias used by two-operand instructions.
	REG_PC    = 16 // Diagnostic alias for the program counter.
	REG_IR    = 17 // Diagnostic alias for the instruction register.
	REG_SP_X  = 18 // Diagnostic alias for the stack pointer.
)

// Registers is the register file.
type Registers struct {
	Gpr [REG_COUNT]uint32 // General purpose registers.
	Pc  uint32            // Program counter (byte address).
	Ir  uint32            // Last fetched instruction word.
	Sp  uint32            // Stack pointer (byte address).
}

// slot returns the storage for a register index.
func (rf *Registers) slot(index int) (reg *uint32, err error) {
	switch {
	case index >= 0 && index < REG_COUNT:
		reg = &rf.Gpr[index]
	case index == REG_SP, index == REG_SP_X:
		reg = &rf.Sp
	case index == REG_PC:
		reg = &rf.Pc
	case index == REG_IR:
		reg = &rf.Ir
	default:
		err = ErrRegister(index)
	}
	return
}

// Get reads a register by index.
func (rf *Registers) Get(index int) (value uint32, err error) {
	reg, err := rf.slot(index)
	if err != nil {
		return
	}

	value = *reg
	return
}

// Set writes a register by index.
func (rf *Registers) Set(index int, value uint32) (err error) {
	reg, err := rf.slot(index)
	if err != nil {
		return
	}

	*reg = value
	return
}

// Reset zeroes every register, including the stack pointer.
func (rf *Registers) Reset() {
	clear(rf.Gpr[:])
	rf.Pc = 0
	rf.Ir = 0
	rf.Sp = 0
}

// RegisterName returns the assembler name of a register index.
func RegisterName(index int) string {
	switch {
	case index >= 0 && index <= REG_SP:
		return fmt.Sprintf("R%d", index)
	case index == REG_PC:
		return "PC"
	case index == REG_IR:
		return "IR"
	case index == REG_SP_X:
		return "SP"
	}
	return fmt.Sprintf("?%d", index)
}
