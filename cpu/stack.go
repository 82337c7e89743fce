package cpu

// PushSequence is the instruction sequence PUSH expands to.
func PushSequence(reg Register) []Instruction {
	return []Instruction{
		RegImm{Op: OP_SUB_IMM, Dest: REG_SP, Imm: WORD_SIZE},
		Store{Base: REG_SP, Src: reg},
	}
}

// PopSequence is the instruction sequence POP expands to.
func PopSequence(reg Register) []Instruction {
	return []Instruction{
		Load{Dest: reg, Base: REG_SP},
		RegImm{Op: OP_ADD_IMM, Dest: REG_SP, Imm: WORD_SIZE},
	}
}

// StackDepth returns the number of words between the stack pointer and the
// stack base. A stack pointer above the base gives a negative depth.
func (cpu *Cpu) StackDepth() int {
	return int(int32(cpu.StackBase-cpu.Registers.Sp)) / WORD_SIZE
}

// Stack returns the stacked words, top first.
func (cpu *Cpu) Stack() (words []uint32) {
	for sp := cpu.Registers.Sp; sp < cpu.StackBase; sp += WORD_SIZE {
		value, err := cpu.Memory.Read32(sp)
		if err != nil {
			break
		}
		words = append(words, value)
	}
	return
}
