package cpu

import (
	"fmt"
	"iter"
	"maps"
)

const (
	ARENA_CODE       = 0x0_0000 // Program load address.
	ARENA_CODE_LIMIT = 0x1_0000 // Jump targets are 16 bits.
)

// Defines returns the memory map of the CPU as assembler equates.
func (cpu *Cpu) Defines() iter.Seq2[string, string] {
	defines := map[string]string{
		"MEMORY_SIZE":      fmt.Sprintf("0x%x", cpu.Memory.Size()),
		"STACK_SIZE":       fmt.Sprintf("0x%x", cpu.Config.StackSize),
		"STACK_BASE":       fmt.Sprintf("0x%x", cpu.StackBase),
		"WORD_SIZE":        fmt.Sprintf("%d", WORD_SIZE),
		"ARENA_CODE":       fmt.Sprintf("0x%x", ARENA_CODE),
		"ARENA_CODE_LIMIT": fmt.Sprintf("0x%x", ARENA_CODE_LIMIT),
	}
	return maps.All(defines)
}
