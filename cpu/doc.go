// Package cpu implements the 32-bit two-address processor and its assembler.
//
// The processor has eight 32-bit general-purpose registers (r0-r7), a stack
// pointer addressable as r8, a program counter, an instruction register, five
// condition flags (Z, S, C, O, P), an ALU, and a flat little-endian byte
// addressable memory. Instructions are fixed 32-bit words: an 8-bit opcode,
// an 8-bit register field, and a 16-bit operand.
//
// The assembler turns mnemonic source into a Program, supporting labels,
// equates, macros, PUSH/POP expansion, and compile-time expression evaluation.
package cpu
