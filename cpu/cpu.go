package cpu

import (
	"errors"
	"fmt"
	"log"
	"strings"
)

const (
	DEFAULT_MEMORY_SIZE = 256 * 1024 // Default memory size, in bytes.
	DEFAULT_STACK_SIZE  = 1024       // Default stack reservation, in bytes.
)

// Config is the machine configuration.
type Config struct {
	MemorySize uint32 // Memory size, in bytes.
	StackSize  uint32 // Stack reservation at the top of memory, in bytes.
}

// DefaultConfig returns the default machine configuration.
func DefaultConfig() Config {
	return Config{
		MemorySize: DEFAULT_MEMORY_SIZE,
		StackSize:  DEFAULT_STACK_SIZE,
	}
}

// Validate checks the configuration for consistency.
func (cfg Config) Validate() (err error) {
	switch {
	case cfg.MemorySize == 0:
		err = errors.Join(ErrConfig, errors.New(f("memory size is zero")))
	case cfg.MemorySize%WORD_SIZE != 0:
		err = errors.Join(ErrConfig, errors.New(f("memory size 0x%x is not word aligned", cfg.MemorySize)))
	case cfg.StackSize%WORD_SIZE != 0:
		err = errors.Join(ErrConfig, errors.New(f("stack size 0x%x is not word aligned", cfg.StackSize)))
	case cfg.StackSize > cfg.MemorySize:
		err = errors.Join(ErrConfig, errors.New(f("stack size 0x%x exceeds memory size 0x%x", cfg.StackSize, cfg.MemorySize)))
	}
	return
}

// Cpu is the fetch-decode-execute engine.
//
// A Cpu is not safe for concurrent use; callers that step it from more
// than one goroutine must serialize access.
type Cpu struct {
	Verbose bool   // Set to enable verbose logging.
	Tracer  Tracer // Set to observe each executed instruction.

	Config    Config
	Memory    *Memory
	Registers Registers
	Flags     Flags
	Alu       Alu

	Running   bool   // Set while Run is executing.
	Halted    bool   // Set by HALT.
	Cycles    int    // Count of successfully executed instructions.
	StackBase uint32 // Initial stack pointer.
}

// NewCpu creates a new CPU with the given configuration.
func NewCpu(cfg Config) (cpu *Cpu, err error) {
	err = cfg.Validate()
	if err != nil {
		return
	}

	cpu = &Cpu{
		Config:    cfg,
		Memory:    NewMemory(cfg.MemorySize),
		StackBase: cfg.MemorySize - cfg.StackSize,
	}
	cpu.Alu.Flags = &cpu.Flags
	cpu.Registers.Sp = cpu.StackBase

	return
}

// Reset the CPU state.
// - Clears the registers and flags.
// - Clears the running and halted state.
// - Zeros the cycle counter.
// - Sets the stack pointer to the stack base.
//
// Memory is left untouched.
func (cpu *Cpu) Reset() {
	if cpu.Verbose {
		log.Printf("cpu: reset")
	}

	cpu.Registers.Reset()
	cpu.Flags.Reset()
	cpu.Running = false
	cpu.Halted = false
	cpu.Cycles = 0
	cpu.Registers.Sp = cpu.StackBase
}

// LoadProgram copies a little-endian program image into memory at start,
// and sets the program counter to start.
func (cpu *Cpu) LoadProgram(program []byte, start uint32) (err error) {
	err = cpu.Memory.Load(start, program)
	if err != nil {
		return
	}

	cpu.Registers.Pc = start

	if cpu.Verbose {
		log.Printf("cpu: loaded 0x%x bytes at 0x%05x", len(program), start)
	}

	return
}

// Step executes a single instruction. It does nothing if the CPU is halted.
// Any failure stops the CPU and is returned as an *ErrFault.
func (cpu *Cpu) Step() (err error) {
	if cpu.Halted {
		return
	}

	pc := cpu.Registers.Pc
	var code uint32

	defer func() {
		if err != nil {
			cpu.Running = false
			err = &ErrFault{
				Kind:  KindOf(err),
				Pc:    pc,
				Word:  code,
				Cycle: cpu.Cycles,
				Err:   err,
			}
			if cpu.Verbose {
				log.Printf("cpu: %v", err)
			}
		}
	}()

	code, err = cpu.Memory.Read32(pc)
	if err != nil {
		err = errors.Join(ErrInstructionInvalid, err)
		return
	}

	cpu.Registers.Ir = code
	cpu.Registers.Pc = pc + WORD_SIZE

	in, err := Decode(code)
	if err != nil {
		return
	}

	if cpu.Verbose {
		log.Printf("%05x: %08x %v", pc, code, in)
	}

	before := cpu.Flags

	err = cpu.Execute(in)
	if err != nil {
		return
	}

	cpu.Cycles++

	if cpu.Tracer != nil {
		event := &TraceEvent{
			Cycle:       cpu.Cycles,
			Pc:          pc,
			Word:        code,
			Instruction: in,
			Written:     Writes(in),
			Before:      before,
			After:       cpu.Flags,
		}
		for _, reg := range event.Written {
			value, _ := cpu.Registers.Get(int(reg))
			event.Values = append(event.Values, value)
		}
		cpu.Tracer.Trace(event)
	}

	return
}

// Run steps the CPU until it halts, fails, or maxCycles instructions have
// executed in this call. A maxCycles of zero or less is unbounded.
// Reaching the cycle limit is not an error.
func (cpu *Cpu) Run(maxCycles int) (err error) {
	cpu.Running = true
	cpu.Halted = false

	if cpu.Verbose {
		log.Printf("cpu: run from 0x%05x", cpu.Registers.Pc)
	}

	executed := 0
	for cpu.Running && !cpu.Halted {
		if maxCycles > 0 && executed >= maxCycles {
			if cpu.Verbose {
				log.Printf("cpu: stopped at cycle limit %d", maxCycles)
			}
			cpu.Running = false
			break
		}

		err = cpu.Step()
		if err != nil {
			return
		}
		executed++
	}

	if cpu.Verbose && cpu.Halted {
		log.Printf("cpu: halted after %d cycles", cpu.Cycles)
	}

	return
}

// operands returns the destination and the operand values of a two-address
// instruction.
func (cpu *Cpu) operands(in Instruction) (dest Register, a uint32, b uint32, err error) {
	switch in := in.(type) {
	case RegReg:
		dest = in.Dest
		b, err = cpu.Registers.Get(int(in.Src))
	case RegImm:
		dest = in.Dest
		b = in.Imm
	case RegUnary:
		dest = in.Dest
	default:
		err = ErrInstructionInvalid
	}
	if err != nil {
		return
	}

	a, err = cpu.Registers.Get(int(dest))
	return
}

// Execute executes a single decoded instruction.
func (cpu *Cpu) Execute(in Instruction) (err error) {
	op := in.Opcode()

	switch in := in.(type) {
	case NoOperands:
		switch op {
		case OP_NOP:
		case OP_HALT:
			cpu.Halted = true
			cpu.Running = false
		case OP_CLC:
			cpu.Alu.ClearCarry()
		case OP_STC:
			cpu.Alu.SetCarry()
		default:
			err = errors.Join(ErrInstructionInvalid, ErrOpcode(op))
		}
	case RegReg, RegImm, RegUnary:
		fn := aluOps[op]
		if fn == nil {
			err = errors.Join(ErrInstructionInvalid, ErrOpcode(op))
			return
		}
		var dest Register
		var a, b uint32
		dest, a, b, err = cpu.operands(in)
		if err != nil {
			return
		}
		var result uint32
		var write bool
		result, write, err = fn(&cpu.Alu, a, b)
		if err != nil || !write {
			return
		}
		err = cpu.Registers.Set(int(dest), result)
	case Load:
		var address, value uint32
		address, err = cpu.Registers.Get(int(in.Base))
		if err != nil {
			return
		}
		value, err = cpu.Memory.Read32(address)
		if err != nil {
			return
		}
		err = cpu.Registers.Set(int(in.Dest), value)
	case Store:
		var address, value uint32
		address, err = cpu.Registers.Get(int(in.Base))
		if err != nil {
			return
		}
		value, err = cpu.Registers.Get(int(in.Src))
		if err != nil {
			return
		}
		err = cpu.Memory.Write32(address, value)
	case Jump:
		var taken bool
		taken, err = cpu.Condition(op)
		if err != nil {
			return
		}
		if taken {
			cpu.Registers.Pc = uint32(in.Address)
		}
	default:
		err = ErrInstructionInvalid
	}

	return
}

// Condition returns true if the jump opcode's condition holds.
func (cpu *Cpu) Condition(op Opcode) (taken bool, err error) {
	fl := &cpu.Flags
	switch op {
	case OP_JMP:
		taken = true
	case OP_JZ:
		taken = fl.IsSet(FLAG_Z)
	case OP_JNZ:
		taken = !fl.IsSet(FLAG_Z)
	case OP_JC:
		taken = fl.IsSet(FLAG_C)
	case OP_JNC:
		taken = !fl.IsSet(FLAG_C)
	case OP_JS:
		taken = fl.IsSet(FLAG_S)
	case OP_JNS:
		taken = !fl.IsSet(FLAG_S)
	default:
		err = errors.Join(ErrInstructionInvalid, ErrOpcode(op))
	}
	return
}

// aluFunc computes a two-address result; write is false when the result
// is discarded.
type aluFunc func(alu *Alu, a, b uint32) (result uint32, write bool, err error)

func aluWrite(fn func(alu *Alu, a, b uint32) uint32) aluFunc {
	return func(alu *Alu, a, b uint32) (result uint32, write bool, err error) {
		return fn(alu, a, b), true, nil
	}
}

var (
	aluMov = aluWrite(func(alu *Alu, a, b uint32) uint32 { return b })
	aluAdd = aluWrite((*Alu).Add)
	aluSub = aluWrite((*Alu).Sub)
	aluMul = aluWrite((*Alu).Mul)
	aluAdc = aluWrite((*Alu).Adc)
	aluSbb = aluWrite((*Alu).Sbb)
	aluAnd = aluWrite((*Alu).And)
	aluOr  = aluWrite((*Alu).Or)
	aluXor = aluWrite((*Alu).Xor)
	aluNot = aluWrite(func(alu *Alu, a, b uint32) uint32 { return alu.Not(a) })
	aluShl = aluWrite((*Alu).Shl)
	aluShr = aluWrite((*Alu).Shr)
	aluSar = aluWrite((*Alu).Sar)
	aluRol = aluWrite((*Alu).Rol)
	aluRor = aluWrite((*Alu).Ror)
)

func aluDiv(alu *Alu, a, b uint32) (result uint32, write bool, err error) {
	result, _, err = alu.Div(a, b)
	write = err == nil
	return
}

func aluCmp(alu *Alu, a, b uint32) (result uint32, write bool, err error) {
	alu.Compare(a, b)
	return
}

// aluOps is the dispatch table for the two-address and unary opcodes.
var aluOps = [256]aluFunc{
	OP_MOV_REG:  aluMov,
	OP_MOV_IMM:  aluMov,
	OP_ADD_REG:  aluAdd,
	OP_ADD_IMM:  aluAdd,
	OP_SUB_REG:  aluSub,
	OP_SUB_IMM:  aluSub,
	OP_MUL_REG:  aluMul,
	OP_MUL_IMM:  aluMul,
	OP_DIV_REG:  aluDiv,
	OP_DIV_IMM:  aluDiv,
	OP_ADDC_REG: aluAdc,
	OP_ADDC_IMM: aluAdc,
	OP_SUBC_REG: aluSbb,
	OP_SUBC_IMM: aluSbb,
	OP_AND_REG:  aluAnd,
	OP_AND_IMM:  aluAnd,
	OP_OR_REG:   aluOr,
	OP_OR_IMM:   aluOr,
	OP_XOR_REG:  aluXor,
	OP_XOR_IMM:  aluXor,
	OP_NOT:      aluNot,
	OP_SHL_REG:  aluShl,
	OP_SHL_IMM:  aluShl,
	OP_SHR_REG:  aluShr,
	OP_SHR_IMM:  aluShr,
	OP_SAR_REG:  aluSar,
	OP_SAR_IMM:  aluSar,
	OP_ROL_REG:  aluRol,
	OP_ROL_IMM:  aluRol,
	OP_ROR_REG:  aluRor,
	OP_ROR_IMM:  aluRor,
	OP_CMP_REG:  aluCmp,
	OP_CMP_IMM:  aluCmp,
}

// FlagState is a snapshot of the condition flags.
type FlagState struct {
	Z, S, C, O, P bool
}

// State is a read-only snapshot of the CPU.
type State struct {
	Registers [REG_SP + 1]uint32 // r0-r7, and r8 (the stack pointer).
	Pc        uint32
	Sp        uint32
	Ir        uint32
	Flags     FlagState
	Running   bool
	Halted    bool
	Cycles    int
}

// State returns a snapshot of the CPU.
func (cpu *Cpu) State() (state State) {
	copy(state.Registers[:], cpu.Registers.Gpr[:])
	state.Registers[REG_SP] = cpu.Registers.Sp
	state.Pc = cpu.Registers.Pc
	state.Sp = cpu.Registers.Sp
	state.Ir = cpu.Registers.Ir
	fl := &cpu.Flags
	state.Flags = FlagState{
		Z: fl.IsSet(FLAG_Z),
		S: fl.IsSet(FLAG_S),
		C: fl.IsSet(FLAG_C),
		O: fl.IsSet(FLAG_O),
		P: fl.IsSet(FLAG_P),
	}
	state.Running = cpu.Running
	state.Halted = cpu.Halted
	state.Cycles = cpu.Cycles
	return
}

// String returns the state as a register dump.
func (state State) String() string {
	var sb strings.Builder
	for n, value := range state.Registers {
		fmt.Fprintf(&sb, "%5s: %04X_%04X\n", RegisterName(n), value>>16, value&0xffff)
	}
	fmt.Fprintf(&sb, "%5s: %04X_%04X\n", "pc", state.Pc>>16, state.Pc&0xffff)
	fmt.Fprintf(&sb, "%5s: %04X_%04X\n", "ir", state.Ir>>16, state.Ir&0xffff)
	bit := func(set bool) int {
		if set {
			return 1
		}
		return 0
	}
	fl := state.Flags
	fmt.Fprintf(&sb, "%5s: Z=%d S=%d C=%d O=%d P=%d\n", "flags",
		bit(fl.Z), bit(fl.S), bit(fl.C), bit(fl.O), bit(fl.P))
	fmt.Fprintf(&sb, "%5s: running=%v halted=%v cycles=%d\n", "state",
		state.Running, state.Halted, state.Cycles)
	return sb.String()
}
