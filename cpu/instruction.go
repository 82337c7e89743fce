package cpu

import (
	"fmt"
)

// Register is a register index as encoded in an instruction word.
type Register uint8

// Valid returns true if the register is addressable by an instruction.
func (reg Register) Valid() bool {
	return reg <= REG_SP
}

func (reg Register) String() string {
	return RegisterName(int(reg))
}

// Instruction is a decoded instruction word.
// The concrete type is one of NoOperands, RegReg, RegImm, RegUnary,
// Load, Store or Jump.
type Instruction interface {
	Opcode() Opcode
	Shape() Shape
	String() string
}

// NoOperands is a system instruction, ie NOP, HALT.
type NoOperands struct {
	Op Opcode
}

// RegReg is the register form of a two-address instruction.
type RegReg struct {
	Op   Opcode
	Dest Register
	Src  Register
}

// RegImm is the immediate form of a two-address instruction.
// Imm holds the sign-extended 16-bit operand.
type RegImm struct {
	Op   Opcode
	Dest Register
	Imm  uint32
}

// RegUnary is a single register instruction, ie NOT.
type RegUnary struct {
	Op   Opcode
	Dest Register
}

// Load reads the word addressed by Base into Dest.
type Load struct {
	Dest Register
	Base Register
}

// Store writes Src to the word addressed by Base.
type Store struct {
	Base Register
	Src  Register
}

// Jump transfers control to an absolute address.
type Jump struct {
	Op      Opcode
	Address uint16
}

func (in NoOperands) Opcode() Opcode { return in.Op }
func (in RegReg) Opcode() Opcode     { return in.Op }
func (in RegImm) Opcode() Opcode     { return in.Op }
func (in RegUnary) Opcode() Opcode   { return in.Op }
func (in Load) Opcode() Opcode       { return OP_LOAD }
func (in Store) Opcode() Opcode      { return OP_STORE }
func (in Jump) Opcode() Opcode       { return in.Op }

func (in NoOperands) Shape() Shape { return SHAPE_NO_OPERANDS }
func (in RegReg) Shape() Shape     { return SHAPE_REG_REG }
func (in RegImm) Shape() Shape     { return SHAPE_REG_IMM }
func (in RegUnary) Shape() Shape   { return SHAPE_REG_UNARY }
func (in Load) Shape() Shape       { return SHAPE_LOAD }
func (in Store) Shape() Shape      { return SHAPE_STORE }
func (in Jump) Shape() Shape       { return SHAPE_JUMP }

func (in NoOperands) String() string {
	return in.Op.Mnemonic()
}

func (in RegReg) String() string {
	return fmt.Sprintf("%v %v, %v", in.Op.Mnemonic(), in.Dest, in.Src)
}

func (in RegImm) String() string {
	return fmt.Sprintf("%v %v, #%d", in.Op.Mnemonic(), in.Dest, int32(in.Imm))
}

func (in RegUnary) String() string {
	return fmt.Sprintf("%v %v", in.Op.Mnemonic(), in.Dest)
}

func (in Load) String() string {
	return fmt.Sprintf("LOAD %v, [%v]", in.Dest, in.Base)
}

func (in Store) String() string {
	return fmt.Sprintf("STORE [%v], %v", in.Base, in.Src)
}

func (in Jump) String() string {
	return fmt.Sprintf("%v 0x%04x", in.Op.Mnemonic(), in.Address)
}

// signExtend16 sign-extends the low 16 bits of value to 32 bits.
func signExtend16(value uint32) uint32 {
	return uint32(int32(int16(uint16(value))))
}

// Fields splits an instruction word into opcode, reg1 and operand.
func Fields(word uint32) (op Opcode, reg1 uint8, operand uint16) {
	op = Opcode(word >> 24)
	reg1 = uint8(word >> 16)
	operand = uint16(word)
	return
}

// checkRegister validates a register field.
func checkRegister(reg Register) (err error) {
	if !reg.Valid() {
		err = ErrRegister(reg)
	}
	return
}

// Decode converts an instruction word into its structured form.
func Decode(word uint32) (in Instruction, err error) {
	op, reg1, operand := Fields(word)
	if !op.Valid() {
		err = ErrOpcode(op)
		return
	}

	dest := Register(reg1)
	src := Register(operand & 0xff)

	switch op.Shape() {
	case SHAPE_NO_OPERANDS:
		in = NoOperands{Op: op}
	case SHAPE_REG_REG:
		err = checkRegister(dest)
		if err == nil {
			err = checkRegister(src)
		}
		in = RegReg{Op: op, Dest: dest, Src: src}
	case SHAPE_REG_IMM:
		err = checkRegister(dest)
		in = RegImm{Op: op, Dest: dest, Imm: signExtend16(uint32(operand))}
	case SHAPE_REG_UNARY:
		err = checkRegister(dest)
		in = RegUnary{Op: op, Dest: dest}
	case SHAPE_LOAD:
		err = checkRegister(dest)
		if err == nil {
			err = checkRegister(src)
		}
		in = Load{Dest: dest, Base: src}
	case SHAPE_STORE:
		err = checkRegister(dest)
		if err == nil {
			err = checkRegister(src)
		}
		in = Store{Base: dest, Src: src}
	case SHAPE_JUMP:
		in = Jump{Op: op, Address: operand}
	}

	if err != nil {
		in = nil
	}

	return
}

// word assembles the three instruction fields.
func word(op Opcode, reg1 Register, operand uint16) uint32 {
	return uint32(op)<<24 | uint32(reg1)<<16 | uint32(operand)
}

// Encode converts a structured instruction into its instruction word.
func Encode(in Instruction) (code uint32, err error) {
	if in == nil {
		err = ErrInstructionInvalid
		return
	}

	op := in.Opcode()
	if !op.Valid() {
		err = ErrOpcode(op)
		return
	}
	if op.Shape() != in.Shape() {
		err = fmt.Errorf("%w: %v is %v, not %v", ErrShapeMismatch, op, op.Shape(), in.Shape())
		return
	}

	var regs []Register

	switch in := in.(type) {
	case NoOperands:
		code = word(op, 0, 0)
	case RegReg:
		regs = []Register{in.Dest, in.Src}
		code = word(op, in.Dest, uint16(in.Src))
	case RegImm:
		regs = []Register{in.Dest}
		if signExtend16(in.Imm) != in.Imm {
			err = fmt.Errorf("%w: #0x%x", ErrImmediateRange, in.Imm)
			return
		}
		code = word(op, in.Dest, uint16(in.Imm))
	case RegUnary:
		regs = []Register{in.Dest}
		code = word(op, in.Dest, 0)
	case Load:
		regs = []Register{in.Dest, in.Base}
		code = word(op, in.Dest, uint16(in.Base))
	case Store:
		regs = []Register{in.Base, in.Src}
		code = word(op, in.Base, uint16(in.Src))
	case Jump:
		code = word(op, 0, in.Address)
	default:
		err = ErrInstructionInvalid
		return
	}

	for _, reg := range regs {
		err = checkRegister(reg)
		if err != nil {
			code = 0
			return
		}
	}

	return
}
