package cpu

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOpcodeTable(t *testing.T) {
	assert := assert.New(t)

	ops := Opcodes()
	assert.Equal(46, len(ops))
	for _, op := range ops {
		assert.True(op.Valid(), op.String())
		assert.NotEmpty(op.Mnemonic(), op.String())
		found, ok := Lookup(op.Mnemonic(), op.Shape())
		assert.True(ok, op.String())
		assert.Equal(op, found)
	}

	assert.Equal("ADD_IMM", OP_ADD_IMM.String())
	assert.Equal("ADD", OP_ADD_IMM.Mnemonic())
	assert.Equal(SHAPE_REG_IMM, OP_ADD_IMM.Shape())
	assert.Equal("OP_0xFF", Opcode(0xff).String())
	assert.False(Opcode(0xff).Valid())
	assert.Equal("reg,imm", SHAPE_REG_IMM.String())

	op, ok := Lookup("LOAD", SHAPE_LOAD)
	assert.True(ok)
	assert.Equal(OP_LOAD, op)

	_, ok = Lookup("NOT", SHAPE_REG_REG)
	assert.False(ok)
	_, ok = Lookup("FROB", SHAPE_NO_OPERANDS)
	assert.False(ok)
}

func TestInstructionEncoding(t *testing.T) {
	assert := assert.New(t)

	table := [](struct {
		in   Instruction
		word uint32
		text string
	}){
		{NoOperands{Op: OP_NOP}, 0x00000000, "NOP"},
		{NoOperands{Op: OP_HALT}, 0x01000000, "HALT"},
		{NoOperands{Op: OP_CLC}, 0x02000000, "CLC"},
		{RegReg{Op: OP_MOV_REG, Dest: 1, Src: 0}, 0x10010000, "MOV R1, R0"},
		{RegReg{Op: OP_ADD_REG, Dest: 1, Src: 2}, 0x20010002, "ADD R1, R2"},
		{RegReg{Op: OP_ADDC_REG, Dest: 1, Src: 3}, 0x28010003, "ADDC R1, R3"},
		{RegImm{Op: OP_MOV_IMM, Dest: 0, Imm: 0xffffffff}, 0x1100ffff, "MOV R0, #-1"},
		{RegImm{Op: OP_ADD_IMM, Dest: REG_SP, Imm: 4}, 0x21080004, "ADD R8, #4"},
		{RegImm{Op: OP_CMP_IMM, Dest: 2, Imm: 0x7fff}, 0x51027fff, "CMP R2, #32767"},
		{RegImm{Op: OP_SUB_IMM, Dest: 3, Imm: 0xffff8000}, 0x23038000, "SUB R3, #-32768"},
		{RegUnary{Op: OP_NOT, Dest: 3}, 0x36030000, "NOT R3"},
		{Load{Dest: 0, Base: 1}, 0x12000001, "LOAD R0, [R1]"},
		{Store{Base: 1, Src: 0}, 0x13010000, "STORE [R1], R0"},
		{Jump{Op: OP_JNZ, Address: 0x48}, 0x62000048, "JNZ 0x0048"},
		{Jump{Op: OP_JMP, Address: 0xfffc}, 0x6000fffc, "JMP 0xfffc"},
	}

	for _, entry := range table {
		word, err := Encode(entry.in)
		assert.NoError(err, entry.text)
		assert.Equal(entry.word, word, entry.text)

		in, err := Decode(entry.word)
		assert.NoError(err, entry.text)
		assert.Equal(entry.in, in, entry.text)
		assert.Equal(entry.text, in.String())
		assert.Equal(entry.in.Opcode().Shape(), in.Shape(), entry.text)
	}
}

func TestInstructionDecodeFault(t *testing.T) {
	assert := assert.New(t)

	table := [](struct {
		name string
		word uint32
		err  error
	}){
		{"unknown", 0xff000000, ErrOpcodeUnknown},
		{"gap", 0x04000000, ErrOpcodeUnknown},
		{"dest", 0x20090000, ErrRegisterInvalid},
		{"src", 0x20000009, ErrRegisterInvalid},
		{"imm_dest", 0x21ff0001, ErrRegisterInvalid},
		{"unary", 0x36100000, ErrRegisterInvalid},
		{"load_base", 0x12000011, ErrRegisterInvalid},
		{"store_base", 0x13090000, ErrRegisterInvalid},
	}

	for _, entry := range table {
		in, err := Decode(entry.word)
		assert.ErrorIs(err, entry.err, entry.name)
		assert.Nil(in, entry.name)
	}
}

func TestInstructionEncodeFault(t *testing.T) {
	assert := assert.New(t)

	table := [](struct {
		name string
		in   Instruction
		err  error
	}){
		{"shape", RegReg{Op: OP_ADD_IMM}, ErrShapeMismatch},
		{"jump_shape", Jump{Op: OP_HALT}, ErrShapeMismatch},
		{"opcode", NoOperands{Op: 0xfe}, ErrOpcodeUnknown},
		{"range", RegImm{Op: OP_ADD_IMM, Imm: 0x12345}, ErrImmediateRange},
		{"range_high", RegImm{Op: OP_ADD_IMM, Imm: 0xffff}, ErrImmediateRange},
		{"dest", RegReg{Op: OP_ADD_REG, Dest: 9}, ErrRegisterInvalid},
		{"src", RegReg{Op: OP_ADD_REG, Src: 9}, ErrRegisterInvalid},
		{"load", Load{Base: 12}, ErrRegisterInvalid},
		{"store", Store{Src: 12}, ErrRegisterInvalid},
		{"nil", nil, ErrInstructionInvalid},
	}

	for _, entry := range table {
		_, err := Encode(entry.in)
		assert.ErrorIs(err, entry.err, entry.name)
	}
}

func FuzzDecode(f *testing.F) {
	f.Add(uint32(0x01000000))
	f.Add(uint32(0x1100ffff))
	f.Add(uint32(0x20010002))
	f.Add(uint32(0x62000048))
	f.Add(uint32(0xffffffff))

	f.Fuzz(func(t *testing.T, word uint32) {
		assert := assert.New(t)

		in, err := Decode(word)
		if err != nil {
			assert.Contains([]Kind{KIND_OPCODE_UNKNOWN, KIND_REGISTER_INVALID}, KindOf(err))
			return
		}

		code, err := Encode(in)
		assert.NoError(err)

		again, err := Decode(code)
		assert.NoError(err)
		assert.Equal(in, again)
	})
}

func FuzzEncode(f *testing.F) {
	f.Add(uint8(OP_ADD_REG), uint8(1), uint16(2))
	f.Add(uint8(OP_MOV_IMM), uint8(0), uint16(0x8000))
	f.Add(uint8(OP_JZ), uint8(0), uint16(0x1234))

	f.Fuzz(func(t *testing.T, opcode uint8, reg1 uint8, operand uint16) {
		assert := assert.New(t)

		op := Opcode(opcode)
		if !op.Valid() {
			return
		}

		dest := Register(reg1 % (REG_SP + 1))
		src := Register(operand % (REG_SP + 1))

		var in Instruction
		switch op.Shape() {
		case SHAPE_NO_OPERANDS:
			in = NoOperands{Op: op}
		case SHAPE_REG_REG:
			in = RegReg{Op: op, Dest: dest, Src: src}
		case SHAPE_REG_IMM:
			in = RegImm{Op: op, Dest: dest, Imm: signExtend16(uint32(operand))}
		case SHAPE_REG_UNARY:
			in = RegUnary{Op: op, Dest: dest}
		case SHAPE_LOAD:
			in = Load{Dest: dest, Base: src}
		case SHAPE_STORE:
			in = Store{Base: dest, Src: src}
		case SHAPE_JUMP:
			in = Jump{Op: op, Address: operand}
		}

		word, err := Encode(in)
		assert.NoError(err)

		out, err := Decode(word)
		assert.NoError(err)
		assert.Equal(in, out)

		again, err := Encode(out)
		assert.NoError(err)
		assert.Equal(word, again)
	})
}
