package cpu

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindOf(t *testing.T) {
	assert := assert.New(t)

	table := [](struct {
		err  error
		kind Kind
	}){
		{nil, KIND_NONE},
		{ErrAddressRange, KIND_ADDRESS_RANGE},
		{&ErrAddress{Address: 2, Err: ErrAddressAlign}, KIND_ADDRESS_ALIGN},
		{ErrOpcode(0xff), KIND_OPCODE_UNKNOWN},
		{ErrRegister(9), KIND_REGISTER_INVALID},
		{ErrFlag("X"), KIND_FLAG_INVALID},
		{ErrDivideByZero, KIND_DIVIDE_BY_ZERO},
		{errors.Join(ErrProgramSize, &ErrAddress{Err: ErrAddressRange}), KIND_PROGRAM_SIZE},
		{errors.Join(ErrInstructionInvalid, &ErrAddress{Err: ErrAddressRange}), KIND_INSTRUCTION_INVALID},
		{&ErrFault{Kind: KIND_DIVIDE_BY_ZERO, Err: ErrDivideByZero}, KIND_DIVIDE_BY_ZERO},
		{errors.New("mystery"), KIND_OTHER},
	}

	for _, entry := range table {
		kind := KindOf(entry.err)
		assert.Equal(entry.kind, kind, "%v", entry.err)
		assert.Equal(entry.kind != KIND_NONE, kind.Fatal())
	}

	assert.Equal("division by zero", KIND_DIVIDE_BY_ZERO.String())
	assert.Equal("Kind(99)", Kind(99).String())
}
