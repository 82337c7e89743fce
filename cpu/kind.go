package cpu

import (
	"errors"
)

// Kind classifies a failure of the fetch-decode-execute cycle.
type Kind int

//go:generate go tool stringer -linecomment -type=Kind
const (
	KIND_NONE                = Kind(0) // none
	KIND_ADDRESS_RANGE       = Kind(1) // address out of range
	KIND_ADDRESS_ALIGN       = Kind(2) // misaligned access
	KIND_OPCODE_UNKNOWN      = Kind(3) // unknown opcode
	KIND_REGISTER_INVALID    = Kind(4) // invalid register
	KIND_FLAG_INVALID        = Kind(5) // invalid flag
	KIND_DIVIDE_BY_ZERO      = Kind(6) // division by zero
	KIND_PROGRAM_SIZE        = Kind(7) // program too large
	KIND_INSTRUCTION_INVALID = Kind(8) // invalid instruction
	KIND_OTHER               = Kind(9) // other
)

// Fatal returns true if execution must halt after a failure of this kind.
// Every failure is fatal; resumption is left to the driver.
func (k Kind) Fatal() bool {
	return k != KIND_NONE
}

// KindOf classifies an error returned by the cpu package.
func KindOf(err error) Kind {
	if err == nil {
		return KIND_NONE
	}

	var fault *ErrFault
	if errors.As(err, &fault) {
		return fault.Kind
	}

	switch {
	case errors.Is(err, ErrInstructionInvalid):
		return KIND_INSTRUCTION_INVALID
	case errors.Is(err, ErrProgramSize):
		return KIND_PROGRAM_SIZE
	case errors.Is(err, ErrAddressRange):
		return KIND_ADDRESS_RANGE
	case errors.Is(err, ErrAddressAlign):
		return KIND_ADDRESS_ALIGN
	case errors.Is(err, ErrOpcodeUnknown):
		return KIND_OPCODE_UNKNOWN
	case errors.Is(err, ErrRegisterInvalid):
		return KIND_REGISTER_INVALID
	case errors.Is(err, ErrFlagInvalid):
		return KIND_FLAG_INVALID
	case errors.Is(err, ErrDivideByZero):
		return KIND_DIVIDE_BY_ZERO
	}

	return KIND_OTHER
}
