package cpu

import (
	"math/bits"
)

// Flag is a condition flag index.
type Flag int

//go:generate go tool stringer -linecomment -type=Flag
const (
	FLAG_Z = Flag(0) // Z
	FLAG_S = Flag(1) // S
	FLAG_C = Flag(2) // C
	FLAG_O = Flag(3) // O
	FLAG_P = Flag(4) // P
)

// FLAG_COUNT is the number of condition flags.
const FLAG_COUNT = 5

// ArithOp selects the carry and overflow rules of ArithmeticUpdate.
type ArithOp int

const (
	ARITH_ADD = ArithOp(0)
	ARITH_SUB = ArithOp(1)
	ARITH_CMP = ArithOp(2)
)

// FlagByName returns the flag with the single letter name.
func FlagByName(name string) (flag Flag, err error) {
	switch name {
	case "Z":
		flag = FLAG_Z
	case "S":
		flag = FLAG_S
	case "C":
		flag = FLAG_C
	case "O":
		flag = FLAG_O
	case "P":
		flag = FLAG_P
	default:
		err = ErrFlag(name)
	}
	return
}

// Flags holds the condition flags (Zero, Sign, Carry, Overflow, Parity).
// Each flag is a single bit.
type Flags struct {
	bit [FLAG_COUNT]bool
}

// Get returns the bit of the named flag.
func (fl *Flags) Get(name string) (bit uint32, err error) {
	flag, err := FlagByName(name)
	if err != nil {
		return
	}

	bit = fl.Bit(flag)
	return
}

// Set sets the named flag to the low bit of value.
func (fl *Flags) Set(name string, value uint32) (err error) {
	flag, err := FlagByName(name)
	if err != nil {
		return
	}

	fl.SetBit(flag, value)
	return
}

// Bit returns the flag as 0 or 1.
func (fl *Flags) Bit(flag Flag) uint32 {
	if fl.bit[flag] {
		return 1
	}
	return 0
}

// IsSet returns true if the flag is 1.
func (fl *Flags) IsSet(flag Flag) bool {
	return fl.bit[flag]
}

// SetBit sets the flag to the low bit of value.
func (fl *Flags) SetBit(flag Flag, value uint32) {
	fl.bit[flag] = (value & 1) == 1
}

// Reset zeroes all of the flags.
func (fl *Flags) Reset() {
	clear(fl.bit[:])
}

// String returns the flags in Z S C O P order, as "Z=0 S=1 ...".
func (fl *Flags) String() (text string) {
	for n := range FLAG_COUNT {
		if n != 0 {
			text += " "
		}
		flag := Flag(n)
		text += flag.String() + "="
		if fl.bit[n] {
			text += "1"
		} else {
			text += "0"
		}
	}
	return
}

// parity is 1 when the low 8 bits of value have an even number of set bits.
func parity(value uint32) uint32 {
	return uint32(^bits.OnesCount8(uint8(value)) & 1)
}

// BasicUpdate derives Z, S and P from a result.
func (fl *Flags) BasicUpdate(result uint32) {
	fl.bit[FLAG_Z] = result == 0
	fl.bit[FLAG_S] = (result >> 31) == 1
	fl.bit[FLAG_P] = parity(result) == 1
}

// ArithmeticUpdate derives all flags from an add, subtract or compare.
//
// For ARITH_ADD, C is the unsigned carry out and O is set when both operands
// share a sign that the result does not. For ARITH_SUB and ARITH_CMP, C is the
// borrow (a < b) and O is set when the operands differ in sign and the result
// sign differs from a.
func (fl *Flags) ArithmeticUpdate(a, b, result uint32, op ArithOp) {
	fl.BasicUpdate(result)

	sign_a := a >> 31
	sign_b := b >> 31
	sign_r := result >> 31

	switch op {
	case ARITH_ADD:
		fl.bit[FLAG_C] = uint64(a)+uint64(b) > 0xffffffff
		fl.bit[FLAG_O] = sign_a == sign_b && sign_r != sign_a
	case ARITH_SUB, ARITH_CMP:
		fl.bit[FLAG_C] = a < b
		fl.bit[FLAG_O] = sign_a != sign_b && sign_r != sign_a
	}
}

// LogicalUpdate derives Z, S and P and clears C and O.
func (fl *Flags) LogicalUpdate(result uint32) {
	fl.BasicUpdate(result)
	fl.bit[FLAG_C] = false
	fl.bit[FLAG_O] = false
}

// ShiftUpdate derives Z, S and P, sets C to the shifted out bit, and clears O.
func (fl *Flags) ShiftUpdate(result uint32, carry_out uint32) {
	fl.BasicUpdate(result)
	fl.bit[FLAG_C] = (carry_out & 1) == 1
	fl.bit[FLAG_O] = false
}

// ShiftLeftUpdate updates flags for a left shift of original by count.
// A zero count leaves C and O untouched.
func (fl *Flags) ShiftLeftUpdate(original uint32, count uint32, result uint32) {
	if count == 0 {
		fl.BasicUpdate(result)
		return
	}

	var carry_out uint32
	if count <= 32 {
		carry_out = uint32((uint64(original) >> (32 - count)) & 1)
	}
	fl.ShiftUpdate(result, carry_out)
}

// ShiftRightUpdate updates flags for a right shift of original by count.
// A zero count leaves C and O untouched.
func (fl *Flags) ShiftRightUpdate(original uint32, count uint32, result uint32) {
	if count == 0 {
		fl.BasicUpdate(result)
		return
	}

	var carry_out uint32
	if count <= 32 {
		carry_out = (original >> (count - 1)) & 1
	}
	fl.ShiftUpdate(result, carry_out)
}

// RotateUpdate updates flags for a rotate.
func (fl *Flags) RotateUpdate(result uint32, carry_out uint32) {
	fl.ShiftUpdate(result, carry_out)
}

// MultiplicationUpdate derives Z, S and P from the low word, and sets C when
// the full product does not fit in 32 bits.
func (fl *Flags) MultiplicationUpdate(result uint32, full_result uint64) {
	fl.BasicUpdate(result)
	fl.bit[FLAG_C] = full_result > 0xffffffff
	fl.bit[FLAG_O] = false
}

// DivisionUpdate derives Z, S and P from the quotient and clears C and O.
func (fl *Flags) DivisionUpdate(quotient uint32) {
	fl.BasicUpdate(quotient)
	fl.bit[FLAG_C] = false
	fl.bit[FLAG_O] = false
}
