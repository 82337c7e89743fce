package cpu

import (
	"math/bits"
)

// Alu performs 32-bit integer operations, updating Flags as a side effect.
type Alu struct {
	Flags *Flags
}

// Add returns a + b.
func (alu *Alu) Add(a, b uint32) (result uint32) {
	result = a + b
	alu.Flags.ArithmeticUpdate(a, b, result, ARITH_ADD)
	return
}

// Sub returns a - b.
func (alu *Alu) Sub(a, b uint32) (result uint32) {
	result = a - b
	alu.Flags.ArithmeticUpdate(a, b, result, ARITH_SUB)
	return
}

// Mul returns the low word of a * b.
func (alu *Alu) Mul(a, b uint32) (result uint32) {
	full := uint64(a) * uint64(b)
	result = uint32(full)
	alu.Flags.MultiplicationUpdate(result, full)
	return
}

// Div returns the unsigned quotient and remainder of a / b.
// Only the quotient affects the flags.
func (alu *Alu) Div(a, b uint32) (quotient, remainder uint32, err error) {
	if b == 0 {
		err = ErrDivideByZero
		return
	}

	quotient = a / b
	remainder = a % b
	alu.Flags.DivisionUpdate(quotient)
	return
}

// Compare sets the flags for a - b, discarding the difference.
func (alu *Alu) Compare(a, b uint32) {
	alu.Flags.ArithmeticUpdate(a, b, a-b, ARITH_CMP)
}

// And returns a & b.
func (alu *Alu) And(a, b uint32) (result uint32) {
	result = a & b
	alu.Flags.LogicalUpdate(result)
	return
}

// Or returns a | b.
func (alu *Alu) Or(a, b uint32) (result uint32) {
	result = a | b
	alu.Flags.LogicalUpdate(result)
	return
}

// Xor returns a ^ b.
func (alu *Alu) Xor(a, b uint32) (result uint32) {
	result = a ^ b
	alu.Flags.LogicalUpdate(result)
	return
}

// Not returns ^a.
func (alu *Alu) Not(a uint32) (result uint32) {
	result = ^a
	alu.Flags.LogicalUpdate(result)
	return
}

// Shl is a logical shift left. Only the low 5 bits of count are used.
func (alu *Alu) Shl(a, count uint32) (result uint32) {
	count &= 0x1f
	result = a << count
	alu.Flags.ShiftLeftUpdate(a, count, result)
	return
}

// Shr is a logical shift right. Only the low 5 bits of count are used.
func (alu *Alu) Shr(a, count uint32) (result uint32) {
	count &= 0x1f
	result = a >> count
	alu.Flags.ShiftRightUpdate(a, count, result)
	return
}

// Sar is an arithmetic (sign propagating) shift right.
// Only the low 5 bits of count are used.
func (alu *Alu) Sar(a, count uint32) (result uint32) {
	count &= 0x1f
	result = uint32(int32(a) >> count)
	alu.Flags.ShiftRightUpdate(a, count, result)
	return
}

// Rol rotates left. C is the low bit of the result.
// A zero count returns a with the flags untouched.
func (alu *Alu) Rol(a, count uint32) (result uint32) {
	count &= 0x1f
	if count == 0 {
		return a
	}

	result = bits.RotateLeft32(a, int(count))
	alu.Flags.RotateUpdate(result, result&1)
	return
}

// Ror rotates right. C is the high bit of the result.
// A zero count returns a with the flags untouched.
func (alu *Alu) Ror(a, count uint32) (result uint32) {
	count &= 0x1f
	if count == 0 {
		return a
	}

	result = bits.RotateLeft32(a, -int(count))
	alu.Flags.RotateUpdate(result, result>>31)
	return
}

// Adc returns a + b + C. C is set to the carry out; O is untouched.
func (alu *Alu) Adc(a, b uint32) (result uint32) {
	full := uint64(a) + uint64(b) + uint64(alu.Flags.Bit(FLAG_C))
	result = uint32(full)
	alu.Flags.BasicUpdate(result)
	alu.Flags.SetBit(FLAG_C, uint32(full>>32))
	return
}

// Sbb returns a - b - C. C is set to the borrow out; O is untouched.
func (alu *Alu) Sbb(a, b uint32) (result uint32) {
	full := int64(a) - int64(b) - int64(alu.Flags.Bit(FLAG_C))
	result = uint32(full)
	alu.Flags.BasicUpdate(result)
	if full < 0 {
		alu.Flags.SetBit(FLAG_C, 1)
	} else {
		alu.Flags.SetBit(FLAG_C, 0)
	}
	return
}

// ClearCarry sets C to 0.
func (alu *Alu) ClearCarry() {
	alu.Flags.SetBit(FLAG_C, 0)
}

// SetCarry sets C to 1.
func (alu *Alu) SetCarry() {
	alu.Flags.SetBit(FLAG_C, 1)
}
