package cpu

import (
	"errors"

	"github.com/ezrec/cpu32/translate"
)

var f = translate.From

var (
	// Cpu errors
	ErrAddressRange       = errors.New(f("address out of range"))
	ErrAddressAlign       = errors.New(f("address misaligned"))
	ErrOpcodeUnknown      = errors.New(f("opcode unknown"))
	ErrRegisterInvalid    = errors.New(f("register invalid"))
	ErrFlagInvalid        = errors.New(f("flag invalid"))
	ErrDivideByZero       = errors.New(f("division by zero"))
	ErrProgramSize        = errors.New(f("program too large"))
	ErrInstructionInvalid = errors.New(f("instruction invalid"))
	ErrConfig             = errors.New(f("configuration invalid"))

	// Encoder errors
	ErrShapeMismatch = errors.New(f("operand shape mismatch"))

	// Assembler errors
	ErrEquateSyntax       = errors.New(f(".equ syntax"))
	ErrEquateDuplicate    = errors.New(f(".equ duplicated"))
	ErrLabelDuplicate     = errors.New(f("label duplicated"))
	ErrMacroSyntax        = errors.New(f(".macro syntax"))
	ErrMacroNesting       = errors.New(f(".macro in .macro prohibited"))
	ErrMacroDuplicate     = errors.New(f(".macro duplicated"))
	ErrMacroLonely        = errors.New(f(".macro without .endm"))
	ErrMacroLonelyEndm    = errors.New(f(".endm without .macro"))
	ErrOpcodeExtraArgs    = errors.New(f("excessive arguments"))
	ErrOpcodeMissing      = errors.New(f("operand missing"))
	ErrMnemonicInvalid    = errors.New(f("mnemonic invalid"))
	ErrImmediateRange     = errors.New(f("immediate out of range"))
	ErrMemoryOperand      = errors.New(f("memory operand expected"))
	ErrTargetInvalid      = errors.New(f("jump target invalid"))
	ErrWordSyntax         = errors.New(f(".word syntax"))
	ErrLinkRange          = errors.New(f("label address out of range"))
	ErrDirectiveInvalid   = errors.New(f("directive invalid"))
	ErrImmediateMalformed = errors.New(f("immediate must start with #"))
)

// ErrOpcode is an opcode byte that is not in the opcode table.
type ErrOpcode uint8

func (eo ErrOpcode) Error() string {
	return f("bad opcode 0x%02x", uint8(eo))
}

func (eo ErrOpcode) Unwrap() error {
	return ErrOpcodeUnknown
}

// ErrRegister is a register index outside of the addressable set.
type ErrRegister int

func (er ErrRegister) Error() string {
	return f("bad register 0x%02x", int(er))
}

func (er ErrRegister) Unwrap() error {
	return ErrRegisterInvalid
}

// ErrFlag is an unknown flag name.
type ErrFlag string

func (ef ErrFlag) Error() string {
	return f("unknown flag '%v'", string(ef))
}

func (ef ErrFlag) Unwrap() error {
	return ErrFlagInvalid
}

// ErrAddress is a failed memory access.
type ErrAddress struct {
	Address uint32
	Err     error
}

func (err *ErrAddress) Error() string {
	return f("address 0x%05x %v", err.Address, err.Err)
}

func (err *ErrAddress) Unwrap() error {
	return err.Err
}

// ErrFault is a failed fetch-decode-execute step.
type ErrFault struct {
	Kind  Kind   // Classification of the failure.
	Pc    uint32 // Address the instruction was fetched from.
	Word  uint32 // Instruction word, if the fetch succeeded.
	Cycle int    // Cycle count at the time of the failure.
	Err   error
}

func (err *ErrFault) Error() string {
	return f("pc 0x%05x word 0x%08x: %v: %v", err.Pc, err.Word, err.Kind.String(), err.Err)
}

func (err *ErrFault) Unwrap() error {
	return err.Err
}

type ErrSyntax struct {
	LineNo int
	Line   string
	Err    error
}

func (err ErrSyntax) Error() string {
	return f("line %d '%v' %v", err.LineNo, err.Line, err.Err)
}

func (err ErrSyntax) Unwrap() error {
	return err.Err
}

type ErrLabelMissing string

func (el ErrLabelMissing) Error() string {
	return f("label %v missing", string(el))
}

type ErrParseNumber string

func (err ErrParseNumber) Error() string {
	return f("'%v' is not a number", string(err))
}

type ErrParseRegister string

func (err ErrParseRegister) Error() string {
	return f("'%v' is not a register", string(err))
}

type ErrParseExpression string

func (err ErrParseExpression) Error() string {
	return f("$(%v) is not a valid expression", string(err))
}

type ErrMacro struct {
	Macro string
	Line  int
	Err   error
}

func (err ErrMacro) Error() string {
	return f("macro %v line %v %v", err.Macro, err.Line, err.Err.Error())
}

func (err ErrMacro) Unwrap() error {
	return err.Err
}
