// Copyright 2024, Jason S. McMullan <jason.mcmullan@gmail.com>

package cpu

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"log"
	"maps"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"go.starlark.net/starlark"
	"go.starlark.net/syntax"
)

// Macro represents a macro definition in the assembly language.
type Macro struct {
	LineNo int      // Line number of the macro definition.
	Args   []string // Arguments for the macro.
	Lines  []string // Lines of macro text to expand.
}

// Predefined system equates
var sysEquate = map[string]string{
	"LINENO":      "0",
	"WORD_SIZE":   fmt.Sprintf("%d", WORD_SIZE),
	"MEMORY_SIZE": fmt.Sprintf("%#x", DEFAULT_MEMORY_SIZE),
	"STACK_SIZE":  fmt.Sprintf("%#x", DEFAULT_STACK_SIZE),
	"STACK_BASE":  fmt.Sprintf("%#x", DEFAULT_MEMORY_SIZE-DEFAULT_STACK_SIZE),
}

// Assembler is a single pass macro assembler for the cpu32 instruction set.
type Assembler struct {
	Verbose bool   // If set, verbosely logs the assembler actions.
	Lines   []Line // List of generated lines.

	predefine map[string]string   // Predefines
	Label     map[string]uint32   // Map of jump labels to byte addresses.
	Equate    map[string]string   // Map of equates.
	Macro     map[string](*Macro) // Map of macros.
}

// Predefine defines a new equate or redefines an existing equate.
func (asm *Assembler) Predefine(equ string, value string) {
	if asm.predefine == nil {
		asm.predefine = map[string]string{equ: value}
	} else {
		asm.predefine[equ] = value
	}
}

// regMap is a map of register names to register indices.
var regMap = map[string]Register{
	"R0": 0,
	"R1": 1,
	"R2": 2,
	"R3": 3,
	"R4": 4,
	"R5": 5,
	"R6": 6,
	"R7": 7,
	"R8": REG_SP,
	"SP": REG_SP,
}

// register returns the register named by a word.
func (asm *Assembler) register(word string) (reg Register, err error) {
	reg, ok := regMap[strings.ToUpper(word)]
	if !ok {
		err = ErrParseRegister(word)
	}
	return
}

// memory returns the base register of a '[Rn]' memory reference.
func (asm *Assembler) memory(word string) (reg Register, err error) {
	inner, ok := strings.CutPrefix(word, "[")
	if ok {
		inner, ok = strings.CutSuffix(inner, "]")
	}
	if !ok {
		err = errors.Join(ErrMemoryOperand, ErrParseRegister(word))
		return
	}

	reg, err = asm.register(inner)
	return
}

// valueOf returns the value of a simple word.
func (asm *Assembler) valueOf(word string) (value uint32, err error) {
	if len(word) == 0 {
		err = ErrParseNumber(word)
		return
	}
	invert := false
	if word[0] == '~' {
		invert = true
		word = word[1:]
	}
	v64, err := strconv.ParseInt(word, 0, 64)
	if err != nil || v64 > 0xffffffff || v64 < -int64(0x80000000) {
		err = ErrParseNumber(word)
		return
	}

	value = uint32(v64)

	if invert {
		value = ^value
	}

	return
}

// immediate returns the sign-extended value of a '#value' operand.
// Values must fit in 16 bits, signed or unsigned.
func (asm *Assembler) immediate(word string) (value uint32, err error) {
	text, ok := strings.CutPrefix(word, "#")
	if !ok {
		err = ErrImmediateMalformed
		return
	}

	v64, err := strconv.ParseInt(text, 0, 64)
	if err != nil {
		err = ErrParseNumber(text)
		return
	}

	if v64 > 0xffff && v64 <= 0xffffffff && signExtend16(uint32(v64)) == uint32(v64) {
		v64 = int64(int32(v64))
	}

	if v64 < -0x8000 || v64 > 0xffff {
		err = fmt.Errorf("%w: %v", ErrImmediateRange, word)
		return
	}

	value = signExtend16(uint32(v64))
	return
}

// parenEval does compile-time $(...) evaluations
func (asm *Assembler) parenEval(expr string) (value uint32, err error) {
	thread := starlark.Thread{}
	opts := syntax.FileOptions{}
	pred := starlark.StringDict{}
	for key, str := range asm.Equate {
		var value32 uint32
		value32, err = asm.valueOf(str)
		if err != nil {
			// Ignore non-integer equates. They may be registers
			// or something else.
			continue
		}
		pred[key] = starlark.MakeInt64(int64(int32(value32)))
	}
	err = nil
	for key, addr := range asm.Label {
		pred[key] = starlark.MakeUint64(uint64(addr))
	}
	prog := "rc=" + expr + "\n"
	dict, err := starlark.ExecFileOptions(&opts, &thread, "expr", prog, pred)
	if err != nil {
		err = errors.Join(ErrParseExpression(expr), err)
		return
	}
	st_rc, ok := dict["rc"]
	if !ok {
		err = ErrParseExpression(expr)
		return
	}
	st_int, ok := st_rc.(starlark.Int)
	if !ok {
		err = ErrParseExpression(expr)
		return
	}
	st_int64, ok := st_int.Int64()
	if !ok {
		err = ErrParseExpression(expr)
		return
	}
	value = uint32(st_int64)
	return
}

var (
	reCharacter  = regexp.MustCompile(`'\\?[^']'`)
	reExpression = regexp.MustCompile(`\$\([^\$]*\)`)
)

// substitute replaces an equate, keeping any '#', '~' or '[...]' decoration.
func (asm *Assembler) substitute(word string) string {
	var prefix, suffix string
	inner := word
	switch {
	case strings.HasPrefix(inner, "#"), strings.HasPrefix(inner, "~"):
		prefix, inner = inner[:1], inner[1:]
	case strings.HasPrefix(inner, "[") && strings.HasSuffix(inner, "]"):
		prefix, inner, suffix = "[", inner[1:len(inner)-1], "]"
	}

	equate, ok := asm.Equate[inner]
	if !ok {
		return word
	}

	return prefix + equate + suffix
}

// parseLine parses a single line into instruction words.
func (asm *Assembler) parseLine(line string, lineno int) (words []string, err error) {
	// Set line number.
	asm.Equate["LINENO"] = fmt.Sprintf("%v", lineno)

	// Do 'x' evaluations
	line = reCharacter.ReplaceAllStringFunc(line, func(word string) string {
		str := word[1 : len(word)-1]
		if str[0] == '\\' {
			str = str[1:]
			switch str {
			case "\\":
				str = "\\"
			case "n":
				str = "\n"
			case "r":
				str = "\r"
			case "e":
				str = "\033"
			default:
				return word
			}
		} else if len(str) != 1 {
			return word
		}
		return fmt.Sprintf("%v", str[0])
	})

	// Do $() evaluations
	line = reExpression.ReplaceAllStringFunc(line, func(str string) string {
		value, _err := asm.parenEval(str[2 : len(str)-1])
		if _err != nil {
			err = _err
		}
		return fmt.Sprintf("%#x", value)
	})
	if err != nil {
		return
	}

	words = strings.Fields(strings.ReplaceAll(line, ",", " "))

	if len(words) == 0 {
		return
	}

	// .equ CONST VALUE
	if strings.EqualFold(words[0], ".equ") {
		if len(words) != 3 {
			err = ErrEquateSyntax
			return
		}
		_, ok := asm.Equate[words[1]]
		if ok {
			err = ErrEquateDuplicate
			return
		}
		asm.Equate[words[1]] = asm.substitute(words[2])
		words = words[:0]
		return
	}

	for n, word := range words {
		words[n] = asm.substitute(word)
	}

	for strings.HasSuffix(words[0], ":") {
		label := words[0][:len(words[0])-1]
		_, ok := asm.Label[label]
		if ok {
			err = ErrLabelDuplicate
			return
		}

		if asm.Label == nil {
			asm.Label = make(map[string]uint32, 16)
		}
		asm.Label[label] = asm.currentAddress()
		words = words[1:]
		if len(words) == 0 {
			return
		}
	}

	// .macro processing
	macro, ok := asm.Macro[words[0]]
	if ok {
		name := words[0]

		args := words[1:]
		if len(args) != len(macro.Args) {
			err = ErrMacroSyntax
			return
		}
		// Turn args into equs
		old_equate := maps.Clone(asm.Equate)
		for n, arg := range macro.Args {
			asm.Equate[arg] = words[1+n]
		}
		defer func() { asm.Equate = old_equate }()

		// Local labels are unique per invocation line.
		local := fmt.Sprintf("%v_%v_", name, lineno)

		for n, line := range macro.Lines {
			lineno := macro.LineNo + n

			line = strings.ReplaceAll(line, "@", local)
			words, err = asm.parseLine(line, lineno)
			if err != nil {
				err = &ErrMacro{Macro: name, Line: lineno, Err: err}
				return
			}

			err = asm.parseWords(words, lineno)
			if err != nil {
				err = &ErrMacro{Macro: name, Line: lineno, Err: err}
				return
			}
		}

		words = nil
		return
	}

	return
}

// currentAddress gets the byte address of the next assembled word.
func (asm *Assembler) currentAddress() uint32 {
	if len(asm.Lines) == 0 {
		return ARENA_CODE
	}

	last := asm.Lines[len(asm.Lines)-1]

	return last.Address + uint32(len(last.Codes))*WORD_SIZE
}

// Parse parses an input stream into a Program.
func (asm *Assembler) Parse(input io.Reader) (prog *Program, err error) {

	scanner := bufio.NewScanner(input)

	var line string
	var lineno int
	var macro *Macro

	defer func() {
		if err != nil {
			err = &ErrSyntax{LineNo: lineno, Line: line, Err: err}
		}
	}()

	clear(asm.Label)
	asm.Lines = asm.Lines[:0]
	if asm.Macro == nil {
		asm.Macro = make(map[string](*Macro))
	}
	clear(asm.Macro)
	asm.Equate = maps.Clone(sysEquate)
	for attr, val := range asm.predefine {
		asm.Equate[attr] = val
	}

	for scanner.Scan() {
		text := scanner.Text()
		lineno += 1

		if asm.Verbose {
			log.Printf("%v: %v\n", lineno, text)
		}

		text_comment := strings.Split(text, ";")
		line = strings.TrimSpace(text_comment[0])
		words := strings.Fields(line)

		// .macro NAME arg...
		if len(words) > 0 && strings.EqualFold(words[0], ".macro") {
			if macro != nil {
				err = ErrMacroNesting
				return
			}
			if len(words) < 2 {
				err = ErrMacroSyntax
				return
			}
			_, ok := asm.Macro[words[1]]
			if ok {
				err = ErrMacroDuplicate
				return
			}
			macro = &Macro{
				LineNo: lineno + 1,
			}
			if len(words) > 2 {
				macro.Args = strings.Fields(strings.ReplaceAll(strings.Join(words[2:], " "), ",", " "))
			}
			asm.Macro[words[1]] = macro
			continue
		}

		if len(words) > 0 && strings.EqualFold(words[0], ".endm") {
			if macro == nil {
				err = ErrMacroLonelyEndm
				return
			}
			macro = nil
			continue
		}

		if macro != nil {
			macro.Lines = append(macro.Lines, line)
			continue
		}

		words, err = asm.parseLine(line, lineno)
		if err != nil {
			return
		}

		err = asm.parseWords(words, lineno)
		if err != nil {
			return
		}
	}

	err = scanner.Err()
	if err != nil {
		return
	}

	if macro != nil {
		err = ErrMacroLonely
		return
	}

	// Final linking of jump labels.
	for n := range asm.Lines {
		ln := &asm.Lines[n]

		if len(ln.LinkLabel) == 0 {
			continue
		}
		label := ln.LinkLabel
		addr, ok := asm.Label[label]
		if !ok {
			lineno, line = ln.LineNo, strings.Join(ln.Words, " ")
			err = ErrLabelMissing(label)
			return
		}
		if addr >= ARENA_CODE_LIMIT {
			lineno, line = ln.LineNo, strings.Join(ln.Words, " ")
			err = fmt.Errorf("%w: %v", ErrLinkRange, label)
			return
		}
		linked := &ln.Codes[len(ln.Codes)-1]
		*linked |= addr
	}

	prog = &Program{
		Lines: slices.Clone(asm.Lines),
	}

	return
}

// encodeAll appends the encoded instructions to codes.
func encodeAll(codes []uint32, ins ...Instruction) (out []uint32, err error) {
	out = codes
	for _, in := range ins {
		var code uint32
		code, err = Encode(in)
		if err != nil {
			return
		}
		out = append(out, code)
	}
	return
}

// parseWords evaluates the words in a line of assembly text.
func (asm *Assembler) parseWords(words []string, lineno int) (err error) {
	var codes []uint32
	var label string

	// no-op
	if len(words) == 0 {
		return
	}

	initial_words := words

	defer func() {
		if len(codes) == 0 {
			return
		}
		ln := Line{LineNo: lineno, Address: asm.currentAddress(), Words: initial_words, Codes: codes, LinkLabel: label}
		asm.Lines = append(asm.Lines, ln)
	}()

	mnemonic := strings.ToUpper(words[0])
	args := words[1:]

	need := func(count int) (err error) {
		switch {
		case len(args) < count:
			err = ErrOpcodeMissing
		case len(args) > count:
			err = ErrOpcodeExtraArgs
		}
		return
	}

	switch mnemonic {
	case ".WORD":
		if len(args) == 0 {
			err = ErrWordSyntax
			return
		}
		for _, arg := range args {
			var value uint32
			value, err = asm.valueOf(arg)
			if err != nil {
				err = errors.Join(ErrWordSyntax, err)
				return
			}
			codes = append(codes, value)
		}
		return
	case "PUSH", "POP":
		err = need(1)
		if err != nil {
			return
		}
		var reg Register
		reg, err = asm.register(args[0])
		if err != nil {
			return
		}
		seq := PushSequence(reg)
		if mnemonic == "POP" {
			seq = PopSequence(reg)
		}
		codes, err = encodeAll(codes, seq...)
		return
	}

	if strings.HasPrefix(mnemonic, ".") {
		err = ErrDirectiveInvalid
		return
	}

	var in Instruction

	if op, ok := Lookup(mnemonic, SHAPE_NO_OPERANDS); ok {
		err = need(0)
		in = NoOperands{Op: op}
	} else if op, ok := Lookup(mnemonic, SHAPE_JUMP); ok {
		err = need(1)
		if err != nil {
			return
		}
		target := args[0]
		var value uint32
		value, err = asm.valueOf(target)
		switch {
		case err == nil && value < ARENA_CODE_LIMIT:
			in = Jump{Op: op, Address: uint16(value)}
		case err == nil:
			err = fmt.Errorf("%w: %v", ErrTargetInvalid, target)
		case isLabel(target):
			err = nil
			label = target
			in = Jump{Op: op}
		default:
			err = errors.Join(ErrTargetInvalid, err)
		}
	} else if op, ok := Lookup(mnemonic, SHAPE_REG_UNARY); ok {
		err = need(1)
		if err != nil {
			return
		}
		var dest Register
		dest, err = asm.register(args[0])
		in = RegUnary{Op: op, Dest: dest}
	} else if mnemonic == "LOAD" {
		err = need(2)
		if err != nil {
			return
		}
		var dest, base Register
		dest, err = asm.register(args[0])
		if err != nil {
			return
		}
		base, err = asm.memory(args[1])
		in = Load{Dest: dest, Base: base}
	} else if mnemonic == "STORE" {
		err = need(2)
		if err != nil {
			return
		}
		var base, src Register
		base, err = asm.memory(args[0])
		if err != nil {
			return
		}
		src, err = asm.register(args[1])
		in = Store{Base: base, Src: src}
	} else if _, ok := Lookup(mnemonic, SHAPE_REG_REG); ok {
		err = need(2)
		if err != nil {
			return
		}
		var dest Register
		dest, err = asm.register(args[0])
		if err != nil {
			return
		}
		if strings.HasPrefix(args[1], "#") {
			op, _ := Lookup(mnemonic, SHAPE_REG_IMM)
			var imm uint32
			imm, err = asm.immediate(args[1])
			in = RegImm{Op: op, Dest: dest, Imm: imm}
		} else {
			op, _ := Lookup(mnemonic, SHAPE_REG_REG)
			var src Register
			src, err = asm.register(args[1])
			if err != nil {
				err = errors.Join(ErrImmediateMalformed, err)
			}
			in = RegReg{Op: op, Dest: dest, Src: src}
		}
	} else {
		err = fmt.Errorf("%w: %v", ErrMnemonicInvalid, words[0])
	}

	if err != nil {
		return
	}

	codes, err = encodeAll(codes, in)
	return
}

var reLabel = regexp.MustCompile(`^[A-Za-z_.][A-Za-z0-9_.]*$`)

// isLabel returns true if the word is a valid label name.
func isLabel(word string) bool {
	return reLabel.MatchString(word)
}
