package cpu

import (
	"encoding/binary"
	"iter"
)

// Line is a single assembled source line.
type Line struct {
	LineNo    int      // Source line number.
	Address   uint32   // Byte address of the first word.
	Words     []string // Source words, after equate substitution.
	Codes     []uint32 // Encoded words.
	LinkLabel string   // Jump label linked into the last word, if any.
}

// Program is an assembled program, starting at ARENA_CODE.
type Program struct {
	Lines []Line
}

// Debug locates an address within a program listing.
type Debug struct {
	*Line
	Index int // Word index within the line.
}

// Debug returns the listing line holding an address.
// The Line is nil if the address is not part of the program.
func (prog *Program) Debug(address uint32) (dbg Debug) {
	for n, ln := range prog.Lines {
		end := ln.Address + uint32(len(ln.Codes))*WORD_SIZE
		if address >= ln.Address && address < end {
			dbg = Debug{
				Line:  &prog.Lines[n],
				Index: int(address-ln.Address) / WORD_SIZE,
			}
			break
		}
	}

	return
}

// Codes returns every encoded word, by address.
func (prog *Program) Codes() iter.Seq2[uint32, uint32] {
	return func(yield func(address uint32, code uint32) bool) {
		for _, ln := range prog.Lines {
			for n, code := range ln.Codes {
				if !yield(ln.Address+uint32(n)*WORD_SIZE, code) {
					return
				}
			}
		}
	}
}

// Words returns the encoded program as a contiguous word slice.
func (prog *Program) Words() (words []uint32) {
	for _, code := range prog.Codes() {
		words = append(words, code)
	}
	return
}

// Binary returns the program as little-endian bytes, ready for
// Cpu.LoadProgram at ARENA_CODE.
func (prog *Program) Binary() (bin []byte) {
	for _, code := range prog.Words() {
		bin = binary.LittleEndian.AppendUint32(bin, code)
	}

	return
}
