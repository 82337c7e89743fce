package cpu

import (
	"encoding/binary"
	"errors"
)

// WORD_SIZE is the size of a memory word, and of an instruction, in bytes.
const WORD_SIZE = 4

// Memory is a flat byte addressable memory with little-endian words.
type Memory struct {
	data []byte
}

// NewMemory allocates memory of size bytes.
func NewMemory(size uint32) (mem *Memory) {
	mem = &Memory{
		data: make([]byte, size),
	}
	return
}

// Size returns the size of memory in bytes.
func (mem *Memory) Size() uint32 {
	return uint32(len(mem.data))
}

// checkRange verifies that [address, address+count) is inside memory.
func (mem *Memory) checkRange(address uint32, count uint64) (err error) {
	if uint64(address)+count > uint64(len(mem.data)) {
		err = &ErrAddress{Address: address, Err: ErrAddressRange}
	}
	return
}

// checkWord verifies that a word access at address is in range and aligned.
func (mem *Memory) checkWord(address uint32) (err error) {
	err = mem.checkRange(address, WORD_SIZE)
	if err != nil {
		return
	}
	if address%WORD_SIZE != 0 {
		err = &ErrAddress{Address: address, Err: ErrAddressAlign}
	}
	return
}

// Read8 reads a byte.
func (mem *Memory) Read8(address uint32) (value byte, err error) {
	err = mem.checkRange(address, 1)
	if err != nil {
		return
	}

	value = mem.data[address]
	return
}

// Write8 writes a byte.
func (mem *Memory) Write8(address uint32, value byte) (err error) {
	err = mem.checkRange(address, 1)
	if err != nil {
		return
	}

	mem.data[address] = value
	return
}

// Read32 reads an aligned little-endian word.
func (mem *Memory) Read32(address uint32) (value uint32, err error) {
	err = mem.checkWord(address)
	if err != nil {
		return
	}

	value = binary.LittleEndian.Uint32(mem.data[address:])
	return
}

// Write32 writes an aligned little-endian word.
// Memory is untouched if the address is invalid.
func (mem *Memory) Write32(address uint32, value uint32) (err error) {
	err = mem.checkWord(address)
	if err != nil {
		return
	}

	binary.LittleEndian.PutUint32(mem.data[address:], value)
	return
}

// Load copies data into memory at address, failing before any byte is
// written if the data does not fit.
func (mem *Memory) Load(address uint32, data []byte) (err error) {
	err = mem.checkRange(address, uint64(len(data)))
	if err != nil {
		err = errors.Join(ErrProgramSize, err)
		return
	}

	copy(mem.data[address:], data)
	return
}

// Dump returns a copy of count bytes starting at address, clipped to the
// end of memory.
func (mem *Memory) Dump(address uint32, count uint32) (data []byte) {
	size := uint64(len(mem.data))
	start := min(uint64(address), size)
	end := min(start+uint64(count), size)

	data = make([]byte, end-start)
	copy(data, mem.data[start:end])
	return
}

// Clear zeroes all of memory.
func (mem *Memory) Clear() {
	clear(mem.data)
}
