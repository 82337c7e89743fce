package cpu

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMemoryWord(t *testing.T) {
	assert := assert.New(t)

	mem := NewMemory(64)
	assert.Equal(uint32(64), mem.Size())

	for address := uint32(0); address < mem.Size(); address += WORD_SIZE {
		assert.NoError(mem.Write32(address, 0xcafe0000|address))
	}
	for address := uint32(0); address < mem.Size(); address += WORD_SIZE {
		value, err := mem.Read32(address)
		assert.NoError(err)
		assert.Equal(0xcafe0000|address, value)
	}

	// Little-endian byte order.
	assert.NoError(mem.Write32(8, 0x11223344))
	for n, expected := range []byte{0x44, 0x33, 0x22, 0x11} {
		value, err := mem.Read8(8 + uint32(n))
		assert.NoError(err)
		assert.Equal(expected, value)
	}
}

func TestMemoryFault(t *testing.T) {
	assert := assert.New(t)

	mem := NewMemory(64)
	assert.NoError(mem.Write32(0, 0x01020304))
	before := mem.Dump(0, 64)

	table := [](struct {
		name    string
		address uint32
		err     error
	}){
		{"misaligned", 2, ErrAddressAlign},
		{"end", 64, ErrAddressRange},
		{"straddle", 62, ErrAddressRange},
		{"wrap", 0xfffffffc, ErrAddressRange},
	}

	for _, entry := range table {
		err := mem.Write32(entry.address, 0xdeadbeef)
		assert.ErrorIs(err, entry.err, entry.name)
		var ea *ErrAddress
		if assert.True(errors.As(err, &ea), entry.name) {
			assert.Equal(entry.address, ea.Address, entry.name)
		}

		_, err = mem.Read32(entry.address)
		assert.ErrorIs(err, entry.err, entry.name)
	}

	assert.Equal(before, mem.Dump(0, 64))

	_, err := mem.Read8(64)
	assert.ErrorIs(err, ErrAddressRange)
	err = mem.Write8(64, 1)
	assert.ErrorIs(err, ErrAddressRange)
}

func TestMemoryLoad(t *testing.T) {
	assert := assert.New(t)

	mem := NewMemory(16)

	err := mem.Load(12, []byte{1, 2, 3, 4, 5})
	assert.ErrorIs(err, ErrProgramSize)
	assert.ErrorIs(err, ErrAddressRange)
	assert.Equal(make([]byte, 16), mem.Dump(0, 16))

	assert.NoError(mem.Load(12, []byte{1, 2, 3, 4}))
	value, err := mem.Read32(12)
	assert.NoError(err)
	assert.Equal(uint32(0x04030201), value)

	assert.Equal([]byte{1, 2, 3, 4}, mem.Dump(12, 100))
	assert.Equal([]byte{}, mem.Dump(100, 4))

	mem.Clear()
	assert.Equal(make([]byte, 16), mem.Dump(0, 16))
}
