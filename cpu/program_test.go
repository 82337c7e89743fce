package cpu

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestProgramDebug(t *testing.T) {
	assert := assert.New(t)

	prog := assemble(t,
		"MOV R1, #7",
		"",
		"PUSH R1",
		"HALT",
	)

	table := [](struct {
		address uint32
		lineno  int
		index   int
	}){
		{0, 1, 0},
		{4, 3, 0},
		{8, 3, 1},
		{11, 3, 1},
		{12, 4, 0},
	}

	for _, entry := range table {
		dbg := prog.Debug(entry.address)
		if assert.NotNil(dbg.Line, "0x%x", entry.address) {
			assert.Equal(entry.lineno, dbg.LineNo, "0x%x", entry.address)
			assert.Equal(entry.index, dbg.Index, "0x%x", entry.address)
		}
	}

	assert.Nil(prog.Debug(16).Line)
}

func TestProgramBinary(t *testing.T) {
	assert := assert.New(t)

	prog := assemble(t,
		"MOV R0, #-1",
		"HALT",
	)

	assert.Equal([]byte{
		0xff, 0xff, 0x00, 0x11,
		0x00, 0x00, 0x00, 0x01,
	}, prog.Binary())

	var addresses []uint32
	var codes []uint32
	for address, code := range prog.Codes() {
		addresses = append(addresses, address)
		codes = append(codes, code)
	}
	assert.Equal([]uint32{0, 4}, addresses)
	assert.Equal([]uint32{0x1100ffff, 0x01000000}, codes)

	empty := &Program{}
	assert.Nil(empty.Binary())
	assert.Nil(empty.Words())
}
