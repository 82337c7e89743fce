package rom

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestImage(t *testing.T) {
	assert := assert.New(t)

	img := &Image{Origin: 0x100, Data: []uint32{0x1100ffff, 0x01000000}}
	assert.Equal(uint32(8), img.Size())
	assert.Equal([]byte{0xff, 0xff, 0x00, 0x11, 0x00, 0x00, 0x00, 0x01}, img.Bytes())

	var addresses []uint32
	for address, word := range img.Words() {
		addresses = append(addresses, address)
		assert.Equal(img.Data[len(addresses)-1], word)
	}
	assert.Equal([]uint32{0x100, 0x104}, addresses)

	again, err := FromBytes(img.Bytes(), 0x100)
	assert.NoError(err)
	assert.Equal(img, again)

	_, err = FromBytes([]byte{1, 2, 3}, 0)
	assert.ErrorIs(err, ErrImageSize)
	_, err = FromBytes(nil, 2)
	assert.ErrorIs(err, ErrImageOrigin)
}

func TestBinary(t *testing.T) {
	assert := assert.New(t)

	img := &Image{Data: []uint32{0x11223344, 0xdeadbeef}}

	buf := &bytes.Buffer{}
	require.NoError(t, WriteBinary(buf, img))
	assert.Equal([]byte{0x44, 0x33, 0x22, 0x11, 0xef, 0xbe, 0xad, 0xde}, buf.Bytes())

	again, err := ReadBinary(bytes.NewReader(buf.Bytes()), 0)
	assert.NoError(err)
	assert.Equal(img.Data, again.Data)

	_, err = ReadBinary(strings.NewReader("abcde"), 0)
	assert.ErrorIs(err, ErrImageSize)
}

func TestHex(t *testing.T) {
	assert := assert.New(t)

	img := &Image{Origin: 0x40, Data: []uint32{1, 2, 3, 4, 5, 0xffffffff}}

	buf := &bytes.Buffer{}
	require.NoError(t, WriteHex(buf, img))
	assert.Equal(strings.Join([]string{
		"; origin 0x00040, 6 words",
		"00040: 00000001 00000002 00000003 00000004",
		"00050: 00000005 ffffffff",
		"",
	}, "\n"), buf.String())

	again, err := ReadHex(strings.NewReader(buf.String()))
	assert.NoError(err)
	assert.Equal(img, again)

	text := strings.Join([]string{
		"",
		"; a comment",
		"0: 1100000A 01000000 ; trailing",
		"   8:",
		"8: DEADBEEF",
	}, "\n")
	img, err = ReadHex(strings.NewReader(text))
	assert.NoError(err)
	assert.Equal(&Image{Data: []uint32{0x1100000a, 0x01000000, 0xdeadbeef}}, img)

	buf.Reset()
	require.NoError(t, WriteHex(buf, &Image{Data: []uint32{1, 2, 3, 4}}))
	assert.Equal("; origin 0x00000, 4 words\n00000: 00000001 00000002 00000003 00000004\n", buf.String())

	buf.Reset()
	require.NoError(t, WriteHex(buf, &Image{}))
	assert.Equal("; origin 0x00000, 0 words\n", buf.String())
}

func TestHexFault(t *testing.T) {
	assert := assert.New(t)

	table := [](struct {
		name   string
		text   string
		lineno int
		err    error
	}){
		{"no_colon", "00000 00000001", 1, ErrHexSyntax},
		{"bad_word", "0: 0000000g", 1, ErrHexSyntax},
		{"wide_word", "0: 100000000", 1, ErrHexSyntax},
		{"bad_address", "zz: 00000001", 1, ErrHexAddress},
		{"misaligned", "2: 00000001", 1, ErrHexAddress},
		{"gap", "0: 1\n8: 2", 2, ErrHexGap},
	}

	for _, entry := range table {
		img, err := ReadHex(strings.NewReader(entry.text))
		assert.ErrorIs(err, entry.err, entry.name)
		assert.Nil(img, entry.name)
		var lerr *ErrLine
		if assert.True(errors.As(err, &lerr), entry.name) {
			assert.Equal(entry.lineno, lerr.LineNo, entry.name)
		}
	}
}

func TestFormat(t *testing.T) {
	assert := assert.New(t)

	for _, format := range []Format{FORMAT_BINARY, FORMAT_HEX} {
		parsed, err := ParseFormat(strings.ToUpper(format.String()))
		assert.NoError(err)
		assert.Equal(format, parsed)

		img := &Image{Data: []uint32{0x01000000}}
		buf := &bytes.Buffer{}
		assert.NoError(Write(buf, format, img))
		again, err := Read(buf, format, 0)
		assert.NoError(err)
		assert.Equal(img, again, format.String())
	}

	_, err := ParseFormat("elf")
	assert.ErrorIs(err, ErrFormat)
	assert.ErrorIs(Write(&bytes.Buffer{}, Format(7), &Image{}), ErrFormat)
	_, err = Read(&bytes.Buffer{}, Format(7), 0)
	assert.ErrorIs(err, ErrFormat)
}
