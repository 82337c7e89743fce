package rom

import (
	"io"
	"strings"
)

// Format is an image file format.
type Format int

//go:generate go tool stringer -linecomment -type=Format
const (
	FORMAT_BINARY = Format(0) // bin
	FORMAT_HEX    = Format(1) // hex
)

// ParseFormat returns the format with the given name.
func ParseFormat(name string) (format Format, err error) {
	switch strings.ToLower(name) {
	case FORMAT_BINARY.String():
		format = FORMAT_BINARY
	case FORMAT_HEX.String():
		format = FORMAT_HEX
	default:
		err = ErrFormat
	}
	return
}

// Read reads an image in the given format. The origin applies to
// formats that do not record one.
func Read(r io.Reader, format Format, origin uint32) (img *Image, err error) {
	switch format {
	case FORMAT_BINARY:
		img, err = ReadBinary(r, origin)
	case FORMAT_HEX:
		img, err = ReadHex(r)
	default:
		err = ErrFormat
	}
	return
}

// Write writes an image in the given format.
func Write(w io.Writer, format Format, img *Image) (err error) {
	switch format {
	case FORMAT_BINARY:
		err = WriteBinary(w, img)
	case FORMAT_HEX:
		err = WriteHex(w, img)
	default:
		err = ErrFormat
	}
	return
}
