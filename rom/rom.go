// Package rom reads and writes program images: little-endian 32-bit words
// placed at an origin address.
package rom

import (
	"encoding/binary"
	"iter"
)

// WORD_SIZE is the size of an image word, in bytes.
const WORD_SIZE = 4

// Image is a program image.
type Image struct {
	Origin uint32   // Load address of the first word.
	Data   []uint32 // Image words.
}

// Size returns the size of the image in bytes.
func (img *Image) Size() uint32 {
	return uint32(len(img.Data)) * WORD_SIZE
}

// Bytes returns the image as little-endian bytes.
func (img *Image) Bytes() (data []byte) {
	data = make([]byte, 0, img.Size())
	for _, word := range img.Data {
		data = binary.LittleEndian.AppendUint32(data, word)
	}
	return
}

// Words returns an iterator of image words by address.
func (img *Image) Words() iter.Seq2[uint32, uint32] {
	return func(yield func(address uint32, word uint32) bool) {
		for n, word := range img.Data {
			if !yield(img.Origin+uint32(n)*WORD_SIZE, word) {
				return
			}
		}
	}
}

// FromBytes creates an image from little-endian bytes.
func FromBytes(data []byte, origin uint32) (img *Image, err error) {
	if origin%WORD_SIZE != 0 {
		err = ErrImageOrigin
		return
	}
	if len(data)%WORD_SIZE != 0 {
		err = ErrImageSize
		return
	}

	img = &Image{
		Origin: origin,
		Data:   make([]uint32, 0, len(data)/WORD_SIZE),
	}
	for n := 0; n < len(data); n += WORD_SIZE {
		img.Data = append(img.Data, binary.LittleEndian.Uint32(data[n:]))
	}

	return
}
