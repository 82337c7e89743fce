package rom

import (
	"io"
)

// ReadBinary reads a raw little-endian image, to be placed at origin.
func ReadBinary(r io.Reader, origin uint32) (img *Image, err error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return
	}

	img, err = FromBytes(data, origin)
	return
}

// WriteBinary writes an image as raw little-endian words.
// The origin is not recorded.
func WriteBinary(w io.Writer, img *Image) (err error) {
	_, err = w.Write(img.Bytes())
	return
}
