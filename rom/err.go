package rom

import (
	"errors"

	"github.com/ezrec/cpu32/translate"
)

var f = translate.From

var (
	ErrImageSize   = errors.New(f("image size is not a multiple of the word size"))
	ErrImageOrigin = errors.New(f("image origin is not word aligned"))
	ErrHexSyntax   = errors.New(f("hex row syntax"))
	ErrHexAddress  = errors.New(f("hex row address"))
	ErrHexGap      = errors.New(f("hex rows are not contiguous"))
	ErrFormat      = errors.New(f("image format unknown"))
)

// ErrLine indicates the line of a hex image that failed to parse.
type ErrLine struct {
	LineNo int
	Err    error
}

func (err *ErrLine) Error() string {
	return f("line %d %v", err.LineNo, err.Err)
}

func (err *ErrLine) Unwrap() error {
	return err.Err
}
