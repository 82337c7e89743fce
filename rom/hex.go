package rom

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// HEX_ROW_WORDS is the number of words WriteHex puts on a row.
const HEX_ROW_WORDS = 4

// WriteHex writes an image as hex text rows of the form
//
//	ADDR: WORD WORD WORD WORD
//
// Addresses and words are hexadecimal, without a prefix.
func WriteHex(w io.Writer, img *Image) (err error) {
	bw := bufio.NewWriter(w)

	_, err = fmt.Fprintf(bw, "; origin 0x%05x, %d words\n", img.Origin, len(img.Data))
	if err != nil {
		return
	}

	n := 0
	for address, word := range img.Words() {
		if n%HEX_ROW_WORDS == 0 {
			if n != 0 {
				_, err = fmt.Fprintln(bw)
				if err != nil {
					return
				}
			}
			_, err = fmt.Fprintf(bw, "%05x:", address)
			if err != nil {
				return
			}
		}
		_, err = fmt.Fprintf(bw, " %08x", word)
		if err != nil {
			return
		}
		n++
	}
	if n != 0 {
		_, err = fmt.Fprintln(bw)
		if err != nil {
			return
		}
	}

	err = bw.Flush()
	return
}

// ReadHex reads hex text rows written by WriteHex. Text following a ';'
// is a comment. The first row sets the image origin; later rows must
// continue where the previous row ended.
func ReadHex(r io.Reader) (img *Image, err error) {
	scanner := bufio.NewScanner(r)

	var lineno int
	defer func() {
		if err != nil {
			err = &ErrLine{LineNo: lineno, Err: err}
			img = nil
		}
	}()

	img = &Image{}
	started := false

	for scanner.Scan() {
		lineno++
		line, _, _ := strings.Cut(scanner.Text(), ";")
		line = strings.TrimSpace(line)
		if len(line) == 0 {
			continue
		}

		addr_text, words_text, ok := strings.Cut(line, ":")
		if !ok {
			err = ErrHexSyntax
			return
		}

		var address uint64
		address, err = strconv.ParseUint(strings.TrimSpace(addr_text), 16, 32)
		if err != nil {
			err = errors.Join(ErrHexAddress, err)
			return
		}
		if address%WORD_SIZE != 0 {
			err = errors.Join(ErrHexAddress, ErrImageOrigin)
			return
		}

		if !started {
			img.Origin = uint32(address)
			started = true
		} else if uint32(address) != img.Origin+img.Size() {
			err = fmt.Errorf("%w: 0x%05x", ErrHexGap, address)
			return
		}

		for _, text := range strings.Fields(words_text) {
			var word uint64
			word, err = strconv.ParseUint(text, 16, 32)
			if err != nil {
				err = errors.Join(ErrHexSyntax, err)
				return
			}
			img.Data = append(img.Data, uint32(word))
		}
	}

	err = scanner.Err()
	return
}
