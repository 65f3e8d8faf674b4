package io

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/ezrec/rvcore/cpu"
)

// parseHex parses a fixture line holding a single 32-bit hex word.
// Inline '//' comments are stripped; ok is false for blank lines.
func parseHex(line string) (value uint32, ok bool, err error) {
	index := strings.Index(line, "//")
	if index >= 0 {
		line = line[:index]
	}

	line = strings.TrimSpace(line)
	if len(line) == 0 {
		return
	}

	if line[0] == '@' {
		err = ErrAddressMarker
		return
	}

	line = strings.TrimPrefix(strings.TrimPrefix(line, "0x"), "0X")
	line = strings.ReplaceAll(line, "_", "")

	v64, err := strconv.ParseUint(line, 16, 32)
	if err != nil {
		err = ErrHexValue
		return
	}

	value = uint32(v64)
	ok = true
	return
}

// ReadImage reads an instruction memory image: one hex word per line,
// with blank lines and '//' comments ignored.
func ReadImage(input io.Reader) (image []uint32, err error) {
	scanner := bufio.NewScanner(input)

	lineno := 0
	for scanner.Scan() {
		lineno++
		line := scanner.Text()

		value, ok, perr := parseHex(line)
		if perr != nil {
			err = &ErrSyntax{LineNo: lineno, Line: line, Err: perr}
			return
		}
		if !ok {
			continue
		}

		image = append(image, value)
		if len(image) > cpu.IMEM_WORDS {
			err = cpu.ErrImageSize(len(image))
			return
		}
	}

	err = scanner.Err()

	return
}

// WriteImage writes an instruction memory image. If comments is not
// nil, each word is followed by its comment.
func WriteImage(output io.Writer, image []uint32, comments []string) (err error) {
	for n, word := range image {
		line := fmt.Sprintf("%08x", word)
		if n < len(comments) && len(comments[n]) > 0 {
			line += " // " + comments[n]
		}
		_, err = fmt.Fprintln(output, line)
		if err != nil {
			return
		}
	}

	return
}
