package io

import (
	"bufio"
	"fmt"
	"io"
	"iter"

	"github.com/ezrec/rvcore/cpu"
)

// Expect is the golden value of a single register.
type Expect struct {
	Value uint32 // Expected register contents.
	Check bool   // If not set, the register is don't-care.
}

// Expected is the golden register file after a run. Line n of an expected
// file describes register xn.
type Expected [cpu.REG_COUNT]Expect

// ReadExpected reads an expected register file. Blank and '//' lines are
// don't-care, and lines past the last register are ignored.
func ReadExpected(input io.Reader) (exp Expected, err error) {
	scanner := bufio.NewScanner(input)

	lineno := 0
	for lineno < len(exp) && scanner.Scan() {
		line := scanner.Text()
		reg := lineno
		lineno++

		value, ok, perr := parseHex(line)
		if perr != nil {
			err = &ErrSyntax{LineNo: lineno, Line: line, Err: perr}
			return
		}
		if !ok {
			continue
		}

		exp[reg] = Expect{Value: value, Check: true}
	}

	err = scanner.Err()

	return
}

// WriteExpected writes an expected register file, one line per register.
func WriteExpected(output io.Writer, exp Expected) (err error) {
	for reg, expect := range exp {
		var line string
		if expect.Check {
			line = fmt.Sprintf("%08x // %v", expect.Value, cpu.RegisterName(reg))
		} else {
			line = fmt.Sprintf("// %v", cpu.RegisterName(reg))
		}
		_, err = fmt.Fprintln(output, line)
		if err != nil {
			return
		}
	}

	return
}

// ExpectAll creates an expected register file checking every register.
func ExpectAll(regs [cpu.REG_COUNT]uint32) (exp Expected) {
	for reg, value := range regs {
		exp[reg] = Expect{Value: value, Check: true}
	}
	return
}

// Count returns the number of registers checked.
func (exp *Expected) Count() (count int) {
	for _, expect := range exp {
		if expect.Check {
			count++
		}
	}
	return
}

// All iterates over the checked registers and their expected values.
func (exp *Expected) All() iter.Seq2[int, uint32] {
	return func(yield func(reg int, value uint32) bool) {
		for reg, expect := range exp {
			if !expect.Check {
				continue
			}
			if !yield(reg, expect.Value) {
				return
			}
		}
	}
}
