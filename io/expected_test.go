package io

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestReadExpected(t *testing.T) {
	assert := assert.New(t)

	text := strings.Join([]string{
		"00000000",
		"00000005 // x1",
		"",
		"// x3 is don't care",
		"FFFFFFFE",
	}, "\n")

	exp, err := ReadExpected(strings.NewReader(text))
	assert.NoError(err)
	assert.Equal(3, exp.Count())
	assert.Equal(Expect{Value: 0, Check: true}, exp[0])
	assert.Equal(Expect{Value: 5, Check: true}, exp[1])
	assert.False(exp[2].Check)
	assert.False(exp[3].Check)
	assert.Equal(Expect{Value: 0xfffffffe, Check: true}, exp[4])

	regs := map[int]uint32{}
	for reg, value := range exp.All() {
		regs[reg] = value
	}
	assert.Equal(map[int]uint32{0: 0, 1: 5, 4: 0xfffffffe}, regs)
}

func TestReadExpectedLimits(t *testing.T) {
	assert := assert.New(t)

	// Lines past x31 are never parsed.
	text := strings.Repeat("00000001\n", 32) + "garbage\n"
	exp, err := ReadExpected(strings.NewReader(text))
	assert.NoError(err)
	assert.Equal(32, exp.Count())

	exp, err = ReadExpected(strings.NewReader(""))
	assert.NoError(err)
	assert.Equal(0, exp.Count())

	_, err = ReadExpected(strings.NewReader("00000000\nxyzzy // bad\n"))
	assert.ErrorIs(err, ErrHexValue)
	assert.Contains(err.Error(), "xyzzy")
}

func TestWriteExpected(t *testing.T) {
	assert := assert.New(t)

	var regs [32]uint32
	regs[1] = 5
	regs[31] = 0xdeadbeef

	exp := ExpectAll(regs)
	exp[2].Check = false

	buff := &bytes.Buffer{}
	assert.NoError(WriteExpected(buff, exp))

	lines := strings.Split(strings.TrimSpace(buff.String()), "\n")
	assert.Equal(32, len(lines))
	assert.Equal("00000005 // x1", lines[1])
	assert.Equal("// x2", lines[2])
	assert.Equal("deadbeef // x31", lines[31])

	again, err := ReadExpected(buff)
	assert.NoError(err)
	assert.Equal(exp, again)
}
