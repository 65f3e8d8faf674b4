package emulator

import (
	"errors"
	"io/fs"
	"os"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ezrec/rvcore/cpu"
	"github.com/ezrec/rvcore/io"
)

var scenarios = []string{"branch", "i_type", "j_type", "r_type", "store"}

func testFixtures() *io.Fixtures {
	return &io.Fixtures{FS: os.DirFS("testdata/program")}
}

func TestEmulator(t *testing.T) {
	assert := assert.New(t)

	emu := NewEmulator()

	assert.False(emu.Verbose)
	assert.NotNil(emu.Cpu)
	assert.NotNil(emu.Program)

	defines := map[string]string{}
	for key, value := range emu.Defines() {
		defines[key] = value
	}
	assert.Equal("30", defines["RUN_CYCLES"])
	assert.Equal("2", defines["RESET_EDGES"])
	assert.Equal("1024", defines["IMEM_WORDS"])
}

func TestEmulatorNotReset(t *testing.T) {
	assert := assert.New(t)

	emu := NewEmulator()
	assert.ErrorIs(emu.Tick(), ErrNotReset)
	assert.ErrorIs(emu.Run(1), ErrNotReset)

	_, err := emu.ReadRegister(1)
	assert.ErrorIs(err, ErrNotReset)

	emu.SetImage(make([]uint32, cpu.IMEM_WORDS+1))
	var sizeErr cpu.ErrImageSize
	assert.True(errors.As(emu.Reset(), &sizeErr))
	assert.ErrorIs(emu.Tick(), ErrNotReset)
}

func TestEmulatorScenarios(t *testing.T) {
	fx := testFixtures()

	names, err := fx.Scenarios()
	require.NoError(t, err)
	assert.Equal(t, scenarios, names)

	for _, name := range names {
		t.Run(name, func(t *testing.T) {
			assert := assert.New(t)

			emu := NewEmulator()
			err := emu.RunScenario(fx, name)
			assert.NoError(err)
			if err != nil {
				t.Log(emu.Cpu.String())
			}
			assert.Equal(0, emu.Cpu.Illegal)
			assert.Equal(cpu.STATE_RUNNING, emu.Cpu.State())
		})
	}
}

func TestEmulatorSources(t *testing.T) {
	fx := testFixtures()

	for _, name := range scenarios {
		t.Run(name, func(t *testing.T) {
			assert := assert.New(t)

			source, err := fx.Source(name)
			require.NoError(t, err)
			defer source.Close()

			emu := NewEmulator()
			err = emu.Assemble(source)
			require.NoError(t, err)

			image, err := fx.Image(name)
			require.NoError(t, err)
			assert.Equal(image, emu.Image)

			// The program listing tracks execution.
			require.NoError(t, emu.Reset())
			for range RUN_CYCLES {
				lineno := emu.LineNo()
				assert.NotEqual(0, lineno, "%08x", emu.Cpu.Pc())
				assert.NoError(emu.Tick())
			}
		})
	}
}

func TestEmulatorReset(t *testing.T) {
	assert := assert.New(t)

	emu := NewEmulator()
	require.NoError(t, emu.RunScenario(testFixtures(), "r_type"))
	assert.Equal(uint32(5), emu.Cpu.Register(1))
	assert.NotZero(emu.Power())

	require.NoError(t, emu.Reset())
	assert.Equal([cpu.REG_COUNT]uint32{}, emu.Cpu.Registers())
	assert.Equal(0, emu.Ticks())
	assert.Equal(0, emu.Power())

	for n := range cpu.REG_COUNT {
		value, err := emu.ReadRegister(n)
		assert.NoError(err)
		if n == 0 {
			assert.Equal(uint32(0), value)
		}
	}

	// Only the read edges have run since the reset, and the program has
	// settled in its final loop.
	assert.Equal(cpu.REG_COUNT, emu.Ticks())
	assert.Equal(uint32(60), emu.Cpu.Pc())
}

func TestEmulatorReadRegister(t *testing.T) {
	assert := assert.New(t)

	emu := NewEmulator()
	err := emu.Assemble(strings.NewReader(strings.Join([]string{
		"addi x1, x0, 1",
		"addi x1, x1, 1",
		"addi x1, x1, 1",
		"done: j done",
	}, "\n")))
	require.NoError(t, err)
	require.NoError(t, emu.Reset())

	// Each read is a clock edge: the written value is visible after it.
	value, err := emu.ReadRegister(1)
	assert.NoError(err)
	assert.Equal(uint32(1), value)

	value, err = emu.ReadRegister(1)
	assert.NoError(err)
	assert.Equal(uint32(2), value)

	value, err = emu.ReadRegister(1)
	assert.NoError(err)
	assert.Equal(uint32(3), value)
	assert.Equal(4, emu.LineNo())
}

func TestEmulatorMismatch(t *testing.T) {
	assert := assert.New(t)

	fx := &io.Fixtures{FS: fstest.MapFS{
		"input/test_wrong.mem": {Data: []byte("00500093\n00100113\n0000006f\n")},
		"expected/test_wrong.mem": {Data: []byte(strings.Join([]string{
			"00000000",
			"00000006 // x1 is 5",
			"00000001",
			"00000007 // x3 is 0",
		}, "\n"))},
	}}

	emu := NewEmulator()
	err := emu.RunScenario(fx, "wrong")
	require.Error(t, err)

	var se *ErrScenario
	require.True(t, errors.As(err, &se))
	assert.Equal("wrong", se.Name)

	joined, ok := se.Err.(interface{ Unwrap() []error })
	require.True(t, ok)
	errs := joined.Unwrap()
	assert.Equal(2, len(errs))

	var mismatch *ErrMismatch
	require.True(t, errors.As(errs[0], &mismatch))
	assert.Equal(ErrMismatch{Register: 1, Expected: 6, Actual: 5}, *mismatch)
	assert.Equal("register x1 expected 00000006, got 00000005", mismatch.Error())

	require.True(t, errors.As(errs[1], &mismatch))
	assert.Equal(ErrMismatch{Register: 3, Expected: 7, Actual: 0}, *mismatch)
}

func TestEmulatorMissing(t *testing.T) {
	assert := assert.New(t)

	fx := &io.Fixtures{FS: fstest.MapFS{
		"input/test_bare.mem":      {Data: []byte("00500093\n0000006f\n")},
		"expected/test_broken.mem": {Data: []byte("zzz\n")},
		"input/test_broken.mem":    {Data: []byte("00000013\n")},
		"input/test_garbled.mem":   {Data: []byte("00000013\nzz\n")},
		"input/test_huge.mem":      {Data: []byte(strings.Repeat("00000013\n", cpu.IMEM_WORDS+1))},
	}}

	emu := NewEmulator()

	// No expected file, nothing to check.
	assert.NoError(emu.RunScenario(fx, "bare"))
	assert.Equal(uint32(5), emu.Cpu.Register(1))

	err := emu.RunScenario(fx, "absent")
	assert.ErrorIs(err, ErrImageMissing)
	assert.ErrorIs(err, fs.ErrNotExist)

	err = emu.RunScenario(fx, "broken")
	assert.ErrorIs(err, io.ErrHexValue)

	// A malformed image is present, so it is not reported as missing.
	err = emu.RunScenario(fx, "garbled")
	assert.ErrorIs(err, io.ErrHexValue)
	assert.NotErrorIs(err, ErrImageMissing)
	assert.NotContains(err.Error(), ErrImageMissing.Error())

	err = emu.RunScenario(fx, "huge")
	var sizeErr cpu.ErrImageSize
	assert.True(errors.As(err, &sizeErr))
	assert.NotErrorIs(err, ErrImageMissing)
}

func TestEmulatorEquate(t *testing.T) {
	assert := assert.New(t)

	emu := NewEmulator()
	emu.Equate = map[string]string{"LIMIT": "12"}
	err := emu.Assemble(strings.NewReader(strings.Join([]string{
		"addi x1, x0, LIMIT",
		"addi x2, x0, RESET_EDGES",
		"done: j done",
	}, "\n")))
	require.NoError(t, err)
	require.NoError(t, emu.Reset())
	require.NoError(t, emu.Run(3))

	assert.Equal(uint32(12), emu.Cpu.Register(1))
	assert.Equal(uint32(RESET_EDGES), emu.Cpu.Register(2))
}
