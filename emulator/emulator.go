// Copyright 2024, Jason S. McMullan <jason.mcmullan@gmail.com>

package emulator

import (
	"errors"
	"fmt"
	stdio "io"
	"io/fs"
	"iter"
	"log"
	"maps"

	"github.com/ezrec/rvcore/cpu"
	"github.com/ezrec/rvcore/internal"
	"github.com/ezrec/rvcore/io"
)

const (
	RUN_CYCLES  = 30 // Clock edges run by a scenario.
	RESET_EDGES = 2  // Clock edges with reset asserted.
	READ_PORT   = 0  // Register file port used to read back results.
)

var _emulator_defines = map[string]string{
	"RUN_CYCLES":  fmt.Sprintf("%v", RUN_CYCLES),
	"RESET_EDGES": fmt.Sprintf("%v", RESET_EDGES),
}

// Emulator is the verification bench around the CPU: it loads an image,
// drives clock and reset, and checks the register file.
type Emulator struct {
	Verbose  bool              // If set, enables verbose logging.
	*cpu.Cpu                   // Reference to the CPU simulation.
	Program  *cpu.Program      // Reference to the currently running program listing.
	Image    []uint32          // Instruction memory image loaded at reset.
	Equate   map[string]string // Extra assembler predefines.

	ready bool // Set once reset has been applied.
}

// NewEmulator creates a new emulator.
func NewEmulator() (emu *Emulator) {
	emu = &Emulator{
		Cpu:     cpu.NewCpu(),
		Program: &cpu.Program{},
	}

	return
}

// Defines returns an iterator over all of the defines
func (emu *Emulator) Defines() iter.Seq2[string, string] {
	return internal.IterSeq2Concat(maps.All(_emulator_defines),
		emu.Cpu.Defines(),
	)
}

// Assemble assembles source text, with the emulator defines and Equate
// predefined, as the program and image to run.
func (emu *Emulator) Assemble(source stdio.Reader) (err error) {
	asm := &cpu.Assembler{Verbose: emu.Verbose}
	for key, value := range internal.IterSeq2Concat(emu.Defines(), maps.All(emu.Equate)) {
		asm.Predefine(key, value)
	}

	prog, err := asm.Parse(source)
	if err != nil {
		return
	}

	emu.SetProgram(prog)

	return
}

// SetProgram sets the program listing, and its binary as the image.
func (emu *Emulator) SetProgram(prog *cpu.Program) {
	emu.Program = prog
	emu.Image = prog.Binary()
}

// SetImage sets an image without a program listing.
func (emu *Emulator) SetImage(image []uint32) {
	emu.Program = &cpu.Program{}
	emu.Image = image
}

// Reset loads the image, then holds reset for RESET_EDGES clock edges.
func (emu *Emulator) Reset() (err error) {
	emu.ready = false

	err = emu.Cpu.Load(emu.Image)
	if err != nil {
		return
	}

	emu.Cpu.Verbose = emu.Verbose

	emu.Cpu.SetReset(true)
	for range RESET_EDGES {
		emu.Cpu.Clock()
	}
	emu.Cpu.SetReset(false)

	emu.ready = true

	return
}

// Ticks returns the total ticks since a reset.
func (emu *Emulator) Ticks() int {
	return emu.Cpu.Ticks
}

// Power returns the total power consumed.
func (emu *Emulator) Power() int {
	return emu.Cpu.Power
}

// Code returns the current instruction code.
func (emu *Emulator) Code() cpu.Code {
	return emu.Cpu.FetchCode()
}

// LineNo returns the current line number for the executing opcode.
func (emu *Emulator) LineNo() int {
	dbg := emu.Program.Debug(emu.Cpu.Pc())
	if dbg.Opcode == nil {
		return 0
	}

	return dbg.LineNo
}

// Tick performs a single clock edge of the emulator.
func (emu *Emulator) Tick() (err error) {
	if !emu.ready {
		err = ErrNotReset
		return
	}

	// Set CPU verbosity
	emu.Cpu.Verbose = emu.Verbose

	if emu.Verbose {
		lineno := emu.LineNo()
		if lineno != 0 {
			log.Printf("line %d: %v", lineno, emu.Code())
		}
	}

	emu.Cpu.Clock()

	return
}

// Run performs a number of clock edges.
func (emu *Emulator) Run(cycles int) (err error) {
	for range cycles {
		err = emu.Tick()
		if err != nil {
			return
		}
	}

	return
}

// ReadRegister reads a register through the read port: the address is
// latched at a clock edge, after which the data is sampled.
func (emu *Emulator) ReadRegister(index int) (value uint32, err error) {
	port := emu.Cpu.Port(READ_PORT)
	port.SetAddr(index)

	err = emu.Tick()
	if err != nil {
		return
	}

	value = port.Data()
	return
}

// Check compares the register file with the expected values, reading each
// checked register through the read port. All mismatches are reported.
func (emu *Emulator) Check(exp *io.Expected) (err error) {
	var errs []error

	for reg, value := range exp.All() {
		var actual uint32
		actual, err = emu.ReadRegister(reg)
		if err != nil {
			return
		}
		if actual != value {
			errs = append(errs, &ErrMismatch{Register: reg, Expected: value, Actual: actual})
		}
	}

	err = errors.Join(errs...)

	return
}

// RunScenario loads a scenario image, resets, runs RUN_CYCLES clock
// edges, and checks the scenario's expected register file.
func (emu *Emulator) RunScenario(fx *io.Fixtures, name string) (err error) {
	defer func() {
		if err != nil {
			err = &ErrScenario{Name: name, Err: err}
		}
	}()

	image, err := fx.Image(name)
	if errors.Is(err, fs.ErrNotExist) {
		err = errors.Join(ErrImageMissing, err)
		return
	}
	if err != nil {
		return
	}

	exp, err := fx.Expected(name)
	if err != nil {
		return
	}

	emu.SetImage(image)

	err = emu.Reset()
	if err != nil {
		return
	}

	err = emu.Run(RUN_CYCLES)
	if err != nil {
		return
	}

	if emu.Verbose {
		log.Printf("%v: checking %d registers after %d cycles", name, exp.Count(), RUN_CYCLES)
	}

	return emu.Check(&exp)
}
