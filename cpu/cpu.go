package cpu

import (
	"fmt"
	"iter"
	"log"
	"maps"

	"github.com/ezrec/rvcore/alu"
)

// State is the datapath sequencing state.
type State int

//go:generate go tool stringer -linecomment -type=State
const (
	STATE_RESET   = State(0) // reset
	STATE_RUNNING = State(1) // running
)

var _cpu_defines = map[string]string{
	"RESET_PC":   fmt.Sprintf("0x%x", RESET_PC),
	"IMEM_WORDS": fmt.Sprintf("%d", IMEM_WORDS),
	"DMEM_SIZE":  fmt.Sprintf("%d", DMEM_SIZE),
}

// Cpu is the simulation context of the single-cycle RV32I datapath.
//
// All architectural state changes at a clock edge: drive the reset input
// with SetReset and the read port addresses with Port(n).SetAddr, then call
// Clock.
type Cpu struct {
	Verbose bool // Set to enable verbose logging.

	Rom    Rom    // Instruction memory.
	Memory Memory // Data memory.

	Power   int // Power (register bits flipped) counter.
	Ticks   int // Running clock edges since reset.
	Retired int // Instructions retired since reset.
	Illegal int // Illegal instructions retired as no-ops since reset.

	pc       uint32
	state    State
	reset    bool
	resets   int // Consecutive edges with reset asserted.
	register RegisterFile
	port     [PORT_COUNT]ReadPort
}

// NewCpu creates a CPU, in reset state with no program loaded.
func NewCpu() (cpu *Cpu) {
	cpu = &Cpu{}

	for n := range cpu.port {
		cpu.port[n].rf = &cpu.register
	}

	cpu.clear()

	return
}

// Defines for the cpu
func (cpu *Cpu) Defines() iter.Seq2[string, string] {
	return maps.All(_cpu_defines)
}

// Load replaces the instruction memory image.
func (cpu *Cpu) Load(image []uint32) (err error) {
	return cpu.Rom.Load(image)
}

// Pc returns the program counter.
func (cpu *Cpu) Pc() uint32 {
	return cpu.pc
}

// State returns the sequencing state as of the last clock edge.
func (cpu *Cpu) State() State {
	return cpu.state
}

// ResetEdges returns the number of consecutive clock edges seen with reset
// asserted, up to the most recent edge.
func (cpu *Cpu) ResetEdges() int {
	return cpu.resets
}

// Register returns the committed value of a register.
func (cpu *Cpu) Register(index int) uint32 {
	return cpu.register.Read(index)
}

// Registers returns the committed value of all registers.
func (cpu *Cpu) Registers() [REG_COUNT]uint32 {
	return cpu.register.Snapshot()
}

// Port returns an observation read port on the register file.
func (cpu *Cpu) Port(n int) *ReadPort {
	return &cpu.port[n]
}

// SetReset drives the synchronous reset input. It takes effect at the next
// clock edge.
func (cpu *Cpu) SetReset(asserted bool) {
	cpu.reset = asserted
}

// String returns the current CPU state as a string.
func (cpu *Cpu) String() (text string) {
	text += fmt.Sprintf("% 5s: %08x\n", "pc", cpu.pc)
	text += fmt.Sprintf("% 5s: %v\n", "state", cpu.state)
	for n := 0; n < REG_COUNT; n += 4 {
		for c := range 4 {
			reg := n + c
			text += fmt.Sprintf("% 4s/%-4s %04X_%04X  ", RegisterName(reg), RegisterAbiName(reg),
				cpu.Register(reg)>>16, cpu.Register(reg)&0xffff)
		}
		text += "\n"
	}

	return
}

// clear forces all architectural state to its reset value.
func (cpu *Cpu) clear() {
	cpu.pc = RESET_PC
	cpu.state = STATE_RESET
	cpu.register.reset()
	cpu.Memory.reset()
	cpu.Ticks = 0
	cpu.Retired = 0
	cpu.Illegal = 0
	cpu.Power = 0
}

// Clock performs a single rising clock edge.
//
// With reset asserted, the program counter, register file, data memory and
// counters are cleared and no instruction executes. Otherwise exactly one
// instruction is fetched, executed and written back. The read port
// addresses are latched on every edge.
func (cpu *Cpu) Clock() {
	if cpu.reset {
		if cpu.Verbose && cpu.resets == 0 {
			log.Printf("cpu: reset")
		}
		cpu.clear()
		cpu.resets++
	} else {
		if cpu.Verbose && cpu.state == STATE_RESET {
			log.Printf("cpu: run from %08x after %d reset edges", cpu.pc, cpu.resets)
		}
		cpu.state = STATE_RUNNING
		cpu.resets = 0
		cpu.Tick()
	}

	for n := range cpu.port {
		cpu.port[n].latch()
	}
}

// FetchCode fetches the instruction at the program counter.
func (cpu *Cpu) FetchCode() (code Code) {
	return cpu.Rom.Fetch(cpu.pc)
}

// Tick fetches, decodes and executes a single instruction, ignoring the
// reset input. Use Clock to model a clock edge.
func (cpu *Cpu) Tick() {
	code := cpu.FetchCode()
	cpu.Execute(Decode(code))
}

// Execute executes a single decoded instruction, committing its register,
// memory and program counter updates.
func (cpu *Cpu) Execute(ctl Control) {
	if cpu.Verbose {
		log.Printf("%08x: %v", cpu.pc, ctl.Code)
	}

	pc := cpu.pc
	next_pc := pc + 4

	cpu.Ticks++
	cpu.Retired++

	if ctl.Illegal {
		cpu.Illegal++
		if cpu.Verbose {
			log.Printf("%08x: %v", pc, ErrInstructionIllegal(ctl.Code))
		}
		cpu.pc = next_pc
		return
	}

	var a uint32
	switch ctl.SrcA {
	case SRC_A_RS1:
		a = cpu.register.Read(ctl.Rs1)
	case SRC_A_PC:
		a = pc
	case SRC_A_ZERO:
		a = 0
	}

	var b uint32
	switch ctl.SrcB {
	case SRC_B_RS2:
		b = cpu.register.Read(ctl.Rs2)
	case SRC_B_IMM:
		b = ctl.Imm
	}

	result, zero := alu.Compute(a, b, ctl.AluOp)

	switch ctl.Branch {
	case BRANCH_ZERO:
		if zero {
			next_pc = pc + ctl.Imm
		}
	case BRANCH_NOT_ZERO:
		if !zero {
			next_pc = pc + ctl.Imm
		}
	case BRANCH_JUMP:
		next_pc = pc + ctl.Imm
	case BRANCH_REGISTER:
		next_pc = result &^ 1
	}

	var loaded uint32
	if ctl.MemRead {
		loaded = cpu.Memory.Load(result, ctl.MemWidth, ctl.MemUnsigned)
	}
	if ctl.MemWrite {
		cpu.Memory.Store(result, ctl.MemWidth, cpu.register.Read(ctl.Rs2))
	}

	switch ctl.WriteBack {
	case WB_ALU:
		cpu.Power += cpu.register.write(ctl.Rd, result)
	case WB_MEM:
		cpu.Power += cpu.register.write(ctl.Rd, loaded)
	case WB_LINK:
		cpu.Power += cpu.register.write(ctl.Rd, pc+4)
	}

	cpu.pc = next_pc
}
