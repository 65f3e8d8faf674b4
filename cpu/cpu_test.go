package cpu

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// runCodes loads a program, resets the cpu, and runs for a number of cycles.
func runCodes(t *testing.T, codes []Code, cycles int) (cpu *Cpu) {
	image := make([]uint32, len(codes))
	for n, code := range codes {
		image[n] = uint32(code)
	}

	cpu = NewCpu()
	require.NoError(t, cpu.Load(image))

	cpu.SetReset(true)
	cpu.Clock()
	cpu.Clock()
	cpu.SetReset(false)

	for range cycles {
		cpu.Clock()
	}

	return
}

func TestCpuReset(t *testing.T) {
	assert := assert.New(t)

	cpu := runCodes(t, []Code{
		MakeCodeI(INSN_ADDI, 1, 0, -1),
		MakeCodeI(INSN_ADDI, 31, 0, 0x123),
		MakeCodeS(INSN_SW, 0, 1, 0x40),
	}, 3)

	assert.Equal(STATE_RUNNING, cpu.State())
	assert.Equal(uint32(0xffffffff), cpu.Register(1))
	assert.Equal(uint32(0x123), cpu.Register(31))
	assert.Equal(uint32(0xffffffff), cpu.Memory.LoadWord(0x40))
	assert.Equal(uint32(12), cpu.Pc())
	assert.Equal(3, cpu.Ticks)
	assert.Equal(0, cpu.ResetEdges())

	cpu.SetReset(true)
	// Reset is synchronous: nothing changes before the edge.
	assert.Equal(uint32(0xffffffff), cpu.Register(1))

	cpu.Clock()
	assert.Equal(STATE_RESET, cpu.State())
	assert.Equal(1, cpu.ResetEdges())
	cpu.Clock()
	assert.Equal(2, cpu.ResetEdges())

	for n := range REG_COUNT {
		assert.Equal(uint32(0), cpu.Register(n), "x%d", n)
	}
	assert.Equal([REG_COUNT]uint32{}, cpu.Registers())
	assert.Equal(uint32(0), cpu.Memory.LoadWord(0x40))
	assert.Equal(RESET_PC, cpu.Pc())
	assert.Equal(0, cpu.Ticks)
	assert.Equal(0, cpu.Retired)
	assert.Equal(0, cpu.Power)

	// The image survives reset.
	cpu.SetReset(false)
	cpu.Clock()
	assert.Equal(uint32(0xffffffff), cpu.Register(1))
}

func TestCpuExecute(t *testing.T) {
	table := [](struct {
		name     string
		program  []Code
		cycles   int
		expected map[int]uint32
		pc       uint32
	}){
		{"r_type", []Code{
			MakeCodeI(INSN_ADDI, 1, 0, 5),
			MakeCodeI(INSN_ADDI, 2, 0, 3),
			MakeCodeR(INSN_ADD, 3, 1, 2),
			MakeCodeR(INSN_SUB, 4, 2, 1),
			MakeCodeR(INSN_AND, 5, 1, 2),
			MakeCodeR(INSN_OR, 6, 1, 2),
			MakeCodeR(INSN_XOR, 7, 1, 2),
			MakeCodeR(INSN_SLL, 8, 1, 2),
			MakeCodeR(INSN_SRL, 9, 4, 2),
			MakeCodeR(INSN_SRA, 10, 4, 2),
			MakeCodeR(INSN_SLT, 11, 4, 1),
			MakeCodeR(INSN_SLTU, 12, 4, 1),
		}, 12, map[int]uint32{
			1: 5, 2: 3, 3: 8, 4: 0xfffffffe, 5: 1, 6: 7, 7: 6, 8: 40,
			9: 0x1fffffff, 10: 0xffffffff, 11: 1, 12: 0,
		}, 48},
		{"i_type", []Code{
			MakeCodeI(INSN_ADDI, 1, 0, -100),
			MakeCodeI(INSN_SLTI, 2, 1, 0),
			MakeCodeI(INSN_SLTIU, 3, 1, 0),
			MakeCodeI(INSN_XORI, 4, 1, -1),
			MakeCodeI(INSN_ORI, 5, 0, 0x7f0),
			MakeCodeI(INSN_ANDI, 6, 1, 0xff),
			MakeCodeI(INSN_SLLI, 7, 5, 20),
			MakeCodeI(INSN_SRLI, 8, 1, 28),
			MakeCodeI(INSN_SRAI, 9, 1, 2),
		}, 9, map[int]uint32{
			1: 0xffffff9c, 2: 1, 3: 0, 4: 99, 5: 0x7f0, 6: 0x9c,
			7: 0x7f000000, 8: 0xf, 9: 0xffffffe7,
		}, 36},
		{"u_type", []Code{
			MakeCodeU(INSN_LUI, 1, 0x12345),
			MakeCodeU(INSN_AUIPC, 2, 1),
			MakeCodeI(INSN_ADDI, 1, 1, 0x678),
		}, 3, map[int]uint32{1: 0x12345678, 2: 0x1004}, 12},
		{"memory", []Code{
			MakeCodeI(INSN_ADDI, 1, 0, -2),
			MakeCodeS(INSN_SW, 0, 1, 16),
			MakeCodeI(INSN_LB, 2, 0, 16),
			MakeCodeI(INSN_LBU, 3, 0, 16),
			MakeCodeI(INSN_LH, 4, 0, 16),
			MakeCodeI(INSN_LHU, 5, 0, 17),
			MakeCodeI(INSN_LW, 6, 0, 16),
			MakeCodeI(INSN_ADDI, 7, 0, 0x55),
			MakeCodeS(INSN_SB, 0, 7, 17),
			MakeCodeS(INSN_SH, 0, 7, 18),
			MakeCodeI(INSN_LW, 8, 0, 16),
		}, 11, map[int]uint32{
			1: 0xfffffffe, 2: 0xfffffffe, 3: 0xfe, 4: 0xfffffffe, 5: 0xffff,
			6: 0xfffffffe, 7: 0x55, 8: 0x005555fe,
		}, 44},
		{"branch", []Code{
			MakeCodeI(INSN_ADDI, 1, 0, 1),
			MakeCodeB(INSN_BEQ, 1, 0, 8), // not taken
			MakeCodeI(INSN_ADDI, 2, 0, 2),
			MakeCodeB(INSN_BNE, 1, 0, 8), // taken
			MakeCodeI(INSN_ADDI, 3, 0, 3),
			MakeCodeI(INSN_ADDI, 4, 0, -1),
			MakeCodeB(INSN_BLT, 4, 0, 8), // taken
			MakeCodeI(INSN_ADDI, 5, 0, 5),
			MakeCodeB(INSN_BLTU, 4, 0, 8), // not taken
			MakeCodeI(INSN_ADDI, 6, 0, 6),
			MakeCodeB(INSN_BGE, 0, 4, 8), // taken
			MakeCodeI(INSN_ADDI, 7, 0, 7),
			MakeCodeB(INSN_BGEU, 0, 4, 8), // not taken
			MakeCodeI(INSN_ADDI, 8, 0, 8),
		}, 11, map[int]uint32{
			1: 1, 2: 2, 3: 0, 4: 0xffffffff, 5: 0, 6: 6, 7: 0, 8: 8,
		}, 56},
		{"backward", []Code{
			MakeCodeI(INSN_ADDI, 1, 0, 3),
			MakeCodeI(INSN_ADDI, 2, 2, 1),
			MakeCodeI(INSN_ADDI, 1, 1, -1),
			MakeCodeB(INSN_BNE, 1, 0, -8),
		}, 10, map[int]uint32{1: 0, 2: 3}, 16},
		{"j_type", []Code{
			MakeCodeJ(INSN_JAL, 1, 8),
			MakeCodeI(INSN_ADDI, 2, 0, 1),
			MakeCodeI(INSN_ADDI, 3, 0, 21),
			MakeCodeI(INSN_JALR, 4, 3, 0),
			MakeCodeI(INSN_ADDI, 5, 0, 1),
			MakeCodeI(INSN_ADDI, 6, 0, 6),
		}, 4, map[int]uint32{1: 4, 2: 0, 3: 21, 4: 16, 5: 0, 6: 6}, 24},
		{"zero", []Code{
			MakeCodeI(INSN_ADDI, 0, 0, 5),
			MakeCodeU(INSN_LUI, 0, 0xfffff),
			MakeCodeJ(INSN_JAL, 0, 4),
		}, 3, map[int]uint32{0: 0}, 12},
		{"self_loop", []Code{
			MakeCodeI(INSN_ADDI, 1, 1, 1),
			MakeCodeJ(INSN_JAL, 0, 0),
		}, 30, map[int]uint32{1: 1}, 4},
	}

	for _, entry := range table {
		t.Run(entry.name, func(t *testing.T) {
			assert := assert.New(t)

			cpu := runCodes(t, entry.program, entry.cycles)
			for reg, value := range entry.expected {
				assert.Equal(value, cpu.Register(reg), "x%d", reg)
			}
			assert.Equal(entry.pc, cpu.Pc())
			assert.Equal(0, cpu.Illegal)
			assert.Equal(entry.cycles, cpu.Retired)
		})
	}
}

func TestCpuIllegal(t *testing.T) {
	assert := assert.New(t)

	cpu := runCodes(t, []Code{
		0xffffffff,
		makeCode(INSN_ECALL),
		makeCode(INSN_EBREAK),
		makeCode(INSN_FENCE),
		MakeCodeI(INSN_ADDI, 1, 0, 1),
	}, 5)

	assert.Equal(uint32(1), cpu.Register(1))
	assert.Equal(uint32(20), cpu.Pc())
	assert.Equal(1, cpu.Illegal)
	assert.Equal(5, cpu.Retired)

	// Past the image, zero words are illegal.
	cpu.Clock()
	assert.Equal(2, cpu.Illegal)
	assert.Equal(uint32(24), cpu.Pc())
}

func TestCpuPower(t *testing.T) {
	assert := assert.New(t)

	cpu := runCodes(t, []Code{
		MakeCodeI(INSN_ADDI, 1, 0, 0xff),
		MakeCodeI(INSN_ADDI, 1, 0, 0x0f),
		MakeCodeI(INSN_ADDI, 0, 0, 0x7ff),
	}, 3)

	assert.Equal(12, cpu.Power)
}

func TestCpuString(t *testing.T) {
	assert := assert.New(t)

	cpu := runCodes(t, []Code{MakeCodeI(INSN_ADDI, 1, 0, 0x7ff)}, 1)

	text := cpu.String()
	assert.Contains(text, "pc: 00000004")
	assert.Contains(text, "running")
	assert.Contains(text, "x1/ra")
	assert.Contains(text, "0000_07FF")
}

func TestCpuDefines(t *testing.T) {
	assert := assert.New(t)

	defines := map[string]string{}
	for key, value := range NewCpu().Defines() {
		defines[key] = value
	}

	assert.Equal("0x0", defines["RESET_PC"])
	assert.Equal("1024", defines["IMEM_WORDS"])
	assert.Equal("4096", defines["DMEM_SIZE"])
}
