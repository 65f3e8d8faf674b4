package cpu

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRegisterFileZero(t *testing.T) {
	assert := assert.New(t)

	rf := &RegisterFile{}
	flipped := rf.write(0, 0xdeadbeef)
	assert.Equal(0, flipped)
	assert.Equal(uint32(0), rf.Read(0))

	flipped = rf.write(31, 0xff)
	assert.Equal(8, flipped)
	assert.Equal(uint32(0xff), rf.Read(31))

	flipped = rf.write(31, 0xf0)
	assert.Equal(4, flipped)

	regs := rf.Snapshot()
	assert.Equal(uint32(0xf0), regs[31])
	assert.Equal(uint32(0), regs[0])

	rf.reset()
	assert.Equal([REG_COUNT]uint32{}, rf.Snapshot())
}

func TestRegisterNames(t *testing.T) {
	assert := assert.New(t)

	assert.Equal("x0", RegisterName(0))
	assert.Equal("x31", RegisterName(31))
	assert.Equal("zero", RegisterAbiName(0))
	assert.Equal("sp", RegisterAbiName(2))
	assert.Equal("s0", RegisterAbiName(8))
	assert.Equal("t6", RegisterAbiName(31))
}

func TestReadPortLatch(t *testing.T) {
	assert := assert.New(t)

	cpu := NewCpu()
	// Never leave reset, so no instruction disturbs the register file.
	cpu.SetReset(true)
	cpu.Clock()

	cpu.register.write(5, 0x1234)
	cpu.register.write(6, 0x5678)

	port := cpu.Port(0)
	port.SetAddr(5)
	// Staged, not yet latched.
	assert.Equal(0, port.Addr())
	assert.Equal(uint32(0), port.Data())

	cpu.Clock()
	assert.Equal(5, port.Addr())
	// The reset edge cleared the register file.
	assert.Equal(uint32(0), port.Data())

	cpu.register.write(5, 0x1234)
	assert.Equal(uint32(0x1234), port.Data())

	other := cpu.Port(1)
	other.SetAddr(6)
	cpu.Clock()
	assert.Equal(5, port.Addr())
	assert.Equal(6, other.Addr())
}

func TestReadPortOrdering(t *testing.T) {
	assert := assert.New(t)

	// x1 = 7 retires at the first running edge; the port watches x1 and x2.
	cpu := NewCpu()
	err := cpu.Load([]uint32{
		uint32(MakeCodeI(INSN_ADDI, 1, 0, 7)),
		uint32(MakeCodeI(INSN_ADDI, 2, 1, 1)),
	})
	assert.NoError(err)

	cpu.SetReset(true)
	cpu.Clock()
	cpu.Clock()
	cpu.SetReset(false)

	rs1 := cpu.Port(0)
	rs2 := cpu.Port(1)
	rs1.SetAddr(1)
	rs2.SetAddr(2)

	// Before the edge nothing is written.
	assert.Equal(uint32(0), rs1.Data())
	assert.Equal(uint32(0), cpu.Register(1))

	cpu.Clock()
	assert.Equal(uint32(7), rs1.Data())
	assert.Equal(uint32(0), rs2.Data())

	cpu.Clock()
	assert.Equal(uint32(7), rs1.Data())
	assert.Equal(uint32(8), rs2.Data())
}
