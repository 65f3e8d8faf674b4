package cpu

import (
	"fmt"
	"math/bits"
)

const (
	REG_COUNT  = 32 // Number of architectural registers.
	REG_MASK   = 0x1f
	PORT_COUNT = 2 // Number of observation read ports.
)

// abiName is the ABI name of each register.
var abiName = [REG_COUNT]string{
	"zero", "ra", "sp", "gp", "tp", "t0", "t1", "t2",
	"s0", "s1", "a0", "a1", "a2", "a3", "a4", "a5",
	"a6", "a7", "s2", "s3", "s4", "s5", "s6", "s7",
	"s8", "s9", "s10", "s11", "t3", "t4", "t5", "t6",
}

// RegisterName returns the numeric name, x0 through x31, of a register.
func RegisterName(index int) string {
	return fmt.Sprintf("x%d", index&REG_MASK)
}

// RegisterAbiName returns the calling convention name of a register.
func RegisterAbiName(index int) string {
	return abiName[index&REG_MASK]
}

// RegisterFile is the bank of 32 general purpose registers.
// x0 always reads as zero; writes to it are discarded.
type RegisterFile struct {
	x [REG_COUNT]uint32
}

// Read returns the committed value of a register. Only the low five bits
// of index are decoded.
func (rf *RegisterFile) Read(index int) uint32 {
	index &= REG_MASK
	if index == 0 {
		return 0
	}
	return rf.x[index]
}

// write commits a value, returning the number of bits flipped.
func (rf *RegisterFile) write(index int, value uint32) (flipped int) {
	index &= REG_MASK
	if index == 0 {
		return
	}
	flipped = bits.OnesCount32(rf.x[index] ^ value)
	rf.x[index] = value
	return
}

// reset clears all registers.
func (rf *RegisterFile) reset() {
	clear(rf.x[:])
}

// Snapshot returns the value of all registers.
func (rf *RegisterFile) Snapshot() (regs [REG_COUNT]uint32) {
	for n := range regs {
		regs[n] = rf.Read(n)
	}
	return
}

// ReadPort is an address latched read port on the register file.
//
// SetAddr stages an address; the next clock edge latches it. Data always
// reflects the committed register file at the latched address, so a value
// written at an edge is visible strictly after that edge and never before.
type ReadPort struct {
	rf     *RegisterFile
	staged int
	addr   int
}

// SetAddr stages the register address for the next clock edge.
func (port *ReadPort) SetAddr(index int) {
	port.staged = index & REG_MASK
}

// Addr returns the latched register address.
func (port *ReadPort) Addr() int {
	return port.addr
}

// Data returns the register at the latched address.
func (port *ReadPort) Data() uint32 {
	return port.rf.Read(port.addr)
}

// latch captures the staged address at a clock edge.
func (port *ReadPort) latch() {
	port.addr = port.staged
}
