package cpu

import (
	"slices"
)

// Memory map.
const (
	RESET_PC   = uint32(0) // Program counter after reset.
	IMEM_WORDS = 1024      // Instruction memory capacity, in words.
	DMEM_SIZE  = 4096      // Data memory capacity, in bytes.
	DMEM_MASK  = DMEM_SIZE - 1
)

// Rom is the instruction memory. It is loaded before a run and never
// written by the datapath.
type Rom struct {
	Data []uint32
}

// Load replaces the instruction memory image.
func (rom *Rom) Load(image []uint32) (err error) {
	if len(image) > IMEM_WORDS {
		err = ErrImageSize(len(image))
		return
	}

	rom.Data = slices.Clone(image)
	return
}

// Fetch returns the instruction at a byte address. The low two address bits
// are ignored and the address wraps at the memory capacity. Words past the
// end of the image read as zero.
func (rom *Rom) Fetch(pc uint32) Code {
	index := int((pc >> 2) % IMEM_WORDS)
	if index >= len(rom.Data) {
		return 0
	}
	return Code(rom.Data[index])
}

// Memory is the little endian, byte addressed data memory.
// Addresses wrap at the memory capacity.
type Memory struct {
	Data [DMEM_SIZE]byte
}

// Load reads width bytes at addr, sign extending unless unsigned is set.
func (mem *Memory) Load(addr uint32, width int, unsigned bool) (value uint32) {
	for n := range width {
		value |= uint32(mem.Data[(addr+uint32(n))&DMEM_MASK]) << (8 * n)
	}

	if !unsigned && width < 4 {
		shift := uint32(32 - 8*width)
		value = uint32(int32(value<<shift) >> shift)
	}

	return
}

// Store writes the low width bytes of value at addr.
func (mem *Memory) Store(addr uint32, width int, value uint32) {
	for n := range width {
		mem.Data[(addr+uint32(n))&DMEM_MASK] = byte(value >> (8 * n))
	}
}

// LoadWord reads an aligned 32-bit word.
func (mem *Memory) LoadWord(addr uint32) uint32 {
	return mem.Load(addr&^3, 4, true)
}

// reset clears the data memory.
func (mem *Memory) reset() {
	clear(mem.Data[:])
}
