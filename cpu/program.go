package cpu

import (
	"iter"
)

// Opcode represents a line of assembled code with its source location and
// generated instructions.
type Opcode struct {
	LineNo    int
	Pc        uint32
	Words     []string
	Codes     []Code
	LinkLabel string
}

// Program is an assembled listing.
type Program struct {
	Opcodes []Opcode
}

type Debug struct {
	*Opcode
	Index int
}

// Debug finds the listing line holding the instruction at pc.
func (prog *Program) Debug(pc uint32) (dbg Debug) {
	for n, op := range prog.Opcodes {
		if pc >= op.Pc && pc < op.Pc+4*uint32(len(op.Codes)) {
			dbg = Debug{
				Opcode: &prog.Opcodes[n],
				Index:  int(pc-op.Pc) / 4,
			}
			break
		}
	}

	return
}

// Binary returns the instruction memory image of the program.
// Gaps between opcodes are filled with zero words.
func (prog *Program) Binary() (bins []uint32) {
	for pc, code := range prog.Codes() {
		index := int(pc / 4)
		for len(bins) < index {
			bins = append(bins, 0)
		}
		bins = append(bins[:index], uint32(code))
	}

	return
}

// Codes iterates over the program's instructions, keyed by address.
func (prog *Program) Codes() iter.Seq2[uint32, Code] {
	return func(yield func(pc uint32, code Code) bool) {
		for _, op := range prog.Opcodes {
			for n, code := range op.Codes {
				if !yield(op.Pc+4*uint32(n), code) {
					return
				}
			}
		}
	}
}

// Listing returns one comment per image word, naming the source line and
// disassembly of each instruction.
func (prog *Program) Listing() (comments []string) {
	for pc, code := range prog.Codes() {
		index := int(pc / 4)
		for len(comments) < index {
			comments = append(comments, "")
		}
		dbg := prog.Debug(pc)
		comments = append(comments[:index], f("%04x line %v: %v", pc, dbg.LineNo, code.String()))
	}

	return
}
