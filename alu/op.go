package alu

// Op is a 4-bit ALU operation code.
type Op int

//go:generate go tool stringer -linecomment -type=Op
const (
	OP_ADD  = Op(0) // add
	OP_SUB  = Op(1) // sub
	OP_AND  = Op(2) // and
	OP_OR   = Op(3) // or
	OP_XOR  = Op(4) // xor
	OP_SLL  = Op(5) // sll
	OP_SRL  = Op(6) // srl
	OP_SRA  = Op(7) // sra
	OP_SLT  = Op(8) // slt
	OP_SLTU = Op(9) // sltu
)

const (
	OP_COUNT   = 10   // Number of defined operations.
	OP_MASK    = 0xf  // Width of the operation code field.
	SHAMT_MASK = 0x1f // Significant bits of a shift amount.
)

// Valid returns true if the operation code selects a defined operation.
func (op Op) Valid() bool {
	return op >= OP_ADD && op < OP_COUNT
}

// Ops returns all defined operations, in encoding order.
func Ops() (ops []Op) {
	for op := range Op(OP_COUNT) {
		ops = append(ops, op)
	}
	return
}

// ParseOp returns the operation named by its mnemonic.
func ParseOp(name string) (op Op, err error) {
	for _, op = range Ops() {
		if op.String() == name {
			return
		}
	}

	err = ErrOpUnknown(name)
	return
}
