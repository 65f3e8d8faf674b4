// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package alu

// Compute performs a single ALU operation.
//
// Arithmetic wraps modulo 2^32. Shift amounts use only the low five bits of
// b. Undefined operation codes produce a zero result.
func Compute(a, b uint32, op Op) (result uint32, zero bool) {
	switch op {
	case OP_ADD:
		result = a + b
	case OP_SUB:
		result = a - b
	case OP_AND:
		result = a & b
	case OP_OR:
		result = a | b
	case OP_XOR:
		result = a ^ b
	case OP_SLL:
		result = a << (b & SHAMT_MASK)
	case OP_SRL:
		result = a >> (b & SHAMT_MASK)
	case OP_SRA:
		result = uint32(int32(a) >> (b & SHAMT_MASK))
	case OP_SLT:
		if int32(a) < int32(b) {
			result = 1
		}
	case OP_SLTU:
		if a < b {
			result = 1
		}
	}

	zero = result == 0

	return
}
