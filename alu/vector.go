package alu

// Vector is a single ALU stimulus together with its expected outputs.
type Vector struct {
	Op     Op
	A      uint32
	B      uint32
	Result uint32
	Zero   bool
}

// NewVector creates a vector expecting result, with the zero flag implied
// by the result.
func NewVector(op Op, a, b, result uint32) Vector {
	return Vector{Op: op, A: a, B: b, Result: result, Zero: result == 0}
}

// Check applies the vector to the ALU, returning an *ErrMismatch if either
// output disagrees.
func (v Vector) Check() (err error) {
	result, zero := Compute(v.A, v.B, v.Op)
	if result != v.Result || zero != v.Zero {
		err = &ErrMismatch{Vector: v, Result: result, Zero: zero}
	}
	return
}
