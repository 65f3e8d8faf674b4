package alu

import (
	"github.com/ezrec/rvcore/translate"
)

var f = translate.From

// ErrOpUnknown is returned when an operation mnemonic is not recognized.
type ErrOpUnknown string

func (err ErrOpUnknown) Error() string {
	return f("alu op '%v' unknown", string(err))
}

// ErrMismatch reports an ALU output that differs from its test vector.
type ErrMismatch struct {
	Vector Vector // Vector that failed.
	Result uint32 // Result actually computed.
	Zero   bool   // Zero flag actually computed.
}

func (err *ErrMismatch) Error() string {
	v := err.Vector
	if v.Result != err.Result {
		return f("%v a=%08x b=%08x: expected %08x, got %08x", v.Op, v.A, v.B, v.Result, err.Result)
	}
	return f("%v a=%08x b=%08x: expected zero flag %v, got %v", v.Op, v.A, v.B, v.Zero, err.Zero)
}
