// Package alu implements the combinational arithmetic-logic unit of the
// RV32 core.
//
// The ALU takes two 32-bit operands and a 4-bit operation code and produces
// a 32-bit result together with a zero flag. It holds no state: every call
// to Compute is independent, and the zero flag is always derived from the
// result, whatever the operation.
package alu
