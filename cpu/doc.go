// Package cpu implements the single-cycle RV32I datapath and its assembler.
//
// The datapath consists of a program counter, a 32-entry register file with
// x0 hard-wired to zero, the ALU from package alu, an instruction memory
// loaded from an image and a byte addressed data memory. Every call to
// Clock is one rising edge: with reset asserted the architectural state is
// cleared, otherwise exactly one instruction is fetched, decoded, executed
// and written back. Two read ports expose the register file for
// observation, with their addresses latched at the clock edge.
//
// The assembler provides RV32I assembly language with ABI register names,
// common pseudo-instructions, macros, labels, equates, and compile-time
// expression evaluation.
package cpu
