package cpu

import (
	"github.com/ezrec/rvcore/alu"
)

// SrcA selects the first ALU operand.
type SrcA int

const (
	SRC_A_RS1  = SrcA(0) // Register rs1.
	SRC_A_PC   = SrcA(1) // Program counter.
	SRC_A_ZERO = SrcA(2) // Constant zero.
)

// SrcB selects the second ALU operand.
type SrcB int

const (
	SRC_B_RS2 = SrcB(0) // Register rs2.
	SRC_B_IMM = SrcB(1) // Decoded immediate.
)

// WriteBack selects the value written to rd.
type WriteBack int

const (
	WB_NONE = WriteBack(0) // No register write.
	WB_ALU  = WriteBack(1) // ALU result.
	WB_MEM  = WriteBack(2) // Data memory load.
	WB_LINK = WriteBack(3) // Return address, pc + 4.
)

// Branch selects how the next program counter is formed.
type Branch int

const (
	BRANCH_NONE     = Branch(0) // pc + 4
	BRANCH_ZERO     = Branch(1) // pc + imm if the ALU zero flag is set.
	BRANCH_NOT_ZERO = Branch(2) // pc + imm if the ALU zero flag is clear.
	BRANCH_JUMP     = Branch(3) // pc + imm
	BRANCH_REGISTER = Branch(4) // ALU result with bit 0 cleared.
)

// Control is the set of datapath control signals decoded from an
// instruction word.
type Control struct {
	Code    Code
	Class   CodeClass
	Illegal bool // Not an RV32I instruction; retires as a no-op.

	Rd  int
	Rs1 int
	Rs2 int
	Imm uint32 // Sign extended immediate for the instruction format.

	SrcA  SrcA
	SrcB  SrcB
	AluOp alu.Op

	WriteBack WriteBack
	Branch    Branch

	MemRead     bool
	MemWrite    bool
	MemWidth    int // 1, 2 or 4 bytes.
	MemUnsigned bool
}

// aluFunct maps funct3 of OP and OP-IMM to an ALU operation.
var aluFunct = [8]alu.Op{
	alu.OP_ADD,
	alu.OP_SLL,
	alu.OP_SLT,
	alu.OP_SLTU,
	alu.OP_XOR,
	alu.OP_SRL,
	alu.OP_OR,
	alu.OP_AND,
}

// aluAlt maps an operation to its funct7 alternate.
var aluAlt = map[alu.Op]alu.Op{
	alu.OP_ADD: alu.OP_SUB,
	alu.OP_SRL: alu.OP_SRA,
}

// branchFunct maps funct3 of BRANCH to the comparing ALU operation and the
// flag sense that takes the branch.
var branchFunct = [8](struct {
	op     alu.Op
	branch Branch
}){
	0: {alu.OP_SUB, BRANCH_ZERO},      // beq
	1: {alu.OP_SUB, BRANCH_NOT_ZERO},  // bne
	4: {alu.OP_SLT, BRANCH_NOT_ZERO},  // blt
	5: {alu.OP_SLT, BRANCH_ZERO},      // bge
	6: {alu.OP_SLTU, BRANCH_NOT_ZERO}, // bltu
	7: {alu.OP_SLTU, BRANCH_ZERO},     // bgeu
}

// memWidth maps funct3 of LOAD and STORE to the access width.
var memWidth = [8]int{1, 2, 4, 0, 1, 2, 0, 0}

// Decode generates the control signals for an instruction word.
//
// Words that are not legal RV32I instructions decode to a no-op with
// Illegal set. FENCE, ECALL and EBREAK also decode to a no-op.
func Decode(code Code) (ctl Control) {
	ctl = Control{
		Code:     code,
		Class:    code.Class(),
		Rd:       code.Rd(),
		Rs1:      code.Rs1(),
		Rs2:      code.Rs2(),
		AluOp:    alu.OP_ADD,
		MemWidth: 4,
	}

	insn, ok := code.Insn()
	if !ok {
		ctl.Illegal = true
		return
	}

	funct3 := code.Funct3()

	switch ctl.Class {
	case CLASS_OP:
		ctl.AluOp = aluFunct[funct3]
		if code.Funct7() == FUNCT7_ALT {
			ctl.AluOp = aluAlt[ctl.AluOp]
		}
		ctl.WriteBack = WB_ALU
	case CLASS_OP_IMM:
		ctl.SrcB = SRC_B_IMM
		ctl.Imm = uint32(code.ImmI())
		ctl.AluOp = aluFunct[funct3]
		if insn == INSN_SRAI {
			ctl.AluOp = alu.OP_SRA
		}
		if insn.isShiftImm() {
			ctl.Imm = code.Shamt()
		}
		ctl.WriteBack = WB_ALU
	case CLASS_LOAD:
		ctl.SrcB = SRC_B_IMM
		ctl.Imm = uint32(code.ImmI())
		ctl.MemRead = true
		ctl.MemWidth = memWidth[funct3]
		ctl.MemUnsigned = funct3 >= 4
		ctl.WriteBack = WB_MEM
	case CLASS_STORE:
		ctl.SrcB = SRC_B_IMM
		ctl.Imm = uint32(code.ImmS())
		ctl.MemWrite = true
		ctl.MemWidth = memWidth[funct3]
	case CLASS_BRANCH:
		ctl.Imm = uint32(code.ImmB())
		ctl.AluOp = branchFunct[funct3].op
		ctl.Branch = branchFunct[funct3].branch
	case CLASS_JAL:
		ctl.Imm = uint32(code.ImmJ())
		ctl.Branch = BRANCH_JUMP
		ctl.WriteBack = WB_LINK
	case CLASS_JALR:
		ctl.SrcB = SRC_B_IMM
		ctl.Imm = uint32(code.ImmI())
		ctl.Branch = BRANCH_REGISTER
		ctl.WriteBack = WB_LINK
	case CLASS_LUI:
		ctl.SrcA = SRC_A_ZERO
		ctl.SrcB = SRC_B_IMM
		ctl.Imm = code.ImmU()
		ctl.WriteBack = WB_ALU
	case CLASS_AUIPC:
		ctl.SrcA = SRC_A_PC
		ctl.SrcB = SRC_B_IMM
		ctl.Imm = code.ImmU()
		ctl.WriteBack = WB_ALU
	default:
		// FENCE, ECALL, EBREAK: nothing to order, no environment to call.
	}

	return
}
