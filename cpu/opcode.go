package cpu

import (
	"fmt"
)

// Major opcodes, bits [6:0] of an instruction word.
const (
	OPC_LOAD     = uint32(0x03)
	OPC_MISC_MEM = uint32(0x0f)
	OPC_OP_IMM   = uint32(0x13)
	OPC_AUIPC    = uint32(0x17)
	OPC_STORE    = uint32(0x23)
	OPC_OP       = uint32(0x33)
	OPC_LUI      = uint32(0x37)
	OPC_BRANCH   = uint32(0x63)
	OPC_JALR     = uint32(0x67)
	OPC_JAL      = uint32(0x6f)
	OPC_SYSTEM   = uint32(0x73)
	OPC_MASK     = uint32(0x7f)
)

// FUNCT7_ALT selects SUB and SRA/SRAI.
const FUNCT7_ALT = uint32(0x20)

// CodeClass is the operation class selected by the major opcode.
type CodeClass int

//go:generate go tool stringer -linecomment -type=CodeClass
const (
	CLASS_ILLEGAL  = CodeClass(0)  // illegal
	CLASS_OP       = CodeClass(1)  // op
	CLASS_OP_IMM   = CodeClass(2)  // op-imm
	CLASS_LOAD     = CodeClass(3)  // load
	CLASS_STORE    = CodeClass(4)  // store
	CLASS_BRANCH   = CodeClass(5)  // branch
	CLASS_JAL      = CodeClass(6)  // jal
	CLASS_JALR     = CodeClass(7)  // jalr
	CLASS_LUI      = CodeClass(8)  // lui
	CLASS_AUIPC    = CodeClass(9)  // auipc
	CLASS_MISC_MEM = CodeClass(10) // misc-mem
	CLASS_SYSTEM   = CodeClass(11) // system
)

var classOpcode = map[CodeClass]uint32{
	CLASS_OP:       OPC_OP,
	CLASS_OP_IMM:   OPC_OP_IMM,
	CLASS_LOAD:     OPC_LOAD,
	CLASS_STORE:    OPC_STORE,
	CLASS_BRANCH:   OPC_BRANCH,
	CLASS_JAL:      OPC_JAL,
	CLASS_JALR:     OPC_JALR,
	CLASS_LUI:      OPC_LUI,
	CLASS_AUIPC:    OPC_AUIPC,
	CLASS_MISC_MEM: OPC_MISC_MEM,
	CLASS_SYSTEM:   OPC_SYSTEM,
}

// Format returns the instruction format used by the class.
func (class CodeClass) Format() CodeFormat {
	switch class {
	case CLASS_OP:
		return FORMAT_R
	case CLASS_OP_IMM, CLASS_LOAD, CLASS_JALR, CLASS_MISC_MEM, CLASS_SYSTEM:
		return FORMAT_I
	case CLASS_STORE:
		return FORMAT_S
	case CLASS_BRANCH:
		return FORMAT_B
	case CLASS_LUI, CLASS_AUIPC:
		return FORMAT_U
	case CLASS_JAL:
		return FORMAT_J
	}
	return FORMAT_NONE
}

// CodeFormat is an instruction encoding format.
type CodeFormat int

//go:generate go tool stringer -linecomment -type=CodeFormat
const (
	FORMAT_NONE = CodeFormat(0) // -
	FORMAT_R    = CodeFormat(1) // R-type
	FORMAT_I    = CodeFormat(2) // I-type
	FORMAT_S    = CodeFormat(3) // S-type
	FORMAT_B    = CodeFormat(4) // B-type
	FORMAT_U    = CodeFormat(5) // U-type
	FORMAT_J    = CodeFormat(6) // J-type
)

// Insn is an RV32I instruction mnemonic.
type Insn int

//go:generate go tool stringer -linecomment -type=Insn
const (
	INSN_ADD    = Insn(0)  // add
	INSN_SUB    = Insn(1)  // sub
	INSN_SLL    = Insn(2)  // sll
	INSN_SLT    = Insn(3)  // slt
	INSN_SLTU   = Insn(4)  // sltu
	INSN_XOR    = Insn(5)  // xor
	INSN_SRL    = Insn(6)  // srl
	INSN_SRA    = Insn(7)  // sra
	INSN_OR     = Insn(8)  // or
	INSN_AND    = Insn(9)  // and
	INSN_ADDI   = Insn(10) // addi
	INSN_SLTI   = Insn(11) // slti
	INSN_SLTIU  = Insn(12) // sltiu
	INSN_XORI   = Insn(13) // xori
	INSN_ORI    = Insn(14) // ori
	INSN_ANDI   = Insn(15) // andi
	INSN_SLLI   = Insn(16) // slli
	INSN_SRLI   = Insn(17) // srli
	INSN_SRAI   = Insn(18) // srai
	INSN_LB     = Insn(19) // lb
	INSN_LH     = Insn(20) // lh
	INSN_LW     = Insn(21) // lw
	INSN_LBU    = Insn(22) // lbu
	INSN_LHU    = Insn(23) // lhu
	INSN_SB     = Insn(24) // sb
	INSN_SH     = Insn(25) // sh
	INSN_SW     = Insn(26) // sw
	INSN_BEQ    = Insn(27) // beq
	INSN_BNE    = Insn(28) // bne
	INSN_BLT    = Insn(29) // blt
	INSN_BGE    = Insn(30) // bge
	INSN_BLTU   = Insn(31) // bltu
	INSN_BGEU   = Insn(32) // bgeu
	INSN_JAL    = Insn(33) // jal
	INSN_JALR   = Insn(34) // jalr
	INSN_LUI    = Insn(35) // lui
	INSN_AUIPC  = Insn(36) // auipc
	INSN_FENCE  = Insn(37) // fence
	INSN_ECALL  = Insn(38) // ecall
	INSN_EBREAK = Insn(39) // ebreak

	INSN_COUNT = 40
)

// insnInfo is the fixed encoding of a mnemonic.
type insnInfo struct {
	class  CodeClass
	funct3 uint32
	funct7 uint32 // Only for OP, and shifts in OP-IMM.
	imm    uint32 // Only for SYSTEM.
}

var insnTable = [INSN_COUNT]insnInfo{
	INSN_ADD:    {CLASS_OP, 0, 0, 0},
	INSN_SUB:    {CLASS_OP, 0, FUNCT7_ALT, 0},
	INSN_SLL:    {CLASS_OP, 1, 0, 0},
	INSN_SLT:    {CLASS_OP, 2, 0, 0},
	INSN_SLTU:   {CLASS_OP, 3, 0, 0},
	INSN_XOR:    {CLASS_OP, 4, 0, 0},
	INSN_SRL:    {CLASS_OP, 5, 0, 0},
	INSN_SRA:    {CLASS_OP, 5, FUNCT7_ALT, 0},
	INSN_OR:     {CLASS_OP, 6, 0, 0},
	INSN_AND:    {CLASS_OP, 7, 0, 0},
	INSN_ADDI:   {CLASS_OP_IMM, 0, 0, 0},
	INSN_SLTI:   {CLASS_OP_IMM, 2, 0, 0},
	INSN_SLTIU:  {CLASS_OP_IMM, 3, 0, 0},
	INSN_XORI:   {CLASS_OP_IMM, 4, 0, 0},
	INSN_ORI:    {CLASS_OP_IMM, 6, 0, 0},
	INSN_ANDI:   {CLASS_OP_IMM, 7, 0, 0},
	INSN_SLLI:   {CLASS_OP_IMM, 1, 0, 0},
	INSN_SRLI:   {CLASS_OP_IMM, 5, 0, 0},
	INSN_SRAI:   {CLASS_OP_IMM, 5, FUNCT7_ALT, 0},
	INSN_LB:     {CLASS_LOAD, 0, 0, 0},
	INSN_LH:     {CLASS_LOAD, 1, 0, 0},
	INSN_LW:     {CLASS_LOAD, 2, 0, 0},
	INSN_LBU:    {CLASS_LOAD, 4, 0, 0},
	INSN_LHU:    {CLASS_LOAD, 5, 0, 0},
	INSN_SB:     {CLASS_STORE, 0, 0, 0},
	INSN_SH:     {CLASS_STORE, 1, 0, 0},
	INSN_SW:     {CLASS_STORE, 2, 0, 0},
	INSN_BEQ:    {CLASS_BRANCH, 0, 0, 0},
	INSN_BNE:    {CLASS_BRANCH, 1, 0, 0},
	INSN_BLT:    {CLASS_BRANCH, 4, 0, 0},
	INSN_BGE:    {CLASS_BRANCH, 5, 0, 0},
	INSN_BLTU:   {CLASS_BRANCH, 6, 0, 0},
	INSN_BGEU:   {CLASS_BRANCH, 7, 0, 0},
	INSN_JAL:    {CLASS_JAL, 0, 0, 0},
	INSN_JALR:   {CLASS_JALR, 0, 0, 0},
	INSN_LUI:    {CLASS_LUI, 0, 0, 0},
	INSN_AUIPC:  {CLASS_AUIPC, 0, 0, 0},
	INSN_FENCE:  {CLASS_MISC_MEM, 0, 0, 0},
	INSN_ECALL:  {CLASS_SYSTEM, 0, 0, 0},
	INSN_EBREAK: {CLASS_SYSTEM, 0, 0, 1},
}

// Class returns the operation class of the mnemonic.
func (insn Insn) Class() CodeClass {
	if insn < 0 || insn >= INSN_COUNT {
		return CLASS_ILLEGAL
	}
	return insnTable[insn].class
}

// isShiftImm is true for the OP-IMM shifts, whose immediate carries funct7.
func (insn Insn) isShiftImm() bool {
	return insn == INSN_SLLI || insn == INSN_SRLI || insn == INSN_SRAI
}

// Code is a single 32-bit instruction word.
type Code uint32

// Opcode returns the major opcode field.
func (code Code) Opcode() uint32 {
	return uint32(code) & OPC_MASK
}

// Rd returns the destination register field.
func (code Code) Rd() int {
	return int((uint32(code) >> 7) & REG_MASK)
}

// Rs1 returns the first source register field.
func (code Code) Rs1() int {
	return int((uint32(code) >> 15) & REG_MASK)
}

// Rs2 returns the second source register field.
func (code Code) Rs2() int {
	return int((uint32(code) >> 20) & REG_MASK)
}

// Funct3 returns the minor opcode field.
func (code Code) Funct3() uint32 {
	return (uint32(code) >> 12) & 0x7
}

// Funct7 returns the upper function field of an R-type word.
func (code Code) Funct7() uint32 {
	return (uint32(code) >> 25) & 0x7f
}

// ImmI returns the sign extended I-type immediate.
func (code Code) ImmI() int32 {
	return int32(code) >> 20
}

// ImmS returns the sign extended S-type immediate.
func (code Code) ImmS() int32 {
	return (int32(code)>>25)<<5 | int32((uint32(code)>>7)&0x1f)
}

// ImmB returns the sign extended B-type branch offset.
func (code Code) ImmB() int32 {
	word := uint32(code)
	imm := ((word >> 8) & 0xf) << 1
	imm |= ((word >> 25) & 0x3f) << 5
	imm |= ((word >> 7) & 0x1) << 11
	return (int32(code)>>31)<<12 | int32(imm)
}

// ImmU returns the U-type immediate, already shifted into bits [31:12].
func (code Code) ImmU() uint32 {
	return uint32(code) & 0xfffff000
}

// ImmJ returns the sign extended J-type jump offset.
func (code Code) ImmJ() int32 {
	word := uint32(code)
	imm := ((word >> 21) & 0x3ff) << 1
	imm |= ((word >> 20) & 0x1) << 11
	imm |= ((word >> 12) & 0xff) << 12
	return (int32(code)>>31)<<20 | int32(imm)
}

// Shamt returns the shift amount of an OP-IMM shift.
func (code Code) Shamt() uint32 {
	return (uint32(code) >> 20) & 0x1f
}

// Class returns the operation class from the major opcode.
func (code Code) Class() CodeClass {
	opcode := code.Opcode()
	for class, value := range classOpcode {
		if value == opcode {
			return class
		}
	}
	return CLASS_ILLEGAL
}

// Format returns the encoding format from the major opcode.
func (code Code) Format() CodeFormat {
	return code.Class().Format()
}

// Insn decodes the mnemonic of the instruction word.
// ok is false if the word is not a legal RV32I instruction.
func (code Code) Insn() (insn Insn, ok bool) {
	class := code.Class()
	if class == CLASS_ILLEGAL {
		return
	}

	for n, info := range insnTable {
		if info.class != class {
			continue
		}
		switch class {
		case CLASS_LUI, CLASS_AUIPC, CLASS_JAL:
			return Insn(n), true
		}
		if info.funct3 != code.Funct3() {
			continue
		}
		switch {
		case class == CLASS_OP:
			if code.Funct7() != info.funct7 {
				continue
			}
		case Insn(n).isShiftImm():
			if code.Funct7() != info.funct7 {
				continue
			}
		case class == CLASS_SYSTEM:
			if uint32(code)>>20 != info.imm {
				continue
			}
		}
		return Insn(n), true
	}

	return
}

// makeCode places the fixed fields of a mnemonic.
func makeCode(insn Insn) Code {
	info := insnTable[insn]
	word := classOpcode[info.class] | (info.funct3 << 12) | (info.funct7 << 25)
	if info.class == CLASS_SYSTEM {
		word |= info.imm << 20
	}
	return Code(word)
}

func regField(reg int, shift int) uint32 {
	return (uint32(reg) & REG_MASK) << shift
}

// MakeCodeR creates a register-register instruction.
func MakeCodeR(insn Insn, rd, rs1, rs2 int) Code {
	return makeCode(insn) | Code(regField(rd, 7)|regField(rs1, 15)|regField(rs2, 20))
}

// MakeCodeI creates a register-immediate instruction.
// For shifts, only the low five bits of imm are encoded.
func MakeCodeI(insn Insn, rd, rs1 int, imm int32) Code {
	word := uint32(imm&0xfff) << 20
	if insn.isShiftImm() {
		word = (uint32(imm) & 0x1f) << 20
	}
	return makeCode(insn) | Code(regField(rd, 7)|regField(rs1, 15)|word)
}

// MakeCodeS creates a store instruction.
func MakeCodeS(insn Insn, rs1, rs2 int, imm int32) Code {
	u := uint32(imm)
	word := (((u >> 5) & 0x7f) << 25) | ((u & 0x1f) << 7)
	return makeCode(insn) | Code(regField(rs1, 15)|regField(rs2, 20)|word)
}

// MakeCodeB creates a conditional branch to a PC relative offset.
func MakeCodeB(insn Insn, rs1, rs2 int, offset int32) Code {
	u := uint32(offset)
	word := ((u >> 12) & 0x1) << 31
	word |= ((u >> 5) & 0x3f) << 25
	word |= ((u >> 1) & 0xf) << 8
	word |= ((u >> 11) & 0x1) << 7
	return makeCode(insn) | Code(regField(rs1, 15)|regField(rs2, 20)|word)
}

// MakeCodeU creates an upper immediate instruction; imm is the 20-bit
// value placed in bits [31:12].
func MakeCodeU(insn Insn, rd int, imm uint32) Code {
	return makeCode(insn) | Code(regField(rd, 7)|(imm<<12))
}

// MakeCodeJ creates a jump-and-link to a PC relative offset.
func MakeCodeJ(insn Insn, rd int, offset int32) Code {
	u := uint32(offset)
	word := ((u >> 20) & 0x1) << 31
	word |= ((u >> 1) & 0x3ff) << 21
	word |= ((u >> 11) & 0x1) << 20
	word |= ((u >> 12) & 0xff) << 12
	return makeCode(insn) | Code(regField(rd, 7)|word)
}

// MakeCodeNop creates the canonical no-op, addi x0, x0, 0.
func MakeCodeNop() Code {
	return MakeCodeI(INSN_ADDI, 0, 0, 0)
}

// Relink returns the branch or jump with its offset replaced.
// Other instruction words are returned unchanged.
func (code Code) Relink(offset int32) Code {
	insn, ok := code.Insn()
	if !ok {
		return code
	}
	switch insn.Class() {
	case CLASS_BRANCH:
		return MakeCodeB(insn, code.Rs1(), code.Rs2(), offset)
	case CLASS_JAL:
		return MakeCodeJ(insn, code.Rd(), offset)
	}
	return code
}

// String returns the assembly language representation of this instruction.
func (code Code) String() (out string) {
	insn, ok := code.Insn()
	if !ok {
		return fmt.Sprintf(".word 0x%08x", uint32(code))
	}

	rd := RegisterName(code.Rd())
	rs1 := RegisterName(code.Rs1())
	rs2 := RegisterName(code.Rs2())

	switch insn.Class() {
	case CLASS_OP:
		out = fmt.Sprintf("%v %v, %v, %v", insn, rd, rs1, rs2)
	case CLASS_OP_IMM:
		if insn.isShiftImm() {
			out = fmt.Sprintf("%v %v, %v, %d", insn, rd, rs1, code.Shamt())
		} else {
			out = fmt.Sprintf("%v %v, %v, %d", insn, rd, rs1, code.ImmI())
		}
	case CLASS_LOAD, CLASS_JALR:
		out = fmt.Sprintf("%v %v, %d(%v)", insn, rd, code.ImmI(), rs1)
	case CLASS_STORE:
		out = fmt.Sprintf("%v %v, %d(%v)", insn, rs2, code.ImmS(), rs1)
	case CLASS_BRANCH:
		out = fmt.Sprintf("%v %v, %v, %d", insn, rs1, rs2, code.ImmB())
	case CLASS_JAL:
		out = fmt.Sprintf("%v %v, %d", insn, rd, code.ImmJ())
	case CLASS_LUI, CLASS_AUIPC:
		out = fmt.Sprintf("%v %v, 0x%x", insn, rd, code.ImmU()>>12)
	default:
		out = insn.String()
	}

	return
}
