package cpu

import (
	"errors"

	"github.com/ezrec/rvcore/translate"
)

var f = translate.From

var (
	// Assembler errors
	ErrEquateSyntax       = errors.New(f(".equ syntax"))
	ErrEquateDuplicate    = errors.New(f(".equ duplicated"))
	ErrLabelDuplicate     = errors.New(f("label duplicated"))
	ErrMacroSyntax        = errors.New(f(".macro syntax"))
	ErrMacroNesting       = errors.New(f(".macro in .macro prohibited"))
	ErrMacroDuplicate     = errors.New(f(".macro duplicated"))
	ErrMacroLonely        = errors.New(f(".macro without .endm"))
	ErrMacroLonelyEndm    = errors.New(f(".endm without .macro"))
	ErrOpcodeExtraArgs    = errors.New(f("excessive arguments"))
	ErrOpcodeMissing      = errors.New(f("operand missing"))
	ErrOpcodeInvalid      = errors.New(f("opcode invalid"))
	ErrRegisterInvalid    = errors.New(f("register invalid"))
	ErrTargetInvalid      = errors.New(f("target invalid"))
	ErrTargetMisaligned   = errors.New(f("target misaligned"))
	ErrInstructionInvalid = errors.New(f("instruction invalid"))
	ErrAddressSyntax      = errors.New(f("address syntax, expected offset(register)"))
)

// ErrImageSize is returned when an image exceeds the instruction memory.
type ErrImageSize int

func (err ErrImageSize) Error() string {
	return f("image of %v words exceeds instruction memory of %v words", int(err), IMEM_WORDS)
}

// ErrInstructionIllegal describes an instruction word that is not RV32I.
type ErrInstructionIllegal Code

func (err ErrInstructionIllegal) Error() string {
	return f("illegal instruction 0x%08x", uint32(err))
}

type ErrLabelMissing string

func (el ErrLabelMissing) Error() string {
	return f("label %v missing", string(el))
}

// ErrImmediateRange is returned when an immediate does not fit its field.
type ErrImmediateRange struct {
	Value int64
	Min   int64
	Max   int64
}

func (err *ErrImmediateRange) Error() string {
	return f("immediate %v outside of %v..%v", err.Value, err.Min, err.Max)
}

type ErrSyntax struct {
	LineNo int
	Line   string
	Err    error
}

func (err ErrSyntax) Error() string {
	return f("line %d '%v' %v", err.LineNo, err.Line, err.Err)
}

func (err ErrSyntax) Unwrap() error {
	return err.Err
}

type ErrParseNumber string

func (err ErrParseNumber) Error() string {
	return f("'%v' is not a number", string(err))
}

type ErrParseCharacter string

func (err ErrParseCharacter) Error() string {
	return f("'%v' is not a character", string(err))
}

type ErrParseExpression string

func (err ErrParseExpression) Error() string {
	return f("$(%v) is not a valid expression", string(err))
}

type ErrMacro struct {
	Macro string
	Line  int
	Err   error
}

func (err ErrMacro) Error() string {
	return f("macro %v line %v %v", err.Macro, err.Line, err.Err.Error())
}

func (err ErrMacro) Unwrap() error {
	return err.Err
}
