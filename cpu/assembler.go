// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package cpu

import (
	"bufio"
	"fmt"
	"io"
	"log"
	"maps"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"go.starlark.net/starlark"
	"go.starlark.net/syntax"
)

// Macro represents a macro definition in the assembly language.
type Macro struct {
	LineNo int      // Line number of the macro definition.
	Args   []string // Arguments for the macro.
	Lines  []string // Lines of macro text to expand.
}

// Predefined system equates
var sysEquate = map[string]string{
	"LINENO": "0",
}

// Assembler is a single pass macro assembler for RV32I.
type Assembler struct {
	Verbose bool     // If set, verbosely logs the assembler actions.
	Opcode  []Opcode // List of generated opcodes.

	predefine map[string]string   // Predefines
	Label     map[string]uint32   // Map of jump labels to addresses.
	Equate    map[string]string   // Map of equates.
	Macro     map[string](*Macro) // Map of macros.

	expansions int // Count of macro expansions, for unique local labels.
}

// Predefine defines a new equate or redefines an existing equate.
func (asm *Assembler) Predefine(equ string, value string) {
	if asm.predefine == nil {
		asm.predefine = map[string]string{equ: value}
	} else {
		asm.predefine[equ] = value
	}
}

// insnMap maps mnemonics to instructions.
var insnMap = func() map[string]Insn {
	m := make(map[string]Insn, INSN_COUNT)
	for insn := range Insn(INSN_COUNT) {
		m[insn.String()] = insn
	}
	return m
}()

// regMap maps numeric and ABI register names to indexes.
var regMap = func() map[string]int {
	m := make(map[string]int, 2*REG_COUNT+1)
	for n := range REG_COUNT {
		m[RegisterName(n)] = n
		m[RegisterAbiName(n)] = n
	}
	m["fp"] = 8
	return m
}()

var reLabel = regexp.MustCompile(`^[A-Za-z_.][A-Za-z0-9_.]*$`)
var reAddress = regexp.MustCompile(`^([^()]*)\(([^()]+)\)$`)

// valueOf returns the value of a simple word, as a signed 32-bit quantity.
func (asm *Assembler) valueOf(word string) (value int64, err error) {
	equate, ok := asm.Equate[word]
	if ok {
		word = equate
	}

	if len(word) == 0 {
		err = ErrOpcodeMissing
		return
	}

	invert := false
	if word[0] == '~' {
		invert = true
		word = word[1:]
	}
	if len(word) > 1 && word[0] == '\'' {
		// Character quotes should have been expanded into
		// values in parseLine()
		err = ErrParseCharacter(word[1 : len(word)-1])
		return
	}
	v64, err := strconv.ParseInt(word, 0, 64)
	if err != nil || v64 > 0xffffffff || v64 < -0x80000000 {
		err = ErrParseNumber(word)
		return
	}

	value = int64(int32(uint32(v64)))

	if invert {
		value = ^value
	}

	return
}

// immediate returns a value that must lie within min..max.
func (asm *Assembler) immediate(word string, min, max int64) (value int32, err error) {
	v64, err := asm.valueOf(word)
	if err != nil {
		return
	}

	if v64 < min || v64 > max {
		err = &ErrImmediateRange{Value: v64, Min: min, Max: max}
		return
	}

	value = int32(v64)
	return
}

// register returns the index of a named register.
func (asm *Assembler) register(word string) (index int, err error) {
	equate, ok := asm.Equate[word]
	if ok {
		word = equate
	}

	index, ok = regMap[word]
	if !ok {
		err = ErrRegisterInvalid
	}
	return
}

// address decodes an offset(register) operand.
func (asm *Assembler) address(word string) (offset int32, base int, err error) {
	match := reAddress.FindStringSubmatch(word)
	if match == nil {
		err = ErrAddressSyntax
		return
	}

	base, err = asm.register(match[2])
	if err != nil {
		return
	}

	if len(match[1]) == 0 {
		return
	}

	offset, err = asm.immediate(match[1], -2048, 2047)
	return
}

// target decodes a branch or jump target: either a label, to be linked at
// the end of the pass, or a literal PC relative offset.
func (asm *Assembler) target(word string, min, max int64) (offset int32, label string, err error) {
	v64, err := asm.valueOf(word)
	if err != nil {
		if !reLabel.MatchString(word) {
			err = ErrTargetInvalid
			return
		}
		label = word
		err = nil
		return
	}

	if v64%4 != 0 {
		err = ErrTargetMisaligned
		return
	}

	if v64 < min || v64 > max {
		err = &ErrImmediateRange{Value: v64, Min: min, Max: max}
		return
	}

	offset = int32(v64)
	return
}

// parenEval does compile-time $(...) evaluations
func (asm *Assembler) parenEval(expr string) (value int64, err error) {
	thread := starlark.Thread{}
	opts := syntax.FileOptions{}
	pred := starlark.StringDict{}
	for key, str := range asm.Equate {
		var v64 int64
		v64, err = asm.valueOf(str)
		if err != nil {
			// Ignore non-integer equates. They may be registers
			// or something else.
			err = nil
			continue
		}
		pred[key] = starlark.MakeInt64(v64)
	}
	for key, pc := range asm.Label {
		if reLabel.MatchString(key) && !strings.Contains(key, ".") {
			pred[key] = starlark.MakeUint(uint(pc))
		}
	}
	prog := "rc=" + expr + "\n"
	dict, err := starlark.ExecFileOptions(&opts, &thread, "expr", prog, pred)
	if err != nil {
		return
	}
	st_rc, ok := dict["rc"]
	if !ok {
		err = ErrParseExpression(expr)
		return
	}
	st_int, ok := st_rc.(starlark.Int)
	if !ok {
		err = ErrParseExpression(expr)
		return
	}
	st_int64, ok := st_int.Int64()
	if !ok {
		err = ErrParseExpression(expr)
		return
	}
	value = st_int64
	return
}

// stripComment removes a trailing '#', ';' or '//' comment. Markers inside
// character literals and $() expressions are not comments.
func stripComment(text string) string {
	depth := 0
	quoted := false
	for n := 0; n < len(text); n++ {
		c := text[n]
		switch {
		case quoted:
			if c == '\\' {
				n++
			} else if c == '\'' {
				quoted = false
			}
		case c == '\'':
			quoted = true
		case c == '$' && n+1 < len(text) && text[n+1] == '(':
			depth++
			n++
		case depth > 0 && c == '(':
			depth++
		case depth > 0 && c == ')':
			depth--
		case depth > 0:
			// starlark '//' is floor division
		case c == '#' || c == ';':
			return text[:n]
		case c == '/' && n+1 < len(text) && text[n+1] == '/':
			return text[:n]
		}
	}
	return text
}

// splitWords splits a line on whitespace and commas.
func splitWords(line string) []string {
	return strings.FieldsFunc(line, func(r rune) bool {
		return r == ' ' || r == '\t' || r == ','
	})
}

// parseLine parses a single line as an opcode.
func (asm *Assembler) parseLine(line string, lineno int) (words []string, err error) {
	// Set line number.
	asm.Equate["LINENO"] = fmt.Sprintf("%v", lineno)

	// Do 'x' evaluations
	re := regexp.MustCompile(`'\\?[^']'`)
	line = re.ReplaceAllStringFunc(line, func(word string) string {
		str := word[1 : len(word)-1]
		if str[0] == '\\' {
			str = str[1:]
			switch str {
			case "\\":
				str = "\\"
			case "n":
				str = "\n"
			case "r":
				str = "\r"
			case "t":
				str = "\t"
			case "0":
				str = "\000"
			default:
				return word
			}
		} else if len(str) != 1 {
			return word
		}
		return fmt.Sprintf("%v", str[0])
	})

	// Do $() evaluations
	re = regexp.MustCompile(`\$\(([^()]|\([^()]*\))*\)`)
	line = re.ReplaceAllStringFunc(line, func(str string) string {
		value, _err := asm.parenEval(str[2 : len(str)-1])
		if _err != nil {
			err = _err
		}
		return fmt.Sprintf("%d", value)
	})
	if err != nil {
		return
	}

	words = splitWords(line)

	if len(words) == 0 {
		return
	}

	// .equ CONST VALUE
	if len(words) > 0 && words[0] == ".equ" {
		if len(words) != 3 {
			err = ErrEquateSyntax
			return
		}
		_, ok := asm.Equate[words[1]]
		if ok {
			err = ErrEquateDuplicate
			return
		}
		asm.Equate[words[1]] = words[2]
		words = words[:0]
		return
	}

	for n, word := range words {
		// Check for equate next
		equate, ok := asm.Equate[word]
		if ok {
			words[n] = equate
		}
	}

	for strings.HasSuffix(words[0], ":") {
		label := words[0][:len(words[0])-1]
		if !reLabel.MatchString(label) {
			err = ErrTargetInvalid
			return
		}
		_, ok := asm.Label[label]
		if ok {
			err = ErrLabelDuplicate
			return
		}

		if asm.Label == nil {
			asm.Label = make(map[string]uint32, 16)
		}
		asm.Label[label] = asm.currentPc()
		words = words[1:]
		if len(words) == 0 {
			return
		}
	}

	// .macro processing
	macro, ok := asm.Macro[words[0]]
	if ok {
		name := words[0]

		args := words[1:]
		if len(args) != len(macro.Args) {
			err = ErrMacroSyntax
			return
		}
		// Turn args into equs
		old_equate := maps.Clone(asm.Equate)
		for n, arg := range macro.Args {
			asm.Equate[arg] = words[1+n]
		}
		defer func() { asm.Equate = old_equate }()

		asm.expansions++
		local := fmt.Sprintf("%v_%v_", name, asm.expansions)

		for n, line := range macro.Lines {
			lineno := macro.LineNo + n

			line = strings.ReplaceAll(line, "@", local)
			words, err = asm.parseLine(line, lineno)
			if err != nil {
				err = &ErrMacro{Macro: name, Line: lineno, Err: err}
				err = &ErrSyntax{LineNo: lineno, Line: line, Err: err}
				return
			}

			err = asm.parseWords(words, macro.LineNo+n)
			if err != nil {
				err = &ErrMacro{Macro: name, Line: lineno, Err: err}
				err = &ErrSyntax{LineNo: lineno, Line: line, Err: err}
				return
			}
		}

		words = nil
		return
	}

	return
}

// currentPc gets the address of the next instruction.
func (asm *Assembler) currentPc() uint32 {
	if len(asm.Opcode) == 0 {
		return RESET_PC
	}

	last := asm.Opcode[len(asm.Opcode)-1]

	return last.Pc + 4*uint32(len(last.Codes))
}

// Parse parses an input stream into a Program containing opcodes.
func (asm *Assembler) Parse(input io.Reader) (prog *Program, err error) {

	scanner := bufio.NewScanner(input)

	var line string
	var lineno int
	var macro *Macro

	defer func() {
		if err != nil {
			err = &ErrSyntax{LineNo: lineno, Line: line, Err: err}
		}
	}()

	clear(asm.Label)
	asm.Opcode = asm.Opcode[:0]
	asm.expansions = 0
	if asm.Macro == nil {
		asm.Macro = make(map[string](*Macro))
	}
	clear(asm.Macro)
	asm.Equate = maps.Clone(sysEquate)
	for attr, val := range asm.predefine {
		asm.Equate[attr] = val
	}

	for scanner.Scan() {
		text := scanner.Text()
		lineno += 1

		if asm.Verbose {
			log.Printf("%v: %v\n", lineno, text)
		}

		line = strings.TrimSpace(stripComment(text))
		words := strings.Fields(line)

		// .macro NAME arg...
		if len(words) > 0 && words[0] == ".macro" {
			if macro != nil {
				err = ErrMacroNesting
				return
			}
			words = splitWords(line)
			if len(words) < 2 {
				err = ErrMacroSyntax
				return
			}
			_, ok := asm.Macro[words[1]]
			if ok {
				err = ErrMacroDuplicate
				return
			}
			macro = &Macro{
				LineNo: lineno + 1,
			}
			if len(words) > 2 {
				macro.Args = words[2:]
			}
			asm.Macro[words[1]] = macro
			continue
		}

		if len(words) > 0 && words[0] == ".endm" {
			if macro == nil {
				err = ErrMacroLonelyEndm
				return
			}
			macro = nil
			continue
		}

		if macro != nil {
			macro.Lines = append(macro.Lines, line)
			continue
		}

		words, err = asm.parseLine(line, lineno)
		if err != nil {
			return
		}

		err = asm.parseWords(words, lineno)
		if err != nil {
			return
		}
	}

	if macro != nil {
		err = ErrMacroLonely
		return
	}

	// Final linking of jump labels.
	for n := range asm.Opcode {
		op := &asm.Opcode[n]

		if len(op.LinkLabel) == 0 {
			continue
		}
		label := op.LinkLabel
		pc, ok := asm.Label[label]
		if !ok {
			lineno = op.LineNo
			line = strings.Join(op.Words, " ")
			err = ErrLabelMissing(label)
			return
		}
		if len(op.Codes) < 1 {
			log.Fatalf("Unable to link label '%s' to line %d: %v", label, op.LineNo, op.Words)
		}
		linked := &op.Codes[len(op.Codes)-1]
		here := op.Pc + 4*uint32(len(op.Codes)-1)
		offset := int64(int32(pc - here))
		limit := int64(1 << 12)
		if linked.Class() == CLASS_JAL {
			limit = 1 << 20
		}
		if offset < -limit || offset >= limit {
			lineno = op.LineNo
			line = strings.Join(op.Words, " ")
			err = &ErrImmediateRange{Value: offset, Min: -limit, Max: limit - 2}
			return
		}
		*linked = linked.Relink(int32(offset))
	}

	prog = &Program{
		Opcodes: slices.Clone(asm.Opcode),
	}

	return
}

// wantArgs checks the operand count of an instruction.
func wantArgs(words []string, count int) (err error) {
	switch {
	case len(words)-1 < count:
		err = ErrOpcodeMissing
	case len(words)-1 > count:
		err = ErrOpcodeExtraArgs
	}
	return
}

// parseWords evaluates the words in a line of assembly text.
func (asm *Assembler) parseWords(words []string, lineno int) (err error) {
	var codes []Code
	var label string

	// no-op
	if len(words) == 0 {
		return
	}

	initial_words := words

	defer func() {
		if len(codes) == 0 {
			return
		}
		opcode := Opcode{LineNo: lineno, Pc: asm.currentPc(), Words: initial_words, Codes: codes, LinkLabel: label}
		asm.Opcode = append(asm.Opcode, opcode)
	}()

	// Pseudo instruction substitutions
	switch {
	case len(words) == 1 && words[0] == "nop":
		words = []string{"addi", "x0", "x0", "0"}
	case len(words) == 3 && words[0] == "mv":
		words = []string{"addi", words[1], words[2], "0"}
	case len(words) == 3 && words[0] == "not":
		words = []string{"xori", words[1], words[2], "-1"}
	case len(words) == 3 && words[0] == "neg":
		words = []string{"sub", words[1], "x0", words[2]}
	case len(words) == 3 && words[0] == "seqz":
		words = []string{"sltiu", words[1], words[2], "1"}
	case len(words) == 3 && words[0] == "snez":
		words = []string{"sltu", words[1], "x0", words[2]}
	case len(words) == 3 && words[0] == "beqz":
		words = []string{"beq", words[1], "x0", words[2]}
	case len(words) == 3 && words[0] == "bnez":
		words = []string{"bne", words[1], "x0", words[2]}
	case len(words) == 3 && words[0] == "bltz":
		words = []string{"blt", words[1], "x0", words[2]}
	case len(words) == 3 && words[0] == "bgez":
		words = []string{"bge", words[1], "x0", words[2]}
	case len(words) == 3 && words[0] == "blez":
		words = []string{"bge", "x0", words[1], words[2]}
	case len(words) == 3 && words[0] == "bgtz":
		words = []string{"blt", "x0", words[1], words[2]}
	case len(words) == 4 && words[0] == "bgt":
		words = []string{"blt", words[2], words[1], words[3]}
	case len(words) == 4 && words[0] == "ble":
		words = []string{"bge", words[2], words[1], words[3]}
	case len(words) == 4 && words[0] == "bgtu":
		words = []string{"bltu", words[2], words[1], words[3]}
	case len(words) == 4 && words[0] == "bleu":
		words = []string{"bgeu", words[2], words[1], words[3]}
	case len(words) == 2 && words[0] == "j":
		words = []string{"jal", "x0", words[1]}
	case len(words) == 2 && words[0] == "jal":
		words = []string{"jal", "ra", words[1]}
	case len(words) == 2 && words[0] == "call":
		words = []string{"jal", "ra", words[1]}
	case len(words) == 2 && words[0] == "jr":
		words = []string{"jalr", "x0", "0(" + words[1] + ")"}
	case len(words) == 2 && words[0] == "jalr":
		words = []string{"jalr", "ra", "0(" + words[1] + ")"}
	case len(words) == 4 && words[0] == "jalr":
		// jalr rd, rs1, imm => jalr rd, imm(rs1)
		words = []string{"jalr", words[1], words[3] + "(" + words[2] + ")"}
	case len(words) == 1 && words[0] == "ret":
		words = []string{"jalr", "x0", "0(ra)"}
	default:
		// unchanged
	}

	switch words[0] {
	case ".word":
		if len(words) < 2 {
			err = ErrOpcodeMissing
			return
		}
		for _, word := range words[1:] {
			var v64 int64
			v64, err = asm.valueOf(word)
			if err != nil {
				return
			}
			codes = append(codes, Code(uint32(v64)))
		}
		return
	case "li":
		err = wantArgs(words, 2)
		if err != nil {
			return
		}
		var rd int
		rd, err = asm.register(words[1])
		if err != nil {
			return
		}
		var v64 int64
		v64, err = asm.valueOf(words[2])
		if err != nil {
			return
		}
		codes = MakeCodeLi(rd, int32(v64))
		return
	}

	insn, ok := insnMap[words[0]]
	if !ok {
		err = ErrInstructionInvalid
		return
	}

	var rd, rs1, rs2 int
	var imm int32

	switch insn.Class() {
	case CLASS_OP:
		err = wantArgs(words, 3)
		if err != nil {
			return
		}
		for n, reg := range []*int{&rd, &rs1, &rs2} {
			*reg, err = asm.register(words[1+n])
			if err != nil {
				return
			}
		}
		codes = append(codes, MakeCodeR(insn, rd, rs1, rs2))
	case CLASS_OP_IMM:
		err = wantArgs(words, 3)
		if err != nil {
			return
		}
		rd, err = asm.register(words[1])
		if err != nil {
			return
		}
		rs1, err = asm.register(words[2])
		if err != nil {
			return
		}
		if insn.isShiftImm() {
			imm, err = asm.immediate(words[3], 0, 31)
		} else {
			imm, err = asm.immediate(words[3], -2048, 2047)
		}
		if err != nil {
			return
		}
		codes = append(codes, MakeCodeI(insn, rd, rs1, imm))
	case CLASS_LOAD, CLASS_JALR:
		err = wantArgs(words, 2)
		if err != nil {
			return
		}
		rd, err = asm.register(words[1])
		if err != nil {
			return
		}
		imm, rs1, err = asm.address(words[2])
		if err != nil {
			return
		}
		codes = append(codes, MakeCodeI(insn, rd, rs1, imm))
	case CLASS_STORE:
		err = wantArgs(words, 2)
		if err != nil {
			return
		}
		rs2, err = asm.register(words[1])
		if err != nil {
			return
		}
		imm, rs1, err = asm.address(words[2])
		if err != nil {
			return
		}
		codes = append(codes, MakeCodeS(insn, rs1, rs2, imm))
	case CLASS_BRANCH:
		err = wantArgs(words, 3)
		if err != nil {
			return
		}
		rs1, err = asm.register(words[1])
		if err != nil {
			return
		}
		rs2, err = asm.register(words[2])
		if err != nil {
			return
		}
		imm, label, err = asm.target(words[3], -(1 << 12), (1<<12)-2)
		if err != nil {
			return
		}
		codes = append(codes, MakeCodeB(insn, rs1, rs2, imm))
	case CLASS_JAL:
		err = wantArgs(words, 2)
		if err != nil {
			return
		}
		rd, err = asm.register(words[1])
		if err != nil {
			return
		}
		imm, label, err = asm.target(words[2], -(1 << 20), (1<<20)-2)
		if err != nil {
			return
		}
		codes = append(codes, MakeCodeJ(insn, rd, imm))
	case CLASS_LUI, CLASS_AUIPC:
		err = wantArgs(words, 2)
		if err != nil {
			return
		}
		rd, err = asm.register(words[1])
		if err != nil {
			return
		}
		imm, err = asm.immediate(words[2], -(1 << 19), (1<<20)-1)
		if err != nil {
			return
		}
		codes = append(codes, MakeCodeU(insn, rd, uint32(imm)&0xfffff))
	default:
		// fence, ecall, ebreak
		err = wantArgs(words, 0)
		if err != nil {
			return
		}
		codes = append(codes, makeCode(insn))
	}

	return
}

// MakeCodeLi creates the shortest sequence loading a 32-bit constant.
func MakeCodeLi(rd int, value int32) (codes []Code) {
	if value >= -2048 && value < 2048 {
		return []Code{MakeCodeI(INSN_ADDI, rd, 0, value)}
	}

	lo := (value << 20) >> 20
	hi := (uint32(value) - uint32(lo)) >> 12
	codes = append(codes, MakeCodeU(INSN_LUI, rd, hi&0xfffff))
	if lo != 0 {
		codes = append(codes, MakeCodeI(INSN_ADDI, rd, rd, lo))
	}

	return
}
