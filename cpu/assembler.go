// Copyright 2024, Jason S. McMullan <jason.mcmullan@gmail.com>

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
	"unicode/utf8"

	"go.starlark.net/starlark"
	"go.starlark.net/syntax"
)

// Predefined system equates
var sysEquate = map[string]string{
	"LINENO":    "0",
	"ADDR_LAST": "255",
	"IMM_MAX":   "0xffff",
}

// Assembler is a two pass assembler for rvm programs.
//
// One instruction is generated for each line that is not blank, a comment,
// a label or an equate. Labels may be referenced before they are defined.
type Assembler struct {
	Verbose bool     // If set, verbosely logs the assembler actions.
	Opcode  []Opcode // List of generated opcodes.

	predefine map[string]string // Predefines
	Label     map[string]int    // Map of jump labels to instruction pointers.
	Equate    map[string]string // Map of equates.

	expr []string // Deferred $(...) operands, resolved once all labels are known.
}

// Predefine defines a new equate or redefines an existing equate.
func (asm *Assembler) Predefine(equ string, value string) {
	if asm.predefine == nil {
		asm.predefine = map[string]string{equ: value}
	} else {
		asm.predefine[equ] = value
	}
}

// valueOf returns the value of a simple word.
func (asm *Assembler) valueOf(word string) (value uint32, err error) {
	v64, err := strconv.ParseInt(word, 0, 64)
	if err != nil || v64 < 0 || v64 > 0xffffffff {
		err = ErrParseNumber(word)
		return
	}

	value = uint32(v64)
	return
}

// parenEval does compile-time $(...) evaluations
func (asm *Assembler) parenEval(expr string) (value uint32, err error) {
	thread := starlark.Thread{}
	opts := syntax.FileOptions{}
	pred := starlark.StringDict{}
	for key, str := range asm.Equate {
		var value32 uint32
		value32, err = asm.valueOf(str)
		if err != nil {
			// Ignore non-integer equates.
			err = nil
			continue
		}
		pred[key] = starlark.MakeInt64(int64(value32))
	}
	for key, ip := range asm.Label {
		pred[key] = starlark.MakeInt(ip)
	}
	prog := "rc=" + expr + "\n"
	dict, err := starlark.ExecFileOptions(&opts, &thread, "expr", prog, pred)
	if err != nil {
		return
	}
	st_int, ok := dict["rc"].(starlark.Int)
	if !ok {
		err = ErrParseExpression(expr)
		return
	}
	st_int64, ok := st_int.Int64()
	if !ok || st_int64 < 0 || st_int64 > 0xffffffff {
		err = ErrParseExpression(expr)
		return
	}
	value = uint32(st_int64)
	return
}

var (
	charRegexp  = regexp.MustCompile(`'\\?[^']'`)
	parenRegexp = regexp.MustCompile(`\$\([^\$]*\)`)
)

// parseLine expands a single line of source into words, recording any
// labels and equates it defines.
func (asm *Assembler) parseLine(line string, lineno int) (words []string, err error) {
	// Set line number.
	asm.Equate["LINENO"] = fmt.Sprintf("%v", lineno)

	// Do 'x' evaluations
	line = charRegexp.ReplaceAllStringFunc(line, func(word string) string {
		str := word[1 : len(word)-1]
		if str[0] == '\\' {
			switch str[1:] {
			case "\\":
				str = "\\"
			case "n":
				str = "\n"
			case "r":
				str = "\r"
			case "e":
				str = "\033"
			case "0":
				str = "\000"
			default:
				return word
			}
		}
		value, _ := utf8.DecodeRuneInString(str)
		if value > 0xff {
			if err == nil {
				err = ErrImmediateRange
			}
			return word
		}
		return fmt.Sprintf("%v", value)
	})
	if err != nil {
		return
	}

	// Strip comments.
	line, _, _ = strings.Cut(line, ";")

	// Do $() evaluations. Equates are evaluated now, with the labels defined
	// so far; instruction operands wait for the second pass.
	isEquate := strings.HasPrefix(strings.TrimSpace(line), ".equ")
	line = parenRegexp.ReplaceAllStringFunc(line, func(str string) string {
		expr := str[2 : len(str)-1]
		if !isEquate {
			asm.expr = append(asm.expr, expr)
			return fmt.Sprintf("$%d", len(asm.expr)-1)
		}
		value, _err := asm.parenEval(expr)
		if _err != nil && err == nil {
			err = _err
		}
		return fmt.Sprintf("%#x", value)
	})
	if err != nil {
		return
	}

	words = strings.Fields(line)
	if len(words) == 0 {
		return
	}

	// .equ CONST VALUE
	if words[0] == ".equ" {
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
		words = nil
		return
	}

	for len(words) > 0 && strings.HasSuffix(words[0], ":") {
		label := strings.TrimSuffix(words[0], ":")
		_, ok := asm.Label[label]
		if ok {
			err = ErrLabelDuplicate
			return
		}
		asm.Label[label] = len(asm.Opcode)
		words = words[1:]
	}

	if len(words) == 0 {
		return
	}

	// Operands only; the mnemonic is never substituted.
	for n, word := range words[1:] {
		equate, ok := asm.Equate[word]
		if ok {
			words[n+1] = equate
		}
	}

	return
}

// operand resolves an operand word to a value. Labels take priority.
func (asm *Assembler) operand(word string) (value uint32, err error) {
	ip, ok := asm.Label[word]
	if ok {
		value = uint32(ip)
		return
	}

	if index, ok := strings.CutPrefix(word, "$"); ok {
		n, _err := strconv.Atoi(index)
		if _err == nil && n >= 0 && n < len(asm.expr) {
			value, err = asm.parenEval(asm.expr[n])
			return
		}
	}

	value, err = asm.valueOf(word)
	if err != nil && isIdentifier(word) {
		err = ErrLabelMissing(word)
	}
	return
}

// isIdentifier returns true for words that can only be label names.
func isIdentifier(word string) bool {
	c := word[0]
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

// address resolves an operand that must be a memory address.
func (asm *Assembler) address(word string) (addr uint8, err error) {
	value, err := asm.operand(word)
	if err != nil {
		return
	}
	if value > 0xff {
		err = ErrAddressRange
		return
	}
	addr = uint8(value)
	return
}

// immediate resolves an operand that must be a 16-bit immediate.
func (asm *Assembler) immediate(word string) (imm uint16, err error) {
	value, err := asm.operand(word)
	if err != nil {
		return
	}
	if value > 0xffff {
		err = ErrImmediateRange
		return
	}
	imm = uint16(value)
	return
}

// encode builds the instruction for a line of words.
func (asm *Assembler) encode(words []string) (inst Instruction, err error) {
	op, ok := LookupOp(words[0])
	if !ok {
		err = ErrInstructionInvalid
		return
	}

	args := words[1:]
	if len(args) < op.Args() {
		err = ErrOpcodeValueMissing
		return
	}
	if len(args) > op.Args() {
		err = ErrOpcodeExtraArgs
		return
	}

	var a, b uint8
	var imm uint16

	switch op {
	case OP_EOF:
		inst = Eof{}
		return
	case OP_JMP, OP_JZ, OP_PRN:
		a, err = asm.address(args[0])
		if err != nil {
			return
		}
		switch op {
		case OP_JMP:
			inst = Jmp{Target: a}
		case OP_JZ:
			inst = Jz{Target: a}
		default:
			inst = Prn{Addr: a}
		}
		return
	case OP_STR, OP_ADI, OP_SUI:
		a, err = asm.address(args[0])
		if err != nil {
			return
		}
		imm, err = asm.immediate(args[1])
		if err != nil {
			return
		}
		switch op {
		case OP_STR:
			inst = Str{Dst: a, Imm: imm}
		case OP_ADI:
			inst = Adi{Dst: a, Imm: imm}
		default:
			inst = Sui{Dst: a, Imm: imm}
		}
		return
	}

	a, err = asm.address(args[0])
	if err != nil {
		return
	}
	b, err = asm.address(args[1])
	if err != nil {
		return
	}

	switch op {
	case OP_MOV:
		inst = Mov{Dst: a, Src: b}
	case OP_MOP:
		inst = Mop{Dst: a, Src: b}
	case OP_CMP:
		inst = Cmp{A: a, B: b}
	case OP_MUL:
		inst = Mul{Dst: a, Src: b}
	case OP_DIV:
		inst = Div{Dst: a, Src: b}
	default:
		err = ErrInstructionInvalid
	}

	return
}

// Parse parses an input stream into a Program containing opcodes.
func (asm *Assembler) Parse(input io.Reader) (prog *Program, err error) {
	scanner := bufio.NewScanner(input)

	var line string
	var lineno int

	defer func() {
		if err != nil {
			err = &ErrSyntax{LineNo: lineno, Line: line, Err: err}
		}
	}()

	asm.Opcode = asm.Opcode[:0]
	asm.Label = make(map[string]int, 16)
	asm.Equate = maps.Clone(sysEquate)
	asm.expr = asm.expr[:0]
	for attr, val := range asm.predefine {
		asm.Equate[attr] = val
	}

	for scanner.Scan() {
		line = scanner.Text()
		lineno += 1

		if asm.Verbose {
			log.Printf("%v: %v\n", lineno, line)
		}

		var words []string
		words, err = asm.parseLine(line, lineno)
		if err != nil {
			return
		}
		if len(words) == 0 {
			continue
		}

		asm.Opcode = append(asm.Opcode, Opcode{
			LineNo: lineno,
			Ip:     len(asm.Opcode),
			Words:  words,
		})
	}
	err = scanner.Err()
	if err != nil {
		return
	}

	// Second pass, now that all labels are known.
	for n := range asm.Opcode {
		op := &asm.Opcode[n]
		asm.Equate["LINENO"] = fmt.Sprintf("%v", op.LineNo)
		op.Code, err = asm.encode(op.Words)
		if err != nil {
			lineno = op.LineNo
			line = strings.Join(op.Words, " ")
			return
		}
		if asm.Verbose {
			log.Printf("%04x: %08x %v", op.Ip, op.Code.Encode(), op.Code)
		}
	}

	prog = &Program{
		Opcodes: slices.Clone(asm.Opcode),
	}

	return
}
