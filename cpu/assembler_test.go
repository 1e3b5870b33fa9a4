package cpu

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func assemble(t *testing.T, lines ...string) (prog *Program, err error) {
	asm := &Assembler{}
	return asm.Parse(strings.NewReader(strings.Join(lines, "\n")))
}

func TestAssemblerBasic(t *testing.T) {
	assert := assert.New(t)

	prog, err := assemble(t,
		"; greeting",
		"str 0 'H'",
		"prn 0",
		"",
		"str 0 'i' ; second letter",
		"prn 0",
		"eof",
	)
	assert.NoError(err)

	assert.Equal([]uint32{
		Str{Dst: 0, Imm: 'H'}.Encode(),
		Prn{Addr: 0}.Encode(),
		Str{Dst: 0, Imm: 'i'}.Encode(),
		Prn{Addr: 0}.Encode(),
		Eof{}.Encode(),
	}, prog.Binary())

	assert.Equal(2, prog.Opcodes[0].LineNo)
	assert.Equal(5, prog.Opcodes[2].LineNo)
	assert.Equal(2, prog.Opcodes[2].Ip)
}

func TestAssemblerAllOpcodes(t *testing.T) {
	assert := assert.New(t)

	prog, err := assemble(t,
		"mov 1 2",
		"mop 3 4",
		"str 5 0x1234",
		"adi 6 7",
		"sui 8 9",
		"jmp 10",
		"jz 11",
		"cmp 12 13",
		"prn 14",
		"mul 15 16",
		"div 17 18",
		"eof",
	)
	assert.NoError(err)

	assert.Equal([]uint32{
		0x01010002,
		0x0b030004,
		0x02051234,
		0x03060007,
		0x04080009,
		0x050a0000,
		0x060b0000,
		0x070c0d00,
		0x080e0000,
		0x090f0010,
		0x0a110012,
		0xff000000,
	}, prog.Binary())
}

func TestAssemblerLabels(t *testing.T) {
	assert := assert.New(t)

	prog, err := assemble(t,
		"start:",
		"  str 100 5",
		"loop: sui 100 1",
		"  jz done",
		"  jmp loop",
		"done: eof",
	)
	assert.NoError(err)

	assert.Equal([]Instruction{
		Str{Dst: 100, Imm: 5},
		Sui{Dst: 100, Imm: 1},
		Jz{Target: 4},
		Jmp{Target: 1},
		Eof{},
	}, codesOf(prog))
}

func TestAssemblerEquates(t *testing.T) {
	assert := assert.New(t)

	asm := &Assembler{}
	asm.Predefine("MEMORY_LAST", "499")
	prog, err := asm.Parse(strings.NewReader(strings.Join([]string{
		".equ COUNTER 100",
		".equ STEP 0x10",
		"str COUNTER STEP",
		"adi COUNTER $(STEP * 2 + 1)",
		"str $(COUNTER + 1) $(MEMORY_LAST)",
		"str 0 $(LINENO)",
		"eof",
	}, "\n")))
	assert.NoError(err)

	assert.Equal([]Instruction{
		Str{Dst: 100, Imm: 0x10},
		Adi{Dst: 100, Imm: 0x21},
		Str{Dst: 101, Imm: 499},
		Str{Dst: 0, Imm: 6},
		Eof{},
	}, codesOf(prog))
}

func TestAssemblerCharacters(t *testing.T) {
	assert := assert.New(t)

	prog, err := assemble(t,
		"str 0 '\\n'",
		"str 1 ' '",
		"str 2 '\\\\'",
		"str 3 ';' ; semicolon",
		"str 4 'é'",
		"str 5 'ÿ'",
	)
	assert.NoError(err)

	assert.Equal([]Instruction{
		Str{Dst: 0, Imm: '\n'},
		Str{Dst: 1, Imm: ' '},
		Str{Dst: 2, Imm: '\\'},
		Str{Dst: 3, Imm: ';'},
		Str{Dst: 4, Imm: 0xe9},
		Str{Dst: 5, Imm: 0xff},
	}, codesOf(prog))

	// Characters past Latin-1 cannot be printed.
	_, err = assemble(t, "eof", "str 0 '€'")
	assert.ErrorIs(err, ErrImmediateRange)

	var syntax *ErrSyntax
	if assert.True(errors.As(err, &syntax)) {
		assert.Equal(2, syntax.LineNo)
	}
}

func TestAssemblerEquateMnemonic(t *testing.T) {
	assert := assert.New(t)

	prog, err := assemble(t,
		".equ str 5",
		"str str 1",
		"prn str",
	)
	assert.NoError(err)

	assert.Equal([]Instruction{
		Str{Dst: 5, Imm: 1},
		Prn{Addr: 5},
	}, codesOf(prog))
}

func TestAssemblerExpressionForward(t *testing.T) {
	assert := assert.New(t)

	prog, err := assemble(t,
		"jmp $(done - 1)",
		"eof",
		"eof",
		"done: eof",
		"str 0 $(LINENO + done)",
	)
	assert.NoError(err)

	assert.Equal([]Instruction{
		Jmp{Target: 2},
		Eof{},
		Eof{},
		Eof{},
		Str{Dst: 0, Imm: 8},
	}, codesOf(prog))

	// Equates are evaluated where they are defined.
	_, err = assemble(t,
		".equ AFTER $(later)",
		"later: eof",
	)
	assert.Error(err)
}

func TestAssemblerErrors(t *testing.T) {
	assert := assert.New(t)

	table := [](struct {
		name   string
		lines  []string
		err    error
		lineno int
	}){
		{"unknown", []string{"eof", "nop 1"}, ErrInstructionInvalid, 2},
		{"missing", []string{"mov 1"}, ErrOpcodeValueMissing, 1},
		{"extra", []string{"eof 1"}, ErrOpcodeExtraArgs, 1},
		{"address", []string{"prn 256"}, ErrAddressRange, 1},
		{"immediate", []string{"str 1 0x10000"}, ErrImmediateRange, 1},
		{"label", []string{"jmp nowhere"}, ErrLabelMissing("nowhere"), 1},
		{"number", []string{"prn 12z"}, ErrParseNumber("12z"), 1},
		{"negative", []string{"str 1 -1"}, ErrParseNumber("-1"), 1},
		{"dup-label", []string{"a: eof", "a: eof"}, ErrLabelDuplicate, 2},
		{"dup-equ", []string{".equ A 1", ".equ A 2"}, ErrEquateDuplicate, 2},
		{"equ-syntax", []string{".equ A"}, ErrEquateSyntax, 1},
	}

	for _, entry := range table {
		_, err := assemble(t, entry.lines...)
		assert.ErrorIs(err, entry.err, entry.name)

		var syntax *ErrSyntax
		if assert.True(errors.As(err, &syntax), entry.name) {
			assert.Equal(entry.lineno, syntax.LineNo, entry.name)
		}
	}
}

func TestAssemblerExpressionError(t *testing.T) {
	assert := assert.New(t)

	_, err := assemble(t, "str 0 $(1 +)")
	assert.Error(err)

	_, err = assemble(t, "str 0 $(\"text\")")
	assert.ErrorIs(err, ErrParseExpression("\"text\""))
}

func TestAssemblerReuse(t *testing.T) {
	assert := assert.New(t)

	asm := &Assembler{}
	_, err := asm.Parse(strings.NewReader("a: eof\n"))
	assert.NoError(err)

	prog, err := asm.Parse(strings.NewReader("a: jmp a\n"))
	assert.NoError(err)
	assert.Equal([]Instruction{Jmp{Target: 0}}, codesOf(prog))
}

func codesOf(prog *Program) (codes []Instruction) {
	for _, op := range prog.Opcodes {
		codes = append(codes, op.Code)
	}
	return
}
