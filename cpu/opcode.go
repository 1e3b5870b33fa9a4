package cpu

import (
	"fmt"
)

// CodeOp is the opcode byte of an instruction word.
type CodeOp uint8

const (
	OP_MOV = CodeOp(0x01) // mov
	OP_STR = CodeOp(0x02) // str
	OP_ADI = CodeOp(0x03) // adi
	OP_SUI = CodeOp(0x04) // sui
	OP_JMP = CodeOp(0x05) // jmp
	OP_JZ  = CodeOp(0x06) // jz
	OP_CMP = CodeOp(0x07) // cmp
	OP_PRN = CodeOp(0x08) // prn
	OP_MUL = CodeOp(0x09) // mul
	OP_DIV = CodeOp(0x0a) // div
	OP_MOP = CodeOp(0x0b) // mop
	OP_EOF = CodeOp(0xff) // eof
)

// opNames maps opcodes to mnemonics.
var opNames = map[CodeOp]string{
	OP_MOV: "mov",
	OP_STR: "str",
	OP_ADI: "adi",
	OP_SUI: "sui",
	OP_JMP: "jmp",
	OP_JZ:  "jz",
	OP_CMP: "cmp",
	OP_PRN: "prn",
	OP_MUL: "mul",
	OP_DIV: "div",
	OP_MOP: "mop",
	OP_EOF: "eof",
}

// opArgs is the number of assembler operands for each opcode.
var opArgs = map[CodeOp]int{
	OP_MOV: 2,
	OP_STR: 2,
	OP_ADI: 2,
	OP_SUI: 2,
	OP_JMP: 1,
	OP_JZ:  1,
	OP_CMP: 2,
	OP_PRN: 1,
	OP_MUL: 2,
	OP_DIV: 2,
	OP_MOP: 2,
	OP_EOF: 0,
}

// String returns the mnemonic of the opcode.
func (op CodeOp) String() string {
	name, ok := opNames[op]
	if !ok {
		return fmt.Sprintf("CodeOp(0x%02x)", uint8(op))
	}
	return name
}

// Valid returns true for opcodes the engine executes.
func (op CodeOp) Valid() bool {
	_, ok := opNames[op]
	return ok
}

// Args returns the number of operands the opcode takes in assembly source.
func (op CodeOp) Args() int {
	return opArgs[op]
}

// LookupOp finds the opcode for a mnemonic.
func LookupOp(mnemonic string) (op CodeOp, ok bool) {
	for op, name := range opNames {
		if name == mnemonic {
			return op, true
		}
	}
	return
}

// Instruction word layout, big-endian: [opcode][op1][op2_hi][op2_lo].
const (
	WORD_OPCODE_SHIFT = 24
	WORD_OP1_SHIFT    = 16
	WORD_OP2_HI_SHIFT = 8
	WORD_OP2_LO_SHIFT = 0
)

// makeWord assembles an instruction word from its four bytes.
func makeWord(op CodeOp, op1, op2Hi, op2Lo uint8) uint32 {
	return (uint32(op) << WORD_OPCODE_SHIFT) |
		(uint32(op1) << WORD_OP1_SHIFT) |
		(uint32(op2Hi) << WORD_OP2_HI_SHIFT) |
		(uint32(op2Lo) << WORD_OP2_LO_SHIFT)
}

// splitWord returns the four bytes of an instruction word.
func splitWord(word uint32) (op CodeOp, op1, op2Hi, op2Lo uint8) {
	op = CodeOp(word >> WORD_OPCODE_SHIFT)
	op1 = uint8(word >> WORD_OP1_SHIFT)
	op2Hi = uint8(word >> WORD_OP2_HI_SHIFT)
	op2Lo = uint8(word >> WORD_OP2_LO_SHIFT)
	return
}

// Instruction is a decoded instruction word. Each opcode has its own
// type carrying only the operands it uses.
type Instruction interface {
	Op() CodeOp     // Opcode of the instruction.
	Encode() uint32 // Canonical instruction word.
	String() string // Assembly text of the instruction.
}

// Eof halts the machine.
type Eof struct{}

// Mov copies mem[Src] to mem[Dst].
type Mov struct{ Dst, Src uint8 }

// Mop copies mem[mem[Src]] to mem[Dst].
type Mop struct{ Dst, Src uint8 }

// Str stores Imm in mem[Dst].
type Str struct {
	Dst uint8
	Imm uint16
}

// Adi adds Imm to mem[Dst], checked.
type Adi struct {
	Dst uint8
	Imm uint16
}

// Sui subtracts Imm from mem[Dst], checked.
type Sui struct {
	Dst uint8
	Imm uint16
}

// Jmp continues execution at Target.
type Jmp struct{ Target uint8 }

// Jz continues execution at Target if the zero flag is set.
type Jz struct{ Target uint8 }

// Cmp sets the zero flag to mem[A] == mem[B].
type Cmp struct{ A, B uint8 }

// Prn prints the low byte of mem[Addr].
type Prn struct{ Addr uint8 }

// Mul multiplies mem[Dst] by mem[Src], checked.
type Mul struct{ Dst, Src uint8 }

// Div divides mem[Dst] by mem[Src].
type Div struct{ Dst, Src uint8 }

// Unknown is a word with an unrecognized opcode byte.
type Unknown struct{ Word uint32 }

func (Eof) Op() CodeOp       { return OP_EOF }
func (Mov) Op() CodeOp       { return OP_MOV }
func (Mop) Op() CodeOp       { return OP_MOP }
func (Str) Op() CodeOp       { return OP_STR }
func (Adi) Op() CodeOp       { return OP_ADI }
func (Sui) Op() CodeOp       { return OP_SUI }
func (Jmp) Op() CodeOp       { return OP_JMP }
func (Jz) Op() CodeOp        { return OP_JZ }
func (Cmp) Op() CodeOp       { return OP_CMP }
func (Prn) Op() CodeOp       { return OP_PRN }
func (Mul) Op() CodeOp       { return OP_MUL }
func (Div) Op() CodeOp       { return OP_DIV }
func (u Unknown) Op() CodeOp { return CodeOp(u.Word >> WORD_OPCODE_SHIFT) }

// Two-address operands: destination in op1, source in op2_lo.
// Compare is the exception and reads its second address from op2_hi.
// Immediates fill op2_hi:op2_lo big-endian.

func (Eof) Encode() uint32       { return makeWord(OP_EOF, 0, 0, 0) }
func (i Mov) Encode() uint32     { return makeWord(OP_MOV, i.Dst, 0, i.Src) }
func (i Mop) Encode() uint32     { return makeWord(OP_MOP, i.Dst, 0, i.Src) }
func (i Str) Encode() uint32     { return makeWord(OP_STR, i.Dst, uint8(i.Imm>>8), uint8(i.Imm)) }
func (i Adi) Encode() uint32     { return makeWord(OP_ADI, i.Dst, uint8(i.Imm>>8), uint8(i.Imm)) }
func (i Sui) Encode() uint32     { return makeWord(OP_SUI, i.Dst, uint8(i.Imm>>8), uint8(i.Imm)) }
func (i Jmp) Encode() uint32     { return makeWord(OP_JMP, i.Target, 0, 0) }
func (i Jz) Encode() uint32      { return makeWord(OP_JZ, i.Target, 0, 0) }
func (i Cmp) Encode() uint32     { return makeWord(OP_CMP, i.A, i.B, 0) }
func (i Prn) Encode() uint32     { return makeWord(OP_PRN, i.Addr, 0, 0) }
func (i Mul) Encode() uint32     { return makeWord(OP_MUL, i.Dst, 0, i.Src) }
func (i Div) Encode() uint32     { return makeWord(OP_DIV, i.Dst, 0, i.Src) }
func (u Unknown) Encode() uint32 { return u.Word }

func (Eof) String() string       { return "eof" }
func (i Mov) String() string     { return fmt.Sprintf("mov %d %d", i.Dst, i.Src) }
func (i Mop) String() string     { return fmt.Sprintf("mop %d %d", i.Dst, i.Src) }
func (i Str) String() string     { return fmt.Sprintf("str %d %#x", i.Dst, i.Imm) }
func (i Adi) String() string     { return fmt.Sprintf("adi %d %#x", i.Dst, i.Imm) }
func (i Sui) String() string     { return fmt.Sprintf("sui %d %#x", i.Dst, i.Imm) }
func (i Jmp) String() string     { return fmt.Sprintf("jmp %d", i.Target) }
func (i Jz) String() string      { return fmt.Sprintf("jz %d", i.Target) }
func (i Cmp) String() string     { return fmt.Sprintf("cmp %d %d", i.A, i.B) }
func (i Prn) String() string     { return fmt.Sprintf("prn %d", i.Addr) }
func (i Mul) String() string     { return fmt.Sprintf("mul %d %d", i.Dst, i.Src) }
func (i Div) String() string     { return fmt.Sprintf("div %d %d", i.Dst, i.Src) }
func (u Unknown) String() string { return fmt.Sprintf("??? 0x%08x", u.Word) }

// Decode splits an instruction word into its Instruction.
// Bytes an opcode does not use are ignored.
func Decode(word uint32) Instruction {
	op, op1, op2Hi, op2Lo := splitWord(word)
	imm := (uint16(op2Hi) << 8) | uint16(op2Lo)

	switch op {
	case OP_EOF:
		return Eof{}
	case OP_MOV:
		return Mov{Dst: op1, Src: op2Lo}
	case OP_MOP:
		return Mop{Dst: op1, Src: op2Lo}
	case OP_STR:
		return Str{Dst: op1, Imm: imm}
	case OP_ADI:
		return Adi{Dst: op1, Imm: imm}
	case OP_SUI:
		return Sui{Dst: op1, Imm: imm}
	case OP_JMP:
		return Jmp{Target: op1}
	case OP_JZ:
		return Jz{Target: op1}
	case OP_CMP:
		return Cmp{A: op1, B: op2Hi}
	case OP_PRN:
		return Prn{Addr: op1}
	case OP_MUL:
		return Mul{Dst: op1, Src: op2Lo}
	case OP_DIV:
		return Div{Dst: op1, Src: op2Lo}
	}

	return Unknown{Word: word}
}
