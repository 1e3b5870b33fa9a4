// Package cpu implements the execution engine and assembler for the rvm
// virtual machine.
//
// The machine is a flat memory of 32-bit words, addressed from 0, holding
// both the program image and its data. Each instruction is one big-endian
// word: an opcode byte followed by three operand bytes. The CPU fetches the
// word at the instruction pointer, decodes it into an Instruction, executes
// it against memory and the halt, zero and overflow flags, and advances.
//
// Overflowing arithmetic sets the overflow flag and leaves memory alone.
// Address faults and division by zero halt the CPU. Unknown opcodes are
// logged and skipped.
//
// The assembler translates a line oriented source format, one instruction
// per line, with labels, equates, character literals and compile-time
// expressions.
package cpu
