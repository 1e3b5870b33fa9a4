package cpu

import (
	"encoding/binary"
	"fmt"
	"io"
)

// Opcode represents a line of assembled code with its source location and
// generated instruction.
type Opcode struct {
	LineNo int
	Ip     int
	Words  []string
	Code   Instruction
}

// Program is an assembled program listing.
type Program struct {
	Opcodes []Opcode
}

type Debug struct {
	*Opcode
}

// Debug finds the listing entry for an instruction pointer.
func (prog *Program) Debug(ip uint32) (dbg Debug) {
	for n, op := range prog.Opcodes {
		if uint32(op.Ip) == ip {
			dbg.Opcode = &prog.Opcodes[n]
			break
		}
	}

	return
}

// Binary returns the program image, one word per opcode.
func (prog *Program) Binary() (bins []uint32) {
	for _, op := range prog.Opcodes {
		bins = append(bins, op.Code.Encode())
	}

	return
}

// WriteTo writes the program image as big-endian words.
func (prog *Program) WriteTo(w io.Writer) (n int64, err error) {
	bins := prog.Binary()
	buf := make([]byte, 0, 4*len(bins))
	for _, word := range bins {
		buf = binary.BigEndian.AppendUint32(buf, word)
	}

	count, err := w.Write(buf)
	n = int64(count)
	return
}

// String returns the program as an address/word/source listing.
func (prog *Program) String() (text string) {
	for _, op := range prog.Opcodes {
		text += fmt.Sprintf("%04x: %08x  %-16v ; line %d\n", op.Ip, op.Code.Encode(), op.Code, op.LineNo)
	}

	return
}
