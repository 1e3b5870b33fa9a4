package cpu

import (
	"bufio"
	"encoding/binary"
	"errors"
	"io"
	"log"
)

// LoadWords copies a program image into the start of memory. The rest of
// memory is zeroed. On error memory is left zeroed.
func (cpu *Cpu) LoadWords(words []uint32) (err error) {
	cpu.Memory.Reset()

	if len(words) > cpu.Memory.Capacity() {
		err = &ErrLoad{Words: len(words), Capacity: cpu.Memory.Capacity(), Err: ErrProgramTooLarge}
		return
	}

	copy(cpu.Memory.Data, words)

	if cpu.Verbose {
		log.Printf("cpu: loaded %d words", len(words))
	}

	return
}

// Load reads a program image of big-endian words from r into memory.
func (cpu *Cpu) Load(r io.Reader) (err error) {
	capacity := cpu.Memory.Capacity()
	in := bufio.NewReader(r)

	var words []uint32
	for {
		var word uint32
		err = binary.Read(in, binary.BigEndian, &word)
		if errors.Is(err, io.EOF) {
			err = nil
			break
		}
		if errors.Is(err, io.ErrUnexpectedEOF) {
			cpu.Memory.Reset()
			err = &ErrLoad{Words: len(words), Capacity: capacity, Err: ErrProgramTruncated}
			return
		}
		if err != nil {
			cpu.Memory.Reset()
			err = &ErrLoad{Words: len(words), Capacity: capacity, Err: err}
			return
		}
		if len(words) == capacity {
			cpu.Memory.Reset()
			err = &ErrLoad{Words: len(words) + 1, Capacity: capacity, Err: ErrProgramTooLarge}
			return
		}
		words = append(words, word)
	}

	return cpu.LoadWords(words)
}
