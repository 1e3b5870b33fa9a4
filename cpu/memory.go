package cpu

import (
	"fmt"
)

const (
	MEMORY_SIZE_DEFAULT = 500 // Default memory capacity, in words.
)

// Memory is a zero-initialized, fixed capacity array of words.
type Memory struct {
	Data []uint32
}

// NewMemory returns a zeroed memory of count words.
func NewMemory(count uint) Memory {
	return Memory{Data: make([]uint32, count)}
}

// Capacity returns the number of addressable words.
func (mem *Memory) Capacity() int {
	return len(mem.Data)
}

// Get returns the word at address.
func (mem *Memory) Get(address uint32) (value uint32, ok bool) {
	if uint64(address) >= uint64(len(mem.Data)) {
		return
	}
	return mem.Data[address], true
}

// Set stores a word at address.
func (mem *Memory) Set(address uint32, value uint32) (ok bool) {
	if uint64(address) >= uint64(len(mem.Data)) {
		return
	}
	mem.Data[address] = value
	return true
}

// Reset zeroes all of memory.
func (mem *Memory) Reset() {
	clear(mem.Data)
}

// Dump returns a listing of words in [start, end], clipped to memory.
func (mem *Memory) Dump(start, end uint32) (text string) {
	for addr := uint64(start); addr <= uint64(end) && addr < uint64(len(mem.Data)); addr++ {
		text += fmt.Sprintf("[0x%04x]: 0x%08x\n", addr, mem.Data[addr])
	}
	return
}
