package cpu

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMemory(t *testing.T) {
	assert := assert.New(t)

	mem := NewMemory(4)
	assert.Equal(4, mem.Capacity())

	for addr := range uint32(4) {
		value, ok := mem.Get(addr)
		assert.True(ok)
		assert.Equal(uint32(0), value)
	}

	assert.True(mem.Set(3, 0xdeadbeef))
	value, ok := mem.Get(3)
	assert.True(ok)
	assert.Equal(uint32(0xdeadbeef), value)

	_, ok = mem.Get(4)
	assert.False(ok)
	assert.False(mem.Set(4, 1))
	_, ok = mem.Get(0xffffffff)
	assert.False(ok)

	mem.Reset()
	value, _ = mem.Get(3)
	assert.Equal(uint32(0), value)
}

func TestMemoryDump(t *testing.T) {
	assert := assert.New(t)

	mem := NewMemory(3)
	mem.Set(1, 0x12345678)

	assert.Equal("[0x0001]: 0x12345678\n[0x0002]: 0x00000000\n", mem.Dump(1, 10))
	assert.Equal("", mem.Dump(5, 10))
}

func TestFlags(t *testing.T) {
	assert := assert.New(t)

	var fl Flags
	assert.Equal("hzo", fl.String())

	fl.Zero = true
	fl.Halt = true
	assert.Equal("HZo", fl.String())

	fl.Reset()
	assert.Equal(Flags{}, fl)
}
