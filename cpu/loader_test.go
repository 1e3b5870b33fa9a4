package cpu

import (
	"bytes"
	"errors"
	"testing"
	"testing/iotest"

	"github.com/stretchr/testify/assert"
)

func TestLoad(t *testing.T) {
	assert := assert.New(t)

	for _, count := range []int{0, 1, 7, 16} {
		cpu := NewCpu(16)
		cpu.Memory.Data[15] = 0xffffffff

		image := &bytes.Buffer{}
		for n := range count {
			image.Write([]byte{byte(n), 0xa0, 0xb0, 0xc0 + byte(n)})
		}

		assert.NoError(cpu.Load(image), "count %d", count)
		for n := range 16 {
			want := uint32(0)
			if n < count {
				want = uint32(n)<<24 | 0xa0b0c0 + uint32(n)
			}
			assert.Equal(want, cpu.Memory.Data[n], "count %d word %d", count, n)
		}
	}
}

func TestLoadTooLarge(t *testing.T) {
	assert := assert.New(t)

	cpu := NewCpu(4)
	image := bytes.Repeat([]byte{0x02, 0x00, 0x00, 0x01}, 5)

	err := cpu.Load(bytes.NewReader(image))
	assert.ErrorIs(err, ErrProgramTooLarge)

	var load *ErrLoad
	assert.True(errors.As(err, &load))
	assert.Equal(5, load.Words)
	assert.Equal(4, load.Capacity)

	assert.Equal([]uint32{0, 0, 0, 0}, cpu.Memory.Data)
}

func TestLoadExactCapacity(t *testing.T) {
	assert := assert.New(t)

	cpu := NewCpu(4)
	image := bytes.Repeat([]byte{0x02, 0x00, 0x00, 0x01}, 4)

	assert.NoError(cpu.Load(bytes.NewReader(image)))
	assert.Equal([]uint32{0x02000001, 0x02000001, 0x02000001, 0x02000001}, cpu.Memory.Data)
}

func TestLoadTruncated(t *testing.T) {
	assert := assert.New(t)

	cpu := NewCpu(4)
	err := cpu.Load(bytes.NewReader([]byte{0xff, 0, 0, 0, 0x02, 0x00}))
	assert.ErrorIs(err, ErrProgramTruncated)
	assert.Equal([]uint32{0, 0, 0, 0}, cpu.Memory.Data)
}

func TestLoadReadError(t *testing.T) {
	assert := assert.New(t)

	failure := errors.New("disk on fire")
	cpu := NewCpu(4)
	err := cpu.Load(iotest.ErrReader(failure))
	assert.ErrorIs(err, failure)

	var load *ErrLoad
	assert.True(errors.As(err, &load))
}

func TestLoadWords(t *testing.T) {
	assert := assert.New(t)

	cpu := NewCpu(3)
	cpu.Memory.Data[2] = 9
	assert.NoError(cpu.LoadWords([]uint32{1, 2}))
	assert.Equal([]uint32{1, 2, 0}, cpu.Memory.Data)

	assert.ErrorIs(cpu.LoadWords([]uint32{1, 2, 3, 4}), ErrProgramTooLarge)
	assert.Equal([]uint32{0, 0, 0}, cpu.Memory.Data)
}
