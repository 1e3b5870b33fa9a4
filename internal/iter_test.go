package internal

import (
	"maps"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIterSeq2Concat(t *testing.T) {
	assert := assert.New(t)

	a := map[string]string{"A": "1"}
	b := map[string]string{"B": "2", "A": "3"}

	got := map[string]string{}
	count := 0
	for key, value := range IterSeq2Concat(maps.All(a), nil, maps.All(b)) {
		got[key] = value
		count++
	}

	assert.Equal(3, count)
	assert.Equal("2", got["B"])
	assert.Equal("3", got["A"])
}

func TestIterSeq2ConcatStop(t *testing.T) {
	assert := assert.New(t)

	a := map[int]int{1: 1, 2: 2}
	b := map[int]int{3: 3}

	count := 0
	for range IterSeq2Concat(maps.All(a), maps.All(b)) {
		count++
		if count == 2 {
			break
		}
	}

	assert.Equal(2, count)
}
