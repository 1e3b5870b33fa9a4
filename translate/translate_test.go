package translate

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFrom(t *testing.T) {
	assert := assert.New(t)

	assert.Equal("ip 0x0010", From("ip 0x%04x", 16))
	assert.Equal("plain", From("plain"))
}

func TestFprintf(t *testing.T) {
	assert := assert.New(t)

	buf := &bytes.Buffer{}
	n, err := Fprintf(buf, "usage: %v", "rvm")
	assert.NoError(err)
	assert.Equal(len("usage: rvm"), n)
	assert.Equal("usage: rvm", buf.String())
}
