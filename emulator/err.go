package emulator

import (
	"github.com/ezrec/rvm/translate"
)

var f = translate.From

// ErrRuntime indicates the location of a runtime error.
type ErrRuntime struct {
	Ip     uint32
	LineNo int // Source line, when the program listing is known.
	Err    error
}

func (err *ErrRuntime) Error() string {
	if err.LineNo > 0 {
		return f("line %d ip 0x%04x %v", err.LineNo, err.Ip, err.Err)
	}
	return f("ip 0x%04x %v", err.Ip, err.Err)
}

func (err *ErrRuntime) Unwrap() error {
	return err.Err
}
