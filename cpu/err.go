package cpu

import (
	"errors"

	"github.com/ezrec/rvm/translate"
)

var f = translate.From

var (
	// Cpu errors
	ErrHalted         = errors.New(f("halted"))
	ErrAddressFault   = errors.New(f("address fault"))
	ErrDivideByZero   = errors.New(f("divide by zero"))
	ErrChannelInvalid = errors.New(f("channel invalid"))
	ErrTickLimit      = errors.New(f("tick limit reached"))

	// Load errors
	ErrProgramTooLarge  = errors.New(f("program larger than memory"))
	ErrProgramTruncated = errors.New(f("program ends in a partial word"))

	// Instruction decode errors
	ErrOpcodeDecode = errors.New(f("decode"))

	// Assembler errors
	ErrEquateSyntax       = errors.New(f(".equ syntax"))
	ErrEquateDuplicate    = errors.New(f(".equ duplicated"))
	ErrLabelDuplicate     = errors.New(f("label duplicated"))
	ErrOpcodeExtraArgs    = errors.New(f("excessive arguments"))
	ErrOpcodeValueMissing = errors.New(f("value missing"))
	ErrInstructionInvalid = errors.New(f("instruction invalid"))
	ErrAddressRange       = errors.New(f("address out of range"))
	ErrImmediateRange     = errors.New(f("immediate out of range"))
)

// ErrLoad is a failure to load a program image into memory.
type ErrLoad struct {
	Words    int // Words read before the failure.
	Capacity int // Memory capacity in words.
	Err      error
}

func (err *ErrLoad) Error() string {
	return f("load: %v words into %v: %v", err.Words, err.Capacity, err.Err)
}

func (err *ErrLoad) Unwrap() error {
	return err.Err
}

// ErrAddress is an access outside of memory.
type ErrAddress struct {
	Ip      uint32
	Address uint32
}

func (err *ErrAddress) Error() string {
	return f("ip 0x%04x: address 0x%08x outside memory", err.Ip, err.Address)
}

func (err *ErrAddress) Is(target error) bool {
	return target == ErrAddressFault
}

// ErrArithmetic is a fatal arithmetic fault.
type ErrArithmetic struct {
	Ip uint32
}

func (err *ErrArithmetic) Error() string {
	return f("ip 0x%04x: %v", err.Ip, ErrDivideByZero)
}

func (err *ErrArithmetic) Is(target error) bool {
	return target == ErrDivideByZero
}

// ErrOpcode is the instruction word being executed when an error occurred.
type ErrOpcode uint32

func (eo ErrOpcode) Error() string {
	return f("opcode 0x%08x %v", uint32(eo), Decode(uint32(eo)).String())
}

func (eo ErrOpcode) Is(err error) (ok bool) {
	_, ok = err.(ErrOpcode)
	return
}

type ErrLabelMissing string

func (el ErrLabelMissing) Error() string {
	return f("label %v missing", string(el))
}

type ErrSyntax struct {
	LineNo int
	Line   string
	Err    error
}

func (err ErrSyntax) Error() string {
	return f("line %d '%v' %v", err.LineNo, err.Line, err.Err)
}

func (err ErrSyntax) Unwrap() error {
	return err.Err
}

type ErrParseNumber string

func (err ErrParseNumber) Error() string {
	return f("'%v' is not a number", string(err))
}

type ErrParseExpression string

func (err ErrParseExpression) Error() string {
	return f("$(%v) is not a valid expression", string(err))
}
