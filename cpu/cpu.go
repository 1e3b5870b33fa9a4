package cpu

import (
	"errors"
	"fmt"
	"iter"
	"log"
	"maps"
	"math/bits"

	"github.com/ezrec/rvm/io"
)

// Channel is the character output device interface.
type Channel io.Channel

// Cpu is the execution engine. It exclusively owns Memory and Flags.
type Cpu struct {
	Verbose bool // Set to enable verbose logging.

	Memory Memory // Word memory, program image at address 0.
	Flags  Flags  // Halt, zero and overflow flags.
	Ip     uint32 // Address of the next instruction to fetch.
	Ticks  int    // Instructions executed since Reset.
	Fault  error  // Fatal fault that halted execution, if any.

	channel Channel // Output device for prn.
}

// NewCpu creates a new CPU with a specifically sized memory.
func NewCpu(count uint) (cpu *Cpu) {
	cpu = &Cpu{
		Memory: NewMemory(count),
	}

	return
}

// Defines for the cpu
func (cpu *Cpu) Defines() iter.Seq2[string, string] {
	size := cpu.Memory.Capacity()
	defines := map[string]string{
		"MEMORY_SIZE": fmt.Sprintf("%d", size),
		"MEMORY_LAST": fmt.Sprintf("%d", max(size-1, 0)),
	}
	return maps.All(defines)
}

// SetChannel attaches the output device used by prn.
func (cpu *Cpu) SetChannel(channel Channel) {
	cpu.channel = channel
}

// GetChannel returns the attached output device.
func (cpu *Cpu) GetChannel() (channel Channel, err error) {
	if cpu.channel == nil {
		err = ErrChannelInvalid
		return
	}

	channel = cpu.channel
	return
}

// Reset the CPU state.
// - Clears the flags and the fault.
// - Zeros the instruction pointer and tick counter.
// - Rewinds the output channel.
// Memory is untouched, so a loaded program survives a reset.
func (cpu *Cpu) Reset() {
	if cpu.Verbose {
		log.Printf("cpu: reset")
	}

	cpu.Flags.Reset()
	cpu.Ip = 0
	cpu.Ticks = 0
	cpu.Fault = nil

	if cpu.channel != nil {
		cpu.channel.Rewind()
	}
}

// Halted returns true once eof or a fatal fault has stopped execution.
func (cpu *Cpu) Halted() bool {
	return cpu.Flags.Halt
}

// String returns the current CPU state as a string.
func (cpu *Cpu) String() (text string) {
	text += fmt.Sprintf("   ip: 0x%04x\n", cpu.Ip)
	text += fmt.Sprintf("flags: %v\n", cpu.Flags)
	text += fmt.Sprintf("ticks: %d\n", cpu.Ticks)
	if word, ok := cpu.Memory.Get(cpu.Ip); ok {
		text += fmt.Sprintf(" next: %v\n", Decode(word))
	}
	if cpu.Fault != nil {
		text += fmt.Sprintf("fault: %v\n", cpu.Fault)
	}

	return
}

// Dump returns a listing of memory words in [start, end].
func (cpu *Cpu) Dump(start, end uint32) string {
	return cpu.Memory.Dump(start, end)
}

// load reads a word, faulting outside of memory.
func (cpu *Cpu) load(address uint32) (value uint32, err error) {
	value, ok := cpu.Memory.Get(address)
	if !ok {
		err = &ErrAddress{Ip: cpu.Ip, Address: address}
	}
	return
}

// store writes a word, faulting outside of memory.
func (cpu *Cpu) store(address uint32, value uint32) (err error) {
	if !cpu.Memory.Set(address, value) {
		err = &ErrAddress{Ip: cpu.Ip, Address: address}
		return
	}

	if cpu.Verbose {
		log.Printf("cpu: [0x%04x] = 0x%08x", address, value)
	}
	return
}

// halt stops execution, recording the fault if there is one.
func (cpu *Cpu) halt(fault error) {
	cpu.Flags.Halt = true
	cpu.Fault = fault

	if cpu.Verbose {
		log.Printf("cpu: halt at 0x%04x (%v)", cpu.Ip, fault)
	}
}

// Abort halts execution with a fault raised outside of the instruction
// stream, such as a tick limit or cancellation.
func (cpu *Cpu) Abort(fault error) {
	if cpu.Flags.Halt {
		return
	}
	cpu.halt(fault)
}

// Fetch decodes the instruction at the instruction pointer.
func (cpu *Cpu) Fetch() (inst Instruction, err error) {
	word, err := cpu.load(cpu.Ip)
	if err != nil {
		return
	}

	inst = Decode(word)
	return
}

// Tick executes a single fetch-decode-execute cycle.
// A fatal fault halts the CPU and is returned; later ticks return ErrHalted.
func (cpu *Cpu) Tick() (err error) {
	if cpu.Flags.Halt {
		err = ErrHalted
		return
	}

	inst, err := cpu.Fetch()
	if err == nil {
		err = cpu.Execute(inst)
	}

	cpu.Ticks++

	if err != nil {
		cpu.halt(err)
	}

	return
}

// Execute executes a single decoded instruction.
func (cpu *Cpu) Execute(inst Instruction) (err error) {
	defer func() {
		if err != nil {
			err = errors.Join(ErrOpcode(inst.Encode()), err)
		}
	}()
	if cpu.Verbose {
		log.Printf("%04x: %v [%v]", cpu.Ip, inst, cpu.Flags)
	}

	next_ip := cpu.Ip + 1

	switch inst := inst.(type) {
	case Eof:
		cpu.Flags.Halt = true
		next_ip = cpu.Ip
	case Mov:
		var value uint32
		value, err = cpu.load(uint32(inst.Src))
		if err != nil {
			return
		}
		err = cpu.store(uint32(inst.Dst), value)
	case Mop:
		var pointer, value uint32
		pointer, err = cpu.load(uint32(inst.Src))
		if err != nil {
			return
		}
		value, err = cpu.load(pointer)
		if err != nil {
			return
		}
		err = cpu.store(uint32(inst.Dst), value)
	case Str:
		err = cpu.store(uint32(inst.Dst), uint32(inst.Imm))
	case Adi:
		var value uint32
		value, err = cpu.load(uint32(inst.Dst))
		if err != nil {
			return
		}
		sum, carry := bits.Add32(value, uint32(inst.Imm), 0)
		if carry != 0 {
			cpu.overflow(inst)
			break
		}
		err = cpu.store(uint32(inst.Dst), sum)
	case Sui:
		var value uint32
		value, err = cpu.load(uint32(inst.Dst))
		if err != nil {
			return
		}
		diff, borrow := bits.Sub32(value, uint32(inst.Imm), 0)
		if borrow != 0 {
			cpu.overflow(inst)
			break
		}
		err = cpu.store(uint32(inst.Dst), diff)
		if err == nil && diff == 0 {
			cpu.Flags.Zero = true
		}
	case Jmp:
		next_ip, err = cpu.target(inst.Target)
	case Jz:
		if cpu.Flags.Zero {
			next_ip, err = cpu.target(inst.Target)
		}
	case Cmp:
		var a, b uint32
		a, err = cpu.load(uint32(inst.A))
		if err != nil {
			return
		}
		b, err = cpu.load(uint32(inst.B))
		if err != nil {
			return
		}
		cpu.Flags.Zero = a == b
	case Prn:
		var value uint32
		value, err = cpu.load(uint32(inst.Addr))
		if err != nil {
			return
		}
		var channel Channel
		channel, err = cpu.GetChannel()
		if err != nil {
			return
		}
		err = channel.Send(rune(uint8(value)))
	case Mul:
		var a, b uint32
		a, err = cpu.load(uint32(inst.Dst))
		if err != nil {
			return
		}
		b, err = cpu.load(uint32(inst.Src))
		if err != nil {
			return
		}
		hi, lo := bits.Mul32(a, b)
		if hi != 0 {
			cpu.overflow(inst)
			break
		}
		err = cpu.store(uint32(inst.Dst), lo)
	case Div:
		var a, b uint32
		a, err = cpu.load(uint32(inst.Dst))
		if err != nil {
			return
		}
		b, err = cpu.load(uint32(inst.Src))
		if err != nil {
			return
		}
		if b == 0 {
			err = &ErrArithmetic{Ip: cpu.Ip}
			return
		}
		err = cpu.store(uint32(inst.Dst), a/b)
	case Unknown:
		// Skipped, there is no validation pass before execution.
		log.Printf("cpu: 0x%04x: unknown opcode 0x%02x in 0x%08x, skipped", cpu.Ip, uint8(inst.Op()), inst.Word)
	default:
		err = ErrOpcodeDecode
	}

	if err != nil {
		return
	}

	cpu.Ip = next_ip

	return
}

// target checks that a jump lands inside memory.
func (cpu *Cpu) target(address uint8) (ip uint32, err error) {
	ip = uint32(address)
	if int(ip) >= cpu.Memory.Capacity() {
		err = &ErrAddress{Ip: cpu.Ip, Address: ip}
	}
	return
}

// overflow records a non-fatal arithmetic overflow.
func (cpu *Cpu) overflow(inst Instruction) {
	cpu.Flags.Overflow = true

	if cpu.Verbose {
		log.Printf("cpu: 0x%04x: %v overflow", cpu.Ip, inst)
	}
}
