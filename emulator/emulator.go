// Copyright 2024, Jason S. McMullan <jason.mcmullan@gmail.com>

package emulator

import (
	"context"
	"fmt"
	"iter"
	"log"
	"maps"
	"os"

	"golang.org/x/sync/errgroup"

	"github.com/ezrec/rvm/cpu"
	"github.com/ezrec/rvm/internal"
	"github.com/ezrec/rvm/io"
)

const (
	MEMORY_SIZE = cpu.MEMORY_SIZE_DEFAULT // Default memory size, in words.
)

var _emulator_defines = map[string]string{
	"MEMORY_SIZE_DEFAULT": fmt.Sprintf("%v", MEMORY_SIZE),
}

// Emulator state. CPU + output devices.
type Emulator struct {
	Verbose   bool         // If set, enables verbose logging.
	*cpu.Cpu               // Reference to the CPU simulation.
	Program   *cpu.Program // Listing of the loaded program, if assembled.
	TickLimit int          // Maximum ticks per run, 0 for no limit.

	Output  io.Queue   // Characters printed by the program.
	Console io.Console // Output consumer.
	Monitor io.Monitor // Turns the CPU halt into a Console stop.
}

// NewEmulator creates a new emulator with memory of size words.
func NewEmulator(size uint) (emu *Emulator) {
	emu = &Emulator{
		Cpu: cpu.NewCpu(size),
	}

	emu.Cpu.SetChannel(&emu.Output)
	emu.Console.Output = os.Stdout

	return
}

// Defines returns an iterator over all of the defines
func (emu *Emulator) Defines() iter.Seq2[string, string] {
	return internal.IterSeq2Concat(maps.All(_emulator_defines),
		emu.Cpu.Defines(),
	)
}

// Close the emulator output. Prints fail until the next Reset.
func (emu *Emulator) Close() (err error) {
	emu.Output.Close()

	return
}

// Reset the emulator state. If a Program is set it is loaded into memory,
// otherwise memory keeps whatever was loaded.
func (emu *Emulator) Reset() (err error) {
	emu.Cpu.Verbose = emu.Verbose

	if emu.Program != nil {
		err = emu.Cpu.LoadWords(emu.Program.Binary())
		if err != nil {
			return
		}
	}

	emu.Cpu.Reset()

	return
}

// LineNo returns the source line number for an instruction pointer.
func (emu *Emulator) LineNo(ip uint32) int {
	if emu.Program == nil {
		return 0
	}

	dbg := emu.Program.Debug(ip)
	if dbg.Opcode == nil {
		return 0
	}

	return dbg.LineNo
}

// Tick performs a single tick of the emulator.
func (emu *Emulator) Tick() (done bool, err error) {
	// Set CPU verbosity
	emu.Cpu.Verbose = emu.Verbose

	ip := emu.Cpu.Ip
	defer func() {
		if err != nil {
			err = &ErrRuntime{Ip: ip, LineNo: emu.LineNo(ip), Err: err}
		}
	}()

	if emu.Cpu.Halted() {
		done = true
		err = emu.Cpu.Fault
		return
	}

	if emu.TickLimit > 0 && emu.Cpu.Ticks >= emu.TickLimit {
		emu.Cpu.Abort(cpu.ErrTickLimit)
		done = true
		err = cpu.ErrTickLimit
		return
	}

	err = emu.Cpu.Tick()
	done = emu.Cpu.Halted()

	return
}

// execute ticks the CPU until it halts, faults, or ctx is done.
func (emu *Emulator) execute(ctx context.Context) (err error) {
	for {
		select {
		case <-ctx.Done():
			ip := emu.Cpu.Ip
			emu.Cpu.Abort(ctx.Err())
			err = &ErrRuntime{Ip: ip, LineNo: emu.LineNo(ip), Err: ctx.Err()}
			return
		default:
		}

		var done bool
		done, err = emu.Tick()
		if done || err != nil {
			return
		}
	}
}

// Run executes the loaded program to completion.
//
// The CPU, the Monitor and the Console run as concurrent tasks. When the
// CPU halts, for any reason, it reports its status to the Monitor, which
// stops the Console once all printed characters have been queued. Run
// returns after the CPU has stopped and the Console has drained, with the
// fault that halted the CPU, if any.
func (emu *Emulator) Run(ctx context.Context) (err error) {
	status := make(chan io.Status, 1)
	stop := make(chan struct{}, 1)

	emu.Monitor = io.Monitor{
		Verbose: emu.Verbose,
		Status:  status,
		Stop:    stop,
	}
	emu.Console.Verbose = emu.Verbose
	emu.Console.Input = &emu.Output
	emu.Console.Stop = stop

	if emu.Verbose {
		log.Printf("emulator: run, %d words of memory", emu.Cpu.Memory.Capacity())
	}

	var eg errgroup.Group

	eg.Go(func() error {
		err := emu.execute(ctx)
		status <- io.Status{Ip: emu.Cpu.Ip, Err: err}
		return err
	})

	eg.Go(func() error {
		_, err := emu.Monitor.Run()
		return err
	})

	eg.Go(func() error {
		return emu.Console.Run()
	})

	err = eg.Wait()

	if emu.Verbose {
		log.Printf("emulator: done after %d ticks (%v)", emu.Cpu.Ticks, err)
	}

	return
}
