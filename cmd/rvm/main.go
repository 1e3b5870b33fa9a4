// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"

	"github.com/ezrec/rvm/cpu"
	"github.com/ezrec/rvm/emulator"
	"github.com/ezrec/rvm/translate"
)

func usage() {
	translate.Fprintf(os.Stderr, "usage: %v asm [-o a.out] [-v] FILE.rvs\n", os.Args[0])
	translate.Fprintf(os.Stderr, "       %v vm [-m words] [-t ticks] [-l] [-v] FILE\n", os.Args[0])
	os.Exit(2)
}

// assemble compiles a source file into a program image.
func assemble(args []string) {
	var output string
	var listing bool
	var verbose bool

	flags := flag.NewFlagSet("asm", flag.ExitOnError)
	flags.StringVar(&output, "o", "a.out", "Program image to write")
	flags.BoolVar(&listing, "l", false, "Print a listing to stdout")
	flags.BoolVar(&verbose, "v", false, "Verbose mode")
	flags.Parse(args)

	if flags.NArg() != 1 {
		usage()
	}
	source := flags.Arg(0)

	inf, err := os.Open(source)
	if err != nil {
		log.Fatalf("%v: %v", source, err)
	}
	defer inf.Close()

	emu := emulator.NewEmulator(emulator.MEMORY_SIZE)

	asm := &cpu.Assembler{Verbose: verbose}
	for key, value := range emu.Defines() {
		asm.Predefine(key, value)
	}

	prog, err := asm.Parse(inf)
	if err != nil {
		log.Fatalf("%v: %v", source, err)
	}

	if listing {
		os.Stdout.WriteString(prog.String())
	}

	ouf, err := os.Create(output)
	if err != nil {
		log.Fatalf("%v: %v", output, err)
	}

	_, err = prog.WriteTo(ouf)
	if err == nil {
		err = ouf.Close()
	}
	if err != nil {
		log.Fatalf("%v: %v", output, err)
	}
}

// execute runs a program image.
func execute(args []string) {
	var memory uint
	var ticks int
	var dump bool
	var verbose bool

	flags := flag.NewFlagSet("vm", flag.ExitOnError)
	flags.UintVar(&memory, "m", emulator.MEMORY_SIZE, "Memory size, in words")
	flags.IntVar(&ticks, "t", 0, "Tick limit, 0 for none")
	flags.BoolVar(&dump, "l", false, "Dump machine state on exit")
	flags.BoolVar(&verbose, "v", false, "Verbose mode")
	flags.Parse(args)

	if flags.NArg() != 1 {
		usage()
	}
	image := flags.Arg(0)

	inf, err := os.Open(image)
	if err != nil {
		log.Fatalf("%v: %v", image, err)
	}
	defer inf.Close()

	emu := emulator.NewEmulator(memory)
	emu.Verbose = verbose
	emu.TickLimit = ticks
	emu.Console.Output = os.Stdout

	err = emu.Load(inf)
	if err != nil {
		log.Fatalf("%v: %v", image, err)
	}

	err = emu.Reset()
	if err != nil {
		log.Fatalf("%v: %v", image, err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	err = emu.Run(ctx)
	emu.Close()

	if dump {
		os.Stderr.WriteString(emu.Cpu.String())
		os.Stderr.WriteString(emu.Cpu.Dump(0, emu.Cpu.Ip))
	}

	if err != nil {
		log.Fatalf("%v: %v", image, err)
	}
}

func main() {
	log.SetFlags(0)

	if len(os.Args) < 2 {
		usage()
	}

	switch os.Args[1] {
	case "asm":
		assemble(os.Args[2:])
	case "vm":
		execute(os.Args[2:])
	default:
		usage()
	}
}
