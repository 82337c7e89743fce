// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/ezrec/cpu32/cpu"
	"github.com/ezrec/cpu32/emulator"
	"github.com/ezrec/cpu32/rom"
	"github.com/ezrec/cpu32/translate"
)

func main() {
	var compile string
	var input string
	var output string
	var format string
	var save bool
	var maxCycles int
	var hz int
	var verbose bool
	var trace bool

	var predefines []string

	flag.StringVar(&compile, "c", "", ".asm file to compile")
	flag.StringVar(&input, "i", "", "Program image to load")
	flag.StringVar(&output, "o", "", "Program image to save")
	flag.StringVar(&format, "f", "bin", "Program image format (bin, hex)")
	flag.BoolVar(&save, "s", false, "Save program image, do not execute")
	flag.IntVar(&maxCycles, "m", 0, "Maximum cycles (0 is unbounded)")
	flag.IntVar(&hz, "hz", emulator.DEFAULT_HZ, "Instructions per second (0 is free running)")
	flag.BoolVar(&verbose, "v", false, "Verbose mode")
	flag.BoolVar(&trace, "t", false, "Trace every instruction")
	flag.Func("D", "Predefine NAME=VALUE", func(arg string) error {
		name, _, ok := strings.Cut(arg, "=")
		if !ok || len(name) == 0 {
			return cpu.ErrEquateSyntax
		}
		predefines = append(predefines, arg)
		return nil
	})

	flag.Parse()

	if flag.NArg() != 0 {
		log.Fatalf("%v: Unknown arguments: %v", os.Args[0], flag.Args())
	}

	if len(compile) != 0 && len(input) != 0 {
		log.Fatalf("%v: -c and -i are exclusive", os.Args[0])
	}

	imageFormat, err := rom.ParseFormat(format)
	if err != nil {
		log.Fatalf("%v: %v", format, err)
	}

	if verbose {
		log.Printf("%v: messages in %v", os.Args[0], translate.Language())
	}

	opts := emulator.DefaultOptions()
	opts.Hz = hz
	opts.MaxCycles = maxCycles
	opts.Verbose = verbose

	emu, err := emulator.NewEmulator(opts)
	if err != nil {
		log.Fatal(err)
	}

	asm := emu.NewAssembler()
	for _, arg := range predefines {
		name, value, _ := strings.Cut(arg, "=")
		asm.Predefine(name, value)
	}

	prog := &cpu.Program{}
	var img *rom.Image

	// Compile a new instruction stream.
	if len(compile) != 0 {
		inf, err := os.Open(compile)
		if err != nil {
			log.Fatalf("%v: %v", compile, err)
		}
		defer inf.Close()

		prog, err = asm.Parse(inf)
		if err != nil {
			log.Fatalf("%v: %v", compile, err)
		}
		img = &rom.Image{Origin: cpu.ARENA_CODE, Data: prog.Words()}
	}

	// Load a prebuilt image.
	if len(input) != 0 {
		inf, err := os.Open(input)
		if err != nil {
			log.Fatalf("%v: %v", input, err)
		}
		defer inf.Close()

		img, err = rom.Read(inf, imageFormat, cpu.ARENA_CODE)
		if err != nil {
			log.Fatalf("%v: %v", input, err)
		}
	}

	if img == nil {
		log.Fatalf("%v: one of -c or -i is required", os.Args[0])
	}

	if len(output) != 0 {
		ouf, err := os.Create(output)
		if err != nil {
			log.Fatalf("%v: %v", output, err)
		}
		err = rom.Write(ouf, imageFormat, img)
		if err == nil {
			err = ouf.Close()
		}
		if err != nil {
			log.Fatalf("%v: %v", output, err)
		}
	}

	if save {
		return
	}

	emu.Program = prog
	if len(input) != 0 {
		emu.Image = img
	}

	if trace {
		logger := logrus.New()
		logger.SetOutput(os.Stderr)
		logger.SetLevel(logrus.DebugLevel)
		emu.Cpu.Tracer = emulator.NewLogTracer(logger, prog)
	}

	err = emu.Reset()
	if err != nil {
		log.Fatal(err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	err = emu.Run(ctx)
	fmt.Print(emu.Cpu.State().String())
	fmt.Printf("%5s: depth=%d\n", "stack", emu.Cpu.StackDepth())
	for n, word := range emu.Cpu.Stack() {
		fmt.Printf("%5s: %04X_%04X\n", fmt.Sprintf("+%d", n*cpu.WORD_SIZE), word>>16, word&0xffff)
	}
	if err != nil {
		log.Fatal(err)
	}
}
