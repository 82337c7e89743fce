// Copyright 2024, Jason S. McMullan <jason.mcmullan@gmail.com>

package emulator

import (
	"context"
	"fmt"
	"iter"
	"log"
	"maps"
	"time"

	"github.com/ezrec/cpu32/cpu"
	"github.com/ezrec/cpu32/internal"
	"github.com/ezrec/cpu32/rom"
)

const (
	DEFAULT_HZ = 0 // Free running.
)

var _emulator_defines = map[string]string{
	"ORIGIN": fmt.Sprintf("0x%x", cpu.ARENA_CODE),
}

// Options configures an emulator.
type Options struct {
	Config    cpu.Config // Machine configuration.
	Hz        int        // Instructions per second; zero or less is unpaced.
	MaxCycles int        // Cycle limit for Run; zero or less is unbounded.
	Verbose   bool       // If set, enables verbose logging.
}

// DefaultOptions returns options for a free running default machine.
func DefaultOptions() Options {
	return Options{
		Config: cpu.DefaultConfig(),
		Hz:     DEFAULT_HZ,
	}
}

// Emulator state. CPU + program listing + program image.
//
// An Emulator is owned by a single goroutine; Start hands ownership to a
// worker goroutine until its state channel is closed.
type Emulator struct {
	Verbose  bool         // If set, enables verbose logging.
	*cpu.Cpu              // Reference to the CPU simulation.
	Program  *cpu.Program // Reference to the currently running program listing.
	Image    *rom.Image   // Program image; if nil, built from Program.
	Options  Options

	err error // Result of the last Start.
}

// NewEmulator creates a new emulator.
func NewEmulator(opts Options) (emu *Emulator, err error) {
	core, err := cpu.NewCpu(opts.Config)
	if err != nil {
		return
	}

	emu = &Emulator{
		Verbose: opts.Verbose,
		Cpu:     core,
		Program: &cpu.Program{},
		Options: opts,
	}

	return
}

// Defines returns an iterator over all of the defines
func (emu *Emulator) Defines() iter.Seq2[string, string] {
	return internal.IterSeq2Concat(maps.All(_emulator_defines),
		emu.Cpu.Defines(),
	)
}

// NewAssembler returns an assembler predefined with the memory map of
// the emulated machine.
func (emu *Emulator) NewAssembler() (asm *cpu.Assembler) {
	asm = &cpu.Assembler{Verbose: emu.Verbose}
	for name, value := range emu.Defines() {
		asm.Predefine(name, value)
	}

	return
}

// Reset the CPU, clear memory, and load the program image.
func (emu *Emulator) Reset() (err error) {
	emu.Cpu.Verbose = emu.Verbose

	emu.Cpu.Reset()
	emu.Cpu.Memory.Clear()

	if emu.Image != nil {
		err = emu.Cpu.LoadProgram(emu.Image.Bytes(), emu.Image.Origin)
	} else {
		err = emu.Cpu.LoadProgram(emu.Program.Binary(), cpu.ARENA_CODE)
	}
	if err != nil {
		return
	}

	return
}

// LineNo returns the current line number for the executing instruction,
// or zero if the program counter is outside of the listing.
func (emu *Emulator) LineNo() int {
	dbg := emu.Program.Debug(emu.Cpu.Registers.Pc)
	if dbg.Line == nil {
		return 0
	}

	return dbg.LineNo
}

// Tick performs a single instruction of the emulator.
// done is set once the CPU has halted.
func (emu *Emulator) Tick() (done bool, err error) {
	// Set CPU verbosity
	emu.Cpu.Verbose = emu.Verbose

	if emu.Cpu.Halted {
		done = true
		return
	}

	lineno := emu.LineNo()
	defer func() {
		if err != nil {
			err = &ErrRuntime{LineNo: lineno, Err: err}
		}
	}()

	err = emu.Cpu.Step()
	if err != nil {
		return
	}

	done = emu.Cpu.Halted
	return
}

// Run ticks the emulator until it halts, fails, reaches the cycle limit,
// or the context is done. Reaching the cycle limit is not an error.
func (emu *Emulator) Run(ctx context.Context) (err error) {
	err = emu.run(ctx, nil)
	return
}

// run is the paced execution loop. If publish is set, it is called with a
// snapshot after every instruction.
func (emu *Emulator) run(ctx context.Context, publish func(state cpu.State)) (err error) {
	var pace <-chan time.Time
	if emu.Options.Hz > 0 {
		ticker := time.NewTicker(time.Second / time.Duration(emu.Options.Hz))
		defer ticker.Stop()
		pace = ticker.C
	}

	if emu.Verbose {
		log.Printf("emulator: run at %d Hz, limit %d cycles", emu.Options.Hz, emu.Options.MaxCycles)
	}

	emu.Cpu.Running = true
	defer func() {
		emu.Cpu.Running = false
	}()

	for {
		if emu.Options.MaxCycles > 0 && emu.Cpu.Cycles >= emu.Options.MaxCycles {
			if emu.Verbose {
				log.Printf("emulator: stopped at cycle limit %d", emu.Options.MaxCycles)
			}
			return
		}

		if pace != nil {
			select {
			case <-ctx.Done():
				err = ctx.Err()
				return
			case <-pace:
			}
		} else {
			select {
			case <-ctx.Done():
				err = ctx.Err()
				return
			default:
			}
		}

		var done bool
		done, err = emu.Tick()
		if publish != nil {
			publish(emu.Cpu.State())
		}
		if err != nil || done {
			return
		}
	}
}

// Start runs the emulator on a worker goroutine, publishing a snapshot
// after every instruction. The channel is closed when the run ends; Err
// then reports why.
//
// Callers must either drain the channel or cancel ctx, otherwise the
// worker blocks on its next snapshot.
func (emu *Emulator) Start(ctx context.Context) <-chan cpu.State {
	states := make(chan cpu.State)

	emu.err = nil

	go func() {
		defer close(states)
		emu.err = emu.run(ctx, func(state cpu.State) {
			select {
			case states <- state:
			case <-ctx.Done():
			}
		})
	}()

	return states
}

// Err returns the result of the last Start, once its channel is closed.
func (emu *Emulator) Err() error {
	return emu.err
}
