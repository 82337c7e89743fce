package emulator_test

import (
	"bytes"
	"context"
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/ezrec/cpu32/cpu"
	"github.com/ezrec/cpu32/emulator"
	"github.com/ezrec/cpu32/rom"
)

func assembleFile(name string) *cpu.Program {
	file, err := os.Open(filepath.Join("testdata", name))
	Expect(err).NotTo(HaveOccurred())
	defer file.Close()

	asm := &cpu.Assembler{}
	prog, err := asm.Parse(file)
	Expect(err).NotTo(HaveOccurred())

	return prog
}

var _ = Describe("Scenarios", func() {
	var (
		emu *emulator.Emulator
	)

	BeforeEach(func() {
		var err error
		emu, err = emulator.NewEmulator(emulator.DefaultOptions())
		Expect(err).NotTo(HaveOccurred())
	})

	load := func(name string) {
		emu.Program = assembleFile(name)
		Expect(emu.Reset()).To(Succeed())
	}

	Describe("array sum", func() {
		BeforeEach(func() {
			load("array_sum.asm")
		})

		It("should sum the array into R0", func() {
			Expect(emu.Run(context.Background())).To(Succeed())

			Expect(emu.Cpu.Halted).To(BeTrue())
			Expect(emu.Cpu.Registers.Gpr[0]).To(Equal(uint32(150)))
		})

		It("should store the array at 2000", func() {
			Expect(emu.Run(context.Background())).To(Succeed())

			for n, expected := range []uint32{10, 20, 30, 40, 50} {
				value, err := emu.Cpu.Memory.Read32(2000 + uint32(n)*cpu.WORD_SIZE)
				Expect(err).NotTo(HaveOccurred())
				Expect(value).To(Equal(expected))
			}
		})

		It("should place the loop head at 72", func() {
			dbg := emu.Program.Debug(72)
			Expect(dbg.Line).NotTo(BeNil())
			Expect(dbg.Words).To(Equal([]string{"LOAD", "R2", "[R1]"}))

			jnz, err := cpu.Decode(emu.Program.Words()[22])
			Expect(err).NotTo(HaveOccurred())
			Expect(jnz).To(Equal(cpu.Jump{Op: cpu.OP_JNZ, Address: 72}))
		})

		It("should stop at the cycle limit", func() {
			emu.Options.MaxCycles = 20
			Expect(emu.Run(context.Background())).To(Succeed())

			Expect(emu.Cpu.Halted).To(BeFalse())
			Expect(emu.Cpu.Cycles).To(Equal(20))
		})
	})

	Describe("dot product", func() {
		BeforeEach(func() {
			load("dot_product.asm")
		})

		It("should accumulate into R0", func() {
			Expect(emu.Run(context.Background())).To(Succeed())

			Expect(emu.Cpu.Halted).To(BeTrue())
			Expect(emu.Cpu.Registers.Gpr[0]).To(Equal(uint32(35)))
			Expect(emu.Cpu.Registers.Gpr[3]).To(BeZero())
		})
	})

	Describe("carry chain", func() {
		BeforeEach(func() {
			load("carry_chain.asm")
		})

		It("should carry into the high word", func() {
			Expect(emu.Run(context.Background())).To(Succeed())

			high := uint64(emu.Cpu.Registers.Gpr[1])
			low := uint64(emu.Cpu.Registers.Gpr[0])
			Expect(high<<32 | low).To(Equal(uint64(0x0000000200000000)))
			Expect(emu.Cpu.Flags.IsSet(cpu.FLAG_C)).To(BeFalse())
		})

		It("should publish every state", func() {
			var states []cpu.State
			for state := range emu.Start(context.Background()) {
				states = append(states, state)
			}
			Expect(emu.Err()).NotTo(HaveOccurred())

			Expect(states).To(HaveLen(8))
			Expect(states[5].Registers[0]).To(BeZero())
			Expect(states[5].Flags.C).To(BeTrue())
			Expect(states[7].Halted).To(BeTrue())
		})
	})

	Describe("images", func() {
		It("should run the same from a hex image", func() {
			prog := assembleFile("array_sum.asm")
			img := &rom.Image{Data: prog.Words()}

			text := &bytes.Buffer{}
			Expect(rom.Write(text, rom.FORMAT_HEX, img)).To(Succeed())

			loaded, err := rom.Read(text, rom.FORMAT_HEX, 0)
			Expect(err).NotTo(HaveOccurred())
			Expect(loaded.Data).To(Equal(img.Data))

			emu.Image = loaded
			Expect(emu.Reset()).To(Succeed())
			Expect(emu.Run(context.Background())).To(Succeed())
			Expect(emu.Cpu.Registers.Gpr[0]).To(Equal(uint32(150)))
		})
	})
})
