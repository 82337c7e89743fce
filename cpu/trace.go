package cpu

// TraceEvent describes one executed instruction.
type TraceEvent struct {
	Cycle       int         // Cycle count after the instruction retired.
	Pc          uint32      // Address the instruction was fetched from.
	Word        uint32      // Raw instruction word.
	Instruction Instruction // Decoded instruction.
	Written     []Register  // Registers written by the instruction.
	Values      []uint32    // Values written, in the same order as Written.
	Before      Flags       // Flags before execution.
	After       Flags       // Flags after execution.
}

// Tracer observes every successfully executed instruction.
type Tracer interface {
	Trace(event *TraceEvent)
}

// TracerFunc adapts a function to the Tracer interface.
type TracerFunc func(event *TraceEvent)

func (fn TracerFunc) Trace(event *TraceEvent) {
	fn(event)
}

// Writes returns the registers an instruction writes.
func Writes(in Instruction) (regs []Register) {
	switch in := in.(type) {
	case RegReg:
		if in.Op != OP_CMP_REG {
			regs = []Register{in.Dest}
		}
	case RegImm:
		if in.Op != OP_CMP_IMM {
			regs = []Register{in.Dest}
		}
	case RegUnary:
		regs = []Register{in.Dest}
	case Load:
		regs = []Register{in.Dest}
	}
	return
}
