package emulator

import (
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/ezrec/cpu32/cpu"
)

// LogTracer logs every executed instruction at debug level.
type LogTracer struct {
	Logger  logrus.FieldLogger
	Program *cpu.Program // If set, adds the source line number.
}

var _ cpu.Tracer = (*LogTracer)(nil)

// NewLogTracer creates a tracer logging to logger.
func NewLogTracer(logger logrus.FieldLogger, prog *cpu.Program) *LogTracer {
	return &LogTracer{
		Logger:  logger,
		Program: prog,
	}
}

func (lt *LogTracer) Trace(event *cpu.TraceEvent) {
	fields := logrus.Fields{
		"cycle": event.Cycle,
		"pc":    fmt.Sprintf("0x%05x", event.Pc),
		"word":  fmt.Sprintf("0x%08x", event.Word),
		"flags": event.After.String(),
	}

	for n, reg := range event.Written {
		fields[strings.ToLower(reg.String())] = fmt.Sprintf("0x%08x", event.Values[n])
	}

	if lt.Program != nil {
		dbg := lt.Program.Debug(event.Pc)
		if dbg.Line != nil {
			fields["line"] = dbg.LineNo
		}
	}

	lt.Logger.WithFields(fields).Debug(event.Instruction.String())
}
