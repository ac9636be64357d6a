package zkvm

// StepKind classifies one outer-machine trace event.
type StepKind uint8

const (
	StepInstruction StepKind = iota
	StepSyscall
	StepCommit
)

func (k StepKind) String() string {
	switch k {
	case StepInstruction:
		return "instruction"
	case StepSyscall:
		return "syscall"
	case StepCommit:
		return "commit"
	default:
		return "unknown"
	}
}

// StepEvent is one metered event of outer-machine execution. Clk is the
// outer clock at which the event starts; Steps is how many outer steps it
// covers.
type StepEvent struct {
	Clk   uint64
	Kind  StepKind
	Steps uint64
}

// TraceChunk is a bounded slice of outer-machine execution, processed
// independently by the gas estimation pass. Chunk boundaries are a
// throughput decomposition only; they never change accumulated totals.
type TraceChunk struct {
	Start  uint64
	Events []StepEvent
}

// Steps returns the outer steps covered by the chunk.
func (c *TraceChunk) Steps() uint64 {
	var n uint64
	for _, ev := range c.Events {
		n += ev.Steps
	}
	return n
}
