package zkvm

import (
	"fmt"
)

// Per-step gas weights by event kind. Totals over a run are a pure sum of
// per-event figures, so chunk boundaries cannot change them.
const (
	gasPerInstruction = 8
	gasPerSyscall     = 20
	gasPerCommit      = 12
)

// ProofNonceWords is the width of the proof nonce fed to the costing pass.
const ProofNonceWords = 4

// ProofNonce is a fixed placeholder during estimation; a real proving run
// would carry the prover's nonce here.
type ProofNonce [ProofNonceWords]uint32

// GasEstimatingVM is the stateless per-chunk costing pass: it replays one
// trace chunk against the gas model and reports the chunk's gas figure.
// It holds no state across chunks.
type GasEstimatingVM struct {
	chunk   *TraceChunk
	program *Program
	nonce   ProofNonce
	opts    CoreOpts
}

func NewGasEstimatingVM(chunk *TraceChunk, program *Program, nonce ProofNonce, opts CoreOpts) *GasEstimatingVM {
	return &GasEstimatingVM{
		chunk:   chunk,
		program: program,
		nonce:   nonce,
		opts:    opts,
	}
}

// Execute costs the chunk. The chunk's events must be contiguous from its
// start clock; anything else means the trace was assembled wrong.
func (g *GasEstimatingVM) Execute() (uint64, error) {
	if g.program == nil {
		return 0, fmt.Errorf("gas: nil program")
	}
	clk := g.chunk.Start
	var gas uint64
	for i, ev := range g.chunk.Events {
		if ev.Clk != clk {
			return 0, fmt.Errorf("gas: discontiguous trace at event %d: clk %d, want %d", i, ev.Clk, clk)
		}
		switch ev.Kind {
		case StepInstruction:
			gas += ev.Steps * gasPerInstruction
		case StepSyscall:
			gas += ev.Steps * gasPerSyscall
		case StepCommit:
			gas += ev.Steps * gasPerCommit
		default:
			return 0, fmt.Errorf("gas: unknown event kind %d", ev.Kind)
		}
		clk += ev.Steps
	}
	return gas, nil
}
