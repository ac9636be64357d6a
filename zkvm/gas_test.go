package zkvm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func costChunk(t *testing.T, chunk *TraceChunk) uint64 {
	t.Helper()
	program := newTestProgram(t, tickingGuest(1))
	vm := NewGasEstimatingVM(chunk, program, ProofNonce{}, DefaultCoreOpts())
	gas, err := vm.Execute()
	require.NoError(t, err)
	return gas
}

func TestGasWeights(t *testing.T) {
	chunk := &TraceChunk{
		Start: 0,
		Events: []StepEvent{
			{Clk: 0, Kind: StepInstruction, Steps: 10},
			{Clk: 10, Kind: StepSyscall, Steps: 4},
			{Clk: 14, Kind: StepCommit, Steps: 8},
		},
	}
	assert.Equal(t, uint64(10*8+4*20+8*12), costChunk(t, chunk))
	assert.Equal(t, uint64(22), chunk.Steps())
}

func TestGasEmptyChunk(t *testing.T) {
	assert.Equal(t, uint64(0), costChunk(t, &TraceChunk{Start: 42}))
}

func TestGasChunkSplitInvariance(t *testing.T) {
	whole := &TraceChunk{
		Start: 0,
		Events: []StepEvent{
			{Clk: 0, Kind: StepInstruction, Steps: 500},
			{Clk: 500, Kind: StepSyscall, Steps: 8},
			{Clk: 508, Kind: StepInstruction, Steps: 200},
			{Clk: 708, Kind: StepCommit, Steps: 8},
		},
	}
	first := &TraceChunk{Start: 0, Events: whole.Events[:2]}
	second := &TraceChunk{Start: 508, Events: whole.Events[2:]}

	assert.Equal(t, costChunk(t, whole), costChunk(t, first)+costChunk(t, second))
}

func TestGasRejectsDiscontiguousTrace(t *testing.T) {
	chunk := &TraceChunk{
		Start: 0,
		Events: []StepEvent{
			{Clk: 0, Kind: StepInstruction, Steps: 10},
			{Clk: 11, Kind: StepInstruction, Steps: 10}, // gap of one
		},
	}
	program := newTestProgram(t, tickingGuest(1))
	vm := NewGasEstimatingVM(chunk, program, ProofNonce{}, DefaultCoreOpts())
	_, err := vm.Execute()
	assert.Error(t, err)
}

func TestGasRejectsUnknownKind(t *testing.T) {
	chunk := &TraceChunk{
		Events: []StepEvent{{Kind: StepKind(99), Steps: 1}},
	}
	program := newTestProgram(t, tickingGuest(1))
	vm := NewGasEstimatingVM(chunk, program, ProofNonce{}, DefaultCoreOpts())
	_, err := vm.Execute()
	assert.Error(t, err)
}

func TestGasRequiresProgram(t *testing.T) {
	vm := NewGasEstimatingVM(&TraceChunk{}, nil, ProofNonce{}, DefaultCoreOpts())
	_, err := vm.Execute()
	assert.Error(t, err)
}
