package zkvm

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/colorfulnotion/nestvm/common"
)

// tickingGuest spends the given steps and commits a fixed record.
func tickingGuest(steps uint64) Guest {
	return GuestFunc(func(rt *Runtime) error {
		rt.Tick(steps)
		rt.TickSyscall(2)
		rt.CommitInt8(0)
		rt.CommitUint64(steps)
		return nil
	})
}

func newTestProgram(t *testing.T, guest Guest) *Program {
	t.Helper()
	program, err := NewProgram(guest, []byte("test image"))
	require.NoError(t, err)
	return program
}

func drain(t *testing.T, exec *MinimalExecutor) []*TraceChunk {
	t.Helper()
	var chunks []*TraceChunk
	for !exec.IsDone() {
		chunk, err := exec.ExecuteChunk()
		require.NoError(t, err)
		chunks = append(chunks, chunk)
	}
	return chunks
}

func TestExecutorRunToCompletion(t *testing.T) {
	program := newTestProgram(t, tickingGuest(2500))
	exec := NewMinimalExecutor(program, 1000)
	chunks := drain(t, exec)

	// 2500 instruction steps + one syscall (2*4) + two commits (2*8)
	assert.Equal(t, uint64(2500+8+16), exec.GlobalClk())
	assert.Equal(t, int8(0), exec.ExitCode())
	require.NotEmpty(t, chunks)

	pv := NewPublicValues(exec.PublicValuesStream())
	assert.Equal(t, int8(0), pv.ReadInt8())
	assert.Equal(t, uint64(2500), pv.ReadUint64())
	assert.Equal(t, 0, pv.Remaining())
}

func TestExecutorTraceContiguity(t *testing.T) {
	program := newTestProgram(t, tickingGuest(700))
	exec := NewMinimalExecutor(program, 100)

	clk := uint64(0)
	for _, chunk := range drain(t, exec) {
		assert.Equal(t, clk, chunk.Start)
		for _, ev := range chunk.Events {
			assert.Equal(t, clk, ev.Clk)
			clk += ev.Steps
		}
	}
	assert.Equal(t, exec.GlobalClk(), clk)
}

func TestExecutorChunkSizeInvariance(t *testing.T) {
	type outcome struct {
		clk    uint64
		public []byte
	}
	var outcomes []outcome
	for _, chunkSize := range []int{100, 1000, 100000} {
		program := newTestProgram(t, tickingGuest(2500))
		exec := NewMinimalExecutor(program, chunkSize)
		drain(t, exec)
		outcomes = append(outcomes, outcome{exec.GlobalClk(), exec.PublicValuesStream()})
	}
	for _, o := range outcomes[1:] {
		assert.Equal(t, outcomes[0], o)
	}
}

func TestExecutorGuestFailure(t *testing.T) {
	boom := errors.New("guest blew up")
	guest := GuestFunc(func(rt *Runtime) error {
		rt.Tick(10)
		rt.CommitInt8(0) // buffered, must never surface
		return boom
	})
	program := newTestProgram(t, guest)
	exec := NewMinimalExecutor(program, 1000)

	var err error
	for !exec.IsDone() {
		_, err = exec.ExecuteChunk()
		if err != nil {
			break
		}
	}
	require.ErrorIs(t, err, boom)
	assert.True(t, exec.IsDone())
	assert.Equal(t, int8(1), exec.ExitCode())
	assert.Empty(t, exec.PublicValuesStream(), "a failed run publishes nothing")
}

func TestExecutorAbort(t *testing.T) {
	guest := GuestFunc(func(rt *Runtime) error {
		for i := 0; i < 1_000_000; i++ {
			rt.Tick(1)
		}
		rt.CommitInt8(0)
		return nil
	})
	program := newTestProgram(t, guest)
	exec := NewMinimalExecutor(program, 100)

	chunk, err := exec.ExecuteChunk()
	require.NoError(t, err)
	assert.Equal(t, uint64(100), chunk.Steps())

	exec.Abort()
	exec.Abort() // idempotent
}

func TestExecutorDoneIsTerminal(t *testing.T) {
	program := newTestProgram(t, tickingGuest(10))
	exec := NewMinimalExecutor(program, 1000)
	drain(t, exec)

	_, err := exec.ExecuteChunk()
	assert.Error(t, err)
}

func TestProgramValidation(t *testing.T) {
	_, err := NewProgram(nil, []byte("x"))
	assert.Error(t, err)

	_, err = NewProgram(tickingGuest(1), nil)
	assert.Error(t, err)

	p, err := NewProgram(tickingGuest(1), []byte("image"))
	require.NoError(t, err)
	assert.NotEqual(t, common.Hash{}, p.Digest())
	assert.Equal(t, []byte("image"), p.Image())
}
