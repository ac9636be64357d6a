// Package zkvm is the boundary to the proof-oriented outer environment: a
// guest runtime with a positional public-output stream, a minimal executor
// that re-executes the outer machine in bounded trace chunks, a stateless
// per-chunk gas estimation pass, and a prover client.
package zkvm

import (
	"github.com/colorfulnotion/nestvm/common"
)

// Guest is a program that runs inside the outer environment. Run either
// completes (committing its public outputs through rt) or returns an error,
// which aborts the whole run with nothing committed.
type Guest interface {
	Run(rt *Runtime) error
}

// GuestFunc adapts a function to the Guest interface.
type GuestFunc func(rt *Runtime) error

func (f GuestFunc) Run(rt *Runtime) error {
	return f(rt)
}

// Outer-machine step charges per event kind.
const (
	commitSteps  = 8
	syscallSteps = 4
)

// Runtime is the environment handed to a running guest. Commits are
// buffered and published to the executor only when the guest completes, so
// a failed run never leaves a partial public output record behind.
type Runtime struct {
	exec   *MinimalExecutor
	public []byte
	stdin  *Stdin
	inPtr  int
}

// Tick records n outer-machine instruction steps.
func (rt *Runtime) Tick(n uint64) {
	rt.exec.emit(StepInstruction, n)
}

// TickSyscall records a system-call step observed while simulating.
func (rt *Runtime) TickSyscall(n uint64) {
	rt.exec.emit(StepSyscall, n*syscallSteps)
}

// CommitInt8 appends an 8-bit signed value to the public output record.
// Commit order is a wire contract: consumers read positionally.
func (rt *Runtime) CommitInt8(v int8) {
	rt.public = append(rt.public, byte(v))
	rt.exec.emit(StepCommit, commitSteps)
}

// CommitUint64 appends a 64-bit little-endian value to the public output
// record.
func (rt *Runtime) CommitUint64(v uint64) {
	rt.public = append(rt.public, common.Uint64ToBytes(v)...)
	rt.exec.emit(StepCommit, commitSteps)
}

// Read returns the next input buffer, or nil when the stream is exhausted.
func (rt *Runtime) Read() []byte {
	if rt.stdin == nil || rt.inPtr >= len(rt.stdin.buffers) {
		return nil
	}
	b := rt.stdin.buffers[rt.inPtr]
	rt.inPtr++
	return b
}
