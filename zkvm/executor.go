package zkvm

import (
	"errors"
	"runtime"

	"github.com/colorfulnotion/nestvm/log"
)

// DefaultChunkSize bounds one trace chunk to this many outer-machine steps.
const DefaultChunkSize = 1000

var errExecutorDone = errors.New("executor already done")

type rawEvent struct {
	kind  StepKind
	steps uint64
}

// MinimalExecutor re-executes the outer machine for one guest run, handing
// back its execution trace in bounded chunks instead of proving it. The
// guest runs on its own goroutine with a synchronous hand-off per event, so
// chunk production is deterministic: the same program and inputs always
// yield the same step totals regardless of chunk size.
//
// The executor must be driven until IsDone reports true, or released with
// Abort; an abandoned executor pins its guest goroutine.
type MinimalExecutor struct {
	program   *Program
	chunkSize int
	stdin     *Stdin

	started bool
	done    bool
	events  chan rawEvent
	quit    chan struct{}

	clk      uint64
	public   []byte
	exitCode int8
	runErr   error
}

func NewMinimalExecutor(program *Program, chunkSize int) *MinimalExecutor {
	if chunkSize <= 0 {
		chunkSize = DefaultChunkSize
	}
	return &MinimalExecutor{
		program:   program,
		chunkSize: chunkSize,
		events:    make(chan rawEvent),
		quit:      make(chan struct{}),
	}
}

// WithInput attaches the guest's input stream. It has no effect once
// execution has started.
func (e *MinimalExecutor) WithInput(stdin *Stdin) *MinimalExecutor {
	if !e.started {
		e.stdin = stdin
	}
	return e
}

func (e *MinimalExecutor) start() {
	e.started = true
	rt := &Runtime{exec: e, stdin: e.stdin}
	go func() {
		err := e.program.guest.Run(rt)
		if err != nil {
			e.runErr = err
			e.exitCode = 1
		} else {
			e.public = rt.public
		}
		close(e.events)
	}()
}

// emit hands one event to the host side. Called from the guest goroutine.
func (e *MinimalExecutor) emit(kind StepKind, steps uint64) {
	if steps == 0 {
		return
	}
	select {
	case e.events <- rawEvent{kind: kind, steps: steps}:
	case <-e.quit:
		runtime.Goexit()
	}
}

// IsDone reports whether the guest has finished and every event has been
// consumed.
func (e *MinimalExecutor) IsDone() bool {
	return e.done
}

// ExecuteChunk produces the next trace chunk, covering at least chunkSize
// outer steps unless the run ends first. A guest failure surfaces here as
// an error; no public values are published in that case.
func (e *MinimalExecutor) ExecuteChunk() (*TraceChunk, error) {
	if e.done {
		return nil, errExecutorDone
	}
	if !e.started {
		e.start()
	}
	chunk := &TraceChunk{Start: e.clk}
	var steps uint64
	for steps < uint64(e.chunkSize) {
		ev, ok := <-e.events
		if !ok {
			e.done = true
			if e.runErr != nil {
				log.Debug(log.Executor, "guest run failed", "err", e.runErr)
				return nil, e.runErr
			}
			break
		}
		chunk.Events = append(chunk.Events, StepEvent{Clk: e.clk, Kind: ev.kind, Steps: ev.steps})
		e.clk += ev.steps
		steps += ev.steps
	}
	return chunk, nil
}

// Abort releases a partially driven executor.
func (e *MinimalExecutor) Abort() {
	select {
	case <-e.quit:
	default:
		close(e.quit)
	}
}

// PublicValuesStream returns the guest's committed public output record.
// It is empty until the run completes, and stays empty after a failed run:
// the record is all-or-nothing.
func (e *MinimalExecutor) PublicValuesStream() []byte {
	return e.public
}

// GlobalClk returns the outer-machine step count consumed so far.
func (e *MinimalExecutor) GlobalClk() uint64 {
	return e.clk
}

// ExitCode returns the outer environment's own exit code for the run.
func (e *MinimalExecutor) ExitCode() int8 {
	return e.exitCode
}
