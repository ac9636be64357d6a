// Package interp is the "vm" guest: it drives the inner register machine
// over a program image inside the outer environment, then commits the inner
// run's exit code and cycle count as the public output record.
package interp

import (
	"math"

	"github.com/colorfulnotion/nestvm/rvm"
	"github.com/colorfulnotion/nestvm/zkvm"
)

// Guest runs one program image to completion on the inner machine.
type Guest struct {
	image   []byte
	backend string
}

// New builds the guest for the given image. The image bytes are explicit
// configuration, not compiled-in state, so synthetic programs load the same
// way production ones do.
func New(image []byte) *Guest {
	return &Guest{image: image, backend: defaultBackend}
}

// WithBackend overrides the build-selected inner execution backend.
func (g *Guest) WithBackend(backend string) *Guest {
	g.backend = backend
	return g
}

// Run constructs the inner machine with its fixed configuration, loads the
// image with an empty argument list, runs it, and commits exactly two
// values in order: exit code, then cycle count. A load or run failure
// aborts the whole guest run; nothing is committed.
func (g *Guest) Run(rt *zkvm.Runtime) error {
	cfg := rvm.Config{
		ISA:       rvm.ISAIMC | rvm.ISAA | rvm.ISAB | rvm.ISAMOP,
		Version:   rvm.Version2,
		MaxMemory: math.MaxUint64,
		Cost:      rvm.EstimateCycles,
		Syscalls:  rvm.NoopSyscalls{},
		Backend:   g.backend,
		StepHook: func(in *rvm.Insn, cycles uint64) {
			// every simulated inner instruction is one outer step;
			// system calls are metered separately
			if in.Op == rvm.OpEcall {
				rt.TickSyscall(1)
				return
			}
			rt.Tick(1)
		},
	}
	machine, err := rvm.New(cfg)
	if err != nil {
		return err
	}
	if err := machine.LoadProgram(g.image, nil); err != nil {
		return err
	}
	exitCode, err := machine.Run()
	if err != nil {
		return err
	}

	rt.CommitInt8(exitCode)
	rt.CommitUint64(machine.Cycles())
	return nil
}
