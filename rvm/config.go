// Package rvm wraps a RISC-V register machine into a runnable unit with
// deterministic cycle accounting. Two execution backends are provided behind
// one Machine interface: a plain interpreter and a predecoding "compiler"
// backend. Both are required to produce identical exit codes and cycle counts
// for the same program and inputs.
package rvm

import (
	"math"
)

// ISA feature flags. IMC is the base and always on.
const (
	ISAIMC uint8 = 0
	ISAB   uint8 = 1 << 0 // bit-manipulation subset
	ISAMOP uint8 = 1 << 1 // macro-op fusion; accepted, semantics-preserving
	ISAA   uint8 = 1 << 2 // atomics
)

// Machine version tags.
const (
	Version0 uint32 = 0
	Version1 uint32 = 1
	Version2 uint32 = 2
)

// Execution backends.
const (
	BackendInterpreter = "interpreter"
	BackendCompiler    = "compiler"
)

const DefaultMaxMemory = uint64(math.MaxUint64)

// CostFunc assigns a cycle cost to one retired instruction. It must be a pure
// function of the instruction: cycle totals are part of the public output and
// have to be reproducible across backends and across runs.
type CostFunc func(in *Insn) uint64

// StepHook observes every retired instruction together with its charged
// cycles. It must not mutate machine state.
type StepHook func(in *Insn, cycles uint64)

// Config describes a machine before construction. It is fixed for the whole
// run; a zero field falls back to the documented default.
type Config struct {
	ISA       uint8
	Version   uint32
	MaxMemory uint64
	Cost      CostFunc // default EstimateCycles
	Syscalls  Syscalls // default NoopSyscalls
	Backend   string   // default BackendInterpreter
	StepHook  StepHook
}

func (cfg *Config) withDefaults() Config {
	out := *cfg
	if out.MaxMemory == 0 {
		out.MaxMemory = DefaultMaxMemory
	}
	if out.Cost == nil {
		out.Cost = EstimateCycles
	}
	if out.Syscalls == nil {
		out.Syscalls = NoopSyscalls{}
	}
	if out.Backend == "" {
		out.Backend = BackendInterpreter
	}
	return out
}
