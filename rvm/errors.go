package rvm

import (
	"fmt"
)

// LoadError reports a malformed program image or a failed machine
// initialization. A machine that failed to load is abandoned, never reused.
type LoadError struct {
	Reason string
}

func (e *LoadError) Error() string {
	return "load: " + e.Reason
}

func loadErrorf(format string, args ...interface{}) *LoadError {
	return &LoadError{Reason: fmt.Sprintf(format, args...)}
}

// FaultKind classifies unrecoverable machine faults.
type FaultKind int

const (
	FaultIllegalInstruction FaultKind = iota
	FaultOutOfBounds
	FaultUnhandledTrap
)

func (k FaultKind) String() string {
	switch k {
	case FaultIllegalInstruction:
		return "illegal instruction"
	case FaultOutOfBounds:
		return "memory out of bounds"
	case FaultUnhandledTrap:
		return "unhandled trap"
	default:
		return "unknown fault"
	}
}

// RunError reports an unrecoverable machine fault. Intentional program
// termination with a non-zero exit code is not a RunError.
type RunError struct {
	Kind FaultKind
	PC   uint64
	Addr uint64
}

func (e *RunError) Error() string {
	if e.Kind == FaultOutOfBounds {
		return fmt.Sprintf("run: %s at pc=%#x addr=%#x", e.Kind, e.PC, e.Addr)
	}
	return fmt.Sprintf("run: %s at pc=%#x", e.Kind, e.PC)
}
