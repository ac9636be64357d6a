package rvm

// SyscallContext is the machine surface visible to a syscall handler.
type SyscallContext interface {
	Register(i int) uint64
	SetRegister(i int, v uint64)
	Memory() *Memory
}

// Syscalls is the capability plugged into a machine for ECALL handling.
// Initialize runs once during program load. Ecall runs for every system call
// the machine does not consume itself; returning handled=false raises an
// unhandled trap.
type Syscalls interface {
	Initialize(ctx SyscallContext) error
	Ecall(ctx SyscallContext) (handled bool, err error)
}

// NoopSyscalls reports every system call as handled without performing any
// host interaction. It never fails.
type NoopSyscalls struct{}

func (NoopSyscalls) Initialize(ctx SyscallContext) error {
	return nil
}

func (NoopSyscalls) Ecall(ctx SyscallContext) (bool, error) {
	return true, nil
}
