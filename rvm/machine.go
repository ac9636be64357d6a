package rvm

import (
	"errors"
	"fmt"

	"github.com/colorfulnotion/nestvm/log"
)

// Machine drives one program from load to completion. A machine is used for
// exactly one run; after a failed load it is abandoned.
type Machine interface {
	// LoadProgram parses the image, places its segments, and sets up the
	// stack with the given argument list.
	LoadProgram(code []byte, args [][]byte) error

	// Run executes to completion and returns the program's exit code.
	// Intentional termination, even non-zero, is not an error; only an
	// unrecoverable machine fault is.
	Run() (int8, error)

	// Cycles returns the cost accumulated so far under the configured
	// cost function.
	Cycles() uint64

	ExitCode() int8
}

// New constructs a machine for the configured backend.
func New(cfg Config) (Machine, error) {
	c := cfg.withDefaults()
	switch c.Backend {
	case BackendInterpreter:
		return newInterpreterMachine(c), nil
	case BackendCompiler:
		return newCompilerMachine(c), nil
	default:
		return nil, fmt.Errorf("unknown backend %q", c.Backend)
	}
}

// exit system call number (riscv linux ABI), consumed by the machine itself.
const sysExit = 93

const (
	regSP = 2
	regA0 = 10
	regA7 = 17
)

var errNotLoaded = errors.New("no program loaded")

// core holds the mutable runtime state shared by both backends.
type core struct {
	cfg      Config
	regs     [32]uint64
	pc       uint64
	mem      *Memory
	cycles   uint64
	exitCode int8
	halted   bool
	loaded   bool
}

func newCore(cfg Config) core {
	return core{
		cfg: cfg,
		mem: NewMemory(cfg.MaxMemory),
	}
}

func (c *core) Register(i int) uint64 {
	return c.regs[i]
}

func (c *core) SetRegister(i int, v uint64) {
	if i != 0 {
		c.regs[i] = v
	}
}

func (c *core) Memory() *Memory {
	return c.mem
}

func (c *core) Cycles() uint64 {
	return c.cycles
}

func (c *core) ExitCode() int8 {
	return c.exitCode
}

func (c *core) PC() uint64 {
	return c.pc
}

func (c *core) loadProgram(code []byte, args [][]byte) error {
	if c.loaded {
		return &LoadError{Reason: "machine already holds a program"}
	}
	prog, err := ParseELF(code, c.cfg.MaxMemory)
	if err != nil {
		return err
	}
	for _, seg := range prog.Segments {
		if err := c.mem.Write(seg.Addr, seg.Data); err != nil {
			return loadErrorf("segment at %#x violates memory bound", seg.Addr)
		}
	}
	c.pc = prog.Entry
	if err := c.initStack(args); err != nil {
		return err
	}
	if err := c.cfg.Syscalls.Initialize(c); err != nil {
		return loadErrorf("syscall handler initialization: %v", err)
	}
	c.loaded = true
	log.Trace(log.Rvm, "program loaded", "entry", fmt.Sprintf("%#x", c.pc), "segments", len(prog.Segments))
	return nil
}

// stack lives just below the 4 GiB line (or below MaxMemory when that is
// smaller), growing down; sp points at argc on entry per the riscv ABI.
func (c *core) initStack(args [][]byte) error {
	top := c.cfg.MaxMemory
	if top > 1<<32 {
		top = 1 << 32
	}
	sp := top &^ 0xf

	addrs := make([]uint64, len(args))
	for i := len(args) - 1; i >= 0; i-- {
		sp -= uint64(len(args[i])) + 1
		if err := c.mem.Write(sp, append(append([]byte{}, args[i]...), 0)); err != nil {
			return loadErrorf("argument %d violates memory bound", i)
		}
		addrs[i] = sp
	}
	sp &^= 7
	sp -= 8 * uint64(len(args)+1)
	for i, a := range addrs {
		if err := c.mem.WriteUint64(sp+8*uint64(i), a); err != nil {
			return loadErrorf("argv violates memory bound")
		}
	}
	sp -= 8
	if err := c.mem.WriteUint64(sp, uint64(len(args))); err != nil {
		return loadErrorf("argc violates memory bound")
	}
	c.regs[regSP] = sp
	return nil
}

// retire executes one decoded instruction, charges its cycle cost and
// notifies the step hook. The cost is charged only when the instruction
// actually retires; a faulting instruction charges nothing.
func (c *core) retire(in *Insn) error {
	switch in.Op {
	case OpEcall:
		if err := c.ecall(); err != nil {
			return err
		}
		if !c.halted {
			c.pc += 4
		}
	case OpEbreak:
		return &RunError{Kind: FaultUnhandledTrap, PC: c.pc}
	default:
		if err := c.execute(in); err != nil {
			return err
		}
	}
	cycles := c.cfg.Cost(in)
	c.cycles += cycles
	if c.cfg.StepHook != nil {
		c.cfg.StepHook(in, cycles)
	}
	return nil
}

func (c *core) ecall() error {
	if c.regs[regA7] == sysExit {
		c.exitCode = int8(c.regs[regA0])
		c.halted = true
		return nil
	}
	handled, err := c.cfg.Syscalls.Ecall(c)
	if err != nil {
		return &RunError{Kind: FaultUnhandledTrap, PC: c.pc}
	}
	if !handled {
		return &RunError{Kind: FaultUnhandledTrap, PC: c.pc}
	}
	return nil
}

// fault stamps the current pc onto a memory fault raised below the core.
func (c *core) fault(err error) error {
	var re *RunError
	if errors.As(err, &re) && re.PC == 0 {
		re.PC = c.pc
	}
	return err
}
