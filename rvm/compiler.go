package rvm

// compilerMachine is the accelerated backend: code is decoded once into
// basic blocks keyed by their start pc and dispatched from the cache on
// every revisit. Instructions still retire through the shared core, so exit
// codes and cycle totals match the interpreter exactly.
//
// The cache assumes the program does not rewrite its own text, the same
// assumption a native-codegen backend would make.
type compilerMachine struct {
	core
	blocks map[uint64]*basicBlock
}

type basicBlock struct {
	pc    uint64
	insns []Insn
}

func newCompilerMachine(cfg Config) *compilerMachine {
	return &compilerMachine{
		core:   newCore(cfg),
		blocks: make(map[uint64]*basicBlock),
	}
}

func (m *compilerMachine) LoadProgram(code []byte, args [][]byte) error {
	return m.loadProgram(code, args)
}

func (m *compilerMachine) Run() (int8, error) {
	if !m.loaded {
		return 0, errNotLoaded
	}
	for !m.halted {
		blk, err := m.block(m.pc)
		if err != nil {
			return 0, err
		}
		for i := range blk.insns {
			if err := m.retire(&blk.insns[i]); err != nil {
				return 0, err
			}
			if m.halted {
				break
			}
		}
	}
	return m.exitCode, nil
}

// block translates the basic block starting at pc, ending at the first
// control-transfer or system instruction. A decode failure inside a block
// truncates it; execution then reaches the bad word as its own block and
// faults there, matching the interpreter.
func (m *compilerMachine) block(pc uint64) (*basicBlock, error) {
	if b, ok := m.blocks[pc]; ok {
		return b, nil
	}
	b := &basicBlock{pc: pc}
	for addr := pc; ; addr += 4 {
		word, err := m.mem.ReadUint32(addr)
		if err != nil {
			if len(b.insns) == 0 {
				return nil, m.fault(err)
			}
			break
		}
		in, ok := decode(word, m.cfg.ISA)
		if !ok {
			if len(b.insns) == 0 {
				return nil, &RunError{Kind: FaultIllegalInstruction, PC: addr}
			}
			break
		}
		b.insns = append(b.insns, in)
		if isBlockEnd(in.Op) {
			break
		}
	}
	m.blocks[pc] = b
	return b, nil
}

func isBlockEnd(op Op) bool {
	switch op {
	case OpJal, OpJalr, OpBeq, OpBne, OpBlt, OpBge, OpBltu, OpBgeu, OpEcall, OpEbreak:
		return true
	default:
		return false
	}
}
