package rvm

// interpreterMachine decodes every instruction as it is fetched. This is the
// portable reference backend.
type interpreterMachine struct {
	core
}

func newInterpreterMachine(cfg Config) *interpreterMachine {
	return &interpreterMachine{core: newCore(cfg)}
}

func (m *interpreterMachine) LoadProgram(code []byte, args [][]byte) error {
	return m.loadProgram(code, args)
}

func (m *interpreterMachine) Run() (int8, error) {
	if !m.loaded {
		return 0, errNotLoaded
	}
	for !m.halted {
		word, err := m.mem.ReadUint32(m.pc)
		if err != nil {
			return 0, m.fault(err)
		}
		in, ok := decode(word, m.cfg.ISA)
		if !ok {
			return 0, &RunError{Kind: FaultIllegalInstruction, PC: m.pc}
		}
		if err := m.retire(&in); err != nil {
			return 0, err
		}
	}
	return m.exitCode, nil
}
