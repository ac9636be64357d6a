package rvm

// EstimateCycles is the default instruction cost model: multi-cycle charges
// for multiplication, division, memory traffic and control transfers, one
// cycle for everything else. It is a pure function of the instruction so
// cycle totals replay identically on every backend.
func EstimateCycles(in *Insn) uint64 {
	switch in.Op {
	case OpMul, OpMulh, OpMulhsu, OpMulhu, OpMulw:
		return 5
	case OpDiv, OpDivu, OpRem, OpRemu, OpDivw, OpDivuw, OpRemw, OpRemuw:
		return 16
	case OpLb, OpLh, OpLw, OpLd, OpLbu, OpLhu, OpLwu,
		OpSb, OpSh, OpSw, OpSd:
		return 3
	case OpJal, OpJalr, OpBeq, OpBne, OpBlt, OpBge, OpBltu, OpBgeu:
		return 3
	case OpLrW, OpScW, OpAmoSwapW, OpAmoAddW, OpAmoXorW, OpAmoAndW, OpAmoOrW,
		OpLrD, OpScD, OpAmoSwapD, OpAmoAddD, OpAmoXorD, OpAmoAndD, OpAmoOrD:
		return 4
	default:
		return 1
	}
}

// FlatCycles charges one cycle per instruction regardless of kind.
func FlatCycles(in *Insn) uint64 {
	return 1
}
