package rvm

import (
	"math/bits"
)

func sext32(v uint64) uint64 {
	return uint64(int64(int32(uint32(v))))
}

func bool2u64(b bool) uint64 {
	if b {
		return 1
	}
	return 0
}

// execute applies the semantics of one non-system instruction, advancing pc.
// Both backends run every instruction through this single function, which is
// what makes their exit codes and cycle totals equivalent by construction.
func (c *core) execute(in *Insn) error {
	rs1 := c.regs[in.Rs1]
	rs2 := c.regs[in.Rs2]
	imm := uint64(in.Imm)
	next := c.pc + 4

	var rd uint64
	writeRd := true

	switch in.Op {
	case OpLui:
		rd = imm
	case OpAuipc:
		rd = c.pc + imm
	case OpJal:
		rd = c.pc + 4
		next = c.pc + imm
	case OpJalr:
		rd = c.pc + 4
		next = (rs1 + imm) &^ 1
	case OpBeq, OpBne, OpBlt, OpBge, OpBltu, OpBgeu:
		writeRd = false
		var take bool
		switch in.Op {
		case OpBeq:
			take = rs1 == rs2
		case OpBne:
			take = rs1 != rs2
		case OpBlt:
			take = int64(rs1) < int64(rs2)
		case OpBge:
			take = int64(rs1) >= int64(rs2)
		case OpBltu:
			take = rs1 < rs2
		case OpBgeu:
			take = rs1 >= rs2
		}
		if take {
			next = c.pc + imm
		}

	case OpLb:
		v, err := c.mem.ReadUint8(rs1 + imm)
		if err != nil {
			return c.fault(err)
		}
		rd = uint64(int64(int8(v)))
	case OpLh:
		v, err := c.mem.ReadUint16(rs1 + imm)
		if err != nil {
			return c.fault(err)
		}
		rd = uint64(int64(int16(v)))
	case OpLw:
		v, err := c.mem.ReadUint32(rs1 + imm)
		if err != nil {
			return c.fault(err)
		}
		rd = uint64(int64(int32(v)))
	case OpLd:
		v, err := c.mem.ReadUint64(rs1 + imm)
		if err != nil {
			return c.fault(err)
		}
		rd = v
	case OpLbu:
		v, err := c.mem.ReadUint8(rs1 + imm)
		if err != nil {
			return c.fault(err)
		}
		rd = uint64(v)
	case OpLhu:
		v, err := c.mem.ReadUint16(rs1 + imm)
		if err != nil {
			return c.fault(err)
		}
		rd = uint64(v)
	case OpLwu:
		v, err := c.mem.ReadUint32(rs1 + imm)
		if err != nil {
			return c.fault(err)
		}
		rd = uint64(v)

	case OpSb:
		writeRd = false
		if err := c.mem.WriteUint8(rs1+imm, uint8(rs2)); err != nil {
			return c.fault(err)
		}
	case OpSh:
		writeRd = false
		if err := c.mem.WriteUint16(rs1+imm, uint16(rs2)); err != nil {
			return c.fault(err)
		}
	case OpSw:
		writeRd = false
		if err := c.mem.WriteUint32(rs1+imm, uint32(rs2)); err != nil {
			return c.fault(err)
		}
	case OpSd:
		writeRd = false
		if err := c.mem.WriteUint64(rs1+imm, rs2); err != nil {
			return c.fault(err)
		}

	case OpAddi:
		rd = rs1 + imm
	case OpSlti:
		rd = bool2u64(int64(rs1) < in.Imm)
	case OpSltiu:
		rd = bool2u64(rs1 < imm)
	case OpXori:
		rd = rs1 ^ imm
	case OpOri:
		rd = rs1 | imm
	case OpAndi:
		rd = rs1 & imm
	case OpSlli:
		rd = rs1 << (imm & 63)
	case OpSrli:
		rd = rs1 >> (imm & 63)
	case OpSrai:
		rd = uint64(int64(rs1) >> (imm & 63))
	case OpAddiw:
		rd = sext32(rs1 + imm)
	case OpSlliw:
		rd = sext32(rs1 << (imm & 31))
	case OpSrliw:
		rd = sext32(uint64(uint32(rs1) >> (imm & 31)))
	case OpSraiw:
		rd = uint64(int64(int32(uint32(rs1)) >> (imm & 31)))

	case OpAdd:
		rd = rs1 + rs2
	case OpSub:
		rd = rs1 - rs2
	case OpSll:
		rd = rs1 << (rs2 & 63)
	case OpSlt:
		rd = bool2u64(int64(rs1) < int64(rs2))
	case OpSltu:
		rd = bool2u64(rs1 < rs2)
	case OpXor:
		rd = rs1 ^ rs2
	case OpSrl:
		rd = rs1 >> (rs2 & 63)
	case OpSra:
		rd = uint64(int64(rs1) >> (rs2 & 63))
	case OpOr:
		rd = rs1 | rs2
	case OpAnd:
		rd = rs1 & rs2
	case OpAddw:
		rd = sext32(rs1 + rs2)
	case OpSubw:
		rd = sext32(rs1 - rs2)
	case OpSllw:
		rd = sext32(rs1 << (rs2 & 31))
	case OpSrlw:
		rd = sext32(uint64(uint32(rs1) >> (rs2 & 31)))
	case OpSraw:
		rd = uint64(int64(int32(uint32(rs1)) >> (rs2 & 31)))

	case OpMul:
		rd = rs1 * rs2
	case OpMulh:
		hi, lo := bits.Mul64(absU64(int64(rs1)), absU64(int64(rs2)))
		if (int64(rs1) < 0) != (int64(rs2) < 0) {
			hi, lo = negate128(hi, lo)
		}
		_ = lo
		rd = hi
	case OpMulhu:
		hi, _ := bits.Mul64(rs1, rs2)
		rd = hi
	case OpMulhsu:
		hi, lo := bits.Mul64(absU64(int64(rs1)), rs2)
		if int64(rs1) < 0 {
			hi, lo = negate128(hi, lo)
		}
		_ = lo
		rd = hi
	case OpDiv:
		rd = divS(int64(rs1), int64(rs2))
	case OpDivu:
		if rs2 == 0 {
			rd = ^uint64(0)
		} else {
			rd = rs1 / rs2
		}
	case OpRem:
		rd = remS(int64(rs1), int64(rs2))
	case OpRemu:
		if rs2 == 0 {
			rd = rs1
		} else {
			rd = rs1 % rs2
		}
	case OpMulw:
		rd = sext32(uint64(uint32(rs1) * uint32(rs2)))
	case OpDivw:
		rd = uint64(int64(int32(divS32(int32(uint32(rs1)), int32(uint32(rs2))))))
	case OpDivuw:
		if uint32(rs2) == 0 {
			rd = ^uint64(0)
		} else {
			rd = sext32(uint64(uint32(rs1) / uint32(rs2)))
		}
	case OpRemw:
		rd = uint64(int64(int32(remS32(int32(uint32(rs1)), int32(uint32(rs2))))))
	case OpRemuw:
		if uint32(rs2) == 0 {
			rd = sext32(rs1)
		} else {
			rd = sext32(uint64(uint32(rs1) % uint32(rs2)))
		}

	case OpLrW:
		v, err := c.mem.ReadUint32(rs1)
		if err != nil {
			return c.fault(err)
		}
		rd = uint64(int64(int32(v)))
	case OpScW:
		// single-threaded machine: the reservation always holds
		if err := c.mem.WriteUint32(rs1, uint32(rs2)); err != nil {
			return c.fault(err)
		}
		rd = 0
	case OpAmoSwapW, OpAmoAddW, OpAmoXorW, OpAmoAndW, OpAmoOrW:
		v, err := c.mem.ReadUint32(rs1)
		if err != nil {
			return c.fault(err)
		}
		var res uint32
		switch in.Op {
		case OpAmoSwapW:
			res = uint32(rs2)
		case OpAmoAddW:
			res = v + uint32(rs2)
		case OpAmoXorW:
			res = v ^ uint32(rs2)
		case OpAmoAndW:
			res = v & uint32(rs2)
		case OpAmoOrW:
			res = v | uint32(rs2)
		}
		if err := c.mem.WriteUint32(rs1, res); err != nil {
			return c.fault(err)
		}
		rd = uint64(int64(int32(v)))
	case OpLrD:
		v, err := c.mem.ReadUint64(rs1)
		if err != nil {
			return c.fault(err)
		}
		rd = v
	case OpScD:
		if err := c.mem.WriteUint64(rs1, rs2); err != nil {
			return c.fault(err)
		}
		rd = 0
	case OpAmoSwapD, OpAmoAddD, OpAmoXorD, OpAmoAndD, OpAmoOrD:
		v, err := c.mem.ReadUint64(rs1)
		if err != nil {
			return c.fault(err)
		}
		var res uint64
		switch in.Op {
		case OpAmoSwapD:
			res = rs2
		case OpAmoAddD:
			res = v + rs2
		case OpAmoXorD:
			res = v ^ rs2
		case OpAmoAndD:
			res = v & rs2
		case OpAmoOrD:
			res = v | rs2
		}
		if err := c.mem.WriteUint64(rs1, res); err != nil {
			return c.fault(err)
		}
		rd = v

	case OpAndn:
		rd = rs1 &^ rs2
	case OpOrn:
		rd = rs1 | ^rs2
	case OpXnor:
		rd = ^(rs1 ^ rs2)
	case OpMin:
		if int64(rs1) < int64(rs2) {
			rd = rs1
		} else {
			rd = rs2
		}
	case OpMinu:
		if rs1 < rs2 {
			rd = rs1
		} else {
			rd = rs2
		}
	case OpMax:
		if int64(rs1) > int64(rs2) {
			rd = rs1
		} else {
			rd = rs2
		}
	case OpMaxu:
		if rs1 > rs2 {
			rd = rs1
		} else {
			rd = rs2
		}
	case OpRol:
		rd = bits.RotateLeft64(rs1, int(rs2&63))
	case OpRor:
		rd = bits.RotateLeft64(rs1, -int(rs2&63))
	case OpRori:
		rd = bits.RotateLeft64(rs1, -int(imm&63))
	case OpClz:
		rd = uint64(bits.LeadingZeros64(rs1))
	case OpCtz:
		rd = uint64(bits.TrailingZeros64(rs1))
	case OpCpop:
		rd = uint64(bits.OnesCount64(rs1))
	case OpSextB:
		rd = uint64(int64(int8(uint8(rs1))))
	case OpSextH:
		rd = uint64(int64(int16(uint16(rs1))))
	case OpZextH:
		rd = uint64(uint16(rs1))
	case OpSh1add:
		rd = (rs1 << 1) + rs2
	case OpSh2add:
		rd = (rs1 << 2) + rs2
	case OpSh3add:
		rd = (rs1 << 3) + rs2
	case OpAddUw:
		rd = uint64(uint32(rs1)) + rs2

	case OpFence:
		writeRd = false

	default:
		return &RunError{Kind: FaultIllegalInstruction, PC: c.pc}
	}

	if writeRd {
		c.SetRegister(int(in.Rd), rd)
	}
	c.pc = next
	return nil
}

func absU64(v int64) uint64 {
	if v < 0 {
		return uint64(-v)
	}
	return uint64(v)
}

func negate128(hi, lo uint64) (uint64, uint64) {
	lo = ^lo + 1
	hi = ^hi
	if lo == 0 {
		hi++
	}
	return hi, lo
}

func divS(a, b int64) uint64 {
	switch {
	case b == 0:
		return ^uint64(0)
	case a == -a && b == -1: // MinInt64 / -1 overflows
		return uint64(a)
	default:
		return uint64(a / b)
	}
}

func remS(a, b int64) uint64 {
	switch {
	case b == 0:
		return uint64(a)
	case a == -a && b == -1:
		return 0
	default:
		return uint64(a % b)
	}
}

func divS32(a, b int32) int32 {
	switch {
	case b == 0:
		return -1
	case a == -a && b == -1:
		return a
	default:
		return a / b
	}
}

func remS32(a, b int32) int32 {
	switch {
	case b == 0:
		return a
	case a == -a && b == -1:
		return 0
	default:
		return a % b
	}
}
