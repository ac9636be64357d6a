package rvm

// Op identifies a decoded instruction.
type Op uint8

const (
	OpInvalid Op = iota

	// RV64I
	OpLui
	OpAuipc
	OpJal
	OpJalr
	OpBeq
	OpBne
	OpBlt
	OpBge
	OpBltu
	OpBgeu
	OpLb
	OpLh
	OpLw
	OpLd
	OpLbu
	OpLhu
	OpLwu
	OpSb
	OpSh
	OpSw
	OpSd
	OpAddi
	OpSlti
	OpSltiu
	OpXori
	OpOri
	OpAndi
	OpSlli
	OpSrli
	OpSrai
	OpAddiw
	OpSlliw
	OpSrliw
	OpSraiw
	OpAdd
	OpSub
	OpSll
	OpSlt
	OpSltu
	OpXor
	OpSrl
	OpSra
	OpOr
	OpAnd
	OpAddw
	OpSubw
	OpSllw
	OpSrlw
	OpSraw
	OpFence
	OpEcall
	OpEbreak

	// M
	OpMul
	OpMulh
	OpMulhsu
	OpMulhu
	OpDiv
	OpDivu
	OpRem
	OpRemu
	OpMulw
	OpDivw
	OpDivuw
	OpRemw
	OpRemuw

	// A (gated by ISAA)
	OpLrW
	OpScW
	OpAmoSwapW
	OpAmoAddW
	OpAmoXorW
	OpAmoAndW
	OpAmoOrW
	OpLrD
	OpScD
	OpAmoSwapD
	OpAmoAddD
	OpAmoXorD
	OpAmoAndD
	OpAmoOrD

	// B (gated by ISAB)
	OpAndn
	OpOrn
	OpXnor
	OpMin
	OpMinu
	OpMax
	OpMaxu
	OpRol
	OpRor
	OpRori
	OpClz
	OpCtz
	OpCpop
	OpSextB
	OpSextH
	OpZextH
	OpSh1add
	OpSh2add
	OpSh3add
	OpAddUw

	opMax
)

var opNames = map[Op]string{
	OpLui: "lui", OpAuipc: "auipc", OpJal: "jal", OpJalr: "jalr",
	OpBeq: "beq", OpBne: "bne", OpBlt: "blt", OpBge: "bge", OpBltu: "bltu", OpBgeu: "bgeu",
	OpLb: "lb", OpLh: "lh", OpLw: "lw", OpLd: "ld", OpLbu: "lbu", OpLhu: "lhu", OpLwu: "lwu",
	OpSb: "sb", OpSh: "sh", OpSw: "sw", OpSd: "sd",
	OpAddi: "addi", OpSlti: "slti", OpSltiu: "sltiu", OpXori: "xori", OpOri: "ori", OpAndi: "andi",
	OpSlli: "slli", OpSrli: "srli", OpSrai: "srai",
	OpAddiw: "addiw", OpSlliw: "slliw", OpSrliw: "srliw", OpSraiw: "sraiw",
	OpAdd: "add", OpSub: "sub", OpSll: "sll", OpSlt: "slt", OpSltu: "sltu",
	OpXor: "xor", OpSrl: "srl", OpSra: "sra", OpOr: "or", OpAnd: "and",
	OpAddw: "addw", OpSubw: "subw", OpSllw: "sllw", OpSrlw: "srlw", OpSraw: "sraw",
	OpFence: "fence", OpEcall: "ecall", OpEbreak: "ebreak",
	OpMul: "mul", OpMulh: "mulh", OpMulhsu: "mulhsu", OpMulhu: "mulhu",
	OpDiv: "div", OpDivu: "divu", OpRem: "rem", OpRemu: "remu",
	OpMulw: "mulw", OpDivw: "divw", OpDivuw: "divuw", OpRemw: "remw", OpRemuw: "remuw",
	OpLrW: "lr.w", OpScW: "sc.w", OpAmoSwapW: "amoswap.w", OpAmoAddW: "amoadd.w",
	OpAmoXorW: "amoxor.w", OpAmoAndW: "amoand.w", OpAmoOrW: "amoor.w",
	OpLrD: "lr.d", OpScD: "sc.d", OpAmoSwapD: "amoswap.d", OpAmoAddD: "amoadd.d",
	OpAmoXorD: "amoxor.d", OpAmoAndD: "amoand.d", OpAmoOrD: "amoor.d",
	OpAndn: "andn", OpOrn: "orn", OpXnor: "xnor",
	OpMin: "min", OpMinu: "minu", OpMax: "max", OpMaxu: "maxu",
	OpRol: "rol", OpRor: "ror", OpRori: "rori",
	OpClz: "clz", OpCtz: "ctz", OpCpop: "cpop",
	OpSextB: "sext.b", OpSextH: "sext.h", OpZextH: "zext.h",
	OpSh1add: "sh1add", OpSh2add: "sh2add", OpSh3add: "sh3add", OpAddUw: "add.uw",
}

func (op Op) String() string {
	if s, ok := opNames[op]; ok {
		return s
	}
	return "invalid"
}

// Insn is one decoded instruction.
type Insn struct {
	Op   Op
	Rd   uint8
	Rs1  uint8
	Rs2  uint8
	Imm  int64
	Word uint32
}

func immI(word uint32) int64 {
	return int64(int32(word)) >> 20
}

func immS(word uint32) int64 {
	return (int64(int32(word))>>25)<<5 | int64((word>>7)&0x1f)
}

func immB(word uint32) int64 {
	return (int64(int32(word))>>31)<<12 |
		int64((word>>7)&1)<<11 |
		int64((word>>25)&0x3f)<<5 |
		int64((word>>8)&0xf)<<1
}

func immU(word uint32) int64 {
	return int64(int32(word & 0xfffff000))
}

func immJ(word uint32) int64 {
	return (int64(int32(word))>>31)<<20 |
		int64((word>>12)&0xff)<<12 |
		int64((word>>20)&1)<<11 |
		int64((word>>21)&0x3ff)<<1
}

var opTable32 = map[uint32]Op{
	0x00<<3 | 0: OpAdd, 0x20<<3 | 0: OpSub,
	0x00<<3 | 1: OpSll, 0x00<<3 | 2: OpSlt, 0x00<<3 | 3: OpSltu,
	0x00<<3 | 4: OpXor, 0x00<<3 | 5: OpSrl, 0x20<<3 | 5: OpSra,
	0x00<<3 | 6: OpOr, 0x00<<3 | 7: OpAnd,
	0x01<<3 | 0: OpMul, 0x01<<3 | 1: OpMulh, 0x01<<3 | 2: OpMulhsu, 0x01<<3 | 3: OpMulhu,
	0x01<<3 | 4: OpDiv, 0x01<<3 | 5: OpDivu, 0x01<<3 | 6: OpRem, 0x01<<3 | 7: OpRemu,
}

var opTableB = map[uint32]Op{
	0x20<<3 | 7: OpAndn, 0x20<<3 | 6: OpOrn, 0x20<<3 | 4: OpXnor,
	0x05<<3 | 4: OpMin, 0x05<<3 | 5: OpMinu, 0x05<<3 | 6: OpMax, 0x05<<3 | 7: OpMaxu,
	0x30<<3 | 1: OpRol, 0x30<<3 | 5: OpRor,
	0x10<<3 | 2: OpSh1add, 0x10<<3 | 4: OpSh2add, 0x10<<3 | 6: OpSh3add,
}

var opTableW = map[uint32]Op{
	0x00<<3 | 0: OpAddw, 0x20<<3 | 0: OpSubw,
	0x00<<3 | 1: OpSllw, 0x00<<3 | 5: OpSrlw, 0x20<<3 | 5: OpSraw,
	0x01<<3 | 0: OpMulw, 0x01<<3 | 4: OpDivw, 0x01<<3 | 5: OpDivuw,
	0x01<<3 | 6: OpRemw, 0x01<<3 | 7: OpRemuw,
}

var opTableAmoW = map[uint32]Op{
	0x02: OpLrW, 0x03: OpScW, 0x01: OpAmoSwapW,
	0x00: OpAmoAddW, 0x04: OpAmoXorW, 0x0c: OpAmoAndW, 0x08: OpAmoOrW,
}

var opTableAmoD = map[uint32]Op{
	0x02: OpLrD, 0x03: OpScD, 0x01: OpAmoSwapD,
	0x00: OpAmoAddD, 0x04: OpAmoXorD, 0x0c: OpAmoAndD, 0x08: OpAmoOrD,
}

// decode translates one 32-bit instruction word under the given ISA flags.
// ok is false for anything outside the supported set.
func decode(word uint32, isa uint8) (in Insn, ok bool) {
	in.Word = word
	in.Rd = uint8((word >> 7) & 0x1f)
	in.Rs1 = uint8((word >> 15) & 0x1f)
	in.Rs2 = uint8((word >> 20) & 0x1f)
	funct3 := (word >> 12) & 7
	funct7 := word >> 25

	switch word & 0x7f {
	case 0x37:
		in.Op, in.Imm = OpLui, immU(word)
	case 0x17:
		in.Op, in.Imm = OpAuipc, immU(word)
	case 0x6f:
		in.Op, in.Imm = OpJal, immJ(word)
	case 0x67:
		if funct3 != 0 {
			return in, false
		}
		in.Op, in.Imm = OpJalr, immI(word)
	case 0x63:
		in.Imm = immB(word)
		switch funct3 {
		case 0:
			in.Op = OpBeq
		case 1:
			in.Op = OpBne
		case 4:
			in.Op = OpBlt
		case 5:
			in.Op = OpBge
		case 6:
			in.Op = OpBltu
		case 7:
			in.Op = OpBgeu
		default:
			return in, false
		}
	case 0x03:
		in.Imm = immI(word)
		switch funct3 {
		case 0:
			in.Op = OpLb
		case 1:
			in.Op = OpLh
		case 2:
			in.Op = OpLw
		case 3:
			in.Op = OpLd
		case 4:
			in.Op = OpLbu
		case 5:
			in.Op = OpLhu
		case 6:
			in.Op = OpLwu
		default:
			return in, false
		}
	case 0x23:
		in.Imm = immS(word)
		switch funct3 {
		case 0:
			in.Op = OpSb
		case 1:
			in.Op = OpSh
		case 2:
			in.Op = OpSw
		case 3:
			in.Op = OpSd
		default:
			return in, false
		}
	case 0x13:
		in.Imm = immI(word)
		switch funct3 {
		case 0:
			in.Op = OpAddi
		case 2:
			in.Op = OpSlti
		case 3:
			in.Op = OpSltiu
		case 4:
			in.Op = OpXori
		case 6:
			in.Op = OpOri
		case 7:
			in.Op = OpAndi
		case 1:
			shtop := word >> 26 // funct6: RV64 shift immediates are 6 bits
			switch shtop {
			case 0x00:
				in.Op, in.Imm = OpSlli, int64((word>>20)&0x3f)
			case 0x18:
				if isa&ISAB == 0 {
					return in, false
				}
				switch in.Rs2 {
				case 0:
					in.Op = OpClz
				case 1:
					in.Op = OpCtz
				case 2:
					in.Op = OpCpop
				case 4:
					in.Op = OpSextB
				case 5:
					in.Op = OpSextH
				default:
					return in, false
				}
			default:
				return in, false
			}
		case 5:
			switch word >> 26 {
			case 0x00:
				in.Op, in.Imm = OpSrli, int64((word>>20)&0x3f)
			case 0x10:
				in.Op, in.Imm = OpSrai, int64((word>>20)&0x3f)
			case 0x18:
				if isa&ISAB == 0 {
					return in, false
				}
				in.Op, in.Imm = OpRori, int64((word>>20)&0x3f)
			default:
				return in, false
			}
		}
	case 0x1b:
		switch funct3 {
		case 0:
			in.Op, in.Imm = OpAddiw, immI(word)
		case 1:
			if funct7 != 0 {
				return in, false
			}
			in.Op, in.Imm = OpSlliw, int64((word>>20)&0x1f)
		case 5:
			switch funct7 {
			case 0x00:
				in.Op, in.Imm = OpSrliw, int64((word>>20)&0x1f)
			case 0x20:
				in.Op, in.Imm = OpSraiw, int64((word>>20)&0x1f)
			default:
				return in, false
			}
		default:
			return in, false
		}
	case 0x33:
		key := funct7<<3 | funct3
		if op, found := opTable32[key]; found {
			in.Op = op
			return in, true
		}
		if isa&ISAB != 0 {
			if op, found := opTableB[key]; found {
				in.Op = op
				return in, true
			}
		}
		return in, false
	case 0x3b:
		key := funct7<<3 | funct3
		if op, found := opTableW[key]; found {
			in.Op = op
			return in, true
		}
		if isa&ISAB != 0 {
			switch key {
			case 0x04<<3 | 0:
				in.Op = OpAddUw
				return in, true
			case 0x04<<3 | 4:
				if in.Rs2 != 0 {
					return in, false
				}
				in.Op = OpZextH
				return in, true
			}
		}
		return in, false
	case 0x2f:
		if isa&ISAA == 0 {
			return in, false
		}
		funct5 := word >> 27
		var w map[uint32]Op
		switch funct3 {
		case 2:
			w = opTableAmoW
		case 3:
			w = opTableAmoD
		default:
			return in, false
		}
		op, found := w[funct5]
		if !found {
			return in, false
		}
		in.Op = op
	case 0x0f:
		in.Op = OpFence
	case 0x73:
		if funct3 != 0 || in.Rd != 0 || in.Rs1 != 0 {
			return in, false
		}
		switch word >> 20 {
		case 0:
			in.Op = OpEcall
		case 1:
			in.Op = OpEbreak
		default:
			return in, false
		}
	default:
		return in, false
	}
	return in, true
}
