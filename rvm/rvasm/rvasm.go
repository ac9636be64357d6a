// Package rvasm encodes small RV64 programs and wraps them into minimal
// ELF images. It exists for test fixtures and tooling; it is not a general
// assembler.
package rvasm

import (
	"encoding/binary"
)

// Register aliases.
const (
	X0 = 0
	RA = 1
	SP = 2
	T0 = 5
	T1 = 6
	T2 = 7
	A0 = 10
	A1 = 11
	A2 = 12
	A3 = 13
	A7 = 17
)

func rType(opcode, rd, funct3, rs1, rs2, funct7 uint32) uint32 {
	return funct7<<25 | rs2<<20 | rs1<<15 | funct3<<12 | rd<<7 | opcode
}

func iType(opcode, rd, funct3, rs1 uint32, imm int32) uint32 {
	return uint32(imm)<<20 | rs1<<15 | funct3<<12 | rd<<7 | opcode
}

func sType(opcode, funct3, rs1, rs2 uint32, imm int32) uint32 {
	u := uint32(imm)
	return (u>>5)<<25 | rs2<<20 | rs1<<15 | funct3<<12 | (u&0x1f)<<7 | opcode
}

func bType(opcode, funct3, rs1, rs2 uint32, imm int32) uint32 {
	u := uint32(imm)
	return (u>>12&1)<<31 | (u>>5&0x3f)<<25 | rs2<<20 | rs1<<15 |
		funct3<<12 | (u>>1&0xf)<<8 | (u>>11&1)<<7 | opcode
}

func uType(opcode, rd uint32, imm int32) uint32 {
	return uint32(imm)&0xfffff000 | rd<<7 | opcode
}

func jType(opcode, rd uint32, imm int32) uint32 {
	u := uint32(imm)
	return (u>>20&1)<<31 | (u>>1&0x3ff)<<21 | (u>>11&1)<<20 |
		(u>>12&0xff)<<12 | rd<<7 | opcode
}

func Lui(rd uint32, imm int32) uint32   { return uType(0x37, rd, imm) }
func Auipc(rd uint32, imm int32) uint32 { return uType(0x17, rd, imm) }
func Jal(rd uint32, off int32) uint32   { return jType(0x6f, rd, off) }

func Jalr(rd, rs1 uint32, imm int32) uint32 { return iType(0x67, rd, 0, rs1, imm) }

func Beq(rs1, rs2 uint32, off int32) uint32  { return bType(0x63, 0, rs1, rs2, off) }
func Bne(rs1, rs2 uint32, off int32) uint32  { return bType(0x63, 1, rs1, rs2, off) }
func Blt(rs1, rs2 uint32, off int32) uint32  { return bType(0x63, 4, rs1, rs2, off) }
func Bge(rs1, rs2 uint32, off int32) uint32  { return bType(0x63, 5, rs1, rs2, off) }
func Bltu(rs1, rs2 uint32, off int32) uint32 { return bType(0x63, 6, rs1, rs2, off) }

func Lw(rd, rs1 uint32, imm int32) uint32 { return iType(0x03, rd, 2, rs1, imm) }
func Ld(rd, rs1 uint32, imm int32) uint32 { return iType(0x03, rd, 3, rs1, imm) }
func Sw(rs1, rs2 uint32, imm int32) uint32 {
	return sType(0x23, 2, rs1, rs2, imm)
}
func Sd(rs1, rs2 uint32, imm int32) uint32 {
	return sType(0x23, 3, rs1, rs2, imm)
}

func Addi(rd, rs1 uint32, imm int32) uint32  { return iType(0x13, rd, 0, rs1, imm) }
func Xori(rd, rs1 uint32, imm int32) uint32  { return iType(0x13, rd, 4, rs1, imm) }
func Ori(rd, rs1 uint32, imm int32) uint32   { return iType(0x13, rd, 6, rs1, imm) }
func Andi(rd, rs1 uint32, imm int32) uint32  { return iType(0x13, rd, 7, rs1, imm) }
func Slli(rd, rs1 uint32, shamt int32) uint32 {
	return iType(0x13, rd, 1, rs1, shamt&0x3f)
}
func Srli(rd, rs1 uint32, shamt int32) uint32 {
	return iType(0x13, rd, 5, rs1, shamt&0x3f)
}

func Add(rd, rs1, rs2 uint32) uint32 { return rType(0x33, rd, 0, rs1, rs2, 0x00) }
func Sub(rd, rs1, rs2 uint32) uint32 { return rType(0x33, rd, 0, rs1, rs2, 0x20) }
func Xor(rd, rs1, rs2 uint32) uint32 { return rType(0x33, rd, 4, rs1, rs2, 0x00) }
func Or(rd, rs1, rs2 uint32) uint32  { return rType(0x33, rd, 6, rs1, rs2, 0x00) }
func And(rd, rs1, rs2 uint32) uint32 { return rType(0x33, rd, 7, rs1, rs2, 0x00) }

func Mul(rd, rs1, rs2 uint32) uint32  { return rType(0x33, rd, 0, rs1, rs2, 0x01) }
func Div(rd, rs1, rs2 uint32) uint32  { return rType(0x33, rd, 4, rs1, rs2, 0x01) }
func Divu(rd, rs1, rs2 uint32) uint32 { return rType(0x33, rd, 5, rs1, rs2, 0x01) }
func Rem(rd, rs1, rs2 uint32) uint32  { return rType(0x33, rd, 6, rs1, rs2, 0x01) }
func Remu(rd, rs1, rs2 uint32) uint32 { return rType(0x33, rd, 7, rs1, rs2, 0x01) }

func Andn(rd, rs1, rs2 uint32) uint32 { return rType(0x33, rd, 7, rs1, rs2, 0x20) }
func Min(rd, rs1, rs2 uint32) uint32  { return rType(0x33, rd, 4, rs1, rs2, 0x05) }
func Maxu(rd, rs1, rs2 uint32) uint32 { return rType(0x33, rd, 7, rs1, rs2, 0x05) }

func AmoAddW(rd, rs1, rs2 uint32) uint32 {
	return rType(0x2f, rd, 2, rs1, rs2, 0x00<<2)
}
func AmoSwapW(rd, rs1, rs2 uint32) uint32 {
	return rType(0x2f, rd, 2, rs1, rs2, 0x01<<2)
}

func Ecall() uint32  { return 0x00000073 }
func Ebreak() uint32 { return 0x00100073 }
func Fence() uint32  { return 0x0000000f }

// Exit emits the three-instruction sequence that terminates the program
// with the given exit code.
func Exit(code int32) []uint32 {
	return []uint32{
		Addi(A0, X0, code),
		Addi(A7, X0, 93),
		Ecall(),
	}
}

// DefaultTextAddr is where BuildELF places the text segment.
const DefaultTextAddr = 0x10000

// BuildELF wraps the instruction words into a minimal 64-bit little-endian
// RISC-V executable with one PT_LOAD segment and the entry point at its
// start.
func BuildELF(words []uint32) []byte {
	return BuildELFAt(DefaultTextAddr, words)
}

func BuildELFAt(addr uint64, words []uint32) []byte {
	text := make([]byte, 0, len(words)*4)
	for _, w := range words {
		text = binary.LittleEndian.AppendUint32(text, w)
	}

	const (
		ehsize = 64
		phsize = 56
	)
	out := make([]byte, ehsize+phsize+len(text))

	// ELF header
	copy(out[0:4], []byte{0x7f, 'E', 'L', 'F'})
	out[4] = 2 // ELFCLASS64
	out[5] = 1 // ELFDATA2LSB
	out[6] = 1 // EV_CURRENT
	binary.LittleEndian.PutUint16(out[16:18], 2)    // ET_EXEC
	binary.LittleEndian.PutUint16(out[18:20], 0xf3) // EM_RISCV
	binary.LittleEndian.PutUint32(out[20:24], 1)    // version
	binary.LittleEndian.PutUint64(out[24:32], addr) // entry
	binary.LittleEndian.PutUint64(out[32:40], ehsize)
	binary.LittleEndian.PutUint16(out[52:54], ehsize)
	binary.LittleEndian.PutUint16(out[54:56], phsize)
	binary.LittleEndian.PutUint16(out[56:58], 1) // phnum

	// program header
	ph := out[ehsize : ehsize+phsize]
	binary.LittleEndian.PutUint32(ph[0:4], 1)   // PT_LOAD
	binary.LittleEndian.PutUint32(ph[4:8], 0x5) // R+X
	binary.LittleEndian.PutUint64(ph[8:16], ehsize+phsize)
	binary.LittleEndian.PutUint64(ph[16:24], addr)
	binary.LittleEndian.PutUint64(ph[24:32], addr)
	binary.LittleEndian.PutUint64(ph[32:40], uint64(len(text)))
	binary.LittleEndian.PutUint64(ph[40:48], uint64(len(text)))
	binary.LittleEndian.PutUint64(ph[48:56], 0x1000)

	copy(out[ehsize+phsize:], text)
	return out
}
