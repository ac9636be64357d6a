package rvm

import (
	"encoding/binary"
)

// Program is the loadable representation of an ELF image: an entry point plus
// the segments to place in memory. It never aliases the input bytes.
type Program struct {
	Entry    uint64
	Segments []Segment
}

// Segment is one PT_LOAD region.
type Segment struct {
	Addr uint64
	Data []byte // file-backed bytes; the remaining MemSize-len(Data) is zero
	Mem  uint64 // total in-memory size, >= len(Data)
}

const (
	elfMagic     = 0x464c457f // "\x7fELF" little-endian
	elfClass64   = 2
	elfDataLE    = 1
	elfTypeExec  = 2
	elfMachRiscv = 0xf3
	ptLoad       = 1
	ehsize64     = 64
	phentsize64  = 56
)

// ParseELF decodes a 64-bit little-endian RISC-V executable. Anything
// malformed, and any segment or entry point outside maxMemory, yields a
// LoadError.
func ParseELF(code []byte, maxMemory uint64) (*Program, error) {
	if len(code) < ehsize64 {
		return nil, loadErrorf("image too short: %d bytes", len(code))
	}
	if binary.LittleEndian.Uint32(code[0:4]) != elfMagic {
		return nil, loadErrorf("bad ELF magic")
	}
	if code[4] != elfClass64 {
		return nil, loadErrorf("not a 64-bit image (class=%d)", code[4])
	}
	if code[5] != elfDataLE {
		return nil, loadErrorf("not little-endian (data=%d)", code[5])
	}
	if typ := binary.LittleEndian.Uint16(code[16:18]); typ != elfTypeExec {
		return nil, loadErrorf("not an executable (type=%d)", typ)
	}
	if mach := binary.LittleEndian.Uint16(code[18:20]); mach != elfMachRiscv {
		return nil, loadErrorf("not a RISC-V image (machine=%#x)", mach)
	}

	entry := binary.LittleEndian.Uint64(code[24:32])
	if entry == 0 || entry >= maxMemory || entry%4 != 0 {
		return nil, loadErrorf("invalid entry point %#x", entry)
	}

	phoff := binary.LittleEndian.Uint64(code[32:40])
	phnum := int(binary.LittleEndian.Uint16(code[56:58]))
	if phnum == 0 {
		return nil, loadErrorf("no program headers")
	}
	// the whole header table must sit inside the file; phnum is at most
	// 65535 so the product cannot wrap, and phoff is bounded before any
	// offset arithmetic on it
	if phoff > uint64(len(code)) || uint64(phnum)*phentsize64 > uint64(len(code))-phoff {
		return nil, loadErrorf("program header table out of file bounds")
	}

	prog := &Program{Entry: entry}
	for i := 0; i < phnum; i++ {
		base := phoff + uint64(i)*phentsize64
		ph := code[base : base+phentsize64]
		if binary.LittleEndian.Uint32(ph[0:4]) != ptLoad {
			continue
		}
		offset := binary.LittleEndian.Uint64(ph[8:16])
		vaddr := binary.LittleEndian.Uint64(ph[16:24])
		filesz := binary.LittleEndian.Uint64(ph[32:40])
		memsz := binary.LittleEndian.Uint64(ph[40:48])
		if filesz > memsz {
			return nil, loadErrorf("segment %d: file size %d exceeds memory size %d", i, filesz, memsz)
		}
		if offset+filesz < offset || offset+filesz > uint64(len(code)) {
			return nil, loadErrorf("segment %d out of file bounds", i)
		}
		if vaddr+memsz < vaddr || vaddr+memsz > maxMemory {
			return nil, loadErrorf("segment %d violates memory bound", i)
		}
		data := make([]byte, filesz)
		copy(data, code[offset:offset+filesz])
		prog.Segments = append(prog.Segments, Segment{Addr: vaddr, Data: data, Mem: memsz})
	}
	if len(prog.Segments) == 0 {
		return nil, loadErrorf("no loadable segments")
	}
	return prog, nil
}
