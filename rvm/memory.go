package rvm

import (
	"encoding/binary"
)

const PageSize = 4096

// Memory is a sparse, page-granular byte store bounded by a maximum address.
// Pages are allocated on first touch; untouched memory reads as zero.
type Memory struct {
	max   uint64
	pages map[uint64]*[PageSize]byte
}

func NewMemory(max uint64) *Memory {
	return &Memory{
		max:   max,
		pages: make(map[uint64]*[PageSize]byte),
	}
}

func (m *Memory) inBounds(addr uint64, size uint64) bool {
	end := addr + size
	if end < addr { // wrap
		return false
	}
	return end <= m.max
}

func (m *Memory) page(idx uint64) *[PageSize]byte {
	p, ok := m.pages[idx]
	if !ok {
		p = new([PageSize]byte)
		m.pages[idx] = p
	}
	return p
}

func oob(addr uint64) error {
	return &RunError{Kind: FaultOutOfBounds, Addr: addr}
}

// Read fills buf from addr.
func (m *Memory) Read(addr uint64, buf []byte) error {
	if !m.inBounds(addr, uint64(len(buf))) {
		return oob(addr)
	}
	for len(buf) > 0 {
		off := addr % PageSize
		n := copy(buf, m.page(addr/PageSize)[off:])
		addr += uint64(n)
		buf = buf[n:]
	}
	return nil
}

// Write copies data to addr.
func (m *Memory) Write(addr uint64, data []byte) error {
	if !m.inBounds(addr, uint64(len(data))) {
		return oob(addr)
	}
	for len(data) > 0 {
		off := addr % PageSize
		n := copy(m.page(addr/PageSize)[off:], data)
		addr += uint64(n)
		data = data[n:]
	}
	return nil
}

func (m *Memory) ReadUint8(addr uint64) (uint8, error) {
	var b [1]byte
	if err := m.Read(addr, b[:]); err != nil {
		return 0, err
	}
	return b[0], nil
}

func (m *Memory) ReadUint16(addr uint64) (uint16, error) {
	var b [2]byte
	if err := m.Read(addr, b[:]); err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint16(b[:]), nil
}

func (m *Memory) ReadUint32(addr uint64) (uint32, error) {
	var b [4]byte
	if err := m.Read(addr, b[:]); err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(b[:]), nil
}

func (m *Memory) ReadUint64(addr uint64) (uint64, error) {
	var b [8]byte
	if err := m.Read(addr, b[:]); err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint64(b[:]), nil
}

func (m *Memory) WriteUint8(addr uint64, v uint8) error {
	return m.Write(addr, []byte{v})
}

func (m *Memory) WriteUint16(addr uint64, v uint16) error {
	var b [2]byte
	binary.LittleEndian.PutUint16(b[:], v)
	return m.Write(addr, b[:])
}

func (m *Memory) WriteUint32(addr uint64, v uint32) error {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], v)
	return m.Write(addr, b[:])
}

func (m *Memory) WriteUint64(addr uint64, v uint64) error {
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], v)
	return m.Write(addr, b[:])
}
