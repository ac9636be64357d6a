package rvm

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryReadWrite(t *testing.T) {
	m := NewMemory(DefaultMaxMemory)

	require.NoError(t, m.WriteUint64(0x1000, 0xdeadbeefcafebabe))
	v, err := m.ReadUint64(0x1000)
	require.NoError(t, err)
	assert.Equal(t, uint64(0xdeadbeefcafebabe), v)

	// little-endian byte order
	b, err := m.ReadUint8(0x1000)
	require.NoError(t, err)
	assert.Equal(t, uint8(0xbe), b)

	// untouched memory reads as zero
	v, err = m.ReadUint64(1 << 40)
	require.NoError(t, err)
	assert.Equal(t, uint64(0), v)
}

func TestMemoryPageBoundary(t *testing.T) {
	m := NewMemory(DefaultMaxMemory)

	data := []byte{1, 2, 3, 4, 5, 6, 7, 8}
	addr := uint64(PageSize - 4)
	require.NoError(t, m.Write(addr, data))

	buf := make([]byte, len(data))
	require.NoError(t, m.Read(addr, buf))
	assert.Equal(t, data, buf)

	v, err := m.ReadUint32(uint64(PageSize))
	require.NoError(t, err)
	assert.Equal(t, uint32(0x08070605), v)
}

func TestMemoryBounds(t *testing.T) {
	m := NewMemory(1 << 20)

	require.NoError(t, m.WriteUint32(1<<20-4, 1))

	err := m.WriteUint32(1<<20-3, 1)
	var re *RunError
	require.ErrorAs(t, err, &re)
	assert.Equal(t, FaultOutOfBounds, re.Kind)
	assert.Equal(t, uint64(1<<20-3), re.Addr)

	err = m.WriteUint8(1<<20, 1)
	require.ErrorAs(t, err, &re)
}

func TestMemoryAddressWrap(t *testing.T) {
	m := NewMemory(DefaultMaxMemory)

	require.NoError(t, m.WriteUint8(math.MaxUint64-1, 0xff))

	// a multi-byte access wrapping past 2^64 is out of bounds
	err := m.WriteUint64(math.MaxUint64-3, 1)
	var re *RunError
	require.ErrorAs(t, err, &re)
	assert.Equal(t, FaultOutOfBounds, re.Kind)
}
