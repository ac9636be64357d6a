package rvm

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/colorfulnotion/nestvm/rvm/rvasm"
)

func validImage() []byte {
	return rvasm.BuildELF(rvasm.Exit(0))
}

func TestParseELFValid(t *testing.T) {
	prog, err := ParseELF(validImage(), DefaultMaxMemory)
	require.NoError(t, err)
	assert.Equal(t, uint64(rvasm.DefaultTextAddr), prog.Entry)
	require.Len(t, prog.Segments, 1)
	assert.Equal(t, uint64(rvasm.DefaultTextAddr), prog.Segments[0].Addr)
	assert.Equal(t, 12, len(prog.Segments[0].Data))
}

func TestParseELFMalformed(t *testing.T) {
	corrupt := func(mutate func([]byte)) []byte {
		img := validImage()
		mutate(img)
		return img
	}

	cases := []struct {
		name  string
		image []byte
	}{
		{"empty", nil},
		{"truncated", validImage()[:32]},
		{"bad magic", corrupt(func(b []byte) { b[0] = 0x7e })},
		{"32-bit class", corrupt(func(b []byte) { b[4] = 1 })},
		{"big-endian", corrupt(func(b []byte) { b[5] = 2 })},
		{"shared object", corrupt(func(b []byte) { binary.LittleEndian.PutUint16(b[16:18], 3) })},
		{"wrong machine", corrupt(func(b []byte) { binary.LittleEndian.PutUint16(b[18:20], 0x3e) })},
		{"zero entry", corrupt(func(b []byte) { binary.LittleEndian.PutUint64(b[24:32], 0) })},
		{"misaligned entry", corrupt(func(b []byte) { binary.LittleEndian.PutUint64(b[24:32], rvasm.DefaultTextAddr+2) })},
		{"no program headers", corrupt(func(b []byte) { binary.LittleEndian.PutUint16(b[56:58], 0) })},
		{"phoff past file end", corrupt(func(b []byte) { binary.LittleEndian.PutUint64(b[32:40], 1 << 20) })},
		{"phoff wraps address space", corrupt(func(b []byte) { binary.LittleEndian.PutUint64(b[32:40], ^uint64(0)-39) })},
		{"header table overruns file", corrupt(func(b []byte) { binary.LittleEndian.PutUint16(b[56:58], 0xffff) })},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ParseELF(tc.image, DefaultMaxMemory)
			var le *LoadError
			require.ErrorAs(t, err, &le, "want LoadError, got %v", err)
		})
	}
}

func TestParseELFMemoryBound(t *testing.T) {
	// the whole text segment must fit under maxMemory
	_, err := ParseELF(validImage(), rvasm.DefaultTextAddr+4)
	var le *LoadError
	require.ErrorAs(t, err, &le)

	// so must the entry point
	_, err = ParseELF(validImage(), rvasm.DefaultTextAddr)
	require.ErrorAs(t, err, &le)
}

func TestParseELFDoesNotAliasInput(t *testing.T) {
	img := validImage()
	prog, err := ParseELF(img, DefaultMaxMemory)
	require.NoError(t, err)

	first := prog.Segments[0].Data[0]
	img[len(img)-12] ^= 0xff
	assert.Equal(t, first, prog.Segments[0].Data[0])
}
