package rvm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/colorfulnotion/nestvm/rvm/rvasm"
)

func TestDecodeBase(t *testing.T) {
	in, ok := decode(rvasm.Addi(rvasm.A0, rvasm.A1, -12), ISAIMC)
	require.True(t, ok)
	assert.Equal(t, OpAddi, in.Op)
	assert.Equal(t, uint8(rvasm.A0), in.Rd)
	assert.Equal(t, uint8(rvasm.A1), in.Rs1)
	assert.Equal(t, int64(-12), in.Imm)

	in, ok = decode(rvasm.Beq(rvasm.T0, rvasm.T1, -8), ISAIMC)
	require.True(t, ok)
	assert.Equal(t, OpBeq, in.Op)
	assert.Equal(t, int64(-8), in.Imm)

	in, ok = decode(rvasm.Jal(rvasm.RA, 2048), ISAIMC)
	require.True(t, ok)
	assert.Equal(t, OpJal, in.Op)
	assert.Equal(t, int64(2048), in.Imm)

	_, ok = decode(0, ISAIMC)
	assert.False(t, ok, "the zero word never decodes")

	_, ok = decode(0xffffffff, ISAIMC)
	assert.False(t, ok)
}

func TestDecodeExtensionGating(t *testing.T) {
	bWord := rvasm.Andn(rvasm.A0, rvasm.A1, rvasm.A2)
	aWord := rvasm.AmoAddW(rvasm.A0, rvasm.A1, rvasm.A2)

	_, ok := decode(bWord, ISAIMC)
	assert.False(t, ok)
	in, ok := decode(bWord, ISAIMC|ISAB)
	require.True(t, ok)
	assert.Equal(t, OpAndn, in.Op)

	_, ok = decode(aWord, ISAIMC)
	assert.False(t, ok)
	in, ok = decode(aWord, ISAIMC|ISAA)
	require.True(t, ok)
	assert.Equal(t, OpAmoAddW, in.Op)

	// M is part of the base set here, never gated
	in, ok = decode(rvasm.Mul(rvasm.A0, rvasm.A1, rvasm.A2), ISAIMC)
	require.True(t, ok)
	assert.Equal(t, OpMul, in.Op)
}

func TestOpNames(t *testing.T) {
	for op := OpLui; op < opMax; op++ {
		assert.NotEmpty(t, opNames[op], "op %d has no name", op)
	}
}
