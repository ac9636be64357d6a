package rvm

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEstimateCycles(t *testing.T) {
	cases := []struct {
		op   Op
		want uint64
	}{
		{OpAddi, 1},
		{OpAdd, 1},
		{OpMul, 5},
		{OpMulh, 5},
		{OpDiv, 16},
		{OpRemuw, 16},
		{OpLw, 3},
		{OpSd, 3},
		{OpJal, 3},
		{OpBeq, 3},
		{OpAmoAddW, 4},
		{OpLrD, 4},
		{OpAndn, 1},
		{OpEcall, 1},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, EstimateCycles(&Insn{Op: tc.op}), opNames[tc.op])
	}
}

func TestFlatCycles(t *testing.T) {
	assert.Equal(t, uint64(1), FlatCycles(&Insn{Op: OpDiv}))
	assert.Equal(t, uint64(1), FlatCycles(&Insn{Op: OpAddi}))
}
