package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/colorfulnotion/nestvm/rvm"
	"github.com/colorfulnotion/nestvm/zkvm"
)

func TestExactlyOne(t *testing.T) {
	assert.True(t, exactlyOne(true, false, false))
	assert.True(t, exactlyOne(false, false, true))
	assert.False(t, exactlyOne(false, false, false))
	assert.False(t, exactlyOne(true, true, false))
	assert.False(t, exactlyOne(true, true, true))
}

func TestSelectProgram(t *testing.T) {
	program, desc, err := selectProgram("native", "")
	require.NoError(t, err)
	assert.NotNil(t, program)
	assert.Contains(t, desc, "native")

	program, desc, err = selectProgram("vm", "")
	require.NoError(t, err)
	assert.NotNil(t, program)
	assert.Contains(t, desc, "vm")

	_, _, err = selectProgram("emulated", "")
	assert.Error(t, err)

	_, _, err = selectProgram("vm", "/does/not/exist.elf")
	assert.Error(t, err)
}

func TestDefaultVMImageRuns(t *testing.T) {
	m, err := rvm.New(rvm.Config{})
	require.NoError(t, err)
	require.NoError(t, m.LoadProgram(defaultVMImage(), nil))
	code, err := m.Run()
	require.NoError(t, err)
	assert.Equal(t, int8(0), code)
}

func TestDefaultVMImageEstimates(t *testing.T) {
	program, _, err := selectProgram("vm", "")
	require.NoError(t, err)

	est, err := zkvm.EstimateGas(program, zkvm.WithChunkSize(500))
	require.NoError(t, err)
	assert.Equal(t, int8(0), est.Public.ReadInt8())
	assert.Greater(t, est.Gas, uint64(0))
	assert.Equal(t, int8(0), est.ExitCode)
}
