package zkvm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// The public output record is positional: consumers must read values in the
// exact order and width they were committed.
func TestPublicValuesPositionalReads(t *testing.T) {
	program := newTestProgram(t, GuestFunc(func(rt *Runtime) error {
		rt.CommitInt8(-3)
		rt.CommitUint64(994360)
		return nil
	}))
	exec := NewMinimalExecutor(program, 1000)
	drain(t, exec)

	pv := NewPublicValues(exec.PublicValuesStream())
	require.Equal(t, 9, pv.Remaining())
	assert.Equal(t, int8(-3), pv.ReadInt8())
	assert.Equal(t, uint64(994360), pv.ReadUint64())
	assert.Equal(t, 0, pv.Remaining())

	// reading the wide value first lands on the wrong bytes
	mis := NewPublicValues(exec.PublicValuesStream())
	assert.NotEqual(t, uint64(994360), mis.ReadUint64())
}

func TestPublicValuesUnderflowPanics(t *testing.T) {
	pv := NewPublicValues([]byte{1})
	pv.ReadInt8()
	assert.Panics(t, func() { pv.ReadInt8() })
	assert.Panics(t, func() { NewPublicValues(nil).ReadUint64() })
}

func TestStdinCopiesInput(t *testing.T) {
	buf := []byte{1, 2, 3}
	stdin := NewStdin()
	stdin.Write(buf)
	buf[0] = 99

	program := newTestProgram(t, GuestFunc(func(rt *Runtime) error {
		in := rt.Read()
		rt.CommitInt8(int8(in[0]))
		assert.Nil(t, rt.Read(), "stream exhausted")
		return nil
	}))
	exec := NewMinimalExecutor(program, 1000).WithInput(stdin)
	drain(t, exec)
	assert.Equal(t, int8(1), NewPublicValues(exec.PublicValuesStream()).ReadInt8())
}
