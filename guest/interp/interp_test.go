package interp

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/colorfulnotion/nestvm/rvm/rvasm"
	"github.com/colorfulnotion/nestvm/zkvm"
)

func buildImage(body ...uint32) []byte {
	return rvasm.BuildELF(append(body, rvasm.Exit(0)...))
}

func estimate(t *testing.T, g *Guest, image []byte) *zkvm.Estimate {
	t.Helper()
	program, err := zkvm.NewProgram(g, image)
	require.NoError(t, err)
	est, err := zkvm.EstimateGas(program)
	require.NoError(t, err)
	return est
}

// The guest commits exactly two values, in order: the inner exit code, then
// the inner cycle count.
func TestCommitOrder(t *testing.T) {
	image := buildImage(
		rvasm.Addi(rvasm.T0, rvasm.X0, 1),
		rvasm.Addi(rvasm.T1, rvasm.X0, 2),
	)
	est := estimate(t, New(image), image)

	require.Equal(t, 9, est.Public.Remaining())
	assert.Equal(t, int8(0), est.Public.ReadInt8())
	// 4 addi (1 cycle each) + ecall (1)
	assert.Equal(t, uint64(5), est.Public.ReadUint64())
}

func TestOuterStepAccounting(t *testing.T) {
	image := buildImage(
		rvasm.Addi(rvasm.T0, rvasm.X0, 1),
	)
	est := estimate(t, New(image), image)

	// 3 plain instructions + one syscall event (4 steps) + two commits (8 each)
	assert.Equal(t, uint64(3+4+16), est.Steps)
	assert.Equal(t, int8(0), est.ExitCode)
}

func TestInnerExitCodePropagates(t *testing.T) {
	image := rvasm.BuildELF(rvasm.Exit(17))
	est := estimate(t, New(image), image)

	assert.Equal(t, int8(17), est.Public.ReadInt8())
	assert.Equal(t, int8(0), est.ExitCode, "a non-zero inner exit is still a clean outer run")
}

func TestBadImageCommitsNothing(t *testing.T) {
	image := []byte("definitely not an elf")
	program, err := zkvm.NewProgram(New(image), image)
	require.NoError(t, err)

	_, err = zkvm.EstimateGas(program)
	require.Error(t, err)

	exec := zkvm.NewMinimalExecutor(program, 1000)
	for !exec.IsDone() {
		if _, err := exec.ExecuteChunk(); err != nil {
			break
		}
	}
	assert.Empty(t, exec.PublicValuesStream())
	assert.Equal(t, int8(1), exec.ExitCode())
}

func TestInnerFaultAbortsRun(t *testing.T) {
	image := rvasm.BuildELF([]uint32{rvasm.Ebreak()})
	program, err := zkvm.NewProgram(New(image), image)
	require.NoError(t, err)

	_, err = zkvm.EstimateGas(program)
	assert.Error(t, err)
}

// Both inner backends must produce identical public records and outer step
// totals for the same image.
func TestBackendEquivalence(t *testing.T) {
	image := buildImage(
		rvasm.Addi(rvasm.T0, rvasm.X0, 0),
		rvasm.Addi(rvasm.T1, rvasm.X0, 25),
		rvasm.Addi(rvasm.T2, rvasm.X0, 3),
		rvasm.Mul(rvasm.T2, rvasm.T0, rvasm.T2),
		rvasm.Addi(rvasm.T0, rvasm.T0, 1),
		rvasm.Blt(rvasm.T0, rvasm.T1, -8),
	)

	interp := estimate(t, New(image).WithBackend("interpreter"), image)
	compiled := estimate(t, New(image).WithBackend("compiler"), image)

	assert.Equal(t, interp.Public.Bytes(), compiled.Public.Bytes())
	assert.Equal(t, interp.Steps, compiled.Steps)
	assert.Equal(t, interp.Gas, compiled.Gas)
}
