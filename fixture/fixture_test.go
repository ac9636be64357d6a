package fixture

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/colorfulnotion/nestvm/zkvm"
)

func proveTestRun(t *testing.T, system zkvm.ProofSystem) (*zkvm.ProofWithPublicValues, *zkvm.VerifyingKey) {
	t.Helper()
	guest := zkvm.GuestFunc(func(rt *zkvm.Runtime) error {
		rt.Tick(100)
		rt.CommitInt8(0)
		rt.CommitUint64(4711)
		return nil
	})
	program, err := zkvm.NewProgram(guest, []byte("fixture test image"))
	require.NoError(t, err)

	prover := &zkvm.LocalProver{}
	pk, err := prover.Setup(program)
	require.NoError(t, err)
	proof, err := prover.Prove(pk, zkvm.NewStdin(), system)
	require.NoError(t, err)
	return proof, pk.VerifyingKey()
}

func TestFromProof(t *testing.T) {
	proof, vk := proveTestRun(t, zkvm.ProofGroth16)
	f := FromProof(proof, vk, 20)

	assert.Equal(t, uint32(0), f.A, "a carries the exit code")
	assert.Equal(t, uint32(4711), f.B, "b carries the truncated cycle count")
	assert.Equal(t, uint32(20), f.N)
	assert.Equal(t, vk.Bytes32(), f.Vkey)
	assert.True(t, strings.HasPrefix(f.PublicValues, "0x"))
	assert.True(t, strings.HasPrefix(f.Proof, "0x"))
}

func TestWriteNamingAndShape(t *testing.T) {
	dir := t.TempDir()

	for system, wantName := range map[zkvm.ProofSystem]string{
		zkvm.ProofGroth16: "groth16-fixture.json",
		zkvm.ProofPlonk:   "plonk-fixture.json",
	} {
		proof, vk := proveTestRun(t, system)
		path, err := Write(dir, system, FromProof(proof, vk, 7))
		require.NoError(t, err)
		assert.Equal(t, filepath.Join(dir, wantName), path)

		data, err := os.ReadFile(path)
		require.NoError(t, err)

		var decoded map[string]interface{}
		require.NoError(t, json.Unmarshal(data, &decoded))
		for _, key := range []string{"a", "b", "n", "vkey", "publicValues", "proof"} {
			assert.Contains(t, decoded, key)
		}
	}
}

func TestWriteCreatesDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "fixtures")
	proof, vk := proveTestRun(t, zkvm.ProofGroth16)

	path, err := Write(dir, zkvm.ProofGroth16, FromProof(proof, vk, 1))
	require.NoError(t, err)
	_, err = os.Stat(path)
	assert.NoError(t, err)
}
