package ecdsa

import (
	"testing"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/colorfulnotion/nestvm/zkvm"
)

func TestImageLayout(t *testing.T) {
	image := Image()
	require.Len(t, image, 32+64+65)

	// the embedded vector is a valid signature
	assert.True(t, crypto.VerifySignature(image[96:], image[:32], image[32:96]))

	// and any corruption breaks it
	bad := append([]byte{}, image...)
	bad[40] ^= 0xff
	assert.False(t, crypto.VerifySignature(bad[96:], bad[:32], bad[32:96]))
}

func TestGuestCommitsExitCode(t *testing.T) {
	program, err := zkvm.NewProgram(New(), Image())
	require.NoError(t, err)

	est, err := zkvm.EstimateGas(program)
	require.NoError(t, err)

	require.Equal(t, 1, est.Public.Remaining(), "native mode commits only the exit code")
	assert.Equal(t, int8(0), est.Public.ReadInt8())
	assert.Equal(t, uint64(verifySteps+8), est.Steps)
}
