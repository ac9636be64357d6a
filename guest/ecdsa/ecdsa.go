// Package ecdsa is the "native" guest: a secp256k1 ECDSA verification run
// directly inside the outer environment, without the inner machine. It
// commits only an exit code.
package ecdsa

import (
	"encoding/hex"

	"github.com/ethereum/go-ethereum/crypto"

	"github.com/colorfulnotion/nestvm/zkvm"
)

// Fixed verification inputs: a 32-byte message hash, a 64-byte signature
// (r||s, recovery id stripped) and the uncompressed public key.
const (
	msgHex = "ce0677bb30baa8cf067c88db9811f4333d131bf8bcf12fe7065d211dce971008"
	sigHex = "90f27b8b488db00b00606796d2987f6a5f59ae62ea05effe84fef5b8b0e549984a691139ad57a3f0b906637673aa2f63d1f55cb1a69199d4009eea23ceaddc93"
	pubHex = "04e32df42865e97135acfb65f3bae71bdc86f4d49150ad6a440b6f15878109880a0a2b2667f7e725ceea70c673093bf67663e0312623c8e091b13cf2c0f11ef652"
)

// verifySteps is the fixed outer-step charge for one verification.
const verifySteps = 25000

// Image returns the canonical image bytes identifying this guest: its
// verification inputs, concatenated. The outer environment treats them the
// way it treats any other program image.
func Image() []byte {
	msg, _ := hex.DecodeString(msgHex)
	sig, _ := hex.DecodeString(sigHex)
	pub, _ := hex.DecodeString(pubHex)
	out := make([]byte, 0, len(msg)+len(sig)+len(pub))
	out = append(out, msg...)
	out = append(out, sig...)
	return append(out, pub...)
}

// Guest verifies the embedded signature and commits the result.
type Guest struct{}

func New() *Guest {
	return &Guest{}
}

func (g *Guest) Run(rt *zkvm.Runtime) error {
	image := Image()
	msg := image[:32]
	sig := image[32:96]
	pub := image[96:]

	rt.Tick(verifySteps)

	exitCode := int8(0)
	if !crypto.VerifySignature(pub, msg, sig) {
		exitCode = 1
	}
	rt.CommitInt8(exitCode)
	return nil
}
