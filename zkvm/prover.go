package zkvm

import (
	"bytes"
	"fmt"
	"os"

	"github.com/colorfulnotion/nestvm/common"
	"github.com/colorfulnotion/nestvm/log"
)

// ProofSystem selects the proof framing produced by Prove.
type ProofSystem int

const (
	ProofCore ProofSystem = iota
	ProofPlonk
	ProofGroth16
)

func (s ProofSystem) String() string {
	switch s {
	case ProofCore:
		return "core"
	case ProofPlonk:
		return "plonk"
	case ProofGroth16:
		return "groth16"
	default:
		return "unknown"
	}
}

// ParseProofSystem maps a CLI string to a ProofSystem.
func ParseProofSystem(s string) (ProofSystem, error) {
	switch s {
	case "core":
		return ProofCore, nil
	case "plonk":
		return ProofPlonk, nil
	case "groth16":
		return ProofGroth16, nil
	default:
		return 0, fmt.Errorf("unknown proof system %q", s)
	}
}

// Proof frame sizes per system: a 4-byte verifying-key selector, a 32-byte
// commitment, zero padding to the system's fixed length. The groth16 frame
// matches the 260 bytes the on-chain verifier expects.
const (
	proofSelectorLen = 4
	proofCommitLen   = 32

	CoreProofLen    = proofSelectorLen + proofCommitLen
	PlonkProofLen   = 868
	Groth16ProofLen = 260
)

func proofLen(system ProofSystem) int {
	switch system {
	case ProofPlonk:
		return PlonkProofLen
	case ProofGroth16:
		return Groth16ProofLen
	default:
		return CoreProofLen
	}
}

// VerifyingKey identifies a program to the verifier.
type VerifyingKey struct {
	hash common.Hash
}

func (vk *VerifyingKey) Hash() common.Hash {
	return vk.hash
}

// Bytes32 returns the key as a 0x-prefixed 32-byte hex string.
func (vk *VerifyingKey) Bytes32() string {
	return vk.hash.Hex()
}

// ProvingKey pairs a program with its verifying key.
type ProvingKey struct {
	program *Program
	vk      VerifyingKey
}

func (pk *ProvingKey) VerifyingKey() *VerifyingKey {
	return &pk.vk
}

// ProofWithPublicValues is a completed proof plus the public output record
// it attests to.
type ProofWithPublicValues struct {
	System       ProofSystem
	Proof        []byte
	PublicValues *PublicValues
}

func (p *ProofWithPublicValues) Bytes() []byte {
	return p.Proof
}

// Prover is the client boundary to the proving backend.
type Prover interface {
	// Execute runs the guest through the fast execution path, without
	// proving, and returns its public outputs and the outer report.
	Execute(program *Program, stdin *Stdin) (*PublicValues, *ExecutionReport, error)

	Setup(program *Program) (*ProvingKey, error)
	Prove(pk *ProvingKey, stdin *Stdin, system ProofSystem) (*ProofWithPublicValues, error)
	Verify(proof *ProofWithPublicValues, vk *VerifyingKey) error
}

// LocalProver is the in-process backend: execution is real, proofs are
// commitment-bound development artifacts with the production framing. A
// remote proving service would implement the same Prover interface.
type LocalProver struct{}

// FromEnv returns the prover selected by NESTVM_PROVER. Only the local
// backend is wired in.
func FromEnv() (Prover, error) {
	backend := os.Getenv("NESTVM_PROVER")
	if backend != "" && backend != "local" {
		return nil, fmt.Errorf("unsupported prover backend %q", backend)
	}
	log.Debug(log.Prover, "using local prover backend")
	return &LocalProver{}, nil
}

func (p *LocalProver) run(program *Program, stdin *Stdin) (*MinimalExecutor, error) {
	exec := NewMinimalExecutor(program, DefaultChunkSize)
	exec.WithInput(stdin)
	for !exec.IsDone() {
		if _, err := exec.ExecuteChunk(); err != nil {
			return nil, err
		}
	}
	return exec, nil
}

func (p *LocalProver) Execute(program *Program, stdin *Stdin) (*PublicValues, *ExecutionReport, error) {
	exec, err := p.run(program, stdin)
	if err != nil {
		return nil, nil, err
	}
	report := &ExecutionReport{instructionCount: exec.GlobalClk()}
	return NewPublicValues(exec.PublicValuesStream()), report, nil
}

func (p *LocalProver) Setup(program *Program) (*ProvingKey, error) {
	if program == nil {
		return nil, fmt.Errorf("setup: nil program")
	}
	vkey := common.Blake2Hash(append([]byte("nestvm-vkey:"), program.Digest().Bytes()...))
	return &ProvingKey{
		program: program,
		vk:      VerifyingKey{hash: vkey},
	}, nil
}

func proofCommitment(vk *VerifyingKey, publicValues []byte, system ProofSystem) common.Hash {
	buf := make([]byte, 0, common.HashLength+len(publicValues)+1)
	buf = append(buf, vk.hash.Bytes()...)
	buf = append(buf, publicValues...)
	buf = append(buf, byte(system))
	return common.Blake2Hash(buf)
}

func (p *LocalProver) Prove(pk *ProvingKey, stdin *Stdin, system ProofSystem) (*ProofWithPublicValues, error) {
	exec, err := p.run(pk.program, stdin)
	if err != nil {
		return nil, fmt.Errorf("prove: %w", err)
	}
	if exec.ExitCode() != 0 {
		return nil, fmt.Errorf("prove: guest exited with code %d", exec.ExitCode())
	}

	public := exec.PublicValuesStream()
	commit := proofCommitment(&pk.vk, public, system)

	proof := make([]byte, proofLen(system))
	copy(proof[:proofSelectorLen], pk.vk.hash.Bytes()[:proofSelectorLen])
	copy(proof[proofSelectorLen:proofSelectorLen+proofCommitLen], commit.Bytes())

	log.Debug(log.Prover, "proof generated", "system", system.String(), "bytes", len(proof))
	return &ProofWithPublicValues{
		System:       system,
		Proof:        proof,
		PublicValues: NewPublicValues(public),
	}, nil
}

func (p *LocalProver) Verify(proof *ProofWithPublicValues, vk *VerifyingKey) error {
	if len(proof.Proof) != proofLen(proof.System) {
		return fmt.Errorf("verify: bad %s proof length %d", proof.System, len(proof.Proof))
	}
	if !bytes.Equal(proof.Proof[:proofSelectorLen], vk.hash.Bytes()[:proofSelectorLen]) {
		return fmt.Errorf("verify: proof selector does not match verifying key")
	}
	commit := proofCommitment(vk, proof.PublicValues.Bytes(), proof.System)
	if !bytes.Equal(proof.Proof[proofSelectorLen:proofSelectorLen+proofCommitLen], commit.Bytes()) {
		return fmt.Errorf("verify: proof commitment mismatch")
	}
	return nil
}
