// Package fixture formats a completed proof plus public outputs into a JSON
// artifact consumable by the on-chain verifier tests.
package fixture

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ethereum/go-ethereum/common/hexutil"

	"github.com/colorfulnotion/nestvm/zkvm"
)

// Fixture is the on-chain verification test artifact.
type Fixture struct {
	A            uint32 `json:"a"`
	B            uint32 `json:"b"`
	N            uint32 `json:"n"`
	Vkey         string `json:"vkey"`
	PublicValues string `json:"publicValues"`
	Proof        string `json:"proof"`
}

// DefaultDir is where Write places fixtures relative to the working
// directory.
const DefaultDir = "contracts/src/fixtures"

// FromProof assembles a fixture from a proof and the CLI's numeric input.
// a carries the guest exit code and b the truncated cycle count, when the
// public output record carries one.
func FromProof(proof *zkvm.ProofWithPublicValues, vk *zkvm.VerifyingKey, n uint32) *Fixture {
	f := &Fixture{
		N:            n,
		Vkey:         vk.Bytes32(),
		PublicValues: hexutil.Encode(proof.PublicValues.Bytes()),
		Proof:        hexutil.Encode(proof.Bytes()),
	}
	pv := zkvm.NewPublicValues(proof.PublicValues.Bytes())
	if pv.Remaining() >= 1 {
		f.A = uint32(uint8(pv.ReadInt8()))
	}
	if pv.Remaining() >= 8 {
		f.B = uint32(pv.ReadUint64())
	}
	return f
}

// Write stores the fixture as <system>-fixture.json under dir, creating the
// directory as needed, and returns the file path.
func Write(dir string, system zkvm.ProofSystem, f *Fixture) (string, error) {
	if dir == "" {
		dir = DefaultDir
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("fixture: create %s: %w", dir, err)
	}
	data, err := json.MarshalIndent(f, "", "  ")
	if err != nil {
		return "", fmt.Errorf("fixture: marshal: %w", err)
	}
	path := filepath.Join(dir, strings.ToLower(system.String())+"-fixture.json")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("fixture: write %s: %w", path, err)
	}
	return path, nil
}
