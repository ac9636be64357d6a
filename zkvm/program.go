package zkvm

import (
	"errors"

	"github.com/colorfulnotion/nestvm/common"
)

// Program binds a guest entry point with the program image it executes.
// The image is read once and shared by reference; its digest is the
// program's identity for key derivation and reporting.
type Program struct {
	guest  Guest
	image  []byte
	digest common.Hash
}

func NewProgram(guest Guest, image []byte) (*Program, error) {
	if guest == nil {
		return nil, errors.New("zkvm: nil guest")
	}
	if len(image) == 0 {
		return nil, errors.New("zkvm: empty program image")
	}
	return &Program{
		guest:  guest,
		image:  image,
		digest: common.Blake2Hash(image),
	}, nil
}

func (p *Program) Guest() Guest {
	return p.guest
}

func (p *Program) Image() []byte {
	return p.image
}

func (p *Program) Digest() common.Hash {
	return p.digest
}
