package zkvm

import (
	"fmt"

	"github.com/colorfulnotion/nestvm/common"
)

// PublicValues is a positional reader over a guest's committed public
// output record. Values must be read in exactly the order and width they
// were committed; reading the wrong width from the wrong position corrupts
// every subsequent value.
type PublicValues struct {
	data []byte
	off  int
}

func NewPublicValues(data []byte) *PublicValues {
	return &PublicValues{data: data}
}

func (pv *PublicValues) Bytes() []byte {
	return pv.data
}

// Remaining returns the number of unread bytes.
func (pv *PublicValues) Remaining() int {
	return len(pv.data) - pv.off
}

func (pv *PublicValues) take(n int) []byte {
	if pv.Remaining() < n {
		panic(fmt.Sprintf("public values: read of %d bytes with %d remaining", n, pv.Remaining()))
	}
	b := pv.data[pv.off : pv.off+n]
	pv.off += n
	return b
}

func (pv *PublicValues) ReadInt8() int8 {
	return int8(pv.take(1)[0])
}

func (pv *PublicValues) ReadUint64() uint64 {
	return common.BytesToUint64(pv.take(8))
}
