package zkvm

import (
	"github.com/colorfulnotion/nestvm/common"
)

// Stdin is the ordered input stream handed to a guest run.
type Stdin struct {
	buffers [][]byte
}

func NewStdin() *Stdin {
	return &Stdin{}
}

// Write appends one input buffer.
func (s *Stdin) Write(data []byte) {
	buf := make([]byte, len(data))
	copy(buf, data)
	s.buffers = append(s.buffers, buf)
}

// WriteUint32 appends one little-endian 32-bit value as its own buffer.
func (s *Stdin) WriteUint32(v uint32) {
	s.Write(common.Uint32ToBytes(v))
}
