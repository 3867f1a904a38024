package sensor

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"
)

// PayloadSize is the exact datagram length: one big-endian IEEE-754
// single-precision float, no header.
const PayloadSize = 4

var ErrMalformedDatagram = errors.New("malformed datagram")

// Encode returns the wire form of v.
func Encode(v float32) [PayloadSize]byte {
	var b [PayloadSize]byte
	binary.BigEndian.PutUint32(b[:], math.Float32bits(v))
	return b
}

// Decode parses a datagram payload. Anything but exactly PayloadSize
// bytes is rejected.
func Decode(b []byte) (float32, error) {
	if len(b) != PayloadSize {
		return 0, fmt.Errorf("%w: got %d bytes, want %d", ErrMalformedDatagram, len(b), PayloadSize)
	}
	return math.Float32frombits(binary.BigEndian.Uint32(b)), nil
}
