package scalar

import "io"

// SmlColor is an RGBA color, one byte per channel.
type SmlColor struct {
	R, G, B, A uint8
}

const ByteCountSmlColor = 4

func (c SmlColor) Encode(dst []byte) []byte {
	return append(dst, c.R, c.G, c.B, c.A)
}

func DecodeSmlColor(r io.Reader) (SmlColor, error) {
	var buf [ByteCountSmlColor]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return SmlColor{}, err
	}
	return SmlColor{R: buf[0], G: buf[1], B: buf[2], A: buf[3]}, nil
}
