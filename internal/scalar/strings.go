package scalar

import (
	"encoding/binary"
	"fmt"
	"io"
	"unicode/utf16"

	"github.com/SummonTheCat/smn-archive/internal/errs"
)

// surrogateLow and surrogateHigh bound the UTF-16 surrogate range. Any
// surrogate code unit in a string, lone or part of a pair, is rejected, so
// characters outside the Basic Multilingual Plane cannot be stored.
const (
	surrogateLow  = 0xD800
	surrogateHigh = 0xDFFF
)

// StrSml is a short UTF-16BE string, length-prefixed by one byte. N ≤ 255
// UTF-16 code units.
type StrSml string

// MaxStrSmlUnits is the largest number of UTF-16 code units a StrSml can hold.
const MaxStrSmlUnits = 255

// ByteCount returns the encoded width of s, including its 1-byte prefix.
func (s StrSml) ByteCount() int {
	return 1 + 2*len(utf16.Encode([]rune(string(s))))
}

// Encode appends s's big-endian UTF-16 encoding, with its 1-byte unit-count
// prefix, to dst.
func (s StrSml) Encode(dst []byte) ([]byte, error) {
	units := utf16.Encode([]rune(string(s)))
	if len(units) > MaxStrSmlUnits {
		return nil, fmt.Errorf("%w: StrSml has %d code units, max %d", errs.ErrInvalidData, len(units), MaxStrSmlUnits)
	}
	if err := checkSurrogates(units); err != nil {
		return nil, err
	}
	dst = append(dst, byte(len(units)))
	for _, u := range units {
		var buf [2]byte
		binary.BigEndian.PutUint16(buf[:], u)
		dst = append(dst, buf[:]...)
	}
	return dst, nil
}

// DecodeStrSml reads a StrSml from r.
func DecodeStrSml(r io.Reader) (StrSml, error) {
	var lenBuf [1]byte
	if _, err := io.ReadFull(r, lenBuf[:]); err != nil {
		return "", err
	}
	n := int(lenBuf[0])
	units := make([]uint16, n)
	buf := make([]byte, 2*n)
	if n > 0 {
		if _, err := io.ReadFull(r, buf); err != nil {
			return "", err
		}
	}
	for i := 0; i < n; i++ {
		units[i] = binary.BigEndian.Uint16(buf[2*i : 2*i+2])
	}
	if err := checkSurrogates(units); err != nil {
		return "", err
	}
	return StrSml(utf16.Decode(units)), nil
}

// StrLrg is a long UTF-16BE string, length-prefixed by a big-endian u16.
// N ≤ 65535 UTF-16 code units.
type StrLrg string

// MaxStrLrgUnits is the largest number of UTF-16 code units a StrLrg can hold.
const MaxStrLrgUnits = 65535

func (s StrLrg) ByteCount() int {
	return 2 + 2*len(utf16.Encode([]rune(string(s))))
}

func (s StrLrg) Encode(dst []byte) ([]byte, error) {
	units := utf16.Encode([]rune(string(s)))
	if len(units) > MaxStrLrgUnits {
		return nil, fmt.Errorf("%w: StrLrg has %d code units, max %d", errs.ErrInvalidData, len(units), MaxStrLrgUnits)
	}
	if err := checkSurrogates(units); err != nil {
		return nil, err
	}
	var lenBuf [2]byte
	binary.BigEndian.PutUint16(lenBuf[:], uint16(len(units)))
	dst = append(dst, lenBuf[:]...)
	for _, u := range units {
		var buf [2]byte
		binary.BigEndian.PutUint16(buf[:], u)
		dst = append(dst, buf[:]...)
	}
	return dst, nil
}

func DecodeStrLrg(r io.Reader) (StrLrg, error) {
	var lenBuf [2]byte
	if _, err := io.ReadFull(r, lenBuf[:]); err != nil {
		return "", err
	}
	n := int(binary.BigEndian.Uint16(lenBuf[:]))
	units := make([]uint16, n)
	buf := make([]byte, 2*n)
	if n > 0 {
		if _, err := io.ReadFull(r, buf); err != nil {
			return "", err
		}
	}
	for i := 0; i < n; i++ {
		units[i] = binary.BigEndian.Uint16(buf[2*i : 2*i+2])
	}
	if err := checkSurrogates(units); err != nil {
		return "", err
	}
	return StrLrg(utf16.Decode(units)), nil
}

func checkSurrogates(units []uint16) error {
	for _, u := range units {
		if u >= surrogateLow && u <= surrogateHigh {
			return fmt.Errorf("%w: surrogate code unit 0x%04X", errs.ErrInvalidData, u)
		}
	}
	return nil
}
