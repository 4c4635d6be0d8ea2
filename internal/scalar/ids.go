// Package scalar implements fixed-width encode/decode for the archive's
// identifier, string, vector, and color types. Every value in this package
// has either a fixed byte width or a length-prefixed width; reading one
// always advances the stream by exactly its encoded width.
//
// Byte order is big-endian throughout this package, except for
// EncodeFloat32LE/DecodeFloat32LE. Those exist only for the one exception to
// big-endian in the whole format — the bare float32 scalar fields inside a
// WEATHER record — and package form decides where they apply.
package scalar

import (
	"encoding/binary"
	"fmt"
	"io"
)

// ArchiveID identifies the archive an entity or reference belongs to.
// Printed as a 3-digit zero-padded decimal.
type ArchiveID uint8

// ByteCountArchiveID is the fixed on-disk width of an ArchiveID.
const ByteCountArchiveID = 1

func (a ArchiveID) String() string { return fmt.Sprintf("%03d", uint8(a)) }

// Encode appends the big-endian encoding of a to dst and returns the result.
func (a ArchiveID) Encode(dst []byte) []byte { return append(dst, byte(a)) }

// DecodeArchiveID reads one byte from r.
func DecodeArchiveID(r io.Reader) (ArchiveID, error) {
	var buf [ByteCountArchiveID]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return 0, err
	}
	return ArchiveID(buf[0]), nil
}

// FormID uniquely identifies a form within one archive. Printed as a
// 5-digit zero-padded decimal.
type FormID uint16

// ByteCountFormID is the fixed on-disk width of a FormID.
const ByteCountFormID = 2

func (f FormID) String() string { return fmt.Sprintf("%05d", uint16(f)) }

// Encode appends the big-endian encoding of f to dst and returns the result.
func (f FormID) Encode(dst []byte) []byte {
	var buf [ByteCountFormID]byte
	binary.BigEndian.PutUint16(buf[:], uint16(f))
	return append(dst, buf[:]...)
}

// DecodeFormID reads a big-endian FormID from r.
func DecodeFormID(r io.Reader) (FormID, error) {
	var buf [ByteCountFormID]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return 0, err
	}
	return FormID(binary.BigEndian.Uint16(buf[:])), nil
}

// FormIDFromBytes decodes a FormID from an in-memory buffer of exactly
// ByteCountFormID bytes.
func FormIDFromBytes(buf []byte) FormID {
	return FormID(binary.BigEndian.Uint16(buf))
}

// GlobalID is a cross-archive reference: ArchiveID followed by FormID.
type GlobalID struct {
	Archive ArchiveID
	Form    FormID
}

// ByteCountGlobalID is the fixed on-disk width of a GlobalID.
const ByteCountGlobalID = ByteCountArchiveID + ByteCountFormID

func (g GlobalID) String() string { return g.Archive.String() + g.Form.String() }

func (g GlobalID) Encode(dst []byte) []byte {
	dst = g.Archive.Encode(dst)
	dst = g.Form.Encode(dst)
	return dst
}

func DecodeGlobalID(r io.Reader) (GlobalID, error) {
	archiveID, err := DecodeArchiveID(r)
	if err != nil {
		return GlobalID{}, err
	}
	formID, err := DecodeFormID(r)
	if err != nil {
		return GlobalID{}, err
	}
	return GlobalID{Archive: archiveID, Form: formID}, nil
}

// EntID disambiguates a specific instance of an entity template: a
// GlobalID (the template) followed by an instance FormID.
type EntID struct {
	Template GlobalID
	Instance FormID
}

// ByteCountEntID is the fixed on-disk width of an EntID.
const ByteCountEntID = ByteCountGlobalID + ByteCountFormID

func (e EntID) String() string { return e.Template.String() + e.Instance.String() }

func (e EntID) Encode(dst []byte) []byte {
	dst = e.Template.Encode(dst)
	dst = e.Instance.Encode(dst)
	return dst
}

func DecodeEntID(r io.Reader) (EntID, error) {
	template, err := DecodeGlobalID(r)
	if err != nil {
		return EntID{}, err
	}
	instance, err := DecodeFormID(r)
	if err != nil {
		return EntID{}, err
	}
	return EntID{Template: template, Instance: instance}, nil
}

// Version is a major.minor pair, each a single byte. Printed "M.m".
type Version struct {
	Major uint8
	Minor uint8
}

// ByteCountVersion is the fixed on-disk width of a Version.
const ByteCountVersion = 2

func (v Version) String() string { return fmt.Sprintf("%d.%d", v.Major, v.Minor) }

func (v Version) Encode(dst []byte) []byte { return append(dst, v.Major, v.Minor) }

func DecodeVersion(r io.Reader) (Version, error) {
	var buf [ByteCountVersion]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return Version{}, err
	}
	return Version{Major: buf[0], Minor: buf[1]}, nil
}
