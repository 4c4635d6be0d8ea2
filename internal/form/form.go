// Package form implements the five record variants stored in an archive's
// DATA block: STRING, WORLD, REFGROUP, WORLDPART, and WEATHER. Every variant
// shares a three-field prefix (FormID, FormType, form_name) and is reachable
// only through this package's typed constructors — Form is a closed sum
// type, not an open interface, so a decode can never return a value the
// mutator and reader layers don't already know how to handle.
package form

import (
	"fmt"
	"io"

	"github.com/SummonTheCat/smn-archive/internal/errs"
	"github.com/SummonTheCat/smn-archive/internal/scalar"
)

// Form is implemented by exactly the five record variants in this package.
// The unexported sealed method keeps the set closed.
type Form interface {
	FormID() scalar.FormID
	FormType() scalar.FormType
	FormName() scalar.StrSml
	ByteCount() int
	Encode() ([]byte, error)
	sealed()
}

// Base is the FormID/FormType/form_name prefix shared by every variant.
type Base struct {
	ID   scalar.FormID
	Type scalar.FormType
	Name scalar.StrSml
}

func (b Base) byteCount() int {
	return scalar.ByteCountFormID + scalar.ByteCountFormType + b.Name.ByteCount()
}

func (b Base) encode(dst []byte) ([]byte, error) {
	dst = b.ID.Encode(dst)
	dst = append(dst, b.Type.Byte())
	return b.Name.Encode(dst)
}

func decodeBase(r io.Reader) (Base, error) {
	id, err := scalar.DecodeFormID(r)
	if err != nil {
		return Base{}, err
	}
	var typeBuf [1]byte
	if _, err := io.ReadFull(r, typeBuf[:]); err != nil {
		return Base{}, err
	}
	name, err := scalar.DecodeStrSml(r)
	if err != nil {
		return Base{}, err
	}
	return Base{ID: id, Type: scalar.FormTypeFromByte(typeBuf[0]), Name: name}, nil
}

// peekHeader reads the FormID/FormType prefix from rs without consuming it,
// so the caller can dispatch to the right variant decoder. Mirrors the
// checkpoint-then-rewind pattern the format's mutation paths rely on
// throughout.
func peekHeader(rs io.ReadSeeker) (scalar.FormID, scalar.FormType, error) {
	checkpoint, err := rs.Seek(0, io.SeekCurrent)
	if err != nil {
		return 0, 0, err
	}
	id, err := scalar.DecodeFormID(rs)
	if err != nil {
		return 0, 0, err
	}
	var typeBuf [1]byte
	if _, err := io.ReadFull(rs, typeBuf[:]); err != nil {
		return 0, 0, err
	}
	if _, err := rs.Seek(checkpoint, io.SeekStart); err != nil {
		return 0, 0, err
	}
	return id, scalar.FormTypeFromByte(typeBuf[0]), nil
}

// Decode reads exactly one form from rs, dispatching on its FormType tag.
// An unrecognized tag is a fatal decode error (ErrCorrupt).
func Decode(rs io.ReadSeeker) (Form, error) {
	_, formType, err := peekHeader(rs)
	if err != nil {
		return nil, err
	}
	switch formType {
	case scalar.FormTypeString:
		return decodeString(rs)
	case scalar.FormTypeWorld:
		return decodeWorld(rs)
	case scalar.FormTypeRefGroup:
		return decodeRefGroup(rs)
	case scalar.FormTypeWorldPart:
		return decodeWorldPart(rs)
	case scalar.FormTypeWeather:
		return decodeWeather(rs)
	default:
		return nil, fmt.Errorf("%w: unknown form type tag %d", errs.ErrCorrupt, formType)
	}
}

// DecodeFromBytes decodes exactly one form from buf, returning the form and
// the number of bytes consumed from the front of buf.
func DecodeFromBytes(buf []byte) (Form, int, error) {
	if len(buf) < scalar.ByteCountFormID+scalar.ByteCountFormType {
		return nil, 0, fmt.Errorf("%w: buffer too short for form prefix", errs.ErrCorrupt)
	}
	formType := scalar.FormTypeFromByte(buf[scalar.ByteCountFormID])
	switch formType {
	case scalar.FormTypeString:
		return decodeStringFromBytes(buf)
	case scalar.FormTypeWorld:
		return decodeWorldFromBytes(buf)
	case scalar.FormTypeRefGroup:
		return decodeRefGroupFromBytes(buf)
	case scalar.FormTypeWorldPart:
		return decodeWorldPartFromBytes(buf)
	case scalar.FormTypeWeather:
		return decodeWeatherFromBytes(buf)
	default:
		return nil, 0, fmt.Errorf("%w: unknown form type tag %d", errs.ErrCorrupt, formType)
	}
}
