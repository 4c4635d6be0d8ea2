package form

import (
	"fmt"
	"io"

	"github.com/SummonTheCat/smn-archive/internal/errs"
	"github.com/SummonTheCat/smn-archive/internal/scalar"
)

// String is a localized text record: a base prefix plus a parallel array of
// language codes and their StrLrg translations.
type String struct {
	base    Base
	Langs   []scalar.LangCode
	Strings []scalar.StrLrg
}

// NewString constructs a STRING form. langs and strings must have equal
// length and fit in a u8 count.
func NewString(id scalar.FormID, name scalar.StrSml, langs []scalar.LangCode, strings []scalar.StrLrg) (*String, error) {
	if len(langs) != len(strings) {
		return nil, fmt.Errorf("%w: STRING lang count %d does not match string count %d", errs.ErrInvalidData, len(langs), len(strings))
	}
	if len(langs) > 255 {
		return nil, fmt.Errorf("%w: STRING lang count %d exceeds 255", errs.ErrInvalidData, len(langs))
	}
	return &String{
		base:    Base{ID: id, Type: scalar.FormTypeString, Name: name},
		Langs:   append([]scalar.LangCode(nil), langs...),
		Strings: append([]scalar.StrLrg(nil), strings...),
	}, nil
}

func (s *String) sealed()                      {}
func (s *String) FormID() scalar.FormID         { return s.base.ID }
func (s *String) FormType() scalar.FormType     { return s.base.Type }
func (s *String) FormName() scalar.StrSml       { return s.base.Name }

func (s *String) ByteCount() int {
	n := s.base.byteCount() + 1 // lang_count byte
	n += len(s.Langs)           // one byte per LangCode
	for _, str := range s.Strings {
		n += str.ByteCount()
	}
	return n
}

func (s *String) Encode() ([]byte, error) {
	dst := make([]byte, 0, s.ByteCount())
	dst, err := s.base.encode(dst)
	if err != nil {
		return nil, err
	}
	dst = append(dst, byte(len(s.Langs)))
	for _, l := range s.Langs {
		dst = append(dst, l.Byte())
	}
	for _, str := range s.Strings {
		dst, err = str.Encode(dst)
		if err != nil {
			return nil, err
		}
	}
	return dst, nil
}

func decodeString(r io.ReadSeeker) (*String, error) {
	base, err := decodeBase(r)
	if err != nil {
		return nil, err
	}
	var countBuf [1]byte
	if _, err := io.ReadFull(r, countBuf[:]); err != nil {
		return nil, err
	}
	n := int(countBuf[0])
	langs := make([]scalar.LangCode, n)
	for i := range langs {
		var b [1]byte
		if _, err := io.ReadFull(r, b[:]); err != nil {
			return nil, err
		}
		langs[i] = scalar.LangCodeFromByte(b[0])
	}
	strings := make([]scalar.StrLrg, n)
	for i := range strings {
		strings[i], err = scalar.DecodeStrLrg(r)
		if err != nil {
			return nil, err
		}
	}
	return &String{base: base, Langs: langs, Strings: strings}, nil
}

func decodeStringFromBytes(buf []byte) (Form, int, error) {
	r := newByteReader(buf)
	s, err := decodeString(r)
	if err != nil {
		return nil, 0, err
	}
	return s, r.pos, nil
}
