package form

import (
	"fmt"
	"io"

	"github.com/SummonTheCat/smn-archive/internal/errs"
	"github.com/SummonTheCat/smn-archive/internal/scalar"
)

// RefGroup is a named group of cross-archive references.
type RefGroup struct {
	base       Base
	References []scalar.GlobalID
}

// NewRefGroup constructs a REFGROUP form. references must fit in a u8 count.
func NewRefGroup(id scalar.FormID, name scalar.StrSml, references []scalar.GlobalID) (*RefGroup, error) {
	if len(references) > 255 {
		return nil, fmt.Errorf("%w: REFGROUP references count %d exceeds 255", errs.ErrInvalidData, len(references))
	}
	return &RefGroup{
		base:       Base{ID: id, Type: scalar.FormTypeRefGroup, Name: name},
		References: append([]scalar.GlobalID(nil), references...),
	}, nil
}

func (g *RefGroup) sealed()                  {}
func (g *RefGroup) FormID() scalar.FormID     { return g.base.ID }
func (g *RefGroup) FormType() scalar.FormType { return g.base.Type }
func (g *RefGroup) FormName() scalar.StrSml   { return g.base.Name }

func (g *RefGroup) ByteCount() int {
	return g.base.byteCount() + 1 + len(g.References)*scalar.ByteCountGlobalID
}

func (g *RefGroup) Encode() ([]byte, error) {
	dst := make([]byte, 0, g.ByteCount())
	dst, err := g.base.encode(dst)
	if err != nil {
		return nil, err
	}
	dst = append(dst, byte(len(g.References)))
	for _, ref := range g.References {
		dst = ref.Encode(dst)
	}
	return dst, nil
}

func decodeRefGroup(r io.ReadSeeker) (*RefGroup, error) {
	base, err := decodeBase(r)
	if err != nil {
		return nil, err
	}
	var countBuf [1]byte
	if _, err := io.ReadFull(r, countBuf[:]); err != nil {
		return nil, err
	}
	n := int(countBuf[0])
	refs := make([]scalar.GlobalID, n)
	for i := range refs {
		refs[i], err = scalar.DecodeGlobalID(r)
		if err != nil {
			return nil, err
		}
	}
	return &RefGroup{base: base, References: refs}, nil
}

func decodeRefGroupFromBytes(buf []byte) (Form, int, error) {
	r := newByteReader(buf)
	g, err := decodeRefGroup(r)
	if err != nil {
		return nil, 0, err
	}
	return g, r.pos, nil
}
