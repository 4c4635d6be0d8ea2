package form

import (
	"fmt"
	"io"

	"github.com/SummonTheCat/smn-archive/internal/errs"
	"github.com/SummonTheCat/smn-archive/internal/scalar"
)

// WorldPart is a chunk of placed entity instances belonging to a World.
type WorldPart struct {
	base     Base
	Entities []scalar.EntInstance
}

// NewWorldPart constructs a WORLDPART form. entities must fit in a u16 count.
func NewWorldPart(id scalar.FormID, name scalar.StrSml, entities []scalar.EntInstance) (*WorldPart, error) {
	if len(entities) > 0xFFFF {
		return nil, fmt.Errorf("%w: WORLDPART entity count %d exceeds u16 range", errs.ErrInvalidData, len(entities))
	}
	return &WorldPart{
		base:     Base{ID: id, Type: scalar.FormTypeWorldPart, Name: name},
		Entities: append([]scalar.EntInstance(nil), entities...),
	}, nil
}

func (p *WorldPart) sealed()                  {}
func (p *WorldPart) FormID() scalar.FormID     { return p.base.ID }
func (p *WorldPart) FormType() scalar.FormType { return p.base.Type }
func (p *WorldPart) FormName() scalar.StrSml   { return p.base.Name }

func (p *WorldPart) ByteCount() int {
	return p.base.byteCount() + 2 + len(p.Entities)*scalar.ByteCountEntInstance
}

func (p *WorldPart) Encode() ([]byte, error) {
	dst := make([]byte, 0, p.ByteCount())
	dst, err := p.base.encode(dst)
	if err != nil {
		return nil, err
	}
	dst = append(dst, byte(len(p.Entities)>>8), byte(len(p.Entities)))
	for _, e := range p.Entities {
		dst = e.Encode(dst)
	}
	return dst, nil
}

func decodeWorldPart(r io.ReadSeeker) (*WorldPart, error) {
	base, err := decodeBase(r)
	if err != nil {
		return nil, err
	}
	var countBuf [2]byte
	if _, err := io.ReadFull(r, countBuf[:]); err != nil {
		return nil, err
	}
	n := int(countBuf[0])<<8 | int(countBuf[1])
	entities := make([]scalar.EntInstance, n)
	for i := range entities {
		entities[i], err = scalar.DecodeEntInstance(r)
		if err != nil {
			return nil, err
		}
	}
	return &WorldPart{base: base, Entities: entities}, nil
}

func decodeWorldPartFromBytes(buf []byte) (Form, int, error) {
	r := newByteReader(buf)
	p, err := decodeWorldPart(r)
	if err != nil {
		return nil, 0, err
	}
	return p, r.pos, nil
}
