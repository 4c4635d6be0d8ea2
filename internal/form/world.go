package form

import (
	"fmt"
	"io"

	"github.com/SummonTheCat/smn-archive/internal/errs"
	"github.com/SummonTheCat/smn-archive/internal/scalar"
)

// World describes a playable world: its display name reference, a map
// reference string, and a parallel array of sub-part references and their
// anchor positions.
type World struct {
	base       Base
	WorldNameID scalar.GlobalID
	WorldMap    scalar.StrSml
	Parts       []scalar.GlobalID
	Anchors     []scalar.Vec3Int
}

// NewWorld constructs a WORLD form. parts and anchors must have equal length.
func NewWorld(id scalar.FormID, name scalar.StrSml, worldNameID scalar.GlobalID, worldMap scalar.StrSml, parts []scalar.GlobalID, anchors []scalar.Vec3Int) (*World, error) {
	if len(parts) != len(anchors) {
		return nil, fmt.Errorf("%w: WORLD parts count %d does not match anchors count %d", errs.ErrInvalidData, len(parts), len(anchors))
	}
	if len(parts) > 0xFFFF {
		return nil, fmt.Errorf("%w: WORLD parts count %d exceeds u16 range", errs.ErrInvalidData, len(parts))
	}
	return &World{
		base:        Base{ID: id, Type: scalar.FormTypeWorld, Name: name},
		WorldNameID: worldNameID,
		WorldMap:    worldMap,
		Parts:       append([]scalar.GlobalID(nil), parts...),
		Anchors:     append([]scalar.Vec3Int(nil), anchors...),
	}, nil
}

func (w *World) sealed()                  {}
func (w *World) FormID() scalar.FormID     { return w.base.ID }
func (w *World) FormType() scalar.FormType { return w.base.Type }
func (w *World) FormName() scalar.StrSml   { return w.base.Name }

func (w *World) ByteCount() int {
	n := w.base.byteCount()
	n += scalar.ByteCountGlobalID
	n += w.WorldMap.ByteCount()
	n += 2 // parts_count u16
	n += len(w.Parts) * scalar.ByteCountGlobalID
	n += len(w.Anchors) * scalar.ByteCountVec3Int
	return n
}

func (w *World) Encode() ([]byte, error) {
	dst := make([]byte, 0, w.ByteCount())
	dst, err := w.base.encode(dst)
	if err != nil {
		return nil, err
	}
	dst = w.WorldNameID.Encode(dst)
	dst, err = w.WorldMap.Encode(dst)
	if err != nil {
		return nil, err
	}
	dst = append(dst, byte(len(w.Parts)>>8), byte(len(w.Parts)))
	for _, p := range w.Parts {
		dst = p.Encode(dst)
	}
	for _, a := range w.Anchors {
		dst = a.Encode(dst)
	}
	return dst, nil
}

func decodeWorld(r io.ReadSeeker) (*World, error) {
	base, err := decodeBase(r)
	if err != nil {
		return nil, err
	}
	worldNameID, err := scalar.DecodeGlobalID(r)
	if err != nil {
		return nil, err
	}
	worldMap, err := scalar.DecodeStrSml(r)
	if err != nil {
		return nil, err
	}
	var countBuf [2]byte
	if _, err := io.ReadFull(r, countBuf[:]); err != nil {
		return nil, err
	}
	n := int(countBuf[0])<<8 | int(countBuf[1])
	parts := make([]scalar.GlobalID, n)
	for i := range parts {
		parts[i], err = scalar.DecodeGlobalID(r)
		if err != nil {
			return nil, err
		}
	}
	anchors := make([]scalar.Vec3Int, n)
	for i := range anchors {
		anchors[i], err = scalar.DecodeVec3Int(r)
		if err != nil {
			return nil, err
		}
	}
	return &World{base: base, WorldNameID: worldNameID, WorldMap: worldMap, Parts: parts, Anchors: anchors}, nil
}

func decodeWorldFromBytes(buf []byte) (Form, int, error) {
	r := newByteReader(buf)
	w, err := decodeWorld(r)
	if err != nil {
		return nil, 0, err
	}
	return w, r.pos, nil
}
