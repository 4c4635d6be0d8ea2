package scalar

import "io"

// EntInstance places one entity instance within a WORLDPART: its template
// identity, position, rotation, and uniform scale.
type EntInstance struct {
	Ent      EntID
	Position Vec3Float
	Rotation Vec3Float
	Scale    float32
}

// ByteCountEntInstance is the fixed on-disk width of an EntInstance.
const ByteCountEntInstance = ByteCountEntID + ByteCountVec3Float + ByteCountVec3Float + 4

func (e EntInstance) Encode(dst []byte) []byte {
	dst = e.Ent.Encode(dst)
	dst = e.Position.Encode(dst)
	dst = e.Rotation.Encode(dst)
	dst = EncodeFloat32BE(dst, e.Scale)
	return dst
}

func DecodeEntInstance(r io.Reader) (EntInstance, error) {
	ent, err := DecodeEntID(r)
	if err != nil {
		return EntInstance{}, err
	}
	pos, err := DecodeVec3Float(r)
	if err != nil {
		return EntInstance{}, err
	}
	rot, err := DecodeVec3Float(r)
	if err != nil {
		return EntInstance{}, err
	}
	scale, err := DecodeFloat32BE(r)
	if err != nil {
		return EntInstance{}, err
	}
	return EntInstance{Ent: ent, Position: pos, Rotation: rot, Scale: scale}, nil
}
