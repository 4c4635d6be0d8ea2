package scalar

import (
	"encoding/binary"
	"io"
	"math"
)

// Vec3Int is a 3-component big-endian i32 vector, 12 bytes on disk.
type Vec3Int struct {
	X, Y, Z int32
}

const ByteCountVec3Int = 12

func (v Vec3Int) Encode(dst []byte) []byte {
	var buf [ByteCountVec3Int]byte
	binary.BigEndian.PutUint32(buf[0:4], uint32(v.X))
	binary.BigEndian.PutUint32(buf[4:8], uint32(v.Y))
	binary.BigEndian.PutUint32(buf[8:12], uint32(v.Z))
	return append(dst, buf[:]...)
}

func DecodeVec3Int(r io.Reader) (Vec3Int, error) {
	var buf [ByteCountVec3Int]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return Vec3Int{}, err
	}
	return Vec3Int{
		X: int32(binary.BigEndian.Uint32(buf[0:4])),
		Y: int32(binary.BigEndian.Uint32(buf[4:8])),
		Z: int32(binary.BigEndian.Uint32(buf[8:12])),
	}, nil
}

// Vec3Float is a 3-component big-endian f32 vector, 12 bytes on disk.
//
// Note: this type is always big-endian. The WEATHER form's bare scalar
// fields (intensities, speeds, densities, etc.) are little-endian, but that
// quirk does not apply to Vec3Float fields even inside WEATHER — only to
// the standalone f32 scalars. See package form's weather.go.
type Vec3Float struct {
	X, Y, Z float32
}

const ByteCountVec3Float = 12

func (v Vec3Float) Encode(dst []byte) []byte {
	var buf [ByteCountVec3Float]byte
	binary.BigEndian.PutUint32(buf[0:4], math.Float32bits(v.X))
	binary.BigEndian.PutUint32(buf[4:8], math.Float32bits(v.Y))
	binary.BigEndian.PutUint32(buf[8:12], math.Float32bits(v.Z))
	return append(dst, buf[:]...)
}

func DecodeVec3Float(r io.Reader) (Vec3Float, error) {
	var buf [ByteCountVec3Float]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return Vec3Float{}, err
	}
	return Vec3Float{
		X: math.Float32frombits(binary.BigEndian.Uint32(buf[0:4])),
		Y: math.Float32frombits(binary.BigEndian.Uint32(buf[4:8])),
		Z: math.Float32frombits(binary.BigEndian.Uint32(buf[8:12])),
	}, nil
}

// EncodeFloat32BE appends the big-endian encoding of f to dst.
func EncodeFloat32BE(dst []byte, f float32) []byte {
	var buf [4]byte
	binary.BigEndian.PutUint32(buf[:], math.Float32bits(f))
	return append(dst, buf[:]...)
}

// DecodeFloat32BE reads a big-endian f32 from r.
func DecodeFloat32BE(r io.Reader) (float32, error) {
	var buf [4]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return 0, err
	}
	return math.Float32frombits(binary.BigEndian.Uint32(buf[:])), nil
}

// EncodeFloat32LE appends the little-endian encoding of f to dst. Used only
// for WEATHER's bare scalar fields, which preserve the source format's
// endianness quirk.
func EncodeFloat32LE(dst []byte, f float32) []byte {
	var buf [4]byte
	binary.LittleEndian.PutUint32(buf[:], math.Float32bits(f))
	return append(dst, buf[:]...)
}

// DecodeFloat32LE reads a little-endian f32 from r.
func DecodeFloat32LE(r io.Reader) (float32, error) {
	var buf [4]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return 0, err
	}
	return math.Float32frombits(binary.LittleEndian.Uint32(buf[:])), nil
}
