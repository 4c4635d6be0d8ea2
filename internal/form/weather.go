package form

import (
	"io"

	"github.com/SummonTheCat/smn-archive/internal/scalar"
)

// TimeOfDay indexes the four daily periods every WEATHER field cycles
// through: day, dusk, night, dawn, in that fixed order.
type TimeOfDay int

const (
	Day TimeOfDay = iota
	Dusk
	Night
	Dawn
)

// periodCount is the number of TimeOfDay values every WEATHER field carries.
const periodCount = 4

// Weather holds twenty fields, each with one value per TimeOfDay. Colors,
// directions, the skybox texture set, and the two GlobalID references are
// big-endian like the rest of the format; the bare scalar fields
// (Intensity through EchoDelay) are little-endian, preserving the source
// format's quirk — see package scalar's EncodeFloat32LE/DecodeFloat32LE.
type Weather struct {
	base Base

	SkyColor     [periodCount]scalar.SmlColor
	AmbientColor [periodCount]scalar.SmlColor
	FogColor     [periodCount]scalar.SmlColor
	SunColor     [periodCount]scalar.SmlColor

	CloudDirection         [periodCount]scalar.Vec3Float
	WindDirection          [periodCount]scalar.Vec3Float
	PrecipitationDirection [periodCount]scalar.Vec3Float

	Intensity   [periodCount]float32 // little-endian on disk
	Temperature [periodCount]float32 // little-endian on disk
	Humidity    [periodCount]float32 // little-endian on disk
	Pressure    [periodCount]float32 // little-endian on disk
	WindSpeed   [periodCount]float32 // little-endian on disk
	FogDensity  [periodCount]float32 // little-endian on disk
	Visibility  [periodCount]float32 // little-endian on disk

	Reverb    [periodCount]float32 // little-endian on disk
	Dampening [periodCount]float32 // little-endian on disk
	EchoDelay [periodCount]float32 // little-endian on disk

	SkyboxTexture [periodCount]scalar.StrSml

	PrecipitationPreset [periodCount]scalar.GlobalID
	AmbientProfile      [periodCount]scalar.GlobalID
}

// NewWeather constructs a WEATHER form with all twenty per-period fields at
// their zero values; callers set the fields directly afterwards.
func NewWeather(id scalar.FormID, name scalar.StrSml) *Weather {
	return &Weather{base: Base{ID: id, Type: scalar.FormTypeWeather, Name: name}}
}

func (w *Weather) sealed()                  {}
func (w *Weather) FormID() scalar.FormID     { return w.base.ID }
func (w *Weather) FormType() scalar.FormType { return w.base.Type }
func (w *Weather) FormName() scalar.StrSml   { return w.base.Name }

func (w *Weather) ByteCount() int {
	n := w.base.byteCount()
	n += periodCount * scalar.ByteCountSmlColor * 4   // Sky/Ambient/Fog/Sun colors
	n += periodCount * scalar.ByteCountVec3Float * 3  // Cloud/Wind/Precipitation directions
	n += periodCount * 4 * 10                         // 10 bare f32 scalar fields
	for _, s := range w.SkyboxTexture {
		n += s.ByteCount()
	}
	n += periodCount * scalar.ByteCountGlobalID * 2 // precip preset + ambient profile
	return n
}

func (w *Weather) Encode() ([]byte, error) {
	dst := make([]byte, 0, w.ByteCount())
	dst, err := w.base.encode(dst)
	if err != nil {
		return nil, err
	}
	for _, c := range w.SkyColor {
		dst = c.Encode(dst)
	}
	for _, c := range w.AmbientColor {
		dst = c.Encode(dst)
	}
	for _, c := range w.FogColor {
		dst = c.Encode(dst)
	}
	for _, c := range w.SunColor {
		dst = c.Encode(dst)
	}
	for _, v := range w.CloudDirection {
		dst = v.Encode(dst)
	}
	for _, v := range w.WindDirection {
		dst = v.Encode(dst)
	}
	for _, v := range w.PrecipitationDirection {
		dst = v.Encode(dst)
	}
	for _, f := range w.Intensity {
		dst = scalar.EncodeFloat32LE(dst, f)
	}
	for _, f := range w.Temperature {
		dst = scalar.EncodeFloat32LE(dst, f)
	}
	for _, f := range w.Humidity {
		dst = scalar.EncodeFloat32LE(dst, f)
	}
	for _, f := range w.Pressure {
		dst = scalar.EncodeFloat32LE(dst, f)
	}
	for _, f := range w.WindSpeed {
		dst = scalar.EncodeFloat32LE(dst, f)
	}
	for _, f := range w.FogDensity {
		dst = scalar.EncodeFloat32LE(dst, f)
	}
	for _, f := range w.Visibility {
		dst = scalar.EncodeFloat32LE(dst, f)
	}
	for _, f := range w.Reverb {
		dst = scalar.EncodeFloat32LE(dst, f)
	}
	for _, f := range w.Dampening {
		dst = scalar.EncodeFloat32LE(dst, f)
	}
	for _, f := range w.EchoDelay {
		dst = scalar.EncodeFloat32LE(dst, f)
	}
	for _, s := range w.SkyboxTexture {
		dst, err = s.Encode(dst)
		if err != nil {
			return nil, err
		}
	}
	for _, g := range w.PrecipitationPreset {
		dst = g.Encode(dst)
	}
	for _, g := range w.AmbientProfile {
		dst = g.Encode(dst)
	}
	return dst, nil
}

func decodeWeather(r io.ReadSeeker) (*Weather, error) {
	base, err := decodeBase(r)
	if err != nil {
		return nil, err
	}
	w := &Weather{base: base}

	colorFields := []*[periodCount]scalar.SmlColor{&w.SkyColor, &w.AmbientColor, &w.FogColor, &w.SunColor}
	for _, field := range colorFields {
		for i := range field {
			if field[i], err = scalar.DecodeSmlColor(r); err != nil {
				return nil, err
			}
		}
	}

	vecFields := []*[periodCount]scalar.Vec3Float{&w.CloudDirection, &w.WindDirection, &w.PrecipitationDirection}
	for _, field := range vecFields {
		for i := range field {
			if field[i], err = scalar.DecodeVec3Float(r); err != nil {
				return nil, err
			}
		}
	}

	scalarFields := []*[periodCount]float32{
		&w.Intensity, &w.Temperature, &w.Humidity, &w.Pressure,
		&w.WindSpeed, &w.FogDensity, &w.Visibility,
		&w.Reverb, &w.Dampening, &w.EchoDelay,
	}
	for _, field := range scalarFields {
		for i := range field {
			if field[i], err = scalar.DecodeFloat32LE(r); err != nil {
				return nil, err
			}
		}
	}

	for i := range w.SkyboxTexture {
		if w.SkyboxTexture[i], err = scalar.DecodeStrSml(r); err != nil {
			return nil, err
		}
	}

	for i := range w.PrecipitationPreset {
		if w.PrecipitationPreset[i], err = scalar.DecodeGlobalID(r); err != nil {
			return nil, err
		}
	}
	for i := range w.AmbientProfile {
		if w.AmbientProfile[i], err = scalar.DecodeGlobalID(r); err != nil {
			return nil, err
		}
	}

	return w, nil
}

func decodeWeatherFromBytes(buf []byte) (Form, int, error) {
	r := newByteReader(buf)
	w, err := decodeWeather(r)
	if err != nil {
		return nil, 0, err
	}
	return w, r.pos, nil
}
