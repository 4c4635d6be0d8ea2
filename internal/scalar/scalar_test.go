package scalar

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestArchiveIDRoundTrip(t *testing.T) {
	id := ArchiveID(7)
	buf := id.Encode(nil)
	require.Equal(t, []byte{7}, buf)

	got, err := DecodeArchiveID(bytes.NewReader(buf))
	require.NoError(t, err)
	require.Equal(t, id, got)
	require.Equal(t, "007", id.String())
}

func TestFormIDRoundTrip(t *testing.T) {
	id := FormID(5000)
	buf := id.Encode(nil)
	require.Len(t, buf, ByteCountFormID)

	got, err := DecodeFormID(bytes.NewReader(buf))
	require.NoError(t, err)
	require.Equal(t, id, got)
	require.Equal(t, id, FormIDFromBytes(buf))
	require.Equal(t, "05000", id.String())
}

func TestGlobalIDRoundTrip(t *testing.T) {
	g := GlobalID{Archive: 3, Form: 42}
	buf := g.Encode(nil)
	got, err := DecodeGlobalID(bytes.NewReader(buf))
	require.NoError(t, err)
	require.Equal(t, g, got)
}

func TestEntIDRoundTrip(t *testing.T) {
	e := EntID{Template: GlobalID{Archive: 1, Form: 2}, Instance: 9}
	buf := e.Encode(nil)
	got, err := DecodeEntID(bytes.NewReader(buf))
	require.NoError(t, err)
	require.Equal(t, e, got)
}

func TestVersionRoundTrip(t *testing.T) {
	v := Version{Major: 2, Minor: 5}
	buf := v.Encode(nil)
	got, err := DecodeVersion(bytes.NewReader(buf))
	require.NoError(t, err)
	require.Equal(t, v, got)
	require.Equal(t, "2.5", v.String())
}

func TestStrSmlRoundTrip(t *testing.T) {
	cases := []StrSml{"", "hello", "Bienvenue"}
	for _, s := range cases {
		buf, err := s.Encode(nil)
		require.NoError(t, err)
		got, err := DecodeStrSml(bytes.NewReader(buf))
		require.NoError(t, err)
		require.Equal(t, s, got)
	}
}

func TestStrSmlRejectsLoneSurrogate(t *testing.T) {
	// A Go string cannot carry a lone surrogate (string(rune(0xD800)) is
	// U+FFFD), so the surrogate unit is fed in through the wire encoding.
	_, err := DecodeStrSml(bytes.NewReader([]byte{1, 0xD8, 0x00}))
	require.Error(t, err)
}

func TestStrSmlRejectsOverflow(t *testing.T) {
	units := make([]uint16, MaxStrSmlUnits+1)
	for i := range units {
		units[i] = 'a'
	}
	s := StrSml(string(units16ToRunes(units)))
	_, err := s.Encode(nil)
	require.Error(t, err)
}

func units16ToRunes(units []uint16) []rune {
	rs := make([]rune, len(units))
	for i, u := range units {
		rs[i] = rune(u)
	}
	return rs
}

func TestStrLrgRoundTrip(t *testing.T) {
	s := StrLrg("a longer string with unicode: café")
	buf, err := s.Encode(nil)
	require.NoError(t, err)
	got, err := DecodeStrLrg(bytes.NewReader(buf))
	require.NoError(t, err)
	require.Equal(t, s, got)
}

func TestVec3IntRoundTrip(t *testing.T) {
	v := Vec3Int{X: -1, Y: 2, Z: 3}
	buf := v.Encode(nil)
	got, err := DecodeVec3Int(bytes.NewReader(buf))
	require.NoError(t, err)
	require.Equal(t, v, got)
}

func TestVec3FloatRoundTrip(t *testing.T) {
	v := Vec3Float{X: 1.5, Y: -2.25, Z: 0}
	buf := v.Encode(nil)
	got, err := DecodeVec3Float(bytes.NewReader(buf))
	require.NoError(t, err)
	require.Equal(t, v, got)
}

func TestFloat32BigAndLittleEndianDiffer(t *testing.T) {
	be := EncodeFloat32BE(nil, 1.0)
	le := EncodeFloat32LE(nil, 1.0)
	require.NotEqual(t, be, le)

	gotBE, err := DecodeFloat32BE(bytes.NewReader(be))
	require.NoError(t, err)
	require.Equal(t, float32(1.0), gotBE)

	gotLE, err := DecodeFloat32LE(bytes.NewReader(le))
	require.NoError(t, err)
	require.Equal(t, float32(1.0), gotLE)
}

func TestSmlColorRoundTrip(t *testing.T) {
	c := SmlColor{R: 10, G: 20, B: 30, A: 255}
	buf := c.Encode(nil)
	got, err := DecodeSmlColor(bytes.NewReader(buf))
	require.NoError(t, err)
	require.Equal(t, c, got)
}

func TestEntInstanceRoundTrip(t *testing.T) {
	e := EntInstance{
		Ent:      EntID{Template: GlobalID{Archive: 1, Form: 2}, Instance: 3},
		Position: Vec3Float{X: 1, Y: 2, Z: 3},
		Rotation: Vec3Float{X: 0, Y: 90, Z: 0},
		Scale:    1.0,
	}
	buf := e.Encode(nil)
	require.Len(t, buf, ByteCountEntInstance)
	got, err := DecodeEntInstance(bytes.NewReader(buf))
	require.NoError(t, err)
	require.Equal(t, e, got)
}

func TestFormTypeString(t *testing.T) {
	require.Equal(t, "STRING", FormTypeString.String())
	require.Equal(t, "WEATHER", FormTypeWeather.String())
	require.True(t, FormTypeWeather.Valid())
	require.False(t, FormType(99).Valid())
}

func TestLangCodeRoundTrip(t *testing.T) {
	require.Equal(t, "EN", LangEN.String())
	require.Equal(t, LangFR, LangCodeFromByte(LangFR.Byte()))
}
