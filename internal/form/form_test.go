package form

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/SummonTheCat/smn-archive/internal/scalar"
)

func roundTrip(t *testing.T, f Form) Form {
	t.Helper()
	enc, err := f.Encode()
	require.NoError(t, err)
	require.Len(t, enc, f.ByteCount())

	decoded, n, err := DecodeFromBytes(enc)
	require.NoError(t, err)
	require.Equal(t, len(enc), n)
	return decoded
}

func TestStringRoundTrip(t *testing.T) {
	s, err := NewString(5, "StrWelcome",
		[]scalar.LangCode{scalar.LangEN, scalar.LangFR},
		[]scalar.StrLrg{"Welcome", "Bienvenue"})
	require.NoError(t, err)

	got := roundTrip(t, s)
	gotStr, ok := got.(*String)
	require.True(t, ok)
	require.Equal(t, s.FormID(), gotStr.FormID())
	require.Equal(t, s.FormName(), gotStr.FormName())
	require.Equal(t, scalar.FormTypeString, gotStr.FormType())
	require.Equal(t, s.Langs, gotStr.Langs)
	require.Equal(t, s.Strings, gotStr.Strings)
}

func TestStringRejectsMismatchedLengths(t *testing.T) {
	_, err := NewString(1, "bad", []scalar.LangCode{scalar.LangEN}, nil)
	require.Error(t, err)
}

func TestWorldRoundTrip(t *testing.T) {
	w, err := NewWorld(10, "WorldMain",
		scalar.GlobalID{Archive: 1, Form: 2},
		"maps/main.map",
		[]scalar.GlobalID{{Archive: 1, Form: 11}, {Archive: 1, Form: 12}},
		[]scalar.Vec3Int{{X: 0, Y: 0, Z: 0}, {X: 100, Y: 0, Z: 100}})
	require.NoError(t, err)

	got := roundTrip(t, w)
	gotWorld, ok := got.(*World)
	require.True(t, ok)
	require.Equal(t, w.WorldNameID, gotWorld.WorldNameID)
	require.Equal(t, w.WorldMap, gotWorld.WorldMap)
	require.Equal(t, w.Parts, gotWorld.Parts)
	require.Equal(t, w.Anchors, gotWorld.Anchors)
}

func TestWorldRejectsMismatchedLengths(t *testing.T) {
	_, err := NewWorld(1, "bad", scalar.GlobalID{}, "m", []scalar.GlobalID{{}}, nil)
	require.Error(t, err)
}

func TestWorldPartRoundTrip(t *testing.T) {
	p, err := NewWorldPart(20, "PartA", []scalar.EntInstance{
		{
			Ent:      scalar.EntID{Template: scalar.GlobalID{Archive: 1, Form: 5}, Instance: 1},
			Position: scalar.Vec3Float{X: 1, Y: 2, Z: 3},
			Rotation: scalar.Vec3Float{X: 0, Y: 0, Z: 0},
			Scale:    1,
		},
	})
	require.NoError(t, err)

	got := roundTrip(t, p)
	gotPart, ok := got.(*WorldPart)
	require.True(t, ok)
	require.Equal(t, p.Entities, gotPart.Entities)
}

func TestRefGroupRoundTrip(t *testing.T) {
	g, err := NewRefGroup(30, "RefsA", []scalar.GlobalID{
		{Archive: 1, Form: 1}, {Archive: 2, Form: 2},
	})
	require.NoError(t, err)

	got := roundTrip(t, g)
	gotGroup, ok := got.(*RefGroup)
	require.True(t, ok)
	require.Equal(t, g.References, gotGroup.References)
}

func TestRefGroupRejectsOverflow(t *testing.T) {
	refs := make([]scalar.GlobalID, 256)
	_, err := NewRefGroup(1, "bad", refs)
	require.Error(t, err)
}

func TestWeatherRoundTrip(t *testing.T) {
	w := NewWeather(40, "WeatherDefault")
	for i := 0; i < periodCount; i++ {
		w.SkyColor[i] = scalar.SmlColor{R: uint8(i), G: 1, B: 2, A: 255}
		w.Intensity[i] = float32(i) * 0.5
		w.SkyboxTexture[i] = scalar.StrSml("sky.dds")
	}

	got := roundTrip(t, w)
	gotWeather, ok := got.(*Weather)
	require.True(t, ok)
	require.Equal(t, w.SkyColor, gotWeather.SkyColor)
	require.Equal(t, w.Intensity, gotWeather.Intensity)
	require.Equal(t, w.SkyboxTexture, gotWeather.SkyboxTexture)
}

func TestWeatherBareScalarsAreLittleEndianOnWire(t *testing.T) {
	w := NewWeather(41, "W")
	w.Intensity[0] = 1.0

	enc, err := w.Encode()
	require.NoError(t, err)

	beEnc := scalar.EncodeFloat32BE(nil, 1.0)
	leEnc := scalar.EncodeFloat32LE(nil, 1.0)
	require.NotContains(t, string(enc), string(beEnc))
	require.Contains(t, string(enc), string(leEnc))
}

func TestDecodeFromBytesRejectsUnknownTag(t *testing.T) {
	buf := []byte{0, 1, 99, 0}
	_, _, err := DecodeFromBytes(buf)
	require.Error(t, err)
}

func TestDecodeFromBytesRejectsShortBuffer(t *testing.T) {
	_, _, err := DecodeFromBytes([]byte{0})
	require.Error(t, err)
}
