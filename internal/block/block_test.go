package block

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/SummonTheCat/smn-archive/internal/errs"
	"github.com/SummonTheCat/smn-archive/internal/scalar"
)

func TestHeaderRoundTrip(t *testing.T) {
	h := Header{
		ArchiveID:   1,
		Version:     scalar.Version{Major: 1, Minor: 0},
		Description: "Test Archive",
		FormCount:   3,
	}
	var buf bytes.Buffer
	require.NoError(t, WriteHeader(&buf, h))
	require.Equal(t, h.ByteCount(), buf.Len())

	got, err := ReadHeader(&buf)
	require.NoError(t, err)
	require.Equal(t, h, got)
}

func TestReadHeaderTruncatedIsCorrupt(t *testing.T) {
	_, err := ReadHeader(bytes.NewReader([]byte{1}))
	require.ErrorIs(t, err, errs.ErrCorrupt)
}

func TestByteStartsRoundTrip(t *testing.T) {
	bs := ByteStarts{IndexOffset: 1024, DataOffset: 32}
	var buf bytes.Buffer
	require.NoError(t, WriteByteStarts(&buf, bs))
	require.Equal(t, ByteCountByteStarts, buf.Len())

	got, err := ReadByteStarts(&buf)
	require.NoError(t, err)
	require.Equal(t, bs, got)
}

func TestIndexRoundTripPreservesOrder(t *testing.T) {
	entries := []IndexEntry{
		{FormID: 1, FormType: scalar.FormTypeString, DataStartOffset: 0},
		{FormID: 5, FormType: scalar.FormTypeWorld, DataStartOffset: 40},
		{FormID: 9, FormType: scalar.FormTypeWeather, DataStartOffset: 120},
	}
	var buf bytes.Buffer
	require.NoError(t, WriteIndex(&buf, entries))
	require.Equal(t, len(entries)*IndexEntrySize, buf.Len())

	got, err := ReadIndex(&buf, uint16(len(entries)))
	require.NoError(t, err)
	require.Equal(t, entries, got)
}

func TestReadIndexTruncatedIsCorrupt(t *testing.T) {
	_, err := ReadIndex(bytes.NewReader([]byte{0, 1}), 1)
	require.ErrorIs(t, err, errs.ErrCorrupt)
}
