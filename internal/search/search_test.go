package search

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/SummonTheCat/smn-archive/internal/block"
	"github.com/SummonTheCat/smn-archive/internal/scalar"
)

func buildIndex(t *testing.T, ids []scalar.FormID) []byte {
	t.Helper()
	entries := make([]block.IndexEntry, len(ids))
	for i, id := range ids {
		entries[i] = block.IndexEntry{FormID: id, FormType: scalar.FormTypeString, DataStartOffset: uint32(i * 10)}
	}
	var buf bytes.Buffer
	require.NoError(t, block.WriteIndex(&buf, entries))
	return buf.Bytes()
}

func TestFindLocatesEveryEntry(t *testing.T) {
	ids := []scalar.FormID{1, 4, 9, 16, 25, 36, 49}
	raw := buildIndex(t, ids)

	for i, id := range ids {
		entry, found, err := Find(bytes.NewReader(raw), 0, uint16(len(ids)), id)
		require.NoError(t, err)
		require.True(t, found)
		require.Equal(t, id, entry.FormID)
		require.Equal(t, uint32(i*10), entry.DataStartOffset)
	}
}

func TestFindMissReportsNotFound(t *testing.T) {
	ids := []scalar.FormID{2, 4, 6, 8}
	raw := buildIndex(t, ids)

	_, found, err := Find(bytes.NewReader(raw), 0, uint16(len(ids)), 5)
	require.NoError(t, err)
	require.False(t, found)
}

func TestFindOnEmptyIndex(t *testing.T) {
	_, found, err := Find(bytes.NewReader(nil), 0, 0, 1)
	require.NoError(t, err)
	require.False(t, found)
}

func TestFindWithPositionReturnsOrdinal(t *testing.T) {
	ids := []scalar.FormID{10, 20, 30, 40, 50}
	raw := buildIndex(t, ids)

	pos, entry, found, err := FindWithPosition(bytes.NewReader(raw), 0, uint16(len(ids)), 30)
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, uint16(2), pos)
	require.Equal(t, scalar.FormID(30), entry.FormID)
}

func TestFindInMemoryReturnsOrdinalOrInsertionPoint(t *testing.T) {
	entries := []block.IndexEntry{
		{FormID: 1}, {FormID: 3}, {FormID: 5}, {FormID: 7},
	}
	pos, found := FindInMemory(entries, 5)
	require.True(t, found)
	require.Equal(t, 2, pos)

	pos, found = FindInMemory(entries, 6)
	require.False(t, found)
	require.Equal(t, 3, pos)
}

func TestExistenceCacheExactMembership(t *testing.T) {
	c := NewExistenceCache([]scalar.FormID{1, 2, 3})
	require.True(t, c.Has(1))
	require.False(t, c.Has(4))

	c.Add(4)
	require.True(t, c.Has(4))

	c.Remove(2)
	require.False(t, c.Has(2))
}
