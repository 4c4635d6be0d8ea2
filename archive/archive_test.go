package archive

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/SummonTheCat/smn-archive/internal/errs"
	"github.com/SummonTheCat/smn-archive/internal/form"
	"github.com/SummonTheCat/smn-archive/internal/scalar"
)

func newScratchArchive(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.smn")
	info := NewInfo(1, scalar.Version{Major: 1, Minor: 0}, "Test Archive")
	require.NoError(t, WriteArchiveSkeleton(path, info))
	return path
}

func mustString(t *testing.T, id scalar.FormID, name scalar.StrSml, text scalar.StrLrg) *form.String {
	t.Helper()
	f, err := form.NewString(id, name, []scalar.LangCode{scalar.LangEN}, []scalar.StrLrg{text})
	require.NoError(t, err)
	return f
}

func TestSkeletonRoundTrip(t *testing.T) {
	path := newScratchArchive(t)
	info, err := ReadArchiveInfo(path)
	require.NoError(t, err)
	require.Equal(t, scalar.ArchiveID(1), info.ArchiveID)
	require.Equal(t, uint16(0), info.FormCount)
	require.Equal(t, info.ByteStartData, info.ByteStartIndex)
}

func TestWriteFormEmptyThenReadBack(t *testing.T) {
	path := newScratchArchive(t)
	f := mustString(t, 5, "StrWelcome", "Welcome")
	require.NoError(t, WriteForm(path, f))

	got, err := ReadForm(path, 5)
	require.NoError(t, err)
	require.Equal(t, scalar.StrSml("StrWelcome"), got.FormName())

	exists, err := Exists(path, 5)
	require.NoError(t, err)
	require.True(t, exists)

	missing, err := Exists(path, 6)
	require.NoError(t, err)
	require.False(t, missing)
}

func TestInsertOrderingThreeWay(t *testing.T) {
	path := newScratchArchive(t)
	require.NoError(t, WriteForm(path, mustString(t, 10, "Mid", "mid")))
	require.NoError(t, WriteForm(path, mustString(t, 20, "End", "end"))) // insert-end
	require.NoError(t, WriteForm(path, mustString(t, 5, "Start", "start"))) // insert-start
	require.NoError(t, WriteForm(path, mustString(t, 15, "Between", "between"))) // insert-middle

	info, err := ReadArchiveInfo(path)
	require.NoError(t, err)
	require.Equal(t, uint16(4), info.FormCount)

	for id, name := range map[scalar.FormID]scalar.StrSml{5: "Start", 10: "Mid", 15: "Between", 20: "End"} {
		got, err := ReadForm(path, id)
		require.NoError(t, err)
		require.Equal(t, name, got.FormName())
	}
}

func TestOverwriteLastKeepsOffsetsStable(t *testing.T) {
	path := newScratchArchive(t)
	require.NoError(t, WriteForm(path, mustString(t, 1, "First", "a")))
	require.NoError(t, WriteForm(path, mustString(t, 2, "Second", "b")))

	overwrite, err := form.NewString(2, "Second", []scalar.LangCode{scalar.LangEN}, []scalar.StrLrg{"B-UPDATED"})
	require.NoError(t, err)
	require.NoError(t, WriteForm(path, overwrite))

	got, err := ReadForm(path, 2)
	require.NoError(t, err)
	s, ok := got.(*form.String)
	require.True(t, ok)
	require.Equal(t, []scalar.StrLrg{"B-UPDATED"}, s.Strings)

	first, err := ReadForm(path, 1)
	require.NoError(t, err)
	require.Equal(t, scalar.StrSml("First"), first.FormName())
}

func TestOverwriteRejectsTypeMismatch(t *testing.T) {
	path := newScratchArchive(t)
	require.NoError(t, WriteForm(path, mustString(t, 1, "First", "a")))

	world, err := form.NewWorld(1, "NotAString", scalar.GlobalID{}, "map", nil, nil)
	require.NoError(t, err)
	err = WriteForm(path, world)
	require.ErrorIs(t, err, errs.ErrInvalidData)
}

func TestDeleteOnlyFormEmptiesArchive(t *testing.T) {
	path := newScratchArchive(t)
	require.NoError(t, WriteForm(path, mustString(t, 1, "Only", "only")))
	require.NoError(t, DeleteForm(path, 1))

	info, err := ReadArchiveInfo(path)
	require.NoError(t, err)
	require.Equal(t, uint16(0), info.FormCount)

	exists, err := Exists(path, 1)
	require.NoError(t, err)
	require.False(t, exists)
}

func TestDeleteLastAndInnerShiftData(t *testing.T) {
	path := newScratchArchive(t)
	require.NoError(t, WriteForm(path, mustString(t, 1, "A", "aaaa")))
	require.NoError(t, WriteForm(path, mustString(t, 2, "B", "b")))
	require.NoError(t, WriteForm(path, mustString(t, 3, "C", "cccccc")))

	require.NoError(t, DeleteForm(path, 2)) // inner delete
	_, err := ReadForm(path, 2)
	require.ErrorIs(t, err, errs.ErrNotFound)

	remaining, err := ReadForms(path, []scalar.FormID{1, 3})
	require.NoError(t, err)
	require.Equal(t, scalar.StrSml("A"), remaining[0].FormName())
	require.Equal(t, scalar.StrSml("C"), remaining[1].FormName())

	require.NoError(t, DeleteForm(path, 3)) // last delete
	info, err := ReadArchiveInfo(path)
	require.NoError(t, err)
	require.Equal(t, uint16(1), info.FormCount)
}

func TestReinsertAfterEmptyingArchiveIsReadable(t *testing.T) {
	path := newScratchArchive(t)
	require.NoError(t, WriteForm(path, mustString(t, 5, "First", "first")))

	// Populates the exact bitset existence cache with {5}.
	_, err := ReadForm(path, 5)
	require.NoError(t, err)

	// Empties the archive; the bitset cache for path must not retain a
	// stale "nothing resident" snapshot past this point.
	require.NoError(t, DeleteForm(path, 5))

	// Re-inserts the same FormID via the empty-archive write path.
	require.NoError(t, WriteForm(path, mustString(t, 5, "Second", "second")))

	got, err := ReadForm(path, 5)
	require.NoError(t, err)
	require.Equal(t, scalar.StrSml("Second"), got.FormName())

	exists, err := Exists(path, 5)
	require.NoError(t, err)
	require.True(t, exists)
}

func TestDeleteMissingFormIsNotFound(t *testing.T) {
	path := newScratchArchive(t)
	require.NoError(t, WriteForm(path, mustString(t, 1, "A", "a")))
	err := DeleteForm(path, 99)
	require.ErrorIs(t, err, errs.ErrNotFound)
}

func TestReadFormsPreservesInputOrder(t *testing.T) {
	path := newScratchArchive(t)
	ids := []scalar.FormID{3, 1, 4, 1, 5}
	for _, id := range []scalar.FormID{1, 3, 4, 5} {
		require.NoError(t, WriteForm(path, mustString(t, id, scalar.StrSml(id.String()), "x")))
	}

	results, err := ReadForms(path, ids)
	require.NoError(t, err)
	require.Len(t, results, len(ids))
	for i, id := range ids {
		require.Equal(t, scalar.StrSml(id.String()), results[i].FormName())
	}
}

func TestReadLiteArchiveListsAllForms(t *testing.T) {
	path := newScratchArchive(t)
	require.NoError(t, WriteForm(path, mustString(t, 1, "A", "a")))
	require.NoError(t, WriteForm(path, mustString(t, 2, "B", "b")))

	lite, err := ReadLiteArchive(path)
	require.NoError(t, err)
	require.Len(t, lite.Items, 2)
	require.Equal(t, scalar.FormID(1), lite.Items[0].FormID)
	require.Equal(t, scalar.FormID(2), lite.Items[1].FormID)
}

func TestWriteArchiveInfoUpdatesDescription(t *testing.T) {
	path := newScratchArchive(t)
	require.NoError(t, WriteForm(path, mustString(t, 1, "A", "a")))

	newInfo := NewInfo(1, scalar.Version{Major: 2, Minor: 1}, "Updated description, much longer than before")
	require.NoError(t, WriteArchiveInfo(path, newInfo))

	info, err := ReadArchiveInfo(path)
	require.NoError(t, err)
	require.Equal(t, scalar.StrLrg("Updated description, much longer than before"), info.Description)

	got, err := ReadForm(path, 1)
	require.NoError(t, err)
	require.Equal(t, scalar.StrSml("A"), got.FormName())
}

func TestVerifyArchiveDetectsTamper(t *testing.T) {
	path := newScratchArchive(t)
	require.NoError(t, WriteForm(path, mustString(t, 1, "A", "a")))

	sum1, err := VerifyArchive(path)
	require.NoError(t, err)

	require.NoError(t, WriteForm(path, mustString(t, 2, "B", "b")))
	sum2, err := VerifyArchive(path)
	require.NoError(t, err)

	require.NotEqual(t, sum1.DataHash, sum2.DataHash)
	require.Equal(t, uint16(2), sum2.FormCount)
}

func TestReadArchiveInfoMissingFileIsNotFound(t *testing.T) {
	_, err := ReadArchiveInfo(filepath.Join(t.TempDir(), "missing.smn"))
	require.ErrorIs(t, err, errs.ErrNotFound)
}

func TestMain(m *testing.M) {
	os.Exit(m.Run())
}
