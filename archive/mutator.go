package archive

import (
	"fmt"
	"io"
	"os"

	"github.com/SummonTheCat/smn-archive/internal/block"
	"github.com/SummonTheCat/smn-archive/internal/bufpool"
	"github.com/SummonTheCat/smn-archive/internal/errs"
	"github.com/SummonTheCat/smn-archive/internal/form"
	"github.com/SummonTheCat/smn-archive/internal/logger"
	"github.com/SummonTheCat/smn-archive/internal/scalar"
	"github.com/SummonTheCat/smn-archive/internal/search"
)

// WriteArchiveSkeleton truncates/creates path and writes an empty archive:
// HEADER, then BYTESTART with both offsets equal to the position
// immediately after BYTESTART (empty DATA, empty INDEX).
func WriteArchiveSkeleton(path string, info Info) error {
	return withWriteLock(path, func() error {
		f, err := os.Create(path)
		if err != nil {
			return err
		}
		defer f.Close()

		info.FormCount = 0
		header := block.Header{ArchiveID: info.ArchiveID, Version: info.Version, Description: info.Description, FormCount: 0}
		headerLen := uint32(header.ByteCount())
		info.ByteStartData = headerLen + block.ByteCountByteStarts
		info.ByteStartIndex = info.ByteStartData

		if err := block.WriteHeader(f, header); err != nil {
			return err
		}
		return block.WriteByteStarts(f, block.ByteStarts{IndexOffset: info.ByteStartIndex, DataOffset: info.ByteStartData})
	})
}

// WriteArchiveInfo updates an existing archive's ArchiveID, Version, and
// Description in place. form_count is preserved from the file; DATA and
// INDEX are shifted by the header's size delta but otherwise untouched.
func WriteArchiveInfo(path string, newInfo Info) error {
	return withWriteLock(path, func() error {
		f, err := os.OpenFile(path, os.O_RDWR, 0o600)
		if err != nil {
			if os.IsNotExist(err) {
				return fmt.Errorf("%w: %s", errs.ErrNotFound, path)
			}
			return err
		}
		defer f.Close()

		oldHeader, err := block.ReadHeader(f)
		if err != nil {
			return err
		}
		oldByteStarts, err := block.ReadByteStarts(f)
		if err != nil {
			return err
		}

		oldHeaderLen := int64(block.Header{ArchiveID: oldHeader.ArchiveID, Version: oldHeader.Version, Description: oldHeader.Description, FormCount: oldHeader.FormCount}.ByteCount())
		newHeader := block.Header{ArchiveID: newInfo.ArchiveID, Version: newInfo.Version, Description: newInfo.Description, FormCount: oldHeader.FormCount}
		newHeaderLen := int64(newHeader.ByteCount())
		delta := newHeaderLen - oldHeaderLen

		newByteStartData := uint32(int64(oldByteStarts.DataOffset) + delta)
		newByteStartIndex := uint32(int64(oldByteStarts.IndexOffset) + delta)

		if _, err := f.Seek(int64(oldByteStarts.IndexOffset), io.SeekStart); err != nil {
			return err
		}
		entries, err := block.ReadIndex(f, oldHeader.FormCount)
		if err != nil {
			return err
		}

		scratch, cleanup, err := scratchFile(path)
		if err != nil {
			return err
		}
		defer cleanup()

		dataLen := int64(oldByteStarts.IndexOffset) - int64(oldByteStarts.DataOffset)
		if _, err := f.Seek(int64(oldByteStarts.DataOffset), io.SeekStart); err != nil {
			return err
		}
		if _, err := io.CopyN(scratch, f, dataLen); err != nil {
			return err
		}

		if _, err := f.Seek(0, io.SeekStart); err != nil {
			return err
		}
		if err := block.WriteHeader(f, newHeader); err != nil {
			return err
		}
		if err := block.WriteByteStarts(f, block.ByteStarts{IndexOffset: newByteStartIndex, DataOffset: newByteStartData}); err != nil {
			return err
		}

		if _, err := f.Seek(int64(newByteStartData), io.SeekStart); err != nil {
			return err
		}
		if _, err := scratch.Seek(0, io.SeekStart); err != nil {
			return err
		}
		if _, err := io.CopyN(f, scratch, dataLen); err != nil {
			return err
		}

		if _, err := f.Seek(int64(newByteStartIndex), io.SeekStart); err != nil {
			return err
		}
		if err := block.WriteIndex(f, entries); err != nil {
			return err
		}

		return f.Truncate(int64(newByteStartIndex) + int64(oldHeader.FormCount)*block.IndexEntrySize)
	})
}

// WriteForm inserts newForm if its FormID is not yet present, or overwrites
// the existing record if it is. It classifies the target position against
// the current INDEX (empty, before-first, after-last, between two
// neighbors, or an exact match) and dispatches to the matching insert or
// overwrite path so DATA stays contiguous and INDEX stays sorted.
func WriteForm(path string, newForm form.Form) error {
	return withWriteLock(path, func() error {
		f, err := os.OpenFile(path, os.O_RDWR, 0o600)
		if err != nil {
			if os.IsNotExist(err) {
				return fmt.Errorf("%w: %s", errs.ErrNotFound, path)
			}
			return err
		}
		defer f.Close()

		info, err := readInfo(f)
		if err != nil {
			return err
		}

		if info.FormCount == 0 {
			logger.Debug("write_form path=%s id=%s: classified empty", path, newForm.FormID())
			if err := writeFormEmpty(path, f, info, newForm); err != nil {
				return err
			}
			existenceCacheAdd(path, newForm.FormID())
			bitsetCacheAdd(path, newForm.FormID())
			return nil
		}

		if _, err := f.Seek(int64(info.ByteStartIndex), io.SeekStart); err != nil {
			return err
		}
		entries, err := block.ReadIndex(f, info.FormCount)
		if err != nil {
			return err
		}

		pos, found := search.FindInMemory(entries, newForm.FormID())
		if found {
			existing := entries[pos]
			if existing.FormType != newForm.FormType() {
				return fmt.Errorf("%w: form %s is %s, cannot overwrite with %s", errs.ErrInvalidData, newForm.FormID(), existing.FormType, newForm.FormType())
			}
			if pos == len(entries)-1 {
				logger.Debug("write_form path=%s id=%s: classified overwrite-last", path, newForm.FormID())
				return writeFormOverwriteLast(path, f, info, entries, pos, newForm)
			}
			logger.Debug("write_form path=%s id=%s: classified overwrite-inner", path, newForm.FormID())
			return writeFormOverwriteInner(path, f, info, entries, pos, newForm)
		}

		switch {
		case pos == 0:
			logger.Debug("write_form path=%s id=%s: classified insert-start", path, newForm.FormID())
			if err := writeFormInsertStart(path, f, info, entries, newForm); err != nil {
				return err
			}
		case pos == len(entries):
			logger.Debug("write_form path=%s id=%s: classified insert-end", path, newForm.FormID())
			if err := writeFormInsertEnd(path, f, info, entries, newForm); err != nil {
				return err
			}
		default:
			logger.Debug("write_form path=%s id=%s: classified insert-middle", path, newForm.FormID())
			if err := writeFormInsertMiddle(path, f, info, entries, pos, newForm); err != nil {
				return err
			}
		}
		existenceCacheAdd(path, newForm.FormID())
		bitsetCacheAdd(path, newForm.FormID())
		return nil
	})
}

func readInfo(f *os.File) (Info, error) {
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return Info{}, err
	}
	header, err := block.ReadHeader(f)
	if err != nil {
		return Info{}, err
	}
	byteStarts, err := block.ReadByteStarts(f)
	if err != nil {
		return Info{}, err
	}
	return Info{
		ArchiveID:      header.ArchiveID,
		Version:        header.Version,
		Description:    header.Description,
		FormCount:      header.FormCount,
		ByteStartIndex: byteStarts.IndexOffset,
		ByteStartData:  byteStarts.DataOffset,
	}, nil
}

func rewriteHeaderByteStart(f *os.File, info Info) error {
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return err
	}
	header := block.Header{ArchiveID: info.ArchiveID, Version: info.Version, Description: info.Description, FormCount: info.FormCount}
	if err := block.WriteHeader(f, header); err != nil {
		return err
	}
	return block.WriteByteStarts(f, block.ByteStarts{IndexOffset: info.ByteStartIndex, DataOffset: info.ByteStartData})
}

func writeFormEmpty(path string, f *os.File, info Info, newForm form.Form) error {
	encoded, err := newForm.Encode()
	if err != nil {
		return err
	}
	off := info.ByteStartData
	info.FormCount = 1
	info.ByteStartIndex = off + uint32(len(encoded))

	if err := rewriteHeaderByteStart(f, info); err != nil {
		return err
	}
	if _, err := f.Seek(int64(off), io.SeekStart); err != nil {
		return err
	}
	if _, err := f.Write(encoded); err != nil {
		return err
	}
	if _, err := f.Seek(int64(info.ByteStartIndex), io.SeekStart); err != nil {
		return err
	}
	entry := block.IndexEntry{FormID: newForm.FormID(), FormType: newForm.FormType(), DataStartOffset: 0}
	if err := block.WriteIndex(f, []block.IndexEntry{entry}); err != nil {
		return err
	}
	return f.Truncate(int64(info.ByteStartIndex) + block.IndexEntrySize)
}

func writeFormInsertStart(path string, f *os.File, info Info, entries []block.IndexEntry, newForm form.Form) error {
	encoded, err := newForm.Encode()
	if err != nil {
		return err
	}
	l := uint32(len(encoded))

	scratch, cleanup, err := scratchFile(path)
	if err != nil {
		return err
	}
	defer cleanup()

	dataLen := int64(info.ByteStartIndex) - int64(info.ByteStartData)
	if _, err := f.Seek(int64(info.ByteStartData), io.SeekStart); err != nil {
		return err
	}
	if _, err := io.CopyN(scratch, f, dataLen); err != nil {
		return err
	}

	shifted := make([]block.IndexEntry, len(entries))
	for i, e := range entries {
		e.DataStartOffset += l
		shifted[i] = e
	}
	newEntries := append([]block.IndexEntry{{FormID: newForm.FormID(), FormType: newForm.FormType(), DataStartOffset: 0}}, shifted...)

	info.FormCount++
	info.ByteStartIndex += l
	if err := rewriteHeaderByteStart(f, info); err != nil {
		return err
	}

	if _, err := f.Seek(int64(info.ByteStartData), io.SeekStart); err != nil {
		return err
	}
	if _, err := f.Write(encoded); err != nil {
		return err
	}
	if _, err := scratch.Seek(0, io.SeekStart); err != nil {
		return err
	}
	if _, err := io.CopyN(f, scratch, dataLen); err != nil {
		return err
	}

	if _, err := f.Seek(int64(info.ByteStartIndex), io.SeekStart); err != nil {
		return err
	}
	if err := block.WriteIndex(f, newEntries); err != nil {
		return err
	}
	return f.Truncate(int64(info.ByteStartIndex) + int64(info.FormCount)*block.IndexEntrySize)
}

func writeFormInsertEnd(path string, f *os.File, info Info, entries []block.IndexEntry, newForm form.Form) error {
	encoded, err := newForm.Encode()
	if err != nil {
		return err
	}
	l := uint32(len(encoded))

	last := entries[len(entries)-1]
	lastLen := (info.ByteStartIndex - info.ByteStartData) - last.DataStartOffset
	newOffset := last.DataStartOffset + lastLen

	newEntries := append(append([]block.IndexEntry(nil), entries...), block.IndexEntry{
		FormID: newForm.FormID(), FormType: newForm.FormType(), DataStartOffset: newOffset,
	})

	oldByteStartIndex := info.ByteStartIndex
	info.FormCount++
	info.ByteStartIndex += l

	if err := rewriteHeaderByteStart(f, info); err != nil {
		return err
	}
	if _, err := f.Seek(int64(oldByteStartIndex), io.SeekStart); err != nil {
		return err
	}
	if _, err := f.Write(encoded); err != nil {
		return err
	}
	if _, err := f.Seek(int64(info.ByteStartIndex), io.SeekStart); err != nil {
		return err
	}
	if err := block.WriteIndex(f, newEntries); err != nil {
		return err
	}
	return f.Truncate(int64(info.ByteStartIndex) + int64(info.FormCount)*block.IndexEntrySize)
}

func writeFormInsertMiddle(path string, f *os.File, info Info, entries []block.IndexEntry, pos int, newForm form.Form) error {
	encoded, err := newForm.Encode()
	if err != nil {
		return err
	}
	l := uint32(len(encoded))
	offK := entries[pos].DataStartOffset

	scratch, cleanup, err := scratchFile(path)
	if err != nil {
		return err
	}
	defer cleanup()

	tailLen := int64(info.ByteStartIndex-info.ByteStartData) - int64(offK)
	if _, err := f.Seek(int64(info.ByteStartData)+int64(offK), io.SeekStart); err != nil {
		return err
	}
	if _, err := io.CopyN(scratch, f, tailLen); err != nil {
		return err
	}

	newEntries := make([]block.IndexEntry, 0, len(entries)+1)
	newEntries = append(newEntries, entries[:pos]...)
	newEntries = append(newEntries, block.IndexEntry{FormID: newForm.FormID(), FormType: newForm.FormType(), DataStartOffset: offK})
	for _, e := range entries[pos:] {
		e.DataStartOffset += l
		newEntries = append(newEntries, e)
	}

	info.FormCount++
	info.ByteStartIndex += l
	if err := rewriteHeaderByteStart(f, info); err != nil {
		return err
	}

	if _, err := f.Seek(int64(info.ByteStartData)+int64(offK), io.SeekStart); err != nil {
		return err
	}
	if _, err := f.Write(encoded); err != nil {
		return err
	}
	if _, err := scratch.Seek(0, io.SeekStart); err != nil {
		return err
	}
	if _, err := io.CopyN(f, scratch, tailLen); err != nil {
		return err
	}

	if _, err := f.Seek(int64(info.ByteStartIndex), io.SeekStart); err != nil {
		return err
	}
	if err := block.WriteIndex(f, newEntries); err != nil {
		return err
	}
	return f.Truncate(int64(info.ByteStartIndex) + int64(info.FormCount)*block.IndexEntrySize)
}

func writeFormOverwriteLast(path string, f *os.File, info Info, entries []block.IndexEntry, pos int, newForm form.Form) error {
	existing := entries[pos]
	lOld := int64(info.ByteStartIndex-info.ByteStartData) - int64(existing.DataStartOffset)

	encoded, err := newForm.Encode()
	if err != nil {
		return err
	}
	lNew := int64(len(encoded))
	delta := lNew - lOld

	if _, err := f.Seek(int64(info.ByteStartData)+int64(existing.DataStartOffset), io.SeekStart); err != nil {
		return err
	}
	if _, err := f.Write(encoded); err != nil {
		return err
	}

	if delta == 0 {
		return nil
	}

	info.ByteStartIndex = uint32(int64(info.ByteStartIndex) + delta)
	if err := rewriteHeaderByteStart(f, info); err != nil {
		return err
	}
	if _, err := f.Seek(int64(info.ByteStartIndex), io.SeekStart); err != nil {
		return err
	}
	if err := block.WriteIndex(f, entries); err != nil {
		return err
	}
	return f.Truncate(int64(info.ByteStartIndex) + int64(info.FormCount)*block.IndexEntrySize)
}

func writeFormOverwriteInner(path string, f *os.File, info Info, entries []block.IndexEntry, pos int, newForm form.Form) error {
	existing := entries[pos]
	next := entries[pos+1]
	lOld := int64(next.DataStartOffset) - int64(existing.DataStartOffset)

	encoded, err := newForm.Encode()
	if err != nil {
		return err
	}
	lNew := int64(len(encoded))
	delta := lNew - lOld

	scratch, cleanup, err := scratchFile(path)
	if err != nil {
		return err
	}
	defer cleanup()

	tailLen := int64(info.ByteStartIndex-info.ByteStartData) - int64(next.DataStartOffset)
	if _, err := f.Seek(int64(info.ByteStartData)+int64(next.DataStartOffset), io.SeekStart); err != nil {
		return err
	}
	if _, err := io.CopyN(scratch, f, tailLen); err != nil {
		return err
	}

	if _, err := f.Seek(int64(info.ByteStartData)+int64(existing.DataStartOffset), io.SeekStart); err != nil {
		return err
	}
	if _, err := f.Write(encoded); err != nil {
		return err
	}
	if _, err := scratch.Seek(0, io.SeekStart); err != nil {
		return err
	}
	if _, err := io.CopyN(f, scratch, tailLen); err != nil {
		return err
	}

	newEntries := make([]block.IndexEntry, len(entries))
	copy(newEntries, entries)
	for i := pos + 1; i < len(newEntries); i++ {
		newEntries[i].DataStartOffset = uint32(int64(newEntries[i].DataStartOffset) + delta)
	}

	info.ByteStartIndex = uint32(int64(info.ByteStartIndex) + delta)
	if err := rewriteHeaderByteStart(f, info); err != nil {
		return err
	}
	if _, err := f.Seek(int64(info.ByteStartIndex), io.SeekStart); err != nil {
		return err
	}
	if err := block.WriteIndex(f, newEntries); err != nil {
		return err
	}
	return f.Truncate(int64(info.ByteStartIndex) + int64(info.FormCount)*block.IndexEntrySize)
}

// DeleteForm removes the form identified by id, shifting later records and
// index entries to close the gap it leaves behind.
func DeleteForm(path string, id scalar.FormID) error {
	err := withWriteLock(path, func() error {
		f, err := os.OpenFile(path, os.O_RDWR, 0o600)
		if err != nil {
			if os.IsNotExist(err) {
				return fmt.Errorf("%w: %s", errs.ErrNotFound, path)
			}
			return err
		}
		defer f.Close()

		info, err := readInfo(f)
		if err != nil {
			return err
		}
		if info.FormCount == 0 {
			return fmt.Errorf("%w: archive is empty", errs.ErrNotFound)
		}

		if _, err := f.Seek(int64(info.ByteStartIndex), io.SeekStart); err != nil {
			return err
		}
		entries, err := block.ReadIndex(f, info.FormCount)
		if err != nil {
			return err
		}
		pos, found := search.FindInMemory(entries, id)
		if !found {
			return fmt.Errorf("%w: form %s", errs.ErrNotFound, id)
		}
		existing := entries[pos]

		if info.FormCount == 1 {
			info.FormCount = 0
			info.ByteStartIndex = info.ByteStartData
			if err := rewriteHeaderByteStart(f, info); err != nil {
				return err
			}
			return f.Truncate(int64(info.ByteStartData))
		}

		if pos == len(entries)-1 {
			lOld := int64(info.ByteStartIndex-info.ByteStartData) - int64(existing.DataStartOffset)
			newEntries := entries[:pos]
			info.FormCount--
			info.ByteStartIndex = uint32(int64(info.ByteStartIndex) - lOld)
			if err := rewriteHeaderByteStart(f, info); err != nil {
				return err
			}
			if _, err := f.Seek(int64(info.ByteStartIndex), io.SeekStart); err != nil {
				return err
			}
			if err := block.WriteIndex(f, newEntries); err != nil {
				return err
			}
			return f.Truncate(int64(info.ByteStartIndex) + int64(info.FormCount)*block.IndexEntrySize)
		}

		next := entries[pos+1]
		lOld := int64(next.DataStartOffset) - int64(existing.DataStartOffset)
		tailStart := int64(info.ByteStartData) + int64(next.DataStartOffset)
		tailLen := int64(info.ByteStartIndex-info.ByteStartData) - int64(next.DataStartOffset)

		buf := bufpool.Get(int(tailLen))
		defer bufpool.Put(buf)
		if _, err := f.Seek(tailStart, io.SeekStart); err != nil {
			return err
		}
		if _, err := io.ReadFull(f, buf); err != nil {
			return err
		}

		newEntries := make([]block.IndexEntry, 0, len(entries)-1)
		newEntries = append(newEntries, entries[:pos]...)
		for _, e := range entries[pos+1:] {
			e.DataStartOffset = uint32(int64(e.DataStartOffset) - lOld)
			newEntries = append(newEntries, e)
		}

		info.FormCount--
		info.ByteStartIndex = uint32(int64(info.ByteStartIndex) - lOld)
		if err := rewriteHeaderByteStart(f, info); err != nil {
			return err
		}
		if _, err := f.Seek(int64(info.ByteStartData)+int64(existing.DataStartOffset), io.SeekStart); err != nil {
			return err
		}
		if _, err := f.Write(buf); err != nil {
			return err
		}
		if _, err := f.Seek(int64(info.ByteStartIndex), io.SeekStart); err != nil {
			return err
		}
		if err := block.WriteIndex(f, newEntries); err != nil {
			return err
		}
		return f.Truncate(int64(info.ByteStartIndex) + int64(info.FormCount)*block.IndexEntrySize)
	})
	if err == nil {
		existenceCacheInvalidate(path)
		bitsetCacheInvalidate(path)
	}
	return err
}
