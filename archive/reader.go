package archive

import (
	"fmt"
	"os"

	"github.com/SummonTheCat/smn-archive/internal/block"
	"github.com/SummonTheCat/smn-archive/internal/errs"
	"github.com/SummonTheCat/smn-archive/internal/form"
	"github.com/SummonTheCat/smn-archive/internal/scalar"
	"github.com/SummonTheCat/smn-archive/internal/search"
)

// BatchStrategyThreshold is the cutover point for ReadForms between
// repeated point lookups (reusing one open handle) and loading the whole
// INDEX into memory and binary-searching it per id. Below this size, disk
// seeks dominate; above it, the index fits comfortably in memory and a
// single sequential read beats per-id random access.
const BatchStrategyThreshold = 6000

// ReadArchiveInfo opens path, parses HEADER and BYTESTART, and returns the
// archive's metadata. Returns ErrNotFound if the file doesn't exist,
// ErrCorrupt if the header can't be parsed.
func ReadArchiveInfo(path string) (Info, error) {
	var info Info
	err := withReadLock(path, func() error {
		f, err := os.Open(path)
		if err != nil {
			if os.IsNotExist(err) {
				return fmt.Errorf("%w: %s", errs.ErrNotFound, path)
			}
			return err
		}
		defer f.Close()

		header, err := block.ReadHeader(f)
		if err != nil {
			return err
		}
		byteStarts, err := block.ReadByteStarts(f)
		if err != nil {
			return err
		}
		info = Info{
			ArchiveID:      header.ArchiveID,
			Version:        header.Version,
			Description:    header.Description,
			FormCount:      header.FormCount,
			ByteStartIndex: byteStarts.IndexOffset,
			ByteStartData:  byteStarts.DataOffset,
		}
		return nil
	})
	return info, err
}

// ReadLiteArchive returns a table-of-contents view of the archive: header
// metadata plus, for every resident form, its FormID/FormType and a
// best-effort form name. A record that can't be decoded contributes the
// sentinel name "Form not found" rather than failing the whole listing.
func ReadLiteArchive(path string) (Lite, error) {
	var lite Lite
	err := withReadLock(path, func() error {
		f, err := os.Open(path)
		if err != nil {
			if os.IsNotExist(err) {
				return fmt.Errorf("%w: %s", errs.ErrNotFound, path)
			}
			return err
		}
		defer f.Close()

		header, err := block.ReadHeader(f)
		if err != nil {
			return err
		}
		byteStarts, err := block.ReadByteStarts(f)
		if err != nil {
			return err
		}
		lite = Lite{
			ArchiveID:   header.ArchiveID,
			Version:     header.Version,
			Description: header.Description,
			FormCount:   header.FormCount,
		}

		if header.FormCount == 0 {
			return nil
		}
		if _, err := f.Seek(int64(byteStarts.IndexOffset), 0); err != nil {
			return err
		}
		entries, err := block.ReadIndex(f, header.FormCount)
		if err != nil {
			return err
		}

		for _, e := range entries {
			name := unresolvedFormName
			if _, err := f.Seek(int64(byteStarts.DataOffset)+int64(e.DataStartOffset), 0); err == nil {
				if decoded, derr := form.Decode(f); derr == nil {
					name = decoded.FormName()
				}
			}
			lite.Items = append(lite.Items, LiteItem{FormID: e.FormID, FormName: name, FormType: e.FormType})
		}
		return nil
	})
	return lite, err
}

// ReadForm reads the single form identified by id. Returns ErrNotFound if
// the archive is empty or the binary search misses.
func ReadForm(path string, id scalar.FormID) (form.Form, error) {
	var result form.Form
	err := withReadLock(path, func() error {
		f, info, err := openAndInfo(path)
		if err != nil {
			return err
		}
		defer f.Close()
		if info.FormCount == 0 {
			return fmt.Errorf("%w: archive is empty", errs.ErrNotFound)
		}

		maybePresent, err := bitsetCacheLookup(path, f, info, id)
		if err != nil {
			return err
		}
		if !maybePresent {
			return fmt.Errorf("%w: form %s", errs.ErrNotFound, id)
		}

		if _, err := f.Seek(int64(info.ByteStartIndex), 0); err != nil {
			return err
		}
		entry, found, err := search.Find(f, int64(info.ByteStartIndex), info.FormCount, id)
		if err != nil {
			return err
		}
		if !found {
			return fmt.Errorf("%w: form %s", errs.ErrNotFound, id)
		}
		if _, err := f.Seek(int64(info.ByteStartData)+int64(entry.DataStartOffset), 0); err != nil {
			return err
		}
		result, err = form.Decode(f)
		return err
	})
	return result, err
}

// ReadForms reads every form in ids, preserving input order. A single miss
// fails the whole batch.
func ReadForms(path string, ids []scalar.FormID) ([]form.Form, error) {
	var results []form.Form
	err := withReadLock(path, func() error {
		f, info, err := openAndInfo(path)
		if err != nil {
			return err
		}
		defer f.Close()
		if info.FormCount == 0 {
			return fmt.Errorf("%w: archive is empty", errs.ErrNotFound)
		}

		offsets := make([]uint32, len(ids))

		if len(ids) < BatchStrategyThreshold {
			for i, id := range ids {
				if _, err := f.Seek(int64(info.ByteStartIndex), 0); err != nil {
					return err
				}
				entry, found, err := search.Find(f, int64(info.ByteStartIndex), info.FormCount, id)
				if err != nil {
					return err
				}
				if !found {
					return fmt.Errorf("%w: form %s", errs.ErrNotFound, id)
				}
				offsets[i] = entry.DataStartOffset
			}
		} else {
			if _, err := f.Seek(int64(info.ByteStartIndex), 0); err != nil {
				return err
			}
			entries, err := block.ReadIndex(f, info.FormCount)
			if err != nil {
				return err
			}
			for i, id := range ids {
				pos, found := search.FindInMemory(entries, id)
				if !found {
					return fmt.Errorf("%w: form %s", errs.ErrNotFound, id)
				}
				offsets[i] = entries[pos].DataStartOffset
			}
		}

		results = make([]form.Form, len(ids))
		for i, off := range offsets {
			if _, err := f.Seek(int64(info.ByteStartData)+int64(off), 0); err != nil {
				return err
			}
			decoded, err := form.Decode(f)
			if err != nil {
				return err
			}
			results[i] = decoded
		}
		return nil
	})
	return results, err
}

// Exists reports whether a form with the given id is present, without
// decoding it — the backing operation for the FFI layer's
// get_form_exists. A Bloom-filter fast path rules out a definite miss
// without touching the on-disk index; a possible hit still falls through
// to the binary search to rule out a false positive.
func Exists(path string, id scalar.FormID) (bool, error) {
	var found bool
	err := withReadLock(path, func() error {
		f, info, err := openAndInfo(path)
		if err != nil {
			return err
		}
		defer f.Close()
		if info.FormCount == 0 {
			found = false
			return nil
		}

		maybePresent, err := existenceCacheLookup(path, f, info, id)
		if err != nil {
			return err
		}
		if !maybePresent {
			found = false
			return nil
		}

		if _, err := f.Seek(int64(info.ByteStartIndex), 0); err != nil {
			return err
		}
		_, found, err = search.Find(f, int64(info.ByteStartIndex), info.FormCount, id)
		return err
	})
	return found, err
}

func openAndInfo(path string) (*os.File, Info, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, Info{}, fmt.Errorf("%w: %s", errs.ErrNotFound, path)
		}
		return nil, Info{}, err
	}
	header, err := block.ReadHeader(f)
	if err != nil {
		f.Close()
		return nil, Info{}, err
	}
	byteStarts, err := block.ReadByteStarts(f)
	if err != nil {
		f.Close()
		return nil, Info{}, err
	}
	return f, Info{
		ArchiveID:      header.ArchiveID,
		Version:        header.Version,
		Description:    header.Description,
		FormCount:      header.FormCount,
		ByteStartIndex: byteStarts.IndexOffset,
		ByteStartData:  byteStarts.DataOffset,
	}, nil
}
