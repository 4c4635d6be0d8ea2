// Package search implements the aligned binary search over an archive's
// on-disk INDEX block, with a bounded pass count and a linear fallback, plus
// an in-memory existence cache used to short-circuit repeated misses.
package search

import (
	"io"

	"github.com/SummonTheCat/smn-archive/internal/block"
	"github.com/SummonTheCat/smn-archive/internal/scalar"
)

// maxPasses bounds the binary search before it degrades to a linear scan of
// the residual window. A small bounded pass count keeps worst-case disk
// probes predictable regardless of how form_count aligns to a power of two.
const maxPasses = 30

// Find locates the index entry for target within an INDEX block of
// formCount entries, starting at indexStart. It performs a bounded binary
// search reading only the 2-byte FormID per probe, falling back to a
// linear scan of the narrowed window. rs's position is left unspecified on
// return; callers that need a clean cursor should Seek afterward.
func Find(rs io.ReadSeeker, indexStart int64, formCount uint16, target scalar.FormID) (block.IndexEntry, bool, error) {
	_, entry, found, err := FindWithPosition(rs, indexStart, formCount, target)
	return entry, found, err
}

// FindWithPosition is Find plus the zero-based ordinal position of the
// match within the index — the ordinal is what tells overwrite-last from
// overwrite-inner (the mutators, which load the whole INDEX anyway, get it
// from FindInMemory).
func FindWithPosition(rs io.ReadSeeker, indexStart int64, formCount uint16, target scalar.FormID) (uint16, block.IndexEntry, bool, error) {
	const itemSize = int64(block.IndexEntrySize)
	left := indexStart
	right := indexStart + itemSize*int64(formCount)

	for pass := 0; pass < maxPasses && right-left > itemSize; pass++ {
		mid := left + (((right-left)/2)/itemSize)*itemSize

		if _, err := rs.Seek(mid, io.SeekStart); err != nil {
			return 0, block.IndexEntry{}, false, err
		}
		var idBuf [scalar.ByteCountFormID]byte
		if _, err := io.ReadFull(rs, idBuf[:]); err != nil {
			return 0, block.IndexEntry{}, false, err
		}
		formID := scalar.FormIDFromBytes(idBuf[:])

		switch {
		case formID == target:
			entry, err := readRestOfEntry(rs, formID)
			if err != nil {
				return 0, block.IndexEntry{}, false, err
			}
			return uint16((mid - indexStart) / itemSize), entry, true, nil
		case formID < target:
			left = mid + itemSize
		default:
			right = mid
		}
	}

	for pos := (left - indexStart) / itemSize; left < right; pos++ {
		if _, err := rs.Seek(left, io.SeekStart); err != nil {
			return 0, block.IndexEntry{}, false, err
		}
		var idBuf [scalar.ByteCountFormID]byte
		if _, err := io.ReadFull(rs, idBuf[:]); err != nil {
			return 0, block.IndexEntry{}, false, err
		}
		formID := scalar.FormIDFromBytes(idBuf[:])
		if formID == target {
			entry, err := readRestOfEntry(rs, formID)
			if err != nil {
				return 0, block.IndexEntry{}, false, err
			}
			return uint16(pos), entry, true, nil
		}
		left += itemSize
	}

	return 0, block.IndexEntry{}, false, nil
}

func readRestOfEntry(rs io.ReadSeeker, formID scalar.FormID) (block.IndexEntry, error) {
	var rest [block.IndexEntrySize - scalar.ByteCountFormID]byte
	if _, err := io.ReadFull(rs, rest[:]); err != nil {
		return block.IndexEntry{}, err
	}
	formType := scalar.FormTypeFromByte(rest[0])
	offset := uint32(rest[1])<<24 | uint32(rest[2])<<16 | uint32(rest[3])<<8 | uint32(rest[4])
	return block.IndexEntry{FormID: formID, FormType: formType, DataStartOffset: offset}, nil
}

// FindInMemory performs the equivalent search over an already-loaded index
// slice (entries sorted ascending by FormID), for callers such as the
// mutator that have already read the whole INDEX block into memory to
// rewrite it. Returns the ordinal position and whether target is present.
func FindInMemory(entries []block.IndexEntry, target scalar.FormID) (int, bool) {
	lo, hi := 0, len(entries)
	for lo < hi {
		mid := (lo + hi) / 2
		switch {
		case entries[mid].FormID == target:
			return mid, true
		case entries[mid].FormID < target:
			lo = mid + 1
		default:
			hi = mid
		}
	}
	return lo, false
}
