// Package block implements the HEADER, BYTESTART, and INDEX block codecs:
// the fixed-format wrapper around an archive's DATA region. All three
// blocks are big-endian throughout, including the bytestart and index
// offsets that an earlier reader implementation once read back
// little-endian on one platform; this package always reads and writes them
// big-endian.
package block

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/SummonTheCat/smn-archive/internal/errs"
	"github.com/SummonTheCat/smn-archive/internal/scalar"
)

// Header is the parsed HEADER block: archive identity, version, free-text
// description, and the current form count.
type Header struct {
	ArchiveID   scalar.ArchiveID
	Version     scalar.Version
	Description scalar.StrLrg
	FormCount   uint16
}

// ByteCount returns the encoded width of h, which varies with the length of
// Description.
func (h Header) ByteCount() int {
	return scalar.ByteCountArchiveID + scalar.ByteCountVersion + h.Description.ByteCount() + 2
}

// WriteHeader writes the HEADER block to w.
func WriteHeader(w io.Writer, h Header) error {
	dst := make([]byte, 0, h.ByteCount())
	dst = h.ArchiveID.Encode(dst)
	dst = h.Version.Encode(dst)
	var err error
	dst, err = h.Description.Encode(dst)
	if err != nil {
		return err
	}
	var countBuf [2]byte
	binary.BigEndian.PutUint16(countBuf[:], h.FormCount)
	dst = append(dst, countBuf[:]...)
	_, err = w.Write(dst)
	return err
}

// ReadHeader parses the HEADER block from r, leaving the cursor positioned
// at the first byte after the header (the start of BYTESTART).
func ReadHeader(r io.Reader) (Header, error) {
	archiveID, err := scalar.DecodeArchiveID(r)
	if err != nil {
		return Header{}, wrapCorrupt(err, "archive id")
	}
	version, err := scalar.DecodeVersion(r)
	if err != nil {
		return Header{}, wrapCorrupt(err, "version")
	}
	description, err := scalar.DecodeStrLrg(r)
	if err != nil {
		return Header{}, wrapCorrupt(err, "description")
	}
	var countBuf [2]byte
	if _, err := io.ReadFull(r, countBuf[:]); err != nil {
		return Header{}, wrapCorrupt(err, "form count")
	}
	return Header{
		ArchiveID:   archiveID,
		Version:     version,
		Description: description,
		FormCount:   binary.BigEndian.Uint16(countBuf[:]),
	}, nil
}

// ByteStarts is the parsed BYTESTART block: the two cursor offsets naming
// where DATA and INDEX begin.
type ByteStarts struct {
	IndexOffset uint32
	DataOffset  uint32
}

// ByteCountByteStarts is the fixed on-disk width of the BYTESTART block.
const ByteCountByteStarts = 8

// WriteByteStarts writes the BYTESTART block to w.
func WriteByteStarts(w io.Writer, bs ByteStarts) error {
	var buf [ByteCountByteStarts]byte
	binary.BigEndian.PutUint32(buf[0:4], bs.IndexOffset)
	binary.BigEndian.PutUint32(buf[4:8], bs.DataOffset)
	_, err := w.Write(buf[:])
	return err
}

// ReadByteStarts parses the BYTESTART block from r.
func ReadByteStarts(r io.Reader) (ByteStarts, error) {
	var buf [ByteCountByteStarts]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return ByteStarts{}, wrapCorrupt(err, "bytestart")
	}
	return ByteStarts{
		IndexOffset: binary.BigEndian.Uint32(buf[0:4]),
		DataOffset:  binary.BigEndian.Uint32(buf[4:8]),
	}, nil
}

// IndexEntry is one 7-byte entry in the INDEX block: a FormID, its
// FormType, and its data_start_offset measured from bytestart_data.
type IndexEntry struct {
	FormID          scalar.FormID
	FormType        scalar.FormType
	DataStartOffset uint32
}

// IndexEntrySize is the fixed on-disk width of one IndexEntry.
const IndexEntrySize = scalar.ByteCountFormID + scalar.ByteCountFormType + 4

// WriteIndex writes form_count index entries to w, in the order given.
// Callers are responsible for ensuring entries are sorted by FormID before
// calling this — the block codec does not itself sort.
func WriteIndex(w io.Writer, entries []IndexEntry) error {
	dst := make([]byte, 0, len(entries)*IndexEntrySize)
	for _, e := range entries {
		dst = e.FormID.Encode(dst)
		dst = append(dst, e.FormType.Byte())
		var offBuf [4]byte
		binary.BigEndian.PutUint32(offBuf[:], e.DataStartOffset)
		dst = append(dst, offBuf[:]...)
	}
	_, err := w.Write(dst)
	return err
}

// ReadIndex reads exactly formCount index entries from r.
func ReadIndex(r io.Reader, formCount uint16) ([]IndexEntry, error) {
	entries := make([]IndexEntry, formCount)
	buf := make([]byte, IndexEntrySize)
	for i := range entries {
		if _, err := io.ReadFull(r, buf); err != nil {
			return nil, wrapCorrupt(err, "index entry")
		}
		entries[i] = IndexEntry{
			FormID:          scalar.FormIDFromBytes(buf[0:2]),
			FormType:        scalar.FormTypeFromByte(buf[2]),
			DataStartOffset: binary.BigEndian.Uint32(buf[3:7]),
		}
	}
	return entries, nil
}

func wrapCorrupt(err error, what string) error {
	if err == io.EOF || err == io.ErrUnexpectedEOF {
		return fmt.Errorf("%w: truncated %s", errs.ErrCorrupt, what)
	}
	return err
}
