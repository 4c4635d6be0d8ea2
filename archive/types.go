// Package archive implements the archive file format's reader and mutator:
// opening an archive's metadata, listing and fetching forms, and the four
// insert paths (empty, start, end, middle), two overwrite paths (last,
// inner), and three delete paths (only, last, inner) that keep the
// HEADER/BYTESTART/DATA/INDEX layout consistent after every write.
//
// # File Structure
//
//	+-------------+
//	|   HEADER    |  ArchiveID, Version, description, form_count
//	+-------------+
//	|  BYTESTART  |  bytestart_index, bytestart_data (two u32)
//	+-------------+
//	|    DATA     |  form_count serialized records, ascending FormID order
//	+-------------+
//	|    INDEX    |  form_count * 7-byte entries: FormID, FormType, offset
//	+-------------+
//
// Every operation in this package opens the file, performs its work
// synchronously, and releases it — there is no persistent open-file handle
// in the public API, matching the single-threaded-cooperative-per-file
// concurrency model: a second writer touching the same path concurrently is
// undefined behaviour, and callers must serialize externally (or rely on
// the advisory per-path lock in locks.go, which only protects against
// concurrent access from within this same process).
package archive

import (
	"github.com/SummonTheCat/smn-archive/internal/scalar"
)

// Info is an archive's metadata: identity, version, description, and the
// cached bookkeeping offsets needed to locate DATA and INDEX without
// depending on file length.
type Info struct {
	ArchiveID   scalar.ArchiveID
	Version     scalar.Version
	Description scalar.StrLrg
	FormCount   uint16

	// ByteStartIndex is the file offset where INDEX begins (DATA ends).
	ByteStartIndex uint32
	// ByteStartData is the file offset where DATA begins (immediately
	// after BYTESTART).
	ByteStartData uint32
}

// NewInfo builds the metadata for a brand-new, empty archive. Callers pass
// this to WriteArchiveSkeleton.
func NewInfo(archiveID scalar.ArchiveID, version scalar.Version, description scalar.StrLrg) Info {
	return Info{
		ArchiveID:   archiveID,
		Version:     version,
		Description: description,
		FormCount:   0,
	}
}

// LiteItem is one row of a Lite table of contents: identity and name
// without the decoded payload.
type LiteItem struct {
	FormID   scalar.FormID
	FormName scalar.StrSml
	FormType scalar.FormType
}

// Lite is a table-of-contents view of an archive: header metadata plus one
// LiteItem per resident form.
type Lite struct {
	ArchiveID   scalar.ArchiveID
	Version     scalar.Version
	Description scalar.StrLrg
	FormCount   uint16
	Items       []LiteItem
}

// unresolvedFormName is substituted for a Lite item whose record could not
// be decoded, matching read_lite_archive's local-recovery policy.
const unresolvedFormName = scalar.StrSml("Form not found")
