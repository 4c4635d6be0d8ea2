// Package errs defines the sentinel error kinds shared across the archive
// engine's layers (scalar, form, block, search, archive). Centralizing them
// here — rather than in the top-level archive package — lets the lower
// layers signal a classified error without importing the package that
// would otherwise import them back.
package errs

import "errors"

var (
	// ErrNotFound: file missing, form id not in index, or empty archive on lookup.
	ErrNotFound = errors.New("smn-archive: not found")

	// ErrCorrupt: header/bytestart/index parse fails, or a record decode
	// fails mid-stream.
	ErrCorrupt = errors.New("smn-archive: corrupt archive")

	// ErrInvalidData: overwrite with a differing FormType, a string past its
	// width limit, or a surrogate half in a StrSml/StrLrg.
	ErrInvalidData = errors.New("smn-archive: invalid data")

	// ErrOverflow: a computed seek offset would wrap a 64-bit integer.
	ErrOverflow = errors.New("smn-archive: offset overflow")
)
