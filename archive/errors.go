package archive

import "github.com/SummonTheCat/smn-archive/internal/errs"

// Error kinds surfaced by every public operation in this package. Io errors
// are not sentinels here — they are the underlying *os.PathError / io.Error
// bubbled up unwrapped, matching how low-level failures propagate in the
// teacher's storage layer.
var (
	ErrNotFound    = errs.ErrNotFound
	ErrCorrupt     = errs.ErrCorrupt
	ErrInvalidData = errs.ErrInvalidData
	ErrOverflow    = errs.ErrOverflow
)
