package whisper

import "errors"

// Error kinds. Callers should use errors.Is against these sentinels rather
// than matching strings; an error of one of these kinds is returned either
// as the sentinel itself or wrapped with fmt.Errorf's %w. Argument errors
// outside this taxonomy (an out-of-range index passed to DumpArchive, a
// short buffer passed to DecodePoint) wrap none of them.
var (
	// ErrIO wraps an underlying OS-level failure of open/read/write/seek/
	// truncate. Fatal for the call that produced it.
	ErrIO = errors.New("whisper: i/o error")

	// ErrHeaderCorrupt means the file's header failed validation: zero
	// archives, non-contiguous offsets, or a max_retention mismatch. Fatal
	// for the handle.
	ErrHeaderCorrupt = errors.New("whisper: header corrupt")

	// ErrSchemaInvalid means a creation-time retention schema violated the
	// ordering or divisibility rules.
	ErrSchemaInvalid = errors.New("whisper: schema invalid")

	// ErrPointInFuture means a point's timestamp is later than the
	// current time supplied to Write. Recoverable; no write performed.
	ErrPointInFuture = errors.New("whisper: point is in the future")

	// ErrPointOutsideRetention means current_time - point.timestamp is at
	// least the coarsest archive's retention. Recoverable; no write
	// performed.
	ErrPointOutsideRetention = errors.New("whisper: point is outside retention")
)
