package oaf

import "errors"

// Decode errors. Every parsing entry point returns one of these classes,
// possibly wrapped with detail; match with errors.Is.
var (
	// ErrInvalidMagic is returned when the buffer does not start with the
	// archive magic bytes.
	ErrInvalidMagic = errors.New("oaf: invalid magic")

	// ErrInvalidVersion is returned when the header's version is not a
	// supported format version.
	ErrInvalidVersion = errors.New("oaf: unsupported version")

	// ErrInvalidSignature is returned when signature bytes contain a
	// discriminant outside the valid set.
	ErrInvalidSignature = errors.New("oaf: invalid signature")

	// ErrIncompleteHeader is returned when the buffer is shorter than the
	// fixed header.
	ErrIncompleteHeader = errors.New("oaf: incomplete header")

	// ErrIncompleteData is returned when the buffer ends before a segment
	// declared by the header.
	ErrIncompleteData = errors.New("oaf: incomplete data")

	// ErrInvalidEntryTable is returned when any table entry is malformed:
	// a bad signature discriminant, an out-of-bounds offset/length pair,
	// or a name that is not valid UTF-8.
	ErrInvalidEntryTable = errors.New("oaf: invalid entry table")

	// ErrInvalidSizeSum is returned when the header's total size does not
	// equal the actual byte length of the archive.
	ErrInvalidSizeSum = errors.New("oaf: size sum mismatch")

	// ErrInternal signals a defect in this package, not bad input.
	ErrInternal = errors.New("oaf: internal error")
)

// Encode errors.
var (
	// ErrSizeOverflow is returned when a length, offset, or the entry
	// count would exceed its wire field width.
	ErrSizeOverflow = errors.New("oaf: size overflow")

	// ErrTooManyFiles is returned by Create when the file count exceeds
	// the configured limit.
	ErrTooManyFiles = errors.New("oaf: too many files")
)
