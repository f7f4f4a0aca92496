package blockstream

import "errors"

var (
	// ErrUnexpectedEof is returned when the underlying source is
	// exhausted before a requested read (or a magic-byte search) could
	// be satisfied.
	ErrUnexpectedEof = errors.New("blockstream: unexpected end of file")

	// ErrReadPastLimit is returned when a read would advance the read
	// position beyond the limit set by SetLimit.
	ErrReadPastLimit = errors.New("blockstream: read attempted past buffer limit")

	// ErrNonCanonicalCompactInt is returned when a compact integer is
	// encoded with more bytes than its value requires.
	ErrNonCanonicalCompactInt = errors.New("blockstream: non-canonical compact int")

	// ErrCompactIntTooLarge is returned when a compact integer decodes
	// to a value larger than MaxCompactSize.
	ErrCompactIntTooLarge = errors.New("blockstream: compact int is too large")
)
