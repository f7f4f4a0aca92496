package chainblock

import "errors"

// ErrMalformedTransaction is returned for structural violations the
// primitive codec cannot itself detect, such as an unrewindable SegWit
// marker probe. Callers should also expect the sentinel errors from
// blockstream (ErrUnexpectedEof, ErrReadPastLimit,
// ErrNonCanonicalCompactInt, ErrCompactIntTooLarge) to surface unchanged
// from any Deserialize* call.
var ErrMalformedTransaction = errors.New("chainblock: malformed transaction")
