package trustproxy

import "errors"

// ErrInvalidAddress is returned for trust entries that are neither a known
// name nor an address, prefix or range.
var ErrInvalidAddress = errors.New("invalid trusted proxy address")
