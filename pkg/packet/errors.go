package packet

import (
	"errors"
	"fmt"
)

// Sentinel errors. Callers distinguish failure kinds with errors.Is; decode
// and mutation paths wrap these with context via %w.
var (
	// Decode errors
	ErrBadFormat = errors.New("packet: malformed header bytes")
	ErrTruncated = fmt.Errorf("%w: buffer shorter than declared length", ErrBadFormat)

	// Field assignment errors
	ErrAddressFamily   = errors.New("packet: address is not an IPv6 address")
	ErrUnknownProtocol = errors.New("packet: protocol number outside the known space")

	// Container access errors
	ErrIndexRange     = errors.New("packet: index out of range")
	ErrRangeQuery     = errors.New("packet: range queries are not supported, index one element at a time")
	ErrHeaderNotFound = errors.New("packet: no header of the requested kind")
)
