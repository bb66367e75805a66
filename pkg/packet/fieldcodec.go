package packet

import (
	"fmt"
	"net/netip"
)

// Fixed-width big-endian field primitives shared by every header codec.
// Widths are in bytes, 1 through 8.

// putUint appends v as a width-byte big-endian field.
func putUint(b []byte, v uint64, width int) []byte {
	for shift := (width - 1) * 8; shift >= 0; shift -= 8 {
		b = append(b, byte(v>>shift))
	}
	return b
}

// readUint decodes a width-byte big-endian field and returns the value and
// the remaining bytes.
func readUint(b []byte, width int) (uint64, []byte, error) {
	if len(b) < width {
		return 0, nil, fmt.Errorf("%w: need %d bytes, have %d", ErrTruncated, width, len(b))
	}
	var v uint64
	for i := 0; i < width; i++ {
		v = v<<8 | uint64(b[i])
	}
	return v, b[width:], nil
}

// putAddr appends the canonical 16-byte form of an IPv6 address.
func putAddr(b []byte, a netip.Addr) []byte {
	a16 := a.As16()
	return append(b, a16[:]...)
}

// readAddr decodes a 16-byte IPv6 address and returns the remaining bytes.
func readAddr(b []byte) (netip.Addr, []byte, error) {
	if len(b) < 16 {
		return netip.Addr{}, nil, fmt.Errorf("%w: need 16 bytes for address, have %d", ErrTruncated, len(b))
	}
	addr, ok := netip.AddrFromSlice(b[:16])
	if !ok {
		return netip.Addr{}, nil, fmt.Errorf("%w: bad address bytes", ErrBadFormat)
	}
	return addr, b[16:], nil
}

// checkV6 validates an assignment into an IPv6 address field. IPv4 values,
// including 4-in-6 mapped ones, are rejected rather than widened.
func checkV6(a netip.Addr) error {
	if !a.IsValid() || !a.Is6() || a.Is4In6() {
		return fmt.Errorf("%w: %s", ErrAddressFamily, a)
	}
	return nil
}
