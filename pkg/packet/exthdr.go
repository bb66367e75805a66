package packet

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"net/netip"
)

// Fixed-shape IPv6 extension headers: fragment, type-0 routing, mobility,
// and the zero-length no-next sentinel. The options-bearing extension
// headers live in options.go.

const (
	fragmentHeaderLen = 8
	routeHeaderLen    = 24
	mobilityHeaderLen = 8

	fragOffsetMask = 0x1FFF
)

// IPv6Fragment is the fragmentation extension header. Offset is kept in
// 8-octet units exactly as carried on the wire (13 bits).
type IPv6Fragment struct {
	ID         uint32
	Offset     uint16
	MF         bool
	nextHeader Protocol
}

// NewIPv6Fragment builds a fragment header chaining to the no-next sentinel.
func NewIPv6Fragment(id uint32, offset uint16, mf bool) *IPv6Fragment {
	return &IPv6Fragment{ID: id, Offset: offset, MF: mf, nextHeader: ProtoIPv6NoNext}
}

func (h *IPv6Fragment) Kind() HeaderKind     { return KindIPv6Fragment }
func (h *IPv6Fragment) NextHeader() Protocol { return h.nextHeader }

func (h *IPv6Fragment) SetNextHeader(p Protocol) error {
	if err := checkProtocol(p); err != nil {
		return err
	}
	h.nextHeader = p
	return nil
}

func (h *IPv6Fragment) Marshal() ([]byte, error) {
	if h.Offset > fragOffsetMask {
		return nil, fmt.Errorf("%w: fragment offset %d exceeds 13 bits", ErrBadFormat, h.Offset)
	}
	offFlags := h.Offset << 3
	if h.MF {
		offFlags |= 1
	}
	b := make([]byte, 0, fragmentHeaderLen)
	b = append(b, byte(h.nextHeader), 0)
	b = putUint(b, uint64(offFlags), 2)
	b = putUint(b, uint64(h.ID), 4)
	return b, nil
}

func (h *IPv6Fragment) Unmarshal(b []byte) (int, error) {
	if len(b) < fragmentHeaderLen {
		return 0, fmt.Errorf("%w: fragment header needs %d bytes", ErrTruncated, fragmentHeaderLen)
	}
	var dec IPv6Fragment
	dec.nextHeader = Protocol(b[0])
	offFlags, rest, err := readUint(b[2:], 2)
	if err != nil {
		return 0, err
	}
	dec.Offset = uint16(offFlags) >> 3
	dec.MF = offFlags&1 != 0
	id, _, err := readUint(rest, 4)
	if err != nil {
		return 0, err
	}
	dec.ID = uint32(id)
	*h = dec
	return fragmentHeaderLen, nil
}

func (h *IPv6Fragment) Clone() Header {
	c := *h
	return &c
}

func (h *IPv6Fragment) Equal(other Header) bool {
	o, ok := other.(*IPv6Fragment)
	return ok && *h == *o
}

func (h *IPv6Fragment) String() string {
	return fmt.Sprintf("ipv6-fragment id=%d offset=%d mf=%t next=%s", h.ID, h.Offset, h.MF, h.nextHeader)
}

// IPv6Route is a type-0 routing extension header carrying a single
// intermediate address.
type IPv6Route struct {
	SegmentsLeft uint8
	addr         netip.Addr
	nextHeader   Protocol
}

// NewIPv6Route builds a routing header through addr. The address must be
// IPv6.
func NewIPv6Route(addr netip.Addr) (*IPv6Route, error) {
	if err := checkV6(addr); err != nil {
		return nil, err
	}
	return &IPv6Route{SegmentsLeft: 1, addr: addr, nextHeader: ProtoIPv6NoNext}, nil
}

func (h *IPv6Route) Kind() HeaderKind     { return KindIPv6Route }
func (h *IPv6Route) NextHeader() Protocol { return h.nextHeader }

func (h *IPv6Route) SetNextHeader(p Protocol) error {
	if err := checkProtocol(p); err != nil {
		return err
	}
	h.nextHeader = p
	return nil
}

func (h *IPv6Route) Address() netip.Addr { return h.addr }

func (h *IPv6Route) SetAddress(a netip.Addr) error {
	if err := checkV6(a); err != nil {
		return err
	}
	h.addr = a
	return nil
}

func (h *IPv6Route) Marshal() ([]byte, error) {
	b := make([]byte, 0, routeHeaderLen)
	// next, ext len (in 8-octet units past the first 8), routing type 0,
	// segments left, 4 reserved octets
	b = append(b, byte(h.nextHeader), 2, 0, h.SegmentsLeft, 0, 0, 0, 0)
	b = putAddr(b, h.addr)
	return b, nil
}

func (h *IPv6Route) Unmarshal(b []byte) (int, error) {
	if len(b) < routeHeaderLen {
		return 0, fmt.Errorf("%w: routing header needs %d bytes", ErrTruncated, routeHeaderLen)
	}
	if rtype := b[2]; rtype != 0 {
		return 0, fmt.Errorf("%w: unsupported routing type %d", ErrBadFormat, rtype)
	}
	if extLen := int(b[1]); (extLen+1)*8 != routeHeaderLen {
		return 0, fmt.Errorf("%w: routing header ext length %d", ErrBadFormat, b[1])
	}
	var dec IPv6Route
	dec.nextHeader = Protocol(b[0])
	dec.SegmentsLeft = b[3]
	var err error
	if dec.addr, _, err = readAddr(b[8:]); err != nil {
		return 0, err
	}
	*h = dec
	return routeHeaderLen, nil
}

func (h *IPv6Route) Clone() Header {
	c := *h
	return &c
}

func (h *IPv6Route) Equal(other Header) bool {
	o, ok := other.(*IPv6Route)
	return ok && *h == *o
}

func (h *IPv6Route) String() string {
	return fmt.Sprintf("ipv6-route via %s segleft=%d next=%s", h.addr, h.SegmentsLeft, h.nextHeader)
}

// IPv6Mobility is the mobility header. Data is the message data after the
// checksum; its length plus the 6 fixed octets must land on an 8-octet
// boundary, which Marshal enforces.
type IPv6Mobility struct {
	MHType     uint8
	Checksum   uint16
	Data       []byte
	nextHeader Protocol
}

// NewIPv6Mobility builds a minimal 8-byte mobility header chaining to the
// no-next sentinel, so it can terminate a stack without further setup.
func NewIPv6Mobility() *IPv6Mobility {
	return &IPv6Mobility{Data: []byte{0, 0}, nextHeader: ProtoIPv6NoNext}
}

func (h *IPv6Mobility) Kind() HeaderKind     { return KindIPv6Mobility }
func (h *IPv6Mobility) NextHeader() Protocol { return h.nextHeader }

func (h *IPv6Mobility) SetNextHeader(p Protocol) error {
	if err := checkProtocol(p); err != nil {
		return err
	}
	h.nextHeader = p
	return nil
}

func (h *IPv6Mobility) Marshal() ([]byte, error) {
	total := 6 + len(h.Data)
	if total%8 != 0 {
		return nil, fmt.Errorf("%w: mobility header length %d is not a multiple of 8", ErrBadFormat, total)
	}
	if total/8-1 > 255 {
		return nil, fmt.Errorf("%w: mobility header length %d exceeds the 8-bit length field", ErrBadFormat, total)
	}
	b := make([]byte, 0, total)
	b = append(b, byte(h.nextHeader), byte(total/8-1), h.MHType, 0)
	b = putUint(b, uint64(h.Checksum), 2)
	b = append(b, h.Data...)
	return b, nil
}

func (h *IPv6Mobility) Unmarshal(b []byte) (int, error) {
	if len(b) < mobilityHeaderLen {
		return 0, fmt.Errorf("%w: mobility header needs %d bytes", ErrTruncated, mobilityHeaderLen)
	}
	total := (int(b[1]) + 1) * 8
	if total > len(b) {
		return 0, fmt.Errorf("%w: mobility header declares %d bytes, have %d", ErrTruncated, total, len(b))
	}
	var dec IPv6Mobility
	dec.nextHeader = Protocol(b[0])
	dec.MHType = b[2]
	dec.Checksum = binary.BigEndian.Uint16(b[4:6])
	dec.Data = append([]byte(nil), b[6:total]...)
	*h = dec
	return total, nil
}

func (h *IPv6Mobility) Clone() Header {
	c := *h
	c.Data = append([]byte(nil), h.Data...)
	return &c
}

func (h *IPv6Mobility) Equal(other Header) bool {
	o, ok := other.(*IPv6Mobility)
	return ok && h.MHType == o.MHType && h.Checksum == o.Checksum &&
		h.nextHeader == o.nextHeader && bytes.Equal(h.Data, o.Data)
}

func (h *IPv6Mobility) String() string {
	return fmt.Sprintf("ipv6-mobility type=%d next=%s", h.MHType, h.nextHeader)
}

// NoNextHeader is the zero-length sentinel variant. Decoding halts at the
// no-next code, so this header never appears in a decoded stack; it exists
// for builders that want the terminal position to be explicit.
type NoNextHeader struct{}

func (h *NoNextHeader) Kind() HeaderKind         { return KindNoNext }
func (h *NoNextHeader) Marshal() ([]byte, error) { return nil, nil }
func (h *NoNextHeader) Unmarshal(b []byte) (int, error) {
	return 0, nil
}
func (h *NoNextHeader) Clone() Header { return &NoNextHeader{} }
func (h *NoNextHeader) Equal(other Header) bool {
	_, ok := other.(*NoNextHeader)
	return ok
}
func (h *NoNextHeader) String() string { return "no-next-header" }
