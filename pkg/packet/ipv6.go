package packet

import (
	"encoding/binary"
	"fmt"
	"net/netip"
)

const ipv6HeaderLen = 40

// defaultHopLimit matches the common stack default.
const defaultHopLimit = 64

// IPv6 is the 40-byte base header. Source and destination start out as the
// unspecified address (::), never as a zero netip.Addr. PayloadLen is
// stamped by Packet.ToBytes from the bytes that follow the header, so
// builders normally leave it alone.
type IPv6 struct {
	TrafficClass uint8
	FlowLabel    uint32
	PayloadLen   uint16
	HopLimit     uint8
	nextHeader   Protocol
	src          netip.Addr
	dst          netip.Addr
}

// NewIPv6 returns a base header with unspecified addresses and the no-next
// sentinel as its next-header code.
func NewIPv6() *IPv6 {
	return &IPv6{
		HopLimit:   defaultHopLimit,
		nextHeader: ProtoIPv6NoNext,
		src:        netip.IPv6Unspecified(),
		dst:        netip.IPv6Unspecified(),
	}
}

func (h *IPv6) Kind() HeaderKind { return KindIPv6 }

func (h *IPv6) NextHeader() Protocol { return h.nextHeader }

func (h *IPv6) SetNextHeader(p Protocol) error {
	if err := checkProtocol(p); err != nil {
		return err
	}
	h.nextHeader = p
	return nil
}

func (h *IPv6) Src() netip.Addr { return h.src }
func (h *IPv6) Dst() netip.Addr { return h.dst }

func (h *IPv6) SetSrc(a netip.Addr) error {
	if err := checkV6(a); err != nil {
		return err
	}
	h.src = a
	return nil
}

func (h *IPv6) SetDst(a netip.Addr) error {
	if err := checkV6(a); err != nil {
		return err
	}
	h.dst = a
	return nil
}

func (h *IPv6) Marshal() ([]byte, error) {
	b := make([]byte, 0, ipv6HeaderLen)
	// version(4) | traffic class(8) | flow label(20)
	vtf := uint32(6)<<28 | uint32(h.TrafficClass)<<20 | h.FlowLabel&0x000FFFFF
	b = putUint(b, uint64(vtf), 4)
	b = putUint(b, uint64(h.PayloadLen), 2)
	b = append(b, byte(h.nextHeader), h.HopLimit)
	b = putAddr(b, h.src)
	b = putAddr(b, h.dst)
	return b, nil
}

func (h *IPv6) Unmarshal(b []byte) (int, error) {
	if len(b) < ipv6HeaderLen {
		return 0, fmt.Errorf("%w: ipv6 header needs %d bytes", ErrTruncated, ipv6HeaderLen)
	}
	if version := b[0] >> 4; version != 6 {
		return 0, fmt.Errorf("%w: ip version %d in ipv6 header", ErrBadFormat, version)
	}
	var dec IPv6
	vtf := binary.BigEndian.Uint32(b[0:4])
	dec.TrafficClass = uint8(vtf >> 20)
	dec.FlowLabel = vtf & 0x000FFFFF
	dec.PayloadLen = binary.BigEndian.Uint16(b[4:6])
	dec.nextHeader = Protocol(b[6])
	dec.HopLimit = b[7]
	var err error
	if dec.src, _, err = readAddr(b[8:]); err != nil {
		return 0, err
	}
	if dec.dst, _, err = readAddr(b[24:]); err != nil {
		return 0, err
	}
	*h = dec
	return ipv6HeaderLen, nil
}

func (h *IPv6) Clone() Header {
	c := *h
	return &c
}

func (h *IPv6) Equal(other Header) bool {
	o, ok := other.(*IPv6)
	return ok && *h == *o
}

func (h *IPv6) String() string {
	return fmt.Sprintf("ipv6 %s->%s next=%s hlim=%d plen=%d",
		h.src, h.dst, h.nextHeader, h.HopLimit, h.PayloadLen)
}
