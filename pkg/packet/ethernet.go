package packet

import (
	"encoding/binary"
	"fmt"
	"net"
)

const ethernetHeaderLen = 14

// EtherType values the decoder recognizes.
const (
	EtherTypeIPv4 uint16 = 0x0800
	EtherTypeARP  uint16 = 0x0806
	EtherTypeIPv6 uint16 = 0x86DD
)

// Ethernet is the link-layer framing header. The library treats it as an
// opaque fixed-size variant: it only reads the EtherType to pick the next
// decoder.
type Ethernet struct {
	Dst       [6]byte
	Src       [6]byte
	EtherType uint16
}

// NewEthernet returns an Ethernet header with zero addresses and the IPv6
// EtherType.
func NewEthernet() *Ethernet {
	return &Ethernet{EtherType: EtherTypeIPv6}
}

func (h *Ethernet) Kind() HeaderKind { return KindEthernet }

func (h *Ethernet) Marshal() ([]byte, error) {
	b := make([]byte, 0, ethernetHeaderLen)
	b = append(b, h.Dst[:]...)
	b = append(b, h.Src[:]...)
	b = putUint(b, uint64(h.EtherType), 2)
	return b, nil
}

func (h *Ethernet) Unmarshal(b []byte) (int, error) {
	if len(b) < ethernetHeaderLen {
		return 0, fmt.Errorf("%w: ethernet header needs %d bytes", ErrTruncated, ethernetHeaderLen)
	}
	var dec Ethernet
	copy(dec.Dst[:], b[0:6])
	copy(dec.Src[:], b[6:12])
	dec.EtherType = binary.BigEndian.Uint16(b[12:14])
	*h = dec
	return ethernetHeaderLen, nil
}

func (h *Ethernet) Clone() Header {
	c := *h
	return &c
}

func (h *Ethernet) Equal(other Header) bool {
	o, ok := other.(*Ethernet)
	return ok && *h == *o
}

func (h *Ethernet) String() string {
	return fmt.Sprintf("ethernet %s->%s type=0x%04x",
		net.HardwareAddr(h.Src[:]), net.HardwareAddr(h.Dst[:]), h.EtherType)
}
