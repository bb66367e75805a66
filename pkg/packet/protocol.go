package packet

import (
	"fmt"
	"sort"
)

// Protocol is an IANA protocol / next-header number. It identifies the
// header that follows the current one on the wire.
type Protocol uint8

const (
	ProtoHopByHopOption Protocol = 0
	ProtoICMP           Protocol = 1
	ProtoIGMP           Protocol = 2
	ProtoIPinIP         Protocol = 4
	ProtoTCP            Protocol = 6
	ProtoUDP            Protocol = 17
	ProtoIPv6Encap      Protocol = 41
	ProtoIPv6Route      Protocol = 43
	ProtoIPv6Fragment   Protocol = 44
	ProtoGRE            Protocol = 47
	ProtoESP            Protocol = 50
	ProtoAH             Protocol = 51
	ProtoICMPv6         Protocol = 58
	ProtoIPv6NoNext     Protocol = 59
	ProtoIPv6DestOption Protocol = 60
	ProtoOSPF           Protocol = 89
	ProtoEtherIP        Protocol = 97
	ProtoSCTP           Protocol = 132
	ProtoIPv6Mobility   Protocol = 135
	ProtoUDPLite        Protocol = 136
)

var protocolNames = map[Protocol]string{
	ProtoHopByHopOption: "ipv6-hop-by-hop",
	ProtoICMP:           "icmp",
	ProtoIGMP:           "igmp",
	ProtoIPinIP:         "ipip",
	ProtoTCP:            "tcp",
	ProtoUDP:            "udp",
	ProtoIPv6Encap:      "ipv6",
	ProtoIPv6Route:      "ipv6-route",
	ProtoIPv6Fragment:   "ipv6-fragment",
	ProtoGRE:            "gre",
	ProtoESP:            "esp",
	ProtoAH:             "ah",
	ProtoICMPv6:         "icmpv6",
	ProtoIPv6NoNext:     "ipv6-no-next",
	ProtoIPv6DestOption: "ipv6-destination",
	ProtoOSPF:           "ospf",
	ProtoEtherIP:        "etherip",
	ProtoSCTP:           "sctp",
	ProtoIPv6Mobility:   "ipv6-mobility",
	ProtoUDPLite:        "udplite",
}

// Valid reports whether p is one of the protocol numbers this library names.
// Assigning a number outside this set to a next-header field is rejected.
func (p Protocol) Valid() bool {
	_, ok := protocolNames[p]
	return ok
}

func (p Protocol) String() string {
	if name, ok := protocolNames[p]; ok {
		return name
	}
	return fmt.Sprintf("protocol-0x%02x", uint8(p))
}

// ProtocolByName resolves a protocol name as printed by Protocol.String.
func ProtocolByName(name string) (Protocol, error) {
	for p, n := range protocolNames {
		if n == name {
			return p, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownProtocol, name)
}

// KnownProtocols returns the named protocol numbers in ascending order.
func KnownProtocols() []Protocol {
	ps := make([]Protocol, 0, len(protocolNames))
	for p := range protocolNames {
		ps = append(ps, p)
	}
	sort.Slice(ps, func(i, j int) bool { return ps[i] < ps[j] })
	return ps
}

// checkProtocol validates an assignment into a next-header field.
func checkProtocol(p Protocol) error {
	if !p.Valid() {
		return fmt.Errorf("%w: 0x%02x", ErrUnknownProtocol, uint8(p))
	}
	return nil
}
