// Package packet models a packet as an ordered stack of typed headers
// chained by next-header protocol numbers, with byte-exact encode and
// decode of the IPv6 base and extension header family.
package packet

import "github.com/sirupsen/logrus"

// HeaderKind is the closed set of header variants the library decodes.
type HeaderKind uint8

const (
	KindRaw HeaderKind = iota
	KindEthernet
	KindIPv6
	KindIPv6Route
	KindIPv6Fragment
	KindIPv6HopOption
	KindIPv6DestinationOption
	KindIPv6Mobility
	KindICMPv6
	KindNoNext
)

var kindNames = map[HeaderKind]string{
	KindRaw:                   "raw",
	KindEthernet:              "ethernet",
	KindIPv6:                  "ipv6",
	KindIPv6Route:             "ipv6-route",
	KindIPv6Fragment:          "ipv6-fragment",
	KindIPv6HopOption:         "ipv6-hop-option",
	KindIPv6DestinationOption: "ipv6-destination-option",
	KindIPv6Mobility:          "ipv6-mobility",
	KindICMPv6:                "icmpv6",
	KindNoNext:                "no-next-header",
}

func (k HeaderKind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "unknown"
}

// Header is one decoded header in a stack. Marshal is deterministic given
// the current field values; Unmarshal reports the bytes consumed and fails
// atomically, leaving the receiver untouched on error.
type Header interface {
	Kind() HeaderKind
	Marshal() ([]byte, error)
	Unmarshal(b []byte) (int, error)
	Clone() Header
	Equal(other Header) bool
	String() string
}

// Chainer is implemented by headers that carry a next-header field, i.e.
// headers that may be followed by another decodable header. Chaining is an
// explicit caller responsibility: inserting a header into a stack does not
// rewrite the preceding header's next-header field.
type Chainer interface {
	Header
	NextHeader() Protocol
	SetNextHeader(p Protocol) error
}

// headerForProto is the chain resolver: it maps a next-header code to a
// fresh decode target for the following bytes. The no-next sentinel maps to
// nil (decoding halts); codes the library does not decode further map to an
// opaque RawPayload terminal.
func headerForProto(p Protocol) Header {
	switch p {
	case ProtoIPv6NoNext:
		return nil
	case ProtoHopByHopOption:
		return NewIPv6HopOption()
	case ProtoIPv6Route:
		return &IPv6Route{}
	case ProtoIPv6Fragment:
		return &IPv6Fragment{}
	case ProtoIPv6DestOption:
		return NewIPv6DestinationOption()
	case ProtoIPv6Mobility:
		return NewIPv6Mobility()
	case ProtoICMPv6:
		return &ICMPv6{}
	default:
		return &RawPayload{}
	}
}

// logger is the library's only side channel: a warning when an option
// header is serialized with a misaligned length. Tests and embedders may
// swap it.
var logger logrus.FieldLogger = logrus.StandardLogger()

// SetLogger replaces the logger used for serialization warnings.
func SetLogger(l logrus.FieldLogger) {
	if l != nil {
		logger = l
	}
}
