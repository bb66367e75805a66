package packet

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"net/netip"
)

// Type-length-value options carried inside the hop-by-hop and destination
// option extension headers. Every option except Pad1 encodes as
// type octet, length octet, value bytes. The containing header must come
// out a multiple of 8 octets long; the caller is responsible for appending
// padding options, Marshal only warns.

// OptionType is a TLV option type code.
type OptionType uint8

const (
	OptPad1                     OptionType = 0x00
	OptPadN                     OptionType = 0x01
	OptTunnelEncapsulationLimit OptionType = 0x04
	OptRouterAlert              OptionType = 0x05
	OptJumboPayload             OptionType = 0xC2
	OptHomeAddress              OptionType = 0xC9
)

// Option is one TLV record. Unmarshal reports the bytes consumed and fails
// atomically.
type Option interface {
	Type() OptionType
	Marshal() ([]byte, error)
	Unmarshal(b []byte) (int, error)
	Clone() Option
	Equal(other Option) bool
}

// Pad1 is the single-octet padding option: a bare type byte with no length
// or value.
type Pad1 struct{}

func (o *Pad1) Type() OptionType         { return OptPad1 }
func (o *Pad1) Marshal() ([]byte, error) { return []byte{0}, nil }
func (o *Pad1) Unmarshal(b []byte) (int, error) {
	if len(b) < 1 {
		return 0, fmt.Errorf("%w: empty pad1 option", ErrTruncated)
	}
	if OptionType(b[0]) != OptPad1 {
		return 0, fmt.Errorf("%w: option type 0x%02x, expected 0x00", ErrBadFormat, b[0])
	}
	return 1, nil
}
func (o *Pad1) Clone() Option { return &Pad1{} }
func (o *Pad1) Equal(other Option) bool {
	_, ok := other.(*Pad1)
	return ok
}

// PadN pads with n total octets, n >= 2: type, length, and length zero
// octets of value.
type PadN struct {
	N int
}

func NewPadN(n int) *PadN { return &PadN{N: n} }

func (o *PadN) Type() OptionType { return OptPadN }

func (o *PadN) Marshal() ([]byte, error) {
	if o.N < 2 || o.N > 257 {
		return nil, fmt.Errorf("%w: padn of %d octets", ErrBadFormat, o.N)
	}
	b := make([]byte, o.N)
	b[0] = byte(OptPadN)
	b[1] = byte(o.N - 2)
	return b, nil
}

func (o *PadN) Unmarshal(b []byte) (int, error) {
	n, _, err := tlvValue(b, OptPadN, -1)
	if err != nil {
		return 0, err
	}
	o.N = n
	return n, nil
}

func (o *PadN) Clone() Option { c := *o; return &c }
func (o *PadN) Equal(other Option) bool {
	p, ok := other.(*PadN)
	return ok && o.N == p.N
}

// RouterAlert tells routers along the path to examine the packet more
// closely. Two-byte value.
type RouterAlert struct {
	Value uint16
}

func NewRouterAlert(v uint16) *RouterAlert { return &RouterAlert{Value: v} }

func (o *RouterAlert) Type() OptionType { return OptRouterAlert }

func (o *RouterAlert) Marshal() ([]byte, error) {
	b := []byte{byte(OptRouterAlert), 2}
	return putUint(b, uint64(o.Value), 2), nil
}

func (o *RouterAlert) Unmarshal(b []byte) (int, error) {
	n, val, err := tlvValue(b, OptRouterAlert, 2)
	if err != nil {
		return 0, err
	}
	o.Value = binary.BigEndian.Uint16(val)
	return n, nil
}

func (o *RouterAlert) Clone() Option { c := *o; return &c }
func (o *RouterAlert) Equal(other Option) bool {
	r, ok := other.(*RouterAlert)
	return ok && o.Value == r.Value
}

// TunnelEncapsulationLimit bounds how many further tunnels may encapsulate
// the packet. One-byte value.
type TunnelEncapsulationLimit struct {
	Limit uint8
}

func NewTunnelEncapsulationLimit(limit uint8) *TunnelEncapsulationLimit {
	return &TunnelEncapsulationLimit{Limit: limit}
}

func (o *TunnelEncapsulationLimit) Type() OptionType { return OptTunnelEncapsulationLimit }

func (o *TunnelEncapsulationLimit) Marshal() ([]byte, error) {
	return []byte{byte(OptTunnelEncapsulationLimit), 1, o.Limit}, nil
}

func (o *TunnelEncapsulationLimit) Unmarshal(b []byte) (int, error) {
	n, val, err := tlvValue(b, OptTunnelEncapsulationLimit, 1)
	if err != nil {
		return 0, err
	}
	o.Limit = val[0]
	return n, nil
}

func (o *TunnelEncapsulationLimit) Clone() Option { c := *o; return &c }
func (o *TunnelEncapsulationLimit) Equal(other Option) bool {
	t, ok := other.(*TunnelEncapsulationLimit)
	return ok && o.Limit == t.Limit
}

// HomeAddress carries a mobile node's home address. Sixteen-byte value.
type HomeAddress struct {
	addr netip.Addr
}

// NewHomeAddress builds the option; addr must be IPv6.
func NewHomeAddress(addr netip.Addr) (*HomeAddress, error) {
	if err := checkV6(addr); err != nil {
		return nil, err
	}
	return &HomeAddress{addr: addr}, nil
}

func (o *HomeAddress) Type() OptionType    { return OptHomeAddress }
func (o *HomeAddress) Address() netip.Addr { return o.addr }

func (o *HomeAddress) SetAddress(a netip.Addr) error {
	if err := checkV6(a); err != nil {
		return err
	}
	o.addr = a
	return nil
}

func (o *HomeAddress) Marshal() ([]byte, error) {
	b := []byte{byte(OptHomeAddress), 16}
	return putAddr(b, o.addr), nil
}

func (o *HomeAddress) Unmarshal(b []byte) (int, error) {
	n, val, err := tlvValue(b, OptHomeAddress, 16)
	if err != nil {
		return 0, err
	}
	addr, _, err := readAddr(val)
	if err != nil {
		return 0, err
	}
	o.addr = addr
	return n, nil
}

func (o *HomeAddress) Clone() Option { c := *o; return &c }
func (o *HomeAddress) Equal(other Option) bool {
	h, ok := other.(*HomeAddress)
	return ok && o.addr == h.addr
}

// JumboPayload declares a payload longer than the 16-bit base header field
// can express, up to 2^32-1 octets. Four-byte value.
type JumboPayload struct {
	Length uint32
}

func NewJumboPayload(length uint32) *JumboPayload { return &JumboPayload{Length: length} }

func (o *JumboPayload) Type() OptionType { return OptJumboPayload }

func (o *JumboPayload) Marshal() ([]byte, error) {
	b := []byte{byte(OptJumboPayload), 4}
	return putUint(b, uint64(o.Length), 4), nil
}

func (o *JumboPayload) Unmarshal(b []byte) (int, error) {
	n, val, err := tlvValue(b, OptJumboPayload, 4)
	if err != nil {
		return 0, err
	}
	o.Length = binary.BigEndian.Uint32(val)
	return n, nil
}

func (o *JumboPayload) Clone() Option { c := *o; return &c }
func (o *JumboPayload) Equal(other Option) bool {
	j, ok := other.(*JumboPayload)
	return ok && o.Length == j.Length
}

// RawOption preserves an option whose type code the library does not know,
// so unknown options survive a decode/encode round trip verbatim.
type RawOption struct {
	TypeCode OptionType
	Value    []byte
}

func (o *RawOption) Type() OptionType { return o.TypeCode }

func (o *RawOption) Marshal() ([]byte, error) {
	if len(o.Value) > 255 {
		return nil, fmt.Errorf("%w: option value of %d bytes", ErrBadFormat, len(o.Value))
	}
	b := []byte{byte(o.TypeCode), byte(len(o.Value))}
	return append(b, o.Value...), nil
}

func (o *RawOption) Unmarshal(b []byte) (int, error) {
	if len(b) == 0 {
		return 0, fmt.Errorf("%w: empty option buffer", ErrTruncated)
	}
	n, val, err := tlvValue(b, OptionType(b[0]), -1)
	if err != nil {
		return 0, err
	}
	o.TypeCode = OptionType(b[0])
	o.Value = append([]byte(nil), val...)
	return n, nil
}

func (o *RawOption) Clone() Option {
	c := *o
	c.Value = append([]byte(nil), o.Value...)
	return &c
}

func (o *RawOption) Equal(other Option) bool {
	r, ok := other.(*RawOption)
	return ok && o.TypeCode == r.TypeCode && bytes.Equal(o.Value, r.Value)
}

// tlvValue validates a TLV record's framing: the expected type code, the
// length octet against the remaining buffer, and (when wantLen >= 0) the
// exact value length for fixed-size options. It returns the total record
// size and the value bytes.
func tlvValue(b []byte, want OptionType, wantLen int) (int, []byte, error) {
	if len(b) < 2 {
		return 0, nil, fmt.Errorf("%w: option record needs type and length octets", ErrTruncated)
	}
	if OptionType(b[0]) != want {
		return 0, nil, fmt.Errorf("%w: option type 0x%02x, expected 0x%02x", ErrBadFormat, b[0], uint8(want))
	}
	vlen := int(b[1])
	if wantLen >= 0 && vlen != wantLen {
		return 0, nil, fmt.Errorf("%w: option 0x%02x length %d, expected %d", ErrBadFormat, b[0], vlen, wantLen)
	}
	if len(b) < 2+vlen {
		return 0, nil, fmt.Errorf("%w: option declares %d value bytes, have %d", ErrTruncated, vlen, len(b)-2)
	}
	return 2 + vlen, b[2 : 2+vlen], nil
}

// decodeOption dispatches on the leading type octet and decodes one option.
func decodeOption(b []byte) (Option, int, error) {
	if len(b) == 0 {
		return nil, 0, fmt.Errorf("%w: empty option buffer", ErrTruncated)
	}
	var o Option
	switch OptionType(b[0]) {
	case OptPad1:
		o = &Pad1{}
	case OptPadN:
		o = &PadN{}
	case OptRouterAlert:
		o = &RouterAlert{}
	case OptTunnelEncapsulationLimit:
		o = &TunnelEncapsulationLimit{}
	case OptHomeAddress:
		o = &HomeAddress{}
	case OptJumboPayload:
		o = &JumboPayload{}
	default:
		o = &RawOption{}
	}
	n, err := o.Unmarshal(b)
	if err != nil {
		return nil, 0, err
	}
	return o, n, nil
}

// OptionList is the ordered option sequence owned by one extension header.
// It supports scalar indexing only; Len counts options, not bytes.
type OptionList struct {
	opts []Option
}

// Len reports the number of options.
func (l *OptionList) Len() int { return len(l.opts) }

// Append adds an option at the end of the list.
func (l *OptionList) Append(o Option) {
	l.opts = append(l.opts, o)
}

// Option returns the option at position i. Negative and past-the-end
// indexes fail with ErrIndexRange.
func (l *OptionList) Option(i int) (Option, error) {
	if i < 0 || i >= len(l.opts) {
		return nil, fmt.Errorf("%w: option %d of %d", ErrIndexRange, i, len(l.opts))
	}
	return l.opts[i], nil
}

// Range always fails with ErrRangeQuery: option lists are read one element
// at a time.
func (l *OptionList) Range(i, j int) ([]Option, error) {
	return nil, fmt.Errorf("%w: option range [%d:%d]", ErrRangeQuery, i, j)
}

func (l *OptionList) clone() OptionList {
	if l.opts == nil {
		return OptionList{}
	}
	c := make([]Option, len(l.opts))
	for i, o := range l.opts {
		c[i] = o.Clone()
	}
	return OptionList{opts: c}
}

func (l *OptionList) equal(other *OptionList) bool {
	if len(l.opts) != len(other.opts) {
		return false
	}
	for i, o := range l.opts {
		if !o.Equal(other.opts[i]) {
			return false
		}
	}
	return true
}

// optionHeader is the shared shape of the two options-bearing extension
// headers: a next-header octet, a length octet, and an owned option list.
type optionHeader struct {
	nextHeader Protocol
	options    OptionList
}

func (h *optionHeader) NextHeader() Protocol { return h.nextHeader }

func (h *optionHeader) setNextHeader(p Protocol) error {
	if err := checkProtocol(p); err != nil {
		return err
	}
	h.nextHeader = p
	return nil
}

// Options exposes the owned option list for indexing and mutation.
func (h *optionHeader) Options() *OptionList { return &h.options }

// AddOption appends o to the option list.
func (h *optionHeader) AddOption(o Option) { h.options.Append(o) }

// NumOptions reports the option count, independent of byte sizes.
func (h *optionHeader) NumOptions() int { return h.options.Len() }

// marshal emits the 2-octet prefix followed by every option's encoding.
// When the total is not 8-aligned it warns through the package logger and
// still returns the bytes: inserting padding is the caller's job.
func (h *optionHeader) marshal(kind HeaderKind) ([]byte, error) {
	b := []byte{byte(h.nextHeader), 0}
	for _, o := range h.options.opts {
		ob, err := o.Marshal()
		if err != nil {
			return nil, err
		}
		b = append(b, ob...)
	}
	total := len(b)
	if total%8 != 0 {
		logger.Warnf("%s header length %d is not an even multiple of 8", kind, total)
	}
	extLen := total/8 - 1
	if extLen > 255 {
		return nil, fmt.Errorf("%w: %s header length %d exceeds the 8-bit length field", ErrBadFormat, kind, total)
	}
	if extLen > 0 {
		b[1] = byte(extLen)
	}
	return b, nil
}

// unmarshal reads the declared header length and decodes options until it
// is exhausted. Every record advances the cursor by at least one octet.
func (h *optionHeader) unmarshal(b []byte) (int, error) {
	if len(b) < 2 {
		return 0, fmt.Errorf("%w: option header needs 2 fixed bytes", ErrTruncated)
	}
	total := (int(b[1]) + 1) * 8
	if total > len(b) {
		return 0, fmt.Errorf("%w: option header declares %d bytes, have %d", ErrTruncated, total, len(b))
	}
	var dec optionHeader
	dec.nextHeader = Protocol(b[0])
	rest := b[2:total]
	for len(rest) > 0 {
		o, n, err := decodeOption(rest)
		if err != nil {
			return 0, err
		}
		dec.options.Append(o)
		rest = rest[n:]
	}
	*h = dec
	return total, nil
}

func (h *optionHeader) equal(other *optionHeader) bool {
	return h.nextHeader == other.nextHeader && h.options.equal(&other.options)
}

func (h *optionHeader) clone() optionHeader {
	return optionHeader{nextHeader: h.nextHeader, options: h.options.clone()}
}

func (h *optionHeader) summary(kind HeaderKind) string {
	return fmt.Sprintf("%s next=%s options=%d", kind, h.nextHeader, h.options.Len())
}

// IPv6HopOption is the hop-by-hop options extension header.
type IPv6HopOption struct {
	optionHeader
}

// NewIPv6HopOption returns an empty hop-by-hop header chaining to the
// no-next sentinel.
func NewIPv6HopOption() *IPv6HopOption {
	return &IPv6HopOption{optionHeader{nextHeader: ProtoIPv6NoNext}}
}

func (h *IPv6HopOption) Kind() HeaderKind { return KindIPv6HopOption }

func (h *IPv6HopOption) SetNextHeader(p Protocol) error { return h.setNextHeader(p) }

func (h *IPv6HopOption) Marshal() ([]byte, error) { return h.marshal(KindIPv6HopOption) }

func (h *IPv6HopOption) Unmarshal(b []byte) (int, error) { return h.optionHeader.unmarshal(b) }

func (h *IPv6HopOption) Clone() Header {
	return &IPv6HopOption{h.optionHeader.clone()}
}

func (h *IPv6HopOption) Equal(other Header) bool {
	o, ok := other.(*IPv6HopOption)
	return ok && h.optionHeader.equal(&o.optionHeader)
}

func (h *IPv6HopOption) String() string { return h.summary(KindIPv6HopOption) }

// IPv6DestinationOption is the destination options extension header.
type IPv6DestinationOption struct {
	optionHeader
}

// NewIPv6DestinationOption returns an empty destination options header
// chaining to the no-next sentinel.
func NewIPv6DestinationOption() *IPv6DestinationOption {
	return &IPv6DestinationOption{optionHeader{nextHeader: ProtoIPv6NoNext}}
}

func (h *IPv6DestinationOption) Kind() HeaderKind { return KindIPv6DestinationOption }

func (h *IPv6DestinationOption) SetNextHeader(p Protocol) error { return h.setNextHeader(p) }

func (h *IPv6DestinationOption) Marshal() ([]byte, error) {
	return h.marshal(KindIPv6DestinationOption)
}

func (h *IPv6DestinationOption) Unmarshal(b []byte) (int, error) { return h.optionHeader.unmarshal(b) }

func (h *IPv6DestinationOption) Clone() Header {
	return &IPv6DestinationOption{h.optionHeader.clone()}
}

func (h *IPv6DestinationOption) Equal(other Header) bool {
	o, ok := other.(*IPv6DestinationOption)
	return ok && h.optionHeader.equal(&o.optionHeader)
}

func (h *IPv6DestinationOption) String() string { return h.summary(KindIPv6DestinationOption) }
